package w1

import (
	"fmt"
	"os"
	"path/filepath"
)

// FormatSlave renders raw in the layout the w1-therm driver uses. The crc
// bytes are not real; nothing downstream checks them.
func FormatSlave(raw int64, valid bool) []byte {
	marker := markerValid
	if !valid {
		marker = markerInvalid
	}
	lo, hi := byte(raw/62), byte((raw/62)>>8)
	return fmt.Appendf(nil,
		"%02x %02x 4b 46 7f ff 0c 10 1c : crc=1c %s\n%02x %02x 4b 46 7f ff 0c 10 1c t=%d\n",
		lo, hi, marker, lo, hi, raw)
}

// WriteSlave creates dir/<id>/w1_slave with content, returning the device folder.
func WriteSlave(dir, id string, content []byte) (string, error) {
	folder := filepath.Join(dir, id)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", err
	}
	tmp := filepath.Join(folder, SlaveFile+".tmp")
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return "", err
	}
	return folder, os.Rename(tmp, filepath.Join(folder, SlaveFile))
}
