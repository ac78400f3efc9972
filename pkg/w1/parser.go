package w1

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	markerValid   = "YES"
	markerInvalid = "NO"
	tempPrefix    = "t="
)

// Parse reads the two line w1_slave grammar:
//
//	72 01 4b 46 7f ff 0e 10 57 : crc=57 YES
//	72 01 4b 46 7f ff 0e 10 57 t=23125
//
// and returns the t= value in thousandths of a degree Celsius. Only the
// trailing marker on line 1 and the t= field on line 2 are significant.
func Parse(data []byte) (int64, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	if err := parseStatusLine(lines[0]); err != nil {
		return 0, err
	}
	if len(lines) < 2 {
		return 0, fmt.Errorf("%w: missing temperature line", ErrSensorFormat)
	}
	return parseTemperatureLine(lines[1])
}

func parseStatusLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty status line", ErrSensorReadInvalid)
	}
	switch fields[len(fields)-1] {
	case markerValid:
		return nil
	case markerInvalid:
		return fmt.Errorf("%w: bus reported a crc mismatch", ErrSensorReadInvalid)
	default:
		return fmt.Errorf("%w: missing validity marker in %q", ErrSensorReadInvalid, line)
	}
}

func parseTemperatureLine(line string) (int64, error) {
	fields := strings.Fields(line)
	for i := len(fields) - 1; i >= 0; i-- {
		if !strings.HasPrefix(fields[i], tempPrefix) {
			continue
		}
		raw, err := strconv.ParseInt(strings.TrimPrefix(fields[i], tempPrefix), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrSensorFormat, fields[i])
		}
		return raw, nil
	}
	return 0, fmt.Errorf("%w: no t= field in %q", ErrSensorFormat, line)
}
