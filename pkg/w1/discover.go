package w1

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Device is a slave folder found on the bus.
type Device struct {
	ID     string `json:"id"`
	Family string `json:"family"`
	Folder string `json:"folder"`
}

// Discover lists every folder under baseDir that exposes a w1_slave file.
// Bus masters have no such file and are skipped.
func Discover(baseDir string) ([]Device, error) {
	if _, err := os.Stat(baseDir); err != nil {
		return nil, fmt.Errorf("w1 devices dir: %w", err)
	}

	matches, err := filepath.Glob(filepath.Join(baseDir, "*", SlaveFile))
	if err != nil {
		return nil, err
	}

	devices := make([]Device, 0, len(matches))
	for _, match := range matches {
		dir := filepath.Dir(match)
		id := filepath.Base(dir)
		family, _, _ := strings.Cut(id, "-")
		devices = append(devices, Device{ID: id, Family: family, Folder: dir})
	}
	sort.Slice(devices, func(i, j int) bool { return devices[i].ID < devices[j].ID })
	return devices, nil
}
