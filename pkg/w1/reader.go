// Package w1 reads DS18B20 style sensors exposed by the kernel one-wire
// drivers under /sys/bus/w1/devices.
package w1

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	DefaultBaseDir = "/sys/bus/w1/devices"
	SlaveFile      = "w1_slave"

	DefaultReadTimeout = 2 * time.Second
)

// Reader returns the raw milli-degree reading of the sensor in folder.
type Reader interface {
	Read(ctx context.Context, folder string) (int64, error)
}

type DeviceReader struct {
	BaseDir string
	Timeout time.Duration

	readFile func(name string) ([]byte, error)

	// at most one read per path is in flight; later callers wait on it
	mu      sync.Mutex
	pending map[string]*pendingRead
}

type pendingRead struct {
	done chan struct{}
	data []byte
	err  error
}

func NewDeviceReader(baseDir string, timeout time.Duration) *DeviceReader {
	if baseDir == "" {
		baseDir = DefaultBaseDir
	}
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	return &DeviceReader{
		BaseDir:  baseDir,
		Timeout:  timeout,
		readFile: os.ReadFile,
		pending:  make(map[string]*pendingRead),
	}
}

// Path resolves the w1_slave file for folder; relative folders live under BaseDir.
func (r *DeviceReader) Path(folder string) string {
	if !filepath.IsAbs(folder) {
		folder = filepath.Join(r.BaseDir, folder)
	}
	return filepath.Join(folder, SlaveFile)
}

func (r *DeviceReader) Read(ctx context.Context, folder string) (int64, error) {
	data, err := r.readWithTimeout(ctx, r.Path(folder))
	if err != nil {
		return 0, &SensorError{Folder: folder, Err: fmt.Errorf("%w: %v", ErrSensorUnavailable, err)}
	}
	raw, err := Parse(data)
	if err != nil {
		return 0, &SensorError{Folder: folder, Err: err}
	}
	return raw, nil
}

// readWithTimeout bounds a read that the kernel may never complete. A
// read that outlives its caller keeps running; callers arriving meanwhile
// share it instead of stacking another goroutine on a hung device.
func (r *DeviceReader) readWithTimeout(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	p := r.startRead(path)
	select {
	case <-p.done:
		return p.data, p.err
	case <-ctx.Done():
		return nil, fmt.Errorf("reading %s: %w", path, ctx.Err())
	}
}

func (r *DeviceReader) startRead(path string) *pendingRead {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.pending[path]; ok {
		return p
	}
	p := &pendingRead{done: make(chan struct{})}
	r.pending[path] = p
	go func() {
		data, err := r.readFile(path)
		r.mu.Lock()
		delete(r.pending, path)
		r.mu.Unlock()
		p.data, p.err = data, err
		close(p.done)
	}()
	return p
}
