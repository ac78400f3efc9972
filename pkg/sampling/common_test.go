package sampling

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"liyu1981.xyz/w1-temperature-service/pkg/db"
	"liyu1981.xyz/w1-temperature-service/pkg/iot"
	"liyu1981.xyz/w1-temperature-service/pkg/models"
	"liyu1981.xyz/w1-temperature-service/pkg/w1"
)

// newTestScheduler wires a scheduler over an isolated memory database and a
// device tree in a temp dir. One interval second is shortened to unit.
func newTestScheduler(t *testing.T, opts Options, unit time.Duration) (*Scheduler, *iot.IOT, string) {
	t.Helper()

	dbInstance, err := db.Open(db.UseIsolatedMemorySqliteDialector())
	require.NoError(t, err)
	iotInstance := iot.New(dbInstance)

	dir := t.TempDir()
	if opts.Reader == nil {
		opts.Reader = w1.NewDeviceReader(dir, time.Second)
	}
	s := New(iotInstance, opts)
	s.unit = unit
	t.Cleanup(func() { s.Stop() })

	return s, iotInstance, dir
}

func writeDevice(t *testing.T, dir, id string, raw int64, valid bool) {
	t.Helper()
	_, err := w1.WriteSlave(dir, id, w1.FormatSlave(raw, valid))
	require.NoError(t, err)
}

func registerSensor(t *testing.T, i *iot.IOT, folder string, unit models.Unit) *models.Sensor {
	t.Helper()
	sensor, err := i.Sensor.RegisterSensor(context.Background(), &models.Sensor{
		Name:   folder,
		Folder: folder,
		Unit:   unit,
	})
	require.NoError(t, err)
	return sensor
}

func samplesOf(t *testing.T, i *iot.IOT, sensorID uint) []models.TemperatureSample {
	t.Helper()
	samples, err := i.Sample.ListSamples(context.Background(), models.SampleQuery{SensorID: sensorID})
	require.NoError(t, err)
	return samples
}

// blockingReader holds every read until release is closed.
type blockingReader struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
	raw     int64
}

func newBlockingReader(raw int64) *blockingReader {
	return &blockingReader{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		raw:     raw,
	}
}

func (r *blockingReader) Read(context.Context, string) (int64, error) {
	r.once.Do(func() { close(r.entered) })
	<-r.release
	return r.raw, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []models.Alert
}

func (n *recordingNotifier) Notify(_ context.Context, alert models.Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
	return nil
}

func (n *recordingNotifier) Close() error { return nil }

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.alerts)
}

// stuckNotifier never delivers; it waits for its context like a sink whose
// broker went away.
type stuckNotifier struct {
	entered     chan struct{}
	once        sync.Once
	hadDeadline bool
}

func newStuckNotifier() *stuckNotifier {
	return &stuckNotifier{entered: make(chan struct{})}
}

func (n *stuckNotifier) Notify(ctx context.Context, _ models.Alert) error {
	_, n.hadDeadline = ctx.Deadline()
	n.once.Do(func() { close(n.entered) })
	<-ctx.Done()
	return ctx.Err()
}

func (n *stuckNotifier) Close() error { return nil }

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		var j any
		if err := json.Unmarshal(scanner.Bytes(), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
