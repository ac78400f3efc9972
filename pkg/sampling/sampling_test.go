package sampling

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/w1-temperature-service/pkg/common"
	"liyu1981.xyz/w1-temperature-service/pkg/db"
	"liyu1981.xyz/w1-temperature-service/pkg/iot"
	"liyu1981.xyz/w1-temperature-service/pkg/models"
	"liyu1981.xyz/w1-temperature-service/pkg/threshold"
	"liyu1981.xyz/w1-temperature-service/pkg/w1"
	_ "liyu1981.xyz/w1-temperature-service/pkg/testing"
)

func TestStartTwiceKeepsFirstInterval(t *testing.T) {
	common.SetTestLoggerNop()
	s, _, _ := newTestScheduler(t, Options{}, time.Second)

	state, err := s.Start(60)
	require.NoError(t, err)
	assert.True(t, state.Running)
	assert.Equal(t, 60, state.IntervalSeconds)
	assert.Equal(t, 60*time.Second, state.Interval)

	state, err = s.Start(5)
	require.NoError(t, err)
	assert.True(t, state.Running)
	assert.Equal(t, 60, state.IntervalSeconds)
	assert.Equal(t, 60, s.State().IntervalSeconds)
}

func TestStopBeforeStartIsNoop(t *testing.T) {
	common.SetTestLoggerNop()
	s, _, _ := newTestScheduler(t, Options{}, time.Second)

	state := s.Stop()
	assert.False(t, state.Running)
	assert.Zero(t, state.Ticks)

	state = s.Stop()
	assert.False(t, state.Running)
}

func TestStartRejectsNonPositiveInterval(t *testing.T) {
	common.SetTestLoggerNop()
	s, _, _ := newTestScheduler(t, Options{}, time.Second)

	for _, seconds := range []int{0, -5, math.MaxInt64, int(math.MaxInt64/int64(time.Second)) + 1} {
		state, err := s.Start(seconds)
		var cfgErr *common.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "interval", cfgErr.Field)
		assert.Equal(t, seconds, cfgErr.Value)
		assert.False(t, state.Running)
		assert.False(t, s.State().Running)
		assert.Zero(t, s.State().IntervalSeconds)
	}
}

func TestStartStopRestart(t *testing.T) {
	common.SetTestLoggerNop()
	s, _, _ := newTestScheduler(t, Options{}, time.Millisecond)

	_, err := s.Start(20)
	require.NoError(t, err)
	state := s.Stop()
	assert.False(t, state.Running)
	assert.Zero(t, state.IntervalSeconds)

	state, err = s.Start(30)
	require.NoError(t, err)
	assert.True(t, state.Running)
	assert.Equal(t, 30, state.IntervalSeconds)
}

func TestTwoTicksBeforeStop(t *testing.T) {
	common.SetTestLoggerNop()
	s, i, dir := newTestScheduler(t, Options{}, 20*time.Millisecond)

	writeDevice(t, dir, "28-healthy", 21500, true)
	sensor := registerSensor(t, i, "28-healthy", models.UnitCelsius)

	_, err := s.Start(1)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return s.State().Ticks >= 2 }, 2*time.Second, 5*time.Millisecond)
	state := s.Stop()

	samples := samplesOf(t, i, sensor.ID)
	assert.GreaterOrEqual(t, len(samples), 2)
	assert.Equal(t, int(state.Ticks), len(samples))
	for n := 1; n < len(samples); n++ {
		assert.False(t, samples[n].Timestamp.Before(samples[n-1].Timestamp))
	}

	// stopped loops do not tick any more
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, state.Ticks, s.State().Ticks)
	assert.Len(t, samplesOf(t, i, sensor.ID), len(samples))
}

func TestFirstTickRunsOnStart(t *testing.T) {
	common.SetTestLoggerNop()
	s, i, dir := newTestScheduler(t, Options{}, time.Second)

	writeDevice(t, dir, "28-first", 19000, true)
	sensor := registerSensor(t, i, "28-first", models.UnitCelsius)

	_, err := s.Start(3600)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return s.State().Ticks == 1 }, 2*time.Second, 5*time.Millisecond)

	samples := samplesOf(t, i, sensor.ID)
	require.Len(t, samples, 1)
	assert.Equal(t, 19.0, samples[0].Value)
}

func TestStopWaitsForTickInFlight(t *testing.T) {
	common.SetTestLoggerNop()
	reader := newBlockingReader(22000)
	s, i, _ := newTestScheduler(t, Options{Reader: reader}, time.Second)

	sensor := registerSensor(t, i, "28-slow", models.UnitCelsius)

	_, err := s.Start(3600)
	require.NoError(t, err)
	<-reader.entered

	stopped := make(chan PollingState)
	go func() { stopped <- s.Stop() }()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a tick was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	// state stays readable while the tick is blocked
	assert.True(t, s.State().Running)

	close(reader.release)
	state := <-stopped
	assert.False(t, state.Running)
	assert.Len(t, samplesOf(t, i, sensor.ID), 1)
}

func TestStopReturnsWhenAlertSinkHangs(t *testing.T) {
	common.SetTestLoggerNop()
	notifier := newStuckNotifier()
	s, i, dir := newTestScheduler(t, Options{
		Monitor:       threshold.NewMonitor(threshold.Config{Enabled: true, Max: 30}),
		Notifier:      notifier,
		NotifyTimeout: 50 * time.Millisecond,
	}, time.Second)

	writeDevice(t, dir, "28-hot", 35000, true)
	sensor := registerSensor(t, i, "28-hot", models.UnitCelsius)

	_, err := s.Start(3600)
	require.NoError(t, err)
	<-notifier.entered

	stopped := make(chan PollingState)
	go func() { stopped <- s.Stop() }()

	select {
	case state := <-stopped:
		assert.False(t, state.Running)
	case <-time.After(3 * time.Second):
		t.Fatal("Stop blocked behind an alert delivery that never finished")
	}

	assert.True(t, notifier.hadDeadline)
	// the alert is stored even though nobody was told
	alerts, err := i.Alert.GetSensorAlerts(context.Background(), sensor.ID)
	require.NoError(t, err)
	assert.Len(t, alerts, 1)

	_, err = s.Start(3600)
	require.NoError(t, err)
	assert.False(t, s.Stop().Running)
}

func TestTicksAndWriterShareFileDatabase(t *testing.T) {
	common.SetTestLoggerNop()
	ctx := context.Background()

	dbInstance, err := db.Open(db.UseSqliteDialector(filepath.Join(t.TempDir(), "w1.db")))
	require.NoError(t, err)
	i := iot.New(dbInstance)

	dir := t.TempDir()
	s := New(i, Options{Reader: w1.NewDeviceReader(dir, time.Second)})
	s.unit = 5 * time.Millisecond
	t.Cleanup(func() { s.Stop() })

	for _, id := range []string{"28-a", "28-b", "28-c"} {
		writeDevice(t, dir, id, 21500, true)
		registerSensor(t, i, id, models.UnitCelsius)
	}

	_, err = s.Start(1)
	require.NoError(t, err)

	// an API client registering sensors and pruning samples while ticks write
	const writes = 40
	errs := make(chan error, writes)
	var wg sync.WaitGroup
	for n := range writes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sensor, err := i.Sensor.RegisterSensor(ctx, &models.Sensor{
				Name:   fmt.Sprintf("api-%d", n),
				Folder: fmt.Sprintf("28-api%d", n),
				Unit:   models.UnitFahrenheit,
			})
			if err != nil {
				errs <- err
				return
			}
			errs <- i.Sensor.DeleteSensor(ctx, sensor.ID)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	require.Eventually(t, func() bool { return s.State().Ticks >= 5 }, 5*time.Second, 5*time.Millisecond)
	state := s.Stop()

	sensors, err := i.Sensor.ListSensors(ctx)
	require.NoError(t, err)
	require.Len(t, sensors, 3)
	for _, sensor := range sensors {
		samples := samplesOf(t, i, sensor.ID)
		// every tick writes each healthy sensor once, nothing is dropped
		assert.Len(t, samples, int(state.Ticks))
	}
}
