package w1

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"liyu1981.xyz/w1-temperature-service/pkg/common"
	_ "liyu1981.xyz/w1-temperature-service/pkg/testing"
)

func TestModprobeInitializer(t *testing.T) {
	common.SetTestLoggerNop()

	var calls [][]string
	m := NewModprobeInitializer()
	m.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		calls = append(calls, append([]string{name}, args...))
		return nil, nil
	}

	assert.NoError(t, m.EnsureDriversLoaded(context.Background()))
	assert.Equal(t, [][]string{{"modprobe", "w1-gpio"}, {"modprobe", "w1-therm"}}, calls)
}

func TestModprobeInitializerFailure(t *testing.T) {
	common.SetTestLoggerNop()

	m := NewModprobeInitializer("w1-gpio", "w1-therm")
	m.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("modprobe: FATAL: Module w1-gpio not found\n"), errors.New("exit status 1")
	}

	err := m.EnsureDriversLoaded(context.Background())
	assert.ErrorContains(t, err, "modprobe w1-gpio")
	assert.ErrorContains(t, err, "not found")
}

func TestNopInitializer(t *testing.T) {
	var h HardwareInitializer = NopInitializer{}
	assert.NoError(t, h.EnsureDriversLoaded(context.Background()))
}
