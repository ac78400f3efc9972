package w1

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
	"liyu1981.xyz/w1-temperature-service/pkg/common"
)

var DefaultModules = []string{"w1-gpio", "w1-therm"}

// HardwareInitializer makes sure the kernel exposes the bus before any
// sensor is read. It is called once at process start.
type HardwareInitializer interface {
	EnsureDriversLoaded(ctx context.Context) error
}

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

type ModprobeInitializer struct {
	Modules []string
	run     commandRunner
}

func NewModprobeInitializer(modules ...string) *ModprobeInitializer {
	if len(modules) == 0 {
		modules = DefaultModules
	}
	return &ModprobeInitializer{Modules: modules, run: runCommand}
}

func (m *ModprobeInitializer) EnsureDriversLoaded(ctx context.Context) error {
	logger := common.GetLoggerWith(
		common.LoggerNameW1,
		zap.String(common.LoggerFieldCategory, common.LoggerCategoryDriver),
	)

	for _, module := range m.Modules {
		out, err := m.run(ctx, "modprobe", module)
		if err != nil {
			return fmt.Errorf("modprobe %s: %w: %s", module, err, strings.TrimSpace(string(out)))
		}
		logger.Info("Kernel module loaded", zap.String("module", module))
	}
	return nil
}

// NopInitializer is used when drivers are managed outside the service.
type NopInitializer struct{}

func (NopInitializer) EnsureDriversLoaded(context.Context) error {
	return nil
}
