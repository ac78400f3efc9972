// Package config layers .env, an optional config.yaml and the process
// environment into a single Config.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"liyu1981.xyz/w1-temperature-service/pkg/common"
)

type Config struct {
	DBType string `mapstructure:"W1_DB_TYPE"`
	DBPath string `mapstructure:"W1_DB_PATH"`

	HttpHostPort string `mapstructure:"W1_HTTP_HOST_PORT"`
	GrpcHostPort string `mapstructure:"W1_GRPC_HOST_PORT"`

	DevicesDir    string `mapstructure:"W1_DEVICES_DIR"`
	ReadTimeoutMs int    `mapstructure:"W1_READ_TIMEOUT_MS"`
	LoadDrivers   bool   `mapstructure:"W1_LOAD_DRIVERS"`

	TempMax          float64 `mapstructure:"W1_TEMP_MAX"`
	TempHysteresis   float64 `mapstructure:"W1_TEMP_HYSTERESIS"`
	ThresholdEnabled bool    `mapstructure:"W1_THRESHOLD_ENABLED"`

	// 0 keeps the scheduler stopped until someone calls start
	AutostartSeconds int `mapstructure:"W1_AUTOSTART_SECONDS"`

	ReadRate  float64 `mapstructure:"W1_READ_RATE"`
	ReadBurst int     `mapstructure:"W1_READ_BURST"`

	JwtSecret     string `mapstructure:"W1_JWT_SECRET"`
	JwtTTLMinutes int    `mapstructure:"W1_JWT_TTL_MINUTES"`
	AuthUsername  string `mapstructure:"W1_AUTH_USERNAME"`
	AuthPassword  string `mapstructure:"W1_AUTH_PASSWORD"`

	AlertSinks   string `mapstructure:"W1_ALERT_SINKS"`
	MqttBroker   string `mapstructure:"W1_MQTT_BROKER"`
	MqttTopic    string `mapstructure:"W1_MQTT_TOPIC"`
	KafkaBrokers string `mapstructure:"W1_KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"W1_KAFKA_TOPIC"`
	NatsURL      string `mapstructure:"W1_NATS_URL"`
	NatsSubject  string `mapstructure:"W1_NATS_SUBJECT"`

	// bounds one alert delivery across all sinks
	NotifyTimeoutMs int `mapstructure:"W1_NOTIFY_TIMEOUT_MS"`
}

var defaults = map[string]any{
	common.EnvKeyDBType:           "file",
	common.EnvKeyDbPath:           "temperature.db",
	common.EnvKeyHttpHostPort:     ":1080",
	common.EnvKeyGrpcHostPort:     "",
	common.EnvKeyDevicesDir:       "/sys/bus/w1/devices",
	common.EnvKeyReadTimeoutMs:    2000,
	common.EnvKeyLoadDrivers:      false,
	common.EnvKeyTempMax:          30.0,
	common.EnvKeyTempHysteresis:   0.0,
	common.EnvKeyThresholdEnabled: true,
	common.EnvKeyAutostartSeconds: 0,
	common.EnvKeyReadRate:         1.0,
	common.EnvKeyReadBurst:        2,
	common.EnvKeyJwtSecret:        "",
	common.EnvKeyJwtTTLMinutes:    60,
	common.EnvKeyAuthUsername:     "",
	common.EnvKeyAuthPassword:     "",
	common.EnvKeyAlertSinks:       "",
	common.EnvKeyMqttBroker:       "tcp://localhost:1883",
	common.EnvKeyMqttTopic:        "w1/alerts",
	common.EnvKeyKafkaBrokers:     "localhost:9092",
	common.EnvKeyKafkaTopic:       "w1.alerts",
	common.EnvKeyNatsURL:          "nats://127.0.0.1:4222",
	common.EnvKeyNatsSubject:      "w1.alerts",
	common.EnvKeyNotifyTimeoutMs:  5000,
}

// Load reads .env into the environment (when present), then builds the
// Config from config.yaml and the environment, environment winning.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, os.ErrNotExist) || common.IsProduction() {
			return nil, fmt.Errorf("loading .env: %w", err)
		}
	}
	return FromViper(NewViper())
}

func NewViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/w1temp")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	return v
}

func FromViper(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.DBType {
	case "file", "memory":
	default:
		return fmt.Errorf("unknown %s: %q", common.EnvKeyDBType, c.DBType)
	}
	if c.ReadTimeoutMs <= 0 {
		return fmt.Errorf("%s must be positive, got %d", common.EnvKeyReadTimeoutMs, c.ReadTimeoutMs)
	}
	if c.NotifyTimeoutMs <= 0 {
		return fmt.Errorf("%s must be positive, got %d", common.EnvKeyNotifyTimeoutMs, c.NotifyTimeoutMs)
	}
	if c.TempHysteresis < 0 {
		return fmt.Errorf("%s must not be negative, got %v", common.EnvKeyTempHysteresis, c.TempHysteresis)
	}
	if c.AutostartSeconds < 0 {
		return fmt.Errorf("%s must not be negative, got %d", common.EnvKeyAutostartSeconds, c.AutostartSeconds)
	}
	if c.ReadBurst < 0 {
		return fmt.Errorf("%s must not be negative, got %d", common.EnvKeyReadBurst, c.ReadBurst)
	}
	for _, sink := range common.SplitList(c.AlertSinks) {
		switch sink {
		case "mqtt", "kafka", "nats":
		default:
			return fmt.Errorf("unknown alert sink %q in %s", sink, common.EnvKeyAlertSinks)
		}
	}
	return nil
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMs) * time.Millisecond
}

func (c *Config) NotifyTimeout() time.Duration {
	return time.Duration(c.NotifyTimeoutMs) * time.Millisecond
}

func (c *Config) JwtTTL() time.Duration {
	return time.Duration(c.JwtTTLMinutes) * time.Minute
}

// AuthEnabled reports whether the temperature routes sit behind a JWT.
func (c *Config) AuthEnabled() bool {
	return c.JwtSecret != ""
}
