package common

const (
	EnvKeyGoEnv string = "GO_ENV"

	EnvKeyLogDir string = "W1_LOG_DIR"

	EnvKeyDBType string = "W1_DB_TYPE"
	EnvKeyDbPath string = "W1_DB_PATH"

	EnvKeyHttpHostPort string = "W1_HTTP_HOST_PORT"
	EnvKeyGrpcHostPort string = "W1_GRPC_HOST_PORT"

	EnvKeyDevicesDir    string = "W1_DEVICES_DIR"
	EnvKeyReadTimeoutMs string = "W1_READ_TIMEOUT_MS"
	EnvKeyLoadDrivers   string = "W1_LOAD_DRIVERS"

	EnvKeyTempMax          string = "W1_TEMP_MAX"
	EnvKeyTempHysteresis   string = "W1_TEMP_HYSTERESIS"
	EnvKeyThresholdEnabled string = "W1_THRESHOLD_ENABLED"

	EnvKeyAutostartSeconds string = "W1_AUTOSTART_SECONDS"

	EnvKeyReadRate  string = "W1_READ_RATE"
	EnvKeyReadBurst string = "W1_READ_BURST"

	EnvKeyJwtSecret     string = "W1_JWT_SECRET"
	EnvKeyJwtTTLMinutes string = "W1_JWT_TTL_MINUTES"
	EnvKeyAuthUsername  string = "W1_AUTH_USERNAME"
	EnvKeyAuthPassword  string = "W1_AUTH_PASSWORD"

	EnvKeyAlertSinks      string = "W1_ALERT_SINKS"
	EnvKeyNotifyTimeoutMs string = "W1_NOTIFY_TIMEOUT_MS"
	EnvKeyMqttBroker      string = "W1_MQTT_BROKER"
	EnvKeyMqttTopic       string = "W1_MQTT_TOPIC"
	EnvKeyKafkaBrokers    string = "W1_KAFKA_BROKERS"
	EnvKeyKafkaTopic      string = "W1_KAFKA_TOPIC"
	EnvKeyNatsURL         string = "W1_NATS_URL"
	EnvKeyNatsSubject     string = "W1_NATS_SUBJECT"

	LoggerNameSampling      string = "sampling"
	LoggerNameIOTCore       string = "iot_core"
	LoggerNameRestfulServer string = "restful_server"
	LoggerNameGrpcServer    string = "grpc_server"
	LoggerNameW1            string = "w1"
	LoggerNameNotify        string = "notify"

	LoggerFieldCategory  string = "category"
	LoggerCategoryTick   string = "tick"
	LoggerCategoryState  string = "state"
	LoggerCategorySensor string = "sensor"
	LoggerCategorySample string = "sample"
	LoggerCategoryAlert  string = "alert"
	LoggerCategoryDriver string = "driver"
)
