package notify

import (
	"go.uber.org/zap"
	"liyu1981.xyz/w1-temperature-service/pkg/common"
	"liyu1981.xyz/w1-temperature-service/pkg/config"
)

// FromConfig connects every sink listed in W1_ALERT_SINKS. A sink that
// cannot connect is logged and left out so alerts still reach the others.
func FromConfig(cfg *config.Config) Notifier {
	logger := common.GetLoggerWith(common.LoggerNameNotify)

	timeout := cfg.NotifyTimeout()
	var sinks Multi
	for _, name := range common.SplitList(cfg.AlertSinks) {
		var (
			n   Notifier
			err error
		)
		switch name {
		case "mqtt":
			n, err = NewMQTT(cfg.MqttBroker, cfg.MqttTopic, timeout)
		case "kafka":
			n, err = NewKafka(common.SplitList(cfg.KafkaBrokers), cfg.KafkaTopic)
		case "nats":
			n, err = NewNATS(cfg.NatsURL, cfg.NatsSubject, timeout)
		default:
			logger.Warn("Unknown alert sink", zap.String("sink", name))
			continue
		}
		if err != nil {
			logger.Error("Alert sink unavailable", zap.String("sink", name), zap.Error(err))
			continue
		}
		logger.Info("Alert sink connected", zap.String("sink", name))
		sinks = append(sinks, n)
	}

	if len(sinks) == 0 {
		return Nop{}
	}
	return sinks
}
