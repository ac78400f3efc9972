package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/host"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"liyu1981.xyz/w1-temperature-service/pkg/common"
	"liyu1981.xyz/w1-temperature-service/pkg/iot"
	"liyu1981.xyz/w1-temperature-service/pkg/metrics"
	"liyu1981.xyz/w1-temperature-service/pkg/sampling"
)

type RestfulServer struct {
	Server           *gin.Engine
	Iot              *iot.IOT
	Sampler          sampling.Controller
	RateLimiterStore *iot.RateLimiterStore
	Metrics          *metrics.Metrics
	// nil leaves the temperature routes open
	Auth       *Auth
	DevicesDir string
	HostInfo   func(ctx context.Context) (*host.InfoStat, error)
}

func (rs *RestfulServer) CheckSensorLimiter(sensorID uint) bool {
	return rs.RateLimiterStore.Allow(sensorID)
}

func (rs *RestfulServer) SetLimiter(sensorID uint, sensorRate float64, sensorBurst int) {
	if rs.RateLimiterStore == nil {
		return
	}
	rs.RateLimiterStore.SetLimiter(sensorID, rate.Limit(sensorRate), sensorBurst)
}

func (rs *RestfulServer) Setup() {
	rs.Server.GET("/healthz", rs.HealthCheck)
	rs.Server.GET("/metrics", gin.WrapH(rs.Metrics.Handler()))
	rs.Server.POST("/auth/login", rs.Login)

	temperature := rs.Server.Group("/temperature")
	if rs.Auth != nil {
		temperature.Use(rs.Auth.Middleware())
	}
	{
		temperature.POST("/sensor", rs.RegisterSensor)
		temperature.GET("/sensor", rs.ListSensors)
		temperature.GET("/sensor/:id", rs.GetSensor)
		temperature.DELETE("/sensor/:id", rs.DeleteSensor)

		temperature.GET("/start/:seconds", rs.StartPolling)
		temperature.GET("/stop", rs.StopPolling)
		temperature.GET("/status", rs.PollingStatus)

		temperature.GET("/read/:sensor", rs.ReadNow)
		temperature.POST("/read/:sensor/limiter", rs.PostLimiter)

		temperature.GET("", rs.GetSamples)
		temperature.DELETE("/:id", rs.DeleteSample)

		temperature.GET("/alerts", rs.GetAlerts)
		temperature.GET("/devices", rs.GetDevices)
	}
}

// RequestLogger writes one access log line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := common.GetLoggerWith(common.LoggerNameRestfulServer)
		start := time.Now()

		c.Next()

		logger.Info("Request handled",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
