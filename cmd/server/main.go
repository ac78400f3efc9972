package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"liyu1981.xyz/w1-temperature-service/pkg/common"
	"liyu1981.xyz/w1-temperature-service/pkg/config"
	"liyu1981.xyz/w1-temperature-service/pkg/db"
	w1Grpc "liyu1981.xyz/w1-temperature-service/pkg/grpc"
	w1Http "liyu1981.xyz/w1-temperature-service/pkg/http"
	"liyu1981.xyz/w1-temperature-service/pkg/iot"
	"liyu1981.xyz/w1-temperature-service/pkg/metrics"
	"liyu1981.xyz/w1-temperature-service/pkg/notify"
	"liyu1981.xyz/w1-temperature-service/pkg/sampling"
	"liyu1981.xyz/w1-temperature-service/pkg/threshold"
	"liyu1981.xyz/w1-temperature-service/pkg/w1"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading config, copy .env.example to .env first if in development: ", err)
	}

	var dbInstance *db.DB
	switch cfg.DBType {
	case "file":
		dbInstance = db.GetInstance(db.UseSqliteDialector(cfg.DBPath))
	case "memory":
		dbInstance = db.GetInstance(db.UseMemorySqliteDialector())
	}

	logger := common.GetLogger()

	var initializer w1.HardwareInitializer = w1.NopInitializer{}
	if cfg.LoadDrivers {
		initializer = w1.NewModprobeInitializer()
	}
	if err := initializer.EnsureDriversLoaded(context.Background()); err != nil {
		// the bus may still be there if the modules are built in
		logger.Warn("Failed to load w1 kernel modules", zap.Error(err))
	}

	iotCore := iot.New(dbInstance)
	notifier := notify.FromConfig(cfg)
	m := metrics.New(prometheus.DefaultRegisterer)

	scheduler := sampling.New(iotCore, sampling.Options{
		Reader: w1.NewDeviceReader(cfg.DevicesDir, cfg.ReadTimeout()),
		Monitor: threshold.NewMonitor(threshold.Config{
			Enabled:    cfg.ThresholdEnabled,
			Max:        cfg.TempMax,
			Hysteresis: cfg.TempHysteresis,
		}),
		Notifier:      notifier,
		Metrics:       m,
		NotifyTimeout: cfg.NotifyTimeout(),
	})

	limiterStore := iot.NewRateLimiterStore(rate.Limit(cfg.ReadRate), cfg.ReadBurst)
	defaultLimiter := zap.String("default_limiter",
		fmt.Sprintf("{\"default_rate\": %v, \"default_burst\": %v}", cfg.ReadRate, cfg.ReadBurst))

	var grpcServer *grpc.Server
	if cfg.GrpcHostPort != "" {
		grpcServer = w1Grpc.NewServer(&w1Grpc.SamplingServer{
			Sampler:          scheduler,
			RateLimiterStore: limiterStore,
		})
		logger.Info("gRPC server created with:", defaultLimiter)

		listener, err := net.Listen("tcp", cfg.GrpcHostPort)
		if err != nil {
			log.Fatalf("failed to listen: %v", err)
		}
		go func() {
			logger.Info("Starting gRPC server on: " + cfg.GrpcHostPort)
			if err := grpcServer.Serve(listener); err != nil {
				log.Fatalf("grpc server failed to serve: %v", err)
			}
		}()
	}

	if common.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), w1Http.RequestLogger())

	rs := &w1Http.RestfulServer{
		Server:           engine,
		Iot:              iotCore,
		Sampler:          scheduler,
		RateLimiterStore: limiterStore,
		Metrics:          m,
		DevicesDir:       cfg.DevicesDir,
	}
	if cfg.AuthEnabled() {
		rs.Auth = w1Http.NewAuth(cfg.JwtSecret, cfg.JwtTTL(), cfg.AuthUsername, cfg.AuthPassword)
	} else {
		logger.Warn("W1_JWT_SECRET not set, temperature routes are not protected")
	}
	rs.Setup()
	logger.Info("http server created with:", defaultLimiter)

	httpServer := &http.Server{
		Addr:    cfg.HttpHostPort,
		Handler: rs.Server,
	}
	go func() {
		logger.Info("Starting HTTP server on: " + cfg.HttpHostPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server failed to serve: %v", err)
		}
	}()

	if cfg.AutostartSeconds > 0 {
		if _, err := scheduler.Start(cfg.AutostartSeconds); err != nil {
			log.Fatalf("failed to start polling: %v", err)
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Info("Shutting down", zap.String("signal", sig.String()))

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown", zap.Error(err))
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if err := notifier.Close(); err != nil {
		logger.Error("closing alert sinks", zap.Error(err))
	}
	_ = logger.Sync()
}
