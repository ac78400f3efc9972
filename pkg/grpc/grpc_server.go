package grpc

import (
	"golang.org/x/time/rate"

	"liyu1981.xyz/w1-temperature-service/pkg/iot"
	"liyu1981.xyz/w1-temperature-service/pkg/sampling"
)

type SamplingServer struct {
	Sampler          sampling.Controller
	RateLimiterStore *iot.RateLimiterStore
}

func (s *SamplingServer) GetLimiter(sensorID uint) *rate.Limiter {
	if s.RateLimiterStore == nil {
		return nil
	}
	return s.RateLimiterStore.GetLimiter(sensorID)
}

func (s *SamplingServer) CheckSensorLimiter(sensorID uint) bool {
	limiter := s.GetLimiter(sensorID)
	if limiter == nil {
		return true
	}
	return limiter.Allow()
}
