package iot

import (
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiterStore keeps one limiter per sensor id so on-demand reads
// cannot keep a slow one-wire device permanently busy.
type RateLimiterStore struct {
	limiters     map[uint]*rate.Limiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

func NewRateLimiterStore(defaultRate rate.Limit, defaultBurst int) *RateLimiterStore {
	return &RateLimiterStore{
		limiters:     make(map[uint]*rate.Limiter),
		defaultRate:  defaultRate,
		defaultBurst: defaultBurst,
	}
}

func (s *RateLimiterStore) GetLimiter(sensorID uint) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[sensorID]
	if !exists {
		limiter = rate.NewLimiter(s.defaultRate, s.defaultBurst)
		s.limiters[sensorID] = limiter
	}
	return limiter
}

func (s *RateLimiterStore) SetLimiter(sensorID uint, sensorRate rate.Limit, sensorBurst int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[sensorID] = rate.NewLimiter(sensorRate, sensorBurst)
}

// Allow is nil safe: without a store every request passes.
func (s *RateLimiterStore) Allow(sensorID uint) bool {
	if s == nil {
		return true
	}
	return s.GetLimiter(sensorID).Allow()
}

// Forget drops the limiter of a deleted sensor.
func (s *RateLimiterStore) Forget(sensorID uint) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.limiters, sensorID)
}
