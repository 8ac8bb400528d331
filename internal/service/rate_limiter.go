package service

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/banodoco/Reigh-sub009/internal/pkg/config"
	"github.com/banodoco/Reigh-sub009/internal/pkg/redis"
)

// RequestRateLimit manages keyed sliding-window rate limiting in memory.
// Used for registration abuse protection where a single process suffices.
type RequestRateLimit struct {
	requests map[string][]time.Time
	mu       sync.Mutex
	window   time.Duration
	maxReqs  int
}

// NewRequestRateLimit creates a new rate limiter
func NewRequestRateLimit(window time.Duration, maxReqs int) *RequestRateLimit {
	return &RequestRateLimit{
		requests: make(map[string][]time.Time),
		window:   window,
		maxReqs:  maxReqs,
	}
}

// Check checks if the key is within its rate limit
func (r *RequestRateLimit) Check(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	// Clean old requests
	if reqs, exists := r.requests[key]; exists {
		var valid []time.Time
		for _, t := range reqs {
			if now.Sub(t) < r.window {
				valid = append(valid, t)
			}
		}
		r.requests[key] = valid
	}

	if len(r.requests[key]) >= r.maxReqs {
		return false
	}

	r.requests[key] = append(r.requests[key], now)
	return true
}

// PollAllowed rate-limits worker polling across server replicas through
// redis. Fails open: no redis, or a redis error, never blocks a poll.
func PollAllowed(workerID string) bool {
	if redis.GetClient() == nil {
		return true
	}

	window := 10 * time.Second
	maxReqs := 30
	if cfg := config.Get(); cfg != nil {
		if cfg.Queue.PollWindowSeconds > 0 {
			window = time.Duration(cfg.Queue.PollWindowSeconds) * time.Second
		}
		if cfg.Queue.PollMaxRequests > 0 {
			maxReqs = cfg.Queue.PollMaxRequests
		}
	}

	count, err := redis.CountRequest("poll:"+workerID, window)
	if err != nil {
		zap.L().Debug("poll rate limit check failed", zap.Error(err))
		return true
	}
	return count <= maxReqs
}
