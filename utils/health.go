package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

const healthInterval = 60 * time.Second

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Redis     *bool     `json:"redis,omitempty"`
	Gemini    bool      `json:"gemini"`
	SerpAPI   bool      `json:"serpapi"`
	CheckedAt time.Time `json:"checkedAt"`
}

// HealthMonitor keeps the latest health snapshot.
type HealthMonitor struct {
	mu      sync.RWMutex
	current HealthStatus
	redis   *redis.Client
}

// NewHealthMonitor records which providers are configured. A nil redis
// client leaves the redis field out of the status.
func NewHealthMonitor(redisClient *redis.Client, geminiConfigured, serpConfigured bool) *HealthMonitor {
	return &HealthMonitor{
		redis: redisClient,
		current: HealthStatus{
			Gemini:    geminiConfigured,
			SerpAPI:   serpConfigured,
			CheckedAt: time.Now(),
		},
	}
}

// Status returns latest stored health snapshot.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Check refreshes the snapshot once.
func (m *HealthMonitor) Check(ctx context.Context) {
	m.mu.RLock()
	status := m.current
	m.mu.RUnlock()

	if m.redis != nil {
		ok := m.redis.Ping(ctx).Err() == nil
		status.Redis = &ok
	}
	status.CheckedAt = time.Now()

	m.mu.Lock()
	m.current = status
	m.mu.Unlock()
}

// Start performs periodic health checks until ctx is done.
func (m *HealthMonitor) Start(ctx context.Context) {
	m.Check(ctx)
	go func() {
		ticker := time.NewTicker(healthInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Check(ctx)
			}
		}
	}()
}
