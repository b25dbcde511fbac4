// File: services/planner/planStore.go
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/git-Adi/agenticAI-Travel/models"

	"github.com/go-redis/redis/v8"
)

const planKeyPrefix = "plan:"

var ErrPlanNotFound = errors.New("travel plan not found or expired")

// PlanStore keeps recently generated plans for a limited time.
type PlanStore interface {
	Save(ctx context.Context, plan *models.TravelPlan) error
	Get(ctx context.Context, id string) (*models.TravelPlan, error)
}

type RedisPlanStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPlanStore(client *redis.Client, ttl time.Duration) *RedisPlanStore {
	return &RedisPlanStore{client: client, ttl: ttl}
}

func (s *RedisPlanStore) Get(ctx context.Context, id string) (*models.TravelPlan, error) {
	data, err := s.client.Get(ctx, planKeyPrefix+id).Result()
	if err == redis.Nil {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}
	var plan models.TravelPlan
	if err := json.Unmarshal([]byte(data), &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *RedisPlanStore) Save(ctx context.Context, plan *models.TravelPlan) error {
	b, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, planKeyPrefix+plan.ID, b, s.ttl).Err()
}

type memoryEntry struct {
	data   []byte
	expiry time.Time
}

// MemoryPlanStore is the in-process PlanStore used when redis is disabled.
// Plans are stored encoded so callers never share a mutable plan.
type MemoryPlanStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryPlanStore(ttl time.Duration) *MemoryPlanStore {
	return &MemoryPlanStore{entries: make(map[string]memoryEntry), ttl: ttl, now: time.Now}
}

func (s *MemoryPlanStore) Save(_ context.Context, plan *models.TravelPlan) error {
	b, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, e := range s.entries {
		if now.After(e.expiry) {
			delete(s.entries, id)
		}
	}
	s.entries[plan.ID] = memoryEntry{data: b, expiry: now.Add(s.ttl)}
	return nil
}

func (s *MemoryPlanStore) Get(_ context.Context, id string) (*models.TravelPlan, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok || s.now().After(e.expiry) {
		return nil, ErrPlanNotFound
	}
	var plan models.TravelPlan
	if err := json.Unmarshal(e.data, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}
