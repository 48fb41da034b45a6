package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/neexbeast/roadtrip-planner/internal/trip"
)

// MemoryStore keeps plans in process memory. Plans are stored as encoded
// copies so callers cannot mutate what has been saved.
type MemoryStore struct {
	mu    sync.RWMutex
	plans map[string][]byte
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{plans: make(map[string][]byte)}
}

// Save stores a copy of plan, replacing any plan with the same id.
func (s *MemoryStore) Save(_ context.Context, plan *trip.Plan) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("marshaling trip plan %s: %w", plan.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[plan.ID] = data
	return nil
}

// Get returns a copy of the plan, or nil, nil when absent.
func (s *MemoryStore) Get(_ context.Context, id string) (*trip.Plan, error) {
	s.mu.RLock()
	data, ok := s.plans[id]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return decodePlan(data)
}

// List returns copies of every plan, newest first.
func (s *MemoryStore) List(_ context.Context) ([]*trip.Plan, error) {
	return s.filter(func(*trip.Plan) bool { return true })
}

// ListByCategory returns plans with at least one selected POI in category,
// newest first.
func (s *MemoryStore) ListByCategory(_ context.Context, category string) ([]*trip.Plan, error) {
	return s.filter(func(p *trip.Plan) bool { return p.HasCategory(category) })
}

// Delete removes a plan. Deleting an unknown id is not an error.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.plans, id)
	return nil
}

func (s *MemoryStore) filter(keep func(*trip.Plan) bool) ([]*trip.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*trip.Plan, 0, len(s.plans))
	for _, data := range s.plans {
		plan, err := decodePlan(data)
		if err != nil {
			return nil, err
		}
		if keep(plan) {
			out = append(out, plan)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func decodePlan(data []byte) (*trip.Plan, error) {
	var plan trip.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("unmarshaling trip plan: %w", err)
	}
	return &plan, nil
}
