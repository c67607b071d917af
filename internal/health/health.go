// Package health tracks the liveness of the server's backing
// dependencies (SQLite, Redis, MongoDB, the content service) for the
// /health endpoint.
package health

import (
	"context"
	"log"
	"sync"
	"time"
)

// Status is the health state of one component
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
)

// CheckFunc probes one dependency. A nil error means healthy.
type CheckFunc func(ctx context.Context) error

// ComponentHealth is the last observed state of one dependency
type ComponentHealth struct {
	Name        string    `json:"name"`
	Required    bool      `json:"required"`
	Status      Status    `json:"status"`
	LatencyMs   int64     `json:"latencyMs"`
	LastChecked time.Time `json:"lastChecked"`
	LastError   string    `json:"lastError,omitempty"`
}

type component struct {
	health ComponentHealth
	check  CheckFunc
}

// Service runs dependency checks and caches their results. Optional
// components (Redis, MongoDB) degrade the report without flipping the
// overall status.
type Service struct {
	mu         sync.RWMutex
	components map[string]*component
	order      []string
}

// NewService creates an empty health service
func NewService() *Service {
	return &Service{components: make(map[string]*component)}
}

// Register adds a dependency to check. Registration order is the
// report order.
func (s *Service) Register(name string, required bool, check CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.components[name]; exists {
		return
	}
	s.components[name] = &component{
		health: ComponentHealth{Name: name, Required: required, Status: StatusUnknown},
		check:  check,
	}
	s.order = append(s.order, name)
}

// Check probes every registered dependency and updates the cache
func (s *Service) Check(ctx context.Context) {
	s.mu.RLock()
	names := make([]string, len(s.order))
	copy(names, s.order)
	s.mu.RUnlock()

	for _, name := range names {
		s.checkOne(ctx, name)
	}
}

func (s *Service) checkOne(ctx context.Context, name string) {
	s.mu.RLock()
	comp, exists := s.components[name]
	s.mu.RUnlock()
	if !exists {
		return
	}

	checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	started := time.Now()
	err := comp.check(checkCtx)
	latency := time.Since(started).Milliseconds()

	s.mu.Lock()
	defer s.mu.Unlock()

	wasUnhealthy := comp.health.Status == StatusUnhealthy
	comp.health.LatencyMs = latency
	comp.health.LastChecked = time.Now()
	if err != nil {
		comp.health.Status = StatusUnhealthy
		comp.health.LastError = err.Error()
		if !wasUnhealthy {
			log.Printf("[HEALTH] %s check failed: %v", name, err)
		}
		return
	}
	comp.health.Status = StatusHealthy
	comp.health.LastError = ""
	if wasUnhealthy {
		log.Printf("[HEALTH] %s recovered - now healthy", name)
	}
}

// Snapshot returns the cached state of every component in
// registration order
func (s *Service) Snapshot() []ComponentHealth {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ComponentHealth, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.components[name].health)
	}
	return out
}

// Overall collapses the component states into one status: unhealthy if
// any required dependency is unhealthy, otherwise healthy.
func (s *Service) Overall() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, comp := range s.components {
		if comp.health.Required && comp.health.Status == StatusUnhealthy {
			return StatusUnhealthy
		}
	}
	return StatusHealthy
}
