package services

import (
	"errors"
	"sync"
	"time"
)

const (
	DefaultMaxFailures = 3
	DefaultResetWindow = 300 * time.Second
)

type Backend struct {
	Tag    string
	Client GenerativeClient
}

type BackendStats struct {
	Tag      string    `json:"tag"`
	Failures int       `json:"failures"`
	LastUsed time.Time `json:"last_used"`
}

type BalancerConfig struct {
	MaxFailures int
	ResetWindow time.Duration
	// defaults to time.Now
	Now func() time.Time
	// called outside the lock whenever every backend is over MaxFailures
	OnExhausted func(stats []BackendStats)
}

type backendState struct {
	Backend
	failures int
	lastUsed time.Time
}

// Balancer picks among interchangeable generative backends, preferring them
// in the order given. A backend with MaxFailures recent failures is skipped
// until a success decrements it or ResetWindow passes without it being used.
// When every backend is over the limit the first one is reset and used anyway.
type Balancer struct {
	mu          sync.Mutex
	backends    []*backendState
	maxFailures int
	resetWindow time.Duration
	now         func() time.Time
	onExhausted func(stats []BackendStats)
}

func NewBalancer(cfg BalancerConfig, backends ...Backend) (*Balancer, error) {
	if len(backends) == 0 {
		return nil, errors.New("balancer needs at least one backend")
	}
	b := &Balancer{
		maxFailures: cfg.MaxFailures,
		resetWindow: cfg.ResetWindow,
		now:         cfg.Now,
		onExhausted: cfg.OnExhausted,
	}
	if b.maxFailures <= 0 {
		b.maxFailures = DefaultMaxFailures
	}
	if b.resetWindow <= 0 {
		b.resetWindow = DefaultResetWindow
	}
	if b.now == nil {
		b.now = time.Now
	}
	for _, backend := range backends {
		if backend.Client == nil {
			continue
		}
		b.backends = append(b.backends, &backendState{Backend: backend})
	}
	if len(b.backends) == 0 {
		return nil, errors.New("balancer needs at least one configured backend")
	}
	return b, nil
}

func (b *Balancer) Acquire() (GenerativeClient, string) {
	b.mu.Lock()
	now := b.now()
	for _, s := range b.backends {
		if s.failures > 0 && now.Sub(s.lastUsed) > b.resetWindow {
			s.failures = 0
		}
	}

	for _, s := range b.backends {
		if s.failures < b.maxFailures {
			s.lastUsed = now
			b.mu.Unlock()
			return s.Client, s.Tag
		}
	}

	stats := b.statsLocked()
	first := b.backends[0]
	first.failures = 0
	first.lastUsed = now
	hook := b.onExhausted
	b.mu.Unlock()

	if hook != nil {
		hook(stats)
	}
	return first.Client, first.Tag
}

func (b *Balancer) ReportSuccess(tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s := b.find(tag); s != nil {
		s.failures = max(0, s.failures-1)
		s.lastUsed = b.now()
	}
}

func (b *Balancer) ReportFailure(tag string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s := b.find(tag); s != nil {
		s.failures++
		s.lastUsed = b.now()
	}
}

func (b *Balancer) Stats() []BackendStats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.statsLocked()
}

func (b *Balancer) statsLocked() []BackendStats {
	stats := make([]BackendStats, 0, len(b.backends))
	for _, s := range b.backends {
		stats = append(stats, BackendStats{Tag: s.Tag, Failures: s.failures, LastUsed: s.lastUsed})
	}
	return stats
}

func (b *Balancer) find(tag string) *backendState {
	for _, s := range b.backends {
		if s.Tag == tag {
			return s
		}
	}
	return nil
}
