package ratelimit

import (
	"context"
	"sync"
	"time"
)

type record struct {
	count     int
	resetTime time.Time
}

// Memory is a process-local fixed-window limiter. Counters are not shared
// across instances: each replica enforces the limit independently.
type Memory struct {
	mu      sync.Mutex
	records map[string]*record
	max     int
	window  time.Duration
	now     func() time.Time
}

// NewMemory creates an in-memory limiter allowing max requests per window.
// now is the clock; pass nil for time.Now.
func NewMemory(max int, window time.Duration, now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	m := &Memory{
		records: make(map[string]*record),
		max:     max,
		window:  window,
		now:     now,
	}
	go m.cleanup()
	return m
}

// Allow consumes one slot from key's window. An expired record is replaced
// with a fresh one, never incremented.
func (m *Memory) Allow(_ context.Context, key string) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	rec, ok := m.records[key]
	if !ok || now.After(rec.resetTime) {
		rec = &record{count: 1, resetTime: now.Add(m.window)}
		m.records[key] = rec
		return Result{Allowed: true, Remaining: m.max - 1, ResetAt: rec.resetTime}, nil
	}

	if rec.count >= m.max {
		return Result{Allowed: false, Remaining: 0, ResetAt: rec.resetTime}, nil
	}

	rec.count++
	return Result{Allowed: true, Remaining: m.max - rec.count, ResetAt: rec.resetTime}, nil
}

// cleanup periodically evicts expired records to bound memory growth.
func (m *Memory) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		m.mu.Lock()
		now := m.now()
		for key, rec := range m.records {
			if now.After(rec.resetTime) {
				delete(m.records, key)
			}
		}
		m.mu.Unlock()
	}
}
