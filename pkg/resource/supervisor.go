// pkg/resource/supervisor.go

// Package resource supervises the goroutines of a play session: the game
// loop, the terminal input listener and a memory monitor. The session ends
// as soon as any of them returns.
package resource

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/opd-ai/go-tankgame/pkg/logging"
)

// Limits bounds a session
type Limits struct {
	MaxGoroutines   int
	MaxMemoryMB     int64
	ShutdownTimeout time.Duration
	CheckInterval   time.Duration
}

// DefaultLimits returns limits suited to a single local game
func DefaultLimits() Limits {
	return Limits{
		MaxGoroutines:   8,
		MaxMemoryMB:     512,
		ShutdownTimeout: 5 * time.Second,
		CheckInterval:   10 * time.Second,
	}
}

// ErrGoroutineLimit is returned by Go when the session is full
var ErrGoroutineLimit = errors.New("goroutine limit exceeded")

// Supervisor runs named goroutines that share one cancellable context. A
// MaxGoroutines of zero means no limit.
type Supervisor struct {
	limits Limits
	logger *logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	goroutines atomic.Int64
	memoryMB   atomic.Int64

	mu              sync.Mutex
	lastMemoryCheck time.Time
}

// NewSupervisor creates a supervisor whose session ends when parent is done
func NewSupervisor(parent context.Context, limits Limits, logger *logging.Logger) *Supervisor {
	if logger == nil {
		logger = logging.Discard()
	}
	ctx, cancel := context.WithCancel(parent)
	group, ctx := errgroup.WithContext(ctx)
	if limits.MaxGoroutines > 0 {
		group.SetLimit(limits.MaxGoroutines)
	}
	if limits.CheckInterval <= 0 {
		limits.CheckInterval = DefaultLimits().CheckInterval
	}
	if limits.ShutdownTimeout <= 0 {
		limits.ShutdownTimeout = DefaultLimits().ShutdownTimeout
	}
	return &Supervisor{
		limits: limits,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		group:  group,
	}
}

// Context returns the session context
func (s *Supervisor) Context() context.Context {
	return s.ctx
}

// Go starts fn on its own goroutine. When fn returns the whole session is
// cancelled. A panic in fn is recovered and reported as its error.
func (s *Supervisor) Go(name string, fn func(ctx context.Context) error) error {
	started := s.group.TryGo(func() (err error) {
		s.goroutines.Add(1)
		defer s.goroutines.Add(-1)
		defer s.cancel()
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s panicked: %v", name, r)
				s.logger.Error(s.ctx, "Goroutine panic", err, "name", name)
			}
		}()

		s.logger.Debug(s.ctx, "Goroutine started", "name", name)
		err = fn(s.ctx)
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		s.logger.Debug(s.ctx, "Goroutine finished", "name", name)
		return nil
	})
	if !started {
		s.logger.Warn(s.ctx, "Goroutine limit exceeded",
			"limit", s.limits.MaxGoroutines,
			"name", name,
		)
		return fmt.Errorf("%w: %s (limit %d)", ErrGoroutineLimit, name, s.limits.MaxGoroutines)
	}
	return nil
}

// Monitor starts the periodic memory check. It runs until the session ends.
func (s *Supervisor) Monitor() error {
	return s.Go("monitor", func(ctx context.Context) error {
		ticker := time.NewTicker(s.limits.CheckInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				s.performResourceChecks()
			}
		}
	})
}

// Wait blocks until every goroutine returned and reports the first error
func (s *Supervisor) Wait() error {
	return s.group.Wait()
}

// Shutdown cancels the session and waits up to the shutdown timeout
func (s *Supervisor) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "Shutting down session", "goroutines", s.GoroutineCount())
	s.cancel()

	done := make(chan error, 1)
	go func() { done <- s.group.Wait() }()

	timeout := time.NewTimer(s.limits.ShutdownTimeout)
	defer timeout.Stop()
	select {
	case err := <-done:
		return err
	case <-timeout.C:
		remaining := s.GoroutineCount()
		s.logger.Warn(ctx, "Shutdown timeout exceeded with goroutines still running", "remaining", remaining)
		return fmt.Errorf("shutdown timeout: %d goroutines still running", remaining)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GoroutineCount returns the number of running supervised goroutines
func (s *Supervisor) GoroutineCount() int64 {
	return s.goroutines.Load()
}

// CheckMemoryUsage samples the heap and compares it with the limit
func (s *Supervisor) CheckMemoryUsage() error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	currentMB := int64(m.Alloc / 1024 / 1024)
	s.memoryMB.Store(currentMB)
	s.mu.Lock()
	s.lastMemoryCheck = time.Now()
	s.mu.Unlock()

	if currentMB > s.limits.MaxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, s.limits.MaxMemoryMB)
	}
	return nil
}

// Stats contains resource usage statistics
type Stats struct {
	Goroutines      int64     `json:"goroutines"`
	MaxGoroutines   int       `json:"max_goroutines"`
	MemoryUsageMB   int64     `json:"memory_usage_mb"`
	MaxMemoryMB     int64     `json:"max_memory_mb"`
	LastMemoryCheck time.Time `json:"last_memory_check"`
}

// Stats returns current resource usage
func (s *Supervisor) Stats() Stats {
	s.mu.Lock()
	last := s.lastMemoryCheck
	s.mu.Unlock()
	return Stats{
		Goroutines:      s.GoroutineCount(),
		MaxGoroutines:   s.limits.MaxGoroutines,
		MemoryUsageMB:   s.memoryMB.Load(),
		MaxMemoryMB:     s.limits.MaxMemoryMB,
		LastMemoryCheck: last,
	}
}

// Check verifies that resource usage is within limits. Goroutine usage
// fails at 80% of the limit.
func (s *Supervisor) Check() error {
	stats := s.Stats()
	if stats.MemoryUsageMB > stats.MaxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", stats.MemoryUsageMB, stats.MaxMemoryMB)
	}
	if stats.MaxGoroutines <= 0 {
		return nil
	}
	threshold := int64(float64(stats.MaxGoroutines) * 0.8)
	if stats.Goroutines > threshold {
		return fmt.Errorf("goroutine count %d exceeds 80%% threshold (%d/%d)",
			stats.Goroutines, threshold, stats.MaxGoroutines)
	}
	return nil
}

func (s *Supervisor) performResourceChecks() {
	if err := s.CheckMemoryUsage(); err != nil {
		s.logger.Warn(s.ctx, "Memory limit exceeded",
			"current_mb", s.memoryMB.Load(),
			"limit_mb", s.limits.MaxMemoryMB,
			"error", err.Error(),
		)
	}
	s.logger.Debug(s.ctx, "Resource usage check",
		"goroutines", s.GoroutineCount(),
		"memory_mb", s.memoryMB.Load(),
	)
}
