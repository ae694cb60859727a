package resource

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func testLimits() Limits {
	return Limits{
		MaxGoroutines:   4,
		MaxMemoryMB:     1 << 20,
		ShutdownTimeout: time.Second,
		CheckInterval:   10 * time.Millisecond,
	}
}

func TestSupervisor_FirstReturnEndsSession(t *testing.T) {
	s := NewSupervisor(context.Background(), testLimits(), nil)

	blocked := make(chan struct{})
	if err := s.Go("listener", func(ctx context.Context) error {
		<-ctx.Done()
		close(blocked)
		return ctx.Err()
	}); err != nil {
		t.Fatalf("Go(listener): %v", err)
	}
	if err := s.Go("loop", func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("Go(loop): %v", err)
	}

	if err := s.Wait(); err != nil {
		t.Errorf("Wait() = %v, want nil", err)
	}
	select {
	case <-blocked:
	default:
		t.Error("listener still running after Wait")
	}
	if s.Context().Err() == nil {
		t.Error("session context not cancelled")
	}
	if s.GoroutineCount() != 0 {
		t.Errorf("GoroutineCount() = %d after Wait", s.GoroutineCount())
	}
}

func TestSupervisor_Errors(t *testing.T) {
	errBoom := errors.New("boom")
	tests := []struct {
		name    string
		fn      func(ctx context.Context) error
		wantErr string
		wantIs  error
	}{
		{"error wrapped with name", func(ctx context.Context) error { return errBoom }, "task: boom", errBoom},
		{"panic recovered", func(ctx context.Context) error { panic("bad state") }, "task panicked: bad state", nil},
		{"cancellation is clean", func(ctx context.Context) error { return context.Canceled }, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSupervisor(context.Background(), testLimits(), nil)
			if err := s.Go("task", tt.fn); err != nil {
				t.Fatalf("Go: %v", err)
			}
			err := s.Wait()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Wait() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Wait() = %v, want %q", err, tt.wantErr)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.wantIs)
			}
		})
	}
}

func TestSupervisor_GoroutineLimit(t *testing.T) {
	limits := testLimits()
	limits.MaxGoroutines = 1
	s := NewSupervisor(context.Background(), limits, nil)

	if err := s.Go("first", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}); err != nil {
		t.Fatalf("Go(first): %v", err)
	}
	err := s.Go("second", func(ctx context.Context) error { return nil })
	if !errors.Is(err, ErrGoroutineLimit) {
		t.Errorf("Go(second) = %v, want ErrGoroutineLimit", err)
	}

	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v", err)
	}
}

func TestSupervisor_ParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	s := NewSupervisor(parent, testLimits(), nil)
	if err := s.Go("loop", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}); err != nil {
		t.Fatalf("Go: %v", err)
	}
	cancel()
	if err := s.Wait(); err != nil {
		t.Errorf("Wait() = %v, want nil", err)
	}
}

func TestSupervisor_ShutdownTimeout(t *testing.T) {
	limits := testLimits()
	limits.ShutdownTimeout = 50 * time.Millisecond
	s := NewSupervisor(context.Background(), limits, nil)

	release := make(chan struct{})
	defer close(release)
	if err := s.Go("stuck", func(ctx context.Context) error {
		<-release
		return nil
	}); err != nil {
		t.Fatalf("Go: %v", err)
	}

	err := s.Shutdown(context.Background())
	if err == nil || !strings.Contains(err.Error(), "shutdown timeout") {
		t.Errorf("Shutdown() = %v, want timeout error", err)
	}
}

func TestSupervisor_Monitor(t *testing.T) {
	s := NewSupervisor(context.Background(), testLimits(), nil)
	if err := s.Monitor(); err != nil {
		t.Fatalf("Monitor: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.Stats().LastMemoryCheck.IsZero() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if s.Stats().LastMemoryCheck.IsZero() {
		t.Error("monitor never checked memory")
	}
	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v", err)
	}
}

func TestSupervisor_Check(t *testing.T) {
	tests := []struct {
		name    string
		limits  Limits
		wantErr bool
	}{
		{"within limits", testLimits(), false},
		{"memory over limit", Limits{MaxGoroutines: 4, MaxMemoryMB: -1}, true},
		{"no goroutine limit", Limits{MaxMemoryMB: 1 << 20}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSupervisor(context.Background(), tt.limits, nil)
			memErr := s.CheckMemoryUsage()
			if (memErr != nil) != tt.wantErr {
				t.Errorf("CheckMemoryUsage() = %v, wantErr %v", memErr, tt.wantErr)
			}
			if err := s.Check(); (err != nil) != tt.wantErr {
				t.Errorf("Check() = %v, wantErr %v", err, tt.wantErr)
			}
			if s.Stats().LastMemoryCheck.IsZero() {
				t.Error("LastMemoryCheck not recorded")
			}
		})
	}
}

func TestDefaultLimits(t *testing.T) {
	l := DefaultLimits()
	if l.MaxGoroutines <= 0 || l.MaxMemoryMB <= 0 || l.ShutdownTimeout <= 0 || l.CheckInterval <= 0 {
		t.Errorf("DefaultLimits() = %+v, want all positive", l)
	}
}
