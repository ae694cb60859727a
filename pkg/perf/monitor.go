// pkg/perf/monitor.go
package perf

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/opd-ai/go-tankgame/pkg/config"
	"github.com/opd-ai/go-tankgame/pkg/logging"
)

const (
	// historySize is the number of frames averaged
	historySize = 60

	// adjustEvery spaces out scale changes so quality does not flap
	adjustEvery = 30

	initialFPS = 60
)

// Stats is a snapshot of the frame-rate history
type Stats struct {
	CurrentFPS float64
	AverageFPS float64
	MinFPS     float64
	MaxFPS     float64
	Frames     uint64
	Scale      float64
	Adaptive   bool
}

// Monitor tracks the frame rate and lowers or raises a display scale factor
// to keep it between the configured bounds.
type Monitor struct {
	cfg config.PerformanceConfig

	mu        sync.RWMutex
	history   []float64
	next      int
	last      float64
	avg       float64
	frames    uint64
	scale     float64
	adaptive  bool
	lastFrame time.Time

	logger *logging.Logger
}

// NewMonitor creates a monitor starting at the maximum scale
func NewMonitor(cfg config.PerformanceConfig, logger *logging.Logger) *Monitor {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Monitor{
		cfg:      cfg,
		history:  make([]float64, 0, historySize),
		avg:      initialFPS,
		scale:    cfg.MaxScale,
		adaptive: cfg.Adaptive,
		logger:   logger,
	}
}

// Frame records a frame finishing at now. It returns the current scale and
// whether this frame changed it.
func (m *Monitor) Frame(ctx context.Context, now time.Time) (float64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.lastFrame.IsZero() {
		if dt := now.Sub(m.lastFrame); dt > 0 {
			m.record(float64(time.Second) / float64(dt))
		}
	}
	m.lastFrame = now
	m.frames++

	if !m.adaptive || m.frames%adjustEvery != 0 || len(m.history) == 0 {
		return m.scale, false
	}
	return m.adjust(ctx)
}

func (m *Monitor) record(fps float64) {
	m.last = fps
	if len(m.history) < historySize {
		m.history = append(m.history, fps)
	} else {
		m.history[m.next] = fps
	}
	m.next = (m.next + 1) % historySize

	sum := 0.0
	for _, f := range m.history {
		sum += f
	}
	m.avg = sum / float64(len(m.history))
}

func (m *Monitor) adjust(ctx context.Context) (float64, bool) {
	old := m.scale
	switch {
	case m.avg < m.cfg.MinFPS && m.scale > m.cfg.MinScale:
		m.scale = math.Max(m.cfg.MinScale, m.scale-m.cfg.ScaleStep)
		m.logger.Info(ctx, "Reducing render scale", "fps", m.avg, "scale", m.scale)
	case m.avg > m.cfg.MaxFPS && m.scale < m.cfg.MaxScale:
		m.scale = math.Min(m.cfg.MaxScale, m.scale+m.cfg.ScaleStep)
		m.logger.Debug(ctx, "Increasing render scale", "fps", m.avg, "scale", m.scale)
	}
	return m.scale, m.scale != old
}

// Scale returns the current scale factor
func (m *Monitor) Scale() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scale
}

// SetAdaptive turns automatic scaling on or off
func (m *Monitor) SetAdaptive(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.adaptive = enabled
}

// Stats returns a snapshot of the frame-rate history
func (m *Monitor) Stats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Stats{
		AverageFPS: m.avg,
		Frames:     m.frames,
		Scale:      m.scale,
		Adaptive:   m.adaptive,
	}
	if len(m.history) == 0 {
		return s
	}
	s.CurrentFPS = m.last
	s.MinFPS, s.MaxFPS = math.Inf(1), math.Inf(-1)
	for _, f := range m.history {
		s.MinFPS = math.Min(s.MinFPS, f)
		s.MaxFPS = math.Max(s.MaxFPS, f)
	}
	return s
}

// Check reports an error while the average frame rate stays below the
// configured minimum even at the lowest scale.
func (m *Monitor) Check(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.history) < historySize || m.scale > m.cfg.MinScale {
		return nil
	}
	if m.avg < m.cfg.MinFPS {
		return fmt.Errorf("frame rate %.1f below minimum %.1f at scale %.2f",
			m.avg, m.cfg.MinFPS, m.scale)
	}
	return nil
}

// Reset clears the history and restores the maximum scale
func (m *Monitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = m.history[:0]
	m.next = 0
	m.last = 0
	m.avg = initialFPS
	m.frames = 0
	m.scale = m.cfg.MaxScale
	m.lastFrame = time.Time{}
}
