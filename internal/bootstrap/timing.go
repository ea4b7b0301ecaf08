package bootstrap

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/nvprime/internal/logging"
)

// Phase is one timed step of exporter setup.
type Phase struct {
	Name     string
	Duration time.Duration
}

// PhaseTimer records how long each init step took.
// Safe for concurrent use.
type PhaseTimer struct {
	start  time.Time
	last   time.Time
	phases []Phase
	mu     sync.Mutex
}

// NewPhaseTimer creates a timer starting from now.
func NewPhaseTimer() *PhaseTimer {
	now := time.Now()
	return &PhaseTimer{start: now, last: now}
}

// Mark records the time since the previous mark (or start) under name.
func (t *PhaseTimer) Mark(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.phases = append(t.phases, Phase{Name: name, Duration: now.Sub(t.last)})
	t.last = now
}

// MarkDuration records a duration measured elsewhere.
func (t *PhaseTimer) MarkDuration(name string, d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.phases = append(t.phases, Phase{Name: name, Duration: d})
}

// Phases returns the recorded phases in order.
func (t *PhaseTimer) Phases() []Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Phase(nil), t.phases...)
}

// Total returns the time elapsed since the timer was created.
func (t *PhaseTimer) Total() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Since(t.start)
}

// LogDebug writes all phases to the context logger at debug level.
func (t *PhaseTimer) LogDebug(ctx context.Context, msg string) {
	phases := t.Phases()

	event := logging.FromContext(ctx).Debug().Dur("total", t.Total())
	for _, p := range phases {
		event = event.Dur(p.Name, p.Duration)
	}
	event.Msg(msg)
}
