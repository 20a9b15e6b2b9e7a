package reminder

import (
	"context"
	"fmt"
	"time"
)

// DefaultCoalesceWindow is the span within which two relative/immediate
// requests of the same category count as one logical event.
const DefaultCoalesceWindow = 10 * time.Minute

// findExisting checks the center's registered list for a duplicate of
// the candidate request and returns its identifier if present. The list
// is re-read on every call; it is the single source of truth.
//
// Time-based kinds match on the exact embedded key. Relative/immediate
// kinds match any entry of the same category registered within the
// coalescing window of now, so a burst of near-identical one-shot
// alerts collapses into the first registration.
func (s *Scheduler) findExisting(ctx context.Context, cat Category, kind Kind, key string, now time.Time) (string, bool, error) {
	regs, err := s.center.List(ctx)
	if err != nil {
		return "", false, fmt.Errorf("list registered: %w", err)
	}

	if kind.TimeBased() {
		for _, r := range regs {
			if r.Key() == key {
				return r.ID, true, nil
			}
		}
		return "", false, nil
	}

	window := s.coalesceWindow()
	for _, r := range regs {
		if r.Category() != string(cat) {
			continue
		}
		ts, ok := keyTimestamp(r.Key())
		if !ok {
			continue
		}
		if d := now.Sub(ts); d >= -window && d <= window {
			return r.ID, true, nil
		}
	}
	return "", false, nil
}

func (s *Scheduler) coalesceWindow() time.Duration {
	s.cfgMu.Lock()
	w := s.cfg.CoalesceWindow
	s.cfgMu.Unlock()
	if w <= 0 {
		w = DefaultCoalesceWindow
	}
	return w
}
