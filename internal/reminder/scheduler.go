package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"wellbot/internal/center"
	"wellbot/internal/eventbus"
	"wellbot/internal/storage"
	logx "wellbot/pkg/logx"
)

// Config controls the scheduler facade.
type Config struct {
	// CoalesceWindow for relative/immediate dedup; 0 means the default
	// of 10 minutes.
	CoalesceWindow time.Duration
	// DigestHour is the fallback hour of the daily digest when the user
	// has not stored a preference; 0 means the built-in fallback.
	DigestHour int
}

// Scheduler is the public surface of the reminder subsystem.
//
// Schedule serializes its lookup-then-register sequence behind a mutex,
// so two concurrent calls on the same key cannot both observe "not
// found" and double-register.
type Scheduler struct {
	center center.Center
	flag   *FlagStore
	store  storage.Store
	clk    clock.Clock
	bus    eventbus.Bus
	log    logx.Logger

	cfgMu sync.Mutex
	cfg   Config

	mu sync.Mutex
}

func New(c center.Center, store storage.Store, cfg Config, clk clock.Clock, bus eventbus.Bus, log logx.Logger) *Scheduler {
	if store == nil {
		store = storage.NewMemory()
	}
	if clk == nil {
		clk = clock.New()
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Scheduler{
		center: c,
		flag:   NewFlagStore(store, log),
		store:  store,
		clk:    clk,
		bus:    bus,
		log:    log,
		cfg:    cfg,
	}
}

// Apply swaps the runtime-tunable config (coalescing window, digest
// fallback hour). Safe to call concurrently with Schedule.
func (s *Scheduler) Apply(cfg Config) {
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
}

// Schedule registers one notification for the request, or returns the
// identifier of an existing equivalent registration. Exactly one new
// entry is created, or none.
func (s *Scheduler) Schedule(ctx context.Context, cat Category, content Content, opts Options, data map[string]string) (string, error) {
	if !cat.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, cat)
	}
	kind, err := opts.Kind()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	key := keyFor(cat, kind, opts, now)

	id, found, err := s.findExisting(ctx, cat, kind, key, now)
	if err != nil {
		return "", err
	}
	if found {
		s.log.Debug("schedule deduplicated",
			logx.String("category", string(cat)),
			logx.String("key", key),
			logx.String("id", id),
		)
		s.publish(eventbus.TypeCoalesced, map[string]string{"id": id, "key": key, "category": string(cat)})
		return id, nil
	}

	entry := center.Entry{
		Title: content.Title,
		Body:  content.Body,
		Data:  payload(cat, key, data),
	}
	id, err = s.center.Register(ctx, buildTrigger(kind, opts), entry)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRegistrationFailed, err)
	}

	s.log.Debug("schedule registered",
		logx.String("category", string(cat)),
		logx.String("kind", string(kind)),
		logx.String("key", key),
		logx.String("id", id),
	)
	s.publish(eventbus.TypeScheduled, map[string]string{"id": id, "key": key, "category": string(cat)})
	return id, nil
}

// Cancel removes exactly the entry with the given identifier. Cancelling
// an already-fired or already-cancelled entry is not an error; failures
// are swallowed.
func (s *Scheduler) Cancel(ctx context.Context, id string) {
	removed, err := s.center.Cancel(ctx, id)
	if err != nil {
		s.log.Debug("cancel ignored", logx.String("id", id), logx.Err(err))
		return
	}
	// No event for unknown ids; the stream reflects actual removals.
	if removed {
		s.publish(eventbus.TypeCancelled, map[string]string{"id": id})
	}
}

// CancelAll cancels every registered entry and resets the defaults flag
// (both tiers), so a later ScheduleDefaults registers the bundle again.
func (s *Scheduler) CancelAll(ctx context.Context) error {
	regs, err := s.center.List(ctx)
	if err != nil {
		return fmt.Errorf("list registered: %w", err)
	}
	for _, r := range regs {
		if _, err := s.center.Cancel(ctx, r.ID); err != nil {
			s.log.Debug("cancel ignored", logx.String("id", r.ID), logx.Err(err))
		}
	}
	s.flag.Set(ctx, false)
	s.log.Info("all reminders cancelled", logx.Int("count", len(regs)))
	return nil
}

// ScheduleDefaults registers the standard reminder bundle once per
// install. It is safe to call on every app launch: when the flag is
// already set (in memory or persisted) it returns an empty list.
//
// The in-memory flag flips before any registration so a concurrent
// launch path sees it immediately; the bundle is then registered and
// individual entries stay idempotent by key regardless.
func (s *Scheduler) ScheduleDefaults(ctx context.Context) ([]string, error) {
	if s.flag.Get(ctx) {
		return []string{}, nil
	}
	s.flag.Set(ctx, true)

	ids := make([]string, 0, 9)

	weekly, err := s.ScheduleWeeklyCheckins(ctx)
	ids = append(ids, weekly...)
	if err != nil {
		return ids, err
	}

	id, err := s.ScheduleMorningGreeting(ctx)
	if err != nil {
		return ids, err
	}
	ids = append(ids, id)

	hydration, err := s.ScheduleHydration(ctx)
	ids = append(ids, hydration...)
	if err != nil {
		return ids, err
	}

	id, err = s.ScheduleEveningWindDown(ctx)
	if err != nil {
		return ids, err
	}
	ids = append(ids, id)

	id, err = s.ScheduleDailyDigest(ctx)
	if err != nil {
		return ids, err
	}
	ids = append(ids, id)

	s.log.Info("default bundle registered", logx.Int("count", len(ids)))
	return ids, nil
}

func (s *Scheduler) publish(typ string, data map[string]string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(eventbus.Event{Type: typ, Time: s.clk.Now(), Data: data})
}

// payload merges caller routing data with the reserved key/category
// entries. The caller's map is never mutated.
func payload(cat Category, key string, data map[string]string) map[string]string {
	out := make(map[string]string, len(data)+2)
	for k, v := range data {
		out[k] = v
	}
	out[center.DataKey] = key
	out[center.DataCategory] = string(cat)
	return out
}
