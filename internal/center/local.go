package center

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"wellbot/internal/eventbus"
	"wellbot/internal/sink"
	logx "wellbot/pkg/logx"
)

const deliverTimeout = 10 * time.Second

// Config controls the local center.
type Config struct {
	Timezone   string // IANA TZ, e.g. "Europe/Rome"; empty = system local
	MaxEntries int    // platform cap on registered entries; 0 = default 64
}

// Local is an in-process implementation of the scheduling primitive.
// Repeating calendar and interval triggers are cron entries; one-shot
// triggers are timers on the injected clock. Fired non-repeating entries
// remove themselves from the registry, mirroring OS behavior.
type Local struct {
	log  logx.Logger
	clk  clock.Clock
	sink sink.Sink
	bus  eventbus.Bus
	loc  *time.Location
	max  int

	mu      sync.Mutex
	c       *cron.Cron
	entries map[string]*localEntry
}

type localEntry struct {
	reg     Registered
	entryID cron.EntryID // cron-backed triggers
	timer   *clock.Timer // one-shot triggers
}

func NewLocal(cfg Config, snk sink.Sink, clk clock.Clock, bus eventbus.Bus, log logx.Logger) (*Local, error) {
	loc := time.Local
	if tz := strings.TrimSpace(cfg.Timezone); tz != "" {
		var err error
		loc, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("load timezone %q: %w", tz, err)
		}
	}
	if clk == nil {
		clk = clock.New()
	}
	if snk == nil {
		snk = sink.NewLog(log)
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	max := cfg.MaxEntries
	if max <= 0 {
		max = 64
	}
	return &Local{
		log:     log,
		clk:     clk,
		sink:    snk,
		bus:     bus,
		loc:     loc,
		max:     max,
		c:       cron.New(cron.WithLocation(loc)),
		entries: map[string]*localEntry{},
	}, nil
}

func (l *Local) Start() {
	l.c.Start()
}

func (l *Local) Stop(ctx context.Context) {
	select {
	case <-l.c.Stop().Done():
	case <-ctx.Done():
	}
	l.mu.Lock()
	for _, le := range l.entries {
		if le.timer != nil {
			le.timer.Stop()
		}
	}
	l.mu.Unlock()
}

func (l *Local) Register(ctx context.Context, tr Trigger, e Entry) (string, error) {
	if err := tr.Validate(); err != nil {
		return "", err
	}

	id := uuid.NewString()

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) >= l.max {
		return "", fmt.Errorf("%w (%d entries)", ErrQuotaExceeded, l.max)
	}

	le := &localEntry{reg: Registered{
		ID:           id,
		Trigger:      tr,
		Entry:        e,
		RegisteredAt: l.clk.Now(),
	}}

	if tr.Repeats {
		eid, err := l.c.AddFunc(cronSpec(tr), func() { l.fire(id) })
		if err != nil {
			return "", fmt.Errorf("register trigger: %w", err)
		}
		le.entryID = eid
	} else {
		delay := tr.Delay
		if tr.Kind == TriggerCalendar {
			delay = nextCalendar(l.clk.Now().In(l.loc), tr).Sub(l.clk.Now())
		}
		le.timer = l.clk.AfterFunc(delay, func() { l.fire(id) })
	}

	l.entries[id] = le
	l.log.Debug("entry registered",
		logx.String("id", id),
		logx.String("kind", string(tr.Kind)),
		logx.Bool("repeats", tr.Repeats),
		logx.String("category", le.reg.Category()),
	)
	return id, nil
}

func (l *Local) List(ctx context.Context) ([]Registered, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Registered, 0, len(l.entries))
	for _, le := range l.entries {
		out = append(out, le.reg)
	}
	return out, nil
}

func (l *Local) Cancel(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	le, ok := l.entries[id]
	if !ok {
		l.mu.Unlock()
		return false, nil
	}
	if le.entryID != 0 {
		l.c.Remove(le.entryID)
	}
	if le.timer != nil {
		le.timer.Stop()
	}
	delete(l.entries, id)
	l.mu.Unlock()

	l.log.Debug("entry cancelled", logx.String("id", id))
	return true, nil
}

// fire delivers the entry to the sink. Non-repeating entries are removed
// from the registry before delivery so List never reports them again.
func (l *Local) fire(id string) {
	l.mu.Lock()
	le, ok := l.entries[id]
	if !ok {
		l.mu.Unlock()
		return
	}
	if !le.reg.Trigger.Repeats {
		delete(l.entries, id)
	}
	reg := le.reg
	l.mu.Unlock()

	firedAt := l.clk.Now()
	n := sink.Notification{
		ID:       reg.ID,
		Category: reg.Category(),
		Title:    reg.Entry.Title,
		Body:     reg.Entry.Body,
		Data:     reg.Entry.Data,
		FiredAt:  firedAt,
	}

	ctx, cancel := context.WithTimeout(context.Background(), deliverTimeout)
	defer cancel()
	if err := l.sink.Deliver(ctx, n); err != nil {
		l.log.Warn("delivery failed", logx.String("id", reg.ID), logx.String("category", n.Category), logx.Err(err))
	}
	if l.bus != nil {
		l.bus.Publish(eventbus.Event{Type: eventbus.TypeFired, Time: firedAt, Data: n})
	}
}

// cronSpec renders a repeating trigger as a cron expression. Weekday 1..7
// (Monday-first) maps onto cron's Sunday-first 0..6.
func cronSpec(tr Trigger) string {
	if tr.Kind == TriggerInterval {
		return "@every " + tr.Delay.String()
	}
	if tr.Weekday == 0 {
		return fmt.Sprintf("%d %d * * *", tr.Minute, tr.Hour)
	}
	return fmt.Sprintf("%d %d * * %d", tr.Minute, tr.Hour, tr.Weekday%7)
}

// nextCalendar finds the next hour:minute occurrence strictly after now,
// rolling past times forward to the next day (or matching weekday).
func nextCalendar(now time.Time, tr Trigger) time.Time {
	c := time.Date(now.Year(), now.Month(), now.Day(), tr.Hour, tr.Minute, 0, 0, now.Location())
	for {
		dayOK := tr.Weekday == 0 || c.Weekday() == time.Weekday(tr.Weekday%7)
		if dayOK && c.After(now) {
			return c
		}
		c = c.AddDate(0, 0, 1)
	}
}
