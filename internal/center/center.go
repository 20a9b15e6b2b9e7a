// Package center models the OS-level notification scheduling primitive:
// a registry of triggers that fire notifications. The registry is the
// sole source of truth for what is scheduled; callers must never keep a
// competing cache of it.
package center

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Reserved payload keys. The scheduler embeds its dedup key and the
// reminder category into every entry's Data map under these names.
const (
	DataKey      = "key"
	DataCategory = "category"
)

var ErrQuotaExceeded = errors.New("registration quota exceeded")

type TriggerKind string

const (
	// TriggerCalendar fires at hour:minute:00, every day or on a fixed
	// weekday. Seconds are always zero.
	TriggerCalendar TriggerKind = "calendar"
	// TriggerInterval fires Delay after registration.
	TriggerInterval TriggerKind = "interval"
)

// Trigger describes when a notification fires.
type Trigger struct {
	Kind    TriggerKind
	Hour    int // calendar: 0..23
	Minute  int // calendar: 0..59
	Weekday int // calendar: 1=Monday..7=Sunday, 0 = every day
	Repeats bool
	Delay   time.Duration // interval: > 0
}

func (t Trigger) Validate() error {
	switch t.Kind {
	case TriggerCalendar:
		if t.Hour < 0 || t.Hour > 23 {
			return fmt.Errorf("trigger hour %d out of range", t.Hour)
		}
		if t.Minute < 0 || t.Minute > 59 {
			return fmt.Errorf("trigger minute %d out of range", t.Minute)
		}
		if t.Weekday < 0 || t.Weekday > 7 {
			return fmt.Errorf("trigger weekday %d out of range", t.Weekday)
		}
		return nil
	case TriggerInterval:
		if t.Delay <= 0 {
			return fmt.Errorf("trigger delay %s must be positive", t.Delay)
		}
		return nil
	default:
		return fmt.Errorf("unknown trigger kind %q", t.Kind)
	}
}

// Entry is the content submitted alongside a trigger. Entries are
// immutable once registered; they can only be cancelled.
type Entry struct {
	Title string
	Body  string
	Data  map[string]string
}

// Registered is a currently-registered notification as reported by the
// center.
type Registered struct {
	ID           string
	Trigger      Trigger
	Entry        Entry
	RegisteredAt time.Time
}

// Key returns the dedup key embedded in the entry payload, if any.
func (r Registered) Key() string { return r.Entry.Data[DataKey] }

// Category returns the reminder category embedded in the entry payload.
func (r Registered) Category() string { return r.Entry.Data[DataCategory] }

// Center is the scheduling primitive consumed by the reminder facade.
type Center interface {
	// Register submits an entry and returns its identifier. It fails
	// with ErrQuotaExceeded when the platform cap is reached.
	Register(ctx context.Context, tr Trigger, e Entry) (string, error)
	// List returns a snapshot of every registered entry.
	List(ctx context.Context) ([]Registered, error)
	// Cancel removes the entry with the given identifier and reports
	// whether an entry was actually removed. Cancelling an unknown
	// (already fired, already cancelled) identifier is a no-op.
	Cancel(ctx context.Context, id string) (bool, error)
}
