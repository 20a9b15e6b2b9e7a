package reminder

import (
	"fmt"
)

// Kind is the inferred trigger shape of a schedule request.
type Kind string

const (
	KindDaily     Kind = "daily"
	KindWeekly    Kind = "weekly"
	KindRelative  Kind = "relative"
	KindImmediate Kind = "immediate"
)

// TimeBased reports whether the kind dedups by exact key (as opposed to
// the coalescing window).
func (k Kind) TimeBased() bool {
	return k == KindDaily || k == KindWeekly
}

// Options are the abstract scheduling options of a request. Exactly one
// trigger shape must be inferable:
//
//	Hour+Minute present            -> daily (weekly if Weekday present)
//	otherwise SecondsFromNow       -> relative
//	otherwise                      -> immediate
//
// Pointer fields distinguish "absent" from zero.
type Options struct {
	Hour           *int `json:"hour,omitempty"`           // 0..23
	Minute         *int `json:"minute,omitempty"`         // 0..59
	Weekday        *int `json:"weekday,omitempty"`        // 1..7, 1 = Monday
	Repeats        bool `json:"repeats,omitempty"`
	SecondsFromNow *int `json:"secondsFromNow,omitempty"` // >= 1
}

// Kind infers and validates the trigger shape.
func (o Options) Kind() (Kind, error) {
	switch {
	case o.Hour != nil || o.Minute != nil:
		if o.Hour == nil || o.Minute == nil {
			return "", fmt.Errorf("%w: hour and minute must be set together", ErrInvalidOptions)
		}
		if *o.Hour < 0 || *o.Hour > 23 {
			return "", fmt.Errorf("%w: hour %d out of range", ErrInvalidOptions, *o.Hour)
		}
		if *o.Minute < 0 || *o.Minute > 59 {
			return "", fmt.Errorf("%w: minute %d out of range", ErrInvalidOptions, *o.Minute)
		}
		if o.SecondsFromNow != nil {
			return "", fmt.Errorf("%w: secondsFromNow conflicts with hour/minute", ErrInvalidOptions)
		}
		if o.Weekday != nil {
			if *o.Weekday < 1 || *o.Weekday > 7 {
				return "", fmt.Errorf("%w: weekday %d out of range (1=Monday..7)", ErrInvalidOptions, *o.Weekday)
			}
			return KindWeekly, nil
		}
		return KindDaily, nil
	case o.SecondsFromNow != nil:
		if *o.SecondsFromNow < 1 {
			return "", fmt.Errorf("%w: secondsFromNow must be >= 1", ErrInvalidOptions)
		}
		if o.Weekday != nil {
			return "", fmt.Errorf("%w: weekday conflicts with secondsFromNow", ErrInvalidOptions)
		}
		return KindRelative, nil
	default:
		if o.Weekday != nil {
			return "", fmt.Errorf("%w: weekday requires hour and minute", ErrInvalidOptions)
		}
		return KindImmediate, nil
	}
}

// IntPtr is a small helper for building Options literals.
func IntPtr(v int) *int { return &v }
