package reminder

import (
	"time"

	"wellbot/internal/center"
)

// immediateDelay defers "now" notifications by a minimal interval
// instead of presenting synchronously, matching platform behavior.
const immediateDelay = time.Second

// buildTrigger translates validated options into the center's trigger
// shape. The seconds component of calendar triggers is always zero; the
// key format relies on that.
func buildTrigger(kind Kind, o Options) center.Trigger {
	switch kind {
	case KindDaily:
		return center.Trigger{
			Kind:    center.TriggerCalendar,
			Hour:    *o.Hour,
			Minute:  *o.Minute,
			Repeats: o.Repeats,
		}
	case KindWeekly:
		return center.Trigger{
			Kind:    center.TriggerCalendar,
			Hour:    *o.Hour,
			Minute:  *o.Minute,
			Weekday: *o.Weekday,
			Repeats: o.Repeats,
		}
	case KindRelative:
		return center.Trigger{
			Kind:    center.TriggerInterval,
			Delay:   time.Duration(*o.SecondsFromNow) * time.Second,
			Repeats: o.Repeats,
		}
	default: // KindImmediate
		return center.Trigger{
			Kind:  center.TriggerInterval,
			Delay: immediateDelay,
		}
	}
}
