package reminder

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Key formats. For recurring triggers the key depends only on category
// and the literal scheduled time, so repeated calls at any time of day
// derive the identical key:
//
//	daily:     {category}:daily:{hour}:{minute}:s0
//	weekly:    {category}:{weekday}:{hour}:{minute}:s0
//	relative:  {category}:in:{seconds}s:{registeredAt ms}
//	immediate: {category}:now:{registeredAt ms}
//
// A past hour:minute is never shifted to its next occurrence here; the
// trigger already rolls past times forward, and shifting locally would
// change the key on every call and defeat deduplication.
func keyFor(cat Category, kind Kind, o Options, now time.Time) string {
	switch kind {
	case KindDaily:
		return fmt.Sprintf("%s:daily:%d:%d:s0", cat, *o.Hour, *o.Minute)
	case KindWeekly:
		return fmt.Sprintf("%s:%d:%d:%d:s0", cat, *o.Weekday, *o.Hour, *o.Minute)
	case KindRelative:
		return fmt.Sprintf("%s:in:%ds:%d", cat, *o.SecondsFromNow, now.UnixMilli())
	default: // KindImmediate
		return fmt.Sprintf("%s:now:%d", cat, now.UnixMilli())
	}
}

// keyTimestamp extracts the registration timestamp embedded in a
// relative/immediate key. Time-based keys carry none.
func keyTimestamp(key string) (time.Time, bool) {
	i := strings.LastIndexByte(key, ':')
	if i < 0 {
		return time.Time{}, false
	}
	ms, err := strconv.ParseInt(key[i+1:], 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(ms), true
}
