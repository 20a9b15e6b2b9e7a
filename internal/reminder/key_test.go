package reminder

import (
	"strings"
	"testing"
	"time"
)

func TestKeyForTimeBasedIsDeterministic(t *testing.T) {
	t.Parallel()
	opts := Options{Hour: IntPtr(19), Minute: IntPtr(0), Weekday: IntPtr(5), Repeats: true}

	morning := time.Date(2025, 3, 1, 6, 12, 33, 0, time.UTC)
	night := time.Date(2026, 11, 20, 23, 59, 0, 0, time.UTC)

	k1 := keyFor(CategoryWeeklyCheckin, KindWeekly, opts, morning)
	k2 := keyFor(CategoryWeeklyCheckin, KindWeekly, opts, night)
	if k1 != k2 {
		t.Fatalf("weekly key not stable across call times: %q vs %q", k1, k2)
	}
	if !strings.Contains(k1, "5:19:0") {
		t.Fatalf("weekly key %q missing literal weekday:hour:minute", k1)
	}
	if k1 != "weekly_checkin:5:19:0:s0" {
		t.Fatalf("weekly key = %q", k1)
	}
}

func TestKeyForFormats(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1700000000000)
	tests := []struct {
		name string
		cat  Category
		kind Kind
		opts Options
		want string
	}{
		{
			name: "daily",
			cat:  CategoryMorningGreeting,
			kind: KindDaily,
			opts: Options{Hour: IntPtr(8), Minute: IntPtr(0), Repeats: true},
			want: "morning_greeting:daily:8:0:s0",
		},
		{
			name: "weekly",
			cat:  CategoryWeeklyCheckin,
			kind: KindWeekly,
			opts: Options{Hour: IntPtr(19), Minute: IntPtr(30), Weekday: IntPtr(1), Repeats: true},
			want: "weekly_checkin:1:19:30:s0",
		},
		{
			name: "relative embeds timestamp",
			cat:  CategoryFridgeExpiry,
			kind: KindRelative,
			opts: Options{SecondsFromNow: IntPtr(90)},
			want: "fridge_expiry:in:90s:1700000000000",
		},
		{
			name: "immediate embeds timestamp",
			cat:  CategoryStreakGoal,
			kind: KindImmediate,
			opts: Options{},
			want: "streak_goal:now:1700000000000",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := keyFor(tt.cat, tt.kind, tt.opts, now); got != tt.want {
				t.Fatalf("keyFor = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyTimestamp(t *testing.T) {
	t.Parallel()
	now := time.UnixMilli(1700000000000)
	key := keyFor(CategoryStreakGoal, KindImmediate, Options{}, now)
	ts, ok := keyTimestamp(key)
	if !ok {
		t.Fatalf("no timestamp in %q", key)
	}
	if !ts.Equal(now) {
		t.Fatalf("timestamp = %v, want %v", ts, now)
	}

	// Time-based keys end in ":s0", which is not a timestamp.
	if _, ok := keyTimestamp("hydration:daily:10:0:s0"); ok {
		t.Fatal("time-based key must not parse as timestamped")
	}
}
