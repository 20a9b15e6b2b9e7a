package reminder

import (
	"context"
	"strconv"

	logx "wellbot/pkg/logx"
)

// Named presets: thin compositions of Schedule with fixed category and
// options, so they inherit the dedup guarantees.

const (
	morningGreetingHour = 8

	checkinHour   = 19
	checkinMinute = 0

	windDownHour   = 21
	windDownMinute = 30

	// digestHourKey is the stored user preference for the daily digest;
	// fallbackDigestHour applies when no preference exists.
	digestHourKey      = "digest_hour"
	fallbackDigestHour = 9
)

var checkinWeekdays = []int{1, 5} // Monday and Friday

var hydrationHours = []int{10, 13, 16, 19}

// ScheduleMorningGreeting registers the repeating daily greeting.
func (s *Scheduler) ScheduleMorningGreeting(ctx context.Context) (string, error) {
	return s.Schedule(ctx, CategoryMorningGreeting,
		Content{Title: "Good morning", Body: "Start the day with a quick check on how you feel."},
		Options{Hour: IntPtr(morningGreetingHour), Minute: IntPtr(0), Repeats: true}, nil)
}

// ScheduleWeeklyCheckins registers the check-in on both fixed weekdays.
func (s *Scheduler) ScheduleWeeklyCheckins(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(checkinWeekdays))
	for _, wd := range checkinWeekdays {
		id, err := s.Schedule(ctx, CategoryWeeklyCheckin,
			Content{Title: "Weekly check-in", Body: "Take a minute to review your week."},
			Options{Hour: IntPtr(checkinHour), Minute: IntPtr(checkinMinute), Weekday: IntPtr(wd), Repeats: true}, nil)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ScheduleHydration registers the fixed hydration cadence, one entry per
// hour of the cadence.
func (s *Scheduler) ScheduleHydration(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(hydrationHours))
	for _, h := range hydrationHours {
		id, err := s.Schedule(ctx, CategoryHydration,
			Content{Title: "Time to hydrate", Body: "A glass of water keeps you on track."},
			Options{Hour: IntPtr(h), Minute: IntPtr(0), Repeats: true}, nil)
		if err != nil {
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ScheduleEveningWindDown registers the repeating wind-down reminder.
func (s *Scheduler) ScheduleEveningWindDown(ctx context.Context) (string, error) {
	return s.Schedule(ctx, CategoryEveningWindDown,
		Content{Title: "Wind down", Body: "Screens off soon; give yourself a calm evening."},
		Options{Hour: IntPtr(windDownHour), Minute: IntPtr(windDownMinute), Repeats: true}, nil)
}

// ScheduleDailyDigest registers the digest at the user's preferred hour.
// The preference is read from durable storage, then the configured
// fallback, then the built-in default.
func (s *Scheduler) ScheduleDailyDigest(ctx context.Context) (string, error) {
	return s.Schedule(ctx, CategoryDailyDigest,
		Content{Title: "Your daily digest", Body: "Progress, streaks and today's suggestions."},
		Options{Hour: IntPtr(s.digestHour(ctx)), Minute: IntPtr(0), Repeats: true}, nil)
}

func (s *Scheduler) digestHour(ctx context.Context) int {
	if v, ok, err := s.store.Get(ctx, digestHourKey); err == nil && ok {
		if h, perr := strconv.Atoi(v); perr == nil && h >= 0 && h <= 23 {
			return h
		}
		s.log.Warn("stored digest hour unusable, using fallback", logx.String("value", v))
	}
	s.cfgMu.Lock()
	h := s.cfg.DigestHour
	s.cfgMu.Unlock()
	if h >= 1 && h <= 23 {
		return h
	}
	return fallbackDigestHour
}
