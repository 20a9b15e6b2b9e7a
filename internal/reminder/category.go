package reminder

// Category is a fixed kind of reminder. It routes the notification and
// namespaces deduplication.
type Category string

const (
	CategoryMorningGreeting Category = "morning_greeting"
	CategoryEveningWindDown Category = "evening_winddown"
	CategoryHydration       Category = "hydration"
	CategoryWeeklyCheckin   Category = "weekly_checkin"
	CategoryDailyDigest     Category = "daily_digest"

	// Dynamic one-shot alerts, coalesced rather than exact-matched.
	CategoryStreakGoal    Category = "streak_goal"
	CategoryFridgeExpiry  Category = "fridge_expiry"
	CategoryJournalPrompt Category = "journal_prompt"
)

var categories = map[Category]struct{}{
	CategoryMorningGreeting: {},
	CategoryEveningWindDown: {},
	CategoryHydration:       {},
	CategoryWeeklyCheckin:   {},
	CategoryDailyDigest:     {},
	CategoryStreakGoal:      {},
	CategoryFridgeExpiry:    {},
	CategoryJournalPrompt:   {},
}

func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

// Content is the caller-supplied notification text. This layer never
// decides what a reminder says.
type Content struct {
	Title string
	Body  string
}
