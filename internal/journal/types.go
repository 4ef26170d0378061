// Package journal holds the core entities of daymark: one free-text entry per
// user per calendar day, and the emotion observations derived from them.
package journal

import "time"

// Entry is a single journal entry. At most one entry exists per
// (UserID, EntryDate) pair; the store enforces this.
type Entry struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	EntryDate time.Time `json:"entry_date"`
	Weather   *Weather  `json:"weather,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Weather is an optional snapshot of conditions captured when the entry
// was written. It is informational only and never recomputed.
type Weather struct {
	Description string  `json:"description"`
	Icon        string  `json:"icon,omitempty"`
	TempC       float64 `json:"temp_c"`
}

// Observation is one derived emotion tied to a calendar date. EntryID is nil
// for observations created directly through the API rather than derived from
// an entry. WeekStart/WeekEnd are nil when the observation is not part of a
// week-scoped workflow; when set, WeekEnd is always WeekStart plus six days.
type Observation struct {
	ID           int64      `json:"id"`
	EntryID      *int64     `json:"entry_id,omitempty"`
	EmotionType  string     `json:"emotion_type"`
	Intensity    float64    `json:"intensity"`
	UserID       string     `json:"user_id"`
	ObservedDate time.Time  `json:"observed_date"`
	WeekStart    *time.Time `json:"week_start,omitempty"`
	WeekEnd      *time.Time `json:"week_end,omitempty"`
	ExtractedAt  time.Time  `json:"extracted_at"`
}

// DateOf normalizes a timestamp to midnight in its own location. Entry and
// observation dates are calendar dates; comparisons assume this normal form.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDate reports whether two timestamps fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
