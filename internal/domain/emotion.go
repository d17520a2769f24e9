package domain

import (
	"strings"
	"time"
)

// Mood is an emotional-state label inferred at session end.
type Mood string

// The closed set of mood labels the inference workflow may produce.
const (
	MoodNeutral    Mood = "neutral"
	MoodExcited    Mood = "excited"
	MoodAnxious    Mood = "anxious"
	MoodFrustrated Mood = "frustrated"
	MoodDepressed  Mood = "depressed"
)

// Moods lists every valid mood label, in the order they are presented to the
// model.
var Moods = []Mood{MoodNeutral, MoodExcited, MoodAnxious, MoodFrustrated, MoodDepressed}

// ParseMood validates a raw label against the closed mood set.
func ParseMood(raw string) (Mood, bool) {
	m := Mood(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range Moods {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// EmotionEvent is the record written once per ended session.
type EmotionEvent struct {
	ID        int64     `json:"id,omitempty"`
	UserID    string    `json:"user_id"`
	Reason    string    `json:"reason"`
	Emotion   Mood      `json:"emotion"`
	CreatedAt time.Time `json:"created_at"`
}
