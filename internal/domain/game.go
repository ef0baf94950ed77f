package domain

import "time"

// StripGame is a saved or finished game as archived outside the live session.
type StripGame struct {
	ID           string
	Record       string
	Moves        []string
	Result       string
	ResultMethod string
	TimeControl  int
	WhiteSeconds float64
	BlackSeconds float64
	StartedAt    time.Time
	EndedAt      time.Time
	Duration     time.Duration
}
