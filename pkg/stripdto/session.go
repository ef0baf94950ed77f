package stripdto

import "time"

type ClockView struct {
	Remaining float64 `json:"remaining"`
	Running   bool    `json:"running"`
}

type SessionState struct {
	SessionID   string    `json:"session_id"`
	Board       []string  `json:"board"`
	Diagram     string    `json:"diagram"`
	Turn        string    `json:"turn"`
	TurnText    string    `json:"turn_text"`
	ClockText   string    `json:"clock_text"`
	White       ClockView `json:"white"`
	Black       ClockView `json:"black"`
	TimeControl int       `json:"time_control"`
	Moves       []string  `json:"moves"`
	Record      string    `json:"record"`
	Outcome     string    `json:"outcome"`
	OutcomeText string    `json:"outcome_text"`
	StartedAt   time.Time `json:"started_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
