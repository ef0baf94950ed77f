package stripdto

import "time"

type RecordList struct {
	IDs []string `json:"ids"`
}

type SavedRecord struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// ReplayPosition is one reconstructed position of a saved record.
type ReplayPosition struct {
	Index    int      `json:"index"`
	MaxIndex int      `json:"max_index"`
	Board    []string `json:"board"`
	Diagram  string   `json:"diagram"`
	Turn     string   `json:"turn"`
	White    float64  `json:"white"`
	Black    float64  `json:"black"`
	LastMove string   `json:"last_move,omitempty"`
	Skipped  []int    `json:"skipped,omitempty"`
	Result   string   `json:"result"`
	Warnings []string `json:"warnings,omitempty"`
}

// GameSummary is an archived game as listed by the admin surface.
type GameSummary struct {
	ID           string    `json:"id"`
	Result       string    `json:"result"`
	ResultMethod string    `json:"result_method,omitempty"`
	MethodText   string    `json:"method_text,omitempty"`
	Moves        []string  `json:"moves"`
	Record       string    `json:"record"`
	TimeControl  int       `json:"time_control"`
	StartedAt    time.Time `json:"started_at"`
	EndedAt      time.Time `json:"ended_at"`
	DurationMs   int64     `json:"duration_ms"`
}
