package stripdto

// MoveSummary is returned after a committed local move.
type MoveSummary struct {
	State    *SessionState `json:"state"`
	Notation string        `json:"notation"`
	Token    string        `json:"token"`
	Captured string        `json:"captured,omitempty"`
	Finished bool          `json:"finished"`
}

type SaveResponse struct {
	Path    string `json:"path"`
	Result  string `json:"result"`
	Text    string `json:"text"`
	Message string `json:"message"`
}
