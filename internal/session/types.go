package session

import (
	"errors"
	"time"

	"github.com/park285/stripchess/internal/record"
	"github.com/park285/stripchess/internal/strip"
)

var (
	ErrEmptyOrigin = errors.New("no piece on origin square")
	ErrWrongTurn   = errors.New("piece does not belong to the side to move")
	ErrIllegalMove = errors.New("illegal move")
)

// Source tells where a move came from. Both sources go through the same
// rule checks; they differ only in the timing annotation they record.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// Clock is one side's clock. Remaining is only ever set, never ticked down.
type Clock struct {
	Remaining  float64   `json:"remaining"`
	Running    bool      `json:"running"`
	LastUpdate time.Time `json:"last_update"`
}

func newClock(seconds int, now time.Time) Clock {
	return Clock{Remaining: float64(seconds), LastUpdate: now}
}

func (c *Clock) start(now time.Time) {
	c.Running = true
	c.LastUpdate = now
}

func (c *Clock) stop(now time.Time) {
	c.Running = false
	c.LastUpdate = now
}

func (c *Clock) set(seconds float64, now time.Time) {
	c.Remaining = seconds
	c.LastUpdate = now
}

// MoveRequest is a move attempt. TimeRemaining and TimeControl are only
// used for SourceRemote.
type MoveRequest struct {
	Origin        strip.Square
	Destination   strip.Square
	Source        Source
	TimeRemaining int
	TimeControl   int
}

// MoveResult describes a committed move.
type MoveResult struct {
	Move    strip.Move
	Token   record.Token
	Outcome strip.Outcome
	Turn    strip.Color
}

// Snapshot is a detached copy of the session, also the persisted form.
type Snapshot struct {
	ID            string        `json:"id"`
	Board         []string      `json:"board"`
	Turn          strip.Color   `json:"turn"`
	White         Clock         `json:"white"`
	Black         Clock         `json:"black"`
	TimeControl   int           `json:"time_control"`
	Record        string        `json:"record"`
	Outcome       strip.Outcome `json:"outcome"`
	StartedAt     time.Time     `json:"started_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	MoveStartedAt time.Time     `json:"move_started_at"`
}

// state is the live aggregate guarded by Controller.mu.
type state struct {
	id            string
	board         strip.Board
	turn          strip.Color
	white         Clock
	black         Clock
	timeControl   int
	rec           record.Record
	startedAt     time.Time
	updatedAt     time.Time
	moveStartedAt time.Time
}

func (s *state) clock(c strip.Color) *Clock {
	if c == strip.White {
		return &s.white
	}
	return &s.black
}

func (s *state) snapshot() Snapshot {
	return Snapshot{
		ID:            s.id,
		Board:         s.board.Codes(),
		Turn:          s.turn,
		White:         s.white,
		Black:         s.black,
		TimeControl:   s.timeControl,
		Record:        record.Format(s.rec),
		Outcome:       strip.Evaluate(&s.board),
		StartedAt:     s.startedAt,
		UpdatedAt:     s.updatedAt,
		MoveStartedAt: s.moveStartedAt,
	}
}
