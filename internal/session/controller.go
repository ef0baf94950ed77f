package session

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/park285/stripchess/internal/domain"
	"github.com/park285/stripchess/internal/obslog"
	"github.com/park285/stripchess/internal/record"
	"github.com/park285/stripchess/internal/strip"
	"go.uber.org/zap"
)

const defaultTimeControl = 600

// SnapshotStore keeps the live session and saved records outside the process.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, snap *Snapshot) error
	LoadSnapshot(ctx context.Context) (*Snapshot, error)
	SaveRecord(ctx context.Context, id, text string) error
}

// Archiver persists saved and finished games.
type Archiver interface {
	SaveGame(ctx context.Context, g *domain.StripGame) error
}

type Options struct {
	TimeControl int
	GamesDir    string
	Store       SnapshotStore
	Archive     Archiver
	Logger      *zap.Logger
	Now         func() time.Time
}

// Controller owns the single live session. Every read and mutation, from
// the local surface or the device protocol, goes through mu.
type Controller struct {
	mu  sync.Mutex
	st  state
	cfg Options
	log *zap.Logger
}

func NewController(opts Options) *Controller {
	if opts.TimeControl <= 0 {
		opts.TimeControl = defaultTimeControl
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if strings.TrimSpace(opts.GamesDir) == "" {
		opts.GamesDir = "games"
	}
	logger := opts.Logger
	if logger == nil {
		logger = obslog.Named("session")
	}
	c := &Controller{cfg: opts, log: logger}
	c.st = c.freshState(opts.TimeControl)
	return c
}

func (c *Controller) freshState(timeControl int) state {
	now := c.cfg.Now()
	return state{
		id:            uuid.NewString(),
		board:         strip.StartingBoard(),
		turn:          strip.White,
		white:         newClock(timeControl, now),
		black:         newClock(timeControl, now),
		timeControl:   timeControl,
		startedAt:     now,
		updatedAt:     now,
		moveStartedAt: now,
	}
}

// Restore loads the persisted snapshot, if any, into the controller.
func (c *Controller) Restore(ctx context.Context) (bool, error) {
	if c.cfg.Store == nil {
		return false, nil
	}
	snap, err := c.cfg.Store.LoadSnapshot(ctx)
	if err != nil {
		return false, fmt.Errorf("load snapshot: %w", err)
	}
	if snap == nil {
		return false, nil
	}
	st, err := stateFromSnapshot(snap)
	if err != nil {
		return false, err
	}
	c.mu.Lock()
	c.st = st
	c.mu.Unlock()
	c.log.Info("session_restore",
		zap.String("session_id", st.id),
		zap.String("turn", string(st.turn)),
		zap.Int("half_moves", st.rec.HalfMoves()),
	)
	return true, nil
}

func stateFromSnapshot(snap *Snapshot) (state, error) {
	board, err := strip.BoardFromCodes(snap.Board)
	if err != nil {
		return state{}, fmt.Errorf("snapshot board: %w", err)
	}
	if err := board.Validate(); err != nil {
		return state{}, fmt.Errorf("snapshot board: %w", err)
	}
	if snap.Turn != strip.White && snap.Turn != strip.Black {
		return state{}, fmt.Errorf("snapshot turn %q", snap.Turn)
	}
	rec, warnings := record.ParseString(snap.Record)
	if len(warnings) > 0 {
		return state{}, fmt.Errorf("snapshot record: %s", warnings[0])
	}
	id := snap.ID
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}
	return state{
		id:            id,
		board:         board,
		turn:          snap.Turn,
		white:         snap.White,
		black:         snap.Black,
		timeControl:   snap.TimeControl,
		rec:           rec,
		startedAt:     snap.StartedAt,
		updatedAt:     snap.UpdatedAt,
		moveStartedAt: snap.MoveStartedAt,
	}, nil
}

// Play validates and commits a move. Rejections leave the session untouched.
func (c *Controller) Play(ctx context.Context, req MoveRequest) (MoveResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := &c.st
	if !req.Origin.Valid() || !req.Destination.Valid() {
		return MoveResult{}, ErrIllegalMove
	}
	p := st.board.At(req.Origin)
	if p == nil {
		return MoveResult{}, ErrEmptyOrigin
	}
	if p.Color != st.turn {
		return MoveResult{}, ErrWrongTurn
	}
	if !strip.IsLegalMove(*p, req.Origin, req.Destination, &st.board) {
		return MoveResult{}, ErrIllegalMove
	}

	now := c.cfg.Now()
	mv, _ := strip.Apply(&st.board, req.Origin, req.Destination)
	mover := mv.Piece.Color
	tok := record.Token{Notation: mv.Notation}
	switch req.Source {
	case SourceRemote:
		tok.Annotation = record.Remaining(req.TimeRemaining)
		st.clock(mover).set(float64(req.TimeRemaining), now)
		st.timeControl = req.TimeControl
	default:
		elapsed := now.Sub(st.moveStartedAt).Seconds()
		if elapsed < 0 {
			// restored timestamps carry no monotonic reading
			elapsed = 0
		}
		tok.Annotation = record.Elapsed(elapsed)
		if st.clock(mover).Running {
			st.clock(mover).stop(now)
			st.clock(mover.Opponent()).start(now)
		}
	}
	st.rec.Append(tok)
	st.turn = mover.Opponent()
	st.moveStartedAt = now
	st.updatedAt = now

	outcome := strip.Evaluate(&st.board)
	c.log.Info("session_move",
		zap.String("session_id", st.id),
		zap.String("source", string(req.Source)),
		zap.String("piece", mv.Piece.Code()),
		zap.Int("origin", int(mv.Origin)),
		zap.Int("destination", int(mv.Destination)),
		zap.String("notation", mv.Notation),
		zap.String("turn", string(st.turn)),
		zap.String("outcome", outcome.String()),
	)
	c.persistLocked(ctx)
	if outcome.Finished() {
		res, method := determineResult(&st.board)
		c.archiveLocked(ctx, res, method)
	}
	return MoveResult{Move: mv, Token: tok, Outcome: outcome, Turn: st.turn}, nil
}

// Reset replaces the session with a fresh one at the starting position,
// keeping the active time control.
func (c *Controller) Reset(ctx context.Context) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resetLocked(ctx)
}

// NewGame archives the current game when it has moves, then resets.
func (c *Controller) NewGame(ctx context.Context) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.st.rec.Empty() {
		res, method := determineResult(&c.st.board)
		c.archiveLocked(ctx, res, method)
	}
	return c.resetLocked(ctx)
}

func (c *Controller) resetLocked(ctx context.Context) Snapshot {
	tc := c.st.timeControl
	if tc <= 0 {
		tc = c.cfg.TimeControl
	}
	c.st = c.freshState(tc)
	c.log.Info("session_reset", zap.String("session_id", c.st.id), zap.Int("time_control", tc))
	c.persistLocked(ctx)
	return c.st.snapshot()
}

// StartClocks runs the clock of the side to move.
func (c *Controller) StartClocks(ctx context.Context) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startClocksLocked(ctx)
	return c.st.snapshot()
}

// StopClocks pauses both clocks.
func (c *Controller) StopClocks(ctx context.Context) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopClocksLocked(ctx)
	return c.st.snapshot()
}

// ToggleClocks stops running clocks or starts stopped ones.
func (c *Controller) ToggleClocks(ctx context.Context) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.st.white.Running || c.st.black.Running {
		c.stopClocksLocked(ctx)
	} else {
		c.startClocksLocked(ctx)
	}
	return c.st.snapshot()
}

func (c *Controller) startClocksLocked(ctx context.Context) {
	now := c.cfg.Now()
	c.st.clock(c.st.turn).start(now)
	c.st.clock(c.st.turn.Opponent()).stop(now)
	c.persistLocked(ctx)
}

func (c *Controller) stopClocksLocked(ctx context.Context) {
	now := c.cfg.Now()
	c.st.white.stop(now)
	c.st.black.stop(now)
	c.persistLocked(ctx)
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.snapshot()
}

// Record returns a copy of the move history.
func (c *Controller) Record() record.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.st.rec.Clone()
}

// Save writes the record with a result: the one the board already implies,
// otherwise supplied. An unknown supplied value is saved as undetermined.
func (c *Controller) Save(ctx context.Context, w io.Writer, supplied string) (record.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec := c.resultRecordLocked(supplied)
	if err := record.Write(w, rec); err != nil {
		return rec.Result, err
	}
	c.afterSaveLocked(ctx, rec)
	return rec.Result, nil
}

// SaveFile saves into GamesDir as game_<session id>.txt.
func (c *Controller) SaveFile(ctx context.Context, supplied string) (string, record.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec := c.resultRecordLocked(supplied)
	path := filepath.Join(c.cfg.GamesDir, "game_"+c.st.id+".txt")
	if err := record.WriteFile(path, rec); err != nil {
		return "", rec.Result, err
	}
	c.log.Info("session_save_file", zap.String("session_id", c.st.id), zap.String("path", path), zap.String("result", string(rec.Result)))
	c.afterSaveLocked(ctx, rec)
	return path, rec.Result, nil
}

func (c *Controller) resultRecordLocked(supplied string) record.Record {
	rec := c.st.rec.Clone()
	if res, _ := determineResult(&c.st.board); res != record.ResultUndetermined {
		rec.Result = res
		return rec
	}
	res, ok := record.ParseResult(supplied)
	if !ok {
		c.log.Warn("session_save_invalid_result", zap.String("session_id", c.st.id), zap.String("supplied", supplied))
	}
	rec.Result = res
	return rec
}

func (c *Controller) afterSaveLocked(ctx context.Context, rec record.Record) {
	if c.cfg.Store != nil {
		if err := c.cfg.Store.SaveRecord(ctx, c.st.id, record.Format(rec)); err != nil {
			c.log.Error("session_record_store_error", zap.String("session_id", c.st.id), zap.Error(err))
		}
	}
	method := "declared"
	if _, m := determineResult(&c.st.board); m != "" {
		method = m
	}
	if rec.Result == record.ResultUndetermined {
		method = ""
	}
	c.archiveLocked(ctx, rec.Result, method)
}

func (c *Controller) persistLocked(ctx context.Context) {
	if c.cfg.Store == nil {
		return
	}
	snap := c.st.snapshot()
	if err := c.cfg.Store.SaveSnapshot(ctx, &snap); err != nil {
		c.log.Error("session_snapshot_error", zap.String("session_id", c.st.id), zap.Error(err))
	}
}

func (c *Controller) archiveLocked(ctx context.Context, res record.Result, method string) {
	if c.cfg.Archive == nil {
		return
	}
	rec := c.st.rec.Clone()
	rec.Result = res
	moves := make([]string, 0, rec.HalfMoves())
	for _, t := range rec.Tokens() {
		moves = append(moves, t.Notation)
	}
	now := c.cfg.Now()
	g := &domain.StripGame{
		ID:           c.st.id,
		Record:       record.Format(rec),
		Moves:        moves,
		Result:       string(res),
		ResultMethod: method,
		TimeControl:  c.st.timeControl,
		WhiteSeconds: c.st.white.Remaining,
		BlackSeconds: c.st.black.Remaining,
		StartedAt:    c.st.startedAt,
		EndedAt:      now,
		Duration:     now.Sub(c.st.startedAt),
	}
	if err := c.cfg.Archive.SaveGame(ctx, g); err != nil {
		c.log.Error("session_archive_error", zap.String("session_id", g.ID), zap.String("result", g.Result), zap.Error(err))
		return
	}
	c.log.Info("session_archive", zap.String("session_id", g.ID), zap.String("result", g.Result), zap.String("method", method))
}

// determineResult maps the board to a result the way a save does: mate
// first, then stalemate or bare kings.
func determineResult(b *strip.Board) (record.Result, string) {
	switch {
	case strip.IsCheckmate(strip.Black, b):
		return record.ResultWhiteWins, "checkmate"
	case strip.IsCheckmate(strip.White, b):
		return record.ResultBlackWins, "checkmate"
	case strip.IsStalemate(strip.White, b), strip.IsStalemate(strip.Black, b):
		return record.ResultDraw, "stalemate"
	case strip.IsInsufficientMaterial(b):
		return record.ResultDraw, "insufficient_material"
	}
	return record.ResultUndetermined, ""
}
