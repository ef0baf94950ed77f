package adminhttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/park285/stripchess/internal/domain"
	"github.com/park285/stripchess/internal/msgcat"
	"github.com/park285/stripchess/internal/obslog"
	"github.com/park285/stripchess/internal/record"
	"github.com/park285/stripchess/internal/session"
	"github.com/park285/stripchess/internal/strip"
	"github.com/park285/stripchess/pkg/stripdto"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// RecordStore lists records saved to Redis. Optional.
type RecordStore interface {
	LoadRecord(ctx context.Context, id string) (string, error)
	RecentRecords(ctx context.Context, limit int) ([]string, error)
}

// GameLister lists archived games.
type GameLister interface {
	RecentGames(ctx context.Context, limit int) ([]*domain.StripGame, error)
}

// Server is the local operator surface: everything the on-board buttons
// and drag input do, over HTTP.
type Server struct {
	ctrl    *session.Controller
	records RecordStore
	games   GameLister
	cat     *msgcat.Catalog
	log     *zap.Logger
	srv     *fasthttp.Server
}

type Options struct {
	Records RecordStore
	Games   GameLister
	Catalog *msgcat.Catalog
	Logger  *zap.Logger
}

func New(ctrl *session.Controller, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = obslog.Named("admin")
	}
	s := &Server{ctrl: ctrl, records: opts.Records, games: opts.Games, cat: opts.Catalog, log: logger}
	s.srv = &fasthttp.Server{
		Handler:            s.Handle,
		Name:               "stripchess-admin",
		ReadTimeout:        10 * time.Second,
		WriteTimeout:       10 * time.Second,
		MaxRequestBodySize: 64 << 10,
	}
	return s
}

func (s *Server) ListenAndServe(addr string) error {
	s.log.Info("admin_listen", zap.String("addr", addr))
	return s.srv.ListenAndServe(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.ShutdownWithContext(ctx)
}

// Handle routes one request. Session operations run on a background
// context, not the request.
func (s *Server) Handle(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	get, post := ctx.IsGet(), ctx.IsPost()
	switch {
	case get && path == "/state":
		s.writeJSON(ctx, fasthttp.StatusOK, s.stateView(s.ctrl.Snapshot()))
	case get && path == "/record":
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString(record.Format(s.ctrl.Record()))
	case post && path == "/move":
		s.handleMove(ctx)
	case post && path == "/reset":
		s.writeJSON(ctx, fasthttp.StatusOK, s.stateView(s.ctrl.Reset(context.Background())))
	case post && path == "/new":
		s.writeJSON(ctx, fasthttp.StatusOK, s.stateView(s.ctrl.NewGame(context.Background())))
	case post && path == "/save":
		s.handleSave(ctx)
	case post && path == "/clock/start":
		s.writeJSON(ctx, fasthttp.StatusOK, s.stateView(s.ctrl.StartClocks(context.Background())))
	case post && path == "/clock/stop":
		s.writeJSON(ctx, fasthttp.StatusOK, s.stateView(s.ctrl.StopClocks(context.Background())))
	case post && path == "/clock/toggle":
		s.writeJSON(ctx, fasthttp.StatusOK, s.stateView(s.ctrl.ToggleClocks(context.Background())))
	case post && path == "/replay":
		s.handleReplay(ctx)
	case get && path == "/records":
		s.handleRecords(ctx)
	case get && strings.HasPrefix(path, "/records/"):
		s.handleRecord(ctx, strings.TrimPrefix(path, "/records/"))
	case get && path == "/games":
		s.handleGames(ctx)
	default:
		s.writeError(ctx, fasthttp.StatusNotFound, "not_found", "unknown route")
	}
}

func (s *Server) handleMove(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	from, err1 := args.GetUint("from")
	to, err2 := args.GetUint("to")
	if err1 != nil || err2 != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, "bad_request", "from and to must be square indexes")
		return
	}
	res, err := s.ctrl.Play(context.Background(), session.MoveRequest{
		Origin:      strip.Square(from),
		Destination: strip.Square(to),
		Source:      session.SourceLocal,
	})
	if err != nil {
		code := "illegal_move"
		switch {
		case errors.Is(err, session.ErrEmptyOrigin):
			code = "empty_origin"
		case errors.Is(err, session.ErrWrongTurn):
			code = "wrong_turn"
		}
		s.writeError(ctx, fasthttp.StatusConflict, code, err.Error())
		return
	}
	sum := stripdto.MoveSummary{
		State:    s.stateView(s.ctrl.Snapshot()),
		Notation: res.Move.Notation,
		Token:    res.Token.String(),
		Finished: res.Outcome.Finished(),
	}
	if res.Move.Captured != nil {
		sum.Captured = res.Move.Captured.Code()
	}
	s.writeJSON(ctx, fasthttp.StatusOK, sum)
}

func (s *Server) handleSave(ctx *fasthttp.RequestCtx) {
	supplied := string(ctx.QueryArgs().Peek("result"))
	path, res, err := s.ctrl.SaveFile(context.Background(), supplied)
	if err != nil {
		s.log.Error("admin_save_error", zap.Error(err))
		s.writeError(ctx, fasthttp.StatusInternalServerError, "save_failed", err.Error())
		return
	}
	rec := s.ctrl.Record()
	rec.Result = res
	s.writeJSON(ctx, fasthttp.StatusOK, stripdto.SaveResponse{
		Path:    path,
		Result:  string(res),
		Text:    record.Format(rec),
		Message: s.cat.Text("status.saved", map[string]any{"Path": path, "Result": string(res)}),
	})
}

// handleReplay reconstructs a position from the record text in the body.
// Without ?index= the position after the last recorded half-move is returned.
func (s *Server) handleReplay(ctx *fasthttp.RequestCtx) {
	rec, warnings := record.ParseString(string(ctx.PostBody()))
	tc := s.ctrl.Snapshot().TimeControl
	rp := record.NewReplay(rec, tc)
	index := rec.HalfMoves() - 1
	if ctx.QueryArgs().Has("index") {
		n, err := strconv.Atoi(string(ctx.QueryArgs().Peek("index")))
		if err != nil {
			s.writeError(ctx, fasthttp.StatusBadRequest, "bad_request", "index must be an integer")
			return
		}
		index = n
	}
	pos, err := rp.Seek(index)
	if err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, "index_out_of_range", err.Error())
		return
	}
	view := stripdto.ReplayPosition{
		Index:    pos.Index,
		MaxIndex: rp.MaxIndex(),
		Board:    pos.Board.Codes(),
		Diagram:  pos.Board.String(),
		Turn:     string(pos.Turn),
		White:    pos.WhiteSeconds,
		Black:    pos.BlackSeconds,
		LastMove: pos.LastMove,
		Skipped:  pos.Skipped,
		Result:   string(rec.Result),
	}
	for _, w := range warnings {
		view.Warnings = append(view.Warnings, w.String())
	}
	s.writeJSON(ctx, fasthttp.StatusOK, view)
}

func (s *Server) handleRecords(ctx *fasthttp.RequestCtx) {
	if s.records == nil {
		s.writeError(ctx, fasthttp.StatusNotFound, "records_disabled", "no record store configured")
		return
	}
	limit := ctx.QueryArgs().GetUintOrZero("limit")
	ids, err := s.records.RecentRecords(context.Background(), limit)
	if err != nil {
		s.log.Error("admin_records_error", zap.Error(err))
		s.writeError(ctx, fasthttp.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(ctx, fasthttp.StatusOK, stripdto.RecordList{IDs: ids})
}

func (s *Server) handleRecord(ctx *fasthttp.RequestCtx, id string) {
	if s.records == nil {
		s.writeError(ctx, fasthttp.StatusNotFound, "records_disabled", "no record store configured")
		return
	}
	text, err := s.records.LoadRecord(context.Background(), id)
	if err != nil {
		s.log.Error("admin_record_error", zap.String("id", id), zap.Error(err))
		s.writeError(ctx, fasthttp.StatusInternalServerError, "store_error", err.Error())
		return
	}
	if text == "" {
		s.writeError(ctx, fasthttp.StatusNotFound, "not_found", "no such record")
		return
	}
	s.writeJSON(ctx, fasthttp.StatusOK, stripdto.SavedRecord{ID: id, Text: text})
}

func (s *Server) handleGames(ctx *fasthttp.RequestCtx) {
	if s.games == nil {
		s.writeError(ctx, fasthttp.StatusNotFound, "archive_disabled", "no archive configured")
		return
	}
	games, err := s.games.RecentGames(context.Background(), ctx.QueryArgs().GetUintOrZero("limit"))
	if err != nil {
		s.log.Error("admin_games_error", zap.Error(err))
		s.writeError(ctx, fasthttp.StatusInternalServerError, "archive_error", err.Error())
		return
	}
	out := make([]stripdto.GameSummary, 0, len(games))
	for _, g := range games {
		moves := g.Moves
		if moves == nil {
			moves = []string{}
		}
		var methodText string
		if g.ResultMethod != "" {
			methodText = s.cat.Text("method."+g.ResultMethod, nil)
		}
		out = append(out, stripdto.GameSummary{
			ID:           g.ID,
			Result:       g.Result,
			ResultMethod: g.ResultMethod,
			MethodText:   methodText,
			Moves:        moves,
			Record:       g.Record,
			TimeControl:  g.TimeControl,
			StartedAt:    g.StartedAt,
			EndedAt:      g.EndedAt,
			DurationMs:   g.Duration.Milliseconds(),
		})
	}
	s.writeJSON(ctx, fasthttp.StatusOK, out)
}

func (s *Server) stateView(snap session.Snapshot) *stripdto.SessionState {
	view := &stripdto.SessionState{
		SessionID:   snap.ID,
		Board:       snap.Board,
		Turn:        string(snap.Turn),
		TurnText:    s.cat.Text("status.turn", map[string]any{"Turn": string(snap.Turn)}),
		ClockText:   s.clockText(snap),
		White:       stripdto.ClockView{Remaining: snap.White.Remaining, Running: snap.White.Running},
		Black:       stripdto.ClockView{Remaining: snap.Black.Remaining, Running: snap.Black.Running},
		TimeControl: snap.TimeControl,
		Moves:       []string{},
		Record:      snap.Record,
		Outcome:     snap.Outcome.String(),
		OutcomeText: s.cat.Text("outcome."+snap.Outcome.String(), nil),
		StartedAt:   snap.StartedAt,
		UpdatedAt:   snap.UpdatedAt,
	}
	if b, err := strip.BoardFromCodes(snap.Board); err == nil {
		view.Diagram = b.String()
	}
	rec, _ := record.ParseString(snap.Record)
	for _, t := range rec.Tokens() {
		view.Moves = append(view.Moves, t.Notation)
	}
	return view
}

func (s *Server) clockText(snap session.Snapshot) string {
	return s.cat.Text("status.clocks", map[string]any{
		"White":       fmt.Sprintf("%.0f", snap.White.Remaining),
		"Black":       fmt.Sprintf("%.0f", snap.Black.Remaining),
		"TimeControl": snap.TimeControl,
	})
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.log.Error("admin_encode_error", zap.Error(err))
		ctx.Error("encode error", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, status int, code, msg string) {
	s.writeJSON(ctx, status, stripdto.DomainError{Code: code, Message: msg})
}
