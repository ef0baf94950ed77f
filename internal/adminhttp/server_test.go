package adminhttp

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/park285/stripchess/internal/archive"
	"github.com/park285/stripchess/internal/msgcat"
	"github.com/park285/stripchess/internal/session"
	"github.com/park285/stripchess/pkg/stripdto"
	"github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, records bool) *Server {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat: %v", err)
	}
	opts := session.Options{Logger: zap.NewNop(), GamesDir: t.TempDir()}
	var store *session.RedisStore
	if records {
		mr, err := miniredis.Run()
		if err != nil {
			t.Fatalf("miniredis: %v", err)
		}
		t.Cleanup(func() { mr.Close() })
		store = session.NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Hour)
		opts.Store = store
	}
	mem := archive.NewMemory()
	opts.Archive = mem
	ctrl := session.NewController(opts)
	sopts := Options{Catalog: cat, Logger: zap.NewNop(), Games: mem}
	if store != nil {
		sopts.Records = store
	}
	return New(ctrl, sopts)
}

func do(s *Server, method, uri, body string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if body != "" {
		req.SetBodyString(body)
	}
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	s.Handle(ctx)
	return ctx
}

func decode[T any](t *testing.T, ctx *fasthttp.RequestCtx) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(ctx.Response.Body(), &v); err != nil {
		t.Fatalf("decode %q: %v", ctx.Response.Body(), err)
	}
	return v
}

func TestStateAndLocalMove(t *testing.T) {
	s := newTestServer(t, false)

	ctx := do(s, fasthttp.MethodGet, "/state", "")
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("status=%d", ctx.Response.StatusCode())
	}
	st := decode[stripdto.SessionState](t, ctx)
	if st.Turn != "white" || st.Board[0] != "wK" || st.OutcomeText != "In progress" {
		t.Fatalf("state=%+v", st)
	}
	if st.TurnText != "white to move" || st.ClockText != "White 600s / Black 600s (time control 600s)" {
		t.Fatalf("turn=%q clocks=%q", st.TurnText, st.ClockText)
	}

	ctx = do(s, fasthttp.MethodPost, "/move?from=1&to=3", "")
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("move status=%d body=%s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	sum := decode[stripdto.MoveSummary](t, ctx)
	if sum.Notation != "N4" || !strings.HasPrefix(sum.Token, "N4 (") || sum.State.Turn != "black" {
		t.Fatalf("summary=%+v", sum)
	}
	if len(sum.State.Moves) != 1 || sum.State.Moves[0] != "N4" {
		t.Fatalf("moves=%v", sum.State.Moves)
	}

	ctx = do(s, fasthttp.MethodPost, "/move?from=3&to=5", "")
	if ctx.Response.StatusCode() != fasthttp.StatusConflict {
		t.Fatalf("wrong-turn status=%d", ctx.Response.StatusCode())
	}
	if e := decode[stripdto.DomainError](t, ctx); e.Code != "wrong_turn" {
		t.Fatalf("error=%+v", e)
	}

	ctx = do(s, fasthttp.MethodPost, "/move?from=a&to=3", "")
	if ctx.Response.StatusCode() != fasthttp.StatusBadRequest {
		t.Fatalf("bad request status=%d", ctx.Response.StatusCode())
	}

	ctx = do(s, fasthttp.MethodGet, "/record", "")
	if got := string(ctx.Response.Body()); !strings.HasPrefix(got, "1. N4 (") {
		t.Fatalf("record=%q", got)
	}
}

func TestClockToggle(t *testing.T) {
	s := newTestServer(t, false)
	st := decode[stripdto.SessionState](t, do(s, fasthttp.MethodPost, "/clock/toggle", ""))
	if !st.White.Running || st.Black.Running {
		t.Fatalf("after start: %+v %+v", st.White, st.Black)
	}
	st = decode[stripdto.SessionState](t, do(s, fasthttp.MethodPost, "/clock/toggle", ""))
	if st.White.Running || st.Black.Running {
		t.Fatalf("after stop: %+v %+v", st.White, st.Black)
	}
}

func TestReplayEndpoint(t *testing.T) {
	s := newTestServer(t, false)
	body := "1. N4 590 Rx4 587\n2. Rx4 580 N5 577\n3. Rx5# 570\n1-0\n"

	pos := decode[stripdto.ReplayPosition](t, do(s, fasthttp.MethodPost, "/replay", body))
	if pos.Index != 4 || pos.MaxIndex != 5 || pos.LastMove != "Rx5#" || pos.Result != "1-0" {
		t.Fatalf("final=%+v", pos)
	}
	if pos.Board[4] != "wR" || pos.Turn != "black" {
		t.Fatalf("final board=%v turn=%s", pos.Board, pos.Turn)
	}

	pos = decode[stripdto.ReplayPosition](t, do(s, fasthttp.MethodPost, "/replay?index=-1", body))
	if pos.Index != -1 || pos.Board[1] != "wN" || pos.White != 600 {
		t.Fatalf("initial=%+v", pos)
	}

	ctx := do(s, fasthttp.MethodPost, "/replay?index=9", body)
	if ctx.Response.StatusCode() != fasthttp.StatusBadRequest {
		t.Fatalf("out of range status=%d", ctx.Response.StatusCode())
	}
}

func TestSaveAndRecords(t *testing.T) {
	s := newTestServer(t, true)
	do(s, fasthttp.MethodPost, "/move?from=1&to=3", "")

	ctx := do(s, fasthttp.MethodPost, "/save?result=1/2-1/2", "")
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("save status=%d body=%s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	saved := decode[stripdto.SaveResponse](t, ctx)
	if saved.Result != "1/2-1/2" || !strings.HasSuffix(saved.Text, "1/2-1/2\n") || !strings.HasSuffix(saved.Path, ".txt") {
		t.Fatalf("saved=%+v", saved)
	}
	if saved.Message != "Saved "+saved.Path+" (1/2-1/2)" {
		t.Fatalf("message=%q", saved.Message)
	}

	list := decode[stripdto.RecordList](t, do(s, fasthttp.MethodGet, "/records", ""))
	if len(list.IDs) != 1 {
		t.Fatalf("records=%v", list.IDs)
	}
	rec := decode[stripdto.SavedRecord](t, do(s, fasthttp.MethodGet, "/records/"+list.IDs[0], ""))
	if rec.Text != saved.Text {
		t.Fatalf("record text=%q want %q", rec.Text, saved.Text)
	}
	if ctx := do(s, fasthttp.MethodGet, "/records/unknown", ""); ctx.Response.StatusCode() != fasthttp.StatusNotFound {
		t.Fatalf("unknown record status=%d", ctx.Response.StatusCode())
	}

	games := decode[[]stripdto.GameSummary](t, do(s, fasthttp.MethodGet, "/games", ""))
	if len(games) != 1 || games[0].ID != list.IDs[0] || games[0].Result != "1/2-1/2" || games[0].ResultMethod != "declared" || games[0].MethodText != "declared result" {
		t.Fatalf("games=%+v", games)
	}
}

func TestRecordsDisabledAndUnknownRoute(t *testing.T) {
	s := newTestServer(t, false)
	if ctx := do(s, fasthttp.MethodGet, "/records", ""); ctx.Response.StatusCode() != fasthttp.StatusNotFound {
		t.Fatalf("records without store status=%d", ctx.Response.StatusCode())
	}
	if ctx := do(s, fasthttp.MethodGet, "/nope", ""); ctx.Response.StatusCode() != fasthttp.StatusNotFound {
		t.Fatalf("unknown route status=%d", ctx.Response.StatusCode())
	}
	st := decode[stripdto.SessionState](t, do(s, fasthttp.MethodPost, "/new", ""))
	if st.Turn != "white" || len(st.Moves) != 0 {
		t.Fatalf("new game state=%+v", st)
	}
}
