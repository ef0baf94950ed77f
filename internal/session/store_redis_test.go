package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb, time.Hour), mr
}

func TestRedisStoreSnapshotMissing(t *testing.T) {
	store, _ := newTestStore(t)
	snap, err := store.LoadSnapshot(context.Background())
	if err != nil || snap != nil {
		t.Fatalf("expected nil snapshot, got %+v err=%v", snap, err)
	}
}

func TestControllerRestoresFromRedis(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	first := NewController(Options{Store: store, Logger: zap.NewNop()})
	for _, req := range matingGame[:3] {
		if _, err := first.Play(ctx, req); err != nil {
			t.Fatalf("Play: %v", err)
		}
	}
	want := first.Snapshot()
	if ttl := mr.TTL("strip:session:current"); ttl <= 0 {
		t.Fatalf("snapshot key has no ttl: %v", ttl)
	}

	second := NewController(Options{Store: store, Logger: zap.NewNop()})
	ok, err := second.Restore(ctx)
	if err != nil || !ok {
		t.Fatalf("Restore ok=%v err=%v", ok, err)
	}
	got := second.Snapshot()
	if got.ID != want.ID || got.Turn != want.Turn || got.Record != want.Record {
		t.Fatalf("restored %+v want %+v", got, want)
	}
	if strings.Join(got.Board, ",") != strings.Join(want.Board, ",") {
		t.Fatalf("board %v want %v", got.Board, want.Board)
	}
	if got.White.Remaining != 580 || got.Black.Remaining != 587 {
		t.Fatalf("clocks white=%v black=%v", got.White.Remaining, got.Black.Remaining)
	}

	// the restored session continues where the first left off
	res, err := second.Play(ctx, matingGame[3])
	if err != nil || res.Move.Notation != "N5" {
		t.Fatalf("continue: %+v err=%v", res, err)
	}
}

func TestRestoreRejectsCorruptSnapshot(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	bad := &Snapshot{ID: "x", Board: []string{"wK", "", "", "", "", "", "", ""}, Turn: "white"}
	if err := store.SaveSnapshot(ctx, bad); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	c := NewController(Options{Store: store, Logger: zap.NewNop()})
	if ok, err := c.Restore(ctx); err == nil || ok {
		t.Fatalf("expected restore failure, ok=%v err=%v", ok, err)
	}
}

func TestRedisStoreRecords(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	if err := store.SaveRecord(ctx, "a", "1. N4 590\n"); err != nil {
		t.Fatalf("SaveRecord a: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := store.SaveRecord(ctx, "b", "1. R4 580\n1/2-1/2\n"); err != nil {
		t.Fatalf("SaveRecord b: %v", err)
	}
	text, err := store.LoadRecord(ctx, "b")
	if err != nil || text != "1. R4 580\n1/2-1/2\n" {
		t.Fatalf("LoadRecord=%q err=%v", text, err)
	}
	ids, err := store.RecentRecords(ctx, 10)
	if err != nil || len(ids) != 2 || ids[0] != "b" {
		t.Fatalf("RecentRecords=%v err=%v", ids, err)
	}

	mr.Del("strip:record:a")
	ids, err = store.RecentRecords(ctx, 10)
	if err != nil || len(ids) != 1 || ids[0] != "b" {
		t.Fatalf("expired record not pruned: %v err=%v", ids, err)
	}
}

func TestParseRedisURL(t *testing.T) {
	opts, err := parseRedisURL("redis://:secret@localhost:6380/2")
	if err != nil {
		t.Fatalf("parseRedisURL: %v", err)
	}
	if opts.Addr != "localhost:6380" || opts.Password != "secret" || opts.DB != 2 {
		t.Fatalf("opts=%+v", opts)
	}
	if _, err := parseRedisURL("http://localhost"); err == nil {
		t.Fatalf("expected scheme error")
	}
}
