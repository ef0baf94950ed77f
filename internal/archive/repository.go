package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/park285/stripchess/internal/domain"
)

const schema = `CREATE TABLE IF NOT EXISTS strip_games (
    game_id       TEXT PRIMARY KEY,
    result        TEXT NOT NULL DEFAULT '',
    winner        TEXT NOT NULL DEFAULT '',
    result_method TEXT NOT NULL DEFAULT '',
    time_control  INTEGER NOT NULL DEFAULT 0,
    white_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
    black_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
    moves         JSONB NOT NULL DEFAULT '[]',
    record        TEXT NOT NULL DEFAULT '',
    started_at    TIMESTAMPTZ,
    ended_at      TIMESTAMPTZ,
    duration_ms   BIGINT NOT NULL DEFAULT 0
)`

// Repository archives games in Postgres, one row per session id.
type Repository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (*Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// EnsureSchema creates the strip_games table when missing.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if r == nil || r.db == nil {
		return nil
	}
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// SaveGame upserts g. Saving the same session again (a later save, or a
// save after the game ended) overwrites the row.
func (r *Repository) SaveGame(ctx context.Context, g *domain.StripGame) error {
	if r == nil || r.db == nil || g == nil {
		return nil
	}
	movesRaw, err := json.Marshal(movesOrEmpty(g.Moves))
	if err != nil {
		return err
	}
	duration := g.Duration.Milliseconds()
	if duration < 0 {
		duration = 0
	}

	q := `INSERT INTO strip_games (
        game_id, result, winner, result_method, time_control,
        white_seconds, black_seconds, moves, record,
        started_at, ended_at, duration_ms
      ) VALUES (
        $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12
      ) ON CONFLICT (game_id) DO UPDATE SET
        result=EXCLUDED.result,
        winner=EXCLUDED.winner,
        result_method=EXCLUDED.result_method,
        time_control=EXCLUDED.time_control,
        white_seconds=EXCLUDED.white_seconds,
        black_seconds=EXCLUDED.black_seconds,
        moves=EXCLUDED.moves,
        record=EXCLUDED.record,
        ended_at=EXCLUDED.ended_at,
        duration_ms=EXCLUDED.duration_ms`

	_, err = r.db.ExecContext(ctx, q,
		g.ID,
		strings.TrimSpace(g.Result), winnerOf(g.Result), strings.TrimSpace(g.ResultMethod), g.TimeControl,
		g.WhiteSeconds, g.BlackSeconds, string(movesRaw), g.Record,
		nullTime(g.StartedAt), nullTime(g.EndedAt), duration,
	)
	return err
}

// RecentGames returns up to limit archived games, latest first.
func (r *Repository) RecentGames(ctx context.Context, limit int) ([]*domain.StripGame, error) {
	if r == nil || r.db == nil {
		return []*domain.StripGame{}, nil
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `SELECT game_id, result, result_method, time_control,
        white_seconds, black_seconds, moves, record, started_at, ended_at, duration_ms
      FROM strip_games ORDER BY ended_at DESC NULLS LAST LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.StripGame{}
	for rows.Next() {
		var (
			g              domain.StripGame
			movesRaw       []byte
			started, ended sql.NullTime
			durationMs     int64
		)
		if err := rows.Scan(&g.ID, &g.Result, &g.ResultMethod, &g.TimeControl,
			&g.WhiteSeconds, &g.BlackSeconds, &movesRaw, &g.Record, &started, &ended, &durationMs); err != nil {
			return nil, err
		}
		if len(movesRaw) > 0 {
			if err := json.Unmarshal(movesRaw, &g.Moves); err != nil {
				return nil, fmt.Errorf("game %s moves: %w", g.ID, err)
			}
		}
		g.StartedAt = started.Time
		g.EndedAt = ended.Time
		g.Duration = time.Duration(durationMs) * time.Millisecond
		out = append(out, &g)
	}
	return out, rows.Err()
}

// winnerOf maps a record result line to the winner column.
func winnerOf(result string) string {
	switch strings.TrimSpace(result) {
	case "1-0":
		return "white"
	case "0-1":
		return "black"
	case "1/2-1/2":
		return "draw"
	default:
		return ""
	}
}

func movesOrEmpty(m []string) []string {
	if m == nil {
		return []string{}
	}
	return m
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
