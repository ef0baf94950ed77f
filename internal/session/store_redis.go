package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultStoreTTL = 24 * time.Hour

// RedisStore keeps the live snapshot under one key and saved records under
// per-session keys, indexed by save time.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultStoreTTL
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// DialRedisStore connects to REDIS_URL and pings it.
func DialRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for session store")
	}
	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewRedisStore(rdb, ttl), nil
}

func (s *RedisStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}

func (s *RedisStore) keySnapshot() string         { return "strip:session:current" }
func (s *RedisStore) keyRecord(id string) string { return "strip:record:" + strings.TrimSpace(id) }
func (s *RedisStore) keyRecords() string          { return "strip:records" }

func (s *RedisStore) SaveSnapshot(ctx context.Context, snap *Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.keySnapshot(), raw, s.ttl).Err()
}

func (s *RedisStore) LoadSnapshot(ctx context.Context) (*Snapshot, error) {
	raw, err := s.rdb.Get(ctx, s.keySnapshot()).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *RedisStore) SaveRecord(ctx context.Context, id, text string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("record id required")
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.keyRecord(id), text, s.ttl)
	pipe.ZAdd(ctx, s.keyRecords(), redis.Z{Score: float64(time.Now().UnixNano()), Member: id})
	pipe.Expire(ctx, s.keyRecords(), s.ttl)
	_, err := pipe.Exec(ctx)
	return err
}

// LoadRecord returns the saved record text, "" when unknown or expired.
func (s *RedisStore) LoadRecord(ctx context.Context, id string) (string, error) {
	text, err := s.rdb.Get(ctx, s.keyRecord(id)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return text, err
}

// RecentRecords lists saved record ids, newest first. Expired records are
// pruned from the index as they are found.
func (s *RedisStore) RecentRecords(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 20
	}
	ids, err := s.rdb.ZRevRange(ctx, s.keyRecords(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		n, err := s.rdb.Exists(ctx, s.keyRecord(id)).Result()
		if err != nil {
			return nil, err
		}
		if n == 0 {
			_ = s.rdb.ZRem(ctx, s.keyRecords(), id).Err()
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
