package archive

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/park285/stripchess/internal/domain"
)

// Memory is the archive used when no database is configured. Contents are
// lost on restart.
type Memory struct {
	mu    sync.RWMutex
	games map[string]*domain.StripGame
}

func NewMemory() *Memory {
	return &Memory{games: make(map[string]*domain.StripGame)}
}

// SaveGame stores a copy of g, replacing any earlier save of the same id.
func (m *Memory) SaveGame(_ context.Context, g *domain.StripGame) error {
	if g == nil || strings.TrimSpace(g.ID) == "" {
		return nil
	}
	cp := *g
	cp.Moves = append([]string(nil), g.Moves...)
	m.mu.Lock()
	m.games[g.ID] = &cp
	m.mu.Unlock()
	return nil
}

// RecentGames returns up to limit games, latest EndedAt first.
func (m *Memory) RecentGames(_ context.Context, limit int) ([]*domain.StripGame, error) {
	m.mu.RLock()
	items := make([]*domain.StripGame, 0, len(m.games))
	for _, g := range m.games {
		cp := *g
		items = append(items, &cp)
	}
	m.mu.RUnlock()
	sort.Slice(items, func(i, j int) bool {
		if !items[i].EndedAt.Equal(items[j].EndedAt) {
			return items[i].EndedAt.After(items[j].EndedAt)
		}
		return items[i].ID > items[j].ID
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
