package royale

import (
	"context"
	"sort"
	"sync"

	"github.com/kapu/kakao-royale-bot-go/internal/domain"
)

// memrepo is a development-only in-memory Repository used when no DB is
// configured. Also backs the engine tests.
type memrepo struct {
	mu sync.RWMutex

	nextID   int64
	games    map[string]*domain.RoyaleGame
	profiles map[string]*domain.ChampionProfile
}

func NewMemoryRepository() Repository {
	return &memrepo{
		games:    make(map[string]*domain.RoyaleGame),
		profiles: make(map[string]*domain.ChampionProfile),
	}
}

func (m *memrepo) SaveResult(_ context.Context, sess *Session) error {
	if sess == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	g, exists := m.games[sess.ID]
	if !exists {
		m.nextID++
		g = &domain.RoyaleGame{ID: m.nextID, GameID: sess.ID}
		m.games[sess.ID] = g
	}
	g.Room = sess.Room
	g.Participants = sess.Names()
	g.Winners = sess.Winners()
	g.EndReason = string(sess.EndReason)
	g.Rounds = sess.Round
	g.Eliminated = len(sess.Eliminated)
	g.StartedAt = sess.CreatedAt
	g.EndedAt = sess.UpdatedAt
	g.Duration = sess.UpdatedAt.Sub(sess.CreatedAt)

	if exists {
		// upsert semantics: don't double-count titles for the same game
		return nil
	}
	for _, w := range g.Winners {
		p, ok := m.profiles[w]
		if !ok {
			p = &domain.ChampionProfile{PlayerName: w}
			m.profiles[w] = p
		}
		p.Titles++
		p.GamesPlayed++
		p.LastTitleAt = sess.UpdatedAt
		p.UpdatedAt = sess.UpdatedAt
	}
	return nil
}

func (m *memrepo) TopChampions(_ context.Context, limit int) ([]*domain.ChampionProfile, error) {
	if limit <= 0 {
		limit = 10
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.ChampionProfile, 0, len(m.profiles))
	for _, p := range m.profiles {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Titles != out[j].Titles {
			return out[i].Titles > out[j].Titles
		}
		return out[i].LastTitleAt.After(out[j].LastTitleAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memrepo) Close() error { return nil }
