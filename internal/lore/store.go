package lore

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	"github.com/redis/go-redis/v9"
)

var (
	ErrEmptyEntry = errors.New("lore entry is empty")
	ErrNoLore     = errors.New("no lore recorded for this room")
)

const maxEntryLen = 1000

// Store keeps per-room lore entries in a Redis list.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store { return &Store{rdb: rdb} }

func (s *Store) key(room string) string { return "lore:" + strings.TrimSpace(room) }

func (s *Store) Add(ctx context.Context, room, text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, ErrEmptyEntry
	}
	if len(text) > maxEntryLen {
		text = text[:maxEntryLen]
	}
	return s.rdb.RPush(ctx, s.key(room), text).Result()
}

// Random returns one random lore entry for the room.
func (s *Store) Random(ctx context.Context, room string) (string, error) {
	n, err := s.rdb.LLen(ctx, s.key(room)).Result()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", ErrNoLore
	}
	return s.rdb.LIndex(ctx, s.key(room), rand.Int63n(n)).Result()
}

func (s *Store) Count(ctx context.Context, room string) (int64, error) {
	return s.rdb.LLen(ctx, s.key(room)).Result()
}
