package royale

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kapu/kakao-royale-bot-go/internal/obslog"
	"go.uber.org/zap"
)

const snapshotTTL = 24 * time.Hour

// Store persists durable session snapshots in Redis, one JSON blob per room.
// The in-memory session stays authoritative; snapshots exist for recovery
// after a restart and are deleted the moment a game ends.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store { return &Store{rdb: rdb} }

func (s *Store) keyGame(room string) string { return "royale:game:" + strings.TrimSpace(room) }

func (s *Store) SaveSnapshot(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.keyGame(sess.Room), raw, snapshotTTL).Err()
}

// LoadSnapshot returns nil without error when no snapshot exists.
func (s *Store) LoadSnapshot(ctx context.Context, room string) (*Session, error) {
	raw, err := s.rdb.Get(ctx, s.keyGame(room)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) DeleteSnapshot(ctx context.Context, room string) error {
	return s.rdb.Del(ctx, s.keyGame(room)).Err()
}

// SweepStale removes snapshots older than maxAge and returns how many were
// dropped. Meant to run from an out-of-band ticker; Redis TTL already bounds
// the worst case.
func (s *Store) SweepStale(ctx context.Context, maxAge time.Duration) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, s.keyGame("*"), 64).Result()
		if err != nil {
			return removed, err
		}
		for _, key := range keys {
			raw, err := s.rdb.Get(ctx, key).Bytes()
			if err != nil {
				continue
			}
			var sess Session
			if err := json.Unmarshal(raw, &sess); err != nil {
				// unreadable snapshot is stale by definition
				if s.rdb.Del(ctx, key).Err() == nil {
					removed++
				}
				continue
			}
			if time.Since(sess.CreatedAt) > maxAge {
				if s.rdb.Del(ctx, key).Err() == nil {
					removed++
					obslog.L().Info("royale_snapshot_swept",
						zap.String("room", sess.Room),
						zap.Time("created_at", sess.CreatedAt),
					)
				}
			}
		}
		cursor = next
		if cursor == 0 {
			return removed, nil
		}
	}
}
