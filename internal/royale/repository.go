package royale

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/kapu/kakao-royale-bot-go/internal/domain"
)

// Repository archives finished games and champion tallies. Archive failures
// never block gameplay; callers log and move on.
type Repository interface {
	SaveResult(ctx context.Context, sess *Session) error
	TopChampions(ctx context.Context, limit int) ([]*domain.ChampionProfile, error)
	Close() error
}

type pgRepository struct {
	db *sql.DB
}

func NewRepository(databaseURL string) (Repository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &pgRepository{db: db}, nil
}

func (r *pgRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// SaveResult upserts the finished game and bumps each winner's title count.
func (r *pgRepository) SaveResult(ctx context.Context, sess *Session) error {
	if r == nil || r.db == nil || sess == nil {
		return nil
	}
	participants, _ := json.Marshal(sess.Names())
	winners := sess.Winners()
	winnersRaw, _ := json.Marshal(winners)
	duration := sess.UpdatedAt.Sub(sess.CreatedAt).Milliseconds()
	if duration < 0 {
		duration = 0
	}

	const q = `INSERT INTO royale_games (
	    game_id, room, participants, winners, end_reason,
	    rounds, eliminated, started_at, ended_at, duration_ms
	  ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	  ON CONFLICT (game_id) DO UPDATE SET
	    winners=EXCLUDED.winners,
	    end_reason=EXCLUDED.end_reason,
	    rounds=EXCLUDED.rounds,
	    eliminated=EXCLUDED.eliminated,
	    ended_at=EXCLUDED.ended_at,
	    duration_ms=EXCLUDED.duration_ms`

	_, err := r.db.ExecContext(ctx, q,
		sess.ID, sess.Room, string(participants), string(winnersRaw), string(sess.EndReason),
		sess.Round, len(sess.Eliminated), sess.CreatedAt, sess.UpdatedAt, duration,
	)
	if err != nil {
		return err
	}

	const pq = `INSERT INTO royale_profiles (player_name, titles, games_played, last_title_at, updated_at)
	  VALUES ($1, 1, 1, $2, $2)
	  ON CONFLICT (player_name) DO UPDATE SET
	    titles = royale_profiles.titles + 1,
	    games_played = royale_profiles.games_played + 1,
	    last_title_at = EXCLUDED.last_title_at,
	    updated_at = EXCLUDED.updated_at`
	for _, w := range winners {
		if _, err := r.db.ExecContext(ctx, pq, w, sess.UpdatedAt); err != nil {
			return fmt.Errorf("upsert champion %s: %w", w, err)
		}
	}
	return nil
}

func (r *pgRepository) TopChampions(ctx context.Context, limit int) ([]*domain.ChampionProfile, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	const q = `SELECT player_name, titles, games_played, last_title_at, updated_at
	  FROM royale_profiles ORDER BY titles DESC, last_title_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.ChampionProfile
	for rows.Next() {
		p := &domain.ChampionProfile{}
		if err := rows.Scan(&p.PlayerName, &p.Titles, &p.GamesPlayed, &p.LastTitleAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
