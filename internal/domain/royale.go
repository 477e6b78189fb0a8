package domain

import "time"

// RoyaleGame is an archived, finished game as stored in the database.
type RoyaleGame struct {
	ID           int64
	GameID       string
	Room         string
	Participants []string
	Winners      []string
	EndReason    string
	Rounds       int
	Eliminated   int
	StartedAt    time.Time
	EndedAt      time.Time
	Duration     time.Duration
}

// ChampionProfile aggregates per-player victories across archived games.
type ChampionProfile struct {
	PlayerName  string
	Titles      int
	GamesPlayed int
	LastTitleAt time.Time
	UpdatedAt   time.Time
}
