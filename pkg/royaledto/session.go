package royaledto

import "time"

// SessionView is the presenter-facing snapshot of a game session.
type SessionView struct {
	Room         string
	Round        int
	Phase        string
	EndReason    string
	Participants []string
	Survivors    []string
	Eliminated   []string
	Factions     map[string]string
	Winners      []string
	CreatedAt    time.Time
}

// RoundView is one validated round ready for rendering.
type RoundView struct {
	Round               int
	FactionDescriptions map[string]string
	FactionChanges      []FactionChange
	Eliminations        []Elimination
	Narrative           string
	Survivors           []string
}

type Elimination struct {
	Warrior      string
	EliminatedBy string
	Method       string
}

type FactionChange struct {
	Warrior string
	From    string
	To      string
	Reason  string
}

// Champion is one hall-of-fame row.
type Champion struct {
	Name        string
	Titles      int
	GamesPlayed int
	LastTitleAt time.Time
}
