package royale

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNoGame            = errors.New("no royale game in this room")
	ErrGameActive        = errors.New("royale game already active in this room")
	ErrGameEnded         = errors.New("royale game already concluded")
	ErrRoundInFlight     = errors.New("round already in progress")
	ErrTooFewWarriors    = errors.New("at least 2 warriors are required")
	ErrTooManyWarriors   = errors.New("too many warriors")
	ErrNotActive         = errors.New("royale game is not active")
)

// Phase is the lifecycle state of a session.
type Phase string

const (
	PhaseSetup  Phase = "SETUP"
	PhaseActive Phase = "ACTIVE"
	PhaseEnded  Phase = "ENDED"
)

// EndReason tags why a session reached PhaseEnded.
type EndReason string

const (
	EndChampion          EndReason = "champion"
	EndAllianceVictory   EndReason = "alliance_victory"
	EndPeacefulResolve   EndReason = "peaceful_resolution"
	EndMutualDestruction EndReason = "mutual_destruction"
	EndMaxRounds         EndReason = "max_rounds"
	EndStalemate         EndReason = "stalemate"
	EndCancelled         EndReason = "cancelled"
)

// Participant is a chat user enrolled in a session. Identity is owned by the
// chat platform; the engine only carries it.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// EliminationEvent records one death. EliminatedBy is either another
// warrior's name or an environmental cause, never the victim itself.
type EliminationEvent struct {
	Warrior      string `json:"warrior"`
	EliminatedBy string `json:"eliminated_by"`
	Method       string `json:"method"`
}

// FactionChangeEvent records a warrior switching factions mid-game.
type FactionChangeEvent struct {
	Warrior string `json:"warrior"`
	From    string `json:"from_faction"`
	To      string `json:"to_faction"`
	Reason  string `json:"reason"`
}

// RoundRecord is one fully validated round. Immutable once appended.
type RoundRecord struct {
	Round               int                  `json:"round"`
	FactionDescriptions map[string]string    `json:"faction_descriptions"`
	FactionChanges      []FactionChangeEvent `json:"faction_changes"`
	Eliminations        []EliminationEvent   `json:"eliminations"`
	Narrative           string               `json:"narrative"`
	Survivors           []string             `json:"survivors"`
}

// Session is the aggregate state of one royale game, keyed by room.
type Session struct {
	ID           string        `json:"id"`
	Room         string        `json:"room"`
	Participants []Participant `json:"participants"`
	Factions     map[string]string `json:"factions"`
	Survivors    []string      `json:"survivors"`
	Eliminated   []string      `json:"eliminated"`
	Round        int           `json:"round"`
	History      []RoundRecord `json:"history"`
	Phase        Phase         `json:"phase"`
	EndReason    EndReason     `json:"end_reason,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Living returns the survivor names in original enrollment order.
func (s *Session) Living() []string {
	alive := make(map[string]struct{}, len(s.Survivors))
	for _, n := range s.Survivors {
		alive[n] = struct{}{}
	}
	out := make([]string, 0, len(alive))
	for _, p := range s.Participants {
		if _, ok := alive[p.Name]; ok {
			out = append(out, p.Name)
		}
	}
	return out
}

// Names returns every enrolled warrior name in order.
func (s *Session) Names() []string {
	out := make([]string, 0, len(s.Participants))
	for _, p := range s.Participants {
		out = append(out, p.Name)
	}
	return out
}

// IsAlive reports whether name is still in the survivor set.
func (s *Session) IsAlive(name string) bool {
	for _, n := range s.Survivors {
		if n == name {
			return true
		}
	}
	return false
}

// Winners returns the warriors credited with the ending. Mutual destruction
// and cancellation crown nobody.
func (s *Session) Winners() []string {
	switch s.EndReason {
	case EndMutualDestruction, EndCancelled:
		return nil
	default:
		return s.Living()
	}
}

// Clone deep-copies the session so readers never observe a round mutation
// in progress.
func (s *Session) Clone() *Session {
	out := *s
	out.Participants = append([]Participant(nil), s.Participants...)
	out.Survivors = append([]string(nil), s.Survivors...)
	out.Eliminated = append([]string(nil), s.Eliminated...)
	out.History = append([]RoundRecord(nil), s.History...)
	out.Factions = make(map[string]string, len(s.Factions))
	for k, v := range s.Factions {
		out.Factions[k] = v
	}
	return &out
}

// memberIndex maps lowercased warrior names back to their canonical spelling.
func (s *Session) memberIndex() map[string]string {
	idx := make(map[string]string, len(s.Participants))
	for _, p := range s.Participants {
		idx[strings.ToLower(strings.TrimSpace(p.Name))] = p.Name
	}
	return idx
}

// GenerateRequest is the input handed to a narrative generator for one round.
type GenerateRequest struct {
	Round             int
	Living            []string
	Factions          map[string]string
	PreviousNarrative string
	Eliminated        []string
}

// Generator produces one untrusted round payload. Implementations may call
// out to a generative-text service; the engine validates everything they
// return.
type Generator interface {
	GenerateRound(ctx context.Context, req GenerateRequest) (*RoundPayload, error)
}
