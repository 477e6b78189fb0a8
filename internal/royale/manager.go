package royale

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kapu/kakao-royale-bot-go/internal/domain"
	"github.com/kapu/kakao-royale-bot-go/internal/obslog"
)

const (
	MinWarriors = 2
	MaxWarriors = 50
)

// Config bounds the engine's policy knobs.
type Config struct {
	MaxRounds        int           // hard round cap, DefaultMaxRounds when 0
	GeneratorTimeout time.Duration // deadline for the external generator call
}

// Manager is the process-wide registry of active sessions, one per room, and
// the round advancer. All round-advance work for a room runs strictly
// sequentially: a second advance while one is in flight is rejected, never
// queued. Different rooms proceed independently.
type Manager struct {
	mu    sync.Mutex
	slots map[string]*slot

	gen      Generator // external generator, may be nil
	fallback Generator // always present, never fails

	store *Store     // durable snapshots, may be nil
	repo  Repository // finished-game archive, may be nil
	cfg   Config
}

type slot struct {
	sess *Session
	busy bool
}

func NewManager(gen Generator, store *Store, repo Repository, cfg Config) *Manager {
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = DefaultMaxRounds
	}
	if cfg.GeneratorTimeout <= 0 {
		cfg.GeneratorTimeout = 30 * time.Second
	}
	return &Manager{
		slots:    make(map[string]*slot),
		gen:      gen,
		fallback: NewFallbackGenerator(),
		store:    store,
		repo:     repo,
		cfg:      cfg,
	}
}

// Start creates a new session for the room. Rejected while another session
// is active for the same room.
func (m *Manager) Start(ctx context.Context, room string, participants []Participant, factionCount int) (*Session, error) {
	room = strings.TrimSpace(room)
	if len(participants) < MinWarriors {
		return nil, ErrTooFewWarriors
	}
	if len(participants) > MaxWarriors {
		return nil, ErrTooManyWarriors
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// a busy slot is mid-round and its session may not be read until the
	// advance releases it
	if sl := m.lookupLocked(ctx, room); sl != nil {
		if sl.busy || sl.sess.Phase != PhaseEnded {
			return nil, ErrGameActive
		}
	}

	now := time.Now()
	sess := &Session{
		ID:           uuid.NewString(),
		Room:         room,
		Participants: append([]Participant(nil), participants...),
		Factions:     AssignFactions(participants, factionCount),
		Eliminated:   []string{},
		History:      []RoundRecord{},
		Phase:        PhaseSetup,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, p := range participants {
		sess.Survivors = append(sess.Survivors, p.Name)
	}

	m.slots[room] = &slot{sess: sess}
	m.persist(ctx, sess)
	obslog.L().Info("royale_start",
		zap.String("room", room),
		zap.String("game_id", sess.ID),
		zap.Int("warriors", len(participants)),
		zap.Int("factions", len(FactionsOf(sess.Survivors, sess.Factions))),
	)
	return sess.Clone(), nil
}

// Get returns the active session for the room, if any, recovering from a
// durable snapshot when the registry has no entry (e.g. after a restart).
func (m *Manager) Get(ctx context.Context, room string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sl := m.lookupLocked(ctx, room); sl != nil && !sl.busy {
		return sl.sess.Clone(), nil
	} else if sl != nil {
		return nil, ErrRoundInFlight
	}
	return nil, ErrNoGame
}

// Advance runs one full round transition:
// ending precheck → generation → validation → ledger → ending check →
// persistence. Returns the applied record, or nil when the session ended
// before a round could be generated.
func (m *Manager) Advance(ctx context.Context, room string) (*Session, *RoundRecord, error) {
	m.mu.Lock()
	sl := m.lookupLocked(ctx, room)
	if sl == nil {
		m.mu.Unlock()
		return nil, nil, ErrNoGame
	}
	sess := sl.sess
	if sess.Phase == PhaseEnded {
		m.mu.Unlock()
		return nil, nil, ErrGameEnded
	}
	if sl.busy {
		m.mu.Unlock()
		return nil, nil, ErrRoundInFlight
	}
	sl.busy = true
	// session writes stay inside the locked section or behind the busy flag;
	// every other entry point rejects a busy slot before reading the session
	sess.Phase = PhaseActive
	sess.Round++
	livingBefore := len(sess.Survivors)
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		sl.busy = false
		m.mu.Unlock()
	}()

	// pre-round check: a game can be decided before any narration happens,
	// e.g. when only one warrior is left from the previous round
	if out := EvaluateEnding(sess, nil, livingBefore, m.cfg.MaxRounds); out.Ended {
		m.finish(ctx, sess, out.Reason)
		return sess.Clone(), nil, nil
	}

	payload := m.generate(ctx, sess)
	rec := BuildRound(payload, sess)

	sess.History = append(sess.History, rec)
	applyEliminations(sess, rec)
	applyFactionChanges(sess, rec)
	sess.UpdatedAt = time.Now()

	if out := EvaluateEnding(sess, &rec, livingBefore, m.cfg.MaxRounds); out.Ended {
		m.finish(ctx, sess, out.Reason)
	} else {
		m.persist(ctx, sess)
	}

	obslog.L().Info("royale_round",
		zap.String("room", room),
		zap.Int("round", rec.Round),
		zap.Int("eliminated", len(rec.Eliminations)),
		zap.Int("survivors", len(sess.Survivors)),
		zap.String("phase", string(sess.Phase)),
	)
	return sess.Clone(), &rec, nil
}

// End cancels an active session immediately, bypassing further generation.
func (m *Manager) End(ctx context.Context, room string) (*Session, error) {
	m.mu.Lock()
	sl := m.lookupLocked(ctx, room)
	if sl == nil {
		m.mu.Unlock()
		return nil, ErrNoGame
	}
	if sl.busy {
		m.mu.Unlock()
		return nil, ErrRoundInFlight
	}
	sess := sl.sess
	if sess.Phase == PhaseEnded {
		m.mu.Unlock()
		return nil, ErrGameEnded
	}
	// claim the slot so no round can start while the cancel is applied;
	// finish removes the slot, so the claim is never released
	sl.busy = true
	m.mu.Unlock()

	m.finish(ctx, sess, EndCancelled)
	obslog.L().Info("royale_cancel", zap.String("room", room), zap.String("game_id", sess.ID))
	return sess.Clone(), nil
}

// Champions reads the all-time title leaders from the archive.
func (m *Manager) Champions(ctx context.Context, limit int) ([]*domain.ChampionProfile, error) {
	if m.repo == nil {
		return nil, nil
	}
	return m.repo.TopChampions(ctx, limit)
}

// generate calls the external generator under a bounded timeout and falls
// back to the deterministic generator on any failure or empty payload.
// Generator trouble is absorbed here, never surfaced to the player.
func (m *Manager) generate(ctx context.Context, sess *Session) *RoundPayload {
	req := GenerateRequest{
		Round:      sess.Round,
		Living:     sess.Living(),
		Factions:   factionsCopy(sess.Factions),
		Eliminated: append([]string(nil), sess.Eliminated...),
	}
	if n := len(sess.History); n > 0 {
		req.PreviousNarrative = sess.History[n-1].Narrative
	}

	if m.gen != nil {
		gctx, cancel := context.WithTimeout(ctx, m.cfg.GeneratorTimeout)
		payload, err := m.gen.GenerateRound(gctx, req)
		cancel()
		if err == nil && !payload.Empty() {
			return payload
		}
		obslog.L().Warn("royale_generator_fallback",
			zap.String("room", sess.Room),
			zap.Int("round", sess.Round),
			zap.Error(err),
		)
	}

	payload, _ := m.fallback.GenerateRound(ctx, req)
	return payload
}

func (m *Manager) finish(ctx context.Context, sess *Session, reason EndReason) {
	sess.Phase = PhaseEnded
	sess.EndReason = reason
	sess.UpdatedAt = time.Now()

	// drop the snapshot while the busy slot still shields the room, then
	// clear the registry; the reverse order lets a cold lookup recover the
	// stale snapshot and resurrect the ended game
	if m.store != nil {
		if err := m.store.DeleteSnapshot(ctx, sess.Room); err != nil {
			obslog.L().Warn("royale_snapshot_delete_failed", zap.String("room", sess.Room), zap.Error(err))
		}
	}
	m.mu.Lock()
	delete(m.slots, sess.Room)
	m.mu.Unlock()
	if m.repo != nil {
		if err := m.repo.SaveResult(ctx, sess); err != nil {
			obslog.L().Warn("royale_archive_failed", zap.String("game_id", sess.ID), zap.Error(err))
		}
	}
	obslog.L().Info("royale_end",
		zap.String("room", sess.Room),
		zap.String("game_id", sess.ID),
		zap.String("reason", string(reason)),
		zap.Int("rounds", sess.Round),
		zap.Strings("winners", sess.Winners()),
	)
}

// persist writes the durable snapshot. Failures are logged and tolerated;
// the in-memory session stays authoritative for this process lifetime.
func (m *Manager) persist(ctx context.Context, sess *Session) {
	if m.store == nil {
		return
	}
	if err := m.store.SaveSnapshot(ctx, sess); err != nil {
		obslog.L().Warn("royale_snapshot_save_failed", zap.String("room", sess.Room), zap.Error(err))
	}
}

// lookupLocked finds the room's slot, falling back to the durable snapshot
// when the in-memory registry is cold. Caller holds m.mu.
func (m *Manager) lookupLocked(ctx context.Context, room string) *slot {
	if sl, ok := m.slots[room]; ok {
		return sl
	}
	if m.store == nil {
		return nil
	}
	sess, err := m.store.LoadSnapshot(ctx, room)
	if err != nil || sess == nil {
		return nil
	}
	if sess.Phase == PhaseEnded {
		return nil
	}
	sl := &slot{sess: sess}
	m.slots[room] = sl
	obslog.L().Info("royale_session_recovered", zap.String("room", room), zap.String("game_id", sess.ID))
	return sl
}

func factionsCopy(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
