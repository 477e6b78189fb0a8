package royale

import (
	"strings"
	"testing"
	"time"
)

// newSession builds an active session with k=2 factions over the given names.
func newSession(t *testing.T, names ...string) *Session {
	t.Helper()
	parts := make([]Participant, 0, len(names))
	for _, n := range names {
		parts = append(parts, Participant{ID: n, Name: n})
	}
	now := time.Now().UTC()
	return &Session{
		ID:           "game-1",
		Room:         "roomA",
		Participants: parts,
		Factions:     AssignFactions(parts, 2),
		Survivors:    append([]string(nil), names...),
		Phase:        PhaseActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func TestBuildRound_FiltersNonMembersAndDead(t *testing.T) {
	sess := newSession(t, "Alice", "Bob", "Cara", "Dan")
	sess.Survivors = []string{"Alice", "Bob", "Cara"} // Dan already fell
	sess.Eliminated = []string{"Dan"}
	sess.Round = 2

	p := &RoundPayload{
		Eliminated: []EliminationEvent{
			{Warrior: "Zed", EliminatedBy: "Alice", Method: "ambush"},   // not a member
			{Warrior: "Dan", EliminatedBy: "Bob", Method: "ambush"},     // already dead
			{Warrior: "Bob", EliminatedBy: "Alice", Method: "ambush"},   // valid
			{Warrior: "bob", EliminatedBy: "Cara", Method: "again"},     // duplicate
		},
		Narrative: "A brutal second round.",
	}
	rec := BuildRound(p, sess)

	if len(rec.Eliminations) != 1 {
		t.Fatalf("expected 1 elimination, got %d: %+v", len(rec.Eliminations), rec.Eliminations)
	}
	if rec.Eliminations[0].Warrior != "Bob" || rec.Eliminations[0].EliminatedBy != "Alice" {
		t.Fatalf("unexpected elimination: %+v", rec.Eliminations[0])
	}
	if !contains(rec.Survivors, "Alice") || !contains(rec.Survivors, "Cara") {
		t.Fatalf("survivors wrong: %v", rec.Survivors)
	}
	if contains(rec.Survivors, "Bob") || contains(rec.Survivors, "Dan") {
		t.Fatalf("dead warrior still in survivors: %v", rec.Survivors)
	}
}

func TestBuildRound_SelfEliminationRepaired(t *testing.T) {
	sess := newSession(t, "Alice", "Bob", "Cara")
	sess.Round = 1

	for _, by := range []string{"Alice", "alice", "self", "themselves", ""} {
		p := &RoundPayload{Eliminated: []EliminationEvent{{Warrior: "Alice", EliminatedBy: by}}}
		rec := BuildRound(p, sess)
		if len(rec.Eliminations) != 1 {
			t.Fatalf("by=%q: expected 1 elimination, got %d", by, len(rec.Eliminations))
		}
		got := rec.Eliminations[0].EliminatedBy
		if got == "" || strings.EqualFold(got, "Alice") {
			t.Fatalf("by=%q: self-kill not repaired, got %q", by, got)
		}
	}
}

func TestBuildRound_EnvironmentalEliminatorKept(t *testing.T) {
	sess := newSession(t, "Alice", "Bob", "Cara")
	sess.Round = 1

	p := &RoundPayload{Eliminated: []EliminationEvent{
		{Warrior: "Bob", EliminatedBy: "a rockslide", Method: "buried"},
	}}
	rec := BuildRound(p, sess)
	if len(rec.Eliminations) != 1 || rec.Eliminations[0].EliminatedBy != "a rockslide" {
		t.Fatalf("environmental cause not preserved: %+v", rec.Eliminations)
	}
}

func TestBuildRound_DefaultMethodAndNarrative(t *testing.T) {
	sess := newSession(t, "Alice", "Bob")
	sess.Round = 3

	rec := BuildRound(&RoundPayload{
		Eliminated: []EliminationEvent{{Warrior: "Bob", EliminatedBy: "Alice"}},
	}, sess)
	if rec.Eliminations[0].Method == "" {
		t.Fatal("empty method should get a default")
	}
	if rec.Narrative == "" {
		t.Fatal("empty narrative should be synthesized")
	}
	if !strings.Contains(rec.Narrative, "Bob") {
		t.Fatalf("synthetic narrative should name the fallen: %q", rec.Narrative)
	}
}

func TestBuildRound_SurvivorsRecomputedNotTrusted(t *testing.T) {
	sess := newSession(t, "Alice", "Bob", "Cara", "Dan")
	sess.Round = 1

	p := &RoundPayload{
		Eliminated: []EliminationEvent{{Warrior: "Cara", EliminatedBy: "Dan", Method: "ambushed"}},
		Survivors:  []string{"Alice", "Ghost"}, // generator's list is a lie
	}
	rec := BuildRound(p, sess)

	want := []string{"Alice", "Bob", "Dan"}
	if len(rec.Survivors) != len(want) {
		t.Fatalf("survivors = %v, want %v", rec.Survivors, want)
	}
	for i, n := range want {
		if rec.Survivors[i] != n {
			t.Fatalf("survivors = %v, want %v (enrollment order)", rec.Survivors, want)
		}
	}
}

func TestBuildRound_FactionChanges(t *testing.T) {
	sess := newSession(t, "Alice", "Bob", "Cara", "Dan")
	sess.Survivors = []string{"Alice", "Bob", "Cara"}
	sess.Eliminated = []string{"Dan"}
	sess.Round = 2

	p := &RoundPayload{
		FactionChanges: []FactionChangeEvent{
			{Warrior: "Bob", From: "made-up faction", To: "Crimson Vanguard", Reason: "saw the tide turn"},
			{Warrior: "Dan", To: "Crimson Vanguard"},  // dead, dropped
			{Warrior: "Zed", To: "Crimson Vanguard"},  // unknown, dropped
			{Warrior: "Cara", To: ""},                 // empty target, dropped
		},
	}
	rec := BuildRound(p, sess)

	if len(rec.FactionChanges) != 1 {
		t.Fatalf("expected 1 faction change, got %d: %+v", len(rec.FactionChanges), rec.FactionChanges)
	}
	fc := rec.FactionChanges[0]
	if fc.Warrior != "Bob" || fc.To != "Crimson Vanguard" {
		t.Fatalf("unexpected change: %+v", fc)
	}
	if fc.From != sess.Factions["Bob"] {
		t.Fatalf("From must come from the session (%q), got %q", sess.Factions["Bob"], fc.From)
	}
}

func TestBuildRound_FactionDescriptionsComplete(t *testing.T) {
	sess := newSession(t, "Alice", "Bob", "Cara", "Dan")
	sess.Round = 1

	rec := BuildRound(&RoundPayload{
		FactionDescriptions: map[string]string{"Crimson Vanguard": "held the ridge"},
	}, sess)

	for _, f := range FactionsOf(rec.Survivors, sess.Factions) {
		if rec.FactionDescriptions[f] == "" {
			t.Fatalf("faction %q has no description: %v", f, rec.FactionDescriptions)
		}
	}
	if rec.FactionDescriptions["Crimson Vanguard"] != "held the ridge" {
		t.Fatalf("provided description overwritten: %v", rec.FactionDescriptions)
	}
}

func TestBuildRound_NilPayload(t *testing.T) {
	sess := newSession(t, "Alice", "Bob")
	sess.Round = 1

	rec := BuildRound(nil, sess)
	if len(rec.Eliminations) != 0 || len(rec.Survivors) != 2 {
		t.Fatalf("nil payload must degrade to a quiet round: %+v", rec)
	}
	if rec.Narrative == "" {
		t.Fatal("quiet round still needs a narrative")
	}
}
