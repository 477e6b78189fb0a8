package royale

import (
	"context"
	"testing"
)

func TestFallbackGenerator_Invariants(t *testing.T) {
	gen := NewSeededFallbackGenerator(42)
	living := []string{"Alice", "Bob", "Cara", "Dan", "Eve", "Finn"}
	factions := map[string]string{
		"Alice": "Crimson Vanguard", "Bob": "Azure Covenant",
		"Cara": "Crimson Vanguard", "Dan": "Azure Covenant",
		"Eve": "Crimson Vanguard", "Finn": "Azure Covenant",
	}

	for round := 1; round <= 50; round++ {
		p, err := gen.GenerateRound(context.Background(), GenerateRequest{
			Round:    round,
			Living:   living,
			Factions: factions,
		})
		if err != nil {
			t.Fatalf("round %d: %v", round, err)
		}
		if p.Empty() {
			t.Fatalf("round %d: fallback produced an empty payload", round)
		}
		if p.Narrative == "" {
			t.Fatalf("round %d: missing narrative", round)
		}
		if len(p.Eliminated) > 2 {
			t.Fatalf("round %d: %d eliminations, want at most 2", round, len(p.Eliminated))
		}

		victims := map[string]bool{}
		for _, ev := range p.Eliminated {
			if !contains(living, ev.Warrior) {
				t.Fatalf("round %d: victim %q is not living", round, ev.Warrior)
			}
			if victims[ev.Warrior] {
				t.Fatalf("round %d: %q eliminated twice", round, ev.Warrior)
			}
			victims[ev.Warrior] = true
			if ev.Method == "" {
				t.Fatalf("round %d: empty method", round)
			}
		}
		// no victim is ever credited as an eliminator
		for _, ev := range p.Eliminated {
			if victims[ev.EliminatedBy] {
				t.Fatalf("round %d: victim %q credited with a kill", round, ev.EliminatedBy)
			}
		}
		if len(p.Survivors)+len(p.Eliminated) != len(living) {
			t.Fatalf("round %d: survivors %d + victims %d != living %d",
				round, len(p.Survivors), len(p.Eliminated), len(living))
		}
		for _, s := range p.Survivors {
			if victims[s] {
				t.Fatalf("round %d: %q both survived and fell", round, s)
			}
		}
	}
}

func TestFallbackGenerator_NeverEliminatesLastWarrior(t *testing.T) {
	gen := NewSeededFallbackGenerator(7)
	for i := 0; i < 50; i++ {
		p, err := gen.GenerateRound(context.Background(), GenerateRequest{
			Round:  1,
			Living: []string{"Alice", "Bob"},
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(p.Survivors) < 1 {
			t.Fatalf("fallback emptied a 2-warrior arena: %+v", p)
		}
	}
}

func TestFallbackGenerator_Deterministic(t *testing.T) {
	req := GenerateRequest{Round: 1, Living: []string{"Alice", "Bob", "Cara", "Dan"}}

	a, _ := NewSeededFallbackGenerator(99).GenerateRound(context.Background(), req)
	b, _ := NewSeededFallbackGenerator(99).GenerateRound(context.Background(), req)

	if a.Narrative != b.Narrative || len(a.Eliminated) != len(b.Eliminated) {
		t.Fatalf("same seed produced different rounds:\n%+v\n%+v", a, b)
	}
}
