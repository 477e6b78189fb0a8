package royale

import "testing"

func TestDecodeRoundPayload_Valid(t *testing.T) {
	raw := `{
		"faction_descriptions": {"Crimson Vanguard": "held the ridge"},
		"eliminated": [{"warrior": "Bob", "eliminated_by": "Alice", "method": "ambushed"}],
		"survivors": ["Alice"],
		"narrative": "A short and bloody round."
	}`
	p, err := DecodeRoundPayload([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeRoundPayload: %v", err)
	}
	if len(p.Eliminated) != 1 || p.Eliminated[0].Warrior != "Bob" {
		t.Fatalf("eliminated wrong: %+v", p.Eliminated)
	}
	if p.Narrative != "A short and bloody round." {
		t.Fatalf("narrative wrong: %q", p.Narrative)
	}
	if p.FactionDescriptions["Crimson Vanguard"] == "" {
		t.Fatalf("descriptions wrong: %v", p.FactionDescriptions)
	}
}

func TestDecodeRoundPayload_PerFieldGarbage(t *testing.T) {
	// one bad field must not sink the rest
	raw := `{
		"eliminated": "nobody",
		"faction_descriptions": [1, 2],
		"narrative": 42,
		"survivors": ["Alice", "Bob"]
	}`
	p, err := DecodeRoundPayload([]byte(raw))
	if err != nil {
		t.Fatalf("DecodeRoundPayload: %v", err)
	}
	if len(p.Eliminated) != 0 {
		t.Fatalf("garbage eliminated not dropped: %+v", p.Eliminated)
	}
	if p.Narrative != "" {
		t.Fatalf("non-string narrative not dropped: %q", p.Narrative)
	}
	if len(p.Survivors) != 2 {
		t.Fatalf("good field lost: %+v", p.Survivors)
	}
}

func TestDecodeRoundPayload_NotAnObject(t *testing.T) {
	for _, raw := range []string{"", "   ", "not json", `"just a string"`, "[1,2,3]"} {
		if _, err := DecodeRoundPayload([]byte(raw)); err == nil {
			t.Fatalf("input %q should fail to decode", raw)
		}
	}
}

func TestRoundPayload_Empty(t *testing.T) {
	var nilPayload *RoundPayload
	if !nilPayload.Empty() {
		t.Fatal("nil payload should be empty")
	}
	if !(&RoundPayload{Narrative: "  "}).Empty() {
		t.Fatal("whitespace narrative should be empty")
	}
	if (&RoundPayload{Narrative: "something happened"}).Empty() {
		t.Fatal("narrative alone is usable content")
	}
	if (&RoundPayload{Survivors: []string{"Alice"}}).Empty() {
		t.Fatal("survivors alone is usable content")
	}
}
