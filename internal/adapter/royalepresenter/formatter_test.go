package royalepresenter

import (
	"strings"
	"testing"

	"github.com/kapu/kakao-royale-bot-go/internal/msgcat"
	"github.com/kapu/kakao-royale-bot-go/pkg/royaledto"
)

type staticPrefix struct{ p string }

func (s staticPrefix) Prefix() string { return s.p }

func newTestFormatter(t *testing.T) *Formatter {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	return NewFormatter(staticPrefix{p: "!"}, cat)
}

func testView() *royaledto.SessionView {
	return &royaledto.SessionView{
		Room:         "roomA",
		Round:        2,
		Phase:        "ACTIVE",
		Participants: []string{"Alice", "Bob", "Cara", "Dan"},
		Survivors:    []string{"Alice", "Cara", "Dan"},
		Eliminated:   []string{"Bob"},
		Factions: map[string]string{
			"Alice": "Crimson Vanguard",
			"Bob":   "Azure Covenant",
			"Cara":  "Crimson Vanguard",
			"Dan":   "Azure Covenant",
		},
	}
}

func TestFormatter_Round(t *testing.T) {
	f := newTestFormatter(t)
	rec := &royaledto.RoundView{
		Round: 2,
		FactionDescriptions: map[string]string{
			"Crimson Vanguard": "held the ridge",
			"Azure Covenant":   "scattered into the mist",
		},
		FactionChanges: []royaledto.FactionChange{
			{Warrior: "Dan", From: "Azure Covenant", To: "Crimson Vanguard", Reason: "saw the tide turn"},
		},
		Eliminations: []royaledto.Elimination{
			{Warrior: "Bob", EliminatedBy: "Alice", Method: "cornered at the wall"},
		},
		Narrative: "The second round is short and loud.",
		Survivors: []string{"Alice", "Cara", "Dan"},
	}

	out := f.Round(rec, testView())
	for _, want := range []string{
		"Round 2",
		"held the ridge",
		"Dan: Azure Covenant → Crimson Vanguard",
		"Bob — by Alice",
		"The second round is short and loud.",
		"Survivors (3): Alice, Cara, Dan",
		"Fallen so far: 1/4",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("round output missing %q", want)
		}
	}
}

func TestFormatter_RoundWithoutEliminations(t *testing.T) {
	f := newTestFormatter(t)
	rec := &royaledto.RoundView{
		Round:     3,
		Narrative: "Nothing stirs.",
		Survivors: []string{"Alice", "Cara"},
	}
	out := f.Round(rec, testView())
	if !strings.Contains(out, "none this round") {
		t.Errorf("quiet round should say so:\n%s", out)
	}
}

func TestFormatter_Final(t *testing.T) {
	f := newTestFormatter(t)
	view := testView()
	view.Phase = "ENDED"
	view.EndReason = "champion"
	view.Survivors = []string{"Alice"}
	view.Winners = []string{"Alice"}
	view.Eliminated = []string{"Bob", "Cara", "Dan"}
	view.Round = 5

	out := f.Final(view)
	for _, want := range []string{"Alice", "5 rounds", "The fallen", "1. Bob", "3. Dan"} {
		if !strings.Contains(out, want) {
			t.Errorf("final output missing %q", want)
		}
	}
}

func TestFormatter_FinalEndingLines(t *testing.T) {
	f := newTestFormatter(t)
	reasons := []string{
		"champion", "alliance_victory", "peaceful_resolution",
		"mutual_destruction", "max_rounds", "stalemate", "cancelled",
	}
	for _, reason := range reasons {
		view := testView()
		view.EndReason = reason
		if reason == "mutual_destruction" || reason == "cancelled" {
			view.Survivors = nil
			view.Winners = nil
		}
		out := f.Final(view)
		if strings.Contains(out, "The game is over.") {
			t.Errorf("reason %q fell into the generic line", reason)
		}
	}
}

func TestFormatter_StartAndStatus(t *testing.T) {
	f := newTestFormatter(t)
	view := testView()

	start := f.Start(view)
	if !strings.Contains(start, "4") || !strings.Contains(start, "!royale round") {
		t.Errorf("start output wrong:\n%s", start)
	}

	status := f.Status(view)
	for _, want := range []string{"Round 2", "3/4", "Crimson Vanguard", "Fallen: Bob"} {
		if !strings.Contains(status, want) {
			t.Errorf("status missing %q", want)
		}
	}
}

func TestFormatter_Champions(t *testing.T) {
	f := newTestFormatter(t)

	if out := f.Champions(nil); !strings.Contains(out, "No champions yet") {
		t.Errorf("empty hall of fame wrong: %q", out)
	}
	out := f.Champions([]royaledto.Champion{
		{Name: "Alice", Titles: 3},
		{Name: "Bob", Titles: 1},
	})
	if !strings.Contains(out, "1. Alice — 3 title(s)") || !strings.Contains(out, "2. Bob") {
		t.Errorf("champions output wrong:\n%s", out)
	}
}

func TestFormatter_Help(t *testing.T) {
	f := newTestFormatter(t)
	help := f.Help()
	for _, want := range []string{"!royale start", "!royale round", "!lore", "!party"} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q", want)
		}
	}
}
