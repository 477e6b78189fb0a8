package narrator

import (
	"strings"
	"testing"

	"github.com/kapu/kakao-royale-bot-go/internal/royale"
)

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"narrative": "x"}`, `{"narrative": "x"}`},
		{"```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"  ```json\n{\"a\": 1}\n```  ", `{"a": 1}`},
		{"", ""},
	}
	for _, tc := range cases {
		if got := stripCodeFences(tc.in); got != tc.want {
			t.Errorf("stripCodeFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStripCodeFences_ThenDecodes(t *testing.T) {
	raw := "```json\n{\"eliminated\": [{\"warrior\": \"Bob\", \"eliminated_by\": \"Alice\"}], \"narrative\": \"done\"}\n```"
	p, err := royale.DecodeRoundPayload([]byte(stripCodeFences(raw)))
	if err != nil {
		t.Fatalf("decode fenced payload: %v", err)
	}
	if len(p.Eliminated) != 1 || p.Narrative != "done" {
		t.Fatalf("unexpected payload: %+v", p)
	}
}

func TestBuildRoundPrompt(t *testing.T) {
	req := royale.GenerateRequest{
		Round:             3,
		Living:            []string{"Alice", "Bob"},
		Factions:          map[string]string{"Alice": "Crimson Vanguard", "Bob": "Azure Covenant"},
		Eliminated:        []string{"Cara"},
		PreviousNarrative: "The storm closed in.",
	}
	prompt := buildRoundPrompt(req)

	for _, want := range []string{"round 3", "Alice", "Crimson Vanguard", "Cara", "The storm closed in."} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.Contains(prompt, `"eliminated_by"`) {
		t.Error("prompt must spell out the payload schema")
	}
}

func TestBuildQuipPrompt(t *testing.T) {
	if p := buildQuipPrompt("roast", "Dan"); !strings.Contains(p, "Dan") || !strings.Contains(p, "roast") {
		t.Errorf("roast prompt wrong: %q", p)
	}
	if p := buildQuipPrompt("compliment", "Dan"); !strings.Contains(p, "Dan") {
		t.Errorf("compliment prompt wrong: %q", p)
	}
	if p := buildQuipPrompt("joke", ""); !strings.Contains(p, "joke") {
		t.Errorf("joke prompt wrong: %q", p)
	}
}
