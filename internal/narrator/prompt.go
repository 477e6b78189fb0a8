package narrator

import (
	"fmt"
	"strings"

	"github.com/kapu/kakao-royale-bot-go/internal/royale"
)

// buildRoundPrompt assembles the round request. The schema in the prompt
// mirrors royale.RoundPayload; the model is told the hard rules, but the
// validator enforces them regardless.
func buildRoundPrompt(req royale.GenerateRequest) string {
	var b strings.Builder

	b.WriteString("You are the narrator of a battle-royale game played in a group chat.\n")
	fmt.Fprintf(&b, "Narrate round %d and decide its outcome.\n\n", req.Round)

	b.WriteString("Living warriors and their factions:\n")
	for _, name := range req.Living {
		fmt.Fprintf(&b, "- %s (%s)\n", name, req.Factions[name])
	}
	if len(req.Eliminated) > 0 {
		fmt.Fprintf(&b, "\nAlready fallen (do NOT mention them as actors): %s\n", strings.Join(req.Eliminated, ", "))
	}
	if strings.TrimSpace(req.PreviousNarrative) != "" {
		fmt.Fprintf(&b, "\nPrevious round: %s\n", req.PreviousNarrative)
	}

	b.WriteString(`
Rules:
- Eliminate between 0 and 2 warriors this round, only from the living list above.
- "eliminated_by" is another living warrior's exact name, or an environmental cause. Never the victim themselves.
- Use warrior names exactly as written.
- Warriors may occasionally switch factions; keep it rare and motivated.

Respond with ONLY a JSON object in this shape:
{
  "faction_descriptions": {"<faction>": "<one sentence on what the faction did>"},
  "faction_changes": [{"warrior": "", "from_faction": "", "to_faction": "", "reason": ""}],
  "eliminated": [{"warrior": "", "eliminated_by": "", "method": ""}],
  "survivors": ["<names still alive after this round>"],
  "narrative": "<3-5 sentences narrating the round>"
}
`)
	return b.String()
}

func buildQuipPrompt(kind, target string) string {
	target = strings.TrimSpace(target)
	switch kind {
	case "roast":
		return fmt.Sprintf("Write one playful, PG-rated roast of %q for a group chat. One or two sentences, no preamble.", target)
	case "compliment":
		return fmt.Sprintf("Write one warm, specific-sounding compliment for %q. One sentence, no preamble.", target)
	default:
		return "Tell one short, original joke suitable for a group chat. No preamble."
	}
}
