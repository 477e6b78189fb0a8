package royale

import "strings"

// CooperationAnalyzer heuristics. This is a best-effort text signal for the
// ending evaluator, not a correctness-critical computation; thresholds are
// spelled out in recommendAlliance.

const coopWindow = 5

var jointActionWords = []string{
	"together", "alliance", "allied", "jointly", "team up", "teamed",
	"side by side", "combined", "cooperat",
}

var conflictWords = []string{
	"attack", "betray", "strike", "ambush", "fight", "clash",
	"hunt", "kill", "stab", "turn on",
}

// CoopSignals is the analyzer's full output, exposed so the heuristic can be
// tested in isolation from the ending evaluator.
type CoopSignals struct {
	SharedEliminations int
	PeacefulRounds     int
	FactionCooperation bool
	SurvivorConflict   bool
	RecommendAlliance  bool
}

// AnalyzeCooperation scans the last rounds (up to coopWindow) for signs that
// the remaining warriors are working together rather than fighting.
func AnalyzeCooperation(history []RoundRecord, survivors []string, factions map[string]string) CoopSignals {
	if len(history) > coopWindow {
		history = history[len(history)-coopWindow:]
	}
	alive := make(map[string]struct{}, len(survivors))
	for _, n := range survivors {
		alive[n] = struct{}{}
	}

	var sig CoopSignals

	for _, rec := range history {
		text := strings.ToLower(rec.Narrative)

		for _, ev := range rec.Eliminations {
			if _, ok := alive[ev.EliminatedBy]; !ok {
				continue
			}
			if containsAny(strings.ToLower(ev.Method), jointActionWords) || containsAny(text, jointActionWords) {
				sig.SharedEliminations++
			}
		}

		named := 0
		for _, n := range survivors {
			if strings.Contains(text, strings.ToLower(n)) {
				named++
			}
		}
		if named >= 2 {
			if containsAny(text, conflictWords) {
				sig.SurvivorConflict = true
			} else {
				sig.PeacefulRounds++
			}
		}
	}

	if len(survivors) > 1 {
		sig.FactionCooperation = sharedFaction(survivors, factions)
	}

	sig.RecommendAlliance = recommendAlliance(sig, len(survivors))
	return sig
}

// recommendAlliance applies the documented thresholds:
//   - everyone already shares one faction, or
//   - at least one shared elimination, no narrated conflict between
//     survivors, and 2+ peaceful rounds, or
//   - 4+ peaceful rounds with 3 or fewer survivors left.
func recommendAlliance(sig CoopSignals, survivorCount int) bool {
	if sig.FactionCooperation {
		return true
	}
	if sig.SharedEliminations > 0 && !sig.SurvivorConflict && sig.PeacefulRounds >= 2 {
		return true
	}
	return sig.PeacefulRounds >= 4 && survivorCount <= 3
}

func sharedFaction(survivors []string, factions map[string]string) bool {
	first := ""
	for i, n := range survivors {
		f, ok := factions[n]
		if !ok {
			return false
		}
		if i == 0 {
			first = f
		} else if f != first {
			return false
		}
	}
	return first != ""
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
