package royale

// DefaultMaxRounds is the hard round cap; no game outlives it.
const DefaultMaxRounds = 25

const (
	stalemateWindow   = 3 // elimination-free rounds that trigger a stalemate
	stalemateMinRound = 4
	peaceMaxSurvivors = 4
)

// Outcome is the ending evaluator's verdict for one round boundary.
type Outcome struct {
	Ended  bool
	Reason EndReason
}

// EvaluateEnding decides whether the session terminates, checking conditions
// in fixed precedence order; the first match wins. justProcessed is the
// round that was applied immediately before the call, or nil for the
// pre-round check, and livingBefore is the survivor count before that round.
func EvaluateEnding(sess *Session, justProcessed *RoundRecord, livingBefore int, maxRounds int) Outcome {
	if maxRounds <= 0 {
		maxRounds = DefaultMaxRounds
	}
	survivors := sess.Living()

	// 1. single survivor
	if len(survivors) == 1 {
		return Outcome{Ended: true, Reason: EndChampion}
	}

	// 2. alliance victory: everyone left flies one banner
	if len(survivors) > 1 && sharedFaction(survivors, sess.Factions) {
		return Outcome{Ended: true, Reason: EndAllianceVictory}
	}

	// 3. cross-faction cooperation with few survivors left
	if len(survivors) > 1 && len(survivors) <= peaceMaxSurvivors {
		if AnalyzeCooperation(sess.History, survivors, sess.Factions).RecommendAlliance {
			return Outcome{Ended: true, Reason: EndPeacefulResolve}
		}
	}

	// 4. mutual destruction: everyone who could have died did
	if justProcessed != nil && livingBefore > 0 && len(justProcessed.Eliminations) >= livingBefore {
		return Outcome{Ended: true, Reason: EndMutualDestruction}
	}

	// 5. hard round cap
	if sess.Round >= maxRounds {
		return Outcome{Ended: true, Reason: EndMaxRounds}
	}

	// 6. stalemate: no blood for stalemateWindow straight rounds
	if len(survivors) > 1 && sess.Round >= stalemateMinRound && noRecentEliminations(sess.History, stalemateWindow) {
		return Outcome{Ended: true, Reason: EndStalemate}
	}

	return Outcome{}
}

func noRecentEliminations(history []RoundRecord, window int) bool {
	if len(history) < window {
		return false
	}
	for _, rec := range history[len(history)-window:] {
		if len(rec.Eliminations) > 0 {
			return false
		}
	}
	return true
}
