package royale

import (
	"fmt"
	"strings"

	"github.com/kapu/kakao-royale-bot-go/internal/obslog"
	"go.uber.org/zap"
)

// selfSynonyms are eliminator values that mean "killed themselves"; those get
// repaired to an environmental cause.
var selfSynonyms = map[string]struct{}{
	"self": {}, "himself": {}, "herself": {}, "themselves": {}, "itself": {}, "suicide": {},
}

const defaultMethod = "fell in the chaos of the round"

// BuildRound turns an untrusted payload into a RoundRecord that satisfies
// every session invariant. It never fails; unusable content degrades to
// templated defaults. The session is read, not mutated.
//
// Repair steps, each idempotent:
//  1. type coercion (done in DecodeRoundPayload; re-applied here for nil maps)
//  2. membership filtering against the original participant list
//  3. self-elimination repair
//  4. survivor recomputation (the generator's survivor list is ignored)
//  5. faction-description completeness
func BuildRound(p *RoundPayload, sess *Session) RoundRecord {
	if p == nil {
		p = &RoundPayload{}
	}
	members := sess.memberIndex()
	living := make(map[string]struct{}, len(sess.Survivors))
	for _, n := range sess.Survivors {
		living[n] = struct{}{}
	}

	rec := RoundRecord{
		Round:               sess.Round,
		FactionDescriptions: map[string]string{},
		Narrative:           strings.TrimSpace(p.Narrative),
	}

	// eliminations: members only, living only, one death per warrior
	dead := make(map[string]struct{}, len(p.Eliminated))
	for _, ev := range p.Eliminated {
		name, ok := canonical(members, ev.Warrior)
		if !ok {
			warn(sess, "unknown_warrior_eliminated", ev.Warrior)
			continue
		}
		if _, alive := living[name]; !alive {
			warn(sess, "already_eliminated", name)
			continue
		}
		if _, dup := dead[name]; dup {
			continue
		}
		dead[name] = struct{}{}

		by := strings.TrimSpace(ev.EliminatedBy)
		if lower, isMember := canonical(members, by); isMember {
			by = lower
		}
		if by == "" || isSelf(name, by) {
			by = randomEnvironmentalCause()
		}
		method := strings.TrimSpace(ev.Method)
		if method == "" {
			method = defaultMethod
		}
		rec.Eliminations = append(rec.Eliminations, EliminationEvent{
			Warrior:      name,
			EliminatedBy: by,
			Method:       method,
		})
	}

	// faction changes: living members only; prior faction comes from the
	// session, not from whatever the generator claimed
	for _, fc := range p.FactionChanges {
		name, ok := canonical(members, fc.Warrior)
		if !ok {
			warn(sess, "unknown_warrior_faction_change", fc.Warrior)
			continue
		}
		if _, alive := living[name]; !alive {
			continue
		}
		to := strings.TrimSpace(fc.To)
		if to == "" {
			continue
		}
		reason := strings.TrimSpace(fc.Reason)
		if reason == "" {
			reason = "switched allegiance as the arena shifted"
		}
		rec.FactionChanges = append(rec.FactionChanges, FactionChangeEvent{
			Warrior: name,
			From:    sess.Factions[name],
			To:      to,
			Reason:  reason,
		})
	}

	// survivors are recomputed, never trusted: living minus this round's dead
	for _, p := range sess.Participants {
		if _, alive := living[p.Name]; !alive {
			continue
		}
		if _, died := dead[p.Name]; died {
			continue
		}
		rec.Survivors = append(rec.Survivors, p.Name)
	}

	// faction descriptions for every faction still represented, with the
	// round's faction changes taken into account
	effective := make(map[string]string, len(sess.Factions))
	for k, v := range sess.Factions {
		effective[k] = v
	}
	for _, fc := range rec.FactionChanges {
		effective[fc.Warrior] = fc.To
	}
	for _, f := range FactionsOf(rec.Survivors, effective) {
		if d := strings.TrimSpace(p.FactionDescriptions[f]); d != "" {
			rec.FactionDescriptions[f] = d
		} else {
			rec.FactionDescriptions[f] = fmt.Sprintf("The %s regroup and take stock of the arena.", f)
		}
	}

	if rec.Narrative == "" {
		rec.Narrative = syntheticNarrative(rec)
	}
	return rec
}

func canonical(members map[string]string, name string) (string, bool) {
	n, ok := members[strings.ToLower(strings.TrimSpace(name))]
	return n, ok
}

func isSelf(victim, by string) bool {
	b := strings.ToLower(strings.TrimSpace(by))
	if b == strings.ToLower(victim) {
		return true
	}
	_, ok := selfSynonyms[b]
	return ok
}

func syntheticNarrative(rec RoundRecord) string {
	if len(rec.Eliminations) == 0 {
		return fmt.Sprintf("Round %d ends quietly. %d warriors remain.", rec.Round, len(rec.Survivors))
	}
	names := make([]string, 0, len(rec.Eliminations))
	for _, ev := range rec.Eliminations {
		names = append(names, ev.Warrior)
	}
	return fmt.Sprintf("Round %d costs the arena %s. %d warriors remain.",
		rec.Round, strings.Join(names, ", "), len(rec.Survivors))
}

func warn(sess *Session, reason, name string) {
	obslog.L().Warn("royale_payload_repair",
		zap.String("room", sess.Room),
		zap.Int("round", sess.Round),
		zap.String("reason", reason),
		zap.String("name", name),
	)
}
