package royalepresenter

import (
	"github.com/kapu/kakao-royale-bot-go/internal/domain"
	"github.com/kapu/kakao-royale-bot-go/internal/royale"
	"github.com/kapu/kakao-royale-bot-go/pkg/royaledto"
)

// ToSessionView converts an engine session into the presenter DTO.
func ToSessionView(s *royale.Session) *royaledto.SessionView {
	if s == nil {
		return nil
	}
	v := &royaledto.SessionView{
		Room:       s.Room,
		Round:      s.Round,
		Phase:      string(s.Phase),
		EndReason:  string(s.EndReason),
		Survivors:  append([]string(nil), s.Survivors...),
		Eliminated: append([]string(nil), s.Eliminated...),
		Winners:    s.Winners(),
		CreatedAt:  s.CreatedAt,
		Factions:   make(map[string]string, len(s.Factions)),
	}
	for _, p := range s.Participants {
		v.Participants = append(v.Participants, p.Name)
	}
	for k, f := range s.Factions {
		v.Factions[k] = f
	}
	return v
}

func ToRoundView(r *royale.RoundRecord) *royaledto.RoundView {
	if r == nil {
		return nil
	}
	v := &royaledto.RoundView{
		Round:               r.Round,
		Narrative:           r.Narrative,
		Survivors:           append([]string(nil), r.Survivors...),
		FactionDescriptions: make(map[string]string, len(r.FactionDescriptions)),
	}
	for k, d := range r.FactionDescriptions {
		v.FactionDescriptions[k] = d
	}
	for _, ev := range r.Eliminations {
		v.Eliminations = append(v.Eliminations, royaledto.Elimination{
			Warrior:      ev.Warrior,
			EliminatedBy: ev.EliminatedBy,
			Method:       ev.Method,
		})
	}
	for _, fc := range r.FactionChanges {
		v.FactionChanges = append(v.FactionChanges, royaledto.FactionChange{
			Warrior: fc.Warrior,
			From:    fc.From,
			To:      fc.To,
			Reason:  fc.Reason,
		})
	}
	return v
}

func ToChampions(profiles []*domain.ChampionProfile) []royaledto.Champion {
	out := make([]royaledto.Champion, 0, len(profiles))
	for _, p := range profiles {
		if p == nil {
			continue
		}
		out = append(out, royaledto.Champion{
			Name:        p.PlayerName,
			Titles:      p.Titles,
			GamesPlayed: p.GamesPlayed,
			LastTitleAt: p.LastTitleAt,
		})
	}
	return out
}
