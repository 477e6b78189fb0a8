package royalepresenter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kapu/kakao-royale-bot-go/internal/msgcat"
	"github.com/kapu/kakao-royale-bot-go/internal/util"
	"github.com/kapu/kakao-royale-bot-go/pkg/royaledto"
)

const (
	roundInstruction     = "⚔️ 라운드 결과"
	finalInstruction     = "🏁 최종 결과"
	championsInstruction = "👑 명예의 전당"
)

// PrefixProvider exposes the command prefix used in rendered hints.
type PrefixProvider interface {
	Prefix() string
}

// Formatter renders royale DTOs into chat-friendly text blocks.
type Formatter struct {
	prefixProvider PrefixProvider
	cat            *msgcat.Catalog
}

func NewFormatter(provider PrefixProvider, cat *msgcat.Catalog) *Formatter {
	return &Formatter{prefixProvider: provider, cat: cat}
}

func (f *Formatter) Prefix() string {
	if f == nil || f.prefixProvider == nil {
		return ""
	}
	return strings.TrimSpace(f.prefixProvider.Prefix())
}

func (f *Formatter) Help() string {
	return f.cat.MustRender("help", map[string]any{"Prefix": f.Prefix()}, "royale bot")
}

// Start announces a fresh game with the full roster per faction.
func (f *Formatter) Start(view *royaledto.SessionView) string {
	if view == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(f.cat.MustRender("royale.start", map[string]any{
		"Warriors": len(view.Participants),
		"Factions": countFactions(view.Factions),
	}, "⚔️ Battle royale begins!"))
	sb.WriteString("\n")
	writeFactionRoster(&sb, view.Participants, view.Factions)
	sb.WriteString(fmt.Sprintf("\nNext: `%sroyale round`", f.Prefix()))
	return sb.String()
}

// Round renders every section of a completed round, collapsed behind a
// "see more" header.
func (f *Formatter) Round(rec *royaledto.RoundView, view *royaledto.SessionView) string {
	if rec == nil || view == nil {
		return ""
	}
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("⚔️ Round %d — %d warriors remain\n", rec.Round, len(rec.Survivors)))

	if len(rec.FactionDescriptions) > 0 {
		sb.WriteString("\n🏴 Faction actions\n")
		for _, faction := range sortedKeys(rec.FactionDescriptions) {
			sb.WriteString(fmt.Sprintf("• %s: %s\n", faction, rec.FactionDescriptions[faction]))
		}
	}

	if len(rec.FactionChanges) > 0 {
		sb.WriteString("\n🔄 Defections\n")
		for _, fc := range rec.FactionChanges {
			sb.WriteString(fmt.Sprintf("• %s: %s → %s (%s)\n", fc.Warrior, fc.From, fc.To, fc.Reason))
		}
	}

	if len(rec.Eliminations) > 0 {
		sb.WriteString("\n💀 Eliminations\n")
		for _, ev := range rec.Eliminations {
			sb.WriteString(fmt.Sprintf("• %s — by %s, %s\n", ev.Warrior, ev.EliminatedBy, ev.Method))
		}
	} else {
		sb.WriteString("\n💀 Eliminations: none this round\n")
	}

	if rec.Narrative != "" {
		sb.WriteString("\n📜 ")
		sb.WriteString(rec.Narrative)
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\n🛡️ Survivors (%d): %s\n", len(rec.Survivors), strings.Join(rec.Survivors, ", ")))
	writeFactionRoster(&sb, rec.Survivors, view.Factions)
	sb.WriteString(fmt.Sprintf("\n⚰️ Fallen so far: %d/%d", len(view.Eliminated), len(view.Participants)))

	return util.ApplySeeMorePadding(sb.String(), roundInstruction)
}

// Final renders the termination summary.
func (f *Formatter) Final(view *royaledto.SessionView) string {
	if view == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(f.endingLine(view))
	sb.WriteString("\n")

	if len(view.Winners) > 0 {
		sb.WriteString(fmt.Sprintf("\n👑 Champion(s): %s\n", strings.Join(view.Winners, ", ")))
	}
	sb.WriteString(fmt.Sprintf("\n📊 %d rounds, %d of %d warriors fell.\n",
		view.Round, len(view.Eliminated), len(view.Participants)))

	if len(view.Eliminated) > 0 {
		sb.WriteString("\n⚰️ The fallen, in order:\n")
		for i, name := range view.Eliminated {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, name))
		}
	}
	return util.ApplySeeMorePadding(sb.String(), finalInstruction)
}

func (f *Formatter) endingLine(view *royaledto.SessionView) string {
	data := map[string]any{
		"Rounds": view.Round,
		"Winner": strings.Join(view.Winners, ", "),
	}
	if len(view.Survivors) > 0 {
		data["Faction"] = view.Factions[view.Survivors[0]]
	} else {
		data["Faction"] = ""
	}
	key := "royale.ending." + view.EndReason
	if view.EndReason == "cancelled" {
		key = "royale.cancelled"
	}
	return f.cat.MustRender(key, data, "🏁 The game is over.")
}

// Status is the mid-game snapshot.
func (f *Formatter) Status(view *royaledto.SessionView) string {
	if view == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚔️ Round %d | %d/%d warriors alive\n",
		view.Round, len(view.Survivors), len(view.Participants)))
	writeFactionRoster(&sb, view.Survivors, view.Factions)
	if len(view.Eliminated) > 0 {
		sb.WriteString(fmt.Sprintf("\n⚰️ Fallen: %s", strings.Join(view.Eliminated, ", ")))
	}
	return sb.String()
}

func (f *Formatter) Champions(champions []royaledto.Champion) string {
	if len(champions) == 0 {
		return "No champions yet. The arena awaits."
	}
	var sb strings.Builder
	sb.WriteString(championsInstruction)
	sb.WriteString("\n")
	for i, c := range champions {
		sb.WriteString(fmt.Sprintf("%d. %s — %d title(s)\n", i+1, c.Name, c.Titles))
	}
	return sb.String()
}

func writeFactionRoster(sb *strings.Builder, names []string, factions map[string]string) {
	byFaction := map[string][]string{}
	for _, n := range names {
		f := factions[n]
		if f == "" {
			f = "Unaligned"
		}
		byFaction[f] = append(byFaction[f], n)
	}
	for _, f := range sortedKeys(byFaction) {
		sb.WriteString(fmt.Sprintf("• %s (%d): %s\n", f, len(byFaction[f]), strings.Join(byFaction[f], ", ")))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func countFactions(factions map[string]string) int {
	seen := map[string]struct{}{}
	for _, f := range factions {
		seen[f] = struct{}{}
	}
	return len(seen)
}
