package royale

import "sort"

// factionPool is the ordered pool of faction names a game can draw from.
// Faction count is clamped to this pool.
var factionPool = []string{
	"Crimson Vanguard",
	"Azure Covenant",
	"Emerald Circle",
	"Golden Talon",
	"Obsidian Veil",
}

// MaxFactions is the size of the faction-name pool.
const MaxFactions = 5

// AssignFactions deals factions round-robin over the participant list, in
// order. Deterministic given the same input order. K is clamped to [1, pool].
func AssignFactions(participants []Participant, k int) map[string]string {
	if k <= 0 {
		k = 1
	}
	if k > len(factionPool) {
		k = len(factionPool)
	}
	out := make(map[string]string, len(participants))
	for i, p := range participants {
		out[p.Name] = factionPool[i%k]
	}
	return out
}

// FactionsOf returns the distinct factions represented among the given
// warriors, in pool order.
func FactionsOf(names []string, factions map[string]string) []string {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if f, ok := factions[n]; ok {
			seen[f] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for _, f := range factionPool {
		if _, ok := seen[f]; ok {
			out = append(out, f)
		}
	}
	// factions outside the pool (never produced by AssignFactions, but the
	// map is generator-writable through faction changes) go last, sorted
	var extra []string
	for f := range seen {
		if !inPool(f) {
			extra = append(extra, f)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func inPool(f string) bool {
	for _, p := range factionPool {
		if p == f {
			return true
		}
	}
	return false
}
