package royale

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// environmentalCauses are eliminator labels used when no warrior did the
// deed. The validator also draws from these when repairing self-kills.
var environmentalCauses = []string{
	"arena hazard",
	"a collapsing watchtower",
	"the closing storm wall",
	"a hidden pit trap",
	"a pack of arena beasts",
}

var eliminationMethods = []string{
	"was caught in the open and overwhelmed",
	"fell during a desperate scramble for supplies",
	"was ambushed at the treeline",
	"misjudged a leap between the ruins",
	"was cornered with nowhere left to run",
}

var factionMoodlines = []string{
	"The %s hold their ground and watch the others bleed.",
	"The %s move under cover of dusk, trading safety for position.",
	"The %s argue among themselves but stay together for now.",
	"The %s tighten their perimeter and ration what's left.",
	"The %s probe the edges of the arena, hunting for an opening.",
}

// FallbackGenerator synthesizes a complete round locally. It never fails and
// never references anyone outside the living list, so it can stand in for the
// external generator whenever that one times out or returns garbage.
type FallbackGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewFallbackGenerator() *FallbackGenerator {
	return &FallbackGenerator{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededFallbackGenerator pins the RNG, for deterministic tests.
func NewSeededFallbackGenerator(seed int64) *FallbackGenerator {
	return &FallbackGenerator{rng: rand.New(rand.NewSource(seed))}
}

func (g *FallbackGenerator) GenerateRound(_ context.Context, req GenerateRequest) (*RoundPayload, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	living := append([]string(nil), req.Living...)

	n := g.rng.Intn(3) // 0..2 eliminations
	if len(living) > 3 && n > len(living)-2 {
		n = len(living) - 2
	}
	if n > len(living)-1 {
		n = len(living) - 1
	}
	if n < 0 {
		n = 0
	}

	g.rng.Shuffle(len(living), func(i, j int) { living[i], living[j] = living[j], living[i] })
	victims := living[:n]
	remaining := living[n:]

	events := make([]EliminationEvent, 0, n)
	for _, v := range victims {
		by := environmentalCauses[g.rng.Intn(len(environmentalCauses))]
		if len(remaining) > 0 && g.rng.Intn(2) == 0 {
			by = remaining[g.rng.Intn(len(remaining))]
		}
		events = append(events, EliminationEvent{
			Warrior:      v,
			EliminatedBy: by,
			Method:       eliminationMethods[g.rng.Intn(len(eliminationMethods))],
		})
	}

	descs := map[string]string{}
	for _, f := range FactionsOf(remaining, req.Factions) {
		line := factionMoodlines[g.rng.Intn(len(factionMoodlines))]
		descs[f] = fmt.Sprintf(line, f)
	}

	return &RoundPayload{
		FactionDescriptions: descs,
		Eliminated:          events,
		Survivors:           append([]string(nil), remaining...),
		Narrative:           g.narrative(req.Round, victims),
	}, nil
}

func (g *FallbackGenerator) narrative(round int, victims []string) string {
	if len(victims) == 0 {
		return fmt.Sprintf("Round %d passes without bloodshed. The arena waits.", round)
	}
	return fmt.Sprintf("Round %d claims %s. The survivors press on.", round, strings.Join(victims, ", "))
}

// randomEnvironmentalCause is shared with the validator's self-kill repair.
func randomEnvironmentalCause() string {
	return environmentalCauses[rand.Intn(len(environmentalCauses))]
}
