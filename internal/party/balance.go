package party

import (
	"errors"
	"math/rand"
	"strings"
)

var ErrTooFewMembers = errors.New("need at least as many members as teams")

// Balance shuffles members and deals them round-robin into k teams, so team
// sizes never differ by more than one.
func Balance(members []string, k int) ([][]string, error) {
	clean := make([]string, 0, len(members))
	for _, m := range members {
		if s := strings.TrimSpace(m); s != "" {
			clean = append(clean, s)
		}
	}
	if k <= 0 {
		k = 2
	}
	if len(clean) < k {
		return nil, ErrTooFewMembers
	}

	shuffled := append([]string(nil), clean...)
	rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	teams := make([][]string, k)
	for i, m := range shuffled {
		teams[i%k] = append(teams[i%k], m)
	}
	return teams, nil
}
