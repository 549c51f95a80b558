package game

import "math/rand/v2"

// Shuffle returns a copy of players in uniformly random order. The caller's
// slice is never mutated. Seating is a fairness mechanism, not a security
// boundary, so math/rand is sufficient.
func Shuffle(players []string) Seating {
	seating := make(Seating, len(players))
	copy(seating, players)
	if len(seating) < 2 {
		return seating
	}
	rand.Shuffle(len(seating), func(i, j int) {
		seating[i], seating[j] = seating[j], seating[i]
	})
	return seating
}
