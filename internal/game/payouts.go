package game

// ComputePayouts maps a player count and buy-in to the prize split.
// Current policy is winner-take-all. A future payout curve only needs to
// change this function; the rest of the system is agnostic to the split.
func ComputePayouts(playerCount int, buyIn float64) Payouts {
	totalPot := float64(playerCount) * buyIn
	if totalPot == 0 {
		return Payouts{}
	}
	return Payouts{
		First:    totalPot,
		Second:   0,
		Third:    0,
		TotalPot: totalPot,
	}
}
