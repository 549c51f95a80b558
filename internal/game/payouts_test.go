package game_test

import (
	"testing"

	"github.com/mauv0809/poker-night/internal/game"
	"github.com/stretchr/testify/assert"
)

func TestComputePayouts_WinnerTakeAll(t *testing.T) {
	p := game.ComputePayouts(4, 100)
	assert.Equal(t, game.Payouts{First: 400, Second: 0, Third: 0, TotalPot: 400}, p)
}

func TestComputePayouts_ZeroPot(t *testing.T) {
	assert.Equal(t, game.Payouts{}, game.ComputePayouts(3, 0))
	assert.Equal(t, game.Payouts{}, game.ComputePayouts(0, 100))
}
