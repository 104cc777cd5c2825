// Package agent implements the computer side of a duel: choosing which card
// to play from a hand, and driving whole sessions for simulation.
package agent

import (
	"math/rand/v2"

	"github.com/wordwar/duel/engine"
)

// Chooser picks the index of the card to play from hand. war is the card the
// other side already played this round, or nil when leading. hand is never
// empty.
type Chooser interface {
	Choose(hand []engine.Card, war *engine.Card) int
}

// Greedy leads with a random card. When answering it takes the cheapest
// winning card, else a tying card, else the cheapest card in hand.
type Greedy struct {
	rng *rand.Rand
}

// NewGreedy returns a Greedy chooser. A nil rng uses the global source.
func NewGreedy(rng *rand.Rand) *Greedy {
	return &Greedy{rng: rng}
}

func (g *Greedy) Choose(hand []engine.Card, war *engine.Card) int {
	if war == nil {
		if g.rng != nil {
			return g.rng.IntN(len(hand))
		}
		return rand.IntN(len(hand))
	}

	win, tie := -1, -1
	for i, c := range hand {
		switch c.Beats(*war) {
		case engine.Win:
			if win < 0 || cheaper(c, hand[win], *war) {
				win = i
			}
		case engine.Tie:
			if tie < 0 || cheaper(c, hand[tie], *war) {
				tie = i
			}
		}
	}
	if win >= 0 {
		return win
	}
	if tie >= 0 {
		return tie
	}
	return Cheapest(hand, *war)
}

// Cheapest returns the index of the card worth least against war. Zero-valued
// cards count as the zero bonus when it applies.
func Cheapest(hand []engine.Card, war engine.Card) int {
	best := 0
	for i := 1; i < len(hand); i++ {
		if cheaper(hand[i], hand[best], war) {
			best = i
		}
	}
	return best
}

// cheaper orders by effective value, then raw value. Earlier cards win ties.
func cheaper(a, b, war engine.Card) bool {
	ea, eb := a.EffectiveValue(war), b.EffectiveValue(war)
	if ea != eb {
		return ea < eb
	}
	return a.Less(b)
}

// First always plays the first card in hand.
type First struct{}

func (First) Choose([]engine.Card, *engine.Card) int { return 0 }
