package engine

import "math/rand/v2"

// Deck is an ordered draw pile. Cards are stored reversed so that drawing
// takes from the tail while preserving source order: the first card given to
// NewDeck is the first card drawn.
type Deck struct {
	cards []Card
}

// NewDeck builds a deck whose draw order matches cards.
func NewDeck(cards []Card) Deck {
	rev := make([]Card, len(cards))
	for i, c := range cards {
		rev[len(cards)-1-i] = c
	}
	return Deck{cards: rev}
}

// Draw removes up to n cards and returns them in draw order. Asking for more
// cards than remain returns what is left.
func (d *Deck) Draw(n int) []Card {
	if n <= 0 {
		return nil
	}
	rem := len(d.cards)
	idx := rem - min(n, rem)
	tail := d.cards[idx:]
	out := make([]Card, len(tail))
	for i, c := range tail {
		out[len(tail)-1-i] = c
	}
	d.cards = d.cards[:idx]
	return out
}

// Remaining is the number of undrawn cards.
func (d *Deck) Remaining() int { return len(d.cards) }

// Score sums MaxValue over the undrawn cards.
func (d *Deck) Score() int {
	total := 0
	for _, c := range d.cards {
		total += c.MaxValue()
	}
	return total
}

// Cards returns a copy of the undrawn cards in draw order.
func (d *Deck) Cards() []Card {
	out := make([]Card, len(d.cards))
	for i, c := range d.cards {
		out[len(d.cards)-1-i] = c
	}
	return out
}

// Shuffle permutes the undrawn cards with rng.
func (d *Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Clone returns an independent copy.
func (d Deck) Clone() Deck {
	return Deck{cards: append([]Card(nil), d.cards...)}
}
