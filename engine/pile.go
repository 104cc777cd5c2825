package engine

// PileKind names one of the three piles on the table.
type PileKind uint8

const (
	PileWar    PileKind = iota // neutral in-play pile
	PilePlayer                 // resolved into the player's score
	PileOppo                   // resolved into the oppo's score
)

func (k PileKind) String() string {
	switch k {
	case PileWar:
		return "war"
	case PilePlayer:
		return "player"
	case PileOppo:
		return "oppo"
	}
	return "pile(?)"
}

// PileOf returns the scoring pile owned by who.
func PileOf(who Participant) PileKind {
	if who == Player {
		return PilePlayer
	}
	return PileOppo
}

// PileCard is a card placed in a pile. StackPos only grows and gives the
// presentation order inside the pile.
type PileCard struct {
	ID       CardID
	Card     Card
	Origin   Participant // whose deck the card came from
	StackPos int
	Which    PileKind
}

// Pile is a bag of placed cards.
type Pile struct {
	Which     PileKind
	cards     []PileCard
	stackSize int
}

// NewPile returns an empty pile.
func NewPile(which PileKind) Pile { return Pile{Which: which} }

// add places a card on top of the pile and returns its placement.
func (p *Pile) add(id CardID, c Card, origin Participant) PileCard {
	pc := PileCard{ID: id, Card: c, Origin: origin, StackPos: p.stackSize, Which: p.Which}
	p.stackSize++
	p.cards = append(p.cards, pc)
	return pc
}

// take removes every card from the pile and returns them in placement order.
func (p *Pile) take() []PileCard {
	out := p.cards
	p.cards = nil
	return out
}

// Len is the number of cards in the pile.
func (p *Pile) Len() int { return len(p.cards) }

// Cards returns a copy of the placed cards.
func (p *Pile) Cards() []PileCard { return append([]PileCard(nil), p.cards...) }

// FaceTotal sums the face values in the pile.
func (p *Pile) FaceTotal() int {
	total := 0
	for _, pc := range p.cards {
		total += int(pc.Card.Value)
	}
	return total
}
