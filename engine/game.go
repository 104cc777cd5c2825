// Package engine implements the rules and turn flow of a two-sided War duel.
//
// A GameSession owns every piece of mutable game state. Hosts submit intents
// (Play, Stash, UseSeed, CaughtCheating) and call Tick on a regular clock; the
// session advances through its phases and records Events for presentation.
// Nothing in this package blocks, logs or touches the network.
package engine

import "time"

// HandCard is a card held in a hand or in the sleeve.
type HandCard struct {
	ID   CardID
	Card Card
}

// GameSession is the complete state of one duel.
type GameSession struct {
	Rules Rules

	phase      Phase
	initiative Participant
	round      int
	effects    TurnEffects
	bonuses    ScoreBonuses
	seeds      SeedCount
	end        EndReason

	decks  [2]Deck
	hands  [2][]HandCard
	sleeve []HandCard
	piles  [3]Pile
	nextID CardID

	pauseSet   bool
	pauseUntil time.Time

	last    RoundResult
	hasLast bool
	events  []Event
}

// NewSession creates a session in PhaseStarting with the given decks. The
// decks are copied.
func NewSession(rules Rules, playerDeck, oppoDeck Deck) *GameSession {
	s := &GameSession{}
	s.Rules = rules.normalized()
	s.Reset(playerDeck, oppoDeck)
	return s
}

// Reset discards all per-game state and starts over with new decks.
func (s *GameSession) Reset(playerDeck, oppoDeck Deck) {
	rules := s.Rules
	*s = GameSession{Rules: rules}
	s.decks[Player] = playerDeck.Clone()
	s.decks[Oppo] = oppoDeck.Clone()
	s.piles = [3]Pile{NewPile(PileWar), NewPile(PilePlayer), NewPile(PileOppo)}
	s.effects = NewTurnEffects()
	s.initiative = s.Rules.FirstLead
	s.phase = PhaseStarting
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func (s *GameSession) Phase() Phase            { return s.phase }
func (s *GameSession) Round() int              { return s.round }
func (s *GameSession) Initiative() Participant { return s.initiative }
func (s *GameSession) Effects() TurnEffects    { return s.effects }
func (s *GameSession) Bonuses() ScoreBonuses   { return s.bonuses }
func (s *GameSession) Seeds() int              { return int(s.seeds) }
func (s *GameSession) EndReason() EndReason    { return s.end }
func (s *GameSession) IsOver() bool            { return s.phase == PhaseGameOver }

// DeckRemaining is the number of undrawn cards in who's deck.
func (s *GameSession) DeckRemaining(who Participant) int { return s.decks[who].Remaining() }

// Hand returns a copy of who's hand.
func (s *GameSession) Hand(who Participant) []HandCard {
	return append([]HandCard(nil), s.hands[who]...)
}

// HandCards returns the cards in who's hand without identities.
func (s *GameSession) HandCards(who Participant) []Card {
	out := make([]Card, len(s.hands[who]))
	for i, hc := range s.hands[who] {
		out[i] = hc.Card
	}
	return out
}

// Sleeve returns a copy of the human's stashed cards.
func (s *GameSession) Sleeve() []HandCard {
	return append([]HandCard(nil), s.sleeve...)
}

// Pile returns a copy of the cards in the given pile.
func (s *GameSession) Pile(kind PileKind) []PileCard {
	return s.piles[kind].Cards()
}

// WarCard returns the card waiting on the war pile, if exactly one is there.
func (s *GameSession) WarCard() (PileCard, bool) {
	if s.piles[PileWar].Len() != 1 {
		return PileCard{}, false
	}
	return s.piles[PileWar].cards[0], true
}

// ToMove returns who must play now, or false outside the turn phases.
func (s *GameSession) ToMove() (Participant, bool) {
	switch s.phase {
	case PhasePlayerTurn:
		return Player, true
	case PhaseOppoTurn:
		return Oppo, true
	}
	return 0, false
}

// LastRound returns the most recently resolved round.
func (s *GameSession) LastRound() (RoundResult, bool) { return s.last, s.hasLast }

// DrainEvents returns and clears the pending events.
func (s *GameSession) DrainEvents() []Event {
	out := s.events
	s.events = nil
	return out
}

func (s *GameSession) emit(ev Event) {
	ev.Round = s.round
	s.events = append(s.events, ev)
}

func (s *GameSession) newID() CardID {
	s.nextID++
	return s.nextID
}

// findInHand returns the index of id in who's hand, or -1.
func (s *GameSession) findInHand(who Participant, id CardID) int {
	for i, hc := range s.hands[who] {
		if hc.ID == id {
			return i
		}
	}
	return -1
}

func (s *GameSession) removeFromHand(who Participant, idx int) HandCard {
	hc := s.hands[who][idx]
	s.hands[who] = append(s.hands[who][:idx], s.hands[who][idx+1:]...)
	return hc
}

// drawInto draws up to n cards from who's deck into who's hand.
func (s *GameSession) drawInto(who Participant, n int) {
	for _, c := range s.decks[who].Draw(n) {
		hc := HandCard{ID: s.newID(), Card: c}
		s.hands[who] = append(s.hands[who], hc)
		s.emit(Event{Type: EventCardDrawn, Who: who, CardID: hc.ID, Card: c})
	}
}
