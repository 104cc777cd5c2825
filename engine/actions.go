package engine

import (
	"errors"
	"fmt"
)

var (
	ErrGameOver      = errors.New("game is already over")
	ErrNotStarted    = errors.New("game has not started")
	ErrNotYourTurn   = errors.New("not this participant's turn")
	ErrCardNotInHand = errors.New("card is not in hand")
	ErrSleeveFull    = errors.New("sleeve is full")
	ErrDeckExhausted = errors.New("deck is exhausted")
	ErrNoSeed        = errors.New("no seed to use")
)

// Play moves a card from who's hand onto the war pile, applies its modifier
// and enters PhaseCardPlayed.
func (s *GameSession) Play(who Participant, id CardID) error {
	if s.phase == PhaseGameOver {
		return ErrGameOver
	}
	if s.phase != turnPhase(who) {
		return fmt.Errorf("%s cannot play during %s: %w", who, s.phase, ErrNotYourTurn)
	}
	idx := s.findInHand(who, id)
	if idx < 0 {
		return fmt.Errorf("%s card %d: %w", who, id, ErrCardNotInHand)
	}
	hc := s.removeFromHand(who, idx)
	s.placeOnWar(hc, who)
	s.emit(Event{Type: EventCardPlayed, Who: who, CardID: hc.ID, Card: hc.Card})

	if hc.Card.Mod.GrantsSeed() {
		s.seeds++
		s.emit(Event{Type: EventSeedGained, Who: Player, CardID: hc.ID, Card: hc.Card, Seeds: int(s.seeds)})
	}
	hc.Card.Mod.ApplyToTurnEffects(&s.effects)

	s.pauseSet = false
	s.phase = PhaseCardPlayed
	return nil
}

// placeOnWar puts a card on the neutral pile. A third card there means a
// caller broke the one-card-per-turn contract.
func (s *GameSession) placeOnWar(hc HandCard, origin Participant) {
	if s.piles[PileWar].Len() >= 2 {
		panic(fmt.Sprintf("engine: war pile already holds %d cards", s.piles[PileWar].Len()))
	}
	s.piles[PileWar].add(hc.ID, hc.Card, origin)
}

// Stash moves a card from the human's hand into the sleeve and draws a
// replacement. The watcher guard is not checked here: a host that sees the
// stash while watched calls CaughtCheating instead.
func (s *GameSession) Stash(id CardID) error {
	if err := s.CanStash(); err != nil {
		return err
	}
	idx := s.findInHand(Player, id)
	if idx < 0 {
		return fmt.Errorf("player card %d: %w", id, ErrCardNotInHand)
	}
	hc := s.removeFromHand(Player, idx)
	s.sleeve = append(s.sleeve, hc)
	s.emit(Event{Type: EventCardStashed, Who: Player, CardID: hc.ID, Card: hc.Card})
	s.drawInto(Player, 1)
	return nil
}

// CanStash reports why the human could not stash any card right now, or nil
// when a stash of a card in hand would be accepted.
func (s *GameSession) CanStash() error {
	switch s.phase {
	case PhaseGameOver:
		return ErrGameOver
	case PhaseStarting:
		return ErrNotStarted
	}
	if len(s.sleeve) >= s.Rules.SleeveSize {
		return fmt.Errorf("%d of %d stashed: %w", len(s.sleeve), s.Rules.SleeveSize, ErrSleeveFull)
	}
	if s.decks[Player].Remaining() == 0 {
		return ErrDeckExhausted
	}
	return nil
}

// UseSeed spends one of the human's seeds.
func (s *GameSession) UseSeed() error {
	if s.phase == PhaseGameOver {
		return ErrGameOver
	}
	if !s.seeds.Consume() {
		return ErrNoSeed
	}
	s.emit(Event{Type: EventSeedUsed, Who: Player, Seeds: int(s.seeds)})
	return nil
}

// CaughtCheating ends the game because the human stashed a card while watched.
func (s *GameSession) CaughtCheating() {
	if s.phase == PhaseGameOver {
		return
	}
	s.finish(EndCaughtCheating)
}
