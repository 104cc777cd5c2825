package engine

import (
	"fmt"
	"time"
)

// Tick advances the session as far as it can at time now. It stops in a turn
// phase (waiting for Play), in PhaseCardPlayed while the pause runs, or in
// PhaseGameOver. Calling Tick again without new input has no further effect.
func (s *GameSession) Tick(now time.Time) {
	for s.step(now) {
	}
}

// Start leaves PhaseStarting and runs the first draw.
func (s *GameSession) Start(now time.Time) {
	s.Tick(now)
}

// step performs one transition and reports whether another may follow.
func (s *GameSession) step(now time.Time) bool {
	switch s.phase {
	case PhaseStarting:
		s.phase = PhaseNew
		return true
	case PhaseNew:
		s.newRound()
		return true
	case PhaseDraw:
		s.completeDraw()
		return true
	case PhaseCardPlayed:
		return s.waitPlayed(now)
	}
	return false
}

// newRound checks for a decided game, then hands the round to the initiative
// holder (after a draw if a hand is empty). Initiative is passed through the
// policy on every entry, the first round included.
func (s *GameSession) newRound() {
	if s.checkEarlyEnd() {
		return
	}
	s.initiative = s.Rules.Initiative.Next(s.initiative, s.round)
	s.round++
	if len(s.hands[Player]) == 0 || len(s.hands[Oppo]) == 0 {
		s.phase = PhaseDraw
		return
	}
	s.startTurn(s.initiative)
}

// completeDraw refills both hands. Sleeved cards return to the human's hand
// before drawing.
func (s *GameSession) completeDraw() {
	for _, hc := range s.sleeve {
		s.hands[Player] = append(s.hands[Player], hc)
		s.emit(Event{Type: EventSleeveReturned, Who: Player, CardID: hc.ID, Card: hc.Card})
	}
	s.sleeve = nil
	for _, who := range [2]Participant{Player, Oppo} {
		if need := s.Rules.HandSize - len(s.hands[who]); need > 0 {
			s.drawInto(who, need)
		}
	}
	if len(s.hands[Player]) == 0 || len(s.hands[Oppo]) == 0 {
		s.finishOnScore()
		return
	}
	s.startTurn(s.initiative)
}

func (s *GameSession) startTurn(who Participant) {
	s.phase = turnPhase(who)
	s.emit(Event{Type: EventTurnStarted, Who: who})
}

// waitPlayed holds PhaseCardPlayed for Rules.TurnPause, measured from the
// first tick in the phase, then passes the turn or resolves the round.
func (s *GameSession) waitPlayed(now time.Time) bool {
	if !s.pauseSet {
		s.pauseSet = true
		s.pauseUntil = now.Add(s.Rules.TurnPause)
	}
	if now.Before(s.pauseUntil) {
		return false
	}
	s.pauseSet = false

	war := &s.piles[PileWar]
	switch war.Len() {
	case 1:
		s.startTurn(war.cards[0].Origin.Other())
	case 2:
		s.resolveRound()
		s.phase = PhaseNew
	default:
		panic(fmt.Sprintf("engine: %d cards on the war pile after a play", war.Len()))
	}
	return true
}

// resolveRound settles the two cards on the war pile, moves them to the
// scoring piles and credits bonuses to whoever receives each card.
func (s *GameSession) resolveRound() {
	war := &s.piles[PileWar]
	if war.Len() != 2 {
		panic(fmt.Sprintf("engine: resolving a round with %d cards on the war pile", war.Len()))
	}
	cards := war.take()
	pc, oc := cards[0], cards[1]
	if pc.Origin == oc.Origin {
		panic(fmt.Sprintf("engine: both war cards belong to %s", pc.Origin))
	}
	if pc.Origin != Player {
		pc, oc = oc, pc
	}

	out := battle(s.Rules.Swap, pc.Card, oc.Card, s.effects)
	pBonus, oBonus := BonusPoints(pc.Card, oc.Card)

	res := RoundResult{Round: s.round, Outcome: out, Multiplier: s.effects.Multiplier}
	receiver := func(c PileCard) Participant {
		switch out {
		case Win:
			return Player
		case Loss:
			return Oppo
		}
		return c.Origin
	}
	credit := func(c PileCard, bonus int) PileCard {
		who := receiver(c)
		placed := s.piles[PileOf(who)].add(c.ID, c.Card, c.Origin)
		s.bonuses.add(who, bonus)
		if who == Player {
			res.PlayerBonus += bonus
		} else {
			res.OppoBonus += bonus
		}
		return placed
	}
	res.PlayerCard = credit(pc, pBonus)
	res.OppoCard = credit(oc, oBonus)

	s.effects = NewTurnEffects()
	s.last, s.hasLast = res, true
	s.emit(Event{Type: EventRoundResolved, Result: &res})
}
