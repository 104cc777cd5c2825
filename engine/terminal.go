package engine

// checkEarlyEnd ends the game when one side leads by more than every
// remaining card could still be worth. It reports whether the game ended.
//
// RemainingScore sums optimistic MaxValue bounds, so the check can only be
// late, never early.
func (s *GameSession) checkEarlyEnd() bool {
	p, o := s.Score(Player), s.Score(Oppo)
	rem := s.RemainingScore()
	switch {
	case p-o > rem:
		s.finish(EndVictory)
	case o-p > rem:
		s.finish(EndLoss)
	default:
		return false
	}
	return true
}

// finishOnScore ends a game that cannot continue because a hand could not be
// refilled.
func (s *GameSession) finishOnScore() {
	p, o := s.Score(Player), s.Score(Oppo)
	switch {
	case p > o:
		s.finish(EndVictory)
	case o > p:
		s.finish(EndLoss)
	default:
		s.finish(EndStalemate)
	}
}

func (s *GameSession) finish(reason EndReason) {
	s.phase = PhaseGameOver
	s.end = reason
	s.emit(Event{Type: EventGameOver, Reason: reason})
}
