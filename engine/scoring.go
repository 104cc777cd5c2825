package engine

// Score is the face total of who's pile plus who's modifier bonuses.
func (s *GameSession) Score(who Participant) int {
	return s.piles[PileOf(who)].FaceTotal() + s.bonuses.Of(who)
}

// PlayerScore is Score(Player).
func (s *GameSession) PlayerScore() int { return s.Score(Player) }

// OppoScore is Score(Oppo).
func (s *GameSession) OppoScore() int { return s.Score(Oppo) }

// RemainingScore is the most points still obtainable by either side: MaxValue
// summed over both decks, both hands and the sleeve.
func (s *GameSession) RemainingScore() int {
	total := s.decks[Player].Score() + s.decks[Oppo].Score()
	for _, hand := range s.hands {
		total += maxValueSum(hand)
	}
	return total + maxValueSum(s.sleeve)
}

func maxValueSum(cards []HandCard) int {
	total := 0
	for _, hc := range cards {
		total += hc.Card.MaxValue()
	}
	return total
}
