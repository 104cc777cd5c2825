package engine

// TurnEffects accumulates the modifiers played during one round. It is reset
// exactly once, when the round resolves.
type TurnEffects struct {
	Multiplier int  // doubles for every Double played
	ZeroBonus  bool // a ZeroBonus card was played
	Swap       bool // odd number of Swap cards played (SwapPerRound)
}

// NewTurnEffects returns the neutral accumulator.
func NewTurnEffects() TurnEffects { return TurnEffects{Multiplier: 1} }

// ScoreBonuses holds the bonus points each side earned from modifiers. The
// face points live in the scoring piles.
type ScoreBonuses struct {
	Player int
	Oppo   int
}

// Of returns who's bonus total.
func (b ScoreBonuses) Of(who Participant) int {
	if who == Player {
		return b.Player
	}
	return b.Oppo
}

func (b *ScoreBonuses) add(who Participant, points int) {
	if who == Player {
		b.Player += points
	} else {
		b.Oppo += points
	}
}

// SeedCount is the human's stock of seeds.
type SeedCount int

// Consume spends one seed, reporting false when there is none.
func (s *SeedCount) Consume() bool {
	if *s == 0 {
		return false
	}
	*s--
	return true
}
