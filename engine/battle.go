package engine

// ValueBeats compares two face values from a's point of view.
//
// Higher values win, except that Zero beats Nine. The exception is a single
// inversion: Zero still loses to One through Eight and Nine still beats One
// through Eight.
func ValueBeats(a, b Value) Outcome {
	switch {
	case a == b:
		return Tie
	case a == ValueZero && b == ValueNine:
		return Win
	case a == ValueNine && b == ValueZero:
		return Loss
	case a > b:
		return Win
	default:
		return Loss
	}
}

// Beats compares c against other, applying Swap per card: when exactly one of
// the two cards carries Swap the non-tie outcome is inverted.
func (c Card) Beats(other Card) Outcome {
	out := ValueBeats(c.Value, other.Value)
	if c.Mod.InvertsOutcome() != other.Mod.InvertsOutcome() {
		out = out.Invert()
	}
	return out
}

// MaxValue is the most points the card could ever be worth: its face value
// plus the best bonus its own modifier can realise. It is only an upper bound
// for the remaining-score estimate.
func (c Card) MaxValue() int {
	v := int(c.Value)
	switch c.Mod {
	case ModZeroBonus:
		return v + ZeroBonusPoints
	case ModDouble:
		// pays this card's value and up to a Nine on the other side again
		return v + v + int(HighestValue)
	}
	return v
}

// BonusPoints returns the extra points each card of a round earns from
// modifiers, in argument order. The result does not depend on who wins.
//
// Each ZeroBonus among the two cards pays every zero-valued card
// ZeroBonusPoints, and a zero-valued card counts as ZeroBonusPoints of face.
// Each Double among the two cards pays every card its face value once more.
func BonusPoints(a, b Card) (int, int) {
	var zero, double int
	for _, c := range [2]Card{a, b} {
		switch c.Mod {
		case ModZeroBonus:
			zero++
		case ModDouble:
			double++
		}
	}
	bonus := func(c Card) int {
		if zero > 0 && c.Value == ValueZero {
			return ZeroBonusPoints*zero + ZeroBonusPoints*double
		}
		return int(c.Value) * double
	}
	return bonus(a), bonus(b)
}

// EffectiveValue is the face a card is worth when set against other:
// a zero-valued card counts as ZeroBonusPoints if either card carries ZeroBonus.
func (c Card) EffectiveValue(other Card) int {
	if c.Value == ValueZero && (c.HasMod(ModZeroBonus) || other.HasMod(ModZeroBonus)) {
		return ZeroBonusPoints
	}
	return int(c.Value)
}

// battle resolves a round between the player's and the oppo's card under the
// configured swap rule. fx carries the round accumulator for SwapPerRound.
func battle(rule SwapRule, playerCard, oppoCard Card, fx TurnEffects) Outcome {
	if rule == SwapPerRound {
		out := ValueBeats(playerCard.Value, oppoCard.Value)
		if fx.Swap {
			out = out.Invert()
		}
		return out
	}
	return playerCard.Beats(oppoCard)
}
