package engine

import (
	"fmt"
	"time"
)

// InitiativePolicy decides who leads the next round. round is the number of
// the round that just ended, 0 when the first round is about to start.
type InitiativePolicy interface {
	Next(current Participant, round int) Participant
}

// EveryRound passes initiative after every round.
type EveryRound struct{}

func (EveryRound) Next(current Participant, _ int) Participant { return current.Other() }

// EveryOtherRound passes initiative after every second round, so each side
// leads twice in a row.
type EveryOtherRound struct{}

func (EveryOtherRound) Next(current Participant, round int) Participant {
	if round%2 == 0 {
		return current.Other()
	}
	return current
}

// InitiativePolicyByName maps a config name to a policy.
func InitiativePolicyByName(name string) (InitiativePolicy, error) {
	switch name {
	case "", "every_round":
		return EveryRound{}, nil
	case "every_other_round":
		return EveryOtherRound{}, nil
	}
	return nil, fmt.Errorf("unknown initiative policy %q", name)
}

// SwapRule selects how Swap modifiers combine within a round.
type SwapRule uint8

const (
	// SwapPerCard XORs the Swap status of the two played cards when comparing.
	SwapPerCard SwapRule = iota
	// SwapPerRound toggles a round-wide flag every time a Swap card is played.
	SwapPerRound
)

func (r SwapRule) String() string {
	if r == SwapPerRound {
		return "per_round"
	}
	return "per_card"
}

// SwapRuleByName maps a config name to a SwapRule.
func SwapRuleByName(name string) (SwapRule, error) {
	switch name {
	case "", "per_card":
		return SwapPerCard, nil
	case "per_round":
		return SwapPerRound, nil
	}
	return 0, fmt.Errorf("unknown swap rule %q", name)
}

// Rules holds the configurable settings of a duel.
type Rules struct {
	HandSize   int           // cards each side holds after a draw
	SleeveSize int           // cards the human may keep stashed at once
	TurnPause  time.Duration // pause after each played card
	Initiative InitiativePolicy
	Swap       SwapRule
	FirstLead  Participant // initiative holder before the first round's handover
}

// DefaultRules returns the standard settings.
func DefaultRules() Rules {
	return Rules{
		HandSize:   3,
		SleeveSize: 3,
		TurnPause:  500 * time.Millisecond,
		Initiative: EveryRound{},
		Swap:       SwapPerCard,
		FirstLead:  Player,
	}
}

// normalized fills zero fields with defaults.
func (r Rules) normalized() Rules {
	d := DefaultRules()
	if r.HandSize <= 0 {
		r.HandSize = d.HandSize
	}
	if r.SleeveSize < 0 {
		r.SleeveSize = 0
	}
	if r.TurnPause < 0 {
		r.TurnPause = 0
	}
	if r.Initiative == nil {
		r.Initiative = d.Initiative
	}
	return r
}
