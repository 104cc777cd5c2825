package engine

import "fmt"

// Value is the face rank of a card, 0 through 9.
type Value uint8

const (
	ValueZero  Value = 0
	ValueOne   Value = 1
	ValueTwo   Value = 2
	ValueThree Value = 3
	ValueFour  Value = 4
	ValueFive  Value = 5
	ValueSix   Value = 6
	ValueSeven Value = 7
	ValueEight Value = 8
	ValueNine  Value = 9

	// HighestValue is the highest face rank.
	HighestValue = ValueNine
)

// Valid reports whether v is within 0..9.
func (v Value) Valid() bool { return v <= HighestValue }

// ZeroBonusPoints is what a zero-valued card is worth while a ZeroBonus card is in play.
const ZeroBonusPoints = 12

// Modifier is the optional effect printed on a card. ModNone means the card
// carries no modifier.
type Modifier uint8

const (
	ModNone      Modifier = iota // 0
	ModSeed                      // 1: grants the human a seed
	ModDouble                    // 2: face values are paid again as bonus
	ModSwap                      // 3: inverts the round outcome
	ModZeroBonus                 // 4: zero-valued cards earn ZeroBonusPoints
	ModHet                       // 5: reserved, no effect
	ModMeb                       // 6: reserved, no effect
)

// modifierCodes maps each modifier to its deck-file code.
var modifierCodes = [...]byte{
	ModNone:      '_',
	ModSeed:      's',
	ModDouble:    'd',
	ModSwap:      'w',
	ModZeroBonus: 'z',
	ModHet:       'h',
	ModMeb:       'm',
}

var modifierNames = [...]string{
	ModNone:      "none",
	ModSeed:      "seed",
	ModDouble:    "double",
	ModSwap:      "swap",
	ModZeroBonus: "zero_bonus",
	ModHet:       "het",
	ModMeb:       "meb",
}

// Code returns the single-character code used in deck files.
func (m Modifier) Code() byte {
	if int(m) < len(modifierCodes) {
		return modifierCodes[m]
	}
	return '?'
}

func (m Modifier) String() string {
	if int(m) < len(modifierNames) {
		return modifierNames[m]
	}
	return fmt.Sprintf("modifier(%d)", uint8(m))
}

// FlavorText is the short rules text shown on the card face.
func (m Modifier) FlavorText() string {
	switch m {
	case ModNone:
		return ""
	case ModSeed:
		return "Gain a seed"
	case ModDouble:
		return "Double points"
	case ModSwap:
		return "Swap winners"
	case ModZeroBonus:
		return "Zero earns 12"
	default:
		return "Unimplemented"
	}
}

// ApplyToTurnEffects folds the modifier into the round accumulator.
// Seed is not a round effect; see GrantsSeed.
func (m Modifier) ApplyToTurnEffects(fx *TurnEffects) {
	switch m {
	case ModDouble:
		fx.Multiplier *= 2
	case ModZeroBonus:
		fx.ZeroBonus = true
	case ModSwap:
		fx.Swap = !fx.Swap
	}
}

// GrantsSeed reports whether playing the card gives the human a seed.
func (m Modifier) GrantsSeed() bool { return m == ModSeed }

// InvertsOutcome reports whether the modifier flips a non-tie outcome.
func (m Modifier) InvertsOutcome() bool { return m == ModSwap }

// ContributesBonus reports whether the modifier pays bonus points.
func (m Modifier) ContributesBonus() bool { return m == ModDouble || m == ModZeroBonus }

// Card is an immutable value/modifier pair. Cards compare equal when both
// fields match; ordering for tie-breaks uses Value only.
type Card struct {
	Value Value
	Mod   Modifier
}

// NewCard constructs a Card.
func NewCard(v Value, m Modifier) Card { return Card{Value: v, Mod: m} }

// HasMod reports whether the card carries modifier m.
func (c Card) HasMod(m Modifier) bool { return c.Mod == m }

// String renders the card in deck-file notation, e.g. "5w".
func (c Card) String() string {
	return fmt.Sprintf("%d%c", c.Value, c.Mod.Code())
}

// Less orders cards by value only.
func (c Card) Less(o Card) bool { return c.Value < o.Value }

// Outcome is a battle result from the first card's point of view.
type Outcome int8

const (
	Loss Outcome = -1
	Tie  Outcome = 0
	Win  Outcome = 1
)

// Invert swaps Win and Loss; Tie is unchanged.
func (o Outcome) Invert() Outcome { return -o }

func (o Outcome) String() string {
	switch o {
	case Loss:
		return "loss"
	case Tie:
		return "tie"
	case Win:
		return "win"
	}
	return fmt.Sprintf("outcome(%d)", int8(o))
}

// Participant identifies a side of the duel. Player is the human seat, Oppo
// the computer seat.
type Participant uint8

const (
	Player Participant = 0
	Oppo   Participant = 1
)

// Other returns the opposing participant.
func (p Participant) Other() Participant { return 1 - p }

func (p Participant) String() string {
	if p == Player {
		return "player"
	}
	return "oppo"
}

// CardID is the identity of a card instance within a session. IDs are never
// reused until the session is reset.
type CardID uint32

// NoCard is the zero CardID; real cards start at 1.
const NoCard CardID = 0

// Phase is the turn state of a session.
type Phase uint8

const (
	PhaseStarting   Phase = iota // 0
	PhaseDraw                    // 1
	PhaseNew                     // 2
	PhasePlayerTurn              // 3
	PhaseOppoTurn                // 4
	PhaseCardPlayed              // 5
	PhaseGameOver                // 6
)

var phaseNames = [...]string{
	PhaseStarting:   "starting",
	PhaseDraw:       "draw",
	PhaseNew:        "new",
	PhasePlayerTurn: "player_turn",
	PhaseOppoTurn:   "oppo_turn",
	PhaseCardPlayed: "card_played",
	PhaseGameOver:   "game_over",
}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// turnPhase returns the turn phase owned by who.
func turnPhase(who Participant) Phase {
	if who == Player {
		return PhasePlayerTurn
	}
	return PhaseOppoTurn
}

// EndReason tells why a game ended.
type EndReason uint8

const (
	EndNone EndReason = iota
	EndVictory
	EndLoss
	EndCaughtCheating
	// EndStalemate ends a game in which neither side can play and scores are level.
	EndStalemate
)

func (r EndReason) String() string {
	switch r {
	case EndNone:
		return "none"
	case EndVictory:
		return "victory"
	case EndLoss:
		return "loss"
	case EndCaughtCheating:
		return "caught_cheating"
	case EndStalemate:
		return "stalemate"
	}
	return fmt.Sprintf("end_reason(%d)", uint8(r))
}
