package engine

// EventType tags an Event.
type EventType uint8

const (
	EventTurnStarted    EventType = iota // a participant must play
	EventCardDrawn                       // a card moved from a deck to a hand
	EventSleeveReturned                  // a stashed card went back to the hand
	EventCardPlayed                      // a card moved from a hand to the war pile
	EventCardStashed                     // a card moved from the hand to the sleeve
	EventSeedGained
	EventSeedUsed
	EventRoundResolved
	EventGameOver
)

var eventNames = [...]string{
	EventTurnStarted:    "turn_started",
	EventCardDrawn:      "card_drawn",
	EventSleeveReturned: "sleeve_returned",
	EventCardPlayed:     "card_played",
	EventCardStashed:    "card_stashed",
	EventSeedGained:     "seed_gained",
	EventSeedUsed:       "seed_used",
	EventRoundResolved:  "round_resolved",
	EventGameOver:       "game_over",
}

func (t EventType) String() string {
	if int(t) < len(eventNames) {
		return eventNames[t]
	}
	return "event(?)"
}

// Event is something observable that happened inside a session. Hosts drain
// events after every intent or tick and forward them to presentation.
type Event struct {
	Type   EventType
	Round  int
	Who    Participant
	CardID CardID
	Card   Card
	Seeds  int          // seed count after SeedGained / SeedUsed
	Result *RoundResult // RoundResolved only
	Reason EndReason    // GameOver only
}

// RoundResult describes how a round was settled.
type RoundResult struct {
	Round       int
	PlayerCard  PileCard
	OppoCard    PileCard
	Outcome     Outcome // from the player's point of view
	PlayerBonus int     // bonus credited to the player this round
	OppoBonus   int     // bonus credited to the oppo this round
	Multiplier  int
}

// Winner returns the side that took both cards, or false on a tie.
func (r RoundResult) Winner() (Participant, bool) {
	switch r.Outcome {
	case Win:
		return Player, true
	case Loss:
		return Oppo, true
	}
	return 0, false
}
