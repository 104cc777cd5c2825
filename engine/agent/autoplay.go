package agent

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/wordwar/duel/engine"
)

// Autoplay runs s to completion with player and oppo choosing every card.
// The clock starts at now and advances by the turn pause whenever the session
// is waiting, so it never sleeps.
func Autoplay(s *engine.GameSession, player, oppo Chooser, now time.Time) (engine.EndReason, error) {
	choosers := [2]Chooser{engine.Player: player, engine.Oppo: oppo}
	s.Tick(now)
	for !s.IsOver() {
		who, ok := s.ToMove()
		if !ok {
			now = now.Add(s.Rules.TurnPause)
			s.Tick(now)
			continue
		}
		if err := PlayTurn(s, who, choosers[who]); err != nil {
			return engine.EndNone, err
		}
		s.Tick(now)
	}
	return s.EndReason(), nil
}

// PlayTurn asks c for who's card and plays it.
func PlayTurn(s *engine.GameSession, who engine.Participant, c Chooser) error {
	hand := s.Hand(who)
	if len(hand) == 0 {
		return fmt.Errorf("%s has an empty hand in %s", who, s.Phase())
	}
	cards := make([]engine.Card, len(hand))
	for i, hc := range hand {
		cards[i] = hc.Card
	}
	var war *engine.Card
	if pc, ok := s.WarCard(); ok {
		war = &pc.Card
	}
	i := c.Choose(cards, war)
	if i < 0 || i >= len(hand) {
		return fmt.Errorf("chooser picked %d from a hand of %d", i, len(hand))
	}
	return s.Play(who, hand[i].ID)
}

// Tally counts how simulated games ended.
type Tally struct {
	Games   int
	Reasons map[engine.EndReason]int
}

// Simulate plays n games between fresh copies of the given decks, shuffled
// with rng when it is non-nil.
func Simulate(n int, rules engine.Rules, playerDeck, oppoDeck engine.Deck, player, oppo Chooser, rng *rand.Rand) (Tally, error) {
	t := Tally{Reasons: make(map[engine.EndReason]int)}
	s := engine.NewSession(rules, playerDeck, oppoDeck)
	start := time.Unix(0, 0)
	for i := 0; i < n; i++ {
		pd, od := playerDeck.Clone(), oppoDeck.Clone()
		if rng != nil {
			pd.Shuffle(rng)
			od.Shuffle(rng)
		}
		s.Reset(pd, od)
		reason, err := Autoplay(s, player, oppo, start)
		if err != nil {
			return t, fmt.Errorf("game %d: %w", i+1, err)
		}
		t.Games++
		t.Reasons[reason]++
	}
	return t, nil
}
