// internal/game/special_actions.go
package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wordwar/duel/engine"
)

// Lookout guards the sleeve. It watches by default; spending a seed
// distracts it for exactly one stash.
type Lookout struct {
	distracted bool
}

// Watching reports whether a stash right now would be seen.
func (l *Lookout) Watching() bool { return !l.distracted }

// Distract stops the lookout watching until the next stash.
func (l *Lookout) Distract() { l.distracted = true }

// stashed puts the lookout back on watch after a stash it missed.
func (l *Lookout) stashed() { l.distracted = false }

// Action types accepted by HandlePlayerAction.
const (
	ActionPlay    = "play"
	ActionStash   = "stash"
	ActionUseSeed = "use_seed"
	ActionSync    = "sync"
	ActionRestart = "restart"
)

// PlayerAction is an intent submitted by a human seat.
type PlayerAction struct {
	Type string    `json:"type"`
	Card uuid.UUID `json:"card,omitempty"`
}

// HandlePlayerAction routes an intent from playerID. Rejected intents are
// reported privately to the seat as well as returned.
func (g *DuelGame) HandlePlayerAction(playerID uuid.UUID, action PlayerAction) error {
	var err error
	switch action.Type {
	case ActionPlay:
		err = g.PlayCardAs(playerID, action.Card)
	case ActionStash:
		err = g.checkSeat(playerID, func() error { return g.StashCard(action.Card) })
	case ActionUseSeed:
		err = g.checkSeat(playerID, g.UseSeed)
	case ActionSync:
		g.Mu.Lock()
		g.sendSyncState(playerID)
		g.Mu.Unlock()
	case ActionRestart:
		g.Restart(time.Now())
	default:
		err = fmt.Errorf("unknown action %q", action.Type)
	}
	if err != nil {
		g.Mu.Lock()
		g.fireEventToPlayer(playerID, GameEvent{
			Type:    EventPrivateActionFail,
			User:    &EventUser{ID: playerID},
			Payload: map[string]interface{}{"action": action.Type, "error": err.Error()},
		})
		g.Mu.Unlock()
	}
	return err
}

// checkSeat runs f when playerID is the player seat, the only seat with a
// sleeve and seeds.
func (g *DuelGame) checkSeat(playerID uuid.UUID, f func() error) error {
	g.Mu.Lock()
	who, ok := g.seatOf(playerID)
	g.Mu.Unlock()
	if !ok {
		return ErrUnknownSeat
	}
	if who != engine.Player {
		return fmt.Errorf("%s seat: %w", who, ErrNotHumanSeat)
	}
	return f()
}

// PlayCard plays a card from the player seat's hand.
func (g *DuelGame) PlayCard(cardID uuid.UUID) error {
	return g.PlayCardAs(g.Seats[engine.Player], cardID)
}

// PlayCardAs plays a card for the given human seat.
func (g *DuelGame) PlayCardAs(playerID, cardID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	who, ok := g.seatOf(playerID)
	if !ok {
		return ErrUnknownSeat
	}
	if g.Computer[who] != nil {
		return fmt.Errorf("%s seat: %w", who, ErrNotHumanSeat)
	}
	id, ok := g.Cards.EngineID(cardID)
	if !ok {
		return fmt.Errorf("play %s: %w", cardID, ErrUnknownCard)
	}
	if err := g.Session.Play(who, id); err != nil {
		g.log.WithError(err).WithField("card", cardID.String()).Info("play rejected")
		return err
	}
	g.turnSince = time.Time{}
	g.flushEvents(time.Now())
	return nil
}

// StashCard moves a card from the player's hand into the sleeve. Stashing
// while the lookout watches ends the duel as caught cheating; that is a game
// result, not an error.
func (g *DuelGame) StashCard(cardID uuid.UUID) error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Computer[engine.Player] != nil {
		return fmt.Errorf("stash: %w", ErrNotHumanSeat)
	}
	id, ok := g.Cards.EngineID(cardID)
	if !ok {
		return fmt.Errorf("stash %s: %w", cardID, ErrUnknownCard)
	}
	if err := g.Session.CanStash(); err != nil {
		return err
	}
	if !g.inHand(engine.Player, id) {
		return fmt.Errorf("stash %s: %w", cardID, engine.ErrCardNotInHand)
	}
	// only a stash the rules allow can be seen
	if g.Lookout.Watching() {
		g.logAction(g.Seats[engine.Player], "caught_cheating", map[string]interface{}{"card": cardID.String()})
		g.Session.CaughtCheating()
		g.flushEvents(time.Now())
		return nil
	}
	if err := g.Session.Stash(id); err != nil {
		g.log.WithError(err).WithField("card", cardID.String()).Info("stash rejected")
		return err
	}
	g.Lookout.stashed()
	g.flushEvents(time.Now())
	g.fireLookout()
	return nil
}

// inHand reports whether id is in who's hand. Assumes lock is held by caller.
func (g *DuelGame) inHand(who engine.Participant, id engine.CardID) bool {
	for _, hc := range g.Session.Hand(who) {
		if hc.ID == id {
			return true
		}
	}
	return false
}

// UseSeed spends a seed to distract the lookout.
func (g *DuelGame) UseSeed() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if g.Computer[engine.Player] != nil {
		return fmt.Errorf("use seed: %w", ErrNotHumanSeat)
	}
	if err := g.Session.UseSeed(); err != nil {
		return err
	}
	g.Lookout.Distract()
	g.logAction(g.Seats[engine.Player], "use_seed", map[string]interface{}{"seeds": g.Session.Seeds()})
	g.flushEvents(time.Now())
	g.fireLookout()
	return nil
}

// fireLookout broadcasts whether the lookout is watching.
// Assumes lock is held by caller.
func (g *DuelGame) fireLookout() {
	g.fireEvent(GameEvent{
		Type:    EventLookout,
		Round:   g.Session.Round(),
		Payload: map[string]interface{}{"watching": g.Lookout.Watching()},
	})
}
