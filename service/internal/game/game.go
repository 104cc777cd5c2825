// internal/game/game.go
package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wordwar/duel/engine"
	"github.com/wordwar/duel/engine/agent"
)

// OnGameEndFunc is called once when a duel finishes. It runs with the game
// lock held and must not call back into the game.
type OnGameEndFunc func(gameID uuid.UUID, result Result)

// GameEventType names a GameEvent sent to presentation.
type GameEventType string

const (
	EventTurnStarted       GameEventType = "game_turn_started"     // Public: a seat must play.
	EventPlayerDraw        GameEventType = "player_draw"           // Public: a seat drew a card (ID only).
	EventPrivateDraw       GameEventType = "private_draw"          // Private: details of the card drawn.
	EventPlayerPlay        GameEventType = "player_play"           // Public: a card was placed on the war pile.
	EventPrivateStash      GameEventType = "private_stash"         // Private: a card went into the sleeve.
	EventPrivateSleeveBack GameEventType = "private_sleeve_return" // Private: a sleeved card came back to hand.
	EventSeedGained        GameEventType = "game_seed_gained"      // Public: the human gained a seed.
	EventSeedUsed          GameEventType = "game_seed_used"        // Public: the human spent a seed.
	EventLookout           GameEventType = "game_lookout"          // Public: the lookout started or stopped watching.
	EventRoundResolved     GameEventType = "game_round_resolved"   // Public: both war cards moved to a scoring pile.
	EventPrivateSyncState  GameEventType = "private_sync_state"    // Private: full state for one seat.
	EventPrivateActionFail GameEventType = "private_action_fail"   // Private: an intent was rejected.
	EventGameEnd           GameEventType = "game_end"              // Public: the duel is over.
)

// EventUser identifies a seat within a GameEvent payload.
type EventUser struct {
	ID uuid.UUID `json:"id"`
}

// EventCard identifies a card within a GameEvent payload, optionally with its face.
type EventCard struct {
	ID       uuid.UUID  `json:"id"`
	Code     string     `json:"code,omitempty"` // deck notation, e.g. "5w"
	Value    *int       `json:"value,omitempty"`
	Modifier string     `json:"modifier,omitempty"`
	Flavor   string     `json:"flavor,omitempty"`
	Pile     string     `json:"pile,omitempty"`
	User     *EventUser `json:"user,omitempty"` // owner of the card
}

// GameEvent is the structure broadcast for every change of a duel.
type GameEvent struct {
	Type  GameEventType `json:"type"`
	Round int           `json:"round,omitempty"`
	User  *EventUser    `json:"user,omitempty"`
	Card  *EventCard    `json:"card,omitempty"`
	Card1 *EventCard    `json:"card1,omitempty"` // player card of a resolved round
	Card2 *EventCard    `json:"card2,omitempty"` // oppo card of a resolved round

	Payload map[string]interface{} `json:"payload,omitempty"`

	State *DuelState `json:"state,omitempty"`
}

// Result summarises a finished duel.
type Result struct {
	Reason engine.EndReason
	Winner uuid.UUID // uuid.Nil on a stalemate
	Scores map[uuid.UUID]int
	Rounds int
}

var (
	ErrNotHumanSeat = errors.New("seat is computer controlled")
	ErrUnknownCard  = errors.New("unknown card")
	ErrUnknownSeat  = errors.New("unknown seat")
)

// DuelGame hosts one engine session: it owns the clock, plays computer
// seats, guards the sleeve and turns engine events into GameEvents.
type DuelGame struct {
	ID    uuid.UUID
	Seats [2]uuid.UUID // indexed by engine.Participant

	Session  *engine.GameSession
	Cards    CardUUIDTracker
	Lookout  Lookout
	Computer [2]agent.Chooser // nil seat is driven by PlayCard/StashCard/UseSeed

	TickInterval time.Duration
	TurnTimeout  time.Duration // 0 waits forever for a human play
	Fallback     agent.Chooser // plays for a human whose turn timed out
	turnSince    time.Time

	Started  bool
	GameOver bool
	result   Result

	decks       [2]engine.Deck
	actionIndex int

	Mu sync.Mutex

	BroadcastFn         func(ev GameEvent)
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent)
	OnGameEnd           OnGameEndFunc

	log *logrus.Entry
}

// NewDuelGame creates a duel between a human player seat and a greedy
// computer oppo. Decks are copied so Restart can deal them again.
func NewDuelGame(rules engine.Rules, playerDeck, oppoDeck engine.Deck) *DuelGame {
	g := &DuelGame{
		ID:           uuid.New(),
		Seats:        [2]uuid.UUID{uuid.New(), uuid.New()},
		Session:      engine.NewSession(rules, playerDeck, oppoDeck),
		Cards:        NewCardUUIDTracker(),
		TickInterval: 50 * time.Millisecond,
		Fallback:     agent.NewGreedy(nil),
		decks:        [2]engine.Deck{playerDeck.Clone(), oppoDeck.Clone()},
	}
	g.Computer[engine.Oppo] = agent.NewGreedy(nil)
	g.log = logrus.WithField("game_id", g.ID)
	return g
}

// SetLogger scopes the game's log entries under base.
func (g *DuelGame) SetLogger(base *logrus.Logger) {
	g.log = base.WithField("game_id", g.ID)
}

// Start deals the opening hands. It is a no-op once started.
func (g *DuelGame) Start(now time.Time) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.startLocked(now)
}

func (g *DuelGame) startLocked(now time.Time) {
	if g.Started || g.GameOver {
		g.log.Debug("start ignored, duel already running or over")
		return
	}
	g.Started = true
	g.logAction(uuid.Nil, "game_start", map[string]interface{}{
		"player": g.Seats[engine.Player].String(),
		"oppo":   g.Seats[engine.Oppo].String(),
	})
	g.Session.Start(now)
	g.flushEvents(now)
}

// Run ticks the duel every TickInterval until it ends or ctx is done.
func (g *DuelGame) Run(ctx context.Context) error {
	g.Start(time.Now())
	ticker := time.NewTicker(g.TickInterval)
	defer ticker.Stop()
	for {
		if g.IsOver() {
			return nil
		}
		select {
		case <-ctx.Done():
			g.log.WithError(ctx.Err()).Info("duel interrupted")
			return ctx.Err()
		case now := <-ticker.C:
			g.Step(now)
		}
	}
}

// Step performs one tick: a computer seat to move plays, a human seat past
// its turn timeout is played for, then the session advances to now.
func (g *DuelGame) Step(now time.Time) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	if !g.Started || g.GameOver {
		return
	}
	if who, ok := g.Session.ToMove(); ok {
		g.moveIfDue(who, now)
	}
	g.Session.Tick(now)
	g.flushEvents(now)
}

// moveIfDue plays for who when it is a computer seat or a timed-out human.
// Assumes lock is held by caller.
func (g *DuelGame) moveIfDue(who engine.Participant, now time.Time) {
	chooser := g.Computer[who]
	if chooser == nil {
		if g.TurnTimeout <= 0 {
			return
		}
		if g.turnSince.IsZero() {
			g.turnSince = now
			return
		}
		if now.Sub(g.turnSince) < g.TurnTimeout {
			return
		}
		g.log.WithField("who", who.String()).Info("turn timed out, playing for the seat")
		g.logAction(g.Seats[who], "turn_timeout", nil)
		chooser = g.Fallback
	}
	if err := agent.PlayTurn(g.Session, who, chooser); err != nil {
		g.log.WithError(err).WithField("who", who.String()).Error("computer play failed")
		return
	}
	g.turnSince = time.Time{}
}

// IsOver reports whether the duel has finished.
func (g *DuelGame) IsOver() bool {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.GameOver
}

// Result returns the outcome of a finished duel.
func (g *DuelGame) Result() (Result, bool) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.result, g.GameOver
}

// Restart deals the original decks again with fresh card IDs and starts a
// new duel on the same seats.
func (g *DuelGame) Restart(now time.Time) {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.Session.Reset(g.decks[engine.Player], g.decks[engine.Oppo])
	g.Cards = NewCardUUIDTracker()
	g.Lookout = Lookout{}
	g.Started = false
	g.GameOver = false
	g.result = Result{}
	g.turnSince = time.Time{}
	g.logAction(uuid.Nil, "game_restart", nil)
	g.startLocked(now)
}

// seatOf maps a seat uuid to its participant.
func (g *DuelGame) seatOf(playerID uuid.UUID) (engine.Participant, bool) {
	for i, id := range g.Seats {
		if id == playerID {
			return engine.Participant(i), true
		}
	}
	return 0, false
}

// endGame records the result and notifies listeners. Assumes lock is held.
func (g *DuelGame) endGame(reason engine.EndReason) {
	if g.GameOver {
		g.log.Debug("endGame called, but duel is already over")
		return
	}
	g.GameOver = true
	g.Started = false

	scores := map[uuid.UUID]int{
		g.Seats[engine.Player]: g.Session.PlayerScore(),
		g.Seats[engine.Oppo]:   g.Session.OppoScore(),
	}
	var winner uuid.UUID
	switch reason {
	case engine.EndVictory:
		winner = g.Seats[engine.Player]
	case engine.EndLoss, engine.EndCaughtCheating:
		winner = g.Seats[engine.Oppo]
	}
	g.result = Result{Reason: reason, Winner: winner, Scores: scores, Rounds: g.Session.Round()}

	payload := map[string]interface{}{
		"reason": reason.String(),
		"winner": winner.String(),
		"rounds": g.Session.Round(),
		"scores": map[string]int{},
	}
	for id, score := range scores {
		payload["scores"].(map[string]int)[id.String()] = score
	}
	g.logAction(uuid.Nil, string(EventGameEnd), payload)
	g.fireEvent(GameEvent{Type: EventGameEnd, Round: g.Session.Round(), Payload: payload})

	if g.OnGameEnd != nil {
		g.OnGameEnd(g.ID, g.result)
	}
	g.log.WithFields(logrus.Fields{
		"reason":       reason.String(),
		"rounds":       g.Session.Round(),
		"player_score": g.Session.PlayerScore(),
		"oppo_score":   g.Session.OppoScore(),
	}).Info("duel ended")
}

// fireEvent broadcasts ev to every listener. Assumes lock is held by caller.
func (g *DuelGame) fireEvent(ev GameEvent) {
	if g.BroadcastFn != nil {
		g.BroadcastFn(ev)
	} else {
		g.log.WithField("event", ev.Type).Debug("BroadcastFn is nil, dropping event")
	}
}

// fireEventToPlayer sends ev to one seat. Computer seats receive nothing.
// Assumes lock is held by caller.
func (g *DuelGame) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if who, ok := g.seatOf(playerID); ok && g.Computer[who] != nil {
		return
	}
	if g.BroadcastToPlayerFn != nil {
		g.BroadcastToPlayerFn(playerID, ev)
	}
}

// logAction records a numbered action in the game log.
// Assumes lock is held by caller.
func (g *DuelGame) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	g.actionIndex++
	fields := logrus.Fields{
		"action_index": g.actionIndex,
		"action":       actionType,
		"round":        g.Session.Round(),
		"phase":        g.Session.Phase().String(),
	}
	if actorID != uuid.Nil {
		fields["actor"] = actorID.String()
	}
	for k, v := range payload {
		fields[k] = v
	}
	g.log.WithFields(fields).Debug("action")
}
