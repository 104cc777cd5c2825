// engine_adapter.go: bridge between engine.GameSession and DuelGame.
package game

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wordwar/duel/engine"
)

// CardUUIDTracker gives every engine card a UUID for client communication.
// IDs are assigned the first time a card is seen and never reused.
type CardUUIDTracker struct {
	byEngine map[engine.CardID]uuid.UUID
	byUUID   map[uuid.UUID]engine.CardID
}

// NewCardUUIDTracker returns an empty tracker.
func NewCardUUIDTracker() CardUUIDTracker {
	return CardUUIDTracker{
		byEngine: make(map[engine.CardID]uuid.UUID),
		byUUID:   make(map[uuid.UUID]engine.CardID),
	}
}

// UUIDFor returns the UUID of an engine card, assigning one if needed.
func (t *CardUUIDTracker) UUIDFor(id engine.CardID) uuid.UUID {
	if u, ok := t.byEngine[id]; ok {
		return u
	}
	u := uuid.New()
	t.byEngine[id] = u
	t.byUUID[u] = id
	return u
}

// EngineID returns the engine card behind a UUID.
func (t *CardUUIDTracker) EngineID(u uuid.UUID) (engine.CardID, bool) {
	id, ok := t.byUUID[u]
	return id, ok
}

// Len is the number of cards tracked.
func (t *CardUUIDTracker) Len() int { return len(t.byEngine) }

// eventCard builds an EventCard. Face details are included only when reveal
// is set. Assumes lock is held by caller.
func (g *DuelGame) eventCard(id engine.CardID, c engine.Card, owner engine.Participant, reveal bool) *EventCard {
	ev := &EventCard{
		ID:   g.Cards.UUIDFor(id),
		User: &EventUser{ID: g.Seats[owner]},
	}
	if reveal {
		v := int(c.Value)
		ev.Code = c.String()
		ev.Value = &v
		if c.Mod != engine.ModNone {
			ev.Modifier = c.Mod.String()
			ev.Flavor = c.Mod.FlavorText()
		}
	}
	return ev
}

func (g *DuelGame) pileCard(pc engine.PileCard) *EventCard {
	ev := g.eventCard(pc.ID, pc.Card, pc.Origin, true)
	ev.Pile = pc.Which.String()
	return ev
}

// flushEvents drains the session and broadcasts every event. It ends the
// duel when the session reports game over. Assumes lock is held by caller.
func (g *DuelGame) flushEvents(now time.Time) {
	for _, ev := range g.Session.DrainEvents() {
		g.translate(ev, now)
	}
}

func (g *DuelGame) translate(ev engine.Event, now time.Time) {
	seat := &EventUser{ID: g.Seats[ev.Who]}
	switch ev.Type {
	case engine.EventTurnStarted:
		g.turnSince = time.Time{}
		if g.Computer[ev.Who] == nil {
			g.turnSince = now
		}
		g.fireEvent(GameEvent{Type: EventTurnStarted, Round: ev.Round, User: seat})

	case engine.EventCardDrawn:
		g.fireEvent(GameEvent{Type: EventPlayerDraw, Round: ev.Round, User: seat,
			Card: g.eventCard(ev.CardID, ev.Card, ev.Who, false)})
		g.fireEventToPlayer(g.Seats[ev.Who], GameEvent{Type: EventPrivateDraw, Round: ev.Round, User: seat,
			Card: g.eventCard(ev.CardID, ev.Card, ev.Who, true)})

	case engine.EventSleeveReturned:
		g.fireEventToPlayer(g.Seats[ev.Who], GameEvent{Type: EventPrivateSleeveBack, Round: ev.Round, User: seat,
			Card: g.eventCard(ev.CardID, ev.Card, ev.Who, true)})

	case engine.EventCardPlayed:
		card := g.eventCard(ev.CardID, ev.Card, ev.Who, true)
		card.Pile = engine.PileWar.String()
		g.logAction(g.Seats[ev.Who], "play", logrus.Fields{"card": ev.Card.String()})
		g.fireEvent(GameEvent{Type: EventPlayerPlay, Round: ev.Round, User: seat, Card: card})

	case engine.EventCardStashed:
		g.logAction(g.Seats[ev.Who], "stash", logrus.Fields{"card": ev.Card.String()})
		g.fireEventToPlayer(g.Seats[ev.Who], GameEvent{Type: EventPrivateStash, Round: ev.Round, User: seat,
			Card: g.eventCard(ev.CardID, ev.Card, ev.Who, true)})

	case engine.EventSeedGained:
		g.fireEvent(GameEvent{Type: EventSeedGained, Round: ev.Round, User: seat,
			Payload: map[string]interface{}{"seeds": ev.Seeds}})

	case engine.EventSeedUsed:
		g.fireEvent(GameEvent{Type: EventSeedUsed, Round: ev.Round, User: seat,
			Payload: map[string]interface{}{"seeds": ev.Seeds}})

	case engine.EventRoundResolved:
		g.fireRoundResolved(ev)

	case engine.EventGameOver:
		g.endGame(ev.Reason)

	default:
		g.log.WithField("event", ev.Type.String()).Warn("untranslated engine event")
	}
}

func (g *DuelGame) fireRoundResolved(ev engine.Event) {
	res := ev.Result
	payload := map[string]interface{}{
		"outcome":     res.Outcome.String(),
		"playerBonus": res.PlayerBonus,
		"oppoBonus":   res.OppoBonus,
		"multiplier":  res.Multiplier,
		"scores": map[string]int{
			g.Seats[engine.Player].String(): g.Session.PlayerScore(),
			g.Seats[engine.Oppo].String():   g.Session.OppoScore(),
		},
		"remaining": g.Session.RemainingScore(),
	}
	if w, ok := res.Winner(); ok {
		payload["winner"] = g.Seats[w].String()
	}
	g.log.WithFields(logrus.Fields{
		"round":   res.Round,
		"player":  res.PlayerCard.Card.String(),
		"oppo":    res.OppoCard.Card.String(),
		"outcome": res.Outcome.String(),
	}).Debug("round resolved")
	g.fireEvent(GameEvent{
		Type:    EventRoundResolved,
		Round:   res.Round,
		Card1:   g.pileCard(res.PlayerCard),
		Card2:   g.pileCard(res.OppoCard),
		Payload: payload,
	})
}
