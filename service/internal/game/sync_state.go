// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"

	"github.com/wordwar/duel/engine"
)

// ObfCard is a card as one seat may see it. Face fields are empty unless Known.
type ObfCard struct {
	ID       uuid.UUID `json:"id"`
	Known    bool      `json:"known"`
	Code     string    `json:"code,omitempty"`
	Value    *int      `json:"value,omitempty"`
	Modifier string    `json:"modifier,omitempty"`
	Pile     string    `json:"pile,omitempty"`
	Idx      *int      `json:"idx,omitempty"`
}

// ObfSeatState is one seat's public state, plus its hand when it is the
// requesting seat.
type ObfSeatState struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Computer      bool      `json:"computer"`
	Score         int       `json:"score"`
	Bonus         int       `json:"bonus"`
	HandSize      int       `json:"handSize"`
	DeckRemaining int       `json:"deckRemaining"`
	PileSize      int       `json:"pileSize"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
	RevealedHand  []ObfCard `json:"revealedHand,omitempty"`
}

// DuelState is a snapshot of a duel for one observer.
type DuelState struct {
	GameID         uuid.UUID      `json:"gameId"`
	Started        bool           `json:"started"`
	GameOver       bool           `json:"gameOver"`
	EndReason      string         `json:"endReason,omitempty"`
	Phase          string         `json:"phase"`
	Round          int            `json:"round"`
	InitiativeID   uuid.UUID      `json:"initiativeId"`
	RemainingScore int            `json:"remainingScore"`
	War            []ObfCard      `json:"war"`
	Seats          []ObfSeatState `json:"seats"`
	Seeds          int            `json:"seeds"`
	SleeveSize     int            `json:"sleeveSize"`
	Sleeve         []ObfCard      `json:"sleeve,omitempty"`
	Watching       bool           `json:"watching"`
}

// SyncState returns the state as forUser may see it. Pass uuid.Nil for a
// spectator view with no hands revealed.
func (g *DuelGame) SyncState(forUser uuid.UUID) DuelState {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	return g.currentState(forUser)
}

// currentState builds the snapshot. Assumes lock is held by caller.
func (g *DuelGame) currentState(forUser uuid.UUID) DuelState {
	s := g.Session
	st := DuelState{
		GameID:         g.ID,
		Started:        g.Started,
		GameOver:       g.GameOver,
		Phase:          s.Phase().String(),
		Round:          s.Round(),
		InitiativeID:   g.Seats[s.Initiative()],
		RemainingScore: s.RemainingScore(),
		Seeds:          s.Seeds(),
		SleeveSize:     len(s.Sleeve()),
		Watching:       g.Lookout.Watching(),
		War:            []ObfCard{},
	}
	if g.GameOver {
		st.EndReason = g.result.Reason.String()
	}
	for _, pc := range s.Pile(engine.PileWar) {
		st.War = append(st.War, g.obfCard(pc.ID, pc.Card, true, nil, engine.PileWar.String()))
	}

	toMove, moving := s.ToMove()
	bonuses := s.Bonuses()
	for i, id := range g.Seats {
		who := engine.Participant(i)
		ss := ObfSeatState{
			PlayerID:      id,
			Computer:      g.Computer[who] != nil,
			Score:         s.Score(who),
			Bonus:         bonuses.Of(who),
			HandSize:      len(s.Hand(who)),
			DeckRemaining: s.DeckRemaining(who),
			PileSize:      len(s.Pile(engine.PileOf(who))),
			IsCurrentTurn: moving && toMove == who,
		}
		if id == forUser {
			for j, hc := range s.Hand(who) {
				idx := j
				ss.RevealedHand = append(ss.RevealedHand, g.obfCard(hc.ID, hc.Card, true, &idx, ""))
			}
			if who == engine.Player {
				for _, hc := range s.Sleeve() {
					st.Sleeve = append(st.Sleeve, g.obfCard(hc.ID, hc.Card, true, nil, ""))
				}
			}
		}
		st.Seats = append(st.Seats, ss)
	}
	return st
}

func (g *DuelGame) obfCard(id engine.CardID, c engine.Card, known bool, idx *int, pile string) ObfCard {
	oc := ObfCard{ID: g.Cards.UUIDFor(id), Known: known, Idx: idx, Pile: pile}
	if known {
		v := int(c.Value)
		oc.Code = c.String()
		oc.Value = &v
		if c.Mod != engine.ModNone {
			oc.Modifier = c.Mod.String()
		}
	}
	return oc
}

// sendSyncState sends the current state privately to one seat.
// Assumes lock is held by caller.
func (g *DuelGame) sendSyncState(playerID uuid.UUID) {
	if g.BroadcastToPlayerFn == nil {
		g.log.Debug("BroadcastToPlayerFn is nil, cannot send sync state")
		return
	}
	state := g.currentState(playerID)
	g.fireEventToPlayer(playerID, GameEvent{Type: EventPrivateSyncState, State: &state})
}
