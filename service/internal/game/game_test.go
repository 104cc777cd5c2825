// internal/game/game_test.go
package game

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordwar/duel/engine"
	"github.com/wordwar/duel/engine/agent"
)

// mockBroadcaster captures game events for testing assertions.
type mockBroadcaster struct {
	mu           sync.Mutex
	allEvents    []GameEvent
	playerEvents map[uuid.UUID][]GameEvent
}

func newMockBroadcaster() *mockBroadcaster {
	return &mockBroadcaster{
		playerEvents: make(map[uuid.UUID][]GameEvent),
	}
}

func (mb *mockBroadcaster) broadcastFn(ev GameEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = append(mb.allEvents, ev)
}

func (mb *mockBroadcaster) broadcastToPlayerFn(playerID uuid.UUID, ev GameEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.playerEvents[playerID] = append(mb.playerEvents[playerID], ev)
}

func (mb *mockBroadcaster) clear() {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = []GameEvent{}
	mb.playerEvents = make(map[uuid.UUID][]GameEvent)
}

func (mb *mockBroadcaster) countByType(eventType GameEventType) int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	n := 0
	for _, ev := range mb.allEvents {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

func (mb *mockBroadcaster) findEventByType(eventType GameEventType) *GameEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for i := len(mb.allEvents) - 1; i >= 0; i-- {
		if mb.allEvents[i].Type == eventType {
			return &mb.allEvents[i]
		}
	}
	return nil
}

func (mb *mockBroadcaster) playerEventsOfType(playerID uuid.UUID, eventType GameEventType) []GameEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	var out []GameEvent
	for _, ev := range mb.playerEvents[playerID] {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func mustDeck(t *testing.T, s string) engine.Deck {
	t.Helper()
	d, err := engine.ParseDeck(s)
	require.NoError(t, err)
	return d
}

// setupTestGame builds a started duel with no turn pause, a deterministic
// computer oppo and the player leading round 1.
func setupTestGame(t *testing.T, playerDeck, oppoDeck string) (*DuelGame, *mockBroadcaster) {
	t.Helper()
	return setupTestGameRules(t, engine.DefaultRules(), playerDeck, oppoDeck)
}

func setupTestGameRules(t *testing.T, rules engine.Rules, playerDeck, oppoDeck string) (*DuelGame, *mockBroadcaster) {
	t.Helper()
	rules.TurnPause = 0
	rules.FirstLead = engine.Oppo
	g := NewDuelGame(rules, mustDeck(t, playerDeck), mustDeck(t, oppoDeck))
	g.Computer[engine.Oppo] = agent.First{}
	mb := newMockBroadcaster()
	g.BroadcastFn = mb.broadcastFn
	g.BroadcastToPlayerFn = mb.broadcastToPlayerFn
	g.Start(t0)
	require.True(t, g.Started, "duel should be started")
	return g, mb
}

func playerHand(g *DuelGame) []ObfCard {
	st := g.SyncState(g.Seats[engine.Player])
	return st.Seats[engine.Player].RevealedHand
}

const (
	seedDeck = "1s 2_ 3_ 4_ 5_ 6_ 7_ 8_ 9_"
	nineDeck = "9_ 9_ 9_ 9_ 9_ 9_ 9_ 9_ 9_"
)

func TestStart_DealsAndBroadcasts(t *testing.T) {
	g, mb := setupTestGame(t, seedDeck, nineDeck)
	player := g.Seats[engine.Player]

	assert.Equal(t, 6, mb.countByType(EventPlayerDraw))
	private := mb.playerEventsOfType(player, EventPrivateDraw)
	require.Len(t, private, 3)
	assert.Equal(t, "1s", private[0].Card.Code)
	require.NotNil(t, private[0].Card.Value)
	assert.Equal(t, 1, *private[0].Card.Value)
	assert.Equal(t, "seed", private[0].Card.Modifier)

	assert.Empty(t, mb.playerEventsOfType(g.Seats[engine.Oppo], EventPrivateDraw), "computer seats get no private events")

	public := mb.findEventByType(EventPlayerDraw)
	require.NotNil(t, public)
	assert.Empty(t, public.Card.Code, "public draws hide the face")

	turn := mb.findEventByType(EventTurnStarted)
	require.NotNil(t, turn)
	assert.Equal(t, player, turn.User.ID)
	assert.Equal(t, 6, g.Cards.Len())
	assert.NotEqual(t, uuid.Nil, g.ID)

	g.Start(t0)
	assert.Equal(t, 6, mb.countByType(EventPlayerDraw), "second Start is a no-op")
}

func TestStart_DefaultRulesComputerOpens(t *testing.T) {
	rules := engine.DefaultRules()
	rules.TurnPause = 0
	g := NewDuelGame(rules, mustDeck(t, seedDeck), mustDeck(t, nineDeck))
	g.Computer[engine.Oppo] = agent.First{}
	mb := newMockBroadcaster()
	g.BroadcastFn = mb.broadcastFn
	g.Start(t0)

	turn := mb.findEventByType(EventTurnStarted)
	require.NotNil(t, turn)
	assert.Equal(t, g.Seats[engine.Oppo], turn.User.ID)
	assert.ErrorIs(t, g.PlayCard(playerHand(g)[0].ID), engine.ErrNotYourTurn)

	g.Step(t0)
	play := mb.findEventByType(EventPlayerPlay)
	require.NotNil(t, play)
	assert.Equal(t, g.Seats[engine.Oppo], play.User.ID)
	turn = mb.findEventByType(EventTurnStarted)
	assert.Equal(t, g.Seats[engine.Player], turn.User.ID, "player answers in round 1")
}

func TestPlayCard_ComputerAnswersAndRoundResolves(t *testing.T) {
	g, mb := setupTestGame(t, "5_ 9_ 9_ 9_ 9_", "3_ 9_ 9_ 9_ 9_")
	hand := playerHand(g)
	require.Len(t, hand, 3)

	require.NoError(t, g.PlayCard(hand[0].ID))
	play := mb.findEventByType(EventPlayerPlay)
	require.NotNil(t, play)
	assert.Equal(t, hand[0].ID, play.Card.ID)
	assert.Equal(t, "war", play.Card.Pile)

	g.Step(t0) // pause over, oppo's turn
	g.Step(t0) // oppo plays and the round resolves

	res := mb.findEventByType(EventRoundResolved)
	require.NotNil(t, res)
	assert.Equal(t, "win", res.Payload["outcome"])
	assert.Equal(t, g.Seats[engine.Player].String(), res.Payload["winner"])
	assert.Equal(t, "5_", res.Card1.Code)
	assert.Equal(t, "3_", res.Card2.Code)
	assert.Equal(t, "player", res.Card2.Pile)

	st := g.SyncState(uuid.Nil)
	assert.Equal(t, 8, st.Seats[engine.Player].Score)
	assert.Empty(t, st.War)
	assert.Equal(t, 2, st.Round)
}

func TestPlayCard_Errors(t *testing.T) {
	g, _ := setupTestGame(t, seedDeck, nineDeck)

	err := g.PlayCard(uuid.New())
	assert.ErrorIs(t, err, ErrUnknownCard)

	oppoHand := g.Session.Hand(engine.Oppo)
	oppoCard := g.Cards.UUIDFor(oppoHand[0].ID)
	assert.ErrorIs(t, g.PlayCard(oppoCard), engine.ErrCardNotInHand)

	assert.ErrorIs(t, g.PlayCardAs(g.Seats[engine.Oppo], oppoCard), ErrNotHumanSeat)
	assert.ErrorIs(t, g.PlayCardAs(uuid.New(), oppoCard), ErrUnknownSeat)

	hand := playerHand(g)
	require.NoError(t, g.PlayCard(hand[0].ID))
	assert.ErrorIs(t, g.PlayCard(hand[1].ID), engine.ErrNotYourTurn)
}

func TestStash_CaughtWhileWatched(t *testing.T) {
	g, mb := setupTestGame(t, seedDeck, nineDeck)
	var ended []Result
	g.OnGameEnd = func(_ uuid.UUID, r Result) { ended = append(ended, r) }

	hand := playerHand(g)
	require.NoError(t, g.StashCard(hand[0].ID), "being caught is a result, not an error")

	assert.True(t, g.IsOver())
	require.Len(t, ended, 1)
	assert.Equal(t, engine.EndCaughtCheating, ended[0].Reason)
	assert.Equal(t, g.Seats[engine.Oppo], ended[0].Winner)

	end := mb.findEventByType(EventGameEnd)
	require.NotNil(t, end)
	assert.Equal(t, "caught_cheating", end.Payload["reason"])

	g.Step(t0.Add(time.Second))
	assert.Len(t, ended, 1, "OnGameEnd fires once")
	assert.ErrorIs(t, g.StashCard(hand[1].ID), engine.ErrGameOver)
}

func TestStash_SeedDistractsForOneStash(t *testing.T) {
	g, mb := setupTestGame(t, seedDeck, nineDeck)
	player := g.Seats[engine.Player]

	assert.ErrorIs(t, g.UseSeed(), engine.ErrNoSeed)

	hand := playerHand(g)
	require.Equal(t, "1s", hand[0].Code)
	require.NoError(t, g.PlayCard(hand[0].ID))
	g.Step(t0)
	g.Step(t0)
	require.NotNil(t, mb.findEventByType(EventRoundResolved))
	require.Equal(t, 1, g.SyncState(player).Seeds)

	require.NoError(t, g.UseSeed())
	assert.False(t, g.SyncState(player).Watching)
	look := mb.findEventByType(EventLookout)
	require.NotNil(t, look)
	assert.Equal(t, false, look.Payload["watching"])

	hand = playerHand(g)
	require.NoError(t, g.StashCard(hand[0].ID))
	st := g.SyncState(player)
	assert.False(t, st.GameOver)
	assert.True(t, st.Watching, "lookout watches again after one stash")
	assert.Equal(t, 1, st.SleeveSize)
	require.Len(t, st.Sleeve, 1)
	assert.Equal(t, hand[0].ID, st.Sleeve[0].ID)
	assert.Len(t, st.Seats[engine.Player].RevealedHand, 3, "stash draws a replacement")
	assert.Len(t, mb.playerEventsOfType(player, EventPrivateStash), 1)
	assert.Zero(t, mb.countByType(EventPrivateStash), "stashes are never public")

	hand = playerHand(g)
	require.NoError(t, g.StashCard(hand[0].ID))
	res, over := g.Result()
	require.True(t, over)
	assert.Equal(t, engine.EndCaughtCheating, res.Reason)
}

func TestStash_RejectsCardsOutsideHand(t *testing.T) {
	g, _ := setupTestGame(t, seedDeck, nineDeck)
	oppoCard := g.Cards.UUIDFor(g.Session.Hand(engine.Oppo)[0].ID)
	assert.ErrorIs(t, g.StashCard(oppoCard), engine.ErrCardNotInHand)
	assert.False(t, g.IsOver(), "a rejected stash is not cheating")
}

func TestStash_RejectedByRulesIsNotCheating(t *testing.T) {
	t.Run("deck exhausted", func(t *testing.T) {
		g, mb := setupTestGame(t, "1_ 2_ 3_", nineDeck)
		hand := playerHand(g)
		require.True(t, g.SyncState(uuid.Nil).Watching)

		assert.ErrorIs(t, g.StashCard(hand[0].ID), engine.ErrDeckExhausted)
		assert.False(t, g.IsOver())
		assert.Nil(t, mb.findEventByType(EventGameEnd))
		assert.Len(t, playerHand(g), 3)
	})
	t.Run("sleeve full", func(t *testing.T) {
		rules := engine.DefaultRules()
		rules.SleeveSize = 0
		g, _ := setupTestGameRules(t, rules, seedDeck, nineDeck)
		hand := playerHand(g)

		assert.ErrorIs(t, g.StashCard(hand[0].ID), engine.ErrSleeveFull)
		assert.False(t, g.IsOver())
	})
}

func TestHandlePlayerAction(t *testing.T) {
	g, mb := setupTestGame(t, seedDeck, nineDeck)
	player, oppo := g.Seats[engine.Player], g.Seats[engine.Oppo]

	assert.ErrorIs(t, g.HandlePlayerAction(oppo, PlayerAction{Type: ActionUseSeed}), ErrNotHumanSeat)
	assert.Error(t, g.HandlePlayerAction(player, PlayerAction{Type: "dance"}))
	fails := mb.playerEventsOfType(player, EventPrivateActionFail)
	require.Len(t, fails, 1)
	assert.Equal(t, "dance", fails[0].Payload["action"])

	require.NoError(t, g.HandlePlayerAction(player, PlayerAction{Type: ActionSync}))
	syncs := mb.playerEventsOfType(player, EventPrivateSyncState)
	require.Len(t, syncs, 1)
	require.NotNil(t, syncs[0].State)
	assert.Len(t, syncs[0].State.Seats[engine.Player].RevealedHand, 3)

	hand := playerHand(g)
	require.NoError(t, g.HandlePlayerAction(player, PlayerAction{Type: ActionPlay, Card: hand[1].ID}))
	assert.Equal(t, engine.PhaseCardPlayed.String(), g.SyncState(uuid.Nil).Phase)
}

func TestPlayerAction_JSON(t *testing.T) {
	id := uuid.New()
	var a PlayerAction
	require.NoError(t, json.Unmarshal([]byte(`{"type":"stash","card":"`+id.String()+`"}`), &a))
	assert.Equal(t, ActionStash, a.Type)
	assert.Equal(t, id, a.Card)
}

func TestSyncState_HidesOtherHands(t *testing.T) {
	g, _ := setupTestGame(t, seedDeck, nineDeck)
	spectator := g.SyncState(uuid.Nil)
	for _, seat := range spectator.Seats {
		assert.Empty(t, seat.RevealedHand)
		assert.Equal(t, 3, seat.HandSize)
	}
	assert.True(t, spectator.Seats[engine.Player].IsCurrentTurn)
	assert.True(t, spectator.Seats[engine.Oppo].Computer)
	assert.Equal(t, g.Seats[engine.Player], spectator.InitiativeID)

	own := g.SyncState(g.Seats[engine.Player])
	assert.Len(t, own.Seats[engine.Player].RevealedHand, 3)
	assert.Empty(t, own.Seats[engine.Oppo].RevealedHand)

	b, err := json.Marshal(own)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"revealedHand"`)
}

func TestTurnTimeout_PlaysForIdleHuman(t *testing.T) {
	g, mb := setupTestGame(t, seedDeck, nineDeck)
	g.TurnTimeout = 100 * time.Millisecond
	g.Fallback = agent.First{}

	g.Step(t0.Add(50 * time.Millisecond))
	assert.Zero(t, mb.countByType(EventPlayerPlay))

	g.Step(t0.Add(150 * time.Millisecond))
	play := mb.findEventByType(EventPlayerPlay)
	require.NotNil(t, play)
	assert.Equal(t, g.Seats[engine.Player], play.User.ID)
	assert.Equal(t, "1s", play.Card.Code)
}

func TestRun_ComputerVsComputer(t *testing.T) {
	rules := engine.DefaultRules()
	rules.TurnPause = 0
	g := NewDuelGame(rules, mustDeck(t, "0z 1_ 2s 3_ 4d 5_ 6w 7_ 8_ 9_ 5_ 3_"), mustDeck(t, "9_ 8_ 7d 6_ 5w 4_ 3s 2_ 1z 0_ 4_ 6_"))
	g.Computer[engine.Player] = agent.First{}
	g.Computer[engine.Oppo] = agent.First{}
	g.TickInterval = time.Millisecond
	mb := newMockBroadcaster()
	g.BroadcastFn = mb.broadcastFn
	calls := 0
	g.OnGameEnd = func(id uuid.UUID, r Result) {
		calls++
		assert.Equal(t, g.ID, id)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, g.Run(ctx))

	assert.True(t, g.IsOver())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, mb.countByType(EventGameEnd))
	res, _ := g.Result()
	assert.Len(t, res.Scores, 2)
	assert.Positive(t, res.Rounds)
}

func TestRun_StopsOnCancel(t *testing.T) {
	g, _ := setupTestGame(t, seedDeck, nineDeck)
	g.TickInterval = time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, g.Run(ctx), context.Canceled)
	assert.False(t, g.IsOver(), "a human seat that never plays keeps the duel open")
}

func TestRestart(t *testing.T) {
	g, mb := setupTestGame(t, seedDeck, nineDeck)
	oldHand := playerHand(g)
	require.NoError(t, g.StashCard(oldHand[0].ID))
	require.True(t, g.IsOver())

	mb.clear()
	g.Restart(t0.Add(time.Minute))
	assert.False(t, g.IsOver())
	assert.True(t, g.Started)
	newHand := playerHand(g)
	require.Len(t, newHand, 3)
	assert.NotEqual(t, oldHand[0].ID, newHand[0].ID, "cards get fresh IDs")
	assert.Equal(t, oldHand[0].Code, newHand[0].Code, "same deck is dealt again")
	assert.True(t, g.SyncState(uuid.Nil).Watching)
	assert.Equal(t, 6, mb.countByType(EventPlayerDraw))
	_, over := g.Result()
	assert.False(t, over)
}
