// Command duel hosts a single War duel between a human seat, driven over a
// websocket feed, and a greedy computer oppo. With DUEL_GAMES above 1 it
// instead simulates that many computer-only duels and logs the tally.
package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wordwar/duel/engine"
	"github.com/wordwar/duel/engine/agent"
	"github.com/wordwar/duel/service/internal/config"
	"github.com/wordwar/duel/service/internal/decks"
	"github.com/wordwar/duel/service/internal/feed"
	"github.com/wordwar/duel/service/internal/game"
)

func main() {
	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.ApplyLogging(log); err != nil {
		log.Fatalf("configure logging: %v", err)
	}
	rules, err := cfg.EngineRules()
	if err != nil {
		log.Fatalf("rules: %v", err)
	}
	playerDeck, err := decks.Resolve(cfg.PlayerDeck, engine.Player)
	if err != nil {
		log.Fatalf("player deck: %v", err)
	}
	oppoDeck, err := decks.Resolve(cfg.OppoDeck, engine.Oppo)
	if err != nil {
		log.Fatalf("oppo deck: %v", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed>>1))
	log.WithFields(logrus.Fields{
		"seed":        seed,
		"shuffle":     cfg.Shuffle,
		"hand_size":   rules.HandSize,
		"sleeve_size": rules.SleeveSize,
		"turn_pause":  rules.TurnPause,
		"swap_rule":   rules.Swap.String(),
		"rules_file":  cfg.RulesFile,
	}).Info("duel configured")

	if cfg.Games > 1 {
		simulate(log, cfg, rules, playerDeck, oppoDeck, rng)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if shuffler := cfg.DeckShuffler(rng); shuffler != nil {
		playerDeck.Shuffle(shuffler)
		oppoDeck.Shuffle(shuffler)
	}
	if err := host(ctx, log, cfg, rules, playerDeck, oppoDeck, rng); err != nil {
		log.Fatalf("duel: %v", err)
	}
}

func simulate(log *logrus.Logger, cfg config.Config, rules engine.Rules, playerDeck, oppoDeck engine.Deck, rng *rand.Rand) {
	started := time.Now()
	tally, err := agent.Simulate(cfg.Games, rules, playerDeck, oppoDeck, agent.NewGreedy(rng), agent.NewGreedy(rng), cfg.DeckShuffler(rng))
	if err != nil {
		log.Fatalf("simulate: %v", err)
	}
	fields := logrus.Fields{"games": tally.Games, "elapsed": time.Since(started)}
	for reason, n := range tally.Reasons {
		fields[reason.String()] = n
	}
	log.WithFields(fields).Info("simulation finished")
}

// host runs one duel until ctx is done. Without a feed address nobody can
// drive the human seat, so both seats are played by the computer and host
// returns when the duel ends.
func host(ctx context.Context, log *logrus.Logger, cfg config.Config, rules engine.Rules, playerDeck, oppoDeck engine.Deck, rng *rand.Rand) error {
	g := game.NewDuelGame(rules, playerDeck, oppoDeck)
	g.SetLogger(log)
	g.Computer[engine.Oppo] = agent.NewGreedy(rng)
	g.Fallback = agent.NewGreedy(rng)
	g.TickInterval = cfg.Tick
	g.TurnTimeout = cfg.TurnTimeout
	g.OnGameEnd = func(gameID uuid.UUID, r game.Result) {
		log.WithFields(logrus.Fields{
			"game_id": gameID,
			"reason":  r.Reason.String(),
			"winner":  r.Winner,
			"rounds":  r.Rounds,
		}).Info("result")
	}

	if cfg.FeedAddr == "" {
		g.Computer[engine.Player] = agent.NewGreedy(rng)
		return ignoreCanceled(g.Run(ctx))
	}

	hub := feed.NewHub(log.WithField("game_id", g.ID))
	hub.OnAction = g.HandlePlayerAction
	hub.OnConnect = func(playerID uuid.UUID) {
		if playerID != uuid.Nil {
			_ = g.HandlePlayerAction(playerID, game.PlayerAction{Type: game.ActionSync})
		}
	}
	g.BroadcastFn = hub.Broadcast
	g.BroadcastToPlayerFn = hub.SendTo

	mux := feed.NewMux(hub, func(forUser uuid.UUID) any { return g.SyncState(forUser) })
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	serveErr := make(chan error, 1)
	go func() {
		err := feed.Serve(ctx, cfg.FeedAddr, mux, nil)
		serveErr <- err
		if err != nil {
			cancel()
		}
	}()
	log.WithFields(logrus.Fields{
		"addr":   cfg.FeedAddr,
		"player": g.Seats[engine.Player],
	}).Info("feed listening, connect to /ws?player=<player>")

	for {
		if err := g.Run(ctx); err != nil {
			break
		}
		if !awaitRestart(ctx, g, cfg.Tick) {
			break
		}
		log.Info("duel restarted")
	}
	hub.CloseAll()
	return <-serveErr
}

// awaitRestart blocks until a client restarts the finished duel. It reports
// false when ctx ends first.
func awaitRestart(ctx context.Context, g *game.DuelGame, every time.Duration) bool {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if !g.IsOver() {
				return true
			}
		}
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
