// Package config loads duel settings from the environment, an optional .env
// file and an optional YAML rules file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/wordwar/duel/engine"
)

// Config holds everything cmd/duel needs to run a duel.
type Config struct {
	HandSize   int
	SleeveSize int
	TurnPause  time.Duration
	Tick       time.Duration
	Initiative string // every_round | every_other_round
	SwapRule   string // per_card | per_round
	FirstLead  string // player | oppo, holds initiative until round 1 hands it over
	Seed       uint64 // 0 picks a time based seed
	Shuffle    bool   // shuffle decks before dealing; off keeps file order

	// TurnTimeout plays for an idle human seat after this long; 0 waits forever.
	TurnTimeout time.Duration

	PlayerDeck string // deck file path, empty for the embedded default
	OppoDeck   string
	RulesFile  string

	FeedAddr  string
	Games     int // games to simulate headless
	LogLevel  string
	LogFormat string // text | json
}

// Default returns the built-in settings.
func Default() Config {
	r := engine.DefaultRules()
	return Config{
		HandSize:   r.HandSize,
		SleeveSize: r.SleeveSize,
		TurnPause:  r.TurnPause,
		Tick:       50 * time.Millisecond,
		Initiative: "every_round",
		SwapRule:   r.Swap.String(),
		FirstLead:  "player",
		FeedAddr:   ":8089",
		Games:      1,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// Load reads .env if present, then the rules file named by DUEL_RULES_FILE,
// then the remaining environment variables, each layer overriding the last.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Default()
	if path := os.Getenv("DUEL_RULES_FILE"); path != "" {
		if err := cfg.ApplyRulesFile(path); err != nil {
			return Config{}, err
		}
		cfg.RulesFile = path
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.EngineRules(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// EngineRules converts the settings into engine rules.
func (c Config) EngineRules() (engine.Rules, error) {
	r := engine.DefaultRules()
	if c.HandSize <= 0 {
		return r, fmt.Errorf("hand size must be positive, got %d", c.HandSize)
	}
	if c.SleeveSize < 0 {
		return r, fmt.Errorf("sleeve size must not be negative, got %d", c.SleeveSize)
	}
	r.HandSize = c.HandSize
	r.SleeveSize = c.SleeveSize
	r.TurnPause = c.TurnPause

	policy, err := engine.InitiativePolicyByName(c.Initiative)
	if err != nil {
		return r, err
	}
	r.Initiative = policy
	if r.Swap, err = engine.SwapRuleByName(c.SwapRule); err != nil {
		return r, err
	}
	switch c.FirstLead {
	case "", "player":
		r.FirstLead = engine.Player
	case "oppo":
		r.FirstLead = engine.Oppo
	default:
		return r, fmt.Errorf("unknown first lead %q", c.FirstLead)
	}
	return r, nil
}

// DeckShuffler returns rng when decks should be shuffled before dealing and
// nil when they keep their file order.
func (c Config) DeckShuffler(rng *rand.Rand) *rand.Rand {
	if !c.Shuffle {
		return nil
	}
	return rng
}

// ApplyLogging sets the level and formatter of l.
func (c Config) ApplyLogging(l *logrus.Logger) error {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	l.SetLevel(level)
	switch c.LogFormat {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}
