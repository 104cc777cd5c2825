package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

func (c *Config) applyEnv() error {
	var err error
	setInt := func(key string, dst *int) {
		if err != nil {
			return
		}
		*dst, err = getEnvInt(key, *dst)
	}
	setMillis := func(key string, dst *time.Duration) {
		if err != nil {
			return
		}
		ms, e := getEnvInt(key, int(*dst/time.Millisecond))
		if e != nil {
			err = e
			return
		}
		if ms < 0 {
			err = fmt.Errorf("%s: must not be negative", key)
			return
		}
		*dst = time.Duration(ms) * time.Millisecond
	}

	setInt("DUEL_HAND_SIZE", &c.HandSize)
	setInt("DUEL_SLEEVE_SIZE", &c.SleeveSize)
	setInt("DUEL_GAMES", &c.Games)
	setMillis("DUEL_TURN_PAUSE_MS", &c.TurnPause)
	setMillis("DUEL_TICK_MS", &c.Tick)
	setMillis("DUEL_TURN_TIMEOUT_MS", &c.TurnTimeout)
	if err != nil {
		return err
	}
	if c.Tick <= 0 {
		return fmt.Errorf("DUEL_TICK_MS: must be positive")
	}

	if v := os.Getenv("DUEL_SEED"); v != "" {
		seed, perr := strconv.ParseUint(v, 10, 64)
		if perr != nil {
			return fmt.Errorf("DUEL_SEED: %w", perr)
		}
		c.Seed = seed
	}

	if v := os.Getenv("DUEL_SHUFFLE"); v != "" {
		shuffle, perr := strconv.ParseBool(v)
		if perr != nil {
			return fmt.Errorf("DUEL_SHUFFLE: %w", perr)
		}
		c.Shuffle = shuffle
	}

	getEnvString("DUEL_INITIATIVE", &c.Initiative)
	getEnvString("DUEL_SWAP_RULE", &c.SwapRule)
	getEnvString("DUEL_FIRST_LEAD", &c.FirstLead)
	getEnvString("DUEL_PLAYER_DECK", &c.PlayerDeck)
	getEnvString("DUEL_OPPO_DECK", &c.OppoDeck)
	getEnvString("DUEL_FEED_ADDR", &c.FeedAddr)
	if c.FeedAddr == "off" {
		c.FeedAddr = ""
	}
	getEnvString("LOG_LEVEL", &c.LogLevel)
	getEnvString("LOG_FORMAT", &c.LogFormat)
	return nil
}

// getEnvInt returns def when key is unset.
func getEnvInt(key string, def int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return def, nil
	}
	num, err := strconv.Atoi(val)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return num, nil
}

func getEnvString(key string, dst *string) {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		*dst = val
	}
}
