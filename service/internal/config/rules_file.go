package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RulesFile is the YAML form of the rule settings. Absent keys keep the
// current value.
type RulesFile struct {
	HandSize    *int    `yaml:"hand_size"`
	SleeveSize  *int    `yaml:"sleeve_size"`
	TurnPauseMS *int    `yaml:"turn_pause_ms"`
	Initiative  *string `yaml:"initiative"`
	SwapRule    *string `yaml:"swap_rule"`
	FirstLead   *string `yaml:"first_lead"`
	PlayerDeck  *string `yaml:"player_deck"`
	OppoDeck    *string `yaml:"oppo_deck"`
	Shuffle     *bool   `yaml:"shuffle"`
}

// ApplyRulesFile reads a YAML rules file at path into c.
func (c *Config) ApplyRulesFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read rules file: %w", err)
	}
	return c.ApplyRulesYAML(b)
}

// ApplyRulesYAML is ApplyRulesFile over an in-memory document.
func (c *Config) ApplyRulesYAML(b []byte) error {
	var rf RulesFile
	if err := yaml.Unmarshal(b, &rf); err != nil {
		return fmt.Errorf("parse rules file: %w", err)
	}
	if rf.HandSize != nil {
		c.HandSize = *rf.HandSize
	}
	if rf.SleeveSize != nil {
		c.SleeveSize = *rf.SleeveSize
	}
	if rf.TurnPauseMS != nil {
		if *rf.TurnPauseMS < 0 {
			return fmt.Errorf("turn_pause_ms must not be negative")
		}
		c.TurnPause = time.Duration(*rf.TurnPauseMS) * time.Millisecond
	}
	if rf.Initiative != nil {
		c.Initiative = *rf.Initiative
	}
	if rf.SwapRule != nil {
		c.SwapRule = *rf.SwapRule
	}
	if rf.FirstLead != nil {
		c.FirstLead = *rf.FirstLead
	}
	if rf.PlayerDeck != nil {
		c.PlayerDeck = *rf.PlayerDeck
	}
	if rf.OppoDeck != nil {
		c.OppoDeck = *rf.OppoDeck
	}
	if rf.Shuffle != nil {
		c.Shuffle = *rf.Shuffle
	}
	return nil
}
