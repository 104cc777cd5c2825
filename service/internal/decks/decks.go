// Package decks provides the built-in decks and loads deck files.
package decks

import (
	"embed"
	"fmt"
	"os"

	"github.com/wordwar/duel/engine"
)

//go:embed files/*.deck
var files embed.FS

// Default returns the built-in deck for who.
func Default(who engine.Participant) engine.Deck {
	name := "files/player.deck"
	if who == engine.Oppo {
		name = "files/oppo.deck"
	}
	b, err := files.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("decks: embedded %s missing: %v", name, err))
	}
	d, err := engine.ParseDeck(string(b))
	if err != nil {
		panic(fmt.Sprintf("decks: embedded %s: %v", name, err))
	}
	return d
}

// Load parses the deck file at path.
func Load(path string) (engine.Deck, error) {
	f, err := os.Open(path)
	if err != nil {
		return engine.Deck{}, fmt.Errorf("open deck: %w", err)
	}
	defer f.Close()
	d, err := engine.ReadDeck(f)
	if err != nil {
		return engine.Deck{}, fmt.Errorf("deck %s: %w", path, err)
	}
	return d, nil
}

// Resolve loads path, or returns who's built-in deck when path is empty.
func Resolve(path string, who engine.Participant) (engine.Deck, error) {
	if path == "" {
		return Default(who), nil
	}
	return Load(path)
}
