package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Sentinel errors matched by ParseError.Is.
var (
	ErrInvalidValue    = errors.New("invalid card value")
	ErrInvalidModifier = errors.New("invalid card modifier")
	ErrMalformedToken  = errors.New("malformed card token")
)

// ParseErrorKind classifies a deck parse failure.
type ParseErrorKind uint8

const (
	BadValue ParseErrorKind = iota
	BadModifier
	BadToken
)

// ParseError reports a card token that could not be parsed.
type ParseError struct {
	Kind  ParseErrorKind
	Token string
	Line  int // 1-based; 0 when parsing a single token
}

func (e *ParseError) Error() string {
	var what string
	switch e.Kind {
	case BadValue:
		what = "bad value"
	case BadModifier:
		what = "bad modifier"
	default:
		what = "malformed token"
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s in card %q", e.Line, what, e.Token)
	}
	return fmt.Sprintf("%s in card %q", what, e.Token)
}

// Is lets errors.Is match the kind sentinels.
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrInvalidValue:
		return e.Kind == BadValue
	case ErrInvalidModifier:
		return e.Kind == BadModifier
	case ErrMalformedToken:
		return e.Kind == BadToken
	}
	return false
}

// ParseValue parses a single digit.
func ParseValue(b byte) (Value, error) {
	if b < '0' || b > '9' {
		return 0, &ParseError{Kind: BadValue, Token: string(b)}
	}
	return Value(b - '0'), nil
}

// ParseModifier parses a modifier code. The code '_' is the explicit
// no-modifier case and returns ModNone without error.
func ParseModifier(b byte) (Modifier, error) {
	for m, code := range modifierCodes {
		if code == b {
			return Modifier(m), nil
		}
	}
	return ModNone, &ParseError{Kind: BadModifier, Token: string(b)}
}

// ParseCard parses a two-character token "<digit><code>".
func ParseCard(tok string) (Card, error) {
	if len(tok) != 2 {
		return Card{}, &ParseError{Kind: BadToken, Token: tok}
	}
	v, err := ParseValue(tok[0])
	if err != nil {
		return Card{}, &ParseError{Kind: BadValue, Token: tok}
	}
	m, err := ParseModifier(tok[1])
	if err != nil {
		return Card{}, &ParseError{Kind: BadModifier, Token: tok}
	}
	return NewCard(v, m), nil
}

// ParseDeck parses whitespace-separated card tokens. Text after '#' on a line
// is ignored. The first token is the first card drawn.
func ParseDeck(s string) (Deck, error) {
	return ReadDeck(strings.NewReader(s))
}

// ReadDeck is ParseDeck over a reader.
func ReadDeck(r io.Reader) (Deck, error) {
	var cards []Card
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		for _, tok := range strings.Fields(text) {
			c, err := ParseCard(tok)
			if err != nil {
				var pe *ParseError
				if errors.As(err, &pe) {
					pe.Line = line
				}
				return Deck{}, err
			}
			cards = append(cards, c)
		}
	}
	if err := sc.Err(); err != nil {
		return Deck{}, fmt.Errorf("read deck: %w", err)
	}
	return NewDeck(cards), nil
}

// FormatDeck renders cards in deck-file notation, in draw order.
func FormatDeck(cards []Card) string {
	toks := make([]string, len(cards))
	for i, c := range cards {
		toks[i] = c.String()
	}
	return strings.Join(toks, " ")
}
