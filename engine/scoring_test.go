package engine

import "testing"

func TestRemainingScore_CountsDecksHandsAndSleeve(t *testing.T) {
	s := newTestSession(t, instantRules(), "0z 1_ 2_ 4d", "9_ 9w 0_ 3z")
	// hands: 0z 1_ 2_ / 9_ 9w 0_ ; decks: 4d / 3z
	want := (12 + 1 + 2) + (9 + 9 + 0) + 17 + 15
	if got := s.RemainingScore(); got != want {
		t.Errorf("RemainingScore = %d, want %d", got, want)
	}
	if err := s.Stash(s.Hand(Player)[0].ID); err != nil {
		t.Fatal(err)
	}
	if got := s.RemainingScore(); got != want {
		t.Errorf("RemainingScore after stash = %d, want %d", got, want)
	}
}

func TestRemainingScore_DropsAsCardsArePlayed(t *testing.T) {
	s := newTestSession(t, instantRules(), "5_ 9_ 9_ 9_", "3_ 9_ 9_ 9_")
	before := s.RemainingScore()
	playTok(t, s, Player, "5_")
	if got := s.RemainingScore(); got != before-5 {
		t.Errorf("after play RemainingScore = %d, want %d", got, before-5)
	}
}

func TestScore_FaceAndBonus(t *testing.T) {
	s := newTestSession(t, instantRules(), "1d 9_ 9_ 9_", "1d 9_ 9_ 9_")
	playTok(t, s, Player, "1d")
	playTok(t, s, Oppo, "1d")
	// tie: each keeps its card, each card earns 1 per Double
	if s.PlayerScore() != 1+2 || s.OppoScore() != 1+2 {
		t.Errorf("scores = %d/%d, want 3/3", s.PlayerScore(), s.OppoScore())
	}
	res, _ := s.LastRound()
	if res.PlayerBonus != 2 || res.OppoBonus != 2 {
		t.Errorf("round bonuses = %d/%d", res.PlayerBonus, res.OppoBonus)
	}
}
