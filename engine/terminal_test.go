package engine

import "testing"

func handSize(n int) Rules {
	r := instantRules()
	r.HandSize = n
	return r
}

func TestEarlyEnd_Victory(t *testing.T) {
	s := newTestSession(t, handSize(1), "9_ 1_", "1_ 1_")
	s.DrainEvents()
	playTok(t, s, Player, "9_")
	playTok(t, s, Oppo, "1_")

	// player pile 10, oppo 0, remaining 1+1
	if !s.IsOver() || s.EndReason() != EndVictory {
		t.Fatalf("phase %s reason %s, want victory", s.Phase(), s.EndReason())
	}
	if s.Round() != 1 {
		t.Errorf("round = %d, a new round started before the check", s.Round())
	}
	evs := s.DrainEvents()
	last := evs[len(evs)-1]
	if last.Type != EventGameOver || last.Reason != EndVictory {
		t.Errorf("last event = %+v, want GameOver(victory)", last)
	}
	resolved := -1
	for i, ev := range evs {
		if ev.Type == EventRoundResolved {
			resolved = i
		}
	}
	for _, ev := range evs[resolved+1:] {
		if ev.Type == EventTurnStarted || ev.Type == EventCardDrawn {
			t.Errorf("game continued after the deciding round: %+v", ev)
		}
	}
}

func TestEarlyEnd_Loss(t *testing.T) {
	s := newTestSession(t, handSize(1), "1_ 1_", "9_ 1_")
	playTok(t, s, Player, "1_")
	playTok(t, s, Oppo, "9_")
	if !s.IsOver() || s.EndReason() != EndLoss {
		t.Fatalf("phase %s reason %s, want loss", s.Phase(), s.EndReason())
	}
}

func TestEarlyEnd_NotWhileCatchable(t *testing.T) {
	s := newTestSession(t, handSize(1), "5_ 9_", "3_ 9_")
	playTok(t, s, Player, "5_")
	playTok(t, s, Oppo, "3_")
	// lead 8, remaining 18
	if s.IsOver() {
		t.Fatalf("game ended with %d still in play", s.RemainingScore())
	}
	if s.Round() != 2 {
		t.Errorf("round = %d, want 2", s.Round())
	}
}

func TestEarlyEnd_EqualToRemainingContinues(t *testing.T) {
	// lead 4 against 2+2 still undrawn
	s := newTestSession(t, handSize(1), "3_ 2_", "1_ 2_")
	playTok(t, s, Player, "3_")
	playTok(t, s, Oppo, "1_")
	if s.Score(Player)-s.Score(Oppo) != s.RemainingScore() {
		t.Fatalf("setup: lead %d remaining %d", s.Score(Player)-s.Score(Oppo), s.RemainingScore())
	}
	if s.IsOver() {
		t.Error("game ended when the lead only equals the remaining score")
	}
}

func TestActionsAfterGameOver(t *testing.T) {
	s := newTestSession(t, handSize(1), "9_ 1_", "1_ 1_")
	playTok(t, s, Player, "9_")
	playTok(t, s, Oppo, "1_")
	if !s.IsOver() {
		t.Fatal("setup did not end the game")
	}
	if err := s.Play(Player, 1); err != ErrGameOver {
		t.Errorf("Play after game over: %v", err)
	}
	if err := s.UseSeed(); err != ErrGameOver {
		t.Errorf("UseSeed after game over: %v", err)
	}
	s.DrainEvents()
	s.CaughtCheating()
	if s.EndReason() != EndVictory || len(s.DrainEvents()) != 0 {
		t.Error("CaughtCheating changed a finished game")
	}
}
