package app

import (
	"strings"
	"testing"
)

func sentenceTestGame(words ...string) *Game {
	g := testGame(KindSentenceRush, "guild-1", "channel-1", "host-1")
	g.Join("player-2")
	g.initSentence(words)
	g.BeginPlaying()
	return g
}

func TestNormalizeGuess(t *testing.T) {
	tests := []struct {
		input string
		want  string
		valid bool
	}{
		{"  CAT  ", "cat", true},
		{"cat!", "cat", true},
		{"a", "a", true}, // short sentence words are legal guesses
		{"two words", "", false},
		{"123", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, valid := normalizeGuess(tt.input)
		if valid != tt.valid {
			t.Errorf("normalizeGuess(%q): expected valid=%v, got %v", tt.input, tt.valid, valid)
			continue
		}
		if valid && got != tt.want {
			t.Errorf("normalizeGuess(%q): expected %q, got %q", tt.input, tt.want, got)
		}
	}
}

func TestMaskedSentenceHidesUnsolvedWords(t *testing.T) {
	g := sentenceTestGame("the", "cat", "sleeps")

	if got := g.maskedSentence(); got != "___ ___ ______" {
		t.Errorf("Expected fully masked sentence, got %q", got)
	}

	g.advanceSentenceWord()
	if got := g.maskedSentence(); got != "the ___ ______" {
		t.Errorf("Expected first word revealed, got %q", got)
	}
}

func TestAdvanceSentenceWordCompletes(t *testing.T) {
	g := sentenceTestGame("big", "dog")

	if done := g.advanceSentenceWord(); done {
		t.Error("Expected sentence to be incomplete after the first word")
	}
	if done := g.advanceSentenceWord(); !done {
		t.Error("Expected sentence to be complete after the last word")
	}
}

func TestCurrentSentenceWordTracksCursor(t *testing.T) {
	g := sentenceTestGame("big", "dog")

	word, index := g.currentSentenceWord()
	if word != "big" || index != 0 {
		t.Errorf("Expected (big, 0), got (%s, %d)", word, index)
	}

	g.advanceSentenceWord()
	word, index = g.currentSentenceWord()
	if word != "dog" || index != 1 {
		t.Errorf("Expected (dog, 1), got (%s, %d)", word, index)
	}

	g.advanceSentenceWord()
	if _, index = g.currentSentenceWord(); index != -1 {
		t.Errorf("Expected index -1 past the last word, got %d", index)
	}
}

func TestRevealRandomLetterUncoversOne(t *testing.T) {
	g := sentenceTestGame("cat")

	if !g.revealRandomLetter() {
		t.Fatal("Expected a letter to be revealed")
	}

	masked := g.maskedSentence()
	hidden := strings.Count(masked, "_")
	if hidden != 2 {
		t.Errorf("Expected 2 letters still hidden, got %d (%q)", hidden, masked)
	}

	// Exhausting the word leaves nothing to reveal
	g.revealRandomLetter()
	g.revealRandomLetter()
	if g.revealRandomLetter() {
		t.Error("Expected no letters left to reveal")
	}
}

func TestManualHintOncePerPlayer(t *testing.T) {
	g := sentenceTestGame("elephant")

	if err := g.useManualHint("player-2"); err != nil {
		t.Fatalf("Expected first hint to succeed, got %v", err)
	}
	if err := g.useManualHint("player-2"); err == nil {
		t.Error("Expected second hint by the same player to fail")
	}
	if err := g.useManualHint("host-1"); err != nil {
		t.Errorf("Expected another player's hint to succeed, got %v", err)
	}
}

func TestManualHintRequiresMembership(t *testing.T) {
	g := sentenceTestGame("elephant")

	if err := g.useManualHint("outsider"); err == nil {
		t.Error("Expected hint by a non-player to fail")
	}
}

func TestManualHintRequiresRunningGame(t *testing.T) {
	g := sentenceTestGame("elephant")
	g.Stop(ReasonStopped)

	if err := g.useManualHint("host-1"); err == nil {
		t.Error("Expected hint after the game ended to fail")
	}
}
