package words

import (
	"math/rand"
	"testing"
)

func TestContainsLettersInOrder(t *testing.T) {
	if !ContainsLettersInOrder("alphabet", []rune{'A', 'B', 'T'}) {
		t.Errorf("Expected 'alphabet' to contain A, B, T in order")
	}

	if ContainsLettersInOrder("table", []rune{'A', 'B', 'T'}) {
		t.Errorf("Expected 'table' to fail: T precedes A")
	}

	if !ContainsLettersInOrder("Banana", []rune{'b', 'n', 'n'}) {
		t.Errorf("Expected 'Banana' to contain b, n, n in order")
	}

	if ContainsLettersInOrder("cab", []rune{'a', 'b', 'c'}) {
		t.Errorf("Expected 'cab' to fail: c comes after a and b")
	}

	// Letters may be adjacent or spread out
	if !ContainsLettersInOrder("abc", []rune{'a', 'b', 'c'}) {
		t.Errorf("Expected contiguous match to pass")
	}

	if ContainsLettersInOrder("", []rune{'a', 'b', 'c'}) {
		t.Errorf("Expected empty word to fail")
	}
}

func TestNormalizeCandidate(t *testing.T) {
	got, ok := NormalizeCandidate("  Alphabet!!!  ")
	if !ok || got != "Alphabet" {
		t.Errorf("Expected 'Alphabet', got %q (ok=%v)", got, ok)
	}

	// Curly apostrophe is unified into a straight one
	got, ok = NormalizeCandidate("don’t")
	if !ok || got != "don't" {
		t.Errorf("Expected \"don't\", got %q (ok=%v)", got, ok)
	}

	// Diacritics fold to plain letters
	got, ok = NormalizeCandidate("café")
	if !ok || got != "cafe" {
		t.Errorf("Expected 'cafe', got %q (ok=%v)", got, ok)
	}

	rejected := []string{"ab", "123", "hello world", "", "   ", "!!!", "a-"}
	for _, raw := range rejected {
		if got, ok := NormalizeCandidate(raw); ok {
			t.Errorf("Expected %q to be rejected, got %q", raw, got)
		}
	}

	// 32 letters is the cap, 33 is too long
	long := ""
	for i := 0; i < 32; i++ {
		long += "a"
	}
	if _, ok := NormalizeCandidate(long); !ok {
		t.Errorf("Expected 32-letter word to be accepted")
	}
	if _, ok := NormalizeCandidate(long + "a"); ok {
		t.Errorf("Expected 33-letter word to be rejected")
	}
}

func TestScoreGuessDuplicateLetters(t *testing.T) {
	// target "seen", guess "eels": e appears twice in the guess but only one
	// e is unmatched in the target after position matching, so exactly one e
	// is marked present
	marks := ScoreGuess("eels", "seen")

	if len(marks) != 4 {
		t.Fatalf("Expected 4 marks, got %d", len(marks))
	}

	// e-e-l-s vs s-e-e-n: second e is an exact match
	if marks[1].Mark != MarkCorrect {
		t.Errorf("Expected position 1 (e) to be correct, got %v", marks[1].Mark)
	}

	presentE := 0
	for i, m := range marks {
		if m.Letter == 'e' && m.Mark == MarkPresent {
			presentE++
			if i != 0 {
				t.Errorf("Expected the present e at position 0, got %d", i)
			}
		}
	}
	if presentE != 1 {
		t.Errorf("Expected exactly one e marked present, got %d", presentE)
	}

	if marks[2].Mark != MarkAbsent {
		t.Errorf("Expected l to be absent, got %v", marks[2].Mark)
	}
	if marks[3].Mark != MarkPresent {
		t.Errorf("Expected s to be present, got %v", marks[3].Mark)
	}
}

func TestScoreGuessExactMatch(t *testing.T) {
	marks := ScoreGuess("Apple", "apple")
	for i, m := range marks {
		if m.Mark != MarkCorrect {
			t.Errorf("Expected position %d to be correct, got %v", i, m.Mark)
		}
	}
	if !IsAllCorrect(marks, "apple") {
		t.Errorf("Expected IsAllCorrect to be true for exact match")
	}
}

func TestScoreGuessLengthMismatch(t *testing.T) {
	// A longer guess never counts as solving the word
	marks := ScoreGuess("apples", "apple")
	if IsAllCorrect(marks, "apple") {
		t.Errorf("Expected longer guess not to solve the target")
	}

	// Extra guess letters past the target end are scored against the pool
	marks = ScoreGuess("aa", "a")
	if marks[0].Mark != MarkCorrect {
		t.Errorf("Expected first a correct, got %v", marks[0].Mark)
	}
	if marks[1].Mark != MarkAbsent {
		t.Errorf("Expected second a absent, got %v", marks[1].Mark)
	}
}

func TestSentencePoolPick(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pool := NewSentencePool()

	for i := 0; i < 50; i++ {
		sentence, err := pool.Pick(rng, 3, 5)
		if err != nil {
			t.Fatalf("Pick returned error: %v", err)
		}
		if len(sentence) < 3 || len(sentence) > 5 {
			t.Errorf("Expected 3-5 words, got %d: %v", len(sentence), sentence)
		}
	}

	// Impossible filter errors out instead of hanging
	if _, err := pool.Pick(rng, 9, 9); err == nil {
		t.Errorf("Expected error for impossible word-count filter")
	}
}

func TestRandomTargetLetters(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 100; i++ {
		letters, err := RandomTargetLetters(rng)
		if err != nil {
			t.Fatalf("RandomTargetLetters returned error: %v", err)
		}
		if len(letters) != TargetLetterCount {
			t.Fatalf("Expected %d letters, got %d", TargetLetterCount, len(letters))
		}
		seen := make(map[rune]bool)
		for _, r := range letters {
			if seen[r] {
				t.Errorf("Expected distinct letters, got %q", string(letters))
			}
			seen[r] = true
			if r < 'a' || r > 'z' {
				t.Errorf("Expected lowercase letter, got %q", r)
			}
		}
	}
}
