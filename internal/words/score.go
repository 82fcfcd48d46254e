package words

import "strings"

// Mark is the per-letter result of comparing a guess against a target word
type Mark int

const (
	// MarkAbsent - letter does not occur in the (still unmatched) target
	MarkAbsent Mark = iota
	// MarkPresent - letter occurs elsewhere in the target
	MarkPresent
	// MarkCorrect - right letter in the right position
	MarkCorrect
)

// LetterMark pairs a guessed letter with its mark
type LetterMark struct {
	Letter rune
	Mark   Mark
}

// ScoreGuess compares a guess against the target word character by character.
// Two passes: exact positions first, then "present" marks consume from a
// frequency count of the unmatched target letters, so a duplicated letter in
// the guess is never marked present more times than it occurs, unmatched, in
// the target. Comparison is case-insensitive.
func ScoreGuess(guess, target string) []LetterMark {
	g := []rune(strings.ToLower(guess))
	t := []rune(strings.ToLower(target))

	result := make([]LetterMark, len(g))

	// First pass: exact matches, counting the leftover target letters
	remaining := make(map[rune]int)
	for i, r := range t {
		if i < len(g) && g[i] == r {
			continue
		}
		remaining[r]++
	}

	for i, r := range g {
		if i < len(t) && t[i] == r {
			result[i] = LetterMark{Letter: r, Mark: MarkCorrect}
		}
	}

	// Second pass: present/absent against the unmatched pool
	for i, r := range g {
		if result[i].Mark == MarkCorrect {
			continue
		}
		if remaining[r] > 0 {
			remaining[r]--
			result[i] = LetterMark{Letter: r, Mark: MarkPresent}
		} else {
			result[i] = LetterMark{Letter: r, Mark: MarkAbsent}
		}
	}

	return result
}

// IsAllCorrect reports whether every mark is correct and the guess covers the
// whole target (same length)
func IsAllCorrect(marks []LetterMark, target string) bool {
	if len(marks) != len([]rune(target)) {
		return false
	}
	for _, m := range marks {
		if m.Mark != MarkCorrect {
			return false
		}
	}
	return true
}
