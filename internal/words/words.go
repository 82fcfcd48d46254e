package words

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// candidatePattern is the shape every accepted WordRush word must have:
// a letter followed by 2-31 letters, apostrophes or hyphens.
var candidatePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z'-]{2,31}$`)

// diacriticFolder strips combining marks so "café" validates as "cafe"
var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// quoteReplacer unifies curly quotes and long dashes before validation
var quoteReplacer = strings.NewReplacer(
	"‘", "'", // ‘
	"’", "'", // ’
	"ʼ", "'", // ʼ
	"“", `"`, // “
	"”", `"`, // ”
	"–", "-", // –
	"—", "-", // —
	"‒", "-", // ‒
)

// NormalizeCandidate cleans up a submitted word and reports whether it is a
// valid WordRush candidate. Leading/trailing punctuation is stripped, curly
// quotes and dashes are unified, diacritics are folded. Multi-token input and
// words shorter than 3 letters are rejected.
func NormalizeCandidate(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	s = quoteReplacer.Replace(s)

	// Strip wrapping punctuation ("Alphabet!!!" -> "Alphabet")
	s = strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if s == "" {
		return "", false
	}

	if folded, _, err := transform.String(diacriticFolder, s); err == nil {
		s = folded
	}

	if !candidatePattern.MatchString(s) {
		return "", false
	}
	return s, true
}

// ContainsLettersInOrder reports whether the target letters occur in the word
// as a case-insensitive subsequence: the letters must appear in the same
// relative order, but other letters may sit between them.
func ContainsLettersInOrder(word string, letters []rune) bool {
	if len(letters) == 0 {
		return true
	}
	idx := 0
	want := unicode.ToLower(letters[idx])
	for _, r := range strings.ToLower(word) {
		if r == want {
			idx++
			if idx == len(letters) {
				return true
			}
			want = unicode.ToLower(letters[idx])
		}
	}
	return false
}
