package words

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"
)

// TargetLetterCount is how many letters a WordRush turn asks for
const TargetLetterCount = 3

// letterPool skews target draws towards letters that actually start and fill
// common English words. Rare tiles (q, x, z) are left out on purpose.
const letterPool = "aabbccddeeeefgghiiijkllmmnnoooopprrssttuuvwy"

// defaultSentences is the built-in SentenceRush pool (3-8 words each)
var defaultSentences = []string{
	"the cat sleeps",
	"birds sing at dawn",
	"rain falls on the roof",
	"winter nights are long",
	"the river flows south",
	"old clocks tick slowly",
	"green apples taste sharp",
	"waves crash on the shore",
	"the moon rises over hills",
	"dogs chase the red ball",
	"coffee smells better than it tastes",
	"my neighbor paints tiny wooden boats",
	"the train leaves at noon",
	"autumn leaves cover the garden path",
	"a spider spun webs in the barn",
	"thunder rolled across the empty valley",
	"children laugh at the funny clown",
	"the baker sells fresh bread daily",
	"stars glitter above the quiet lake",
	"wild horses run along the beach",
	"grandma knits sweaters every single winter",
	"the lighthouse warns ships at night",
	"fresh snow covers the mountain peaks",
	"bees gather pollen from spring flowers",
	"the library closes early on sunday",
	"sailors watch the horizon for storms",
	"a warm fire crackles in the hearth",
	"the old map leads to buried treasure",
	"morning fog drifts over the harbor",
	"squirrels hide acorns under the oak tree",
}

// SentencePool holds the candidate sentences for SentenceRush
type SentencePool struct {
	sentences []string
}

// NewSentencePool returns the built-in pool
func NewSentencePool() *SentencePool {
	return &SentencePool{sentences: defaultSentences}
}

// LoadSentencePool reads a JSON array of sentences from path, falling back to
// the built-in pool when the file is missing or unusable
func LoadSentencePool(path string) *SentencePool {
	if path == "" {
		return NewSentencePool()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("⚠️ Could not read sentences file %s, using built-in pool: %v", path, err)
		return NewSentencePool()
	}

	var sentences []string
	if err := json.Unmarshal(data, &sentences); err != nil {
		log.Printf("⚠️ Could not parse sentences file %s, using built-in pool: %v", path, err)
		return NewSentencePool()
	}

	cleaned := make([]string, 0, len(sentences))
	for _, s := range sentences {
		s = strings.TrimSpace(s)
		if s != "" {
			cleaned = append(cleaned, s)
		}
	}
	if len(cleaned) == 0 {
		log.Printf("⚠️ Sentences file %s is empty, using built-in pool", path)
		return NewSentencePool()
	}

	log.Printf("✅ Loaded %d sentences from %s", len(cleaned), path)
	return &SentencePool{sentences: cleaned}
}

// Pick selects a random sentence whose word count is within [minWords,
// maxWords] and returns it split into lowercase words
func (p *SentencePool) Pick(rng *rand.Rand, minWords, maxWords int) ([]string, error) {
	var candidates [][]string
	for _, s := range p.sentences {
		fields := strings.Fields(strings.ToLower(s))
		if len(fields) >= minWords && len(fields) <= maxWords {
			candidates = append(candidates, fields)
		}
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no sentences with %d-%d words in the pool", minWords, maxWords)
	}
	return candidates[rng.Intn(len(candidates))], nil
}

// Size returns the number of sentences in the pool
func (p *SentencePool) Size() int {
	return len(p.sentences)
}

// RandomTargetLetters draws the target letters for one WordRush turn. The
// letters are distinct so "contains in order" stays solvable with short words.
func RandomTargetLetters(rng *rand.Rand) ([]rune, error) {
	pool := []rune(letterPool)
	seen := make(map[rune]bool)
	letters := make([]rune, 0, TargetLetterCount)

	for tries := 0; len(letters) < TargetLetterCount; tries++ {
		if tries > 100 {
			return nil, errors.New("could not draw distinct target letters")
		}
		r := pool[rng.Intn(len(pool))]
		if seen[r] {
			continue
		}
		seen[r] = true
		letters = append(letters, r)
	}
	return letters, nil
}
