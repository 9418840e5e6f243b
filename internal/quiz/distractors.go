package quiz

import (
	"math/rand"

	"github.com/example/vocabtrainer/pkg/models"
)

// Distractors draws up to count words uniformly without replacement from the
// pool, excluding the word with excludeID. When the pool holds fewer eligible
// words than requested, all of them are returned: a small vocabulary degrades
// to fewer options rather than failing.
func Distractors(rnd *rand.Rand, pool []models.WordRecord, excludeID string, count int) []models.WordRecord {
	eligible := make([]models.WordRecord, 0, len(pool))
	for _, w := range pool {
		if w.ID != excludeID {
			eligible = append(eligible, w)
		}
	}

	rnd.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})

	if len(eligible) > count {
		eligible = eligible[:count]
	}
	return eligible
}

// ShuffleStrings shuffles a slice of answer options in place.
func ShuffleStrings(rnd *rand.Rand, options []string) {
	rnd.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
}
