package game

import (
	"math/rand"
	"strings"
)

var (
	nameOnsets = []string{"b", "d", "f", "g", "k", "l", "m", "n", "p", "r", "s", "t", "v", "z", "br", "gr", "st", "th"}
	nameVowels = []string{"a", "e", "i", "o", "u", "ai", "ee", "oo"}
	nameCodas  = []string{"", "", "", "n", "r", "s", "x", "k"}
)

// randomName builds a pronounceable two or three syllable name.
func randomName(rng *rand.Rand) string {
	var sb strings.Builder
	syllables := 2 + rng.Intn(2)
	for i := 0; i < syllables; i++ {
		sb.WriteString(nameOnsets[rng.Intn(len(nameOnsets))])
		sb.WriteString(nameVowels[rng.Intn(len(nameVowels))])
	}
	sb.WriteString(nameCodas[rng.Intn(len(nameCodas))])

	name := sb.String()
	return strings.ToUpper(name[:1]) + name[1:]
}
