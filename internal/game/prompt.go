package game

import "math/rand/v2"

// DefaultThreeLetterChance is the share of eligible draws that produce a
// three-letter fragment instead of two. Lower is easier.
const DefaultThreeLetterChance = 0.3

// Prompt is the fragment a guess must contain, with the word it came from.
type Prompt struct {
	Text string
	Word string
}

// PromptGenerator draws fragments from a word bank. It is owned by a single
// game and is not safe for concurrent use.
type PromptGenerator struct {
	bank              *WordBank
	rng               *rand.Rand
	threeLetterChance float64
}

func NewPromptGenerator(bank *WordBank, rng *rand.Rand, threeLetterChance float64) *PromptGenerator {
	if rng == nil {
		rng = newRand()
	}
	if threeLetterChance < 0 || threeLetterChance > 1 {
		threeLetterChance = DefaultThreeLetterChance
	}
	return &PromptGenerator{bank: bank, rng: rng, threeLetterChance: threeLetterChance}
}

func (g *PromptGenerator) Next() (Prompt, error) {
	word, err := g.bank.Sample(g.rng)
	if err != nil {
		return Prompt{}, err
	}
	letters := []rune(word)
	start := g.rng.IntN(len(letters) - 1)
	if len(letters)-start >= 3 && g.rng.Float64() < g.threeLetterChance {
		return Prompt{Text: string(letters[start : start+3]), Word: word}, nil
	}
	return Prompt{Text: string(letters[start : start+2]), Word: word}, nil
}

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
