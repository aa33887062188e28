package game

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"slices"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// WordBank is an immutable set of lowercase alphabetic words. It is safe for
// concurrent use once built.
type WordBank struct {
	words []string
	index map[string]struct{}
}

// NewWordBank normalizes and deduplicates words. Tokens that are not purely
// alphabetic, and words shorter than two letters, are skipped since no prompt
// can ever match them.
func NewWordBank(words []string) (*WordBank, error) {
	bank := &WordBank{index: make(map[string]struct{}, len(words))}
	for _, raw := range words {
		word := normalizeWord(raw)
		if !isAlphabetic(word) || len([]rune(word)) < 2 {
			continue
		}
		if _, exists := bank.index[word]; exists {
			continue
		}
		bank.index[word] = struct{}{}
		bank.words = append(bank.words, word)
	}
	if len(bank.words) == 0 {
		return nil, ErrEmptyWordBank
	}
	slices.Sort(bank.words)
	return bank, nil
}

// LoadWordBank reads a whitespace-separated token stream.
func LoadWordBank(r io.Reader) (*WordBank, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	var words []string
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return NewWordBank(words)
}

func (b *WordBank) Contains(word string) bool {
	if b == nil {
		return false
	}
	_, ok := b.index[word]
	return ok
}

func (b *WordBank) Len() int {
	if b == nil {
		return 0
	}
	return len(b.words)
}

// Words returns the members in sorted order.
func (b *WordBank) Words() []string {
	if b == nil {
		return nil
	}
	return slices.Clone(b.words)
}

// Sample returns a uniformly random member. A nil rng uses the global source.
func (b *WordBank) Sample(rng *rand.Rand) (string, error) {
	if b.Len() == 0 {
		return "", ErrEmptyWordBank
	}
	if rng == nil {
		return b.words[rand.IntN(len(b.words))], nil
	}
	return b.words[rng.IntN(len(b.words))], nil
}

// normalizeWord lowercases a word. cases.Caser is not safe for concurrent
// use, so one is built per call.
func normalizeWord(word string) string {
	return cases.Lower(language.Und).String(word)
}

func isAlphabetic(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
