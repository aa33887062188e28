package game

import "strings"

// UsedWords holds the guesses accepted so far in one game.
type UsedWords map[string]struct{}

func (u UsedWords) Has(word string) bool {
	_, ok := u[word]
	return ok
}

func (u UsedWords) Add(word string) {
	u[word] = struct{}{}
}

// ValidateGuess reports whether guess answers prompt. It never mutates used;
// recording an accepted guess is the caller's job.
func ValidateGuess(guess, prompt string, bank *WordBank, used UsedWords) bool {
	if prompt == "" || !isAlphabetic(guess) {
		return false
	}
	word := normalizeWord(guess)
	if !strings.Contains(word, prompt) {
		return false
	}
	if used.Has(word) {
		return false
	}
	return bank.Contains(word)
}
