package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateGuessScenario(t *testing.T) {
	bank := newTestBank(t, "cat", "dog")
	used := UsedWords{}

	assert.True(t, ValidateGuess("cat", "at", bank, used))
	assert.Empty(t, used, "validation must not record the guess")

	used.Add("cat")
	assert.False(t, ValidateGuess("cat", "at", bank, used), "already used")
	assert.False(t, ValidateGuess("dogs", "og", bank, used), "not in bank")
}

func TestValidateGuessRules(t *testing.T) {
	bank := newTestBank(t, "cat", "dog", "scatter")
	used := UsedWords{"dog": {}}

	cases := []struct {
		name   string
		guess  string
		prompt string
		want   bool
	}{
		{name: "exact", guess: "cat", prompt: "ca", want: true},
		{name: "case insensitive", guess: "CaT", prompt: "at", want: true},
		{name: "longer word", guess: "scatter", prompt: "att", want: true},
		{name: "missing fragment", guess: "cat", prompt: "og", want: false},
		{name: "used", guess: "DOG", prompt: "og", want: false},
		{name: "digits", guess: "c4t", prompt: "c4", want: false},
		{name: "padded", guess: " cat", prompt: "at", want: false},
		{name: "empty", guess: "", prompt: "at", want: false},
		{name: "empty prompt", guess: "cat", prompt: "", want: false},
		{name: "punctuation", guess: "cat!", prompt: "at", want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidateGuess(tc.guess, tc.prompt, bank, used))
		})
	}
	assert.Len(t, used, 1)
}

func TestValidateGuessNilInputs(t *testing.T) {
	assert.False(t, ValidateGuess("cat", "at", nil, nil))
	assert.True(t, ValidateGuess("cat", "at", newTestBank(t, "cat"), nil))
}
