// Package transform turns extracted text into reading aids: bionic markup
// and RSVP word sequences. Both are pure functions of their input.
package transform

import "strings"

const (
	boldOpen  = "<b>"
	boldClose = "</b>"

	// bionicMinLength is the longest word left without emphasis.
	bionicMinLength = 3
)

// Bionic wraps the first half of every word longer than three characters
// in <b></b>. Words are split on whitespace and rejoined with single
// spaces.
func Bionic(text string) string {
	words := splitWords(text)
	for i, word := range words {
		words[i] = bionicWord(word)
	}
	return strings.Join(words, " ")
}

func bionicWord(word string) string {
	runes := []rune(word)
	if len(runes) <= bionicMinLength {
		return word
	}
	half := len(runes) / 2
	return boldOpen + string(runes[:half]) + boldClose + string(runes[half:])
}
