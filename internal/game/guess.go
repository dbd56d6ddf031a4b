package game

import "github.com/agnivade/levenshtein"

// WordSource supplies secret words. Implementations live outside this package.
type WordSource interface {
	RandomWord() string
}

// WordSourceFunc adapts a plain function to WordSource.
type WordSourceFunc func() string

func (f WordSourceFunc) RandomWord() string {
	return f()
}

type GuessListener func(member, word string, success bool)

// GuessEvaluator holds a session's secret word. Like Scheduler it relies on
// the session lock for synchronisation.
type GuessEvaluator struct {
	words     WordSource
	current   string
	listeners []GuessListener
}

func NewGuessEvaluator(words WordSource) *GuessEvaluator {
	return &GuessEvaluator{
		words:   words,
		current: words.RandomWord(),
	}
}

func (g *GuessEvaluator) OnGuess(listener GuessListener) {
	g.listeners = append(g.listeners, listener)
}

// Guess compares word to the secret word, case-sensitively. A hit draws the
// next secret word before listeners run, so a listener that rotates the turn
// already sees the word the next drawer gets.
func (g *GuessEvaluator) Guess(member, word string) bool {
	success := g.current == word
	if success {
		g.current = g.words.RandomWord()
	}
	for _, listener := range g.listeners {
		listener(member, word, success)
	}
	return success
}

func (g *GuessEvaluator) Word() string {
	return g.current
}

// Closeness is the edit distance between word and the secret word.
func (g *GuessEvaluator) Closeness(word string) int {
	return levenshtein.ComputeDistance(word, g.current)
}
