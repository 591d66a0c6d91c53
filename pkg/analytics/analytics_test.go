package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyllables(t *testing.T) {
	tests := map[string]int{
		"cat":       1,
		"make":      1,
		"table":     2,
		"readable":  3,
		"rhythm":    1,
		"a":         1,
		"queue":     1,
		"beautiful": 3,
	}
	for word, want := range tests {
		assert.Equal(t, want, Syllables(word), word)
	}
}

func TestSentences(t *testing.T) {
	got := Sentences("One here. Two there!  Three?\nFour")
	assert.Equal(t, []string{"One here", "Two there", "Three", "Four"}, got)
	assert.Empty(t, Sentences("   "))
}

func TestStats(t *testing.T) {
	st := Stats("The cat sat. The dog ran!")
	assert.Equal(t, TextStats{Words: 6, Sentences: 2, Syllables: 6}, st)
	// 206.835 - 1.015*3 - 84.6*1 is above the ceiling
	assert.Equal(t, 100.0, st.ReadingEase())
}

func TestReadingEase_Bounds(t *testing.T) {
	assert.Equal(t, 0.0, TextStats{}.ReadingEase())
	hard := TextStats{Words: 100, Sentences: 1, Syllables: 400}
	assert.Equal(t, 0.0, hard.ReadingEase())
	mid := TextStats{Words: 20, Sentences: 2, Syllables: 30}
	assert.InDelta(t, 206.835-10.15-126.9, mid.ReadingEase(), 1e-9)
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, WordCount(""))
	assert.Equal(t, 6, WordCount("It's a well-known fact, really."))
}

func TestTopNWords(t *testing.T) {
	text := "Schema markup helps. Schema markup matters. Schema wins, and the crawler reads markup; crawler!"
	assert.Equal(t, []string{"markup", "schema", "crawler"}, TopNWords(text, 3))
	assert.Len(t, TopNWords(text, 100), 7)
	assert.Empty(t, TopNWords("", 5))
}

func TestIsStopword(t *testing.T) {
	assert.True(t, IsStopword("The"))
	assert.True(t, IsStopword("click"))
	assert.False(t, IsStopword("schema"))
}

func TestFactScore(t *testing.T) {
	strong := FactScore("According to a 2023 survey, 64% of marketers use structured data.")
	weak := FactScore("It is really nice to have things here and there.")
	assert.Greater(t, strong, weak)
	assert.Equal(t, 85.0, strong)
	assert.Equal(t, 15.0, weak)
}

func TestFacts(t *testing.T) {
	text := "Hello there. Structured data is a standardized format for describing a page. " +
		"It helps a lot with many things on sites. " +
		"In 2024 the index covered 4 billion pages across the web."
	facts := Facts(text)
	require.Len(t, facts, 2)
	assert.Equal(t, "Structured data is a standardized format for describing a page", facts[0].Text)
	assert.Contains(t, facts[1].Text, "4 billion")
}
