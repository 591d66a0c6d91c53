// Package analytics computes plain-text statistics: word and sentence counts,
// Flesch reading ease, keyword frequency and quotable fact candidates.
package analytics

import (
	"cmp"
	"regexp"
	"slices"
	"strings"
	"unicode"
)

var stopwords = func() map[string]struct{} {
	list := `a about above after again against all also am an and any are as at
	be because been before being below between both but by can cannot could
	did do does doing down during each few for from further had has have having
	he her here hers herself him himself his how i if in into is it its itself
	just me more most my myself no nor not now of off on once only or other our
	ours ourselves out over own same she should so some such than that the their
	theirs them themselves then there these they this those through to too under
	until up us very was we were what when where which while who whom why will
	with would you your yours yourself yourselves
	click button link menu page pages website site home homepage search loading`
	m := make(map[string]struct{})
	for _, w := range strings.Fields(list) {
		m[w] = struct{}{}
	}
	return m
}()

// IsStopword reports whether word is too common to be a keyword.
func IsStopword(word string) bool {
	_, ok := stopwords[strings.ToLower(word)]
	return ok
}

// TextStats are counts over a block of text.
type TextStats struct {
	Words     int `json:"words" yaml:"words"`
	Sentences int `json:"sentences" yaml:"sentences"`
	Syllables int `json:"syllables" yaml:"syllables"`
}

// ReadingEase is the Flesch reading-ease score clamped to [0,100]. Text with
// no words scores 0.
func (s TextStats) ReadingEase() float64 {
	if s.Words == 0 {
		return 0
	}
	sentences := max(s.Sentences, 1)
	score := 206.835 -
		1.015*float64(s.Words)/float64(sentences) -
		84.6*float64(s.Syllables)/float64(s.Words)
	return min(max(score, 0), 100)
}

// Stats counts words, sentences and syllables in text.
func Stats(text string) TextStats {
	var st TextStats
	for _, w := range words(text) {
		st.Words++
		st.Syllables += Syllables(w)
	}
	st.Sentences = len(Sentences(text))
	return st
}

// words splits text into lowercase words made of letters, digits and inner
// apostrophes.
func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// WordCount counts the words in text.
func WordCount(text string) int {
	return len(words(text))
}

var sentenceEnd = regexp.MustCompile(`[.!?]+(\s+|$)`)

// Sentences splits text on terminal punctuation and drops empty pieces.
func Sentences(text string) []string {
	var out []string
	for _, s := range sentenceEnd.Split(strings.Join(strings.Fields(text), " "), -1) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Syllables estimates English syllables by counting vowel groups, with the
// usual silent-e correction. Every word has at least one.
func Syllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		v := strings.ContainsRune("aeiouy", r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	return max(count, 1)
}

// WordFrequency counts non-stopword words.
func WordFrequency(text string) map[string]int {
	freq := make(map[string]int)
	for _, w := range words(text) {
		w = strings.Trim(w, "'")
		if w == "" || IsStopword(w) {
			continue
		}
		freq[w]++
	}
	return freq
}

// TopNWords returns the n most frequent keywords, ties broken alphabetically.
func TopNWords(text string, n int) []string {
	type wordCount struct {
		word  string
		count int
	}
	freq := WordFrequency(text)
	counts := make([]wordCount, 0, len(freq))
	for w, c := range freq {
		counts = append(counts, wordCount{w, c})
	}
	slices.SortFunc(counts, func(a, b wordCount) int {
		if a.count != b.count {
			return b.count - a.count
		}
		return cmp.Compare(a.word, b.word)
	})

	top := make([]string, 0, min(n, len(counts)))
	for i := 0; i < n && i < len(counts); i++ {
		top = append(top, counts[i].word)
	}
	return top
}
