package analytics

import (
	"regexp"
	"strings"
)

var (
	numberPattern     = regexp.MustCompile(`\d`)
	quantityPattern   = regexp.MustCompile(`\d\s*%|[$€£]\s*\d|\d+(\.\d+)?\s*(percent|million|billion|thousand|ms|kb|mb|gb)\b`)
	yearPattern       = regexp.MustCompile(`\b(19|20)\d\d\b`)
	definitionPattern = regexp.MustCompile(`\b(is|are|means|refers to|is defined as)\b`)
	attributionWords  = []string{"according to", "study", "survey", "research", "report", "found that"}
	vagueOpeners      = []string{"it ", "this ", "that ", "they ", "these ", "those "}
)

// Statement is a sentence scored for how well it stands alone as a quotable
// fact. Score is 0-100.
type Statement struct {
	Text  string
	Score float64
}

const (
	minFactWords = 6
	maxFactWords = 45
	minFactScore = 35
)

// Facts returns the sentences of text that look citable, in text order.
func Facts(text string) []Statement {
	var out []Statement
	for _, s := range Sentences(text) {
		n := WordCount(s)
		if n < minFactWords || n > maxFactWords {
			continue
		}
		if score := FactScore(s); score >= minFactScore {
			out = append(out, Statement{Text: s, Score: score})
		}
	}
	return out
}

// FactScore rates one sentence with additive heuristics.
func FactScore(sentence string) float64 {
	lower := strings.ToLower(strings.TrimSpace(sentence))
	score := 20.0

	if numberPattern.MatchString(lower) {
		score += 25
	}
	if quantityPattern.MatchString(lower) {
		score += 15
	}
	if yearPattern.MatchString(lower) {
		score += 10
	}
	if definitionPattern.MatchString(lower) {
		score += 15
	}
	for _, w := range attributionWords {
		if strings.Contains(lower, w) {
			score += 15
			break
		}
	}
	// A sentence that leans on an earlier one does not stand alone
	for _, v := range vagueOpeners {
		if strings.HasPrefix(lower, v) {
			score -= 20
			break
		}
	}
	return min(max(score, 0), 100)
}
