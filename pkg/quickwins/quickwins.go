// Package quickwins folds a crawl's issues into candidate fixes and ranks them
// by how much they would move the overall score.
package quickwins

import (
	"slices"

	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/rules"
)

// Candidate is an issue code aggregated across a crawl, before ranking.
type Candidate struct {
	Code           string
	Message        string
	Recommendation string
	Effort         models.Effort
	ScoreImpact    int
	AffectedPages  int
	Snippet        string
}

// Aggregate groups the issues of every scored page by code, in the order codes
// are first seen. Impact, effort and snippet come from the catalog; a code
// missing from the catalog keeps the issue's own text and an impact of 0.
func Aggregate(scores []models.PageScore, rs *rules.Ruleset) []Candidate {
	index := make(map[string]int)
	var cands []Candidate
	for _, ps := range scores {
		seen := make(map[string]bool)
		for _, issue := range ps.Issues {
			i, ok := index[issue.Code]
			if !ok {
				c := Candidate{
					Code:           issue.Code,
					Message:        issue.Message,
					Recommendation: issue.Recommendation,
				}
				if def, found := rs.Issue(issue.Code); found {
					c.Effort = def.Effort
					c.ScoreImpact = def.Impact
					c.Snippet = def.Snippet
				}
				i = len(cands)
				index[issue.Code] = i
				cands = append(cands, c)
			}
			if !seen[issue.Code] {
				seen[issue.Code] = true
				cands[i].AffectedPages++
			}
		}
	}
	return cands
}

// Rank drops candidates with no score impact and orders the rest by absolute
// impact, then affected pages, both descending. Equal candidates keep their
// input order. cands is not modified.
func Rank(cands []Candidate) []models.QuickWin {
	kept := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		if c.ScoreImpact != 0 {
			kept = append(kept, c)
		}
	}

	slices.SortStableFunc(kept, func(a, b Candidate) int {
		if ai, bi := abs(a.ScoreImpact), abs(b.ScoreImpact); ai != bi {
			return bi - ai
		}
		return b.AffectedPages - a.AffectedPages
	})

	wins := make([]models.QuickWin, len(kept))
	for i, c := range kept {
		wins[i] = models.QuickWin{
			Code:                  c.Code,
			Message:               c.Message,
			Recommendation:        c.Recommendation,
			EffortLevel:           c.Effort,
			ScoreImpact:           c.ScoreImpact,
			AffectedPages:         c.AffectedPages,
			ImplementationSnippet: c.Snippet,
		}
	}
	return wins
}

// FromScores is Aggregate followed by Rank.
func FromScores(scores []models.PageScore, rs *rules.Ruleset) []models.QuickWin {
	return Rank(Aggregate(scores, rs))
}

// FromIssues ranks a flat issue list where every issue counts as its own page.
func FromIssues(list []models.Issue, rs *rules.Ruleset) []models.QuickWin {
	scores := make([]models.PageScore, len(list))
	for i, issue := range list {
		scores[i].Issues = []models.Issue{issue}
	}
	return FromScores(scores, rs)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
