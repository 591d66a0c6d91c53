// Package progress compares two completed crawls of a project.
//
// Pages are matched by URL. A page whose URL changed between crawls shows up
// as one removed page and one new page, with its issues counted as fixed and
// new respectively.
package progress

import (
	"math"
	"slices"
	"strings"

	"github.com/dtnitsch/llm-readiness/models"
)

const topPages = 3

// Snapshot is a crawl together with the scores of its pages.
type Snapshot struct {
	Crawl  models.Crawl
	Scores []models.PageScore
}

type issueKey struct {
	url  string
	code string
}

// Compute returns nil unless both snapshots exist and are complete.
//
// Velocity is the two-point delta. TODO: average deltas over a window of
// completed crawls once callers pass more than two snapshots.
func Compute(current, previous *Snapshot) *models.ProgressDelta {
	if current == nil || previous == nil || !current.Crawl.IsComplete() || !previous.Crawl.IsComplete() {
		return nil
	}

	cur := summarize(current.Scores)
	prev := summarize(previous.Scores)

	d := &models.ProgressDelta{
		CurrentCrawlID:  current.Crawl.ID,
		PreviousCrawlID: previous.Crawl.ID,
		CurrentScore:    cur.overall,
		PreviousScore:   prev.overall,
		ScoreDelta:      round1(cur.overall - prev.overall),
		CategoryDeltas: models.CategoryDeltas{
			Technical:   round1(cur.technical - prev.technical),
			Content:     round1(cur.content - prev.content),
			AIReadiness: round1(cur.aiReadiness - prev.aiReadiness),
			Performance: round1(cur.performance - prev.performance),
		},
	}
	d.Velocity = d.ScoreDelta

	curIssues := issueSet(current.Scores)
	prevIssues := issueSet(previous.Scores)
	for k := range prevIssues {
		if curIssues[k] {
			d.IssuesPersisting++
		} else {
			d.IssuesFixed++
		}
	}
	for k := range curIssues {
		if !prevIssues[k] {
			d.IssuesNew++
		}
	}

	deltas, grades := comparePages(current.Scores, previous.Scores)
	d.GradeChanges = grades
	d.TopImprovedPages = topBy(deltas, func(p models.PageDelta) bool { return p.Delta > 0 }, func(a, b models.PageDelta) int { return b.Delta - a.Delta })
	d.TopRegressedPages = topBy(deltas, func(p models.PageDelta) bool { return p.Delta < 0 }, func(a, b models.PageDelta) int { return a.Delta - b.Delta })
	return d
}

type means struct {
	overall, technical, content, aiReadiness, performance float64
}

// summarize averages every score over the crawl's pages, rounded to one
// decimal. An empty crawl averages to 0.
func summarize(scores []models.PageScore) means {
	if len(scores) == 0 {
		return means{}
	}
	var m means
	for _, s := range scores {
		m.overall += float64(s.OverallScore)
		m.technical += float64(s.TechnicalScore)
		m.content += float64(s.ContentScore)
		m.aiReadiness += float64(s.AIReadinessScore)
		m.performance += float64(s.PerformanceScore)
	}
	n := float64(len(scores))
	return means{
		overall:     round1(m.overall / n),
		technical:   round1(m.technical / n),
		content:     round1(m.content / n),
		aiReadiness: round1(m.aiReadiness / n),
		performance: round1(m.performance / n),
	}
}

func issueSet(scores []models.PageScore) map[issueKey]bool {
	set := make(map[issueKey]bool)
	for _, s := range scores {
		for _, i := range s.Issues {
			set[issueKey{url: s.URL, code: i.Code}] = true
		}
	}
	return set
}

// comparePages pairs pages present in both crawls. If a URL repeats within a
// crawl the first row is used.
func comparePages(current, previous []models.PageScore) ([]models.PageDelta, models.GradeChanges) {
	prevByURL := make(map[string]models.PageScore, len(previous))
	for _, p := range previous {
		if _, ok := prevByURL[p.URL]; !ok {
			prevByURL[p.URL] = p
		}
	}

	var (
		deltas []models.PageDelta
		grades models.GradeChanges
	)
	seen := make(map[string]bool, len(current))
	for _, c := range current {
		if seen[c.URL] {
			continue
		}
		seen[c.URL] = true
		p, ok := prevByURL[c.URL]
		if !ok {
			continue
		}
		deltas = append(deltas, models.PageDelta{
			URL:           c.URL,
			PreviousScore: p.OverallScore,
			CurrentScore:  c.OverallScore,
			Delta:         c.OverallScore - p.OverallScore,
		})
		// "A" sorts before "B": a smaller grade is a better one.
		switch cmp := strings.Compare(c.LetterGrade, p.LetterGrade); {
		case cmp < 0:
			grades.Improved++
		case cmp > 0:
			grades.Regressed++
		default:
			grades.Unchanged++
		}
	}
	return deltas, grades
}

// topBy keeps the deltas matching keep, sorts them by order and then URL, and
// returns at most topPages of them.
func topBy(deltas []models.PageDelta, keep func(models.PageDelta) bool, order func(a, b models.PageDelta) int) []models.PageDelta {
	out := make([]models.PageDelta, 0, topPages)
	var kept []models.PageDelta
	for _, d := range deltas {
		if keep(d) {
			kept = append(kept, d)
		}
	}
	slices.SortFunc(kept, func(a, b models.PageDelta) int {
		if c := order(a, b); c != 0 {
			return c
		}
		return strings.Compare(a.URL, b.URL)
	})
	if len(kept) > topPages {
		kept = kept[:topPages]
	}
	return append(out, kept...)
}

// round1 rounds to one decimal, half away from zero, so that negating the
// input negates the output.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
