// Package scoring combines the issue checks of a page into the four category
// sub-scores, the weighted overall score and a letter grade.
package scoring

import (
	"fmt"

	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/issues"
	"github.com/dtnitsch/llm-readiness/pkg/rules"
)

// Page is one input to ScoreBatch.
type Page struct {
	ID      string
	Signals *models.PageSignals
}

// ScorePage scores a single page. It fails only when required signals are
// missing; every optional input degrades to a documented default.
func ScorePage(pageID string, s *models.PageSignals, rs *rules.Ruleset) (*models.PageScore, error) {
	res, err := issues.Detect(s, rs)
	if err != nil {
		return nil, fmt.Errorf("failed to score page: %w", err)
	}

	rates := PassRates(res.Checks, rs.SeverityWeights)
	th := rs.Thresholds

	technical := rates[models.CategoryTechnical] * 100
	content := contentScore(s, rates, hasChecks(res.Checks, models.CategoryContent), th)
	aiReadiness := aiReadinessScore(s, rates, th)
	performance := float64(th.NeutralPerformance)
	if s.Lighthouse != nil {
		performance = models.ClampRate(s.Lighthouse.Performance) * 100
	}

	if res.GateFailed() {
		gateCap := float64(th.GateCap)
		technical = min(technical, gateCap)
		aiReadiness = min(aiReadiness, gateCap)
	}

	ps := &models.PageScore{
		PageID:           pageID,
		URL:              s.URL,
		TechnicalScore:   models.ClampScore(technical),
		ContentScore:     models.ClampScore(content),
		AIReadinessScore: models.ClampScore(aiReadiness),
		PerformanceScore: models.ClampScore(performance),
		Issues:           res.Issues,
	}
	if ps.Issues == nil {
		ps.Issues = []models.Issue{}
	}
	ps.OverallScore = Overall(ps, rs.Weights)
	ps.LetterGrade = models.LetterGrade(ps.OverallScore)
	return ps, nil
}

// Overall is the weighted mean of the four sub-scores, rounded and clamped.
// A zero weight sum yields 0.
func Overall(ps *models.PageScore, w rules.Weights) int {
	total := w.Sum()
	if total == 0 {
		return 0
	}
	var sum float64
	for _, c := range models.Categories() {
		sum += float64(w.For(c) * ps.SubScore(c))
	}
	return models.ClampScore(sum / float64(total))
}

// ScoreBatch scores pages independently. A page that cannot be scored is
// reported as ungraded rather than given a zero.
func ScoreBatch(pages []Page, rs *rules.Ruleset) ([]models.PageScore, []models.Ungraded) {
	scores := make([]models.PageScore, 0, len(pages))
	var ungraded []models.Ungraded
	for _, p := range pages {
		ps, err := ScorePage(p.ID, p.Signals, rs)
		if err != nil {
			url := ""
			if p.Signals != nil {
				url = p.Signals.URL
			}
			ungraded = append(ungraded, models.Ungraded{URL: url, Reason: err.Error()})
			continue
		}
		scores = append(scores, *ps)
	}
	return scores, ungraded
}

// PassRates computes the severity-weighted share of passing checks per
// category. Gate checks are excluded. A category with no applicable checks
// gets a rate of 0.
func PassRates(checks []issues.Check, w rules.SeverityWeights) map[models.Category]float64 {
	passed := make(map[models.Category]int)
	total := make(map[models.Category]int)
	for _, c := range checks {
		if c.Gate {
			continue
		}
		weight := w.For(c.Severity)
		total[c.Category] += weight
		if c.Passed {
			passed[c.Category] += weight
		}
	}

	rates := make(map[models.Category]float64, len(total))
	for _, cat := range models.Categories() {
		if total[cat] == 0 {
			rates[cat] = 0
			continue
		}
		rates[cat] = float64(passed[cat]) / float64(total[cat])
	}
	return rates
}

// hasChecks reports whether any non-gate check of cat applied.
func hasChecks(checks []issues.Check, cat models.Category) bool {
	for _, c := range checks {
		if !c.Gate && c.Category == cat {
			return true
		}
	}
	return false
}

// contentScore blends word-count, pass-rate and readability heuristics, and
// mixes in the rubric's content average when it is present.
func contentScore(s *models.PageSignals, rates map[models.Category]float64, checked bool, th rules.Thresholds) float64 {
	var parts []float64
	if th.TargetWords > 0 {
		parts = append(parts, models.ClampRate(float64(s.WordCount)/float64(th.TargetWords)))
	}
	if checked {
		parts = append(parts, rates[models.CategoryContent])
	}
	if s.Readability != nil {
		parts = append(parts, models.ClampRate(*s.Readability/100))
	}

	var heuristics float64
	if len(parts) > 0 {
		var sum float64
		for _, p := range parts {
			sum += p
		}
		heuristics = sum / float64(len(parts)) * 100
	}

	if s.LLMRubric == nil {
		return heuristics
	}
	share := models.ClampRate(th.ContentRubricShare)
	rubric := models.ClampRate(s.LLMRubric.ContentAverage()/100) * 100
	return (1-share)*heuristics + share*rubric
}

func aiReadinessScore(s *models.PageSignals, rates map[models.Category]float64, th rules.Thresholds) float64 {
	rate := rates[models.CategoryAIReadiness] * 100
	if s.LLMRubric == nil {
		return rate
	}
	share := models.ClampRate(th.AIRubricShare)
	cw := models.ClampRate(s.LLMRubric.CitationWorthiness/100) * 100
	return (1-share)*rate + share*cw
}
