// Package benchmark compares a project's scores against competitor domains.
package benchmark

import (
	"math"
	"strings"

	"github.com/dtnitsch/llm-readiness/models"
)

// Summary is the project side of a comparison: its mean scores.
type Summary struct {
	Domain           string  `json:"domain" yaml:"domain"`
	OverallScore     float64 `json:"overall_score" yaml:"overall_score"`
	TechnicalScore   float64 `json:"technical_score" yaml:"technical_score"`
	ContentScore     float64 `json:"content_score" yaml:"content_score"`
	AIReadinessScore float64 `json:"ai_readiness_score" yaml:"ai_readiness_score"`
	PerformanceScore float64 `json:"performance_score" yaml:"performance_score"`
}

// Gap is the project's lead (positive) or deficit (negative) against one
// competitor, per category.
type Gap struct {
	CompetitorDomain string  `json:"competitor_domain" yaml:"competitor_domain"`
	LetterGrade      string  `json:"letter_grade" yaml:"letter_grade"`
	Overall          float64 `json:"overall" yaml:"overall"`
	Technical        float64 `json:"technical" yaml:"technical"`
	Content          float64 `json:"content" yaml:"content"`
	AIReadiness      float64 `json:"ai_readiness" yaml:"ai_readiness"`
	Performance      float64 `json:"performance" yaml:"performance"`
}

// Comparison is the project ranked among its competitors.
type Comparison struct {
	Project     Summary                 `json:"project" yaml:"project"`
	Competitors []models.BenchmarkScore `json:"competitors" yaml:"competitors"`
	Gaps        []Gap                   `json:"gaps" yaml:"gaps"`
	// Rank is 1-based; competitors with the same overall score as the
	// project do not push it down.
	Rank  int `json:"rank" yaml:"rank"`
	Total int `json:"total" yaml:"total"`
}

// SummaryFromScores averages a crawl's page scores, one decimal.
func SummaryFromScores(domain string, scores []models.PageScore) Summary {
	s := Summary{Domain: domain}
	if len(scores) == 0 {
		return s
	}
	for _, ps := range scores {
		s.OverallScore += float64(ps.OverallScore)
		s.TechnicalScore += float64(ps.TechnicalScore)
		s.ContentScore += float64(ps.ContentScore)
		s.AIReadinessScore += float64(ps.AIReadinessScore)
		s.PerformanceScore += float64(ps.PerformanceScore)
	}
	n := float64(len(scores))
	s.OverallScore = round1(s.OverallScore / n)
	s.TechnicalScore = round1(s.TechnicalScore / n)
	s.ContentScore = round1(s.ContentScore / n)
	s.AIReadinessScore = round1(s.AIReadinessScore / n)
	s.PerformanceScore = round1(s.PerformanceScore / n)
	return s
}

// Dedupe keeps the first row per competitor domain, in list order. Domains
// compare case-insensitively.
func Dedupe(rows []models.BenchmarkScore) []models.BenchmarkScore {
	seen := make(map[string]bool, len(rows))
	out := make([]models.BenchmarkScore, 0, len(rows))
	for _, r := range rows {
		key := strings.ToLower(strings.TrimSpace(r.CompetitorDomain))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// Compare dedupes rows (first wins) and measures the project against each
// remaining competitor.
func Compare(project Summary, rows []models.BenchmarkScore) Comparison {
	competitors := Dedupe(rows)
	c := Comparison{
		Project:     project,
		Competitors: competitors,
		Gaps:        make([]Gap, 0, len(competitors)),
		Rank:        1,
		Total:       len(competitors) + 1,
	}
	for _, r := range competitors {
		c.Gaps = append(c.Gaps, Gap{
			CompetitorDomain: r.CompetitorDomain,
			LetterGrade:      r.LetterGrade,
			Overall:          round1(project.OverallScore - float64(r.OverallScore)),
			Technical:        round1(project.TechnicalScore - float64(r.TechnicalScore)),
			Content:          round1(project.ContentScore - float64(r.ContentScore)),
			AIReadiness:      round1(project.AIReadinessScore - float64(r.AIReadinessScore)),
			Performance:      round1(project.PerformanceScore - float64(r.PerformanceScore)),
		})
		if float64(r.OverallScore) > project.OverallScore {
			c.Rank++
		}
	}
	return c
}

// FromPageScore turns a scored competitor homepage into a benchmark row.
func FromPageScore(projectID, domain string, ps *models.PageScore) models.BenchmarkScore {
	return models.BenchmarkScore{
		ProjectID:        projectID,
		CompetitorDomain: domain,
		OverallScore:     ps.OverallScore,
		TechnicalScore:   ps.TechnicalScore,
		ContentScore:     ps.ContentScore,
		AIReadinessScore: ps.AIReadinessScore,
		PerformanceScore: ps.PerformanceScore,
		LetterGrade:      ps.LetterGrade,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
