package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrScoreOutOfRange is returned by NewScore for values outside [0,100].
var ErrScoreOutOfRange = errors.New("score out of range [0,100]")

// Score is a validated 0-100 score.
type Score int

// NewScore validates v and returns it as a Score.
func NewScore(v int) (Score, error) {
	if v < 0 || v > 100 {
		return 0, fmt.Errorf("%w: %d", ErrScoreOutOfRange, v)
	}
	return Score(v), nil
}

// ClampScore rounds v to the nearest integer and clamps it into [0,100].
// NaN maps to 0.
func ClampScore(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return int(r)
}

// ClampRate clamps v into [0,1].
func ClampRate(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// LetterGrade maps a 0-100 score onto A-F using the 90/80/70/60 thresholds.
func LetterGrade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// PageScore is the scoring result for one page in one crawl.
type PageScore struct {
	PageID           string  `json:"page_id" yaml:"page_id"`
	URL              string  `json:"url" yaml:"url"`
	OverallScore     int     `json:"overall_score" yaml:"overall_score"`
	TechnicalScore   int     `json:"technical_score" yaml:"technical_score"`
	ContentScore     int     `json:"content_score" yaml:"content_score"`
	AIReadinessScore int     `json:"ai_readiness_score" yaml:"ai_readiness_score"`
	PerformanceScore int     `json:"performance_score" yaml:"performance_score"`
	LetterGrade      string  `json:"letter_grade" yaml:"letter_grade"`
	Issues           []Issue `json:"issues" yaml:"issues"`
}

// SubScore returns the sub-score for a category.
func (p *PageScore) SubScore(c Category) int {
	switch c {
	case CategoryTechnical:
		return p.TechnicalScore
	case CategoryContent:
		return p.ContentScore
	case CategoryAIReadiness:
		return p.AIReadinessScore
	case CategoryPerformance:
		return p.PerformanceScore
	}
	return 0
}

// Ungraded records a page that could not be scored. It is reported instead of
// a fabricated zero so trend lines are not dragged down.
type Ungraded struct {
	URL    string `json:"url" yaml:"url"`
	Reason string `json:"reason" yaml:"reason"`
}

// Effort is the static effort estimate for fixing an issue.
type Effort string

const (
	EffortLow    Effort = "low"
	EffortMedium Effort = "medium"
	EffortHigh   Effort = "high"
)

// QuickWin is an issue ranked by its score impact across a crawl.
type QuickWin struct {
	Code                  string `json:"code" yaml:"code"`
	Message               string `json:"message" yaml:"message"`
	Recommendation        string `json:"recommendation" yaml:"recommendation"`
	EffortLevel           Effort `json:"effort_level" yaml:"effort_level"`
	ScoreImpact           int    `json:"score_impact" yaml:"score_impact"`
	AffectedPages         int    `json:"affected_pages" yaml:"affected_pages"`
	ImplementationSnippet string `json:"implementation_snippet,omitempty" yaml:"implementation_snippet,omitempty"`
}

// AIVisibilityBreakdown exposes each weighted component of the visibility score.
type AIVisibilityBreakdown struct {
	LLMMentions       float64 `json:"llm_mentions" yaml:"llm_mentions"`
	AISearch          float64 `json:"ai_search" yaml:"ai_search"`
	ShareOfVoice      float64 `json:"share_of_voice" yaml:"share_of_voice"`
	BacklinkAuthority float64 `json:"backlink_authority" yaml:"backlink_authority"`
}

// AIVisibilityScore scores off-site presence in AI answers and search.
type AIVisibilityScore struct {
	Overall   int                   `json:"overall" yaml:"overall"`
	Grade     string                `json:"grade" yaml:"grade"`
	Breakdown AIVisibilityBreakdown `json:"breakdown" yaml:"breakdown"`
}
