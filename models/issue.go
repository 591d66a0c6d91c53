package models

// Category groups issues into the four scored areas.
type Category string

const (
	CategoryTechnical   Category = "technical"
	CategoryContent     Category = "content"
	CategoryAIReadiness Category = "ai_readiness"
	CategoryPerformance Category = "performance"
)

// Categories returns every category in scoring order.
func Categories() []Category {
	return []Category{CategoryTechnical, CategoryContent, CategoryAIReadiness, CategoryPerformance}
}

// Severity is how much an issue hurts.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Issue is a detected deficiency on a page. Issues are created per scoring run
// and never mutated; (page, code) identifies one across crawls.
type Issue struct {
	Code           string     `json:"code" yaml:"code"`
	Category       Category   `json:"category" yaml:"category"`
	Severity       Severity   `json:"severity" yaml:"severity"`
	Message        string     `json:"message" yaml:"message"`
	Recommendation string     `json:"recommendation" yaml:"recommendation"`
	Data           *IssueData `json:"data,omitempty" yaml:"data,omitempty"`
}

// IssueData carries optional detail for an issue. Which keys are set depends on the code:
//
//	MISSING_ALT_TEXT, MULTIPLE_H1            count
//	THIN_CONTENT, TITLE_LENGTH,
//	META_DESCRIPTION_LENGTH                  actual, threshold
//	AI_CRAWLER_BLOCKED                       crawlers
//	NOINDEX, SNIPPET_RESTRICTED              directives
//	POOR_*, LOW_*, WEAK_STRUCTURE,
//	POOR_READABILITY                         score, threshold
//	HTTP_ERROR                               actual (status code)
//	LANGUAGE_MISMATCH                        declared, detected
type IssueData struct {
	Count      int      `json:"count,omitempty" yaml:"count,omitempty"`
	Actual     int      `json:"actual,omitempty" yaml:"actual,omitempty"`
	Threshold  float64  `json:"threshold,omitempty" yaml:"threshold,omitempty"`
	Score      float64  `json:"score,omitempty" yaml:"score,omitempty"`
	Crawlers   []string `json:"crawlers,omitempty" yaml:"crawlers,omitempty"`
	Directives []string `json:"directives,omitempty" yaml:"directives,omitempty"`
	Declared   string   `json:"declared,omitempty" yaml:"declared,omitempty"`
	Detected   string   `json:"detected,omitempty" yaml:"detected,omitempty"`
}
