// Package insights shapes a scored crawl into stored summaries so dashboards
// can read them back without rescoring.
package insights

import (
	"cmp"
	"math"
	"slices"

	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/platform"
	"github.com/dtnitsch/llm-readiness/pkg/rules"
)

// Insight types.
const (
	TypeScoreSummary      = "score_summary"
	TypeIssueDistribution = "issue_distribution"
	TypeContentDepth      = "content_depth"
	TypePlatformReadiness = "platform_readiness"
	TypePageHotspot       = "page_hotspot"
)

// CrawlData is a scored crawl.
type CrawlData struct {
	CrawlID string
	Pages   []models.CrawledPage
	Scores  []models.PageScore
	// Resolved lists issue codes the customer marked as handled.
	Resolved []string
}

// CrawlInsight is one crawl-level summary. Data holds one of ScoreSummary,
// IssueDistribution, ContentDepth or []platform.Result.
type CrawlInsight struct {
	CrawlID string `json:"crawl_id" yaml:"crawl_id"`
	Type    string `json:"type" yaml:"type"`
	Data    any    `json:"data" yaml:"data"`
}

// PageInsight is the hotspot summary of one page.
type PageInsight struct {
	CrawlID string      `json:"crawl_id" yaml:"crawl_id"`
	PageID  string      `json:"page_id" yaml:"page_id"`
	URL     string      `json:"url" yaml:"url"`
	Type    string      `json:"type" yaml:"type"`
	Data    PageHotspot `json:"data" yaml:"data"`
}

// Capture is the full insight set of a crawl. Storing it replaces any earlier
// set for the same crawl.
type Capture struct {
	CrawlInsights []CrawlInsight `json:"crawl_insights" yaml:"crawl_insights"`
	PageInsights  []PageInsight  `json:"page_insights" yaml:"page_insights"`
}

// ScoreSummary describes the distribution of overall scores.
type ScoreSummary struct {
	PageCount         int            `json:"page_count" yaml:"page_count"`
	MeanOverall       float64        `json:"mean_overall" yaml:"mean_overall"`
	MeanTechnical     float64        `json:"mean_technical" yaml:"mean_technical"`
	MeanContent       float64        `json:"mean_content" yaml:"mean_content"`
	MeanAIReadiness   float64        `json:"mean_ai_readiness" yaml:"mean_ai_readiness"`
	MeanPerformance   float64        `json:"mean_performance" yaml:"mean_performance"`
	Min               int            `json:"min" yaml:"min"`
	Max               int            `json:"max" yaml:"max"`
	Median            float64        `json:"median" yaml:"median"`
	GradeDistribution map[string]int `json:"grade_distribution" yaml:"grade_distribution"`
}

// CodeCount is how many pages carry one issue code.
type CodeCount struct {
	Code     string          `json:"code" yaml:"code"`
	Category models.Category `json:"category" yaml:"category"`
	Severity models.Severity `json:"severity" yaml:"severity"`
	Pages    int             `json:"pages" yaml:"pages"`
}

// IssueDistribution counts issues by severity, category and code.
type IssueDistribution struct {
	Total      int            `json:"total" yaml:"total"`
	BySeverity map[string]int `json:"by_severity" yaml:"by_severity"`
	ByCategory map[string]int `json:"by_category" yaml:"by_category"`
	ByCode     []CodeCount    `json:"by_code" yaml:"by_code"`
}

// Bucket is a word-count range; Max of 0 means unbounded.
type Bucket struct {
	Label string `json:"label" yaml:"label"`
	Min   int    `json:"min" yaml:"min"`
	Max   int    `json:"max,omitempty" yaml:"max,omitempty"`
	Pages int    `json:"pages" yaml:"pages"`
}

// ContentDepth buckets pages by word count.
type ContentDepth struct {
	MeanWordCount float64        `json:"mean_word_count" yaml:"mean_word_count"`
	Buckets       []Bucket       `json:"buckets" yaml:"buckets"`
	ContentTypes  map[string]int `json:"content_types" yaml:"content_types"`
}

// PageHotspot summarizes the issues of one page.
type PageHotspot struct {
	OverallScore int    `json:"overall_score" yaml:"overall_score"`
	LetterGrade  string `json:"letter_grade" yaml:"letter_grade"`
	IssueCount   int    `json:"issue_count" yaml:"issue_count"`
	Critical     int    `json:"critical" yaml:"critical"`
	Warning      int    `json:"warning" yaml:"warning"`
	Info         int    `json:"info" yaml:"info"`
}

// CaptureInsights reshapes data into the four crawl summaries and one hotspot
// per scored page. It performs no scoring of its own.
func CaptureInsights(data CrawlData, rs *rules.Ruleset) Capture {
	var all []models.Issue
	for _, s := range data.Scores {
		all = append(all, s.Issues...)
	}

	c := Capture{
		CrawlInsights: []CrawlInsight{
			{CrawlID: data.CrawlID, Type: TypeScoreSummary, Data: summarizeScores(data.Scores)},
			{CrawlID: data.CrawlID, Type: TypeIssueDistribution, Data: distribute(data.Scores)},
			{CrawlID: data.CrawlID, Type: TypeContentDepth, Data: contentDepth(data.Pages)},
			{CrawlID: data.CrawlID, Type: TypePlatformReadiness, Data: platform.Evaluate(rs.Platforms, all, data.Resolved)},
		},
		PageInsights: make([]PageInsight, 0, len(data.Scores)),
	}
	for _, s := range data.Scores {
		c.PageInsights = append(c.PageInsights, PageInsight{
			CrawlID: data.CrawlID,
			PageID:  s.PageID,
			URL:     s.URL,
			Type:    TypePageHotspot,
			Data:    hotspot(s),
		})
	}
	return c
}

func summarizeScores(scores []models.PageScore) ScoreSummary {
	s := ScoreSummary{
		PageCount:         len(scores),
		GradeDistribution: map[string]int{"A": 0, "B": 0, "C": 0, "D": 0, "F": 0},
	}
	if len(scores) == 0 {
		return s
	}

	overall := make([]int, 0, len(scores))
	for _, ps := range scores {
		overall = append(overall, ps.OverallScore)
		s.MeanOverall += float64(ps.OverallScore)
		s.MeanTechnical += float64(ps.TechnicalScore)
		s.MeanContent += float64(ps.ContentScore)
		s.MeanAIReadiness += float64(ps.AIReadinessScore)
		s.MeanPerformance += float64(ps.PerformanceScore)
		s.GradeDistribution[models.LetterGrade(ps.OverallScore)]++
	}
	n := float64(len(scores))
	s.MeanOverall = round1(s.MeanOverall / n)
	s.MeanTechnical = round1(s.MeanTechnical / n)
	s.MeanContent = round1(s.MeanContent / n)
	s.MeanAIReadiness = round1(s.MeanAIReadiness / n)
	s.MeanPerformance = round1(s.MeanPerformance / n)

	slices.Sort(overall)
	s.Min = overall[0]
	s.Max = overall[len(overall)-1]
	mid := len(overall) / 2
	if len(overall)%2 == 1 {
		s.Median = float64(overall[mid])
	} else {
		s.Median = float64(overall[mid-1]+overall[mid]) / 2
	}
	return s
}

func distribute(scores []models.PageScore) IssueDistribution {
	d := IssueDistribution{
		BySeverity: map[string]int{},
		ByCategory: map[string]int{},
		ByCode:     []CodeCount{},
	}
	index := make(map[string]int)
	for _, ps := range scores {
		seen := make(map[string]bool)
		for _, i := range ps.Issues {
			d.Total++
			d.BySeverity[string(i.Severity)]++
			d.ByCategory[string(i.Category)]++
			if seen[i.Code] {
				continue
			}
			seen[i.Code] = true
			if at, ok := index[i.Code]; ok {
				d.ByCode[at].Pages++
				continue
			}
			index[i.Code] = len(d.ByCode)
			d.ByCode = append(d.ByCode, CodeCount{Code: i.Code, Category: i.Category, Severity: i.Severity, Pages: 1})
		}
	}
	slices.SortStableFunc(d.ByCode, func(a, b CodeCount) int {
		if a.Pages != b.Pages {
			return b.Pages - a.Pages
		}
		return cmp.Compare(a.Code, b.Code)
	})
	return d
}

func depthBuckets() []Bucket {
	return []Bucket{
		{Label: "thin", Min: 0, Max: 299},
		{Label: "short", Min: 300, Max: 799},
		{Label: "standard", Min: 800, Max: 1499},
		{Label: "long", Min: 1500, Max: 2999},
		{Label: "in_depth", Min: 3000},
	}
}

func contentDepth(pages []models.CrawledPage) ContentDepth {
	d := ContentDepth{Buckets: depthBuckets(), ContentTypes: map[string]int{}}
	if len(pages) == 0 {
		return d
	}
	var total int
	for _, p := range pages {
		total += p.WordCount
		for i := range d.Buckets {
			b := &d.Buckets[i]
			if p.WordCount >= b.Min && (b.Max == 0 || p.WordCount <= b.Max) {
				b.Pages++
				break
			}
		}
		ct := p.ContentType
		if ct == "" {
			ct = rules.TypeUnknown
		}
		d.ContentTypes[ct]++
	}
	d.MeanWordCount = round1(float64(total) / float64(len(pages)))
	return d
}

func hotspot(ps models.PageScore) PageHotspot {
	h := PageHotspot{
		OverallScore: ps.OverallScore,
		LetterGrade:  ps.LetterGrade,
		IssueCount:   len(ps.Issues),
	}
	for _, i := range ps.Issues {
		switch i.Severity {
		case models.SeverityCritical:
			h.Critical++
		case models.SeverityWarning:
			h.Warning++
		case models.SeverityInfo:
			h.Info++
		}
	}
	return h
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
