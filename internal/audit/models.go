package audit

import (
	"time"

	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/detector"
	"github.com/dtnitsch/llm-readiness/pkg/platform"
	"github.com/dtnitsch/llm-readiness/pkg/scoring"
	"github.com/dtnitsch/llm-readiness/pkg/signals"
)

type Job struct {
	Index int
	Page  scoring.Page
}

// Result holds the outcome of a processed job.
type Result struct {
	Index int
	URL   string
	Score *models.PageScore
	Error error
	Took  time.Duration
}

// Stats provides summary statistics for the run.
type Stats struct {
	TotalPages       int            `json:"total_pages" yaml:"total_pages"`
	Scored           int            `json:"scored" yaml:"scored"`
	Ungraded         int            `json:"ungraded" yaml:"ungraded"`
	MeanOverall      float64        `json:"mean_overall" yaml:"mean_overall"`
	Grades           map[string]int `json:"grades" yaml:"grades"`
	TotalTimeSeconds float64        `json:"total_time_seconds" yaml:"total_time_seconds"`
}

// Report is the data of the score verb.
type Report struct {
	CrawlID   string             `json:"crawl_id,omitempty" yaml:"crawl_id,omitempty"`
	Stats     Stats              `json:"stats" yaml:"stats"`
	Scores    []models.PageScore `json:"scores" yaml:"scores"`
	Ungraded  []models.Ungraded  `json:"ungraded,omitempty" yaml:"ungraded,omitempty"`
	QuickWins []models.QuickWin  `json:"quick_wins" yaml:"quick_wins"`
	Platforms []platform.Result  `json:"platforms" yaml:"platforms"`
}

// ExtractReport is the data of the extract verb.
type ExtractReport struct {
	Extraction     *signals.Extraction     `json:"extraction" yaml:"extraction"`
	Classification detector.Classification `json:"classification" yaml:"classification"`
	Score          *models.PageScore       `json:"score,omitempty" yaml:"score,omitempty"`
}
