// Package engine bundles one ruleset with every scoring operation so callers
// configure rules once.
package engine

import (
	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/benchmark"
	"github.com/dtnitsch/llm-readiness/pkg/citation"
	"github.com/dtnitsch/llm-readiness/pkg/detector"
	"github.com/dtnitsch/llm-readiness/pkg/insights"
	"github.com/dtnitsch/llm-readiness/pkg/platform"
	"github.com/dtnitsch/llm-readiness/pkg/progress"
	"github.com/dtnitsch/llm-readiness/pkg/quickwins"
	"github.com/dtnitsch/llm-readiness/pkg/rules"
	"github.com/dtnitsch/llm-readiness/pkg/scoring"
	"github.com/dtnitsch/llm-readiness/pkg/visibility"
)

// Engine is safe for concurrent use; it holds no mutable state.
type Engine struct {
	rules *rules.Ruleset
}

// New returns an engine over rs. A nil rs means rules.Default().
func New(rs *rules.Ruleset) *Engine {
	if rs == nil {
		rs = rules.Default()
	}
	return &Engine{rules: rs}
}

// Rules returns the ruleset the engine was built with.
func (e *Engine) Rules() *rules.Ruleset {
	return e.rules
}

func (e *Engine) DetectContentType(rawURL string, schemaTypes []string) detector.Classification {
	return detector.DetectContentType(rawURL, schemaTypes, e.rules)
}

func (e *Engine) ScorePage(pageID string, s *models.PageSignals) (*models.PageScore, error) {
	return scoring.ScorePage(pageID, s, e.rules)
}

func (e *Engine) ScoreBatch(pages []scoring.Page) ([]models.PageScore, []models.Ungraded) {
	return scoring.ScoreBatch(pages, e.rules)
}

// QuickWins ranks the issues of a crawl's scored pages.
func (e *Engine) QuickWins(scores []models.PageScore) []models.QuickWin {
	return quickwins.FromScores(scores, e.rules)
}

func (e *Engine) PlatformReadiness(list []models.Issue, resolved []string) []platform.Result {
	return platform.Evaluate(e.rules.Platforms, list, resolved)
}

func (e *Engine) CitationReadiness(in citation.Input) citation.Result {
	return citation.Compute(in, e.rules)
}

func (e *Engine) AIVisibility(r visibility.Rates) models.AIVisibilityScore {
	return visibility.Compute(r)
}

func (e *Engine) Progress(current, previous *progress.Snapshot) *models.ProgressDelta {
	return progress.Compute(current, previous)
}

func (e *Engine) CaptureInsights(data insights.CrawlData) insights.Capture {
	return insights.CaptureInsights(data, e.rules)
}

func (e *Engine) Benchmark(project benchmark.Summary, rows []models.BenchmarkScore) benchmark.Comparison {
	return benchmark.Compare(project, rows)
}
