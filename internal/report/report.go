// Package report answers read-side questions about stored crawls: progress
// between crawls, captured insights and competitor benchmarks.
package report

import (
	"errors"
	"fmt"
	"time"

	"github.com/dtnitsch/llm-readiness/internal/common"
	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/benchmark"
	"github.com/dtnitsch/llm-readiness/pkg/db"
	"github.com/dtnitsch/llm-readiness/pkg/engine"
	"github.com/dtnitsch/llm-readiness/pkg/insights"
	"github.com/dtnitsch/llm-readiness/pkg/progress"
)

// Progress compares the two most recent completed crawls of a project.
func Progress(store progress.Store, userID, projectID string) (models.Response, error) {
	delta, err := progress.NewService(store).ProjectProgress(userID, projectID)
	if errors.Is(err, progress.ErrNotFound) {
		return models.NewNotFoundResponse("progress", "project"), nil
	}
	if err != nil {
		return models.Response{}, err
	}
	if delta == nil {
		return models.NewNoDataResponse("progress", "progress needs at least two completed crawls"), nil
	}
	return models.NewDataResponse("progress", delta), nil
}

// Insights returns the stored insights of a crawl, capturing them first when
// none are stored or refresh is set.
func Insights(database *db.DB, eng *engine.Engine, crawlID string, refresh bool, resolved []string) (models.Response, error) {
	crawl, err := database.GetCrawl(crawlID)
	if err != nil {
		return models.Response{}, err
	}
	if crawl == nil {
		return models.NewNotFoundResponse("insights", "crawl"), nil
	}

	if !refresh {
		stored, err := storedInsights(database, crawlID)
		if err != nil {
			return models.Response{}, err
		}
		if len(stored.CrawlInsights) > 0 {
			return models.NewDataResponse("insights", stored), nil
		}
	}

	if !crawl.IsComplete() {
		return models.NewNoDataResponse("insights", fmt.Sprintf("crawl %s is %s", crawlID, crawl.Status)), nil
	}
	pages, err := database.CrawlPages(crawlID)
	if err != nil {
		return models.Response{}, err
	}
	scores, err := database.CrawlScores(crawlID)
	if err != nil {
		return models.Response{}, err
	}
	if len(scores) == 0 {
		return models.NewNoDataResponse("insights", "crawl has no scored pages"), nil
	}

	capture := eng.CaptureInsights(insights.CrawlData{
		CrawlID:  crawlID,
		Pages:    pages,
		Scores:   scores,
		Resolved: resolved,
	})
	if err := database.ReplaceInsights(crawlID, capture); err != nil {
		return models.Response{}, err
	}
	return models.NewDataResponse("insights", capture), nil
}

func storedInsights(database *db.DB, crawlID string) (insights.Capture, error) {
	crawlInsights, err := database.CrawlInsights(crawlID)
	if err != nil {
		return insights.Capture{}, err
	}
	pageInsights, err := database.PageInsights(crawlID)
	if err != nil {
		return insights.Capture{}, err
	}
	return insights.Capture{CrawlInsights: crawlInsights, PageInsights: pageInsights}, nil
}

// ownedProject returns nil when the project is missing or owned by someone else.
func ownedProject(database *db.DB, userID, projectID string) (*models.Project, error) {
	project, err := database.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	if project == nil || project.OwnerID != userID {
		return nil, nil
	}
	return project, nil
}

// Benchmark ranks the project's latest completed crawl against the latest
// benchmark of each competitor.
func Benchmark(database *db.DB, eng *engine.Engine, userID, projectID string) (models.Response, error) {
	project, err := ownedProject(database, userID, projectID)
	if err != nil {
		return models.Response{}, err
	}
	if project == nil {
		return models.NewNotFoundResponse("benchmark", "project"), nil
	}

	crawls, err := database.CompletedCrawls(project.ID, 1)
	if err != nil {
		return models.Response{}, err
	}
	if len(crawls) == 0 {
		return models.NewNoDataResponse("benchmark", "project has no completed crawl"), nil
	}
	scores, err := database.CrawlScores(crawls[0].ID)
	if err != nil {
		return models.Response{}, err
	}

	rows, err := database.LatestBenchmarks(project.ID)
	if err != nil {
		return models.Response{}, err
	}
	if len(rows) == 0 {
		return models.NewErrorResponse("benchmark", models.ErrorTypeNoData, "no competitor benchmarks stored",
			"Add one with 'benchmark add --domain <competitor> --input <signals>'"), nil
	}

	summary := benchmark.SummaryFromScores(project.Domain, scores)
	return models.NewDataResponse("benchmark", eng.Benchmark(summary, rows)), nil
}

// AddBenchmark scores a competitor homepage and appends it as a benchmark row.
func AddBenchmark(database *db.DB, eng *engine.Engine, userID, projectID, domain string, homepage *models.PageSignals, now time.Time) (models.Response, error) {
	project, err := ownedProject(database, userID, projectID)
	if err != nil {
		return models.Response{}, err
	}
	if project == nil {
		return models.NewNotFoundResponse("benchmark add", "project"), nil
	}

	normalized := common.NormalizeDomain(domain)
	if normalized == "" {
		return models.NewErrorResponse("benchmark add", models.ErrorTypeInvalid,
			fmt.Sprintf("invalid competitor domain %q", domain)), nil
	}

	ps, err := eng.ScorePage(normalized, homepage)
	if err != nil {
		return models.NewErrorResponse("benchmark add", models.ErrorTypeInvalid, err.Error(),
			"Competitor signals need a url and a status_code"), nil
	}

	row := benchmark.FromPageScore(project.ID, normalized, ps)
	row.CreatedAt = now
	if err := database.InsertBenchmark(&row); err != nil {
		return models.Response{}, err
	}
	return models.NewDataResponse("benchmark add", row), nil
}
