package audit

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/db"
	"github.com/dtnitsch/llm-readiness/pkg/engine"
	"github.com/dtnitsch/llm-readiness/pkg/insights"
	"github.com/dtnitsch/llm-readiness/pkg/metrics"
	"github.com/dtnitsch/llm-readiness/pkg/scoring"
	"github.com/dtnitsch/llm-readiness/pkg/signals"
)

// ErrProjectNotFound is returned when a run is stored against an unknown project.
var ErrProjectNotFound = errors.New("project not found")

// Audit scores every page of input. When database is not nil the scored
// pages, their scores and the captured insights are stored as a new completed
// crawl of cfg.ProjectID; on any storage error the crawl is marked failed.
// recorder may be nil.
func Audit(logger *slog.Logger, eng *engine.Engine, cfg models.AuditConfig, input []models.PageSignals, database *db.DB, recorder *metrics.Recorder) (*Report, error) {
	startTime := time.Now()

	var crawl *models.Crawl
	if database != nil {
		project, err := database.GetProject(cfg.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to load project: %w", err)
		}
		if project == nil {
			return nil, ErrProjectNotFound
		}
		crawl, err = database.CreateCrawl(project.ID, startTime)
		if err != nil {
			return nil, fmt.Errorf("failed to create crawl: %w", err)
		}
		logger.Info("Created crawl", "crawl_id", crawl.ID, "project_id", project.ID, "db", database.Path())
	}

	fail := func(err error) (*Report, error) {
		if crawl != nil {
			if ferr := database.FinishCrawl(crawl.ID, models.CrawlFailed, time.Now()); ferr != nil {
				logger.Warn("Failed to mark crawl failed", "crawl_id", crawl.ID, "error", ferr)
			}
		}
		return nil, err
	}

	pages := make([]scoring.Page, len(input))
	for i := range input {
		pages[i] = scoring.Page{ID: uuid.NewString(), Signals: &input[i]}
	}

	report := &Report{
		Scores: make([]models.PageScore, 0, len(input)),
		Stats:  Stats{TotalPages: len(input), Grades: make(map[string]int)},
	}
	// Only scored pages are stored; ungraded inputs are reported, not kept.
	records := make([]models.CrawledPage, 0, len(input))
	var overallSum int
	for _, result := range run(logger, eng, pages, cfg.WorkerCount, recorder) {
		if result.Score == nil {
			report.Ungraded = append(report.Ungraded, models.Ungraded{URL: result.URL, Reason: result.Error.Error()})
			continue
		}
		s := &input[result.Index]
		records = append(records, models.CrawledPage{
			ID:          result.Score.PageID,
			URL:         s.URL,
			WordCount:   s.WordCount,
			ContentType: eng.DetectContentType(s.URL, s.SchemaTypes).Type,
			ContentHash: s.ContentHash,
		})
		report.Scores = append(report.Scores, *result.Score)
		report.Stats.Grades[result.Score.LetterGrade]++
		overallSum += result.Score.OverallScore
	}
	report.Stats.Scored = len(report.Scores)
	report.Stats.Ungraded = len(report.Ungraded)
	if report.Stats.Scored > 0 {
		report.Stats.MeanOverall = float64(overallSum) / float64(report.Stats.Scored)
	}

	var all []models.Issue
	for _, s := range report.Scores {
		all = append(all, s.Issues...)
	}
	report.QuickWins = eng.QuickWins(report.Scores)
	report.Platforms = eng.PlatformReadiness(all, cfg.Resolved)

	if crawl != nil {
		for i := range records {
			records[i].CrawlID = crawl.ID
			if err := database.InsertPage(&records[i]); err != nil {
				return fail(err)
			}
			if err := database.SavePageScore(&report.Scores[i]); err != nil {
				return fail(err)
			}
		}
		capture := eng.CaptureInsights(insights.CrawlData{
			CrawlID:  crawl.ID,
			Pages:    records,
			Scores:   report.Scores,
			Resolved: cfg.Resolved,
		})
		if err := database.ReplaceInsights(crawl.ID, capture); err != nil {
			return fail(err)
		}
		if err := database.FinishCrawl(crawl.ID, models.CrawlComplete, time.Now()); err != nil {
			return fail(err)
		}
		report.CrawlID = crawl.ID
		logger.Info("Stored crawl", "crawl_id", crawl.ID, "scored", report.Stats.Scored, "ungraded", report.Stats.Ungraded)
	}

	report.Stats.TotalTimeSeconds = time.Since(startTime).Seconds()
	return report, nil
}

// ExtractInput is one fetched page plus the site files fetched alongside it.
type ExtractInput struct {
	Document signals.Document
	Site     signals.SiteFiles
	Now      time.Time
	Score    bool
}

// Extract turns raw page and site bodies into signals, classifies the page
// and optionally scores it.
func Extract(eng *engine.Engine, in ExtractInput) (*ExtractReport, error) {
	site := signals.SiteContext(in.Site, eng.Rules().AICrawlers, in.Now, signals.DefaultSitemapMaxAge)
	ex, err := signals.NewExtractor().Extract(in.Document, site)
	if err != nil {
		return nil, fmt.Errorf("failed to extract signals: %w", err)
	}

	report := &ExtractReport{
		Extraction:     ex,
		Classification: eng.DetectContentType(ex.Signals.URL, ex.Signals.SchemaTypes),
	}
	if in.Score {
		ps, err := eng.ScorePage(ex.Signals.URL, &ex.Signals)
		if err != nil {
			return nil, err
		}
		report.Score = ps
	}
	return report, nil
}
