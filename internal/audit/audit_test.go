package audit

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/db"
	"github.com/dtnitsch/llm-readiness/pkg/engine"
	"github.com/dtnitsch/llm-readiness/pkg/metrics"
	"github.com/dtnitsch/llm-readiness/pkg/signals"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func samplePages() []models.PageSignals {
	return []models.PageSignals{
		{URL: "https://example.com/", StatusCode: 200, Title: "Example home page for testing", WordCount: 900},
		{URL: "", StatusCode: 200},
		{URL: "https://example.com/blog/post", StatusCode: 200, WordCount: 100},
		{URL: "https://example.com/gone", StatusCode: 404},
		{URL: "https://example.com/docs/start", StatusCode: 200, WordCount: 1500},
	}
}

func TestAudit_WithoutDatabase(t *testing.T) {
	cfg := models.AuditConfig{WorkerCount: 3}
	report, err := Audit(discardLogger(), engine.New(nil), cfg, samplePages(), nil, nil)
	require.NoError(t, err)

	assert.Empty(t, report.CrawlID)
	assert.Equal(t, 5, report.Stats.TotalPages)
	assert.Equal(t, 4, report.Stats.Scored)
	assert.Equal(t, 1, report.Stats.Ungraded)

	var urls []string
	for _, s := range report.Scores {
		urls = append(urls, s.URL)
		assert.NotEmpty(t, s.PageID)
	}
	assert.Equal(t, []string{
		"https://example.com/",
		"https://example.com/blog/post",
		"https://example.com/gone",
		"https://example.com/docs/start",
	}, urls)

	require.Len(t, report.Ungraded, 1)
	assert.Contains(t, report.Ungraded[0].Reason, "url is required")

	assert.NotEmpty(t, report.QuickWins)
	assert.Len(t, report.Platforms, len(engine.New(nil).Rules().Platforms))
}

func TestAudit_StoresCrawl(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	defer database.Close()

	project, err := database.CreateProject("owner-1", "Example", "example.com")
	require.NoError(t, err)

	recorder := metrics.New()
	cfg := models.AuditConfig{WorkerCount: 2, ProjectID: project.ID}
	report, err := Audit(discardLogger(), engine.New(nil), cfg, samplePages(), database, recorder)
	require.NoError(t, err)
	require.NotEmpty(t, report.CrawlID)

	crawls, err := database.CompletedCrawls(project.ID, 5)
	require.NoError(t, err)
	require.Len(t, crawls, 1)
	assert.Equal(t, report.CrawlID, crawls[0].ID)

	// the ungraded input is reported but not stored
	pages, err := database.CrawlPages(report.CrawlID)
	require.NoError(t, err)
	require.Len(t, pages, 4)
	for i, p := range pages {
		assert.NotEmpty(t, p.URL)
		assert.Equal(t, report.Scores[i].PageID, p.ID)
	}

	stored, err := database.CrawlScores(report.CrawlID)
	require.NoError(t, err)
	assert.Equal(t, report.Scores, stored)

	crawlInsights, err := database.CrawlInsights(report.CrawlID)
	require.NoError(t, err)
	assert.NotEmpty(t, crawlInsights)
	pageInsights, err := database.PageInsights(report.CrawlID)
	require.NoError(t, err)
	assert.Len(t, pageInsights, 4)

	path := filepath.Join(t.TempDir(), "audit.prom")
	require.NoError(t, recorder.WriteToTextfile(path))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "llm_readiness_pages_ungraded_total 1")
	assert.Contains(t, string(raw), "llm_readiness_overall_score_count 4")
}

func TestAudit_MarksCrawlFailedWhenFinishFails(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	defer database.Close()

	project, err := database.CreateProject("owner-1", "Example", "example.com")
	require.NoError(t, err)

	_, err = database.Exec(`
		CREATE TRIGGER refuse_complete BEFORE UPDATE ON crawls
		WHEN NEW.status = 'complete'
		BEGIN SELECT RAISE(ABORT, 'completion refused'); END`)
	require.NoError(t, err)

	cfg := models.AuditConfig{WorkerCount: 2, ProjectID: project.ID}
	_, err = Audit(discardLogger(), engine.New(nil), cfg, samplePages(), database, nil)
	require.Error(t, err)

	var status string
	require.NoError(t, database.QueryRow("SELECT status FROM crawls WHERE project_id = ?", project.ID).Scan(&status))
	assert.Equal(t, string(models.CrawlFailed), status)

	crawls, err := database.CompletedCrawls(project.ID, 5)
	require.NoError(t, err)
	assert.Empty(t, crawls)
}

func TestAudit_UnknownProject(t *testing.T) {
	database, err := db.Open(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	defer database.Close()

	cfg := models.AuditConfig{WorkerCount: 1, ProjectID: "missing"}
	_, err = Audit(discardLogger(), engine.New(nil), cfg, samplePages(), database, nil)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestExtract(t *testing.T) {
	html := `<html lang="en"><head><title>Getting started with the example API</title></head>
<body><h1>Getting started</h1><p>Install the client and call the endpoint.</p></body></html>`
	robots := "User-agent: GPTBot\nDisallow: /\n"

	report, err := Extract(engine.New(nil), ExtractInput{
		Document: signals.Document{URL: "https://example.com/docs/getting-started", StatusCode: 200, HTML: html},
		Site:     signals.SiteFiles{RobotsTxt: &robots},
		Now:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Score:    true,
	})
	require.NoError(t, err)

	s := report.Extraction.Signals
	assert.Equal(t, "Getting started with the example API", s.Title)
	assert.Equal(t, []string{"GPTBot"}, s.Site.AICrawlersBlocked)
	assert.NotEmpty(t, report.Classification.Type)

	require.NotNil(t, report.Score)
	codes := make(map[string]bool)
	for _, issue := range report.Score.Issues {
		codes[issue.Code] = true
	}
	assert.True(t, codes["AI_CRAWLER_BLOCKED"])
	assert.True(t, codes["THIN_CONTENT"])
}

func TestExtract_BadURL(t *testing.T) {
	_, err := Extract(engine.New(nil), ExtractInput{
		Document: signals.Document{URL: "http://[::1", StatusCode: 200},
	})
	assert.Error(t, err)
}
