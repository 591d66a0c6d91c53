package db

import (
	"reflect"
	"testing"
	"time"

	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/insights"
	"github.com/dtnitsch/llm-readiness/pkg/platform"
	"github.com/dtnitsch/llm-readiness/pkg/progress"
)

var _ progress.Store = (*DB)(nil)

// seedCrawl creates a project and a completed crawl.
func seedCrawl(t *testing.T, db *DB, owner string, completed time.Time) (*models.Project, *models.Crawl) {
	t.Helper()
	p, err := db.CreateProject(owner, "Example", "example.com")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	c := addCrawl(t, db, p.ID, completed)
	return p, c
}

func addCrawl(t *testing.T, db *DB, projectID string, completed time.Time) *models.Crawl {
	t.Helper()
	c, err := db.CreateCrawl(projectID, completed.Add(-time.Hour))
	if err != nil {
		t.Fatalf("CreateCrawl() error = %v", err)
	}
	if err := db.FinishCrawl(c.ID, models.CrawlComplete, completed); err != nil {
		t.Fatalf("FinishCrawl() error = %v", err)
	}
	return c
}

func addScoredPage(t *testing.T, db *DB, crawlID, url string, overall int, issues ...models.Issue) models.PageScore {
	t.Helper()
	page := &models.CrawledPage{CrawlID: crawlID, URL: url, WordCount: 900, ContentType: "blog_post"}
	if err := db.InsertPage(page); err != nil {
		t.Fatalf("InsertPage() error = %v", err)
	}
	if issues == nil {
		issues = []models.Issue{}
	}
	ps := models.PageScore{
		PageID:           page.ID,
		URL:              url,
		OverallScore:     overall,
		TechnicalScore:   overall,
		ContentScore:     overall,
		AIReadinessScore: overall,
		PerformanceScore: overall,
		LetterGrade:      models.LetterGrade(overall),
		Issues:           issues,
	}
	if err := db.SavePageScore(&ps); err != nil {
		t.Fatalf("SavePageScore() error = %v", err)
	}
	return ps
}

func TestPages_InsertionOrder(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, c := seedCrawl(t, db, "owner-1", time.Now())
	for _, u := range []string{"https://example.com/z", "https://example.com/a", "https://example.com/m"} {
		if err := db.InsertPage(&models.CrawledPage{CrawlID: c.ID, URL: u}); err != nil {
			t.Fatalf("InsertPage() error = %v", err)
		}
	}

	pages, err := db.CrawlPages(c.ID)
	if err != nil {
		t.Fatalf("CrawlPages() error = %v", err)
	}
	var urls []string
	for _, p := range pages {
		if p.ID == "" {
			t.Error("page stored without ID")
		}
		urls = append(urls, p.URL)
	}
	want := []string{"https://example.com/z", "https://example.com/a", "https://example.com/m"}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("CrawlPages() urls = %v, want %v", urls, want)
	}
}

func TestInsertPage_UnknownCrawl(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.InsertPage(&models.CrawledPage{CrawlID: "missing", URL: "https://example.com/"})
	if err == nil {
		t.Error("InsertPage() with unknown crawl should violate the foreign key")
	}
}

func TestCrawlScores_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, c := seedCrawl(t, db, "owner-1", time.Now())
	withIssues := addScoredPage(t, db, c.ID, "https://example.com/a", 55,
		models.Issue{
			Code:           "THIN_CONTENT",
			Category:       models.CategoryContent,
			Severity:       models.SeverityCritical,
			Message:        "Page has too little content",
			Recommendation: "Expand the page",
			Data:           &models.IssueData{Actual: 120, Threshold: 300},
		},
		models.Issue{
			Code:           "MISSING_LLMS_TXT",
			Category:       models.CategoryAIReadiness,
			Severity:       models.SeverityWarning,
			Message:        "No llms.txt",
			Recommendation: "Publish llms.txt",
		},
	)
	clean := addScoredPage(t, db, c.ID, "https://example.com/b", 95)

	scores, err := db.CrawlScores(c.ID)
	if err != nil {
		t.Fatalf("CrawlScores() error = %v", err)
	}
	want := []models.PageScore{withIssues, clean}
	if !reflect.DeepEqual(scores, want) {
		t.Errorf("CrawlScores() = %+v\nwant %+v", scores, want)
	}
	if scores[1].Issues == nil {
		t.Error("page without issues should have an empty, non-nil issue list")
	}

	other, err := db.CrawlScores("missing")
	if err != nil {
		t.Fatalf("CrawlScores() missing error = %v", err)
	}
	if len(other) != 0 {
		t.Errorf("CrawlScores() missing = %v, want empty", other)
	}
}

func TestReplaceInsights_Overwrites(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, c := seedCrawl(t, db, "owner-1", time.Now())
	ps := addScoredPage(t, db, c.ID, "https://example.com/a", 72)

	first := insights.Capture{
		CrawlInsights: []insights.CrawlInsight{
			{CrawlID: c.ID, Type: insights.TypeScoreSummary, Data: insights.ScoreSummary{PageCount: 1, MeanOverall: 72, Min: 72, Max: 72, Median: 72, GradeDistribution: map[string]int{"C": 1}}},
		},
		PageInsights: []insights.PageInsight{
			{CrawlID: c.ID, PageID: ps.PageID, URL: ps.URL, Type: insights.TypePageHotspot, Data: insights.PageHotspot{OverallScore: 72, LetterGrade: "C"}},
		},
	}
	second := insights.Capture{
		CrawlInsights: []insights.CrawlInsight{
			{CrawlID: c.ID, Type: insights.TypeScoreSummary, Data: insights.ScoreSummary{PageCount: 1, MeanOverall: 80, Min: 80, Max: 80, Median: 80, GradeDistribution: map[string]int{"B": 1}}},
			{CrawlID: c.ID, Type: insights.TypePlatformReadiness, Data: []platform.Result{{Platform: "Claude", PassRate: 100, Checks: []platform.CheckResult{{Code: "AI_CRAWLER_BLOCKED", Label: "AI crawlers allowed", Importance: "critical", Passed: true, Status: platform.StatusPass}}}}},
		},
		PageInsights: []insights.PageInsight{
			{CrawlID: c.ID, PageID: ps.PageID, URL: ps.URL, Type: insights.TypePageHotspot, Data: insights.PageHotspot{OverallScore: 80, LetterGrade: "B", IssueCount: 2, Warning: 2}},
		},
	}

	for _, capture := range []insights.Capture{first, second, second} {
		if err := db.ReplaceInsights(c.ID, capture); err != nil {
			t.Fatalf("ReplaceInsights() error = %v", err)
		}
	}

	crawlInsights, err := db.CrawlInsights(c.ID)
	if err != nil {
		t.Fatalf("CrawlInsights() error = %v", err)
	}
	if !reflect.DeepEqual(crawlInsights, second.CrawlInsights) {
		t.Errorf("CrawlInsights() = %+v\nwant %+v", crawlInsights, second.CrawlInsights)
	}

	pageInsights, err := db.PageInsights(c.ID)
	if err != nil {
		t.Fatalf("PageInsights() error = %v", err)
	}
	if !reflect.DeepEqual(pageInsights, second.PageInsights) {
		t.Errorf("PageInsights() = %+v\nwant %+v", pageInsights, second.PageInsights)
	}
}

func TestReplaceInsights_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, c := seedCrawl(t, db, "owner-1", time.Now())
	ps := addScoredPage(t, db, c.ID, "https://example.com/a", 72)
	good := insights.Capture{
		PageInsights: []insights.PageInsight{
			{CrawlID: c.ID, PageID: ps.PageID, URL: ps.URL, Type: insights.TypePageHotspot, Data: insights.PageHotspot{OverallScore: 72}},
		},
	}
	if err := db.ReplaceInsights(c.ID, good); err != nil {
		t.Fatalf("ReplaceInsights() error = %v", err)
	}

	bad := insights.Capture{
		PageInsights: []insights.PageInsight{
			{CrawlID: c.ID, PageID: "no-such-page", URL: "https://example.com/x", Type: insights.TypePageHotspot},
		},
	}
	if err := db.ReplaceInsights(c.ID, bad); err == nil {
		t.Fatal("ReplaceInsights() with unknown page should fail")
	}

	pageInsights, err := db.PageInsights(c.ID)
	if err != nil {
		t.Fatalf("PageInsights() error = %v", err)
	}
	if !reflect.DeepEqual(pageInsights, good.PageInsights) {
		t.Errorf("failed replace should keep the previous set, got %+v", pageInsights)
	}
}

func TestLatestBenchmarks_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	p, _ := seedCrawl(t, db, "owner-1", time.Now())
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := []models.BenchmarkScore{
		{ProjectID: p.ID, CompetitorDomain: "rival.com", OverallScore: 60, LetterGrade: "D", CreatedAt: base},
		{ProjectID: p.ID, CompetitorDomain: "other.com", OverallScore: 75, LetterGrade: "C", CreatedAt: base.Add(time.Hour)},
		{ProjectID: p.ID, CompetitorDomain: "rival.com", OverallScore: 82, LetterGrade: "B", CreatedAt: base.Add(2 * time.Hour)},
	}
	for i := range rows {
		if err := db.InsertBenchmark(&rows[i]); err != nil {
			t.Fatalf("InsertBenchmark() error = %v", err)
		}
		if rows[i].ID == 0 {
			t.Error("InsertBenchmark() did not set ID")
		}
	}

	got, err := db.LatestBenchmarks(p.ID)
	if err != nil {
		t.Fatalf("LatestBenchmarks() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("LatestBenchmarks() returned %d rows, want 3", len(got))
	}
	if got[0].CompetitorDomain != "rival.com" || got[0].OverallScore != 82 {
		t.Errorf("first row = %+v, want latest rival.com row", got[0])
	}
	if got[1].CompetitorDomain != "other.com" || got[2].OverallScore != 60 {
		t.Errorf("rows out of order: %+v", got)
	}
	if !got[0].CreatedAt.Equal(rows[2].CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got[0].CreatedAt, rows[2].CreatedAt)
	}
}

func TestProgressService_WithStore(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	base := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	p, older := seedCrawl(t, db, "owner-1", base)
	addScoredPage(t, db, older.ID, "https://example.com/a", 60)
	newer := addCrawl(t, db, p.ID, base.AddDate(0, 0, 7))
	addScoredPage(t, db, newer.ID, "https://example.com/a", 80)

	svc := progress.NewService(db)

	delta, err := svc.ProjectProgress("owner-1", p.ID)
	if err != nil {
		t.Fatalf("ProjectProgress() error = %v", err)
	}
	if delta == nil {
		t.Fatal("ProjectProgress() = nil, want a delta")
	}
	if delta.CurrentCrawlID != newer.ID || delta.PreviousCrawlID != older.ID {
		t.Errorf("crawl ids = %s/%s, want %s/%s", delta.CurrentCrawlID, delta.PreviousCrawlID, newer.ID, older.ID)
	}
	if delta.ScoreDelta != 20 {
		t.Errorf("ScoreDelta = %v, want 20", delta.ScoreDelta)
	}

	if _, err := svc.ProjectProgress("someone-else", p.ID); err != progress.ErrNotFound {
		t.Errorf("ProjectProgress() for non-owner error = %v, want ErrNotFound", err)
	}
}
