package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/insights"
	"github.com/dtnitsch/llm-readiness/pkg/platform"
)

// InsertPage stores a crawled page. A page without an ID gets a generated one.
func (db *DB) InsertPage(page *models.CrawledPage) error {
	if page.ID == "" {
		page.ID = uuid.NewString()
	}
	_, err := db.Exec(`
		INSERT INTO pages (page_id, crawl_id, url, word_count, content_type, content_hash)
		VALUES (?, ?, ?, ?, ?, ?)
	`, page.ID, page.CrawlID, page.URL, page.WordCount, page.ContentType, page.ContentHash)
	if err != nil {
		return fmt.Errorf("failed to insert page: %w", err)
	}
	return nil
}

// CrawlPages returns the pages of a crawl in insertion order.
func (db *DB) CrawlPages(crawlID string) ([]models.CrawledPage, error) {
	rows, err := db.Query(`
		SELECT page_id, crawl_id, url, word_count, COALESCE(content_type, ''), COALESCE(content_hash, '')
		FROM pages
		WHERE crawl_id = ?
		ORDER BY rowid
	`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pages: %w", err)
	}
	defer rows.Close()

	var pages []models.CrawledPage
	for rows.Next() {
		var p models.CrawledPage
		if err := rows.Scan(&p.ID, &p.CrawlID, &p.URL, &p.WordCount, &p.ContentType, &p.ContentHash); err != nil {
			return nil, fmt.Errorf("failed to scan page: %w", err)
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// SavePageScore stores a page score and its issues in one transaction. The
// page must already exist.
func (db *DB) SavePageScore(ps *models.PageScore) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`
		INSERT INTO page_scores (page_id, overall_score, technical_score, content_score,
			ai_readiness_score, performance_score, letter_grade)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, ps.PageID, ps.OverallScore, ps.TechnicalScore, ps.ContentScore,
		ps.AIReadinessScore, ps.PerformanceScore, ps.LetterGrade)
	if err != nil {
		return fmt.Errorf("failed to insert page score: %w", err)
	}

	for _, issue := range ps.Issues {
		var data sql.NullString
		if issue.Data != nil {
			raw, err := json.Marshal(issue.Data)
			if err != nil {
				return fmt.Errorf("failed to marshal issue data: %w", err)
			}
			data = sql.NullString{String: string(raw), Valid: true}
		}
		_, err = tx.Exec(`
			INSERT INTO issues (page_id, code, category, severity, message, recommendation, data)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, ps.PageID, issue.Code, string(issue.Category), string(issue.Severity),
			issue.Message, issue.Recommendation, data)
		if err != nil {
			return fmt.Errorf("failed to insert issue %s: %w", issue.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit page score: %w", err)
	}
	return nil
}

// CrawlScores returns every page score of a crawl with its issues, in page
// insertion order.
func (db *DB) CrawlScores(crawlID string) ([]models.PageScore, error) {
	rows, err := db.Query(`
		SELECT p.page_id, p.url, s.overall_score, s.technical_score, s.content_score,
			s.ai_readiness_score, s.performance_score, s.letter_grade
		FROM page_scores s
		JOIN pages p ON p.page_id = s.page_id
		WHERE p.crawl_id = ?
		ORDER BY p.rowid
	`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("failed to query page scores: %w", err)
	}

	var scores []models.PageScore
	index := make(map[string]int)
	for rows.Next() {
		var s models.PageScore
		if err := rows.Scan(&s.PageID, &s.URL, &s.OverallScore, &s.TechnicalScore, &s.ContentScore,
			&s.AIReadinessScore, &s.PerformanceScore, &s.LetterGrade); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan page score: %w", err)
		}
		s.Issues = []models.Issue{}
		index[s.PageID] = len(scores)
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("failed to read page scores: %w", err)
	}
	_ = rows.Close()

	issues, err := db.crawlIssues(crawlID)
	if err != nil {
		return nil, err
	}
	for pageID, list := range issues {
		if i, ok := index[pageID]; ok {
			scores[i].Issues = list
		}
	}
	return scores, nil
}

func (db *DB) crawlIssues(crawlID string) (map[string][]models.Issue, error) {
	rows, err := db.Query(`
		SELECT i.page_id, i.code, i.category, i.severity, i.message, i.recommendation, i.data
		FROM issues i
		JOIN pages p ON p.page_id = i.page_id
		WHERE p.crawl_id = ?
		ORDER BY i.issue_id
	`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("failed to query issues: %w", err)
	}
	defer rows.Close()

	byPage := make(map[string][]models.Issue)
	for rows.Next() {
		var pageID, category, severity string
		var data sql.NullString
		var issue models.Issue
		if err := rows.Scan(&pageID, &issue.Code, &category, &severity,
			&issue.Message, &issue.Recommendation, &data); err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issue.Category = models.Category(category)
		issue.Severity = models.Severity(severity)
		if data.Valid {
			issue.Data = &models.IssueData{}
			if err := json.Unmarshal([]byte(data.String), issue.Data); err != nil {
				return nil, fmt.Errorf("failed to decode data of issue %s: %w", issue.Code, err)
			}
		}
		byPage[pageID] = append(byPage[pageID], issue)
	}
	return byPage, rows.Err()
}

// ReplaceInsights deletes any stored insights of the crawl and inserts the
// new set in one transaction, so capturing twice leaves one copy.
func (db *DB) ReplaceInsights(crawlID string, c insights.Capture) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM page_insights WHERE crawl_id = ?", crawlID); err != nil {
		return fmt.Errorf("failed to delete page insights: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM crawl_insights WHERE crawl_id = ?", crawlID); err != nil {
		return fmt.Errorf("failed to delete crawl insights: %w", err)
	}

	for _, ci := range c.CrawlInsights {
		raw, err := json.Marshal(ci.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal %s insight: %w", ci.Type, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO crawl_insights (crawl_id, type, data)
			VALUES (?, ?, ?)
		`, crawlID, ci.Type, string(raw)); err != nil {
			return fmt.Errorf("failed to insert %s insight: %w", ci.Type, err)
		}
	}
	for _, pi := range c.PageInsights {
		raw, err := json.Marshal(pi.Data)
		if err != nil {
			return fmt.Errorf("failed to marshal page insight: %w", err)
		}
		if _, err := tx.Exec(`
			INSERT INTO page_insights (crawl_id, page_id, url, type, data)
			VALUES (?, ?, ?, ?, ?)
		`, crawlID, pi.PageID, pi.URL, pi.Type, string(raw)); err != nil {
			return fmt.Errorf("failed to insert page insight for %s: %w", pi.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit insights: %w", err)
	}
	return nil
}

// CrawlInsights returns the stored crawl summaries with Data decoded into
// its concrete type.
func (db *DB) CrawlInsights(crawlID string) ([]insights.CrawlInsight, error) {
	rows, err := db.Query(`
		SELECT type, data
		FROM crawl_insights
		WHERE crawl_id = ?
		ORDER BY insight_id
	`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("failed to query crawl insights: %w", err)
	}
	defer rows.Close()

	var out []insights.CrawlInsight
	for rows.Next() {
		var typ, raw string
		if err := rows.Scan(&typ, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan crawl insight: %w", err)
		}
		data, err := decodeInsight(typ, []byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, insights.CrawlInsight{CrawlID: crawlID, Type: typ, Data: data})
	}
	return out, rows.Err()
}

func decodeInsight(typ string, raw []byte) (any, error) {
	var data any
	var err error
	switch typ {
	case insights.TypeScoreSummary:
		data, err = decodeAs[insights.ScoreSummary](raw)
	case insights.TypeIssueDistribution:
		data, err = decodeAs[insights.IssueDistribution](raw)
	case insights.TypeContentDepth:
		data, err = decodeAs[insights.ContentDepth](raw)
	case insights.TypePlatformReadiness:
		data, err = decodeAs[[]platform.Result](raw)
	default:
		data = json.RawMessage(raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s insight: %w", typ, err)
	}
	return data, nil
}

func decodeAs[T any](raw []byte) (T, error) {
	var v T
	err := json.Unmarshal(raw, &v)
	return v, err
}

// PageInsights returns the stored per-page summaries in insertion order.
func (db *DB) PageInsights(crawlID string) ([]insights.PageInsight, error) {
	rows, err := db.Query(`
		SELECT page_id, url, type, data
		FROM page_insights
		WHERE crawl_id = ?
		ORDER BY insight_id
	`, crawlID)
	if err != nil {
		return nil, fmt.Errorf("failed to query page insights: %w", err)
	}
	defer rows.Close()

	var out []insights.PageInsight
	for rows.Next() {
		pi := insights.PageInsight{CrawlID: crawlID}
		var raw string
		if err := rows.Scan(&pi.PageID, &pi.URL, &pi.Type, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan page insight: %w", err)
		}
		if err := json.Unmarshal([]byte(raw), &pi.Data); err != nil {
			return nil, fmt.Errorf("failed to decode page insight for %s: %w", pi.URL, err)
		}
		out = append(out, pi)
	}
	return out, rows.Err()
}

// InsertBenchmark appends a competitor score. Rows are never updated; a zero
// CreatedAt is set to now.
func (db *DB) InsertBenchmark(b *models.BenchmarkScore) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	b.CreatedAt = b.CreatedAt.UTC()
	result, err := db.Exec(`
		INSERT INTO benchmarks (project_id, competitor_domain, overall_score, technical_score,
			content_score, ai_readiness_score, performance_score, letter_grade, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, b.ProjectID, b.CompetitorDomain, b.OverallScore, b.TechnicalScore,
		b.ContentScore, b.AIReadinessScore, b.PerformanceScore, b.LetterGrade, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert benchmark: %w", err)
	}
	b.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get benchmark ID: %w", err)
	}
	return nil
}

// LatestBenchmarks returns every benchmark row of a project, newest first, so
// that keeping the first row per domain keeps the latest.
func (db *DB) LatestBenchmarks(projectID string) ([]models.BenchmarkScore, error) {
	rows, err := db.Query(`
		SELECT benchmark_id, project_id, competitor_domain, overall_score, technical_score,
			content_score, ai_readiness_score, performance_score, letter_grade, created_at
		FROM benchmarks
		WHERE project_id = ?
		ORDER BY created_at DESC, benchmark_id DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query benchmarks: %w", err)
	}
	defer rows.Close()

	var out []models.BenchmarkScore
	for rows.Next() {
		var b models.BenchmarkScore
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.CompetitorDomain, &b.OverallScore, &b.TechnicalScore,
			&b.ContentScore, &b.AIReadinessScore, &b.PerformanceScore, &b.LetterGrade, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan benchmark: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
