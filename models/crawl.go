package models

import "time"

// CrawlStatus is the lifecycle state of a crawl.
type CrawlStatus string

const (
	CrawlPending  CrawlStatus = "pending"
	CrawlRunning  CrawlStatus = "running"
	CrawlComplete CrawlStatus = "complete"
	CrawlFailed   CrawlStatus = "failed"
)

// Project is a customer site being audited.
type Project struct {
	ID      string `json:"id" yaml:"id"`
	OwnerID string `json:"owner_id" yaml:"owner_id"`
	Name    string `json:"name" yaml:"name"`
	Domain  string `json:"domain" yaml:"domain"`
}

// Crawl is one audit run over a project.
type Crawl struct {
	ID          string      `json:"id" yaml:"id"`
	ProjectID   string      `json:"project_id" yaml:"project_id"`
	Status      CrawlStatus `json:"status" yaml:"status"`
	StartedAt   time.Time   `json:"started_at" yaml:"started_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// IsComplete reports whether the crawl finished successfully.
func (c *Crawl) IsComplete() bool {
	return c != nil && c.Status == CrawlComplete
}

// CrawledPage is the stored record of one page in a crawl.
type CrawledPage struct {
	ID          string `json:"id" yaml:"id"`
	CrawlID     string `json:"crawl_id" yaml:"crawl_id"`
	URL         string `json:"url" yaml:"url"`
	WordCount   int    `json:"word_count" yaml:"word_count"`
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	ContentHash string `json:"content_hash,omitempty" yaml:"content_hash,omitempty"`
}

// BenchmarkScore is a competitor domain scored like a page. One row per
// (project, domain, crawl time); rows are never updated.
type BenchmarkScore struct {
	ID               int64     `json:"id" yaml:"id"`
	ProjectID        string    `json:"project_id" yaml:"project_id"`
	CompetitorDomain string    `json:"competitor_domain" yaml:"competitor_domain"`
	OverallScore     int       `json:"overall_score" yaml:"overall_score"`
	TechnicalScore   int       `json:"technical_score" yaml:"technical_score"`
	ContentScore     int       `json:"content_score" yaml:"content_score"`
	AIReadinessScore int       `json:"ai_readiness_score" yaml:"ai_readiness_score"`
	PerformanceScore int       `json:"performance_score" yaml:"performance_score"`
	LetterGrade      string    `json:"letter_grade" yaml:"letter_grade"`
	CreatedAt        time.Time `json:"created_at" yaml:"created_at"`
}
