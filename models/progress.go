package models

// CategoryDeltas are the per-category changes in mean sub-score.
type CategoryDeltas struct {
	Technical   float64 `json:"technical" yaml:"technical"`
	Content     float64 `json:"content" yaml:"content"`
	AIReadiness float64 `json:"ai_readiness" yaml:"ai_readiness"`
	Performance float64 `json:"performance" yaml:"performance"`
}

// PageDelta is the overall score change of one URL between two crawls.
type PageDelta struct {
	URL           string `json:"url" yaml:"url"`
	PreviousScore int    `json:"previous_score" yaml:"previous_score"`
	CurrentScore  int    `json:"current_score" yaml:"current_score"`
	Delta         int    `json:"delta" yaml:"delta"`
}

// GradeChanges counts URLs whose letter grade moved.
type GradeChanges struct {
	Improved  int `json:"improved" yaml:"improved"`
	Regressed int `json:"regressed" yaml:"regressed"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
}

// ProgressDelta compares two completed crawls of the same project.
// It is always derived on demand and never stored.
type ProgressDelta struct {
	CurrentCrawlID    string         `json:"current_crawl_id" yaml:"current_crawl_id"`
	PreviousCrawlID   string         `json:"previous_crawl_id" yaml:"previous_crawl_id"`
	CurrentScore      float64        `json:"current_score" yaml:"current_score"`
	PreviousScore     float64        `json:"previous_score" yaml:"previous_score"`
	ScoreDelta        float64        `json:"score_delta" yaml:"score_delta"`
	Velocity          float64        `json:"velocity" yaml:"velocity"` // points per crawl
	CategoryDeltas    CategoryDeltas `json:"category_deltas" yaml:"category_deltas"`
	IssuesFixed       int            `json:"issues_fixed" yaml:"issues_fixed"`
	IssuesNew         int            `json:"issues_new" yaml:"issues_new"`
	IssuesPersisting  int            `json:"issues_persisting" yaml:"issues_persisting"`
	TopImprovedPages  []PageDelta    `json:"top_improved_pages" yaml:"top_improved_pages"`
	TopRegressedPages []PageDelta    `json:"top_regressed_pages" yaml:"top_regressed_pages"`
	GradeChanges      GradeChanges   `json:"grade_changes" yaml:"grade_changes"`
}
