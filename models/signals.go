// Package models defines the data structures shared by the scoring engine,
// the persistence layer and the CLI.
package models

import "errors"

var (
	// ErrMissingURL is returned when a page has no URL to score.
	ErrMissingURL = errors.New("page signals: url is required")
	// ErrMissingStatusCode is returned when a page has no HTTP status.
	ErrMissingStatusCode = errors.New("page signals: status code is required")
)

// PageSignals is everything the extractor learned about a single page.
// It is treated as immutable once built.
type PageSignals struct {
	URL             string `json:"url" yaml:"url"`
	StatusCode      int    `json:"status_code" yaml:"status_code"`
	Title           string `json:"title,omitempty" yaml:"title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty" yaml:"meta_description,omitempty"`
	CanonicalURL    string `json:"canonical_url,omitempty" yaml:"canonical_url,omitempty"`
	WordCount       int    `json:"word_count" yaml:"word_count"`
	ContentHash     string `json:"content_hash,omitempty" yaml:"content_hash,omitempty"`

	Headings    Headings `json:"headings" yaml:"headings"`
	SchemaTypes []string `json:"schema_types,omitempty" yaml:"schema_types,omitempty"`

	InternalLinks    []string `json:"internal_links,omitempty" yaml:"internal_links,omitempty"`
	ExternalLinks    []string `json:"external_links,omitempty" yaml:"external_links,omitempty"`
	ImageCount       int      `json:"image_count,omitempty" yaml:"image_count,omitempty"`
	ImagesWithoutAlt int      `json:"images_without_alt,omitempty" yaml:"images_without_alt,omitempty"`

	RobotsDirectives []string          `json:"robots_directives,omitempty" yaml:"robots_directives,omitempty"`
	OGTags           map[string]string `json:"og_tags,omitempty" yaml:"og_tags,omitempty"`
	StructuredData   []map[string]any  `json:"structured_data,omitempty" yaml:"structured_data,omitempty"`

	Lang             string   `json:"lang,omitempty" yaml:"lang,omitempty"`                           // html lang attribute
	DetectedLanguage string   `json:"detected_language,omitempty" yaml:"detected_language,omitempty"` // ISO 639-1 from body text
	Readability      *float64 `json:"readability,omitempty" yaml:"readability,omitempty"`             // Flesch reading ease

	Lighthouse *LighthouseScores `json:"lighthouse,omitempty" yaml:"lighthouse,omitempty"`
	LLMRubric  *LLMRubric        `json:"llm_rubric,omitempty" yaml:"llm_rubric,omitempty"`

	Site SiteContext `json:"site" yaml:"site"`
}

// Headings holds heading text per level.
type Headings struct {
	H1 []string `json:"h1,omitempty" yaml:"h1,omitempty"`
	H2 []string `json:"h2,omitempty" yaml:"h2,omitempty"`
	H3 []string `json:"h3,omitempty" yaml:"h3,omitempty"`
	H4 []string `json:"h4,omitempty" yaml:"h4,omitempty"`
	H5 []string `json:"h5,omitempty" yaml:"h5,omitempty"`
	H6 []string `json:"h6,omitempty" yaml:"h6,omitempty"`
}

// Levels returns the heading lists ordered h1..h6.
func (h Headings) Levels() [6][]string {
	return [6][]string{h.H1, h.H2, h.H3, h.H4, h.H5, h.H6}
}

// All returns every heading in level order.
func (h Headings) All() []string {
	var all []string
	for _, level := range h.Levels() {
		all = append(all, level...)
	}
	return all
}

// LighthouseScores are the four Lighthouse category scores, each 0-1.
type LighthouseScores struct {
	Performance   float64 `json:"performance" yaml:"performance"`
	SEO           float64 `json:"seo" yaml:"seo"`
	Accessibility float64 `json:"accessibility" yaml:"accessibility"`
	BestPractices float64 `json:"best_practices" yaml:"best_practices"`
}

// LLMRubric is the externally computed content rubric, each dimension 0-100.
type LLMRubric struct {
	Clarity            float64 `json:"clarity" yaml:"clarity"`
	Authority          float64 `json:"authority" yaml:"authority"`
	Comprehensiveness  float64 `json:"comprehensiveness" yaml:"comprehensiveness"`
	Structure          float64 `json:"structure" yaml:"structure"`
	CitationWorthiness float64 `json:"citation_worthiness" yaml:"citation_worthiness"`
}

// ContentAverage is the equally weighted mean of the four content dimensions.
func (r *LLMRubric) ContentAverage() float64 {
	return (r.Clarity + r.Authority + r.Comprehensiveness + r.Structure) / 4
}

// SiteContext carries site-wide signals shared by every page of a crawl.
type SiteContext struct {
	HasLLMsTxt        bool     `json:"has_llms_txt" yaml:"has_llms_txt"`
	HasRobotsTxt      bool     `json:"has_robots_txt" yaml:"has_robots_txt"`
	AICrawlersBlocked []string `json:"ai_crawlers_blocked,omitempty" yaml:"ai_crawlers_blocked,omitempty"`
	HasSitemap        bool     `json:"has_sitemap" yaml:"has_sitemap"`
	SitemapValid      bool     `json:"sitemap_valid" yaml:"sitemap_valid"`
	SitemapStale      bool     `json:"sitemap_stale" yaml:"sitemap_stale"`
}

// Validate checks the required fields. Optional signals are never validated.
func (s *PageSignals) Validate() error {
	if s == nil || s.URL == "" {
		return ErrMissingURL
	}
	if s.StatusCode <= 0 {
		return ErrMissingStatusCode
	}
	return nil
}
