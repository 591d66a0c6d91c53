package signals

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/temoto/robotstxt"

	"github.com/dtnitsch/llm-readiness/models"
)

// DefaultSitemapMaxAge is how old the newest <lastmod> may be before a
// sitemap counts as stale.
const DefaultSitemapMaxAge = 180 * 24 * time.Hour

// BlockedCrawlers returns the agents, in the order given, that robots.txt
// does not allow to fetch the site root.
func BlockedCrawlers(robotsTxt string, agents []string) ([]string, error) {
	robots, err := robotstxt.FromString(robotsTxt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse robots.txt: %w", err)
	}
	var blocked []string
	for _, agent := range agents {
		if !robots.TestAgent("/", agent) {
			blocked = append(blocked, agent)
		}
	}
	return blocked, nil
}

// SitemapStatus is what a sitemap body says about itself.
type SitemapStatus struct {
	Valid        bool      `json:"valid" yaml:"valid"`
	Index        bool      `json:"index" yaml:"index"`
	Entries      int       `json:"entries" yaml:"entries"`
	LastModified time.Time `json:"last_modified,omitempty" yaml:"last_modified,omitempty"`
	Stale        bool      `json:"stale" yaml:"stale"`
}

type sitemapEntry struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod"`
}

type sitemapDoc struct {
	XMLName  xml.Name
	URLs     []sitemapEntry `xml:"url"`
	Sitemaps []sitemapEntry `xml:"sitemap"`
}

var lastmodLayouts = []string{time.RFC3339, "2006-01-02T15:04Z07:00", "2006-01-02"}

// ParseSitemap checks a urlset or sitemapindex body. A sitemap with no
// <lastmod> at all is never stale.
func ParseSitemap(body []byte, now time.Time, maxAge time.Duration) SitemapStatus {
	var doc sitemapDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return SitemapStatus{}
	}
	var entries []sitemapEntry
	st := SitemapStatus{}
	switch doc.XMLName.Local {
	case "urlset":
		entries = doc.URLs
	case "sitemapindex":
		entries = doc.Sitemaps
		st.Index = true
	default:
		return SitemapStatus{}
	}

	for _, e := range entries {
		if strings.TrimSpace(e.Loc) == "" {
			continue
		}
		st.Entries++
		if t, ok := parseLastMod(e.LastMod); ok && t.After(st.LastModified) {
			st.LastModified = t
		}
	}
	st.Valid = st.Entries > 0
	if st.Valid && !st.LastModified.IsZero() {
		st.Stale = now.Sub(st.LastModified) > maxAge
	}
	return st
}

func parseLastMod(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	for _, layout := range lastmodLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SiteFiles are the site-level bodies a crawler fetched. A nil pointer or
// slice means the file was not found.
type SiteFiles struct {
	RobotsTxt *string
	LLMsTxt   *string
	Sitemap   []byte
}

// SiteContext derives the site-wide signals shared by every page. An
// unparseable robots.txt blocks nobody.
func SiteContext(files SiteFiles, agents []string, now time.Time, maxAge time.Duration) models.SiteContext {
	site := models.SiteContext{
		HasRobotsTxt: files.RobotsTxt != nil,
		HasLLMsTxt:   files.LLMsTxt != nil && strings.TrimSpace(*files.LLMsTxt) != "",
		HasSitemap:   files.Sitemap != nil,
	}
	if files.RobotsTxt != nil {
		if blocked, err := BlockedCrawlers(*files.RobotsTxt, agents); err == nil {
			site.AICrawlersBlocked = blocked
		}
	}
	if site.HasSitemap {
		st := ParseSitemap(files.Sitemap, now, maxAge)
		site.SitemapValid = st.Valid
		site.SitemapStale = st.Stale
	}
	return site
}
