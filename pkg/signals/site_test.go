package signals

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var aiAgents = []string{"GPTBot", "ClaudeBot", "PerplexityBot", "CCBot"}

func TestBlockedCrawlers(t *testing.T) {
	tests := []struct {
		name   string
		robots string
		want   []string
	}{
		{
			name:   "specific agents blocked",
			robots: "User-agent: GPTBot\nDisallow: /\n\nUser-agent: CCBot\nDisallow: /\n\nUser-agent: *\nAllow: /\n",
			want:   []string{"GPTBot", "CCBot"},
		},
		{
			name:   "everything blocked",
			robots: "User-agent: *\nDisallow: /\n",
			want:   aiAgents,
		},
		{
			name:   "partial disallow does not block the root",
			robots: "User-agent: ClaudeBot\nDisallow: /private/\n",
			want:   nil,
		},
		{
			name:   "empty file",
			robots: "",
			want:   nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BlockedCrawlers(tt.robots, aiAgents)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSitemap(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	fresh := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/</loc><lastmod>2025-05-20</lastmod></url>
  <url><loc>https://example.com/a</loc><lastmod>2024-01-01T10:00:00+00:00</lastmod></url>
  <url><loc> </loc></url>
</urlset>`)
	st := ParseSitemap(fresh, now, DefaultSitemapMaxAge)
	assert.True(t, st.Valid)
	assert.False(t, st.Index)
	assert.Equal(t, 2, st.Entries)
	assert.False(t, st.Stale)
	assert.Equal(t, time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), st.LastModified)

	stale := []byte(`<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <sitemap><loc>https://example.com/s1.xml</loc><lastmod>2023-02-01</lastmod></sitemap>
</sitemapindex>`)
	st = ParseSitemap(stale, now, DefaultSitemapMaxAge)
	assert.True(t, st.Valid)
	assert.True(t, st.Index)
	assert.True(t, st.Stale)

	undated := []byte(`<urlset><url><loc>https://example.com/</loc></url></urlset>`)
	st = ParseSitemap(undated, now, DefaultSitemapMaxAge)
	assert.True(t, st.Valid)
	assert.False(t, st.Stale)

	for _, bad := range []string{"", "<html><body>404</body></html>", "<urlset>", "<urlset></urlset>"} {
		assert.False(t, ParseSitemap([]byte(bad), now, DefaultSitemapMaxAge).Valid, bad)
	}
}

func TestSiteContext(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	robots := "User-agent: GPTBot\nDisallow: /\n"
	llms := "# Example\n> Summary\n"
	blank := "   "

	site := SiteContext(SiteFiles{
		RobotsTxt: &robots,
		LLMsTxt:   &llms,
		Sitemap:   []byte(`<urlset><url><loc>https://example.com/</loc><lastmod>2025-05-01</lastmod></url></urlset>`),
	}, aiAgents, now, DefaultSitemapMaxAge)
	assert.True(t, site.HasRobotsTxt)
	assert.True(t, site.HasLLMsTxt)
	assert.Equal(t, []string{"GPTBot"}, site.AICrawlersBlocked)
	assert.True(t, site.HasSitemap)
	assert.True(t, site.SitemapValid)
	assert.False(t, site.SitemapStale)

	site = SiteContext(SiteFiles{LLMsTxt: &blank, Sitemap: []byte("garbage")}, aiAgents, now, DefaultSitemapMaxAge)
	assert.False(t, site.HasRobotsTxt)
	assert.False(t, site.HasLLMsTxt)
	assert.Empty(t, site.AICrawlersBlocked)
	assert.True(t, site.HasSitemap)
	assert.False(t, site.SitemapValid)
}
