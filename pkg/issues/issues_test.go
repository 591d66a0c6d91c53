package issues

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/rules"
)

func codes(issues []models.Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Code)
	}
	return out
}

func checked(checks []Check, code string) bool {
	for _, c := range checks {
		if c.Code == code {
			return true
		}
	}
	return false
}

// healthyPage passes every rule in the default catalog.
func healthyPage() *models.PageSignals {
	readability := 65.0
	return &models.PageSignals{
		URL:              "https://example.com/guide",
		StatusCode:       200,
		Title:            "The complete guide to structured data",
		MetaDescription:  "Learn how structured data helps search and answer engines understand your pages, with examples.",
		CanonicalURL:     "https://example.com/guide",
		WordCount:        1500,
		Headings:         models.Headings{H1: []string{"Structured data"}, H2: []string{"What is JSON-LD?", "Examples"}},
		SchemaTypes:      []string{"Article"},
		InternalLinks:    []string{"https://example.com/"},
		ExternalLinks:    []string{"https://schema.org/"},
		ImageCount:       2,
		OGTags:           map[string]string{"og:title": "Guide"},
		Lang:             "en-US",
		DetectedLanguage: "en",
		Readability:      &readability,
		Lighthouse:       &models.LighthouseScores{Performance: 0.9, SEO: 0.95, Accessibility: 0.9, BestPractices: 0.9},
		LLMRubric:        &models.LLMRubric{Clarity: 80, Authority: 70, Comprehensiveness: 75, Structure: 85, CitationWorthiness: 72},
		Site:             models.SiteContext{HasLLMsTxt: true, HasRobotsTxt: true, HasSitemap: true, SitemapValid: true},
	}
}

func TestDetect_HealthyPage(t *testing.T) {
	res, err := Detect(healthyPage(), rules.Default())
	require.NoError(t, err)
	assert.Empty(t, res.Issues)
	assert.Len(t, res.Checks, len(ruleOrder))
	assert.False(t, res.GateFailed())
}

func TestDetect_RequiredFields(t *testing.T) {
	rs := rules.Default()

	_, err := Detect(&models.PageSignals{StatusCode: 200}, rs)
	assert.True(t, errors.Is(err, models.ErrMissingURL))

	_, err = Detect(&models.PageSignals{URL: "https://example.com"}, rs)
	assert.True(t, errors.Is(err, models.ErrMissingStatusCode))

	_, err = Detect(nil, rs)
	assert.True(t, errors.Is(err, models.ErrMissingURL))
}

func TestDetect_EmptyPage(t *testing.T) {
	s := &models.PageSignals{
		URL:        "https://example.com/empty",
		StatusCode: 200,
		Site:       models.SiteContext{AICrawlersBlocked: []string{"GPTBot", "ClaudeBot"}},
	}
	res, err := Detect(s, rules.Default())
	require.NoError(t, err)

	critical := map[string]bool{}
	for _, i := range res.Issues {
		if i.Severity == models.SeverityCritical {
			critical[i.Code] = true
		}
	}
	assert.True(t, critical[rules.CodeMissingTitle])
	assert.True(t, critical[rules.CodeThinContent])
	assert.True(t, critical[rules.CodeAICrawlerBlocked])

	for _, i := range res.Issues {
		if i.Code == rules.CodeAICrawlerBlocked {
			require.NotNil(t, i.Data)
			assert.Equal(t, []string{"GPTBot", "ClaudeBot"}, i.Data.Crawlers)
		}
		if i.Code == rules.CodeThinContent {
			require.NotNil(t, i.Data)
			assert.Equal(t, 0, i.Data.Actual)
			assert.Equal(t, 300.0, i.Data.Threshold)
		}
	}
}

func TestDetect_OptionalInputsSuppressRules(t *testing.T) {
	s := healthyPage()
	s.Lighthouse = nil
	s.LLMRubric = nil
	s.Readability = nil
	s.DetectedLanguage = ""

	res, err := Detect(s, rules.Default())
	require.NoError(t, err)
	for _, code := range []string{
		rules.CodePoorPerformance, rules.CodePoorSEO, rules.CodePoorAccessibility, rules.CodePoorBestPractices,
		rules.CodeLowClarity, rules.CodeLowAuthority, rules.CodeLowComprehensiveness, rules.CodeWeakStructure,
		rules.CodeLowCitationWorthiness, rules.CodePoorReadability, rules.CodeLanguageMismatch,
	} {
		assert.False(t, checked(res.Checks, code), code)
	}
	assert.Empty(t, res.Issues)
}

func TestDetect_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *models.PageSignals)
		want   []string
	}{
		{"http error", func(s *models.PageSignals) { s.StatusCode = 404 }, []string{rules.CodeHTTPError}},
		{"noindex", func(s *models.PageSignals) { s.RobotsDirectives = []string{"NoIndex, follow"} }, []string{rules.CodeNoindex}},
		{"short title", func(s *models.PageSignals) { s.Title = "Hi" }, []string{rules.CodeTitleLength}},
		{"two h1", func(s *models.PageSignals) { s.Headings.H1 = []string{"a", "b"} }, []string{rules.CodeMultipleH1}},
		{"skipped level", func(s *models.PageSignals) { s.Headings.H4 = []string{"deep"} }, []string{rules.CodeHeadingHierarchy}},
		{"alt text", func(s *models.PageSignals) { s.ImagesWithoutAlt = 1 }, []string{rules.CodeMissingAltText}},
		{"invalid sitemap", func(s *models.PageSignals) { s.Site.SitemapValid = false }, []string{rules.CodeInvalidSitemap}},
		{"stale sitemap", func(s *models.PageSignals) { s.Site.SitemapStale = true }, []string{rules.CodeStaleSitemap}},
		{"no llms.txt", func(s *models.PageSignals) { s.Site.HasLLMsTxt = false }, []string{rules.CodeMissingLLMsTxt}},
		{"language mismatch", func(s *models.PageSignals) { s.DetectedLanguage = "de" }, []string{rules.CodeLanguageMismatch}},
		{"hard to read", func(s *models.PageSignals) { v := 12.0; s.Readability = &v }, []string{rules.CodePoorReadability}},
		{"weak rubric", func(s *models.PageSignals) { s.LLMRubric.Structure = 10 }, []string{rules.CodeWeakStructure}},
		{"nosnippet", func(s *models.PageSignals) { s.RobotsDirectives = []string{"nosnippet"} }, []string{rules.CodeSnippetRestricted}},
		{"no question headings", func(s *models.PageSignals) { s.Headings.H2 = []string{"Examples"} }, []string{rules.CodeNoQuestionHeadings}},
		{"slow", func(s *models.PageSignals) { s.Lighthouse.Performance = 0.2 }, []string{rules.CodePoorPerformance}},
		{
			"rule order is fixed",
			func(s *models.PageSignals) {
				s.Lighthouse.SEO = 0.1
				s.Title = ""
				s.ExternalLinks = nil
			},
			[]string{rules.CodeMissingTitle, rules.CodeNoExternalCitations, rules.CodePoorSEO},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := healthyPage()
			tt.mutate(s)
			res, err := Detect(s, rules.Default())
			require.NoError(t, err)
			assert.Equal(t, tt.want, codes(res.Issues))
		})
	}
}

func TestDetect_GateFailed(t *testing.T) {
	s := healthyPage()
	s.StatusCode = 503
	res, err := Detect(s, rules.Default())
	require.NoError(t, err)
	assert.True(t, res.GateFailed())
	require.Len(t, res.Issues, 1)
	assert.Equal(t, 503, res.Issues[0].Data.Actual)
}

func TestDetect_Deterministic(t *testing.T) {
	s := healthyPage()
	s.Title = ""
	s.OGTags = nil
	s.Site.AICrawlersBlocked = []string{"CCBot"}
	rs := rules.Default()

	first, err := Detect(s, rs)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Detect(s, rs)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestDetect_CatalogSubset(t *testing.T) {
	rs := rules.Default()
	delete(rs.Issues, rules.CodeMissingTitle)

	s := healthyPage()
	s.Title = ""
	res, err := Detect(s, rs)
	require.NoError(t, err)
	assert.Empty(t, res.Issues)
	assert.False(t, checked(res.Checks, rules.CodeMissingTitle))
}

func TestIsQuestion(t *testing.T) {
	assert.True(t, isQuestion("What is llms.txt?"))
	assert.True(t, isQuestion("How to add schema"))
	assert.True(t, isQuestion("Pricing?"))
	assert.False(t, isQuestion("Overview"))
	assert.False(t, isQuestion("Whatever works"))
}
