package rules

import (
	"regexp"

	"github.com/dtnitsch/llm-readiness/models"
)

// Issue codes known to the default catalog.
const (
	CodeHTTPError             = "HTTP_ERROR"
	CodeNoindex               = "NOINDEX"
	CodeMissingTitle          = "MISSING_TITLE"
	CodeTitleLength           = "TITLE_LENGTH"
	CodeMissingMetaDesc       = "MISSING_META_DESCRIPTION"
	CodeMetaDescLength        = "META_DESCRIPTION_LENGTH"
	CodeMissingH1             = "MISSING_H1"
	CodeMultipleH1            = "MULTIPLE_H1"
	CodeHeadingHierarchy      = "HEADING_HIERARCHY"
	CodeMissingCanonical      = "MISSING_CANONICAL"
	CodeMissingAltText        = "MISSING_ALT_TEXT"
	CodeMissingOGTags         = "MISSING_OG_TAGS"
	CodeNoInternalLinks       = "NO_INTERNAL_LINKS"
	CodeMissingSitemap        = "MISSING_SITEMAP"
	CodeInvalidSitemap        = "INVALID_SITEMAP"
	CodeStaleSitemap          = "STALE_SITEMAP"
	CodeMissingLLMsTxt        = "MISSING_LLMS_TXT"
	CodeMissingLang           = "MISSING_LANG"
	CodeThinContent           = "THIN_CONTENT"
	CodePoorReadability       = "POOR_READABILITY"
	CodeLanguageMismatch      = "LANGUAGE_MISMATCH"
	CodeLowClarity            = "LOW_CONTENT_CLARITY"
	CodeLowAuthority          = "LOW_AUTHORITY"
	CodeLowComprehensiveness  = "LOW_COMPREHENSIVENESS"
	CodeWeakStructure         = "WEAK_STRUCTURE"
	CodeAICrawlerBlocked      = "AI_CRAWLER_BLOCKED"
	CodeMissingStructuredData = "MISSING_STRUCTURED_DATA"
	CodeSnippetRestricted     = "SNIPPET_RESTRICTED"
	CodeNoQuestionHeadings    = "NO_QUESTION_HEADINGS"
	CodeNoExternalCitations   = "NO_EXTERNAL_CITATIONS"
	CodeLowCitationWorthiness = "LOW_CITATION_WORTHINESS"
	CodePoorPerformance       = "POOR_PERFORMANCE"
	CodePoorSEO               = "POOR_SEO_SCORE"
	CodePoorAccessibility     = "POOR_ACCESSIBILITY"
	CodePoorBestPractices     = "POOR_BEST_PRACTICES"
)

// Content types.
const (
	TypeBlogPost      = "blog_post"
	TypeNewsArticle   = "news_article"
	TypeProduct       = "product"
	TypeCategory      = "category"
	TypeDocumentation = "documentation"
	TypeFAQ           = "faq"
	TypeHowTo         = "how_to"
	TypeLanding       = "landing"
	TypeAbout         = "about"
	TypeContact       = "contact"
	TypeLegal         = "legal"
	TypeHomepage      = "homepage"
	TypeUnknown       = "unknown"
)

// Default returns a fresh copy of the built-in rules. Every call allocates, so
// callers may modify the result freely.
func Default() *Ruleset {
	return &Ruleset{
		Weights:         Weights{Technical: 25, Content: 30, AIReadiness: 30, Performance: 15},
		SeverityWeights: SeverityWeights{Critical: 3, Warning: 2, Info: 1},
		Thresholds: Thresholds{
			ThinContentWords:        300,
			TargetWords:             1200,
			TitleMin:                30,
			TitleMax:                60,
			MetaDescriptionMin:      70,
			MetaDescriptionMax:      160,
			MinReadability:          30,
			RubricMinimum:           50,
			LighthousePerformance:   0.5,
			LighthouseSEO:           0.7,
			LighthouseAccessibility: 0.7,
			LighthouseBestPractices: 0.7,
			NeutralPerformance:      50,
			GateCap:                 20,
			ContentRubricShare:      0.5,
			AIRubricShare:           0.4,
		},
		Issues:       defaultIssues(),
		Platforms:    defaultPlatforms(),
		ContentTypes: defaultContentTypes(),
		SchemaTypes:  defaultSchemaTypes(),
		URLRules:     defaultURLRules(),
		HighValueSchemaTypes: []string{
			"Article", "NewsArticle", "BlogPosting", "FAQPage", "HowTo", "BreadcrumbList",
		},
		AICrawlers: []string{
			"GPTBot", "ChatGPT-User", "OAI-SearchBot", "ClaudeBot", "Claude-Web",
			"anthropic-ai", "PerplexityBot", "Google-Extended", "CCBot",
		},
	}
}

func defaultContentTypes() []string {
	return []string{
		TypeBlogPost, TypeNewsArticle, TypeProduct, TypeCategory, TypeDocumentation,
		TypeFAQ, TypeHowTo, TypeLanding, TypeAbout, TypeContact, TypeLegal, TypeHomepage,
	}
}

func defaultSchemaTypes() map[string]string {
	return map[string]string{
		"blogposting":          TypeBlogPost,
		"article":              TypeBlogPost,
		"newsarticle":          TypeNewsArticle,
		"reportagenewsarticle": TypeNewsArticle,
		"product":              TypeProduct,
		"offer":                TypeProduct,
		"collectionpage":       TypeCategory,
		"itemlist":             TypeCategory,
		"techarticle":          TypeDocumentation,
		"apireference":         TypeDocumentation,
		"faqpage":              TypeFAQ,
		"qapage":               TypeFAQ,
		"howto":                TypeHowTo,
		"aboutpage":            TypeAbout,
		"contactpage":          TypeContact,
	}
}

func rule(pattern, contentType string, weight int, signal string) URLRule {
	return URLRule{
		Pattern: pattern,
		Type:    contentType,
		Weight:  weight,
		Signal:  signal,
		re:      regexp.MustCompile(pattern),
	}
}

func defaultURLRules() []URLRule {
	return []URLRule{
		rule(`^/?$`, TypeHomepage, 3, "site root"),
		rule(`/(blog|posts?|articles?)/`, TypeBlogPost, 2, "blog path"),
		rule(`/(news|press)/`, TypeNewsArticle, 2, "news path"),
		rule(`/(products?|shop|item|p)/`, TypeProduct, 2, "product path"),
		rule(`/(category|categories|collections?|c)/`, TypeCategory, 2, "category path"),
		rule(`/(docs?|documentation|guides?|api|reference)(/|$)`, TypeDocumentation, 2, "documentation path"),
		rule(`/(faqs?|help)(/|$)`, TypeFAQ, 2, "faq path"),
		rule(`/(how-to|howto|tutorials?)(/|-|$)`, TypeHowTo, 2, "how-to path"),
		rule(`/(pricing|features|solutions|lp)(/|$)`, TypeLanding, 2, "landing path"),
		rule(`/about(-us)?(/|$)`, TypeAbout, 3, "about path"),
		rule(`/contact(-us)?(/|$)`, TypeContact, 3, "contact path"),
		rule(`/(privacy|terms|legal|cookies?)(-policy)?(/|$)`, TypeLegal, 3, "legal path"),
	}
}

func def(cat models.Category, sev models.Severity, effort models.Effort, impact int, msg, rec, snippet string) IssueDef {
	return IssueDef{
		Category:       cat,
		Severity:       sev,
		Message:        msg,
		Recommendation: rec,
		Effort:         effort,
		Impact:         impact,
		Snippet:        snippet,
	}
}

func defaultIssues() map[string]IssueDef {
	const (
		tech    = models.CategoryTechnical
		content = models.CategoryContent
		ai      = models.CategoryAIReadiness
		perf    = models.CategoryPerformance

		crit = models.SeverityCritical
		warn = models.SeverityWarning
		info = models.SeverityInfo

		low  = models.EffortLow
		med  = models.EffortMedium
		high = models.EffortHigh
	)

	httpErr := def(tech, crit, high, 15,
		"Page returned an HTTP error status",
		"Fix the server response so the page returns 200, or redirect it to a live URL.", "")
	httpErr.Gate = true
	noindex := def(tech, crit, low, 15,
		"Page is excluded from indexing by a robots noindex directive",
		"Remove noindex from the robots meta tag or X-Robots-Tag header if the page should be discoverable.",
		`<meta name="robots" content="index, follow">`)
	noindex.Gate = true

	return map[string]IssueDef{
		CodeHTTPError: httpErr,
		CodeNoindex:   noindex,
		CodeMissingTitle: def(tech, crit, low, 10,
			"Page has no title",
			"Add a descriptive <title> that names the page's primary topic.",
			`<title>Primary topic | Brand</title>`),
		CodeTitleLength: def(tech, info, low, 2,
			"Title length is outside the recommended range",
			"Keep titles between 30 and 60 characters so they are not truncated.", ""),
		CodeMissingMetaDesc: def(tech, warn, low, 5,
			"Page has no meta description",
			"Add a meta description summarizing the page in one or two sentences.",
			`<meta name="description" content="One or two sentences summarizing this page.">`),
		CodeMetaDescLength: def(tech, info, low, 2,
			"Meta description length is outside the recommended range",
			"Keep meta descriptions between 70 and 160 characters.", ""),
		CodeMissingH1: def(tech, warn, low, 5,
			"Page has no H1 heading",
			"Add a single H1 that states what the page is about.",
			`<h1>What this page is about</h1>`),
		CodeMultipleH1: def(tech, info, low, 2,
			"Page has more than one H1 heading",
			"Use one H1 and demote the rest to H2.", ""),
		CodeHeadingHierarchy: def(tech, info, med, 2,
			"Heading levels skip a level",
			"Nest headings in order (H1, then H2, then H3) without skipping levels.", ""),
		CodeMissingCanonical: def(tech, warn, low, 4,
			"Page has no canonical URL",
			"Declare the preferred URL so duplicate variants consolidate.",
			`<link rel="canonical" href="https://example.com/page">`),
		CodeMissingAltText: def(tech, warn, med, 3,
			"Images are missing alt text",
			"Describe every meaningful image with an alt attribute.",
			`<img src="chart.png" alt="Monthly revenue by region, 2024">`),
		CodeMissingOGTags: def(tech, info, low, 2,
			"Page has no OpenGraph tags",
			"Add og:title, og:description and og:image so shared links render with context.",
			"<meta property=\"og:title\" content=\"Page title\">\n<meta property=\"og:description\" content=\"Summary\">\n<meta property=\"og:image\" content=\"https://example.com/cover.png\">"),
		CodeNoInternalLinks: def(tech, warn, med, 3,
			"Page has no internal links",
			"Link to related pages on the same site so crawlers can discover them.", ""),
		CodeMissingSitemap: def(tech, warn, med, 4,
			"Site has no XML sitemap",
			"Publish sitemap.xml and reference it from robots.txt.",
			"Sitemap: https://example.com/sitemap.xml"),
		CodeInvalidSitemap: def(tech, warn, med, 4,
			"Sitemap could not be parsed",
			"Serve a well-formed sitemap that follows the sitemaps.org schema.", ""),
		CodeStaleSitemap: def(tech, info, low, 2,
			"Sitemap has not been updated recently",
			"Regenerate the sitemap when content changes and keep lastmod accurate.", ""),
		CodeMissingLLMsTxt: def(tech, warn, low, 6,
			"Site has no llms.txt",
			"Publish /llms.txt with a short summary and links to your most important pages.",
			"# Example Inc\n\n> One-line summary of what the site offers.\n\n## Docs\n\n- [Getting started](https://example.com/docs/start): setup guide"),
		CodeMissingLang: def(tech, info, low, 1,
			"Page does not declare a language",
			"Set the lang attribute on the html element.",
			`<html lang="en">`),
		CodeThinContent: def(content, crit, high, 12,
			"Page has too little content",
			"Expand the page with substantive, original content that fully answers the topic.", ""),
		CodePoorReadability: def(content, warn, med, 4,
			"Content is hard to read",
			"Shorten sentences and prefer plain words.", ""),
		CodeLanguageMismatch: def(content, info, low, 1,
			"Declared language does not match the content language",
			"Correct the html lang attribute to match the text.", ""),
		CodeLowClarity: def(content, warn, med, 4,
			"Content lacks clarity",
			"Lead with a direct answer and define terms before using them.", ""),
		CodeLowAuthority: def(content, warn, high, 4,
			"Content lacks authority signals",
			"Cite sources, name the author and show credentials or first-hand experience.", ""),
		CodeLowComprehensiveness: def(content, warn, high, 5,
			"Content does not cover the topic comprehensively",
			"Cover the subtopics and follow-up questions a reader is likely to have.", ""),
		CodeWeakStructure: def(content, warn, med, 4,
			"Content structure is weak",
			"Break content into sections with descriptive headings, lists and tables.", ""),
		CodeAICrawlerBlocked: def(ai, crit, low, 15,
			"robots.txt blocks AI crawlers",
			"Allow the AI crawlers you want to be cited by in robots.txt.",
			"User-agent: GPTBot\nAllow: /\n\nUser-agent: ClaudeBot\nAllow: /\n\nUser-agent: PerplexityBot\nAllow: /"),
		CodeMissingStructuredData: def(ai, warn, med, 8,
			"Page has no structured data",
			"Add schema.org JSON-LD describing the page.",
			"<script type=\"application/ld+json\">\n{\"@context\": \"https://schema.org\", \"@type\": \"Article\", \"headline\": \"Title\"}\n</script>"),
		CodeSnippetRestricted: def(ai, warn, low, 6,
			"Robots directives restrict snippets",
			"Remove nosnippet and restrictive max-snippet values so answer engines can quote the page.",
			`<meta name="robots" content="max-snippet:-1">`),
		CodeNoQuestionHeadings: def(ai, info, med, 3,
			"No headings are phrased as questions",
			"Phrase some section headings as the questions readers ask.", ""),
		CodeNoExternalCitations: def(ai, info, low, 2,
			"Page cites no external sources",
			"Link to authoritative sources that support your claims.", ""),
		CodeLowCitationWorthiness: def(ai, warn, high, 6,
			"Content is unlikely to be cited by AI answers",
			"Add specific facts, statistics and quotable definitions.", ""),
		CodePoorPerformance: def(perf, warn, high, 6,
			"Lighthouse performance score is low",
			"Reduce render-blocking resources, compress images and cut JavaScript.", ""),
		CodePoorSEO: def(perf, warn, med, 4,
			"Lighthouse SEO score is low",
			"Work through the failing Lighthouse SEO audits.", ""),
		CodePoorAccessibility: def(perf, info, med, 2,
			"Lighthouse accessibility score is low",
			"Work through the failing Lighthouse accessibility audits.", ""),
		CodePoorBestPractices: def(perf, info, med, 1,
			"Lighthouse best-practices score is low",
			"Work through the failing Lighthouse best-practices audits.", ""),
	}
}

func req(code string, imp Importance, label string) Requirement {
	return Requirement{Code: code, Importance: imp, Label: label}
}

func defaultPlatforms() []Platform {
	const (
		critical    = ImportanceCritical
		important   = ImportanceImportant
		recommended = ImportanceRecommended
	)
	return []Platform{
		{Name: "ChatGPT", Requirements: []Requirement{
			req(CodeAICrawlerBlocked, critical, "GPTBot and OAI-SearchBot allowed"),
			req(CodeNoindex, critical, "Pages indexable"),
			req(CodeMissingStructuredData, important, "Structured data present"),
			req(CodeMissingLLMsTxt, important, "llms.txt published"),
			req(CodeThinContent, important, "Substantive content"),
			req(CodeSnippetRestricted, important, "Snippets allowed"),
			req(CodeMissingMetaDesc, recommended, "Meta descriptions present"),
			req(CodeNoQuestionHeadings, recommended, "Question-style headings"),
		}},
		{Name: "Claude", Requirements: []Requirement{
			req(CodeAICrawlerBlocked, critical, "ClaudeBot allowed"),
			req(CodeThinContent, critical, "Substantive content"),
			req(CodeMissingLLMsTxt, important, "llms.txt published"),
			req(CodeMissingH1, important, "Clear page topic"),
			req(CodeWeakStructure, important, "Well-structured content"),
			req(CodeHeadingHierarchy, recommended, "Ordered headings"),
			req(CodeNoExternalCitations, recommended, "Sources cited"),
		}},
		{Name: "Perplexity", Requirements: []Requirement{
			req(CodeAICrawlerBlocked, critical, "PerplexityBot allowed"),
			req(CodeSnippetRestricted, critical, "Snippets allowed"),
			req(CodeNoExternalCitations, important, "Sources cited"),
			req(CodeMissingStructuredData, important, "Structured data present"),
			req(CodeStaleSitemap, important, "Fresh sitemap"),
			req(CodeLowCitationWorthiness, important, "Citation-worthy content"),
			req(CodeMissingCanonical, recommended, "Canonical URLs"),
		}},
		{Name: "Gemini", Requirements: []Requirement{
			req(CodeAICrawlerBlocked, critical, "Google-Extended allowed"),
			req(CodeNoindex, critical, "Pages indexable"),
			req(CodeMissingStructuredData, critical, "Structured data present"),
			req(CodePoorPerformance, important, "Fast pages"),
			req(CodeMissingSitemap, important, "Sitemap published"),
			req(CodeMissingOGTags, recommended, "OpenGraph tags"),
			req(CodeMissingAltText, recommended, "Image alt text"),
		}},
	}
}
