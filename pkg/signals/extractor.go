// Package signals turns already-fetched HTML, robots.txt, llms.txt and sitemap
// bodies into the PageSignals the scoring engine consumes. It performs no I/O.
package signals

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"

	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/analytics"
	"github.com/dtnitsch/llm-readiness/pkg/citation"
)

const keywordCount = 10

// Document is one fetched page plus the optional results of external
// evaluators.
type Document struct {
	URL          string                   `json:"url" yaml:"url"`
	StatusCode   int                      `json:"status_code" yaml:"status_code"`
	HTML         string                   `json:"html" yaml:"html"`
	RobotsHeader string                   `json:"robots_header,omitempty" yaml:"robots_header,omitempty"` // X-Robots-Tag
	Lighthouse   *models.LighthouseScores `json:"lighthouse,omitempty" yaml:"lighthouse,omitempty"`
	LLMRubric    *models.LLMRubric        `json:"llm_rubric,omitempty" yaml:"llm_rubric,omitempty"`
}

// Extraction is what the extractor learned about a page.
type Extraction struct {
	Signals  models.PageSignals `json:"signals" yaml:"signals"`
	Facts    []citation.Fact    `json:"facts,omitempty" yaml:"facts,omitempty"`
	Keywords []string           `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Extractor parses HTML into signals. Build one and reuse it: the language
// detector is expensive to construct.
type Extractor struct {
	languages lingua.LanguageDetector
}

// NewExtractor builds an extractor that recognizes the most common web
// languages.
func NewExtractor() *Extractor {
	return &Extractor{
		languages: lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.English, lingua.German, lingua.French, lingua.Spanish,
				lingua.Portuguese, lingua.Italian, lingua.Dutch, lingua.Polish,
				lingua.Swedish, lingua.Russian, lingua.Japanese, lingua.Chinese,
				lingua.Korean,
			).
			Build(),
	}
}

// Extract parses doc and attaches site-wide context. Only a URL that cannot be
// parsed or HTML that goquery rejects is an error.
func (e *Extractor) Extract(doc Document, site models.SiteContext) (*Extraction, error) {
	base, err := url.Parse(doc.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}
	page, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	s := models.PageSignals{
		URL:             doc.URL,
		StatusCode:      doc.StatusCode,
		Title:           normalizeText(page.Find("title").First().Text()),
		MetaDescription: metaContent(page, `meta[name="description"]`),
		CanonicalURL:    canonical(page, base),
		Headings:        headings(page),
		Lang:            strings.TrimSpace(page.Find("html").AttrOr("lang", "")),
		OGTags:          ogTags(page),
		Lighthouse:      doc.Lighthouse,
		LLMRubric:       doc.LLMRubric,
		Site:            site,
	}
	s.InternalLinks, s.ExternalLinks = links(page, base)
	s.ImageCount, s.ImagesWithoutAlt = images(page)
	s.RobotsDirectives = robotsDirectives(page, doc.RobotsHeader)
	s.StructuredData, s.SchemaTypes = structuredData(page)

	text := e.mainText(doc.HTML, base, page)
	stats := analytics.Stats(text)
	s.WordCount = stats.Words
	if stats.Words > 0 {
		ease := stats.ReadingEase()
		s.Readability = &ease
		sum := sha256.Sum256([]byte(text))
		s.ContentHash = hex.EncodeToString(sum[:])
		if lang, ok := e.languages.DetectLanguageOf(text); ok {
			s.DetectedLanguage = strings.ToLower(lang.IsoCode639_1().String())
		}
	}

	ex := &Extraction{Signals: s, Keywords: analytics.TopNWords(text, keywordCount)}
	for _, f := range analytics.Facts(text) {
		ex.Facts = append(ex.Facts, citation.Fact{Text: f.Text, CitabilityScore: f.Score})
	}
	return ex, nil
}

// mainText prefers the readability article body and falls back to the whole
// <body> when readability finds nothing.
func (e *Extractor) mainText(html string, base *url.URL, page *goquery.Document) string {
	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(html), base)
	if err == nil && article.Content != "" {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content)); err == nil {
			if text := normalizeText(doc.Text()); text != "" {
				return text
			}
		}
	}
	body := page.Find("body").Clone()
	body.Find("script,style,noscript,nav,footer").Remove()
	return normalizeText(body.Text())
}

func normalizeText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

func metaContent(page *goquery.Document, selector string) string {
	return normalizeText(page.Find(selector).First().AttrOr("content", ""))
}

func canonical(page *goquery.Document, base *url.URL) string {
	href := strings.TrimSpace(page.Find(`link[rel="canonical"]`).First().AttrOr("href", ""))
	if href == "" {
		return ""
	}
	if ref, err := url.Parse(href); err == nil {
		return base.ResolveReference(ref).String()
	}
	return href
}

func headings(page *goquery.Document) models.Headings {
	var h models.Headings
	targets := []*[]string{&h.H1, &h.H2, &h.H3, &h.H4, &h.H5, &h.H6}
	for i, target := range targets {
		page.Find(fmt.Sprintf("h%d", i+1)).Each(func(_ int, sel *goquery.Selection) {
			if text := normalizeText(sel.Text()); text != "" {
				*target = append(*target, text)
			}
		})
	}
	return h
}

func ogTags(page *goquery.Document) map[string]string {
	tags := make(map[string]string)
	page.Find(`meta[property^="og:"]`).Each(func(_ int, sel *goquery.Selection) {
		prop := strings.ToLower(strings.TrimSpace(sel.AttrOr("property", "")))
		if content := normalizeText(sel.AttrOr("content", "")); prop != "" && content != "" {
			tags[prop] = content
		}
	})
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// links splits anchors into internal and external absolute URLs, deduped in
// document order. www. prefixes are ignored when comparing hosts.
func links(page *goquery.Document, base *url.URL) (internal, external []string) {
	seen := make(map[string]bool)
	home := strings.TrimPrefix(strings.ToLower(base.Hostname()), "www.")
	page.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		abs.Fragment = ""
		key := abs.String()
		if seen[key] {
			return
		}
		seen[key] = true
		if strings.TrimPrefix(strings.ToLower(abs.Hostname()), "www.") == home {
			internal = append(internal, key)
		} else {
			external = append(external, key)
		}
	})
	return internal, external
}

// images counts <img> tags and those with no alt attribute at all. An empty
// alt marks a decorative image and is fine.
func images(page *goquery.Document) (total, withoutAlt int) {
	page.Find("img").Each(func(_ int, sel *goquery.Selection) {
		total++
		if _, ok := sel.Attr("alt"); !ok {
			withoutAlt++
		}
	})
	return total, withoutAlt
}

func robotsDirectives(page *goquery.Document, header string) []string {
	var out []string
	add := func(raw string) {
		for _, d := range strings.Split(raw, ",") {
			if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
				out = append(out, d)
			}
		}
	}
	page.Find(`meta[name="robots"], meta[name="googlebot"]`).Each(func(_ int, sel *goquery.Selection) {
		add(sel.AttrOr("content", ""))
	})
	add(header)
	return out
}

// structuredData collects JSON-LD objects (flattening arrays and @graph) and
// the schema.org types declared by them and by microdata itemtype attributes.
func structuredData(page *goquery.Document) ([]map[string]any, []string) {
	var items []map[string]any
	var types []string
	seen := make(map[string]bool)
	addType := func(t string) {
		t = strings.TrimSpace(t)
		if t != "" && !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}

	page.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		var raw any
		if err := json.Unmarshal([]byte(sel.Text()), &raw); err != nil {
			return
		}
		for _, obj := range flattenJSONLD(raw) {
			items = append(items, obj)
			for _, t := range jsonLDTypes(obj) {
				addType(t)
			}
		}
	})

	page.Find("[itemtype]").Each(func(_ int, sel *goquery.Selection) {
		for _, it := range strings.Fields(sel.AttrOr("itemtype", "")) {
			addType(it[strings.LastIndex(it, "/")+1:])
		}
	})
	return items, types
}

func flattenJSONLD(v any) []map[string]any {
	switch t := v.(type) {
	case []any:
		var out []map[string]any
		for _, e := range t {
			out = append(out, flattenJSONLD(e)...)
		}
		return out
	case map[string]any:
		if graph, ok := t["@graph"]; ok {
			return flattenJSONLD(graph)
		}
		return []map[string]any{t}
	}
	return nil
}

func jsonLDTypes(obj map[string]any) []string {
	switch t := obj["@type"].(type) {
	case string:
		return []string{t}
	case []any:
		var out []string
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
