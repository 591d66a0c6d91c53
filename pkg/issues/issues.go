// Package issues turns page signals into the ordered list of issues a page
// has, plus the pass/fail record of every check that applied to it.
package issues

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/rules"
)

// Check is the outcome of one applicable rule.
type Check struct {
	Code     string
	Category models.Category
	Severity models.Severity
	Gate     bool
	Passed   bool
}

// Result is everything Detect found for one page.
type Result struct {
	Issues []models.Issue
	Checks []Check
}

// GateFailed reports whether any gate check failed.
func (r Result) GateFailed() bool {
	for _, c := range r.Checks {
		if c.Gate && !c.Passed {
			return true
		}
	}
	return false
}

// outcome is what a rule returns. A rule that does not apply returns nil.
type outcome struct {
	failed bool
	data   *models.IssueData
}

type rule struct {
	code  string
	check func(s *models.PageSignals, th rules.Thresholds) *outcome
}

// ruleOrder is the order issues are reported in.
var ruleOrder = []rule{
	{rules.CodeHTTPError, checkHTTPError},
	{rules.CodeNoindex, checkNoindex},
	{rules.CodeMissingTitle, checkMissingTitle},
	{rules.CodeTitleLength, checkTitleLength},
	{rules.CodeMissingMetaDesc, checkMissingMetaDescription},
	{rules.CodeMetaDescLength, checkMetaDescriptionLength},
	{rules.CodeMissingH1, checkMissingH1},
	{rules.CodeMultipleH1, checkMultipleH1},
	{rules.CodeHeadingHierarchy, checkHeadingHierarchy},
	{rules.CodeMissingCanonical, checkMissingCanonical},
	{rules.CodeMissingAltText, checkMissingAltText},
	{rules.CodeMissingOGTags, checkMissingOGTags},
	{rules.CodeNoInternalLinks, checkNoInternalLinks},
	{rules.CodeMissingSitemap, checkMissingSitemap},
	{rules.CodeInvalidSitemap, checkInvalidSitemap},
	{rules.CodeStaleSitemap, checkStaleSitemap},
	{rules.CodeMissingLLMsTxt, checkMissingLLMsTxt},
	{rules.CodeMissingLang, checkMissingLang},
	{rules.CodeThinContent, checkThinContent},
	{rules.CodePoorReadability, checkReadability},
	{rules.CodeLanguageMismatch, checkLanguageMismatch},
	{rules.CodeLowClarity, rubricCheck(func(r *models.LLMRubric) float64 { return r.Clarity })},
	{rules.CodeLowAuthority, rubricCheck(func(r *models.LLMRubric) float64 { return r.Authority })},
	{rules.CodeLowComprehensiveness, rubricCheck(func(r *models.LLMRubric) float64 { return r.Comprehensiveness })},
	{rules.CodeWeakStructure, rubricCheck(func(r *models.LLMRubric) float64 { return r.Structure })},
	{rules.CodeAICrawlerBlocked, checkAICrawlerBlocked},
	{rules.CodeMissingStructuredData, checkMissingStructuredData},
	{rules.CodeSnippetRestricted, checkSnippetRestricted},
	{rules.CodeNoQuestionHeadings, checkQuestionHeadings},
	{rules.CodeNoExternalCitations, checkExternalCitations},
	{rules.CodeLowCitationWorthiness, rubricCheck(func(r *models.LLMRubric) float64 { return r.CitationWorthiness })},
	{rules.CodePoorPerformance, lighthouseCheck(
		func(l *models.LighthouseScores) float64 { return l.Performance },
		func(th rules.Thresholds) float64 { return th.LighthousePerformance })},
	{rules.CodePoorSEO, lighthouseCheck(
		func(l *models.LighthouseScores) float64 { return l.SEO },
		func(th rules.Thresholds) float64 { return th.LighthouseSEO })},
	{rules.CodePoorAccessibility, lighthouseCheck(
		func(l *models.LighthouseScores) float64 { return l.Accessibility },
		func(th rules.Thresholds) float64 { return th.LighthouseAccessibility })},
	{rules.CodePoorBestPractices, lighthouseCheck(
		func(l *models.LighthouseScores) float64 { return l.BestPractices },
		func(th rules.Thresholds) float64 { return th.LighthouseBestPractices })},
}

// Detect runs every rule against s. Only a missing URL or status code is an
// error; absent optional signals make the rules that need them not apply.
// Rules with no entry in the ruleset's issue catalog are skipped.
func Detect(s *models.PageSignals, rs *rules.Ruleset) (Result, error) {
	if err := s.Validate(); err != nil {
		return Result{}, fmt.Errorf("failed to detect issues: %w", err)
	}

	var res Result
	for _, r := range ruleOrder {
		def, ok := rs.Issue(r.code)
		if !ok {
			continue
		}
		out := r.check(s, rs.Thresholds)
		if out == nil {
			continue
		}
		res.Checks = append(res.Checks, Check{
			Code:     r.code,
			Category: def.Category,
			Severity: def.Severity,
			Gate:     def.Gate,
			Passed:   !out.failed,
		})
		if out.failed {
			res.Issues = append(res.Issues, New(r.code, def, out.data))
		}
	}
	return res, nil
}

// New builds an issue from its catalog entry.
func New(code string, def rules.IssueDef, data *models.IssueData) models.Issue {
	return models.Issue{
		Code:           code,
		Category:       def.Category,
		Severity:       def.Severity,
		Message:        def.Message,
		Recommendation: def.Recommendation,
		Data:           data,
	}
}

func pass() *outcome { return &outcome{} }

func fail(data *models.IssueData) *outcome { return &outcome{failed: true, data: data} }

func when(failed bool) *outcome {
	if failed {
		return fail(nil)
	}
	return pass()
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

// Technical

func checkHTTPError(s *models.PageSignals, _ rules.Thresholds) *outcome {
	if s.StatusCode >= 400 {
		return fail(&models.IssueData{Actual: s.StatusCode})
	}
	return pass()
}

func checkNoindex(s *models.PageSignals, _ rules.Thresholds) *outcome {
	var hits []string
	for _, d := range normalizedDirectives(s.RobotsDirectives) {
		if d == "noindex" || d == "none" {
			hits = append(hits, d)
		}
	}
	if len(hits) > 0 {
		return fail(&models.IssueData{Directives: hits})
	}
	return pass()
}

func checkMissingTitle(s *models.PageSignals, _ rules.Thresholds) *outcome {
	return when(blank(s.Title))
}

func checkTitleLength(s *models.PageSignals, th rules.Thresholds) *outcome {
	if blank(s.Title) {
		return nil
	}
	return lengthOutcome(strings.TrimSpace(s.Title), th.TitleMin, th.TitleMax)
}

func checkMissingMetaDescription(s *models.PageSignals, _ rules.Thresholds) *outcome {
	return when(blank(s.MetaDescription))
}

func checkMetaDescriptionLength(s *models.PageSignals, th rules.Thresholds) *outcome {
	if blank(s.MetaDescription) {
		return nil
	}
	return lengthOutcome(strings.TrimSpace(s.MetaDescription), th.MetaDescriptionMin, th.MetaDescriptionMax)
}

func lengthOutcome(text string, lo, hi int) *outcome {
	n := utf8.RuneCountInString(text)
	switch {
	case n < lo:
		return fail(&models.IssueData{Actual: n, Threshold: float64(lo)})
	case n > hi:
		return fail(&models.IssueData{Actual: n, Threshold: float64(hi)})
	}
	return pass()
}

func checkMissingH1(s *models.PageSignals, _ rules.Thresholds) *outcome {
	return when(len(s.Headings.H1) == 0)
}

func checkMultipleH1(s *models.PageSignals, _ rules.Thresholds) *outcome {
	n := len(s.Headings.H1)
	if n == 0 {
		return nil
	}
	if n > 1 {
		return fail(&models.IssueData{Count: n})
	}
	return pass()
}

// checkHeadingHierarchy fails when a level between the shallowest and deepest
// used level is empty, e.g. h2 then h4 with no h3.
func checkHeadingHierarchy(s *models.PageSignals, _ rules.Thresholds) *outcome {
	levels := s.Headings.Levels()
	first, last := -1, -1
	for i, hs := range levels {
		if len(hs) > 0 {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return nil
	}
	for i := first; i <= last; i++ {
		if len(levels[i]) == 0 {
			return fail(nil)
		}
	}
	return pass()
}

func checkMissingCanonical(s *models.PageSignals, _ rules.Thresholds) *outcome {
	return when(blank(s.CanonicalURL))
}

func checkMissingAltText(s *models.PageSignals, _ rules.Thresholds) *outcome {
	if s.ImageCount == 0 && s.ImagesWithoutAlt == 0 {
		return nil
	}
	if s.ImagesWithoutAlt > 0 {
		return fail(&models.IssueData{Count: s.ImagesWithoutAlt})
	}
	return pass()
}

func checkMissingOGTags(s *models.PageSignals, _ rules.Thresholds) *outcome {
	for k, v := range s.OGTags {
		if strings.HasPrefix(strings.ToLower(k), "og:") && !blank(v) {
			return pass()
		}
	}
	return fail(nil)
}

func checkNoInternalLinks(s *models.PageSignals, _ rules.Thresholds) *outcome {
	return when(len(s.InternalLinks) == 0)
}

func checkMissingSitemap(s *models.PageSignals, _ rules.Thresholds) *outcome {
	return when(!s.Site.HasSitemap)
}

func checkInvalidSitemap(s *models.PageSignals, _ rules.Thresholds) *outcome {
	if !s.Site.HasSitemap {
		return nil
	}
	return when(!s.Site.SitemapValid)
}

func checkStaleSitemap(s *models.PageSignals, _ rules.Thresholds) *outcome {
	if !s.Site.HasSitemap || !s.Site.SitemapValid {
		return nil
	}
	return when(s.Site.SitemapStale)
}

func checkMissingLLMsTxt(s *models.PageSignals, _ rules.Thresholds) *outcome {
	return when(!s.Site.HasLLMsTxt)
}

func checkMissingLang(s *models.PageSignals, _ rules.Thresholds) *outcome {
	return when(blank(s.Lang))
}

// Content

func checkThinContent(s *models.PageSignals, th rules.Thresholds) *outcome {
	if s.WordCount < th.ThinContentWords {
		return fail(&models.IssueData{Actual: s.WordCount, Threshold: float64(th.ThinContentWords)})
	}
	return pass()
}

func checkReadability(s *models.PageSignals, th rules.Thresholds) *outcome {
	if s.Readability == nil {
		return nil
	}
	if *s.Readability < th.MinReadability {
		return fail(&models.IssueData{Score: *s.Readability, Threshold: th.MinReadability})
	}
	return pass()
}

func checkLanguageMismatch(s *models.PageSignals, _ rules.Thresholds) *outcome {
	if blank(s.Lang) || blank(s.DetectedLanguage) {
		return nil
	}
	declared := primaryLanguage(s.Lang)
	detected := primaryLanguage(s.DetectedLanguage)
	if declared != detected {
		return fail(&models.IssueData{Declared: declared, Detected: detected})
	}
	return pass()
}

// primaryLanguage reduces a tag like "en-US" to "en".
func primaryLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	return tag
}

func rubricCheck(value func(*models.LLMRubric) float64) func(*models.PageSignals, rules.Thresholds) *outcome {
	return func(s *models.PageSignals, th rules.Thresholds) *outcome {
		if s.LLMRubric == nil {
			return nil
		}
		if v := value(s.LLMRubric); v < th.RubricMinimum {
			return fail(&models.IssueData{Score: v, Threshold: th.RubricMinimum})
		}
		return pass()
	}
}

// AI readiness

func checkAICrawlerBlocked(s *models.PageSignals, _ rules.Thresholds) *outcome {
	if len(s.Site.AICrawlersBlocked) > 0 {
		return fail(&models.IssueData{Crawlers: slices.Clone(s.Site.AICrawlersBlocked)})
	}
	return pass()
}

func checkMissingStructuredData(s *models.PageSignals, _ rules.Thresholds) *outcome {
	return when(len(s.StructuredData) == 0 && len(s.SchemaTypes) == 0)
}

func checkSnippetRestricted(s *models.PageSignals, _ rules.Thresholds) *outcome {
	var hits []string
	for _, d := range normalizedDirectives(s.RobotsDirectives) {
		if d == "nosnippet" || d == "max-snippet:0" {
			hits = append(hits, d)
		}
	}
	if len(hits) > 0 {
		return fail(&models.IssueData{Directives: hits})
	}
	return pass()
}

var questionWords = []string{
	"what ", "why ", "how ", "when ", "where ", "who ", "which ",
	"can ", "does ", "do ", "is ", "are ", "should ",
}

func checkQuestionHeadings(s *models.PageSignals, _ rules.Thresholds) *outcome {
	all := s.Headings.All()
	if len(all) == 0 {
		return nil
	}
	for _, h := range all {
		if isQuestion(h) {
			return pass()
		}
	}
	return fail(nil)
}

func isQuestion(heading string) bool {
	h := strings.ToLower(strings.TrimSpace(heading))
	if strings.HasSuffix(h, "?") {
		return true
	}
	for _, w := range questionWords {
		if strings.HasPrefix(h, w) {
			return true
		}
	}
	return false
}

func checkExternalCitations(s *models.PageSignals, _ rules.Thresholds) *outcome {
	return when(len(s.ExternalLinks) == 0)
}

// Performance

func lighthouseCheck(value func(*models.LighthouseScores) float64, threshold func(rules.Thresholds) float64) func(*models.PageSignals, rules.Thresholds) *outcome {
	return func(s *models.PageSignals, th rules.Thresholds) *outcome {
		if s.Lighthouse == nil {
			return nil
		}
		v, limit := value(s.Lighthouse), threshold(th)
		if v < limit {
			return fail(&models.IssueData{Score: v, Threshold: limit})
		}
		return pass()
	}
}

// normalizedDirectives splits comma-joined robots values and lowercases them.
func normalizedDirectives(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, d := range strings.Split(r, ",") {
			d = strings.ToLower(strings.Join(strings.Fields(d), ""))
			if d != "" {
				out = append(out, d)
			}
		}
	}
	return out
}
