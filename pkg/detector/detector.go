// Package detector classifies a page's content type from its URL and the
// schema.org types found on it.
package detector

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/dtnitsch/llm-readiness/pkg/rules"
)

const (
	schemaWeight   = 2
	datedWeight    = 1
	fullConfidence = 4.0
)

var datedPath = regexp.MustCompile(`/(19|20)\d\d/`)

// Classification is the detected content type of a page.
type Classification struct {
	Type       string   `json:"type" yaml:"type"`
	Confidence float64  `json:"confidence" yaml:"confidence"` // 0-1
	Signals    []string `json:"signals,omitempty" yaml:"signals,omitempty"`
}

// DetectContentType scores every declared content type from schema.org types,
// URL path rules and the dated-path heuristic, then picks the highest. Ties go
// to the type declared first in the ruleset. A URL that does not parse only
// disables the URL-based rules.
func DetectContentType(rawURL string, schemaTypes []string, rs *rules.Ruleset) Classification {
	scores := make(map[string]int)
	var signals []string

	// Schema.org types
	for _, st := range schemaTypes {
		if t, ok := rs.SchemaContentType(st); ok {
			scores[t] += schemaWeight
			signals = append(signals, "schema:"+strings.TrimSpace(st))
		}
	}

	if u, err := url.Parse(strings.TrimSpace(rawURL)); err == nil && (u.Host != "" || u.Path != "") {
		path := strings.ToLower(u.Path)

		// URL path rules
		for i := range rs.URLRules {
			r := &rs.URLRules[i]
			if r.Match(path) {
				scores[r.Type] += r.Weight
				signals = append(signals, r.Signal)
			}
		}

		// Dated paths are typical of news archives
		if datedPath.MatchString(path) {
			scores[rules.TypeNewsArticle] += datedWeight
			signals = append(signals, "dated path")
		}
	}

	best, bestScore := rules.TypeUnknown, 0
	for _, t := range rs.ContentTypes {
		if scores[t] > bestScore {
			best, bestScore = t, scores[t]
		}
	}
	if bestScore == 0 {
		return Classification{Type: rules.TypeUnknown}
	}

	confidence := float64(bestScore) / fullConfidence
	if confidence > 1 {
		confidence = 1
	}
	return Classification{Type: best, Confidence: confidence, Signals: signals}
}
