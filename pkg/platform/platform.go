// Package platform evaluates a crawl's issues against the requirement table
// of each AI answer engine.
package platform

import (
	"math"

	"github.com/dtnitsch/llm-readiness/models"
	"github.com/dtnitsch/llm-readiness/pkg/rules"
)

// Status is how a check should be shown.
type Status string

const (
	StatusPass           Status = "pass"
	StatusCriticalFail   Status = "critical_fail"
	StatusNeedsAttention Status = "needs_attention"
)

// StatusFor is the single mapping from importance and outcome to display
// status. Consumers must use it instead of deriving their own.
func StatusFor(importance rules.Importance, passed bool) Status {
	if passed {
		return StatusPass
	}
	if importance == rules.ImportanceCritical {
		return StatusCriticalFail
	}
	return StatusNeedsAttention
}

// CheckResult is one requirement evaluated against the issue set.
type CheckResult struct {
	Code       string           `json:"code" yaml:"code"`
	Label      string           `json:"label" yaml:"label"`
	Importance rules.Importance `json:"importance" yaml:"importance"`
	Passed     bool             `json:"passed" yaml:"passed"`
	Status     Status           `json:"status" yaml:"status"`
}

// Result is the readiness of one platform.
type Result struct {
	Platform string        `json:"platform" yaml:"platform"`
	Checks   []CheckResult `json:"checks" yaml:"checks"`
	PassRate int           `json:"pass_rate" yaml:"pass_rate"`
}

// Evaluate checks every platform's requirements in table order. A requirement
// passes when its issue code is absent from list or appears in resolved.
func Evaluate(platforms []rules.Platform, list []models.Issue, resolved []string) []Result {
	open := make(map[string]bool, len(list))
	for _, i := range list {
		open[i.Code] = true
	}
	for _, code := range resolved {
		delete(open, code)
	}

	results := make([]Result, 0, len(platforms))
	for _, p := range platforms {
		r := Result{Platform: p.Name, Checks: make([]CheckResult, 0, len(p.Requirements))}
		passing := 0
		for _, req := range p.Requirements {
			passed := !open[req.Code]
			if passed {
				passing++
			}
			r.Checks = append(r.Checks, CheckResult{
				Code:       req.Code,
				Label:      req.Label,
				Importance: req.Importance,
				Passed:     passed,
				Status:     StatusFor(req.Importance, passed),
			})
		}
		if n := len(p.Requirements); n > 0 {
			r.PassRate = int(math.Round(float64(passing) / float64(n) * 100))
		}
		results = append(results, r)
	}
	return results
}
