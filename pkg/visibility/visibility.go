// Package visibility scores a site's off-site presence in AI answers.
package visibility

import (
	"strings"

	"github.com/dtnitsch/llm-readiness/models"
)

const (
	mentionWeight  = 40
	searchWeight   = 30
	voiceWeight    = 20
	backlinkWeight = 10
)

// Rates are the normalized inputs, each expected in [0,1].
type Rates struct {
	LLMMentionRate          float64 `json:"llm_mention_rate" yaml:"llm_mention_rate"`
	AISearchPresenceRate    float64 `json:"ai_search_presence_rate" yaml:"ai_search_presence_rate"`
	ShareOfVoice            float64 `json:"share_of_voice" yaml:"share_of_voice"`
	BacklinkAuthoritySignal float64 `json:"backlink_authority_signal" yaml:"backlink_authority_signal"`
}

// Compute weights the clamped rates 40/30/20/10. The breakdown keeps each
// weighted component unrounded.
func Compute(r Rates) models.AIVisibilityScore {
	b := models.AIVisibilityBreakdown{
		LLMMentions:       models.ClampRate(r.LLMMentionRate) * mentionWeight,
		AISearch:          models.ClampRate(r.AISearchPresenceRate) * searchWeight,
		ShareOfVoice:      models.ClampRate(r.ShareOfVoice) * voiceWeight,
		BacklinkAuthority: models.ClampRate(r.BacklinkAuthoritySignal) * backlinkWeight,
	}
	overall := models.ClampScore(b.LLMMentions + b.AISearch + b.ShareOfVoice + b.BacklinkAuthority)
	return models.AIVisibilityScore{
		Overall:   overall,
		Grade:     models.LetterGrade(overall),
		Breakdown: b,
	}
}

// CheckResult is one raw visibility probe: a query sent to an AI provider and
// what came back.
type CheckResult struct {
	Provider string `json:"provider" yaml:"provider"`
	Query    string `json:"query" yaml:"query"`
	// Mentioned is true when the answer named the brand or domain.
	Mentioned bool `json:"mentioned" yaml:"mentioned"`
	// Cited is true when the answer linked to the domain as a source.
	Cited bool `json:"cited" yaml:"cited"`
	// AISearch marks probes against AI search surfaces rather than chat.
	AISearch           bool `json:"ai_search" yaml:"ai_search"`
	CompetitorMentions int  `json:"competitor_mentions" yaml:"competitor_mentions"`
}

// RatesFromChecks aggregates raw probes into Rates. Share of voice is own
// mentions over own plus competitor mentions. backlinkAuthority is passed
// through since it does not come from probes.
func RatesFromChecks(checks []CheckResult, backlinkAuthority float64) Rates {
	var (
		chat, chatMentioned   int
		search, searchPresent int
		own, competitor       int
	)
	for _, c := range checks {
		if c.AISearch || strings.Contains(strings.ToLower(c.Provider), "search") {
			search++
			if c.Mentioned || c.Cited {
				searchPresent++
			}
		} else {
			chat++
			if c.Mentioned {
				chatMentioned++
			}
		}
		if c.Mentioned {
			own++
		}
		competitor += max(c.CompetitorMentions, 0)
	}

	return Rates{
		LLMMentionRate:          ratio(chatMentioned, chat),
		AISearchPresenceRate:    ratio(searchPresent, search),
		ShareOfVoice:            ratio(own, own+competitor),
		BacklinkAuthoritySignal: models.ClampRate(backlinkAuthority),
	}
}

func ratio(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
