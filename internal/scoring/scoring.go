// Package scoring ranks directory companies with a fixed additive rubric.
package scoring

import (
	"sort"
	"strings"

	"github.com/spigell/shortlist/internal/directory"
)

// Weights are the points each predicate adds to a company score.
type Weights struct {
	Remote        int `mapstructure:"remote"`
	LATAM         int `mapstructure:"latam"`
	Hiring        int `mapstructure:"hiring"`
	SmallTeam     int `mapstructure:"small-team"`
	VoiceAgentLLM int `mapstructure:"voice-agent-llm"`
	DeveloperTool int `mapstructure:"developer-tool"`
	ATS           int `mapstructure:"ats"`
}

func DefaultWeights() Weights {
	return Weights{
		Remote:        3,
		LATAM:         2,
		Hiring:        3,
		SmallTeam:     2,
		VoiceAgentLLM: 3,
		DeveloperTool: 2,
		ATS:           1,
	}
}

const smallTeamLimit = 50

var (
	voiceAgentLLMKeywords = []string{"voice", "agent", "llm", "conversational", "generative ai", "chatbot"}
	developerToolKeywords = []string{"developer tool", "api", "open source", "sdk"}
	knownATS              = map[string]bool{"ashby": true, "greenhouse": true, "lever": true}
)

// Rubric scores companies. The zero value scores everything as 0.
type Rubric struct {
	Weights Weights
}

func NewRubric(w Weights) Rubric {
	return Rubric{Weights: w}
}

// Score returns the company score and the names of the predicates that matched.
func (r Rubric) Score(c *directory.Company) (int, []string) {
	score := 0
	var tags []string

	add := func(ok bool, weight int, tag string) {
		if ok {
			score += weight
			tags = append(tags, tag)
		}
	}

	text := c.SearchText()

	add(c.IsRemoteFriendly(), r.Weights.Remote, "remote")
	add(c.IsLATAMFriendly(), r.Weights.LATAM, "latam")
	add(c.IsHiring, r.Weights.Hiring, "hiring")
	add(c.TeamSize > 0 && c.TeamSize < smallTeamLimit, r.Weights.SmallTeam, "small_team")
	add(containsAny(text, voiceAgentLLMKeywords), r.Weights.VoiceAgentLLM, "voice_agent_llm")
	add(containsAny(text, developerToolKeywords), r.Weights.DeveloperTool, "developer_tool")
	add(IsKnownATS(c.ATS), r.Weights.ATS, "ats")

	return score, tags
}

// IsKnownATS reports whether vendor is one of the supported applicant tracking systems.
func IsKnownATS(vendor string) bool {
	return knownATS[strings.ToLower(strings.TrimSpace(vendor))]
}

// Scored pairs a company with its score.
type Scored struct {
	Company *directory.Company
	Score   int
	Tags    []string
}

// Rank scores companies and orders them by descending score. Ties keep the
// input order. top <= 0 returns every company.
func (r Rubric) Rank(companies []*directory.Company, top int) []Scored {
	scored := make([]Scored, 0, len(companies))
	for _, c := range companies {
		score, tags := r.Score(c)
		scored = append(scored, Scored{Company: c, Score: score, Tags: tags})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if top > 0 && len(scored) > top {
		scored = scored[:top]
	}

	return scored
}

// Records converts ranked companies into output records.
func Records(scored []Scored) []*directory.Record {
	records := make([]*directory.Record, 0, len(scored))
	for _, s := range scored {
		records = append(records, directory.NewRecord(s.Company, s.Score))
	}
	return records
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
