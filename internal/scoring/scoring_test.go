package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/shortlist/internal/directory"
)

func TestScoreEachPredicate(t *testing.T) {
	w := DefaultWeights()
	rubric := NewRubric(w)

	tests := []struct {
		name    string
		company directory.Company
		expect  int
		tag     string
	}{
		{name: "remote", company: directory.Company{Regions: []string{"Partly Remote"}}, expect: w.Remote, tag: "remote"},
		{name: "hiring", company: directory.Company{IsHiring: true}, expect: w.Hiring, tag: "hiring"},
		{name: "small team", company: directory.Company{TeamSize: 49}, expect: w.SmallTeam, tag: "small_team"},
		{name: "voice agent llm", company: directory.Company{OneLiner: "Conversational assistant"}, expect: w.VoiceAgentLLM, tag: "voice_agent_llm"},
		{name: "developer tool", company: directory.Company{Tags: []string{"Developer Tools"}}, expect: w.DeveloperTool, tag: "developer_tool"},
		{name: "ats", company: directory.Company{ATS: "Greenhouse"}, expect: w.ATS, tag: "ats"},
		{name: "nothing", company: directory.Company{TeamSize: 50}, expect: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, tags := rubric.Score(&tt.company)
			assert.Equal(t, tt.expect, score)
			if tt.tag != "" {
				assert.Equal(t, []string{tt.tag}, tags)
			} else {
				assert.Empty(t, tags)
			}
		})
	}
}

func TestScoreLATAMRegion(t *testing.T) {
	score, tags := NewRubric(DefaultWeights()).Score(&directory.Company{Regions: []string{"Latin America"}})

	assert.Equal(t, 2, score)
	assert.Equal(t, []string{"latam"}, tags)
}

func TestScoreIsAdditive(t *testing.T) {
	rubric := NewRubric(DefaultWeights())

	base := directory.Company{
		Regions:  []string{"Remote"},
		TeamSize: 10,
		OneLiner: "LLM agents",
	}
	baseScore, _ := rubric.Score(&base)

	hiring := base
	hiring.IsHiring = true
	hiringScore, _ := rubric.Score(&hiring)

	assert.Equal(t, baseScore+DefaultWeights().Hiring, hiringScore)

	withSDK := hiring
	withSDK.LongDescription = "ships an SDK"
	sdkScore, _ := rubric.Score(&withSDK)

	assert.Equal(t, hiringScore+DefaultWeights().DeveloperTool, sdkScore)
}

func TestRankIsStable(t *testing.T) {
	companies := []*directory.Company{
		{Name: "low"},
		{Name: "tie-1", IsHiring: true},
		{Name: "high", IsHiring: true, Regions: []string{"Remote"}},
		{Name: "tie-2", IsHiring: true},
	}

	ranked := NewRubric(DefaultWeights()).Rank(companies, 3)
	require.Len(t, ranked, 3)

	names := []string{ranked[0].Company.Name, ranked[1].Company.Name, ranked[2].Company.Name}
	assert.Equal(t, []string{"high", "tie-1", "tie-2"}, names)
	assert.Equal(t, []int{6, 3, 3}, []int{ranked[0].Score, ranked[1].Score, ranked[2].Score})

	all := NewRubric(DefaultWeights()).Rank(companies, 0)
	assert.Len(t, all, 4)

	records := Records(ranked)
	assert.Equal(t, "high", records[0].Name)
	assert.Equal(t, 6, records[0].Score)
}
