package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"OpenAI, Inc.":       "openai-inc",
		"  Acme   Labs ":     "acme-labs",
		"Day-One AI":         "day-one-ai",
		"--Leading-Trailing": "leading-trailing",
		"Ünicode Café":       "nicode-caf",
		"!!!":                "!!!",
		"":                   "",
	}

	for input, expect := range tests {
		assert.Equal(t, expect, Slugify(input), "Slugify(%q)", input)
	}
}

func TestSlugifyIsIdempotent(t *testing.T) {
	for _, name := range []string{"OpenAI, Inc.", "a - b", "Hello   World!", "???", "x--y", "Ünicode Café"} {
		once := Slugify(name)
		assert.Equal(t, once, Slugify(once), "name %q", name)
	}
}

func TestPriorityList(t *testing.T) {
	list := PriorityList([]string{"OpenAI, Inc.", "", "Acme"})

	assert.Equal(t, []PriorityEntry{
		{CompanyName: "openai-inc", Source: PrioritySource},
		{CompanyName: "acme", Source: PrioritySource},
	}, list)
}
