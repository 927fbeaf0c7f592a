package openai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareTextShortPassesThrough(t *testing.T) {
	text := "a short paper"
	assert.Equal(t, text, prepareText(text, 8000))
}

func TestPrepareTextKeepsPrioritySections(t *testing.T) {
	text := strings.Join([]string{
		"Some Paper",
		"Abstract",
		strings.Repeat("core claim ", 50),
		"1. Introduction",
		strings.Repeat("background ", 50),
		"Methods",
		strings.Repeat("procedure ", 300),
		"Conclusion",
		strings.Repeat("takeaway ", 50),
	}, "\n")
	require.Greater(t, len(text), 2000)

	result := prepareText(text, 2000)
	assert.LessOrEqual(t, len(result), 2000)
	assert.Contains(t, result, "ABSTRACT:")
	assert.Contains(t, result, "core claim")
	assert.Contains(t, result, "INTRODUCTION:")
	// Abstract and introduction come before methods in the rebuilt text.
	assert.Less(t, strings.Index(result, "core claim"), strings.Index(result, "background"))
}

func TestPrepareTextHeadTailFallback(t *testing.T) {
	text := "START " + strings.Repeat("middle ", 2000) + " END"
	result := prepareText(text, 1000)

	assert.LessOrEqual(t, len(result), 1000)
	assert.True(t, strings.HasPrefix(result, "START"))
	assert.True(t, strings.HasSuffix(result, "END"))
	assert.Contains(t, result, "\n...\n")
}

func TestSplitSections(t *testing.T) {
	text := strings.Join([]string{
		"Title line",
		"ABSTRACT:",
		"the abstract body",
		"2. Results",
		"the results body",
		"Acknowledgements",
		"thanks to everyone",
	}, "\n")

	sections := splitSections(text)
	assert.Equal(t, "the abstract body", sections["abstract"])
	assert.Equal(t, "the results body\nAcknowledgements\nthanks to everyone", sections["results"])
	_, ok := sections["acknowledgements"]
	assert.False(t, ok, "unknown headings are not sections")
}

func TestMatchHeading(t *testing.T) {
	cases := map[string]bool{
		"Abstract":               true,
		"ABSTRACT:":              true,
		"1. Introduction":        true,
		"3 Methods":              true,
		"Conclusion":             true,
		"Related Work":           false,
		"the methods we used":    false,
		"introduction to topic":  false,
	}
	for line, want := range cases {
		_, ok := matchHeading(line)
		assert.Equal(t, want, ok, "line %q", line)
	}
}
