package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToHTMLSanitized_StripsScripts(t *testing.T) {
	svc := NewMarkdownService()

	out, err := svc.ToHTMLSanitized("**fixed** the login page<script>alert(1)</script>")
	require.NoError(t, err)

	assert.Contains(t, out, "<strong>fixed</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestToHTMLSanitized_LinksGetNoFollow(t *testing.T) {
	svc := NewMarkdownService()

	out, err := svc.ToHTMLSanitized("see https://example.com/build/42")
	require.NoError(t, err)

	assert.Contains(t, out, `href="https://example.com/build/42"`)
	assert.Contains(t, out, `rel="nofollow`)
}

func TestToPlainText(t *testing.T) {
	svc := NewMarkdownService()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain text untouched", input: "works now", expected: "works now"},
		{name: "tags removed", input: "<b>bold</b> and <i>italic</i>", expected: "bold and italic"},
		{name: "newlines collapsed", input: "line one\n\n  line two\tend", expected: "line one line two end"},
		{name: "entities decoded", input: "a &amp; b", expected: "a & b"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, svc.ToPlainText(tt.input))
		})
	}
}
