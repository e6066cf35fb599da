package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFirstHeading(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"atx", "# Getting Started\n\nText\n", "Getting Started"},
		{"setext", "Overview\n========\n", "Overview"},
		{"skips level two", "## Sub\n\n# Main\n", "Main"},
		{"inline markup", "# The *quick* `fox`\n", "The quick fox"},
		{"none", "plain paragraph\n", ""},
		{"heading in code block", "```\n# not a heading\n```\n", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, FirstHeading([]byte(tc.body)))
		})
	}
}
