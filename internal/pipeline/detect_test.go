package pipeline

import "testing"

func TestIsCanonical(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want bool
	}{
		// Headings
		{"heading level 1", "# Title", true},
		{"heading level 6", "###### Deep", true},
		{"heading level 7 is not a heading", "####### Too deep", false},
		{"hash without space", "#hashtag", false},
		{"indented heading", "   ## Indented", true},

		// Emphasis
		{"bold", "**strong** words", true},
		{"italic", "*soft* words", true},
		{"strikethrough", "~~gone~~", true},
		{"single tilde", "~approx~", false},

		// Blocks
		{"block quote", "> quoted", true},
		{"quote marker without space", ">quoted", false},
		{"horizontal rule", "---", true},
		{"long horizontal rule", "----------", true},
		{"rule with trailing text", "--- more", false},
		{"two dashes", "--", false},

		// Links and code
		{"link", "[site](https://example.com)", true},
		{"link without target", "[site]", false},
		{"inline code", "`go vet`", true},
		{"fenced code", "```go", true},

		// Lists
		{"dash list item", "- milk", true},
		{"star list item", "* eggs", true},
		{"plus list item", "+ bread", true},
		{"ordered item", "12. twelfth", true},
		{"number without dot", "12 twelfth", false},

		// Commands and prose
		{"command line", "bold this: Welcome", false},
		{"plain prose", "just some words", false},
		{"empty", "", false},
		{"whitespace only", "   \t", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsCanonical(tt.line); got != tt.want {
				t.Errorf("IsCanonical(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestIsBlankLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want bool
	}{
		{"", true},
		{" ", true},
		{"\t \r", true},
		{"x", false},
		{"  x  ", false},
	}

	for _, tt := range tests {
		if got := isBlankLine(tt.line); got != tt.want {
			t.Errorf("isBlankLine(%q) = %v, want %v", tt.line, got, tt.want)
		}
	}
}
