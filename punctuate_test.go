package md2speech

import "testing"

func TestPunctuate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "sentence pause extended",
			input:    "End. Next",
			expected: "End.. Next",
		},
		{
			name:     "comma doubled",
			input:    "red, green, blue",
			expected: "red,, green,, blue",
		},
		{
			name:     "semicolon gains breath",
			input:    "first; second",
			expected: "first;, second",
		},
		{
			name:     "colon gains breath",
			input:    "note: important",
			expected: "note:, important",
		},
		{
			name:     "parentheses gain breaths",
			input:    "yes (really) yes",
			expected: "yes ,(really), yes",
		},
		{
			name:     "slash read as separate items",
			input:    "cats/dogs",
			expected: "cats,,dogs",
		},
		{
			name:     "abbreviation at phrase end",
			input:    "see e.g.",
			expected: "see e.g.,",
		},
		{
			name:     "newline gains per-line pause",
			input:    "one\ntwo",
			expected: "one\n....two",
		},
		{
			name:     "combined sentence",
			input:    "Hello, world: yes (really).",
			expected: "Hello,, world:, yes ,(really),.",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	p := &narrationPunctuator{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Punctuate(tt.input)
			if got != tt.expected {
				t.Errorf("Punctuate() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// Commas inserted by the parenthesis and slash rules must not be doubled;
// the comma rule runs first precisely so this holds.
func TestPunctuateRuleOrder(t *testing.T) {
	p := &narrationPunctuator{}

	got := p.Punctuate("(x)")
	if got != ",(x)," {
		t.Errorf("Punctuate(%q) = %q, want %q", "(x)", got, ",(x),")
	}

	got = p.Punctuate("a/b, c")
	if got != "a,,b,, c" {
		t.Errorf("Punctuate(%q) = %q, want %q", "a/b, c", got, "a,,b,, c")
	}
}

func TestPunctuateMultiLine(t *testing.T) {
	p := &narrationPunctuator{}
	got := p.Punctuate("one\ntwo\nthree")
	expected := "one\n....two\n....three"
	if got != expected {
		t.Errorf("Punctuate() = %q, want %q", got, expected)
	}
}
