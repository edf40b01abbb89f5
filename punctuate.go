package md2speech

import "strings"

// pausePerLine is appended after every newline to force an audible break
// between source lines.
const pausePerLine = "...."

// Punctuator defines the contract for pause-marker insertion.
type Punctuator interface {
	Punctuate(content string) string
}

// pauseRule is one (pattern, replacement) substitution.
type pauseRule struct {
	pattern     string
	replacement string
}

// pauseRules are applied strictly in order; each rule observes the output
// of the previous one. Comma doubling runs before the parenthesis and
// slash rules on purpose: commas inserted by those rules are pause markers
// already and must not be doubled again.
var pauseRules = []pauseRule{
	{". ", ".. "},   // extend sentence pause
	{",", ",,"},     // double comma pause
	{"; ", ";, "},   // breath after semicolon
	{": ", ":, "},   // breath after colon
	{"(", ",("},     // breath before parenthetical
	{")", "),"},     // breath after parenthetical
	{"/", ",,"},     // alternatives read as separate items
	{"e.g.", "e.g.,"}, // force a pause after the abbreviation
}

// narrationPunctuator inserts textual pause markers to slow down
// synthesized speech. It has no knowledge of sentence semantics and may
// over- or under-pause at decimals or abbreviations; that imprecision is
// part of the contract.
type narrationPunctuator struct{}

// Punctuate applies the pause substitutions in order, then appends the
// per-line pause token after every newline.
func (p *narrationPunctuator) Punctuate(content string) string {
	for _, r := range pauseRules {
		content = strings.ReplaceAll(content, r.pattern, r.replacement)
	}
	return strings.ReplaceAll(content, "\n", "\n"+pausePerLine)
}
