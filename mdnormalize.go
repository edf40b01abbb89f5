package md2speech

import (
	"regexp"
	"strings"
)

// Precompiled regex patterns for performance.
var (
	// HTML comments, possibly spanning lines
	htmlComment = regexp.MustCompile(`(?s)<!--.*?-->`)

	// ATX heading markers
	headingMarker = regexp.MustCompile(`(?m)^#{1,6}\s+`)

	// Links and images share the bracket syntax; the leading ! is captured
	// so the link rule can leave images for the image rule to delete whole
	linkOrImage = regexp.MustCompile(`!?\[([^\]]*)\]\(([^)]*)\)`)

	// Paired emphasis markers
	boldStars       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicStar      = regexp.MustCompile(`\*(.+?)\*`)
	boldUnderscores = regexp.MustCompile(`__(.+?)__`)
	italicUnderscor = regexp.MustCompile(`_(.+?)_`)

	// Fenced code blocks, content included
	fencedBlock = regexp.MustCompile("(?s)```.*?```")

	// Inline code spans
	inlineCode = regexp.MustCompile("`([^`]*)`")

	// List markers at line start
	unorderedMarker = regexp.MustCompile(`(?m)^[-*+]\s+`)
	orderedMarker   = regexp.MustCompile(`(?m)^[0-9]+\.\s+`)

	// Leftover HTML tags
	htmlTag = regexp.MustCompile(`<[^>]+>`)

	// Compress runs of 3+ newlines to exactly 2
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// Trailing whitespace before a newline
	trailingWhitespace = regexp.MustCompile(`(?m)[ \t]+$`)
)

// Normalizer defines the contract for Markdown-to-narration cleanup.
type Normalizer interface {
	Normalize(content string) string
}

// markdownNormalizer strips Markdown syntax, producing plain prose
// suitable for speech synthesis.
type markdownNormalizer struct{}

// Normalize applies all cleanup rules in a fixed, order-sensitive sequence.
// Later rules operate on the output of earlier rules: links are rewritten
// before images are deleted (the link rule skips image syntax), and
// emphasis pairs are stripped before list markers so a lone list star
// survives for the list rule.
func (n *markdownNormalizer) Normalize(content string) string {
	content = deleteHTMLComments(content)
	content = deleteHeadingMarkers(content)
	content = rewriteLinks(content)
	content = stripStarEmphasis(content)
	content = stripUnderscoreEmphasis(content)
	content = deleteFencedBlocks(content)
	content = stripInlineCode(content)
	content = deleteListMarkers(content)
	content = deleteImages(content)
	content = deleteHTMLTags(content)
	content = compressBlankLines(content)
	content = trimTrailingWhitespace(content)
	return strings.TrimSpace(content)
}

// deleteHTMLComments removes <!-- ... --> entirely, including content.
func deleteHTMLComments(content string) string {
	return htmlComment.ReplaceAllString(content, "")
}

// deleteHeadingMarkers removes leading # markers, keeping the heading text.
func deleteHeadingMarkers(content string) string {
	return headingMarker.ReplaceAllString(content, "")
}

// rewriteLinks rewrites [label](url) to label.
// Image syntax ![alt](url) is left untouched for deleteImages.
func rewriteLinks(content string) string {
	return linkOrImage.ReplaceAllStringFunc(content, func(match string) string {
		if strings.HasPrefix(match, "!") {
			return match
		}
		sub := linkOrImage.FindStringSubmatch(match)
		return sub[1]
	})
}

// stripStarEmphasis removes paired ** and * markers, keeping inner text.
func stripStarEmphasis(content string) string {
	content = boldStars.ReplaceAllString(content, "$1")
	return italicStar.ReplaceAllString(content, "$1")
}

// stripUnderscoreEmphasis removes paired __ and _ markers, keeping inner text.
func stripUnderscoreEmphasis(content string) string {
	content = boldUnderscores.ReplaceAllString(content, "$1")
	return italicUnderscor.ReplaceAllString(content, "$1")
}

// deleteFencedBlocks removes triple-backtick code blocks entirely.
// Code read aloud is noise, so the content goes too.
func deleteFencedBlocks(content string) string {
	return fencedBlock.ReplaceAllString(content, "")
}

// stripInlineCode removes single-backtick delimiters, keeping inner text.
func stripInlineCode(content string) string {
	return inlineCode.ReplaceAllString(content, "$1")
}

// deleteListMarkers removes unordered (-, *, +) and ordered (1.) markers.
func deleteListMarkers(content string) string {
	content = unorderedMarker.ReplaceAllString(content, "")
	return orderedMarker.ReplaceAllString(content, "")
}

// deleteImages removes ![alt](url) entirely, alt text included.
func deleteImages(content string) string {
	return linkOrImage.ReplaceAllStringFunc(content, func(match string) string {
		if strings.HasPrefix(match, "!") {
			return ""
		}
		return match
	})
}

// deleteHTMLTags removes remaining HTML tags.
func deleteHTMLTags(content string) string {
	return htmlTag.ReplaceAllString(content, "")
}

// compressBlankLines limits consecutive blank lines to 2 maximum.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// trimTrailingWhitespace removes spaces and tabs before newlines.
func trimTrailingWhitespace(content string) string {
	return trailingWhitespace.ReplaceAllString(content, "")
}
