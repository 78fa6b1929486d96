package vault

import (
	"regexp"
	"strings"
)

// wordChar matches what counts as part of a tag token: letters, digits
// and underscore, Unicode-aware so Japanese tags terminate correctly.
var inlineTag = regexp.MustCompile(`#[\p{L}\p{N}_]+`)

// tagPattern compiles the word-boundary pattern for one target tag:
// the tag must be followed by end of text, whitespace, or a character
// that cannot extend a tag token. `#要約対象` matches inside arbitrary
// text; `#要約対象extra` does not.
func tagPattern(tag string) *regexp.Regexp {
	return regexp.MustCompile(`#` + regexp.QuoteMeta(tag) + `($|\s|[^\p{L}\p{N}_#])`)
}

// MatchesTag reports whether text contains target written inline as a
// standalone `#tag` token. Case-sensitive; pure; an empty tag never
// matches.
func MatchesTag(text, target string) bool {
	if target == "" {
		return false
	}
	return tagPattern(target).MatchString(text)
}

// StripTags removes all inline tag tokens from text and trims the
// result, mirroring how the summarizer input is cleaned.
func StripTags(text string) string {
	return strings.TrimSpace(inlineTag.ReplaceAllString(text, ""))
}
