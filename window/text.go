package window

import (
	"regexp"
	"strings"
)

// DefaultGreeting is the prompt prefix that earns the full token budget
const DefaultGreeting = "Hello!"

// AdjustMaxTokens returns maxTokens when prompt starts with target and a
// third of it otherwise. An empty target defaults to DefaultGreeting.
func AdjustMaxTokens(maxTokens int, prompt, target string) int {
	if target == "" {
		target = DefaultGreeting
	}
	if strings.HasPrefix(strings.TrimSpace(prompt), strings.TrimSpace(target)) {
		return maxTokens
	}
	return maxTokens / 3
}

var (
	leadingNonLetters = regexp.MustCompile(`^[^a-zA-Z]*`)
	spaceBeforePunct  = regexp.MustCompile(`\s*([)'.!,?;:])`)
	dotBeforeWord     = regexp.MustCompile(`^\.\s*\w`)
	spaceAfterParen   = regexp.MustCompile(`(\()\s*`)
	repeatedSpaces    = regexp.MustCompile(` +`)
	spacedHyphen      = regexp.MustCompile(`\s*-\s*`)
)

// FormatSentence tidies model output: it drops leading non-letters, pulls
// punctuation onto the preceding word, collapses runs of spaces, tightens
// hyphens and trims surrounding quotes
func FormatSentence(text string) string {
	text = leadingNonLetters.ReplaceAllString(text, "")
	text = tightenPunctuation(text)
	text = spaceAfterParen.ReplaceAllString(text, "$1")
	text = repeatedSpaces.ReplaceAllString(text, " ")
	text = spacedHyphen.ReplaceAllString(text, "-")
	return strings.Trim(strings.TrimSpace(text), `"`)
}

// tightenPunctuation removes whitespace before punctuation, except where the
// mark starts an ellipsis-like run into a word such as " ..next"
func tightenPunctuation(text string) string {
	var b strings.Builder
	last := 0
	for _, m := range spaceBeforePunct.FindAllStringSubmatchIndex(text, -1) {
		if dotBeforeWord.MatchString(text[m[1]:]) {
			continue
		}
		b.WriteString(text[last:m[0]])
		b.WriteString(text[m[2]:m[3]])
		last = m[1]
	}
	b.WriteString(text[last:])
	return b.String()
}
