package core

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/codeyear/codeyear/schema"
)

var (
	// emojiRe covers the pictographic blocks that show up in commit
	// subjects (emoji proper, dingbats, arrows, variation selectors).
	emojiRe = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{2B00}-\x{2BFF}\x{FE00}-\x{FE0F}\x{2190}-\x{21FF}]`)

	// nonTokenRe matches everything that is neither a word character nor
	// CJK; such runs collapse to a single space before tokenizing.
	nonTokenRe = regexp.MustCompile(`[^\w\p{Han}\p{Hiragana}\p{Katakana}\p{Hangul}\s]+`)

	// commitTypeRe matches a conventional-commit prefix with an optional
	// parenthesized scope before the colon, e.g. "feat(parser): ...".
	commitTypeRe = regexp.MustCompile(
		`(?i)^(` + strings.Join(schema.ConventionalCommitTypes, "|") + `)(\([^)]*\))?!?:`)

	mergeRe  = regexp.MustCompile(`(?i)^merge\b`)
	revertRe = regexp.MustCompile(`(?i)^revert\b`)
)

// tokenizeMessage strips emoji and punctuation from a commit subject and
// returns lowercase tokens of at least two characters. CJK runs survive as
// whitespace-delimited tokens.
func tokenizeMessage(msg string) []string {
	cleaned := emojiRe.ReplaceAllString(msg, " ")
	cleaned = nonTokenRe.ReplaceAllString(cleaned, " ")

	var tokens []string
	for _, tok := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(tok) < 2 {
			continue
		}
		tokens = append(tokens, strings.ToLower(tok))
	}
	return tokens
}

// extractEmoji returns every emoji occurrence in the message, one entry per
// occurrence, excluding bare variation selectors.
func extractEmoji(msg string) []string {
	var out []string
	for _, m := range emojiRe.FindAllString(msg, -1) {
		r, _ := utf8.DecodeRuneInString(m)
		if r >= 0xFE00 && r <= 0xFE0F {
			continue
		}
		out = append(out, m)
	}
	return out
}

// classifyCommitType returns the lowercase conventional-commit type of a
// message, or "" when the leading token matches none of the fixed vocabulary.
func classifyCommitType(msg string) string {
	m := commitTypeRe.FindStringSubmatch(strings.TrimSpace(msg))
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

func isMergeMessage(msg string) bool {
	return mergeRe.MatchString(strings.TrimSpace(msg))
}

func isRevertMessage(msg string) bool {
	return revertRe.MatchString(strings.TrimSpace(msg))
}

func isHotfixMessage(msg string) bool {
	return strings.Contains(strings.ToLower(msg), "hotfix")
}

// countMarks counts exclamation and question marks, including their
// fullwidth forms so CJK subjects are scored too.
func countMarks(msg string) (exclamations, questions int) {
	exclamations = strings.Count(msg, "!") + strings.Count(msg, "！")
	questions = strings.Count(msg, "?") + strings.Count(msg, "？")
	return exclamations, questions
}
