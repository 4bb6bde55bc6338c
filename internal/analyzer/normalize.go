package analyzer

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/contenttrust/verifier/internal/models"
)

// MinContentLength is the minimum normalized text length (in runes) an
// item must carry to be analyzable. Shorter items are rejected outright.
const MinContentLength = 5

// NormalizeText extracts usable text from an item by joining its
// non-empty text-bearing fields in priority order.
func NormalizeText(item models.ContentItem) string {
	fields := []string{item.Content, item.Text, item.Description, item.Title, item.Summary}

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		if s := strings.TrimSpace(f); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// Insufficient reports whether normalized text is too short to analyze.
func Insufficient(text string) bool {
	return utf8.RuneCountInString(text) < MinContentLength
}

var wordSplitRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// extractWords lowercases text, strips punctuation and splits on
// whitespace. Unicode-aware so accented lexicon entries match.
func extractWords(text string) []string {
	text = strings.ToLower(text)
	text = wordSplitRe.ReplaceAllString(text, " ")
	return strings.Fields(text)
}
