// Package textutil contains the text-normalization helpers shared by the
// request layer and the transcript pipeline.
package textutil

import (
	"regexp"
	"strings"
)

// DefaultLanguages is the fallback language priority when a request does not
// name any usable languages.
var DefaultLanguages = []string{"ko", "en"}

var (
	tokenSplitRegex = regexp.MustCompile(`[\s,]+`)
	spaceRunRegex   = regexp.MustCompile(`[ \t]+`)
	blankLinesRegex = regexp.MustCompile(`\n{3,}`)
)

// NormalizeURLs flattens the given values into a deduplicated, order-
// preserving list of http(s) URLs. Each value may itself contain several
// URLs separated by whitespace, commas, or newlines. Malformed entries are
// silently dropped, never rejected.
func NormalizeURLs(values []string) []string {
	joined := strings.TrimSpace(strings.Join(values, "\n"))
	if joined == "" {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	for _, tok := range tokenSplitRegex.Split(joined, -1) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if !strings.HasPrefix(tok, "http://") && !strings.HasPrefix(tok, "https://") {
			continue
		}
		if seen[tok] {
			continue
		}
		seen[tok] = true
		out = append(out, tok)
	}
	return out
}

// PickLanguagePriority lower-cases, trims, and deduplicates the given
// language codes, preserving order. Falls back to DefaultLanguages when
// nothing usable remains.
func PickLanguagePriority(languages []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, l := range languages {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	if len(out) == 0 {
		return append([]string(nil), DefaultLanguages...)
	}
	return out
}

// CompactText collapses runs of spaces/tabs to one space and runs of three
// or more newlines to exactly one blank line, then truncates to maxChars
// characters. maxChars <= 0 means no truncation.
func CompactText(text string, maxChars int) string {
	if text == "" {
		return ""
	}
	t := spaceRunRegex.ReplaceAllString(text, " ")
	t = blankLinesRegex.ReplaceAllString(t, "\n\n")
	return Truncate(t, maxChars)
}

// SegmentsToText joins the text-like field of each caption segment with
// newlines, then compacts the result. Segments may be objects (text, caption
// or value field, first present wins) or plain strings; segments with no
// text are skipped.
func SegmentsToText(segments []any, maxChars int) string {
	if len(segments) == 0 {
		return ""
	}
	var texts []string
	for _, seg := range segments {
		switch v := seg.(type) {
		case map[string]any:
			for _, key := range []string{"text", "caption", "value"} {
				if s, ok := v[key].(string); ok && s != "" {
					texts = append(texts, s)
					break
				}
			}
		case string:
			if v != "" {
				texts = append(texts, v)
			}
		}
	}
	joined := strings.TrimSpace(strings.Join(texts, "\n"))
	if joined == "" {
		return ""
	}
	return CompactText(joined, maxChars)
}

// Truncate cuts s to at most maxChars characters. Counts runes, not bytes;
// transcripts are frequently Korean. maxChars <= 0 means no limit.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}

// CharCount counts characters (runes) the same way Truncate measures them.
func CharCount(s string) int {
	return len([]rune(s))
}
