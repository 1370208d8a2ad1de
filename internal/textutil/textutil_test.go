package textutil

import (
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeURLs(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "single url",
			input:    []string{"https://youtu.be/abc"},
			expected: []string{"https://youtu.be/abc"},
		},
		{
			name:     "newline separated in one value",
			input:    []string{"https://a.com/1\nhttps://a.com/2"},
			expected: []string{"https://a.com/1", "https://a.com/2"},
		},
		{
			name:     "comma and whitespace separated",
			input:    []string{"https://a.com/1, https://a.com/2\thttps://a.com/3"},
			expected: []string{"https://a.com/1", "https://a.com/2", "https://a.com/3"},
		},
		{
			name:     "duplicates removed preserving first position",
			input:    []string{"https://a.com/1", "https://a.com/2", "https://a.com/1"},
			expected: []string{"https://a.com/1", "https://a.com/2"},
		},
		{
			name:     "non-http tokens dropped silently",
			input:    []string{"https://a.com/1", "ftp://a.com/2", "not-a-url", "http://b.com"},
			expected: []string{"https://a.com/1", "http://b.com"},
		},
		{
			name:     "empty input",
			input:    nil,
			expected: nil,
		},
		{
			name:     "only junk",
			input:    []string{"  ", "hello world"},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeURLs(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("NormalizeURLs(%v) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPickLanguagePriority(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "lowercased and trimmed",
			input:    []string{" KO ", "En"},
			expected: []string{"ko", "en"},
		},
		{
			name:     "duplicates collapse",
			input:    []string{"en", "EN", "ko", "en"},
			expected: []string{"en", "ko"},
		},
		{
			name:     "empty falls back to defaults",
			input:    nil,
			expected: []string{"ko", "en"},
		},
		{
			name:     "all-blank falls back to defaults",
			input:    []string{"", "  "},
			expected: []string{"ko", "en"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickLanguagePriority(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("PickLanguagePriority(%v) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPickLanguagePriorityDoesNotAliasDefaults(t *testing.T) {
	got := PickLanguagePriority(nil)
	got[0] = "zz"
	if DefaultLanguages[0] != "ko" {
		t.Errorf("DefaultLanguages mutated through returned slice: %v", DefaultLanguages)
	}
}

func TestCompactText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxChars int
		expected string
	}{
		{
			name:     "space runs collapse, blank-line runs become one blank line",
			input:    "Hello   world\n\n\n\nEnd",
			maxChars: 0,
			expected: "Hello world\n\nEnd",
		},
		{
			name:     "double newline kept as-is",
			input:    "a\n\nb",
			maxChars: 0,
			expected: "a\n\nb",
		},
		{
			name:     "tabs collapse with spaces",
			input:    "a\t\t b",
			maxChars: 0,
			expected: "a b",
		},
		{
			name:     "truncation counts runes",
			input:    "안녕하세요 여러분",
			maxChars: 5,
			expected: "안녕하세요",
		},
		{
			name:     "empty stays empty",
			input:    "",
			maxChars: 100,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompactText(tt.input, tt.maxChars)
			if got != tt.expected {
				t.Errorf("CompactText(%q, %d) = %q, expected %q", tt.input, tt.maxChars, got, tt.expected)
			}
		})
	}
}

func TestCompactTextIdempotent(t *testing.T) {
	input := "Hello   world\n\n\n\nEnd of    transcript"
	once := CompactText(input, 0)
	twice := CompactText(once, 0)
	if once != twice {
		t.Errorf("CompactText not idempotent: %q != %q", once, twice)
	}
}

func TestSegmentsToText(t *testing.T) {
	tests := []struct {
		name     string
		segments []any
		expected string
	}{
		{
			name: "text field preferred",
			segments: []any{
				map[string]any{"text": "first line"},
				map[string]any{"text": "second line"},
			},
			expected: "first line\nsecond line",
		},
		{
			name: "caption and value fallbacks",
			segments: []any{
				map[string]any{"caption": "from caption"},
				map[string]any{"value": "from value"},
			},
			expected: "from caption\nfrom value",
		},
		{
			name: "text wins over caption in same segment",
			segments: []any{
				map[string]any{"caption": "loser", "text": "winner"},
			},
			expected: "winner",
		},
		{
			name:     "plain string segments allowed",
			segments: []any{"a", "b"},
			expected: "a\nb",
		},
		{
			name: "segments without text skipped",
			segments: []any{
				map[string]any{"start": 1.5},
				map[string]any{"text": "kept"},
			},
			expected: "kept",
		},
		{
			name:     "empty yields empty",
			segments: nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SegmentsToText(tt.segments, 0)
			if got != tt.expected {
				t.Errorf("SegmentsToText = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("가", 30)

	tests := []struct {
		name     string
		input    string
		maxChars int
		expected string
	}{
		{"no limit", "abc", 0, "abc"},
		{"under limit", "abc", 10, "abc"},
		{"exact limit", "abc", 3, "abc"},
		{"over limit ascii", "abcdef", 4, "abcd"},
		{"over limit multibyte", long, 10, strings.Repeat("가", 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxChars)
			if got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, expected %q", tt.input, tt.maxChars, got, tt.expected)
			}
		})
	}
}

func TestCharCount(t *testing.T) {
	if got := CharCount("안녕, world"); got != 9 {
		t.Errorf("CharCount = %d, expected 9", got)
	}
}
