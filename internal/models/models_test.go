package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestStringListUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected StringList
		wantErr  bool
	}{
		{
			name:     "array of strings",
			input:    `["a", "b"]`,
			expected: StringList{"a", "b"},
		},
		{
			name:     "single string wrapped",
			input:    `"https://a.com/1\nhttps://a.com/2"`,
			expected: StringList{"https://a.com/1\nhttps://a.com/2"},
		},
		{
			name:     "null yields nil",
			input:    `null`,
			expected: nil,
		},
		{
			name:    "number rejected",
			input:   `42`,
			wantErr: true,
		},
		{
			name:    "object rejected",
			input:   `{"a": 1}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringList
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error for %s, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("got %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestAnalyzeResponseJSONShape(t *testing.T) {
	resp := AnalyzeResponse{
		OK:     true,
		Count:  1,
		Videos: []VideoResult{{Index: 1, URL: "https://a.com", OK: true}},
		// Profile intentionally nil; the key must still appear as null.
		Warnings: []Warning{},
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	profile, present := m["channelProfile"]
	if !present {
		t.Fatal("channelProfile key missing from response")
	}
	if string(profile) != "null" {
		t.Errorf("channelProfile = %s, expected null", profile)
	}

	if string(m["warnings"]) != "[]" {
		t.Errorf("warnings = %s, expected []", m["warnings"])
	}
}

func TestVideoResultAnalysisKeyCasing(t *testing.T) {
	v := VideoResult{
		Index:         1,
		URL:           "https://a.com",
		OK:            true,
		VideoAnalysis: &VideoAnalysis{OK: true, Text: "{}"},
	}

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := m["videoAnalysis"]; !ok {
		t.Errorf("expected videoAnalysis key, got keys %v", keys(m))
	}
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
