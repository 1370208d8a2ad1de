// schema.go defines the typed contract the model is prompted to emit per
// video, plus the fence-tolerant JSON decoding used to validate it.
package analysis

import (
	"encoding/json"
	"regexp"
	"strings"
)

// VideoAnalysisDoc is the structured per-video analysis schema. Parsed
// generation output is carried as this typed value (or rejected) rather
// than as an untyped map.
type VideoAnalysisDoc struct {
	OK         bool      `json:"ok"`
	VideoIndex int       `json:"video_index"`
	Hook       Hook      `json:"hook"`
	Structure  Structure `json:"structure"`
	StyleTone  StyleTone `json:"style_tone"`
	Markers    Markers   `json:"expression_markers"`
	Retention  Retention `json:"retention"`
	Quotes     Quotes    `json:"quotes"`
}

// Hook describes the opening-hook format of a video.
type Hook struct {
	Summary    string   `json:"summary"`
	Techniques []string `json:"techniques"`
	Frames     []string `json:"frames"`
}

// Structure describes the narrative template and pacing.
type Structure struct {
	Template string   `json:"template"`
	Beats    []string `json:"beats"`
	Pacing   string   `json:"pacing"`
}

// StyleTone describes the narrator persona and tone.
type StyleTone struct {
	Persona        string   `json:"persona"`
	NarrationStyle string   `json:"narration_style"`
	ToneKeywords   []string `json:"tone_keywords"`
}

// Markers captures recurring expression habits (punctuation, catchphrases).
type Markers struct {
	Punctuation  []string `json:"punctuation"`
	Catchphrases []string `json:"catchphrases"`
	Rhythm       string   `json:"rhythm"`
	NumbersStyle string   `json:"numbers_style"`
}

// Retention lists the recurring retention devices and CTA frames.
type Retention struct {
	RecurringDevices []string `json:"recurring_devices"`
	CTA              []string `json:"cta"`
}

// Quotes holds verbatim transcript excerpts with rough evidence anchors.
type Quotes struct {
	Items []Quote `json:"items"`
}

// Quote is one verbatim excerpt.
type Quote struct {
	Text     string        `json:"text"`
	Evidence QuoteEvidence `json:"evidence"`
}

// QuoteEvidence anchors a quote to an approximate position.
type QuoteEvidence struct {
	ApproxStartSec float64  `json:"approx_start_sec"`
	NearKeywords   []string `json:"near_keywords"`
}

var (
	jsonFenceRegex = regexp.MustCompile("(?is)```json\\s*([\\s\\S]*?)```")
	anyFenceRegex  = regexp.MustCompile("(?s)```\\s*([\\s\\S]*?)```")
)

// StripCodeFence extracts the contents of a ```json fenced block, or any
// fenced block, from model output. Text without fences is returned trimmed.
func StripCodeFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.Contains(t, "```") {
		return t
	}
	if m := jsonFenceRegex.FindStringSubmatch(t); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := anyFenceRegex.FindStringSubmatch(t); m != nil {
		return strings.TrimSpace(m[1])
	}
	return t
}

// DecodeObject reports whether text (possibly fenced) parses as a JSON
// object, returning its raw members. This is the validity check the
// analyzer runs between the first attempt and the repair attempt.
func DecodeObject(text string) (map[string]json.RawMessage, bool) {
	if text == "" {
		return nil, false
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// DecodeDoc parses text (possibly fenced) into the typed per-video schema.
func DecodeDoc(text string) (*VideoAnalysisDoc, bool) {
	if text == "" {
		return nil, false
	}
	var doc VideoAnalysisDoc
	if err := json.Unmarshal([]byte(StripCodeFence(text)), &doc); err != nil {
		return nil, false
	}
	doc.fillDefaults()
	return &doc, true
}

// fillDefaults replaces nil slices with empty ones so downstream projection
// and serialization never emit null where the schema promises an array.
func (d *VideoAnalysisDoc) fillDefaults() {
	if d.Hook.Techniques == nil {
		d.Hook.Techniques = []string{}
	}
	if d.Hook.Frames == nil {
		d.Hook.Frames = []string{}
	}
	if d.Structure.Beats == nil {
		d.Structure.Beats = []string{}
	}
	if d.StyleTone.ToneKeywords == nil {
		d.StyleTone.ToneKeywords = []string{}
	}
	if d.Markers.Punctuation == nil {
		d.Markers.Punctuation = []string{}
	}
	if d.Markers.Catchphrases == nil {
		d.Markers.Catchphrases = []string{}
	}
	if d.Retention.RecurringDevices == nil {
		d.Retention.RecurringDevices = []string{}
	}
	if d.Retention.CTA == nil {
		d.Retention.CTA = []string{}
	}
	if d.Quotes.Items == nil {
		d.Quotes.Items = []Quote{}
	}
}
