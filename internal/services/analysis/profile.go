// profile.go filters the per-video results into evidence records and runs
// the single channel-profile synthesis call.
package analysis

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vibelab/channel-dna-api/internal/models"
	"github.com/vibelab/channel-dna-api/internal/textutil"
)

// ErrNoValidAnalyses is the profile error reported when no per-video
// analysis survived the ok-filter.
const ErrNoValidAnalyses = "No valid per-video analyses to build channel profile"

const maxRawEvidenceChars = 1200

// EvidenceMeta is the metadata subset carried into the profile prompt.
type EvidenceMeta struct {
	Title       string `json:"title"`
	Channel     string `json:"channel"`
	PublishedAt string `json:"published_at"`
	Language    string `json:"language"`
}

// EvidenceDNA is the bounded format-DNA projection of one analysis. Either
// the structured fields are set (parsed schema) or RawText carries a
// length-capped snippet of the unparseable analysis text.
type EvidenceDNA struct {
	VideoIndex int        `json:"video_index,omitempty"`
	Hook       *Hook      `json:"hook,omitempty"`
	Structure  *Structure `json:"structure,omitempty"`
	StyleTone  *StyleTone `json:"style_tone,omitempty"`
	Markers    *Markers   `json:"expression_markers,omitempty"`
	Retention  *Retention `json:"retention,omitempty"`
	Quotes     *Quotes    `json:"quotes,omitempty"`
	RawText    string     `json:"raw_text,omitempty"`
}

// EvidenceRecord feeds one filtered video analysis into the profile prompt.
// Ephemeral: built for the synthesis call and discarded afterwards.
type EvidenceRecord struct {
	Index int          `json:"index"`
	URL   string       `json:"url"`
	Meta  EvidenceMeta `json:"meta"`
	DNA   EvidenceDNA  `json:"dna"`
}

// Profiler runs the channel-profile synthesis. No repair attempt at this
// stage: one call, and any failure becomes a failed ProfileResult.
type Profiler struct {
	gen             Generator
	model           string
	maxOutputTokens int32
	log             *logrus.Entry
}

// NewProfiler creates a profiler. model is only echoed into successful
// results for accounting.
func NewProfiler(gen Generator, model string, maxOutputTokens int32, log *logrus.Entry) *Profiler {
	return &Profiler{
		gen:             gen,
		model:           model,
		maxOutputTokens: maxOutputTokens,
		log:             log,
	}
}

// BuildEvidence filters the video results to the analyses usable for
// synthesis and reshapes each into a bounded evidence record.
//
// Kept: outer-ok items whose analysis sub-result is ok AND whose parsed
// schema carries ok=true. Items whose text no longer parses as the schema
// fall back to a raw-text snippet rather than being dropped.
func BuildEvidence(videos []models.VideoResult) []EvidenceRecord {
	var records []EvidenceRecord
	for _, v := range videos {
		if !v.OK || v.VideoAnalysis == nil || !v.VideoAnalysis.OK {
			continue
		}

		var dna EvidenceDNA
		doc, parsed := DecodeDoc(v.VideoAnalysis.Text)
		switch {
		case parsed && doc.OK:
			dna = EvidenceDNA{
				VideoIndex: doc.VideoIndex,
				Hook:       &doc.Hook,
				Structure:  &doc.Structure,
				StyleTone:  &doc.StyleTone,
				Markers:    &doc.Markers,
				Retention:  &doc.Retention,
				Quotes:     &doc.Quotes,
			}
		case parsed:
			// Parsed but the schema's own ok flag is false: not usable.
			continue
		default:
			// Keep minimal information only, to avoid prompt blow-up.
			dna = EvidenceDNA{RawText: textutil.Truncate(strings.TrimSpace(v.VideoAnalysis.Text), maxRawEvidenceChars)}
		}

		meta := EvidenceMeta{}
		if v.Meta != nil {
			meta = EvidenceMeta{
				Title:       v.Meta.Title,
				Channel:     v.Meta.Channel,
				PublishedAt: v.Meta.PublishedAt,
				Language:    v.Meta.Language,
			}
		}

		records = append(records, EvidenceRecord{
			Index: v.Index,
			URL:   v.URL,
			Meta:  meta,
			DNA:   dna,
		})
	}
	return records
}

// Build synthesizes the channel profile from the video results. Never nil:
// an empty evidence set or a failed generation call yields a ProfileResult
// with OK=false.
func (p *Profiler) Build(ctx context.Context, videos []models.VideoResult) *models.ProfileResult {
	records := BuildEvidence(videos)
	if len(records) == 0 {
		return &models.ProfileResult{OK: false, Error: ErrNoValidAnalyses}
	}

	evidenceJSON, err := json.Marshal(records)
	if err != nil {
		return &models.ProfileResult{OK: false, Error: err.Error()}
	}

	p.log.WithField("evidence_count", len(records)).Info("building channel profile")

	text, err := p.gen.Generate(ctx, BuildChannelProfilePrompt(string(evidenceJSON)), p.maxOutputTokens)
	if err != nil {
		p.log.WithField("error", err.Error()).Warn("channel profile generation failed")
		return &models.ProfileResult{OK: false, Error: err.Error()}
	}

	return &models.ProfileResult{OK: true, Model: p.model, Text: text}
}
