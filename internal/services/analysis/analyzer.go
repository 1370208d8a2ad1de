// Package analysis runs the per-video Gemini analysis with its single
// JSON-repair attempt, and synthesizes the channel profile from the
// successful analyses.
package analysis

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/vibelab/channel-dna-api/internal/models"
	"github.com/vibelab/channel-dna-api/internal/textutil"
)

// Character budgets around the generation calls.
const (
	maxDescriptionChars = 300  // description excerpt in the analysis prompt
	maxRepairInputChars = 6000 // failed output carried into the repair prompt
	maxPartialTextChars = 1200 // best-effort text kept on analysis failure
)

// Generator produces text from a prompt. Defined here, where it is used;
// satisfied by gemini.Client.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxOutputTokens int32) (string, error)
}

// Analyzer runs the per-video analysis state machine:
// generate -> parse, and on parse failure one repair generate -> parse.
type Analyzer struct {
	gen             Generator
	maxOutputTokens int32
	repairMaxTokens int32
	log             *logrus.Entry
}

// NewAnalyzer creates an analyzer. repairMaxTokens bounds the repair call
// separately from the first attempt (0 falls back to maxOutputTokens).
func NewAnalyzer(gen Generator, maxOutputTokens, repairMaxTokens int32, log *logrus.Entry) *Analyzer {
	if repairMaxTokens <= 0 {
		repairMaxTokens = maxOutputTokens
	}
	return &Analyzer{
		gen:             gen,
		maxOutputTokens: maxOutputTokens,
		repairMaxTokens: repairMaxTokens,
		log:             log,
	}
}

// Analyze produces the analysis sub-result for one video. It never returns
// an error: every failure becomes a VideoAnalysis with OK=false, because a
// failed analysis must not sink an item whose transcript was retrieved.
func (a *Analyzer) Analyze(ctx context.Context, index int, meta *models.VideoMeta, transcriptText string) *models.VideoAnalysis {
	prompt := BuildVideoAnalysisPrompt(
		index,
		meta.Title,
		textutil.Truncate(meta.Description, maxDescriptionChars),
		transcriptText,
	)

	text, err := a.gen.Generate(ctx, prompt, a.maxOutputTokens)
	if err != nil {
		return &models.VideoAnalysis{OK: false, Error: err.Error()}
	}

	if _, ok := DecodeObject(text); ok {
		return &models.VideoAnalysis{OK: true, Text: text}
	}

	// One repair attempt, then the outcome is final.
	a.log.WithField("index", index).Warn("analysis output is not valid JSON, attempting repair")

	repairPrompt := BuildJSONRepairPrompt(SchemaNameVideoAnalysis, textutil.Truncate(text, maxRepairInputChars))
	repaired, err := a.gen.Generate(ctx, repairPrompt, a.repairMaxTokens)
	if err != nil {
		return &models.VideoAnalysis{
			OK:    false,
			Error: err.Error(),
			Text:  textutil.Truncate(text, maxPartialTextChars),
		}
	}

	if _, ok := DecodeObject(repaired); !ok {
		return &models.VideoAnalysis{
			OK:    false,
			Error: "Gemini output is not valid JSON even after repair",
			Text:  textutil.Truncate(repaired, maxPartialTextChars),
		}
	}

	return &models.VideoAnalysis{OK: true, Text: repaired}
}
