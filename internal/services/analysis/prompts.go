// prompts.go builds the three Gemini prompts: per-video analysis, channel
// profile synthesis, and JSON repair.
package analysis

import (
	"fmt"

	"github.com/vibelab/channel-dna-api/internal/textutil"
)

// SchemaNameVideoAnalysis is the schema identifier passed to repair prompts.
const SchemaNameVideoAnalysis = "video_analysis"

// BuildVideoAnalysisPrompt asks for the reproducible "format DNA" of one
// video (hook, structure, tone, retention devices, verbatim quotes), never
// a content summary.
func BuildVideoAnalysisPrompt(index int, title, description, transcriptText string) string {
	return fmt.Sprintf(`You are an analyst that extracts only the reproducible "format DNA" of a YouTube video.
Do NOT summarize the video's content. Extract only hook / structure / tone / retention / CTA / recurring frames, as JSON.

[Output rules]
- Output pure JSON only (no explanations, no markdown, no code fences)
- Use exactly the keys of the schema below (no extra keys)
- Write values in the transcript's own language
- Never invent anything that has no basis in transcript_text

[Quotes rules]
- quotes.items[].text must be a contiguous passage that literally appears in transcript_text
- Trim long passages; at most 20 words (or 120 characters) each
- If no passage can be found, set quotes.items to []
- evidence.approx_start_sec may be approximate; if unsure use 0 and fill near_keywords

[Expression markers rules]
- expression_markers records only recurring delivery habits (phrasing, symbols, verbal tics)
- Do not summarize or reinterpret the subject matter itself

[JSON schema]
{
  "ok": true,
  "video_index": %d,

  "hook": {
    "summary": "one sentence describing the opening hook, format-wise",
    "techniques": ["question/shock/number/twist/fear/comparison/meme etc."],
    "frames": [
      "question frame: 'did you know X?'",
      "number frame: '90%% of X ...'",
      "twist frame: 'everyone thinks X, but actually ...'"
    ]
  },

  "structure": {
    "template": "problem -> evidence x2 -> example -> pivot -> wrap-up",
    "beats": ["4-7 beats, format-centric"],
    "pacing": "tempo notes (short)"
  },

  "style_tone": {
    "persona": "narrator character/position (e.g. reporter / friend / authority / comic)",
    "narration_style": "delivery and rhythm notes (short)",
    "tone_keywords": ["5 keywords"]
  },

  "expression_markers": {
    "punctuation": ["up to 6 habitual punctuation/symbol patterns"],
    "catchphrases": ["up to 6 recurring fixed phrases"],
    "rhythm": "sentence-breath characteristics (short)",
    "numbers_style": "how numbers/units/comparisons are presented (short)"
  },

  "retention": {
    "recurring_devices": ["recurring devices / fixed segments / rhythm devices"],
    "cta": ["CTA types / sentence frames (up to 3)"]
  },

  "quotes": {
    "items": [
      {
        "text": "contiguous passage actually present in the transcript (<=20 words / 120 chars)",
        "evidence": {
          "approx_start_sec": 0,
          "near_keywords": ["nearby keyword 1", "nearby keyword 2"]
        }
      }
    ]
  }
}

[Meta]
- index: %d
- title: %s
- description: %s

[transcript_text]
%s`, index, index, title, textutil.Truncate(description, 250), transcriptText)
}

// BuildChannelProfilePrompt asks for a reproducible channel playbook
// synthesized from the per-video format-DNA JSON records.
func BuildChannelProfilePrompt(analysesJSON string) string {
	return fmt.Sprintf(`You are a strategist that extracts only the reproducible "playbook" of a YouTube channel.
Below is a collection of format-DNA JSON records extracted from several videos of the same channel.

[Output rules]
- Output pure JSON only (no markdown, no code fences, no explanations)
- Write values in the source material's own language
- No unsupported guessing; mark uncertain items as estimates

[Aggregation rules (important)]
- Adopt a pattern as core only when it recurs in at least 60%% of the videos
- Low-frequency patterns go into options instead
- tone_keywords: top 5 only
- opening/body/ending: 1-2 sentence frames each
- Never generalize subject matter; extract format only

[Output JSON schema]
{
  "ok": true,
  "one_sentence_concept": "one-sentence concept, format perspective",
  "target_audience": "core audience (estimate allowed)",
  "fixed_format": {
    "opening": "opening frame (1-2 sentences)",
    "body": "body frame (1-2 sentences)",
    "ending": "ending/CTA frame (1-2 sentences)",
    "hook_frames": ["top 3-6 recurring hook frames"],
    "structure_templates": ["top 2-4 recurring structure templates"],
    "recurring_devices": ["recurring devices"]
  },
  "tone_guide": {
    "persona": "narrator character",
    "tone_keywords": ["5 keywords"],
    "dos": ["things to do"],
    "donts": ["things to avoid"]
  },
  "cta_system": {
    "types": ["CTA types (comments / subscribe / next-episode tease etc.)"],
    "templates": ["top 3-6 CTA sentence frames"],
    "timing_rules": ["CTA placement rules"]
  },
  "options": {
    "optional_hooks": ["optional hook frames"],
    "optional_devices": ["optional devices"],
    "optional_structures": ["optional structure templates"]
  },
  "checklist": ["pre-production checklist (about 10 items)"]
}

[Format-DNA records (JSON)]
%s`, analysesJSON)
}

// BuildJSONRepairPrompt asks the model to re-emit a failed output as pure
// JSON conforming to the named schema, without inventing new content.
func BuildJSONRepairPrompt(schemaName, rawText string) string {
	return fmt.Sprintf(`You are a JSON format repairer.
The text below is a model's output that is either not pure JSON or violates its schema.

[Rules]
- Output pure JSON only
- Absolutely no markdown / code fences / explanations / extra text
- Do not generate new information: add nothing that is not in the original text
- When a value is uncertain, use an empty value / empty array / 0
- Only keys from the schema are allowed (no extra keys)

[schema_name]
%s

[raw_output]
%s`, schemaName, rawText)
}
