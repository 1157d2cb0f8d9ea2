// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package analysis contains the pure computation core of the clip extraction
// engine. Every component in this package is deterministic, synchronous, and
// free of I/O: raw transcripts become content segments, frame descriptions
// become visual cues, the two signals are fused per time window, fused
// segments are scored and selected, and the winners are trimmed per target
// platform. The asynchronous collaborator boundaries (transcription, frame
// description) live outside this package; it only ever sees their outputs.
//
// This file implements the TranscriptSegmenter, which turns an ordered list
// of raw utterance spans into coherent spoken-content segments.
//
// Logic Flow:
//  1. Drop spans that are too short to carry content or that the transcriber
//     flagged as probable silence/noise.
//  2. Accumulate consecutive surviving spans into a running segment while the
//     combined window stays within the maximum duration.
//  3. When the window would overflow, emit the running segment if it meets
//     the minimum duration, otherwise drop it, and seed a new running
//     segment from the current span.
//  4. Tag each emitted segment with a content type by matching its text
//     against a fixed category keyword table.
package analysis

import (
	"math"
	"strings"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

const (
	// MinSpanDuration is the shortest utterance span, in seconds, that is
	// considered meaningful speech. Shorter spans are discarded.
	MinSpanDuration = 3.0

	// MaxNoSpeechProbability is the transcriber's silence-likelihood cutoff.
	// Spans above it are treated as noise and discarded.
	MaxNoSpeechProbability = 0.5

	// DefaultMinSegmentDuration is the shortest segment, in seconds, worth
	// emitting as a clip candidate.
	DefaultMinSegmentDuration = 10.0

	// DefaultMaxSegmentDuration is the longest window, in seconds, that
	// consecutive spans may be merged into.
	DefaultMaxSegmentDuration = 60.0
)

// ContentCategory pairs a content-type tag with the keywords that identify
// it. Categories are data, not code: the classifier walks an ordered list of
// these and assigns the first category with a keyword hit.
type ContentCategory struct {
	Name     string   `toml:"name"`
	Keywords []string `toml:"keywords"`
}

// DefaultContentCategory is assigned when no category keyword matches.
const DefaultContentCategory = "general"

// DefaultContentCategories returns the built-in classifier table. The
// keyword lists mix English and Japanese terms because the engine's primary
// corpus is bilingual; matching is case-insensitive substring search, so the
// language code of the transcript is irrelevant.
func DefaultContentCategories() []ContentCategory {
	return []ContentCategory{
		{Name: "education", Keywords: []string{"説明", "解説", "方法", "とは", "について", "how to", "tutorial", "learn"}},
		{Name: "entertainment", Keywords: []string{"面白い", "笑", "funny", "hilarious", "驚く", "amazing"}},
		{Name: "question", Keywords: []string{"質問", "問題", "クイズ", "question", "答え", "answer"}},
		{Name: "tips", Keywords: []string{"コツ", "ヒント", "アドバイス", "tip", "trick", "裏技"}},
	}
}

// TranscriptSegmenter merges raw utterance spans into content segments. The
// zero value is not usable; construct with NewTranscriptSegmenter so the
// duration bounds and category table are always populated.
type TranscriptSegmenter struct {
	MinDuration float64           // Minimum emitted segment duration in seconds.
	MaxDuration float64           // Maximum merge window in seconds.
	Categories  []ContentCategory // Ordered classifier table, first match wins.
}

// NewTranscriptSegmenter creates a segmenter with the given duration bounds.
// Non-positive bounds fall back to the package defaults, and a nil category
// table falls back to the built-in one.
//
// Inputs:
//   - minDuration: Minimum emitted segment duration in seconds.
//   - maxDuration: Maximum merge window in seconds.
//   - categories: Ordered classifier table, or nil for the default.
//
// Outputs:
//   - *TranscriptSegmenter: A ready-to-use segmenter.
func NewTranscriptSegmenter(minDuration, maxDuration float64, categories []ContentCategory) *TranscriptSegmenter {
	if minDuration <= 0 {
		minDuration = DefaultMinSegmentDuration
	}
	if maxDuration <= 0 {
		maxDuration = DefaultMaxSegmentDuration
	}
	if categories == nil {
		categories = DefaultContentCategories()
	}
	return &TranscriptSegmenter{
		MinDuration: minDuration,
		MaxDuration: maxDuration,
		Categories:  categories,
	}
}

// Segment converts an ordered list of utterance spans into content segments.
// Spans shorter than MinSpanDuration or with a no-speech probability above
// MaxNoSpeechProbability are dropped before merging. Consecutive survivors
// are merged while the combined window stays within MaxDuration; a running
// segment that would overflow is emitted if it meets MinDuration and dropped
// otherwise. The confidence of a merged segment is the running pairwise
// average of (1 - no_speech_probability) across its spans.
//
// A single surviving span longer than MaxDuration is emitted as-is once the
// next span (or the end of the transcript) terminates it; the segmenter
// never splits a span. Empty input yields an empty, non-nil slice.
//
// Inputs:
//   - spans: Ordered utterance spans from the transcription collaborator.
//
// Outputs:
//   - []model.ContentSegment: Ordered content segments.
func (t *TranscriptSegmenter) Segment(spans []model.UtteranceSpan) []model.ContentSegment {
	out := make([]model.ContentSegment, 0)

	var current *model.ContentSegment
	for _, span := range spans {
		if span.Duration() < MinSpanDuration || span.NoSpeechProb > MaxNoSpeechProbability {
			continue
		}
		if current == nil {
			current = t.seed(span)
			continue
		}
		if span.End-current.StartTime <= t.MaxDuration {
			// Extend the running segment with this span.
			current.EndTime = span.End
			current.Text = current.Text + " " + strings.TrimSpace(span.Text)
			current.Confidence = (current.Confidence + (1 - span.NoSpeechProb)) / 2
			continue
		}
		if current.Duration() >= t.MinDuration {
			out = append(out, t.finalize(*current))
		}
		current = t.seed(span)
	}
	if current != nil && current.Duration() >= t.MinDuration {
		out = append(out, t.finalize(*current))
	}
	return out
}

// seed starts a new running segment from a single span.
func (t *TranscriptSegmenter) seed(span model.UtteranceSpan) *model.ContentSegment {
	return &model.ContentSegment{
		StartTime:  span.Start,
		EndTime:    span.End,
		Text:       strings.TrimSpace(span.Text),
		Confidence: 1 - span.NoSpeechProb,
	}
}

// finalize stamps the content type onto a completed segment.
func (t *TranscriptSegmenter) finalize(segment model.ContentSegment) model.ContentSegment {
	segment.ContentType = t.Classify(segment.Text)
	return segment
}

// Classify assigns a content-type tag to a piece of text by walking the
// category table in order and returning the first category with a keyword
// hit. Matching is a case-insensitive substring test, which works for both
// space-delimited and CJK text. When nothing matches, the default category
// is returned.
//
// Inputs:
//   - text: The segment text to classify.
//
// Outputs:
//   - string: The matched category name, or "general".
func (t *TranscriptSegmenter) Classify(text string) string {
	lowered := strings.ToLower(text)
	for _, category := range t.Categories {
		for _, keyword := range category.Keywords {
			if strings.Contains(lowered, strings.ToLower(keyword)) {
				return category.Name
			}
		}
	}
	return DefaultContentCategory
}

// ceilDiv returns ceil(a/b) for positive integers. Shared by the selection
// pipeline's diversity step.
func ceilDiv(a, b int) int {
	return int(math.Ceil(float64(a) / float64(b)))
}
