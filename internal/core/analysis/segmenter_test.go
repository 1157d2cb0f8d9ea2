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

// Package analysis_test contains unit tests for the pure computation core.
// This file tests the TranscriptSegmenter: the span filters, the merge
// window, the confidence averaging, and the keyword classifier.
package analysis_test

import (
	"testing"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/analysis"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
	"github.com/stretchr/testify/assert"
)

// TestSegmentMergesAdjacentUtterances verifies that two consecutive clean
// utterances whose combined window fits the maximum duration merge into a
// single content segment spanning both.
func TestSegmentMergesAdjacentUtterances(t *testing.T) {
	segmenter := analysis.NewTranscriptSegmenter(0, 0, nil)
	spans := []model.UtteranceSpan{
		{Start: 0, End: 5, Text: "intro text", NoSpeechProb: 0.1},
		{Start: 5, End: 12, Text: "details text", NoSpeechProb: 0.05},
	}

	segments := segmenter.Segment(spans)

	assert.Equal(t, 1, len(segments))
	assert.Equal(t, 0.0, segments[0].StartTime)
	assert.Equal(t, 12.0, segments[0].EndTime)
	assert.Equal(t, "intro text details text", segments[0].Text)
	// Confidence is the running pairwise average of (1 - no_speech_prob):
	// (0.9 + 0.95) / 2 = 0.925.
	assert.InDelta(t, 0.925, segments[0].Confidence, 1e-9)
}

// TestSegmentDropsShortAndNoisySpans verifies the two span filters: spans
// shorter than three seconds and spans the transcriber marked as probable
// silence never reach the merge stage.
func TestSegmentDropsShortAndNoisySpans(t *testing.T) {
	segmenter := analysis.NewTranscriptSegmenter(0, 0, nil)
	spans := []model.UtteranceSpan{
		{Start: 0, End: 2, Text: "uh", NoSpeechProb: 0.1},            // too short
		{Start: 2, End: 8, Text: "background hum", NoSpeechProb: 0.9}, // probable silence
		{Start: 8, End: 20, Text: "actual speech here", NoSpeechProb: 0.1},
	}

	segments := segmenter.Segment(spans)

	assert.Equal(t, 1, len(segments))
	assert.Equal(t, 8.0, segments[0].StartTime)
	assert.Equal(t, "actual speech here", segments[0].Text)
}

// TestSegmentDurationBounds verifies the core duration invariant: every
// emitted segment has start < end, and a running segment that never reaches
// the minimum duration is dropped rather than emitted.
func TestSegmentDurationBounds(t *testing.T) {
	segmenter := analysis.NewTranscriptSegmenter(10, 60, nil)
	spans := []model.UtteranceSpan{
		// This span survives the filters but only lasts 5s, below the 10s
		// minimum, and the next span would overflow the 60s window.
		{Start: 0, End: 5, Text: "stub", NoSpeechProb: 0.1},
		{Start: 70, End: 95, Text: "main content", NoSpeechProb: 0.1},
	}

	segments := segmenter.Segment(spans)

	assert.Equal(t, 1, len(segments))
	for _, segment := range segments {
		assert.Less(t, segment.StartTime, segment.EndTime)
		assert.GreaterOrEqual(t, segment.Duration(), 10.0)
		assert.LessOrEqual(t, segment.Duration(), 60.0)
	}
	assert.Equal(t, "main content", segments[0].Text)
}

// TestSegmentEmitsOversizedSingleSpan verifies that a single span longer
// than the merge window is emitted as-is once terminated; the segmenter
// never splits a span.
func TestSegmentEmitsOversizedSingleSpan(t *testing.T) {
	segmenter := analysis.NewTranscriptSegmenter(10, 60, nil)
	spans := []model.UtteranceSpan{
		{Start: 0, End: 75, Text: "one long monologue", NoSpeechProb: 0.05},
	}

	segments := segmenter.Segment(spans)

	assert.Equal(t, 1, len(segments))
	assert.Equal(t, 75.0, segments[0].Duration())
}

// TestSegmentWindowOverflowStartsNewSegment verifies that when a span would
// push the running window past the maximum duration, the running segment is
// emitted and the span seeds a new one.
func TestSegmentWindowOverflowStartsNewSegment(t *testing.T) {
	segmenter := analysis.NewTranscriptSegmenter(10, 60, nil)
	spans := []model.UtteranceSpan{
		{Start: 0, End: 30, Text: "first half", NoSpeechProb: 0.1},
		{Start: 30, End: 58, Text: "still fits", NoSpeechProb: 0.1},
		{Start: 58, End: 80, Text: "next window", NoSpeechProb: 0.1},
	}

	segments := segmenter.Segment(spans)

	assert.Equal(t, 2, len(segments))
	assert.Equal(t, 0.0, segments[0].StartTime)
	assert.Equal(t, 58.0, segments[0].EndTime)
	assert.Equal(t, 58.0, segments[1].StartTime)
	assert.Equal(t, 80.0, segments[1].EndTime)
}

// TestSegmentEmptyInput verifies the empty-input contract: no spans in, an
// empty (but non-nil) segment list out.
func TestSegmentEmptyInput(t *testing.T) {
	segmenter := analysis.NewTranscriptSegmenter(0, 0, nil)

	segments := segmenter.Segment(nil)

	assert.NotNil(t, segments)
	assert.Equal(t, 0, len(segments))
}

// TestClassifyKeywordTable exercises the keyword classifier across the
// built-in categories, in both English and Japanese, including the default
// fall-through.
func TestClassifyKeywordTable(t *testing.T) {
	segmenter := analysis.NewTranscriptSegmenter(0, 0, nil)

	cases := []struct {
		text string
		want string
	}{
		{"In this tutorial we cover the basics", "education"},
		{"この機能について説明します", "education"},
		{"That was absolutely hilarious", "entertainment"},
		{"面白い瞬間を集めました", "entertainment"},
		{"Here is the answer to your question", "question"},
		{"今日のクイズです", "question"},
		{"A quick trick to save time", "tips"},
		{"便利なコツを紹介", "tips"},
		{"Just some footage of the city", "general"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, segmenter.Classify(tc.text), "text: %s", tc.text)
	}
}

// TestClassifyFirstCategoryWins verifies that the classifier walks the
// category table in order and stops at the first hit, so category order is
// part of the contract.
func TestClassifyFirstCategoryWins(t *testing.T) {
	segmenter := analysis.NewTranscriptSegmenter(0, 0, nil)

	// "tutorial" (education) appears alongside "funny" (entertainment);
	// education is listed first in the table.
	assert.Equal(t, "education", segmenter.Classify("a funny tutorial"))
}
