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

// This file tests SegmentFusion: time-window selection of frames and cues,
// the combined score formula, the neutral default, and the aggregate counts.
package analysis_test

import (
	"testing"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/analysis"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFuseWindowsFramesAndCues verifies that each enhanced segment carries
// exactly the frames and cues whose timestamps fall inside its window,
// inclusive at both ends.
func TestFuseWindowsFramesAndCues(t *testing.T) {
	fusion := analysis.NewSegmentFusion(nil)
	segments := []model.ContentSegment{
		{StartTime: 0, EndTime: 10, Text: "first", Confidence: 0.9},
		{StartTime: 20, EndTime: 30, Text: "second", Confidence: 0.8},
	}
	frames := []model.FrameDescription{
		{Timestamp: 0, VisualQuality: 6},  // boundary, belongs to first
		{Timestamp: 10, VisualQuality: 7}, // boundary, belongs to first
		{Timestamp: 15, VisualQuality: 8}, // between windows, belongs to neither
		{Timestamp: 25, VisualQuality: 9},
	}
	cues := []model.VisualCue{
		{Timestamp: 5, Type: model.CueFaceDetection, EngagementValue: 8},
		{Timestamp: 25, Type: model.CueSceneChange, EngagementValue: 7},
	}

	enhanced := fusion.Fuse(segments, frames, cues)

	require.Equal(t, 2, len(enhanced))
	assert.Equal(t, 2, len(enhanced[0].Frames))
	assert.Equal(t, 1, len(enhanced[0].VisualCues))
	assert.Equal(t, 1, len(enhanced[1].Frames))
	assert.Equal(t, 1, len(enhanced[1].VisualCues))
}

// TestFuseCombinedScoreFormula verifies the fixed 40/60 audio/visual
// weighting on a hand-checked input.
func TestFuseCombinedScoreFormula(t *testing.T) {
	fusion := analysis.NewSegmentFusion(nil)
	segments := []model.ContentSegment{
		{StartTime: 0, EndTime: 10, Confidence: 0.9},
	}
	// One frame, quality 8, no indicators, no cues: visual = 0.4*8 = 3.2.
	frames := []model.FrameDescription{{Timestamp: 5, VisualQuality: 8}}

	enhanced := fusion.Fuse(segments, frames, nil)

	require.Equal(t, 1, len(enhanced))
	assert.InDelta(t, 3.2, enhanced[0].VisualEngagementScore, 1e-9)
	// combined = round(10 * (0.4*0.9 + 0.6*3.2/10)) = round(5.52) = 6
	assert.Equal(t, 6, enhanced[0].CombinedEngagementScore)
}

// TestFuseNeutralDefaultWithoutFrames verifies that a segment with no
// frames in range scores the neutral visual 5 and still produces a valid
// integer combined score.
func TestFuseNeutralDefaultWithoutFrames(t *testing.T) {
	fusion := analysis.NewSegmentFusion(nil)
	segments := []model.ContentSegment{
		{StartTime: 100, EndTime: 120, Confidence: 0.5},
	}

	enhanced := fusion.Fuse(segments, nil, nil)

	require.Equal(t, 1, len(enhanced))
	assert.Equal(t, 5.0, enhanced[0].VisualEngagementScore)
	assert.Equal(t, 5.0, enhanced[0].Analysis.VisualQualityAvg)
	// combined = round(10 * (0.4*0.5 + 0.6*0.5)) = round(5) = 5
	assert.Equal(t, 5, enhanced[0].CombinedEngagementScore)
}

// TestFuseCombinedScoreInRange verifies the score bounds across extreme
// confidences: the combined score stays an integer in [1, 10].
func TestFuseCombinedScoreInRange(t *testing.T) {
	fusion := analysis.NewSegmentFusion(nil)
	segments := []model.ContentSegment{
		{StartTime: 0, EndTime: 10, Confidence: 0},
		{StartTime: 20, EndTime: 30, Confidence: 1},
	}
	frames := []model.FrameDescription{
		{Timestamp: 5, VisualQuality: 0},
		{Timestamp: 25, VisualQuality: 10, EngagementIndicators: []string{"a", "b", "c"}},
	}
	cues := []model.VisualCue{{Timestamp: 25, EngagementValue: 10}}

	for _, segment := range fusion.Fuse(segments, frames, cues) {
		assert.GreaterOrEqual(t, segment.CombinedEngagementScore, 1)
		assert.LessOrEqual(t, segment.CombinedEngagementScore, 10)
	}
}

// TestFuseAggregates verifies the per-segment aggregate counts: scene
// changes, confident-face frames, distinct emotions, and the mean visual
// quality.
func TestFuseAggregates(t *testing.T) {
	fusion := analysis.NewSegmentFusion(nil)
	segments := []model.ContentSegment{
		{StartTime: 0, EndTime: 30, Confidence: 0.9},
	}
	frames := []model.FrameDescription{
		{Timestamp: 0, VisualQuality: 6, Objects: []model.FrameObject{{Name: "face", Confidence: 0.9}}, EmotionDetected: "excited"},
		{Timestamp: 10, VisualQuality: 8, Objects: []model.FrameObject{{Name: "face", Confidence: 0.5}}, EmotionDetected: "calm"},
		{Timestamp: 20, VisualQuality: 7, EmotionDetected: "excited"},
	}
	cues := []model.VisualCue{
		{Timestamp: 10, Type: model.CueSceneChange},
		{Timestamp: 20, Type: model.CueSceneChange},
		{Timestamp: 20, Type: model.CueEmotion},
	}

	enhanced := fusion.Fuse(segments, frames, cues)

	require.Equal(t, 1, len(enhanced))
	analysisOut := enhanced[0].Analysis
	assert.Equal(t, 2, analysisOut.SceneChanges)
	assert.Equal(t, 1, analysisOut.FaceTime) // only the 0.9-confidence face counts
	assert.Equal(t, 2, analysisOut.EmotionVariety)
	assert.InDelta(t, 7.0, analysisOut.VisualQualityAvg, 1e-9)
}

// TestFusePreservesOrderAndCardinality verifies that fusion emits exactly
// one enhanced segment per content segment, in the same order, and leaves
// the inputs untouched.
func TestFusePreservesOrderAndCardinality(t *testing.T) {
	fusion := analysis.NewSegmentFusion(nil)
	segments := []model.ContentSegment{
		{StartTime: 0, EndTime: 10, Text: "a", Confidence: 0.5},
		{StartTime: 10, EndTime: 20, Text: "b", Confidence: 0.6},
		{StartTime: 20, EndTime: 30, Text: "c", Confidence: 0.7},
	}

	enhanced := fusion.Fuse(segments, nil, nil)

	require.Equal(t, len(segments), len(enhanced))
	for i := range segments {
		assert.Equal(t, segments[i].Text, enhanced[i].Text)
	}
}
