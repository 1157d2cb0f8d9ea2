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

// This file tests the VisualCueDetector: the scene-change similarity rule,
// the face and emotion rules, and the indicator-density rule.
package analysis_test

import (
	"testing"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/analysis"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cuesOfType filters a cue list down to one cue type.
func cuesOfType(cues []model.VisualCue, cueType model.CueType) []model.VisualCue {
	out := make([]model.VisualCue, 0)
	for _, cue := range cues {
		if cue.Type == cueType {
			out = append(out, cue)
		}
	}
	return out
}

// TestDetectSceneChange verifies that a sharp change in the object
// composition between adjacent frames emits a scene_change cue with the
// fixed engagement value and confidence, and that the first frame never
// emits one.
func TestDetectSceneChange(t *testing.T) {
	detector := analysis.NewCueDetector()
	frames := []model.FrameDescription{
		{Timestamp: 0, Objects: []model.FrameObject{{Name: "person"}, {Name: "desk"}}},
		{Timestamp: 5, Objects: []model.FrameObject{{Name: "car"}, {Name: "road"}}},
	}

	cues := cuesOfType(detector.Detect(frames), model.CueSceneChange)

	require.Equal(t, 1, len(cues))
	assert.Equal(t, 5.0, cues[0].Timestamp)
	assert.Equal(t, 7.0, cues[0].EngagementValue)
	assert.Equal(t, 0.8, cues[0].Confidence)
}

// TestDetectNoSceneChangeWhenSimilar verifies that frames sharing most of
// their objects stay above the similarity threshold and emit no scene
// change.
func TestDetectNoSceneChangeWhenSimilar(t *testing.T) {
	detector := analysis.NewCueDetector()
	frames := []model.FrameDescription{
		{Timestamp: 0, Objects: []model.FrameObject{{Name: "person"}, {Name: "desk"}, {Name: "laptop"}}},
		// All three objects persist: Jaccard = 3/3 = 1.0, above threshold.
		{Timestamp: 5, Objects: []model.FrameObject{{Name: "person"}, {Name: "desk"}, {Name: "laptop"}}},
	}

	cues := cuesOfType(detector.Detect(frames), model.CueSceneChange)

	assert.Equal(t, 0, len(cues))
}

// TestDetectEmptyFramesAreNotSceneChanges verifies that two frames with no
// detected objects at all are treated as identical rather than triggering a
// divide-by-zero scene change.
func TestDetectEmptyFramesAreNotSceneChanges(t *testing.T) {
	detector := analysis.NewCueDetector()
	frames := []model.FrameDescription{
		{Timestamp: 0},
		{Timestamp: 5},
	}

	cues := cuesOfType(detector.Detect(frames), model.CueSceneChange)

	assert.Equal(t, 0, len(cues))
}

// TestDetectFace verifies the face rule: an object named "face" above the
// confidence threshold emits a face_detection cue carrying that object's
// confidence, and at most one cue is emitted per frame.
func TestDetectFace(t *testing.T) {
	detector := analysis.NewCueDetector()
	frames := []model.FrameDescription{
		{Timestamp: 10, Objects: []model.FrameObject{
			{Name: "face", Confidence: 0.75},
			{Name: "face", Confidence: 0.92},
			{Name: "face", Confidence: 0.5}, // below threshold, ignored
		}},
	}

	cues := cuesOfType(detector.Detect(frames), model.CueFaceDetection)

	require.Equal(t, 1, len(cues))
	assert.Equal(t, 8.0, cues[0].EngagementValue)
	assert.Equal(t, 0.92, cues[0].Confidence)
}

// TestDetectFaceBelowThreshold verifies that a low-confidence face emits
// nothing.
func TestDetectFaceBelowThreshold(t *testing.T) {
	detector := analysis.NewCueDetector()
	frames := []model.FrameDescription{
		{Timestamp: 10, Objects: []model.FrameObject{{Name: "face", Confidence: 0.7}}},
	}

	cues := cuesOfType(detector.Detect(frames), model.CueFaceDetection)

	// The threshold is strict: exactly 0.7 does not qualify.
	assert.Equal(t, 0, len(cues))
}

// TestDetectEmotion verifies that the three high-engagement emotions emit an
// emotion cue and that everything else stays silent.
func TestDetectEmotion(t *testing.T) {
	detector := analysis.NewCueDetector()

	for _, emotion := range []string{"enthusiastic", "surprised", "excited"} {
		cues := cuesOfType(detector.Detect([]model.FrameDescription{
			{Timestamp: 1, EmotionDetected: emotion},
		}), model.CueEmotion)
		require.Equal(t, 1, len(cues), "emotion: %s", emotion)
		assert.Equal(t, 9.0, cues[0].EngagementValue)
		assert.Equal(t, 0.85, cues[0].Confidence)
	}

	cues := cuesOfType(detector.Detect([]model.FrameDescription{
		{Timestamp: 1, EmotionDetected: "calm"},
	}), model.CueEmotion)
	assert.Equal(t, 0, len(cues))
}

// TestDetectIndicatorCluster verifies the movement rule: two or more
// engagement indicators in one frame emit a movement cue whose engagement
// value scales with the indicator count.
func TestDetectIndicatorCluster(t *testing.T) {
	detector := analysis.NewCueDetector()
	frames := []model.FrameDescription{
		{Timestamp: 0, EngagementIndicators: []string{"gesture"}},
		{Timestamp: 5, EngagementIndicators: []string{"gesture", "eye contact", "movement"}},
	}

	cues := cuesOfType(detector.Detect(frames), model.CueMovement)

	require.Equal(t, 1, len(cues))
	assert.Equal(t, 5.0, cues[0].Timestamp)
	assert.Equal(t, 6.0, cues[0].EngagementValue) // 2 per indicator
	assert.Equal(t, 0.75, cues[0].Confidence)
}

// TestDetectRulesAreIndependent verifies that a single frame can emit
// several cues when multiple rules fire at once.
func TestDetectRulesAreIndependent(t *testing.T) {
	detector := analysis.NewCueDetector()
	frames := []model.FrameDescription{
		{Timestamp: 0, Objects: []model.FrameObject{{Name: "desk"}}},
		{
			Timestamp:            5,
			Objects:              []model.FrameObject{{Name: "face", Confidence: 0.9}},
			EmotionDetected:      "excited",
			EngagementIndicators: []string{"gesture", "lean in"},
		},
	}

	cues := detector.Detect(frames)

	// Scene change, face, emotion, and movement all fire on the second frame.
	assert.Equal(t, 4, len(cues))
}
