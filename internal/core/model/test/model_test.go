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

// Package model_test contains unit tests for the data models defined in the
// model package. This file tests the score scale helpers, the duration
// helpers, and the neutral stand-ins the pipeline substitutes on partial
// failure.
package model_test

import (
	"testing"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
	"github.com/stretchr/testify/assert"
)

// TestRoundScore verifies rounding to the integer engagement scale and the
// clamping at both ends, so even degenerate inputs land inside 1-10.
func TestRoundScore(t *testing.T) {
	assert.Equal(t, 7, model.RoundScore(7.25))
	assert.Equal(t, 8, model.RoundScore(7.5))
	assert.Equal(t, 1, model.RoundScore(0.2))
	assert.Equal(t, 1, model.RoundScore(-3.0))
	assert.Equal(t, 10, model.RoundScore(42.0))
	assert.Equal(t, 10, model.RoundScore(9.9))
}

// TestDurations verifies the duration helpers on utterance spans and content
// segments.
func TestDurations(t *testing.T) {
	span := model.UtteranceSpan{Start: 3.5, End: 9.0}
	assert.InDelta(t, 5.5, span.Duration(), 1e-9)

	segment := model.ContentSegment{StartTime: 10, EndTime: 52}
	assert.InDelta(t, 42.0, segment.Duration(), 1e-9)
}

// TestVideoSourceURI verifies the gs:// locator assembly the transcription
// collaborator hands to the model.
func TestVideoSourceURI(t *testing.T) {
	source := &model.VideoSource{Bucket: "video_uploads", Name: "creator-podcast-042.mp4"}
	assert.Equal(t, "gs://video_uploads/creator-podcast-042.mp4", source.URI())
}

// TestDefaultFrameDescription verifies the neutral stand-in used when a frame
// could not be described: no objects, no indicators, no emotion, and the
// neutral visual quality that keeps window averages from collapsing.
func TestDefaultFrameDescription(t *testing.T) {
	frame := model.DefaultFrameDescription(17.0)

	assert.Equal(t, 17.0, frame.Timestamp)
	assert.Equal(t, 0, len(frame.Objects))
	assert.Equal(t, 0, len(frame.EngagementIndicators))
	assert.Equal(t, "", frame.EmotionDetected)
	assert.Equal(t, model.NeutralVisualQuality, frame.VisualQuality)
}

// TestDefaultSelectionPolicy verifies the policy applied when the caller
// supplies none.
func TestDefaultSelectionPolicy(t *testing.T) {
	policy := model.DefaultSelectionPolicy()

	assert.Equal(t, 6, policy.MinEngagementScore)
	assert.Equal(t, 5, policy.MaxSegments)
	assert.Equal(t, 15.0, policy.MinDuration)
	assert.Equal(t, 60.0, policy.MaxDuration)
	assert.True(t, policy.EnsureDiversity)
}
