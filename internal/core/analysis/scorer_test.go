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

// This file tests the EngagementScorer: the weighted formula, the neutral
// default, the clamp bounds, and determinism.
package analysis_test

import (
	"testing"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/analysis"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
	"github.com/stretchr/testify/assert"
)

// TestScoreWeightedFormula verifies the exact weighted sum on a hand-checked
// input: quality 8, no indicators, no cues gives 0.4*8 = 3.2, untouched by
// the lower clamp because it sits above 1.
func TestScoreWeightedFormula(t *testing.T) {
	scorer := analysis.NewEngagementScorer()
	frames := []model.FrameDescription{
		{VisualQuality: 8},
		{VisualQuality: 8},
	}

	score := scorer.Score(frames, nil)

	assert.InDelta(t, 3.2, score, 1e-9)
}

// TestScoreIncludesIndicatorsAndCues verifies that the indicator and cue
// terms contribute with their configured weights.
func TestScoreIncludesIndicatorsAndCues(t *testing.T) {
	scorer := analysis.NewEngagementScorer()
	frames := []model.FrameDescription{
		{VisualQuality: 6, EngagementIndicators: []string{"gesture", "eye contact"}},
		{VisualQuality: 8, EngagementIndicators: []string{"movement", "gesture"}},
	}
	cues := []model.VisualCue{
		{EngagementValue: 7},
		{EngagementValue: 9},
	}

	score := scorer.Score(frames, cues)

	// quality = 7, indicators = 2, cues = 8:
	// 0.4*7 + 0.3*2 + 0.3*8 = 2.8 + 0.6 + 2.4 = 5.8
	assert.InDelta(t, 5.8, score, 1e-9)
}

// TestScoreNeutralWithoutFrames verifies that an empty frame list returns
// the neutral 5 regardless of cues.
func TestScoreNeutralWithoutFrames(t *testing.T) {
	scorer := analysis.NewEngagementScorer()

	assert.Equal(t, 5.0, scorer.Score(nil, nil))
	assert.Equal(t, 5.0, scorer.Score(nil, []model.VisualCue{{EngagementValue: 9}}))
}

// TestScoreClampBounds verifies both clamp bounds: an all-zero frame floors
// at 1, and extreme cue values ceiling at 10.
func TestScoreClampBounds(t *testing.T) {
	scorer := analysis.NewEngagementScorer()

	low := scorer.Score([]model.FrameDescription{{VisualQuality: 0}}, nil)
	assert.Equal(t, 1.0, low)

	high := scorer.Score(
		[]model.FrameDescription{{VisualQuality: 10, EngagementIndicators: []string{"a", "b", "c", "d", "e"}}},
		[]model.VisualCue{{EngagementValue: 40}},
	)
	assert.Equal(t, 10.0, high)
}

// TestScoreDeterministic verifies that identical inputs always yield the
// identical output; the scorer carries no state between calls.
func TestScoreDeterministic(t *testing.T) {
	scorer := analysis.NewEngagementScorer()
	frames := []model.FrameDescription{
		{VisualQuality: 7.3, EngagementIndicators: []string{"gesture"}},
		{VisualQuality: 4.1},
	}
	cues := []model.VisualCue{{EngagementValue: 6.5}}

	first := scorer.Score(frames, cues)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, scorer.Score(frames, cues))
	}
}
