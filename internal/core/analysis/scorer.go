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

// This file implements the EngagementScorer, the weighted multi-factor
// formula that condenses a window of frame descriptions and visual cues into
// a single engagement estimate on a 1-10 scale. The function is pure: no
// randomness, no I/O, identical inputs always yield identical output.
package analysis

import "github.com/snsvideo/gcp-go-clip-engine/internal/core/model"

// Scorer weights. The split is fixed for behavioral parity with the tuned
// heuristics; changing it re-ranks every segment the engine has ever scored.
const (
	QualityWeight   = 0.4 // Weight of the mean visual quality across frames.
	IndicatorWeight = 0.3 // Weight of the mean engagement-indicator count per frame.
	CueWeight       = 0.3 // Weight of the mean cue engagement value.
)

// EngagementScorer computes visual engagement scores. It is stateless; the
// zero value is ready to use.
type EngagementScorer struct{}

// NewEngagementScorer creates an EngagementScorer.
func NewEngagementScorer() *EngagementScorer {
	return &EngagementScorer{}
}

// Score computes the engagement estimate for a window of frames and cues.
// With no frames there is no visual signal at all and the neutral score 5 is
// returned. Otherwise the result is the weighted sum of the mean visual
// quality, the mean engagement-indicator count, and the mean cue engagement
// value (0 when there are no cues), clamped to [1, 10].
//
// Inputs:
//   - frames: Frame descriptions within the window. May be empty.
//   - cues: Visual cues within the window. May be empty.
//
// Outputs:
//   - float64: The engagement score in [1, 10], or the neutral 5.
func (e *EngagementScorer) Score(frames []model.FrameDescription, cues []model.VisualCue) float64 {
	if len(frames) == 0 {
		return model.NeutralVisualQuality
	}

	var qualitySum, indicatorSum float64
	for _, frame := range frames {
		qualitySum += frame.VisualQuality
		indicatorSum += float64(len(frame.EngagementIndicators))
	}
	qualityScore := qualitySum / float64(len(frames))
	engagementBonus := indicatorSum / float64(len(frames))

	cueBonus := 0.0
	if len(cues) > 0 {
		var valueSum float64
		for _, cue := range cues {
			valueSum += cue.EngagementValue
		}
		cueBonus = valueSum / float64(len(cues))
	}

	raw := QualityWeight*qualityScore + IndicatorWeight*engagementBonus + CueWeight*cueBonus
	if raw < 1 {
		return 1
	}
	if raw > 10 {
		return 10
	}
	return raw
}
