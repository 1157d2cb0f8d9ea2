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

// This file implements SegmentFusion, which merges the audio-side content
// segments with the visual-side frame descriptions and cues over matching
// time windows. Each content segment becomes exactly one enhanced segment
// carrying both modalities, a visual engagement score, a combined score, and
// the aggregate counts used for downstream reporting.
package analysis

import "github.com/snsvideo/gcp-go-clip-engine/internal/core/model"

// Fusion weights for the combined engagement score. The audio/visual split
// is fixed for behavioral parity with the tuned heuristics.
const (
	AudioWeight  = 0.4 // Weight of the transcription confidence.
	VisualWeight = 0.6 // Weight of the normalized visual engagement score.
)

// SegmentFusion fuses content segments with windowed visual signal. It is
// stateless apart from the scorer it delegates to.
type SegmentFusion struct {
	scorer *EngagementScorer
}

// NewSegmentFusion creates a SegmentFusion backed by the given scorer. A nil
// scorer falls back to a fresh one.
func NewSegmentFusion(scorer *EngagementScorer) *SegmentFusion {
	if scorer == nil {
		scorer = NewEngagementScorer()
	}
	return &SegmentFusion{scorer: scorer}
}

// Fuse produces one enhanced segment per input content segment, in order.
// For each segment it selects the frames and cues whose timestamp lies in
// [StartTime, EndTime] inclusive, scores the windowed visual signal, and
// combines it with the transcription confidence:
//
//	combined = round(10 × (0.4·confidence + 0.6·visual/10))
//
// With no frames in range the visual score defaults to the neutral 5. The
// input lists are never mutated; every enhanced segment owns fresh slices.
//
// Inputs:
//   - segments: Content segments from the TranscriptSegmenter.
//   - frames: All frame descriptions for the video.
//   - cues: All visual cues for the video.
//
// Outputs:
//   - []model.EnhancedSegment: One per input segment, same order.
func (f *SegmentFusion) Fuse(segments []model.ContentSegment, frames []model.FrameDescription, cues []model.VisualCue) []model.EnhancedSegment {
	out := make([]model.EnhancedSegment, 0, len(segments))
	for _, segment := range segments {
		windowFrames := framesInWindow(frames, segment.StartTime, segment.EndTime)
		windowCues := cuesInWindow(cues, segment.StartTime, segment.EndTime)

		visual := f.scorer.Score(windowFrames, windowCues)
		combined := model.RoundScore(10 * (AudioWeight*segment.Confidence + VisualWeight*visual/10))

		out = append(out, model.EnhancedSegment{
			ContentSegment:          segment,
			VisualCues:              windowCues,
			Frames:                  windowFrames,
			VisualEngagementScore:   visual,
			CombinedEngagementScore: combined,
			Analysis:                aggregate(windowFrames, windowCues),
		})
	}
	return out
}

// aggregate computes the per-segment summary counts reported alongside the
// scores.
func aggregate(frames []model.FrameDescription, cues []model.VisualCue) model.EnhancedAnalysis {
	analysis := model.EnhancedAnalysis{
		VisualQualityAvg: model.NeutralVisualQuality,
	}
	for _, cue := range cues {
		if cue.Type == model.CueSceneChange {
			analysis.SceneChanges++
		}
	}
	emotions := make(map[string]bool)
	var qualitySum float64
	for _, frame := range frames {
		qualitySum += frame.VisualQuality
		if _, ok := bestFace(frame.Objects); ok {
			analysis.FaceTime++
		}
		if frame.EmotionDetected != "" {
			emotions[frame.EmotionDetected] = true
		}
	}
	analysis.EmotionVariety = len(emotions)
	if len(frames) > 0 {
		analysis.VisualQualityAvg = qualitySum / float64(len(frames))
	}
	return analysis
}

func framesInWindow(frames []model.FrameDescription, start, end float64) []model.FrameDescription {
	out := make([]model.FrameDescription, 0)
	for _, frame := range frames {
		if frame.Timestamp >= start && frame.Timestamp <= end {
			out = append(out, frame)
		}
	}
	return out
}

func cuesInWindow(cues []model.VisualCue, start, end float64) []model.VisualCue {
	out := make([]model.VisualCue, 0)
	for _, cue := range cues {
		if cue.Timestamp >= start && cue.Timestamp <= end {
			out = append(out, cue)
		}
	}
	return out
}
