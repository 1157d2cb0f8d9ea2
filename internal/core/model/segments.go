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

// Package model defines the core data structures for the clip extraction
// engine. This file contains the fused audio/visual segment model together
// with the configuration objects used for selection and platform adaptation.
package model

import "math"

// EnhancedAnalysis carries the aggregate visual statistics computed for one
// enhanced segment during fusion.
type EnhancedAnalysis struct {
	SceneChanges     int     `json:"scene_changes" bigquery:"scene_changes"`           // Count of scene_change cues within the segment window.
	FaceTime         int     `json:"face_time" bigquery:"face_time"`                   // Count of frames containing a confident face detection.
	EmotionVariety   int     `json:"emotion_variety" bigquery:"emotion_variety"`       // Count of distinct non-empty emotions across the segment's frames.
	VisualQualityAvg float64 `json:"visual_quality_avg" bigquery:"visual_quality_avg"` // Mean visual quality of the segment's frames, neutral 5 when none.
}

// EnhancedSegment is a ContentSegment extended with the visual signal that
// falls inside its time window and the scores derived from both modalities.
// Instances are created once by fusion and never mutated; selection and
// platform adaptation always produce new lists.
type EnhancedSegment struct {
	ContentSegment

	VisualCues            []VisualCue        `json:"visual_cues"`             // Cues whose timestamp lies in [StartTime, EndTime].
	Frames                []FrameDescription `json:"frame_descriptions"`      // Frame descriptions similarly windowed.
	VisualEngagementScore float64            `json:"visual_engagement_score"` // Engagement scorer output over the windowed frames and cues, in [1,10] (5 when no frames).
	// CombinedEngagementScore fuses audio confidence and the visual score on
	// a fixed 40/60 weighting and rounds to an integer on the 1-10 scale.
	CombinedEngagementScore int              `json:"combined_engagement_score"`
	Analysis                EnhancedAnalysis `json:"enhanced_analysis"`
}

// SelectionPolicy is the caller-supplied configuration for segment selection.
// It is a plain parameter object, never persisted.
type SelectionPolicy struct {
	MinEngagementScore int     // Minimum combined engagement score a segment must reach.
	MaxSegments        int     // Hard cap on the number of returned segments. Must be positive.
	MinDuration        float64 // Minimum acceptable segment duration in seconds.
	MaxDuration        float64 // Maximum acceptable segment duration in seconds. Must be >= MinDuration.
	EnsureDiversity    bool    // When set, cap how many segments of one content type may dominate the result.
}

// DefaultSelectionPolicy returns the selection policy the engine applies when
// the caller supplies none: score floor 6, at most 5 clips of 15-60 seconds,
// with content-type diversity enforced.
func DefaultSelectionPolicy() SelectionPolicy {
	return SelectionPolicy{
		MinEngagementScore: 6,
		MaxSegments:        5,
		MinDuration:        15,
		MaxDuration:        60,
		EnsureDiversity:    true,
	}
}

// PlatformProfile describes the constraints of one destination platform.
type PlatformProfile struct {
	Platform    string  `toml:"platform"`     // Platform identifier, e.g. "tiktok".
	MaxDuration float64 `toml:"max_duration"` // Longest clip the platform accepts, in seconds.
	MinDuration float64 `toml:"min_duration"` // Shortest clip worth publishing, in seconds.
	AspectRatio string  `toml:"aspect_ratio"` // Target aspect ratio, e.g. "9:16".
}

// PlatformOptimization is the metadata attached to a segment after platform
// adaptation. RecommendedLength mirrors the profile's maximum duration.
type PlatformOptimization struct {
	Platform          string  `json:"platform" bigquery:"platform"`
	RecommendedLength float64 `json:"recommended_length" bigquery:"recommended_length"`
	AspectRatio       string  `json:"aspect_ratio" bigquery:"aspect_ratio"`
}

// PlatformSegment is an enhanced segment re-bounded for one destination
// platform. Scores are copied from the source segment untouched; only the end
// time may differ, and only ever downwards.
type PlatformSegment struct {
	EnhancedSegment

	Optimization PlatformOptimization `json:"platform_optimization"`
}

// RoundScore converts a continuous score to the integer 1-10 scale, clamping
// at both ends so the invariant holds even for degenerate inputs.
func RoundScore(score float64) int {
	rounded := int(math.Round(score))
	if rounded < 1 {
		return 1
	}
	if rounded > 10 {
		return 10
	}
	return rounded
}
