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

// This file implements the PlatformAdapter, the final stage of the pipeline.
// It re-derives segment boundaries per destination platform by trimming the
// tail of any segment that exceeds the platform's duration cap, and attaches
// the platform metadata. It never re-scores and never lengthens a segment.
package analysis

import "github.com/snsvideo/gcp-go-clip-engine/internal/core/model"

// DefaultPlatformProfiles returns the built-in destination profiles. Hosts
// may override or extend these through configuration.
func DefaultPlatformProfiles() []model.PlatformProfile {
	return []model.PlatformProfile{
		{Platform: "tiktok", MaxDuration: 60, MinDuration: 15, AspectRatio: "9:16"},
		{Platform: "instagram", MaxDuration: 90, MinDuration: 15, AspectRatio: "9:16"},
		{Platform: "youtube", MaxDuration: 60, MinDuration: 15, AspectRatio: "9:16"},
	}
}

// PlatformAdapter tailors selected segments to destination platforms. It is
// stateless; the zero value is ready to use.
type PlatformAdapter struct{}

// NewPlatformAdapter creates a PlatformAdapter.
func NewPlatformAdapter() *PlatformAdapter {
	return &PlatformAdapter{}
}

// Adapt returns one platform segment per input segment for the given
// profile. A segment longer than the profile's maximum duration has the
// excess subtracted from its tail; the start time is never moved and the
// duration is never increased. Scores, cues, and analysis are copied
// unchanged.
//
// Inputs:
//   - segments: The selected segments.
//   - profile: The destination platform profile.
//
// Outputs:
//   - []model.PlatformSegment: Trimmed segments with platform metadata.
func (p *PlatformAdapter) Adapt(segments []model.EnhancedSegment, profile model.PlatformProfile) []model.PlatformSegment {
	out := make([]model.PlatformSegment, 0, len(segments))
	for _, segment := range segments {
		adapted := segment
		if adapted.Duration() > profile.MaxDuration {
			adapted.EndTime = adapted.StartTime + profile.MaxDuration
		}
		out = append(out, model.PlatformSegment{
			EnhancedSegment: adapted,
			Optimization: model.PlatformOptimization{
				Platform:          profile.Platform,
				RecommendedLength: profile.MaxDuration,
				AspectRatio:       profile.AspectRatio,
			},
		})
	}
	return out
}

// AdaptAll runs Adapt for every profile and returns the results keyed in
// profile order.
//
// Inputs:
//   - segments: The selected segments.
//   - profiles: The destination platform profiles.
//
// Outputs:
//   - map[string][]model.PlatformSegment: Platform id to adapted segments.
func (p *PlatformAdapter) AdaptAll(segments []model.EnhancedSegment, profiles []model.PlatformProfile) map[string][]model.PlatformSegment {
	out := make(map[string][]model.PlatformSegment, len(profiles))
	for _, profile := range profiles {
		out[profile.Platform] = p.Adapt(segments, profile)
	}
	return out
}
