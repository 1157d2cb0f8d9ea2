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

// This file implements the SegmentSelector, the policy-driven pipeline that
// turns the full fused segment list into the final clip candidates.
//
// Logic Flow (strictly in this order):
//  1. Validate the policy; a bad policy fails fast before any processing.
//  2. Filter by minimum combined engagement score.
//  3. Filter by the policy's duration window.
//  4. Resolve overlaps: scan in start-time order and, whenever two segments
//     share time, keep only the higher-scoring one.
//  5. Sort survivors by combined score descending.
//  6. Optionally enforce content-type diversity via a per-group quota.
//  7. Truncate to the policy's segment cap.
package analysis

import (
	"sort"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

// SegmentSelector applies a SelectionPolicy to fused segments. It is
// stateless; the zero value is ready to use.
type SegmentSelector struct{}

// NewSegmentSelector creates a SegmentSelector.
func NewSegmentSelector() *SegmentSelector {
	return &SegmentSelector{}
}

// Select runs the selection pipeline and returns at most
// policy.MaxSegments segments, ordered by combined engagement score
// descending. The input slice is never mutated. When filtering leaves fewer
// segments than the cap, all survivors are returned; there is no padding.
//
// Inputs:
//   - segments: Fused segments from SegmentFusion.
//   - policy: The caller's selection policy.
//
// Outputs:
//   - []model.EnhancedSegment: The selected segments.
//   - error: ErrPolicyViolation when the policy is inconsistent.
func (s *SegmentSelector) Select(segments []model.EnhancedSegment, policy model.SelectionPolicy) ([]model.EnhancedSegment, error) {
	if err := ValidatePolicy(policy); err != nil {
		return nil, err
	}

	survivors := make([]model.EnhancedSegment, 0, len(segments))
	for _, segment := range segments {
		if segment.CombinedEngagementScore < policy.MinEngagementScore {
			continue
		}
		duration := segment.Duration()
		if duration < policy.MinDuration || duration > policy.MaxDuration {
			continue
		}
		survivors = append(survivors, segment)
	}

	survivors = resolveOverlaps(survivors)

	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].CombinedEngagementScore > survivors[j].CombinedEngagementScore
	})

	if policy.EnsureDiversity {
		survivors = enforceDiversity(survivors, policy.MaxSegments)
	}

	if len(survivors) > policy.MaxSegments {
		survivors = survivors[:policy.MaxSegments]
	}
	return survivors, nil
}

// resolveOverlaps scans the segments in start-time order and keeps a
// non-overlapping accepted set. Two segments overlap unless one ends at or
// before the other starts. When a new segment collides with an accepted one
// the higher combined score wins and the loser is discarded entirely, never
// trimmed.
func resolveOverlaps(segments []model.EnhancedSegment) []model.EnhancedSegment {
	ordered := make([]model.EnhancedSegment, len(segments))
	copy(ordered, segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartTime < ordered[j].StartTime
	})

	accepted := make([]model.EnhancedSegment, 0, len(ordered))
	for _, candidate := range ordered {
		conflict := -1
		for i, kept := range accepted {
			if overlaps(kept, candidate) {
				conflict = i
				break
			}
		}
		if conflict >= 0 {
			if candidate.CombinedEngagementScore > accepted[conflict].CombinedEngagementScore {
				accepted[conflict] = candidate
			}
			continue
		}
		accepted = append(accepted, candidate)
	}
	return accepted
}

// overlaps reports whether two segments share any time. Touching endpoints
// do not count as overlap.
func overlaps(a, b model.EnhancedSegment) bool {
	return !(a.EndTime <= b.StartTime || b.EndTime <= a.StartTime)
}

// enforceDiversity caps how many segments of one content type may reach the
// final set. Segments are grouped by content type and each group contributes
// at most ceil(maxSegments/groupCount) of its best-scoring members; the
// groups are then re-merged and re-sorted by score. This deliberately trades
// strict score ranking for content variety, and the quota can leave the
// result slightly under the cap even when higher-scoring segments exist
// outside it.
func enforceDiversity(segments []model.EnhancedSegment, maxSegments int) []model.EnhancedSegment {
	if len(segments) == 0 {
		return segments
	}
	groups := make(map[string][]model.EnhancedSegment)
	order := make([]string, 0)
	for _, segment := range segments {
		if _, seen := groups[segment.ContentType]; !seen {
			order = append(order, segment.ContentType)
		}
		groups[segment.ContentType] = append(groups[segment.ContentType], segment)
	}

	perGroup := ceilDiv(maxSegments, len(groups))
	merged := make([]model.EnhancedSegment, 0, len(segments))
	for _, contentType := range order {
		group := groups[contentType]
		// The input is already score-ordered, so each group is too.
		if len(group) > perGroup {
			group = group[:perGroup]
		}
		merged = append(merged, group...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CombinedEngagementScore > merged[j].CombinedEngagementScore
	})
	return merged
}
