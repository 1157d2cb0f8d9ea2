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

// This file tests the SegmentSelector: policy validation, the score and
// duration filters, overlap resolution, score ordering, diversity
// enforcement, and the segment cap.
package analysis_test

import (
	"testing"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/analysis"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeSegment builds an enhanced segment with the fields the selector cares
// about.
func makeSegment(start, end float64, score int, contentType string) model.EnhancedSegment {
	return model.EnhancedSegment{
		ContentSegment: model.ContentSegment{
			StartTime:   start,
			EndTime:     end,
			ContentType: contentType,
		},
		CombinedEngagementScore: score,
	}
}

// permissivePolicy returns a policy wide enough that only the aspect under
// test filters anything.
func permissivePolicy() model.SelectionPolicy {
	return model.SelectionPolicy{
		MinEngagementScore: 1,
		MaxSegments:        100,
		MinDuration:        1,
		MaxDuration:        1000,
	}
}

// TestSelectRejectsBadPolicy verifies that an inconsistent policy fails
// fast with a policy violation before any processing.
func TestSelectRejectsBadPolicy(t *testing.T) {
	selector := analysis.NewSegmentSelector()
	segments := []model.EnhancedSegment{makeSegment(0, 20, 8, "general")}

	_, err := selector.Select(segments, model.SelectionPolicy{
		MinEngagementScore: 1, MaxSegments: 0, MinDuration: 10, MaxDuration: 60,
	})
	assert.ErrorIs(t, err, analysis.ErrPolicyViolation)

	_, err = selector.Select(segments, model.SelectionPolicy{
		MinEngagementScore: 1, MaxSegments: 5, MinDuration: 60, MaxDuration: 10,
	})
	assert.ErrorIs(t, err, analysis.ErrPolicyViolation)
}

// TestSelectScoreAndDurationFilters verifies the first two pipeline stages:
// segments below the score floor or outside the duration window never reach
// the output.
func TestSelectScoreAndDurationFilters(t *testing.T) {
	selector := analysis.NewSegmentSelector()
	policy := model.SelectionPolicy{
		MinEngagementScore: 6,
		MaxSegments:        10,
		MinDuration:        15,
		MaxDuration:        60,
	}
	segments := []model.EnhancedSegment{
		makeSegment(0, 30, 5, "general"),    // score too low
		makeSegment(40, 50, 8, "general"),   // too short (10s)
		makeSegment(60, 130, 8, "general"),  // too long (70s)
		makeSegment(140, 170, 7, "general"), // survives
	}

	selected, err := selector.Select(segments, policy)

	require.NoError(t, err)
	require.Equal(t, 1, len(selected))
	assert.Equal(t, 140.0, selected[0].StartTime)
}

// TestSelectOverlapKeepsHigherScore verifies overlap resolution: of two
// overlapping segments the higher score wins and the loser is discarded
// entirely.
func TestSelectOverlapKeepsHigherScore(t *testing.T) {
	selector := analysis.NewSegmentSelector()
	segments := []model.EnhancedSegment{
		makeSegment(0, 20, 9, "general"),
		makeSegment(10, 30, 7, "general"),
	}

	selected, err := selector.Select(segments, permissivePolicy())

	require.NoError(t, err)
	require.Equal(t, 1, len(selected))
	assert.Equal(t, 0.0, selected[0].StartTime)
	assert.Equal(t, 20.0, selected[0].EndTime)
}

// TestSelectOverlapLaterSegmentCanWin verifies that overlap resolution is
// score-driven, not order-driven: a later, higher-scoring segment replaces
// an already-accepted one.
func TestSelectOverlapLaterSegmentCanWin(t *testing.T) {
	selector := analysis.NewSegmentSelector()
	segments := []model.EnhancedSegment{
		makeSegment(0, 20, 6, "general"),
		makeSegment(10, 30, 9, "general"),
	}

	selected, err := selector.Select(segments, permissivePolicy())

	require.NoError(t, err)
	require.Equal(t, 1, len(selected))
	assert.Equal(t, 10.0, selected[0].StartTime)
}

// TestSelectTouchingSegmentsDoNotOverlap verifies that segments sharing
// only an endpoint both survive.
func TestSelectTouchingSegmentsDoNotOverlap(t *testing.T) {
	selector := analysis.NewSegmentSelector()
	segments := []model.EnhancedSegment{
		makeSegment(0, 20, 9, "general"),
		makeSegment(20, 40, 7, "general"),
	}

	selected, err := selector.Select(segments, permissivePolicy())

	require.NoError(t, err)
	assert.Equal(t, 2, len(selected))
}

// TestSelectOutputNonOverlapping verifies the pipeline-wide invariant: no
// two returned segments share any time.
func TestSelectOutputNonOverlapping(t *testing.T) {
	selector := analysis.NewSegmentSelector()
	segments := []model.EnhancedSegment{
		makeSegment(0, 25, 6, "general"),
		makeSegment(20, 45, 8, "general"),
		makeSegment(40, 65, 7, "general"),
		makeSegment(70, 90, 5, "general"),
	}

	selected, err := selector.Select(segments, permissivePolicy())

	require.NoError(t, err)
	for i := 0; i < len(selected); i++ {
		for j := i + 1; j < len(selected); j++ {
			a, b := selected[i], selected[j]
			noOverlap := a.EndTime <= b.StartTime || b.EndTime <= a.StartTime
			assert.True(t, noOverlap, "segments [%v,%v] and [%v,%v] overlap",
				a.StartTime, a.EndTime, b.StartTime, b.EndTime)
		}
	}
}

// TestSelectSortedByScoreWithoutDiversity verifies score monotonicity: with
// diversity off, the output is sorted by combined score descending.
func TestSelectSortedByScoreWithoutDiversity(t *testing.T) {
	selector := analysis.NewSegmentSelector()
	segments := []model.EnhancedSegment{
		makeSegment(0, 20, 5, "general"),
		makeSegment(30, 50, 9, "general"),
		makeSegment(60, 80, 7, "general"),
	}

	selected, err := selector.Select(segments, permissivePolicy())

	require.NoError(t, err)
	require.Equal(t, 3, len(selected))
	for i := 1; i < len(selected); i++ {
		assert.GreaterOrEqual(t,
			selected[i-1].CombinedEngagementScore,
			selected[i].CombinedEngagementScore)
	}
}

// TestSelectDiversityIncludesMinorityGroup verifies diversity enforcement:
// with a dominant content type and a cap of two, the minority type makes
// the cut despite its lower raw score.
func TestSelectDiversityIncludesMinorityGroup(t *testing.T) {
	selector := analysis.NewSegmentSelector()
	segments := []model.EnhancedSegment{
		makeSegment(0, 20, 9, "education"),
		makeSegment(30, 50, 8, "education"),
		makeSegment(60, 80, 8, "education"),
		makeSegment(90, 110, 6, "entertainment"),
	}
	policy := model.SelectionPolicy{
		MinEngagementScore: 1,
		MaxSegments:        2,
		MinDuration:        1,
		MaxDuration:        1000,
		EnsureDiversity:    true,
	}

	selected, err := selector.Select(segments, policy)

	require.NoError(t, err)
	require.Equal(t, 2, len(selected))
	types := map[string]int{}
	for _, segment := range selected {
		types[segment.ContentType]++
	}
	assert.Equal(t, 1, types["education"])
	assert.Equal(t, 1, types["entertainment"])
}

// TestSelectTruncatesToCap verifies the final truncation and that fewer
// survivors than the cap are returned as-is without padding.
func TestSelectTruncatesToCap(t *testing.T) {
	selector := analysis.NewSegmentSelector()
	segments := []model.EnhancedSegment{
		makeSegment(0, 20, 9, "general"),
		makeSegment(30, 50, 8, "general"),
		makeSegment(60, 80, 7, "general"),
	}
	policy := permissivePolicy()
	policy.MaxSegments = 2

	selected, err := selector.Select(segments, policy)
	require.NoError(t, err)
	assert.Equal(t, 2, len(selected))

	policy.MaxSegments = 10
	selected, err = selector.Select(segments, policy)
	require.NoError(t, err)
	assert.Equal(t, 3, len(selected))
}

// TestSelectEmptyInput verifies that zero candidate segments is not an
// error.
func TestSelectEmptyInput(t *testing.T) {
	selector := analysis.NewSegmentSelector()

	selected, err := selector.Select(nil, model.DefaultSelectionPolicy())

	require.NoError(t, err)
	assert.Equal(t, 0, len(selected))
}
