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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// record assembly command, the last transformation before persistence.
//
// Logic Flow:
//  1. It reads the selected enhanced segments, the per-platform variant map,
//     and the video source from their well-known keys.
//  2. Each selected segment becomes one `model.SegmentRecord`: a fresh UUID,
//     the owning video id, a short title cut from the segment text, the
//     windowed cues and aggregate analysis, the audio confidence, and one
//     `model.PlatformVariant` per configured platform. The variant for
//     platform P of segment i is row i of the adapter's output for P; the
//     adapter preserves order and cardinality, which is what makes this
//     index join valid.
//  3. The records carry the initial "extracted" lifecycle status.
package commands

import (
	"sort"

	"github.com/google/uuid"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/cor"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

// titleRuneLimit caps the derived title length.
const titleRuneLimit = 50

// AssembleRecords is a command that turns the selected segments and their
// platform variants into persistable records.
type AssembleRecords struct {
	cor.BaseCommand
}

// NewAssembleRecords is the constructor for the AssembleRecords command.
//
// Inputs:
//   - name: A string name for this command instance.
//
// Outputs:
//   - *AssembleRecords: A pointer to the newly instantiated command.
func NewAssembleRecords(name string) *AssembleRecords {
	return &AssembleRecords{BaseCommand: *cor.NewBaseCommand(name)}
}

// IsExecutable requires the three upstream results this command joins.
func (c *AssembleRecords) IsExecutable(context cor.Context) bool {
	return context != nil && context.GetContext() != nil &&
		context.Get(GetVideoSourceParameterName()) != nil &&
		context.Get(GetSelectedSegmentsParameterName()) != nil &&
		context.Get(GetPlatformSegmentsParameterName()) != nil
}

// Execute assembles the segment records.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *AssembleRecords) Execute(context cor.Context) {
	source := context.Get(GetVideoSourceParameterName()).(*model.VideoSource)
	selected := context.Get(GetSelectedSegmentsParameterName()).([]model.EnhancedSegment)
	variants := context.Get(GetPlatformSegmentsParameterName()).(map[string][]model.PlatformSegment)

	// Sort the platform names so record contents are deterministic.
	platforms := make([]string, 0, len(variants))
	for platform := range variants {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)

	records := make([]*model.SegmentRecord, 0, len(selected))
	for i, segment := range selected {
		record := &model.SegmentRecord{
			ID:                uuid.NewString(),
			VideoID:           source.ID,
			StartTime:         segment.StartTime,
			EndTime:           segment.EndTime,
			Title:             deriveTitle(segment.Text),
			Description:       segment.Text,
			ContentType:       segment.ContentType,
			EngagementScore:   segment.CombinedEngagementScore,
			TranscriptSegment: segment.Text,
			VisualCues:        segment.VisualCues,
			Analysis:          segment.Analysis,
			AudioFeatures:     model.AudioFeatures{Confidence: segment.Confidence},
			Platforms:         make([]model.PlatformVariant, 0, len(platforms)),
			Status:            model.SegmentStatusExtracted,
		}
		for _, platform := range platforms {
			rows := variants[platform]
			if i >= len(rows) {
				continue
			}
			variant := rows[i]
			record.Platforms = append(record.Platforms, model.PlatformVariant{
				Platform:          variant.Optimization.Platform,
				StartTime:         variant.StartTime,
				EndTime:           variant.EndTime,
				RecommendedLength: variant.Optimization.RecommendedLength,
				AspectRatio:       variant.Optimization.AspectRatio,
				EngagementScore:   variant.CombinedEngagementScore,
			})
		}
		records = append(records, record)
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetSegmentRecordsParameterName(), records)
	context.Add(c.GetOutputParam(), records)
}

// deriveTitle cuts a short title from the segment text, appending an
// ellipsis when it had to truncate. Rune-aware so multi-byte text is never
// split mid-character.
func deriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= titleRuneLimit {
		return text
	}
	return string(runes[:titleRuneLimit]) + "..."
}
