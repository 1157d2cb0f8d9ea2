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
// fusion command, the join point of the audio and visual halves of the
// pipeline.
//
// Logic Flow:
// The chain's default piping only carries the previous command's output, but
// fusion needs three earlier results at once. The command therefore reads the
// content segments, frame descriptions, and visual cues from their well-known
// context keys, and overrides IsExecutable to gate on all three.
//
//  1. For each content segment, the fusion engine gathers the frames and
//     cues whose timestamps fall inside the segment's window.
//  2. It scores the window's visual engagement and combines it with the
//     segment's transcription confidence into the final engagement score.
//  3. The enhanced segments become the command output.
package commands

import (
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/analysis"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/cor"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

// FuseSegments is a command that merges the audio-derived segments with the
// visual analysis into scored enhanced segments.
type FuseSegments struct {
	cor.BaseCommand
	fusion *analysis.SegmentFusion
}

// NewFuseSegments is the constructor for the FuseSegments command.
//
// Inputs:
//   - name: A string name for this command instance.
//
// Outputs:
//   - *FuseSegments: A pointer to the newly instantiated command.
func NewFuseSegments(name string) *FuseSegments {
	return &FuseSegments{BaseCommand: *cor.NewBaseCommand(name), fusion: analysis.NewSegmentFusion(nil)}
}

// IsExecutable requires all three upstream results, not just the piped input.
func (c *FuseSegments) IsExecutable(context cor.Context) bool {
	return context != nil && context.GetContext() != nil &&
		context.Get(GetContentSegmentsParameterName()) != nil &&
		context.Get(GetFrameDescriptionsParameterName()) != nil &&
		context.Get(GetVisualCuesParameterName()) != nil
}

// Execute performs the audio-visual fusion.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *FuseSegments) Execute(context cor.Context) {
	segments := context.Get(GetContentSegmentsParameterName()).([]model.ContentSegment)
	frames := context.Get(GetFrameDescriptionsParameterName()).([]model.FrameDescription)
	cues := context.Get(GetVisualCuesParameterName()).([]model.VisualCue)

	enhanced := c.fusion.Fuse(segments, frames, cues)

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetEnhancedSegmentsParameterName(), enhanced)
	context.Add(c.GetOutputParam(), enhanced)
}
