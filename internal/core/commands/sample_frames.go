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
// frame sampling command.
//
// Logic Flow:
//  1. It reads the `model.VideoSource` from its well-known context key.
//  2. It asks the FrameSampler collaborator (FFmpeg in production) to extract
//     one still image per sampling interval into a scratch directory.
//  3. Each extracted image, and finally the scratch directory itself, is
//     registered as a temporary file on the context. The registration order
//     matters: the workflow's Close removes tracked paths in order, so the
//     files go first and the then-empty directory last.
//  4. The ordered frame references are placed under their well-known key and
//     as the command output.
package commands

import (
	"fmt"
	"path/filepath"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/cor"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

// SampleFrames is a command that extracts still frames from the run's video
// for visual analysis.
type SampleFrames struct {
	cor.BaseCommand
	sampler  FrameSampler
	interval float64 // Seconds between sampled frames.
}

// NewSampleFrames is the constructor for the SampleFrames command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - sampler: The frame extraction collaborator.
//   - intervalSeconds: Seconds between samples; values at or below zero become 1.
//
// Outputs:
//   - *SampleFrames: A pointer to the newly instantiated command.
func NewSampleFrames(name string, sampler FrameSampler, intervalSeconds float64) *SampleFrames {
	if intervalSeconds <= 0 {
		intervalSeconds = 1
	}
	return &SampleFrames{BaseCommand: *cor.NewBaseCommand(name), sampler: sampler, interval: intervalSeconds}
}

// IsExecutable requires the video source to be present; the default input
// parameter at this point in the chain carries the content segments, which
// this command does not consume.
func (c *SampleFrames) IsExecutable(context cor.Context) bool {
	return context != nil && context.GetContext() != nil &&
		context.Get(GetVideoSourceParameterName()) != nil
}

// Execute performs the frame extraction.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *SampleFrames) Execute(context cor.Context) {
	source := context.Get(GetVideoSourceParameterName()).(*model.VideoSource)

	frames, err := c.sampler.Sample(context.GetContext(), source, c.interval)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("frame sampling failed for %s: %w", source.URI(), err))
		return
	}

	// Track every image, then its parent directory, for end-of-run cleanup.
	for _, frame := range frames {
		context.AddTempFile(frame.Path)
	}
	if len(frames) > 0 {
		context.AddTempFile(filepath.Dir(frames[0].Path))
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetFrameListParameterName(), frames)
	context.Add(c.GetOutputParam(), frames)
}
