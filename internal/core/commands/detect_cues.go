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
// visual cue detection command: it runs the rule-based cue detector over the
// frame descriptions and publishes the resulting cues. Cue detection is pure
// computation, so unlike the collaborator-backed commands it cannot fail
// other than by receiving nothing to work on.
package commands

import (
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/analysis"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/cor"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

// DetectCues is a command that derives engagement-relevant visual cues from
// the frame descriptions.
type DetectCues struct {
	cor.BaseCommand
	detector *analysis.CueDetector
}

// NewDetectCues is the constructor for the DetectCues command.
//
// Inputs:
//   - name: A string name for this command instance.
//
// Outputs:
//   - *DetectCues: A pointer to the newly instantiated command.
func NewDetectCues(name string) *DetectCues {
	return &DetectCues{BaseCommand: *cor.NewBaseCommand(name), detector: &analysis.CueDetector{}}
}

// Execute runs cue detection over the frame descriptions.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *DetectCues) Execute(context cor.Context) {
	frames := context.Get(c.GetInputParam()).([]model.FrameDescription)

	cues := c.detector.Detect(frames)

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetVisualCuesParameterName(), cues)
	context.Add(c.GetOutputParam(), cues)
}
