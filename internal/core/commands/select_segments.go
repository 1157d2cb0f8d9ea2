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
// selection command: it applies the configured selection policy to the fused
// segments, reducing them to the non-overlapping, score-ordered shortlist
// worth turning into clips. An invalid policy fails the run up front; an
// empty shortlist does not, because a video with no segment clearing the
// engagement bar is a legitimate outcome.
package commands

import (
	"fmt"
	"log"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/analysis"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/cor"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

// SelectSegments is a command that filters and ranks the enhanced segments
// under the selection policy.
type SelectSegments struct {
	cor.BaseCommand
	selector *analysis.SegmentSelector
	policy   model.SelectionPolicy
}

// NewSelectSegments is the constructor for the SelectSegments command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - policy: The selection policy to enforce.
//
// Outputs:
//   - *SelectSegments: A pointer to the newly instantiated command.
func NewSelectSegments(name string, policy model.SelectionPolicy) *SelectSegments {
	return &SelectSegments{
		BaseCommand: *cor.NewBaseCommand(name),
		selector:    &analysis.SegmentSelector{},
		policy:      policy,
	}
}

// Execute applies the selection policy.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *SelectSegments) Execute(context cor.Context) {
	enhanced := context.Get(c.GetInputParam()).([]model.EnhancedSegment)

	selected, err := c.selector.Select(enhanced, c.policy)
	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("segment selection failed: %w", err))
		return
	}
	if len(selected) == 0 {
		log.Printf("no segments met the selection policy (candidates: %d)\n", len(enhanced))
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetSelectedSegmentsParameterName(), selected)
	context.Add(c.GetOutputParam(), selected)
}
