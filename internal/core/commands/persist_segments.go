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
// persistence command, the terminal step of the extraction chain. It writes
// the assembled segment records through the SegmentSink (BigQuery in
// production). An empty record list is persisted as a no-op rather than an
// error so a clean run with no qualifying segments completes normally.
package commands

import (
	"fmt"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/cor"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

// PersistSegments is a command that durably stores the run's segment records.
type PersistSegments struct {
	cor.BaseCommand
	sink SegmentSink
}

// NewPersistSegments is the constructor for the PersistSegments command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - sink: The persistence collaborator.
//
// Outputs:
//   - *PersistSegments: A pointer to the newly instantiated command.
func NewPersistSegments(name string, sink SegmentSink) *PersistSegments {
	return &PersistSegments{BaseCommand: *cor.NewBaseCommand(name), sink: sink}
}

// Execute writes the records to the sink.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *PersistSegments) Execute(context cor.Context) {
	records := context.Get(c.GetInputParam()).([]*model.SegmentRecord)

	if err := c.sink.SaveSegments(context.GetContext(), records); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to persist %d segment record(s): %w", len(records), err))
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(c.GetOutputParam(), records)
}
