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
// frame description command, the pipeline's high-fan-out step.
//
// Logic Flow:
// A run can sample hundreds of frames, and each one costs a model call. The
// command processes the frames in fixed-size batches rather than with an
// unbounded worker pool, keeping the request rate smooth and predictable.
//
//  1. It receives the ordered `[]model.FrameRef` as input.
//  2. **Batched Concurrency**: frames are processed `batchSize` at a time.
//     Within a batch each frame gets its own goroutine and its own OTel span;
//     a `sync.WaitGroup` joins the batch before the next one starts. A
//     configurable pause between batches spaces the bursts out.
//  3. **Per-frame degradation**: a frame whose description call fails, or
//     whose response cannot be parsed, is replaced by a neutral placeholder
//     description at that timestamp. One bad frame never fails the run; the
//     scoring stages treat neutral frames as exactly that.
//  4. **Cancellation**: between batches the command checks the Go context.
//     Cancellation stops the fan-out and fails the run.
//  5. The descriptions, ordered to match the input frames, become the output.
package commands

import (
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/cor"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

// DescribeFrames is a command that obtains a structured description for every
// sampled frame, batching the collaborator calls.
type DescribeFrames struct {
	cor.BaseCommand
	describer  FrameDescriber
	batchSize  int           // Concurrent description calls per batch.
	batchPause time.Duration // Idle time between batches.
}

// NewDescribeFrames is the constructor for the DescribeFrames command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - describer: The frame description collaborator.
//   - batchSize: Concurrent calls per batch; values below 1 become 1.
//   - batchPauseSeconds: Seconds to wait between batches.
//
// Outputs:
//   - *DescribeFrames: A pointer to the newly instantiated command.
func NewDescribeFrames(name string, describer FrameDescriber, batchSize int, batchPauseSeconds int) *DescribeFrames {
	if batchSize < 1 {
		batchSize = 1
	}
	if batchPauseSeconds < 0 {
		batchPauseSeconds = 0
	}
	return &DescribeFrames{
		BaseCommand: *cor.NewBaseCommand(name),
		describer:   describer,
		batchSize:   batchSize,
		batchPause:  time.Duration(batchPauseSeconds) * time.Second,
	}
}

// Execute fans the description calls out batch by batch.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *DescribeFrames) Execute(context cor.Context) {
	frames := context.Get(c.GetInputParam()).([]model.FrameRef)

	descriptions := make([]model.FrameDescription, len(frames))
	for start := 0; start < len(frames); start += c.batchSize {
		// Cancellation is only observed on batch boundaries; in-flight calls
		// of the current batch run to completion.
		if err := context.GetContext().Err(); err != nil {
			c.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(c.GetName(), fmt.Errorf("frame description canceled after %d of %d frame(s): %w", start, len(frames), err))
			return
		}
		if start > 0 && c.batchPause > 0 {
			time.Sleep(c.batchPause)
		}

		end := start + c.batchSize
		if end > len(frames) {
			end = len(frames)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				descriptions[idx] = c.describeOne(context, frames[idx])
			}(i)
		}
		wg.Wait()
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetFrameDescriptionsParameterName(), descriptions)
	context.Add(c.GetOutputParam(), descriptions)
}

// describeOne calls the collaborator for a single frame under its own span.
// Failures degrade to a neutral description at the frame's timestamp.
func (c *DescribeFrames) describeOne(context cor.Context, frame model.FrameRef) model.FrameDescription {
	spanCtx, span := c.GetTracer().Start(context.GetContext(), fmt.Sprintf("%s_genai_frame", c.GetName()))
	span.SetAttributes(attribute.Float64("timestamp", frame.Timestamp))
	defer span.End()

	description, err := c.describer.Describe(spanCtx, frame)
	if err != nil {
		span.SetStatus(codes.Error, "frame description degraded to neutral")
		span.RecordError(err)
		return model.DefaultFrameDescription(frame.Timestamp)
	}
	span.SetStatus(codes.Ok, "frame described")
	return *description
}
