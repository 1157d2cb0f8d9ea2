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
// command that turns a raw transcript into coherent content segments.
//
// Logic Flow:
//  1. It reads the `model.Transcript` from its input parameter.
//  2. It runs the transcript's utterance spans through the
//     `analysis.TranscriptSegmenter`, which drops noise, merges adjacent
//     speech into duration-bounded windows, and classifies each window's
//     content type by keyword.
//  3. Zero segments is a legitimate result, for silent videos as well as
//     transcripts where every span is noise; later stages all accept an
//     empty window list and the run completes with zero segments found.
package commands

import (
	"log"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/analysis"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/cor"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

// SegmentTranscript is a command that converts transcript utterances into
// classified content segments.
type SegmentTranscript struct {
	cor.BaseCommand
	segmenter *analysis.TranscriptSegmenter
}

// NewSegmentTranscript is the constructor for the SegmentTranscript command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - segmenter: The configured transcript segmenter.
//
// Outputs:
//   - *SegmentTranscript: A pointer to the newly instantiated command.
func NewSegmentTranscript(name string, segmenter *analysis.TranscriptSegmenter) *SegmentTranscript {
	return &SegmentTranscript{BaseCommand: *cor.NewBaseCommand(name), segmenter: segmenter}
}

// Execute performs the segmentation.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *SegmentTranscript) Execute(context cor.Context) {
	transcript := context.Get(c.GetInputParam()).(*model.Transcript)

	segments := c.segmenter.Segment(transcript.Segments)
	if len(segments) == 0 {
		log.Printf("no content segments produced from %d utterance(s)\n", len(transcript.Segments))
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetContentSegmentsParameterName(), segments)
	context.Add(c.GetOutputParam(), segments)
}
