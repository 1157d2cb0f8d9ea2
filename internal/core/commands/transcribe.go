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
// transcription command.
//
// Logic Flow:
// Transcription is the pipeline's single most failure-prone step: one long
// multimodal call against an external model. The command wraps the
// collaborator in a bounded retry with a linearly increasing backoff.
//
//  1. It reads the `model.VideoSource` from its input parameter.
//  2. It calls the Transcriber collaborator. On failure it waits
//     attempt * backoff seconds and tries again, up to the configured number
//     of attempts, honoring context cancellation during the wait.
//  3. A transcript with no utterances is a legitimate result (a silent or
//     speech-free video); it flows downstream and yields an empty segment
//     list, not a failed run.
//  4. On success the transcript is stored under its well-known key and as the
//     command output.
package commands

import (
	"fmt"
	"log"
	"time"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/cor"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

// TranscribeVideo is a command that produces the transcript for the run's
// video, retrying transient collaborator failures.
type TranscribeVideo struct {
	cor.BaseCommand
	transcriber    Transcriber   // The transcription collaborator.
	maxAttempts    int           // Total attempts before giving up.
	backoffBase    time.Duration // The backoff grows linearly in multiples of this.
}

// NewTranscribeVideo is the constructor for the TranscribeVideo command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - transcriber: The transcription collaborator.
//   - maxAttempts: Total attempts before the run fails; values below 1 become 1.
//   - backoffBaseSeconds: The base of the linear backoff between attempts.
//
// Outputs:
//   - *TranscribeVideo: A pointer to the newly instantiated command.
func NewTranscribeVideo(name string, transcriber Transcriber, maxAttempts int, backoffBaseSeconds int) *TranscribeVideo {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if backoffBaseSeconds < 0 {
		backoffBaseSeconds = 0
	}
	return &TranscribeVideo{
		BaseCommand: *cor.NewBaseCommand(name),
		transcriber: transcriber,
		maxAttempts: maxAttempts,
		backoffBase: time.Duration(backoffBaseSeconds) * time.Second,
	}
}

// Execute runs the bounded-retry transcription loop.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *TranscribeVideo) Execute(context cor.Context) {
	source := context.Get(c.GetInputParam()).(*model.VideoSource)

	var transcript *model.Transcript
	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		transcript, err = c.transcriber.Transcribe(context.GetContext(), source)
		if err == nil {
			if len(transcript.Segments) == 0 {
				log.Printf("transcript for %s contains no utterances\n", source.URI())
			}
			break
		}
		if attempt == c.maxAttempts {
			break
		}
		log.Printf("transcription attempt %d/%d for %s failed: %v\n", attempt, c.maxAttempts, source.URI(), err)

		// Linear backoff: attempt 1 waits 1x the base, attempt 2 waits 2x.
		select {
		case <-time.After(time.Duration(attempt) * c.backoffBase):
		case <-context.GetContext().Done():
			c.GetErrorCounter().Add(context.GetContext(), 1)
			context.AddError(c.GetName(), context.GetContext().Err())
			return
		}
	}

	if err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("transcription failed after %d attempt(s): %w", c.maxAttempts, err))
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetTranscriptParameterName(), transcript)
	context.Add(c.GetOutputParam(), transcript)
}
