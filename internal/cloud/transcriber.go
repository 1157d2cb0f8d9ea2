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

// Package cloud provides components for interacting with Google Cloud services.
// This file implements the transcription collaborator on top of a Gemini
// model. The engine treats speech-to-text as a black box: this type turns a
// video locator into the structured transcript schema the segmenter
// consumes, and nothing downstream knows or cares which model produced it.
//
// Structs:
//   - GeminiTranscriber: The Gemini-backed transcription collaborator.
//
// Functions:
//   - NewGeminiTranscriber: Constructor that parses the prompt template.
//   - Transcribe: Produces a structured transcript for a video.
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"text/template"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
	"google.golang.org/genai"
)

// ErrMalformedModelOutput marks a collaborator response that could not be
// parsed into the expected schema. Callers use errors.Is to distinguish a
// parse failure from an unavailable collaborator.
var ErrMalformedModelOutput = errors.New("malformed model output")

// GeminiTranscriber produces structured transcripts using a quota-aware
// Gemini model reference to the video in Cloud Storage.
type GeminiTranscriber struct {
	model              *QuotaAwareGenerativeAIModel // The rate-limited generative model.
	promptTemplate     *template.Template           // Template producing the transcription prompt.
	inputTokenCounter  metric.Int64Counter          // OTel counter for prompt tokens.
	outputTokenCounter metric.Int64Counter          // OTel counter for response tokens.
	retryCounter       metric.Int64Counter          // OTel counter for retries.
}

// NewGeminiTranscriber creates a transcriber from a model wrapper and the
// raw prompt template text.
//
// Inputs:
//   - model: The quota-aware model to call.
//   - prompt: The raw text/template source for the transcription prompt.
//
// Outputs:
//   - *GeminiTranscriber: The ready transcriber.
//   - error: A template parse error.
func NewGeminiTranscriber(model *QuotaAwareGenerativeAIModel, prompt string) (*GeminiTranscriber, error) {
	tmpl, err := template.New("transcription").Parse(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse transcription prompt: %w", err)
	}
	meter := otel.Meter("github.com/snsvideo/gcp-go-clip-engine")
	in, _ := meter.Int64Counter("transcriber.gemini.token.input")
	out, _ := meter.Int64Counter("transcriber.gemini.token.output")
	retries, _ := meter.Int64Counter("transcriber.gemini.retry")
	return &GeminiTranscriber{
		model:              model,
		promptTemplate:     tmpl,
		inputTokenCounter:  in,
		outputTokenCounter: out,
		retryCounter:       retries,
	}, nil
}

// Transcribe asks the model for a structured transcript of the video's
// audio track. The prompt carries a few-shot example of the expected JSON
// so the response parses directly into the transcript schema. A response
// that fails to parse is reported as ErrMalformedModelOutput.
//
// Inputs:
//   - ctx: The request context; cancellation interrupts the model call.
//   - source: The video locator in Cloud Storage.
//
// Outputs:
//   - *model.Transcript: The parsed transcript.
//   - error: A model or parse failure.
func (t *GeminiTranscriber) Transcribe(ctx context.Context, source *model.VideoSource) (*model.Transcript, error) {
	exampleJson, _ := json.Marshal(model.GetExampleTranscript())

	vocabulary := map[string]string{
		"EXAMPLE_JSON": string(exampleJson),
	}
	var doc bytes.Buffer
	if err := t.promptTemplate.Execute(&doc, vocabulary); err != nil {
		return nil, fmt.Errorf("failed to render transcription prompt: %w", err)
	}

	contents := []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: doc.String()},
				{FileData: &genai.FileData{
					FileURI:  source.URI(),
					MIMEType: source.MIMEType,
				}},
			},
			Role: "user",
		},
	}

	out, err := GenerateMultiModalResponse(ctx, t.inputTokenCounter, t.outputTokenCounter, t.retryCounter, 0, t.model, contents)
	if err != nil {
		return nil, err
	}

	transcript := &model.Transcript{}
	if err := json.Unmarshal([]byte(out), transcript); err != nil {
		return nil, fmt.Errorf("%w: transcript: %v", ErrMalformedModelOutput, err)
	}
	return transcript, nil
}
