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
// This file implements the frame-description collaborator on top of a Gemini
// model. Each sampled frame image is sent inline with a prompt carrying a
// few-shot example of the expected JSON, and the response is parsed into the
// frame description schema the cue detector and scorer consume.
//
// Structs:
//   - GeminiFrameDescriber: The Gemini-backed frame-description collaborator.
//
// Functions:
//   - NewGeminiFrameDescriber: Constructor that parses the prompt template.
//   - Describe: Produces a structured description of one frame image.
package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/template"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
	"google.golang.org/genai"
)

// frameImageMIMEType is the content type of the images the sampler emits.
const frameImageMIMEType = "image/jpeg"

// GeminiFrameDescriber produces structured frame descriptions using a
// quota-aware Gemini model.
type GeminiFrameDescriber struct {
	model              *QuotaAwareGenerativeAIModel // The rate-limited generative model.
	promptTemplate     *template.Template           // Template producing the per-frame prompt.
	inputTokenCounter  metric.Int64Counter          // OTel counter for prompt tokens.
	outputTokenCounter metric.Int64Counter          // OTel counter for response tokens.
	retryCounter       metric.Int64Counter          // OTel counter for retries.
}

// NewGeminiFrameDescriber creates a describer from a model wrapper and the
// raw prompt template text.
//
// Inputs:
//   - model: The quota-aware model to call.
//   - prompt: The raw text/template source for the frame-description prompt.
//
// Outputs:
//   - *GeminiFrameDescriber: The ready describer.
//   - error: A template parse error.
func NewGeminiFrameDescriber(model *QuotaAwareGenerativeAIModel, prompt string) (*GeminiFrameDescriber, error) {
	tmpl, err := template.New("frame-description").Parse(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse frame description prompt: %w", err)
	}
	meter := otel.Meter("github.com/snsvideo/gcp-go-clip-engine")
	in, _ := meter.Int64Counter("frame_describer.gemini.token.input")
	out, _ := meter.Int64Counter("frame_describer.gemini.token.output")
	retries, _ := meter.Int64Counter("frame_describer.gemini.retry")
	return &GeminiFrameDescriber{
		model:              model,
		promptTemplate:     tmpl,
		inputTokenCounter:  in,
		outputTokenCounter: out,
		retryCounter:       retries,
	}, nil
}

// Describe asks the model for a structured description of one sampled frame.
// The frame image is read from local disk and sent inline. The returned
// description always carries the frame's own timestamp, whatever the model
// echoed back. A response that fails to parse is reported as
// ErrMalformedModelOutput so the caller can substitute a neutral default
// without treating the collaborator as down.
//
// Inputs:
//   - ctx: The request context; cancellation interrupts the model call.
//   - frame: The sampled frame reference, with a local image path.
//
// Outputs:
//   - *model.FrameDescription: The parsed description.
//   - error: A read, model, or parse failure.
func (d *GeminiFrameDescriber) Describe(ctx context.Context, frame model.FrameRef) (*model.FrameDescription, error) {
	imageBytes, err := os.ReadFile(frame.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame image %s: %w", frame.Path, err)
	}

	exampleJson, _ := json.Marshal(model.GetExampleFrameDescription())
	vocabulary := map[string]string{
		"TIMESTAMP":    fmt.Sprintf("%.1f", frame.Timestamp),
		"EXAMPLE_JSON": string(exampleJson),
	}
	var doc bytes.Buffer
	if err := d.promptTemplate.Execute(&doc, vocabulary); err != nil {
		return nil, fmt.Errorf("failed to render frame description prompt: %w", err)
	}

	contents := []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: doc.String()},
				{InlineData: &genai.Blob{
					MIMEType: frameImageMIMEType,
					Data:     imageBytes,
				}},
			},
			Role: "user",
		},
	}

	out, err := GenerateMultiModalResponse(ctx, d.inputTokenCounter, d.outputTokenCounter, d.retryCounter, 0, d.model, contents)
	if err != nil {
		return nil, err
	}

	description := &model.FrameDescription{}
	if err := json.Unmarshal([]byte(out), description); err != nil {
		return nil, fmt.Errorf("%w: frame description at %.1fs: %v", ErrMalformedModelOutput, frame.Timestamp, err)
	}
	description.Timestamp = frame.Timestamp
	return description, nil
}
