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
// This file implements a decorator around the Generative AI client that adds
// rate limiting and bounded retries. The analysis pipeline issues bursts of
// frame-description calls; Vertex AI enforces per-minute quotas, and transient
// network failures are routine, so every model call in the engine goes
// through this wrapper.
//
// Structs:
//   - QuotaAwareGenerativeAIModel: Wraps a model handle plus its generation
//     config with a token-bucket rate limiter.
//
// Functions:
//   - NewQuotaAwareModel: Constructor for the wrapped model.
//   - GenerateContent: The rate-limited, retrying call into the model.
package cloud

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const (
	// maxGenerateAttempts bounds how many times a single GenerateContent
	// call is issued before giving up.
	maxGenerateAttempts = 4
	// retryDelay is the pause between attempts, giving the service time to
	// recover from transient failures.
	retryDelay = 10 * time.Second
)

// QuotaAwareGenerativeAIModel decorates a generative model handle with a
// rate limiter and retry behavior. All of the engine's model traffic flows
// through GenerateContent, so quota discipline is enforced in one place.
type QuotaAwareGenerativeAIModel struct {
	GenerativeContentConfig *genai.GenerateContentConfig // Generation parameters applied to every call.
	ModelName               string                       // The Vertex AI model identifier.
	ModelHandle             *genai.Models                // The underlying model access handle.
	RateLimit               *rate.Limiter                // Token bucket controlling request frequency.
}

// NewQuotaAwareModel creates a quota-aware wrapper around a model handle.
//
// Inputs:
//   - config: The generation parameters to apply to every call.
//   - name: The model identifier (e.g., "gemini-2.0-flash").
//   - handle: The genai model access handle.
//   - requestsPerSecond: The maximum sustained request rate; also the burst size.
//
// Outputs:
//   - *QuotaAwareGenerativeAIModel: A pointer to the newly created wrapper.
func NewQuotaAwareModel(config *genai.GenerateContentConfig, name string, handle *genai.Models, requestsPerSecond int) *QuotaAwareGenerativeAIModel {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 1
	}
	return &QuotaAwareGenerativeAIModel{
		GenerativeContentConfig: config,
		ModelName:               name,
		ModelHandle:             handle,
		RateLimit:               rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

// GenerateContent issues a generation request under the rate limit with a
// bounded retry loop.
//
// Logic Flow:
//  1. Block on the rate limiter until a request slot is available. Waiting
//     honors the caller's context, so cancellation interrupts a queued call.
//  2. Call the underlying model.
//  3. On failure, sleep and retry up to the attempt bound; on success,
//     return the response.
//
// Inputs:
//   - ctx: The context for the request, honored while rate-limited and between retries.
//   - content: The multi-modal prompt content.
//
// Outputs:
//   - *genai.GenerateContentResponse: The response from the AI model if successful.
//   - error: The last error when all attempts fail, or a context error on cancellation.
func (q *QuotaAwareGenerativeAIModel) GenerateContent(ctx context.Context, content []*genai.Content) (*genai.GenerateContentResponse, error) {
	var lastErr error
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if err := q.RateLimit.Wait(ctx); err != nil {
			return nil, err
		}
		resp, err := q.ModelHandle.GenerateContent(ctx, q.ModelName, content, q.GenerativeContentConfig)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("generation failed after %d attempts: %w", maxGenerateAttempts, lastErr)
}
