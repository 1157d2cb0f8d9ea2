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

// This file declares the collaborator interfaces the pipeline commands depend
// on. The cloud package provides the production implementations (Gemini
// models behind a rate limiter, FFmpeg, BigQuery); tests substitute in-memory
// fakes. Declaring the interfaces here, at the point of use, keeps the
// commands package free of cloud SDK imports in its contracts.
package commands

import (
	"context"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

// Transcriber produces a transcript of a video's audio track.
type Transcriber interface {
	Transcribe(ctx context.Context, source *model.VideoSource) (*model.Transcript, error)
}

// FrameSampler extracts still frames from a video at a fixed interval. The
// returned references are ordered by timestamp and point at local image
// files the caller must clean up.
type FrameSampler interface {
	Sample(ctx context.Context, source *model.VideoSource, interval float64) ([]model.FrameRef, error)
}

// FrameDescriber produces a structured description of a single frame image.
type FrameDescriber interface {
	Describe(ctx context.Context, frame model.FrameRef) (*model.FrameDescription, error)
}

// SegmentSink persists extraction results durably.
type SegmentSink interface {
	SaveSegments(ctx context.Context, segments []*model.SegmentRecord) error
	SaveRun(ctx context.Context, run *model.AnalysisRun) error
}
