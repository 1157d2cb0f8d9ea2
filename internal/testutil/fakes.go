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

// This file provides in-memory fakes for the extraction pipeline's
// collaborator interfaces, so workflow tests run without GCP credentials,
// FFmpeg, or network access. Each fake records the calls it receives and can
// be primed with canned results or failures.
package test

import (
	"context"
	"fmt"
	"sync"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

// FakeTranscriber returns a canned transcript, optionally failing the first
// FailCount calls to exercise the retry loop.
type FakeTranscriber struct {
	Transcript *model.Transcript
	FailCount  int // Number of leading calls that return an error.

	mu    sync.Mutex
	Calls int
}

// Transcribe implements the transcription collaborator contract.
func (f *FakeTranscriber) Transcribe(_ context.Context, source *model.VideoSource) (*model.Transcript, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls++
	if f.Calls <= f.FailCount {
		return nil, fmt.Errorf("simulated transcription outage for %s (call %d)", source.URI(), f.Calls)
	}
	return f.Transcript, nil
}

// FakeFrameSampler returns a canned frame list without touching the
// filesystem.
type FakeFrameSampler struct {
	Frames []model.FrameRef
	Err    error

	Calls int
}

// Sample implements the frame sampling collaborator contract.
func (f *FakeFrameSampler) Sample(_ context.Context, _ *model.VideoSource, _ float64) ([]model.FrameRef, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Frames, nil
}

// FakeFrameDescriber returns canned descriptions keyed by frame timestamp.
// Timestamps listed in FailTimestamps produce an error instead, exercising
// the per-frame degradation path.
type FakeFrameDescriber struct {
	Descriptions   map[float64]model.FrameDescription
	FailTimestamps []float64
	OnDescribe     func(frame model.FrameRef) // Optional hook, invoked on every call.

	mu    sync.Mutex
	Calls int
}

// Describe implements the frame description collaborator contract.
func (f *FakeFrameDescriber) Describe(_ context.Context, frame model.FrameRef) (*model.FrameDescription, error) {
	f.mu.Lock()
	f.Calls++
	f.mu.Unlock()

	if f.OnDescribe != nil {
		f.OnDescribe(frame)
	}

	for _, ts := range f.FailTimestamps {
		if ts == frame.Timestamp {
			return nil, fmt.Errorf("simulated description failure at %.1fs", frame.Timestamp)
		}
	}
	if description, ok := f.Descriptions[frame.Timestamp]; ok {
		out := description
		return &out, nil
	}
	neutral := model.DefaultFrameDescription(frame.Timestamp)
	return &neutral, nil
}

// MemorySegmentSink collects persisted segments and runs in memory.
type MemorySegmentSink struct {
	mu       sync.Mutex
	Segments []*model.SegmentRecord
	Runs     []*model.AnalysisRun

	SegmentErr error // When set, SaveSegments fails with this error.
}

// SaveSegments implements the persistence collaborator contract.
func (m *MemorySegmentSink) SaveSegments(_ context.Context, segments []*model.SegmentRecord) error {
	if m.SegmentErr != nil {
		return m.SegmentErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Segments = append(m.Segments, segments...)
	return nil
}

// SaveRun implements the persistence collaborator contract. Runs are
// appended, so a completed workflow leaves two entries: the in-flight row
// and the terminal row.
func (m *MemorySegmentSink) SaveRun(_ context.Context, run *model.AnalysisRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *run
	m.Runs = append(m.Runs, &copied)
	return nil
}

// LastRun returns the most recently saved run record, or nil when none
// exists.
func (m *MemorySegmentSink) LastRun() *model.AnalysisRun {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Runs) == 0 {
		return nil
	}
	return m.Runs[len(m.Runs)-1]
}
