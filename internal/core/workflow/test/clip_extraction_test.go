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

// Package workflow_test exercises the clip extraction workflow end to end
// with in-memory collaborator fakes: from the raw GCS trigger payload through
// transcription, segmentation, visual analysis, fusion, selection, and
// platform adaptation, down to the records and run rows arriving at the
// segment sink.
package workflow_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snsvideo/gcp-go-clip-engine/internal/cloud"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/cor"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/workflow"
	test "github.com/snsvideo/gcp-go-clip-engine/internal/testutil"
)

// testConfig builds a fully in-code configuration so the tests need no TOML
// files, credentials, or network access. Backoffs and pauses are zeroed to
// keep the suite fast.
func testConfig() *cloud.Config {
	config := cloud.NewConfig()
	config.Application.Name = "clip-engine-test"
	config.Analysis = cloud.Analysis{
		FrameIntervalSeconds:     1,
		FrameBatchSize:           3,
		BatchPauseSeconds:        0,
		TranscribeAttempts:       3,
		TranscribeBackoffSeconds: 0,
		MinSegmentDuration:       10,
		MaxSegmentDuration:       60,
	}
	config.Selection = cloud.Selection{
		MinEngagementScore: 5,
		MaxSegments:        5,
		MinDuration:        10,
		MaxDuration:        60,
		EnsureDiversity:    false,
	}
	return config
}

// engagingTranscript returns four adjacent 12-second utterances that the
// segmenter merges into a single 48-second window. The "how to" phrasing
// classifies the window as education.
func engagingTranscript() *model.Transcript {
	spans := []model.UtteranceSpan{
		{Start: 0, End: 12, Text: "Here is how to edit your videos twice as fast.", NoSpeechProb: 0.05},
		{Start: 12, End: 24, Text: "The first trick is to cut on every hard consonant.", NoSpeechProb: 0.05},
		{Start: 24, End: 36, Text: "Watch what happens when I apply it to this clip.", NoSpeechProb: 0.05},
		{Start: 36, End: 48, Text: "That single change saved me an hour per episode.", NoSpeechProb: 0.05},
	}
	return &model.Transcript{
		Text:     "Here is how to edit your videos twice as fast.",
		Segments: spans,
		Language: "en",
		Duration: 48,
	}
}

// engagingFrames returns one frame per second across the transcript window.
// Every frame carries the same object set (so no scene-change cues fire),
// visual quality 8, two engagement indicators, and an enthusiastic emotion.
// Per frame that yields an emotion cue (value 9) and a movement cue
// (value 4), so the visual engagement score is
// 0.4*8 + 0.3*2 + 0.3*6.5 = 5.75 and, with audio confidence 0.95, the
// combined score is round(10*(0.4*0.95 + 0.6*0.575)) = 7.
func engagingFrames() ([]model.FrameRef, map[float64]model.FrameDescription) {
	refs := make([]model.FrameRef, 0, 48)
	descriptions := make(map[float64]model.FrameDescription, 48)
	for i := 0; i < 48; i++ {
		ts := float64(i)
		refs = append(refs, model.FrameRef{Timestamp: ts, Path: "/tmp/unused.jpg"})
		descriptions[ts] = model.FrameDescription{
			Timestamp: ts,
			Objects: []model.FrameObject{
				{Name: "desk", Confidence: 0.9},
				{Name: "laptop", Confidence: 0.85},
			},
			SceneDescription:     "creator talking at a desk",
			EngagementIndicators: []string{"smiling", "gesturing"},
			EmotionDetected:      "enthusiastic",
			VisualQuality:        8,
		}
	}
	return refs, descriptions
}

// runWorkflow executes the pipeline against the standard trigger payload and
// returns the context for inspection.
func runWorkflow(t *testing.T, w *workflow.ClipExtractionWorkflow) cor.Context {
	t.Helper()
	ctx, span := tracer.Start(context.Background(), t.Name())
	defer span.End()
	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	defer chainCtx.Close()
	chainCtx.Add(cor.CtxIn, test.GetTestUploadMessageText())
	logger.InfoContext(ctx, "executing clip extraction chain", "test", t.Name())
	w.Execute(chainCtx)
	return chainCtx
}

// TestClipExtractionEndToEnd drives the full chain and checks the persisted
// artifacts: one education segment covering the merged transcript window,
// platform variants for all three default destinations, and a completed run
// record with accurate metadata.
func TestClipExtractionEndToEnd(t *testing.T) {
	refs, descriptions := engagingFrames()
	sink := &test.MemorySegmentSink{}
	w := workflow.NewClipExtractionWorkflow(
		testConfig(),
		&test.FakeTranscriber{Transcript: engagingTranscript()},
		&test.FakeFrameSampler{Frames: refs},
		&test.FakeFrameDescriber{Descriptions: descriptions},
		sink,
	)

	chainCtx := runWorkflow(t, w)
	require.False(t, chainCtx.HasErrors(), "workflow errors: %v", chainCtx.GetErrors())

	require.Len(t, sink.Segments, 1)
	record := sink.Segments[0]

	wantVideoID := uuid.NewSHA1(uuid.NameSpaceURL, []byte("video_uploads/creator-podcast-042.mp4")).String()
	assert.Equal(t, wantVideoID, record.VideoID)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, 0.0, record.StartTime)
	assert.Equal(t, 48.0, record.EndTime)
	assert.Equal(t, "education", record.ContentType)
	assert.Equal(t, 7, record.EngagementScore)
	assert.Equal(t, model.SegmentStatusExtracted, record.Status)
	assert.InDelta(t, 0.95, record.AudioFeatures.Confidence, 1e-9)
	assert.NotEmpty(t, record.VisualCues)

	// Platform variants are emitted in sorted platform order, and the
	// 48-second segment fits every default ceiling untrimmed.
	require.Len(t, record.Platforms, 3)
	assert.Equal(t, "instagram", record.Platforms[0].Platform)
	assert.Equal(t, "tiktok", record.Platforms[1].Platform)
	assert.Equal(t, "youtube", record.Platforms[2].Platform)
	for _, variant := range record.Platforms {
		assert.Equal(t, 48.0, variant.EndTime)
		assert.Equal(t, "9:16", variant.AspectRatio)
		assert.Equal(t, 7, variant.EngagementScore)
	}

	// Two run rows: the in-flight one and the terminal one.
	require.Len(t, sink.Runs, 2)
	assert.Equal(t, model.RunStatusAnalyzing, sink.Runs[0].Status)
	final := sink.LastRun()
	assert.Equal(t, model.RunStatusCompleted, final.Status)
	assert.Equal(t, wantVideoID, final.VideoID)
	assert.Equal(t, 48, final.Metadata.TotalFramesAnalyzed)
	assert.Equal(t, 1, final.Metadata.SegmentsFound)
	assert.Equal(t, 7, final.Metadata.TopSegmentScore)
	assert.Empty(t, final.ErrorMessage)
}

// TestClipExtractionCompletesWithEmptyTranscript verifies that a video with
// no detectable speech is not an error: the successful-but-empty transcript
// passes through without burning the retry budget, segmentation yields an
// empty window list, and the run completes with zero segments found and
// accurate aggregate counts.
func TestClipExtractionCompletesWithEmptyTranscript(t *testing.T) {
	transcriber := &test.FakeTranscriber{Transcript: &model.Transcript{
		Text:     "",
		Segments: []model.UtteranceSpan{},
		Language: "en",
		Duration: 30,
	}}
	sink := &test.MemorySegmentSink{}
	w := workflow.NewClipExtractionWorkflow(
		testConfig(),
		transcriber,
		&test.FakeFrameSampler{},
		&test.FakeFrameDescriber{},
		sink,
	)

	chainCtx := runWorkflow(t, w)

	require.False(t, chainCtx.HasErrors(), "workflow errors: %v", chainCtx.GetErrors())
	assert.Equal(t, 1, transcriber.Calls, "an empty transcript is a result, not a retryable failure")
	assert.Empty(t, sink.Segments)

	final := sink.LastRun()
	require.NotNil(t, final)
	assert.Equal(t, model.RunStatusCompleted, final.Status)
	assert.Empty(t, final.ErrorMessage)
	assert.Equal(t, 0, final.Metadata.TotalFramesAnalyzed)
	assert.Equal(t, 0, final.Metadata.SegmentsFound)
	assert.Equal(t, 0, final.Metadata.TopSegmentScore)
}

// TestClipExtractionRetriesTransientTranscription verifies the transcription
// command absorbs a transient collaborator outage within its attempt budget.
func TestClipExtractionRetriesTransientTranscription(t *testing.T) {
	refs, descriptions := engagingFrames()
	transcriber := &test.FakeTranscriber{Transcript: engagingTranscript(), FailCount: 2}
	sink := &test.MemorySegmentSink{}
	w := workflow.NewClipExtractionWorkflow(
		testConfig(),
		transcriber,
		&test.FakeFrameSampler{Frames: refs},
		&test.FakeFrameDescriber{Descriptions: descriptions},
		sink,
	)

	chainCtx := runWorkflow(t, w)

	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, 3, transcriber.Calls)
	assert.Len(t, sink.Segments, 1)
	assert.Equal(t, model.RunStatusCompleted, sink.LastRun().Status)
}

// TestClipExtractionFailsWhenTranscriptionExhausted verifies that a
// persistent transcription outage fails the run with an error status and
// persists no segments.
func TestClipExtractionFailsWhenTranscriptionExhausted(t *testing.T) {
	transcriber := &test.FakeTranscriber{Transcript: engagingTranscript(), FailCount: 10}
	sink := &test.MemorySegmentSink{}
	w := workflow.NewClipExtractionWorkflow(
		testConfig(),
		transcriber,
		&test.FakeFrameSampler{},
		&test.FakeFrameDescriber{},
		sink,
	)

	chainCtx := runWorkflow(t, w)

	assert.True(t, chainCtx.HasErrors())
	assert.Equal(t, 3, transcriber.Calls, "attempts must stop at the configured bound")
	assert.Empty(t, sink.Segments)

	final := sink.LastRun()
	require.NotNil(t, final)
	assert.Equal(t, model.RunStatusError, final.Status)
	assert.Contains(t, final.ErrorMessage, "transcription failed after 3 attempt(s)")
	assert.Equal(t, 0, final.Metadata.SegmentsFound)
}

// TestClipExtractionDegradesFailedFrames verifies that individual frame
// description failures do not fail the run: the affected frames fall back to
// neutral descriptions and the pipeline still completes.
func TestClipExtractionDegradesFailedFrames(t *testing.T) {
	refs, descriptions := engagingFrames()
	describer := &test.FakeFrameDescriber{
		Descriptions:   descriptions,
		FailTimestamps: []float64{3, 17},
	}
	sink := &test.MemorySegmentSink{}
	w := workflow.NewClipExtractionWorkflow(
		testConfig(),
		&test.FakeTranscriber{Transcript: engagingTranscript()},
		&test.FakeFrameSampler{Frames: refs},
		describer,
		sink,
	)

	chainCtx := runWorkflow(t, w)

	assert.False(t, chainCtx.HasErrors())
	assert.Equal(t, 48, describer.Calls)
	require.Len(t, sink.Segments, 1)
	assert.Equal(t, model.RunStatusCompleted, sink.LastRun().Status)
	assert.Equal(t, 48, sink.LastRun().Metadata.TotalFramesAnalyzed)
}

// TestClipExtractionStopsAtBatchBoundaryOnCancel verifies the cancellation
// contract of the frame description step: the batch in flight when the
// context is canceled finishes, no further batch starts, and the run is
// recorded as an error.
func TestClipExtractionStopsAtBatchBoundaryOnCancel(t *testing.T) {
	refs, descriptions := engagingFrames()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	describer := &test.FakeFrameDescriber{
		Descriptions: descriptions,
		OnDescribe:   func(model.FrameRef) { cancel() },
	}
	sink := &test.MemorySegmentSink{}
	w := workflow.NewClipExtractionWorkflow(
		testConfig(),
		&test.FakeTranscriber{Transcript: engagingTranscript()},
		&test.FakeFrameSampler{Frames: refs},
		describer,
		sink,
	)

	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	defer chainCtx.Close()
	chainCtx.Add(cor.CtxIn, test.GetTestUploadMessageText())
	w.Execute(chainCtx)

	assert.True(t, chainCtx.HasErrors())
	assert.Equal(t, 3, describer.Calls, "the in-flight batch finishes, no new batch starts")
	assert.Empty(t, sink.Segments)

	final := sink.LastRun()
	require.NotNil(t, final)
	assert.Equal(t, model.RunStatusError, final.Status)
	assert.Contains(t, final.ErrorMessage, "canceled")
}

// TestClipExtractionReportsPersistenceFailure verifies that a sink failure at
// the terminal persistence step surfaces in the run record.
func TestClipExtractionReportsPersistenceFailure(t *testing.T) {
	refs, descriptions := engagingFrames()
	sink := &test.MemorySegmentSink{SegmentErr: assert.AnError}
	w := workflow.NewClipExtractionWorkflow(
		testConfig(),
		&test.FakeTranscriber{Transcript: engagingTranscript()},
		&test.FakeFrameSampler{Frames: refs},
		&test.FakeFrameDescriber{Descriptions: descriptions},
		sink,
	)

	chainCtx := runWorkflow(t, w)

	assert.True(t, chainCtx.HasErrors())
	assert.Empty(t, sink.Segments)

	final := sink.LastRun()
	require.NotNil(t, final)
	assert.Equal(t, model.RunStatusError, final.Status)
	assert.Contains(t, final.ErrorMessage, "persist-segments")
}
