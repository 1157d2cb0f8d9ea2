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

// Package workflow defines the high-level business logic orchestrations,
// combining various commands into coherent pipelines. This file implements
// the clip extraction workflow: the end-to-end path from an uploaded video
// to persisted, platform-ready segment records.
package workflow

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/snsvideo/gcp-go-clip-engine/internal/cloud"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/analysis"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/commands"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/cor"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

// DefaultFFmpegPath is where the frame sampler expects the FFmpeg binary
// when the environment provides no override.
const DefaultFFmpegPath = "ffmpeg"

// ClipExtractionWorkflow orchestrates the full analysis of an uploaded video:
// transcription, transcript segmentation, frame sampling and description,
// visual cue detection, audio-visual fusion, policy selection, platform
// adaptation, record assembly, and persistence.
//
// The workflow is structured as a Chain of Responsibility (cor.Chain) and is
// typically triggered by the Pub/Sub notification GCS publishes when a video
// lands in the input bucket. Around the chain it keeps run-level
// bookkeeping: every execution writes an AnalysisRun record when it starts
// and again when it finishes, carrying the terminal status, an error summary
// on failure, and aggregate metadata on success.
type ClipExtractionWorkflow struct {
	cor.BaseCommand
	config      *cloud.Config
	transcriber commands.Transcriber
	sampler     commands.FrameSampler
	describer   commands.FrameDescriber
	sink        commands.SegmentSink
	chain       cor.Chain // The underlying chain of commands to be executed.
}

// Execute runs the extraction chain with run-record bookkeeping around it.
//
// Inputs:
//   - context: The chain of responsibility context for this execution,
//     carrying the raw trigger message as its input.
func (w *ClipExtractionWorkflow) Execute(context cor.Context) {
	run := &model.AnalysisRun{
		ID:        uuid.NewString(),
		Status:    model.RunStatusAnalyzing,
		StartedAt: time.Now().UTC(),
	}
	context.Add(commands.GetRunIDParameterName(), run.ID)

	// Best effort: a failure to record the in-flight row must not stop the
	// analysis itself.
	if err := w.sink.SaveRun(context.GetContext(), run); err != nil {
		w.GetErrorCounter().Add(context.GetContext(), 1)
	}

	w.chain.Execute(context)

	w.finishRun(context, run)
	if err := w.sink.SaveRun(context.GetContext(), run); err != nil {
		w.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(w.GetName(), fmt.Errorf("failed to persist run record %s: %w", run.ID, err))
	}
}

// finishRun fills in the terminal fields of the run record from the state
// the chain left behind.
func (w *ClipExtractionWorkflow) finishRun(context cor.Context, run *model.AnalysisRun) {
	run.FinishedAt = time.Now().UTC()
	run.Metadata.ProcessingTime = run.FinishedAt.Sub(run.StartedAt)

	if source, ok := context.Get(commands.GetVideoSourceParameterName()).(*model.VideoSource); ok {
		run.VideoID = source.ID
	}
	if frames, ok := context.Get(commands.GetFrameDescriptionsParameterName()).([]model.FrameDescription); ok {
		run.Metadata.TotalFramesAnalyzed = len(frames)
	}
	if selected, ok := context.Get(commands.GetSelectedSegmentsParameterName()).([]model.EnhancedSegment); ok {
		run.Metadata.SegmentsFound = len(selected)
		for _, segment := range selected {
			if segment.CombinedEngagementScore > run.Metadata.TopSegmentScore {
				run.Metadata.TopSegmentScore = segment.CombinedEngagementScore
			}
		}
	}

	if context.HasErrors() {
		run.Status = model.RunStatusError
		run.ErrorMessage = summarizeErrors(context.GetErrors())
		return
	}
	run.Status = model.RunStatusCompleted
}

// summarizeErrors flattens the per-command error map into one deterministic
// message for the run record.
func summarizeErrors(errs map[string]error) string {
	keys := make([]string, 0, len(errs))
	for key := range errs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", key, errs[key]))
	}
	return strings.Join(parts, "; ")
}

// initializeChain builds the sequence of commands that make up this
// workflow. Each command is an atomic unit of work; the output of one
// becomes the input of the next, except for the join points that read
// several earlier results through their well-known context keys.
func (w *ClipExtractionWorkflow) initializeChain() {
	out := cor.NewBaseChain(w.GetName())

	// Step 1: Parse the incoming Pub/Sub notification into the video locator
	// the rest of the pipeline works with.
	out.AddCommand(commands.NewVideoTriggerToSource("video-trigger-to-source"))

	// Step 2: Transcribe the audio track, retrying transient collaborator
	// failures with a linearly increasing backoff.
	out.AddCommand(commands.NewTranscribeVideo(
		"transcribe-video",
		w.transcriber,
		w.config.Analysis.TranscribeAttempts,
		w.config.Analysis.TranscribeBackoffSeconds))

	// Step 3: Turn the raw utterances into duration-bounded, keyword-classified
	// content segments.
	out.AddCommand(commands.NewSegmentTranscript(
		"segment-transcript",
		analysis.NewTranscriptSegmenter(
			w.config.Analysis.MinSegmentDuration,
			w.config.Analysis.MaxSegmentDuration,
			categoriesFromConfig(w.config))))

	// Step 4: Extract one still frame per sampling interval for the visual
	// half of the analysis.
	out.AddCommand(commands.NewSampleFrames(
		"sample-frames",
		w.sampler,
		w.config.Analysis.FrameIntervalSeconds))

	// Step 5: Describe the sampled frames in rate-smoothed concurrent
	// batches. Individual frame failures degrade to neutral descriptions.
	out.AddCommand(commands.NewDescribeFrames(
		"describe-frames",
		w.describer,
		w.config.Analysis.FrameBatchSize,
		w.config.Analysis.BatchPauseSeconds))

	// Step 6: Derive engagement-relevant visual cues from the descriptions.
	out.AddCommand(commands.NewDetectCues("detect-visual-cues"))

	// Step 7: Fuse the audio and visual halves into scored enhanced segments.
	out.AddCommand(commands.NewFuseSegments("fuse-segments"))

	// Step 8: Apply the selection policy to produce the non-overlapping,
	// score-ordered shortlist.
	out.AddCommand(commands.NewSelectSegments("select-segments", w.config.Selection.ToPolicy()))

	// Step 9: Derive per-platform variants of the shortlisted segments.
	out.AddCommand(commands.NewAdaptPlatforms("adapt-platforms", w.config.Platforms))

	// Step 10: Assemble the persistable segment records.
	out.AddCommand(commands.NewAssembleRecords("assemble-records"))

	// Step 11: Write the records to the segment sink.
	out.AddCommand(commands.NewPersistSegments("persist-segments", w.sink))

	w.chain = out
}

// categoriesFromConfig converts the configured classifier categories into
// the segmenter's form, falling back to the built-in set when none are
// configured.
func categoriesFromConfig(config *cloud.Config) []analysis.ContentCategory {
	if len(config.Categories) == 0 {
		return analysis.DefaultContentCategories()
	}
	categories := make([]analysis.ContentCategory, 0, len(config.Categories))
	for _, c := range config.Categories {
		categories = append(categories, analysis.ContentCategory{Name: c.Name, Keywords: c.Keywords})
	}
	return categories
}

// NewClipExtractionWorkflow creates the workflow with explicitly injected
// collaborators. Tests use this constructor directly with in-memory fakes;
// production wiring goes through NewClipExtractionPipeline.
//
// Inputs:
//   - config: The application's overall configuration.
//   - transcriber: The transcription collaborator.
//   - sampler: The frame extraction collaborator.
//   - describer: The frame description collaborator.
//   - sink: The persistence collaborator.
//
// Outputs:
//   - *ClipExtractionWorkflow: A fully initialized workflow.
func NewClipExtractionWorkflow(
	config *cloud.Config,
	transcriber commands.Transcriber,
	sampler commands.FrameSampler,
	describer commands.FrameDescriber,
	sink commands.SegmentSink) *ClipExtractionWorkflow {
	pipeline := &ClipExtractionWorkflow{
		BaseCommand: *cor.NewBaseCommand("clip-extraction-pipeline"),
		config:      config,
		transcriber: transcriber,
		sampler:     sampler,
		describer:   describer,
		sink:        sink,
	}
	pipeline.initializeChain()
	return pipeline
}

// NewClipExtractionPipeline is the production constructor. It builds the
// Gemini-backed transcription and frame description collaborators from the
// configured agent models and prompt templates, the FFmpeg frame sampler
// over the GCS FUSE mount, and the BigQuery segment sink.
//
// Inputs:
//   - config: The application's overall configuration.
//   - serviceClients: Initialized clients for GCP services.
//   - transcriberModelName: The agent model config to use for transcription.
//   - describerModelName: The agent model config to use for frame description.
//
// Outputs:
//   - *ClipExtractionWorkflow: A fully initialized workflow.
func NewClipExtractionPipeline(
	config *cloud.Config,
	serviceClients *cloud.ServiceClients,
	transcriberModelName string,
	describerModelName string) *ClipExtractionWorkflow {

	transcriber, err := cloud.NewGeminiTranscriber(
		serviceClients.AgentModels[transcriberModelName],
		config.PromptTemplates.TranscriptionPrompt)
	if err != nil {
		panic(err) // The app cannot run without valid prompt templates.
	}
	describer, err := cloud.NewGeminiFrameDescriber(
		serviceClients.AgentModels[describerModelName],
		config.PromptTemplates.FrameDescriptionPrompt)
	if err != nil {
		panic(err)
	}

	sampler := cloud.NewFFmpegFrameSampler(
		DefaultFFmpegPath,
		config.Storage.GCSFuseMountPoint,
		config.Storage.FrameScratchDir)

	sink := cloud.NewBigQuerySegmentSink(
		serviceClients.BigQueryClient,
		config.BigQueryDataSource.DatasetName,
		config.BigQueryDataSource.RunsTable,
		config.BigQueryDataSource.SegmentsTable)

	return NewClipExtractionWorkflow(config, transcriber, sampler, describer, sink)
}
