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
// Responsibility (COR) pattern's Command interface. This file centralizes the
// well-known context parameter names the extraction pipeline's commands use
// to share intermediate results. Commands that depend on a value produced
// several steps earlier read it through these accessors instead of the
// chain's default input piping, so reordering adjacent commands does not
// silently break data flow.
package commands

// Well-known context keys for the clip extraction workflow.
const (
	videoSourceParameterName       = "VIDEO_SOURCE"
	transcriptParameterName        = "TRANSCRIPT"
	contentSegmentsParameterName   = "CONTENT_SEGMENTS"
	frameListParameterName         = "FRAME_LIST"
	frameDescriptionsParameterName = "FRAME_DESCRIPTIONS"
	visualCuesParameterName        = "VISUAL_CUES"
	enhancedSegmentsParameterName  = "ENHANCED_SEGMENTS"
	selectedSegmentsParameterName  = "SELECTED_SEGMENTS"
	platformSegmentsParameterName  = "PLATFORM_SEGMENTS"
	segmentRecordsParameterName    = "SEGMENT_RECORDS"
	runIDParameterName             = "RUN_ID"
)

// GetVideoSourceParameterName returns the key for the *model.VideoSource
// identifying the video under analysis.
func GetVideoSourceParameterName() string {
	return videoSourceParameterName
}

// GetTranscriptParameterName returns the key for the *model.Transcript
// produced by the transcription command.
func GetTranscriptParameterName() string {
	return transcriptParameterName
}

// GetContentSegmentsParameterName returns the key for the
// []model.ContentSegment produced by transcript segmentation.
func GetContentSegmentsParameterName() string {
	return contentSegmentsParameterName
}

// GetFrameListParameterName returns the key for the []model.FrameRef produced
// by frame sampling.
func GetFrameListParameterName() string {
	return frameListParameterName
}

// GetFrameDescriptionsParameterName returns the key for the
// []model.FrameDescription produced by the frame description command.
func GetFrameDescriptionsParameterName() string {
	return frameDescriptionsParameterName
}

// GetVisualCuesParameterName returns the key for the []model.VisualCue
// produced by cue detection.
func GetVisualCuesParameterName() string {
	return visualCuesParameterName
}

// GetEnhancedSegmentsParameterName returns the key for the
// []model.EnhancedSegment produced by audio-visual fusion.
func GetEnhancedSegmentsParameterName() string {
	return enhancedSegmentsParameterName
}

// GetSelectedSegmentsParameterName returns the key for the
// []model.EnhancedSegment surviving policy selection.
func GetSelectedSegmentsParameterName() string {
	return selectedSegmentsParameterName
}

// GetPlatformSegmentsParameterName returns the key for the
// map[string][]model.PlatformSegment produced by platform adaptation.
func GetPlatformSegmentsParameterName() string {
	return platformSegmentsParameterName
}

// GetSegmentRecordsParameterName returns the key for the
// []*model.SegmentRecord assembled for persistence.
func GetSegmentRecordsParameterName() string {
	return segmentRecordsParameterName
}

// GetRunIDParameterName returns the key for the string id of the current
// analysis run.
func GetRunIDParameterName() string {
	return runIDParameterName
}
