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

// Package model defines the core data structures for the clip extraction
// engine. This file contains the persistent output model: the final segment
// records handed to the persistence collaborator, the aggregate run
// metadata, and the run bookkeeping types used by the host.
package model

import "time"

// Run status values surfaced to the host. A run is always in exactly one of
// these states; there is no silent partial result.
const (
	RunStatusAnalyzing = "analyzing" // The workflow is in flight.
	RunStatusCompleted = "completed" // The workflow finished; SegmentsFound may still be zero.
	RunStatusError     = "error"     // The workflow failed fatally (e.g. transcription exhausted its retries).
)

// SegmentStatusExtracted is the initial status tag of a freshly assembled
// segment record. Downstream collaborators (publishing) advance it further.
const SegmentStatusExtracted = "extracted"

// VideoSource locates the video under analysis. It is derived from the
// upload trigger and carries no media bytes; resolving the locator into
// readable data is the collaborators' concern.
type VideoSource struct {
	ID       string // Identifier of the upload this run analyzes.
	Bucket   string // Storage bucket holding the video object.
	Name     string // Object name within the bucket.
	MIMEType string // Declared content type, e.g. "video/mp4".
}

// URI returns the gs:// locator of the source object.
func (v *VideoSource) URI() string {
	return "gs://" + v.Bucket + "/" + v.Name
}

// PlatformVariant is the per-platform trimmed rendition of one segment record
// as persisted alongside it. Stored as a repeated struct so the row maps
// cleanly onto a BigQuery schema.
type PlatformVariant struct {
	Platform          string  `json:"platform" bigquery:"platform"`
	StartTime         float64 `json:"start_time" bigquery:"start_time"`
	EndTime           float64 `json:"end_time" bigquery:"end_time"`
	RecommendedLength float64 `json:"recommended_length" bigquery:"recommended_length"`
	AspectRatio       string  `json:"aspect_ratio" bigquery:"aspect_ratio"`
	EngagementScore   int     `json:"engagement_score" bigquery:"engagement_score"`
}

// AudioFeatures carries the audio-side signal persisted with a segment
// record. Currently this is only the transcription confidence.
type AudioFeatures struct {
	Confidence float64 `json:"confidence" bigquery:"confidence"`
}

// SegmentRecord is the content-ready descriptor of one selected segment,
// consumed by the persistence layer and, later, the publishing collaborator.
type SegmentRecord struct {
	ID                string            `json:"id" bigquery:"id"`                             // Unique record identifier.
	VideoID           string            `json:"video_id" bigquery:"video_id"`                 // The upload this segment was cut from.
	StartTime         float64           `json:"start_time" bigquery:"start_time"`             // Segment start in seconds.
	EndTime           float64           `json:"end_time" bigquery:"end_time"`                 // Segment end in seconds.
	Title             string            `json:"title" bigquery:"title"`                       // Short title, derived from the text when no better title exists.
	Description       string            `json:"description" bigquery:"description"`           // The fused segment text.
	ContentType       string            `json:"content_type" bigquery:"content_type"`         // Classifier tag.
	EngagementScore   int               `json:"engagement_score" bigquery:"engagement_score"` // Combined engagement score, integer 1-10.
	TranscriptSegment string            `json:"transcript_segment" bigquery:"transcript_segment"`
	VisualCues        []VisualCue       `json:"visual_cues" bigquery:"visual_cues"`
	Analysis          EnhancedAnalysis  `json:"enhanced_analysis" bigquery:"enhanced_analysis"`
	AudioFeatures     AudioFeatures     `json:"audio_features" bigquery:"audio_features"`
	Platforms         []PlatformVariant `json:"platform_optimizations" bigquery:"platform_optimizations"`
	Status            string            `json:"status" bigquery:"status"` // Lifecycle tag, initially "extracted".
}

// RunMetadata is the aggregate result of one analysis run. The counts are
// accurate even for empty or failed runs so the host can always explain the
// outcome to the user.
type RunMetadata struct {
	TotalFramesAnalyzed int           `json:"total_frames_analyzed" bigquery:"total_frames_analyzed"`
	SegmentsFound       int           `json:"segments_found" bigquery:"segments_found"`
	TopSegmentScore     int           `json:"top_segment_score" bigquery:"top_segment_score"`
	ProcessingTime      time.Duration `json:"processing_time" bigquery:"-"`
}

// AnalysisRun is the host-visible record of one workflow execution.
type AnalysisRun struct {
	ID           string      `json:"id" bigquery:"id"`
	VideoID      string      `json:"video_id" bigquery:"video_id"`
	Status       string      `json:"status" bigquery:"status"`
	ErrorMessage string      `json:"error_message,omitempty" bigquery:"error_message"`
	Metadata     RunMetadata `json:"metadata" bigquery:"metadata"`
	StartedAt    time.Time   `json:"started_at" bigquery:"started_at"`
	FinishedAt   time.Time   `json:"finished_at" bigquery:"finished_at"`
}
