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

// Package cloud defines the data structures for application configuration,
// loaded from TOML files. It provides a structured way to manage settings
// for Google Cloud services, the generative AI models acting as
// transcription and frame-description collaborators, Pub/Sub triggers, and
// the tunable parameters of the analysis pipeline.
//
// Structs:
//   - BigQueryDataSource: Dataset and table names for run and segment persistence.
//   - PromptTemplates: Text templates for the prompts sent to GenAI models.
//   - VertexAiLLMModel: Configuration for a Vertex AI Large Language Model (LLM).
//   - TopicSubscription: Configuration for a single Pub/Sub topic subscription.
//   - Storage: Cloud Storage bucket and scratch directory settings.
//   - Analysis: The pipeline's frame sampling, batching, and retry parameters.
//   - Selection: The segment selection policy applied after fusion.
//   - Category: A content-type tag and the keywords that identify it.
//   - Config: The top-level struct aggregating all of the above.
//
// Functions:
//   - NewConfig: A constructor that initializes a new Config object with empty maps.
package cloud

import (
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
	"google.golang.org/genai"
)

// DefaultSafetySettings defines the default content safety thresholds for
// GenAI models. The thresholds are non-restrictive because the input is the
// user's own uploaded footage; policy enforcement happens downstream at
// publishing time, not during analysis.
var DefaultSafetySettings = []*genai.SafetySetting{
	{
		Category:  genai.HarmCategoryDangerousContent,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHarassment,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategoryHateSpeech,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
	{
		Category:  genai.HarmCategorySexuallyExplicit,
		Threshold: genai.HarmBlockThresholdBlockNone,
	},
}

// BigQueryDataSource represents the configuration for a BigQuery data source.
type BigQueryDataSource struct {
	DatasetName   string `toml:"dataset"`        // The name of the BigQuery dataset.
	RunsTable     string `toml:"runs_table"`     // The table holding analysis run records.
	SegmentsTable string `toml:"segments_table"` // The table holding extracted segment records.
}

// PromptTemplates holds the templates for the prompts sent to the AI
// collaborators.
type PromptTemplates struct {
	TranscriptionPrompt    string `toml:"transcription"`     // The template for transcribing the audio track.
	FrameDescriptionPrompt string `toml:"frame_description"` // The template for describing a single sampled frame.
}

// VertexAiLLMModel represents the configuration for a Vertex AI large language model (LLM).
type VertexAiLLMModel struct {
	Model              string  `toml:"model"`               // The name of the Vertex AI LLM.
	SystemInstructions string  `toml:"system_instructions"` // The system instructions for the LLM.
	Temperature        float32 `toml:"temperature"`         // The temperature parameter for the LLM.
	TopP               float32 `toml:"top_p"`               // The top_p parameter for the LLM.
	TopK               float32 `toml:"top_k"`               // The top_k parameter for the LLM.
	MaxTokens          int32   `toml:"max_tokens"`          // The maximum number of tokens for the LLM output.
	OutputFormat       string  `toml:"output_format"`       // The desired output format for the LLM.
	RateLimit          int     `toml:"rate_limit"`          // The rate limit for the LLM in requests per second.
}

// TopicSubscription represents the configuration for a Pub/Sub topic subscription.
type TopicSubscription struct {
	Name             string `toml:"name"`               // The name of the Pub/Sub subscription.
	Topic            string `toml:"topic"`              // The topic the subscription is attached to; used for direct publishes.
	DeadLetterTopic  string `toml:"dead_letter_topic"`  // The name of the dead-letter topic for the subscription.
	TimeoutInSeconds int    `toml:"timeout_in_seconds"` // The timeout for the subscription in seconds.
}

// Storage represents the configuration for storage locations.
type Storage struct {
	VideoInputBucket  string `toml:"video_input_bucket"`   // The bucket uploads land in; its notifications trigger runs.
	GCSFuseMountPoint string `toml:"gcs_fuse_mount_point"` // The mount point for GCS FUSE, used to read videos as local files.
	FrameScratchDir   string `toml:"frame_scratch_dir"`    // Local directory for extracted frame images; empty means the OS temp dir.
}

// Analysis holds the tunable parameters of the extraction pipeline: how
// often frames are sampled, how they are batched against the description
// collaborator, and how transcription failures are retried.
type Analysis struct {
	FrameIntervalSeconds     float64 `toml:"frame_interval_seconds"`     // Seconds between sampled frames.
	FrameBatchSize           int     `toml:"frame_batch_size"`           // Concurrent description calls per batch.
	BatchPauseSeconds        int     `toml:"batch_pause_seconds"`        // Pause between batches to smooth request rate.
	TranscribeAttempts       int     `toml:"transcribe_attempts"`        // Bounded attempt count for the transcription call.
	TranscribeBackoffSeconds int     `toml:"transcribe_backoff_seconds"` // Base of the linearly increasing backoff between attempts.
	MinSegmentDuration       float64 `toml:"min_segment_duration"`       // Shortest emitted content segment in seconds.
	MaxSegmentDuration       float64 `toml:"max_segment_duration"`       // Longest merge window in seconds.
}

// Selection mirrors the segment selection policy in TOML form.
type Selection struct {
	MinEngagementScore int     `toml:"min_engagement_score"` // Minimum combined engagement score.
	MaxSegments        int     `toml:"max_segments"`         // Hard cap on returned segments.
	MinDuration        float64 `toml:"min_duration"`         // Minimum acceptable segment duration in seconds.
	MaxDuration        float64 `toml:"max_duration"`         // Maximum acceptable segment duration in seconds.
	EnsureDiversity    bool    `toml:"ensure_diversity"`     // Cap per-content-type dominance of the result.
}

// ToPolicy converts the TOML selection settings into the policy object the
// selection pipeline consumes.
func (s Selection) ToPolicy() model.SelectionPolicy {
	return model.SelectionPolicy{
		MinEngagementScore: s.MinEngagementScore,
		MaxSegments:        s.MaxSegments,
		MinDuration:        s.MinDuration,
		MaxDuration:        s.MaxDuration,
		EnsureDiversity:    s.EnsureDiversity,
	}
}

// Category defines a content-type tag and the keywords that identify it.
// Categories are declared as an ordered array of tables because the
// classifier assigns the first category with a keyword hit.
type Category struct {
	Name     string   `toml:"name"`     // The content-type tag (e.g., "education").
	Keywords []string `toml:"keywords"` // Case-insensitive substrings that select this category.
}

// Config represents the overall configuration for the application, loaded
// from TOML files. It acts as the root container for all other
// configuration structs.
type Config struct {
	// Application holds general application settings.
	Application struct {
		Name            string `toml:"name"`              // The name of the application.
		GoogleProjectId string `toml:"google_project_id"` // The Google Cloud project ID.
		GoogleLocation  string `toml:"location"`          // The Google Cloud location.
		ThreadPoolSize  int    `toml:"thread_pool_size"`  // The size of the worker pool for parallel processing tasks.
	} `toml:"application"`
	Storage            Storage                      `toml:"storage"`               // Storage configuration.
	BigQueryDataSource BigQueryDataSource           `toml:"big_query_data_source"` // BigQuery data source configuration.
	Analysis           Analysis                     `toml:"analysis"`              // Pipeline parameters.
	Selection          Selection                    `toml:"selection"`             // Segment selection policy.
	PromptTemplates    PromptTemplates              `toml:"prompt_templates"`      // Prompt templates configuration.
	TopicSubscriptions map[string]TopicSubscription `toml:"topic_subscriptions"`   // Pub/Sub topic subscriptions, keyed by a logical name.
	AgentModels        map[string]VertexAiLLMModel  `toml:"agent_models"`          // Vertex AI LLM models, keyed by a logical name (e.g., "transcriber").
	Platforms          []model.PlatformProfile      `toml:"platforms"`             // Destination platform profiles, in publish-priority order.
	Categories         []Category                   `toml:"categories"`            // Ordered classifier categories; first keyword hit wins.
}

// NewConfig is a constructor function that creates a new, initialized Config
// instance. The maps must be initialized before the TOML loader populates
// them.
//
// Outputs:
//   - *Config: A pointer to a new Config struct with its map fields initialized.
func NewConfig() *Config {
	return &Config{
		TopicSubscriptions: make(map[string]TopicSubscription),
		AgentModels:        make(map[string]VertexAiLLMModel),
		Platforms:          make([]model.PlatformProfile, 0),
		Categories:         make([]Category, 0),
	}
}
