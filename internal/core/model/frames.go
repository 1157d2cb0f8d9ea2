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
// engine. This file contains the visual side of the data model: sampled frame
// references, the structured per-frame descriptions returned by the vision
// collaborator, and the discrete visual cues derived from them.
package model

// FrameRef identifies one sampled instant of the source video. The sampler
// collaborator produces these; the describer consumes them. Path points at a
// locally staged image when the sampler extracts frames to disk, URI at a
// remote object when it does not. Exactly one of the two is normally set.
type FrameRef struct {
	Timestamp float64 // Position of the sample in seconds from the start of the video.
	Path      string  // Local filesystem path of the extracted frame image, if staged locally.
	URI       string  // Remote locator of the frame image, if not staged locally.
}

// FrameObject is a single object recognized in a frame by the vision
// collaborator, with its detection confidence.
type FrameObject struct {
	Name       string  `json:"name"`       // Lower-case object label, e.g. "person", "face".
	Confidence float64 `json:"confidence"` // Detection confidence in [0,1].
}

// FrameDescription is the structured description of one sampled frame as
// produced by the vision collaborator. It is a read-only input to the engine;
// when a describe call fails the engine substitutes DefaultFrameDescription
// for that frame instead of aborting the run.
type FrameDescription struct {
	Timestamp            float64       `json:"timestamp"`                  // Position of the frame in seconds.
	Objects              []FrameObject `json:"objects"`                    // Recognized objects with confidences.
	SceneDescription     string        `json:"scene_description"`          // Free-text description of the scene.
	EngagementIndicators []string      `json:"engagement_indicators"`      // Tags such as "direct_eye_contact" or "expressive_gestures".
	EmotionDetected      string        `json:"emotion_detected,omitempty"` // Dominant detected emotion, empty when none.
	VisualQuality        float64       `json:"visual_quality"`             // Visual quality estimate on a 0-10 scale.
}

// NeutralVisualQuality is the visual-quality value used when no real signal
// exists: for substituted frame descriptions and for segments that contain no
// sampled frames at all.
const NeutralVisualQuality = 5.0

// DefaultFrameDescription returns the neutral stand-in used when a frame
// could not be described (collaborator failure or unparseable output). All
// engagement-relevant fields are zeroed so the frame contributes no positive
// signal, while the neutral visual quality keeps averages from collapsing.
func DefaultFrameDescription(timestamp float64) FrameDescription {
	return FrameDescription{
		Timestamp:            timestamp,
		Objects:              []FrameObject{},
		SceneDescription:     "analysis unavailable",
		EngagementIndicators: []string{},
		VisualQuality:        NeutralVisualQuality,
	}
}

// CueType enumerates the kinds of discrete engagement-relevant events the cue
// detector can flag in a frame sequence.
type CueType string

const (
	CueSceneChange   CueType = "scene_change"   // The object composition changed markedly from the previous frame.
	CueFaceDetection CueType = "face_detection" // A clearly visible face was detected.
	CueTextOverlay   CueType = "text_overlay"   // On-screen text was detected.
	CueMovement      CueType = "movement"       // A cluster of engagement indicators in a single frame.
	CueEmotion       CueType = "emotion"        // A strong, high-engagement emotion was detected.
)

// VisualCue is a discrete, timestamped event derived from one or two
// consecutive frame descriptions. Invariants: EngagementValue >= 0 and the
// timestamp falls within the duration of the source video.
type VisualCue struct {
	Timestamp       float64 `json:"timestamp" bigquery:"timestamp"`               // When the event occurred, in seconds.
	Type            CueType `json:"type" bigquery:"type"`                         // The kind of event.
	Description     string  `json:"description" bigquery:"description"`           // Short human-readable description.
	Confidence      float64 `json:"confidence" bigquery:"confidence"`             // Detection confidence in [0,1].
	EngagementValue float64 `json:"engagement_value" bigquery:"engagement_value"` // Heuristic engagement contribution, >= 0.
}
