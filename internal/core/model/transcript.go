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
// engine. This file contains the spoken-content side of the data model: the
// raw transcript produced by the transcription collaborator and the coherent
// content segments derived from it.
//
// The transcript is a read-only input to the engine. Content segments are
// produced once by the transcript segmenter and never mutated afterwards;
// every later stage (fusion, selection, platform adaptation) builds new
// values instead of editing these.
package model

// UtteranceSpan is a single timestamped utterance as reported by the
// transcription collaborator. Spans arrive ordered by start time. The
// NoSpeechProb field is the collaborator's estimate that the span contains
// no actual speech (silence, music, noise); the segmenter uses it both as a
// filter and, inverted, as the confidence of the spoken text.
type UtteranceSpan struct {
	Start        float64 `json:"start"`          // Start of the span in seconds from the beginning of the video.
	End          float64 `json:"end"`            // End of the span in seconds.
	Text         string  `json:"text"`           // The transcribed text for this span.
	NoSpeechProb float64 `json:"no_speech_prob"` // Probability in [0,1] that the span holds no speech.
}

// Duration returns the length of the span in seconds.
func (u UtteranceSpan) Duration() float64 {
	return u.End - u.Start
}

// Transcript is the complete result of the transcription collaborator for a
// single video: the full text, the individual timestamped spans, the detected
// language (opaque metadata to the engine) and the total media duration.
type Transcript struct {
	Text     string          `json:"text"`     // The full transcript text.
	Segments []UtteranceSpan `json:"segments"` // Ordered utterance spans with timestamps.
	Language string          `json:"language"` // Detected language code. The engine treats this as opaque.
	Duration float64         `json:"duration"` // Total duration of the source media in seconds.
}

// ContentSegment is a coherent spoken-content unit assembled from one or more
// utterance spans. It is the audio-side half of an EnhancedSegment.
//
// Invariants: EndTime > StartTime, and after segmentation the duration lies
// within the segmenter's configured bounds (a single over-long span is the
// one exception and is emitted as-is).
type ContentSegment struct {
	StartTime   float64 `json:"start_time" bigquery:"start_time"`     // Segment start in seconds.
	EndTime     float64 `json:"end_time" bigquery:"end_time"`         // Segment end in seconds.
	Text        string  `json:"text" bigquery:"text"`                 // Concatenated text of the merged spans.
	Confidence  float64 `json:"confidence" bigquery:"confidence"`     // Running average of (1 - no_speech_prob) across merged spans, in [0,1].
	ContentType string  `json:"content_type" bigquery:"content_type"` // Categorical tag from the keyword classifier (e.g. "education", "general").
}

// Duration returns the length of the segment in seconds.
func (s ContentSegment) Duration() float64 {
	return s.EndTime - s.StartTime
}
