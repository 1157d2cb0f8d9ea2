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

// Package model defines the data structures for the application. This file,
// `examples.go`, provides factory functions for creating hardcoded, example
// instances of the data models.
//
// These example objects are crucial for "few-shot" prompting with the
// generative AI models. By providing a concrete example of the desired JSON
// output structure within the prompt itself, we guide the AI to return data
// that is consistent, correctly formatted, and easily parsable.
package model

// GetExampleFrameDescription creates a sample FrameDescription object. This
// is used to provide a "few-shot" learning example to the generative AI model
// when it is asked to describe a single sampled video frame. It shows the AI
// the expected JSON structure, including the nested object list, the
// engagement indicator strings, and the 1-10 visual quality scale.
//
// Outputs:
//   - *FrameDescription: A pointer to a hardcoded FrameDescription object.
func GetExampleFrameDescription() *FrameDescription {
	// Instantiate a FrameDescription struct with plausible example data.
	out := &FrameDescription{
		Timestamp: 15.0,
		Objects: []FrameObject{
			{Name: "person", Confidence: 0.92},
			{Name: "whiteboard", Confidence: 0.81},
			{Name: "marker", Confidence: 0.64},
		},
		SceneDescription:     "A presenter stands at a whiteboard, gesturing toward a diagram while speaking to the camera.",
		EngagementIndicators: []string{"gesture", "eye contact", "diagram"},
		EmotionDetected:      "enthusiastic",
		VisualQuality:        8.0,
	}
	return out
}

// GetExampleTranscript creates a sample Transcript object. This is used to
// provide a "few-shot" learning example to the generative AI model when it is
// asked to transcribe the audio track of a video. The example demonstrates
// the per-utterance span structure, including the no-speech probability the
// segmenter later uses to drop non-speech spans.
//
// Outputs:
//   - *Transcript: A pointer to a hardcoded Transcript object.
func GetExampleTranscript() *Transcript {
	t := &Transcript{
		Text:     "Welcome back to the channel. Today I want to show you a trick that will save you hours.",
		Language: "en",
		Duration: 12.5,
		// Initialize the slice to be non-nil.
		Segments: make([]UtteranceSpan, 0),
	}
	// Append example utterance spans. The AI is expected to produce one span
	// per contiguous stretch of speech.
	t.Segments = append(t.Segments,
		UtteranceSpan{Start: 0.0, End: 4.2, Text: "Welcome back to the channel.", NoSpeechProb: 0.02},
		UtteranceSpan{Start: 4.2, End: 12.5, Text: "Today I want to show you a trick that will save you hours.", NoSpeechProb: 0.05},
	)
	return t
}
