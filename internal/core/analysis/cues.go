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

// This file implements the VisualCueDetector, which scans an ordered
// sequence of frame descriptions and flags discrete engagement-relevant
// events: scene changes, visible faces, strong emotions, and dense clusters
// of engagement indicators. Each rule is evaluated independently, so a
// single frame may emit zero, one, or several cues.
package analysis

import (
	"fmt"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

const (
	// SceneChangeSimilarityThreshold is the Jaccard similarity of adjacent
	// frames' object-name sets below which a scene change is flagged.
	SceneChangeSimilarityThreshold = 0.6

	// FaceConfidenceThreshold is the minimum detection confidence for an
	// object named "face" to count as a visible face.
	FaceConfidenceThreshold = 0.7

	// MinIndicatorCluster is the number of engagement indicators in a single
	// frame at which a movement cue is emitted.
	MinIndicatorCluster = 2
)

// Fixed engagement values and confidences per cue rule. These reproduce the
// tuning of the original heuristics and are deliberately not configurable.
const (
	sceneChangeValue      = 7.0
	sceneChangeConfidence = 0.8
	faceValue             = 8.0
	emotionValue          = 9.0
	emotionConfidence     = 0.85
	movementValuePerHit   = 2.0
	movementConfidence    = 0.75
)

// highEngagementEmotions are the detected emotions strong enough to emit an
// emotion cue on their own.
var highEngagementEmotions = map[string]bool{
	"enthusiastic": true,
	"surprised":    true,
	"excited":      true,
}

// CueDetector derives visual cues from frame description sequences. It is
// stateless; the zero value is ready to use.
type CueDetector struct{}

// NewCueDetector creates a CueDetector.
func NewCueDetector() *CueDetector {
	return &CueDetector{}
}

// Detect scans the ordered frame descriptions and returns the visual cues
// they imply, in frame order. The scene-change rule compares each frame's
// object-name set against the previous frame's, so the first frame can never
// emit one; all other rules look at a single frame in isolation.
//
// Inputs:
//   - frames: Ordered frame descriptions from the description collaborator.
//
// Outputs:
//   - []model.VisualCue: Detected cues, possibly empty but never nil.
func (d *CueDetector) Detect(frames []model.FrameDescription) []model.VisualCue {
	cues := make([]model.VisualCue, 0)
	for i, frame := range frames {
		if i > 0 {
			similarity := objectSimilarity(frames[i-1].Objects, frame.Objects)
			if similarity < SceneChangeSimilarityThreshold {
				cues = append(cues, model.VisualCue{
					Timestamp:       frame.Timestamp,
					Type:            model.CueSceneChange,
					Description:     fmt.Sprintf("scene composition changed (similarity %.2f)", similarity),
					Confidence:      sceneChangeConfidence,
					EngagementValue: sceneChangeValue,
				})
			}
		}
		if face, ok := bestFace(frame.Objects); ok {
			cues = append(cues, model.VisualCue{
				Timestamp:       frame.Timestamp,
				Type:            model.CueFaceDetection,
				Description:     "clearly visible face",
				Confidence:      face.Confidence,
				EngagementValue: faceValue,
			})
		}
		if highEngagementEmotions[frame.EmotionDetected] {
			cues = append(cues, model.VisualCue{
				Timestamp:       frame.Timestamp,
				Type:            model.CueEmotion,
				Description:     fmt.Sprintf("strong emotion: %s", frame.EmotionDetected),
				Confidence:      emotionConfidence,
				EngagementValue: emotionValue,
			})
		}
		if n := len(frame.EngagementIndicators); n >= MinIndicatorCluster {
			cues = append(cues, model.VisualCue{
				Timestamp:       frame.Timestamp,
				Type:            model.CueMovement,
				Description:     fmt.Sprintf("%d engagement indicators in frame", n),
				Confidence:      movementConfidence,
				EngagementValue: movementValuePerHit * float64(n),
			})
		}
	}
	return cues
}

// bestFace returns the highest-confidence object named "face" that clears
// the confidence threshold, if any. A frame emits at most one face cue even
// when several faces are visible.
func bestFace(objects []model.FrameObject) (model.FrameObject, bool) {
	var best model.FrameObject
	found := false
	for _, obj := range objects {
		if obj.Name == "face" && obj.Confidence > FaceConfidenceThreshold {
			if !found || obj.Confidence > best.Confidence {
				best = obj
				found = true
			}
		}
	}
	return best, found
}

// objectSimilarity computes the Jaccard similarity of two frames'
// object-name sets. Two frames with no objects at all are considered
// identical (similarity 1), so empty frames never fake a scene change.
func objectSimilarity(previous, current []model.FrameObject) float64 {
	prevSet := objectNameSet(previous)
	currSet := objectNameSet(current)
	union := len(prevSet)
	intersection := 0
	for name := range currSet {
		if prevSet[name] {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}

func objectNameSet(objects []model.FrameObject) map[string]bool {
	set := make(map[string]bool, len(objects))
	for _, obj := range objects {
		set[obj.Name] = true
	}
	return set
}
