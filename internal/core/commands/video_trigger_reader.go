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
// Responsibility (COR) pattern's Command interface. This file defines the
// entry command of the clip extraction workflow.
//
// Logic Flow:
// Uploading a video to the input bucket makes Google Cloud Storage (GCS)
// publish a notification message to a Pub/Sub topic. This command turns that
// raw message into the video locator the rest of the pipeline works with.
//
//  1. The command receives the raw Pub/Sub message data as a JSON string from
//     the context.
//  2. It unmarshals the JSON into a `cloud.GCSPubSubNotification`, the full
//     GCS notification structure.
//  3. It derives a `model.VideoSource` from the notification: the bucket, the
//     object name, the content type, and a deterministic video id computed
//     from the object's full path, so re-analyzing the same upload yields the
//     same id.
//  4. The VideoSource is placed into the context under a well-known key and
//     as the output for the next command in the chain.
package commands

import (
	"encoding/json"
	"fmt"

	"github.com/snsvideo/gcp-go-clip-engine/internal/cloud"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/cor"
)

// VideoTriggerToSource is a command that parses a GCS Pub/Sub notification
// into the video locator for this run.
type VideoTriggerToSource struct {
	cor.BaseCommand // Embeds the BaseCommand for common functionality.
}

// NewVideoTriggerToSource is the constructor for the VideoTriggerToSource command.
//
// Inputs:
//   - name: A string name for this command instance.
//
// Outputs:
//   - *VideoTriggerToSource: A pointer to the newly instantiated command.
func NewVideoTriggerToSource(name string) *VideoTriggerToSource {
	return &VideoTriggerToSource{BaseCommand: *cor.NewBaseCommand(name)}
}

// Execute parses the GCS notification message.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution, containing
//     the raw message data in the input parameter.
func (c *VideoTriggerToSource) Execute(context cor.Context) {
	in := context.Get(c.GetInputParam()).(string)

	var notification cloud.GCSPubSubNotification
	if err := json.Unmarshal([]byte(in), &notification); err != nil {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("failed to unmarshal GCS notification: %w", err))
		return
	}

	source := notification.ToVideoSource()
	if len(source.Bucket) == 0 || len(source.Name) == 0 {
		c.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(c.GetName(), fmt.Errorf("notification missing bucket or object name"))
		return
	}

	c.GetSuccessCounter().Add(context.GetContext(), 1)

	// Publish the locator under its well-known key so any later command can
	// reach it, and as the direct output for the next command.
	context.Add(GetVideoSourceParameterName(), source)
	context.Add(c.GetOutputParam(), source)
}
