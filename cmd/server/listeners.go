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

// Package main contains the logic for setting up and starting the Pub/Sub
// message listener that reacts to new video uploads.
//
// Functions:
//   - SetupListeners: Attaches the clip extraction workflow to the upload
//     topic listener and starts it.
package main

import (
	"context"

	"github.com/snsvideo/gcp-go-clip-engine/internal/cloud"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/workflow"
)

// Agent model configuration keys, matching the [agent_models.*] sections of
// the TOML configuration.
const (
	TranscriberModelName = "transcriber"
	DescriberModelName   = "frame-describer"
)

// UploadTopicName is the logical key of the upload notification subscription
// in the [topic_subscriptions.*] configuration.
const UploadTopicName = "VideoUploadTopic"

// SetupListeners configures and starts the background Pub/Sub listener.
// When GCS publishes a notification for a finalized upload, the listener
// runs the clip extraction workflow against the new video.
//
// Inputs:
//   - config: The application's configuration.
//   - cloudClients: The initialized Google Cloud service clients.
//   - ctx: The application's root context, governing the listener lifecycle.
//
// Outputs:
//   - This function does not return any value. It starts the listener as a
//     background goroutine.
func SetupListeners(config *cloud.Config, cloudClients *cloud.ServiceClients, ctx context.Context) {
	extraction := workflow.NewClipExtractionPipeline(config, cloudClients, TranscriberModelName, DescriberModelName)
	cloudClients.PubSubListeners[UploadTopicName].SetCommand(extraction)
	cloudClients.PubSubListeners[UploadTopicName].Listen(ctx)
}
