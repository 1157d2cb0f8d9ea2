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

// Package cloud contains data structures and utilities for interacting with
// Google Cloud services. This file defines the structure of GCS Pub/Sub
// upload notifications and the conversion into the engine's video source
// locator.
//
// Structs:
//   - GCSPubSubNotification: Maps to the JSON payload from GCS event notifications.
//
// Functions:
//   - ToVideoSource: Converts a notification into a model.VideoSource.
package cloud

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

// GCSPubSubNotification is the structure that maps to the JSON message
// payload received from a Google Cloud Storage (GCS) Pub/Sub notification.
// When an object is created in the monitored upload bucket, GCS sends a
// message with this structure to the configured topic.
type GCSPubSubNotification struct {
	Kind                    string                 `json:"kind"`                    // The kind of the object, typically "storage#object".
	ID                      string                 `json:"id"`                      // The full ID of the object, including bucket and generation.
	SelfLink                string                 `json:"selfLink"`                // The URI for this object.
	Name                    string                 `json:"name"`                    // The name of the object within the bucket.
	Bucket                  string                 `json:"bucket"`                  // The name of the bucket containing the object.
	Generation              string                 `json:"generation"`              // The generation number of the object's content.
	MetaGeneration          string                 `json:"metageneration"`          // The generation number of the object's metadata.
	ContentType             string                 `json:"contentType"`             // The MIME type of the object's content.
	TimeCreated             string                 `json:"timeCreated"`             // The creation time of the object.
	Updated                 string                 `json:"updated"`                 // The last modification time of the object.
	StorageClass            string                 `json:"storageClass"`            // The storage class of the object.
	TimeStorageClassUpdated string                 `json:"timeStorageClassUpdated"` // The time the storage class was last updated.
	Size                    string                 `json:"size"`                    // The size of the object in bytes.
	MD5Hash                 string                 `json:"md5Hash"`                 // The MD5 hash of the object's content.
	MediaLink               string                 `json:"mediaLink"`               // A link to download the object's content.
	MetaData                map[string]interface{} `json:"metadata"`                // User-provided metadata, if any.
	Crc32c                  string                 `json:"crc32c"`                  // The CRC32C checksum of the object's content.
	ETag                    string                 `json:"etag"`                    // The HTTP ETag of the object.
}

// ToVideoSource distills the notification into the engine's video locator.
// The video ID is a UUIDv5 hash of the object path, so re-uploading the same
// object yields the same ID and the run history stays linked to the video.
//
// Outputs:
//   - *model.VideoSource: The locator of the uploaded video.
func (n *GCSPubSubNotification) ToVideoSource() *model.VideoSource {
	path := fmt.Sprintf("%s/%s", n.Bucket, n.Name)
	return &model.VideoSource{
		ID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte(path)).String(),
		Bucket:   n.Bucket,
		Name:     n.Name,
		MIMEType: n.ContentType,
	}
}
