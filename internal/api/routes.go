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

// Package api defines the REST surface of the clip engine: read access to
// analysis runs and extracted segments, signed streaming URLs for source
// videos, and the upload endpoint that feeds the extraction pipeline.
//
// Functions:
//   - RunRouter: Routes for analysis run lookups.
//   - RunLauncher: The manual run launch endpoint publishing extraction triggers.
//   - SegmentRouter: Routes for video-scoped segment and run listings.
//   - VideoUpload: The multipart upload endpoint targeting the input bucket.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/pubsub"
	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/snsvideo/gcp-go-clip-engine/internal/cloud"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/services"
)

// streamURLTTL is how long generated streaming URLs stay valid.
const streamURLTTL = 15 * time.Minute

// RunRouter sets up the routes for analysis run lookups.
//
// Inputs:
//   - r: The *gin.RouterGroup to register under (e.g., "/api/v1").
//   - svc: The segment data access service.
//
// This function defines the following endpoints:
//   - GET /runs/:id: Retrieves the latest state of one analysis run.
//   - GET /runs/:id/segments: Lists the segments of the run's video, best
//     first.
func RunRouter(r *gin.RouterGroup, svc *services.SegmentService) {
	runs := r.Group("/runs")
	{
		runs.GET("/:id", func(c *gin.Context) {
			out, err := svc.GetRun(c, c.Param("id"))
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		runs.GET("/:id/segments", func(c *gin.Context) {
			run, err := svc.GetRun(c, c.Param("id"))
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}
			out, err := svc.ListSegmentsByVideo(c, run.VideoID)
			if err != nil {
				log.Printf("Error listing segments for run %s: %v\n", c.Param("id"), err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, out)
		})
	}
}

// StartRunRequest is the body of a manual run launch: a locator for a video
// already sitting in Cloud Storage. The bucket defaults to the configured
// input bucket and the content type to MP4.
type StartRunRequest struct {
	Bucket      string `json:"bucket"`
	Name        string `json:"name" binding:"required"`
	ContentType string `json:"content_type"`
}

// RunLauncher sets up the route that starts an analysis run for a video
// already in Cloud Storage, without re-uploading it. The launch is
// asynchronous: the handler publishes the same notification shape GCS would
// have produced for the object, and the Pub/Sub listener picks it up like
// any other upload.
//
// Inputs:
//   - r: The *gin.RouterGroup to register under.
//   - topic: The upload topic the extraction listener is subscribed to.
//   - inputBucket: The default bucket for locators that name none.
//
// This function defines the following endpoint:
//   - POST /runs: Publishes an extraction trigger; responds 202 with the
//     derived video id.
func RunLauncher(r *gin.RouterGroup, topic *pubsub.Topic, inputBucket string) {
	runs := r.Group("/runs")
	{
		runs.POST("", func(c *gin.Context) {
			var req StartRunRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if req.Bucket == "" {
				req.Bucket = inputBucket
			}
			if req.ContentType == "" {
				req.ContentType = "video/mp4"
			}
			if !strings.HasPrefix(req.ContentType, "video/") {
				c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "only video content types can be analyzed"})
				return
			}

			notification := &cloud.GCSPubSubNotification{
				Kind:        "storage#object",
				Bucket:      req.Bucket,
				Name:        req.Name,
				ContentType: req.ContentType,
			}
			payload, err := json.Marshal(notification)
			if err != nil {
				c.Status(http.StatusInternalServerError)
				return
			}
			if _, err := topic.Publish(c, &pubsub.Message{Data: payload}).Get(c); err != nil {
				log.Printf("Error publishing run trigger for %s/%s: %v\n", req.Bucket, req.Name, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start analysis run"})
				return
			}
			c.JSON(http.StatusAccepted, gin.H{"video_id": notification.ToVideoSource().ID})
		})
	}
}

// SegmentRouter sets up the routes for segment retrieval.
//
// Inputs:
//   - r: The *gin.RouterGroup to register under.
//   - svc: The segment data access service.
//   - inputBucket: The GCS bucket uploaded videos land in; used for
//     streaming URL generation.
//
// This function defines the following endpoints:
//   - GET /segments/:id: Retrieves one extracted segment record.
//   - GET /videos/:id/segments: Lists a video's segments, best first.
//   - GET /videos/:id/runs: Lists a video's analysis runs, newest first.
//   - GET /videos/stream/:name: Generates a time-limited signed URL for
//     streaming an uploaded video by its object name.
func SegmentRouter(r *gin.RouterGroup, svc *services.SegmentService, inputBucket string) {
	segments := r.Group("/segments")
	{
		segments.GET("/:id", func(c *gin.Context) {
			out, err := svc.GetSegment(c, c.Param("id"))
			if err != nil {
				c.Status(http.StatusNotFound)
				return
			}
			c.JSON(http.StatusOK, out)
		})
	}

	videos := r.Group("/videos")
	{
		videos.GET("/:id/segments", func(c *gin.Context) {
			out, err := svc.ListSegmentsByVideo(c, c.Param("id"))
			if err != nil {
				log.Printf("Error listing segments for video %s: %v\n", c.Param("id"), err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		videos.GET("/:id/runs", func(c *gin.Context) {
			out, err := svc.ListRunsByVideo(c, c.Param("id"))
			if err != nil {
				log.Printf("Error listing runs for video %s: %v\n", c.Param("id"), err)
				c.Status(http.StatusInternalServerError)
				return
			}
			c.JSON(http.StatusOK, out)
		})

		// The object name, not the derived video id, addresses the stream:
		// signing needs the bucket-relative path.
		videos.GET("/stream/:name", func(c *gin.Context) {
			signedURL, err := svc.GenerateSignedURL(inputBucket, c.Param("name"), streamURLTTL)
			if err != nil {
				log.Printf("Error generating signed URL: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate streaming URL"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"url": signedURL})
		})
	}
}

// VideoUpload sets up the route for uploading videos into the input bucket.
// A finished upload makes GCS publish the notification that triggers the
// extraction workflow, so this endpoint is the front door of the whole
// engine.
//
// Inputs:
//   - r: The *gin.RouterGroup to register under.
//   - storageClient: The GCS client.
//   - inputBucket: The bucket whose notifications trigger extraction runs.
//
// This function configures a POST endpoint at "/uploads" accepting
// multipart/form-data with one or more files under the "files" field.
func VideoUpload(r *gin.RouterGroup, storageClient *storage.Client, inputBucket string) {
	upload := r.Group("/uploads")
	{
		upload.POST("", func(c *gin.Context) {
			form, err := c.MultipartForm()
			if err != nil {
				c.String(http.StatusBadRequest, "get form err: %s", err.Error())
				return
			}
			files := form.File["files"]
			bucket := storageClient.Bucket(inputBucket)

			for _, file := range files {
				localPath := filepath.Join(os.TempDir(), file.Filename)
				if err := c.SaveUploadedFile(file, localPath); err != nil {
					c.String(http.StatusBadRequest, "upload file err: %s", err.Error())
					return
				}

				content, err := os.ReadFile(localPath)
				if err != nil {
					log.Println(err)
					c.Status(http.StatusInternalServerError)
					return
				}

				// Sniff the real content type from the file header rather
				// than trusting the extension. Anything that is not a video
				// container is rejected before it reaches the bucket, where
				// its notification would trigger a doomed extraction run.
				kind, err := filetype.Match(content)
				if err != nil || kind.MIME.Type != "video" {
					if err := os.Remove(localPath); err != nil {
						log.Printf("failed to remove file from server: %v\n", err)
					}
					c.String(http.StatusUnsupportedMediaType, "unsupported file type for %s", file.Filename)
					return
				}

				wc := bucket.Object(file.Filename).NewWriter(c)
				wc.ContentType = kind.MIME.Value
				if _, err = wc.Write(content); err != nil {
					c.String(http.StatusInternalServerError, "write file to bucket err: %s", err.Error())
					return
				}
				if err := wc.Close(); err != nil {
					log.Printf("failed to close bucket handle: %v\n", err)
				}
				if err := os.Remove(localPath); err != nil {
					log.Printf("failed to remove file from server: %v\n", err)
				}
			}
			c.String(http.StatusOK, "Uploaded successfully %d files.", len(files))
		})
	}
}
