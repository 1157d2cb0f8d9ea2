// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
// *****************************************************************************************************//
// Package main is the entry point for the clip engine backend server.
//
// This application sets up and runs a web server using the Gin framework. It
// provides a REST API for inspecting analysis runs and extracted segments,
// for streaming source videos, and for uploading new videos. The server is
// instrumented with OpenTelemetry for logging, tracing, and metrics.
//
// The main function initializes the application's configuration, sets up
// logging and telemetry, and initializes the application state, including
// clients for Google Cloud services. The server also manages a background
// Pub/Sub listener which runs the clip extraction workflow whenever a new
// video lands in the input bucket.
//
// Functions:
//   - main: The application entry point. It configures routes, initializes
//     services, starts the listener, and handles graceful shutdown.
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/snsvideo/gcp-go-clip-engine/internal/api"
	"github.com/snsvideo/gcp-go-clip-engine/internal/telemetry"
)

// main orchestrates the setup of logging, telemetry, configuration, cloud
// services, the web server, API routes, and the upload listener, then blocks
// until an interrupt signal triggers a graceful shutdown.
func main() {
	// Initialize structured logging for the application.
	telemetry.SetupLogging()
	slog.Info("Logging initialized")

	// The root context for the application; cancelling it stops the
	// background listener and in-flight workflows.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load application configuration from TOML files.
	config := GetConfig()

	// Initialize OpenTelemetry for distributed tracing and metrics.
	_, err := telemetry.SetupOpenTelemetry(ctx, config)
	if err != nil {
		slog.Error("Failed to setup OpenTelemetry", "error", err)
		log.Fatal(err)
	}
	slog.Info("Tracing initialized")

	// Initialize the application's state, including all service clients and
	// the upload listener.
	InitState(ctx)
	slog.Info("Initialized State")

	// Set up the Gin web server with default middleware.
	r := gin.Default()

	// Trace incoming requests; every request gets its own span.
	r.Use(otelgin.Middleware(config.Application.Name))

	// Permissive CORS, suitable for development setups where the frontend
	// runs on a different origin.
	r.Use(cors.Default())

	// Group routes under the "/api/v1" prefix.
	apiV1 := r.Group("/api/v1")
	{
		api.RunRouter(apiV1, state.segmentService)
		api.RunLauncher(apiV1,
			state.cloud.PubsubClient.Topic(config.TopicSubscriptions[UploadTopicName].Topic),
			state.config.Storage.VideoInputBucket)
		api.SegmentRouter(apiV1, state.segmentService, state.config.Storage.VideoInputBucket)
		api.VideoUpload(apiV1, state.cloud.StorageClient, state.config.Storage.VideoInputBucket)
	}

	srv := &http.Server{
		Addr:         ":8080",
		Handler:      r,
		ReadTimeout:  20 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	// Start the HTTP server in a separate goroutine so it doesn't block the
	// signal handling below.
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to listen: ", "error", err)
		}
	}()
	slog.Info("Server Ready on port 8080")

	// Block until an interrupt arrives.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutdown Server ...")

	// Give active requests 5 seconds to complete.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server Shutdown Failed:", "error", err)
	}

	log.Println("Server exiting")
}
