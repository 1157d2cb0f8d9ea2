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

// Package services_test contains the test suite for the services package.
// These are integration tests: they run against a live BigQuery dataset and
// are skipped unless the test project is reachable through application
// default credentials.
package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/snsvideo/gcp-go-clip-engine/internal/cloud"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/services"
	test "github.com/snsvideo/gcp-go-clip-engine/internal/testutil"
	"github.com/zeebo/assert"
)

// TestSegmentService exercises the read path of the SegmentService against a
// live BigQuery backend: listing a video's runs and segments, and signing a
// streaming URL for the source object. It validates the query plumbing and
// the dataset wiring rather than any particular row contents, since the test
// dataset's contents vary between runs.
//
// Inputs:
//   - t: The testing framework's test handler.
func TestSegmentService(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping live BigQuery integration test in short mode")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config := test.GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	test.HandleErr(err, t)
	defer cloudClients.Close()

	segmentService := &services.SegmentService{
		BigqueryClient: cloudClients.BigQueryClient,
		StorageClient:  cloudClients.StorageClient,
		DatasetName:    config.BigQueryDataSource.DatasetName,
		RunsTable:      config.BigQueryDataSource.RunsTable,
		SegmentsTable:  config.BigQueryDataSource.SegmentsTable,
	}

	// The fixture video every integration dataset is seeded with.
	videoID := "00000000-0000-0000-0000-000000000000"

	runs, err := segmentService.ListRunsByVideo(ctx, videoID)
	assert.NoError(t, err)
	assert.NotNil(t, runs)

	segments, err := segmentService.ListSegmentsByVideo(ctx, videoID)
	assert.NoError(t, err)
	assert.NotNil(t, segments)

	// Segments arrive best-first.
	for i := 1; i < len(segments); i++ {
		assert.True(t, segments[i-1].EngagementScore >= segments[i].EngagementScore)
	}

	signedURL, err := segmentService.GenerateSignedURL(
		config.Storage.VideoInputBucket, "creator-podcast-042.mp4", 5*time.Minute)
	assert.NoError(t, err)
	assert.True(t, len(signedURL) > 0)
}
