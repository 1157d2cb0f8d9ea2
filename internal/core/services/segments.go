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

// Package services contains the business logic for interacting with data
// sources. This file defines the SegmentService, the read side of the
// engine: it retrieves analysis runs and extracted segment records from
// BigQuery and generates time-limited signed URLs so clients can preview the
// source videos straight from Google Cloud Storage.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

// SegmentService is the data access layer for runs and segments. It
// abstracts the details of querying BigQuery and signing GCS URLs away from
// the API handlers.
type SegmentService struct {
	BigqueryClient *bigquery.Client // Client for interacting with Google BigQuery.
	StorageClient  *storage.Client  // Client for interacting with Google Cloud Storage.
	DatasetName    string           // The BigQuery dataset holding the engine's tables.
	RunsTable      string           // The table holding analysis run records.
	SegmentsTable  string           // The table holding extracted segment records.
}

// fqn returns the fully qualified, dot-separated name of a table in the
// service's dataset, as standard SQL expects it.
func (s *SegmentService) fqn(table string) string {
	name := s.BigqueryClient.Dataset(s.DatasetName).Table(table).FullyQualifiedName()
	return strings.Replace(name, ":", ".", -1)
}

// GetRun retrieves the latest state of a single analysis run.
//
// Inputs:
//   - ctx: The context for the request.
//   - id: The unique identifier of the run.
//
// Outputs:
//   - *model.AnalysisRun: The run record.
//   - error: iterator.Done when no such run exists, or a query failure.
func (s *SegmentService) GetRun(ctx context.Context, id string) (*model.AnalysisRun, error) {
	q := s.BigqueryClient.Query(fmt.Sprintf(QryFindRunById, s.fqn(s.RunsTable)))
	q.Parameters = []bigquery.QueryParameter{{Name: "id", Value: id}}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}
	run := &model.AnalysisRun{}
	if err := itr.Next(run); err != nil {
		return nil, err
	}
	return run, nil
}

// ListRunsByVideo lists every run recorded for a video, newest first.
//
// Inputs:
//   - ctx: The context for the request.
//   - videoID: The id of the analyzed video.
//
// Outputs:
//   - []*model.AnalysisRun: The run records, possibly empty.
//   - error: A query failure.
func (s *SegmentService) ListRunsByVideo(ctx context.Context, videoID string) ([]*model.AnalysisRun, error) {
	q := s.BigqueryClient.Query(fmt.Sprintf(QryListRunsByVideo, s.fqn(s.RunsTable)))
	q.Parameters = []bigquery.QueryParameter{{Name: "video_id", Value: videoID}}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}
	runs := make([]*model.AnalysisRun, 0)
	for {
		run := &model.AnalysisRun{}
		err := itr.Next(run)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// GetSegment retrieves a single extracted segment record by id.
//
// Inputs:
//   - ctx: The context for the request.
//   - id: The unique identifier of the segment record.
//
// Outputs:
//   - *model.SegmentRecord: The segment record.
//   - error: iterator.Done when no such segment exists, or a query failure.
func (s *SegmentService) GetSegment(ctx context.Context, id string) (*model.SegmentRecord, error) {
	q := s.BigqueryClient.Query(fmt.Sprintf(QryFindSegmentById, s.fqn(s.SegmentsTable)))
	q.Parameters = []bigquery.QueryParameter{{Name: "id", Value: id}}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}
	segment := &model.SegmentRecord{}
	if err := itr.Next(segment); err != nil {
		return nil, err
	}
	return segment, nil
}

// ListSegmentsByVideo lists the extracted segments of a video, highest
// engagement first.
//
// Inputs:
//   - ctx: The context for the request.
//   - videoID: The id of the analyzed video.
//
// Outputs:
//   - []*model.SegmentRecord: The segment records, possibly empty.
//   - error: A query failure.
func (s *SegmentService) ListSegmentsByVideo(ctx context.Context, videoID string) ([]*model.SegmentRecord, error) {
	q := s.BigqueryClient.Query(fmt.Sprintf(QryListSegmentsByVideo, s.fqn(s.SegmentsTable)))
	q.Parameters = []bigquery.QueryParameter{{Name: "video_id", Value: videoID}}
	itr, err := q.Read(ctx)
	if err != nil {
		return nil, err
	}
	segments := make([]*model.SegmentRecord, 0)
	for {
		segment := &model.SegmentRecord{}
		err := itr.Next(segment)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		segments = append(segments, segment)
	}
	return segments, nil
}

// GenerateSignedURL creates a time-limited, secure URL for a private GCS
// object so clients can stream the source video for segment preview without
// their own credentials.
//
// Inputs:
//   - bucket: The GCS bucket holding the video.
//   - object: The object name within the bucket.
//   - expires: The duration for which the URL stays valid.
//
// Outputs:
//   - string: The generated V4 signed URL.
//   - error: A signing failure.
func (s *SegmentService) GenerateSignedURL(bucket string, object string, expires time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expires),
	}
	u, err := s.StorageClient.Bucket(bucket).SignedURL(object, opts)
	if err != nil {
		return "", fmt.Errorf("Bucket(%q).Object(%q).SignedURL: %w", bucket, object, err)
	}
	return u, nil
}
