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

// Package cloud provides components for interacting with Google Cloud services.
// This file implements durable persistence of extraction results to BigQuery.
// Segment records and run records go to separate tables in the same dataset so
// run-level status is queryable without scanning segment rows.
//
// Structs:
//   - BigQuerySegmentSink: Writes segments and runs to their BigQuery tables.
//
// Functions:
//   - NewBigQuerySegmentSink: Constructor for the sink.
//   - SaveSegments: Streams segment records into the segments table.
//   - SaveRun: Streams a run record into the runs table.
package cloud

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

// BigQuerySegmentSink persists extracted segments and analysis runs using the
// BigQuery streaming API.
type BigQuerySegmentSink struct {
	client        *bigquery.Client
	dataset       string
	runsTable     string
	segmentsTable string
}

// NewBigQuerySegmentSink creates a sink bound to a dataset and its two tables.
//
// Inputs:
//   - client: An initialized BigQuery client.
//   - dataset: The dataset holding the engine's tables.
//   - runsTable: The table for run records.
//   - segmentsTable: The table for segment records.
//
// Outputs:
//   - *BigQuerySegmentSink: A pointer to the newly instantiated sink.
func NewBigQuerySegmentSink(client *bigquery.Client, dataset string, runsTable string, segmentsTable string) *BigQuerySegmentSink {
	return &BigQuerySegmentSink{
		client:        client,
		dataset:       dataset,
		runsTable:     runsTable,
		segmentsTable: segmentsTable,
	}
}

// SaveSegments streams the segment records into the segments table. A no-op
// when the slice is empty.
//
// Inputs:
//   - ctx: The request context.
//   - segments: The records to persist.
//
// Outputs:
//   - error: A streaming insert failure.
func (b *BigQuerySegmentSink) SaveSegments(ctx context.Context, segments []*model.SegmentRecord) error {
	if len(segments) == 0 {
		return nil
	}
	inserter := b.client.Dataset(b.dataset).Table(b.segmentsTable).Inserter()
	if err := inserter.Put(ctx, segments); err != nil {
		return fmt.Errorf("failed to insert %d segment(s): %w", len(segments), err)
	}
	return nil
}

// SaveRun streams the run record into the runs table. Called once when a run
// starts and again when it finishes, so the table carries both the in-flight
// and the terminal row for each run id.
//
// Inputs:
//   - ctx: The request context.
//   - run: The run record to persist.
//
// Outputs:
//   - error: A streaming insert failure.
func (b *BigQuerySegmentSink) SaveRun(ctx context.Context, run *model.AnalysisRun) error {
	inserter := b.client.Dataset(b.dataset).Table(b.runsTable).Inserter()
	if err := inserter.Put(ctx, run); err != nil {
		return fmt.Errorf("failed to insert run %q: %w", run.ID, err)
	}
	return nil
}
