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
// sources. This file centralizes the BigQuery SQL query strings the services
// use. The queries use `fmt.Sprintf` format verbs as placeholders for table
// names; runtime values are bound as query parameters, never spliced into
// the SQL text.
package services

const (
	// QryFindRunById looks a single analysis run up by its unique id.
	//
	// Placeholders:
	// - `%s`: The fully qualified name of the runs table.
	QryFindRunById = "SELECT * FROM `%s` WHERE id = @id ORDER BY finished_at DESC LIMIT 1"

	// QryListRunsByVideo lists every run recorded for one video, newest
	// first. Runs are written twice (in-flight and terminal), so callers see
	// the latest state of each run id first.
	//
	// Placeholders:
	// - `%s`: The fully qualified name of the runs table.
	QryListRunsByVideo = "SELECT * FROM `%s` WHERE video_id = @video_id ORDER BY started_at DESC"

	// QryListSegmentsByVideo lists the extracted segments of one video,
	// highest engagement first.
	//
	// Placeholders:
	// - `%s`: The fully qualified name of the segments table.
	QryListSegmentsByVideo = "SELECT * FROM `%s` WHERE video_id = @video_id ORDER BY engagement_score DESC, start_time ASC"

	// QryFindSegmentById looks a single segment record up by its unique id.
	//
	// Placeholders:
	// - `%s`: The fully qualified name of the segments table.
	QryFindSegmentById = "SELECT * FROM `%s` WHERE id = @id LIMIT 1"
)
