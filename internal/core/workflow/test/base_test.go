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

package workflow_test

import (
	"log"
	"os"
	"testing"

	test "github.com/snsvideo/gcp-go-clip-engine/internal/testutil"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
)

// tName scopes the suite's tracer and logger so workflow spans emitted
// during tests are attributable to this package.
const tName = "clip-extraction-workflow-test"

var (
	tracer = otel.Tracer(tName)
	logger = otelslog.NewLogger(tName)
)

// TestMain runs before any test in this package. The suite needs only the
// configuration environment variables; all collaborators are in-memory
// fakes, so no cloud clients are created here.
func TestMain(m *testing.M) {
	if err := test.SetupOS(); err != nil {
		log.Fatalf("failed to setup test environment: %v\n", err)
	}
	os.Exit(m.Run())
}
