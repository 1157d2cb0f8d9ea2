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

package cloud

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/cor"
)

// scratchFileCommand stands in for a workflow that stages files on disk
// during a run, the way frame sampling does, and registers them on the chain
// context for cleanup.
type scratchFileCommand struct {
	cor.BaseCommand
	fail    bool
	created []string
}

func (c *scratchFileCommand) Execute(context cor.Context) {
	file, err := os.CreateTemp("", "frame-*.jpg")
	if err != nil {
		context.AddError(c.GetName(), err)
		return
	}
	_ = file.Close()
	c.created = append(c.created, file.Name())
	context.AddTempFile(file.Name())

	if c.fail {
		context.AddError(c.GetName(), fmt.Errorf("simulated chain failure"))
	}
}

// TestProcessReleasesTempFiles verifies that files staged during message
// processing are removed once the run finishes, so repeated deliveries do
// not accumulate scratch files on the host.
func TestProcessReleasesTempFiles(t *testing.T) {
	command := &scratchFileCommand{BaseCommand: *cor.NewBaseCommand("scratch-file-step")}
	listener := &PubSubListener{command: command}

	acked := listener.process(context.Background(), `{"bucket":"video_uploads","name":"creator-podcast-042.mp4"}`)

	assert.True(t, acked)
	require.Len(t, command.created, 1)
	_, err := os.Stat(command.created[0])
	assert.True(t, os.IsNotExist(err), "staged file must be removed after processing")
}

// TestProcessReleasesTempFilesOnFailure verifies the cleanup also runs when
// the chain records an error and the message is going to be redelivered.
func TestProcessReleasesTempFilesOnFailure(t *testing.T) {
	command := &scratchFileCommand{
		BaseCommand: *cor.NewBaseCommand("scratch-file-step"),
		fail:        true,
	}
	listener := &PubSubListener{command: command}

	acked := listener.process(context.Background(), `{"bucket":"video_uploads","name":"creator-podcast-042.mp4"}`)

	assert.False(t, acked)
	require.Len(t, command.created, 1)
	_, err := os.Stat(command.created[0])
	assert.True(t, os.IsNotExist(err), "staged file must be removed even on failure")
}
