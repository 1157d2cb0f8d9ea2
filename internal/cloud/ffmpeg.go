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
// This file implements the frame-sampling collaborator by shelling out to
// FFmpeg. Videos in the upload bucket are visible as local files through the
// GCS FUSE mount point, so sampling is a single FFmpeg invocation that
// extracts one JPEG per interval into a scratch directory. The engine never
// re-encodes video; it only lifts still frames for description.
//
// Structs:
//   - FFmpegFrameSampler: The FFmpeg-backed frame sampler.
//
// Functions:
//   - NewFFmpegFrameSampler: Constructor for the sampler.
//   - Sample: Extracts frames at a fixed interval and returns their references.
package cloud

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

// FFmpeg invocation constants.
const (
	// DefaultFrameSampleArgs is a format string for the FFmpeg command.
	// -analyzeduration 0 -probesize 5000000: faster probing of the input.
	// -y: overwrite outputs without asking.
	// -hide_banner: suppress the FFmpeg banner.
	// -i %s: the input video file.
	// -vf fps=1/%s: emit one frame per sampling interval.
	// -q:v 2: high JPEG quality so the describer sees detail.
	// %s: the output image pattern (frame-%05d.jpg).
	DefaultFrameSampleArgs = "-analyzeduration 0 -probesize 5000000 -y -hide_banner -i %s -vf fps=1/%s -q:v 2 %s"
	FrameScratchPrefix     = "frames-"
	FrameFilePattern       = "frame-%05d.jpg"
	CommandSeparator       = " "
)

// FFmpegFrameSampler extracts still frames from a video at a fixed interval
// by invoking the FFmpeg executable.
type FFmpegFrameSampler struct {
	commandPath string // Path to the FFmpeg executable.
	mountPoint  string // GCS FUSE mount point under which bucket objects appear as files.
	scratchDir  string // Parent directory for per-run frame directories; empty means the OS temp dir.
}

// NewFFmpegFrameSampler creates a sampler.
//
// Inputs:
//   - commandPath: The file system path to the FFmpeg executable.
//   - mountPoint: The GCS FUSE mount point.
//   - scratchDir: Parent directory for extracted frames, or "" for the OS temp dir.
//
// Outputs:
//   - *FFmpegFrameSampler: A pointer to the newly instantiated sampler.
func NewFFmpegFrameSampler(commandPath string, mountPoint string, scratchDir string) *FFmpegFrameSampler {
	return &FFmpegFrameSampler{
		commandPath: commandPath,
		mountPoint:  mountPoint,
		scratchDir:  scratchDir,
	}
}

// Sample extracts one frame per interval from the video and returns ordered
// references to the frame images. The timestamp of frame i is i*interval,
// matching FFmpeg's fps filter output. The caller owns cleanup of the
// returned image files and their parent directory.
//
// Inputs:
//   - ctx: The request context; cancellation kills the FFmpeg process.
//   - source: The video locator; resolved through the FUSE mount.
//   - interval: Seconds between samples. Must be positive.
//
// Outputs:
//   - []model.FrameRef: Ordered frame references with local paths.
//   - error: An invocation or filesystem failure.
func (s *FFmpegFrameSampler) Sample(ctx context.Context, source *model.VideoSource, interval float64) ([]model.FrameRef, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sampling interval must be positive, got %v", interval)
	}
	inputFileName := fmt.Sprintf("%s/%s/%s", s.mountPoint, source.Bucket, source.Name)
	if _, err := os.Stat(inputFileName); err != nil {
		return nil, fmt.Errorf("input video not readable at %s: %w", inputFileName, err)
	}

	outputDir, err := os.MkdirTemp(s.scratchDir, FrameScratchPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to create frame scratch directory: %w", err)
	}
	outputPattern := filepath.Join(outputDir, FrameFilePattern)

	intervalArg := strconv.FormatFloat(interval, 'f', -1, 64)
	args := fmt.Sprintf(DefaultFrameSampleArgs, inputFileName, intervalArg, outputPattern)
	cmd := exec.CommandContext(ctx, s.commandPath, strings.Split(args, CommandSeparator)...)
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("error running ffmpeg: %w", err)
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list extracted frames: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".jpg") {
			names = append(names, entry.Name())
		}
	}
	// The %05d pattern makes lexical order equal frame order.
	sort.Strings(names)

	frames := make([]model.FrameRef, 0, len(names))
	for i, name := range names {
		frames = append(frames, model.FrameRef{
			Timestamp: float64(i) * interval,
			Path:      filepath.Join(outputDir, name),
		})
	}
	return frames, nil
}
