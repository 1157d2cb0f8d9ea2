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

// Package commands provides the concrete implementations of the Chain of
// Responsibility (COR) pattern's Command interface. This file defines the
// platform adaptation command: for every configured destination platform it
// derives a tailored variant of each selected segment, trimming overlong
// windows to the platform's duration ceiling and attaching the platform's
// format recommendation.
package commands

import (
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/analysis"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/cor"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/model"
)

// AdaptPlatforms is a command that produces per-platform variants of the
// selected segments.
type AdaptPlatforms struct {
	cor.BaseCommand
	adapter  *analysis.PlatformAdapter
	profiles []model.PlatformProfile
}

// NewAdaptPlatforms is the constructor for the AdaptPlatforms command.
//
// Inputs:
//   - name: A string name for this command instance.
//   - profiles: The destination platform profiles; empty falls back to the
//     built-in defaults.
//
// Outputs:
//   - *AdaptPlatforms: A pointer to the newly instantiated command.
func NewAdaptPlatforms(name string, profiles []model.PlatformProfile) *AdaptPlatforms {
	if len(profiles) == 0 {
		profiles = analysis.DefaultPlatformProfiles()
	}
	return &AdaptPlatforms{
		BaseCommand: *cor.NewBaseCommand(name),
		adapter:     &analysis.PlatformAdapter{},
		profiles:    profiles,
	}
}

// Execute derives the platform variants.
//
// Inputs:
//   - context: The shared `cor.Context` for this workflow execution.
func (c *AdaptPlatforms) Execute(context cor.Context) {
	selected := context.Get(c.GetInputParam()).([]model.EnhancedSegment)

	variants := c.adapter.AdaptAll(selected, c.profiles)

	c.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(GetPlatformSegmentsParameterName(), variants)
	context.Add(c.GetOutputParam(), variants)
}
