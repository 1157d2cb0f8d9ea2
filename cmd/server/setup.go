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

// Package main contains the setup and initialization logic for the
// application's state: a centralized state manager holding the
// configuration, the Google Cloud service clients, and the segment data
// access service.
//
// Functions:
//   - SetupOS: Points the configuration loader at the right TOML files.
//   - GetConfig: A singleton accessor for the application configuration.
//   - InitState: Creates the service clients, wires the data access service,
//     and starts the Pub/Sub listeners that trigger extraction runs.
package main

import (
	"context"
	"log"
	"os"

	"github.com/snsvideo/gcp-go-clip-engine/internal/cloud"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/services"
)

// StateManager holds all the shared dependencies for the application, acting
// as a centralized container for service clients and configuration. This
// avoids global variables scattered across files and keeps dependency
// management in one place.
type StateManager struct {
	config         *cloud.Config
	cloud          *cloud.ServiceClients
	segmentService *services.SegmentService
}

// state is a package-level variable that holds the single instance of StateManager.
var state = &StateManager{}

// SetupOS sets the environment variables the configuration loader uses to
// find the TOML files: the config directory and the runtime environment
// (which selects the ".env.<runtime>.toml" override).
//
// Outputs:
//   - error: An error if setting any of the environment variables fails.
func SetupOS() (err error) {
	err = os.Setenv(cloud.EnvConfigFilePrefix, "configs")
	if err != nil {
		return err
	}
	err = os.Setenv(cloud.EnvConfigRuntime, "local")
	return err
}

// GetConfig provides a singleton instance of the application configuration,
// loaded from the TOML files on first use and cached afterwards.
//
// Outputs:
//   - *cloud.Config: A pointer to the loaded application configuration struct.
func GetConfig() *cloud.Config {
	if state.config == nil {
		err := SetupOS()
		if err != nil {
			log.Fatalf("failed to setup environment: %v\n", err)
		}
		config := cloud.NewConfig()
		cloud.LoadConfig(&config)
		state.config = config
	}
	return state.config
}

// InitState initializes the entire application state.
//
// Inputs:
//   - ctx: The root context.Context for the application, governing the
//     lifecycle of client connections and background listeners.
//
// This function performs the following steps:
//  1. Loads the application configuration.
//  2. Initializes the Google Cloud service clients (Storage, Pub/Sub,
//     GenAI, BigQuery).
//  3. Wires the SegmentService the API handlers read from.
//  4. Sets up and starts the Pub/Sub listener that triggers extraction runs
//     for new uploads.
func InitState(ctx context.Context) {
	config := GetConfig()

	cloudClients, err := cloud.NewCloudServiceClients(ctx, config)
	if err != nil {
		panic(err)
	}
	state.cloud = cloudClients

	state.segmentService = &services.SegmentService{
		BigqueryClient: cloudClients.BigQueryClient,
		StorageClient:  cloudClients.StorageClient,
		DatasetName:    config.BigQueryDataSource.DatasetName,
		RunsTable:      config.BigQueryDataSource.RunsTable,
		SegmentsTable:  config.BigQueryDataSource.SegmentsTable,
	}

	SetupListeners(config, cloudClients, ctx)
}
