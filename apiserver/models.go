//
// Copyright 2019 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS-IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
//
// Package apiserver exposes the simulator over HTTP: workload generation,
// run submission, and timeline/metrics retrieval (spec.md §6).
package apiserver

import "github.com/google/schedsim/sched"

// GenerateWorkloadRequest asks for a synthetic workload under a named
// preset.
type GenerateWorkloadRequest struct {
	Preset         string  `json:"preset"`
	NumProcesses   int     `json:"num_processes"`
	ArrivalSpacing float64 `json:"arrival_spacing"`
	ClassCatalog   string  `json:"class_catalog"`
	Seed           int64   `json:"seed"`
}

// GenerateWorkloadResponse names the persisted job file and summarizes it.
type GenerateWorkloadResponse struct {
	Job     string `json:"job"`
	Summary string `json:"summary"`
}

// CreateRunRequest asks the simulator to run a previously generated job
// file under a policy.
type CreateRunRequest struct {
	Job       string `json:"job"`
	Algorithm string `json:"algorithm"`
	CPUs      int    `json:"cpus"`
	IOs       int    `json:"ios"`
}

// CreateRunResponse identifies the created run and reports any per-process
// load errors that were skipped rather than failing the request.
type CreateRunResponse struct {
	RunID  string   `json:"run_id"`
	Errors []string `json:"errors,omitempty"`
}

// RunMetadataResponse reports a completed run's metrics.
type RunMetadataResponse struct {
	RunID     string           `json:"run_id"`
	Algorithm string           `json:"algorithm"`
	Job       string           `json:"job"`
	Metrics   sched.RunMetrics `json:"metrics"`
}

// TimelineResponse carries a run's full event log.
type TimelineResponse struct {
	RunID  string        `json:"run_id"`
	Events []sched.Event `json:"events"`
}
