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
package apiserver

import (
	"context"
	"strings"
	"sync"

	"github.com/hashicorp/golang-lru/simplelru"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/google/schedsim/sched"
	"github.com/google/schedsim/store"
	"github.com/google/schedsim/workload"
)

// runRecord is the in-memory bookkeeping kept for a completed run: the
// request that produced it plus its derived metrics. Unlike job and
// timeline files (store.JobStore/store.TimelineStore), run metadata does
// not need to survive a server restart — a restart loses in-flight run
// history the same way the teacher's in-process storageService map loses
// uncommitted collection edits, and re-deriving it from a replayed
// timeline plus the original job file is always possible.
type runRecord struct {
	algorithm string
	job       string
	metrics   sched.RunMetrics
}

// RunService coordinates workload generation, run execution, and
// persistence, mirroring the teacher's StorageService/storageBase split:
// an LRU keeps recently computed run metrics in memory (storageBase's
// lruCache of CachedCollections), while JobStore/TimelineStore persist
// to disk.
type RunService struct {
	jobs      *store.JobStore
	timelines *store.TimelineStore
	gen       *workload.Generator

	mu    sync.Mutex
	cache *simplelru.LRU
}

// NewRunService constructs a RunService rooted at dir, generating
// workloads deterministically from seed and caching up to cacheSize
// recent runs' metrics in memory.
func NewRunService(dir string, seed int64, cacheSize int) (*RunService, error) {
	jobs, err := store.NewJobStore(dir)
	if err != nil {
		return nil, err
	}
	timelines, err := store.NewTimelineStore(dir, cacheSize)
	if err != nil {
		return nil, err
	}
	cache, err := simplelru.NewLRU(cacheSize, nil)
	if err != nil {
		return nil, configErrorf("constructing run cache: %v", err)
	}
	return &RunService{
		jobs:      jobs,
		timelines: timelines,
		gen:       workload.NewGenerator(seed),
		cache:     cache,
	}, nil
}

// GenerateWorkload builds and persists a synthetic workload, returning the
// saved job file's name and a human-readable summary.
func (rs *RunService) GenerateWorkload(req GenerateWorkloadRequest) (GenerateWorkloadResponse, error) {
	if req.NumProcesses <= 0 {
		return GenerateWorkloadResponse{}, status.Error(codes.InvalidArgument, "num_processes must be positive")
	}
	classes, err := rs.gen.LoadCatalog(req.ClassCatalog, "")
	if err != nil {
		return GenerateWorkloadResponse{}, err
	}
	preset := workload.ParsePreset(req.Preset)
	spacing := req.ArrivalSpacing
	if spacing <= 0 {
		spacing = preset.ArrivalSpacing
	}
	procs, classOf, err := rs.gen.Generate(classes, preset, req.NumProcesses, spacing)
	if err != nil {
		return GenerateWorkloadResponse{}, err
	}
	name, err := rs.jobs.Save(procs, classOf)
	if err != nil {
		return GenerateWorkloadResponse{}, err
	}
	summary := workload.Summarize(procs, classOf)
	return GenerateWorkloadResponse{Job: name, Summary: summary.String()}, nil
}

// CreateRun loads a saved job, runs it to completion under the requested
// policy, persists its timeline, and caches its metrics.
func (rs *RunService) CreateRun(ctx context.Context, req CreateRunRequest) (CreateRunResponse, error) {
	policy, err := sched.ParsePolicy(req.Algorithm)
	if err != nil {
		return CreateRunResponse{}, err
	}
	procs, loadErrs := rs.jobs.Load(ctx, req.Job)
	if len(procs) == 0 {
		return CreateRunResponse{}, status.Errorf(codes.InvalidArgument, "job %s produced no usable processes", req.Job)
	}

	s, err := sched.New(sched.WithPolicy(policy), sched.WithCPUs(req.CPUs), sched.WithIOs(req.IOs))
	if err != nil {
		return CreateRunResponse{}, err
	}
	for _, p := range procs {
		if err := s.AddProcess(p); err != nil {
			return CreateRunResponse{}, err
		}
	}
	events := s.Run()

	id := store.NewRunID(policy.String())
	if err := rs.timelines.Save(id, events); err != nil {
		return CreateRunResponse{}, err
	}

	rec := runRecord{algorithm: policy.String(), job: req.Job, metrics: sched.ComputeRunMetrics(s)}
	rs.mu.Lock()
	rs.cache.Add(id, rec)
	rs.mu.Unlock()

	var errStrs []string
	for _, e := range loadErrs {
		errStrs = append(errStrs, e.Error())
	}
	return CreateRunResponse{RunID: string(id), Errors: errStrs}, nil
}

// RunMetadata returns the cached metrics for a run.
func (rs *RunService) RunMetadata(id store.RunID) (RunMetadataResponse, error) {
	rs.mu.Lock()
	v, ok := rs.cache.Get(id)
	rs.mu.Unlock()
	if !ok {
		return RunMetadataResponse{}, status.Errorf(codes.NotFound, "unknown run %s", id)
	}
	rec := v.(runRecord)
	return RunMetadataResponse{RunID: string(id), Algorithm: rec.algorithm, Job: rec.job, Metrics: rec.metrics}, nil
}

// Timeline returns the full event log for a run.
func (rs *RunService) Timeline(id store.RunID) (TimelineResponse, error) {
	events, err := rs.timelines.Load(id)
	if err != nil {
		return TimelineResponse{}, err
	}
	return TimelineResponse{RunID: string(id), Events: events}, nil
}

// parseRunID validates that s looks like a RunID ("<ALGO>_<UUID>") before
// it is used to address the timeline store.
func parseRunID(s string) (store.RunID, error) {
	if !strings.Contains(s, "_") {
		return "", status.Errorf(codes.InvalidArgument, "malformed run id %q", s)
	}
	return store.RunID(s), nil
}
