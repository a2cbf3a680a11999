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
// Package testhelpers contains fixture builders shared across this
// module's package tests: sample processes, a sample class catalog, and
// disk-backed stores rooted in a scratch directory. It deliberately
// stops at sched/store so packages built on top of them (workload,
// apiserver, invariants) can depend on it without an import cycle.
package testhelpers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/google/schedsim/sched"
	"github.com/google/schedsim/store"
)

// SampleProcesses returns a small, deterministic process set spanning
// CPU-only, I/O-bound, and mixed-burst shapes, staggered arrivals, and
// distinct priorities/quanta — enough to exercise every policy's
// ordering rule in a single run.
func SampleProcesses(t *testing.T) []*sched.Process {
	t.Helper()
	specs := []struct {
		pid      sched.PID
		arrival  int
		priority int
		quantum  int
		bursts   []sched.Burst
	}{
		{"P1", 0, 2, 4, []sched.Burst{{Kind: sched.CPUBurst, CPUTicks: 6}}},
		{"P2", 1, 1, 2, []sched.Burst{
			{Kind: sched.CPUBurst, CPUTicks: 2},
			{Kind: sched.IOBurst, IOType: "disk", IODuration: 3},
			{Kind: sched.CPUBurst, CPUTicks: 2},
		}},
		{"P3", 2, 3, 3, []sched.Burst{{Kind: sched.CPUBurst, CPUTicks: 4}}},
		{"P4", 2, 1, 4, []sched.Burst{
			{Kind: sched.CPUBurst, CPUTicks: 1},
			{Kind: sched.IOBurst, IOType: "net", IODuration: 2},
			{Kind: sched.CPUBurst, CPUTicks: 1},
		}},
	}
	procs := make([]*sched.Process, 0, len(specs))
	for _, s := range specs {
		p, err := sched.NewProcess(s.pid, s.arrival, s.priority, s.quantum, s.bursts)
		if err != nil {
			t.Fatalf("NewProcess(%s) failed: %v", s.pid, err)
		}
		procs = append(procs, p)
	}
	return procs
}

// SampleClassCatalogJSON is a two-class job class catalog matching
// workload.Class's on-disk schema, small enough to embed directly in a
// test without reading a fixture file.
const SampleClassCatalogJSON = `[
  {
    "class_id": "A",
    "priority_range": [1, 3],
    "cpu_burst_mean": 4,
    "cpu_burst_stddev": 1,
    "cpu_budget_mean": 20,
    "cpu_budget_stddev": 5,
    "io_profile": {"io_types": ["disk"], "io_ratio": 0.2, "io_duration_mean": 3, "io_duration_stddev": 1}
  },
  {
    "class_id": "B",
    "priority_range": [4, 6],
    "cpu_burst_mean": 2,
    "cpu_burst_stddev": 1,
    "cpu_budget_mean": 10,
    "cpu_budget_stddev": 2,
    "io_profile": {"io_types": ["net"], "io_ratio": 0.5, "io_duration_mean": 2, "io_duration_stddev": 1}
  }
]`

// WriteClassCatalog writes SampleClassCatalogJSON under dir and returns
// its path, for tests exercising workload.Generator.LoadCatalog.
func WriteClassCatalog(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "job_classes.json")
	if err := os.WriteFile(path, []byte(SampleClassCatalogJSON), 0o644); err != nil {
		t.Fatalf("WriteFile(%s) failed: %v", path, err)
	}
	return path
}

// NewTempStores returns a JobStore and TimelineStore rooted at a fresh
// t.TempDir(), for tests that need real on-disk persistence without
// hand-rolling the directory layout store.NewJobStore/NewTimelineStore
// expect.
func NewTempStores(t *testing.T, cacheSize int) (*store.JobStore, *store.TimelineStore) {
	t.Helper()
	dir := t.TempDir()
	jobs, err := store.NewJobStore(dir)
	if err != nil {
		t.Fatalf("NewJobStore() failed: %v", err)
	}
	timelines, err := store.NewTimelineStore(dir, cacheSize)
	if err != nil {
		t.Fatalf("NewTimelineStore() failed: %v", err)
	}
	return jobs, timelines
}

// DiffEvents reports whether got and want represent the same event log,
// returning a human-readable diff when they don't.
func DiffEvents(got, want []sched.Event) (diff string, equal bool) {
	equal = cmp.Equal(got, want)
	if !equal {
		diff = cmp.Diff(want, got)
	}
	return
}
