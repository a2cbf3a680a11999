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
package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/schedsim/sched"
)

func sampleProcesses(t *testing.T) []*sched.Process {
	t.Helper()
	p1, err := sched.NewProcess("P1", 0, 1, 4, []sched.Burst{
		{Kind: sched.CPUBurst, CPUTicks: 3},
		{Kind: sched.IOBurst, IOType: "disk", IODuration: 2},
		{Kind: sched.CPUBurst, CPUTicks: 1},
	})
	if err != nil {
		t.Fatalf("NewProcess() failed: %v", err)
	}
	return []*sched.Process{p1}
}

func TestJobStoreSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJobStore(dir)
	if err != nil {
		t.Fatalf("NewJobStore() failed: %v", err)
	}
	procs := sampleProcesses(t)
	name, err := s.Save(procs, map[sched.PID]string{"P1": "A"})
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if name != "process_file_0001.json" {
		t.Errorf("Save() name = %q, want process_file_0001.json", name)
	}

	got, errs := s.Load(context.Background(), name)
	if len(errs) != 0 {
		t.Fatalf("Load() errs = %v, want none", errs)
	}
	if len(got) != 1 || got[0].PID != "P1" || len(got[0].Bursts) != 3 {
		t.Fatalf("Load() = %+v, want one 3-burst process P1", got)
	}
}

func TestJobStoreFileIDsIncrementMonotonically(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJobStore(dir)
	if err != nil {
		t.Fatalf("NewJobStore() failed: %v", err)
	}
	n1, err := s.Save(sampleProcesses(t), nil)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	n2, err := s.Save(sampleProcesses(t), nil)
	if err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if n1 == n2 {
		t.Errorf("Save() produced the same file name twice: %q", n1)
	}
}

func TestJobStoreLoadRejectsMalformedBurst(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJobStore(dir)
	if err != nil {
		t.Fatalf("NewJobStore() failed: %v", err)
	}
	bad := []byte(`[{"pid":"P1","priority":1,"quantum":4,"arrival_time":0,"bursts":[{}]}]`)
	path := filepath.Join(s.jobsDir, "bad.json")
	if err := os.WriteFile(path, bad, 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	procs, errs := s.Load(context.Background(), "bad.json")
	if len(procs) != 0 || len(errs) != 1 {
		t.Fatalf("Load() = %v procs, %v errs, want 0 procs and 1 err", procs, errs)
	}
}
