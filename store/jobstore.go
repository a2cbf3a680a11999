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
// Package store persists generated workloads and run timelines to local
// disk, following the layout spec.md §6 assigns to the CLI orchestrator
// (job_jsons/process_file_NNNN.json, timelines/timeline_<ALGO>_<ID>.*).
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"

	"github.com/google/schedsim/sched"
)

// ioRecord is the wire shape of a Burst's I/O half (spec.md §6 "Workload
// input (JSON)").
type ioRecord struct {
	Type     string `json:"type"`
	Duration int    `json:"duration"`
}

// burstRecord is one entry of a process record's burst array: exactly
// one of CPU or IO is set.
type burstRecord struct {
	CPU *int      `json:"cpu,omitempty"`
	IO  *ioRecord `json:"io,omitempty"`
}

// processRecord is the external JSON schema for a single process
// (spec.md §6). CPUBudget/CPUUsed are carried for interoperability with
// generate_jobs.py-produced files but are informational only (§9 Open
// Question): the loader recomputes everything from Bursts.
type processRecord struct {
	PID         string        `json:"pid"`
	ClassID     string        `json:"class_id"`
	Priority    int           `json:"priority"`
	Quantum     int           `json:"quantum"`
	CPUBudget   int           `json:"cpu_budget"`
	CPUUsed     int           `json:"cpu_used"`
	ArrivalTime int           `json:"arrival_time"`
	Bursts      []burstRecord `json:"bursts"`
}

func processToRecord(p *sched.Process, classID string) processRecord {
	total := p.TotalCPUTime()
	r := processRecord{
		PID:         string(p.PID),
		ClassID:     classID,
		Priority:    p.Priority,
		Quantum:     p.Quantum,
		CPUBudget:   total,
		CPUUsed:     total,
		ArrivalTime: p.ArrivalTime,
	}
	for _, b := range p.Bursts {
		if b.Kind == sched.CPUBurst {
			ticks := b.CPUTicks
			r.Bursts = append(r.Bursts, burstRecord{CPU: &ticks})
			continue
		}
		r.Bursts = append(r.Bursts, burstRecord{IO: &ioRecord{Type: b.IOType, Duration: b.IODuration}})
	}
	return r
}

func recordToProcess(r processRecord) (*sched.Process, error) {
	bursts := make([]sched.Burst, 0, len(r.Bursts))
	for i, b := range r.Bursts {
		switch {
		case b.CPU != nil:
			bursts = append(bursts, sched.Burst{Kind: sched.CPUBurst, CPUTicks: *b.CPU})
		case b.IO != nil:
			bursts = append(bursts, sched.Burst{Kind: sched.IOBurst, IOType: b.IO.Type, IODuration: b.IO.Duration})
		default:
			return nil, inputErrorf("jobstore", "process %s burst %d has neither cpu nor io", r.PID, i)
		}
	}
	return sched.NewProcess(sched.PID(r.PID), r.ArrivalTime, r.Priority, r.Quantum, bursts)
}

// JobStore persists generated process sets as JSON files under
// job_jsons/, named with a zero-padded, monotonically increasing file
// id read from a `fid` counter file (restored from generate_jobs.py's
// generate_outfile_id, §2). A file lock guards the counter's
// read-modify-write so concurrent Save calls (e.g. two schedsim
// processes sharing one directory) hand out distinct ids.
type JobStore struct {
	root    string
	jobsDir string
	fidPath string
}

// NewJobStore returns a JobStore rooted at root, creating
// root/job_jsons if it does not already exist.
func NewJobStore(root string) (*JobStore, error) {
	jobsDir := filepath.Join(root, "job_jsons")
	if err := os.MkdirAll(jobsDir, 0o755); err != nil {
		return nil, configErrorf("jobstore", "creating %s: %v", jobsDir, err)
	}
	return &JobStore{
		root:    root,
		jobsDir: jobsDir,
		fidPath: filepath.Join(root, "fid"),
	}, nil
}

// nextFileID increments and returns the on-disk fid counter, holding an
// advisory lock on fidPath+".lock" for the duration of the
// read-modify-write (the original Python script has a benign race here
// between concurrent invocations; gofrs/flock closes it).
func (s *JobStore) nextFileID() (int, error) {
	lock := flock.New(s.fidPath + ".lock")
	if err := lock.Lock(); err != nil {
		return 0, configErrorf("jobstore", "locking %s: %v", s.fidPath, err)
	}
	defer lock.Unlock()

	fid := 0
	if b, err := os.ReadFile(s.fidPath); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(string(b))); err == nil {
			fid = v
		}
	} else if !os.IsNotExist(err) {
		return 0, configErrorf("jobstore", "reading %s: %v", s.fidPath, err)
	}
	fid++
	if err := os.WriteFile(s.fidPath, []byte(strconv.Itoa(fid)), 0o644); err != nil {
		return 0, configErrorf("jobstore", "writing %s: %v", s.fidPath, err)
	}
	return fid, nil
}

// Save writes procs to a new process_file_NNNN.json and returns its
// base name (not a full path). classOf maps a process's pid to its
// originating class_id, for display only; an empty or nil map yields
// empty class_id fields.
func (s *JobStore) Save(procs []*sched.Process, classOf map[sched.PID]string) (string, error) {
	fid, err := s.nextFileID()
	if err != nil {
		return "", err
	}
	records := make([]processRecord, 0, len(procs))
	for _, p := range procs {
		records = append(records, processToRecord(p, classOf[p.PID]))
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", configErrorf("jobstore", "marshaling process records: %v", err)
	}
	name := fmt.Sprintf("process_file_%04d.json", fid)
	if err := os.WriteFile(filepath.Join(s.jobsDir, name), b, 0o644); err != nil {
		return "", configErrorf("jobstore", "writing %s: %v", name, err)
	}
	return name, nil
}

// Load reads and validates the process set in name (a file base name
// under job_jsons/, or an absolute/relative path). Malformed individual
// records are rejected with a diagnostic (§7 "input errors") and skipped
// rather than failing the whole load.
func (s *JobStore) Load(ctx context.Context, name string) ([]*sched.Process, []error) {
	path := name
	if !filepath.IsAbs(name) {
		path = filepath.Join(s.jobsDir, name)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, []error{configErrorf("jobstore", "reading %s: %v", path, err)}
	}
	var records []processRecord
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, []error{configErrorf("jobstore", "parsing %s: %v", path, err)}
	}

	var procs []*sched.Process
	var errs []error
	for _, r := range records {
		select {
		case <-ctx.Done():
			return procs, append(errs, ctx.Err())
		default:
		}
		p, err := recordToProcess(r)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		procs = append(procs, p)
	}
	return procs, errs
}
