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
package workload

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/golang/glog"
)

// IOProfile describes a class's I/O behavior (spec.md §4.6 class catalog
// input).
type IOProfile struct {
	IOTypes          []string `json:"io_types"`
	IORatio          float64  `json:"io_ratio"`
	IODurationMean   float64  `json:"io_duration_mean"`
	IODurationStddev float64  `json:"io_duration_stddev"`
}

// Class is one entry of the job class catalog.
type Class struct {
	ClassID         string    `json:"class_id"`
	PriorityRange   [2]int    `json:"priority_range"`
	CPUBurstMean    float64   `json:"cpu_burst_mean"`
	CPUBurstStddev  float64   `json:"cpu_burst_stddev"`
	CPUBudgetMean   float64   `json:"cpu_budget_mean"`
	CPUBudgetStddev float64   `json:"cpu_budget_stddev"`
	IOProfile       IOProfile `json:"io_profile"`
}

// candidateCatalogPaths mirrors generate_jobs.py's load_user_classes
// fallback search order: the given path, alongside the caller-supplied
// base directory, that directory's parent, and a generate_jobs/
// subdirectory relative to the current working directory.
func candidateCatalogPaths(path, baseDir string) []string {
	candidates := []string{path}
	if baseDir != "" {
		candidates = append(candidates,
			filepath.Join(baseDir, path),
			filepath.Join(baseDir, "..", path),
		)
	}
	candidates = append(candidates,
		filepath.Join("generate_jobs", path),
		filepath.Join("..", "generate_jobs", path),
	)
	return candidates
}

// loadClassesFromDisk parses a class catalog from the first candidate
// path that exists, or returns a single configuration-error line (§7)
// naming every path tried.
func loadClassesFromDisk(path, baseDir string) ([]Class, error) {
	candidates := candidateCatalogPaths(path, baseDir)
	for _, c := range candidates {
		b, err := os.ReadFile(c)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, configErrorf("generator", "reading class catalog %s: %v", c, err)
		}
		glog.Infof("loading job classes from: %s", c)
		var classes []Class
		if err := json.Unmarshal(b, &classes); err != nil {
			return nil, configErrorf("generator", "parsing class catalog %s: %v", c, err)
		}
		return classes, nil
	}
	return nil, configErrorf("generator", "class catalog %q not found in any of %v", path, candidates)
}

// classLookup indexes a catalog by class_id.
func classLookup(classes []Class) map[string]Class {
	out := make(map[string]Class, len(classes))
	for _, c := range classes {
		out[c.ClassID] = c
	}
	return out
}
