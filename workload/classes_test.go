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
	"testing"
)

func TestLoadClassesFromDiskFallsBackToSubdirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "generate_jobs")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir() failed: %v", err)
	}
	classes := []Class{{ClassID: "A", PriorityRange: [2]int{1, 5}}}
	b, err := json.Marshal(classes)
	if err != nil {
		t.Fatalf("Marshal() failed: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "job_classes.json"), b, 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() failed: %v", err)
	}
	defer os.Chdir(oldwd)
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() failed: %v", err)
	}

	got, err := loadClassesFromDisk("job_classes.json", "")
	if err != nil {
		t.Fatalf("loadClassesFromDisk() failed: %v", err)
	}
	if len(got) != 1 || got[0].ClassID != "A" {
		t.Errorf("loadClassesFromDisk() = %+v, want one class A", got)
	}
}

func TestLoadClassesFromDiskMissingReportsAllCandidates(t *testing.T) {
	dir := t.TempDir()
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() failed: %v", err)
	}
	defer os.Chdir(oldwd)
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() failed: %v", err)
	}

	if _, err := loadClassesFromDisk("job_classes.json", ""); err == nil {
		t.Fatalf("loadClassesFromDisk() succeeded, want a configuration error")
	}
}
