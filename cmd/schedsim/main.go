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
// Command schedsim is the CLI orchestrator of spec.md §6: it loads or
// generates a workload, runs it through the discrete-time scheduler, and
// exports the resulting timeline. Flags follow main.py's argParse
// convention (bare `key=value` tokens, not Go's `-flag value` form),
// since that grammar is part of the external contract this command
// restores.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	log "github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/google/schedsim/sched"
	"github.com/google/schedsim/store"
	"github.com/google/schedsim/workload"
)

// defaultClassCatalog is the class catalog file name generate_jobs.py
// looks for when none is given explicitly.
const defaultClassCatalog = "job_classes.json"

// args is a parsed key=value argument set, mirroring argParse's
// string-keyed dict of already-typed values.
type args map[string]string

// parseArgs restores argParse: every argv token containing "=" splits
// into a key and a value; tokens without "=" are ignored rather than
// rejected, matching the Python script's silent skip.
func parseArgs(argv []string) args {
	out := make(args, len(argv))
	for _, a := range argv {
		key, value, ok := strings.Cut(a, "=")
		if !ok {
			continue
		}
		out[key] = value
	}
	return out
}

func (a args) str(key, def string) string {
	if v, ok := a[key]; ok {
		return v
	}
	return def
}

func (a args) int(key string, def int) int {
	v, ok := a[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warningf("schedsim: %s=%q is not an integer, using default %d", key, v, def)
		return def
	}
	return n
}

func (a args) float(key string, def float64) float64 {
	v, ok := a[key]
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warningf("schedsim: %s=%q is not a number, using default %v", key, v, def)
		return def
	}
	return f
}

func (a args) boolean(key string, def bool) bool {
	v, ok := a[key]
	if !ok {
		return def
	}
	return strings.EqualFold(v, "true")
}

func main() {
	a := parseArgs(os.Args[1:])

	dir, err := os.Getwd()
	if err != nil {
		log.Exitf("schedsim: getwd: %v", err)
	}
	jobs, err := store.NewJobStore(dir)
	if err != nil {
		log.Exitf("schedsim: %v", err)
	}
	timelines, err := store.NewTimelineStore(dir, 16)
	if err != nil {
		log.Exitf("schedsim: %v", err)
	}
	gen := workload.NewGenerator(int64(a.int("seed", 1)))

	procs, name := loadOrGenerate(a, jobs, gen)
	if len(procs) == 0 {
		fmt.Println("Error: No processes to simulate!")
		os.Exit(1)
	}

	cpus := a.int("cpus", 1)
	ios := a.int("ios", 1)
	printConfiguration(a, procs, cpus, ios, name)

	if compareList := a.str("compare", ""); compareList != "" {
		if err := runCompare(procs, strings.Split(compareList, ","), cpus, ios); err != nil {
			log.Exitf("schedsim: compare: %v", err)
		}
		return
	}

	algorithm := a.str("algorithm", "RR")
	s, err := sched.New(sched.WithPolicyName(algorithm), sched.WithCPUs(cpus), sched.WithIOs(ios))
	if err != nil {
		log.Exitf("schedsim: %v", err)
	}
	for _, p := range procs {
		if err := s.AddProcess(p); err != nil {
			log.Exitf("schedsim: adding process %s: %v", p.PID, err)
		}
	}
	events := s.Run()

	fmt.Println("\n--- Simulation Complete ---")
	fmt.Printf("Time elapsed: %d\n", s.Now())
	fmt.Printf("Finished processes: %v\n", finishedPIDs(s))

	metrics := sched.ComputeRunMetrics(s)
	printMetrics(metrics)

	id := store.NewRunID(s.Policy().String())
	if err := timelines.Save(id, events); err != nil {
		log.Exitf("schedsim: saving timeline: %v", err)
	}
	fmt.Printf("\nTimeline exported to:\n  timelines/timeline_%s.json\n  timelines/timeline_%s.csv\n", id, id)
}

// loadOrGenerate decides, in the order main.py does, whether to generate
// a fresh workload, load one from an existing job file, or fall back to
// generating a standard one.
func loadOrGenerate(a args, jobs *store.JobStore, gen *workload.Generator) ([]*sched.Process, string) {
	if w := a.str("workload", ""); w != "" {
		procs, _, name := generateWorkload(a, jobs, gen, w)
		return procs, name
	}
	if fileNum := a.str("file_num", ""); fileNum != "" {
		name := fmt.Sprintf("process_file_%04s.json", fileNum)
		if n, err := strconv.Atoi(fileNum); err == nil {
			name = fmt.Sprintf("process_file_%04d.json", n)
		}
		fmt.Printf("\nLoading processes from %s...\n", name)
		// Note: name keeps the %04s form above when file_num isn't
		// numeric, which zero-pads the string as-is, matching main.py's
		// str.zfill on a non-numeric argument rather than failing.
		procs, errs := jobs.Load(context.Background(), name)
		for _, e := range errs {
			log.Warningf("schedsim: %v", e)
		}
		if limit := a.int("limit", 0); limit > 0 && limit < len(procs) {
			procs = procs[:limit]
		}
		return procs, name
	}
	fmt.Println("\nNo file or workload specified. Generating standard processes...")
	procs, _, name := generateWorkload(a, jobs, gen, "standard")
	return procs, name
}

func generateWorkload(a args, jobs *store.JobStore, gen *workload.Generator, workloadType string) ([]*sched.Process, map[sched.PID]string, string) {
	n := a.int("generate_num", 10)
	fmt.Printf("\nGenerating %d %s processes...\n", n, workloadType)

	classes, err := gen.LoadCatalog(a.str("class_catalog", defaultClassCatalog), "")
	if err != nil {
		log.Exitf("schedsim: %v", err)
	}
	preset := workload.ParsePreset(workloadType)
	spacing := a.float("arrival_spacing", preset.ArrivalSpacing)

	procs, classOf, err := gen.Generate(classes, preset, n, spacing)
	if err != nil {
		log.Exitf("schedsim: generating workload: %v", err)
	}

	fmt.Printf("✓ Generated %d %s processes\n", len(procs), workloadType)

	name := workloadType
	if a.boolean("save_temp", false) {
		saved, err := jobs.Save(procs, classOf)
		if err != nil {
			log.Exitf("schedsim: saving generated workload: %v", err)
		}
		name = saved
		fmt.Printf("  Temporary file saved: %s\n", saved)
	}
	return procs, classOf, name
}

func printConfiguration(a args, procs []*sched.Process, cpus, ios int, name string) {
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Simulation Configuration:")
	fmt.Printf("  Algorithm: %s\n", a.str("algorithm", "RR"))
	fmt.Printf("  CPUs: %d\n", cpus)
	fmt.Printf("  IO Devices: %d\n", ios)
	fmt.Printf("  Processes: %d\n", len(procs))
	if name != "" {
		fmt.Printf("  Workload: %s\n", name)
	}

	summary := workload.Summarize(procs, nil)
	fmt.Print(summary.String())

	fmt.Println("\nProcess Summary (first 5):")
	fmt.Println("PID | Arrival | Priority | Quantum | CPU Total | IO Count")
	fmt.Println(strings.Repeat("-", 65))
	for i, p := range procs {
		if i >= 5 {
			fmt.Printf("... and %d more\n", len(procs)-5)
			break
		}
		cpuTotal, ioCount := 0, 0
		for _, b := range p.Bursts {
			if b.Kind == sched.CPUBurst {
				cpuTotal += b.CPUTicks
			} else {
				ioCount++
			}
		}
		fmt.Printf("%3s | %7d | %8d | %7d | %9d | %8d\n", p.PID, p.ArrivalTime, p.Priority, p.Quantum, cpuTotal, ioCount)
	}
	fmt.Println(strings.Repeat("=", 60))
}

func printMetrics(m sched.RunMetrics) {
	fmt.Println("\nPerformance Metrics:")
	fmt.Printf("  Policy: %s\n", m.Policy)
	fmt.Printf("  Total simulation time: %d\n", m.TotalTicks)
	fmt.Printf("  CPU utilization: %.1f%%\n", m.CPUUtilization*100)
	fmt.Printf("  IO utilization: %.1f%%\n", m.IOUtilization*100)
}

func finishedPIDs(s *sched.Scheduler) []sched.PID {
	out := make([]sched.PID, 0, len(s.Finished()))
	for _, p := range s.Finished() {
		out = append(out, p.PID)
	}
	return out
}

// cloneProcess rebuilds a fresh, unrun copy of p, so the same generated
// or loaded workload can be fed to several Scheduler instances in
// runCompare without one policy's run mutating state another policy's
// run depends on.
func cloneProcess(p *sched.Process) (*sched.Process, error) {
	bursts := make([]sched.Burst, len(p.Bursts))
	copy(bursts, p.Bursts)
	return sched.NewProcess(p.PID, p.ArrivalTime, p.Priority, p.Quantum, bursts)
}

// runCompare is the supplemented `compare` operation (SPEC_FULL.md §5):
// it runs the same workload under every named policy concurrently and
// prints a side-by-side metrics table. The original main.py only ever
// ran a single algorithm per invocation.
func runCompare(procs []*sched.Process, policyNames []string, cpus, ios int) error {
	results := make([]sched.RunMetrics, len(policyNames))
	var g errgroup.Group
	for i, name := range policyNames {
		i, name := i, strings.TrimSpace(name)
		g.Go(func() error {
			policy, err := sched.ParsePolicy(name)
			if err != nil {
				return err
			}
			s, err := sched.New(sched.WithPolicy(policy), sched.WithCPUs(cpus), sched.WithIOs(ios))
			if err != nil {
				return err
			}
			for _, p := range procs {
				clone, err := cloneProcess(p)
				if err != nil {
					return err
				}
				if err := s.AddProcess(clone); err != nil {
					return err
				}
			}
			s.Run()
			results[i] = sched.ComputeRunMetrics(s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Policy < results[j].Policy })

	fmt.Println("\nPolicy Comparison:")
	fmt.Println("Policy               | Total Ticks | CPU Util | IO Util")
	fmt.Println(strings.Repeat("-", 60))
	for _, m := range results {
		fmt.Printf("%-20s | %11d | %7.1f%% | %6.1f%%\n", m.Policy, m.TotalTicks, m.CPUUtilization*100, m.IOUtilization*100)
	}
	return nil
}
