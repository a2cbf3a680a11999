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
package sched

import (
	log "github.com/golang/glog"
)

type schedulerOptions struct {
	policy  Policy
	numCPUs int
	numIOs  int
}

// Option specifies an option that may be given to New at Scheduler
// construction.
type Option func(o *schedulerOptions) error

// WithPolicy sets the dispatch policy. If unspecified, RR is used (§6
// "algorithm ... default RR").
func WithPolicy(p Policy) Option {
	return func(o *schedulerOptions) error {
		o.policy = p
		return nil
	}
}

// WithPolicyName parses name via ParsePolicy and sets the dispatch
// policy, logging and falling back to RR on an unknown name rather than
// failing construction outright (§7 "fallback to standard/RR where
// safe").
func WithPolicyName(name string) Option {
	return func(o *schedulerOptions) error {
		p, err := ParsePolicy(name)
		if err != nil {
			log.Warningf("%v; falling back to RR", err)
			p = RR
		}
		o.policy = p
		return nil
	}
}

// WithCPUs sets the number of CPU units. If unspecified or non-positive,
// defaults to 1 (§6 "cpus ... default 1").
func WithCPUs(n int) Option {
	return func(o *schedulerOptions) error {
		o.numCPUs = n
		return nil
	}
}

// WithIOs sets the number of I/O devices. If unspecified or
// non-positive, defaults to 1 (§6 "ios ... default 1").
func WithIOs(n int) Option {
	return func(o *schedulerOptions) error {
		o.numIOs = n
		return nil
	}
}
