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
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// configErrorf reports a configuration error (§7): an unknown policy or
// workload preset. Callers decide whether to fall back to a safe default
// or exit.
func configErrorf(subsystem, format string, args ...interface{}) error {
	return status.Errorf(codes.InvalidArgument, "%s: %s", subsystem, fmt.Sprintf(format, args...))
}

// inputErrorf reports a malformed process record (§7): the simulation
// continues with the remaining valid processes, this one is rejected.
func inputErrorf(subsystem, format string, args ...interface{}) error {
	return status.Errorf(codes.InvalidArgument, "%s: %s", subsystem, fmt.Sprintf(format, args...))
}

// invariantViolation is a programmer bug (§7): a burst's remaining count
// would go negative, a process appears in two queues, a CPU is dispatched
// while busy. These are never recovered from.
type invariantViolation struct {
	subsystem string
	msg       string
}

func (e *invariantViolation) Error() string {
	return fmt.Sprintf("%s: invariant violation: %s", e.subsystem, e.msg)
}

func assertInvariant(cond bool, subsystem, format string, args ...interface{}) {
	if !cond {
		panic(&invariantViolation{subsystem: subsystem, msg: fmt.Sprintf(format, args...)})
	}
}
