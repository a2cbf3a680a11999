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

import "testing"

func TestClock(t *testing.T) {
	c := NewClock()
	if got := c.Now(); got != 0 {
		t.Fatalf("NewClock().Now() = %d, want 0", got)
	}
	c.Tick()
	c.Tick()
	c.Tick()
	if got := c.Now(); got != 3 {
		t.Fatalf("after 3 ticks, Now() = %d, want 3", got)
	}
	c.Reset()
	if got := c.Now(); got != 0 {
		t.Fatalf("after Reset(), Now() = %d, want 0", got)
	}
}
