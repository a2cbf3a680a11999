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
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// configErrorf reports a storage configuration/IO error (§7).
func configErrorf(subsystem, format string, args ...interface{}) error {
	return status.Errorf(codes.Unknown, "%s: %s", subsystem, fmt.Sprintf(format, args...))
}

// inputErrorf reports a malformed persisted record (§7 "input errors").
func inputErrorf(subsystem, format string, args ...interface{}) error {
	return status.Errorf(codes.InvalidArgument, "%s: %s", subsystem, fmt.Sprintf(format, args...))
}
