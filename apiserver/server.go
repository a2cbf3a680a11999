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
package apiserver

import (
	"fmt"
	"net/http"

	log "github.com/golang/glog"
	"github.com/gorilla/mux"
)

// Server is the HTTP front end over a RunService: workload generation,
// run submission, and run/timeline retrieval (spec.md §6).
type Server struct {
	router *mux.Router
	runs   *RunService
}

// NewServer wires routes against a RunService rooted at storageDir, with
// deterministic generation from seed and up to cacheSize recent runs kept
// in memory.
func NewServer(storageDir string, seed int64, cacheSize int) (*Server, error) {
	runs, err := NewRunService(storageDir, seed, cacheSize)
	if err != nil {
		return nil, err
	}
	r := mux.NewRouter()
	registerRoutes(r, runs)
	return &Server{router: r, runs: runs}, nil
}

// ServeHTTP implements http.Handler, delegating to the wired mux.Router.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

// ListenAndServe starts the HTTP daemon on the given port, blocking until
// it exits.
func (s *Server) ListenAndServe(port int) error {
	log.Infof("schedsim API server listening on :%d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), s)
}
