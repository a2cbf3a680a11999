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
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const err500 = "Internal Server Error"

type handler struct {
	runs *RunService
}

func (h *handler) handleGenerateWorkload(w http.ResponseWriter, req *http.Request) {
	var jsonreq GenerateWorkloadRequest
	if err := readRequestBodyIntoStruct(req, &jsonreq); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := h.runs.GenerateWorkload(jsonreq)
	if err != nil {
		writeStatusError(w, err)
		return
	}
	sendStructHTTPResponse(req, res, w)
}

func (h *handler) handleCreateRun(w http.ResponseWriter, req *http.Request) {
	var jsonreq CreateRunRequest
	if err := readRequestBodyIntoStruct(req, &jsonreq); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	res, err := h.runs.CreateRun(req.Context(), jsonreq)
	if err != nil {
		writeStatusError(w, err)
		return
	}
	sendStructHTTPResponse(req, res, w)
}

func (h *handler) handleGetRun(w http.ResponseWriter, req *http.Request) {
	id, err := parseRunID(mux.Vars(req)["id"])
	if err != nil {
		writeStatusError(w, err)
		return
	}
	res, err := h.runs.RunMetadata(id)
	if err != nil {
		writeStatusError(w, err)
		return
	}
	sendStructHTTPResponse(req, res, w)
}

func (h *handler) handleGetTimeline(w http.ResponseWriter, req *http.Request) {
	id, err := parseRunID(mux.Vars(req)["id"])
	if err != nil {
		writeStatusError(w, err)
		return
	}
	res, err := h.runs.Timeline(id)
	if err != nil {
		writeStatusError(w, err)
		return
	}
	sendStructHTTPResponse(req, res, w)
}

func registerRoutes(r *mux.Router, runs *RunService) {
	h := &handler{runs: runs}
	r.HandleFunc("/api/v1/workloads/generate", h.handleGenerateWorkload).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/runs", h.handleCreateRun).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/runs/{id}", h.handleGetRun).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/runs/{id}/timeline", h.handleGetTimeline).Methods(http.MethodGet)
}

// writeStatusError maps a grpc/status error onto the matching HTTP status
// code, falling back to 500 for anything not carrying a status.
func writeStatusError(w http.ResponseWriter, err error) {
	st, ok := status.FromError(err)
	if !ok {
		http.Error(w, err500, http.StatusInternalServerError)
		return
	}
	code := http.StatusInternalServerError
	switch st.Code() {
	case codes.InvalidArgument:
		code = http.StatusBadRequest
	case codes.NotFound:
		code = http.StatusNotFound
	case codes.Unknown:
		code = http.StatusInternalServerError
	}
	http.Error(w, st.Message(), code)
}

// gzipEnabledWriter returns a gzip writer that wraps the http.ResponseWriter if the
// client supports reading gzip; if it does not, the http.ResponseWriter is returned
// unchanged. The function also returns a closing function that must be called before
// the response is considered complete.
func gzipEnabledWriter(req *http.Request, w http.ResponseWriter) (io.Writer, func() error) {
	if strings.Contains(req.Header.Get("Accept-Encoding"), "gzip") {
		w.Header().Set("Content-Encoding", "gzip")
		w.Header().Del("Content-Length")
		gzw := gzip.NewWriter(w)
		return gzw, gzw.Close
	}
	return w, func() error { return nil }
}

func sendStructHTTPResponse(req *http.Request, res interface{}, w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	writer, closer := gzipEnabledWriter(req, w)
	defer func() { _ = closer() }()
	if err := json.NewEncoder(writer).Encode(res); err != nil {
		http.Error(w, err500, http.StatusInternalServerError)
	}
}

func checkRequestContentType(req *http.Request, contentType string) error {
	got := req.Header.Get("Content-Type")
	if got != contentType {
		return fmt.Errorf("unexpected content type: want %s, got %s", contentType, got)
	}
	return nil
}

func readRequestBodyIntoStruct(req *http.Request, s interface{}) error {
	if err := checkRequestContentType(req, "application/json"); err != nil {
		return err
	}
	body, err := ioutil.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("error reading body: %s", err)
	}
	if err := req.Body.Close(); err != nil {
		return fmt.Errorf("error closing request body: %s", err)
	}
	if err := json.Unmarshal(body, s); err != nil {
		return fmt.Errorf("failed to unmarshal request JSON: %s", err)
	}
	return nil
}
