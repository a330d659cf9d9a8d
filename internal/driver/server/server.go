// Copyright 2024 Alexandre Mahdhaoui
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server exposes the classification core over HTTP: it accepts a VM
// inventory payload and responds with the detailed classification report.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-logr/logr"

	"github.com/exitintel/vmxplan/internal/adapter"
	"github.com/exitintel/vmxplan/internal/controller"
	"github.com/exitintel/vmxplan/internal/driver/report"
	"github.com/exitintel/vmxplan/internal/types"
)

// ClassifyPath is the classification endpoint path.
const ClassifyPath = "/v1/classify"

// maxInventoryBytes bounds the accepted inventory payload size.
const maxInventoryBytes = 32 << 20 // 32 MiB

// ---------------------------------------------------- INTERFACES -------------------------------------------------- //

// Server serves classification requests.
type Server interface {
	// Handler returns the HTTP handler exposing the classification API.
	Handler() http.Handler
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

// New returns a Server wiring the inventory decoder and the classifier.
func New(
	inventory adapter.Inventory,
	classifier controller.Classifier,
	metrics *Metrics,
	topRisk int,
	logger logr.Logger,
) Server {
	return &server{
		inventory:  inventory,
		classifier: classifier,
		metrics:    metrics,
		topRisk:    topRisk,
		logger:     logger,
	}
}

// --------------------------------------------- CONCRETE IMPLEMENTATION -------------------------------------------- //

type server struct {
	inventory  adapter.Inventory
	classifier controller.Classifier
	metrics    *Metrics
	topRisk    int
	logger     logr.Logger
}

// errorResponse is the JSON body returned on request failures.
type errorResponse struct {
	// Error is the error kind: "validation", "not_parsable" or "internal".
	Error string `json:"error"`
	// Message is the human-readable failure description.
	Message string `json:"message"`
}

// --------------------------------------------- Handler -------------------------------------------------------------- //

func (s *server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(ClassifyPath, s.handleClassify)

	return mux
}

// --------------------------------------------- handleClassify ------------------------------------------------------- //

func (s *server) handleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "only POST is supported")

		return
	}

	start := time.Now()

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxInventoryBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "not_readable", err.Error())

		return
	}

	records, err := s.inventory.Load(payload)
	if err != nil {
		s.classifyError(w, err)

		return
	}

	results, err := s.classifier.Run(r.Context(), records)
	if err != nil {
		s.classifyError(w, err)

		return
	}

	rep := report.New(results, s.topRisk)

	s.metrics.ObserveRun(rep, time.Since(start))
	s.logger.Info("classified inventory",
		"runID", rep.RunID,
		"totalVMs", rep.TotalVMs,
		"durationMS", time.Since(start).Milliseconds(),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(rep); err != nil {
		s.logger.Error(err, "encoding classification report")
	}
}

// classifyError maps core errors to HTTP statuses: structurally invalid
// records are the client's fault, everything else is a server failure.
func (s *server) classifyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrValidation):
		s.writeError(w, http.StatusUnprocessableEntity, "validation", err.Error())
	case errors.Is(err, adapter.ErrInventoryNotParsable):
		s.writeError(w, http.StatusBadRequest, "not_parsable", err.Error())
	default:
		s.logger.Error(err, "classification run failed")
		s.writeError(w, http.StatusInternalServerError, "internal", "classification run failed")
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(errorResponse{Error: kind, Message: message})
}
