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

//go:build unit

package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exitintel/vmxplan/internal/adapter"
	"github.com/exitintel/vmxplan/internal/controller"
	"github.com/exitintel/vmxplan/internal/driver/report"
	"github.com/exitintel/vmxplan/internal/driver/server"
	"github.com/exitintel/vmxplan/internal/types"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	config := types.DefaultRulesConfig()
	scorer := controller.NewRiskScorer(config)
	classifier := controller.NewClassifier(scorer, controller.NewRuleEngine(scorer, config))
	metrics := server.NewMetrics(prometheus.NewRegistry())

	return server.New(adapter.NewInventory(), classifier, metrics, 0, logr.Discard()).Handler()
}

const inventoryPayload = `[
	{
		"vm_id": "vm-001",
		"name": "legacy-web",
		"power_state": "poweredOn",
		"guest_os": "Windows Server 2008 R2",
		"tools_status": "running",
		"nics": 2,
		"uptime_days": 400
	},
	{
		"vm_id": "vm-004",
		"name": "forgotten",
		"power_state": "poweredOff",
		"guest_os": "Ubuntu 18.04",
		"tools_status": "unknown",
		"nics": 1,
		"tags": ["powered_off_days=120"]
	}
]`

func TestServer_Classify(t *testing.T) {
	handler := newTestServer(t)

	t.Run("Classifies an inventory", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, server.ClassifyPath, strings.NewReader(inventoryPayload))

		handler.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

		var rep report.Report
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &rep))

		assert.Equal(t, 2, rep.TotalVMs)
		require.Len(t, rep.Results, 2)
		assert.Equal(t, types.CategoryKeep, rep.Results[0].Category)
		assert.Equal(t, types.CategoryRetire, rep.Results[1].Category)
		require.Len(t, rep.Summary.Retire, 1)
		assert.Equal(t, "vm-004", rep.Summary.Retire[0].VMID)
	})

	t.Run("Rejects non-POST methods", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, server.ClassifyPath, nil)

		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
		assert.Equal(t, http.MethodPost, recorder.Header().Get("Allow"))
	})

	t.Run("Rejects unparsable payloads", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, server.ClassifyPath, strings.NewReader(`{"not": "an array"}`))

		handler.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusBadRequest, recorder.Code)

		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "not_parsable", body.Error)
	})

	t.Run("Rejects invalid records", func(t *testing.T) {
		payload := `[{"vm_id": "vm-bad", "name": "bad", "power_state": "suspended", "tools_status": "running"}]`

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, server.ClassifyPath, strings.NewReader(payload))

		handler.ServeHTTP(recorder, request)

		require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)

		var body struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.Equal(t, "validation", body.Error)
		assert.Contains(t, body.Message, "vm-bad")
	})
}

func TestMetrics_ObserveRun(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := server.NewMetrics(registry)

	handler := server.New(
		adapter.NewInventory(),
		newTestClassifier(t),
		metrics,
		0,
		logr.Discard(),
	).Handler()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, server.ClassifyPath, strings.NewReader(inventoryPayload))
	handler.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	families, err := registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, family := range families {
		names[family.GetName()] = true
	}

	assert.True(t, names["vmxplan_classifications_total"])
	assert.True(t, names["vmxplan_risk_score"])
	assert.True(t, names["vmxplan_run_duration_seconds"])
}

func newTestClassifier(t *testing.T) controller.Classifier {
	t.Helper()

	config := types.DefaultRulesConfig()
	scorer := controller.NewRiskScorer(config)

	return controller.NewClassifier(scorer, controller.NewRuleEngine(scorer, config))
}
