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

package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/exitintel/vmxplan/internal/driver/report"
)

// Metrics holds the Prometheus collectors of the classification API.
type Metrics struct {
	// ClassificationsTotal counts classified VMs by category and confidence.
	ClassificationsTotal *prometheus.CounterVec
	// RiskScore observes the risk score distribution of classified VMs.
	RiskScore prometheus.Histogram
	// RunDuration observes end-to-end classification run durations.
	RunDuration prometheus.Histogram
}

// NewMetrics registers and returns the API metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ClassificationsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "vmxplan_classifications_total",
			Help: "Number of classified VMs by category and confidence.",
		}, []string{"category", "confidence"}),
		RiskScore: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "vmxplan_risk_score",
			Help:    "Risk score distribution of classified VMs.",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}),
		RunDuration: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "vmxplan_run_duration_seconds",
			Help:    "End-to-end classification run duration.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveRun records one classification run.
func (m *Metrics) ObserveRun(rep report.Report, duration time.Duration) {
	for _, result := range rep.Results {
		m.ClassificationsTotal.
			WithLabelValues(string(result.Category), string(result.Confidence)).
			Inc()
		m.RiskScore.Observe(float64(result.RiskScore))
	}

	m.RunDuration.Observe(duration.Seconds())
}
