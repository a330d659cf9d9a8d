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

// Package report renders classification runs into audit-friendly artifacts:
// a detailed JSON report, a tabular CSV summary, a narrative Markdown report
// and an optional SQLite sink.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/exitintel/vmxplan/internal/types"
)

// DefaultTopRisk is the number of highest-risk VMs listed in the narrative
// report when no other limit is configured.
const DefaultTopRisk = 10

// ---------------------------------------------------- INTERFACES -------------------------------------------------- //

// Writer renders a classification report to its destination. Writers contain
// no decision logic; they consume the core's output structure as-is.
type Writer interface {
	// Write renders the report.
	Write(rep Report) error
	// Close releases the writer's resources.
	Close() error
}

// ----------------------------------------------------- REPORT ----------------------------------------------------- //

// Report is a classification run plus its derived summary, ready for
// rendering.
type Report struct {
	// RunID uniquely identifies the classification run.
	RunID uuid.UUID `json:"run_id"`
	// GeneratedAt is the time the report was assembled.
	GeneratedAt time.Time `json:"generated_at"`
	// TotalVMs is the number of classified VMs.
	TotalVMs int `json:"total_vms"`
	// Results holds one classification per inventory record, in input order.
	Results []types.Classification `json:"results"`
	// Summary holds the derived aggregates.
	Summary Summary `json:"summary"`
}

// Summary aggregates a run for the narrative report.
type Summary struct {
	// CategoryCounts counts results per migration category.
	CategoryCounts map[types.Category]int `json:"category_counts"`
	// RiskLevelCounts counts results per risk level.
	RiskLevelCounts map[types.RiskLevel]int `json:"risk_level_counts"`
	// TopRisk lists the highest-risk VMs, descending by score. Ties keep
	// input order so reports are deterministic.
	TopRisk []types.Classification `json:"top_risk"`
	// Retire lists the VMs classified retire, with their powered-off
	// duration when known.
	Retire []types.Classification `json:"retire"`
}

// New assembles a Report from a run's results. topRisk bounds the summary's
// highest-risk list; a non-positive value falls back to DefaultTopRisk.
func New(results []types.Classification, topRisk int) Report {
	if topRisk <= 0 {
		topRisk = DefaultTopRisk
	}

	summary := Summary{
		CategoryCounts:  make(map[types.Category]int),
		RiskLevelCounts: make(map[types.RiskLevel]int),
	}

	for _, result := range results {
		summary.CategoryCounts[result.Category]++
		summary.RiskLevelCounts[result.RiskLevel]++

		if result.Category == types.CategoryRetire {
			summary.Retire = append(summary.Retire, result)
		}
	}

	ranked := make([]types.Classification, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RiskScore > ranked[j].RiskScore
	})

	if len(ranked) > topRisk {
		ranked = ranked[:topRisk]
	}

	summary.TopRisk = ranked

	return Report{
		RunID:       uuid.New(),
		GeneratedAt: time.Now().UTC(),
		TotalVMs:    len(results),
		Results:     results,
		Summary:     summary,
	}
}
