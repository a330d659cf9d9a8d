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

package controller

import (
	"fmt"
	"strings"

	"github.com/exitintel/vmxplan/internal/types"
)

// ---------------------------------------------------- INTERFACES -------------------------------------------------- //

// RiskScorer computes a risk score and its signal trace for a VM record.
type RiskScorer interface {
	// Score returns the additive risk score clamped to [0,100] and the
	// ordered list of signal:+weight breadcrumbs that contributed to it.
	// Score is a pure, total function over valid records: it never fails.
	Score(vm types.VMRecord) (int, []string)
	// RiskLevel buckets a score into Low, Medium or High.
	RiskLevel(score int) types.RiskLevel
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

// NewRiskScorer returns a RiskScorer using the given weights and thresholds.
// The configuration must have been validated beforehand.
func NewRiskScorer(config types.RulesConfig) RiskScorer {
	return &riskScorer{config: config}
}

// --------------------------------------------- CONCRETE IMPLEMENTATION -------------------------------------------- //

type riskScorer struct {
	config types.RulesConfig
}

// --------------------------------------------- Score --------------------------------------------------------------- //

func (s *riskScorer) Score(vm types.VMRecord) (int, []string) {
	var (
		score int
		trace []string
	)

	add := func(weight int, breadcrumb string) {
		score += weight
		trace = append(trace, breadcrumb)
	}

	weights := s.config.Weights
	thresholds := s.config.Thresholds

	if threshold := thresholds[types.ThresholdSnapshotCount]; float64(vm.SnapshotCount) > threshold {
		weight := weights[types.SignalSnapshotCount]
		add(weight, fmt.Sprintf("snapshot_count>%v:+%d", threshold, weight))
	}

	if threshold := thresholds[types.ThresholdSnapshotAgeDays]; vm.MaxSnapshotAgeDays > threshold {
		weight := weights[types.SignalSnapshotAge]
		add(weight, fmt.Sprintf("max_snapshot_age_days>%v:+%d", threshold, weight))
	}

	if MatchLegacyOS(vm.GuestOS, s.config.LegacyOSPatterns) != "" {
		weight := weights[types.SignalLegacyOS]
		add(weight, fmt.Sprintf("guest_os_legacy:+%d", weight))
	}

	if vm.ToolsStatus != types.ToolsRunning {
		weight := weights[types.SignalToolsNotRunning]
		add(weight, fmt.Sprintf("tools_status_not_running:+%d", weight))
	}

	if threshold := thresholds[types.ThresholdNICs]; float64(vm.NICs) > threshold {
		weight := weights[types.SignalMultiNIC]
		add(weight, fmt.Sprintf("nics>%v:+%d", threshold, weight))
	}

	if vm.AvgCPUUsagePct > thresholds[types.ThresholdCPUPct] ||
		vm.AvgMemUsagePct > thresholds[types.ThresholdMemPct] {
		weight := weights[types.SignalHighAvgUsage]
		add(weight, fmt.Sprintf("high_avg_usage:+%d", weight))
	}

	if threshold := thresholds[types.ThresholdUptimeDays]; vm.UptimeDays > threshold {
		weight := weights[types.SignalLongUptime]
		add(weight, fmt.Sprintf("uptime_days>%v:+%d", threshold, weight))
	}

	// Disk size gates the complexity rule; it only contributes to the score
	// when a deployment opts in with a non-zero weight.
	if weight := weights[types.SignalLargeDisk]; weight > 0 {
		if threshold := thresholds[types.ThresholdDiskGB]; vm.DiskGB > threshold {
			add(weight, fmt.Sprintf("disk_gb>%v:+%d", threshold, weight))
		}
	}

	if score > 100 {
		score = 100
	}

	if score < 0 {
		score = 0
	}

	return score, trace
}

// --------------------------------------------- RiskLevel ----------------------------------------------------------- //

func (s *riskScorer) RiskLevel(score int) types.RiskLevel {
	cutoffs := s.config.RiskLevelCutoffs

	switch {
	case score <= cutoffs.LowMax:
		return types.RiskLow
	case score <= cutoffs.MediumMax:
		return types.RiskMedium
	default:
		return types.RiskHigh
	}
}

// --------------------------------------------- MatchLegacyOS ------------------------------------------------------- //

// MatchLegacyOS returns the first legacy pattern contained (case-insensitive)
// in the guest OS description, or the empty string when none matches.
func MatchLegacyOS(guestOS string, patterns []string) string {
	lowered := strings.ToLower(guestOS)

	for _, pattern := range patterns {
		if strings.Contains(lowered, strings.ToLower(pattern)) {
			return pattern
		}
	}

	return ""
}
