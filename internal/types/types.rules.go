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

package types

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks an invalid rules configuration. Configuration
	// errors are fatal to a run; the engine never substitutes defaults for a
	// structurally invalid configuration.
	ErrConfiguration = errors.New("invalid rules configuration")

	errMissingWeight      = errors.New("missing weight")
	errMissingThreshold   = errors.New("missing threshold")
	errWeightOutOfRange   = errors.New("weight out of range")
	errThresholdNegative  = errors.New("threshold must not be negative")
	errCutoffsOutOfOrder  = errors.New("risk level cutoffs must satisfy 0 <= lowMax < mediumMax <= 100")
	errNoLegacyOSPatterns = errors.New("at least one legacy OS pattern is required")
)

// -------------------------------------------------- SIGNAL NAMES -------------------------------------------------- //

// Names of the additive risk signals. Weight and threshold maps are keyed by
// these names so deployments can tune them without touching engine logic.
const (
	// SignalSnapshotCount fires when the snapshot count exceeds its threshold.
	SignalSnapshotCount = "snapshot_count"
	// SignalSnapshotAge fires when the oldest snapshot exceeds its age threshold.
	SignalSnapshotAge = "snapshot_age"
	// SignalLegacyOS fires when the guest OS matches a legacy pattern.
	SignalLegacyOS = "legacy_os"
	// SignalToolsNotRunning fires when the guest tools agent is not running.
	SignalToolsNotRunning = "tools_not_running"
	// SignalMultiNIC fires when the NIC count exceeds its threshold.
	SignalMultiNIC = "multi_nic"
	// SignalHighAvgUsage fires when average CPU or memory utilization exceeds
	// its threshold.
	SignalHighAvgUsage = "high_avg_usage"
	// SignalLongUptime fires when the uptime exceeds its threshold.
	SignalLongUptime = "long_uptime"
	// SignalLargeDisk fires when the provisioned disk exceeds its threshold.
	// Its default weight is zero: disk size gates the complexity rule but does
	// not contribute to the reference risk scores.
	SignalLargeDisk = "large_disk"
)

// Names of the tunable thresholds consumed by the scorer and the rule engine.
const (
	// ThresholdSnapshotCount is the snapshot count above which a VM is complex.
	ThresholdSnapshotCount = "snapshot_count"
	// ThresholdSnapshotAgeDays is the snapshot age in days above which a VM is complex.
	ThresholdSnapshotAgeDays = "snapshot_age_days"
	// ThresholdNICs is the NIC count above which a VM is complex.
	ThresholdNICs = "nics"
	// ThresholdDiskGB is the disk size in GiB above which a VM is complex.
	ThresholdDiskGB = "disk_gb"
	// ThresholdUptimeDays is the uptime in days above which the uptime signal fires.
	ThresholdUptimeDays = "uptime_days"
	// ThresholdCPUPct is the average CPU utilization above which usage is high.
	ThresholdCPUPct = "cpu_pct"
	// ThresholdMemPct is the average memory utilization above which usage is high.
	ThresholdMemPct = "mem_pct"
	// ThresholdPoweredOffDays is the powered-off duration above which a VM is a zombie.
	ThresholdPoweredOffDays = "powered_off_days"
	// ThresholdRefactorRiskScore is the risk score below which a VM may be a
	// refactor candidate.
	ThresholdRefactorRiskScore = "refactor_risk_score"
	// ThresholdRefactorDiskGB is the disk size below which a VM may be a
	// refactor candidate.
	ThresholdRefactorDiskGB = "refactor_disk_gb"
)

// -------------------------------------------------- RULES CONFIG -------------------------------------------------- //

// RiskLevelCutoffs are the inclusive upper bounds of the Low and Medium risk
// buckets. Everything above MediumMax is High.
type RiskLevelCutoffs struct {
	// LowMax is the highest score still considered Low risk.
	LowMax int `json:"lowMax"`
	// MediumMax is the highest score still considered Medium risk.
	MediumMax int `json:"mediumMax"`
}

// RulesConfig carries the weight constants, thresholds and risk level cutoffs
// consumed by the risk scorer and the rule engine. It is plain data passed in
// at call time, never global state.
type RulesConfig struct {
	// Weights maps signal names to their additive score contribution.
	Weights map[string]int `json:"weights"`
	// Thresholds maps threshold names to their numeric boundary.
	Thresholds map[string]float64 `json:"thresholds"`
	// RiskLevelCutoffs holds the Low/Medium bucket upper bounds.
	RiskLevelCutoffs RiskLevelCutoffs `json:"riskLevelCutoffs"`
	// LegacyOSPatterns are case-insensitive substrings identifying legacy
	// guest OS versions unsupported by modern migration targets.
	LegacyOSPatterns []string `json:"legacyOSPatterns"`
}

// DefaultRulesConfig returns the reference configuration. The weights and
// thresholds reproduce the documented scenario scores exactly.
func DefaultRulesConfig() RulesConfig {
	return RulesConfig{
		Weights: map[string]int{
			SignalSnapshotCount:   20,
			SignalSnapshotAge:     15,
			SignalLegacyOS:        25,
			SignalToolsNotRunning: 10,
			SignalMultiNIC:        10,
			SignalHighAvgUsage:    15,
			SignalLongUptime:      10,
			SignalLargeDisk:       0,
		},
		Thresholds: map[string]float64{
			ThresholdSnapshotCount:     5,
			ThresholdSnapshotAgeDays:   30,
			ThresholdNICs:              3,
			ThresholdDiskGB:            300,
			ThresholdUptimeDays:        365,
			ThresholdCPUPct:            80,
			ThresholdMemPct:            80,
			ThresholdPoweredOffDays:    60,
			ThresholdRefactorRiskScore: 30,
			ThresholdRefactorDiskGB:    100,
		},
		RiskLevelCutoffs: RiskLevelCutoffs{LowMax: 29, MediumMax: 69},
		LegacyOSPatterns: []string{"2008", "2003", "rhel 6", "centos 6"},
	}
}

// requiredWeights lists the weight keys a valid configuration must define.
func requiredWeights() []string {
	return []string{
		SignalSnapshotCount,
		SignalSnapshotAge,
		SignalLegacyOS,
		SignalToolsNotRunning,
		SignalMultiNIC,
		SignalHighAvgUsage,
		SignalLongUptime,
		SignalLargeDisk,
	}
}

// requiredThresholds lists the threshold keys a valid configuration must define.
func requiredThresholds() []string {
	return []string{
		ThresholdSnapshotCount,
		ThresholdSnapshotAgeDays,
		ThresholdNICs,
		ThresholdDiskGB,
		ThresholdUptimeDays,
		ThresholdCPUPct,
		ThresholdMemPct,
		ThresholdPoweredOffDays,
		ThresholdRefactorRiskScore,
		ThresholdRefactorDiskGB,
	}
}

// Validate checks the configuration for missing keys and out-of-range values.
// It returns an error wrapping ErrConfiguration on the first violation.
func (c RulesConfig) Validate() error {
	for _, name := range requiredWeights() {
		weight, ok := c.Weights[name]
		if !ok {
			return errors.Join(fmt.Errorf("weight %q", name), errMissingWeight, ErrConfiguration)
		}

		if weight < 0 || weight > 100 {
			return errors.Join(fmt.Errorf("weight %q=%d", name, weight), errWeightOutOfRange, ErrConfiguration)
		}
	}

	for _, name := range requiredThresholds() {
		threshold, ok := c.Thresholds[name]
		if !ok {
			return errors.Join(fmt.Errorf("threshold %q", name), errMissingThreshold, ErrConfiguration)
		}

		if threshold < 0 {
			return errors.Join(fmt.Errorf("threshold %q=%v", name, threshold), errThresholdNegative, ErrConfiguration)
		}
	}

	cutoffs := c.RiskLevelCutoffs
	if cutoffs.LowMax < 0 || cutoffs.LowMax >= cutoffs.MediumMax || cutoffs.MediumMax > 100 {
		return errors.Join(
			fmt.Errorf("lowMax=%d mediumMax=%d", cutoffs.LowMax, cutoffs.MediumMax),
			errCutoffsOutOfOrder,
			ErrConfiguration,
		)
	}

	if len(c.LegacyOSPatterns) == 0 {
		return errors.Join(errNoLegacyOSPatterns, ErrConfiguration)
	}

	return nil
}
