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

// Stable identifiers of the classification rules, in priority order.
const (
	// RuleZombieDetection retires VMs powered off beyond the zombie threshold.
	RuleZombieDetection = "zombie-detection"
	// RuleLegacyOSDetection keeps VMs running a legacy guest OS on-premises.
	RuleLegacyOSDetection = "legacy-os-detection"
	// RuleWorkloadComplexity rehomes complex or stateful workloads.
	RuleWorkloadComplexity = "workload-complexity"
	// RuleRefactorCandidate flags simple Linux workloads for re-platforming.
	RuleRefactorCandidate = "refactor-candidate"
	// RuleConservativeDefault keeps everything that matched nothing else.
	RuleConservativeDefault = "conservative-default"
)

// ---------------------------------------------------- INTERFACES -------------------------------------------------- //

// RuleEngine maps a VM record plus its risk score to exactly one
// classification. It is a total function over valid records: exactly one rule
// fires per VM, and later rules are never evaluated once a match occurs.
type RuleEngine interface {
	// Classify evaluates the ordered rule chain against the record and
	// returns the first match. The scorer's trace is appended to the reason
	// trail as audit breadcrumbs.
	Classify(vm types.VMRecord, riskScore int, trace []string) types.Classification
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

// NewRuleEngine returns a RuleEngine evaluating the fixed priority chain:
// zombie detection, legacy OS detection, workload complexity, refactor
// candidacy, conservative default. The configuration must have been validated
// beforehand.
func NewRuleEngine(scorer RiskScorer, config types.RulesConfig) RuleEngine {
	engine := &ruleEngine{scorer: scorer, config: config}

	engine.rules = []rule{
		{name: RuleZombieDetection, evaluate: engine.evaluateZombie},
		{name: RuleLegacyOSDetection, evaluate: engine.evaluateLegacyOS},
		{name: RuleWorkloadComplexity, evaluate: engine.evaluateComplexity},
		{name: RuleRefactorCandidate, evaluate: engine.evaluateRefactorCandidate},
		{name: RuleConservativeDefault, evaluate: engine.evaluateDefault},
	}

	return engine
}

// --------------------------------------------- CONCRETE IMPLEMENTATION -------------------------------------------- //

// outcome is the decision produced by a matching rule.
type outcome struct {
	category   types.Category
	confidence types.Confidence
	reasons    []string
}

// rule is a named predicate/outcome pair. The evaluate function reports
// whether the rule matched and, if so, the decision it produced.
type rule struct {
	name     string
	evaluate func(vm types.VMRecord, riskScore int) (outcome, bool)
}

type ruleEngine struct {
	scorer RiskScorer
	config types.RulesConfig
	rules  []rule
}

// --------------------------------------------- Classify ------------------------------------------------------------ //

func (e *ruleEngine) Classify(vm types.VMRecord, riskScore int, trace []string) types.Classification {
	for _, r := range e.rules {
		decision, matched := r.evaluate(vm, riskScore)
		if !matched {
			continue
		}

		reasons := make([]string, 0, len(decision.reasons)+len(trace))
		reasons = append(reasons, decision.reasons...)
		reasons = append(reasons, trace...)

		classification := types.Classification{
			VMID:       vm.VMID,
			Name:       vm.Name,
			PowerState: vm.PowerState,
			Category:   decision.category,
			Confidence: decision.confidence,
			RiskScore:  riskScore,
			RiskLevel:  e.scorer.RiskLevel(riskScore),
			RuleName:   r.name,
			Reasons:    reasons,
			Trace:      trace,
			Tags:       vm.Tags,
		}

		if days, known := vm.PoweredOffDaysOrTag(); known {
			classification.PoweredOffDays = &days
		}

		return classification
	}

	// Unreachable: the conservative default always matches.
	panic("rule chain terminated without a match")
}

// --------------------------------------------- Rules ---------------------------------------------------------------- //

// evaluateZombie retires VMs powered off beyond the zombie threshold. An
// unknown powered-off duration never fires the rule: the engine must not
// guess an unknown duration as exceeding the threshold.
func (e *ruleEngine) evaluateZombie(vm types.VMRecord, _ int) (outcome, bool) {
	if vm.PowerState != types.PoweredOff {
		return outcome{}, false
	}

	days, known := vm.PoweredOffDaysOrTag()
	if !known || days <= e.config.Thresholds[types.ThresholdPoweredOffDays] {
		return outcome{}, false
	}

	return outcome{
		category:   types.CategoryRetire,
		confidence: types.ConfidenceHigh,
		reasons: []string{
			fmt.Sprintf("Powered off for %v days; requires decommission", days),
		},
	}, true
}

func (e *ruleEngine) evaluateLegacyOS(vm types.VMRecord, _ int) (outcome, bool) {
	pattern := MatchLegacyOS(vm.GuestOS, e.config.LegacyOSPatterns)
	if pattern == "" {
		return outcome{}, false
	}

	return outcome{
		category:   types.CategoryKeep,
		confidence: types.ConfidenceHigh,
		reasons: []string{
			fmt.Sprintf("Guest OS %q matches legacy pattern %q; not supported by cloud migration targets",
				vm.GuestOS, pattern),
		},
	}, true
}

// evaluateComplexity rehomes workloads with any complexity signal. Confidence
// is high when two or more signals fire, medium on a single signal.
func (e *ruleEngine) evaluateComplexity(vm types.VMRecord, _ int) (outcome, bool) {
	thresholds := e.config.Thresholds

	var reasons []string

	if threshold := thresholds[types.ThresholdSnapshotCount]; float64(vm.SnapshotCount) > threshold {
		reasons = append(reasons, fmt.Sprintf(
			"Complex snapshot state (%d snapshots) requires stateful rehost", vm.SnapshotCount))
	}

	if threshold := thresholds[types.ThresholdSnapshotAgeDays]; vm.MaxSnapshotAgeDays > threshold {
		reasons = append(reasons, fmt.Sprintf(
			"Aged snapshots (%v days) indicate long-lived stateful changes", vm.MaxSnapshotAgeDays))
	}

	if threshold := thresholds[types.ThresholdNICs]; float64(vm.NICs) > threshold {
		reasons = append(reasons, fmt.Sprintf(
			"Multi-NIC configuration (%d NICs) requires careful networking planning", vm.NICs))
	}

	if vm.ToolsStatus != types.ToolsRunning {
		reasons = append(reasons, fmt.Sprintf(
			"Guest tools %s indicates operational complexity", vm.ToolsStatus))
	}

	if threshold := thresholds[types.ThresholdDiskGB]; vm.DiskGB > threshold {
		reasons = append(reasons, fmt.Sprintf(
			"Large disk footprint (%v GB) suggests stateful workload", vm.DiskGB))
	}

	if len(reasons) == 0 {
		return outcome{}, false
	}

	confidence := types.ConfidenceMedium
	if len(reasons) >= 2 {
		confidence = types.ConfidenceHigh
	}

	return outcome{
		category:   types.CategoryRehost,
		confidence: confidence,
		reasons:    reasons,
	}, true
}

// evaluateRefactorCandidate flags simple, low-risk Linux workloads. It is
// reachable only when the zombie, legacy OS and complexity rules did not
// fire, so refactor candidates have zero complexity signals by construction.
func (e *ruleEngine) evaluateRefactorCandidate(vm types.VMRecord, riskScore int) (outcome, bool) {
	if !isLinuxGuest(vm.GuestOS) {
		return outcome{}, false
	}

	thresholds := e.config.Thresholds
	if float64(riskScore) >= thresholds[types.ThresholdRefactorRiskScore] ||
		vm.NICs != 1 ||
		vm.DiskGB >= thresholds[types.ThresholdRefactorDiskGB] {
		return outcome{}, false
	}

	return outcome{
		category:   types.CategoryRefactorCandidate,
		confidence: types.ConfidenceMedium,
		reasons: []string{
			"Linux; low risk profile; single NIC; small disk; eligible for containerization",
		},
	}, true
}

func (e *ruleEngine) evaluateDefault(_ types.VMRecord, _ int) (outcome, bool) {
	return outcome{
		category:   types.CategoryKeep,
		confidence: types.ConfidenceMedium,
		reasons:    []string{"Conservative default: keep on-premises"},
	}, true
}

// isLinuxGuest reports whether the guest OS description indicates a Linux
// distribution.
func isLinuxGuest(guestOS string) bool {
	lowered := strings.ToLower(guestOS)

	for _, token := range []string{"linux", "rhel", "centos", "ubuntu", "debian"} {
		if strings.Contains(lowered, token) {
			return true
		}
	}

	return false
}
