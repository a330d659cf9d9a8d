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

// ---------------------------------------------------- CATEGORY ---------------------------------------------------- //

// Category is a migration-planning category. The vocabulary is closed: every
// classification ends up in exactly one of the four categories below.
type Category string

const (
	// CategoryKeep means the VM stays on-premises.
	CategoryKeep Category = "keep"
	// CategoryRehost means the VM is a lift-and-shift candidate.
	CategoryRehost Category = "rehost"
	// CategoryRetire means the VM should be decommissioned.
	CategoryRetire Category = "retire"
	// CategoryRefactorCandidate means the VM is simple enough to re-platform.
	CategoryRefactorCandidate Category = "refactor_candidate"
)

// Valid reports whether the category is one of the four allowed values.
func (c Category) Valid() bool {
	switch c {
	case CategoryKeep, CategoryRehost, CategoryRetire, CategoryRefactorCandidate:
		return true
	default:
		return false
	}
}

// --------------------------------------------------- CONFIDENCE --------------------------------------------------- //

// Confidence is the qualitative certainty attached to a classification.
type Confidence string

const (
	// ConfidenceHigh marks a decision backed by an unambiguous signal.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium marks a decision backed by weaker or single signals.
	ConfidenceMedium Confidence = "medium"
	// ConfidenceLow marks a decision with little supporting evidence.
	ConfidenceLow Confidence = "low"
)

// Valid reports whether the confidence is one of the three allowed values.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	default:
		return false
	}
}

// --------------------------------------------------- RISK LEVEL --------------------------------------------------- //

// RiskLevel is the bucketed form of a risk score.
type RiskLevel string

const (
	// RiskLow is the lowest risk bucket.
	RiskLow RiskLevel = "Low"
	// RiskMedium is the middle risk bucket.
	RiskMedium RiskLevel = "Medium"
	// RiskHigh is the highest risk bucket.
	RiskHigh RiskLevel = "High"
)

// ------------------------------------------------- CLASSIFICATION ------------------------------------------------- //

// Classification is the per-VM output of a classification run. It is created
// once and never mutated afterwards.
type Classification struct {
	// VMID is the identifier of the classified VM.
	VMID string `json:"vm_id"`
	// Name is the display name of the classified VM.
	Name string `json:"name"`
	// PowerState is the power state of the classified VM.
	PowerState PowerState `json:"power_state"`
	// Category is the migration-planning category.
	Category Category `json:"category"`
	// Confidence is the certainty of the decision.
	Confidence Confidence `json:"confidence"`
	// RiskScore is the additive risk score in [0,100].
	RiskScore int `json:"risk_score"`
	// RiskLevel is the bucketed risk score.
	RiskLevel RiskLevel `json:"risk_level"`
	// RuleName is the stable identifier of the rule that fired.
	RuleName string `json:"rule_name"`
	// Reasons is the ordered reason trail: a primary human-readable sentence
	// followed by the scoring signal breadcrumbs.
	Reasons []string `json:"reasons"`
	// Trace is the list of signal:+weight breadcrumbs from the risk scorer.
	Trace []string `json:"trace"`
	// Tags is carried over from the inventory record for report rendering.
	Tags []string `json:"tags,omitempty"`
	// PoweredOffDays is the powered-off duration when known. Nil otherwise.
	PoweredOffDays *float64 `json:"powered_off_days,omitempty"`
}
