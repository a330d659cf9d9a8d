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
	"strconv"
	"strings"
)

// --------------------------------------------------- POWER STATE -------------------------------------------------- //

// PowerState is the reported power state of a VM.
type PowerState string

const (
	// PoweredOn means the VM was running at inventory-export time.
	PoweredOn PowerState = "poweredOn"
	// PoweredOff means the VM was halted at inventory-export time.
	PoweredOff PowerState = "poweredOff"
)

// Valid reports whether the power state is one of the known values.
func (p PowerState) Valid() bool {
	return p == PoweredOn || p == PoweredOff
}

// -------------------------------------------------- TOOLS STATUS -------------------------------------------------- //

// ToolsStatus is the reported state of the guest tools agent.
type ToolsStatus string

const (
	// ToolsRunning means the guest tools agent is up.
	ToolsRunning ToolsStatus = "running"
	// ToolsNotRunning means the guest tools agent is installed but down.
	ToolsNotRunning ToolsStatus = "notRunning"
	// ToolsUnknown means the hypervisor could not determine the agent state.
	ToolsUnknown ToolsStatus = "unknown"
)

// Valid reports whether the tools status is one of the known values.
func (t ToolsStatus) Valid() bool {
	return t == ToolsRunning || t == ToolsNotRunning || t == ToolsUnknown
}

// --------------------------------------------------- VM RECORD ---------------------------------------------------- //

// PoweredOffDaysTagPrefix is the tag prefix carrying the powered-off duration
// for inventory exports that encode it as a tag instead of a field.
const PoweredOffDaysTagPrefix = "powered_off_days="

// VMRecord is a single VM inventory record. Records are immutable once
// loaded; the scorer and rule engine never mutate them.
type VMRecord struct {
	// VMID uniquely identifies the VM within the inventory.
	VMID string `json:"vm_id"`
	// Name is the display name of the VM.
	Name string `json:"name"`
	// PowerState is the power state at export time.
	PowerState PowerState `json:"power_state"`
	// CPU is the number of vCPUs.
	CPU float64 `json:"cpu"`
	// MemoryMB is the configured memory in MiB.
	MemoryMB float64 `json:"memory_mb"`
	// DiskGB is the total provisioned disk in GiB.
	DiskGB float64 `json:"disk_gb"`
	// GuestOS is the free-text guest OS description. It is matched
	// case-insensitively against legacy-OS substrings.
	GuestOS string `json:"guest_os"`
	// ToolsStatus is the guest tools agent state.
	ToolsStatus ToolsStatus `json:"tools_status"`
	// NICs is the number of network interfaces.
	NICs int `json:"nics"`
	// SnapshotCount is the number of snapshots.
	SnapshotCount int `json:"snapshot_count"`
	// MaxSnapshotAgeDays is the age of the oldest snapshot in days.
	MaxSnapshotAgeDays float64 `json:"max_snapshot_age_days"`
	// AvgCPUUsagePct is the average CPU utilization in percent.
	AvgCPUUsagePct float64 `json:"avg_cpu_usage_pct"`
	// AvgMemUsagePct is the average memory utilization in percent.
	AvgMemUsagePct float64 `json:"avg_mem_usage_pct"`
	// UptimeDays is the uptime in days.
	UptimeDays float64 `json:"uptime_days"`
	// PoweredOffDays is the number of days the VM has been powered off.
	// Optional; when nil it may still be derivable from the tags.
	PoweredOffDays *float64 `json:"powered_off_days,omitempty"`
	// Tags is the set of inventory tags attached to the VM.
	Tags []string `json:"tags,omitempty"`
}

// PoweredOffDaysOrTag returns the powered-off duration in days and whether it
// is known. The explicit field wins; otherwise a "powered_off_days=N" tag is
// consulted. An absent or unparsable duration is reported as unknown so the
// caller never treats an unknown duration as exceeding a threshold.
func (vm VMRecord) PoweredOffDaysOrTag() (float64, bool) {
	if vm.PoweredOffDays != nil {
		return *vm.PoweredOffDays, true
	}

	for _, tag := range vm.Tags {
		if !strings.HasPrefix(tag, PoweredOffDaysTagPrefix) {
			continue
		}

		days, err := strconv.ParseFloat(strings.TrimPrefix(tag, PoweredOffDaysTagPrefix), 64)
		if err != nil {
			return 0, false
		}

		return days, true
	}

	return 0, false
}
