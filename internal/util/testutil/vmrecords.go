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

// Package testutil provides shared VM record fixtures for tests.
package testutil

import "github.com/exitintel/vmxplan/internal/types"

// NewSimpleLinuxVM returns a healthy, low-risk Linux VM. Tests exercising
// the conservative default mutate a field that disqualifies refactor
// candidacy, e.g. a second NIC.
func NewSimpleLinuxVM() types.VMRecord {
	return types.VMRecord{
		VMID:               "test-simple",
		Name:               "simple",
		PowerState:         types.PoweredOn,
		CPU:                2,
		MemoryMB:           4096,
		DiskGB:             50,
		GuestOS:            "Ubuntu 20.04",
		ToolsStatus:        types.ToolsRunning,
		NICs:               1,
		SnapshotCount:      0,
		MaxSnapshotAgeDays: 0,
		AvgCPUUsagePct:     20,
		AvgMemUsagePct:     20,
		UptimeDays:         100,
	}
}

// NewLegacyWindowsVM returns the reference legacy-OS fixture: Windows Server
// 2008 R2, powered on, long uptime. Expected risk score 35.
func NewLegacyWindowsVM() types.VMRecord {
	return types.VMRecord{
		VMID:               "vm-001",
		Name:               "legacy-web",
		PowerState:         types.PoweredOn,
		CPU:                4,
		MemoryMB:           8192,
		DiskGB:             120,
		GuestOS:            "Windows Server 2008 R2",
		ToolsStatus:        types.ToolsRunning,
		NICs:               2,
		SnapshotCount:      2,
		MaxSnapshotAgeDays: 10,
		AvgCPUUsagePct:     40,
		AvgMemUsagePct:     50,
		UptimeDays:         400,
	}
}

// NewComplexLinuxVM returns the reference complexity fixture: many aged
// snapshots, multi-NIC, tools down, large disk. Expected risk score 55.
func NewComplexLinuxVM() types.VMRecord {
	return types.VMRecord{
		VMID:               "vm-002",
		Name:               "stateful-db",
		PowerState:         types.PoweredOn,
		CPU:                8,
		MemoryMB:           32768,
		DiskGB:             500,
		GuestOS:            "Red Hat Enterprise Linux 8",
		ToolsStatus:        types.ToolsNotRunning,
		NICs:               4,
		SnapshotCount:      8,
		MaxSnapshotAgeDays: 45,
		AvgCPUUsagePct:     50,
		AvgMemUsagePct:     60,
		UptimeDays:         200,
	}
}

// NewCentOS6VM returns the reference CentOS 6 fixture, low complexity.
// Expected risk score 25.
func NewCentOS6VM() types.VMRecord {
	return types.VMRecord{
		VMID:               "vm-003",
		Name:               "legacy-centos",
		PowerState:         types.PoweredOn,
		CPU:                2,
		MemoryMB:           4096,
		DiskGB:             80,
		GuestOS:            "CentOS 6.10",
		ToolsStatus:        types.ToolsRunning,
		NICs:               1,
		SnapshotCount:      1,
		MaxSnapshotAgeDays: 5,
		AvgCPUUsagePct:     15,
		AvgMemUsagePct:     20,
		UptimeDays:         5,
	}
}

// NewZombieVM returns the reference zombie fixture: powered off for 120
// days, duration carried as a tag. Expected risk score 10.
func NewZombieVM() types.VMRecord {
	return types.VMRecord{
		VMID:               "vm-004",
		Name:               "forgotten",
		PowerState:         types.PoweredOff,
		CPU:                2,
		MemoryMB:           4096,
		DiskGB:             100,
		GuestOS:            "Ubuntu 18.04",
		ToolsStatus:        types.ToolsUnknown,
		NICs:               1,
		SnapshotCount:      0,
		MaxSnapshotAgeDays: 0,
		AvgCPUUsagePct:     0,
		AvgMemUsagePct:     0,
		UptimeDays:         0,
		Tags:               []string{"powered_off_days=120"},
	}
}

// NewRefactorCandidateVM returns a simple, low-risk Linux VM eligible for
// re-platforming: single NIC, small disk, no complexity signals.
func NewRefactorCandidateVM() types.VMRecord {
	return types.VMRecord{
		VMID:               "vm-005",
		Name:               "stateless-app",
		PowerState:         types.PoweredOn,
		CPU:                2,
		MemoryMB:           2048,
		DiskGB:             50,
		GuestOS:            "Ubuntu 22.04",
		ToolsStatus:        types.ToolsRunning,
		NICs:               1,
		SnapshotCount:      0,
		MaxSnapshotAgeDays: 0,
		AvgCPUUsagePct:     10,
		AvgMemUsagePct:     15,
		UptimeDays:         30,
	}
}
