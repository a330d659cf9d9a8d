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
	"strings"
)

var (
	// ErrValidation marks one or more structurally invalid VM records. A run
	// containing invalid input fails as a whole: no classification output is
	// produced and the engine never substitutes defaults for an invalid
	// record.
	ErrValidation = errors.New("invalid VM records")

	errMissingVMID        = errors.New("vm_id is required")
	errMissingName        = errors.New("name is required")
	errInvalidPowerState  = errors.New("power_state must be poweredOn or poweredOff")
	errInvalidToolsStatus = errors.New("tools_status must be running, notRunning or unknown")
	errNegativeField      = errors.New("numeric fields must not be negative")
)

// ValidateRecords checks every record for missing or malformed required
// fields. All offending records are aggregated into a single error wrapping
// ErrValidation rather than failing record by record.
func ValidateRecords(records []VMRecord) error {
	var violations []string

	for i, vm := range records {
		if err := vm.Validate(); err != nil {
			id := vm.VMID
			if id == "" {
				id = fmt.Sprintf("record #%d", i)
			}

			violations = append(violations, fmt.Sprintf("%s: %v", id, err))
		}
	}

	if len(violations) > 0 {
		return errors.Join(
			fmt.Errorf("%d invalid record(s): %s", len(violations), strings.Join(violations, "; ")),
			ErrValidation,
		)
	}

	return nil
}

// Validate checks the record's required fields and enum values.
func (vm VMRecord) Validate() error {
	var errs []error

	if strings.TrimSpace(vm.VMID) == "" {
		errs = append(errs, errMissingVMID)
	}

	if strings.TrimSpace(vm.Name) == "" {
		errs = append(errs, errMissingName)
	}

	if !vm.PowerState.Valid() {
		errs = append(errs, errInvalidPowerState)
	}

	if !vm.ToolsStatus.Valid() {
		errs = append(errs, errInvalidToolsStatus)
	}

	if vm.CPU < 0 || vm.MemoryMB < 0 || vm.DiskGB < 0 || vm.NICs < 0 ||
		vm.SnapshotCount < 0 || vm.MaxSnapshotAgeDays < 0 || vm.UptimeDays < 0 ||
		vm.AvgCPUUsagePct < 0 || vm.AvgMemUsagePct < 0 ||
		(vm.PoweredOffDays != nil && *vm.PoweredOffDays < 0) {
		errs = append(errs, errNegativeField)
	}

	return errors.Join(errs...)
}
