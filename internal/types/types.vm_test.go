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

package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exitintel/vmxplan/internal/types"
)

func TestPowerState_Valid(t *testing.T) {
	assert.True(t, types.PoweredOn.Valid())
	assert.True(t, types.PoweredOff.Valid())
	assert.False(t, types.PowerState("").Valid())
	assert.False(t, types.PowerState("suspended").Valid())
}

func TestToolsStatus_Valid(t *testing.T) {
	assert.True(t, types.ToolsRunning.Valid())
	assert.True(t, types.ToolsNotRunning.Valid())
	assert.True(t, types.ToolsUnknown.Valid())
	assert.False(t, types.ToolsStatus("").Valid())
	assert.False(t, types.ToolsStatus("Running").Valid())
}

func TestVMRecord_PoweredOffDaysOrTag(t *testing.T) {
	base := types.VMRecord{
		VMID:        "test-vm",
		Name:        "test",
		PowerState:  types.PoweredOff,
		ToolsStatus: types.ToolsUnknown,
	}

	t.Run("Explicit field wins over tag", func(t *testing.T) {
		days := 42.0
		vm := base
		vm.PoweredOffDays = &days
		vm.Tags = []string{"powered_off_days=999"}

		got, known := vm.PoweredOffDaysOrTag()
		require.True(t, known)
		assert.Equal(t, 42.0, got)
	})

	t.Run("Tag is parsed when field absent", func(t *testing.T) {
		vm := base
		vm.Tags = []string{"env=prod", "powered_off_days=120"}

		got, known := vm.PoweredOffDaysOrTag()
		require.True(t, known)
		assert.Equal(t, 120.0, got)
	})

	t.Run("No field and no tag is unknown", func(t *testing.T) {
		_, known := base.PoweredOffDaysOrTag()
		assert.False(t, known)
	})

	t.Run("Unparsable tag is unknown", func(t *testing.T) {
		vm := base
		vm.Tags = []string{"powered_off_days=soon"}

		_, known := vm.PoweredOffDaysOrTag()
		assert.False(t, known)
	})
}

func TestValidateRecords(t *testing.T) {
	valid := types.VMRecord{
		VMID:        "vm-ok",
		Name:        "ok",
		PowerState:  types.PoweredOn,
		ToolsStatus: types.ToolsRunning,
	}

	t.Run("Valid records pass", func(t *testing.T) {
		require.NoError(t, types.ValidateRecords([]types.VMRecord{valid}))
		require.NoError(t, types.ValidateRecords(nil))
	})

	t.Run("All offending records are aggregated", func(t *testing.T) {
		missingName := valid
		missingName.VMID = "vm-unnamed"
		missingName.Name = "  "

		badEnums := valid
		badEnums.VMID = "vm-enums"
		badEnums.PowerState = "suspended"
		badEnums.ToolsStatus = "maybe"

		negative := valid
		negative.VMID = "vm-negative"
		negative.DiskGB = -10

		err := types.ValidateRecords([]types.VMRecord{valid, missingName, badEnums, negative})
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrValidation)
		assert.Contains(t, err.Error(), "3 invalid record(s)")
		assert.Contains(t, err.Error(), "vm-unnamed")
		assert.Contains(t, err.Error(), "vm-enums")
		assert.Contains(t, err.Error(), "vm-negative")
	})

	t.Run("Record without vm_id is reported by index", func(t *testing.T) {
		err := types.ValidateRecords([]types.VMRecord{valid, {}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "record #1")
	})

	t.Run("Negative powered_off_days is rejected", func(t *testing.T) {
		days := -1.0
		vm := valid
		vm.PoweredOffDays = &days

		err := types.ValidateRecords([]types.VMRecord{vm})
		assert.ErrorIs(t, err, types.ErrValidation)
	})
}
