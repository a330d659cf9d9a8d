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

package adapter

import (
	"errors"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/exitintel/vmxplan/internal/types"
)

var (
	// ErrInventoryNotParsable marks an inventory payload that is not a JSON
	// or YAML array of VM objects.
	ErrInventoryNotParsable = errors.New("inventory must be a JSON or YAML array of VM objects")

	errInventoryLoad = errors.New("loading inventory")
)

// ---------------------------------------------------- INTERFACES -------------------------------------------------- //

// Inventory decodes VM inventory payloads into validated records.
type Inventory interface {
	// Load decodes an inventory payload. The records come back in payload
	// order, with vm_id and name whitespace stripped. Structural validation
	// failures are aggregated across all records into a single error
	// wrapping types.ErrValidation.
	Load(payload []byte) ([]types.VMRecord, error)
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

// NewInventory returns an Inventory decoder. It accepts JSON and, through the
// YAML-to-JSON bridge, YAML payloads with the same shape.
func NewInventory() Inventory {
	return &inventory{}
}

// --------------------------------------------- CONCRETE IMPLEMENTATION -------------------------------------------- //

type inventory struct{}

// --------------------------------------------- Load ----------------------------------------------------------------- //

func (a *inventory) Load(payload []byte) ([]types.VMRecord, error) {
	var records []types.VMRecord
	if err := yaml.Unmarshal(payload, &records); err != nil {
		return nil, errors.Join(err, ErrInventoryNotParsable, errInventoryLoad)
	}

	for i := range records {
		records[i].VMID = strings.TrimSpace(records[i].VMID)
		records[i].Name = strings.TrimSpace(records[i].Name)
	}

	if err := types.ValidateRecords(records); err != nil {
		return nil, errors.Join(err, errInventoryLoad)
	}

	return records, nil
}
