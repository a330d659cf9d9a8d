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
	"context"
	"errors"

	"github.com/exitintel/vmxplan/internal/types"
)

var errClassifierRun = errors.New("running classification")

// ---------------------------------------------------- INTERFACES -------------------------------------------------- //

// Classifier orchestrates a classification run over an inventory.
type Classifier interface {
	// Run validates every record, then classifies each one in input order.
	// The returned slice has the same length and order as the input, one
	// result per record. Validation failures abort the whole run with an
	// error listing every offending record.
	Run(ctx context.Context, records []types.VMRecord) ([]types.Classification, error)
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

// NewClassifier returns a Classifier wiring the given scorer and rule engine.
func NewClassifier(scorer RiskScorer, engine RuleEngine) Classifier {
	return &classifier{
		scorer: scorer,
		engine: engine,
	}
}

// --------------------------------------------- CONCRETE IMPLEMENTATION -------------------------------------------- //

type classifier struct {
	scorer RiskScorer
	engine RuleEngine
}

// --------------------------------------------- Run ------------------------------------------------------------------ //

func (c *classifier) Run(ctx context.Context, records []types.VMRecord) ([]types.Classification, error) {
	if err := types.ValidateRecords(records); err != nil {
		return nil, errors.Join(err, errClassifierRun)
	}

	results := make([]types.Classification, 0, len(records))

	for _, vm := range records {
		if err := ctx.Err(); err != nil {
			return nil, errors.Join(err, errClassifierRun)
		}

		score, trace := c.scorer.Score(vm)
		results = append(results, c.engine.Classify(vm, score, trace))
	}

	return results, nil
}
