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

func TestRulesConfig_Validate(t *testing.T) {
	t.Run("Defaults are valid", func(t *testing.T) {
		require.NoError(t, types.DefaultRulesConfig().Validate())
	})

	for _, tc := range []struct {
		name   string
		mutate func(config *types.RulesConfig)
	}{
		{
			name:   "missing weight",
			mutate: func(config *types.RulesConfig) { delete(config.Weights, types.SignalLegacyOS) },
		},
		{
			name:   "weight above 100",
			mutate: func(config *types.RulesConfig) { config.Weights[types.SignalSnapshotCount] = 101 },
		},
		{
			name:   "negative weight",
			mutate: func(config *types.RulesConfig) { config.Weights[types.SignalLongUptime] = -5 },
		},
		{
			name:   "missing threshold",
			mutate: func(config *types.RulesConfig) { delete(config.Thresholds, types.ThresholdPoweredOffDays) },
		},
		{
			name:   "negative threshold",
			mutate: func(config *types.RulesConfig) { config.Thresholds[types.ThresholdNICs] = -1 },
		},
		{
			name: "cutoffs out of order",
			mutate: func(config *types.RulesConfig) {
				config.RiskLevelCutoffs = types.RiskLevelCutoffs{LowMax: 70, MediumMax: 30}
			},
		},
		{
			name: "medium cutoff above 100",
			mutate: func(config *types.RulesConfig) {
				config.RiskLevelCutoffs = types.RiskLevelCutoffs{LowMax: 29, MediumMax: 120}
			},
		},
		{
			name:   "no legacy OS patterns",
			mutate: func(config *types.RulesConfig) { config.LegacyOSPatterns = nil },
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			config := types.DefaultRulesConfig()
			tc.mutate(&config)

			err := config.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrConfiguration)
		})
	}
}

func TestDefaultRulesConfig(t *testing.T) {
	config := types.DefaultRulesConfig()

	assert.Equal(t, 25, config.Weights[types.SignalLegacyOS])
	assert.Equal(t, 0, config.Weights[types.SignalLargeDisk])
	assert.Equal(t, float64(60), config.Thresholds[types.ThresholdPoweredOffDays])
	assert.Equal(t, types.RiskLevelCutoffs{LowMax: 29, MediumMax: 69}, config.RiskLevelCutoffs)
	assert.Contains(t, config.LegacyOSPatterns, "centos 6")
}
