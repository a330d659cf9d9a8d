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

package adapter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exitintel/vmxplan/internal/adapter"
	"github.com/exitintel/vmxplan/internal/types"
)

func TestRulesConfigLoader_Load(t *testing.T) {
	loader := adapter.NewRulesConfigLoader()

	t.Run("Empty payload yields the defaults", func(t *testing.T) {
		config, err := loader.Load(nil)
		require.NoError(t, err)
		assert.Equal(t, types.DefaultRulesConfig(), config)
	})

	t.Run("Partial overlay only overrides named keys", func(t *testing.T) {
		payload := []byte(`
weights:
  legacy_os: 40
thresholds:
  powered_off_days: 90
`)

		config, err := loader.Load(payload)
		require.NoError(t, err)

		assert.Equal(t, 40, config.Weights[types.SignalLegacyOS])
		assert.Equal(t, float64(90), config.Thresholds[types.ThresholdPoweredOffDays])

		// Unnamed keys keep their defaults.
		defaults := types.DefaultRulesConfig()
		assert.Equal(t, defaults.Weights[types.SignalSnapshotCount], config.Weights[types.SignalSnapshotCount])
		assert.Equal(t, defaults.Thresholds[types.ThresholdNICs], config.Thresholds[types.ThresholdNICs])
		assert.Equal(t, defaults.RiskLevelCutoffs, config.RiskLevelCutoffs)
		assert.Equal(t, defaults.LegacyOSPatterns, config.LegacyOSPatterns)
	})

	t.Run("Cutoffs and patterns are replaced wholesale", func(t *testing.T) {
		payload := []byte(`
riskLevelCutoffs:
  lowMax: 19
  mediumMax: 59
legacyOSPatterns:
  - "2012"
`)

		config, err := loader.Load(payload)
		require.NoError(t, err)
		assert.Equal(t, types.RiskLevelCutoffs{LowMax: 19, MediumMax: 59}, config.RiskLevelCutoffs)
		assert.Equal(t, []string{"2012"}, config.LegacyOSPatterns)
	})

	t.Run("JSON payload is accepted", func(t *testing.T) {
		config, err := loader.Load([]byte(`{"weights": {"long_uptime": 5}}`))
		require.NoError(t, err)
		assert.Equal(t, 5, config.Weights[types.SignalLongUptime])
	})

	t.Run("Unparsable payload fails", func(t *testing.T) {
		_, err := loader.Load([]byte(`weights: [nope`))
		require.Error(t, err)
	})

	t.Run("Merged result is validated", func(t *testing.T) {
		_, err := loader.Load([]byte(`
weights:
  snapshot_count: 200
`))
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrConfiguration)
	})

	t.Run("Empty pattern list fails validation", func(t *testing.T) {
		_, err := loader.Load([]byte(`legacyOSPatterns: []`))
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrConfiguration)
	})
}
