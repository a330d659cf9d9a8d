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

	"sigs.k8s.io/yaml"

	"github.com/exitintel/vmxplan/internal/types"
)

var (
	errRulesConfigParse = errors.New("parsing rules configuration")
	errRulesConfigLoad  = errors.New("loading rules configuration")
)

// ---------------------------------------------------- INTERFACES -------------------------------------------------- //

// RulesConfigLoader decodes and validates rules configuration payloads. The
// core never reads configuration files itself; it receives the parsed
// configuration object produced here.
type RulesConfigLoader interface {
	// Load parses a YAML or JSON payload, merges it over the reference
	// defaults and validates the result. An empty payload yields the
	// validated defaults.
	Load(payload []byte) (types.RulesConfig, error)
}

// --------------------------------------------------- CONSTRUCTORS ------------------------------------------------- //

// NewRulesConfigLoader returns a RulesConfigLoader.
func NewRulesConfigLoader() RulesConfigLoader {
	return &rulesConfigLoader{}
}

// --------------------------------------------- CONCRETE IMPLEMENTATION -------------------------------------------- //

type rulesConfigLoader struct{}

// --------------------------------------------- Load ----------------------------------------------------------------- //

func (l *rulesConfigLoader) Load(payload []byte) (types.RulesConfig, error) {
	config := types.DefaultRulesConfig()

	// Unmarshalling over the defaults lets a partial file override only the
	// keys it names. Map keys are merged per entry; the cutoffs struct and
	// the pattern list are replaced wholesale when present.
	if len(payload) > 0 {
		overlay := struct {
			Weights          map[string]int          `json:"weights"`
			Thresholds       map[string]float64      `json:"thresholds"`
			RiskLevelCutoffs *types.RiskLevelCutoffs `json:"riskLevelCutoffs"`
			LegacyOSPatterns []string                `json:"legacyOSPatterns"`
		}{}

		if err := yaml.Unmarshal(payload, &overlay); err != nil {
			return types.RulesConfig{}, errors.Join(err, errRulesConfigParse, errRulesConfigLoad)
		}

		for name, weight := range overlay.Weights {
			config.Weights[name] = weight
		}

		for name, threshold := range overlay.Thresholds {
			config.Thresholds[name] = threshold
		}

		if overlay.RiskLevelCutoffs != nil {
			config.RiskLevelCutoffs = *overlay.RiskLevelCutoffs
		}

		if overlay.LegacyOSPatterns != nil {
			config.LegacyOSPatterns = overlay.LegacyOSPatterns
		}
	}

	if err := config.Validate(); err != nil {
		return types.RulesConfig{}, errors.Join(err, errRulesConfigLoad)
	}

	return config, nil
}
