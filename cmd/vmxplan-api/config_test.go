/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

//go:build unit

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Loads a YAML config file", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte(`
rulesPath: /etc/vmxplan/rules.yaml
topRisk: 20
apiServer:
  port: 8080
probesServer:
  livenessPath: /healthz
  readinessPath: /readyz
  port: 8081
metricsServer:
  path: /metrics
  port: 8082
`), 0o600))
		t.Setenv(ConfigPathEnvKey, configPath)

		config, err := loadConfig()
		require.NoError(t, err)

		assert.Equal(t, "/etc/vmxplan/rules.yaml", config.RulesPath)
		assert.Equal(t, 20, config.TopRisk)
		assert.Equal(t, 8080, config.APIServer.Port)
		assert.Equal(t, "/healthz", config.ProbesServer.LivenessPath)
		assert.Equal(t, "/readyz", config.ProbesServer.ReadinessPath)
		assert.Equal(t, 8081, config.ProbesServer.Port)
		assert.Equal(t, "/metrics", config.MetricsServer.Path)
		assert.Equal(t, 8082, config.MetricsServer.Port)
	})

	t.Run("Fails when the env var is unset", func(t *testing.T) {
		t.Setenv(ConfigPathEnvKey, "")

		_, err := loadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), ConfigPathEnvKey)
	})

	t.Run("Fails when the file is missing", func(t *testing.T) {
		t.Setenv(ConfigPathEnvKey, filepath.Join(t.TempDir(), "nope.yaml"))

		_, err := loadConfig()
		require.Error(t, err)
	})

	t.Run("Fails on malformed YAML", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(configPath, []byte("apiServer: [nope"), 0o600))
		t.Setenv(ConfigPathEnvKey, configPath)

		_, err := loadConfig()
		require.Error(t, err)
	})
}
