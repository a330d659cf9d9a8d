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

package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/exitintel/vmxplan/internal/adapter"
	"github.com/exitintel/vmxplan/internal/controller"
	"github.com/exitintel/vmxplan/internal/driver/server"
	"github.com/exitintel/vmxplan/internal/util/gracefulshutdown"
	"github.com/exitintel/vmxplan/internal/util/httputil"
	"github.com/exitintel/vmxplan/internal/util/logging"
)

const Name = "vmxplan-api"

var (
	Version        = "dev" //nolint:gochecknoglobals // set by ldflags
	CommitSHA      = "n/a" //nolint:gochecknoglobals // set by ldflags
	BuildTimestamp = "n/a" //nolint:gochecknoglobals // set by ldflags
)

// ------------------------------------------------- Main ----------------------------------------------------------- //

func main() {
	_, _ = fmt.Fprintf(
		os.Stdout,
		"Starting %s version %s (%s) %s\n",
		Name,
		Version,
		CommitSHA,
		BuildTimestamp,
	)

	logger := logging.SetupDefault()

	gs := gracefulshutdown.New(Name)
	ctx := gs.Context()

	// --------------------------------------------- Config --------------------------------------------------------- //

	config, err := loadConfig()
	if err != nil {
		slog.ErrorContext(ctx, "loading vmxplan-api configuration", "error", err.Error())
		gs.Shutdown(1)
	}

	// --------------------------------------------- Rules ---------------------------------------------------------- //

	var rulesPayload []byte
	if config.RulesPath != "" {
		if rulesPayload, err = os.ReadFile(config.RulesPath); err != nil {
			slog.ErrorContext(ctx, "reading rules configuration", "error", err.Error())
			gs.Shutdown(1)
		}
	}

	rulesConfig, err := adapter.NewRulesConfigLoader().Load(rulesPayload)
	if err != nil {
		slog.ErrorContext(ctx, "loading rules configuration", "error", err.Error())
		gs.Shutdown(1)
	}

	// --------------------------------------------- Controller ----------------------------------------------------- //

	scorer := controller.NewRiskScorer(rulesConfig)
	engine := controller.NewRuleEngine(scorer, rulesConfig)
	classifier := controller.NewClassifier(scorer, engine)

	// --------------------------------------------- App ------------------------------------------------------------ //

	registry := prometheus.NewRegistry()
	metrics := server.NewMetrics(registry)

	classifyServer := &http.Server{ //nolint:exhaustruct
		Addr: fmt.Sprintf(":%d", config.APIServer.Port),
		Handler: server.New(
			adapter.NewInventory(),
			classifier,
			metrics,
			config.TopRisk,
			logger,
		).Handler(),
		ReadHeaderTimeout: time.Second,
	}

	// --------------------------------------------- Metrics & Probes ----------------------------------------------- //

	metricsServer := setupMetricsServer(config, registry)
	probesServer := setupProbesServer(config)

	// --------------------------------------------- Serve ---------------------------------------------------------- //

	httputil.Serve(map[string]*http.Server{
		"api":     classifyServer,
		"metrics": metricsServer,
		"probes":  probesServer,
	}, gs)

	gs.Shutdown(0)
}
