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
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/exitintel/vmxplan/internal/adapter"
	"github.com/exitintel/vmxplan/internal/controller"
	"github.com/exitintel/vmxplan/internal/driver/report"
	"github.com/exitintel/vmxplan/internal/util/logging"
)

const Name = "vmxplan"

var (
	Version        = "dev" //nolint:gochecknoglobals // set by ldflags
	CommitSHA      = "n/a" //nolint:gochecknoglobals // set by ldflags
	BuildTimestamp = "n/a" //nolint:gochecknoglobals // set by ldflags
)

// analyzeOptions are the flags of the analyze subcommand.
type analyzeOptions struct {
	inputPath string
	rulesPath string
	outDir    string
	sqlite    bool
	topRisk   int
	dev       bool
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "analyze":
		opts, err := parseAnalyzeFlags(os.Args[2:])
		if err != nil {
			os.Exit(2)
		}

		if err := runAnalyze(context.Background(), opts); err != nil {
			slog.Error("analyze failed", "error", err.Error())
			os.Exit(1)
		}
	case "version", "--version":
		fmt.Fprintf(os.Stdout, "%s version %s (%s) %s\n", Name, Version, CommitSHA, BuildTimestamp)
	default:
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command>

Commands:
  analyze    classify a VM inventory and write the reports
  version    print version information
`, Name)
}

func parseAnalyzeFlags(args []string) (analyzeOptions, error) {
	opts := analyzeOptions{}

	flags := flag.NewFlagSet("analyze", flag.ContinueOnError)
	flags.StringVar(&opts.inputPath, "input", "", "path to the VM inventory (JSON or YAML array)")
	flags.StringVar(&opts.rulesPath, "rules", "", "path to the rules configuration (optional, defaults apply)")
	flags.StringVar(&opts.outDir, "out", "", "directory receiving the report files")
	flags.BoolVar(&opts.sqlite, "sqlite", false, "additionally persist classifications to a SQLite database")
	flags.IntVar(&opts.topRisk, "top", report.DefaultTopRisk, "number of highest-risk VMs in the narrative report")
	flags.BoolVar(&opts.dev, "dev", false, "enable development logging")

	if err := flags.Parse(args); err != nil {
		return analyzeOptions{}, err
	}

	var missing []string
	if opts.inputPath == "" {
		missing = append(missing, "--input")
	}

	if opts.outDir == "" {
		missing = append(missing, "--out")
	}

	if len(missing) > 0 {
		fmt.Fprintf(os.Stderr, "missing required flag(s): %v\n", missing)
		flags.Usage()

		return analyzeOptions{}, errors.New("missing required flags")
	}

	return opts, nil
}

func runAnalyze(ctx context.Context, opts analyzeOptions) error {
	if opts.dev {
		logging.SetupDevelopment()
	} else {
		logging.SetupDefault()
	}

	// --------------------------------------------- Rules configuration ----------------------------------------- //

	var rulesPayload []byte
	if opts.rulesPath != "" {
		var err error
		if rulesPayload, err = os.ReadFile(opts.rulesPath); err != nil {
			return fmt.Errorf("reading rules configuration: %w", err)
		}
	}

	config, err := adapter.NewRulesConfigLoader().Load(rulesPayload)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "loaded rules configuration", "path", opts.rulesPath)

	// --------------------------------------------- Inventory ---------------------------------------------------- //

	inventoryPayload, err := os.ReadFile(opts.inputPath)
	if err != nil {
		return fmt.Errorf("reading inventory: %w", err)
	}

	records, err := adapter.NewInventory().Load(inventoryPayload)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "loaded inventory", "path", opts.inputPath, "records", len(records))

	// --------------------------------------------- Classification ----------------------------------------------- //

	scorer := controller.NewRiskScorer(config)
	engine := controller.NewRuleEngine(scorer, config)
	classifier := controller.NewClassifier(scorer, engine)

	results, err := classifier.Run(ctx, records)
	if err != nil {
		return err
	}

	rep := report.New(results, opts.topRisk)

	// --------------------------------------------- Reports ------------------------------------------------------- //

	writers := make([]report.Writer, 0, 4)

	jsonWriter, err := report.NewJSONFileWriter(opts.outDir)
	if err != nil {
		return err
	}

	writers = append(writers, jsonWriter)

	csvWriter, err := report.NewCSVFileWriter(opts.outDir)
	if err != nil {
		return err
	}

	writers = append(writers, csvWriter)

	markdownWriter, err := report.NewMarkdownFileWriter(opts.outDir)
	if err != nil {
		return err
	}

	writers = append(writers, markdownWriter)

	if opts.sqlite {
		sqliteWriter, err := report.NewSQLiteWriter(opts.outDir)
		if err != nil {
			return err
		}

		writers = append(writers, sqliteWriter)
	}

	multi := report.NewMultiWriter(writers...)
	defer func() { _ = multi.Close() }()

	if err := multi.Write(rep); err != nil {
		return err
	}

	slog.InfoContext(ctx, "wrote reports",
		"outDir", opts.outDir,
		"runID", rep.RunID,
		"totalVMs", rep.TotalVMs,
	)

	return nil
}
