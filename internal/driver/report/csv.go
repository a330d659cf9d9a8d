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

package report

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
)

var errWriteCSVSummary = errors.New("writing CSV summary")

// CSVFileName is the name of the tabular summary file.
const CSVFileName = "summary.csv"

// compile-time interface check.
var _ Writer = (*CSVWriter)(nil)

// CSVWriter renders the flattened per-VM summary table.
type CSVWriter struct {
	out    io.Writer
	closer io.Closer
}

// NewCSVWriter returns a CSVWriter streaming to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{out: w}
}

// NewCSVFileWriter returns a CSVWriter targeting summary.csv in outDir,
// creating the directory if needed.
func NewCSVFileWriter(outDir string) (*CSVWriter, error) {
	file, err := createReportFile(outDir, CSVFileName)
	if err != nil {
		return nil, errors.Join(err, errWriteCSVSummary)
	}

	return &CSVWriter{out: file, closer: file}, nil
}

// Write renders the report.
func (w *CSVWriter) Write(rep Report) error {
	writer := csv.NewWriter(w.out)

	header := []string{"vm_id", "name", "category", "confidence", "risk_score", "risk_level"}
	if err := writer.Write(header); err != nil {
		return errors.Join(err, errWriteCSVSummary)
	}

	for _, result := range rep.Results {
		row := []string{
			result.VMID,
			result.Name,
			string(result.Category),
			string(result.Confidence),
			strconv.Itoa(result.RiskScore),
			string(result.RiskLevel),
		}

		if err := writer.Write(row); err != nil {
			return errors.Join(err, errWriteCSVSummary)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Join(err, errWriteCSVSummary)
	}

	return nil
}

// Close closes the underlying file, if any.
func (w *CSVWriter) Close() error {
	if w.closer == nil {
		return nil
	}

	return w.closer.Close()
}
