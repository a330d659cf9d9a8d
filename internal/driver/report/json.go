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
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
)

var errWriteJSONReport = errors.New("writing JSON report")

// JSONFileName is the name of the detailed JSON report file.
const JSONFileName = "classification.json"

// compile-time interface check.
var _ Writer = (*JSONWriter)(nil)

// JSONWriter renders the detailed report as indented JSON.
type JSONWriter struct {
	out    io.Writer
	closer io.Closer
}

// NewJSONWriter returns a JSONWriter streaming to w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{out: w}
}

// NewJSONFileWriter returns a JSONWriter targeting classification.json in
// outDir, creating the directory if needed.
func NewJSONFileWriter(outDir string) (*JSONWriter, error) {
	file, err := createReportFile(outDir, JSONFileName)
	if err != nil {
		return nil, errors.Join(err, errWriteJSONReport)
	}

	return &JSONWriter{out: file, closer: file}, nil
}

// Write renders the report.
func (w *JSONWriter) Write(rep Report) error {
	encoder := json.NewEncoder(w.out)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(rep); err != nil {
		return errors.Join(err, errWriteJSONReport)
	}

	return nil
}

// Close closes the underlying file, if any.
func (w *JSONWriter) Close() error {
	if w.closer == nil {
		return nil
	}

	return w.closer.Close()
}

// createReportFile creates outDir and a report file inside it.
func createReportFile(outDir, name string) (*os.File, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, err
	}

	return os.Create(filepath.Join(outDir, name))
}
