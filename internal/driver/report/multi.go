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

// compile-time interface check.
var _ Writer = (*MultiWriter)(nil)

// MultiWriter fans a report out to all configured writers.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter returns a MultiWriter over the given writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the report with every writer, stopping at the first failure.
func (w *MultiWriter) Write(rep Report) error {
	for _, writer := range w.writers {
		if err := writer.Write(rep); err != nil {
			return err
		}
	}

	return nil
}

// Close closes every writer and returns the first failure.
func (w *MultiWriter) Close() error {
	var firstErr error

	for _, writer := range w.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
