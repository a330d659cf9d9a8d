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
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	// sqlite3 registers the "sqlite3" database/sql driver.
	_ "github.com/mattn/go-sqlite3"
)

var errWriteSQLiteReport = errors.New("writing SQLite report")

// SQLiteFileName is the name of the SQLite database file.
const SQLiteFileName = "classifications.db"

// compile-time interface check.
var _ Writer = (*SQLiteWriter)(nil)

// SQLiteWriter persists classification rows to a SQLite database so runs can
// be queried and diffed after the fact.
type SQLiteWriter struct {
	db *sql.DB
}

// NewSQLiteWriter returns a SQLiteWriter targeting classifications.db in
// outDir, creating the directory and schema if needed.
func NewSQLiteWriter(outDir string) (*SQLiteWriter, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, errors.Join(err, errWriteSQLiteReport)
	}

	db, err := sql.Open("sqlite3", filepath.Join(outDir, SQLiteFileName))
	if err != nil {
		return nil, errors.Join(err, errWriteSQLiteReport)
	}

	writer := &SQLiteWriter{db: db}

	if err := writer.createSchema(); err != nil {
		_ = db.Close()

		return nil, errors.Join(err, errWriteSQLiteReport)
	}

	return writer, nil
}

func (w *SQLiteWriter) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS classifications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		generated_at TEXT NOT NULL,
		vm_id TEXT NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		confidence TEXT NOT NULL,
		risk_score INTEGER NOT NULL,
		risk_level TEXT NOT NULL,
		rule_name TEXT NOT NULL,
		reasons TEXT NOT NULL,
		trace TEXT NOT NULL,
		powered_off_days REAL
	);
	CREATE INDEX IF NOT EXISTS idx_classifications_run_id ON classifications(run_id);
	CREATE INDEX IF NOT EXISTS idx_classifications_category ON classifications(category);
	`

	_, err := w.db.Exec(schema)

	return err
}

// Write persists one row per classification, all within a single transaction
// so a failed run leaves no partial rows behind.
func (w *SQLiteWriter) Write(rep Report) error {
	tx, err := w.db.Begin()
	if err != nil {
		return errors.Join(err, errWriteSQLiteReport)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO classifications (
			run_id, generated_at, vm_id, name, category, confidence,
			risk_score, risk_level, rule_name, reasons, trace, powered_off_days
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = tx.Rollback()

		return errors.Join(err, errWriteSQLiteReport)
	}
	defer stmt.Close()

	generatedAt := rep.GeneratedAt.Format("2006-01-02T15:04:05.000Z")

	for _, result := range rep.Results {
		reasons, err := json.Marshal(result.Reasons)
		if err != nil {
			_ = tx.Rollback()

			return errors.Join(err, errWriteSQLiteReport)
		}

		trace, err := json.Marshal(result.Trace)
		if err != nil {
			_ = tx.Rollback()

			return errors.Join(err, errWriteSQLiteReport)
		}

		var poweredOffDays any
		if result.PoweredOffDays != nil {
			poweredOffDays = *result.PoweredOffDays
		}

		if _, err := stmt.Exec(
			rep.RunID.String(),
			generatedAt,
			result.VMID,
			result.Name,
			string(result.Category),
			string(result.Confidence),
			result.RiskScore,
			string(result.RiskLevel),
			result.RuleName,
			string(reasons),
			string(trace),
			poweredOffDays,
		); err != nil {
			_ = tx.Rollback()

			return errors.Join(err, errWriteSQLiteReport)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Join(err, errWriteSQLiteReport)
	}

	return nil
}

// Close closes the database handle.
func (w *SQLiteWriter) Close() error {
	return w.db.Close()
}
