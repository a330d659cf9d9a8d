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

package report_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exitintel/vmxplan/internal/driver/report"
)

func TestJSONWriter(t *testing.T) {
	rep := report.New(classifyFixtures(t), 0)

	var buf bytes.Buffer
	writer := report.NewJSONWriter(&buf)
	require.NoError(t, writer.Write(rep))
	require.NoError(t, writer.Close())

	var decoded report.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, rep.RunID, decoded.RunID)
	assert.Equal(t, rep.TotalVMs, decoded.TotalVMs)
	require.Len(t, decoded.Results, 5)
	assert.Equal(t, rep.Results[0].VMID, decoded.Results[0].VMID)
	assert.Equal(t, rep.Results[0].Reasons, decoded.Results[0].Reasons)
	assert.Equal(t, rep.Summary.CategoryCounts, decoded.Summary.CategoryCounts)
}

func TestCSVWriter(t *testing.T) {
	results := classifyFixtures(t)
	rep := report.New(results, 0)

	var buf bytes.Buffer
	writer := report.NewCSVWriter(&buf)
	require.NoError(t, writer.Write(rep))
	require.NoError(t, writer.Close())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(results)+1)

	assert.Equal(t, []string{"vm_id", "name", "category", "confidence", "risk_score", "risk_level"}, rows[0])

	for i, result := range results {
		row := rows[i+1]
		assert.Equal(t, result.VMID, row[0])
		assert.Equal(t, string(result.Category), row[2])
		assert.Equal(t, strconv.Itoa(result.RiskScore), row[4])
	}
}

func TestMarkdownWriter(t *testing.T) {
	t.Run("Full run", func(t *testing.T) {
		rep := report.New(classifyFixtures(t), 3)

		var buf bytes.Buffer
		writer := report.NewMarkdownWriter(&buf)
		require.NoError(t, writer.Write(rep))
		require.NoError(t, writer.Close())

		rendered := buf.String()
		assert.Contains(t, rendered, "Total VMs analyzed: **5**")
		assert.Contains(t, rendered, "## Risk Level Breakdown")
		assert.Contains(t, rendered, "- **Medium**: 2")
		assert.Contains(t, rendered, "- **Low**: 3")
		assert.Contains(t, rendered, "## Top 3 Highest-Risk & Action Items")
		assert.Contains(t, rendered, "| vm-002 | stateful-db | 55 | Medium | rehost |")
		assert.Contains(t, rendered, "| vm-004 | forgotten | 120 | retire | 10 | Decommission |")
		assert.Contains(t, rendered, "## Rules Applied")
	})

	t.Run("No retire results", func(t *testing.T) {
		rep := report.New(classifyFixtures(t)[:1], 0)

		var buf bytes.Buffer
		require.NoError(t, report.NewMarkdownWriter(&buf).Write(rep))

		assert.Contains(t, buf.String(), "No zombie VMs detected")
	})
}

func TestSQLiteWriter(t *testing.T) {
	outDir := t.TempDir()
	rep := report.New(classifyFixtures(t), 0)

	writer, err := report.NewSQLiteWriter(outDir)
	require.NoError(t, err)

	require.NoError(t, writer.Write(rep))
	require.NoError(t, writer.Close())

	// Reopening verifies rows survived the close.
	reopened, err := report.NewSQLiteWriter(outDir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	require.NoError(t, reopened.Write(rep))

	_, err = os.Stat(filepath.Join(outDir, report.SQLiteFileName))
	require.NoError(t, err)
}

func TestMultiWriter(t *testing.T) {
	rep := report.New(classifyFixtures(t), 0)

	var jsonBuf, csvBuf, markdownBuf bytes.Buffer
	multi := report.NewMultiWriter(
		report.NewJSONWriter(&jsonBuf),
		report.NewCSVWriter(&csvBuf),
		report.NewMarkdownWriter(&markdownBuf),
	)

	require.NoError(t, multi.Write(rep))
	require.NoError(t, multi.Close())

	assert.NotZero(t, jsonBuf.Len())
	assert.NotZero(t, csvBuf.Len())
	assert.NotZero(t, markdownBuf.Len())
}

func TestFileWriters(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "reports")
	rep := report.New(classifyFixtures(t), 0)

	jsonWriter, err := report.NewJSONFileWriter(outDir)
	require.NoError(t, err)

	csvWriter, err := report.NewCSVFileWriter(outDir)
	require.NoError(t, err)

	markdownWriter, err := report.NewMarkdownFileWriter(outDir)
	require.NoError(t, err)

	multi := report.NewMultiWriter(jsonWriter, csvWriter, markdownWriter)
	require.NoError(t, multi.Write(rep))
	require.NoError(t, multi.Close())

	for _, name := range []string{report.JSONFileName, report.CSVFileName, report.MarkdownFileName} {
		info, err := os.Stat(filepath.Join(outDir, name))
		require.NoError(t, err, name)
		assert.NotZero(t, info.Size(), name)
	}
}
