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
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/exitintel/vmxplan/internal/types"
)

var errWriteMarkdownReport = errors.New("writing markdown report")

// MarkdownFileName is the name of the narrative report file.
const MarkdownFileName = "report.md"

// maxReasonWidth truncates decision reasons in the top-risk table so the
// table stays readable.
const maxReasonWidth = 60

// compile-time interface check.
var _ Writer = (*MarkdownWriter)(nil)

// MarkdownWriter renders the narrative report: totals, risk and category
// breakdowns, the highest-risk table and the retire list.
type MarkdownWriter struct {
	out    io.Writer
	closer io.Closer
}

// NewMarkdownWriter returns a MarkdownWriter streaming to w.
func NewMarkdownWriter(w io.Writer) *MarkdownWriter {
	return &MarkdownWriter{out: w}
}

// NewMarkdownFileWriter returns a MarkdownWriter targeting report.md in
// outDir, creating the directory if needed.
func NewMarkdownFileWriter(outDir string) (*MarkdownWriter, error) {
	file, err := createReportFile(outDir, MarkdownFileName)
	if err != nil {
		return nil, errors.Join(err, errWriteMarkdownReport)
	}

	return &MarkdownWriter{out: file, closer: file}, nil
}

// Write renders the report.
func (w *MarkdownWriter) Write(rep Report) error {
	var b strings.Builder

	b.WriteString("# VM Migration Planning — Classification Report\n\n")
	fmt.Fprintf(&b, "- Run ID: `%s`\n", rep.RunID)
	fmt.Fprintf(&b, "- Generated at: %s\n", rep.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "- Total VMs analyzed: **%d**\n", rep.TotalVMs)

	b.WriteString("\n## Risk Level Breakdown\n\n")
	for _, level := range []types.RiskLevel{types.RiskHigh, types.RiskMedium, types.RiskLow} {
		fmt.Fprintf(&b, "- **%s**: %d\n", level, rep.Summary.RiskLevelCounts[level])
	}

	b.WriteString("\n## Migration Category Breakdown\n\n")
	for _, category := range sortedCategories(rep.Summary.CategoryCounts) {
		fmt.Fprintf(&b, "- **%s**: %d\n", category, rep.Summary.CategoryCounts[category])
	}

	fmt.Fprintf(&b, "\n## Top %d Highest-Risk & Action Items\n\n", len(rep.Summary.TopRisk))
	b.WriteString("| vm_id | name | risk | level | category | decision_reason |\n")
	b.WriteString("|---|---|---:|---|---|---|\n")

	for _, result := range rep.Summary.TopRisk {
		fmt.Fprintf(&b, "| %s | %s | %d | %s | %s | %s |\n",
			result.VMID,
			result.Name,
			result.RiskScore,
			result.RiskLevel,
			result.Category,
			truncate(primaryReason(result), maxReasonWidth),
		)
	}

	b.WriteString("\n## Retire (Zombie/Decommission) VMs\n\n")

	if len(rep.Summary.Retire) == 0 {
		b.WriteString("No zombie VMs detected (powered off beyond the retirement threshold).\n")
	} else {
		b.WriteString("| vm_id | name | powered_off_days | category | risk_score | action |\n")
		b.WriteString("|---|---|---:|---|---:|---|\n")

		for _, result := range rep.Summary.Retire {
			poweredOffDays := "n/a"
			if result.PoweredOffDays != nil {
				poweredOffDays = fmt.Sprintf("%v", *result.PoweredOffDays)
			}

			fmt.Fprintf(&b, "| %s | %s | %s | %s | %d | Decommission |\n",
				result.VMID,
				result.Name,
				poweredOffDays,
				result.Category,
				result.RiskScore,
			)
		}
	}

	b.WriteString("\n## Rules Applied\n\n")
	b.WriteString("Classifications are produced by a strict priority chain:\n\n")
	b.WriteString("1. **Zombie Detection**: powered off beyond the retirement threshold → Retire\n")
	b.WriteString("2. **Legacy OS**: Windows 2008/2003, RHEL 6, CentOS 6 → Keep (on-premises)\n")
	b.WriteString("3. **Complexity**: many snapshots, aged snapshots, multi-NIC, tools issues, large disk → Rehost\n")
	b.WriteString("4. **Refactor Candidate**: Linux + low risk + single NIC + small disk\n")
	b.WriteString("5. **Default**: Keep on-premises (conservative default)\n")

	if _, err := io.WriteString(w.out, b.String()); err != nil {
		return errors.Join(err, errWriteMarkdownReport)
	}

	return nil
}

// Close closes the underlying file, if any.
func (w *MarkdownWriter) Close() error {
	if w.closer == nil {
		return nil
	}

	return w.closer.Close()
}

func sortedCategories(counts map[types.Category]int) []types.Category {
	categories := make([]types.Category, 0, len(counts))
	for category := range counts {
		categories = append(categories, category)
	}

	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	return categories
}

func primaryReason(result types.Classification) string {
	if len(result.Reasons) == 0 {
		return "Unknown"
	}

	return result.Reasons[0]
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}

	return s[:width-3] + "..."
}
