// Package export renders candidate pipelines as Excel workbooks.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"hireflow/pkg/models"
)

// Sheet names
const (
	CandidatesSheet = "Candidates"
	SummarySheet    = "Summary"
)

var candidateHeaders = []string{
	"Name", "Email", "Phone", "Location", "Position", "Experience", "Skills",
	"Status", "Applied", "Overall", "Technical", "Cultural", "Communication",
}

// WriteCandidates writes a workbook with one row per candidate and a
// per-status summary to w
func WriteCandidates(w io.Writer, candidates []models.Candidate, generated time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", CandidatesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	if err := writeCandidateSheet(f, headerStyle, candidates); err != nil {
		return fmt.Errorf("failed to create candidates sheet: %w", err)
	}
	if err := writeSummarySheet(f, headerStyle, candidates, generated); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeCandidateSheet(f *excelize.File, headerStyle int, candidates []models.Candidate) error {
	if err := setRow(f, CandidatesSheet, 1, toAny(candidateHeaders)); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(candidateHeaders), 1)
	if err := f.SetCellStyle(CandidatesSheet, "A1", last, headerStyle); err != nil {
		return err
	}
	f.SetColWidth(CandidatesSheet, "A", "B", 28)
	f.SetColWidth(CandidatesSheet, "C", "G", 18)

	for i, c := range candidates {
		row := []interface{}{
			c.Name, c.Email, c.Phone, c.Location, c.Position, c.Experience,
			strings.Join(c.Skills, ", "), string(c.Status), c.AppliedDate,
			c.Evaluation.Overall, c.Evaluation.Technical, c.Evaluation.Cultural, c.Evaluation.Communication,
		}
		if err := setRow(f, CandidatesSheet, i+2, row); err != nil {
			return err
		}
	}

	return f.SetPanes(CandidatesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeSummarySheet(f *excelize.File, headerStyle int, candidates []models.Candidate, generated time.Time) error {
	f.SetColWidth(SummarySheet, "A", "A", 24)

	counts := make(map[models.CandidateStatus]int, len(models.CandidateStatuses))
	for _, c := range candidates {
		counts[c.Status]++
	}

	rows := [][]interface{}{
		{"Generated", generated.UTC().Format(time.RFC3339)},
		{"Total Candidates", len(candidates)},
		{},
		{"Status", "Count"},
	}
	for _, status := range models.CandidateStatuses {
		rows = append(rows, []interface{}{string(status), counts[status]})
	}

	for i, row := range rows {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}
	return f.SetCellStyle(SummarySheet, "A4", "B4", headerStyle)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	if len(values) == 0 {
		return nil
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
