// Package export writes identification results as an XLSX sheet index.
package export

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/jackzampolin/sheetindex/internal/identify"
)

const (
	IndexSheet        = "Sheet Index"
	UnidentifiedSheet = "Unidentified"
)

var (
	indexHeaders = []string{
		"Page",
		"Sheet ID",
		"Sheet Title",
		"Discipline",
		"Confidence",
		"Evidence Ref",
		"Title Note",
	}
	unidentifiedHeaders = []string{
		"Page",
		"Status",
		"Stage",
		"Reason",
		"Detail",
	}
)

// Workbook builds the sheet index workbook for one document. Identified
// pages go on the index sheet, everything else on the unidentified sheet,
// both in the order given.
func Workbook(documentID string, outcomes []identify.Outcome) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", IndexSheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	if _, err := f.NewSheet(UnidentifiedSheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex(IndexSheet); err == nil {
		f.SetActiveSheet(idx)
	}
	_ = f.SetDocProps(&excelize.DocProperties{
		Title:   documentID,
		Subject: "Sheet index",
	})

	writeRow(f, IndexSheet, 1, toAny(indexHeaders))
	writeRow(f, UnidentifiedSheet, 1, toAny(unidentifiedHeaders))

	indexRow, otherRow := 2, 2
	for _, o := range outcomes {
		if o.Identified() {
			e := o.Entry
			writeRow(f, IndexSheet, indexRow, []any{
				o.PageNum,
				e.SheetID,
				deref(e.SheetTitle),
				string(e.Discipline),
				e.Confidence,
				deref(e.EvidenceSnipRef),
				string(o.TitleReason),
			})
			indexRow++
			continue
		}
		writeRow(f, UnidentifiedSheet, otherRow, []any{
			o.PageNum,
			string(o.Status),
			string(o.Stage),
			string(o.Reason),
			o.Detail,
		})
		otherRow++
	}

	_ = f.SetColWidth(IndexSheet, "A", "A", 8)  // page
	_ = f.SetColWidth(IndexSheet, "B", "B", 12) // sheet id
	_ = f.SetColWidth(IndexSheet, "C", "C", 40) // title
	_ = f.SetColWidth(IndexSheet, "D", "E", 18)
	_ = f.SetColWidth(IndexSheet, "F", "F", 38) // evidence ref
	_ = f.SetColWidth(IndexSheet, "G", "G", 20)
	_ = f.SetColWidth(UnidentifiedSheet, "A", "A", 8)
	_ = f.SetColWidth(UnidentifiedSheet, "B", "D", 20)
	_ = f.SetColWidth(UnidentifiedSheet, "E", "E", 60) // detail

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteWorkbook writes the workbook to path.
func WriteWorkbook(path, documentID string, outcomes []identify.Outcome) error {
	data, err := Workbook(documentID, outcomes)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
