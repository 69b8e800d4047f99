package export

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/jackzampolin/sheetindex/internal/identify"
	"github.com/jackzampolin/sheetindex/internal/sheetid"
)

func sampleOutcomes() []identify.Outcome {
	title := "FIRST FLOOR PLAN"
	ref := "0b6f2a4c-8a51-5a57-9c1e-1f2a3b4c5d6e"
	return []identify.Outcome{
		{
			PageNum: 1,
			Status:  identify.StatusIdentified,
			Stage:   identify.StageChosen,
			Entry: &identify.SheetIndexEntry{
				SheetID:         "A101",
				SheetTitle:      &title,
				Discipline:      sheetid.Architectural,
				Confidence:      1,
				EvidenceSnipRef: &ref,
			},
		},
		{
			PageNum: 2,
			Status:  identify.StatusNoTitleBlock,
			Stage:   identify.StageClustered,
			Detail:  "fewer than 2 label hits (1)",
		},
		{
			PageNum:     3,
			Status:      identify.StatusIdentified,
			Stage:       identify.StageChosen,
			TitleReason: sheetid.ReasonScaleJunk,
			Entry: &identify.SheetIndexEntry{
				SheetID:    "S201",
				Discipline: sheetid.Structural,
				Confidence: 0.6,
			},
		},
		{
			PageNum: 4,
			Status:  identify.StatusRejected,
			Stage:   identify.StageValidated,
			Reason:  sheetid.ReasonInvalidNumberPattern,
			Detail:  "no valid sheet number among 1 candidates",
		},
	}
}

func TestWorkbook(t *testing.T) {
	data, err := Workbook("tower-a", sampleOutcomes())
	if err != nil {
		t.Fatalf("Workbook() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 2 || got[0] != IndexSheet || got[1] != UnidentifiedSheet {
		t.Fatalf("sheets = %v", got)
	}

	index, err := f.GetRows(IndexSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(index) != 3 {
		t.Fatalf("index has %d rows, want 3", len(index))
	}
	if index[0][1] != "Sheet ID" {
		t.Errorf("header = %v", index[0])
	}
	if index[1][0] != "1" || index[1][1] != "A101" || index[1][2] != "FIRST FLOOR PLAN" || index[1][3] != "Architectural" {
		t.Errorf("row 2 = %v", index[1])
	}
	if index[2][1] != "S201" || index[2][2] != "" || index[2][6] != "scale_junk" {
		t.Errorf("row 3 = %v", index[2])
	}

	other, err := f.GetRows(UnidentifiedSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(other) != 3 {
		t.Fatalf("unidentified has %d rows, want 3", len(other))
	}
	if other[1][1] != "no_title_block" || other[2][3] != "invalid_number_pattern" {
		t.Errorf("unidentified rows = %v", other[1:])
	}

	props, err := f.GetDocProps()
	if err != nil || props.Title != "tower-a" {
		t.Errorf("doc props = %+v, %v", props, err)
	}
}

func TestWriteWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.xlsx")
	if err := WriteWorkbook(path, "tower-a", nil); err != nil {
		t.Fatalf("WriteWorkbook() error = %v", err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	defer f.Close()
	rows, _ := f.GetRows(IndexSheet)
	if len(rows) != 1 {
		t.Errorf("empty export should hold only the header, got %d rows", len(rows))
	}
}
