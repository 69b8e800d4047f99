// Package identify turns one drawing page into a sheet-index entry or an
// explicit reason why none could be produced.
//
// Locate and Resolve are pure. Identifier wraps them with the external
// detection and re-extraction round trips, which are the only parts that
// retry, block, or log.
package identify

import (
	"github.com/jackzampolin/sheetindex/internal/geometry"
	"github.com/jackzampolin/sheetindex/internal/sheetid"
	"github.com/jackzampolin/sheetindex/internal/titleblock"
)

// Stage is the last pipeline state a page reached.
type Stage string

const (
	StageRawHits        Stage = "raw_hits"
	StageClustered      Stage = "clustered"
	StageSelectedRegion Stage = "selected_region"
	StageRawCandidates  Stage = "raw_candidates"
	StageNormalized     Stage = "normalized"
	StageValidated      Stage = "validated"
	StageChosen         Stage = "chosen"
)

// Status is the terminal outcome of a page.
type Status string

const (
	StatusIdentified   Status = "identified"
	StatusNoTitleBlock Status = "no_title_block"
	StatusNoCandidates Status = "no_candidates"
	StatusRejected     Status = "rejected"
	StatusError        Status = "error"
)

// SheetIndexEntry is the identifier produced for a page.
type SheetIndexEntry struct {
	SheetID         string             `json:"sheet_id"`
	SheetTitle      *string            `json:"sheet_title,omitempty"`
	Discipline      sheetid.Discipline `json:"discipline"`
	Confidence      float64            `json:"confidence"`
	EvidenceSnipRef *string            `json:"evidence_snip_ref,omitempty"`
}

// Outcome reports what happened to one page. Entry is set only when
// Status is identified; every other status carries a Detail, and rejected
// or error outcomes also carry a Reason.
type Outcome struct {
	PageNum int                     `json:"page_num"`
	Status  Status                  `json:"status"`
	Stage   Stage                   `json:"stage"`
	Reason  sheetid.RejectionReason `json:"rejection_reason,omitempty"`
	Detail  string                  `json:"detail,omitempty"`
	Entry   *SheetIndexEntry        `json:"entry,omitempty"`

	Cluster *titleblock.LabelCluster `json:"cluster,omitempty"`
	Region  *geometry.PixelBox       `json:"region,omitempty"`

	Number      *sheetid.NumberResult   `json:"number,omitempty"`
	Title       *sheetid.TitleResult    `json:"title,omitempty"`
	TitleReason sheetid.RejectionReason `json:"title_rejection_reason,omitempty"`
}

// Identified reports whether the page produced an entry.
func (o Outcome) Identified() bool {
	return o.Status == StatusIdentified && o.Entry != nil
}

func internalError(pageNum int, stage Stage, detail string) Outcome {
	return Outcome{
		PageNum: pageNum,
		Status:  StatusError,
		Stage:   stage,
		Reason:  sheetid.ReasonInternalError,
		Detail:  detail,
	}
}
