// Package jobs runs page identification on a bounded worker pool.
package jobs

import (
	"context"
	"errors"

	"github.com/jackzampolin/sheetindex/internal/identify"
)

var (
	// ErrPoolClosed is returned when work is submitted to a stopped pool.
	ErrPoolClosed = errors.New("pool closed")

	// ErrPoolNotStarted is returned when work is submitted before Start.
	ErrPoolNotStarted = errors.New("pool not started")
)

// PageIdentifier identifies a single page. *identify.Identifier
// implements it.
type PageIdentifier interface {
	IdentifyPage(ctx context.Context, page identify.Page) identify.Outcome
}

// PoolStatus reports a pool's current state.
type PoolStatus struct {
	Name       string `json:"name"`
	Workers    int    `json:"workers"`
	Running    bool   `json:"running"`
	InFlight   int    `json:"in_flight"`
	QueueDepth int    `json:"queue_depth"`
	Processed  int64  `json:"processed"`
}

// WorkUnit is one page queued for identification.
type WorkUnit struct {
	ID   string
	Seq  int // position in the submitting batch
	Page identify.Page

	// ctx is the submitter's context; the unit is skipped once it is done.
	ctx        context.Context
	identifier PageIdentifier
	reply      chan<- unitResult
}

// unitResult pairs an outcome with the unit that produced it.
type unitResult struct {
	Seq     int
	UnitID  string
	Outcome identify.Outcome
}

var _ PageIdentifier = (*identify.Identifier)(nil)
