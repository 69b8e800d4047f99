package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/jackzampolin/sheetindex/internal/identify"
	"github.com/jackzampolin/sheetindex/internal/sheetid"
)

// PagePool identifies pages on a fixed set of workers.
// All workers share a single queue; natural load balancing via Go channel
// semantics. Identification is pure apart from provider calls, so
// workers share nothing but the queue.
type PagePool struct {
	name        string
	logger      *slog.Logger
	workerCount int

	queue chan *WorkUnit

	started atomic.Bool
	ready   chan struct{}
	stopped chan struct{}
	stop    sync.Once

	inFlight  atomic.Int32
	processed atomic.Int64
}

// PagePoolConfig configures a new page pool.
type PagePoolConfig struct {
	Name        string
	Logger      *slog.Logger
	WorkerCount int // Number of worker goroutines (default: runtime.NumCPU())
	QueueSize   int // Queue size (default: 1000)
}

// NewPagePool creates a new page pool. Call Start before Process.
func NewPagePool(cfg PagePoolConfig) *PagePool {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	name := cfg.Name
	if name == "" {
		name = "pages"
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 1000
	}

	workerCount := cfg.WorkerCount
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	return &PagePool{
		name:        name,
		logger:      logger.With("pool", name, "workers", workerCount),
		workerCount: workerCount,
		queue:       make(chan *WorkUnit, queueSize),
		ready:       make(chan struct{}),
		stopped:     make(chan struct{}),
	}
}

// Name returns the pool name.
func (p *PagePool) Name() string {
	return p.name
}

// Ready is closed once Start has been called.
func (p *PagePool) Ready() <-chan struct{} {
	return p.ready
}

// Start begins the pool's processing. Blocks until ctx cancelled.
func (p *PagePool) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		p.logger.Warn("pool already started")
		return
	}
	p.logger.Info("page pool starting")
	close(p.ready)

	var wg sync.WaitGroup
	for i := 0; i < p.workerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.worker(ctx, id)
		}(i)
	}

	<-ctx.Done()
	p.stop.Do(func() { close(p.stopped) })
	wg.Wait()
	p.logger.Info("pool stopped", "processed", p.processed.Load())
}

// worker processes work units from the shared queue.
func (p *PagePool) worker(ctx context.Context, id int) {
	p.logger.Debug("page worker started", "worker_id", id)
	for {
		select {
		case <-ctx.Done():
			return

		case unit := <-p.queue:
			if err := unit.ctx.Err(); err != nil {
				p.logger.Debug("skipping abandoned unit", "worker_id", id, "unit_id", unit.ID, "page", unit.Page.Num)
				unit.reply <- unitResult{Seq: unit.Seq, UnitID: unit.ID, Outcome: identify.Outcome{
					PageNum: unit.Page.Num,
					Status:  identify.StatusError,
					Stage:   identify.StageRawHits,
					Reason:  sheetid.ReasonInternalError,
					Detail:  fmt.Sprintf("cancelled before processing: %v", err),
				}}
				continue
			}
			p.inFlight.Add(1)
			out := p.run(ctx, unit)
			p.inFlight.Add(-1)
			p.processed.Add(1)
			p.logger.Debug("page worker completed unit",
				"worker_id", id,
				"unit_id", unit.ID,
				"page", unit.Page.Num,
				"status", out.Status)
			unit.reply <- unitResult{Seq: unit.Seq, UnitID: unit.ID, Outcome: out}
		}
	}
}

// run identifies one unit under a context that ends when either the pool or
// the submitter is done.
func (p *PagePool) run(poolCtx context.Context, unit *WorkUnit) identify.Outcome {
	ctx, cancel := context.WithCancel(unit.ctx)
	defer cancel()
	stop := context.AfterFunc(poolCtx, cancel)
	defer stop()
	return unit.identifier.IdentifyPage(ctx, unit.Page)
}

// Submit adds a work unit to the queue, waiting for space until ctx is done.
func (p *PagePool) Submit(ctx context.Context, unit *WorkUnit) error {
	if !p.started.Load() {
		return fmt.Errorf("%w: %s", ErrPoolNotStarted, p.name)
	}
	select {
	case <-p.stopped:
		return fmt.Errorf("%w: %s", ErrPoolClosed, p.name)
	default:
	}

	if unit.ctx == nil {
		unit.ctx = ctx
	}

	select {
	case p.queue <- unit:
		return nil
	case <-p.stopped:
		return fmt.Errorf("%w: %s", ErrPoolClosed, p.name)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Process identifies pages with ident and returns outcomes in input order.
// It returns early with ctx's error if ctx is done first.
func (p *PagePool) Process(ctx context.Context, ident PageIdentifier, pages []identify.Page) ([]identify.Outcome, error) {
	if len(pages) == 0 {
		return nil, nil
	}

	reply := make(chan unitResult, len(pages))
	for i, page := range pages {
		unit := &WorkUnit{
			ID:         uuid.New().String(),
			Seq:        i,
			Page:       page,
			ctx:        ctx,
			identifier: ident,
			reply:      reply,
		}
		if err := p.Submit(ctx, unit); err != nil {
			return nil, err
		}
	}

	outcomes := make([]identify.Outcome, len(pages))
	for range pages {
		select {
		case res := <-reply:
			outcomes[res.Seq] = res.Outcome
		case <-p.stopped:
			return nil, fmt.Errorf("%w: %s", ErrPoolClosed, p.name)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return outcomes, nil
}

// Status returns current pool status.
func (p *PagePool) Status() PoolStatus {
	running := p.started.Load()
	select {
	case <-p.stopped:
		running = false
	default:
	}
	return PoolStatus{
		Name:       p.name,
		Workers:    p.workerCount,
		Running:    running,
		InFlight:   int(p.inFlight.Load()),
		QueueDepth: len(p.queue),
		Processed:  p.processed.Load(),
	}
}
