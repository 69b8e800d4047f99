package providers

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackzampolin/sheetindex/internal/geometry"
	"github.com/jackzampolin/sheetindex/internal/titleblock"
)

const MockProviderName = "mock"

// MockDetector is a LabelDetector for testing.
type MockDetector struct {
	ProviderName string
	Latency      time.Duration
	ShouldFail   bool
	FailAfter    int // Fail after N requests (0 = never)
	Hits         []titleblock.LabelHit
	RenderWidth  float64
	RenderHeight float64
	RPS          float64
	Retries      int
	RetryDelay   time.Duration

	requestCount atomic.Int64
}

// NewMockDetector creates a mock detector returning hits.
func NewMockDetector(hits []titleblock.LabelHit, renderW, renderH float64) *MockDetector {
	return &MockDetector{
		ProviderName: MockProviderName,
		Hits:         hits,
		RenderWidth:  renderW,
		RenderHeight: renderH,
		RPS:          10,
		Retries:      3,
		RetryDelay:   time.Millisecond,
	}
}

func (d *MockDetector) Name() string                  { return d.ProviderName }
func (d *MockDetector) RequestsPerSecond() float64    { return d.RPS }
func (d *MockDetector) MaxRetries() int               { return d.Retries }
func (d *MockDetector) RetryDelayBase() time.Duration { return d.RetryDelay }

// DetectLabels returns the configured hits.
func (d *MockDetector) DetectLabels(ctx context.Context, image []byte, pageNum int) (*DetectResult, error) {
	start := time.Now()
	count := d.requestCount.Add(1)

	if d.ShouldFail {
		return nil, fmt.Errorf("mock detector configured to fail")
	}
	if d.FailAfter > 0 && int(count) > d.FailAfter {
		return nil, fmt.Errorf("mock detector failed after %d requests", d.FailAfter)
	}
	if err := sleepCtx(ctx, d.Latency); err != nil {
		return nil, err
	}

	hits := make([]titleblock.LabelHit, len(d.Hits))
	copy(hits, d.Hits)
	return &DetectResult{
		Hits:          hits,
		RenderWidth:   d.RenderWidth,
		RenderHeight:  d.RenderHeight,
		ExecutionTime: time.Since(start),
		Provider:      d.ProviderName,
	}, nil
}

// RequestCount returns the number of requests made.
func (d *MockDetector) RequestCount() int64 {
	return d.requestCount.Load()
}

// MockReader is a RegionReader for testing.
type MockReader struct {
	ProviderName     string
	Latency          time.Duration
	ShouldFail       bool
	FailFirst        int   // Fail the first N requests, then succeed
	Err              error // Returned by every request when set
	NumberCandidates []string
	TitleCandidates  []string
	RPS              float64
	Retries          int
	RetryDelay       time.Duration

	requestCount atomic.Int64
	lastRegion   atomic.Pointer[geometry.PixelBox]
}

// NewMockReader creates a mock reader returning the given candidates.
func NewMockReader(numbers, titles []string) *MockReader {
	return &MockReader{
		ProviderName:     MockProviderName,
		NumberCandidates: numbers,
		TitleCandidates:  titles,
		RPS:              10,
		Retries:          3,
		RetryDelay:       time.Millisecond,
	}
}

func (r *MockReader) Name() string                  { return r.ProviderName }
func (r *MockReader) RequestsPerSecond() float64    { return r.RPS }
func (r *MockReader) MaxRetries() int               { return r.Retries }
func (r *MockReader) RetryDelayBase() time.Duration { return r.RetryDelay }

// ReadRegion returns the configured candidates.
func (r *MockReader) ReadRegion(ctx context.Context, image []byte, region geometry.PixelBox, pageNum int) (*RegionText, error) {
	start := time.Now()
	count := r.requestCount.Add(1)
	r.lastRegion.Store(&region)

	if r.Err != nil {
		return nil, r.Err
	}
	if r.ShouldFail {
		return nil, fmt.Errorf("mock reader configured to fail")
	}
	if r.FailFirst > 0 && int(count) <= r.FailFirst {
		return nil, fmt.Errorf("mock reader failure %d of %d", count, r.FailFirst)
	}
	if err := sleepCtx(ctx, r.Latency); err != nil {
		return nil, err
	}

	return &RegionText{
		NumberCandidates: append([]string(nil), r.NumberCandidates...),
		TitleCandidates:  append([]string(nil), r.TitleCandidates...),
		ExecutionTime:    time.Since(start),
		Provider:         r.ProviderName,
	}, nil
}

// RequestCount returns the number of requests made.
func (r *MockReader) RequestCount() int64 {
	return r.requestCount.Load()
}

// LastRegion returns the region from the most recent request.
func (r *MockReader) LastRegion() (geometry.PixelBox, bool) {
	p := r.lastRegion.Load()
	if p == nil {
		return geometry.PixelBox{}, false
	}
	return *p, true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Verify interfaces
var (
	_ LabelDetector = (*MockDetector)(nil)
	_ RegionReader  = (*MockReader)(nil)
)
