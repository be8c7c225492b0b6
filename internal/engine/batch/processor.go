package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Default batch processing configuration.
const (
	// DefaultBatchSize is the default number of items per batch.
	DefaultBatchSize = 50

	// DefaultConcurrency is the default number of batches in flight.
	DefaultConcurrency = 4

	// MinBatchSize is the minimum allowed batch size.
	MinBatchSize = 1

	// MaxBatchSize is the maximum allowed batch size.
	MaxBatchSize = 1000
)

// Common batch processing errors.
var (
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 1000")
	ErrNilFunc          = errors.New("batch function cannot be nil")
	ErrEmptyItems       = errors.New("items slice cannot be empty")
	ErrItemPanicked     = errors.New("batch item panicked")
)

// Func processes one item.
type Func[T, R any] func(ctx context.Context, item T) (R, error)

// Outcome is the result of one item, at the same index as its input.
type Outcome[R any] struct {
	Index int
	Value R
	Err   error
}

// ProgressCallback is invoked after each batch completes.
type ProgressCallback func(snapshot ProgressSnapshot)

// Processor maps items to outcomes batch by batch.
type Processor[T, R any] struct {
	batchSize   int
	concurrency int
	onProgress  ProgressCallback
}

// NewProcessor creates a processor. concurrency below 1 is treated as 1.
func NewProcessor[T, R any](batchSize, concurrency int) (*Processor[T, R], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, ErrInvalidBatchSize
	}
	return &Processor[T, R]{
		batchSize:   batchSize,
		concurrency: max(1, concurrency),
	}, nil
}

// NewProcessorWithDefaults creates a processor with the default batch size
// and concurrency.
func NewProcessorWithDefaults[T, R any]() *Processor[T, R] {
	return &Processor[T, R]{
		batchSize:   DefaultBatchSize,
		concurrency: DefaultConcurrency,
	}
}

// WithProgressCallback sets a progress callback for the processor.
func (p *Processor[T, R]) WithProgressCallback(callback ProgressCallback) *Processor[T, R] {
	p.onProgress = callback
	return p
}

// BatchSize returns the configured batch size.
func (p *Processor[T, R]) BatchSize() int { return p.batchSize }

// Map applies fn to every item and returns one Outcome per item in input
// order. Item errors are reported in the outcomes; the returned error is
// non-nil only for invalid arguments or a cancelled context.
func (p *Processor[T, R]) Map(ctx context.Context, items []T, fn Func[T, R]) ([]Outcome[R], error) {
	if len(items) == 0 {
		return nil, ErrEmptyItems
	}
	if fn == nil {
		return nil, ErrNilFunc
	}

	outcomes := make([]Outcome[R], len(items))
	bounds := CalculateBatches(len(items), p.batchSize)
	progress := NewProgress(len(items), len(bounds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, b := range bounds {
		g.Go(func() error {
			failed := 0
			for i := b[0]; i < b[1]; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				v, err := call(gctx, fn, items[i])
				outcomes[i] = Outcome[R]{Index: i, Value: v, Err: err}
				if err != nil {
					failed++
				}
			}
			progress.AddBatch(b[1]-b[0], failed)
			if p.onProgress != nil {
				p.onProgress(progress.Snapshot())
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// call runs fn, turning a panic into an error so one item cannot take down
// the process.
func call[T, R any](ctx context.Context, fn Func[T, R], item T) (v R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrItemPanicked, r)
		}
	}()
	return fn(ctx, item)
}

// CalculateBatches returns [start, end) index pairs covering totalItems.
func CalculateBatches(totalItems, batchSize int) [][2]int {
	if totalItems <= 0 || batchSize <= 0 {
		return nil
	}
	n := (totalItems + batchSize - 1) / batchSize
	out := make([][2]int, n)
	for i := range n {
		start := i * batchSize
		out[i] = [2]int{start, min(start+batchSize, totalItems)}
	}
	return out
}
