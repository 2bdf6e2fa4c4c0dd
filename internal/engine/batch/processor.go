package batch

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBatchSize is the number of items per batch when none is given.
	DefaultBatchSize = 100

	// MinBatchSize is the smallest allowed batch size.
	MinBatchSize = 1

	// MaxBatchSize is the largest allowed batch size.
	MaxBatchSize = 1000
)

type constError string

func (e constError) Error() string { return string(e) }

const (
	// ErrInvalidBatchSize reports a batch size outside [MinBatchSize, MaxBatchSize].
	ErrInvalidBatchSize = constError("batch size out of range")

	// ErrNilCallback reports a nil batch callback.
	ErrNilCallback = constError("batch callback cannot be nil")

	// ErrEmptyItems reports an empty item slice.
	ErrEmptyItems = constError("items slice cannot be empty")
)

// Callback processes one batch. index is the 0-based batch position; the
// batch slice aliases the caller's items and must not be retained after the
// callback returns.
type Callback[T any] func(ctx context.Context, batch []T, index int) error

// ProgressFunc is invoked after each completed batch. Under ProcessConcurrent
// it runs from worker goroutines; read state through Progress methods, which
// lock internally.
type ProgressFunc func(p *Progress)

// Processor runs batched work over items of type T.
type Processor[T any] struct {
	batchSize  int
	onProgress ProgressFunc
}

// NewProcessor returns a processor with the given batch size.
func NewProcessor[T any](batchSize int) (*Processor[T], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d, want %d..%d", ErrInvalidBatchSize, batchSize, MinBatchSize, MaxBatchSize)
	}
	return &Processor[T]{batchSize: batchSize}, nil
}

// NewProcessorWithDefaults returns a processor using DefaultBatchSize.
func NewProcessorWithDefaults[T any]() *Processor[T] {
	return &Processor[T]{batchSize: DefaultBatchSize}
}

// WithProgressCallback sets the per-batch progress callback and returns the
// processor for chaining.
func (p *Processor[T]) WithProgressCallback(fn ProgressFunc) *Processor[T] {
	p.onProgress = fn
	return p
}

// BatchSize returns the configured batch size.
func (p *Processor[T]) BatchSize() int { return p.batchSize }

// Process runs batches sequentially, stopping at the first error or context
// cancellation.
func (p *Processor[T]) Process(ctx context.Context, items []T, callback Callback[T]) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	if callback == nil {
		return ErrNilCallback
	}

	total := p.totalBatches(len(items))
	progress := NewProgress(len(items), total)

	for index := range total {
		if err := ctx.Err(); err != nil {
			return err
		}

		start, end := p.bounds(index, len(items))
		batch := items[start:end]
		if err := callback(ctx, batch, index); err != nil {
			return fmt.Errorf("batch %d failed: %w", index, err)
		}

		progress.AddProcessed(len(batch))
		if p.onProgress != nil {
			p.onProgress(progress)
		}
	}

	return nil
}

// ProcessConcurrent runs batches with at most maxConcurrency in flight. The
// first batch error cancels the remaining batches and is returned from the
// wait; batches already running finish their callback.
func (p *Processor[T]) ProcessConcurrent(ctx context.Context, items []T, callback Callback[T], maxConcurrency int) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	if callback == nil {
		return ErrNilCallback
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	total := p.totalBatches(len(items))
	progress := NewProgress(len(items), total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)

	for index := range total {
		start, end := p.bounds(index, len(items))
		batch := items[start:end]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := callback(gctx, batch, index); err != nil {
				return fmt.Errorf("batch %d failed: %w", index, err)
			}

			progress.AddProcessed(len(batch))
			if p.onProgress != nil {
				p.onProgress(progress)
			}
			return nil
		})
	}

	return g.Wait()
}

// bounds returns the [start, end) item range of batch index.
func (p *Processor[T]) bounds(index, totalItems int) (start, end int) {
	start = index * p.batchSize
	end = min(start+p.batchSize, totalItems)
	return start, end
}

// totalBatches returns how many batches cover totalItems.
func (p *Processor[T]) totalBatches(totalItems int) int {
	batches := totalItems / p.batchSize
	if totalItems%p.batchSize > 0 {
		batches++
	}
	return batches
}
