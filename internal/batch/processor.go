package batch

import (
	"context"
	"errors"
	"fmt"
)

// Batch size limits.
const (
	DefaultSize = 100
	MinSize     = 1
	MaxSize     = 1000
)

var (
	ErrInvalidSize = errors.New("batch size must be between 1 and 1000")
	ErrNilCallback = errors.New("batch callback cannot be nil")
)

// Callback handles one chunk. index is 0-based.
type Callback[T any] func(ctx context.Context, chunk []T, index int) error

// ProgressFunc is invoked after every successful chunk.
type ProgressFunc func(p Progress)

// Processor feeds a slice to a Callback in chunks of a fixed size.
type Processor[T any] struct {
	size       int
	onProgress ProgressFunc
}

// NewProcessor returns a Processor with the given chunk size.
func NewProcessor[T any](size int) (*Processor[T], error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	return &Processor[T]{size: size}, nil
}

// WithProgress sets a callback for progress updates.
func (p *Processor[T]) WithProgress(fn ProgressFunc) *Processor[T] {
	p.onProgress = fn
	return p
}

// Size returns the configured chunk size.
func (p *Processor[T]) Size() int {
	return p.size
}

// Process runs fn over items sequentially and stops at the first error.
// Chunks before the failing one have already been handled; the returned
// Progress says how far processing got. An empty slice is a no-op.
func (p *Processor[T]) Process(ctx context.Context, items []T, fn Callback[T]) (Progress, error) {
	if fn == nil {
		return Progress{}, ErrNilCallback
	}

	progress := Progress{TotalItems: len(items), TotalBatches: p.Count(len(items))}
	for i, bounds := range p.Bounds(len(items)) {
		if err := ctx.Err(); err != nil {
			return progress, err
		}

		chunk := items[bounds[0]:bounds[1]]
		if err := fn(ctx, chunk, i); err != nil {
			return progress, fmt.Errorf("batch %d failed: %w", i, err)
		}

		progress.ProcessedItems += len(chunk)
		progress.ProcessedBatches++
		if p.onProgress != nil {
			p.onProgress(progress)
		}
	}
	return progress, nil
}

// Count returns how many chunks n items split into.
func (p *Processor[T]) Count(n int) int {
	return (n + p.size - 1) / p.size
}

// Bounds returns the [start, end) index pair of every chunk.
func (p *Processor[T]) Bounds(n int) [][2]int {
	out := make([][2]int, p.Count(n))
	for i := range out {
		start := i * p.size
		out[i] = [2]int{start, min(start+p.size, n)}
	}
	return out
}
