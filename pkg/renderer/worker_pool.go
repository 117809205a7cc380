package renderer

import (
	"context"
	"fmt"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// Band is a contiguous range of image rows rendered by a single worker
type Band struct {
	Index  int // Position of the band from the top of the image
	Y0, Y1 int // Rows [Y0, Y1)
}

// Rows returns the number of rows in the band
func (b Band) Rows() int {
	return b.Y1 - b.Y0
}

// PartitionBands splits height rows into one contiguous band per worker. The bands are disjoint,
// cover every row, and any remainder goes to the last band. threads is clamped to [1, height].
func PartitionBands(height, threads int) []Band {
	if height <= 0 {
		return nil
	}
	threads = max(1, min(threads, height))

	rowsPerBand := height / threads
	bands := make([]Band, threads)
	for i := range bands {
		bands[i] = Band{
			Index: i,
			Y0:    i * rowsPerBand,
			Y1:    (i + 1) * rowsPerBand,
		}
	}
	bands[threads-1].Y1 = height

	return bands
}

// BandError reports a worker that panicked while rendering its band
type BandError struct {
	Band  Band
	Value any    // Value passed to panic
	Stack []byte // Stack of the panicking goroutine
}

func (e *BandError) Error() string {
	return fmt.Sprintf("band %d (rows %d-%d) failed: %v", e.Band.Index, e.Band.Y0, e.Band.Y1-1, e.Value)
}

// Unwrap returns the panic value when it was an error
func (e *BandError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// renderBands runs work once per band, each on its own goroutine, and waits for all of them.
// The first failure cancels the context passed to the remaining workers and is returned;
// a panic is recovered and returned as a *BandError.
func renderBands(ctx context.Context, bands []Band, work func(ctx context.Context, band Band) error) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, band := range bands {
		band := band
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = &BandError{Band: band, Value: r, Stack: debug.Stack()}
				}
			}()
			return work(ctx, band)
		})
	}

	return g.Wait()
}
