package scan

import (
	"fmt"
	"io"
	"time"

	"github.com/pingcap-incubator/asbatch/measurement"
	"github.com/pingcap-incubator/asbatch/metrics"
	"github.com/pingcap-incubator/asbatch/store"
	"github.com/pingcap/errors"
)

// Processor handles one batch of records. The batch slice is owned by the
// processor once passed in; tail is set for the final partial batch.
type Processor interface {
	Process(batch []*store.Record, tail bool) error
}

// ProcessorFunc adapts a function to Processor.
type ProcessorFunc func(batch []*store.Record, tail bool) error

// Process implements Processor.
func (f ProcessorFunc) Process(batch []*store.Record, tail bool) error {
	return f(batch, tail)
}

// ProgressProcessor prints a "+" per record followed by a summary line.
// It stands in for real bulk processing.
type ProgressProcessor struct {
	w io.Writer
}

// NewProgressProcessor creates a ProgressProcessor writing to w.
func NewProgressProcessor(w io.Writer) *ProgressProcessor {
	return &ProgressProcessor{w: w}
}

// Process implements Processor.
func (p *ProgressProcessor) Process(batch []*store.Record, tail bool) error {
	buf := make([]byte, 0, len(batch)+1)
	for range batch {
		buf = append(buf, '+')
	}
	buf = append(buf, '\n')
	if _, err := p.w.Write(buf); err != nil {
		return errors.Trace(err)
	}
	kind := ""
	if tail {
		kind = " (final partial batch)"
	}
	_, err := fmt.Fprintf(p.w, "Processed %d records%s\n", len(batch), kind)
	return errors.Trace(err)
}

// Batcher accumulates records and hands them to a Processor in batches of
// size. A batch is flushed when a record arrives and the buffer is already
// full, so the last records stay pending until FlushTail.
type Batcher struct {
	size int
	proc Processor

	buf     []*store.Record
	batches int
	flushed int64
}

// NewBatcher creates a Batcher. size must be positive.
func NewBatcher(size int, proc Processor) *Batcher {
	return &Batcher{
		size: size,
		proc: proc,
		buf:  make([]*store.Record, 0, size),
	}
}

// Add appends rec, flushing the buffer first if it holds size records.
func (b *Batcher) Add(rec *store.Record) error {
	if len(b.buf) >= b.size {
		if err := b.flush(false); err != nil {
			return err
		}
	}
	b.buf = append(b.buf, rec)
	return nil
}

// FlushTail processes whatever is still pending as a final partial batch.
// It is a no-op on an empty buffer.
func (b *Batcher) FlushTail() error {
	if len(b.buf) == 0 {
		return nil
	}
	return b.flush(true)
}

// Pending returns the number of buffered records.
func (b *Batcher) Pending() int {
	return len(b.buf)
}

// Batches returns how many batches were flushed.
func (b *Batcher) Batches() int {
	return b.batches
}

// Flushed returns how many records were flushed.
func (b *Batcher) Flushed() int64 {
	return b.flushed
}

func (b *Batcher) flush(tail bool) (err error) {
	start := time.Now()
	defer func() {
		measurement.Since(measurement.OpFlush, measurement.OpFlushError, start, err)
	}()

	batch := b.buf
	b.buf = make([]*store.Record, 0, b.size)
	if err = b.proc.Process(batch, tail); err != nil {
		return errors.Annotatef(err, "process batch of %d records", len(batch))
	}
	b.batches++
	b.flushed += int64(len(batch))

	kind := metrics.BatchFull
	if tail {
		kind = metrics.BatchTail
	}
	metrics.FlushedBatches.WithLabelValues(kind).Inc()
	return nil
}
