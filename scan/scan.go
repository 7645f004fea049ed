// Package scan reads a whole namespace/set and groups the records into
// fixed size batches for processing.
package scan

import (
	"context"
	"time"

	"github.com/pingcap-incubator/asbatch/config"
	"github.com/pingcap-incubator/asbatch/measurement"
	"github.com/pingcap-incubator/asbatch/metrics"
	"github.com/pingcap-incubator/asbatch/store"
	"github.com/pingcap-incubator/asbatch/user"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"go.uber.org/zap"
)

// Result summarizes one scan.
type Result struct {
	// Records is the number of records delivered by the store.
	Records int64
	// Batches and Flushed count processed batches and their records,
	// including the tail batch when it was flushed.
	Batches int
	Flushed int64
	// Unflushed is the number of records left in the buffer.
	Unflushed   int
	TailFlushed bool
}

// Scanner runs a full scan through a Batcher.
type Scanner struct {
	st        store.Store
	namespace string
	set       string
	conf      config.ScanConfig
	proc      Processor
}

// NewScanner creates a Scanner over namespace/set of st.
func NewScanner(st store.Store, namespace, set string, conf *config.ScanConfig, proc Processor) *Scanner {
	return &Scanner{
		st:        st,
		namespace: namespace,
		set:       set,
		conf:      *conf,
		proc:      proc,
	}
}

// Run scans every record requesting user.BinNames. Once the store reports
// the end of the scan, the records still buffered are flushed as a final
// partial batch, or counted as dropped when FlushTail is off.
func (s *Scanner) Run(ctx context.Context) (*Result, error) {
	res := &Result{}
	batcher := NewBatcher(s.conf.BatchSize, s.proc)
	log.Info("scanning",
		zap.String("namespace", s.namespace),
		zap.String("set", s.set),
		zap.Int("batch-size", s.conf.BatchSize))

	start := time.Now()
	err := s.st.ScanAll(ctx, s.namespace, s.set, user.BinNames, func(rec *store.Record) error {
		res.Records++
		metrics.ScannedRecords.Inc()
		return batcher.Add(rec)
	})
	measurement.Since(measurement.OpScan, measurement.OpScanError, start, err)
	metrics.StoreDuration.WithLabelValues("scan").Observe(time.Since(start).Seconds())
	if err != nil {
		res.Batches, res.Flushed, res.Unflushed = batcher.Batches(), batcher.Flushed(), batcher.Pending()
		return res, errors.Annotatef(err, "scan %s.%s", s.namespace, s.set)
	}

	pending := batcher.Pending()
	if s.conf.FlushTail {
		if err := batcher.FlushTail(); err != nil {
			res.Batches, res.Flushed, res.Unflushed = batcher.Batches(), batcher.Flushed(), batcher.Pending()
			return res, err
		}
		res.TailFlushed = pending > 0
	} else if pending > 0 {
		metrics.DroppedRecords.Add(float64(pending))
		log.Warn("final partial batch not processed",
			zap.Int("records", pending),
			zap.Int("batch-size", s.conf.BatchSize))
	}

	res.Batches, res.Flushed, res.Unflushed = batcher.Batches(), batcher.Flushed(), batcher.Pending()
	log.Info("scan finished",
		zap.Int64("records", res.Records),
		zap.Int("batches", res.Batches),
		zap.Int64("flushed", res.Flushed),
		zap.Int("unflushed", res.Unflushed))
	return res, nil
}
