// Package measurement records per operation latencies in HDR histograms and
// prints them as a summary table once a run finishes.
package measurement

import (
	"io"
	"sort"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
)

// Operation names.
const (
	OpPut        = "PUT"
	OpPutError   = "PUT_ERROR"
	OpScan       = "SCAN"
	OpScanError  = "SCAN_ERROR"
	OpFlush      = "FLUSH"
	OpFlushError = "FLUSH_ERROR"
)

var header = []string{"Operation", "Takes(s)", "Count", "OPS", "Avg(us)", "Min(us)", "Max(us)", "99th(us)", "99.9th(us)", "99.99th(us)"}

// Measurer collects latencies keyed by operation.
type Measurer struct {
	sync.Mutex
	opHist map[string]*histogram
	now    func() time.Time
}

// NewMeasurer creates an empty Measurer.
func NewMeasurer() *Measurer {
	return &Measurer{
		opHist: make(map[string]*histogram),
		now:    time.Now,
	}
}

// Measure records one operation that started at start and took lan.
func (m *Measurer) Measure(op string, start time.Time, lan time.Duration) {
	m.Lock()
	defer m.Unlock()
	h, ok := m.opHist[op]
	if !ok {
		h = newHistogram(start)
		m.opHist[op] = h
	}
	h.measure(lan)
}

// Count returns the number of samples recorded for op.
func (m *Measurer) Count(op string) int64 {
	m.Lock()
	defer m.Unlock()
	if h, ok := m.opHist[op]; ok {
		return h.hist.TotalCount()
	}
	return 0
}

// Output renders a table with one row per operation, sorted by name.
func (m *Measurer) Output(w io.Writer) {
	m.Lock()
	defer m.Unlock()
	if len(m.opHist) == 0 {
		return
	}

	ops := make([]string, 0, len(m.opHist))
	for op := range m.opHist {
		ops = append(ops, op)
	}
	sort.Strings(ops)

	now := m.now()
	lines := make([][]string, 0, len(ops))
	for _, op := range ops {
		line := []string{op}
		line = append(line, m.opHist[op].summary(now)...)
		lines = append(lines, line)
	}

	tb := tablewriter.NewWriter(w)
	tb.SetHeader(header)
	tb.AppendBulk(lines)
	tb.Render()
}

// Reset drops every recorded sample.
func (m *Measurer) Reset() {
	m.Lock()
	m.opHist = make(map[string]*histogram)
	m.Unlock()
}

var globalMeasure = NewMeasurer()

// Measure measures the operation on the global Measurer.
func Measure(op string, start time.Time, lan time.Duration) {
	globalMeasure.Measure(op, start, lan)
}

// Since measures the operation from start until now. err selects the
// error variant of op.
func Since(op, errOp string, start time.Time, err error) {
	lan := time.Since(start)
	if err != nil {
		globalMeasure.Measure(errOp, start, lan)
		return
	}
	globalMeasure.Measure(op, start, lan)
}

// Count returns the global sample count of op.
func Count(op string) int64 {
	return globalMeasure.Count(op)
}

// Output prints the global measurements.
func Output(w io.Writer) {
	globalMeasure.Output(w)
}

// Reset clears the global measurements.
func Reset() {
	globalMeasure.Reset()
}
