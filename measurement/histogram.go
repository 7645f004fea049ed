package measurement

import (
	"fmt"
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
)

type histogram struct {
	startTime time.Time
	hist      *hdrhistogram.Histogram
}

// Metric name.
const (
	ELAPSED   = "ELAPSED"
	COUNT     = "COUNT"
	QPS       = "QPS"
	AVG       = "AVG"
	MIN       = "MIN"
	MAX       = "MAX"
	PER99TH   = "PER99TH"
	PER999TH  = "PER999TH"
	PER9999TH = "PER9999TH"
)

func newHistogram(start time.Time) *histogram {
	return &histogram{
		startTime: start,
		// One microsecond up to one day, three significant digits.
		hist: hdrhistogram.New(1, 24*60*60*1000*1000, 3),
	}
}

func (h *histogram) measure(latency time.Duration) {
	us := latency.Nanoseconds() / int64(time.Microsecond)
	if us < 1 {
		us = 1
	}
	h.hist.RecordValue(us)
}

func (h *histogram) summary(now time.Time) []string {
	res := h.getInfo(now)

	return []string{
		floatToOneString(res[ELAPSED]),
		intToString(res[COUNT]),
		floatToOneString(res[QPS]),
		intToString(res[AVG]),
		intToString(res[MIN]),
		intToString(res[MAX]),
		intToString(res[PER99TH]),
		intToString(res[PER999TH]),
		intToString(res[PER9999TH]),
	}
}

func (h *histogram) getInfo(now time.Time) map[string]interface{} {
	count := h.hist.TotalCount()
	elapsed := now.Sub(h.startTime).Seconds()
	qps := 0.0
	if elapsed > 0 {
		qps = float64(count) / elapsed
	}

	res := make(map[string]interface{})
	res[ELAPSED] = elapsed
	res[COUNT] = count
	res[QPS] = qps
	res[AVG] = int64(h.hist.Mean())
	res[MIN] = h.hist.Min()
	res[MAX] = h.hist.Max()
	res[PER99TH] = h.hist.ValueAtQuantile(99)
	res[PER999TH] = h.hist.ValueAtQuantile(99.9)
	res[PER9999TH] = h.hist.ValueAtQuantile(99.99)
	return res
}

func intToString(i interface{}) string {
	return fmt.Sprintf("%d", i)
}

func floatToOneString(f interface{}) string {
	return fmt.Sprintf("%.1f", f)
}
