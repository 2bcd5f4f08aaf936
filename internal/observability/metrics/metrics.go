// Package metrics keeps process-wide counters for crack runs and the API
// surfaces, and exposes them in the Prometheus text format.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

type collector interface {
	write(sb *strings.Builder)
}

type counterVec struct {
	name   string
	help   string
	labels []string

	mu     sync.RWMutex
	values map[string]float64
}

type gaugeVec struct {
	name   string
	help   string
	labels []string

	mu     sync.RWMutex
	values map[string]float64
}

type histogramVec struct {
	name    string
	help    string
	labels  []string
	buckets []float64

	mu     sync.RWMutex
	values map[string]*histogramValue
}

type histogramValue struct {
	counts []uint64
	sum    float64
	total  uint64
}

// Run durations span microseconds (a single-key family) to minutes (long
// key streams).
var durationBuckets = []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300, 1800}

var (
	collectors []collector

	runsTotal       = newCounterVec("oxc_crack_runs_total", "Number of crack runs by family and outcome.", []string{"family", "status"})
	runDuration     = newHistogramVec("oxc_crack_duration_seconds", "Wall time of crack runs by family.", []string{"family"}, durationBuckets)
	activeRuns      = newGaugeVec("oxc_crack_active_runs", "Crack runs currently searching.", nil)
	keysEvaluated   = newCounterVec("oxc_keys_evaluated_total", "Candidate keys decrypted and scored, by cipher.", []string{"cipher"})
	familyDuration  = newHistogramVec("oxc_cipher_search_duration_seconds", "Time spent searching one cipher's key space.", []string{"cipher"}, durationBuckets)
	requestsTotal   = newCounterVec("oxc_requests_total", "Requests handled by the HTTP and gRPC surfaces.", []string{"surface", "method"})
	requestErrors   = newCounterVec("oxc_request_errors_total", "Failed requests by surface, method and code.", []string{"surface", "method", "code"})
	requestDuration = newHistogramVec("oxc_request_duration_seconds", "Latency of HTTP and gRPC handlers.", []string{"surface", "method", "code"}, durationBuckets)

	activeMu sync.Mutex
	active   int
)

func init() {
	collectors = []collector{runsTotal, runDuration, activeRuns, keysEvaluated, familyDuration, requestsTotal, requestErrors, requestDuration}
	activeRuns.Set(nil, 0)
}

func newCounterVec(name, help string, labels []string) *counterVec {
	return &counterVec{name: name, help: help, labels: labels, values: make(map[string]float64)}
}

func newGaugeVec(name, help string, labels []string) *gaugeVec {
	return &gaugeVec{name: name, help: help, labels: labels, values: make(map[string]float64)}
}

func newHistogramVec(name, help string, labels []string, buckets []float64) *histogramVec {
	return &histogramVec{
		name:    name,
		help:    help,
		labels:  labels,
		buckets: buckets,
		values:  make(map[string]*histogramValue),
	}
}

func labelKey(labels, values []string) string {
	if len(values) != len(labels) {
		panic(fmt.Sprintf("expected %d labels, got %d", len(labels), len(values)))
	}
	return strings.Join(values, "\x00")
}

func (cv *counterVec) add(delta float64, values ...string) {
	key := labelKey(cv.labels, values)
	cv.mu.Lock()
	cv.values[key] += delta
	cv.mu.Unlock()
}

func (cv *counterVec) value(values ...string) float64 {
	key := labelKey(cv.labels, values)
	cv.mu.RLock()
	defer cv.mu.RUnlock()
	return cv.values[key]
}

func (cv *counterVec) write(sb *strings.Builder) {
	writeHeader(sb, cv.name, cv.help, "counter")
	cv.mu.RLock()
	defer cv.mu.RUnlock()
	for _, key := range sortedKeys(cv.values) {
		sb.WriteString(cv.name)
		writeLabels(sb, cv.labels, key, "")
		fmt.Fprintf(sb, " %g\n", cv.values[key])
	}
}

func (gv *gaugeVec) Set(values []string, v float64) {
	key := labelKey(gv.labels, values)
	gv.mu.Lock()
	gv.values[key] = v
	gv.mu.Unlock()
}

func (gv *gaugeVec) write(sb *strings.Builder) {
	writeHeader(sb, gv.name, gv.help, "gauge")
	gv.mu.RLock()
	defer gv.mu.RUnlock()
	for _, key := range sortedKeys(gv.values) {
		sb.WriteString(gv.name)
		writeLabels(sb, gv.labels, key, "")
		fmt.Fprintf(sb, " %g\n", gv.values[key])
	}
}

func (hv *histogramVec) Observe(values []string, sample float64) {
	key := labelKey(hv.labels, values)
	hv.mu.Lock()
	defer hv.mu.Unlock()
	entry, ok := hv.values[key]
	if !ok {
		entry = &histogramValue{counts: make([]uint64, len(hv.buckets)+1)}
		hv.values[key] = entry
	}
	entry.sum += sample
	entry.total++
	idx := sort.SearchFloat64s(hv.buckets, sample)
	entry.counts[idx]++
}

func (hv *histogramVec) write(sb *strings.Builder) {
	writeHeader(sb, hv.name, hv.help, "histogram")
	hv.mu.RLock()
	defer hv.mu.RUnlock()
	for _, key := range sortedKeys(hv.values) {
		entry := hv.values[key]
		var cumulative uint64
		for i, upper := range hv.buckets {
			cumulative += entry.counts[i]
			sb.WriteString(hv.name)
			sb.WriteString("_bucket")
			writeLabels(sb, hv.labels, key, fmt.Sprintf("%g", upper))
			fmt.Fprintf(sb, " %d\n", cumulative)
		}
		cumulative += entry.counts[len(hv.buckets)]
		sb.WriteString(hv.name)
		sb.WriteString("_bucket")
		writeLabels(sb, hv.labels, key, "+Inf")
		fmt.Fprintf(sb, " %d\n", cumulative)

		sb.WriteString(hv.name)
		sb.WriteString("_sum")
		writeLabels(sb, hv.labels, key, "")
		fmt.Fprintf(sb, " %g\n", entry.sum)
		sb.WriteString(hv.name)
		sb.WriteString("_count")
		writeLabels(sb, hv.labels, key, "")
		fmt.Fprintf(sb, " %d\n", entry.total)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// writeLabels renders {a="x",b="y"}, appending le when set. Nothing is
// written for an unlabelled series without le.
func writeLabels(sb *strings.Builder, labels []string, key, le string) {
	if len(labels) == 0 && le == "" {
		return
	}
	var parts []string
	if len(labels) > 0 {
		parts = strings.Split(key, "\x00")
	}
	sb.WriteString("{")
	for i, label := range labels {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(label)
		sb.WriteString("=\"")
		sb.WriteString(escapeLabel(parts[i]))
		sb.WriteString("\"")
	}
	if le != "" {
		if len(labels) > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("le=\"")
		sb.WriteString(le)
		sb.WriteString("\"")
	}
	sb.WriteString("}")
}

func writeHeader(sb *strings.Builder, name, help, metricType string) {
	sb.WriteString("# HELP ")
	sb.WriteString(name)
	sb.WriteString(" ")
	sb.WriteString(help)
	sb.WriteString("\n# TYPE ")
	sb.WriteString(name)
	sb.WriteString(" ")
	sb.WriteString(metricType)
	sb.WriteString("\n")
}

func escapeLabel(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\n", "\\n")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	return value
}

// Handler exposes the registry as an http.Handler compatible with Prometheus.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		var sb strings.Builder
		for _, c := range collectors {
			c.write(&sb)
		}
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		_, _ = w.Write([]byte(sb.String()))
	})
}

// RecordRequest counts one request on surface ("http" or "grpc").
func RecordRequest(surface, method string) {
	requestsTotal.add(1, surface, method)
}

// RecordRequestError counts a failed request.
func RecordRequestError(surface, method, code string) {
	requestErrors.add(1, surface, method, code)
}

// ObserveRequestLatency records how long a handler took, tagged by result code.
func ObserveRequestLatency(surface, method, code string, dur time.Duration) {
	requestDuration.Observe([]string{surface, method, code}, dur.Seconds())
}

// Observer feeds crack engine lifecycle events into the registry.
type Observer struct{}

// RunStarted marks a run as active.
func (Observer) RunStarted(string) {
	activeMu.Lock()
	active++
	activeRuns.Set(nil, float64(active))
	activeMu.Unlock()
}

// FamilySearched records one cipher's key space search.
func (Observer) FamilySearched(kind string, evaluated uint64, elapsed time.Duration) {
	keysEvaluated.add(float64(evaluated), kind)
	familyDuration.Observe([]string{kind}, elapsed.Seconds())
}

// RunFinished records a run's outcome and clears it from the active gauge.
func (Observer) RunFinished(family string, _ uint64, elapsed time.Duration, err error) {
	activeMu.Lock()
	active--
	activeRuns.Set(nil, float64(active))
	activeMu.Unlock()

	runsTotal.add(1, family, runStatus(err))
	runDuration.Observe([]string{family}, elapsed.Seconds())
}

func runStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}

// KeysEvaluated returns the running total for cipher.
func KeysEvaluated(cipher string) float64 {
	return keysEvaluated.value(cipher)
}

// Runs returns the number of finished runs for family with status.
func Runs(family, status string) float64 {
	return runsTotal.value(family, status)
}
