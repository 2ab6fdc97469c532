// Package telemetry fournit les métriques Prometheus (export textfile) et le tracing OpenTelemetry.
package telemetry

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Registry ne contient que les métriques drivein (pas de collecteurs Go/process
	// dans le textfile).
	Registry = prometheus.NewRegistry()

	// Counters
	LinesParsed     *prometheus.CounterVec // label role
	LinesDropped    prometheus.Counter
	DialogueEntries prometheus.Counter
	QuotesCollected prometheus.Counter
	Runs            *prometheus.CounterVec // label result

	// Histograms (seconds)
	ParseDuration  prometheus.Observer
	RenderDuration prometheus.Observer

	// Gauges
	ViewingsIndexed prometheus.Gauge
)

// Init enregistre les métriques (idempotent).
func Init() {
	once.Do(func() {
		f := promauto.With(Registry)
		LinesParsed = f.NewCounterVec(prometheus.CounterOpts{Name: "drivein_log_lines_total", Help: "Classified log lines by role"}, []string{"role"})
		LinesDropped = f.NewCounter(prometheus.CounterOpts{Name: "drivein_log_lines_dropped_total", Help: "Log lines matching no rule or an ignore rule"})
		DialogueEntries = f.NewCounter(prometheus.CounterOpts{Name: "drivein_dialogue_entries_total", Help: "Rendered dialogue entries"})
		QuotesCollected = f.NewCounter(prometheus.CounterOpts{Name: "drivein_quotes_total", Help: "Collected rating quotes"})
		Runs = f.NewCounterVec(prometheus.CounterOpts{Name: "drivein_runs_total", Help: "Runs by result"}, []string{"result"})
		ParseDuration = f.NewHistogram(prometheus.HistogramOpts{Name: "drivein_parse_duration_seconds", Help: "Log parsing duration seconds", Buckets: prometheus.DefBuckets})
		RenderDuration = f.NewHistogram(prometheus.HistogramOpts{Name: "drivein_render_duration_seconds", Help: "Timeline build and render duration seconds", Buckets: prometheus.DefBuckets})
		ViewingsIndexed = f.NewGauge(prometheus.GaugeOpts{Name: "drivein_viewings_indexed", Help: "Viewings found in the log"})
	})
}

// ObserveParse enregistre les compteurs d'une passe de parsing.
func ObserveParse(byRole map[string]int, dropped int) {
	Init()
	for role, n := range byRole {
		LinesParsed.WithLabelValues(role).Add(float64(n))
	}
	LinesDropped.Add(float64(dropped))
}

// ObserveRender enregistre le nombre de lignes et de notes d'un document.
func ObserveRender(entries, quotes int) {
	Init()
	DialogueEntries.Add(float64(entries))
	QuotesCollected.Add(float64(quotes))
}

// SetViewings enregistre le nombre de films de l'index.
func SetViewings(n int) {
	Init()
	ViewingsIndexed.Set(float64(n))
}

// RunResult incrémente drivein_runs_total{result}.
func RunResult(result string) {
	Init()
	Runs.WithLabelValues(result).Inc()
}

// TimeFunc mesure la durée de fn et l'enregistre dans obs si non nil.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}

// WriteTextfile exporte les métriques au format texte (node_exporter textfile collector).
func WriteTextfile(path string) error {
	Init()
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("export des métriques vers %s : %w", path, err)
	}
	return nil
}
