package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsPrefix = "easysched_"

// Metrics holds the engine's prometheus metrics. The engine updates them on
// every wakeup; callers wanting to expose them register via Register.
type Metrics struct {
	jobsStarted   *prometheus.CounterVec
	jobsRejected  prometheus.Counter
	jobsCompleted prometheus.Counter
	freeHosts     prometheus.Gauge
	runningJobs   prometheus.Gauge
	queuedJobs    prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		jobsStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricsPrefix + "jobs_started_total",
				Help: "Number of jobs started, partitioned by whether they started as the queue head or as backfill.",
			},
			[]string{"mode"},
		),
		jobsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricsPrefix + "jobs_rejected_total",
			Help: "Number of submissions rejected for requesting more hosts than the platform has.",
		}),
		jobsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metricsPrefix + "jobs_completed_total",
			Help: "Number of job completions observed.",
		}),
		freeHosts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricsPrefix + "free_hosts",
			Help: "Number of hosts currently free.",
		}),
		runningJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricsPrefix + "running_jobs",
			Help: "Number of jobs currently running.",
		}),
		queuedJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: metricsPrefix + "queued_jobs",
			Help: "Number of jobs pending in the queue.",
		}),
	}
}

// Register registers all engine metrics with r.
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, collector := range []prometheus.Collector{
		m.jobsStarted, m.jobsRejected, m.jobsCompleted,
		m.freeHosts, m.runningJobs, m.queuedJobs,
	} {
		if err := r.Register(collector); err != nil {
			return err
		}
	}
	return nil
}
