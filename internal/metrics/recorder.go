package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agbru/sircompare/internal/orchestration"
	"github.com/agbru/sircompare/internal/sysmon"
)

const namespace = "sircompare"

// Recorder collects per-scenario gauges for one run.
type Recorder struct {
	registry *prometheus.Registry

	steps         *prometheus.GaugeVec
	rejected      *prometheus.GaugeVec
	evaluations   *prometheus.GaugeVec
	duration      *prometheus.GaugeVec
	peakInfected  *prometheus.GaugeVec
	peakDay       *prometheus.GaugeVec
	totalInfected *prometheus.GaugeVec
	totalDeaths   *prometheus.GaugeVec
	failed        *prometheus.GaugeVec

	allocated prometheus.Gauge
	gcCycles  prometheus.Gauge

	hostCPU    prometheus.Gauge
	hostMem    prometheus.Gauge
	hostMemUse prometheus.Gauge
	hostCPUs   prometheus.Gauge
}

func hostGauge(name, help string) prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "host",
		Name:      name,
		Help:      help,
	})
}

func scenarioGauge(name, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, []string{"scenario"})
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry:      prometheus.NewRegistry(),
		steps:         scenarioGauge("solver_steps", "Accepted integrator steps."),
		rejected:      scenarioGauge("solver_rejected_steps", "Rejected integrator step attempts."),
		evaluations:   scenarioGauge("solver_evaluations", "Derivative evaluations."),
		duration:      scenarioGauge("solve_duration_seconds", "Wall time spent integrating."),
		peakInfected:  scenarioGauge("peak_infected", "Largest sampled number of infected people."),
		peakDay:       scenarioGauge("peak_day", "Day of the infection peak."),
		totalInfected: scenarioGauge("total_infected", "People infected by the end of the horizon."),
		totalDeaths:   scenarioGauge("total_deaths", "Estimated deaths by the end of the horizon."),
		failed:        scenarioGauge("scenario_failed", "1 if the scenario could not be simulated."),
		allocated: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_allocated_bytes",
			Help:      "Bytes allocated while simulating.",
		}),
		gcCycles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_gc_cycles",
			Help:      "Garbage collections completed while simulating.",
		}),
		hostCPU:    hostGauge("cpu_percent", "Host CPU usage at the end of the run."),
		hostMem:    hostGauge("memory_percent", "Host memory usage at the end of the run."),
		hostMemUse: hostGauge("memory_used_bytes", "Host memory in use at the end of the run."),
		hostCPUs:   hostGauge("logical_cpus", "Logical CPUs of the host."),
	}
	r.registry.MustRegister(
		r.steps, r.rejected, r.evaluations, r.duration,
		r.peakInfected, r.peakDay, r.totalInfected, r.totalDeaths, r.failed,
		r.allocated, r.gcCycles,
		r.hostCPU, r.hostMem, r.hostMemUse, r.hostCPUs,
	)
	return r
}

// Registry returns the recorder's registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe records the results of a run. Failed scenarios only set
// scenario_failed.
func (r *Recorder) Observe(results []orchestration.ScenarioResult) {
	for _, res := range results {
		name := res.Scenario.Name
		if res.Err != nil || res.Trajectory == nil {
			r.failed.WithLabelValues(name).Set(1)
			continue
		}
		r.failed.WithLabelValues(name).Set(0)

		st := res.Trajectory.Stats()
		r.steps.WithLabelValues(name).Set(float64(st.Steps))
		r.rejected.WithLabelValues(name).Set(float64(st.Rejected))
		r.evaluations.WithLabelValues(name).Set(float64(st.Evaluations))
		r.duration.WithLabelValues(name).Set(res.Duration.Seconds())

		s := res.Summary
		r.peakInfected.WithLabelValues(name).Set(s.PeakInfected)
		r.peakDay.WithLabelValues(name).Set(s.PeakDay)
		r.totalInfected.WithLabelValues(name).Set(s.TotalInfected)
		r.totalDeaths.WithLabelValues(name).Set(s.TotalDeaths)
	}
}

// ObserveMemory records the allocation work between two snapshots.
func (r *Recorder) ObserveMemory(before, after MemorySnapshot) {
	r.allocated.Set(float64(AllocatedSince(before, after)))
	r.gcCycles.Set(float64(after.NumGC - before.NumGC))
}

// ObserveHost records a host usage snapshot.
func (r *Recorder) ObserveHost(s sysmon.HostStats) {
	r.hostCPU.Set(s.CPUPercent)
	r.hostMem.Set(s.MemPercent)
	r.hostMemUse.Set(float64(s.MemUsedBytes))
	r.hostCPUs.Set(float64(s.LogicalCPUs))
}

// WriteTextfile writes the registry to path in the textfile format,
// creating parent directories as needed.
func (r *Recorder) WriteTextfile(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
