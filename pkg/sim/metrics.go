package sim

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles simulation metrics.
type Metrics struct {
	Steps         prometheus.Counter
	Starts        prometheus.Counter
	ForcedStops   prometheus.Counter
	Rebuilds      prometheus.Counter
	Toggles       prometheus.Counter
	EnergizedNets prometheus.Gauge
}

// NewMetrics constructs the metrics and registers them with reg. A nil
// registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zuse_sim_steps_total",
			Help: "Total simulation steps",
		}),
		Starts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zuse_sim_starts_total",
			Help: "Total simulation starts",
		}),
		ForcedStops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zuse_sim_forced_stops_total",
			Help: "Simulations stopped by a structural edit",
		}),
		Rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zuse_sim_netlist_rebuilds_total",
			Help: "Netlist rebuilds triggered by a simulation step",
		}),
		Toggles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "zuse_sim_switch_toggles_total",
			Help: "Switches toggled while simulating",
		}),
		EnergizedNets: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "zuse_sim_energized_nets",
			Help: "Energized nets after the last step",
		}),
	}
	if reg != nil {
		reg.MustRegister(
			m.Steps,
			m.Starts,
			m.ForcedStops,
			m.Rebuilds,
			m.Toggles,
			m.EnergizedNets,
		)
	}
	return m
}
