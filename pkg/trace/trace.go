// Package trace records simulation runs step by step and summarizes or
// exports them.
package trace

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/OpenTraceLab/zuse/pkg/sim"
)

// Recorder keeps the snapshots of a run. With a limit, only the most
// recent snapshots are kept.
type Recorder struct {
	steps []sim.Snapshot
	limit int
}

// NewRecorder creates a recorder keeping at most limit snapshots; zero
// keeps everything.
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

// Record appends a snapshot.
func (r *Recorder) Record(s sim.Snapshot) {
	r.steps = append(r.steps, s)
	if r.limit > 0 && len(r.steps) > r.limit {
		r.steps = r.steps[len(r.steps)-r.limit:]
	}
}

// Len returns the number of recorded steps.
func (r *Recorder) Len() int {
	return len(r.steps)
}

// Snapshots returns the recorded steps, oldest first.
func (r *Recorder) Snapshots() []sim.Snapshot {
	return r.steps
}

// Reset drops all snapshots.
func (r *Recorder) Reset() {
	r.steps = nil
}

// Channel identifies one recorded boolean signal.
type Channel struct {
	ID   string
	Coil bool // coil energized rather than latched state
}

func (c Channel) String() string {
	if c.Coil {
		return c.ID + " coil"
	}
	return c.ID
}

func (c Channel) value(s sim.Snapshot) bool {
	if c.Coil {
		return s.Coils[c.ID]
	}
	return s.Latched[c.ID]
}

// Channels lists every signal seen in the run: latched states first, then
// coils, each sorted by identifier.
func (r *Recorder) Channels() []Channel {
	latched := make(map[string]bool)
	coils := make(map[string]bool)
	for _, s := range r.steps {
		for id := range s.Latched {
			latched[id] = true
		}
		for id := range s.Coils {
			coils[id] = true
		}
	}
	var out []Channel
	for _, id := range sortedKeys(latched) {
		out = append(out, Channel{ID: id})
	}
	for _, id := range sortedKeys(coils) {
		out = append(out, Channel{ID: id, Coil: true})
	}
	return out
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ChannelStat describes one signal over the run.
type ChannelStat struct {
	Channel     Channel
	Duty        float64 // fraction of steps the signal was on
	Transitions int
}

// Summary describes a run.
type Summary struct {
	Steps         int
	MeanEnergized float64 // energized nets per step
	MaxEnergized  float64
	Channels      []ChannelStat
}

// Summary computes duty cycles and energized net counts.
func (r *Recorder) Summary() Summary {
	sum := Summary{Steps: len(r.steps)}
	if len(r.steps) == 0 {
		return sum
	}

	counts := make([]float64, len(r.steps))
	for i, s := range r.steps {
		for _, on := range s.Energized {
			if on {
				counts[i]++
			}
		}
	}
	sum.MeanEnergized = stat.Mean(counts, nil)
	sum.MaxEnergized = floats.Max(counts)

	series := make([]float64, len(r.steps))
	for _, ch := range r.Channels() {
		transitions := 0
		for i, s := range r.steps {
			series[i] = 0
			if ch.value(s) {
				series[i] = 1
			}
			if i > 0 && series[i] != series[i-1] {
				transitions++
			}
		}
		sum.Channels = append(sum.Channels, ChannelStat{
			Channel:     ch,
			Duty:        stat.Mean(series, nil),
			Transitions: transitions,
		})
	}
	return sum
}
