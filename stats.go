package main

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

const (
	adjustMin = 0
	adjustMax = 100000

	maxActiveAIs   = 999
	maxPercent     = 100
	tickMaxEarning = 7
	aiSpawnChance  = 0.4
	keyAutoMode    = "autoMode"
)

// Stat identifies one of the four numeric dashboard values.
type Stat int

const (
	StatEarnings Stat = iota
	StatActiveAIs
	StatEnergy
	StatProgress
)

type statSpec struct {
	key   string
	label string
	def   int
	min   int
	max   int
	step  int
}

var statSpecs = [...]statSpec{
	StatEarnings:  {key: "earnings", label: "Earnings", def: 0, min: adjustMin, max: adjustMax, step: 10},
	StatActiveAIs: {key: "activeAIs", label: "Active AIs", def: 0, min: 0, max: maxActiveAIs, step: 1},
	StatEnergy:    {key: "energy", label: "Energy", def: 10, min: 0, max: maxPercent, step: 5},
	StatProgress:  {key: "progress", label: "Progress", def: 0, min: 0, max: maxPercent, step: 5},
}

var allStats = []Stat{StatEarnings, StatActiveAIs, StatEnergy, StatProgress}

func (s Stat) spec() statSpec { return statSpecs[s] }

func (s Stat) Key() string   { return s.spec().key }
func (s Stat) Label() string { return s.spec().label }
func (s Stat) Step() int     { return s.spec().step }

// Format renders a value the way the dashboard cards show it.
func (s Stat) Format(v int) string {
	switch s {
	case StatEarnings:
		return fmt.Sprintf("₹%d", v)
	case StatEnergy, StatProgress:
		return fmt.Sprintf("%d%%", v)
	default:
		return strconv.Itoa(v)
	}
}

// statByKey accepts the store key or the label, case-insensitively.
func statByKey(name string) (Stat, bool) {
	n := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	for _, s := range allStats {
		if n == strings.ToLower(s.Key()) || n == strings.ToLower(strings.ReplaceAll(s.Label(), " ", "")) {
			return s, true
		}
	}
	return 0, false
}

func clamp(v, lo, hi int) int {
	return min(hi, max(lo, v))
}

// adjust is the bounded step used by every manual control.
func adjust(v, delta, lo, hi int) int {
	return clamp(v+delta, lo, hi)
}

// Rand is the randomness a tick needs. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// Snapshot is a copy of the dashboard state for rendering and reports.
type Snapshot struct {
	Earnings  int
	ActiveAIs int
	Energy    int
	Progress  int
	AutoMode  bool
}

func (s Snapshot) Value(st Stat) int {
	switch st {
	case StatEarnings:
		return s.Earnings
	case StatActiveAIs:
		return s.ActiveAIs
	case StatEnergy:
		return s.Energy
	default:
		return s.Progress
	}
}

// Stats holds the five persisted dashboard values. It is not safe for
// concurrent use; the dashboard mutates it only from its update loop.
type Stats struct {
	values   [len(statSpecs)]*PersistentValue[int]
	autoMode *PersistentValue[bool]
	log      *slog.Logger
}

// LoadStats reads every value from store, falling back to defaults, and
// clamps loaded numbers into their bounds.
func LoadStats(store KVStore, log *slog.Logger) *Stats {
	if log == nil {
		log = discardLogger()
	}
	s := &Stats{log: log}
	for _, st := range allStats {
		spec := st.spec()
		pv := NewPersistentValue(store, spec.key, spec.def, log)
		if v := pv.Get(); v != clamp(v, spec.min, st.upper()) {
			log.Debug("stored value out of range", "key", spec.key, "value", v)
			pv.Set(clamp(v, spec.min, st.upper()))
		}
		s.values[st] = pv
	}
	s.autoMode = NewPersistentValue(store, keyAutoMode, true, log)
	return s
}

// upper is the load-time ceiling. Earnings only has a floor there; the
// simulation may carry it past the manual ceiling.
func (s Stat) upper() int {
	if s == StatEarnings {
		return math.MaxInt
	}
	return s.spec().max
}

func (s *Stats) Get(st Stat) int { return s.values[st].Get() }

func (s *Stats) AutoMode() bool { return s.autoMode.Get() }

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Earnings:  s.Get(StatEarnings),
		ActiveAIs: s.Get(StatActiveAIs),
		Energy:    s.Get(StatEnergy),
		Progress:  s.Get(StatProgress),
		AutoMode:  s.AutoMode(),
	}
}

// Adjust applies one manual step of delta to st within its bounds.
func (s *Stats) Adjust(st Stat, delta int) {
	spec := st.spec()
	s.values[st].Update(func(v int) int { return adjust(v, delta, spec.min, spec.max) })
}

// SetValue stores n for st, clamped into the manual bounds.
func (s *Stats) SetValue(st Stat, n int) {
	spec := st.spec()
	s.values[st].Set(clamp(n, spec.min, spec.max))
}

// Tick applies one simulation step.
func (s *Stats) Tick(rng Rand) {
	s.values[StatEarnings].Update(func(v int) int { return v + rng.IntN(tickMaxEarning+1) })
	s.values[StatActiveAIs].Update(func(v int) int {
		if rng.Float64() < aiSpawnChance {
			v++
		}
		return min(maxActiveAIs, v)
	})
	s.values[StatEnergy].Update(func(v int) int { return min(maxPercent, v+1) })
	s.values[StatProgress].Update(func(v int) int { return min(maxPercent, v+1) })
}

// Reset restores the four numeric stats to their defaults. Auto mode is kept.
func (s *Stats) Reset() {
	for _, st := range allStats {
		s.values[st].Set(st.spec().def)
	}
	s.log.Info("stats reset")
}

// ToggleAuto flips auto mode and returns the new setting.
func (s *Stats) ToggleAuto() bool {
	s.autoMode.Update(func(on bool) bool { return !on })
	s.log.Info("mode changed", "auto", s.autoMode.Get())
	return s.autoMode.Get()
}
