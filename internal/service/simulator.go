package service

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/domain"
)

// Per-vital simulation tuning. Cold-start draws come from the narrow
// band; every later value is a bounded step from the previous one,
// clamped to the safe band. budget is the largest allowed per-tick
// movement, minStep the smallest (so charts never look frozen), scale
// the rounding granularity for display-friendly values (10 = tenths).
type vitalBand struct {
	coldLo, coldHi float64
	lo, hi         float64
	budget         float64
	minStep        float64
	scale          float64
}

var (
	simOxygen = vitalBand{coldLo: 94, coldHi: 98, lo: 90, hi: 100, budget: 2.5, minStep: 0.2, scale: 10}
	simPulse  = vitalBand{coldLo: 70, coldHi: 90, lo: 60, hi: 120, budget: 9, minStep: 1, scale: 1}
	simTemp   = vitalBand{coldLo: 36.4, coldHi: 37.2, lo: 36.0, hi: 37.5, budget: 0.45, minStep: 0.1, scale: 10}
)

// Simulator produces a physiologically plausible synthetic vitals
// stream: each emission is a small time-correlated perturbation of the
// previous one, not an independent draw. It never fails and has no
// external dependencies, which is what makes it a safe substitute when
// the real telemetry channel is down.
//
// lastReading is the only shared mutable state in the service; the
// read-then-update in Next is a single critical section so two
// overlapping ticks cannot both continue from the same prior value.
type Simulator struct {
	mu   sync.Mutex
	last *domain.SensorReading
	rng  *rand.Rand
	now  func() time.Time
}

func NewSimulator() *Simulator {
	return &Simulator{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
}

// Next emits the next synthetic reading and advances the walk.
func (g *Simulator) Next() domain.SensorReading {
	g.mu.Lock()
	defer g.mu.Unlock()

	r := g.step(g.last, g.now())
	g.last = &r
	return r
}

// Backfill produces n synthetic points at the given spacing ending at
// end, oldest first. It runs a private walk and leaves the live state
// untouched, so a historical fill does not teleport the live stream.
func (g *Simulator) Backfill(n int, spacing time.Duration, end time.Time) []domain.SensorReading {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]domain.SensorReading, 0, n)
	var prev *domain.SensorReading
	for i := n - 1; i >= 0; i-- {
		r := g.step(prev, end.Add(-time.Duration(i)*spacing))
		out = append(out, r)
		prev = &out[len(out)-1]
	}
	return out
}

func (g *Simulator) step(prev *domain.SensorReading, at time.Time) domain.SensorReading {
	if prev == nil {
		return domain.SensorReading{
			O2Reading:       g.uniform(simOxygen),
			PulseReading:    g.uniform(simPulse),
			BodyTemperature: g.uniform(simTemp),
			Timestamp:       at,
		}
	}

	// Slowly-varying oscillation (different period per vital) plus a
	// small random perturbation; each contributes at most half the
	// per-tick budget.
	t := float64(at.Unix())
	return domain.SensorReading{
		O2Reading:       g.walk(prev.O2Reading, math.Sin(t/420), simOxygen),
		PulseReading:    g.walk(prev.PulseReading, math.Cos(t/300), simPulse),
		BodyTemperature: g.walk(prev.BodyTemperature, math.Sin(t/540), simTemp),
		Timestamp:       at,
	}
}

func (g *Simulator) uniform(b vitalBand) float64 {
	return roundTo(b.coldLo+g.rng.Float64()*(b.coldHi-b.coldLo), b.scale)
}

func (g *Simulator) walk(prev, osc float64, b vitalBand) float64 {
	delta := osc*b.budget/2 + (g.rng.Float64()*2-1)*b.budget/2
	if math.Abs(delta) < b.minStep {
		delta = b.minStep
		if g.rng.Intn(2) == 0 {
			delta = -delta
		}
	}
	return roundTo(clamp(prev+delta, b.lo, b.hi), b.scale)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func roundTo(v, scale float64) float64 {
	return math.Round(v*scale) / scale
}
