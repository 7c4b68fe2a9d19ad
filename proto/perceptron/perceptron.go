// ═══════════════════════════════════════════════════════════════════════════════════════════════
// Perceptron Branch Predictor (bounded-weight online learner)
// ═══════════════════════════════════════════════════════════════════════════════════════════════
//
// OVERVIEW:
// ─────────
// Each weight-table row is a tiny linear classifier over the last H global outcomes. The row
// for a branch is picked by hashing its address:
//
//   row = (pc × HashMultiplier) mod N
//
// N need not be a power of two. Aliasing between branches that share a row is accepted.
//
// PREDICTION:
// ───────────
//   sum   = w[0] + Σ_{i=1..H} x[i-1] · w[i]        x ∈ {-1, +1}, newest outcome in x[0]
//   taken = sum >= 0
//   weak  = -T < sum < T                           (inside the training margin)
//
// TRAINING:
// ─────────
// Weights move only when the prediction was wrong or weak. A correct prediction outside the
// margin leaves the row untouched, which keeps the average update cost low.
//
//   w[0] += t                                      t = +1 taken, -1 not taken
//   w[i] += (x[i-1] == t) ? +1 : -1
//
// Every update saturates into [-M, M-1], the range of a log2(2M)-bit signed register. The
// history vector shifts on every Train call whether or not weights moved.
//
// Predict does not cache anything. Train recomputes the sum from the same pre-update state,
// so the confidence decision it trains on is the one Predict reported.
//
// Hardware: N × (H+1) × log2(2M)-bit SRAM, H-input adder tree, saturating incrementers.
//
// ═══════════════════════════════════════════════════════════════════════════════════════════════

package perceptron

import (
	"github.com/maemowong/bpsim/proto/branch"
	"github.com/maemowong/bpsim/proto/history"
)

const (
	// HashMultiplier is the odd constant k of the row hash.
	HashMultiplier = 7

	// DefaultHistoryLength is H.
	DefaultHistoryLength = 32

	// DefaultEntries is N. Prime, so word-aligned addresses still spread over every row.
	DefaultEntries = 509

	// DefaultWeightBound is M: 8-bit signed weights.
	DefaultWeightBound = 128
)

// DefaultThreshold returns ⌊1.25·H + 14⌋.
func DefaultThreshold(historyLength int) int32 {
	return int32((5*historyLength)/4 + 14)
}

// Params configures a perceptron predictor.
type Params struct {
	HistoryLength int   // H
	Entries       int   // N
	WeightBound   int32 // M: weights live in [-M, M-1]
	Threshold     int32 // T
}

// Output is the combinational result of evaluating one row.
type Output struct {
	Row           int
	Sum           int32
	Prediction    branch.Outcome
	LowConfidence bool
}

// Predictor is a perceptron predictor.
type Predictor struct {
	Weights [][]int32       // N rows × (H+1) weights, bias at [0]
	History *history.Vector // last H outcomes as ±1
	params  Params
	minW    int32
	maxW    int32
}

// New creates a perceptron predictor with all weights at zero.
func New(p Params) *Predictor {
	pred := &Predictor{
		Weights: make([][]int32, p.Entries),
		History: history.NewVector(p.HistoryLength),
		params:  p,
		minW:    -p.WeightBound,
		maxW:    p.WeightBound - 1,
	}
	backing := make([]int32, p.Entries*(p.HistoryLength+1))
	for i := range pred.Weights {
		pred.Weights[i] = backing[i*(p.HistoryLength+1) : (i+1)*(p.HistoryLength+1)]
	}
	return pred
}

// Params returns the predictor geometry.
func (p *Predictor) Params() Params {
	return p.params
}

// Row hashes an address onto the weight table.
func (p *Predictor) Row(pc uint64) int {
	return int((pc * HashMultiplier) % uint64(p.params.Entries))
}

// Evaluate computes the dot product for pc without changing any state.
func (p *Predictor) Evaluate(pc uint64) Output {
	row := p.Row(pc)
	w := p.Weights[row]

	sum := w[0]
	for i := 1; i < len(w); i++ {
		sum += p.History.At(i-1) * w[i]
	}

	t := p.params.Threshold
	return Output{
		Row:           row,
		Sum:           sum,
		Prediction:    branch.FromBool(sum >= 0),
		LowConfidence: sum > -t && sum < t,
	}
}

// Predict returns taken iff the row's sum is non-negative.
func (p *Predictor) Predict(pc uint64) branch.Outcome {
	return p.Evaluate(pc).Prediction
}

// Train corrects the row on a mispredict or a weak prediction, then shifts history.
func (p *Predictor) Train(pc uint64, outcome branch.Outcome) {
	out := p.Evaluate(pc)

	if out.Prediction != outcome || out.LowConfidence {
		w := p.Weights[out.Row]
		t := outcome.Sign()

		w[0] = p.saturate(w[0] + t)
		for i := 1; i < len(w); i++ {
			if p.History.At(i-1) == t {
				w[i] = p.saturate(w[i] + 1)
			} else {
				w[i] = p.saturate(w[i] - 1)
			}
		}
	}

	p.History.ShiftIn(outcome)
}

//go:inline
func (p *Predictor) saturate(v int32) int32 {
	return min(max(v, p.minW), p.maxW)
}

// Reset zeroes every weight and clears history.
func (p *Predictor) Reset() {
	for _, row := range p.Weights {
		clear(row)
	}
	p.History.Reset()
}

// Stats summarizes the weight table (debug only).
type Stats struct {
	NonZeroWeights int
	SaturatedHigh  int
	SaturatedLow   int
}

// Stats scans the weight table.
func (p *Predictor) Stats() Stats {
	var s Stats
	for _, row := range p.Weights {
		for _, w := range row {
			if w != 0 {
				s.NonZeroWeights++
			}
			if w == p.maxW {
				s.SaturatedHigh++
			}
			if w == p.minW {
				s.SaturatedLow++
			}
		}
	}
	return s
}
