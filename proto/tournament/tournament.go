// ═══════════════════════════════════════════════════════════════════════════════════════════════
// Tournament Branch Predictor (local + global + meta-chooser)
// ═══════════════════════════════════════════════════════════════════════════════════════════════
//
// OVERVIEW:
// ─────────
// Two sub-predictors vote and a third table decides whose vote counts.
//
//   GLOBAL:  2^G counters indexed by the G-bit global history.
//            Captures correlation between different branches.
//   LOCAL:   2^P history registers (L bits each) selected by the low P address bits,
//            feeding 2^L counters indexed by that local history.
//            Captures per-branch repeating patterns (loops, alternations).
//   CHOOSER: 2^G counters indexed by the global history.
//            Tracks which sub-predictor has been right more often in that history context.
//
// ARBITRATION:
// ────────────
//   chooser >= midpoint → global vote
//   chooser <  midpoint → local vote
//
// A chooser exactly at the midpoint (its reset value) selects the global vote. Training moves
// the chooser only when the two votes disagree: up when global matched the outcome, down when
// local matched.
//
// TRAINING POLICY:
// ────────────────
//   Unconditional: both sub-predictors train on every branch (default).
//   ProviderOnly:  only the sub-predictor the chooser selected trains.
//
// Both histories shift after the counters are updated, so Train sees the same indices that
// Predict computed for this branch.
//
// Hardware: 3 SRAM tables + 2^P local history registers + 1 global register, 2:1 MUX on output.
//
// ═══════════════════════════════════════════════════════════════════════════════════════════════

package tournament

import (
	"github.com/maemowong/bpsim/proto/branch"
	"github.com/maemowong/bpsim/proto/counter"
	"github.com/maemowong/bpsim/proto/history"
)

// TrainPolicy selects which sub-predictors train on a resolved branch.
type TrainPolicy uint8

const (
	// Unconditional trains both sub-predictors on every branch.
	Unconditional TrainPolicy = iota
	// ProviderOnly trains only the sub-predictor whose vote was used.
	ProviderOnly
)

func (p TrainPolicy) String() string {
	switch p {
	case Unconditional:
		return "unconditional"
	case ProviderOnly:
		return "provider-only"
	default:
		return "unknown"
	}
}

// Geometry holds the table widths of a tournament predictor.
type Geometry struct {
	GlobalBits  uint // G: global history width, global and chooser table index width
	LocalBits   uint // L: local history width, local table index width
	PCBits      uint // P: local history table index width
	CounterBits uint // C: counter width for all three tables
}

// Lookup is the combinational result of one table read. Predict and Train both derive it from
// the pre-update state.
type Lookup struct {
	GlobalIndex uint64
	LocalIndex  uint64
	GlobalVote  branch.Outcome
	LocalVote   branch.Outcome
	UseLocal    bool
}

// Prediction returns the vote the chooser selected.
func (l Lookup) Prediction() branch.Outcome {
	if l.UseLocal {
		return l.LocalVote
	}
	return l.GlobalVote
}

// Predictor is a tournament predictor.
type Predictor struct {
	Global        *counter.Table      // 2^G counters, indexed by global history
	Local         *counter.Table      // 2^L counters, indexed by local history
	Chooser       *counter.Table      // 2^G counters, indexed by global history
	GlobalHistory history.Register    // G-bit global history
	LocalHistory  *history.LocalTable // 2^P × L-bit local histories
	Policy        TrainPolicy         // Which sub-predictors train
	geometry      Geometry
}

// New creates a tournament predictor. All counters start at the midpoint.
func New(g Geometry, policy TrainPolicy) *Predictor {
	mid := counter.Midpoint(g.CounterBits)
	return &Predictor{
		Global:        counter.NewTable(g.GlobalBits, g.CounterBits, mid),
		Local:         counter.NewTable(g.LocalBits, g.CounterBits, mid),
		Chooser:       counter.NewTable(g.GlobalBits, g.CounterBits, mid),
		GlobalHistory: history.NewRegister(g.GlobalBits),
		LocalHistory:  history.NewLocalTable(g.PCBits, g.LocalBits),
		Policy:        policy,
		geometry:      g,
	}
}

// Geometry returns the table widths the predictor was built with.
func (p *Predictor) Geometry() Geometry {
	return p.geometry
}

// Lookup reads all three tables for pc without changing any state.
func (p *Predictor) Lookup(pc uint64) Lookup {
	ghIdx := p.GlobalHistory.Value()
	localIdx := p.LocalHistory.Value(pc)

	// Chooser below the midpoint hands the decision to the local vote.
	return Lookup{
		GlobalIndex: ghIdx,
		LocalIndex:  localIdx,
		GlobalVote:  p.Global.At(ghIdx).AsBit(),
		LocalVote:   p.Local.At(localIdx).AsBit(),
		UseLocal:    !p.Chooser.At(ghIdx).Taken(),
	}
}

// Predict returns the chooser-selected vote.
func (p *Predictor) Predict(pc uint64) branch.Outcome {
	return p.Lookup(pc).Prediction()
}

// Train updates the chooser, the sub-predictors and both histories.
func (p *Predictor) Train(pc uint64, outcome branch.Outcome) {
	l := p.Lookup(pc)

	if l.GlobalVote != l.LocalVote {
		chooser := p.Chooser.At(l.GlobalIndex)
		if l.GlobalVote == outcome {
			chooser.Increment()
		} else {
			chooser.Decrement()
		}
	}

	switch p.Policy {
	case ProviderOnly:
		if l.UseLocal {
			p.Local.At(l.LocalIndex).Update(outcome)
		} else {
			p.Global.At(l.GlobalIndex).Update(outcome)
		}
	default:
		p.Global.At(l.GlobalIndex).Update(outcome)
		p.Local.At(l.LocalIndex).Update(outcome)
	}

	p.GlobalHistory.ShiftIn(outcome)
	p.LocalHistory.ShiftIn(pc, outcome)
}

// Reset restores the initial state.
func (p *Predictor) Reset() {
	p.Global.Reset()
	p.Local.Reset()
	p.Chooser.Reset()
	p.GlobalHistory.Reset()
	p.LocalHistory.Reset()
}
