// ═══════════════════════════════════════════════════════════════════════════════════════════════
// Gshare Branch Predictor
// ═══════════════════════════════════════════════════════════════════════════════════════════════
//
// OVERVIEW:
// ─────────
// Gshare keeps one table of 2^G saturating counters and one G-bit global history register.
// The table index XOR-folds the low G bits of the branch address with the global history:
//
//   index = (pc & (2^G - 1)) ^ ghr
//
// A single table then captures both per-address bias (pc bits) and correlation with the
// outcomes of recently executed branches (history bits), without a separate local table.
//
// PROTOCOL:
// ─────────
//   Predict(pc)        pure read: binarize table[index]
//   Train(pc, outcome) step table[index] toward outcome, then shift outcome into ghr
//
// Train recomputes the index from the current (not yet shifted) history, which is the same
// history Predict saw for this branch.
//
// Hardware: 2^G × 2-bit SRAM, G-bit shift register, G XOR gates.
//
// SystemVerilog equivalent:
//   assign idx  = pc[G-1:0] ^ ghr;
//   assign pred = pht[idx][C-1];
//   always_ff @(posedge clk) if (update) begin
//     pht[idx] <= sat_step(pht[idx], taken);
//     ghr      <= {ghr[G-2:0], taken};
//   end
//
// ═══════════════════════════════════════════════════════════════════════════════════════════════

package gshare

import (
	"github.com/maemowong/bpsim/proto/branch"
	"github.com/maemowong/bpsim/proto/counter"
	"github.com/maemowong/bpsim/proto/history"
)

// InitialCounter is the reset value of every pattern-table counter (strongly not-taken).
const InitialCounter = 0

// Predictor is a gshare predictor.
type Predictor struct {
	Table   *counter.Table   // 2^G pattern history counters
	History history.Register // G-bit global history
	pcMask  uint64
}

// New creates a gshare predictor with G history bits and C-bit counters.
func New(historyBits, counterBits uint) *Predictor {
	return &Predictor{
		Table:   counter.NewTable(historyBits, counterBits, InitialCounter),
		History: history.NewRegister(historyBits),
		pcMask:  (uint64(1) << historyBits) - 1,
	}
}

// index folds the masked address with the global history.
//
//go:inline
func (p *Predictor) index(pc uint64) uint64 {
	return (pc & p.pcMask) ^ p.History.Value()
}

// Predict returns the binarized counter selected by pc and the global history.
func (p *Predictor) Predict(pc uint64) branch.Outcome {
	return p.Table.At(p.index(pc)).AsBit()
}

// Train steps the selected counter toward the outcome and records the outcome in history.
func (p *Predictor) Train(pc uint64, outcome branch.Outcome) {
	p.Table.At(p.index(pc)).Update(outcome)
	p.History.ShiftIn(outcome)
}

// Reset restores the initial state.
func (p *Predictor) Reset() {
	p.Table.Reset()
	p.History.Reset()
}
