package gshare

import (
	"testing"

	"github.com/maemowong/bpsim/proto/branch"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// Gshare Branch Predictor - Test Suite
// ═══════════════════════════════════════════════════════════════════════════════════════════════
//
// 1. INITIALIZATION   table starts strongly not-taken, history zero
// 2. INDEXING         pc XOR history, pc masked to G bits
// 3. PROTOCOL         predict is pure, train updates then shifts
// 4. PATTERN LEARNING convergence, alternating, four-taken walk-through
//
// ═══════════════════════════════════════════════════════════════════════════════════════════════

func TestInit_TableNotTaken(t *testing.T) {
	p := New(4, 2)
	if p.Table.Len() != 16 {
		t.Fatalf("table has %d entries, expected 16", p.Table.Len())
	}
	for i := 0; i < p.Table.Len(); i++ {
		if v := p.Table.At(uint64(i)).Value(); v != InitialCounter {
			t.Errorf("entry %d=%d, expected %d", i, v, InitialCounter)
		}
	}
	if p.History.Value() != 0 {
		t.Errorf("history=%b, expected 0", p.History.Value())
	}
}

func TestIndex_PCXorHistory(t *testing.T) {
	// WHAT: index = (pc & mask) ^ ghr
	p := New(4, 2)
	p.History.ShiftIn(branch.Taken)
	p.History.ShiftIn(branch.NotTaken) // ghr = 0b10

	if idx := p.index(0xF3); idx != (0x3 ^ 0b10) {
		t.Errorf("index(0xF3)=%b, expected %b", idx, 0x3^0b10)
	}
}

func TestIndex_HighPCBitsIgnored(t *testing.T) {
	// WHAT: Addresses differing only above bit G share an entry
	p := New(4, 2)
	p.Train(0x1005, branch.Taken)
	p.Reset()
	p.Table.At(0x5).Increment()
	p.Table.At(0x5).Increment()
	if p.Predict(0xABCD0005) != branch.Taken {
		t.Error("0xABCD0005 must read the entry of 0x5")
	}
}

func TestProtocol_PredictIsPure(t *testing.T) {
	p := New(3, 2)
	p.Train(1, branch.Taken)
	before := p.History.Value()
	counter := p.Table.At(p.index(1)).Value()
	for i := 0; i < 10; i++ {
		p.Predict(1)
	}
	if p.History.Value() != before || p.Table.At(p.index(1)).Value() != counter {
		t.Error("Predict must not change state")
	}
}

func TestProtocol_TrainUsesPreShiftIndex(t *testing.T) {
	// WHAT: Train updates the counter Predict read, then shifts history
	p := New(3, 2)
	idx := p.index(0x6)
	p.Train(0x6, branch.Taken)
	if p.Table.At(idx).Value() != 1 {
		t.Errorf("counter at pre-shift index %d=%d, expected 1", idx, p.Table.At(idx).Value())
	}
	if p.History.Value() != 1 {
		t.Errorf("history=%b, expected 1", p.History.Value())
	}
}

func TestPattern_FourTakenWalkthrough(t *testing.T) {
	// WHAT: G=2, pc=0, all-taken stream
	// The first two branches land on indices 0 and 1 while history fills up.
	// From the third branch on history is 0b11 and the index stays at 3, where the counter
	// climbs 0→1→2→3: predictions NotTaken, NotTaken, Taken, Taken.
	p := New(2, 2)

	wantIdx := []uint64{0, 1, 3, 3, 3, 3}
	want := []branch.Outcome{
		branch.NotTaken, branch.NotTaken, // history warm-up
		branch.NotTaken, branch.NotTaken, branch.Taken, branch.Taken, // counter 0,1,2,3 at index 3
	}
	for i := range want {
		if idx := p.index(0); idx != wantIdx[i] {
			t.Errorf("branch %d: index=%d, expected %d", i, idx, wantIdx[i])
		}
		if got := p.Predict(0); got != want[i] {
			t.Errorf("branch %d: predicted %v, expected %v", i, got, want[i])
		}
		p.Train(0, branch.Taken)
		if i == 3 && p.History.Value() != 0b11 {
			t.Errorf("history after four trains=%b, expected 11", p.History.Value())
		}
	}
	if v := p.Table.At(3).Value(); v != 3 {
		t.Errorf("counter at index 3=%d, expected 3", v)
	}
}

func TestPattern_RepeatedPairConverges(t *testing.T) {
	// WHAT: Repeating the same (pc, outcome) pair makes Predict stabilize to outcome
	for _, outcome := range []branch.Outcome{branch.Taken, branch.NotTaken} {
		for _, g := range []uint{1, 4, 13} {
			p := New(g, 2)
			for i := 0; i < int(g)+4; i++ {
				p.Train(0x40a1f4, outcome)
			}
			for i := 0; i < 20; i++ {
				if got := p.Predict(0x40a1f4); got != outcome {
					t.Fatalf("G=%d outcome=%v: iteration %d predicted %v", g, outcome, i, got)
				}
				p.Train(0x40a1f4, outcome)
			}
		}
	}
}

func TestPattern_AlternatingLearned(t *testing.T) {
	// WHAT: History disambiguates an alternating branch that a bimodal table cannot learn
	p := New(4, 2)
	outcome := branch.Taken
	for i := 0; i < 50; i++ {
		p.Train(0x100, outcome)
		outcome = branch.FromBool(!outcome.IsTaken())
	}
	for i := 0; i < 20; i++ {
		if got := p.Predict(0x100); got != outcome {
			t.Fatalf("iteration %d: predicted %v, expected %v", i, got, outcome)
		}
		p.Train(0x100, outcome)
		outcome = branch.FromBool(!outcome.IsTaken())
	}
}

func TestReset_RestoresInitialState(t *testing.T) {
	p := New(3, 2)
	for i := 0; i < 10; i++ {
		p.Train(uint64(i), branch.Taken)
	}
	p.Reset()
	if p.History.Value() != 0 {
		t.Error("history not cleared")
	}
	for i := 0; i < p.Table.Len(); i++ {
		if p.Table.At(uint64(i)).Value() != InitialCounter {
			t.Errorf("entry %d not reset", i)
		}
	}
}
