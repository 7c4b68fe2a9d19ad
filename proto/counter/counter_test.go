package counter

import (
	"testing"

	"github.com/maemowong/bpsim/proto/branch"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// Saturating Counter - Test Suite
// ═══════════════════════════════════════════════════════════════════════════════════════════════
//
// Tests are organized to mirror the hardware behavior:
//
// 1. SATURATION TESTS
//    Bounds hold for every width under any increment/decrement sequence
//
// 2. BINARIZATION TESTS
//    Midpoint rule, all four 2-bit states
//
// 3. TABLE TESTS
//    Index masking, reset, independence of entries
//
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// 1. SATURATION TESTS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

func TestCounter_SaturatesAtMax(t *testing.T) {
	// WHAT: Incrementing a strongly-taken counter leaves it strongly-taken
	// WHY: Wraparound to 0 would flip a confident prediction on one more taken branch
	for width := uint(1); width <= MaxWidth; width++ {
		c := New(width, 0)
		max := uint8((1 << width) - 1)
		for i := 0; i < 600; i++ {
			c.Increment()
		}
		if c.Value() != max {
			t.Errorf("width %d: value=%d after saturating increments, expected %d", width, c.Value(), max)
		}
	}
}

func TestCounter_SaturatesAtZero(t *testing.T) {
	// WHAT: Decrementing a strongly-not-taken counter leaves it at 0
	// WHY: uint8 underflow would jump to 255
	for width := uint(1); width <= MaxWidth; width++ {
		c := New(width, 0)
		for i := 0; i < 10; i++ {
			c.Decrement()
		}
		if c.Value() != 0 {
			t.Errorf("width %d: value=%d after decrements from 0, expected 0", width, c.Value())
		}
	}
}

func TestCounter_BoundsUnderRandomWalk(t *testing.T) {
	// WHAT: Value stays in [0, 2^C-1] for an arbitrary walk
	// WHY: Core invariant of the primitive
	//
	// Deterministic LCG so the walk is reproducible.
	for width := uint(1); width <= MaxWidth; width++ {
		c := New(width, Midpoint(width))
		max := uint8((1 << width) - 1)
		seed := uint32(width * 2654435761)
		for i := 0; i < 10000; i++ {
			seed = seed*1664525 + 1013904223
			if seed&0x80000000 != 0 {
				c.Increment()
			} else {
				c.Decrement()
			}
			if c.Value() > max {
				t.Fatalf("width %d step %d: value=%d exceeds %d", width, i, c.Value(), max)
			}
		}
	}
}

func TestCounter_InitClamped(t *testing.T) {
	// WHAT: An out-of-range initial value is clamped to the maximum
	c := New(2, 200)
	if c.Value() != 3 {
		t.Errorf("New(2, 200).Value()=%d, expected 3", c.Value())
	}
}

func TestCounter_UpdateFollowsOutcome(t *testing.T) {
	c := New(2, 1)
	c.Update(branch.Taken)
	if c.Value() != 2 {
		t.Errorf("after taken: %d, expected 2", c.Value())
	}
	c.Update(branch.NotTaken)
	c.Update(branch.NotTaken)
	if c.Value() != 0 {
		t.Errorf("after two not-taken: %d, expected 0", c.Value())
	}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// 2. BINARIZATION TESTS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

func TestCounter_TwoBitStates(t *testing.T) {
	// WHAT: 2-bit counter binarizes 0,1 → not taken and 2,3 → taken
	// HARDWARE: taken = cnt[1]
	expected := []branch.Outcome{branch.NotTaken, branch.NotTaken, branch.Taken, branch.Taken}
	for v, want := range expected {
		c := New(2, uint8(v))
		if got := c.AsBit(); got != want {
			t.Errorf("counter=%d: AsBit()=%v, expected %v", v, got, want)
		}
	}
}

func TestCounter_Midpoint(t *testing.T) {
	// WHAT: Midpoint is 2^(C-1) for every width
	for width := uint(1); width <= MaxWidth; width++ {
		want := uint8(1 << (width - 1))
		if got := Midpoint(width); got != want {
			t.Errorf("Midpoint(%d)=%d, expected %d", width, got, want)
		}
		c := New(width, want)
		if !c.AtMidpoint() || !c.Taken() {
			t.Errorf("width %d: counter at midpoint must report AtMidpoint and Taken", width)
		}
		c.Decrement()
		if c.Taken() {
			t.Errorf("width %d: counter just below midpoint must predict not taken", width)
		}
	}
}

func TestCounter_HysteresisNeedsTwoSurprises(t *testing.T) {
	// WHAT: Strongly-taken 2-bit counter needs two not-taken outcomes to flip
	// WHY: This is the point of a 2-bit counter over a 1-bit last-outcome bit
	c := New(2, 3)
	c.Decrement()
	if !c.Taken() {
		t.Fatal("one not-taken must not flip a strongly-taken counter")
	}
	c.Decrement()
	if c.Taken() {
		t.Fatal("two not-taken must flip the counter")
	}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// 3. TABLE TESTS
// ═══════════════════════════════════════════════════════════════════════════════════════════════

func TestTable_SizeAndInit(t *testing.T) {
	tbl := NewTable(4, 2, 1)
	if tbl.Len() != 16 {
		t.Fatalf("Len()=%d, expected 16", tbl.Len())
	}
	for i := 0; i < tbl.Len(); i++ {
		if v := tbl.At(uint64(i)).Value(); v != 1 {
			t.Errorf("entry %d=%d, expected 1", i, v)
		}
	}
}

func TestTable_IndexMasked(t *testing.T) {
	// WHAT: Raw indices wider than the table alias onto the low bits
	// WHY: Callers pass (pc ^ history) without masking
	tbl := NewTable(3, 2, 0)
	tbl.At(0xFFF5).Increment()
	if tbl.At(5).Value() != 1 {
		t.Errorf("entry 5=%d after incrementing raw index 0xFFF5, expected 1", tbl.At(5).Value())
	}
	if tbl.Index(0xFFF5) != 5 {
		t.Errorf("Index(0xFFF5)=%d, expected 5", tbl.Index(0xFFF5))
	}
}

func TestTable_ResetRestoresInit(t *testing.T) {
	tbl := NewTable(2, 2, 2)
	tbl.At(0).Increment()
	tbl.At(3).Decrement()
	tbl.Reset()
	for i := 0; i < tbl.Len(); i++ {
		if v := tbl.At(uint64(i)).Value(); v != 2 {
			t.Errorf("entry %d=%d after reset, expected 2", i, v)
		}
	}
}

func TestTable_Histogram(t *testing.T) {
	tbl := NewTable(2, 2, 0)
	tbl.At(1).Increment()
	tbl.At(2).Increment()
	tbl.At(2).Increment()
	h := tbl.Histogram()
	want := []int{2, 1, 1, 0}
	for v := range want {
		if h[v] != want[v] {
			t.Errorf("histogram[%d]=%d, expected %d", v, h[v], want[v])
		}
	}
}
