// ═══════════════════════════════════════════════════════════════════════════════════════════════
// Saturating Counter - smallest predictor state unit
// ═══════════════════════════════════════════════════════════════════════════════════════════════
//
// A C-bit saturating counter holds a value in [0, 2^C - 1]. Training moves it by one step toward
// the observed outcome and clamps at both ends, so a single surprise never flips a strongly
// biased counter. With the common C = 2 the four states read:
//
//   0  strongly not-taken
//   1  weakly not-taken
//   2  weakly taken
//   3  strongly taken
//
// Binarization: value >= 2^(C-1) predicts taken.
//
// The counter is an explicit value type instead of bits packed into a byte array. Tables of
// counters are plain slices, so no shift/mask arithmetic is needed to read one entry.
//
// Hardware: C-bit up/down counter with saturation detect, 1 comparator for the MSB.
//
// SystemVerilog equivalent:
//   always_ff @(posedge clk)
//     if (inc && cnt != '1)      cnt <= cnt + 1;
//     else if (dec && cnt != '0) cnt <= cnt - 1;
//   assign taken = cnt[C-1];
//
// ═══════════════════════════════════════════════════════════════════════════════════════════════

package counter

import (
	"github.com/maemowong/bpsim/proto/branch"
)

const (
	// DefaultWidth is the 2-bit counter used by gshare and tournament tables.
	DefaultWidth = 2

	// MaxWidth bounds the counter to one byte of storage.
	MaxWidth = 8
)

// Counter is a saturating counter of a fixed bit width.
type Counter struct {
	value uint8 // Current state, always in [0, max]
	max   uint8 // 2^width - 1
}

// New creates a counter of the given width holding init (clamped into range).
// Widths outside [1, MaxWidth] are clamped as well; callers validate widths
// at configuration time.
func New(width uint, init uint8) Counter {
	m := maxFor(width)
	if init > m {
		init = m
	}
	return Counter{value: init, max: m}
}

//go:inline
func maxFor(width uint) uint8 {
	if width == 0 {
		width = 1
	}
	if width > MaxWidth {
		width = MaxWidth
	}
	return uint8((uint16(1) << width) - 1)
}

// Midpoint returns 2^(C-1), the smallest value that predicts taken.
func Midpoint(width uint) uint8 {
	return maxFor(width)/2 + 1
}

// Increment moves one step toward strongly-taken, saturating at the maximum.
func (c *Counter) Increment() {
	if c.value < c.max {
		c.value++
	}
}

// Decrement moves one step toward strongly-not-taken, saturating at zero.
func (c *Counter) Decrement() {
	if c.value > 0 {
		c.value--
	}
}

// Update trains the counter toward an outcome.
func (c *Counter) Update(o branch.Outcome) {
	if o.IsTaken() {
		c.Increment()
	} else {
		c.Decrement()
	}
}

// Value returns the raw counter state.
func (c Counter) Value() uint8 {
	return c.value
}

// Max returns the saturation ceiling.
func (c Counter) Max() uint8 {
	return c.max
}

// Midpoint returns the decision boundary of this counter.
func (c Counter) Midpoint() uint8 {
	return c.max/2 + 1
}

// AtMidpoint reports a counter sitting exactly on the decision boundary.
func (c Counter) AtMidpoint() bool {
	return c.value == c.Midpoint()
}

// Taken binarizes the counter: taken iff value >= midpoint.
func (c Counter) Taken() bool {
	return c.value >= c.Midpoint()
}

// AsBit returns the binarized counter as an Outcome.
func (c Counter) AsBit() branch.Outcome {
	return branch.FromBool(c.Taken())
}
