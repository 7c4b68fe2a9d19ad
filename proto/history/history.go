// ═══════════════════════════════════════════════════════════════════════════════════════════════
// Branch History - global register, per-address local table, ±1 vector
// ═══════════════════════════════════════════════════════════════════════════════════════════════
//
// REGISTER:
//   A width-bit shift register. ShiftIn is the only mutation:
//     next = ((value << 1) | outcome) & mask
//   Bit 0 always holds the most recent outcome, bit width-1 the oldest one still remembered.
//   Outcomes older than width branches fall off the top.
//
// LOCAL TABLE:
//   2^pcBits registers, selected by the low pcBits of the branch address. Each register holds the
//   recent outcomes of the branches that map to that bucket.
//
// VECTOR:
//   The perceptron needs history as ±1 inputs rather than packed bits. Vector keeps the last n
//   outcomes as int8 values, newest at position 0.
//
// Hardware: width flip-flops per register, 1-bit serial input.
//
// SystemVerilog equivalent:
//   always_ff @(posedge clk) if (update) ghr <= {ghr[W-2:0], taken};
//
// ═══════════════════════════════════════════════════════════════════════════════════════════════

package history

import (
	"github.com/maemowong/bpsim/proto/branch"
)

// MaxWidth is the widest register that fits in a uint64.
const MaxWidth = 64

// Register is a fixed-width outcome shift register.
type Register struct {
	value uint64
	width uint
	mask  uint64
}

// NewRegister creates an all-zero register of the given width (clamped to [1, MaxWidth]).
func NewRegister(width uint) Register {
	if width == 0 {
		width = 1
	}
	if width > MaxWidth {
		width = MaxWidth
	}
	return Register{width: width, mask: maskFor(width)}
}

//go:inline
func maskFor(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}

// ShiftIn folds a resolved outcome into the register.
func (r *Register) ShiftIn(o branch.Outcome) {
	r.value = ((r.value << 1) | o.Bit()) & r.mask
}

// Value returns the packed history, most recent outcome in bit 0.
func (r Register) Value() uint64 {
	return r.value
}

// Width returns the register width in bits.
func (r Register) Width() uint {
	return r.width
}

// Mask returns 2^width - 1.
func (r Register) Mask() uint64 {
	return r.mask
}

// Reset clears the register to all not-taken.
func (r *Register) Reset() {
	r.value = 0
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// LOCAL HISTORY TABLE
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// LocalTable is an array of per-address history registers.
type LocalTable struct {
	regs   []Register
	pcMask uint64
}

// NewLocalTable allocates 2^pcBits registers, each width bits wide.
func NewLocalTable(pcBits, width uint) *LocalTable {
	if pcBits > 24 {
		pcBits = 24
	}
	lt := &LocalTable{
		regs:   make([]Register, 1<<pcBits),
		pcMask: (uint64(1) << pcBits) - 1,
	}
	for i := range lt.regs {
		lt.regs[i] = NewRegister(width)
	}
	return lt
}

// Slot returns the bucket index for an address.
//
//go:inline
func (lt *LocalTable) Slot(pc uint64) uint64 {
	return pc & lt.pcMask
}

// Value returns the local history of the bucket pc maps to.
func (lt *LocalTable) Value(pc uint64) uint64 {
	return lt.regs[pc&lt.pcMask].value
}

// ShiftIn folds an outcome into the bucket pc maps to.
func (lt *LocalTable) ShiftIn(pc uint64, o branch.Outcome) {
	lt.regs[pc&lt.pcMask].ShiftIn(o)
}

// Len returns the number of registers.
func (lt *LocalTable) Len() int {
	return len(lt.regs)
}

// Reset clears every register.
func (lt *LocalTable) Reset() {
	for i := range lt.regs {
		lt.regs[i].value = 0
	}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// ±1 HISTORY VECTOR
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Vector holds the last n outcomes as +1 (taken) / -1 (not taken).
// Position 0 is the most recent outcome.
type Vector struct {
	bits []int8
}

// NewVector creates a vector of length n filled with -1.
func NewVector(n int) *Vector {
	v := &Vector{bits: make([]int8, n)}
	v.Reset()
	return v
}

// ShiftIn pushes an outcome at position 0, dropping the oldest.
func (v *Vector) ShiftIn(o branch.Outcome) {
	if len(v.bits) == 0 {
		return
	}
	copy(v.bits[1:], v.bits[:len(v.bits)-1])
	v.bits[0] = int8(o.Sign())
}

// At returns the encoded outcome i branches ago (0 = most recent).
func (v *Vector) At(i int) int32 {
	return int32(v.bits[i])
}

// Len returns the vector length.
func (v *Vector) Len() int {
	return len(v.bits)
}

// Reset refills the vector with not-taken.
func (v *Vector) Reset() {
	for i := range v.bits {
		v.bits[i] = -1
	}
}
