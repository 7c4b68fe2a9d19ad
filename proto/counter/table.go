package counter

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// COUNTER TABLE
// ═══════════════════════════════════════════════════════════════════════════════════════════════
//
// Table is a direct-mapped array of 2^indexBits saturating counters. Every lookup masks the
// index to indexBits, so callers may pass a raw (pc XOR history) value without pre-masking.
//
// Table sizes are fixed at construction and never change. Reset rewrites every entry with the
// initial value the table was built with.
//
// Hardware: 2^indexBits × C-bit SRAM, indexBits-wide address decoder.
//
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// MaxIndexBits caps table geometry at 16M entries.
const MaxIndexBits = 24

// Table is a fixed-size array of saturating counters.
type Table struct {
	entries   []Counter
	indexBits uint
	mask      uint64
	width     uint
	init      uint8
}

// NewTable allocates 2^indexBits counters of the given width, all holding init.
func NewTable(indexBits, width uint, init uint8) *Table {
	if indexBits > MaxIndexBits {
		indexBits = MaxIndexBits
	}
	t := &Table{
		entries:   make([]Counter, 1<<indexBits),
		indexBits: indexBits,
		mask:      (uint64(1) << indexBits) - 1,
		width:     width,
		init:      init,
	}
	t.Reset()
	return t
}

// Reset restores every counter to the table's initial value.
func (t *Table) Reset() {
	for i := range t.entries {
		t.entries[i] = New(t.width, t.init)
	}
}

// Index masks a raw index to the table geometry.
//
//go:inline
func (t *Table) Index(raw uint64) uint64 {
	return raw & t.mask
}

// At returns the counter stored at raw & mask.
func (t *Table) At(raw uint64) *Counter {
	return &t.entries[raw&t.mask]
}

// Len returns the number of counters.
func (t *Table) Len() int {
	return len(t.entries)
}

// IndexBits returns the table's address width.
func (t *Table) IndexBits() uint {
	return t.indexBits
}

// Width returns the counter width in bits.
func (t *Table) Width() uint {
	return t.width
}

// Histogram counts how many entries hold each counter value (debug only).
func (t *Table) Histogram() []int {
	if len(t.entries) == 0 {
		return nil
	}
	h := make([]int, int(t.entries[0].max)+1)
	for _, c := range t.entries {
		h[c.value]++
	}
	return h
}
