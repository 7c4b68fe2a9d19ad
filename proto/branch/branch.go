// ═══════════════════════════════════════════════════════════════════════════════════════════════
// Branch Outcome - shared wire type
// ═══════════════════════════════════════════════════════════════════════════════════════════════
//
// Every predictor component speaks in terms of a single resolved-outcome bit.
// Outcome is that bit. Its numeric value is the value shifted into history
// registers, so NotTaken must stay 0 and Taken must stay 1.
//
// Hardware: 1-bit wire from the branch resolution unit.
//
// ═══════════════════════════════════════════════════════════════════════════════════════════════

package branch

// Outcome is the resolved direction of a conditional branch.
type Outcome uint8

const (
	NotTaken Outcome = 0 // Fell through
	Taken    Outcome = 1 // Jumped to target
)

// FromBool converts a taken flag to an Outcome.
func FromBool(taken bool) Outcome {
	if taken {
		return Taken
	}
	return NotTaken
}

// IsTaken reports whether o is Taken.
func (o Outcome) IsTaken() bool {
	return o == Taken
}

// Bit returns the outcome as the bit shifted into history registers.
func (o Outcome) Bit() uint64 {
	return uint64(o & 1)
}

// Sign returns +1 for Taken and -1 for NotTaken (perceptron encoding).
func (o Outcome) Sign() int32 {
	if o == Taken {
		return 1
	}
	return -1
}

func (o Outcome) String() string {
	if o == Taken {
		return "taken"
	}
	return "not-taken"
}
