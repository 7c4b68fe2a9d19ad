package sim

import (
	"github.com/maemowong/bpsim/proto/branch"
	"gonum.org/v1/gonum/stat"
)

// Stats accumulates prediction accuracy over a replay.
type Stats struct {
	Predictor      string
	Branches       uint64
	Mispredictions uint64

	windowSize   uint64
	windowCount  uint64
	windowMisses uint64
	windowRates  []float64
}

// NewStats creates empty statistics. windowSize 0 disables per-window rates.
func NewStats(predictor string, windowSize uint64) *Stats {
	return &Stats{Predictor: predictor, windowSize: windowSize}
}

// Record counts one prediction against its resolved outcome.
func (s *Stats) Record(predicted, actual branch.Outcome) {
	s.Branches++
	miss := predicted != actual
	if miss {
		s.Mispredictions++
	}

	if s.windowSize == 0 {
		return
	}
	s.windowCount++
	if miss {
		s.windowMisses++
	}
	if s.windowCount == s.windowSize {
		s.closeWindow()
	}
}

// Flush closes a partially filled window.
func (s *Stats) Flush() {
	if s.windowCount > 0 {
		s.closeWindow()
	}
}

func (s *Stats) closeWindow() {
	s.windowRates = append(s.windowRates, 100*float64(s.windowMisses)/float64(s.windowCount))
	s.windowCount, s.windowMisses = 0, 0
}

// MispredictionRate returns the percentage of incorrect predictions.
func (s *Stats) MispredictionRate() float64 {
	if s.Branches == 0 {
		return 0
	}
	return 100 * float64(s.Mispredictions) / float64(s.Branches)
}

// Accuracy returns the percentage of correct predictions.
func (s *Stats) Accuracy() float64 {
	if s.Branches == 0 {
		return 0
	}
	return 100 - s.MispredictionRate()
}

// WindowRates returns the misprediction rate of every closed window.
func (s *Stats) WindowRates() []float64 {
	return s.windowRates
}

// WindowSummary returns mean and standard deviation of the window rates.
func (s *Stats) WindowSummary() (mean, stddev float64) {
	switch len(s.windowRates) {
	case 0:
		return 0, 0
	case 1:
		return s.windowRates[0], 0
	}
	return stat.MeanStdDev(s.windowRates, nil)
}
