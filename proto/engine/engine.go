// ═══════════════════════════════════════════════════════════════════════════════════════════════
// Prediction Engine - one strategy per run, two-call protocol
// ═══════════════════════════════════════════════════════════════════════════════════════════════
//
// The engine is a tagged variant: a Strategy tag plus exactly one non-nil state pointer for that
// strategy. Predict and Train switch on the tag. Strategies share the protocol but no state, and
// each owns its tables outright.
//
// PROTOCOL (per conditional branch, program order):
//   1. outcome := eng.Predict(pc)     pure read
//   2. eng.Train(pc, actual)          only mutation, once, after Predict for the same branch
//
// Train is not idempotent: a second call for the same branch applies the update twice.
// An Engine has no internal locking. Concurrent replays need one Engine each.
//
// ═══════════════════════════════════════════════════════════════════════════════════════════════

package engine

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/maemowong/bpsim/logger"
	"github.com/maemowong/bpsim/proto/branch"
	"github.com/maemowong/bpsim/proto/gshare"
	"github.com/maemowong/bpsim/proto/perceptron"
	"github.com/maemowong/bpsim/proto/tournament"
)

// Strategy tags the active prediction policy.
type Strategy uint8

const (
	Static Strategy = iota
	Gshare
	Tournament
	Adaptive
	numStrategies
)

var strategyNames = [numStrategies]string{"Static", "Gshare", "Tournament", "Adaptive"}

func (s Strategy) valid() bool {
	return s < numStrategies
}

func (s Strategy) String() string {
	if !s.valid() {
		return fmt.Sprintf("Strategy(%d)", uint8(s))
	}
	return strategyNames[s]
}

// ParseStrategy maps a case-insensitive name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "static":
		return Static, nil
	case "gshare":
		return Gshare, nil
	case "tournament":
		return Tournament, nil
	case "adaptive", "custom", "perceptron":
		return Adaptive, nil
	}
	return 0, errors.Wrapf(ErrInvalidConfig, "unknown strategy %q", name)
}

// Option configures optional collaborators of an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for construction and reset messages.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// Engine drives exactly one strategy.
type Engine struct {
	strategy   Strategy
	cfg        Config
	gshare     *gshare.Predictor
	tournament *tournament.Predictor
	perceptron *perceptron.Predictor
	log        logger.Logger
}

// New validates cfg and allocates the selected strategy's state.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.resolved()

	e := &Engine{strategy: cfg.Strategy, cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.NewLogger("warning", "Engine")
	}

	switch cfg.Strategy {
	case Static:
	case Gshare:
		e.gshare = gshare.New(cfg.GlobalHistoryBits, cfg.CounterBits)
	case Tournament:
		e.tournament = tournament.New(tournament.Geometry{
			GlobalBits:  cfg.GlobalHistoryBits,
			LocalBits:   cfg.LocalHistoryBits,
			PCBits:      cfg.PCIndexBits,
			CounterBits: cfg.CounterBits,
		}, cfg.TrainPolicy)
	case Adaptive:
		e.perceptron = perceptron.New(perceptron.Params{
			HistoryLength: cfg.HistoryLength,
			Entries:       cfg.TableEntries,
			WeightBound:   int32(cfg.WeightBound),
			Threshold:     int32(cfg.Threshold),
		})
	}

	e.log.Debugf("constructed %s", e.Name())
	return e, nil
}

// Predict returns the predicted outcome for the branch at pc without changing state.
func (e *Engine) Predict(pc uint64) branch.Outcome {
	switch e.strategy {
	case Gshare:
		return e.gshare.Predict(pc)
	case Tournament:
		return e.tournament.Predict(pc)
	case Adaptive:
		return e.perceptron.Predict(pc)
	default:
		return branch.Taken
	}
}

// Train updates the active strategy with the resolved outcome of the branch at pc.
func (e *Engine) Train(pc uint64, outcome branch.Outcome) {
	switch e.strategy {
	case Gshare:
		e.gshare.Train(pc, outcome)
	case Tournament:
		e.tournament.Train(pc, outcome)
	case Adaptive:
		e.perceptron.Train(pc, outcome)
	}
}

// Reset restores the state the engine had right after New.
func (e *Engine) Reset() {
	e.log.Debugf("resetting %s: %s", e.Name(), e.stateSummary())
	switch e.strategy {
	case Gshare:
		e.gshare.Reset()
	case Tournament:
		e.tournament.Reset()
	case Adaptive:
		e.perceptron.Reset()
	}
	e.log.Debugf("reset %s", e.Name())
}

// Strategy returns the active strategy tag.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// stateSummary describes how far training moved the tables away from their reset values.
func (e *Engine) stateSummary() string {
	switch e.strategy {
	case Gshare:
		return fmt.Sprintf("counters %v", e.gshare.Table.Histogram())
	case Tournament:
		return fmt.Sprintf("global %v local %v chooser %v",
			e.tournament.Global.Histogram(), e.tournament.Local.Histogram(), e.tournament.Chooser.Histogram())
	case Adaptive:
		s := e.perceptron.Stats()
		return fmt.Sprintf("%d non-zero weights, %d saturated high, %d saturated low",
			s.NonZeroWeights, s.SaturatedHigh, s.SaturatedLow)
	default:
		return "stateless"
	}
}

// Config returns the effective configuration, with the threshold resolved.
func (e *Engine) Config() Config {
	return e.cfg
}

// Name describes the strategy and its geometry, e.g. "Gshare:13".
func (e *Engine) Name() string {
	c := e.cfg
	switch c.Strategy {
	case Gshare:
		return fmt.Sprintf("Gshare:%d", c.GlobalHistoryBits)
	case Tournament:
		return fmt.Sprintf("Tournament:%d:%d:%d", c.GlobalHistoryBits, c.LocalHistoryBits, c.PCIndexBits)
	case Adaptive:
		return fmt.Sprintf("Adaptive:%d:%d", c.HistoryLength, c.TableEntries)
	default:
		return c.Strategy.String()
	}
}

// Gshare exposes the gshare state, nil for other strategies.
func (e *Engine) Gshare() *gshare.Predictor { return e.gshare }

// Tournament exposes the tournament state, nil for other strategies.
func (e *Engine) Tournament() *tournament.Predictor { return e.tournament }

// Perceptron exposes the adaptive state, nil for other strategies.
func (e *Engine) Perceptron() *perceptron.Predictor { return e.perceptron }
