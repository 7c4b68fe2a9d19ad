package engine

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/maemowong/bpsim/proto/counter"
	"github.com/maemowong/bpsim/proto/perceptron"
	"github.com/maemowong/bpsim/proto/tournament"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ═══════════════════════════════════════════════════════════════════════════════════════════════
//
// A Config names one strategy and the widths of its tables. Every width the strategy uses must be
// set: a zero width is a configuration error, like any width outside its range. DefaultConfig and
// ParseSpec fill in the default geometry. A non-zero field that the chosen strategy does not use
// is also an error. All checks run in New, before the first prediction.
//
// Threshold is the one field where zero has a meaning: it selects ⌊1.25·H + 14⌋.
//
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// ErrInvalidConfig is wrapped by every configuration error returned from New and Validate.
var ErrInvalidConfig = errors.New("invalid predictor configuration")

const (
	DefaultGshareHistoryBits     = 13
	DefaultTournamentGlobalBits  = 9
	DefaultTournamentLocalBits   = 10
	DefaultTournamentPCIndexBits = 10

	MaxHistoryLength = 128
	MaxTableEntries  = 1 << 20
	MaxWeightBound   = 1 << 15
)

// Config selects a strategy and sizes its state.
type Config struct {
	Strategy Strategy

	// Gshare and Tournament
	GlobalHistoryBits uint                   // G
	CounterBits       uint                   // C
	LocalHistoryBits  uint                   // L, Tournament only
	PCIndexBits       uint                   // P, Tournament only
	TrainPolicy       tournament.TrainPolicy // Tournament only

	// Adaptive
	HistoryLength int // H
	TableEntries  int // N
	WeightBound   int // M
	Threshold     int // T, 0 = ⌊1.25·H + 14⌋
}

// DefaultConfig returns the default geometry of strategy s.
func DefaultConfig(s Strategy) Config {
	cfg := Config{Strategy: s}
	switch s {
	case Gshare:
		cfg.GlobalHistoryBits = DefaultGshareHistoryBits
		cfg.CounterBits = counter.DefaultWidth
	case Tournament:
		cfg.GlobalHistoryBits = DefaultTournamentGlobalBits
		cfg.LocalHistoryBits = DefaultTournamentLocalBits
		cfg.PCIndexBits = DefaultTournamentPCIndexBits
		cfg.CounterBits = counter.DefaultWidth
	case Adaptive:
		cfg.HistoryLength = perceptron.DefaultHistoryLength
		cfg.TableEntries = perceptron.DefaultEntries
		cfg.WeightBound = perceptron.DefaultWeightBound
	}
	return cfg
}

// resolved replaces a zero Threshold with the default for the history length.
func (c Config) resolved() Config {
	if c.Strategy == Adaptive && c.Threshold == 0 {
		c.Threshold = int(perceptron.DefaultThreshold(c.HistoryLength))
	}
	return c
}

// Validate reports the first problem with the configuration, or nil.
func (c Config) Validate() error {
	if !c.Strategy.valid() {
		return errors.Wrapf(ErrInvalidConfig, "unsupported strategy %d", c.Strategy)
	}
	if err := c.checkForeignFields(); err != nil {
		return err
	}

	switch c.Strategy {
	case Gshare:
		return firstError(
			checkBits("global history bits", c.GlobalHistoryBits, counter.MaxIndexBits),
			checkBits("counter bits", c.CounterBits, counter.MaxWidth),
		)
	case Tournament:
		if c.TrainPolicy > tournament.ProviderOnly {
			return errors.Wrapf(ErrInvalidConfig, "unsupported train policy %d", c.TrainPolicy)
		}
		return firstError(
			checkBits("global history bits", c.GlobalHistoryBits, counter.MaxIndexBits),
			checkBits("local history bits", c.LocalHistoryBits, counter.MaxIndexBits),
			checkBits("pc index bits", c.PCIndexBits, counter.MaxIndexBits),
			checkBits("counter bits", c.CounterBits, counter.MaxWidth),
		)
	case Adaptive:
		return firstError(
			checkRange("history length", int64(c.HistoryLength), 1, MaxHistoryLength),
			checkRange("table entries", int64(c.TableEntries), 1, MaxTableEntries),
			checkRange("weight bound", int64(c.WeightBound), 1, MaxWeightBound),
			checkRange("threshold", int64(c.Threshold), 0, int64(MaxHistoryLength+1)*MaxWeightBound),
		)
	}
	return nil
}

// checkForeignFields rejects parameters that belong to a different strategy.
func (c Config) checkForeignFields() error {
	var foreign []string
	counterFields := c.GlobalHistoryBits != 0 || c.CounterBits != 0
	tournamentFields := c.LocalHistoryBits != 0 || c.PCIndexBits != 0 || c.TrainPolicy != tournament.Unconditional
	adaptiveFields := c.HistoryLength != 0 || c.TableEntries != 0 || c.WeightBound != 0 || c.Threshold != 0

	switch c.Strategy {
	case Static:
		if counterFields || tournamentFields || adaptiveFields {
			foreign = append(foreign, "static takes no parameters")
		}
	case Gshare:
		if tournamentFields {
			foreign = append(foreign, "local history / pc index / train policy")
		}
		if adaptiveFields {
			foreign = append(foreign, "adaptive parameters")
		}
	case Tournament:
		if adaptiveFields {
			foreign = append(foreign, "adaptive parameters")
		}
	case Adaptive:
		if counterFields || tournamentFields {
			foreign = append(foreign, "counter-table parameters")
		}
	}
	if len(foreign) > 0 {
		return errors.Wrapf(ErrInvalidConfig, "%s strategy: unexpected %s", c.Strategy, strings.Join(foreign, ", "))
	}
	return nil
}

func checkBits(name string, v uint, max uint) error {
	if v < 1 || v > max {
		return errors.Wrapf(ErrInvalidConfig, "%s must be in [1, %d], got %d", name, max, v)
	}
	return nil
}

func checkRange(name string, v, lo, hi int64) error {
	if v < lo || v > hi {
		return errors.Wrapf(ErrInvalidConfig, "%s must be in [%d, %d], got %d", name, lo, hi, v)
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// COMPACT SPEC PARSING
// ═══════════════════════════════════════════════════════════════════════════════════════════════
//
//   static
//   gshare[:G]
//   tournament[:G[:L[:P]]]
//   adaptive[:H[:N]]          (aliases: custom, perceptron)
//
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// ParseTrainPolicy maps "unconditional" or "provider-only" to a tournament training policy.
func ParseTrainPolicy(name string) (tournament.TrainPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "unconditional", "":
		return tournament.Unconditional, nil
	case "provider-only", "provider":
		return tournament.ProviderOnly, nil
	}
	return 0, errors.Wrapf(ErrInvalidConfig, "unknown train policy %q", name)
}

// ParseSpec builds a Config from the compact command-line form. Omitted widths keep the
// DefaultConfig value.
func ParseSpec(spec string) (Config, error) {
	parts := strings.Split(strings.TrimSpace(spec), ":")
	strategy, err := ParseStrategy(parts[0])
	if err != nil {
		return Config{}, err
	}

	nums := make([]int, 0, len(parts)-1)
	for _, p := range parts[1:] {
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return Config{}, errors.Wrapf(ErrInvalidConfig, "bad number %q in predictor spec %q", p, spec)
		}
		nums = append(nums, n)
	}

	maxArgs := map[Strategy]int{Static: 0, Gshare: 1, Tournament: 3, Adaptive: 2}[strategy]
	if len(nums) > maxArgs {
		return Config{}, errors.Wrapf(ErrInvalidConfig, "%s takes at most %d parameters, got %d", strategy, maxArgs, len(nums))
	}

	cfg := DefaultConfig(strategy)
	arg := func(i int, dst *int) {
		if i < len(nums) {
			*dst = nums[i]
		}
	}
	switch strategy {
	case Gshare:
		g := int(cfg.GlobalHistoryBits)
		arg(0, &g)
		cfg.GlobalHistoryBits = uint(g)
	case Tournament:
		g, l, p := int(cfg.GlobalHistoryBits), int(cfg.LocalHistoryBits), int(cfg.PCIndexBits)
		arg(0, &g)
		arg(1, &l)
		arg(2, &p)
		cfg.GlobalHistoryBits, cfg.LocalHistoryBits, cfg.PCIndexBits = uint(g), uint(l), uint(p)
	case Adaptive:
		arg(0, &cfg.HistoryLength)
		arg(1, &cfg.TableEntries)
	}
	return cfg, nil
}
