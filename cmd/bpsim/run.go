package main

import (
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/maemowong/bpsim/logger"
	"github.com/maemowong/bpsim/proto/engine"
	"github.com/maemowong/bpsim/sim"
	"github.com/maemowong/bpsim/trace"
	"github.com/urfave/cli/v2"
)

// RunReplay replays a branch trace through the configured predictor and prints its accuracy.
func RunReplay(ctx *cli.Context) error {
	if ctx.Args().Len() > 1 {
		return errors.Newf("expected at most one trace file, got %d arguments", ctx.Args().Len())
	}

	cfg, err := configFromFlags(ctx)
	if err != nil {
		return err
	}

	log := logger.NewLogger(ctx.String(logger.LogLevelFlag.Name), "bpsim")

	var reader trace.Reader
	if path := ctx.Args().First(); path != "" {
		reader, err = trace.NewFileReader(path)
		if err != nil {
			return err
		}
	} else {
		reader = trace.NewReader(os.Stdin)
	}

	params := sim.Params{
		WindowSize:       ctx.Uint64(WindowFlag.Name),
		ProgressInterval: ctx.Uint64(ProgressFlag.Name),
		Verbose:          ctx.Bool(VerboseFlag.Name),
		Log:              log,
	}
	return run(ctx.Context, cfg, reader, params, ctx.App.Writer, ctx.String(FormatFlag.Name))
}

// run builds the engine, replays the trace and writes the report. It is factored out of
// RunReplay so tests can drive it without a cli.Context or a trace on disk.
func run(ctx context.Context, cfg engine.Config, reader trace.Reader, params sim.Params, out io.Writer, format string) (err error) {
	defer func() {
		err = errors.CombineErrors(err, reader.Close())
	}()

	eng, err := engine.New(cfg, engine.WithLogger(params.Log))
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	stats, err := sim.Run(ctx, eng, reader, params)
	if err != nil {
		return err
	}
	return sim.WriteReport(out, stats, format)
}

// configFromFlags starts from the --predictor spec and overlays the individual width flags.
func configFromFlags(ctx *cli.Context) (engine.Config, error) {
	cfg, err := engine.ParseSpec(ctx.String(PredictorFlag.Name))
	if err != nil {
		return engine.Config{}, err
	}

	// A width flag given as 0 is an error for every strategy, not a request for the default.
	for _, name := range []string{GlobalHistoryFlag.Name, LocalHistoryFlag.Name, PCIndexFlag.Name, CounterBitsFlag.Name} {
		if ctx.IsSet(name) && ctx.Uint(name) == 0 {
			return engine.Config{}, errors.Wrapf(engine.ErrInvalidConfig, "--%s must be positive", name)
		}
	}
	for _, name := range []string{HistoryLengthFlag.Name, EntriesFlag.Name, WeightBoundFlag.Name} {
		if ctx.IsSet(name) && ctx.Int(name) == 0 {
			return engine.Config{}, errors.Wrapf(engine.ErrInvalidConfig, "--%s must be positive", name)
		}
	}

	if ctx.IsSet(GlobalHistoryFlag.Name) {
		cfg.GlobalHistoryBits = ctx.Uint(GlobalHistoryFlag.Name)
	}
	if ctx.IsSet(LocalHistoryFlag.Name) {
		cfg.LocalHistoryBits = ctx.Uint(LocalHistoryFlag.Name)
	}
	if ctx.IsSet(PCIndexFlag.Name) {
		cfg.PCIndexBits = ctx.Uint(PCIndexFlag.Name)
	}
	if ctx.IsSet(CounterBitsFlag.Name) {
		cfg.CounterBits = ctx.Uint(CounterBitsFlag.Name)
	}
	if ctx.IsSet(PolicyFlag.Name) {
		policy, err := engine.ParseTrainPolicy(ctx.String(PolicyFlag.Name))
		if err != nil {
			return engine.Config{}, err
		}
		cfg.TrainPolicy = policy
	}
	if ctx.IsSet(HistoryLengthFlag.Name) {
		cfg.HistoryLength = ctx.Int(HistoryLengthFlag.Name)
	}
	if ctx.IsSet(EntriesFlag.Name) {
		cfg.TableEntries = ctx.Int(EntriesFlag.Name)
	}
	if ctx.IsSet(WeightBoundFlag.Name) {
		cfg.WeightBound = ctx.Int(WeightBoundFlag.Name)
	}
	if ctx.IsSet(ThresholdFlag.Name) {
		cfg.Threshold = ctx.Int(ThresholdFlag.Name)
	}

	return cfg, cfg.Validate()
}
