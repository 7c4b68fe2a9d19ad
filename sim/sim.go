package sim

import (
	"context"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/maemowong/bpsim/logger"
	"github.com/maemowong/bpsim/proto/branch"
	"github.com/maemowong/bpsim/trace"
	"github.com/op/go-logging"
)

// Predictor is the two-call protocol the replay drives.
type Predictor interface {
	Predict(pc uint64) branch.Outcome
	Train(pc uint64, outcome branch.Outcome)
	Name() string
}

// Params controls a replay.
type Params struct {
	// WindowSize groups branches for the per-window misprediction rate; 0 disables windows.
	WindowSize uint64
	// ProgressInterval logs a progress line every so many branches; 0 disables progress.
	ProgressInterval uint64
	// Verbose logs every prediction at DEBUG level.
	Verbose bool
	Log     logger.Logger
}

// Run replays every branch of r through p in program order: predict, compare, train.
// The reader is not closed. Cancellation is checked between branches.
func Run(ctx context.Context, p Predictor, r trace.Reader, params Params) (*Stats, error) {
	log := params.Log
	if log == nil {
		log = logger.NewLogger("info", "Replay")
	}
	verbose := params.Verbose && log.IsEnabledFor(logging.DEBUG)

	stats := NewStats(p.Name(), params.WindowSize)
	start := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			return stats, errors.Wrapf(err, "replay interrupted after %d branches", stats.Branches)
		}

		b, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return stats, errors.Wrapf(err, "cannot read branch %d", stats.Branches+1)
		}

		predicted := p.Predict(b.PC)
		stats.Record(predicted, b.Outcome)
		if verbose {
			log.Debugf("%#x predicted %v actual %v", b.PC, predicted, b.Outcome)
		}
		p.Train(b.PC, b.Outcome)

		if params.ProgressInterval > 0 && stats.Branches%params.ProgressInterval == 0 {
			hours, minutes, seconds := logger.ParseTime(time.Since(start))
			log.Infof("Elapsed time: %vh %vm %vs, branches %d, misprediction rate %.3f%%",
				hours, minutes, seconds, stats.Branches, stats.MispredictionRate())
		}
	}

	stats.Flush()
	log.Noticef("%s: %d branches, %d incorrect, misprediction rate %.3f%%",
		p.Name(), stats.Branches, stats.Mispredictions, stats.MispredictionRate())
	return stats, nil
}
