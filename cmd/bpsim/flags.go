package main

import (
	"github.com/maemowong/bpsim/sim"
	"github.com/urfave/cli/v2"
)

var (
	PredictorFlag = cli.StringFlag{
		Name:  "predictor",
		Usage: "predictor spec: static | gshare[:G] | tournament[:G[:L[:P]]] | adaptive[:H[:N]]",
		Value: "static",
	}
	GlobalHistoryFlag = cli.UintFlag{
		Name:  "ghistory",
		Usage: "global history bits (gshare, tournament)",
	}
	LocalHistoryFlag = cli.UintFlag{
		Name:  "lhistory",
		Usage: "local history bits (tournament)",
	}
	PCIndexFlag = cli.UintFlag{
		Name:  "pcindex",
		Usage: "pc bits selecting the local history register (tournament)",
	}
	CounterBitsFlag = cli.UintFlag{
		Name:  "counter-bits",
		Usage: "saturating counter width (gshare, tournament)",
	}
	PolicyFlag = cli.StringFlag{
		Name:  "policy",
		Usage: "tournament training policy: unconditional | provider-only",
	}
	HistoryLengthFlag = cli.IntFlag{
		Name:  "history-length",
		Usage: "perceptron history length H (adaptive)",
	}
	EntriesFlag = cli.IntFlag{
		Name:  "entries",
		Usage: "perceptron table rows N (adaptive)",
	}
	WeightBoundFlag = cli.IntFlag{
		Name:  "weight-bound",
		Usage: "perceptron weights live in [-M, M-1] (adaptive)",
	}
	ThresholdFlag = cli.IntFlag{
		Name:  "threshold",
		Usage: "perceptron training threshold T, 0 selects 1.25*H+14 (adaptive)",
	}
	WindowFlag = cli.Uint64Flag{
		Name:  "window",
		Usage: "branches per misprediction-rate window, 0 disables",
		Value: 100_000,
	}
	ProgressFlag = cli.Uint64Flag{
		Name:  "progress",
		Usage: "log progress every N branches, 0 disables",
	}
	VerboseFlag = cli.BoolFlag{
		Name:  "verbose",
		Usage: "log every prediction (requires --log debug)",
	}
	FormatFlag = cli.StringFlag{
		Name:  "format",
		Usage: "report format: " + sim.FormatText + " | " + sim.FormatTable,
		Value: sim.FormatText,
	}
)
