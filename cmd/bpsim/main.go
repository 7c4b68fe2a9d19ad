package main

import (
	"fmt"
	"os"

	"github.com/maemowong/bpsim/logger"
	"github.com/urfave/cli/v2"
)

var bpsimApp = &cli.App{
	Action:    RunReplay,
	Name:      "Branch predictor trace simulator",
	HelpName:  "bpsim",
	ArgsUsage: "[trace file, stdin when omitted]",
	Flags: []cli.Flag{
		&PredictorFlag,
		&GlobalHistoryFlag,
		&LocalHistoryFlag,
		&PCIndexFlag,
		&CounterBitsFlag,
		&PolicyFlag,
		&HistoryLengthFlag,
		&EntriesFlag,
		&WeightBoundFlag,
		&ThresholdFlag,
		&WindowFlag,
		&ProgressFlag,
		&VerboseFlag,
		&FormatFlag,
		&logger.LogLevelFlag,
	},
}

func main() {
	if err := bpsimApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
