package sim

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/jedib0t/go-pretty/v6/table"
)

// Report formats.
const (
	FormatText  = "text"
	FormatTable = "table"
)

// WriteReport prints the statistics of a replay in the given format.
func WriteReport(w io.Writer, s *Stats, format string) error {
	switch format {
	case "", FormatText:
		return writeText(w, s)
	case FormatTable:
		writeTable(w, s)
		return nil
	}
	return errors.Newf("unknown report format %q", format)
}

func writeText(w io.Writer, s *Stats) error {
	_, err := fmt.Fprintf(w, "%s\nBranches:        %10d\nIncorrect:       %10d\nMisprediction Rate: %7.3f\n",
		s.Predictor, s.Branches, s.Mispredictions, s.MispredictionRate())
	return err
}

func writeTable(w io.Writer, s *Stats) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Predictor", "Branches", "Incorrect", "Mispredict %", "Window mean %", "Window stddev %"})
	mean, stddev := s.WindowSummary()
	t.AppendRow(table.Row{
		s.Predictor,
		s.Branches,
		s.Mispredictions,
		fmt.Sprintf("%.3f", s.MispredictionRate()),
		fmt.Sprintf("%.3f", mean),
		fmt.Sprintf("%.3f", stddev),
	})
	t.Render()
}
