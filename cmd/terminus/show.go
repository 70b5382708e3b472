package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nihei9/terminus/render"
	"github.com/nihei9/terminus/spec/automaton"
	"github.com/spf13/cobra"
)

var showFlags = struct {
	format *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Print a report in a readable format",
		Example: `  terminus show automaton-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	showFlags.format = cmd.Flags().StringP("format", "f", "text", "output format (text|table)")
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	report, err := readReport(args[0])
	if err != nil {
		return err
	}

	switch *showFlags.format {
	case "text":
		return render.WriteReport(os.Stdout, report)
	case "table":
		return render.WriteTable(os.Stdout, report)
	}
	return fmt.Errorf("invalid format: %v", *showFlags.format)
}

func readReport(path string) (*automaton.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the report %s: %w", path, err)
	}
	defer f.Close()

	d, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	report := &automaton.Report{}
	err = json.Unmarshal(d, report)
	if err != nil {
		return nil, err
	}

	return report, nil
}
