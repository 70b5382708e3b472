package main

import (
	"fmt"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	trace *string
}{}

var rootCmd = &cobra.Command{
	Use:   "terminus",
	Short: "Generate a termination automaton from the alphabet of a right-linear grammar",
	Long: `terminus provides three features:
- Compiles an alphabet into a portable transition table and a report.
- Prints a report in a readable format.
- Prints an automaton as a Graphviz digraph.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setTraceLevel,
}

func init() {
	rootFlags.trace = rootCmd.PersistentFlags().String("trace", "error", "trace level (error|info|debug)")
}

func setTraceLevel(cmd *cobra.Command, args []string) error {
	var lv tracing.TraceLevel
	switch *rootFlags.trace {
	case "error":
		lv = tracing.LevelError
	case "info":
		lv = tracing.LevelInfo
	case "debug":
		lv = tracing.LevelDebug
	default:
		return fmt.Errorf("invalid trace level: %v", *rootFlags.trace)
	}
	gtrace.CoreTracer.SetTraceLevel(lv)
	tracing.Select("terminus.automaton").SetTraceLevel(lv)
	return nil
}

func Execute() error {
	return rootCmd.Execute()
}
