package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nihei9/terminus/driver"
	"github.com/nihei9/terminus/spec/automaton"
	"github.com/spf13/cobra"
)

var runFlags = struct {
	source      *string
	stopOnError *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "run <compiled automaton path>",
		Short:   "Walk a label stream through a compiled automaton",
		Example: `  echo 'S-> aS$ S-> eof$' | terminus run automaton.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runRun,
	}
	runFlags.source = cmd.Flags().StringP("source", "s", "", "source file path (default stdin)")
	runFlags.stopOnError = cmd.Flags().Bool("stop-on-error", false, "stop at the first undefined transition")
	rootCmd.AddCommand(cmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	ca, err := readCompiledAutomaton(args[0])
	if err != nil {
		return fmt.Errorf("Cannot read a compiled automaton: %w", err)
	}
	aut := driver.NewAutomaton(ca)

	src := os.Stdin
	if *runFlags.source != "" {
		f, err := os.Open(*runFlags.source)
		if err != nil {
			return fmt.Errorf("Cannot open the source file %s: %w", *runFlags.source, err)
		}
		defer f.Close()
		src = f
	}

	toks, err := driver.NewTokenStream(aut, src)
	if err != nil {
		return err
	}
	var opts []driver.AcceptorOption
	if *runFlags.stopOnError {
		opts = append(opts, driver.StopOnError())
	}
	a, err := driver.NewAcceptor(aut, toks, opts...)
	if err != nil {
		return err
	}

	accepted, err := a.Accept()
	if err != nil {
		return err
	}

	for _, runErr := range a.RunErrors() {
		fmt.Fprintf(os.Stderr, "%v", runErr)
		if len(runErr.ExpectedLabels) > 0 {
			fmt.Fprintf(os.Stderr, "; expected: %v", runErr.ExpectedLabels[0])
			for _, l := range runErr.ExpectedLabels[1:] {
				fmt.Fprintf(os.Stderr, ", %v", l)
			}
		}
		fmt.Fprintf(os.Stderr, "\n")
	}

	driver.PrintPath(os.Stdout, aut, a.Path(), a.Labels())
	if !accepted {
		return fmt.Errorf("the input was rejected")
	}

	return nil
}

func readCompiledAutomaton(path string) (*automaton.CompiledAutomaton, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	ca := &automaton.CompiledAutomaton{}
	err = json.Unmarshal(data, ca)
	if err != nil {
		return nil, err
	}
	if ca.Transition == nil {
		return nil, fmt.Errorf("%v has no transition table", path)
	}
	return ca, nil
}
