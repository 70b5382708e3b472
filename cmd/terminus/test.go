package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nihei9/terminus/grammar"
	"github.com/nihei9/terminus/tester"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "test <alphabet file path> <test file path>|<test directory path>",
		Short:   "Test an automaton against label streams",
		Example: `  terminus test alphabet.terminus test`,
		Args:    cobra.ExactArgs(2),
		RunE:    runTest,
	}
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		setSourceName(retErr, args[0], true)
	}()

	g, err := readGrammar(args[0])
	if err != nil {
		return err
	}
	ca, _, err := grammar.Compile(g)
	if err != nil {
		return fmt.Errorf("Cannot compile an automaton: %w", err)
	}

	var cs []*tester.TestCaseWithMetadata
	{
		cs = tester.ListTestCases(args[1])
		errOccurred := false
		for _, c := range cs {
			if c.Error != nil {
				fmt.Fprintf(os.Stderr, "Failed to read a test case or a directory: %v\n%v\n", c.FilePath, c.Error)
				errOccurred = true
			}
		}
		if errOccurred {
			return errors.New("Cannot run test")
		}
	}

	t := &tester.Tester{
		Automaton: ca,
		Cases:     cs,
	}
	rs := t.Run()
	testFailed := false
	for _, r := range rs {
		fmt.Fprintln(os.Stdout, r)
		if r.Error != nil {
			testFailed = true
		}
	}
	if testFailed {
		return errors.New("Test failed")
	}
	return nil
}
