package main

import (
	"os"

	"github.com/nihei9/terminus/grammar"
	"github.com/nihei9/terminus/render"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "dot",
		Short:   "Print an automaton as a Graphviz digraph",
		Example: `  terminus dot alphabet.terminus | dot -Tsvg -o automaton.svg`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runDOT,
	}
	rootCmd.AddCommand(cmd)
}

func runDOT(cmd *cobra.Command, args []string) (retErr error) {
	var tmpDirPath string
	defer func() {
		if tmpDirPath == "" {
			return
		}
		os.RemoveAll(tmpDirPath)
	}()

	var grmPath string
	if len(args) > 0 {
		grmPath = args[0]
	}
	defer func() {
		setSourceName(retErr, grmPath, len(args) > 0)
	}()

	if grmPath == "" {
		var err error
		tmpDirPath, grmPath, err = copyStdin()
		if err != nil {
			return err
		}
	}

	gram, err := readGrammar(grmPath)
	if err != nil {
		return err
	}

	_, report, err := grammar.Compile(gram, grammar.EnableReporting())
	if err != nil {
		return err
	}

	return render.WriteDOT(os.Stdout, report)
}
