package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	verr "github.com/nihei9/terminus/error"
	"github.com/nihei9/terminus/grammar"
	"github.com/nihei9/terminus/spec"
	"github.com/nihei9/terminus/spec/automaton"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output    *string
	compLevel *int
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile an alphabet into a transition table",
		Example: `  terminus compile alphabet.terminus -o automaton.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.compLevel = cmd.Flags().IntP("compression-level", "l", grammar.CompressionLevelMax, "compression level of the transition table (0-2)")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) (retErr error) {
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

	ca, report, err := grammar.Compile(gram, grammar.EnableReporting(), grammar.CompressionLevel(*compileFlags.compLevel))
	if err != nil {
		return err
	}

	err = writeCompiledAutomatonAndReport(ca, report, *compileFlags.output)
	if err != nil {
		return fmt.Errorf("Cannot write an output files: %w", err)
	}

	return nil
}

// copyStdin saves the stdin to a temporary file so that errors can quote the source.
func copyStdin() (string, string, error) {
	tmpDirPath, err := os.MkdirTemp("", "terminus-compile-*")
	if err != nil {
		return "", "", err
	}

	src, err := io.ReadAll(os.Stdin)
	if err != nil {
		return tmpDirPath, "", err
	}

	path := filepath.Join(tmpDirPath, "stdin.terminus")
	err = os.WriteFile(path, src, 0600)
	if err != nil {
		return tmpDirPath, "", err
	}

	return tmpDirPath, path, nil
}

func setSourceName(err error, path string, fromFile bool) {
	var specErrs verr.SpecErrors
	switch e := err.(type) {
	case verr.SpecErrors:
		specErrs = e
	case *verr.SpecError:
		specErrs = verr.SpecErrors{e}
	default:
		return
	}
	for _, e := range specErrs {
		e.FilePath = path
		if fromFile {
			e.SourceName = path
		} else {
			e.SourceName = "stdin"
		}
	}
}

func readGrammar(path string) (*grammar.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the alphabet file %s: %w", path, err)
	}
	defer f.Close()

	ast, err := spec.Parse(f)
	if err != nil {
		return nil, err
	}

	b := grammar.GrammarBuilder{
		AST: ast,
	}
	return b.Build()
}

// writeCompiledAutomatonAndReport writes a compiled automaton and a report to files located at a specified path.
//
//  1. When the path is a directory path, this function writes them to <path>/<name>.json and
//     <path>/<name>-report.json respectively.
//  2. When the path is a file path or a non-existent path, the path is the compiled automaton's.
//     The report is written to <name>-report.json in the same directory.
//  3. When the path is an empty string, the compiled automaton goes to the stdout and the report
//     to <current-directory>/<name>-report.json.
func writeCompiledAutomatonAndReport(ca *automaton.CompiledAutomaton, report *automaton.Report, path string) error {
	caPath, reportPath, err := makeOutputFilePaths(ca.Name, path)
	if err != nil {
		return err
	}

	{
		var caW io.Writer
		if caPath != "" {
			caFile, err := os.OpenFile(caPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
			if err != nil {
				return err
			}
			defer caFile.Close()
			caW = caFile
		} else {
			caW = os.Stdout
		}

		b, err := json.Marshal(ca)
		if err != nil {
			return err
		}
		fmt.Fprintf(caW, "%v\n", string(b))
	}

	{
		reportFile, err := os.OpenFile(reportPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		defer reportFile.Close()

		b, err := json.Marshal(report)
		if err != nil {
			return err
		}
		fmt.Fprintf(reportFile, "%v\n", string(b))
	}

	return nil
}

func makeOutputFilePaths(name string, path string) (string, string, error) {
	reportFileName := name + "-report.json"

	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", "", err
		}
		return "", filepath.Join(wd, reportFileName), nil
	}

	fi, err := os.Stat(path)
	if err != nil && !os.IsNotExist(err) {
		return "", "", err
	}
	if os.IsNotExist(err) || !fi.IsDir() {
		dir, _ := filepath.Split(path)
		return path, filepath.Join(dir, reportFileName), nil
	}

	return filepath.Join(path, name+".json"), filepath.Join(path, reportFileName), nil
}
