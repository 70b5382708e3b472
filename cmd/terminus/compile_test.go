package main

import (
	"os"
	"path/filepath"
	"testing"

	verr "github.com/nihei9/terminus/error"
)

func TestMakeOutputFilePaths(t *testing.T) {
	dir := t.TempDir()

	caPath, reportPath, err := makeOutputFilePaths("three", dir)
	if err != nil {
		t.Fatal(err)
	}
	if caPath != filepath.Join(dir, "three.json") || reportPath != filepath.Join(dir, "three-report.json") {
		t.Fatalf("unexpected paths for a directory: %v, %v", caPath, reportPath)
	}

	filePath := filepath.Join(dir, "out.json")
	caPath, reportPath, err = makeOutputFilePaths("three", filePath)
	if err != nil {
		t.Fatal(err)
	}
	if caPath != filePath || reportPath != filepath.Join(dir, "three-report.json") {
		t.Fatalf("unexpected paths for a file: %v, %v", caPath, reportPath)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	caPath, reportPath, err = makeOutputFilePaths("three", "")
	if err != nil {
		t.Fatal(err)
	}
	if caPath != "" || reportPath != filepath.Join(wd, "three-report.json") {
		t.Fatalf("unexpected paths for the stdout: %v, %v", caPath, reportPath)
	}
}

func TestReadGrammar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "three.terminus")
	src := `
#name three;
#end eof;
nonterminals: S A B;
terminals: a b eof;
`
	if err := os.WriteFile(path, []byte(src), 0600); err != nil {
		t.Fatal(err)
	}
	gram, err := readGrammar(path)
	if err != nil {
		t.Fatal(err)
	}
	if gram.Name() != "three" {
		t.Fatalf("unexpected name: %v", gram.Name())
	}

	badPath := filepath.Join(dir, "bad.terminus")
	if err := os.WriteFile(badPath, []byte("#name bad;\nnonterminals: S;\nterminals: a;\n"), 0600); err != nil {
		t.Fatal(err)
	}
	_, err = readGrammar(badPath)
	if err == nil {
		t.Fatal("an expected error didn't occur")
	}
	setSourceName(err, badPath, true)
	specErrs, ok := err.(verr.SpecErrors)
	if !ok {
		t.Fatalf("unexpected error type: %T", err)
	}
	for _, e := range specErrs {
		if e.SourceName != badPath || e.FilePath != badPath {
			t.Fatalf("a source name was not set: %v", e)
		}
	}
}
