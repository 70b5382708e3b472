package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nihei9/terminus/grammar"
	"github.com/nihei9/terminus/spec"
	tspec "github.com/nihei9/terminus/spec/test"
)

func TestTester_Run(t *testing.T) {
	alphabetSrc := `
#name test;
#start S;
#end eof;

nonterminals: S A;
terminals: a eof;
`

	tests := []struct {
		testSrc string
		error   bool
	}{
		{
			testSrc: `
S terminates at once
---
S-> eof$
---
accept
`,
		},
		{
			testSrc: `
S enters A, and then both terminate
---
S-> aA$ A-> a$ S-> eof$
---
accept
`,
		},
		{
			testSrc: `
a production of S is in progress
---
S->
---
reject 1 2
`,
		},
		{
			testSrc: `
A is left pending
---
S-> aA$
---
reject
`,
		},
		{
			testSrc: `
S is not entered
---
A-> a$
---
reject
`,
		},
		{
			testSrc: `
a wrong verdict
---
S-> eof$
---
reject
`,
			error: true,
		},
		{
			testSrc: `
a wrong path
---
S-> eof$
---
accept 1 2 2
`,
			error: true,
		},
	}

	ast, err := spec.Parse(strings.NewReader(alphabetSrc))
	if err != nil {
		t.Fatal(err)
	}
	b := grammar.GrammarBuilder{
		AST: ast,
	}
	g, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	ca, _, err := grammar.Compile(g)
	if err != nil {
		t.Fatal(err)
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			c, err := tspec.ParseTestCase(strings.NewReader(tt.testSrc))
			if err != nil {
				t.Fatal(err)
			}
			tester := &Tester{
				Automaton: ca,
				Cases: []*TestCaseWithMetadata{
					{
						TestCase: c,
					},
				},
			}
			rs := tester.Run()
			if tt.error {
				errOccurred := false
				for _, r := range rs {
					if r.Error != nil {
						errOccurred = true
					}
				}
				if !errOccurred {
					t.Fatal("this test must fail, but it passed")
				}
			} else {
				for _, r := range rs {
					if r.Error != nil {
						t.Fatalf("unexpected error occurred: %v", r)
					}
				}
			}
		})
	}
}

func TestListTestCases(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0700); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		filepath.Join(dir, "ok.txt"):  "test\n---\nS-> eof$\n---\naccept\n",
		filepath.Join(sub, "bad.txt"): "test\n---\nS-> eof$\n",
	}
	for path, src := range files {
		if err := os.WriteFile(path, []byte(src), 0600); err != nil {
			t.Fatal(err)
		}
	}

	cs := ListTestCases(dir)
	if len(cs) != 2 {
		t.Fatalf("unexpected test case count; want: 2, got: %v", len(cs))
	}
	for _, c := range cs {
		switch filepath.Base(c.FilePath) {
		case "ok.txt":
			if c.Error != nil || c.TestCase == nil {
				t.Fatalf("a valid test case was rejected: %v", c.Error)
			}
		case "bad.txt":
			if c.Error == nil {
				t.Fatal("an invalid test case was accepted")
			}
		default:
			t.Fatalf("unexpected file: %v", c.FilePath)
		}
	}

	cs = ListTestCases(filepath.Join(dir, "missing"))
	if len(cs) != 1 || cs[0].Error == nil {
		t.Fatal("a missing path was accepted")
	}
}

func TestTestResult_String(t *testing.T) {
	r := &TestResult{
		TestCasePath: "a.txt",
		Error:        fmt.Errorf("output mismatch"),
		Diffs:        []string{"unexpected verdict: want: accept, got: reject"},
	}
	expected := "Failed a.txt:\n    output mismatch\n        unexpected verdict: want: accept, got: reject"
	if r.String() != expected {
		t.Fatalf("unexpected string; want: %q, got: %q", expected, r.String())
	}
	r = &TestResult{
		TestCasePath: "a.txt",
	}
	if r.String() != "Passed a.txt" {
		t.Fatalf("unexpected string: %q", r.String())
	}
}
