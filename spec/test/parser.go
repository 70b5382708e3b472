package test

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

type Verdict string

const (
	VerdictAccept = Verdict("accept")
	VerdictReject = Verdict("reject")
)

// Expectation is the third part of a test case: a verdict optionally followed by the states
// the automaton must visit, such as `accept 1 2 4`.
type Expectation struct {
	Verdict Verdict
	Path    []int
}

func (e *Expectation) String() string {
	var b strings.Builder
	fmt.Fprint(&b, e.Verdict)
	for _, s := range e.Path {
		fmt.Fprintf(&b, " %v", s)
	}
	return b.String()
}

// Match reports the differences between an expectation and an actual run. An expectation without
// a path matches any path.
func (e *Expectation) Match(accepted bool, path []int) []string {
	var diffs []string
	if accepted != (e.Verdict == VerdictAccept) {
		actual := VerdictReject
		if accepted {
			actual = VerdictAccept
		}
		diffs = append(diffs, fmt.Sprintf("unexpected verdict: want: %v, got: %v", e.Verdict, actual))
	}
	if len(e.Path) == 0 {
		return diffs
	}
	if len(e.Path) != len(path) {
		return append(diffs, fmt.Sprintf("unexpected path: want: %v, got: %v", e.Path, path))
	}
	for i, s := range e.Path {
		if path[i] != s {
			return append(diffs, fmt.Sprintf("unexpected state at step %v: want: %v, got: %v", i, s, path[i]))
		}
	}
	return diffs
}

type TestCase struct {
	Description string
	Source      []byte
	Output      *Expectation
}

// ParseTestCase reads a test case consisting of a description, a label stream, and an expectation,
// separated by lines of three or more hyphens.
func ParseTestCase(r io.Reader) (*TestCase, error) {
	parts, err := splitIntoParts(r)
	if err != nil {
		return nil, err
	}
	if len(parts) != 3 {
		return nil, fmt.Errorf("too many or too few part delimiters: a test case consists of just three parts: %v parts found", len(parts))
	}

	exp, err := parseExpectation(parts[2].buf, parts[0].lineCount+parts[1].lineCount+2)
	if err != nil {
		return nil, err
	}

	return &TestCase{
		Description: string(parts[0].buf),
		Source:      parts[1].buf,
		Output:      exp,
	}, nil
}

func parseExpectation(src []byte, lineOffset int) (*Expectation, error) {
	fields := strings.Fields(string(src))
	if len(fields) == 0 {
		return nil, fmt.Errorf("%v: an expectation is missing", lineOffset+1)
	}
	exp := &Expectation{
		Verdict: Verdict(fields[0]),
	}
	switch exp.Verdict {
	case VerdictAccept, VerdictReject:
	default:
		return nil, fmt.Errorf("%v: a verdict must be %v or %v: %v", lineOffset+1, VerdictAccept, VerdictReject, fields[0])
	}
	for _, f := range fields[1:] {
		s, err := strconv.Atoi(f)
		if err != nil || s < 1 {
			return nil, fmt.Errorf("%v: a state must be a positive integer: %v", lineOffset+1, f)
		}
		exp.Path = append(exp.Path, s)
	}
	return exp, nil
}

type testCasePart struct {
	buf       []byte
	lineCount int
}

func splitIntoParts(r io.Reader) ([]*testCasePart, error) {
	var parts []*testCasePart
	s := bufio.NewScanner(r)
	for {
		buf, lineCount, err := readPart(s)
		if err != nil {
			return nil, err
		}
		if buf == nil {
			break
		}
		parts = append(parts, &testCasePart{
			buf:       buf,
			lineCount: lineCount,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return parts, nil
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

// readPart reads lines up to the next delimiter. It returns nil at the end of input.
func readPart(s *bufio.Scanner) ([]byte, int, error) {
	if !s.Scan() {
		return nil, 0, s.Err()
	}
	line := s.Bytes()
	if reDelim.Match(line) {
		return []byte{}, 0, nil
	}
	var buf bytes.Buffer
	buf.Write(line)
	lineCount := 1
	for s.Scan() {
		line := s.Bytes()
		if reDelim.Match(line) {
			return buf.Bytes(), lineCount, nil
		}
		buf.WriteByte('\n')
		buf.Write(line)
		lineCount++
	}
	if err := s.Err(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), lineCount, nil
}
