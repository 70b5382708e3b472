package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/nihei9/terminus/grammar"
	"github.com/nihei9/terminus/spec/automaton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileReport(t *testing.T) *automaton.Report {
	t.Helper()
	gram, err := grammar.NewGrammar("single", []string{"S"}, []string{"a", "end"}, "S", "end")
	require.NoError(t, err)
	_, report, err := grammar.Compile(gram, grammar.EnableReporting())
	require.NoError(t, err)
	require.NotNil(t, report)
	return report
}

func TestNodeText(t *testing.T) {
	report := compileReport(t)
	require.Len(t, report.States, 5)
	assert.Equal(t, "[START]\nS: NOT SEEN", NodeText(report, report.States[0]))
	assert.Equal(t, "[S->]\nS: SEEN", NodeText(report, report.States[1]))
	assert.Equal(t, "[START]\nS: TERMINATES", NodeText(report, report.States[3]))
}

func TestWriteDOT(t *testing.T) {
	report := compileReport(t)
	var b bytes.Buffer
	require.NoError(t, WriteDOT(&b, report))
	dot := b.String()

	assert.True(t, strings.HasPrefix(dot, "digraph \"single\" {\n"))
	assert.Contains(t, dot, "rankdir=LR;")
	assert.Contains(t, dot, `s1 [label="[START]\nS: NOT SEEN", shape=circle];`)
	assert.Contains(t, dot, `s4 [label="[START]\nS: TERMINATES", shape=doublecircle];`)
	assert.Contains(t, dot, `s1 -> s2 [label="S->"];`)
	assert.Contains(t, dot, `s2 -> s3 [label="aS$"];`)
	assert.Contains(t, dot, `s2 -> s4 [label="end$"];`)
	assert.Equal(t, 1, strings.Count(dot, "doublecircle"))

	edgeCount := 0
	for _, state := range report.States {
		edgeCount += len(state.Transitions)
	}
	assert.Equal(t, edgeCount, strings.Count(dot, " -> "))
}

func TestWriteDOT_EmptyReport(t *testing.T) {
	var b bytes.Buffer
	assert.Error(t, WriteDOT(&b, &automaton.Report{}))
}

func TestWriteTable(t *testing.T) {
	report := compileReport(t)
	var b bytes.Buffer
	require.NoError(t, WriteTable(&b, report))
	table := b.String()

	for _, col := range []string{"FROM", "LABEL", "TO", "FINAL"} {
		assert.Contains(t, strings.ToUpper(table), col)
	}
	for _, label := range []string{"S->", "aS$", "a$", "end$"} {
		assert.Contains(t, table, label)
	}
	assert.Contains(t, table, "true")
}

func TestWriteReport(t *testing.T) {
	report := compileReport(t)
	var b bytes.Buffer
	require.NoError(t, WriteReport(&b, report))
	text := b.String()

	assert.True(t, strings.HasPrefix(text, "# single\n"))
	assert.Contains(t, text, "Start symbol: S")
	assert.Contains(t, text, "End-marker: end")
	assert.Contains(t, text, "## State 4 (final)")
	assert.Contains(t, text, "aS$ -> 3")
	assert.NotContains(t, text, "## State 3 (final)")
}
