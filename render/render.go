// Package render serializes a termination automaton report into readable formats.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/nihei9/terminus/spec/automaton"
	"github.com/olekukonko/tablewriter"
)

// NodeText renders a state the way grammar.Node does: a context line followed by
// one status line per non-terminal.
func NodeText(report *automaton.Report, state *automaton.State) string {
	var b strings.Builder
	if state.Arrow == "" {
		fmt.Fprint(&b, "[START]")
	} else {
		fmt.Fprintf(&b, "[%v->]", state.Arrow)
	}
	for i, s := range state.Statuses {
		fmt.Fprintf(&b, "\n%v: %v", report.NonTerminals[i], s)
	}
	return b.String()
}

// WriteDOT writes a Graphviz digraph. Final states are drawn as double circles.
func WriteDOT(w io.Writer, report *automaton.Report) error {
	if len(report.States) == 0 {
		return fmt.Errorf("a report has no states")
	}

	fmt.Fprintf(w, "digraph %v {\n", strconv.Quote(report.Name))
	fmt.Fprintf(w, "    rankdir=LR;\n")
	fmt.Fprintf(w, "    node [shape=circle];\n")
	for _, state := range report.States {
		shape := "circle"
		if state.Final {
			shape = "doublecircle"
		}
		fmt.Fprintf(w, "    s%v [label=%v, shape=%v];\n", state.Number, strconv.Quote(NodeText(report, state)), shape)
	}
	for _, state := range report.States {
		for _, tran := range state.Transitions {
			fmt.Fprintf(w, "    s%v -> s%v [label=%v];\n", state.Number, tran.State, strconv.Quote(tran.Label))
		}
	}
	_, err := fmt.Fprintf(w, "}\n")
	return err
}

// WriteTable writes one row per edge.
func WriteTable(w io.Writer, report *automaton.Report) error {
	final := map[int]bool{}
	for _, state := range report.States {
		final[state.Number] = state.Final
	}

	table := tablewriter.NewWriter(w)
	table.Header("From", "Label", "To", "Final")
	for _, state := range report.States {
		for _, tran := range state.Transitions {
			err := table.Append([]string{
				strconv.Itoa(state.Number),
				tran.Label,
				strconv.Itoa(tran.State),
				strconv.FormatBool(final[tran.State]),
			})
			if err != nil {
				return err
			}
		}
	}
	return table.Render()
}

const reportTemplate = `# {{ .Name }}

Start symbol: {{ .StartSymbol }}
End-marker: {{ .EndMarker }}

# Non-terminals

{{ range $i, $sym := .NonTerminals -}}
{{ printSymbol $i $sym }}
{{ end }}
# Terminals

{{ range $i, $sym := .Terminals -}}
{{ printSymbol $i $sym }}
{{ end }}
# States
{{ range .States }}
## State {{ .Number }}{{ if .Final }} (final){{ end }}

{{ printNode . }}

{{ range .Transitions -}}
{{ printTransition . }}
{{ end -}}
{{ end }}`

// WriteReport writes a report as a Markdown-like text.
func WriteReport(w io.Writer, report *automaton.Report) error {
	fns := template.FuncMap{
		"printSymbol": func(i int, sym string) string {
			return fmt.Sprintf("%4v %v", i+1, sym)
		},
		"printNode": func(state *automaton.State) string {
			return NodeText(report, state)
		},
		"printTransition": func(tran *automaton.Transition) string {
			return fmt.Sprintf("%v -> %v", tran.Label, tran.State)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	err = tmpl.Execute(w, report)
	if err != nil {
		return err
	}

	return nil
}
