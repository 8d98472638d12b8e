// Package production provides integrations around a Context: transition
// publishing, transcripts and chart export.
package production

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/statepattern"
)

// ExportDOT generates Graphviz DOT source for the chart, highlighting current.
func ExportDOT(edges []statepattern.Edge, current statepattern.StateName) string {
	var buf bytes.Buffer
	buf.WriteString(`digraph StatePattern {
  rankdir=LR;
  node [shape=box, fontsize=10, style=rounded];
  edge [fontsize=9];
`)

	for _, name := range stateNames(edges) {
		style := ""
		if name == current {
			style = ` style=filled fillcolor=lightgreen`
		}
		buf.WriteString(fmt.Sprintf("  %q [label=%q%s];\n", name, name, style))
	}

	for _, e := range edges {
		buf.WriteString(fmt.Sprintf("  %q -> %q [label=%q];\n", e.From, e.To, e.On.String()))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportYAML serializes the chart.
func ExportYAML(edges []statepattern.Edge) ([]byte, error) {
	data, err := yaml.Marshal(map[string]any{"transitions": edges})
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}

// stateNames returns every state mentioned by edges in first-seen order.
func stateNames(edges []statepattern.Edge) []statepattern.StateName {
	seen := make(map[statepattern.StateName]bool)
	var names []statepattern.StateName
	for _, e := range edges {
		for _, n := range []statepattern.StateName{e.From, e.To} {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	return names
}
