package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"

	"github.com/akam1o/ifbridge/pkg/eni"
)

// FormatTable formats data as a table with aligned columns
func FormatTable(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	// Print headers
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	// Print separator
	sep := make([]string, len(headers))
	for i := range headers {
		sep[i] = strings.Repeat("-", len(headers[i]))
	}
	fmt.Fprintln(tw, strings.Join(sep, "\t"))

	// Print rows
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	// Return flush error
	return tw.Flush()
}

// FormatStanzaTable lists stanzas one per row with their kind and interface
func FormatStanzaTable(w io.Writer, stanzas []eni.Stanza) error {
	rows := make([][]string, 0, len(stanzas))
	for i, s := range stanzas {
		iface, ok := s.InterfaceName()
		if !ok {
			iface = "-"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			s.Kind().String(),
			iface,
			s.Definition(),
			fmt.Sprintf("%d", len(s.Options())),
		})
	}
	return FormatTable(w, []string{"#", "Kind", "Interface", "Definition", "Options"}, rows)
}

// stanzaDoc is the YAML shape of a stanza
type stanzaDoc struct {
	Definition string   `yaml:"definition"`
	Kind       string   `yaml:"kind"`
	Interface  string   `yaml:"interface,omitempty"`
	Options    []string `yaml:"options,omitempty"`
}

// FormatYAML writes stanzas as a YAML sequence
func FormatYAML(w io.Writer, stanzas []eni.Stanza) error {
	docs := make([]stanzaDoc, 0, len(stanzas))
	for _, s := range stanzas {
		iface, _ := s.InterfaceName()
		docs = append(docs, stanzaDoc{
			Definition: s.Definition(),
			Kind:       s.Kind().String(),
			Interface:  iface,
			Options:    s.Options(),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(docs); err != nil {
		return err
	}
	return enc.Close()
}

// FormatDiff writes a unified diff between the file as parsed and as rewritten.
// Both sides are rendered, so comments and spacing differences of the original
// file do not show up.
func FormatDiff(w io.Writer, filename string, before, after []eni.Stanza) error {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(eni.RenderString(before)),
		B:        difflib.SplitLines(eni.RenderString(after)),
		FromFile: filename,
		ToFile:   filename + " (bridged)",
		Context:  3,
	}
	return difflib.WriteUnifiedDiff(w, diff)
}
