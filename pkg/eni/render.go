package eni

import (
	"bufio"
	"io"
	"strings"
)

// Render writes stanzas in interfaces(5) layout: the definition line, each option
// indented by OptionIndent, and a blank line after every logical stanza that is
// followed by another stanza.
func Render(w io.Writer, stanzas []Stanza) error {
	bw := bufio.NewWriter(w)

	for i, s := range stanzas {
		bw.WriteString(s.definition)
		bw.WriteByte('\n')
		for _, opt := range s.options {
			bw.WriteString(OptionIndent)
			bw.WriteString(opt)
			bw.WriteByte('\n')
		}
		if s.IsLogical() && i+1 < len(stanzas) {
			bw.WriteByte('\n')
		}
	}

	return bw.Flush()
}

// RenderString renders stanzas to a string
func RenderString(stanzas []Stanza) string {
	var b strings.Builder
	// strings.Builder never returns a write error
	_ = Render(&b, stanzas)
	return b.String()
}
