package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/akam1o/ifbridge/pkg/eni"
)

func TestFormatTable(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		rows    [][]string
		want    string
	}{
		{
			name:    "empty table",
			headers: []string{"Col1", "Col2"},
			rows:    [][]string{},
			want:    "Col1  Col2\n----  ----\n",
		},
		{
			name:    "single row",
			headers: []string{"Name", "Kind"},
			rows:    [][]string{{"eth0", "auto"}},
			want:    "Name  Kind\n----  ----\neth0  auto\n",
		},
		{
			name:    "column alignment",
			headers: []string{"Short", "LongerHeader"},
			rows: [][]string{
				{"A", "B"},
				{"VeryLongValue", "C"},
			},
			want: "Short          LongerHeader\n-----          ------------\nA              B\nVeryLongValue  C\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := FormatTable(&buf, tt.headers, tt.rows); err != nil {
				t.Fatalf("FormatTable() error = %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("FormatTable() output mismatch:\nGot:\n%s\nWant:\n%s", got, tt.want)
			}
		})
	}
}

func bridgedStanzas(t *testing.T) (before, after []eni.Stanza) {
	t.Helper()
	var err error
	before, err = eni.Parse(strings.NewReader("source interfaces.d/*\nauto eth0\niface eth0 inet dhcp\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	after, err = eni.Parse(strings.NewReader("source interfaces.d/*\niface eth0 inet manual\n\nauto br0\niface br0 inet dhcp\n    bridge_ports eth0\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return before, after
}

func TestFormatStanzaTable(t *testing.T) {
	_, after := bridgedStanzas(t)

	var buf bytes.Buffer
	if err := FormatStanzaTable(&buf, after); err != nil {
		t.Fatalf("FormatStanzaTable() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want 6:\n%s", len(lines), buf.String())
	}

	want := [][]string{
		{"#", "Kind", "Interface", "Definition", "Options"},
		{"-", "----", "---------", "----------", "-------"},
		{"1", "other", "-", "source", "interfaces.d/*", "0"},
		{"2", "logical", "eth0", "iface", "eth0", "inet", "manual", "0"},
		{"3", "physical", "br0", "auto", "br0", "0"},
		{"4", "logical", "br0", "iface", "br0", "inet", "dhcp", "1"},
	}
	for i, line := range lines {
		if diff := cmp.Diff(want[i], strings.Fields(line)); diff != "" {
			t.Errorf("line %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestFormatYAML(t *testing.T) {
	_, after := bridgedStanzas(t)

	var buf bytes.Buffer
	if err := FormatYAML(&buf, after); err != nil {
		t.Fatalf("FormatYAML() error = %v", err)
	}

	var docs []stanzaDoc
	if err := yaml.Unmarshal(buf.Bytes(), &docs); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, buf.String())
	}

	want := []stanzaDoc{
		{Definition: "source interfaces.d/*", Kind: "other"},
		{Definition: "iface eth0 inet manual", Kind: "logical", Interface: "eth0"},
		{Definition: "auto br0", Kind: "physical", Interface: "br0"},
		{Definition: "iface br0 inet dhcp", Kind: "logical", Interface: "br0", Options: []string{"bridge_ports eth0"}},
	}
	if diff := cmp.Diff(want, docs); diff != "" {
		t.Errorf("FormatYAML() mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatDiff(t *testing.T) {
	before, after := bridgedStanzas(t)

	var buf bytes.Buffer
	if err := FormatDiff(&buf, "/etc/network/interfaces", before, after); err != nil {
		t.Fatalf("FormatDiff() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"--- /etc/network/interfaces\n",
		"+++ /etc/network/interfaces (bridged)\n",
		"-auto eth0\n",
		"+auto br0\n",
		"+    bridge_ports eth0\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("diff missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "-source interfaces.d/*") {
		t.Errorf("unchanged stanza reported as removed:\n%s", out)
	}
}

func TestFormatDiff_NoChanges(t *testing.T) {
	before, _ := bridgedStanzas(t)

	var buf bytes.Buffer
	if err := FormatDiff(&buf, "interfaces", before, before); err != nil {
		t.Fatalf("FormatDiff() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("FormatDiff() of identical input = %q, want empty", buf.String())
	}
}
