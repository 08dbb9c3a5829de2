package eni

import (
	"errors"
	"testing"
)

func TestNewStanza_Invalid(t *testing.T) {
	for _, def := range []string{"", "   ", "auto eth0\nauto eth1"} {
		if _, err := NewStanza(def, nil); !errors.Is(err, ErrInvalidDefinition) {
			t.Errorf("NewStanza(%q) error = %v, want ErrInvalidDefinition", def, err)
		}
	}
}

func TestStanza_Classification(t *testing.T) {
	tests := []struct {
		definition string
		kind       Kind
		iface      string
		hasIface   bool
	}{
		{"auto eth0", KindPhysical, "eth0", true},
		{"auto lo eth0", KindPhysical, "lo", true},
		{"iface eth0 inet dhcp", KindLogical, "eth0", true},
		{"iface  eth0:1   inet static", KindLogical, "eth0:1", true},
		{"allow-hotplug eth0", KindOther, "", false},
		{"mapping eth0", KindOther, "", false},
		{"source /etc/network/interfaces.d/*", KindOther, "", false},
		{"dns-nameservers 10.0.0.1", KindOther, "", false},
		{"autofoo eth0", KindOther, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.definition, func(t *testing.T) {
			s := mustStanza(t, tt.definition)
			if s.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", s.Kind(), tt.kind)
			}
			name, ok := s.InterfaceName()
			if name != tt.iface || ok != tt.hasIface {
				t.Errorf("InterfaceName() = (%q, %v), want (%q, %v)", name, ok, tt.iface, tt.hasIface)
			}
		})
	}
}

func TestStanza_OptionsAreCopied(t *testing.T) {
	opts := []string{"address 10.0.0.2"}
	s := mustStanza(t, "iface eth0 inet static", opts...)

	opts[0] = "mutated"
	if s.Options()[0] != "address 10.0.0.2" {
		t.Error("NewStanza did not copy its options")
	}

	got := s.Options()
	got[0] = "mutated"
	if s.Options()[0] != "address 10.0.0.2" {
		t.Error("Options() exposed internal storage")
	}
}

func TestKind_String(t *testing.T) {
	if KindPhysical.String() != "physical" || KindLogical.String() != "logical" || KindOther.String() != "other" {
		t.Error("unexpected Kind string values")
	}
}

func mustStanza(t *testing.T, definition string, options ...string) Stanza {
	t.Helper()
	s, err := NewStanza(definition, options)
	if err != nil {
		t.Fatalf("NewStanza(%q) error = %v", definition, err)
	}
	return s
}
