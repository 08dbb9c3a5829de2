package eni

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestRender_Layout(t *testing.T) {
	stanzas := []Stanza{
		mustStanza(t, "iface eth0 inet manual"),
		mustStanza(t, "auto br0"),
		mustStanza(t, "iface br0 inet dhcp", "bridge_ports eth0"),
	}

	want := "iface eth0 inet manual\n\nauto br0\niface br0 inet dhcp\n    bridge_ports eth0\n"
	if got := RenderString(stanzas); got != want {
		t.Errorf("RenderString() =\n%q\nwant\n%q", got, want)
	}
}

func TestRender_OtherStanzasHaveNoTrailingBlank(t *testing.T) {
	stanzas := []Stanza{
		mustStanza(t, "auto lo"),
		mustStanza(t, "iface lo inet loopback"),
		mustStanza(t, "source /etc/network/interfaces.d/*.cfg"),
		mustStanza(t, "mapping eth0", "script /usr/local/sbin/map-scheme", "map HOME eth0-home"),
		mustStanza(t, "auto eth0"),
	}

	want := "auto lo\n" +
		"iface lo inet loopback\n" +
		"\n" +
		"source /etc/network/interfaces.d/*.cfg\n" +
		"mapping eth0\n" +
		"    script /usr/local/sbin/map-scheme\n" +
		"    map HOME eth0-home\n" +
		"auto eth0\n"
	if got := RenderString(stanzas); got != want {
		t.Errorf("RenderString() =\n%q\nwant\n%q", got, want)
	}
}

func TestRender_Empty(t *testing.T) {
	if got := RenderString(nil); got != "" {
		t.Errorf("RenderString(nil) = %q, want empty", got)
	}
}

func TestRender_RoundTrip(t *testing.T) {
	first, err := Parse(strings.NewReader(debianInterfaces))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	rendered := RenderString(first)

	second, err := Parse(strings.NewReader(rendered))
	if err != nil {
		t.Fatalf("Parse(rendered) error = %v", err)
	}

	if diff := cmp.Diff(flatten(first), flatten(second), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip changed stanzas (-first +second):\n%s", diff)
	}
	if again := RenderString(second); again != rendered {
		t.Errorf("second render differs:\n%q\nvs\n%q", again, rendered)
	}
}
