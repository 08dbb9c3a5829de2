// Package bridge rewrites parsed interfaces stanzas so that a NIC's configuration
// is carried by a bridge device with the NIC demoted to a bridge port.
package bridge

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/akam1o/ifbridge/pkg/eni"
	"github.com/akam1o/ifbridge/pkg/logger"
)

var (
	// ErrUnmatchedStanza means a stanza fit no rewrite rule and would have been lost
	ErrUnmatchedStanza = errors.New("stanza matched no rewrite rule")

	// ErrMalformedDefinition means an iface line lacks the method token
	ErrMalformedDefinition = errors.New("malformed iface definition")
)

// BridgePortsOption is the option key naming the ports of a bridge
const BridgePortsOption = "bridge_ports"

// bondOptionPrefix marks bonding options that must not move to the bridge
const bondOptionPrefix = "bond"

// aliasSeparators split a base interface from its alias or VLAN suffix
var aliasSeparators = []string{":", "."}

// Options configures a transform
type Options struct {
	// Interface is the NIC (or bond master) whose configuration moves to the bridge
	Interface string
	// Bridge is the name of the bridge device to create
	Bridge string
	// Bonded keeps the NIC's own auto stanza and strips bond options from the bridge
	Bonded bool
}

// match describes how a stanza relates to the target interface
type match int

const (
	matchNone match = iota
	matchExact
	matchAlias
)

// Transformer applies the bridge rewrite to a stanza list
type Transformer struct {
	opts Options
	log  *logger.Logger
}

// NewTransformer creates a transformer. log may be nil.
func NewTransformer(opts Options, log *logger.Logger) *Transformer {
	return &Transformer{opts: opts, log: log}
}

// Transform returns a new stanza list with the bridge rewrite applied.
// The input is not modified.
func Transform(stanzas []eni.Stanza, opts Options) ([]eni.Stanza, error) {
	return NewTransformer(opts, nil).Transform(stanzas)
}

// Transform returns a new stanza list with the bridge rewrite applied
func (t *Transformer) Transform(stanzas []eni.Stanza) ([]eni.Stanza, error) {
	out := make([]eni.Stanza, 0, len(stanzas)+2)

	for _, s := range stanzas {
		var err error
		switch m := t.classify(s); {
		case m == matchNone:
			out = append(out, s)
		case m == matchExact && t.opts.Bonded:
			out, err = t.rewriteBonded(out, s)
		case m == matchExact:
			out, err = t.rewriteExact(out, s)
		case m == matchAlias:
			out, err = t.rewriteAlias(out, s)
		default:
			err = ErrUnmatchedStanza
		}
		if err != nil {
			return nil, fmt.Errorf("stanza %q: %w", s.Definition(), err)
		}
	}

	if t.log != nil {
		t.log.Debug("Bridge transform complete",
			slog.String("interface", t.opts.Interface),
			slog.String("bridge", t.opts.Bridge),
			slog.Bool("bonded", t.opts.Bonded),
			slog.Int("stanzas_in", len(stanzas)),
			slog.Int("stanzas_out", len(out)),
		)
	}
	return out, nil
}

// classify reports whether s concerns the target interface
func (t *Transformer) classify(s eni.Stanza) match {
	name, ok := s.InterfaceName()
	if !ok {
		return matchNone
	}
	if name == t.opts.Interface {
		return matchExact
	}
	if isAlias(name, t.opts.Interface) {
		return matchAlias
	}
	return matchNone
}

// isAlias reports whether name is base followed by an alias or VLAN suffix
func isAlias(name, base string) bool {
	suffix, ok := strings.CutPrefix(name, base)
	if !ok || len(suffix) < 2 {
		return false
	}
	for _, sep := range aliasSeparators {
		if strings.HasPrefix(suffix, sep) {
			return true
		}
	}
	return false
}

// rewriteExact handles the unbonded pair
//
//	auto eth0
//	iface eth0 inet <method>
//
// turning it into
//
//	iface eth0 inet manual
//	auto <bridge>
//	iface <bridge> inet <method>
//	    bridge_ports eth0
func (t *Transformer) rewriteExact(out []eni.Stanza, s eni.Stanza) ([]eni.Stanza, error) {
	if s.IsPhysical() {
		renamed, err := t.renameInterface(s, nil)
		if err != nil {
			return nil, err
		}
		return append(out, renamed), nil
	}

	manual, err := demote(s, nil)
	if err != nil {
		return nil, err
	}
	bridged, err := t.renameInterface(s, t.withBridgePorts(s.Options()))
	if err != nil {
		return nil, err
	}

	// The renamed auto stanza emitted on the previous iteration has to follow
	// the demoted iface so that it stays adjacent to the bridged iface.
	if n := len(out); n > 0 && t.isBridgeAuto(out[n-1]) {
		auto := out[n-1]
		out = append(out[:n-1], manual, auto)
	} else {
		out = append(out, manual)
	}
	return append(out, bridged), nil
}

// rewriteBonded leaves the bond's auto stanza alone and turns its iface into
//
//	iface bond0 inet manual
//	    <original options>
//	auto <bridge>
//	iface <bridge> inet <method>
//	    <options without bond*>
//	    bridge_ports bond0
func (t *Transformer) rewriteBonded(out []eni.Stanza, s eni.Stanza) ([]eni.Stanza, error) {
	if s.IsPhysical() {
		return append(out, s), nil
	}

	manual, err := demote(s, s.Options())
	if err != nil {
		return nil, err
	}
	auto, err := eni.NewStanza(eni.KeywordAuto+" "+t.opts.Bridge, nil)
	if err != nil {
		return nil, err
	}

	var kept []string
	for _, opt := range s.Options() {
		if !strings.HasPrefix(opt, bondOptionPrefix) {
			kept = append(kept, opt)
		}
	}
	bridged, err := t.renameInterface(s, t.withBridgePorts(kept))
	if err != nil {
		return nil, err
	}

	return append(out, manual, auto, bridged), nil
}

// rewriteAlias renames the base interface inside an alias definition, e.g.
// "iface eth0:1 inet static" becomes "iface <bridge>:1 inet static"
func (t *Transformer) rewriteAlias(out []eni.Stanza, s eni.Stanza) ([]eni.Stanza, error) {
	def := strings.ReplaceAll(s.Definition(), t.opts.Interface, t.opts.Bridge)
	renamed, err := eni.NewStanza(def, s.Options())
	if err != nil {
		return nil, err
	}
	return append(out, renamed), nil
}

// renameInterface rebuilds s with its interface token set to the bridge name
func (t *Transformer) renameInterface(s eni.Stanza, options []string) (eni.Stanza, error) {
	fields := s.Fields()
	fields[eni.TokenInterface] = t.opts.Bridge
	return eni.NewStanza(strings.Join(fields, " "), options)
}

func (t *Transformer) withBridgePorts(options []string) []string {
	return append(options, BridgePortsOption+" "+t.opts.Interface)
}

// isBridgeAuto reports whether s is the auto stanza already renamed to the bridge
func (t *Transformer) isBridgeAuto(s eni.Stanza) bool {
	name, ok := s.InterfaceName()
	return ok && s.IsPhysical() && name == t.opts.Bridge
}

// demote rebuilds an iface stanza with its method set to manual
func demote(s eni.Stanza, options []string) (eni.Stanza, error) {
	fields := s.Fields()
	if len(fields) <= eni.TokenMethod {
		return eni.Stanza{}, ErrMalformedDefinition
	}
	fields[eni.TokenMethod] = eni.MethodManual
	return eni.NewStanza(strings.Join(fields, " "), options)
}

// AlreadyBridged reports whether stanzas already configure an iface for bridge
func AlreadyBridged(stanzas []eni.Stanza, bridge string) bool {
	for _, s := range stanzas {
		if name, ok := s.InterfaceName(); ok && s.IsLogical() && name == bridge {
			return true
		}
	}
	return false
}
