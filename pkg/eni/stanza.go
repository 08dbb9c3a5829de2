package eni

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrInvalidDefinition is returned for an empty or multi-line stanza definition
var ErrInvalidDefinition = errors.New("invalid stanza definition")

// Stanza is one configuration block: its defining line and its option lines.
// A Stanza is never modified after construction; rewrites build new values.
type Stanza struct {
	definition string
	options    []string
}

// NewStanza creates a stanza. The options slice is copied.
func NewStanza(definition string, options []string) (Stanza, error) {
	if strings.TrimSpace(definition) == "" || strings.ContainsAny(definition, "\r\n") {
		return Stanza{}, fmt.Errorf("%w: %q", ErrInvalidDefinition, definition)
	}
	return Stanza{
		definition: definition,
		options:    slices.Clone(options),
	}, nil
}

// Definition returns the trimmed first line of the block
func (s Stanza) Definition() string {
	return s.definition
}

// Options returns a copy of the option lines in file order
func (s Stanza) Options() []string {
	return slices.Clone(s.options)
}

// Fields splits the definition on runs of whitespace
func (s Stanza) Fields() []string {
	return strings.Fields(s.definition)
}

// Kind classifies the stanza from its definition
func (s Stanza) Kind() Kind {
	switch {
	case strings.HasPrefix(s.definition, KeywordAuto+" "):
		return KindPhysical
	case strings.HasPrefix(s.definition, KeywordIface+" "):
		return KindLogical
	default:
		return KindOther
	}
}

// IsPhysical reports whether this is an "auto" stanza
func (s Stanza) IsPhysical() bool {
	return s.Kind() == KindPhysical
}

// IsLogical reports whether this is an "iface" stanza
func (s Stanza) IsLogical() bool {
	return s.Kind() == KindLogical
}

// InterfaceName returns the interface token of a physical or logical stanza.
// ok is false for other stanzas.
func (s Stanza) InterfaceName() (name string, ok bool) {
	if s.Kind() == KindOther {
		return "", false
	}
	fields := s.Fields()
	if len(fields) <= TokenInterface {
		return "", false
	}
	return fields[TokenInterface], true
}

// Equal reports whether two stanzas have the same definition and options
func (s Stanza) Equal(other Stanza) bool {
	return s.definition == other.definition && slices.Equal(s.options, other.options)
}

// String returns the definition line
func (s Stanza) String() string {
	return s.definition
}
