package eni

import "strings"

// Kind classifies a stanza by its defining keyword
type Kind int

const (
	// KindOther covers mapping, allow-*, source and dns-* blocks
	KindOther Kind = iota
	// KindPhysical is an "auto <iface>" block
	KindPhysical
	// KindLogical is an "iface <iface> <family> <method>" block
	KindLogical
)

// String returns a string representation of the stanza kind
func (k Kind) String() string {
	switch k {
	case KindPhysical:
		return "physical"
	case KindLogical:
		return "logical"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Block-start keywords, matched case-sensitively at the very start of a raw line.
// "allow-" and "dns-" are prefixes of keyword families.
const (
	KeywordIface   = "iface"
	KeywordMapping = "mapping"
	KeywordAuto    = "auto"
	KeywordAllow   = "allow-"
	KeywordSource  = "source"
	KeywordDNS     = "dns-"
)

var blockKeywords = []string{
	KeywordIface,
	KeywordMapping,
	KeywordAuto,
	KeywordAllow,
	KeywordSource,
	KeywordDNS,
}

// Positional token slots of a whitespace-split definition line.
const (
	// TokenKeyword is the block keyword ("auto", "iface")
	TokenKeyword = 0
	// TokenInterface is the interface name in both "auto" and "iface" lines
	TokenInterface = 1
	// TokenFamily is the address family of an "iface" line (inet, inet6)
	TokenFamily = 2
	// TokenMethod is the configuration method of an "iface" line (dhcp, static, manual)
	TokenMethod = 3
)

// MethodManual is the method a demoted interface is rewritten to
const MethodManual = "manual"

// OptionIndent prefixes every option line when rendering
const OptionIndent = "    "

// IsBlockStart reports whether a raw, untrimmed line opens a new stanza
func IsBlockStart(line string) bool {
	for _, kw := range blockKeywords {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}
