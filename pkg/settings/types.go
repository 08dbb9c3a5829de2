package settings

import (
	"strings"
)

const (
	// DefaultFilename is the Debian ifupdown configuration file
	DefaultFilename = "/etc/network/interfaces"

	// DefaultBridgeName is the bridge created when none is configured
	DefaultBridgeName = "juju-br0"

	// maxInterfaceNameLen is IFNAMSIZ minus the terminating NUL
	maxInterfaceNameLen = 15
)

// Settings holds everything needed to bridge one interface
type Settings struct {
	// Filename is the interfaces file to rewrite
	Filename string `yaml:"filename"`

	// BridgeName is the bridge device that takes over the NIC's configuration
	BridgeName string `yaml:"bridge_name"`

	// PrimaryNIC is the interface to bridge; discovered from the default route when empty
	PrimaryNIC string `yaml:"primary_nic,omitempty"`

	// PrimaryNICBonded marks PrimaryNIC as a bond master
	PrimaryNICBonded bool `yaml:"primary_nic_bonded,omitempty"`

	// Apply controls how the rewritten file is installed
	Apply ApplySettings `yaml:"apply"`
}

// ApplySettings controls installation of the rewritten file
type ApplySettings struct {
	// Backup keeps a one-time copy of the original file
	Backup bool `yaml:"backup"`

	// AutoRollback restores the original file when bringing interfaces up fails
	AutoRollback bool `yaml:"auto_rollback"`

	// RenderOnly writes the file without restarting interfaces
	RenderOnly bool `yaml:"render_only"`

	// CreateBridge creates the bridge link before interfaces are brought up
	CreateBridge bool `yaml:"create_bridge"`
}

// Default returns the built-in settings
func Default() *Settings {
	return &Settings{
		Filename:   DefaultFilename,
		BridgeName: DefaultBridgeName,
		Apply: ApplySettings{
			Backup:       true,
			AutoRollback: true,
			CreateBridge: true,
		},
	}
}

// Validate checks fields that do not depend on NIC discovery
func (s *Settings) Validate() error {
	if s.Filename == "" {
		return &ValidationError{Field: "filename", Message: "filename cannot be empty"}
	}
	if err := validateInterfaceName("bridge_name", s.BridgeName); err != nil {
		return err
	}
	if s.PrimaryNIC != "" {
		if err := validateInterfaceName("primary_nic", s.PrimaryNIC); err != nil {
			return err
		}
		if s.PrimaryNIC == s.BridgeName {
			return &ValidationError{
				Field:   "bridge_name",
				Message: "bridge name must differ from the primary NIC",
			}
		}
	}
	return nil
}

// validateInterfaceName applies the kernel's dev_valid_name rules
func validateInterfaceName(field, name string) error {
	switch {
	case name == "":
		return &ValidationError{Field: field, Message: "interface name cannot be empty"}
	case len(name) > maxInterfaceNameLen:
		return &ValidationError{Field: field, Message: "interface name longer than 15 characters"}
	case name == "." || name == "..":
		return &ValidationError{Field: field, Message: "interface name cannot be . or .."}
	case strings.ContainsAny(name, "/: \t\n"):
		return &ValidationError{Field: field, Message: "interface name cannot contain '/', ':' or whitespace"}
	}
	return nil
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
