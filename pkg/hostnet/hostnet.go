// Package hostnet finds the interface carrying the IPv4 default route and
// manages the bridge link that takes it over.
package hostnet

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/akam1o/ifbridge/pkg/errors"
	"github.com/akam1o/ifbridge/pkg/logger"
)

// ErrNoDefaultRoute is returned when no IPv4 default route with a gateway exists
var ErrNoDefaultRoute = stderrors.New("no IPv4 default route")

// bondingMastersPath is relative to the sysfs mount point
const bondingMastersPath = "class/net/bonding_masters"

// Route is an IPv4 default route
type Route struct {
	Interface string
	Gateway   net.IP
	Priority  int
}

// PrimaryNIC describes the interface carrying the default route
type PrimaryNIC struct {
	Name    string
	Gateway net.IP
	Bonded  bool
}

// netSource abstracts the kernel interactions so they can be faked in tests
type netSource interface {
	// DefaultRoutes lists IPv4 default routes that have a gateway
	DefaultRoutes() ([]Route, error)

	// LinkType returns the link kind ("device", "bond", "bridge", ...)
	LinkType(name string) (string, error)

	// EnsureBridge creates a bridge link unless one named name exists
	EnsureBridge(name string) (created bool, err error)
}

// Discoverer answers questions about the host's interfaces
type Discoverer struct {
	src       netSource
	sysfsRoot string
	log       *logger.Logger
}

// NewDiscoverer creates a discoverer backed by netlink and /sys. log may be nil.
func NewDiscoverer(log *logger.Logger) *Discoverer {
	return &Discoverer{
		src:       netlinkSource{},
		sysfsRoot: "/sys",
		log:       log,
	}
}

// Discover finds the default route interface and whether it is bonded.
// The route with the lowest priority wins.
func (d *Discoverer) Discover() (*PrimaryNIC, error) {
	routes, err := d.src.DefaultRoutes()
	if err != nil {
		return nil, errors.NICDiscoveryError(err)
	}
	if len(routes) == 0 {
		return nil, errors.NICDiscoveryError(ErrNoDefaultRoute)
	}

	best := slices.MinFunc(routes, func(a, b Route) int {
		return a.Priority - b.Priority
	})

	bonded, err := d.IsBonded(best.Interface)
	if err != nil {
		return nil, err
	}

	nic := &PrimaryNIC{
		Name:    best.Interface,
		Gateway: best.Gateway,
		Bonded:  bonded,
	}
	if d.log != nil {
		d.log.Info("Discovered primary NIC",
			slog.String("nic", nic.Name),
			slog.String("gateway", nic.Gateway.String()),
			slog.Bool("bonded", nic.Bonded),
		)
	}
	return nic, nil
}

// IsBonded reports whether name is listed in bonding_masters or is a bond link
func (d *Discoverer) IsBonded(name string) (bool, error) {
	masters, err := readSysfsFile(filepath.Join(d.sysfsRoot, bondingMastersPath))
	switch {
	case err == nil:
		if slices.Contains(strings.Fields(masters), name) {
			return true, nil
		}
	case os.IsNotExist(err):
		// bonding module not loaded
	default:
		return false, err
	}

	kind, err := d.src.LinkType(name)
	if err != nil {
		if d.log != nil {
			d.log.Debug("Cannot read link type", slog.String("nic", name), slog.Any("error", err))
		}
		return false, nil
	}
	return kind == "bond", nil
}

// EnsureBridge creates the bridge link if it does not exist yet
func (d *Discoverer) EnsureBridge(name string) error {
	created, err := d.src.EnsureBridge(name)
	if err != nil {
		return errors.Wrap(
			err,
			errors.ErrCodeSystemError,
			fmt.Sprintf("Failed to create bridge %s", name),
			"The kernel rejected the bridge link",
			"Check that the bridge module is available and run as root",
		)
	}
	if d.log != nil {
		d.log.Info("Bridge link ready", slog.String("bridge", name), slog.Bool("created", created))
	}
	return nil
}

// readSysfsFile reads a single-line file from sysfs
func readSysfsFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsPermission(err) {
			return "", errors.New(
				errors.ErrCodePermissionDenied,
				fmt.Sprintf("Permission denied reading: %s", path),
				"Insufficient permissions to access sysfs",
				"Run with appropriate permissions (e.g., sudo) or check file permissions",
			)
		}
		return "", err
	}
	return string(data), nil
}
