//go:build linux

package hostnet

import (
	"errors"

	"github.com/vishvananda/netlink"
)

// netlinkSource talks to the kernel through rtnetlink
type netlinkSource struct{}

func (netlinkSource) DefaultRoutes() ([]Route, error) {
	routes, err := netlink.RouteList(nil, netlink.FAMILY_V4)
	if err != nil {
		return nil, err
	}

	var out []Route
	for _, r := range routes {
		if !isDefault(r) || r.Gw == nil {
			continue
		}
		link, err := netlink.LinkByIndex(r.LinkIndex)
		if err != nil {
			continue
		}
		out = append(out, Route{
			Interface: link.Attrs().Name,
			Gateway:   r.Gw,
			Priority:  r.Priority,
		})
	}
	return out, nil
}

// isDefault accepts both a nil Dst and 0.0.0.0/0, depending on the netlink version
func isDefault(r netlink.Route) bool {
	if r.Dst == nil {
		return true
	}
	ones, _ := r.Dst.Mask.Size()
	return ones == 0
}

func (netlinkSource) LinkType(name string) (string, error) {
	link, err := netlink.LinkByName(name)
	if err != nil {
		return "", err
	}
	return link.Type(), nil
}

func (netlinkSource) EnsureBridge(name string) (bool, error) {
	_, err := netlink.LinkByName(name)
	if err == nil {
		return false, nil
	}
	var notFound netlink.LinkNotFoundError
	if !errors.As(err, &notFound) {
		return false, err
	}

	attrs := netlink.NewLinkAttrs()
	attrs.Name = name
	if err := netlink.LinkAdd(&netlink.Bridge{LinkAttrs: attrs}); err != nil {
		return false, err
	}
	return true, nil
}
