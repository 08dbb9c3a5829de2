//go:build !linux

package hostnet

import "errors"

var errUnsupported = errors.New("netlink is only available on linux")

type netlinkSource struct{}

func (netlinkSource) DefaultRoutes() ([]Route, error) {
	return nil, errUnsupported
}

func (netlinkSource) LinkType(name string) (string, error) {
	return "", errUnsupported
}

func (netlinkSource) EnsureBridge(name string) (bool, error) {
	return false, errUnsupported
}
