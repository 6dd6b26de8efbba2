//go:build linux

package system

import (
	"errors"
	"net"

	"github.com/vishvananda/netlink"
)

func lookupInterface(name string) (*Interface, error) {
	link, err := netlink.LinkByName(name)
	if err != nil {
		var notFound netlink.LinkNotFoundError
		if errors.As(err, &notFound) {
			return nil, ErrInterfaceNotFound
		}
		return nil, err
	}

	attrs := link.Attrs()
	// Names must match exactly, including case.
	if attrs.Name != name {
		return nil, ErrInterfaceNotFound
	}

	return &Interface{
		Name:         attrs.Name,
		Index:        attrs.Index,
		HardwareAddr: append(net.HardwareAddr(nil), attrs.HardwareAddr...),
	}, nil
}
