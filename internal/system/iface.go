package system

import (
	"errors"
	"fmt"
	"net"
)

// ErrInterfaceNotFound means no interface carries the exact configured name.
var ErrInterfaceNotFound = errors.New("no such network interface")

type Interface struct {
	Name         string
	Index        int
	HardwareAddr net.HardwareAddr
}

// FindInterface looks up an interface by its exact, case-sensitive name.
func FindInterface(name string) (*Interface, error) {
	iface, err := lookupInterface(name)
	if err != nil {
		return nil, fmt.Errorf("interface %q: %w", name, err)
	}

	return iface, nil
}

func findByName(ifaces []net.Interface, name string) (*Interface, error) {
	for _, iface := range ifaces {
		if iface.Name != name {
			continue
		}

		return &Interface{
			Name:         iface.Name,
			Index:        iface.Index,
			HardwareAddr: append(net.HardwareAddr(nil), iface.HardwareAddr...),
		}, nil
	}

	return nil, ErrInterfaceNotFound
}

// IPv4 returns the first non-loopback IPv4 address currently assigned to the
// interface.
func (i *Interface) IPv4() (net.IP, error) {
	iface, err := net.InterfaceByIndex(i.Index)
	if err != nil {
		return nil, err
	}

	addrs, err := iface.Addrs()
	if err != nil {
		return nil, err
	}

	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}

		if ip := ipnet.IP.To4(); ip != nil && !ip.IsLoopback() {
			return ip, nil
		}
	}

	return nil, errors.New("no non-loopback IPv4 address on interface")
}
