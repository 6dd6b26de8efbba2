//go:build !linux

package system

import "net"

func lookupInterface(name string) (*Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	return findByName(ifaces, name)
}
