// Package hwaddr formats and steps 6-byte hardware addresses.
package hwaddr

import (
	"fmt"
	"net"
	"strings"
)

const Len = 6

const hexDigits = "0123456789abcdef"

// Format renders b as lowercase colon-separated hex octets.
// An empty slice yields an empty string.
func Format(b []byte) string {
	if len(b) == 0 {
		return ""
	}

	sb := strings.Builder{}
	sb.Grow(len(b)*3 - 1)
	for i, v := range b {
		if i > 0 {
			sb.WriteByte(':')
		}
		sb.WriteByte(hexDigits[v>>4])
		sb.WriteByte(hexDigits[v&0x0f])
	}

	return sb.String()
}

// Parse reads a colon-hex address produced by Format.
func Parse(s string) (net.HardwareAddr, error) {
	addr, err := net.ParseMAC(s)
	if err != nil {
		return nil, err
	}

	if len(addr) != Len {
		return nil, fmt.Errorf("expected %d octets, got %d", Len, len(addr))
	}

	return addr, nil
}

// DecrementLast subtracts one from the last octet in place, wrapping 0x00 to 0xff.
func DecrementLast(b []byte) {
	if len(b) == 0 {
		return
	}

	b[len(b)-1]--
}

// Clone returns a copy that does not share storage with b.
func Clone(b net.HardwareAddr) net.HardwareAddr {
	if b == nil {
		return nil
	}

	return append(net.HardwareAddr(nil), b...)
}
