package system

import (
	"net"

	"github.com/jackpal/gateway"
)

// FindGatewayIPAddr returns the default gateway. It is logged at startup for
// diagnostics only.
func FindGatewayIPAddr() (net.IP, error) {
	return gateway.DiscoverGateway()
}
