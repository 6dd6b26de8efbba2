package watchdog

import (
	"fmt"
	"net"
	"time"

	"github.com/xvzc/macswitch/internal/hwaddr"
)

// DefaultTargets is used whenever the configured target set is empty.
var DefaultTargets = []string{
	"https://discord.com/",
	"https://twitter.com/",
	"https://www.amazon.com/",
	"https://www.apple.com/",
	"https://www.bing.com/",
	"https://www.facebook.com/",
	"https://www.google.com/",
	"https://www.instagram.com/",
	"https://www.linkedin.com/",
	"https://www.netflix.com/tw/",
	"https://www.microsoft.com/",
	"https://www.pinterest.com/",
	"https://www.reddit.com/",
	"https://www.twitch.tv/",
	"https://www.wikipedia.org/",
	"https://www.yahoo.com/",
	"https://www.youtube.com/",
}

// Settings is the read-only snapshot the controller works from between two
// steady-state boundaries.
type Settings struct {
	Interface string
	Tool      string

	TestInterval        time.Duration
	RecheckBeforeChange time.Duration
	RecheckAfterChange  time.Duration
	RecheckStep         time.Duration
	RecheckMax          time.Duration

	Targets []string
}

func (s Settings) targets() []string {
	if len(s.Targets) == 0 {
		return DefaultTargets
	}

	return s.Targets
}

// ToolArgs builds the argument string for the interface tool:
// "<iface> ether" when addr is empty, "<iface> ether <addr>" otherwise.
func ToolArgs(iface string, addr net.HardwareAddr) string {
	if len(addr) == 0 {
		return fmt.Sprintf("%s ether", iface)
	}

	return fmt.Sprintf("%s ether %s", iface, hwaddr.Format(addr))
}
