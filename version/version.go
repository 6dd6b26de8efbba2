package version

// Set at build time with
// -ldflags "-X github.com/xvzc/macswitch/version.Version=..."
var (
	Version = "dev"
	Commit  = "unknown"
	Build   = "unknown"
)
