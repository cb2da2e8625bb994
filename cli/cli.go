package cli

// Version and Date should be set at build time using ldflags, e.g.:
//
//	-ldflags "-X 'github.com/flarebyte/magepack/cli.Version=1.2.3' -X 'github.com/flarebyte/magepack/cli.Date=2026-10-16'"
var (
	Version string
	Date    string
)
