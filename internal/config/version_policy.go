package config

import (
	"fmt"
	"slices"
	"strings"
)

// CurrentConfigVersion is written by `magepack` tooling and assumed when a
// bundling config omits configVersion.
const CurrentConfigVersion = "1"

// SupportedConfigVersions lists the bundling config versions this build reads.
var SupportedConfigVersions = []string{CurrentConfigVersion}

// IsSupportedConfigVersion reports whether v can be loaded.
func IsSupportedConfigVersion(v string) bool {
	return slices.Contains(SupportedConfigVersions, v)
}

func unsupportedVersionError(v string) error {
	return fmt.Errorf("unsupported configVersion: %q (supported: %s)", v, strings.Join(SupportedConfigVersions, ", "))
}
