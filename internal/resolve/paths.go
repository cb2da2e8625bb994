package resolve

import "path/filepath"

// OutputDir is the directory, relative to a locale root, holding generated
// bundles and their loader configuration.
const OutputDir = "magepack"

func suffix(minifyOn bool) string {
	if minifyOn {
		return ".min.js"
	}
	return ".js"
}

// BundlePath returns <locale>/magepack/bundle-<name>[.min].js.
func BundlePath(localeRoot, bundleName string, minifyOn bool) string {
	return filepath.Join(localeRoot, OutputDir, "bundle-"+bundleName+suffix(minifyOn))
}

// BundleConfigPath returns <locale>/magepack/requirejs-config-<name>[.min].js.
func BundleConfigPath(localeRoot, bundleName string, minifyOn bool) string {
	return filepath.Join(localeRoot, OutputDir, "requirejs-config-"+bundleName+suffix(minifyOn))
}
