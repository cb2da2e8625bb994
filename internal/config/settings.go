package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables overriding run settings,
// e.g. MAGEPACK_LOG_LEVEL.
const EnvPrefix = "MAGEPACK"

// DefaultLocalesGlob matches deployed frontend and adminhtml locales.
const DefaultLocalesGlob = "{pub/static/frontend/*/*/*,pub/static/adminhtml/*/*/*}"

// DefaultLocaleExcludes skips the blank theme, which is never served.
var DefaultLocaleExcludes = []string{"**/Magento/blank"}

// Setting keys, shared by flags and environment variables.
const (
	KeyConfig   = "config"
	KeyGlob     = "glob"
	KeyExclude  = "exclude"
	KeyMinify   = "minify"
	KeyReport   = "report"
	KeyLogLevel = "log-level"
)

// Settings are the per-run options of the bundle command.
type Settings struct {
	ConfigPath  string
	LocalesGlob string
	Excludes    []string
	ForceMinify bool
	ReportPath  string
	LogLevel    string
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault(KeyConfig, "magepack.config.cue")
	v.SetDefault(KeyGlob, DefaultLocalesGlob)
	v.SetDefault(KeyExclude, DefaultLocaleExcludes)
	v.SetDefault(KeyMinify, false)
	v.SetDefault(KeyReport, "")
	v.SetDefault(KeyLogLevel, "info")
	return v
}

// SettingsFrom reads Settings from v.
func SettingsFrom(v *viper.Viper) Settings {
	return Settings{
		ConfigPath:  v.GetString(KeyConfig),
		LocalesGlob: v.GetString(KeyGlob),
		Excludes:    v.GetStringSlice(KeyExclude),
		ForceMinify: v.GetBool(KeyMinify),
		ReportPath:  v.GetString(KeyReport),
		LogLevel:    v.GetString(KeyLogLevel),
	}
}

// RegisterFlags adds the run setting flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP(KeyConfig, "c", "magepack.config.cue", "Path to bundling config (.cue, .yaml, .yml, .json)")
	fs.StringP(KeyGlob, "g", DefaultLocalesGlob, "Glob matching deployed locale roots")
	fs.StringSlice(KeyExclude, DefaultLocaleExcludes, "Locale exclude patterns (.gitignore syntax)")
	fs.BoolP(KeyMinify, "m", false, "Minify bundles even when the deployment is not minified")
	fs.String(KeyReport, "", "Write a YAML run report to this path")
}

// BindFlags binds the run setting flags found in fs to v. Flags override
// environment variables, which override defaults.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for _, k := range []string{KeyConfig, KeyGlob, KeyExclude, KeyMinify, KeyReport, KeyLogLevel} {
		f := fs.Lookup(k)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(k, f); err != nil {
			return err
		}
	}
	return nil
}
