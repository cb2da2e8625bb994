package stage

import (
	"github.com/flarebyte/magepack/internal/bundler"
	"github.com/flarebyte/magepack/internal/config"
)

// Error is a non-fatal diagnostic recorded by a stage.
type Error struct {
	Stage   string `json:"stage"`
	Locator string `json:"locator,omitempty"`
	Message string `json:"message"`
}

// ConfigMeta holds validated bundling config essentials.
type ConfigMeta struct {
	ConfigVersion string `json:"configVersion,omitempty"`
	Bundles       int    `json:"bundles"`
	PathMapInline string `json:"pathMapInline,omitempty"`
}

// Meta holds run inputs and what earlier stages derived from them, with
// deterministic JSON field order.
type Meta struct {
	ConfigPath  string      `json:"configPath,omitempty"`
	LocalesGlob string      `json:"localesGlob,omitempty"`
	Excludes    []string    `json:"excludes,omitempty"`
	ForceMinify bool        `json:"forceMinify,omitempty"`
	ReportPath  string      `json:"reportPath,omitempty"`
	Config      *ConfigMeta `json:"config,omitempty"`
	Locales     []string    `json:"locales,omitempty"`
	MinifyOn    bool        `json:"minifyOn"`
}

// Envelope is the JSON-serializable contract between stages.
type Envelope struct {
	Bundles []config.BundleSpec `json:"bundles"`
	Meta    *Meta               `json:"meta,omitempty"`
	Result  *bundler.Result     `json:"result,omitempty"`
	Errors  []Error             `json:"errors,omitempty"`
}

// NewEnvelope returns the initial envelope for a run.
func NewEnvelope(s config.Settings) Envelope {
	return Envelope{
		Bundles: []config.BundleSpec{},
		Meta: &Meta{
			ConfigPath:  s.ConfigPath,
			LocalesGlob: s.LocalesGlob,
			Excludes:    append([]string(nil), s.Excludes...),
			ForceMinify: s.ForceMinify,
			ReportPath:  s.ReportPath,
		},
	}
}

func (e *Envelope) meta() *Meta {
	if e.Meta == nil {
		e.Meta = &Meta{}
	}
	return e.Meta
}
