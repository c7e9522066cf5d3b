package config

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

const (
	// PyprojectFile is the structured project document consulted for the
	// manpages specification.
	PyprojectFile = "pyproject.toml"
	// SetupCfgFile is the legacy flat configuration consulted first on the
	// install path.
	SetupCfgFile = "setup.cfg"
	// Section is the configuration table/section owned by this tool.
	Section = "build_manpages"
	// Key is the option holding the specification text.
	Key = "manpages"
)

// ErrNoSpec is returned when no source provides a manpages specification.
var ErrNoSpec = errors.New("'" + Key + "' configuration is required")

// A lookup tries one configuration source. It returns the specification
// text and whether the source had the key at all; an empty text with
// ok=true still falls through to the next source.
type lookup func() (string, bool)

// Resolve returns the specification text for the build path. An explicit
// non-empty override wins; otherwise the project's pyproject document is
// consulted. Absence of both is an error.
func Resolve(override, dir string) (string, error) {
	return resolve(
		func() (string, bool) { return override, override != "" },
		func() (string, bool) { return fromPyproject(dir) },
	)
}

// ResolveInstall returns the specification text for the install path,
// where setup.cfg takes precedence over the pyproject document. Explicit
// overrides do not apply here.
func ResolveInstall(dir string) (string, error) {
	return resolve(
		func() (string, bool) { return fromSetupCfg(dir) },
		func() (string, bool) { return fromPyproject(dir) },
	)
}

func resolve(sources ...lookup) (string, error) {
	for _, source := range sources {
		if text, ok := source(); ok && text != "" {
			return text, nil
		}
	}
	return "", ErrNoSpec
}

// fromPyproject reads tool.build_manpages.manpages from pyproject.toml.
// A missing or unparsable document falls through rather than failing, so
// later sources (or the final ErrNoSpec) decide the outcome. List values
// are joined with newlines; scalar values are stringified.
func fromPyproject(dir string) (string, bool) {
	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, PyprojectFile))
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return "", false
	}

	value := v.Get("tool." + Section + "." + Key)
	if value == nil {
		return "", false
	}
	switch value := value.(type) {
	case string:
		return value, true
	case []any, []string:
		lines, err := cast.ToStringSliceE(value)
		if err != nil {
			return "", false
		}
		return strings.Join(lines, "\n"), true
	default:
		text, err := cast.ToStringE(value)
		if err != nil {
			return "", false
		}
		return text, true
	}
}

// fromSetupCfg reads the [build_manpages] manpages option from setup.cfg.
// Python-style indented continuation lines form a multi-line value.
func fromSetupCfg(dir string) (string, bool) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		AllowPythonMultilineValues: true,
	}, filepath.Join(dir, SetupCfgFile))
	if err != nil {
		return "", false
	}
	section, err := cfg.GetSection(Section)
	if err != nil {
		return "", false
	}
	key, err := section.GetKey(Key)
	if err != nil {
		return "", false
	}
	return key.String(), true
}
