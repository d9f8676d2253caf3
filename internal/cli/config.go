package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/toyz/mirror/internal/errors"
	"github.com/toyz/mirror/internal/registry"
)

// Frameworks lists the web frameworks the serve command can run on
var Frameworks = []string{"echo", "gin", "fiber"}

// Config holds the CLI configuration, merged from defaults, the config
// file, MIRROR_ environment variables and flags
type Config struct {
	// Document is the wire document used when a command gets no path
	Document string `mapstructure:"document"`

	Verbose bool `mapstructure:"verbose"`
	Quiet   bool `mapstructure:"quiet"`

	Build  BuildConfig  `mapstructure:"build"`
	Server ServerConfig `mapstructure:"server"`
}

// BuildConfig configures the registry build
type BuildConfig struct {
	// ExternalNamespaces are namespaces whose types are never resolved,
	// e.g. "time" or "java.time"
	ExternalNamespaces []string `mapstructure:"external_namespaces"`
}

// ServerConfig configures the serve command
type ServerConfig struct {
	Addr      string        `mapstructure:"addr"`
	Framework string        `mapstructure:"framework"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	Watch     bool          `mapstructure:"watch"`
	Debounce  time.Duration `mapstructure:"debounce"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:      ":8080",
			Framework: "echo",
			CacheTTL:  5 * time.Minute,
			Watch:     false,
			Debounce:  250 * time.Millisecond,
		},
	}
}

// Validate checks values that flags and files cannot constrain
func (c Config) Validate() error {
	known := false
	for _, f := range Frameworks {
		if strings.EqualFold(c.Server.Framework, f) {
			known = true
			break
		}
	}
	if !known {
		return errors.ConfigurationError("server.framework",
			fmt.Sprintf("unknown framework %q", c.Server.Framework)).
			WithSuggestion("use one of: " + strings.Join(Frameworks, ", "))
	}
	if c.Server.Debounce < 0 {
		return errors.ConfigurationError("server.debounce", "debounce must not be negative")
	}
	if c.Server.CacheTTL < 0 {
		return errors.ConfigurationError("server.cache_ttl", "cache ttl must not be negative")
	}
	return nil
}

// BuildOptions turns the build section into registry options
func (c Config) BuildOptions() []registry.Option {
	if len(c.Build.ExternalNamespaces) == 0 {
		return nil
	}
	return []registry.Option{registry.WithExternalNamespaces(c.Build.ExternalNamespaces...)}
}
