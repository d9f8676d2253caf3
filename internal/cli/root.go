// Package cli implements the mirror command line: loading wire documents,
// reporting build diagnostics, answering queries and serving the HTTP API.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toyz/mirror/internal/errors"
	"github.com/toyz/mirror/internal/utils"
)

var version = "dev"

// app carries the state shared by every command of one invocation
type app struct {
	viper   *viper.Viper
	cfgFile string
	cfg     Config
	diag    *utils.DiagnosticSystem
	loader  *Loader
}

// NewRootCommand builds the command tree. Each call has its own viper
// instance, so independent invocations never share configuration.
func NewRootCommand() *cobra.Command {
	root, _ := newRoot()
	return root
}

// Execute runs the command line with args and returns the process exit code
func Execute(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, out, errOut io.Writer) int {
	root, a := newRoot()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	if out != os.Stdout {
		a.diag.SetOutput(out, errOut)
	}

	if err := root.Execute(); err != nil {
		a.diag.Report(err)
		return 1
	}
	return 0
}

func newRoot() (*cobra.Command, *app) {
	a := &app{
		viper: viper.New(),
		cfg:   Defaults(),
		diag:  utils.NewDiagnosticSystem(utils.DiagnosticInfo),
	}

	root := &cobra.Command{
		Use:   "mirror",
		Short: "Inspect and serve domain metamodels",
		Long: `Mirror loads a domain metamodel from a JSON or YAML wire document,
checks that every type reference resolves, and answers structural queries
such as which aggregates publish an event or which types form a bounded context.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: ./.mirror.yaml or ~/.config/mirror/config.yaml)")
	pf.StringP("document", "d", "", "wire document used when a command is given no path")
	pf.BoolP("verbose", "v", false, "enable verbose output")
	pf.BoolP("quiet", "q", false, "only show errors")
	pf.StringSlice("external", nil, "namespaces whose types are never resolved (e.g. time,java.time)")

	_ = a.viper.BindPFlag("document", pf.Lookup("document"))
	_ = a.viper.BindPFlag("verbose", pf.Lookup("verbose"))
	_ = a.viper.BindPFlag("quiet", pf.Lookup("quiet"))
	_ = a.viper.BindPFlag("build.external_namespaces", pf.Lookup("external"))

	root.AddCommand(
		a.validateCommand(),
		a.describeCommand(),
		a.queryCommand(),
		a.convertCommand(),
		a.serveCommand(),
	)
	return root, a
}

func (a *app) initConfig(cmd *cobra.Command) error {
	v := a.viper

	defaults := Defaults()
	v.SetDefault("document", defaults.Document)
	v.SetDefault("verbose", defaults.Verbose)
	v.SetDefault("quiet", defaults.Quiet)
	v.SetDefault("build.external_namespaces", defaults.Build.ExternalNamespaces)
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.framework", defaults.Server.Framework)
	v.SetDefault("server.cache_ttl", defaults.Server.CacheTTL)
	v.SetDefault("server.watch", defaults.Server.Watch)
	v.SetDefault("server.debounce", defaults.Server.Debounce)

	v.SetEnvPrefix("MIRROR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if a.cfgFile != "" {
		if _, err := os.Stat(a.cfgFile); err != nil {
			return errors.WrapConfigurationError(a.cfgFile, "read", err)
		}
		v.SetConfigFile(a.cfgFile)
	} else {
		// Config lookup order:
		// 1. .mirror.yaml (current directory)
		// 2. ~/.config/mirror/config.yaml (user config)
		if _, err := os.Stat(".mirror.yaml"); err == nil {
			v.SetConfigFile(".mirror.yaml")
		} else {
			home, _ := os.UserHomeDir()
			v.AddConfigPath(filepath.Join(home, ".config", "mirror"))
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.WrapConfigurationError(v.ConfigFileUsed(), "read", err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return errors.WrapConfigurationError("mirror", "decode", err)
	}
	a.cfg = cfg

	a.diag = utils.NewDiagnosticSystem(utils.LevelFromFlags(cfg.Quiet, cfg.Verbose))
	if out := cmd.OutOrStdout(); out != os.Stdout {
		a.diag.SetOutput(out, cmd.ErrOrStderr())
	}
	if used := v.ConfigFileUsed(); used != "" {
		a.diag.Verbose("using config file %s", used)
	}

	a.loader = NewLoader(cfg.BuildOptions()...)
	return nil
}

// document splits the optional leading document path from the remaining
// want arguments, falling back to the configured document
func (a *app) document(args []string, want int) (string, []string, error) {
	if len(args) == want+1 {
		return args[0], args[1:], nil
	}
	if len(args) == want && a.cfg.Document != "" {
		return a.cfg.Document, args, nil
	}
	return "", nil, errors.ConfigurationError("document",
		"no wire document given").
		WithSuggestion("pass the document path or set 'document' in .mirror.yaml")
}
