package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/toyz/mirror/internal/errors"
	"github.com/toyz/mirror/internal/registry"
	"github.com/toyz/mirror/internal/utils"
	"github.com/toyz/mirror/pkg/mirror"
	"github.com/toyz/mirror/pkg/mirror/adapters"
)

const shutdownTimeout = 10 * time.Second

// NewWebServer returns the adapter for a framework name
func NewWebServer(framework string) (mirror.WebServer, error) {
	switch strings.ToLower(framework) {
	case "echo":
		return adapters.NewDefaultEchoAdapter(), nil
	case "gin":
		return adapters.NewDefaultGinAdapter(), nil
	case "fiber":
		return adapters.NewDefaultFiberAdapter(), nil
	default:
		return nil, errors.ConfigurationError("server.framework", fmt.Sprintf("unknown framework %q", framework)).
			WithSuggestion("use one of: " + strings.Join(Frameworks, ", "))
	}
}

func (a *app) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [document]",
		Short: "Serve read-only queries over HTTP",
		Long: `Serve read-only queries over HTTP.

With --watch the document is rebuilt whenever it changes. A rebuild that
fails keeps the previous model and logs every diagnostic.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _, err := a.document(args, 0)
			if err != nil {
				return err
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, path)
		},
	}

	f := cmd.Flags()
	f.String("addr", "", "listen address (default :8080)")
	f.String("framework", "", "web framework: "+strings.Join(Frameworks, ", "))
	f.Duration("cache-ttl", 0, "how long rendered responses are cached, 0 disables")
	f.Bool("watch", false, "rebuild the model when the document changes")
	f.Duration("debounce", 0, "quiet period before a change triggers a rebuild")

	_ = a.viper.BindPFlag("server.addr", f.Lookup("addr"))
	_ = a.viper.BindPFlag("server.framework", f.Lookup("framework"))
	_ = a.viper.BindPFlag("server.cache_ttl", f.Lookup("cache-ttl"))
	_ = a.viper.BindPFlag("server.watch", f.Lookup("watch"))
	_ = a.viper.BindPFlag("server.debounce", f.Lookup("debounce"))

	return cmd
}

func (a *app) serve(ctx context.Context, path string) error {
	model, err := a.loader.Load(path)
	if err != nil {
		return err
	}
	holder := registry.NewHolder(model)

	server, err := NewWebServer(a.cfg.Server.Framework)
	if err != nil {
		return err
	}
	mirror.NewAPI(holder,
		mirror.WithCacheTTL(a.cfg.Server.CacheTTL),
		mirror.WithDiagnostics(a.diag),
	).Register(server)

	if a.cfg.Server.Watch {
		watcher, err := NewWatcher(path, a.cfg.Server.Debounce)
		if err != nil {
			return errors.WrapFileSystemError("watch", path, err)
		}
		changes, err := watcher.Start()
		if err != nil {
			return errors.WrapFileSystemError("watch", path, err)
		}
		defer func() { _ = watcher.Stop() }()

		go reloadLoop(ctx, changes, watcher.Errors(), holder, func() (*registry.DomainModel, error) {
			return a.loader.Load(path)
		}, a.diag)
		a.diag.Info("watching %s", path)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(a.cfg.Server.Addr)
	}()
	a.diag.Success("serving %d types from %s on %s (%s)", model.Len(), path, a.cfg.Server.Addr, server.Name())

	select {
	case err := <-errCh:
		if err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.WrapWithOperation("serve", a.cfg.Server.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	a.diag.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Stop(shutdownCtx)
}

// reloadLoop rebuilds the model on every change notification. A failed
// build leaves the current model in place.
func reloadLoop(ctx context.Context, changes <-chan struct{}, watchErrors <-chan error, holder *registry.Holder, build func() (*registry.DomainModel, error), diag *utils.DiagnosticSystem) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-watchErrors:
			diag.Warn("watch error: %v", err)
		case _, ok := <-changes:
			if !ok {
				return
			}
			before := holder.Current().Fingerprint()
			current, err := holder.Rebuild(build)
			if err != nil {
				diag.Warn("reload failed, keeping the previous model")
				diag.Report(err)
				continue
			}
			if current.Fingerprint() == before {
				diag.Verbose("document changed but the model did not")
				continue
			}
			diag.Success("reloaded model: %d types, fingerprint %s", current.Len(), current.Fingerprint())
		}
	}
}
