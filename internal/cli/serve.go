package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"viewsync/internal/config"
	"viewsync/internal/server"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve preferences and views over HTTP",
		Long: `Serve the preference store and reconciled views over HTTP.

Endpoints:
  GET    /v1/preferences            list stored preferences
  GET    /v1/preferences/:name      read one preference
  PUT    /v1/preferences/:name      store a preference (null clears it)
  DELETE /v1/preferences/:name      delete a preference
  GET    /v1/views                  list known views
  GET    /v1/views/:slug            computed view, query params apply
  PUT    /v1/views/:slug            update a view
  DELETE /v1/views/:slug            reset a view to its default
  GET    /healthz                   liveness
  GET    /metrics                   prometheus metrics

Another viewsync can use this server as its store with backend: http.

Examples:
  viewsync serve
  viewsync serve --addr :9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = a.cfg.ListenAddr
			}
			if a.cfg.Backend == config.BackendHTTP {
				a.logger.Warn("serving a remote backend, every request is proxied", zap.String("remote", a.cfg.RemoteURL))
			}
			if !a.logger.Core().Enabled(zap.DebugLevel) {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.Options{
				Prefs:     a.prefs,
				Catalog:   a.catalog,
				Namespace: a.cfg.Namespace,
				Logger:    a.logger,
			})

			fmt.Fprintln(cmd.OutOrStdout(), a.styles.Info.Render(fmt.Sprintf("Listening on %s", addr)))
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config listen_addr)")
	return cmd
}
