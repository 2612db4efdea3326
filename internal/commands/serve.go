package commands

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vitalvas/oasgen/config"
	"github.com/vitalvas/oasgen/generator"
	"github.com/vitalvas/oasgen/mux"
	"github.com/vitalvas/oasgen/muxhandlers"
)

const shutdownTimeout = 5 * time.Second

type serveOptions struct {
	sourceOptions

	Listen string
}

func newServeCommand(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the OpenAPI document with interactive docs",
		Long: `Generates the document once, then serves it as JSON and YAML next to
an interactive docs page (serve.ui: swagger, rapidoc or redoc) under
serve.base_path until interrupted.`,
		Example: `  oasgen serve --routes routes.yaml --listen :8081`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, root, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.Listen, "listen", "l", "", "Listen address (default serve.listen)")

	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	s, err := root.session(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	g, err := s.generate(cmd.Context(), root.Profile, opts.sourceOptions)
	if err != nil {
		return err
	}

	addr := s.cfg.Serve.Listen
	if opts.Listen != "" {
		addr = opts.Listen
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           docsRouter(g, s.cfg.Serve, s.log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return listen(cmd.Context(), srv, s.log)
}

// docsRouter mounts the document endpoints behind request ids, panic
// recovery and access logging.
func docsRouter(g *generator.Generator, cfg config.ServeConfig, log zerolog.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(
		muxhandlers.RequestIDMiddleware(),
		muxhandlers.RecoveryMiddleware(log),
		muxhandlers.AccessLogMiddleware(log),
	)

	g.Handle(r, cfg.BasePath, &generator.HandleConfig{UI: generator.ParseDocsUI(cfg.UI)})

	return r
}

// listen serves until ctx is done, then shuts down gracefully.
func listen(ctx context.Context, srv *http.Server, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("serving docs")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
