package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/vitalvas/oasgen/annotations"
	"github.com/vitalvas/oasgen/capture"
	"github.com/vitalvas/oasgen/config"
	"github.com/vitalvas/oasgen/generator"
	"github.com/vitalvas/oasgen/logger"
)

var errNoRoutes = errors.New("a route manifest is required (--routes)")

// sourceOptions are the inputs shared by generate and serve.
type sourceOptions struct {
	RoutesPath string
	SourceDir  string
	NoCapture  bool
}

func (s *sourceOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.RoutesPath, "routes", "r", "", "Route manifest (YAML)")
	cmd.Flags().StringVarP(&s.SourceDir, "source", "s", "", "Go package directory to read handler doc comments from")
	cmd.Flags().BoolVar(&s.NoCapture, "no-capture", false, "Do not call routes for example responses")
}

// session is a loaded configuration with its logger.
type session struct {
	cfg *config.Config
	log zerolog.Logger
}

func (o *rootOptions) session(stderr io.Writer) (*session, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if o.LogLevel != "" {
		level = o.LogLevel
	}

	return &session{
		cfg: cfg,
		log: logger.New(logger.Config{Level: level, Pretty: cfg.Log.Pretty}, stderr),
	}, nil
}

// generate runs the whole synthesis for profile and returns the finished
// generator.
func (s *session) generate(ctx context.Context, profile string, src sourceOptions) (*generator.Generator, error) {
	if src.RoutesPath == "" {
		return nil, errNoRoutes
	}

	p, err := s.cfg.Profile(profile)
	if err != nil {
		return nil, err
	}

	bindings, err := p.Bindings()
	if err != nil {
		return nil, err
	}

	manifest, err := generator.LoadManifest(src.RoutesPath)
	if err != nil {
		return nil, err
	}

	var index *annotations.Index
	if src.SourceDir != "" {
		if index, err = annotations.ScanDir(src.SourceDir); err != nil {
			return nil, err
		}
	}

	reg := generator.NewRegistry(index)
	manifest.Register(reg)

	capturer, err := s.capturer(p, src.NoCapture)
	if err != nil {
		return nil, err
	}

	g := generator.New(generator.Config{
		Logger:             s.log,
		Describer:          reg,
		Capturer:           capturer,
		StrictOperationIDs: s.cfg.StrictOperationIDs,
		ContinueOnError:    s.cfg.ContinueOnError,
	})

	if err := g.ApplyBindings(bindings); err != nil {
		return nil, err
	}

	routes := generator.FilterPrefix(manifest.Routes(), s.cfg.RoutesPrefix)
	s.log.Info().
		Int("routes", len(routes)).
		Str("prefix", s.cfg.RoutesPrefix).
		Bool("capture", capturer != nil).
		Msg("generating document")

	if err := g.ProcessRoutes(ctx, routes); err != nil {
		return nil, err
	}

	return g, nil
}

// capturer returns nil when capture is off. A manifest describes routes of
// another process, so only the http router kind can call them.
func (s *session) capturer(p *config.Profile, disabled bool) (*capture.Capturer, error) {
	if disabled || !s.cfg.Capture.Enabled {
		return nil, nil
	}

	if s.cfg.Router != capture.KindHTTP {
		s.log.Info().
			Str("router", s.cfg.Router).
			Msg("example capture needs the http router kind from the command line, skipping")
		return nil, nil
	}

	opts := s.cfg.CaptureOptions()
	opts.Logger = s.log

	router, err := capture.New(capture.KindHTTP, nil, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create capture router: %w", err)
	}

	return capture.NewCapturer(router, p.APICallsBindings, s.log), nil
}
