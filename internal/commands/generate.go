package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vitalvas/oasgen/generator"
)

// generateOptions holds the flags of the generate command.
type generateOptions struct {
	sourceOptions

	OutputFile string
	Format     string
	Compact    bool
}

func newGenerateCommand(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the OpenAPI document",
		Long: `Reads the route manifest, the handler doc comments and the selected
bindings profile, then writes the OpenAPI document.`,
		Example: `  # Write JSON to stdout
  oasgen generate --routes routes.yaml

  # Read doc comments from the handlers package and write YAML
  oasgen generate -r routes.yaml -s ./internal/handlers -o openapi.yaml -f yaml

  # Use the staging bindings
  oasgen generate -r routes.yaml --profile staging`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, root, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.OutputFile, "output", "o", "", "Output file, \"-\" for stdout (default output.path)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format json|yaml (default output.format)")
	cmd.Flags().BoolVar(&opts.Compact, "compact", false, "Write JSON without indentation")

	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions) error {
	s, err := root.session(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	format := s.cfg.Output.Format
	if opts.Format != "" {
		format = opts.Format
	}
	if format != "json" && format != "yaml" {
		return fmt.Errorf("unsupported format: %s (supported: json, yaml)", format)
	}

	output := s.cfg.Output.Path
	if opts.OutputFile != "" {
		output = opts.OutputFile
	}

	g, err := s.generate(cmd.Context(), root.Profile, opts.sourceOptions)
	if err != nil {
		return err
	}

	if output == "" || output == "-" {
		return write(g, cmd.OutOrStdout(), format, s.cfg.Output.Indent && !opts.Compact)
	}

	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := write(g, f, format, s.cfg.Output.Indent && !opts.Compact); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	s.log.Info().Str("path", output).Str("format", format).Msg("document written")

	return nil
}

func write(g *generator.Generator, w io.Writer, format string, indent bool) error {
	if format == "yaml" {
		return g.WriteYAML(w)
	}
	return g.WriteJSON(w, indent)
}
