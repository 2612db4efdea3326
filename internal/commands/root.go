// Package commands implements the oasgen command line.
package commands

import (
	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	ConfigPath string
	Profile    string
	LogLevel   string
}

// NewRootCommand returns the oasgen command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "oasgen",
		Short: "Generate OpenAPI documents from route tables",
		Long: `Synthesizes an OpenAPI 3.0 document from an application's route table,
its handler doc comments, its validation rules and, optionally, example
responses captured by calling the running application.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "oasgen.yaml", "Configuration file")
	flags.StringVarP(&opts.Profile, "profile", "p", "", "Bindings profile (default \"default\")")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level, overrides log.level")

	cmd.AddCommand(
		newGenerateCommand(opts),
		newServeCommand(opts),
		newVersionCommand(version),
	)

	return cmd
}
