package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	// ConfigPath points to an optional YAML file; CONFIG_PATH is used when empty.
	ConfigPath string
}

// NewRootCommand creates the ebookbot command tree. Running it without a
// subcommand serves the bot.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	serve := NewServeCommand(opts)
	cmd := &cobra.Command{
		Use:           "ebookbot",
		Short:         "Telegram bot collecting ebook access requests",
		Long:          "Collects a payment screenshot, TXID and desired credentials from users and forwards them to an admin chat for approval.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config (default $CONFIG_PATH)")

	cmd.AddCommand(serve)
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
