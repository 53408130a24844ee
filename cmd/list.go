package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timvw/babel-tmux/internal/mux"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tmux sessions",
	Long: `List the sessions of the configured tmux server, one per line.

With a session prefix configured, only sessions carrying the prefix are
listed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		t, err := getMultiplexer(cfg)
		if err != nil {
			return err
		}

		sessions := t.Sessions(cmd.Context(), mux.Address{Socket: cfg.Socket})
		for _, s := range mux.FilterPrefix(sessions, cfg.SessionPrefix) {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
