package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/timvw/babel-tmux/internal/mux"
)

// status is the JSON shape printed by the status command.
type status struct {
	mux.Address
	Target        string `json:"target"`
	SessionExists bool   `json:"session_exists"`
	WindowExists  bool   `json:"window_exists"`
}

var statusCmd = &cobra.Command{
	Use:   "status <session[:window]>",
	Short: "Report whether a session and window exist",
	Long: `Report whether the target session and window exist, as JSON.

When no window is named, the window is reported as existing whenever the
session does: the first window of a session always exists.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		t, err := getMultiplexer(cfg)
		if err != nil {
			return err
		}

		addr := mux.ParseAddress(args[0], cfg.Socket, cfg.SessionPrefix).WithWindow(flagStatusWindow)
		st := status{
			Address:       addr,
			Target:        addr.Target(),
			SessionExists: t.SessionAlive(ctx, addr),
		}
		st.WindowExists = st.SessionExists && t.WindowAlive(ctx, addr)

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	},
}

var flagStatusWindow string

func init() {
	statusCmd.Flags().StringVarP(&flagStatusWindow, "window", "w", "", "window name, overrides the window in the target")
	rootCmd.AddCommand(statusCmd)
}
