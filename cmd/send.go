package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/babel-tmux/internal/mux"
)

var (
	flagWindow   string
	flagTerminal string
	flagNoTerm   bool
	flagJSON     bool
)

var sendCmd = &cobra.Command{
	Use:   "send <session[:window]> [file]",
	Short: "Type a body of shell text into a tmux window",
	Long: `Make sure the target session and window exist and type the body into
the window, one line at a time.

The body is read from file, or from stdin when file is omitted or "-".
Lines ending in ";" are escaped so tmux does not split them. Empty lines
are dropped.

A terminal emulator is attached when the session had to be created,
unless an alternate socket is used or --no-terminal is given.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.ConfigFile != "" {
			verbosef("config: loaded %s", cfg.ConfigFile)
		}

		body, err := readBody(cmd, args[1:])
		if err != nil {
			return err
		}

		tel := initTelemetry(ctx, cfg)
		if tel != nil {
			defer tel.Shutdown(ctx)
		}

		terminal := flagTerminal
		if flagNoTerm {
			cfg.Terminal = ""
			terminal = ""
		}

		o, err := getOrchestrator(cfg, tel)
		if err != nil {
			return err
		}

		addr := mux.ParseAddress(args[0], cfg.Socket, cfg.SessionPrefix).WithWindow(flagWindow)
		res, err := o.Execute(ctx, addr, body, terminal)
		if flagJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(res); encErr != nil && err == nil {
				err = encErr
			}
		}
		return err
	},
}

// readBody reads the body from the named file, or stdin for none or "-".
func readBody(cmd *cobra.Command, args []string) (string, error) {
	var r io.Reader = cmd.InOrStdin()
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", fmt.Errorf("open body: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(data), nil
}

func init() {
	sendCmd.Flags().StringVarP(&flagWindow, "window", "w", "", "window name, overrides the window in the target")
	sendCmd.Flags().StringVarP(&flagTerminal, "terminal", "t", "", "terminal emulator for new sessions (default from config: gnome-terminal)")
	sendCmd.Flags().BoolVar(&flagNoTerm, "no-terminal", false, "never launch a terminal emulator")
	sendCmd.Flags().BoolVar(&flagJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(sendCmd)
}
