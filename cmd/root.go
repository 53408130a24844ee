package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/timvw/babel-tmux/internal/config"
	"github.com/timvw/babel-tmux/internal/mux"
	"github.com/timvw/babel-tmux/internal/orchestrator"
	telem "github.com/timvw/babel-tmux/internal/otel"
)

var (
	// Global flags.
	flagMux           string
	flagTmux          string
	flagPrefix        string
	flagDefaultWindow string
	flagSocket        string
	flagReadyTimeout  string
	flagVerbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "babel-tmux",
	Short: "Send blocks of shell text into a live tmux window",
	Long: `babel-tmux types blocks of shell text into a persistent tmux window
so that execution can be watched and taken over interactively.

A target is given as "session[:window]". Missing sessions and windows are
created on demand, a terminal is attached to newly created sessions, and
the body is typed line by line exactly as if entered at the keyboard.

Configuration is loaded from .babel-tmux.yaml, ~/.config/babel-tmux/config.yaml
and BABEL_TMUX_* environment variables; flags override both.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagMux, "mux", envOrDefault("BABEL_TMUX_MUX", "tmux"), "terminal multiplexer (supported: tmux)")
	rootCmd.PersistentFlags().StringVar(&flagTmux, "tmux", "", "tmux executable (default: tmux on PATH)")
	rootCmd.PersistentFlags().StringVar(&flagPrefix, "prefix", "", "prefix prepended to every session name")
	rootCmd.PersistentFlags().StringVar(&flagDefaultWindow, "default-window", "", "name of the first window of new sessions (default: main)")
	rootCmd.PersistentFlags().StringVarP(&flagSocket, "socket", "S", "", "alternate tmux server socket")
	rootCmd.PersistentFlags().StringVar(&flagReadyTimeout, "ready-timeout", "", "how long to wait for a window to appear; 0 waits forever (default: 10s)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "report the loaded config file and other details on stderr")
}

// loadConfig loads the layered configuration and applies global flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("tmux") {
		cfg.TmuxPath = flagTmux
	}
	if flags.Changed("prefix") {
		cfg.SessionPrefix = flagPrefix
	}
	if flags.Changed("default-window") {
		cfg.DefaultWindow = flagDefaultWindow
	}
	if flags.Changed("socket") {
		cfg.Socket = flagSocket
	}
	if flags.Changed("ready-timeout") {
		cfg.ReadyTimeout = flagReadyTimeout
	}
	if err := cfg.Resolve(); err != nil {
		return config.Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// getMultiplexer resolves the tmux executable and returns a client for it.
func getMultiplexer(cfg config.Config) (*mux.Tmux, error) {
	path, err := mux.Detect(cfg.TmuxPath)
	if err != nil {
		return nil, err
	}
	runner := &mux.ExecRunner{
		OnExit: func(c mux.Command, err error) {
			warnf("%s exited: %v", c, err)
		},
	}
	return mux.FromName(flagMux, path, runner)
}

// getOrchestrator wires a tmux client, its metrics and the configured
// options into an Orchestrator.
func getOrchestrator(cfg config.Config, tel *telem.Telemetry) (*orchestrator.Orchestrator, error) {
	t, err := getMultiplexer(cfg)
	if err != nil {
		return nil, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		warnf("could not resolve home directory: %v", err)
		home = "/"
	}

	o := orchestrator.New(t, t, orchestrator.Options{
		DefaultWindow: cfg.DefaultWindow,
		Home:          home,
		Terminal:      cfg.Terminal,
		ReadyTimeout:  cfg.ReadyTimeoutDuration,
		ReadyInterval: cfg.ReadyIntervalDuration,
	})
	o.Warnf = warnf
	if tel != nil {
		o.Metrics = tel.Metrics
		o.Tracer = tel.Tracer
		t.OnQuery = tel.Metrics.RecordQuery
	}
	return o, nil
}

// initTelemetry starts OTEL. Failures degrade to no telemetry.
func initTelemetry(ctx context.Context, cfg config.Config) *telem.Telemetry {
	telem.Version = Version
	tel, err := telem.Init(ctx, telem.OTELConfig{
		Endpoint: cfg.OTELEndpoint,
		Headers:  cfg.OTELHeaders,
	})
	if err != nil {
		warnf("otel init failed: %v", err)
		return nil
	}
	return tel
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
