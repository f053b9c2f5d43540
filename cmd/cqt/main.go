// Package main is the entry point for claude-quota-tui. It estimates the
// Claude Code session quota from the local CLI logs and shows it as a
// terminal dashboard or a one-shot status line.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j-veylop/claude-quota-tui/internal/app"
	"github.com/j-veylop/claude-quota-tui/internal/config"
	"github.com/j-veylop/claude-quota-tui/internal/logger"
	"github.com/j-veylop/claude-quota-tui/internal/services"
	"github.com/j-veylop/claude-quota-tui/internal/ui/statusline"
	"github.com/j-veylop/claude-quota-tui/internal/ui/styles"
	"github.com/j-veylop/claude-quota-tui/internal/version"
)

type rootOptions struct {
	theme   string
	compact bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "cqt",
		Short: "Estimate the remaining Claude Code session quota from local logs.",
		Long: `cqt reads the Claude Code CLI logs under ~/.claude and estimates how much
of the rolling session quota is left, when it resets and which model is active.
All figures are local estimates; nothing is sent over the network.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(cmd.OutOrStdout()) {
				return runStatusLine(cmd)
			}
			return runDashboard(cmd, opts)
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	root.PersistentFlags().StringVar(&opts.theme, "theme", styles.Dark.Name, "color theme (dark or light)")
	root.PersistentFlags().BoolVar(&opts.compact, "compact", false, "use the compact layout")

	root.AddCommand(newStatusCommand(opts), newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		},
	}
}

// loadConfig loads the configuration and routes logs to the configured file.
// The returned cleanup closes the log file.
func loadConfig() (*config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logFile, err := logger.OpenFile(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		// The terminal belongs to the UI, so a broken log file means no logs.
		logger.Discard()
		return cfg, func() {}, nil
	}
	return cfg, func() {
		if closeErr := logFile.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing log file: %v\n", closeErr)
		}
	}, nil
}

// runStatusLine prints the configured status line, for callers that pipe the
// root command instead of attaching a terminal.
func runStatusLine(cmd *cobra.Command) error {
	cfg, cleanup, err := loadConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	snap := services.NewQuotaService(cfg).Snapshot()
	_, err = fmt.Fprintln(cmd.OutOrStdout(), statusline.Text(snap.Primary(), statusline.ParseFormat(cfg.StatusFormat)))
	return err
}

func runDashboard(cmd *cobra.Command, opts *rootOptions) error {
	cfg, cleanup, err := loadConfig()
	if err != nil {
		return err
	}
	defer cleanup()

	logger.Info("Starting", "version", version.GetVersion(), "claude_dir", cfg.ClaudeDir)

	mgr, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := mgr.Close(); closeErr != nil {
			logger.Warn("Error closing services", "error", closeErr)
		}
	}()

	model := app.NewModel(mgr, app.Options{
		Theme:        styles.ThemeByName(opts.theme),
		Compact:      opts.compact,
		StatusFormat: statusline.ParseFormat(cfg.StatusFormat),
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		if _, ok := <-sigChan; ok {
			p.Send(tea.Quit())
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
