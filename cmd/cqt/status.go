package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/j-veylop/claude-quota-tui/internal/models"
	"github.com/j-veylop/claude-quota-tui/internal/services"
	"github.com/j-veylop/claude-quota-tui/internal/ui/dashboard"
	"github.com/j-veylop/claude-quota-tui/internal/ui/statusline"
	"github.com/j-veylop/claude-quota-tui/internal/ui/styles"
)

type statusOptions struct {
	format  string
	width   int
	json    bool
	tooltip bool
	render  bool
}

func newStatusCommand(root *rootOptions) *cobra.Command {
	opts := &statusOptions{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the current quota estimate once and exit",
		Long: `Print the current quota estimate once and exit.

By default a single status line is printed, suitable for shell prompts and
tmux status bars. --json prints the cached stats together with the computed
quota groups.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, cleanup, err := loadConfig()
			if err != nil {
				return err
			}
			defer cleanup()

			if !cmd.Flags().Changed("format") {
				opts.format = cfg.StatusFormat
			}

			snap := services.NewQuotaService(cfg).Snapshot()
			return writeStatus(cmd.OutOrStdout(), snap, root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", string(statusline.DefaultFormat),
		fmt.Sprintf("status line format %v", statusline.Formats()))
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the stats and quota groups as JSON")
	cmd.Flags().BoolVar(&opts.tooltip, "tooltip", false, "print the detailed multi-line summary")
	cmd.Flags().BoolVar(&opts.render, "render", false, "print the dashboard once")
	cmd.Flags().IntVarP(&opts.width, "width", "w", 60, "dashboard width for --render")
	cmd.MarkFlagsMutuallyExclusive("json", "tooltip", "render")

	return cmd
}

func writeStatus(w io.Writer, snap models.QuotaSnapshot, root *rootOptions, opts *statusOptions) error {
	switch {
	case opts.json:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap); err != nil {
			return fmt.Errorf("failed to encode status: %w", err)
		}
		return nil

	case opts.tooltip:
		_, err := fmt.Fprintln(w, statusline.Tooltip(snap.Primary()))
		return err

	case opts.render:
		out := dashboard.Render(snap, dashboard.Options{
			Theme:   styles.ThemeByName(root.theme),
			Compact: root.compact,
			Width:   opts.width,
		})
		if !useColor(w) {
			out = ansi.Strip(out)
		}
		_, err := fmt.Fprintln(w, out)
		return err

	default:
		_, err := fmt.Fprintln(w, statusline.Text(snap.Primary(), statusline.ParseFormat(opts.format)))
		return err
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func useColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(w)
}
