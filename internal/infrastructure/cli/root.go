package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/statusline-go/internal/app"
	"github.com/doeshing/statusline-go/internal/infrastructure/cli/commands"
	"github.com/doeshing/statusline-go/internal/infrastructure/session"
	"github.com/doeshing/statusline-go/internal/version"
)

// NewRootCmd wires the cobra root command. Without a subcommand it reads the
// session JSON from stdin and prints one status line.
func NewRootCmd(ctx context.Context) (*cobra.Command, *app.Lazy) {
	opts := &app.Options{}
	lazy := app.NewLazy(opts)

	root := &cobra.Command{
		Use:     "statusline",
		Short:   "Status line for Claude Code with weather, git and session activity",
		Long:    "statusline reads the session JSON Claude Code writes to stdin and prints a single status line.",
		Version: version.Version,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printStatus(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), lazy)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetContext(ctx)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "Config file (default ~/.claude/statusline.yaml)")
	flags.BoolVar(&opts.Debug, "debug", false, "Log at DEBUG level")
	flags.BoolVar(&opts.NoColor, "no-color", false, "Disable ANSI colors")

	root.AddCommand(
		commands.NewSiteCommand(lazy),
		commands.NewCacheCommand(lazy),
		commands.NewTokenCommand(lazy),
		commands.NewDoctorCommand(lazy),
		commands.NewHistoryCommand(lazy),
		commands.NewConfigCommand(lazy),
		commands.NewVersionCommand(),
	)
	return root, lazy
}

// printStatus always writes exactly one line, falling back to the minimal
// form when anything goes wrong.
func printStatus(ctx context.Context, in io.Reader, out io.Writer, lazy *app.Lazy) {
	input, parseErr := session.Parse(in)
	line := ""
	defer func() {
		if r := recover(); r != nil {
			line = MinimalLine(input, time.Now())
		}
		fmt.Fprintln(out, line)
	}()

	line = MinimalLine(input, time.Now())
	c, err := lazy.Get(ctx)
	if err != nil {
		return
	}
	if parseErr != nil {
		c.Logger.Warn("session input rejected", map[string]interface{}{"error": parseErr.Error()})
	}

	status, err := c.StatuslineService.Run(ctx, input)
	if err != nil {
		c.Logger.Error("status assembly failed", err, nil)
		return
	}
	line = NewRenderer(c.Config).Render(status)
	c.Logger.Debug("status rendered", map[string]interface{}{"trend": string(status.Trend), "weather": status.Weather != nil})
}

// Execute runs the root command and reports whether the process should exit
// non-zero.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root, lazy := NewRootCmd(ctx)
	defer lazy.Close()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}
