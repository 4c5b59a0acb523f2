package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/statusline-go/internal/app"
	"github.com/doeshing/statusline-go/internal/domain"
	"github.com/doeshing/statusline-go/internal/infrastructure/site"
)

// NewSiteCommand creates the site command. Without arguments it shows which
// site would be queried now; with a name it writes the toggle file.
func NewSiteCommand(lazy *app.Lazy) *cobra.Command {
	return &cobra.Command{
		Use:   "site [name|auto]",
		Short: "Show or pin the weather site",
		Long:  "Show the site the status line queries and why. Pass a site name to pin it, or \"auto\" to return to the work schedule.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := lazy.Get(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 1 {
				if err := pinSite(container.Config, args[0]); err != nil {
					return err
				}
			}
			return showSite(cmd.OutOrStdout(), container, time.Now())
		},
	}
}

// pinSite writes (or, for "auto", removes) the toggle file.
func pinSite(cfg domain.Config, name string) error {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, SiteAuto) {
		return site.WriteToggle(cfg.Schedule.ToggleFile, "")
	}
	s, ok := cfg.FindSite(name)
	if !ok {
		return fmt.Errorf("unknown site %q (known: %s)", name, strings.Join(cfg.SiteNames(), ", "))
	}
	return site.WriteToggle(cfg.Schedule.ToggleFile, s.Name)
}

// showSite prints the current resolution and its inputs.
func showSite(out io.Writer, container *app.Container, now time.Time) error {
	if container.Resolver == nil {
		return errors.New("site resolver unavailable; check the schedule and sites configuration")
	}
	cfg := container.Config
	toggle := site.ReadToggle(cfg.Schedule.ToggleFile)
	decision := container.Resolver.Resolve(domain.SiteInput{
		Override: cfg.Schedule.Override,
		Toggle:   toggle,
		Now:      now,
	})

	fmt.Fprintf(out, "Site: %s (%s)\n", decision.Site.Name, decision.Site.DisplayName())
	fmt.Fprintf(out, "Location: %s\n", decision.Site.Location())
	fmt.Fprintf(out, "Reason: %s\n", decision.Reason)
	if cfg.Schedule.Override != "" {
		fmt.Fprintf(out, "Override: %s\n", cfg.Schedule.Override)
	}
	if toggle != "" {
		fmt.Fprintf(out, "Toggle: %s (%s)\n", toggle, cfg.Schedule.ToggleFile)
	} else {
		fmt.Fprintf(out, "Toggle: none (%s)\n", cfg.Schedule.ToggleFile)
	}
	fmt.Fprintf(out, "Schedule: days %s, %02d:00-%02d:00 %s\n",
		cfg.Schedule.WorkDays, cfg.Schedule.WorkStart, cfg.Schedule.WorkEnd, cfg.Schedule.Timezone)
	return nil
}
