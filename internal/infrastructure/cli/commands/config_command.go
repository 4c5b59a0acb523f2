package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/statusline-go/internal/app"
	configapp "github.com/doeshing/statusline-go/internal/application/config"
	"github.com/doeshing/statusline-go/internal/infrastructure/cli/helpers"
	configinfra "github.com/doeshing/statusline-go/internal/infrastructure/config"
)

const envKeyEditor = "EDITOR"

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(lazy *app.Lazy) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect statusline configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.Context(), cmd.OutOrStdout(), lazy)
		},
	}

	configCmd.AddCommand(
		newConfigShowCommand(lazy),
		newConfigGetCommand(lazy),
		newConfigSetCommand(lazy),
		newConfigEditCommand(lazy),
		newConfigValidateCommand(lazy),
		newConfigResetCommand(lazy),
		newConfigDiffCommand(lazy),
	)

	return configCmd
}

// newConfigShowCommand creates the 'config show' subcommand
func newConfigShowCommand(lazy *app.Lazy) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.Context(), cmd.OutOrStdout(), lazy)
		},
	}
}

// newConfigGetCommand creates the 'config get' subcommand
func newConfigGetCommand(lazy *app.Lazy) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a specific configuration value",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				key = args[0]
			}
			if key == "" {
				return errors.New(ErrKeyRequired)
			}
			return getConfigurationValue(cmd.Context(), cmd.OutOrStdout(), lazy, key)
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Key path (e.g., schedule.work_site)")
	return cmd
}

// newConfigSetCommand creates the 'config set' subcommand
func newConfigSetCommand(lazy *app.Lazy) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value (value accepts YAML syntax)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			value := strings.Join(args[1:], " ")
			return setConfigurationValue(cmd.Context(), cmd.OutOrStdout(), lazy, key, value)
		},
	}
}

// newConfigEditCommand creates the 'config edit' subcommand
func newConfigEditCommand(lazy *app.Lazy) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit configuration in $EDITOR",
		RunE: func(cmd *cobra.Command, args []string) error {
			return editConfigurationInEditor(cmd, lazy)
		},
	}
}

// newConfigValidateCommand creates the 'config validate' subcommand
func newConfigValidateCommand(lazy *app.Lazy) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := configLoader(cmd.Context(), lazy)
			if err != nil {
				return err
			}
			cfg, err := loader.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			if err := configapp.Validate(cfg); err != nil {
				return fmt.Errorf("configuration validation failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgConfigurationValid)
			return nil
		},
	}
}

// newConfigResetCommand creates the 'config reset' subcommand
func newConfigResetCommand(lazy *app.Lazy) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !helpers.ConfirmAction(cmd.InOrStdin(), cmd.OutOrStdout(), "Overwrite the configuration file with defaults?", assumeYes) {
				fmt.Fprintln(cmd.OutOrStdout(), MsgAborted)
				return nil
			}
			return resetConfigurationToDefaults(cmd.Context(), cmd.OutOrStdout(), lazy)
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// newConfigDiffCommand creates the 'config diff' subcommand
func newConfigDiffCommand(lazy *app.Lazy) *cobra.Command {
	return &cobra.Command{
		Use:   "diff",
		Short: "Show diff of the config file versus defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigurationDiff(cmd.Context(), cmd.OutOrStdout(), lazy)
		},
	}
}

func configLoader(ctx context.Context, lazy *app.Lazy) (*configinfra.FileLoader, error) {
	container, err := lazy.Get(ctx)
	if err != nil {
		return nil, err
	}
	return helpers.GetConfigLoader(container)
}

// showConfiguration displays the effective configuration in YAML format
func showConfiguration(ctx context.Context, out io.Writer, lazy *app.Lazy) error {
	loader, err := configLoader(ctx, lazy)
	if err != nil {
		return err
	}

	cfg, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	fmt.Fprintf(out, "# %s\n", loader.Path())
	fmt.Fprint(out, string(data))
	return nil
}

// getConfigurationValue retrieves a specific configuration value by key path
func getConfigurationValue(ctx context.Context, out io.Writer, lazy *app.Lazy, keyPath string) error {
	loader, err := configLoader(ctx, lazy)
	if err != nil {
		return err
	}

	cfg, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cfgMap, err := helpers.ConfigToMap(cfg)
	if err != nil {
		return err
	}

	value, found := helpers.TraverseNestedMap(cfgMap, strings.Split(keyPath, "."))
	if !found {
		return fmt.Errorf("key %s not found in configuration", keyPath)
	}

	data, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	fmt.Fprint(out, string(data))
	return nil
}

// setConfigurationValue updates a configuration value by key path.
// Environment overrides are not written back to the file.
func setConfigurationValue(ctx context.Context, out io.Writer, lazy *app.Lazy, keyPath string, value string) error {
	loader, err := configLoader(ctx, lazy)
	if err != nil {
		return err
	}

	cfg, err := loader.LoadFile(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	updated, err := helpers.SetConfigValue(cfg, strings.Split(keyPath, "."), value)
	if err != nil {
		return err
	}

	if err := helpers.SaveConfigWithValidation(loader, updated); err != nil {
		return err
	}

	fmt.Fprintf(out, "Set %s in %s\n", keyPath, loader.Path())
	return nil
}

// editConfigurationInEditor opens the configuration file in the user's editor
func editConfigurationInEditor(cmd *cobra.Command, lazy *app.Lazy) error {
	loader, err := configLoader(cmd.Context(), lazy)
	if err != nil {
		return err
	}

	if !loader.Exists() {
		cfg, err := loader.LoadFile(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := loader.Save(cfg); err != nil {
			return fmt.Errorf("failed to create configuration: %w", err)
		}
	}

	editorCommand := getEditorCommand()
	editor := exec.CommandContext(cmd.Context(), editorCommand, loader.Path())
	editor.Stdin = cmd.InOrStdin()
	editor.Stdout = cmd.OutOrStdout()
	editor.Stderr = cmd.ErrOrStderr()

	if err := editor.Run(); err != nil {
		return fmt.Errorf("failed to run editor %s: %w", editorCommand, err)
	}

	cfg, err := loader.Load(cmd.Context())
	if err == nil {
		err = configapp.Validate(cfg)
	}
	if err != nil {
		helpers.PrintWarnings(cmd.ErrOrStderr(), []string{fmt.Sprintf("edited configuration is invalid: %v", err)})
	}
	return nil
}

// resetConfigurationToDefaults resets the configuration to default values
func resetConfigurationToDefaults(ctx context.Context, out io.Writer, lazy *app.Lazy) error {
	loader, err := configLoader(ctx, lazy)
	if err != nil {
		return err
	}

	if loader.Exists() {
		if backup, err := loader.Backup(); err == nil {
			fmt.Fprintf(out, "Previous configuration saved to %s\n", backup)
		}
	}

	if _, err := loader.Reset(); err != nil {
		return fmt.Errorf("failed to reset configuration: %w", err)
	}

	fmt.Fprintf(out, "Configuration reset at %s\n", loader.Path())
	return nil
}

// showConfigurationDiff shows what the config file changes relative to defaults
func showConfigurationDiff(ctx context.Context, out io.Writer, lazy *app.Lazy) error {
	loader, err := configLoader(ctx, lazy)
	if err != nil {
		return err
	}

	currentConfig, err := loader.LoadFile(ctx)
	if err != nil {
		return fmt.Errorf("failed to load current configuration: %w", err)
	}

	diff := cmp.Diff(configinfra.DefaultConfig(), currentConfig)
	if diff == "" {
		fmt.Fprintln(out, MsgNoDifferencesFromDefault)
		return nil
	}

	fmt.Fprintln(out, diff)
	return nil
}

// getEditorCommand retrieves the editor command from environment or returns default
func getEditorCommand() string {
	if editor := os.Getenv(envKeyEditor); editor != "" {
		return editor
	}
	return DefaultEditorCommand
}
