package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hawkeyecrm/hawkeye/internal/config"
	"github.com/hawkeyecrm/hawkeye/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.`,
		Example: `  hawkeye config
  hawkeye config set api.base_url https://crm.example.com
  hawkeye config get calendar.interval_minutes`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runConfigInteractive()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current configuration",
		RunE: func(_ *cobra.Command, _ []string) error {
			a.printConfig()
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Fprintln(a.out, a.savePath())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			v, err := a.config.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, v)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting and save",
		Long: `Change one setting and save the config file.

Keys:
  ` + strings.Join(config.Keys(), "\n  "),
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := a.config.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := a.config.SaveTo(a.savePath()); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			fmt.Fprintf(a.out, "%s = %s\n", args[0], args[1])
			return nil
		},
	})

	return cmd
}

func (a *App) runConfigInteractive() error {
	path := a.savePath()
	fmt.Fprintf(a.out, "Config file: %s\n\n", path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(a.out, "No config file found. Creating with current values...")
		if err := a.config.SaveTo(path); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(a.out, "Created %s\n\n", path)
	}

	a.printConfig()

	reader := bufio.NewReader(a.in)
	if !a.promptYesNo(reader, "\nWould you like to edit the configuration?") {
		return nil
	}

	for _, key := range config.Keys() {
		current, _ := a.config.Get(key)
		label := key
		if key == "ui.theme" {
			label = fmt.Sprintf("%s (%s)", key, strings.Join(theme.Available(), ", "))
		}
		for {
			value := a.promptValue(reader, label, current)
			if value == current {
				break
			}
			err := a.config.Set(key, value)
			if err == nil {
				break
			}
			fmt.Fprintf(a.out, "  %s\n", formatWarn(err.Error()))
		}
	}

	if err := a.config.SaveTo(path); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(a.out, "\nConfiguration saved!")
	return nil
}

func (a *App) printConfig() {
	fmt.Fprintln(a.out, "Current configuration:")
	fmt.Fprintln(a.out, "──────────────────────")

	section := ""
	for _, key := range config.Keys() {
		sec, name, _ := strings.Cut(key, ".")
		if sec != section {
			if section != "" {
				fmt.Fprintln(a.out)
			}
			fmt.Fprintf(a.out, "[%s]\n", sec)
			section = sec
		}
		v, _ := a.config.Get(key)
		fmt.Fprintf(a.out, "  %-24s = %s\n", name, v)
	}
}

func (a *App) promptYesNo(reader *bufio.Reader, question string) bool {
	fmt.Fprintf(a.out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func (a *App) promptValue(reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Fprintf(a.out, "  %s: ", label)
	} else {
		fmt.Fprintf(a.out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}
