package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/anchorpop/internal/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "List and inspect popup themes",
}

var themeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bundled and user themes",
	Args:  cobra.NoArgs,
	RunE:  runThemeList,
}

var themeShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Print a resolved theme as YAML",
	Long: `Print a theme with everything it extends merged in.

Without a name the configured theme is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runThemeShow,
}

func init() {
	rootCmd.AddCommand(themeCmd)
	themeCmd.AddCommand(themeListCmd, themeShowCmd)
}

func runThemeList(cmd *cobra.Command, args []string) error {
	loader := loadThemes(getConfig())
	current := loader.CurrentTheme()

	for _, name := range loader.ListThemes() {
		marker := " "
		if name == current {
			marker = "*"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %-16s %s\n", marker, name, themeSource(name))
	}
	return nil
}

func runThemeShow(cmd *cobra.Command, args []string) error {
	loader := loadThemes(getConfig())
	if len(args) == 1 {
		if err := loader.LoadTheme(args[0]); err != nil {
			return fmt.Errorf("failed to load theme %q: %w", args[0], err)
		}
		if loader.CurrentTheme() != args[0] {
			return fmt.Errorf("theme not found: %s", args[0])
		}
	}

	data, err := loader.Current().Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal theme: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// themeSource describes where a theme comes from. User themes shadow bundled
// ones of the same name.
func themeSource(name string) string {
	dir, err := theme.ThemesDir()
	if err == nil {
		if info, err := os.Stat(filepath.Join(dir, name+".yaml")); err == nil {
			return "user, modified " + humanize.Time(info.ModTime())
		}
	}
	if theme.IsEmbeddedTheme(name) {
		return "bundled"
	}
	return "user"
}
