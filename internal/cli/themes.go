package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/notate/pkg/document"
)

// themesCommand creates the themes command for inspecting themes.
func (c *CLI) themesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "themes",
		Short: "List and inspect themes",
	}

	cmd.AddCommand(c.themesListCommand())
	cmd.AddCommand(c.themesShowCommand())

	return cmd
}

// themesListCommand creates the "themes list" subcommand.
func (c *CLI) themesListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List built-in themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range document.BuiltinThemeNames() {
				th, err := document.ResolveTheme(name)
				if err != nil {
					return err
				}
				fmt.Println(StyleValue.Render(name) + "  " + swatches(th.Colors.Palette))
				printDetail("background %s · foreground %s", th.Colors.Background, th.Colors.Foreground)
			}
			return nil
		},
	}
}

// themesShowCommand creates the "themes show" subcommand.
func (c *CLI) themesShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name|file.toml]",
		Short: "Show a theme's settings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			th, err := document.ResolveTheme(args[0])
			if err != nil {
				return err
			}

			printKeyValue("Name", th.Name)
			printKeyValue("Font", themeFontLabel(th.Font))
			printKeyValue("Background", th.Colors.Background)
			printKeyValue("Foreground", th.Colors.Foreground)
			printKeyValue("Palette", swatches(th.Colors.Palette))
			printDetail("%s", strings.Join(th.Colors.Palette, " "))
			if th.Text.FontSize != 0 {
				printKeyValue("Font size", fmt.Sprintf("%g pt", th.Text.FontSize))
			}
			if th.Text.LineHeight != 0 {
				printKeyValue("Line height", fmt.Sprintf("%g", th.Text.LineHeight))
			}
			return nil
		},
	}
}

// themeFontLabel formats the font section for display.
func themeFontLabel(f document.ThemeFont) string {
	if f.Path != "" {
		return fmt.Sprintf("%s (%s)", f.Family, f.Path)
	}
	return f.Family
}

// swatches renders one colored block per palette entry.
func swatches(palette []string) string {
	var b strings.Builder
	for _, hex := range palette {
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("■"))
	}
	return b.String()
}
