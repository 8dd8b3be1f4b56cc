package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/notate/pkg/fonts"
)

// fontsCommand creates the fonts command for inspecting available fonts.
func (c *CLI) fontsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fonts",
		Short: "List and resolve fonts",
	}

	cmd.AddCommand(c.fontsListCommand())
	cmd.AddCommand(c.fontsResolveCommand())

	return cmd
}

// fontsListCommand creates the "fonts list" subcommand.
func (c *CLI) fontsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered fonts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range fonts.Default().Names() {
				if name == fonts.DefaultName {
					fmt.Println(StyleValue.Render(name) + "  " + StyleDim.Render("(default)"))
					continue
				}
				fmt.Println(StyleValue.Render(name))
			}
			return nil
		},
	}
}

// fontsResolveCommand creates the "fonts resolve" subcommand.
func (c *CLI) fontsResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [family]",
		Short: "Locate an installed font file by family name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := fonts.Default().Resolve(args[0])
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}
