package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/anchorpop/internal/dbus"
	"github.com/jmylchreest/anchorpop/internal/geom"
)

var ctlCmd = &cobra.Command{
	Use:   "ctl",
	Short: "Control a running anchorpopd over D-Bus",
	Long: `Control the popup shown by a running anchorpopd.

Examples:
  # Move the popup to a new anchor
  anchorpop ctl show 40,40,80,24

  # Replace the text; the popup follows the new size
  anchorpop ctl text "Saved 3 files"

  # Print where the popup is
  anchorpop ctl placement`,
}

var ctlShowCmd = &cobra.Command{
	Use:   "show x,y,width,height",
	Short: "Show the popup at a new anchor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		anchor, err := geom.ParseRect(args[0])
		if err != nil {
			return fmt.Errorf("invalid anchor: %w", err)
		}
		return withClient(func(c *dbus.Client) error {
			return c.ShowAt(anchor)
		})
	},
}

var ctlDismissCmd = &cobra.Command{
	Use:   "dismiss",
	Short: "Dismiss the popup",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *dbus.Client) error {
			return c.Dismiss()
		})
	},
}

var ctlTextCmd = &cobra.Command{
	Use:   "text <text>...",
	Short: "Replace the popup text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *dbus.Client) error {
			return c.SetText(strings.Join(args, " "))
		})
	},
}

var ctlPlacementCmd = &cobra.Command{
	Use:   "placement",
	Short: "Print the popup window and direction",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(c *dbus.Client) error {
			info, err := c.Placement()
			if err != nil {
				return err
			}
			if !info.Shown {
				fmt.Fprintln(cmd.OutOrStdout(), "hidden")
				return nil
			}
			w := info.Window
			fmt.Fprintf(cmd.OutOrStdout(), "%d,%d %dx%d %s %s\n",
				w.Left, w.Top, w.Width(), w.Height(), info.Direction, info.Transition)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(ctlCmd)
	ctlCmd.AddCommand(ctlShowCmd, ctlDismissCmd, ctlTextCmd, ctlPlacementCmd)
}

func withClient(fn func(*dbus.Client) error) error {
	c, err := dbus.Dial()
	if err != nil {
		return err
	}
	return fn(c)
}
