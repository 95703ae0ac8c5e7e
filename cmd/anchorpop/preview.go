package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/anchorpop/internal/geom"
	"github.com/jmylchreest/anchorpop/internal/tui"
)

var previewOpts struct {
	content string
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Launch the interactive placement preview",
	Long: `Launch a terminal preview of popup placement.

The preview draws the configured frame, an anchor and the popup placed next
to it. Content resizes are applied after the configured relayout delay, the
way a late layout pass would catch up on a real surface.

Key bindings:
  ←/→/↑/↓     Move the anchor
  [ ] { }     Resize the content
  d           Cycle preferred direction
  s / a       Toggle shadow / arrow
  m           Cycle animation mode
  t           Cycle theme
  x           Dismiss or show
  ?           Show help
  q           Quit`,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVar(&previewOpts.content, "content", "240x120",
		"Initial content size WIDTHxHEIGHT")
}

func runPreview(cmd *cobra.Command, args []string) error {
	size, err := geom.ParseSize(previewOpts.content)
	if err != nil {
		return fmt.Errorf("invalid --content: %w", err)
	}

	c := getConfig()
	return tui.Run(tui.Options{
		Config:      c,
		Themes:      loadThemes(c),
		Logger:      logger,
		ContentSize: size,
	})
}
