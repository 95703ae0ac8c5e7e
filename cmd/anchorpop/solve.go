package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/anchorpop/internal/config"
	"github.com/jmylchreest/anchorpop/internal/decoration"
	"github.com/jmylchreest/anchorpop/internal/eventloop"
	"github.com/jmylchreest/anchorpop/internal/geom"
	"github.com/jmylchreest/anchorpop/internal/placement"
	"github.com/jmylchreest/anchorpop/internal/popup"
	"github.com/jmylchreest/anchorpop/internal/surface/term"
	"github.com/jmylchreest/anchorpop/internal/theme"
)

var solveOpts struct {
	// Geometry
	anchor  string
	area    string
	root    string
	frame   string
	content string

	// Overrides
	width     string
	height    string
	direction string
	shadow    bool
	arrow     bool
	animation string

	// Output
	format string
	render bool
	cols   int
	rows   int
}

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Compute a popup placement",
	Long: `Compute where a popup sits for an anchor rectangle and print it.

Rectangles are given as x,y,width,height. The frame is the visible area the
popup must stay inside and defaults to the [preview] frame of the config.
Content that wraps its size is measured as the --content size, capped by the
frame.

Examples:
  # Popup for a 120x32 button at (580,384), content 240x120
  anchorpop solve --anchor 580,384,120,32 --content 240x120

  # Prefer the top and print YAML
  anchorpop solve --anchor 580,700,120,32 --content 240x120 --direction top -f yaml

  # Draw the result in the terminal
  anchorpop solve --anchor 40,40,80,24 --content 200x80 --render`,
	RunE: runSolve,
}

func init() {
	rootCmd.AddCommand(solveCmd)

	solveCmd.Flags().StringVar(&solveOpts.anchor, "anchor", "",
		"Anchor rectangle x,y,width,height (required)")
	solveCmd.Flags().StringVar(&solveOpts.area, "area", "",
		"Sub-area of the anchor x,y,width,height relative to the anchor origin")
	solveCmd.Flags().StringVar(&solveOpts.root, "root", "0,0",
		"Root window offset x,y of the anchor coordinates")
	solveCmd.Flags().StringVar(&solveOpts.frame, "frame", "",
		"Visible frame x,y,width,height (default from config)")
	solveCmd.Flags().StringVar(&solveOpts.content, "content", "240x120",
		"Measured content size WIDTHxHEIGHT")

	solveCmd.Flags().StringVar(&solveOpts.width, "width", "",
		"Content width: wrap, fill or pixels (default from config)")
	solveCmd.Flags().StringVar(&solveOpts.height, "height", "",
		"Content height: wrap, fill or pixels (default from config)")
	solveCmd.Flags().StringVarP(&solveOpts.direction, "direction", "d", "",
		"Preferred direction: top, bottom or center (default from config)")
	solveCmd.Flags().BoolVar(&solveOpts.shadow, "shadow", true,
		"Reserve room for the drop shadow")
	solveCmd.Flags().BoolVar(&solveOpts.arrow, "arrow", true,
		"Reserve room for the pointer arrow")
	solveCmd.Flags().StringVar(&solveOpts.animation, "animation", "",
		"Animation mode: auto, left, right, center or custom (default from config)")

	solveCmd.Flags().StringVarP(&solveOpts.format, "format", "f", "text",
		"Output format (text, json, yaml)")
	solveCmd.Flags().BoolVar(&solveOpts.render, "render", false,
		"Draw the frame, anchor and popup after the result")
	solveCmd.Flags().IntVar(&solveOpts.cols, "cols", 64,
		"Render width in terminal cells")
	solveCmd.Flags().IntVar(&solveOpts.rows, "rows", 24,
		"Render height in terminal cells")

	_ = solveCmd.MarkFlagRequired("anchor")
}

// rectOutput is a rectangle in x/y/width/height form.
type rectOutput struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

func newRectOutput(r geom.Rect) rectOutput {
	return rectOutput{X: r.Left, Y: r.Top, Width: r.Width(), Height: r.Height()}
}

type insetsOutput struct {
	Left   int `json:"left" yaml:"left"`
	Top    int `json:"top" yaml:"top"`
	Right  int `json:"right" yaml:"right"`
	Bottom int `json:"bottom" yaml:"bottom"`
}

type arrowOutput struct {
	X      int    `json:"x" yaml:"x"`
	Y      int    `json:"y" yaml:"y"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
	Points string `json:"points" yaml:"points"`
}

// solveOutput is the machine-readable result of the solve command.
type solveOutput struct {
	ID               string       `json:"id" yaml:"id"`
	Direction        string       `json:"direction" yaml:"direction"`
	Transition       string       `json:"transition" yaml:"transition"`
	Window           rectOutput   `json:"window" yaml:"window"`
	Content          rectOutput   `json:"content" yaml:"content"`
	ContentLayout    rectOutput   `json:"content_layout" yaml:"content_layout"`
	Insets           insetsOutput `json:"insets" yaml:"insets"`
	AnchorProportion float64      `json:"anchor_proportion" yaml:"anchor_proportion"`
	Theme            string       `json:"theme" yaml:"theme"`
	BackgroundColor  string       `json:"background_color" yaml:"background_color"`
	BorderColor      string       `json:"border_color,omitempty" yaml:"border_color,omitempty"`
	Arrow            *arrowOutput `json:"arrow,omitempty" yaml:"arrow,omitempty"`
}

func runSolve(cmd *cobra.Command, args []string) error {
	c := *getConfig()
	if err := applySolveFlags(cmd, &c); err != nil {
		return err
	}

	anchor, err := geom.ParseRect(solveOpts.anchor)
	if err != nil {
		return fmt.Errorf("invalid --anchor: %w", err)
	}
	root, err := geom.ParsePoint(solveOpts.root)
	if err != nil {
		return fmt.Errorf("invalid --root: %w", err)
	}
	frame := c.Preview.Frame.Rect()
	if solveOpts.frame != "" {
		if frame, err = geom.ParseRect(solveOpts.frame); err != nil {
			return fmt.Errorf("invalid --frame: %w", err)
		}
	}
	size, err := geom.ParseSize(solveOpts.content)
	if err != nil {
		return fmt.Errorf("invalid --content: %w", err)
	}

	ag := placement.AnchorRect(anchor.Offset(root), root)
	if solveOpts.area != "" {
		area, err := geom.ParseRect(solveOpts.area)
		if err != nil {
			return fmt.Errorf("invalid --area: %w", err)
		}
		ag = placement.CaptureAnchor(anchor.Origin().Add(root), area, root)
	}

	themes := loadThemes(&c)
	surface := term.NewSurface(0, logger)
	p, err := popup.New(popup.Config{
		Settings:  popup.SettingsFromConfig(&c),
		Surface:   surface,
		Scheduler: eventloop.New(logger),
		Theme:     themes,
		Logger:    logger,
	})
	if err != nil {
		return err
	}
	p.SetContent(placement.MeasurerFunc(func(_, _ placement.MeasureSpec) geom.Size {
		return size
	}))
	if err := p.Show(ag, frame); err != nil {
		return err
	}

	out := buildSolveOutput(p, themes.CurrentTheme())
	if err := writeSolveOutput(cmd.OutOrStdout(), out, solveOpts.format); err != nil {
		return err
	}

	if solveOpts.render {
		pl, _ := p.Placement()
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), term.Render(term.SceneFor(pl, surface.Arrow()), solveOpts.cols, solveOpts.rows, term.DefaultStyles()))
	}
	return nil
}

// applySolveFlags overrides config values with the flags the user set.
func applySolveFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	if solveOpts.width != "" {
		d, err := placement.ParseDimension(solveOpts.width)
		if err != nil {
			return fmt.Errorf("invalid --width: %w", err)
		}
		c.Popup.Width = d
	}
	if solveOpts.height != "" {
		d, err := placement.ParseDimension(solveOpts.height)
		if err != nil {
			return fmt.Errorf("invalid --height: %w", err)
		}
		c.Popup.Height = d
	}
	if solveOpts.direction != "" {
		d, err := placement.ParseDirection(solveOpts.direction)
		if err != nil {
			return err
		}
		c.Popup.PreferredDirection = d
	}
	if flags.Changed("shadow") {
		c.Decoration.Shadow = solveOpts.shadow
	}
	if flags.Changed("arrow") {
		c.Decoration.Arrow = solveOpts.arrow
	}
	if solveOpts.animation != "" {
		c.Animation.Mode = solveOpts.animation
	}
	// Every size is measured up front; there is no later layout pass here.
	c.Popup.ForceMeasure = true
	return c.Validate()
}

func buildSolveOutput(p *popup.Popup, themeName string) solveOutput {
	pl, _ := p.Placement()
	paint := p.Paint()

	out := solveOutput{
		ID:               p.ID(),
		Direction:        pl.Direction.String(),
		Transition:       string(p.Transition()),
		Window:           newRectOutput(geom.XYWH(pl.WindowX(), pl.WindowY(), pl.WindowWidth(), pl.WindowHeight())),
		Content:          newRectOutput(pl.Content()),
		ContentLayout:    newRectOutput(pl.ContentLayout()),
		Insets:           insetsOutput(pl.Insets),
		AnchorProportion: pl.AnchorProportion(),
		Theme:            themeName,
		BackgroundColor:  theme.FormatColor(paint.FillColor),
	}
	if panel, ok := p.Panel(); ok && panel.DrawBorder {
		out.BorderColor = theme.FormatColor(panel.BorderColor)
	}
	if a, ok := p.Arrow(); ok {
		out.Arrow = newArrowOutput(a)
	}
	return out
}

func newArrowOutput(a decoration.ArrowSpec) *arrowOutput {
	pts := a.Triangle()
	coords := make([]string, 0, len(pts))
	for _, pt := range pts {
		coords = append(coords, fmt.Sprintf("%g,%g", float64(a.Origin.X)+pt.X, float64(a.Origin.Y)+pt.Y))
	}
	return &arrowOutput{
		X:      a.Origin.X,
		Y:      a.Origin.Y,
		Width:  a.Width,
		Height: a.Height,
		Points: strings.Join(coords, " "),
	}
}

func writeSolveOutput(w io.Writer, out solveOutput, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		fmt.Fprintf(w, "direction:  %s\n", out.Direction)
		fmt.Fprintf(w, "transition: %s\n", out.Transition)
		fmt.Fprintf(w, "window:     %d,%d %dx%d\n", out.Window.X, out.Window.Y, out.Window.Width, out.Window.Height)
		fmt.Fprintf(w, "content:    %d,%d %dx%d\n", out.Content.X, out.Content.Y, out.Content.Width, out.Content.Height)
		fmt.Fprintf(w, "insets:     %d %d %d %d\n", out.Insets.Left, out.Insets.Top, out.Insets.Right, out.Insets.Bottom)
		fmt.Fprintf(w, "theme:      %s\n", out.Theme)
		if out.Arrow != nil {
			fmt.Fprintf(w, "arrow:      %s\n", out.Arrow.Points)
		}
		return nil
	default:
		return fmt.Errorf("unknown format %q: must be text, json or yaml", format)
	}
}
