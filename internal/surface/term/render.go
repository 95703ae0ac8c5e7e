package term

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/anchorpop/internal/decoration"
	"github.com/jmylchreest/anchorpop/internal/geom"
	"github.com/jmylchreest/anchorpop/internal/placement"
)

// Scene is everything drawn by Render, in absolute screen coordinates.
type Scene struct {
	Frame   geom.Rect
	Anchor  geom.Rect
	Window  geom.Rect // content plus decoration
	Content geom.Rect
	Arrow   *decoration.ArrowSpec // origin relative to Window
}

// SceneFor builds the scene for a placement. arrow may be nil.
func SceneFor(p placement.Placement, arrow *decoration.ArrowSpec) Scene {
	return Scene{
		Frame:   p.Frame,
		Anchor:  p.Anchor.Frame,
		Window:  p.Footprint(),
		Content: p.Content(),
		Arrow:   arrow,
	}
}

type cell int

const (
	cellEmpty cell = iota
	cellAnchor
	cellDecoration
	cellContent
	cellArrowUp
	cellArrowDown
)

var glyphs = map[cell]string{
	cellEmpty:      "·",
	cellAnchor:     "▓",
	cellDecoration: "░",
	cellContent:    "█",
	cellArrowUp:    "▲",
	cellArrowDown:  "▼",
}

// Styles colors the rendered cells.
type Styles struct {
	Frame      lipgloss.Style
	Empty      lipgloss.Style
	Anchor     lipgloss.Style
	Decoration lipgloss.Style
	Content    lipgloss.Style
	Arrow      lipgloss.Style
}

// DefaultStyles returns the styles used by the preview.
func DefaultStyles() Styles {
	return Styles{
		Frame:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")),
		Empty:      lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		Anchor:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Decoration: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Content:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Arrow:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	}
}

func (s Styles) forCell(c cell) lipgloss.Style {
	switch c {
	case cellAnchor:
		return s.Anchor
	case cellDecoration:
		return s.Decoration
	case cellContent:
		return s.Content
	case cellArrowUp, cellArrowDown:
		return s.Arrow
	default:
		return s.Empty
	}
}

// Render draws the scene scaled into a cols x rows character grid inside a border.
func Render(scene Scene, cols, rows int, styles Styles) string {
	grid := rasterize(scene, cols, rows)

	var b strings.Builder
	for r, row := range grid {
		if r > 0 {
			b.WriteByte('\n')
		}
		// Render runs of the same cell together to keep escape codes short.
		start := 0
		for c := 1; c <= len(row); c++ {
			if c < len(row) && row[c] == row[start] {
				continue
			}
			run := strings.Repeat(glyphs[row[start]], c-start)
			b.WriteString(styles.forCell(row[start]).Render(run))
			start = c
		}
	}
	return styles.Frame.Render(b.String())
}

// rasterize classifies every character cell of the scene. Each cell is
// sampled at its center pixel.
func rasterize(scene Scene, cols, rows int) [][]cell {
	cols, rows = max(cols, 1), max(rows, 1)
	frame := scene.Frame
	sx := float64(frame.Width()) / float64(cols)
	sy := float64(frame.Height()) / float64(rows)

	grid := make([][]cell, rows)
	for r := range grid {
		grid[r] = make([]cell, cols)
		for c := range grid[r] {
			px := frame.Left + int((float64(c)+0.5)*sx)
			py := frame.Top + int((float64(r)+0.5)*sy)
			pt := geom.Point{X: px, Y: py}

			switch {
			case scene.Content.ContainsPoint(pt):
				grid[r][c] = cellContent
			case scene.Window.ContainsPoint(pt):
				grid[r][c] = cellDecoration
			case scene.Anchor.ContainsPoint(pt):
				grid[r][c] = cellAnchor
			}
		}
	}

	if scene.Arrow != nil && sx > 0 && sy > 0 {
		tip := scene.Arrow.Tip().Add(scene.Window.Origin())
		c := clampIndex(int(float64(tip.X-frame.Left)/sx), cols)
		r := clampIndex(int(float64(tip.Y-frame.Top)/sy), rows)
		if scene.Arrow.Direction == placement.DirectionTop {
			grid[r][c] = cellArrowDown
		} else {
			grid[r][c] = cellArrowUp
		}
	}
	return grid
}

func clampIndex(i, n int) int {
	return min(max(i, 0), n-1)
}
