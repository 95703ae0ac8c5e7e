package term

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/anchorpop/internal/decoration"
	"github.com/jmylchreest/anchorpop/internal/geom"
	"github.com/jmylchreest/anchorpop/internal/placement"
	"github.com/jmylchreest/anchorpop/internal/style"
)

func TestSurface_RecordsOperations(t *testing.T) {
	s := NewSurface(0, nil)
	assert.False(t, s.Visible())

	require.NoError(t, s.Show(10, 20, 100, 50, style.PopDownCenter))
	require.NoError(t, s.Move(15, 25))
	require.NoError(t, s.Resize(120, 60))
	require.NoError(t, s.Update(0, 0, 10, 10))

	assert.True(t, s.Visible())
	assert.Equal(t, geom.XYWH(0, 0, 10, 10), s.Window())
	assert.Equal(t, style.PopDownCenter, s.Transition())

	hist := s.History()
	require.Len(t, hist, 4)
	assert.Equal(t, Op{Name: "move", Window: geom.XYWH(15, 25, 100, 50)}, hist[1])
	assert.Equal(t, Op{Name: "resize", Window: geom.XYWH(15, 25, 120, 60)}, hist[2])

	require.NoError(t, s.Dismiss())
	assert.False(t, s.Visible())
	assert.Nil(t, s.Arrow())
}

func TestSurface_HiddenRejectsMoves(t *testing.T) {
	s := NewSurface(0, nil)
	var surfErr *Error
	assert.ErrorAs(t, s.Move(1, 1), &surfErr)
	assert.ErrorAs(t, s.Resize(1, 1), &surfErr)
	assert.ErrorAs(t, s.Update(1, 1, 1, 1), &surfErr)
}

func TestSurface_HistoryIsBounded(t *testing.T) {
	s := NewSurface(2, nil)
	require.NoError(t, s.Show(0, 0, 1, 1, style.PopDownLeft))
	require.NoError(t, s.Move(1, 1))
	require.NoError(t, s.Move(2, 2))

	hist := s.History()
	require.Len(t, hist, 2)
	assert.Equal(t, "move", hist[0].Name)
	assert.Equal(t, geom.XYWH(2, 2, 1, 1), hist[1].Window)
}

func TestSurface_Paint(t *testing.T) {
	s := NewSurface(0, nil)
	arrow := &decoration.ArrowSpec{Width: 4}
	s.Paint(decoration.PanelSpec{Radius: 3}, arrow)

	assert.Equal(t, 3, s.Panel().Radius)
	assert.Same(t, arrow, s.Arrow())
}

func testScene() Scene {
	content := geom.XYWH(10, 10, 10, 4)
	return Scene{
		Frame:   geom.R(0, 0, 40, 20),
		Anchor:  geom.R(12, 5, 20, 8),
		Window:  content.Outset(geom.Uniform(1)),
		Content: content,
		Arrow: &decoration.ArrowSpec{
			Direction: placement.DirectionBottom,
			Origin:    geom.Point{X: 3, Y: 1},
			Width:     4,
			Height:    2,
		},
	}
}

func TestRasterize(t *testing.T) {
	grid := rasterize(testScene(), 40, 20)

	require.Len(t, grid, 20)
	require.Len(t, grid[0], 40)
	assert.Equal(t, cellEmpty, grid[0][0])
	assert.Equal(t, cellContent, grid[10][10])
	assert.Equal(t, cellDecoration, grid[9][9])
	assert.Equal(t, cellAnchor, grid[6][12])
	assert.Equal(t, cellArrowUp, grid[8][14])
}

func TestRasterize_ArrowPointsDownAbove(t *testing.T) {
	scene := testScene()
	scene.Arrow.Direction = placement.DirectionTop
	scene.Arrow.Origin = geom.Point{X: 3, Y: 5}

	grid := rasterize(scene, 40, 20)
	// tip: origin.y + height, offset by the window origin (9,9)
	assert.Equal(t, cellArrowDown, grid[16][14])
}

func TestRasterize_Scales(t *testing.T) {
	scene := testScene()
	scene.Arrow = nil
	grid := rasterize(scene, 20, 10)

	assert.Equal(t, cellContent, grid[5][5])
	assert.Equal(t, cellEmpty, grid[0][0])
}

func TestRasterize_DegenerateGrid(t *testing.T) {
	grid := rasterize(testScene(), 0, -3)
	require.Len(t, grid, 1)
	require.Len(t, grid[0], 1)
}

func TestRender(t *testing.T) {
	out := Render(testScene(), 40, 20, DefaultStyles())

	assert.Equal(t, 22, lipgloss.Height(out))
	assert.Equal(t, 42, lipgloss.Width(out))
	assert.Contains(t, out, "▲")
	assert.Contains(t, out, "█")
	assert.Contains(t, out, "▓")
}

func TestSceneFor(t *testing.T) {
	p := placement.Placement{
		Width: 80, Height: 40, X: 110, Y: 548,
		Insets: geom.Insets{Top: 8},
		Anchor: placement.AnchorRect(geom.R(100, 500, 200, 540), geom.Point{}),
		Frame:  geom.R(0, 0, 400, 800),
	}
	scene := SceneFor(p, nil)

	assert.Equal(t, geom.R(110, 540, 190, 588), scene.Window)
	assert.Equal(t, geom.R(110, 548, 190, 588), scene.Content)
	assert.Equal(t, geom.R(100, 500, 200, 540), scene.Anchor)
	assert.Nil(t, scene.Arrow)
}
