package style

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/anchorpop/internal/placement"
)

func TestSelect_AutoBuckets(t *testing.T) {
	tests := []struct {
		proportion float64
		down       ID
		up         ID
	}{
		{-0.5, PopDownLeft, PopUpLeft},
		{0, PopDownLeft, PopUpLeft},
		{0.25, PopDownLeft, PopUpLeft},
		{math.Nextafter(0.25, 1), PopDownCenter, PopUpCenter},
		{0.5, PopDownCenter, PopUpCenter},
		{math.Nextafter(0.75, 0), PopDownCenter, PopUpCenter},
		{0.75, PopDownRight, PopUpRight},
		{1, PopDownRight, PopUpRight},
		{3, PopDownRight, PopUpRight},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.down, Select(placement.DirectionBottom, tt.proportion, ModeAuto, ""), "bottom %v", tt.proportion)
		assert.Equal(t, tt.up, Select(placement.DirectionTop, tt.proportion, ModeAuto, ""), "top %v", tt.proportion)
	}
}

func TestSelect_CenterInScreenUsesPopDown(t *testing.T) {
	assert.Equal(t, PopDownCenter, Select(placement.DirectionCenterInScreen, 0.5, ModeAuto, ""))
}

func TestSelect_FixedModesIgnoreProportion(t *testing.T) {
	for _, p := range []float64{-1, 0, 0.5, 1, 2} {
		assert.Equal(t, PopDownLeft, Select(placement.DirectionBottom, p, ModeFromLeft, ""))
		assert.Equal(t, PopUpLeft, Select(placement.DirectionTop, p, ModeFromLeft, ""))
		assert.Equal(t, PopDownRight, Select(placement.DirectionBottom, p, ModeFromRight, ""))
		assert.Equal(t, PopUpRight, Select(placement.DirectionTop, p, ModeFromRight, ""))
		assert.Equal(t, PopDownCenter, Select(placement.DirectionBottom, p, ModeFromCenter, ""))
		assert.Equal(t, PopUpCenter, Select(placement.DirectionTop, p, ModeFromCenter, ""))
	}
}

func TestSelect_Custom(t *testing.T) {
	assert.Equal(t, ID("slide-fade"), Select(placement.DirectionTop, 0.1, ModeCustom, "slide-fade"))
	assert.Equal(t, ID("slide-fade"), Select(placement.DirectionBottom, 0.9, ModeCustom, "slide-fade"))
}

func TestSelect_Pure(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, PopUpCenter, Select(placement.DirectionTop, 0.4, ModeAuto, ""))
	}
}

func TestForPlacement(t *testing.T) {
	p := placement.Placement{X: 100, Width: 100, Direction: placement.DirectionTop}

	p.Anchor.Center = 110
	assert.Equal(t, PopUpLeft, ForPlacement(p, ModeAuto, ""))

	p.Anchor.Center = 150
	assert.Equal(t, PopUpCenter, ForPlacement(p, ModeAuto, ""))

	p.Anchor.Center = 190
	assert.Equal(t, PopUpRight, ForPlacement(p, ModeAuto, ""))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Center")
	require.NoError(t, err)
	assert.Equal(t, ModeFromCenter, m)

	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeAuto, m)

	_, err = ParseMode("diagonal")
	assert.Error(t, err)
}
