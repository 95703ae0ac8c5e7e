// Package style maps a solved placement to the transition used to show it.
package style

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/anchorpop/internal/placement"
)

// Mode selects how the transition style is chosen.
type Mode int

const (
	ModeAuto Mode = iota
	ModeFromLeft
	ModeFromRight
	ModeFromCenter
	ModeCustom
)

func (m Mode) String() string {
	switch m {
	case ModeFromLeft:
		return "left"
	case ModeFromRight:
		return "right"
	case ModeFromCenter:
		return "center"
	case ModeCustom:
		return "custom"
	default:
		return "auto"
	}
}

// ParseMode parses "auto", "left", "right", "center" or "custom".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return ModeAuto, nil
	case "left":
		return ModeFromLeft, nil
	case "right":
		return ModeFromRight, nil
	case "center":
		return ModeFromCenter, nil
	case "custom":
		return ModeCustom, nil
	default:
		return ModeAuto, fmt.Errorf("invalid animation mode %q: must be auto, left, right, center or custom", s)
	}
}

// ID identifies a transition style. Custom styles are opaque caller strings.
type ID string

const (
	PopDownLeft   ID = "pop-down-left"
	PopDownCenter ID = "pop-down-center"
	PopDownRight  ID = "pop-down-right"
	PopUpLeft     ID = "pop-up-left"
	PopUpCenter   ID = "pop-up-center"
	PopUpRight    ID = "pop-up-right"
)

// Bucket boundaries on the anchor proportion.
const (
	NearEdge = 0.25
	FarEdge  = 0.75
)

// Select returns the transition for a placement direction and anchor proportion.
// Proportions outside [0,1] fall into the nearest bucket.
func Select(direction placement.Direction, proportion float64, mode Mode, custom ID) ID {
	onTop := direction == placement.DirectionTop
	switch mode {
	case ModeFromLeft:
		return pick(onTop, PopUpLeft, PopDownLeft)
	case ModeFromRight:
		return pick(onTop, PopUpRight, PopDownRight)
	case ModeFromCenter:
		return pick(onTop, PopUpCenter, PopDownCenter)
	case ModeCustom:
		return custom
	}

	switch {
	case proportion <= NearEdge:
		return pick(onTop, PopUpLeft, PopDownLeft)
	case proportion < FarEdge:
		return pick(onTop, PopUpCenter, PopDownCenter)
	default:
		return pick(onTop, PopUpRight, PopDownRight)
	}
}

// ForPlacement selects the style from a solved placement.
func ForPlacement(p placement.Placement, mode Mode, custom ID) ID {
	return Select(p.Direction, p.AnchorProportion(), mode, custom)
}

func pick(onTop bool, up, down ID) ID {
	if onTop {
		return up
	}
	return down
}
