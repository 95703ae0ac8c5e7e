package geom

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseRect parses "x,y,width,height".
func ParseRect(s string) (Rect, error) {
	v, err := parseInts(s, 4)
	if err != nil {
		return Rect{}, err
	}
	if v[2] < 0 || v[3] < 0 {
		return Rect{}, fmt.Errorf("negative size in %q", s)
	}
	return XYWH(v[0], v[1], v[2], v[3]), nil
}

// ParsePoint parses "x,y".
func ParsePoint(s string) (Point, error) {
	v, err := parseInts(s, 2)
	if err != nil {
		return Point{}, err
	}
	return Point{X: v[0], Y: v[1]}, nil
}

// ParseSize parses "WIDTHxHEIGHT". The separator is case-insensitive.
func ParseSize(s string) (Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return Size{}, fmt.Errorf("expected WIDTHxHEIGHT, got %q", s)
	}
	v, err := parseInts(w+","+h, 2)
	if err != nil {
		return Size{}, err
	}
	if v[0] < 0 || v[1] < 0 {
		return Size{}, fmt.Errorf("negative size %q", s)
	}
	return Size{Width: v[0], Height: v[1]}, nil
}

func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated values, got %q", n, s)
	}
	vals := make([]int, n)
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", part)
		}
		vals[i] = v
	}
	return vals, nil
}
