package windowmgr

import (
	"encoding/json"
	"fmt"
)

// Overlay geometry. The collapsed/expanded sizes are product constants shared
// with the frontend; changing them requires a matching frontend change.
const (
	OverlayCollapsedWidth  = 420
	OverlayCollapsedHeight = 100
	OverlayExpandedWidth   = 420
	OverlayExpandedHeight  = 400

	// anchorPadding is the gap between the overlay and the screen edge.
	anchorPadding = 20
	// topAnchorOffset clears the macOS menu bar on the three top anchors.
	topAnchorOffset = 60
	// startupTopPadding is the y coordinate of the initial overlay placement.
	// Intentionally not the TopRight anchor's anchorPadding+topAnchorOffset:
	// the product ships both constants and they must not be unified.
	startupTopPadding = 100
)

// Position is a named screen-relative anchor for the overlay window.
type Position int

const (
	TopLeft Position = iota
	TopCenter
	TopRight
	BottomLeft
	BottomCenter
	BottomRight
)

var positionNames = map[Position]string{
	TopLeft:      "topLeft",
	TopCenter:    "topCenter",
	TopRight:     "topRight",
	BottomLeft:   "bottomLeft",
	BottomCenter: "bottomCenter",
	BottomRight:  "bottomRight",
}

var positionValues = func() map[string]Position {
	out := make(map[string]Position, len(positionNames))
	for pos, name := range positionNames {
		out[name] = pos
	}
	return out
}()

// String returns the camelCase wire name of the anchor.
func (p Position) String() string {
	if name, ok := positionNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Position(%d)", int(p))
}

// ParsePosition resolves a camelCase anchor name to its Position.
func ParsePosition(name string) (Position, error) {
	if pos, ok := positionValues[name]; ok {
		return pos, nil
	}
	return 0, fmt.Errorf("unknown overlay position %q", name)
}

// MarshalJSON encodes the anchor as its camelCase wire name.
func (p Position) MarshalJSON() ([]byte, error) {
	name, ok := positionNames[p]
	if !ok {
		return nil, fmt.Errorf("unknown overlay position %d", int(p))
	}
	return json.Marshal(name)
}

// UnmarshalJSON decodes a camelCase wire name. The frontend sends the anchor
// as a plain JSON string ("topRight"), matching the wire format of the
// original desktop app.
func (p *Position) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	pos, err := ParsePosition(name)
	if err != nil {
		return err
	}
	*p = pos
	return nil
}

// anchorCoordinates computes the absolute top-left corner for an anchor given
// the current screen and overlay outer sizes, in physical pixels.
//
//	left x    = padding
//	right x   = screenW - windowW - padding
//	center x  = (screenW - windowW) / 2
//	top y     = padding + menu bar offset
//	bottom y  = screenH - windowH - padding
func anchorCoordinates(pos Position, screenW, screenH, windowW, windowH int) (x, y int) {
	switch pos {
	case TopLeft:
		return anchorPadding, anchorPadding + topAnchorOffset
	case TopCenter:
		return (screenW - windowW) / 2, anchorPadding + topAnchorOffset
	case TopRight:
		return screenW - windowW - anchorPadding, anchorPadding + topAnchorOffset
	case BottomLeft:
		return anchorPadding, screenH - windowH - anchorPadding
	case BottomCenter:
		return (screenW - windowW) / 2, screenH - windowH - anchorPadding
	case BottomRight:
		return screenW - windowW - anchorPadding, screenH - windowH - anchorPadding
	}
	// Unreachable for values produced by ParsePosition/UnmarshalJSON;
	// Manager.MoveOverlay validates before calling.
	return anchorPadding, anchorPadding + topAnchorOffset
}

// startupCoordinates computes the initial top-right placement applied once at
// startup before any persisted anchor is restored.
func startupCoordinates(screenW, windowW int) (x, y int) {
	return screenW - windowW - anchorPadding, startupTopPadding
}
