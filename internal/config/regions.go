package config

import (
	"errors"
	"fmt"
	"image"
)

// GeneralSlotCount is the number of general slots in a battle report row.
const GeneralSlotCount = 3

// Rect is a screen rectangle in absolute pixel coordinates.
type Rect struct {
	X      int `toml:"x"`
	Y      int `toml:"y"`
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Empty reports whether the rectangle was left unconfigured.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Image converts the rectangle to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

func (r Rect) validate() error {
	if r == (Rect{}) {
		return nil
	}
	if r.Width < 0 || r.Height < 0 {
		return errors.New("width and height must not be negative")
	}
	return nil
}

// SplitRow divides a row into GeneralSlotCount equal slots. Slots are
// returned right-to-left because the report lists the lead general last.
// The leftmost slot absorbs any remainder width.
func SplitRow(row Rect) []Rect {
	if row.Empty() {
		return nil
	}
	unit := row.Width / GeneralSlotCount
	slots := make([]Rect, 0, GeneralSlotCount)
	for i := GeneralSlotCount - 1; i >= 0; i-- {
		x := row.X + i*unit
		width := unit
		if i == 0 {
			width = row.Width - (GeneralSlotCount-1)*unit
			x = row.X
		}
		slots = append(slots, Rect{X: x, Y: row.Y, Width: width, Height: row.Height})
	}
	return slots
}
