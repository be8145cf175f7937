// Package paper defines named sheet sizes and orientation handling.
//
// Sizes are stored in points (see [units]) and derived from their
// metric or imperial definitions, matching common page-description
// conventions: A-series sizes from millimeters, US sizes from inches.
package paper

import (
	"errors"
	"fmt"
	"sort"

	"github.com/inkfold/imposer/pkg/units"
)

// ErrUnknownPaper is returned when a paper name is not registered.
var ErrUnknownPaper = errors.New("unknown paper size")

// Size is a sheet size in points, portrait orientation.
type Size struct {
	Width  float64
	Height float64
}

// Landscape returns the size with width and height swapped.
func (s Size) Landscape() Size {
	return Size{Width: s.Height, Height: s.Width}
}

// Standard paper sizes in portrait orientation.
var sizes = map[string]Size{
	"A4":      {units.MM(210), units.MM(297)},
	"A3":      {units.MM(297), units.MM(420)},
	"A2":      {units.MM(420), units.MM(594)},
	"A1":      {units.MM(594), units.MM(841)},
	"Letter":  {units.Inches(8.5), units.Inches(11)},
	"Legal":   {units.Inches(8.5), units.Inches(14)},
	"Tabloid": {units.Inches(11), units.Inches(17)},
}

// Lookup resolves a named paper size.
func Lookup(name string) (Size, error) {
	s, ok := sizes[name]
	if !ok {
		return Size{}, fmt.Errorf("%w: %q", ErrUnknownPaper, name)
	}
	return s, nil
}

// Custom builds a size from millimeter dimensions.
func Custom(widthMM, heightMM float64) Size {
	return Size{Width: units.MM(widthMM), Height: units.MM(heightMM)}
}

// Names lists the registered paper names in sorted order.
func Names() []string {
	names := make([]string, 0, len(sizes))
	for name := range sizes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
