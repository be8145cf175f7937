// Package units converts physical lengths to the canvas's native unit.
//
// The native unit is the PDF point (1/72 inch). All geometry in the
// placement engine is expressed in points; callers supply sizes in
// millimeters or inches and convert once at the boundary.
package units

import (
	"errors"
	"fmt"
)

// ErrInvalidUnit is returned when an unrecognized unit is supplied.
var ErrInvalidUnit = errors.New("invalid unit")

// Unit identifies a supported length unit.
type Unit string

// Supported units.
const (
	Millimeter Unit = "mm"
	Inch       Unit = "in"
	Point      Unit = "pt"
)

// Conversion factors to points.
const (
	// PointsPerInch is the PDF point convention: 1 inch = 72 points.
	PointsPerInch = 72.0

	// PointsPerMM follows from 1 inch = 25.4 mm.
	PointsPerMM = PointsPerInch / 25.4
)

// ToPoints converts value in the given unit to points.
func ToPoints(value float64, unit Unit) (float64, error) {
	switch unit {
	case Millimeter:
		return value * PointsPerMM, nil
	case Inch:
		return value * PointsPerInch, nil
	case Point:
		return value, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
	}
}

// MM converts a millimeter value to points. It is the common case and
// avoids the error return for a unit that is known statically.
func MM(v float64) float64 { return v * PointsPerMM }

// Inches converts an inch value to points.
func Inches(v float64) float64 { return v * PointsPerInch }
