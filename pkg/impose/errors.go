package impose

import "errors"

// Sentinel errors for layout resolution and placement planning.
// All validation errors are raised before any placement is computed,
// so a failed plan never yields partial sheets.
var (
	// ErrUnknownLayout is returned when a layout name is not registered.
	ErrUnknownLayout = errors.New("unknown layout")

	// ErrInvalidLayout is returned for non-positive grid dimensions.
	ErrInvalidLayout = errors.New("invalid layout")

	// ErrLayoutOverflow is returned when the sheet cannot accommodate the
	// grid: the computed cell size is non-positive, or a fixed footprint
	// cannot fit its cells plus reserved zones.
	ErrLayoutOverflow = errors.New("layout overflow")

	// ErrInsufficientTiles is returned when duplicate mapping is asked to
	// fill a sheet from an empty tile pool.
	ErrInsufficientTiles = errors.New("insufficient tiles")
)
