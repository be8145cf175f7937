// Package pipeline composes rasterization, layout planning, and PDF
// writing into a single imposition run. The CLI and the HTTP server
// both drive the same Runner with the same Options.
package pipeline

import (
	"fmt"

	"github.com/charmbracelet/log"

	apperrors "github.com/inkfold/imposer/pkg/errors"
	"github.com/inkfold/imposer/pkg/impose"
	"github.com/inkfold/imposer/pkg/paper"
	"github.com/inkfold/imposer/pkg/units"
)

// Defaults applied by ValidateAndSetDefaults.
const (
	DefaultLayout     = "8x2"
	DefaultPaper      = "A4"
	DefaultMarginMM   = 5.0
	DefaultDPI        = 300
	DefaultPreviewDPI = 150
)

// CustomLayout selects a grid built from Columns and Rows instead of a
// named preset.
const CustomLayout = "custom"

// Options configures an imposition run. The zero value is not usable;
// call ValidateAndSetDefaults (directly or via Runner.Execute) first.
// The struct is JSON-serializable so the server can accept it as a job
// body.
type Options struct {
	// Inputs are the source PDF paths, imposed in order.
	Inputs []string `json:"inputs"`

	// Output is the destination path for the imposed PDF.
	Output string `json:"output,omitempty"`

	// Layout names a preset, or CustomLayout to use Columns and Rows.
	Layout  string `json:"layout,omitempty"`
	Columns int    `json:"columns,omitempty"`
	Rows    int    `json:"rows,omitempty"`

	// Paper names a standard sheet size. PaperWidthMM and
	// PaperHeightMM override it with a custom size when both are
	// positive. Presets carrying a fixed sheet ignore all three.
	Paper         string  `json:"paper,omitempty"`
	PaperWidthMM  float64 `json:"paper_width_mm,omitempty"`
	PaperHeightMM float64 `json:"paper_height_mm,omitempty"`

	// MarginMM is the uniform sheet margin. Presets carrying fixed
	// margins ignore it.
	MarginMM float64 `json:"margin_mm,omitempty"`

	// Portrait keeps the sheet upright. Sheets are landscape by
	// default since wide grids are the common case.
	Portrait bool `json:"portrait,omitempty"`

	// DPI is the rasterization resolution for page tiles.
	DPI int `json:"dpi,omitempty"`

	// PrintMark, when non-empty, is encoded as a QR code into the
	// reserved side zone of layouts that have one.
	PrintMark string `json:"print_mark,omitempty"`

	// Logger receives progress output. Defaults to log.Default().
	Logger *log.Logger `json:"-" bson:"-"`

	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// It is idempotent; repeated calls after a successful one are no-ops.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if len(o.Inputs) == 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "at least one input PDF is required")
	}
	for _, in := range o.Inputs {
		if err := apperrors.ValidateInputPath(in); err != nil {
			return err
		}
	}

	if o.Layout == "" {
		if o.Columns > 0 || o.Rows > 0 {
			o.Layout = CustomLayout
		} else {
			o.Layout = DefaultLayout
		}
	}
	if o.Layout == CustomLayout {
		if o.Columns <= 0 || o.Rows <= 0 {
			return fmt.Errorf("custom layout requires positive columns and rows")
		}
	} else if _, err := impose.Resolve(o.Layout); err != nil {
		return fmt.Errorf("layout %q: %w", o.Layout, err)
	}

	if o.Paper == "" && !o.hasCustomPaper() {
		o.Paper = DefaultPaper
	}
	if o.Paper != "" && !o.hasCustomPaper() {
		if _, err := paper.Lookup(o.Paper); err != nil {
			return fmt.Errorf("paper %q: %w", o.Paper, err)
		}
	}

	if o.MarginMM == 0 {
		o.MarginMM = DefaultMarginMM
	}
	if o.MarginMM < 0 {
		return fmt.Errorf("margin must not be negative")
	}

	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.DPI < 0 {
		return fmt.Errorf("dpi must not be negative")
	}

	if o.PrintMark != "" {
		if err := apperrors.ValidateMarkContent(o.PrintMark); err != nil {
			return err
		}
	}

	if o.Logger == nil {
		o.Logger = log.Default()
	}

	o.validated = true
	return nil
}

func (o *Options) hasCustomPaper() bool {
	return o.PaperWidthMM > 0 && o.PaperHeightMM > 0
}

// ResolveLayout returns the layout selected by the options.
func (o *Options) ResolveLayout() (impose.Resolved, error) {
	if o.Layout == CustomLayout {
		return impose.ResolveCustom(o.Columns, o.Rows)
	}
	return impose.Resolve(o.Layout)
}

// ResolveSheet returns the sheet size selected by the options,
// oriented landscape unless Portrait is set. Presets with a fixed
// sheet take precedence; Resolved.Job handles that, so the value here
// only applies to layouts without one.
func (o *Options) ResolveSheet() (impose.SheetSpec, error) {
	var size paper.Size
	if o.hasCustomPaper() {
		size = paper.Custom(o.PaperWidthMM, o.PaperHeightMM)
	} else {
		var err error
		size, err = paper.Lookup(o.Paper)
		if err != nil {
			return impose.SheetSpec{}, err
		}
	}
	if !o.Portrait {
		size = size.Landscape()
	}
	return impose.SheetSpec{Width: size.Width, Height: size.Height}, nil
}

// Margins returns the uniform margin policy selected by the options.
func (o *Options) Margins() impose.MarginPolicy {
	return impose.Uniform(units.MM(o.MarginMM))
}
