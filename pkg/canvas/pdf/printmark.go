package pdf

import (
	"fmt"

	"github.com/signintech/gopdf"
	qrcode "github.com/skip2/go-qrcode"
)

// DrawPrintMark renders a QR code into a reserved edge zone of the
// current sheet. The zone rect uses the same bottom-left coordinates as
// placements; the code is drawn square at the zone width and vertically
// centered in the zone.
func (w *Writer) DrawPrintMark(content string, x, y, width, height float64) error {
	if !w.started {
		return fmt.Errorf("print mark: no sheet begun")
	}

	side := width
	if height < side {
		side = height
	}
	if side <= 0 {
		return fmt.Errorf("print mark: zone %.2fx%.2fpt too small", width, height)
	}

	// Render at a fixed pixel size; the PDF placement scales it.
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encode print mark: %w", err)
	}
	holder, err := gopdf.ImageHolderByBytes(png)
	if err != nil {
		return fmt.Errorf("print mark image: %w", err)
	}

	markX := x + (width-side)/2
	markYTop := w.sheetHeight - (y + (height-side)/2) - side
	if err := w.pdf.ImageByHolder(holder, markX, markYTop, &gopdf.Rect{W: side, H: side}); err != nil {
		return fmt.Errorf("draw print mark: %w", err)
	}
	return nil
}
