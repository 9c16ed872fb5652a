package export

import "io"

// Orientation selects the physical page orientation.
type Orientation string

const (
	Portrait  Orientation = "P"
	Landscape Orientation = "L"
)

// TableColumn describes one column as it is handed to the drawing primitive.
// Width is a relative weight; zero means an equal share.
type TableColumn struct {
	Key   string
	Title string
	Width float64
	Align string // "L" or "R"
}

// TableOptions tweak how the primitive draws a table.
type TableOptions struct {
	FontSize   float64
	HeaderFill bool
	Border     bool
}

// TextStyle tweaks a single text block.
type TextStyle struct {
	Size  float64
	Bold  bool
	Align string // "L", "C" or "R"
}

// Drawer is the external drawing primitive the renderer drives: page
// management, a vertical cursor and a handful of draw operations. Deciding
// what to draw and where to break pages is this package's job, not the
// drawer's. Implementations collect draw errors internally and report them
// from Output, so a failed image load surfaces there and nowhere else.
type Drawer interface {
	AddPage()
	PageWidth() float64
	PageHeight() float64
	Y() float64
	SetY(y float64)
	Ln(h float64)

	// Text draws a wrapped text block at horizontal position x with width w.
	// Zero w means the full content width.
	Text(x, w float64, s string, style TextStyle)
	Table(cols []TableColumn, rows []map[string]string, opts TableOptions)
	Image(path string, x, y, w float64)
	Line(x1, y1, x2, y2 float64)

	Output(w io.Writer) error
}
