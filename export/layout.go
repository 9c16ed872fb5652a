package export

// Vertical budget in page units (mm, A4). A new visual block never starts
// below the bottom reserve; a fresh page has its cursor above topFresh.
const (
	bottomReserve = 40.0
	topFresh      = 30.0
	lineHeight    = 5.0

	// single-tax short documents pin the subtotal block here so it sits at
	// the same height across documents
	taxFooterPinY = 190.0
)

// RenderContext carries the mutable state of one render invocation: the
// drawing primitive with its vertical cursor, the table width, whether the
// company header has been drawn on the current page, and the display
// currency. It is created at the start of Render, never shared across
// documents, and discarded at the end.
type RenderContext struct {
	drawer      Drawer
	formatter   NumberFormatter
	tableWidth  float64
	headerDrawn bool
	currency    string
}

// NewRenderContext builds the per-call state for one document render.
func NewRenderContext(d Drawer, f NumberFormatter, currency string) *RenderContext {
	return &RenderContext{
		drawer:     d,
		formatter:  f,
		tableWidth: d.PageWidth() - 20,
		currency:   currency,
	}
}

// NewPage opens a fresh page and clears the header-drawn flag so the company
// header is repeated at the top of the new page.
func (ctx *RenderContext) NewPage() {
	ctx.drawer.AddPage()
	ctx.headerDrawn = false
}

// EnsureSpace prepares the cursor for a new visual block. Two states only:
// if the cursor is inside the bottom reserve, a new page is started;
// otherwise, unless the cursor still sits near the top of a fresh page, a
// blank line separates the block from the previous one. Identical inputs
// behave identically. Reports whether a new page was started, so the caller
// can redraw per-page chrome.
func (ctx *RenderContext) EnsureSpace() bool {
	if ctx.drawer.Y() > ctx.drawer.PageHeight()-bottomReserve {
		ctx.NewPage()
		return true
	}
	if ctx.drawer.Y() > topFresh {
		ctx.drawer.Ln(lineHeight)
	}
	return false
}

// RenderTable hands rows and columns to the drawing primitive. Deciding
// which columns survive and how they are justified happened earlier; this
// is a plain delegation.
func (ctx *RenderContext) RenderTable(cols []TableColumn, rows []map[string]string, opts TableOptions) {
	ctx.drawer.Table(cols, rows, opts)
}

// RemoveEmptyColumns drops every column whose value is absent, "-", "0%" or
// equal to the caller's formatted-zero marker in all rows. A column with a
// single meaningful value survives. The order of the remaining columns is
// preserved.
func RemoveEmptyColumns(rows []map[string]string, cols []TableColumn, emptyMarker string) []TableColumn {
	out := make([]TableColumn, 0, len(cols))
	for _, col := range cols {
		empty := true
		for _, row := range rows {
			v, ok := row[col.Key]
			if !ok || v == "" || v == "-" || v == "0%" || v == emptyMarker {
				continue
			}
			empty = false
			break
		}
		if !empty {
			out = append(out, col)
		}
	}
	return out
}
