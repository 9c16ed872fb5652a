package export

import (
	"io"

	"github.com/phpdave11/gofpdf"
)

const baseFontSize = 9

// PDFDrawer implements Drawer on top of gofpdf. The underlying document
// collects draw errors (missing image files, unwritable output) and reports
// them at Output; nothing here retries or rewrites them.
type PDFDrawer struct {
	pdf *gofpdf.Fpdf
}

// NewPDFDrawer creates an A4 drawer in the given orientation, mm units,
// with the first page already open.
func NewPDFDrawer(o Orientation) *PDFDrawer {
	pdf := gofpdf.New(string(o), "mm", "A4", "")
	pdf.SetFont("Helvetica", "", baseFontSize)
	pdf.SetAutoPageBreak(false, 10)
	pdf.AddPage()
	return &PDFDrawer{pdf: pdf}
}

func (d *PDFDrawer) AddPage()       { d.pdf.AddPage() }
func (d *PDFDrawer) Y() float64     { return d.pdf.GetY() }
func (d *PDFDrawer) SetY(y float64) { d.pdf.SetY(y) }
func (d *PDFDrawer) Ln(h float64)   { d.pdf.Ln(h) }

func (d *PDFDrawer) PageWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	return w
}

func (d *PDFDrawer) PageHeight() float64 {
	_, h := d.pdf.GetPageSize()
	return h
}

func (d *PDFDrawer) contentWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	left, _, right, _ := d.pdf.GetMargins()
	return w - left - right
}

func (d *PDFDrawer) Text(x, w float64, s string, style TextStyle) {
	fontStyle := ""
	if style.Bold {
		fontStyle = "B"
	}
	size := style.Size
	if size == 0 {
		size = baseFontSize
	}
	align := style.Align
	if align == "" {
		align = "L"
	}
	d.pdf.SetFont("Helvetica", fontStyle, size)
	if x > 0 {
		d.pdf.SetX(x)
	}
	if w == 0 {
		w = d.contentWidth()
	}
	d.pdf.MultiCell(w, 5, s, "", align, false)
	d.pdf.SetFont("Helvetica", "", baseFontSize)
}

func (d *PDFDrawer) Table(cols []TableColumn, rows []map[string]string, opts TableOptions) {
	if len(cols) == 0 {
		return
	}
	size := opts.FontSize
	if size == 0 {
		size = 8
	}

	total := 0.0
	for _, c := range cols {
		if c.Width > 0 {
			total += c.Width
		} else {
			total++
		}
	}
	avail := d.contentWidth()
	widths := make([]float64, len(cols))
	for i, c := range cols {
		weight := c.Width
		if weight <= 0 {
			weight = 1
		}
		widths[i] = avail * weight / total
	}

	border := ""
	if opts.Border {
		border = "1"
	}

	d.pdf.SetFont("Helvetica", "B", size)
	if opts.HeaderFill {
		d.pdf.SetFillColor(230, 230, 230)
	}
	for i, c := range cols {
		d.pdf.CellFormat(widths[i], 6, c.Title, border, 0, c.Align, opts.HeaderFill, 0, "")
	}
	d.pdf.Ln(-1)

	d.pdf.SetFont("Helvetica", "", size)
	for _, row := range rows {
		for i, c := range cols {
			d.pdf.CellFormat(widths[i], 5, row[c.Key], border, 0, c.Align, false, 0, "")
		}
		d.pdf.Ln(-1)
	}
	d.pdf.SetFont("Helvetica", "", baseFontSize)
}

func (d *PDFDrawer) Image(path string, x, y, w float64) {
	d.pdf.ImageOptions(path, x, y, w, 0, false, gofpdf.ImageOptions{ReadDpi: true}, 0, "")
}

func (d *PDFDrawer) Line(x1, y1, x2, y2 float64) {
	d.pdf.Line(x1, y1, x2, y2)
}

func (d *PDFDrawer) Output(w io.Writer) error {
	return d.pdf.Output(w)
}
