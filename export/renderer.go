// Package export implements the business-document export engine: it takes a
// document with its lines, taxes and party data and produces a paginated,
// printable representation through an external drawing primitive.
package export

import (
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/facturante/erp/model"
)

// Input bundles everything one render call needs. The document and its lines
// are read-only; all derived state lives in the per-call RenderContext.
// Party, Company, Format, Shipping, Carrier, Taxes and Payments may be nil;
// whatever cannot be resolved degrades to a placeholder instead of failing.
type Input struct {
	Document *model.Document
	Party    *model.Party
	Company  *model.Settings
	Format   *model.DocumentFormat
	Shipping *model.Contact
	Carrier  *model.Carrier
	Receipts []model.Receipt

	Taxes     TaxDescriber
	Payments  PaymentSource
	Formatter NumberFormatter

	// GeneratedAt is printed in the footer. Injected so identical inputs
	// render identically; zero means "now".
	GeneratedAt time.Time
}

// Renderer assembles header, line-items table, tax footer, payment block and
// free-text footer into a sequence of pages. One renderer serves exactly one
// render call.
type Renderer struct {
	in      Input
	ctx     *RenderContext
	taxRows map[TaxKey]*TaxRow
}

// NewRenderer prepares a render run against the given drawer.
func NewRenderer(d Drawer, in Input) *Renderer {
	if in.Formatter == nil {
		in.Formatter = PlainFormatter{}
	}
	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = time.Now()
	}
	return &Renderer{
		in:  in,
		ctx: NewRenderContext(d, in.Formatter, in.Document.Currency),
	}
}

// Render runs steps 1-8 in strict order and writes the finished artifact.
// The order may not change: the footer depends on the tax rows and table
// width established by the earlier steps. Only drawer errors propagate.
func (r *Renderer) Render(w io.Writer) error {
	r.InsertHeader()
	r.RenderIdentity()
	r.RenderShipping()
	r.RenderLines()
	r.RenderTaxFooter()
	r.RenderSubtotal()
	r.RenderReceipts()
	r.RenderFooterText()
	return r.ctx.drawer.Output(w)
}

// InsertHeader draws the company identity block and optional logo at the top
// of the current page. Within one page it is a no-op after the first call;
// NewPage clears the guard so the header repeats per page.
func (r *Renderer) InsertHeader() {
	if r.ctx.headerDrawn {
		return
	}
	r.ctx.headerDrawn = true
	if r.in.Company == nil {
		return
	}
	d := r.ctx.drawer
	if logo := r.logoPath(); logo != "" {
		d.Image(logo, d.PageWidth()-50, 10, 40)
	}
	d.Text(0, 0, r.in.Company.CompanyName, TextStyle{Size: 11, Bold: true})
	details := make([]string, 0, 2)
	if addr := ComposeAddress(settingsAddress(r.in.Company)); addr != "" {
		details = append(details, addr)
	}
	if r.in.Company.FiscalID != "" {
		details = append(details, "Fiscal ID: "+r.in.Company.FiscalID)
	}
	if len(details) > 0 {
		d.Text(0, 0, strings.Join(details, "\n"), TextStyle{Size: 8})
	}
	d.Ln(lineHeight)
}

// ensureSpace prepares the cursor for the next block and repeats the company
// header when the block overflowed onto a fresh page.
func (r *Renderer) ensureSpace() {
	if r.ctx.EnsureSpace() {
		r.InsertHeader()
	}
}

// logoPath resolves the header logo, first match wins: format override,
// company logo, none.
func (r *Renderer) logoPath() string {
	if r.in.Format != nil && r.in.Format.LogoPath != "" {
		return r.in.Format.LogoPath
	}
	if r.in.Company != nil && r.in.Company.LogoPath != "" {
		return r.in.Company.LogoPath
	}
	return ""
}

// RenderIdentity draws the document identity block: title, code, date, party
// data and exactly one of the rectification reference, supplier number,
// secondary number or series.
func (r *Renderer) RenderIdentity() {
	doc := r.in.Document
	d := r.ctx.drawer

	title := doc.Type.Label()
	if r.in.Format != nil && r.in.Format.Title != "" {
		title = r.in.Format.Title
	}
	d.Text(0, 0, title+" "+doc.Code, TextStyle{Size: 12, Bold: true})

	lines := []string{"Date: " + doc.Date.Format("2006-01-02")}
	if r.in.Party != nil {
		lines = append(lines, r.in.Party.Name)
		if addr := ComposeAddress(partyAddress(r.in.Party)); addr != "" {
			lines = append(lines, addr)
		}
		if r.in.Party.FiscalID != "" {
			lines = append(lines, "Fiscal ID: "+r.in.Party.FiscalID)
		}
	}
	if doc.Number != "" {
		lines = append(lines, "Number: "+doc.Number)
	}
	lines = append(lines, r.identityReference())
	d.Text(0, 0, strings.Join(lines, "\n"), TextStyle{})
}

// identityReference picks exactly one trailing identity field. The
// rectification reference wins over the supplier document number, which wins
// over the secondary number; the series shows only when none of the three
// apply.
func (r *Renderer) identityReference() string {
	doc := r.in.Document
	if doc.RectifiedCode != "" {
		s := "Original: " + doc.RectifiedCode
		if doc.RectifiedDate != nil {
			s += ", " + doc.RectifiedDate.Format("2006-01-02")
		}
		return s
	}
	if doc.SupplierDocNumber != "" {
		return "Supplier number: " + doc.SupplierDocNumber
	}
	if doc.SecondaryNumber != "" {
		return "Number 2: " + doc.SecondaryNumber
	}
	return "Series: " + doc.Series
}

// RenderShipping draws the shipping block when the goods go somewhere other
// than the billing address, or a carrier is set.
func (r *Renderer) RenderShipping() {
	if r.in.Shipping == nil && r.in.Carrier == nil {
		return
	}
	r.ensureSpace()
	d := r.ctx.drawer
	d.Text(0, 0, "Shipping", TextStyle{Bold: true})

	var lines []string
	if r.in.Shipping != nil {
		lines = append(lines, r.in.Shipping.Name)
		if addr := ComposeAddress(contactAddress(r.in.Shipping)); addr != "" {
			lines = append(lines, addr)
		}
	}
	if r.in.Carrier != nil {
		lines = append(lines, "Carrier: "+r.in.Carrier.Name)
	}
	if tc := r.in.Document.TrackingCode; tc != "" {
		lines = append(lines, "Tracking: "+tc)
	}
	if len(lines) > 0 {
		d.Text(0, 0, strings.Join(lines, "\n"), TextStyle{})
	}
}

// RenderLines draws the line-items table. Lines carrying the page-break flag
// flush the accumulated rows as one table and continue on a fresh page.
func (r *Renderer) RenderLines() {
	cols := r.columns()
	tcols := make([]TableColumn, len(cols))
	for i, c := range cols {
		w := 1.0
		if c.Field == "description" {
			w = 3
		}
		tcols[i] = TableColumn{Key: c.Field, Title: c.Title, Width: w, Align: c.Align()}
	}

	var rows []map[string]string
	flush := func() {
		if len(rows) == 0 {
			return
		}
		r.ctx.RenderTable(tcols, rows, TableOptions{HeaderFill: true})
		rows = nil
	}

	r.ensureSpace()
	doc := r.in.Document
	for i := range doc.Lines {
		line := &doc.Lines[i]
		if line.PageBreak && len(rows) > 0 {
			flush()
			r.ctx.NewPage()
			r.InsertHeader()
		}
		row := make(map[string]string, len(cols))
		for _, c := range cols {
			row[c.Field] = LineValue(line, c, r.in.Formatter)
		}
		rows = append(rows, row)
	}
	flush()
}

func (r *Renderer) columns() []Column {
	if r.in.Format != nil && len(r.in.Format.Columns) > 0 {
		if cols := ResolveColumns(r.in.Format.Columns); len(cols) > 0 {
			return cols
		}
	}
	return DefaultColumns()
}

func (r *Renderer) computeTaxRows() map[TaxKey]*TaxRow {
	if r.taxRows == nil {
		r.taxRows = ComputeTaxRows(
			r.in.Document.Lines,
			r.in.Document.DiscountFactor(),
			r.in.Taxes,
			r.in.Formatter,
		)
	}
	return r.taxRows
}

// RenderTaxFooter draws the tax breakdown table when more than one subtotal
// group exists. With a single group on a short document the cursor is pinned
// instead, so the subtotal block sits at the same height across documents.
func (r *Renderer) RenderTaxFooter() {
	rows := SortTaxRows(r.computeTaxRows())
	if len(rows) > 1 {
		f := r.in.Formatter
		cols := []TableColumn{
			{Key: "tax", Title: "Tax", Width: 2, Align: "L"},
			{Key: "base", Title: "Base", Align: "R"},
			{Key: "amount", Title: "Amount", Align: "R"},
			{Key: "surcharge", Title: "Surcharge", Align: "R"},
		}
		trows := make([]map[string]string, 0, len(rows))
		for _, row := range rows {
			trows = append(trows, map[string]string{
				"tax":       row.Label,
				"base":      f.Format(row.Base),
				"amount":    f.Format(row.Amount),
				"surcharge": f.Format(row.Surcharge),
			})
		}
		cols = RemoveEmptyColumns(trows, cols, f.Format(decimal.Zero))
		r.ensureSpace()
		r.ctx.RenderTable(cols, trows, TableOptions{Border: true, HeaderFill: true})
		return
	}
	if r.ctx.drawer.Y() < taxFooterPinY {
		r.ctx.drawer.SetY(taxFooterPinY)
	}
}

// RenderSubtotal draws the single global totals row. Columns that carry
// nothing (zero discounts, no surcharge, no withholding) are removed before
// the table reaches the drawer.
func (r *Renderer) RenderSubtotal() {
	doc := r.in.Document
	f := r.in.Formatter
	zero := f.Format(decimal.Zero)

	cols := []TableColumn{
		{Key: "currency", Title: "Currency", Align: "L"},
		{Key: "subtotal", Title: "Subtotal", Align: "R"},
		{Key: "discount", Title: "Disc. %", Align: "R"},
		{Key: "discount2", Title: "Disc.2 %", Align: "R"},
		{Key: "net", Title: "Net", Align: "R"},
		{Key: "taxes", Title: "Taxes", Align: "R"},
		{Key: "surcharge", Title: "Surcharge", Align: "R"},
		{Key: "withholding", Title: "Withholding", Align: "R"},
		{Key: "supplied", Title: "Supplied", Align: "R"},
		{Key: "total", Title: "Total", Align: "R"},
	}
	row := map[string]string{
		"currency":    f.CurrencyName(doc.Currency),
		"subtotal":    "-",
		"discount":    percent(doc.Discount1),
		"discount2":   percent(doc.Discount2),
		"net":         f.Format(doc.Net),
		"taxes":       f.Format(doc.TaxTotal),
		"surcharge":   f.Format(doc.SurchargeTotal),
		"withholding": f.Format(doc.WithholdingTotal),
		"supplied":    f.Format(doc.SuppliedTotal),
		"total":       f.Format(doc.Total),
	}
	// the pre-discount subtotal shows only when it differs from the net
	subtotal := r.lineSum()
	if !f.Round(subtotal).Equal(f.Round(doc.Net)) {
		row["subtotal"] = f.Format(subtotal)
	}

	rows := []map[string]string{row}
	cols = RemoveEmptyColumns(rows, cols, zero)
	r.ensureSpace()
	r.ctx.RenderTable(cols, rows, TableOptions{Border: true, HeaderFill: true})
}

// lineSum is the pre-discount subtotal: the plain sum of the non-supplied
// line totals.
func (r *Renderer) lineSum() decimal.Decimal {
	sum := decimal.Zero
	for i := range r.in.Document.Lines {
		if r.in.Document.Lines[i].Supplied {
			continue
		}
		sum = sum.Add(r.in.Document.Lines[i].Total)
	}
	return sum
}

// RenderReceipts draws one row per receipt for sales invoices, or a single
// payment-method line for every other document kind that carries a customer.
func (r *Renderer) RenderReceipts() {
	doc := r.in.Document
	f := r.in.Formatter
	if doc.Type == model.TypeInvoice && len(r.in.Receipts) > 0 {
		cols := []TableColumn{
			{Key: "receipt", Title: "Receipt", Align: "L"},
			{Key: "amount", Title: "Amount", Align: "R"},
			{Key: "due", Title: "Due date", Align: "R"},
			{Key: "payment", Title: "Payment", Width: 2, Align: "L"},
			{Key: "status", Title: "Status", Align: "L"},
		}
		rows := make([]map[string]string, 0, len(r.in.Receipts))
		for i := range r.in.Receipts {
			rec := &r.in.Receipts[i]
			status := "pending"
			if rec.Paid {
				status = "paid"
			}
			rows = append(rows, map[string]string{
				"receipt": rec.Number,
				"amount":  f.Format(rec.Amount),
				"due":     rec.DueDate.Format("2006-01-02"),
				"payment": r.paymentDescription(rec),
				"status":  status,
			})
		}
		r.ensureSpace()
		r.ctx.RenderTable(cols, rows, TableOptions{HeaderFill: true})
		return
	}
	if r.in.Party != nil && doc.PaymentMethodCode != "" {
		rec := &model.Receipt{PaymentMethodCode: doc.PaymentMethodCode}
		r.ensureSpace()
		r.ctx.drawer.Text(0, 0, "Payment method: "+r.paymentDescription(rec), TextStyle{})
	}
}

func (r *Renderer) paymentDescription(rec *model.Receipt) string {
	if r.in.Payments == nil {
		return rec.PaymentMethodCode
	}
	var partyID uint
	if r.in.Party != nil {
		partyID = r.in.Party.ID
	}
	return ResolvePayment(r.in.Payments, rec, partyID)
}

// RenderFooterText appends the format's free text, the document notes and
// the generation timestamp.
func (r *Renderer) RenderFooterText() {
	var parts []string
	if r.in.Format != nil && strings.TrimSpace(r.in.Format.FreeText) != "" {
		parts = append(parts, strings.TrimSpace(r.in.Format.FreeText))
	}
	if strings.TrimSpace(r.in.Document.Notes) != "" {
		parts = append(parts, strings.TrimSpace(r.in.Document.Notes))
	}
	if len(parts) > 0 {
		r.ensureSpace()
		r.ctx.drawer.Text(0, 0, strings.Join(parts, "\n"), TextStyle{})
	}
	r.ctx.drawer.Ln(lineHeight)
	r.ctx.drawer.Text(0, 0, "Generated on "+r.in.GeneratedAt.Format("2006-01-02 15:04"), TextStyle{Size: 7})
}

func partyAddress(p *model.Party) Address {
	return Address{
		Street:      p.Street,
		Apartment:   p.Apartment,
		Zip:         p.Zip,
		City:        p.City,
		Province:    p.Province,
		CountryCode: p.CountryCode,
	}
}

func contactAddress(c *model.Contact) Address {
	return Address{
		Street:      c.Street,
		Apartment:   c.Apartment,
		Zip:         c.Zip,
		City:        c.City,
		Province:    c.Province,
		CountryCode: c.CountryCode,
	}
}

func settingsAddress(s *model.Settings) Address {
	return Address{
		Street:      s.Street,
		Apartment:   s.Apartment,
		Zip:         s.Zip,
		City:        s.City,
		Province:    s.Province,
		CountryCode: s.CountryCode,
	}
}
