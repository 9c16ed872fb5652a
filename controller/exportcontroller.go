package controller

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/facturante/erp/export"
	"github.com/facturante/erp/model"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func (ctrl *controller) exportInit(e *echo.Echo) {
	g := e.Group("/documents")
	g.Use(ctrl.APIKeyAuthMiddleware())
	g.GET("/:id/pdf", ctrl.documentPDF)
	g.GET("/:id/xlsx", ctrl.documentXLSX)
	g.GET("/:id/xml", ctrl.documentXML)
	g.GET("/:id/preview.png", ctrl.documentPreview)
	g.POST("/:id/send", ctrl.documentSend)
}

func (ctrl *controller) loadDocumentParam(c echo.Context) (*model.Document, uint, error) {
	ownerID := apiOwnerID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return nil, 0, ErrInvalid(err, "invalid document id")
	}
	doc, err := ctrl.model.LoadDocument(uint(id), ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrNotFound(err)
		}
		return nil, 0, ErrInternal(err)
	}
	return doc, ownerID, nil
}

// buildRenderInput assembles everything one render needs. Lookups that fail
// leave their slot nil; the renderer degrades instead of failing.
func (ctrl *controller) buildRenderInput(doc *model.Document, ownerID uint) export.Input {
	in := export.Input{Document: doc}

	if party, err := ctrl.model.LoadParty(doc.PartyID, ownerID); err == nil {
		in.Party = party
	}
	if settings, err := ctrl.model.LoadSettings(ownerID); err == nil {
		in.Company = settings
	}
	if format, err := ctrl.model.LoadFormatForType(string(doc.Type), ownerID); err == nil {
		in.Format = format
	}
	if doc.ShippingContactID != 0 {
		if contact, err := ctrl.model.LoadContact(doc.ShippingContactID, ownerID); err == nil {
			in.Shipping = contact
		}
	}
	if carrier, ok := ctrl.model.CarrierByCode(doc.CarrierCode, ownerID); ok {
		in.Carrier = carrier
	}
	if receipts, err := ctrl.model.LoadReceipts(doc.ID, ownerID); err == nil {
		in.Receipts = receipts
	}
	if taxes, err := ctrl.model.LoadTaxSet(ownerID); err == nil {
		in.Taxes = taxes
	}
	if payments, err := ctrl.model.LoadPaymentData(ownerID); err == nil {
		in.Payments = payments
	}
	return in
}

// exportOrientation reads the requested page orientation, falling back to the
// one remembered in the session, then to the format default.
func (ctrl *controller) exportOrientation(c echo.Context, format *model.DocumentFormat) export.Orientation {
	o := c.QueryParam("orientation")
	if o == "" {
		o = GetSessionValue(c, "export_orientation")
	} else {
		_ = SetSessionValue(c, "export_orientation", o)
	}
	switch o {
	case "L", "landscape":
		return export.Landscape
	case "P", "portrait":
		return export.Portrait
	}
	if format != nil && format.Orientation == "L" {
		return export.Landscape
	}
	return export.Portrait
}

func (ctrl *controller) renderPDF(c echo.Context, doc *model.Document, ownerID uint) (*bytes.Buffer, error) {
	in := ctrl.buildRenderInput(doc, ownerID)
	drawer := export.NewPDFDrawer(ctrl.exportOrientation(c, in.Format))
	var buf bytes.Buffer
	if err := export.NewRenderer(drawer, in).Render(&buf); err != nil {
		return nil, ErrInternal(fmt.Errorf("render document %d: %w", doc.ID, err))
	}
	return &buf, nil
}

func (ctrl *controller) documentPDF(c echo.Context) error {
	doc, ownerID, err := ctrl.loadDocumentParam(c)
	if err != nil {
		return err
	}
	buf, err := ctrl.renderPDF(c, doc, ownerID)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, doc.Code+".pdf"))
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}

func (ctrl *controller) documentXLSX(c echo.Context) error {
	doc, _, err := ctrl.loadDocumentParam(c)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	headers := []string{"Position", "Reference", "Description", "Quantity", "Unit price", "Discount %", "Tax %", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for row, line := range doc.Lines {
		values := []any{
			line.Position,
			line.Reference,
			line.Description,
			line.Quantity.String(),
			line.UnitPrice.String(),
			line.Discount.String(),
			line.TaxRate.String(),
			line.Total.String(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return ErrInternal(fmt.Errorf("write xlsx for document %d: %w", doc.ID, err))
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, doc.Code+".xlsx"))
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (ctrl *controller) documentXML(c echo.Context) error {
	doc, ownerID, err := ctrl.loadDocumentParam(c)
	if err != nil {
		return err
	}
	path := ctrl.spoolPath("xml")
	defer os.Remove(path)
	if err := ctrl.model.CreateEInvoiceXML(doc, ownerID, path); err != nil {
		return ErrInvalid(err, "cannot create e-invoice XML for this document")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, doc.Code+".xml"))
	return c.File(path)
}

func (ctrl *controller) documentPreview(c echo.Context) error {
	doc, ownerID, err := ctrl.loadDocumentParam(c)
	if err != nil {
		return err
	}
	buf, err := ctrl.renderPDF(c, doc, ownerID)
	if err != nil {
		return err
	}

	pdfPath := ctrl.spoolPath("pdf")
	defer os.Remove(pdfPath)
	if err := os.WriteFile(pdfPath, buf.Bytes(), 0644); err != nil {
		return ErrInternal(err)
	}

	outDir := filepath.Dir(pdfPath)
	_, pngs, err := renderPDFToPNGs(pdfPath, outDir, 144, 1)
	if err != nil {
		return ErrInternal(fmt.Errorf("preview document %d: %w", doc.ID, err))
	}
	if len(pngs) == 0 {
		return ErrInternal(fmt.Errorf("no preview generated for document %d", doc.ID))
	}
	defer os.Remove(pngs[0])
	return c.File(pngs[0])
}

type sendDocumentReq struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (ctrl *controller) documentSend(c echo.Context) error {
	doc, ownerID, err := ctrl.loadDocumentParam(c)
	if err != nil {
		return err
	}
	var req sendDocumentReq
	if err := c.Bind(&req); err != nil {
		return ErrInvalid(err, "invalid payload")
	}
	if req.To == "" {
		if party, err := ctrl.model.LoadParty(doc.PartyID, ownerID); err == nil {
			req.To = party.Email
		}
	}
	if req.To == "" {
		return ErrInvalid(errors.New("no recipient"), "no recipient address")
	}
	if req.Subject == "" {
		req.Subject = doc.Type.Label() + " " + doc.Code
	}

	buf, err := ctrl.renderPDF(c, doc, ownerID)
	if err != nil {
		return err
	}
	if err := ctrl.sendEmail(req.To, req.Subject, req.Message, doc.Code+".pdf", buf.Bytes()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"sent": true, "to": req.To})
}

// spoolPath is a collision-free scratch file name in the export directory.
func (ctrl *controller) spoolPath(ext string) string {
	dir := ctrl.model.Config.ExportDir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, uuid.NewString()+"."+ext)
}
