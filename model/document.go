package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DocumentType distinguishes the commercial document kinds.
type DocumentType string

const (
	TypeInvoice      DocumentType = "invoice"
	TypeOrder        DocumentType = "order"
	TypeDeliveryNote DocumentType = "delivery"
	TypeQuote        DocumentType = "quote"
)

// Label returns the printable document title.
func (t DocumentType) Label() string {
	switch t {
	case TypeInvoice:
		return "Invoice"
	case TypeOrder:
		return "Order"
	case TypeDeliveryNote:
		return "Delivery note"
	case TypeQuote:
		return "Quote"
	}
	return "Document"
}

// Document is one commercial document (invoice, order, delivery note,
// quote) with its ordered line items. The stored totals are authoritative;
// RecomputeTotals keeps them in sync with the lines.
type Document struct {
	gorm.Model
	OwnerID uint         `gorm:"index;index:idx_owner_type"`
	Type    DocumentType `gorm:"size:20;index:idx_owner_type"`

	Code     string `gorm:"index"`
	Number   string
	Series   string `gorm:"size:10"`
	Date     time.Time
	Currency string `gorm:"size:3"`

	PartyID           uint `gorm:"index"`
	ShippingContactID uint // 0 = ship to the billing address
	CarrierCode       string
	TrackingCode      string
	PaymentMethodCode string

	Discount1 decimal.Decimal `sql:"type:decimal(20,8);"`
	Discount2 decimal.Decimal `sql:"type:decimal(20,8);"`

	Net              decimal.Decimal `sql:"type:decimal(20,8);"`
	TaxTotal         decimal.Decimal `sql:"type:decimal(20,8);"`
	SurchargeTotal   decimal.Decimal `sql:"type:decimal(20,8);"`
	WithholdingTotal decimal.Decimal `sql:"type:decimal(20,8);"`
	SuppliedTotal    decimal.Decimal `sql:"type:decimal(20,8);"`
	Total            decimal.Decimal `sql:"type:decimal(20,8);"`

	// at most one of these shows on the printed identity block, see the
	// export package
	RectifiedCode     string
	RectifiedDate     *time.Time
	SupplierDocNumber string
	SecondaryNumber   string

	Notes string

	Lines []DocumentLine
}

// DocumentLine is one item row of a document.
type DocumentLine struct {
	ID         uint `gorm:"primarykey"`
	CreatedAt  time.Time
	OwnerID    uint
	DocumentID uint
	Position   int

	Reference   string
	Description string
	Quantity    decimal.Decimal `sql:"type:decimal(20,8);"`
	UnitPrice   decimal.Decimal `sql:"type:decimal(20,8);"`
	Discount    decimal.Decimal `sql:"type:decimal(20,8);"`
	Discount2   decimal.Decimal `sql:"type:decimal(20,8);"`
	Total       decimal.Decimal `sql:"type:decimal(20,8);"`

	TaxCode         string
	TaxRate         decimal.Decimal `sql:"type:decimal(20,8);"`
	SurchargeRate   decimal.Decimal `sql:"type:decimal(20,8);"`
	WithholdingRate decimal.Decimal `sql:"type:decimal(20,8);"`

	PageBreak    bool
	HideQuantity bool
	HidePrice    bool
	// Supplied lines are disbursed on behalf of the customer and never
	// enter the tax base.
	Supplied bool
}

func (DocumentLine) TableName() string { return "document_lines" }

var hundred = decimal.NewFromInt(100)
var one = decimal.NewFromInt(1)

// DiscountFactor is the multiplier the two sequential document discounts
// apply to every line total.
func (d *Document) DiscountFactor() decimal.Decimal {
	f := one.Sub(d.Discount1.Div(hundred))
	return f.Mul(one.Sub(d.Discount2.Div(hundred)))
}

// RecomputeTotals rebuilds the stored totals from the lines. Supplied lines
// stay out of the tax base and accumulate separately; withholding reduces
// the grand total.
func (d *Document) RecomputeTotals() {
	factor := d.DiscountFactor()
	net := decimal.Zero
	taxes := decimal.Zero
	surcharge := decimal.Zero
	withholding := decimal.Zero
	supplied := decimal.Zero

	for i := range d.Lines {
		line := &d.Lines[i]
		if line.Supplied {
			supplied = supplied.Add(line.Total)
			continue
		}
		lineNet := line.Total.Mul(factor)
		net = net.Add(lineNet)
		if line.TaxCode != "" {
			taxes = taxes.Add(lineNet.Mul(line.TaxRate).Div(hundred))
			surcharge = surcharge.Add(lineNet.Mul(line.SurchargeRate).Div(hundred))
		}
		withholding = withholding.Add(lineNet.Mul(line.WithholdingRate).Div(hundred))
	}

	d.Net = net.Round(2)
	d.TaxTotal = taxes.Round(2)
	d.SurchargeTotal = surcharge.Round(2)
	d.WithholdingTotal = withholding.Round(2)
	d.SuppliedTotal = supplied.Round(2)
	d.Total = d.Net.Add(d.TaxTotal).Add(d.SurchargeTotal).Sub(d.WithholdingTotal).Add(d.SuppliedTotal)
}

// SaveDocument saves a document and replaces all of its lines.
func (s *Store) SaveDocument(doc *Document, ownerID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if doc.OwnerID != ownerID {
			return fmt.Errorf("save document: ownerid mismatch")
		}
		if err := tx.Save(doc).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ? AND owner_id = ?", doc.ID, ownerID).
			Delete(&DocumentLine{}).Error; err != nil {
			return err
		}
		if len(doc.Lines) > 0 {
			for i := range doc.Lines {
				doc.Lines[i].ID = 0
				doc.Lines[i].DocumentID = doc.ID
				doc.Lines[i].OwnerID = ownerID
			}
			if err := tx.Omit("ID").Create(&doc.Lines).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadDocument loads a document with its lines, ordered by position, and
// refreshes the stored totals.
func (s *Store) LoadDocument(id any, ownerID uint) (*Document, error) {
	var doc Document
	result := s.db.Where("owner_id = ?", ownerID).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Where("owner_id = ?", ownerID).Order("document_lines.position ASC")
		}).
		First(&doc, id)
	if err := result.Error; err != nil {
		return nil, fmt.Errorf("load document %v: %w", id, err)
	}
	doc.RecomputeTotals()
	return &doc, nil
}

// DeleteDocument removes a document, its lines and its receipts.
func (s *Store) DeleteDocument(doc *Document, ownerID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ? AND owner_id = ?", doc.ID, ownerID).
			Delete(&DocumentLine{}).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ? AND owner_id = ?", doc.ID, ownerID).
			Delete(&Receipt{}).Error; err != nil {
			return err
		}
		return tx.Where("owner_id = ?", ownerID).Delete(doc).Error
	})
}
