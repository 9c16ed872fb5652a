package model_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/facturante/erp/fixtures"
	"github.com/facturante/erp/model"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRecomputeTotals(t *testing.T) {
	tests := []struct {
		name            string
		doc             *model.Document
		net             string
		taxes           string
		surcharge       string
		withholding     string
		supplied        string
		total           string
	}{
		{
			name: "single standard-rate line",
			doc: fixtures.Document(fixtures.WithLines(
				fixtures.Line(1, "Consulting", 1, 100, 21),
			)),
			net: "100", taxes: "21", surcharge: "0", withholding: "0", supplied: "0", total: "121",
		},
		{
			name: "mixed rates accumulate per line",
			doc: fixtures.Document(fixtures.WithLines(
				fixtures.Line(1, "Standard", 1, 100, 21),
				fixtures.Line(2, "Reduced", 1, 50, 10),
			)),
			net: "150", taxes: "26", surcharge: "0", withholding: "0", supplied: "0", total: "176",
		},
		{
			name: "document discounts scale the base before tax",
			doc: fixtures.Document(
				fixtures.WithDiscounts(10, 0),
				fixtures.WithLines(fixtures.Line(1, "Consulting", 1, 100, 21)),
			),
			net: "90", taxes: "18.9", surcharge: "0", withholding: "0", supplied: "0", total: "108.9",
		},
		{
			name: "two discounts compound",
			doc: fixtures.Document(
				fixtures.WithDiscounts(10, 10),
				fixtures.WithLines(fixtures.Line(1, "Consulting", 1, 100, 0)),
			),
			net: "81", taxes: "0", surcharge: "0", withholding: "0", supplied: "0", total: "81",
		},
		{
			name: "withholding reduces the grand total",
			doc: fixtures.Document(fixtures.WithLines(
				fixtures.WithholdingLine(1, "Services", 1, 100, 21, 15),
			)),
			net: "100", taxes: "21", surcharge: "0", withholding: "15", supplied: "0", total: "106",
		},
		{
			name: "supplied lines bypass the tax base entirely",
			doc: fixtures.Document(
				fixtures.WithDiscounts(50, 0),
				fixtures.WithLines(
					fixtures.Line(1, "Taxed", 1, 100, 21),
					fixtures.SuppliedLine(2, "Registry fee", 40),
				),
			),
			// the 50% discount does not touch the supplied amount
			net: "50", taxes: "10.5", surcharge: "0", withholding: "0", supplied: "40", total: "100.5",
		},
		{
			name: "untaxed line contributes net but no tax",
			doc: fixtures.Document(fixtures.WithLines(
				fixtures.Line(1, "Exempt", 1, 100, 0),
			)),
			net: "100", taxes: "0", surcharge: "0", withholding: "0", supplied: "0", total: "100",
		},
		{
			name: "no lines",
			doc:  fixtures.Document(),
			net:  "0", taxes: "0", surcharge: "0", withholding: "0", supplied: "0", total: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := tt.doc
			checks := []struct {
				field string
				got   decimal.Decimal
				want  string
			}{
				{"net", doc.Net, tt.net},
				{"taxes", doc.TaxTotal, tt.taxes},
				{"surcharge", doc.SurchargeTotal, tt.surcharge},
				{"withholding", doc.WithholdingTotal, tt.withholding},
				{"supplied", doc.SuppliedTotal, tt.supplied},
				{"total", doc.Total, tt.total},
			}
			for _, c := range checks {
				if !c.got.Equal(dec(c.want)) {
					t.Errorf("%s = %s, want %s", c.field, c.got, c.want)
				}
			}
		})
	}
}

func TestRecomputeTotals_SurchargeNeedsTaxCode(t *testing.T) {
	line := fixtures.Line(1, "Retail", 1, 100, 21)
	line.SurchargeRate = dec("5.2")
	doc := fixtures.Document(fixtures.WithLines(line))

	if !doc.SurchargeTotal.Equal(dec("5.2")) {
		t.Errorf("surcharge = %s, want 5.2", doc.SurchargeTotal)
	}

	// without a tax code the surcharge rate is inert
	bare := fixtures.Line(1, "Exempt", 1, 100, 0)
	bare.SurchargeRate = dec("5.2")
	doc = fixtures.Document(fixtures.WithLines(bare))
	if !doc.SurchargeTotal.IsZero() {
		t.Errorf("surcharge = %s, want 0 without a tax code", doc.SurchargeTotal)
	}
}

func TestDiscountFactor(t *testing.T) {
	tests := []struct {
		d1, d2 float64
		want   string
	}{
		{0, 0, "1"},
		{10, 0, "0.9"},
		{0, 10, "0.9"},
		{10, 10, "0.81"},
		{100, 0, "0"},
	}
	for _, tt := range tests {
		doc := fixtures.Document(fixtures.WithDiscounts(tt.d1, tt.d2))
		if got := doc.DiscountFactor(); !got.Equal(dec(tt.want)) {
			t.Errorf("DiscountFactor(%v, %v) = %s, want %s", tt.d1, tt.d2, got, tt.want)
		}
	}
}

func TestSaveLoadDocument(t *testing.T) {
	store := fixtures.NewTestStore(t)

	doc := fixtures.Document(fixtures.WithLines(fixtures.SampleLines()...))
	if err := store.SaveDocument(doc, fixtures.DefaultOwnerID); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}
	if doc.ID == 0 {
		t.Fatal("document got no id")
	}

	loaded, err := store.LoadDocument(doc.ID, fixtures.DefaultOwnerID)
	if err != nil {
		t.Fatalf("LoadDocument failed: %v", err)
	}
	if loaded.Code != "F2026-001" {
		t.Errorf("code = %q, want F2026-001", loaded.Code)
	}
	if len(loaded.Lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(loaded.Lines))
	}
	for i, line := range loaded.Lines {
		if line.Position != i+1 {
			t.Errorf("line %d position = %d, want %d", i, line.Position, i+1)
		}
	}
	if !loaded.Total.Equal(doc.Total) {
		t.Errorf("total = %s, want %s", loaded.Total, doc.Total)
	}
}

func TestSaveDocumentReplacesLines(t *testing.T) {
	store := fixtures.NewTestStore(t)

	doc := fixtures.Document(fixtures.WithLines(fixtures.SampleLines()...))
	if err := store.SaveDocument(doc, fixtures.DefaultOwnerID); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}

	doc.Lines = []model.DocumentLine{fixtures.Line(1, "Replacement", 1, 10, 21)}
	doc.RecomputeTotals()
	if err := store.SaveDocument(doc, fixtures.DefaultOwnerID); err != nil {
		t.Fatalf("second SaveDocument failed: %v", err)
	}

	loaded, err := store.LoadDocument(doc.ID, fixtures.DefaultOwnerID)
	if err != nil {
		t.Fatalf("LoadDocument failed: %v", err)
	}
	if len(loaded.Lines) != 1 {
		t.Fatalf("lines = %d, want the replacement only", len(loaded.Lines))
	}
	if loaded.Lines[0].Description != "Replacement" {
		t.Errorf("description = %q, want Replacement", loaded.Lines[0].Description)
	}
}

func TestSaveDocumentOwnerMismatch(t *testing.T) {
	store := fixtures.NewTestStore(t)

	doc := fixtures.Document()
	if err := store.SaveDocument(doc, 2); err == nil {
		t.Fatal("SaveDocument accepted a foreign owner")
	}
}

func TestLoadDocumentOwnerScope(t *testing.T) {
	store := fixtures.NewTestStore(t)

	doc := fixtures.Document()
	if err := store.SaveDocument(doc, fixtures.DefaultOwnerID); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}

	if _, err := store.LoadDocument(doc.ID, 2); err == nil {
		t.Fatal("LoadDocument leaked across owners")
	}
	if _, err := store.GetDocumentByOwner(2, doc.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetDocumentByOwner = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestListDocuments(t *testing.T) {
	store := fixtures.NewTestStore(t)

	for i := 0; i < 5; i++ {
		doc := fixtures.Document(fixtures.WithCode(fmt.Sprintf("F2026-%03d", i+1)))
		doc.Date = time.Date(2026, 3, i+1, 0, 0, 0, 0, time.UTC)
		if i >= 3 {
			doc.Type = model.TypeQuote
		}
		if err := store.SaveDocument(doc, fixtures.DefaultOwnerID); err != nil {
			t.Fatalf("SaveDocument failed: %v", err)
		}
	}

	t.Run("default sort is date descending", func(t *testing.T) {
		items, next, err := store.ListDocuments(fixtures.DefaultOwnerID, model.DocumentListQuery{})
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(items) != 5 || next != "" {
			t.Fatalf("items = %d, next = %q, want 5 and no cursor", len(items), next)
		}
		if items[0].Code != "F2026-005" {
			t.Errorf("first item = %q, want the latest date", items[0].Code)
		}
	})

	t.Run("type filter", func(t *testing.T) {
		items, _, err := store.ListDocuments(fixtures.DefaultOwnerID, model.DocumentListQuery{Type: "quote"})
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(items) != 2 {
			t.Fatalf("items = %d, want 2 quotes", len(items))
		}
	})

	t.Run("cursor walks the pages", func(t *testing.T) {
		q := model.DocumentListQuery{Limit: 2, Sort: "date_asc"}
		items, next, err := store.ListDocuments(fixtures.DefaultOwnerID, q)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(items) != 2 || next != "2" {
			t.Fatalf("page 1: items = %d, next = %q", len(items), next)
		}
		if items[0].Code != "F2026-001" {
			t.Errorf("page 1 first = %q, want the earliest date", items[0].Code)
		}

		q.Cursor = next
		items, next, err = store.ListDocuments(fixtures.DefaultOwnerID, q)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(items) != 2 || next != "4" {
			t.Fatalf("page 2: items = %d, next = %q", len(items), next)
		}

		q.Cursor = next
		items, next, err = store.ListDocuments(fixtures.DefaultOwnerID, q)
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(items) != 1 || next != "" {
			t.Fatalf("page 3: items = %d, next = %q, want the last item", len(items), next)
		}
	})

	t.Run("foreign owner sees nothing", func(t *testing.T) {
		items, _, err := store.ListDocuments(99, model.DocumentListQuery{})
		if err != nil {
			t.Fatalf("ListDocuments failed: %v", err)
		}
		if len(items) != 0 {
			t.Fatalf("items = %d, want 0", len(items))
		}
	})
}

func TestDeleteDocument(t *testing.T) {
	store := fixtures.NewTestStore(t)

	doc := fixtures.Document(fixtures.WithLines(fixtures.SampleLines()...))
	if err := store.SaveDocument(doc, fixtures.DefaultOwnerID); err != nil {
		t.Fatalf("SaveDocument failed: %v", err)
	}
	rec := &model.Receipt{
		OwnerID:    fixtures.DefaultOwnerID,
		DocumentID: doc.ID,
		Number:     "1",
		Amount:     doc.Total,
		DueDate:    doc.Date.AddDate(0, 1, 0),
	}
	if err := store.SaveReceipt(rec, fixtures.DefaultOwnerID); err != nil {
		t.Fatalf("SaveReceipt failed: %v", err)
	}

	if err := store.DeleteDocument(doc, fixtures.DefaultOwnerID); err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}

	if _, err := store.LoadDocument(doc.ID, fixtures.DefaultOwnerID); err == nil {
		t.Fatal("document still loadable after delete")
	}
	receipts, err := store.LoadReceipts(doc.ID, fixtures.DefaultOwnerID)
	if err != nil {
		t.Fatalf("LoadReceipts failed: %v", err)
	}
	if len(receipts) != 0 {
		t.Fatalf("receipts = %d, want 0 after delete", len(receipts))
	}
}

func TestDocumentTypeLabel(t *testing.T) {
	tests := []struct {
		typ  model.DocumentType
		want string
	}{
		{model.TypeInvoice, "Invoice"},
		{model.TypeOrder, "Order"},
		{model.TypeDeliveryNote, "Delivery note"},
		{model.TypeQuote, "Quote"},
		{model.DocumentType("weird"), "Document"},
	}
	for _, tt := range tests {
		if got := tt.typ.Label(); got != tt.want {
			t.Errorf("Label(%s) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}
