// Package fixtures provides test builders and a throwaway database store for
// the model and export tests.
package fixtures

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/facturante/erp/model"
)

// DefaultOwnerID is the owner every fixture belongs to unless overridden.
const DefaultOwnerID uint = 1

// NewTestStore opens a fresh sqlite database in a temporary directory and
// migrates the schema. The database is removed with the test's temp dir.
func NewTestStore(t *testing.T) *model.Store {
	t.Helper()
	cfg := &model.Config{
		Mode: "test",
		Servers: map[string]model.Server{
			"test": {
				Database: "sqlite3",
				DBName:   filepath.Join(t.TempDir(), "test.db"),
				DBLogger: "silent",
			},
		},
	}
	store, err := model.InitDatabase(cfg)
	if err != nil {
		t.Fatalf("InitDatabase failed: %v", err)
	}
	return store
}

// DocumentOption mutates a document fixture.
type DocumentOption func(*model.Document)

// Document builds an invoice dated 2026-03-15 with recomputed totals.
func Document(opts ...DocumentOption) *model.Document {
	doc := &model.Document{
		OwnerID:  DefaultOwnerID,
		Type:     model.TypeInvoice,
		Code:     "F2026-001",
		Series:   "A",
		Date:     time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Currency: "EUR",
	}
	for _, opt := range opts {
		opt(doc)
	}
	doc.RecomputeTotals()
	return doc
}

func WithType(t model.DocumentType) DocumentOption {
	return func(d *model.Document) { d.Type = t }
}

func WithCode(code string) DocumentOption {
	return func(d *model.Document) { d.Code = code }
}

func WithPartyID(id uint) DocumentOption {
	return func(d *model.Document) { d.PartyID = id }
}

func WithDiscounts(d1, d2 float64) DocumentOption {
	return func(d *model.Document) {
		d.Discount1 = decimal.NewFromFloat(d1)
		d.Discount2 = decimal.NewFromFloat(d2)
	}
}

func WithPaymentMethod(code string) DocumentOption {
	return func(d *model.Document) { d.PaymentMethodCode = code }
}

func WithLines(lines ...model.DocumentLine) DocumentOption {
	return func(d *model.Document) { d.Lines = append(d.Lines, lines...) }
}

// Line builds a document line with the given position, description,
// quantity, unit price and tax rate. The line total is quantity times price.
func Line(pos int, desc string, qty, price, taxRate float64) model.DocumentLine {
	q := decimal.NewFromFloat(qty)
	p := decimal.NewFromFloat(price)
	return model.DocumentLine{
		OwnerID:     DefaultOwnerID,
		Position:    pos,
		Description: desc,
		Quantity:    q,
		UnitPrice:   p,
		Total:       q.Mul(p),
		TaxCode:     taxCodeForRate(taxRate),
		TaxRate:     decimal.NewFromFloat(taxRate),
	}
}

func taxCodeForRate(rate float64) string {
	switch rate {
	case 21:
		return "IVA21"
	case 10:
		return "IVA10"
	case 4:
		return "IVA4"
	case 0:
		return ""
	}
	return "IVA21"
}

// WithholdingLine is a line that additionally withholds income tax.
func WithholdingLine(pos int, desc string, qty, price, taxRate, withholding float64) model.DocumentLine {
	l := Line(pos, desc, qty, price, taxRate)
	l.WithholdingRate = decimal.NewFromFloat(withholding)
	return l
}

// SuppliedLine is a pass-through disbursement outside the tax base.
func SuppliedLine(pos int, desc string, amount float64) model.DocumentLine {
	l := Line(pos, desc, 1, amount, 0)
	l.Supplied = true
	return l
}

// SampleLines is three service lines at the standard rate.
func SampleLines() []model.DocumentLine {
	return []model.DocumentLine{
		Line(1, "Consulting", 8, 120, 21),
		Line(2, "Support", 2, 100, 21),
		Line(3, "Setup fee", 1, 500, 21),
	}
}

// PartyOption mutates a party fixture.
type PartyOption func(*model.Party)

// Party builds a customer with a full Spanish address.
func Party(opts ...PartyOption) *model.Party {
	p := &model.Party{
		OwnerID:     DefaultOwnerID,
		Kind:        "customer",
		Name:        "Acme SL",
		FiscalID:    "B12345678",
		Street:      "Calle Mayor 1",
		Zip:         "28001",
		City:        "Madrid",
		Province:    "Madrid",
		CountryCode: "ES",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func WithPartyName(name string) PartyOption {
	return func(p *model.Party) { p.Name = name }
}

func WithPartyPaymentMethod(code string) PartyOption {
	return func(p *model.Party) { p.PaymentMethodCode = code }
}

func WithBankAccounts(accounts ...model.BankAccount) PartyOption {
	return func(p *model.Party) { p.BankAccounts = append(p.BankAccounts, accounts...) }
}

// BankAccount builds an owner-scoped account; partyID 0 marks a company
// account.
func BankAccount(partyID uint, iban string, principal bool) model.BankAccount {
	return model.BankAccount{
		OwnerID:   DefaultOwnerID,
		PartyID:   partyID,
		IBAN:      iban,
		Principal: principal,
	}
}

// Settings builds the exporting company.
func Settings() *model.Settings {
	return &model.Settings{
		OwnerID:     DefaultOwnerID,
		CompanyName: "Facturante SL",
		FiscalID:    "B87654321",
		Street:      "Gran Via 10",
		Zip:         "28013",
		City:        "Madrid",
		Province:    "Madrid",
		CountryCode: "ES",
		BankIBAN:    "ES9121000418450200051332",
		BankName:    "Caixabank",
		BankBIC:     "CAIXESBBXXX",
	}
}

// SeedData is what SeedTestData persists for a test.
type SeedData struct {
	Settings *model.Settings
	Party    *model.Party
	Taxes    []model.Tax
	Methods  []model.PaymentMethod
}

// SeedTestData persists company settings, one customer, the standard tax
// catalog and two payment methods.
func SeedTestData(t *testing.T, store *model.Store) *SeedData {
	t.Helper()
	data := &SeedData{
		Settings: Settings(),
		Party:    Party(),
		Taxes: []model.Tax{
			{OwnerID: DefaultOwnerID, Code: "IVA21", Description: "VAT 21%", Rate: decimal.NewFromInt(21)},
			{OwnerID: DefaultOwnerID, Code: "IVA10", Description: "VAT 10%", Rate: decimal.NewFromInt(10)},
			{OwnerID: DefaultOwnerID, Code: "IVA4", Description: "VAT 4%", Rate: decimal.NewFromInt(4)},
		},
		Methods: []model.PaymentMethod{
			{OwnerID: DefaultOwnerID, Code: "TRANSFER", Description: "Bank transfer", PrintBankDetails: true},
			{OwnerID: DefaultOwnerID, Code: "DEBIT", Description: "Direct debit", Domiciled: true, PrintBankDetails: true},
		},
	}
	if err := store.SaveSettings(data.Settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	if err := store.SaveParty(data.Party, DefaultOwnerID); err != nil {
		t.Fatalf("SaveParty failed: %v", err)
	}
	for i := range data.Taxes {
		if err := store.SaveTax(&data.Taxes[i], DefaultOwnerID); err != nil {
			t.Fatalf("SaveTax failed: %v", err)
		}
	}
	for i := range data.Methods {
		if err := store.SavePaymentMethod(&data.Methods[i], DefaultOwnerID); err != nil {
			t.Fatalf("SavePaymentMethod failed: %v", err)
		}
	}
	return data
}
