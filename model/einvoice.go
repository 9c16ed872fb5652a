package model

import (
	"fmt"
	"os"
	"strings"

	"github.com/biter777/countries"
	"github.com/speedata/einvoice"
)

// countryAlpha2 maps a stored country code to the two letter alpha code the
// e-invoice schema expects.
func countryAlpha2(code string) string {
	c := countries.ByName(code)
	if c == countries.Unknown {
		return "ES" // default
	}
	return c.Alpha2()
}

func filterEmpty(ss ...string) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CreateEInvoiceXML writes the EN 16931 XML rendition of an invoice to path.
// Only sales invoices can be exported this way.
func (s *Store) CreateEInvoiceXML(doc *Document, ownerID uint, path string) error {
	if doc.Type != TypeInvoice {
		return fmt.Errorf("einvoice export: document %d is a %s, not an invoice", doc.ID, doc.Type)
	}
	settings, err := s.LoadSettings(ownerID)
	if err != nil {
		return err
	}
	party, err := s.LoadParty(doc.PartyID, ownerID)
	if err != nil {
		return err
	}
	receipts, err := s.LoadReceipts(doc.ID, ownerID)
	if err != nil {
		return err
	}

	// dots separate the note fragments, the viewer turns them into line breaks
	text := strings.TrimSpace(strings.Join(filterEmpty(doc.Notes), "·"))

	zi := einvoice.Invoice{
		InvoiceNumber:       doc.Code,
		InvoiceTypeCode:     380,
		Profile:             einvoice.CProfileEN16931,
		InvoiceDate:         doc.Date,
		InvoiceCurrencyCode: doc.Currency,
		TaxCurrencyCode:     doc.Currency,
		Notes: []einvoice.Note{{
			Text: text,
		}},
		Seller: einvoice.Party{
			Name:              settings.CompanyName,
			VATaxRegistration: settings.FiscalID,
			PostalAddress: &einvoice.PostalAddress{
				Line1:        settings.Street,
				Line2:        settings.Apartment,
				City:         settings.City,
				PostcodeCode: settings.Zip,
				CountryID:    countryAlpha2(settings.CountryCode),
			},
			DefinedTradeContact: []einvoice.DefinedTradeContact{{
				PersonName: settings.InvoiceContact,
				EMail:      settings.InvoiceEMail,
			}},
		},
		Buyer: einvoice.Party{
			Name:              party.Name,
			VATaxRegistration: party.FiscalID,
			PostalAddress: &einvoice.PostalAddress{
				Line1:        party.Street,
				Line2:        party.Apartment,
				City:         party.City,
				PostcodeCode: party.Zip,
				CountryID:    countryAlpha2(party.CountryCode),
			},
		},
		PaymentMeans: []einvoice.PaymentMeans{
			{
				TypeCode:                                      30,
				PayeePartyCreditorFinancialAccountIBAN:        settings.BankIBAN,
				PayeePartyCreditorFinancialAccountName:        settings.BankName,
				PayeeSpecifiedCreditorFinancialInstitutionBIC: settings.BankBIC,
			},
		},
	}
	for _, rec := range receipts {
		zi.SpecifiedTradePaymentTerms = append(zi.SpecifiedTradePaymentTerms,
			einvoice.SpecifiedTradePaymentTerms{DueDate: rec.DueDate})
	}

	factor := doc.DiscountFactor()
	for _, line := range doc.Lines {
		if line.Supplied {
			continue
		}
		li := einvoice.InvoiceLine{
			LineID:                   fmt.Sprintf("%d", line.Position),
			ItemName:                 line.Description,
			BilledQuantity:           line.Quantity,
			NetPrice:                 line.UnitPrice,
			TaxRateApplicablePercent: line.TaxRate,
			Total:                    line.Total.Mul(factor),
			TaxTypeCode:              "VAT",
			TaxCategoryCode:          "S",
		}
		zi.InvoiceLines = append(zi.InvoiceLines, li)
	}
	zi.UpdateApplicableTradeTax(nil)
	zi.UpdateTotals()

	var sb strings.Builder
	if err := zi.Write(&sb); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(sb.String()), 0644)
}
