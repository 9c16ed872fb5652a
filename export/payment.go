package export

import (
	"sort"
	"strings"

	"github.com/facturante/erp/model"
)

// PaymentNotFound is printed when a receipt references an unknown payment
// method.
const PaymentNotFound = "not found"

// PaymentSource provides the lookups the resolver chain needs. The model's
// PaymentData snapshot satisfies it.
type PaymentSource interface {
	PaymentMethodByCode(code string) (*model.PaymentMethod, bool)
	BankAccountsForParty(partyID uint) []model.BankAccount
	CompanyBankAccount(id uint) (*model.BankAccount, bool)
}

// ResolvePayment returns the printable payment description for a receipt.
// The precedence is a strict chain of early returns evaluated top to bottom:
// unknown method, bank details suppressed, direct debit against the
// customer's account, the method's company account, bare description.
// Exactly one branch fires and the function always returns a string.
func ResolvePayment(src PaymentSource, r *model.Receipt, partyID uint) string {
	method, ok := src.PaymentMethodByCode(r.PaymentMethodCode)
	if !ok {
		return PaymentNotFound
	}
	if !method.PrintBankDetails {
		return method.Description
	}
	if method.Domiciled {
		accounts := src.BankAccountsForParty(partyID)
		if len(accounts) > 0 {
			// principal accounts first, otherwise keep stored order
			sort.SliceStable(accounts, func(i, j int) bool {
				return accounts[i].Principal && !accounts[j].Principal
			})
			return method.Description + " : " + MaskIBAN(accounts[0].IBAN)
		}
	}
	if method.CompanyAccountID != 0 {
		if acc, ok := src.CompanyBankAccount(method.CompanyAccountID); ok && strings.TrimSpace(acc.IBAN) != "" {
			return method.Description + " : " + MaskIBAN(acc.IBAN)
		}
	}
	return method.Description
}

// MaskIBAN hides everything but the last four characters of an account
// number.
func MaskIBAN(iban string) string {
	iban = strings.ReplaceAll(strings.TrimSpace(iban), " ", "")
	if len(iban) <= 4 {
		return iban
	}
	return strings.Repeat("*", len(iban)-4) + iban[len(iban)-4:]
}
