package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentMethod describes how a receipt is collected or paid.
type PaymentMethod struct {
	gorm.Model
	OwnerID     uint   `gorm:"index;uniqueIndex:uniq_owner_payment_code"`
	Code        string `gorm:"size:20;uniqueIndex:uniq_owner_payment_code"`
	Description string

	// Domiciled methods collect via a pre-authorized customer bank account.
	Domiciled bool
	// PrintBankDetails allows the printed document to show an account; a
	// method with this off never exposes bank data.
	PrintBankDetails bool `gorm:"not null;default:true"`
	// CompanyAccountID points at the company-owned BankAccount printed when
	// no customer account applies. 0 = none.
	CompanyAccountID uint
}

// Receipt is one collection row of a document.
type Receipt struct {
	gorm.Model
	OwnerID    uint `gorm:"index"`
	DocumentID uint `gorm:"index"`

	Number            string
	Amount            decimal.Decimal `sql:"type:decimal(20,8);"`
	DueDate           time.Time
	Paid              bool
	PaymentMethodCode string
}

// PaymentData is the payment snapshot one render resolves against: the
// methods by code plus every bank account on file for the owner. Loading it
// once keeps the resolver free of database round trips.
type PaymentData struct {
	methods  map[string]PaymentMethod
	accounts []BankAccount
}

// LoadPaymentData loads the owner's payment methods and bank accounts.
func (s *Store) LoadPaymentData(ownerID uint) (*PaymentData, error) {
	var methods []PaymentMethod
	if err := s.db.Where("owner_id = ?", ownerID).Find(&methods).Error; err != nil {
		return nil, err
	}
	var accounts []BankAccount
	if err := s.db.Where("owner_id = ?", ownerID).Find(&accounts).Error; err != nil {
		return nil, err
	}
	pd := &PaymentData{
		methods:  make(map[string]PaymentMethod, len(methods)),
		accounts: accounts,
	}
	for _, m := range methods {
		pd.methods[m.Code] = m
	}
	return pd, nil
}

// PaymentMethodByCode looks up a method by code.
func (pd *PaymentData) PaymentMethodByCode(code string) (*PaymentMethod, bool) {
	m, ok := pd.methods[code]
	if !ok {
		return nil, false
	}
	return &m, true
}

// BankAccountsForParty returns the accounts a party has on file.
func (pd *PaymentData) BankAccountsForParty(partyID uint) []BankAccount {
	if partyID == 0 {
		return nil
	}
	var out []BankAccount
	for _, a := range pd.accounts {
		if a.PartyID == partyID {
			out = append(out, a)
		}
	}
	return out
}

// CompanyBankAccount returns a company-owned account by id.
func (pd *PaymentData) CompanyBankAccount(id uint) (*BankAccount, bool) {
	for _, a := range pd.accounts {
		if a.ID == id && a.PartyID == 0 {
			return &a, true
		}
	}
	return nil, false
}

// SavePaymentMethod creates or updates a payment method.
func (s *Store) SavePaymentMethod(m *PaymentMethod, ownerID uint) error {
	if m.OwnerID != ownerID {
		return ErrNotAllowed
	}
	return s.db.Save(m).Error
}

// SaveBankAccount creates or updates a bank account.
func (s *Store) SaveBankAccount(a *BankAccount, ownerID uint) error {
	if a.OwnerID != ownerID {
		return ErrNotAllowed
	}
	return s.db.Save(a).Error
}

// LoadReceipts loads the receipts of a document ordered by due date.
func (s *Store) LoadReceipts(documentID uint, ownerID uint) ([]Receipt, error) {
	var receipts []Receipt
	err := s.db.Where("document_id = ? AND owner_id = ?", documentID, ownerID).
		Order("due_date ASC").
		Find(&receipts).Error
	return receipts, err
}

// SaveReceipt creates or updates a receipt.
func (s *Store) SaveReceipt(r *Receipt, ownerID uint) error {
	if r.OwnerID != ownerID {
		return ErrNotAllowed
	}
	return s.db.Save(r).Error
}
