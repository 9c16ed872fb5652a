package model

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Party is a customer or supplier with the address and payment data the
// export engine reads.
type Party struct {
	gorm.Model
	OwnerID uint   `gorm:"index"`
	Kind    string `gorm:"size:20"` // "customer" | "supplier"

	Name     string
	FiscalID string

	Street      string
	Apartment   string
	Zip         string
	City        string
	Province    string
	CountryCode string `gorm:"size:3"`

	Email             string
	PaymentMethodCode string

	BankAccounts []BankAccount
	Contacts     []Contact
}

// Contact is an alternative (shipping) address of a party.
type Contact struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	OwnerID   uint `gorm:"index"`
	PartyID   uint `gorm:"index"`

	Name        string
	Street      string
	Apartment   string
	Zip         string
	City        string
	Province    string
	CountryCode string `gorm:"size:3"`
}

// BankAccount belongs to a party, or to the company itself when PartyID is
// zero.
type BankAccount struct {
	gorm.Model
	OwnerID     uint `gorm:"index"`
	PartyID     uint `gorm:"index"` // 0 = company-owned account
	Description string
	IBAN        string
	Principal   bool
}

var ErrNotAllowed = fmt.Errorf("not allowed")

// SaveParty saves a party together with its bank accounts and contacts.
func (s *Store) SaveParty(p *Party, ownerID uint) error {
	if p.OwnerID != ownerID {
		return ErrNotAllowed
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Save(p).Error
	})
}

// LoadParty loads a party with its bank accounts and contacts.
func (s *Store) LoadParty(id any, ownerID any) (*Party, error) {
	if ownerID == nil {
		return nil, fmt.Errorf("ownerid is nil")
	}
	p := &Party{}
	result := s.db.
		Preload("BankAccounts", "owner_id = ?", ownerID).
		Preload("Contacts", "owner_id = ?", ownerID).
		First(p, "owner_id = ? AND id = ?", ownerID, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return p, nil
}

// LoadContact loads one shipping contact of a party.
func (s *Store) LoadContact(id uint, ownerID uint) (*Contact, error) {
	var c Contact
	if err := s.db.Where("owner_id = ?", ownerID).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func likeEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// FindPartiesWithText searches parties by name, case-insensitively.
func (s *Store) FindPartiesWithText(search string, ownerID uint) ([]*Party, error) {
	search = likeEscape(search)
	like := "%" + search + "%"
	var parties []*Party

	q := s.db.Preload("Contacts")

	switch s.db.Dialector.Name() {
	case "postgres":
		q = q.Where("owner_id = ? AND name ILIKE ? ESCAPE '\\'", ownerID, like)
	default: // sqlite, mysql/mariadb
		q = q.Where("owner_id = ? AND LOWER(name) LIKE LOWER(?) ESCAPE '\\'", ownerID, like)
	}

	err := q.Find(&parties).Error
	return parties, err
}
