package model

import "gorm.io/gorm"

// Settings contains the company data printed on exported documents.
type Settings struct {
	gorm.Model
	OwnerID uint `gorm:"uniqueIndex"`

	CompanyName string
	FiscalID    string

	Street      string
	Apartment   string
	Zip         string
	City        string
	Province    string
	CountryCode string

	Email    string
	Phone    string
	LogoPath string

	InvoiceContact string
	InvoiceEMail   string

	BankIBAN string
	BankName string
	BankBIC  string
}

// LoadSettings loads the company settings of an owner, initializing an empty
// record when none exists yet.
func (s *Store) LoadSettings(ownerID any) (*Settings, error) {
	c := &Settings{}
	result := s.db.FirstOrInit(c, "owner_id = ?", ownerID)
	return c, result.Error
}

// UpdateSettings updates the non-zero fields of the settings.
func (s *Store) UpdateSettings(set *Settings) error {
	return s.db.Model(set).Updates(set).Error
}

// SaveSettings saves the full settings record.
func (s *Store) SaveSettings(set *Settings) error {
	return s.db.Save(set).Error
}
