package model

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tax is one entry of the tax catalog.
type Tax struct {
	gorm.Model
	OwnerID     uint   `gorm:"index;uniqueIndex:uniq_owner_tax_code"`
	Code        string `gorm:"size:20;uniqueIndex:uniq_owner_tax_code"`
	Description string
	Rate        decimal.Decimal `sql:"type:decimal(20,8);"`
	Surcharge   decimal.Decimal `sql:"type:decimal(20,8);"`
}

// TaxSet indexes taxes by code for the lookups the export engine performs
// while grouping. It satisfies the export package's TaxDescriber.
type TaxSet map[string]Tax

// TaxDescription resolves a code to its display description; an unknown code
// or an empty description reports not found so callers fall back to the raw
// key.
func (ts TaxSet) TaxDescription(code string) (string, bool) {
	t, ok := ts[code]
	if !ok || t.Description == "" {
		return "", false
	}
	return t.Description, true
}

// LoadTaxSet loads the full tax catalog of an owner.
func (s *Store) LoadTaxSet(ownerID uint) (TaxSet, error) {
	var taxes []Tax
	if err := s.db.Where("owner_id = ?", ownerID).Find(&taxes).Error; err != nil {
		return nil, err
	}
	set := make(TaxSet, len(taxes))
	for _, t := range taxes {
		set[t.Code] = t
	}
	return set, nil
}

// SaveTax creates or updates a tax catalog entry.
func (s *Store) SaveTax(t *Tax, ownerID uint) error {
	if t.OwnerID != ownerID {
		return ErrNotAllowed
	}
	return s.db.Save(t).Error
}
