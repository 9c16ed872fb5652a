package model

import "gorm.io/gorm"

// Carrier is a shipping company referenced by delivery documents.
type Carrier struct {
	gorm.Model
	OwnerID uint   `gorm:"index;uniqueIndex:uniq_owner_carrier_code"`
	Code    string `gorm:"size:20;uniqueIndex:uniq_owner_carrier_code"`
	Name    string
}

// CarrierByCode looks up a carrier by code. A missing carrier is not an
// error; exports simply skip the carrier line.
func (s *Store) CarrierByCode(code string, ownerID uint) (*Carrier, bool) {
	if code == "" {
		return nil, false
	}
	var c Carrier
	if err := s.db.Where("code = ? AND owner_id = ?", code, ownerID).
		First(&c).Error; err != nil {
		return nil, false
	}
	return &c, true
}

// SaveCarrier creates or updates a carrier.
func (s *Store) SaveCarrier(c *Carrier, ownerID uint) error {
	if c.OwnerID != ownerID {
		return ErrNotAllowed
	}
	return s.db.Save(c).Error
}
