package model

import (
	"time"

	"gorm.io/gorm"
)

// DocumentFormat is the print configuration of one document type: title,
// orientation, logo, free footer text and the line-items column tree.
type DocumentFormat struct {
	gorm.Model
	OwnerID uint   `gorm:"index;uniqueIndex:uniq_owner_doctype"`
	DocType string `gorm:"size:20;uniqueIndex:uniq_owner_doctype"`

	Title       string
	FreeText    string
	LogoPath    string
	Orientation string `gorm:"size:1"` // "P" | "L"

	Columns []FormatColumn `gorm:"foreignKey:FormatID;references:ID;constraint:OnDelete:CASCADE"`
}

// FormatColumn is one node of a format's column tree. A node with kind
// "group" holds children via ParentID; leaf nodes carry the field they
// print.
type FormatColumn struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	FormatID uint `gorm:"index" json:"format_id"`
	OwnerID  uint `gorm:"index" json:"owner_id"`
	ParentID uint `json:"parent_id"` // 0 = top level

	Kind     string `gorm:"size:20" json:"kind"` // text|number|percentage|group
	Field    string `gorm:"size:30" json:"field"`
	Title    string `json:"title"`
	Hidden   bool   `json:"hidden"`
	Position int    `json:"position"`
}

func (FormatColumn) TableName() string { return "format_columns" }

// LoadFormatForType loads the print format of a document type, including its
// columns. Missing formats report gorm.ErrRecordNotFound.
func (s *Store) LoadFormatForType(docType string, ownerID uint) (*DocumentFormat, error) {
	var f DocumentFormat
	if err := s.db.Preload("Columns").
		Where("doc_type = ? AND owner_id = ?", docType, ownerID).
		First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// SaveFormat creates or updates a print format together with its columns.
func (s *Store) SaveFormat(f *DocumentFormat, ownerID uint) error {
	if f.OwnerID != ownerID {
		return ErrNotAllowed
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Save(f).Error
	})
}

// EnsureDefaultFormat makes sure a print format exists for the document type.
// It creates a missing one with the standard column set, but never modifies
// an existing format.
func (s *Store) EnsureDefaultFormat(docType string, title string, ownerID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&DocumentFormat{}).
			Where("doc_type = ? AND owner_id = ?", docType, ownerID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		f := DocumentFormat{
			OwnerID:     ownerID,
			DocType:     docType,
			Title:       title,
			Orientation: "P",
		}
		if err := tx.Create(&f).Error; err != nil {
			return err
		}
		defaults := []FormatColumn{
			{Kind: "text", Field: "reference", Title: "Reference"},
			{Kind: "text", Field: "description", Title: "Description"},
			{Kind: "number", Field: "quantity", Title: "Qty"},
			{Kind: "number", Field: "price", Title: "Price"},
			{Kind: "percentage", Field: "discount", Title: "Disc."},
			{Kind: "percentage", Field: "tax", Title: "Tax"},
			{Kind: "number", Field: "total", Title: "Total"},
		}
		for i := range defaults {
			defaults[i].FormatID = f.ID
			defaults[i].OwnerID = ownerID
			defaults[i].Position = i
		}
		return tx.Create(&defaults).Error
	})
}

// DeleteFormat deletes a print format (columns auto-delete via CASCADE).
func (s *Store) DeleteFormat(id, ownerID uint) error {
	return s.db.Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&DocumentFormat{}).Error
}
