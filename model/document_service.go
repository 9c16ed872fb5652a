// model/document_service.go
package model

import (
	"errors"
	"strconv"

	"gorm.io/gorm"
)

// DocumentListQuery captures filter, paging, and sorting options for listing
// documents.
type DocumentListQuery struct {
	Type    string // Optional: filter by document type ("invoice", "order", ...)
	PartyID uint   // Optional: restrict to a single party
	Limit   int    // Page size (1-200); defaults to 50 when out of range
	Cursor  string // Simple offset cursor encoded as a string: "0", "50", ...
	Sort    string // Sort mode: "date_desc" (default), "date_asc", "created_desc"
}

// ListDocuments returns a page of documents for the given owner along with
// the next cursor. Owner-scoped and safe to call repeatedly for pagination.
//
// Paging model:
//   - Uses an offset-based cursor encoded as a string (q.Cursor).
//   - Fetches Limit+1 rows to determine if there is a next page; if so,
//     trims to Limit and returns nextCursor = offset + Limit (as string).
func (s *Store) ListDocuments(ownerID uint, q DocumentListQuery) (items []Document, nextCursor string, err error) {
	if q.Limit <= 0 || q.Limit > 200 {
		q.Limit = 50
	}

	offset := 0
	if q.Cursor != "" {
		if n, e := strconv.Atoi(q.Cursor); e == nil && n >= 0 {
			offset = n
		}
	}

	db := s.db.Model(&Document{}).Where("owner_id = ?", ownerID)

	if q.Type != "" {
		db = db.Where("type = ?", q.Type)
	}
	if q.PartyID != 0 {
		db = db.Where("party_id = ?", q.PartyID)
	}

	switch q.Sort {
	case "date_asc":
		db = db.Order("date asc")
	case "created_desc":
		db = db.Order("created_at desc")
	default:
		db = db.Order("date desc")
	}

	var docs []Document
	if err = db.Offset(offset).Limit(q.Limit + 1).Find(&docs).Error; err != nil {
		return nil, "", err
	}

	if len(docs) > q.Limit {
		docs = docs[:q.Limit]
		nextCursor = strconv.Itoa(offset + q.Limit)
	}
	return docs, nextCursor, nil
}

// GetDocumentByOwner loads a single document header by id, ensuring it
// belongs to the given owner. Returns gorm.ErrRecordNotFound when the
// document does not exist within the owner scope.
func (s *Store) GetDocumentByOwner(ownerID uint, id uint) (*Document, error) {
	var doc Document
	if err := s.db.Where("owner_id = ?", ownerID).First(&doc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &doc, nil
}
