package model

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrTokenInvalid  = errors.New("api token invalid")
	ErrTokenNotFound = errors.New("api token not found")
	ErrTokenDisabled = errors.New("api token disabled")
	ErrTokenExpired  = errors.New("api token expired")
)

// APIToken authenticates API callers. Only a prefix and a bcrypt hash are
// stored; the plaintext token leaves CreateAPIToken exactly once.
type APIToken struct {
	gorm.Model
	OwnerID     uint   `gorm:"index;not null"`
	TokenPrefix string `gorm:"size:16;index;not null"`
	TokenHash   string `gorm:"size:80;not null"`

	Name       string `gorm:"size:100"`
	Scope      string `gorm:"size:200"`
	ExpiresAt  *time.Time
	LastUsedAt *time.Time
	Disabled   bool `gorm:"not null;default:false"`
}

func (APIToken) TableName() string { return "api_tokens" }

func makeToken() (plain, prefix, hash string, err error) {
	randBytes := make([]byte, 32)
	if _, e := rand.Read(randBytes); e != nil {
		return "", "", "", e
	}
	plain = base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(randBytes)
	if len(plain) < 8 {
		return "", "", "", errors.New("token generation failed")
	}
	prefix = plain[:8]

	h, e := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if e != nil {
		return "", "", "", e
	}
	hash = string(h)
	return
}

// CreateAPIToken creates a token record and returns its plaintext exactly
// once. The prefix allows lookup without storing the full token.
func (s *Store) CreateAPIToken(ownerID uint, name, scope string, expiresAt *time.Time) (plain string, rec *APIToken, err error) {
	plain, prefix, hash, err := makeToken()
	if err != nil {
		return "", nil, err
	}
	rec = &APIToken{
		OwnerID:     ownerID,
		TokenPrefix: prefix,
		TokenHash:   hash,
		Name:        name,
		Scope:       scope,
		ExpiresAt:   expiresAt,
	}
	if err = s.db.Create(rec).Error; err != nil {
		return "", nil, err
	}
	return plain, rec, nil
}

// ValidateAPIToken verifies a raw token: prefix lookup, bcrypt comparison,
// disabled and expiry checks. The last-used timestamp update is best effort.
func (s *Store) ValidateAPIToken(raw string) (*APIToken, error) {
	if len(raw) < 12 {
		return nil, ErrTokenInvalid
	}
	prefix := raw[:8]

	var rec APIToken
	if err := s.db.Where("token_prefix = ?", prefix).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(rec.TokenHash), []byte(raw)) != nil {
		return nil, ErrTokenInvalid
	}
	if rec.Disabled {
		return nil, ErrTokenDisabled
	}
	if rec.ExpiresAt != nil && time.Now().After(*rec.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	_ = s.db.Model(&APIToken{}).Where("id = ?", rec.ID).Update("last_used_at", time.Now()).Error
	return &rec, nil
}

// RevokeAPIToken disables a token. Owner-scoped.
func (s *Store) RevokeAPIToken(ownerID, tokenID uint) error {
	return s.db.Model(&APIToken{}).
		Where("id = ? AND owner_id = ?", tokenID, ownerID).
		Update("disabled", true).Error
}

// ListAPITokensByOwner returns a page of tokens, most recent first, with an
// offset cursor like ListDocuments.
func (s *Store) ListAPITokensByOwner(ownerID uint, limit int, cursor string) ([]APIToken, string, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := 0
	if cursor != "" {
		if n, err := strconv.Atoi(cursor); err == nil && n >= 0 {
			offset = n
		}
	}

	var rows []APIToken
	if err := s.db.Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Offset(offset).Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, "", err
	}

	next := ""
	if len(rows) > limit {
		rows = rows[:limit]
		next = strconv.Itoa(offset + limit)
	}
	return rows, next, nil
}
