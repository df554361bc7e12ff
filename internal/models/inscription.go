package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inscription is an enrollment record tied to a user. Validation is a
// one-way transition; a bearer token is only ever present on a validated
// record. Token expiry is never derived from the row, always from the
// token's own claims.
type Inscription struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"type:uuid;not null;index" json:"user_id"`

	Name     string `gorm:"not null" json:"name"`
	Lastname string `gorm:"not null" json:"lastname"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`

	Validated      bool       `gorm:"not null;default:false" json:"validated"`
	BearerToken    *string    `gorm:"type:text" json:"bearer_token,omitempty"`
	ValidationDate *time.Time `json:"validation_date,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate ensures a UUID is present before persisting.
func (i *Inscription) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

// HasToken reports whether a bearer token is stored on the record.
func (i *Inscription) HasToken() bool {
	return i.BearerToken != nil && *i.BearerToken != ""
}
