package models

import "time"

// PasswordReset is the durable form of a reset credential when the gorm store
// backend is enabled. One live row per email: issuing again replaces the row.
//
// The token is stored as issued (it is already opaque); validity is decided by
// the tokens service, not by the database.
type PasswordReset struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Email     string     `gorm:"not null;unique_index" json:"email"`
	Token     string     `gorm:"not null" json:"-"`
	IssuedAt  time.Time  `gorm:"not null" json:"issued_at"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
