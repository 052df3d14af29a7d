// Package store keeps issued reset credentials, keyed by the recipient email.
//
// The legacy front-end kept these in browser localStorage; here they sit behind
// a small interface so the backend (in-memory for a single node, gorm for
// durability) can change without touching the tokens service.
package store

import "time"

// Record is one issued credential. At most one live record per email:
// Put replaces whatever was there.
type Record struct {
	Email    string
	Token    string
	IssuedAt time.Time
}

type CredentialStore interface {
	Put(email string, rec Record) error
	Get(email string) (Record, bool)
	Delete(email string)
}
