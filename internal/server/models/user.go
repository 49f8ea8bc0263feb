// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account that owns vault entries.
//
// The two secret-bearing fields use deliberately different cryptographic
// treatments and must never be confused:
//
//   - PasswordHash is a one-way bcrypt hash of the login password. It can
//     verify a candidate password but never recover it.
//   - EncryptedMasterPassword is a reversible FieldCipher blob holding the
//     user's master password, recoverable given the process key. It may be
//     empty when no master password has been set.
type User struct {
	ID                      string
	UserName                string
	Email                   string
	PasswordHash            []byte
	EncryptedMasterPassword []byte
	CreatedAt               time.Time
}
