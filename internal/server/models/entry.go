package models

import "time"

// Entry is the encrypted-at-rest representation of one stored credential.
// Website, Username and Password are FieldCipher blobs (nonce||ciphertext);
// the plaintext never touches the database. OwnerID is immutable after
// creation, and an entry is only reachable through its owner.
type Entry struct {
	ID        string
	OwnerID   string
	Website   []byte
	Username  []byte
	Password  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DecryptedEntry is the plaintext view of an Entry, produced on demand by
// the vault service. It exists only in memory.
type DecryptedEntry struct {
	ID       string
	OwnerID  string
	Website  string
	Username string
	Password string
}

// EntryWithStrength is a search result: the decrypted entry plus the
// computed strength label ("strong" or "weak").
type EntryWithStrength struct {
	DecryptedEntry
	Strength string
}
