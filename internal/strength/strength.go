// Package strength classifies credentials: a pure strength check for a
// single password and an analyzer that flags weak or reused credentials
// across a user's decrypted vault.
package strength

import "unicode"

// IsStrong reports whether a password is strong: at least 8 characters with
// at least one uppercase letter, one lowercase letter, one digit and one
// symbol. Any rune that is not a letter, digit or underscore counts as a
// symbol; underscore itself does not.
func IsStrong(password string) bool {
	runes := []rune(password)
	if len(runes) < 8 {
		return false
	}

	var upper, lower, digit, symbol bool
	for _, r := range runes {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case r != '_' && !unicode.IsLetter(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// Credential is one decrypted username/password pair from a vault.
type Credential struct {
	Username string
	Password string
}

// Flagged is a Credential with its weakness verdict attached.
type Flagged struct {
	Credential
	IsWeak bool
}

// FlagWeak classifies every credential in a single user's vault. A credential
// is weak if its password fails IsStrong, if username equals password, or if
// its password or username also appears on another credential in the set.
// Output order matches input order.
func FlagWeak(creds []Credential) []Flagged {
	passwords := make(map[string]int, len(creds))
	usernames := make(map[string]int, len(creds))
	for _, c := range creds {
		passwords[c.Password]++
		usernames[c.Username]++
	}

	flagged := make([]Flagged, 0, len(creds))
	for _, c := range creds {
		weak := !IsStrong(c.Password) ||
			c.Username == c.Password ||
			passwords[c.Password] > 1 ||
			usernames[c.Username] > 1
		flagged = append(flagged, Flagged{Credential: c, IsWeak: weak})
	}
	return flagged
}
