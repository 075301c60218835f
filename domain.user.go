package main

import "strings"

// User is a registered library member, keyed by the local part of the
// member's mail address.
type User struct {
	Account   string `json:"account"`
	Forename  string `json:"forename"`
	Surname   string `json:"surname"`
	Role      string `json:"role"`
	MayBorrow bool   `json:"may_borrow"`
}

// Validate trims the user and checks that the account is a
// syntactically valid mail local part and that the name fields
// are present.
func (u *User) Validate() error {
	u.Account = strings.TrimSpace(u.Account)
	u.Forename = strings.TrimSpace(u.Forename)
	u.Surname = strings.TrimSpace(u.Surname)
	u.Role = strings.TrimSpace(u.Role)
	if !IsValidMailLocalPart(u.Account) || u.Forename == "" || u.Surname == "" || u.Role == "" {
		return ErrInvalidUser
	}
	return nil
}

const mailLocalPartSpecials = "!#$%&'*+-/=?^_`{|}~."

// IsValidMailLocalPart reports whether s can stand before the @ of a
// mail address: unquoted atext characters with no leading, trailing or
// doubled dot.
func IsValidMailLocalPart(s string) bool {
	if s == "" || len(s) > 64 {
		return false
	}
	if strings.HasPrefix(s, ".") || strings.HasSuffix(s, ".") || strings.Contains(s, "..") {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case strings.ContainsRune(mailLocalPartSpecials, r):
		default:
			return false
		}
	}
	return true
}
