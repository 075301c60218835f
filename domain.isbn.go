package main

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeISBN strips everything but digits and the X check
// character from s and validates the ISBN-10 or ISBN-13 checksum.
// It returns the canonical digit string and true on success. An
// invalid checksum returns the trimmed input and false: the ISBN is
// advisory, a bad one must not reject the book.
func NormalizeISBN(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	var digits []rune
	for _, r := range trimmed {
		if r >= '0' && r <= '9' || r == 'X' || r == 'x' {
			digits = append(digits, unicode.ToUpper(r))
		}
	}
	switch len(digits) {
	case 10:
		if isbn10Checksum(digits) {
			return string(digits), true
		}
	case 13:
		if isbn13Checksum(digits) {
			return string(digits), true
		}
	}
	return trimmed, false
}

// Weighted sum 1..10 mod 11, X counts as 10 in the last position.
func isbn10Checksum(digits []rune) bool {
	sum := 0
	for i, r := range digits {
		v := int(r - '0')
		if r == 'X' {
			if i != 9 {
				return false
			}
			v = 10
		}
		sum += (i + 1) * v
	}
	return sum%11 == 0
}

// Alternating 1/3 weights mod 10. X is not a valid ISBN-13 character.
func isbn13Checksum(digits []rune) bool {
	sum := 0
	for i, r := range digits {
		if r == 'X' {
			return false
		}
		v := int(r - '0')
		if i%2 == 1 {
			v *= 3
		}
		sum += v
	}
	return sum%10 == 0
}

const idPrefixFallback = "XXXX"

// IDPrefix derives the display id prefix for a book: the category id
// followed by the first four letters of the author's surname with
// diacritics folded away, e.g. ("Isabel Bäumer", "FANT") -> "FANT BAUM".
// Empty inputs fall back to "XXXX" on either side.
func IDPrefix(author, category string) string {
	author = strings.TrimSpace(author)
	if idx := strings.LastIndex(author, " "); idx >= 0 {
		author = author[idx+1:]
	}

	var folded []rune
	for _, r := range norm.NFD.String(author) {
		if len(folded) >= 4 {
			break
		}
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		if r == 'ß' {
			folded = append(folded, 'S')
			continue
		}
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			folded = append(folded, unicode.ToUpper(r))
		}
	}

	prefix := string(folded)
	if prefix == "" {
		prefix = idPrefixFallback
	}
	category = strings.TrimSpace(category)
	if category == "" {
		category = idPrefixFallback
	}
	return fmt.Sprintf("%s %s", category, prefix)
}
