package main

import "strings"

// Borrower holds the account of the current borrower of a book
// together with the due date of the loan.
type Borrower struct {
	User     string `json:"user"`
	Deadline string `json:"deadline"`
}

// Book represents a catalog entry. Borrower is nil while the book sits
// on the shelf. Reservation holds the account of the user who placed a
// hold on the book, empty when there is none.
type Book struct {
	ID          string    `json:"id"`
	ISBN        string    `json:"isbn"`
	Title       string    `json:"title"`
	Publisher   string    `json:"publisher"`
	Year        int       `json:"year"`
	Costs       float64   `json:"costs"`
	Note        string    `json:"note"`
	Borrowable  bool      `json:"borrowable"`
	Category    string    `json:"category"`
	Authors     string    `json:"authors"`
	Borrower    *Borrower `json:"borrower,omitempty"`
	Reservation string    `json:"reservation,omitempty"`
}

// Trim canonicalizes all text fields of the book in place.
func (b *Book) Trim() {
	b.ID = strings.TrimSpace(b.ID)
	b.ISBN = strings.TrimSpace(b.ISBN)
	b.Title = strings.TrimSpace(b.Title)
	b.Publisher = strings.TrimSpace(b.Publisher)
	b.Note = strings.TrimSpace(b.Note)
	b.Category = strings.TrimSpace(b.Category)
	b.Authors = strings.TrimSpace(b.Authors)
}

// Validate trims the book and checks the fields every catalog entry
// must carry. The ISBN is advisory and normalized on a best effort
// basis, an invalid checksum never rejects the book.
func (b *Book) Validate() error {
	b.Trim()
	if b.ID == "" || b.Title == "" {
		return ErrInvalidBook
	}
	b.ISBN, _ = NormalizeISBN(b.ISBN)
	return nil
}

// BookState filters search results by availability.
type BookState string

const (
	BookStateNone          BookState = ""
	BookStateBorrowable    BookState = "borrowable"
	BookStateNotBorrowable BookState = "not-borrowable"
	BookStateBorrowed      BookState = "borrowed"
	BookStateReserved      BookState = "reserved"
)

// ParseBookState maps a request parameter onto a state filter.
// Unknown values behave like no filter at all.
func ParseBookState(s string) BookState {
	switch BookState(strings.ToLower(strings.TrimSpace(s))) {
	case BookStateBorrowable:
		return BookStateBorrowable
	case BookStateNotBorrowable:
		return BookStateNotBorrowable
	case BookStateBorrowed:
		return BookStateBorrowed
	case BookStateReserved:
		return BookStateReserved
	}
	return BookStateNone
}

// Matches reports whether the book passes the state filter.
func (s BookState) Matches(b Book) bool {
	switch s {
	case BookStateBorrowable:
		return b.Borrowable
	case BookStateNotBorrowable:
		return !b.Borrowable
	case BookStateBorrowed:
		return b.Borrower != nil
	case BookStateReserved:
		return b.Reservation != ""
	}
	return true
}
