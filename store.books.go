package main

import (
	"fmt"
	"strconv"
	"strings"
)

// Books is the catalog collection, keyed by the display id of each
// book. All iteration happens in sorted key order so that searches and
// pagination stay deterministic.
type Books map[string]Book

// Fetch returns the book stored under id.
func (b Books) Fetch(id string) (Book, error) {
	book, ok := b[id]
	if !ok {
		return Book{}, ErrNothingFound
	}
	return book, nil
}

// Add validates the book and inserts it. The referenced category must
// exist, the id must be free.
func (b Books) Add(book Book, categories Categories) (Book, error) {
	if err := book.Validate(); err != nil {
		return book, err
	}
	if _, ok := categories[book.Category]; !ok {
		return book, ErrInvalidBook
	}
	if _, exists := b[book.ID]; exists {
		return book, ErrArguments
	}
	b[book.ID] = book
	return book, nil
}

// Update replaces the book stored under oldID. A changed id removes
// the old entry and re-inserts under the new key. Note that the old
// entry is already gone when the insert hits a duplicate id, the same
// known non-atomic rename edge the category and user collections have.
func (b Books) Update(oldID string, book Book, categories Categories) (Book, error) {
	if err := book.Validate(); err != nil {
		return book, err
	}
	if _, ok := categories[book.Category]; !ok {
		return book, ErrInvalidBook
	}
	if _, ok := b[oldID]; !ok {
		return book, ErrNothingFound
	}
	if oldID != book.ID {
		delete(b, oldID)
		if _, exists := b[book.ID]; exists {
			return book, ErrArguments
		}
	}
	b[book.ID] = book
	return book, nil
}

// Delete removes the book stored under id. Nothing references a book
// by id, so no cascade is needed.
func (b Books) Delete(id string) error {
	if _, ok := b[id]; !ok {
		return ErrNothingFound
	}
	delete(b, id)
	return nil
}

type bookMatch struct {
	score int
	title string
	book  Book
}

// Best match first, ties broken by lowercase title, then id.
func lessBookMatch(a, b bookMatch) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.title != b.title {
		return a.title < b.title
	}
	return a.book.ID < b.book.ID
}

// Search ranks the catalog against the whitespace separated query
// tokens. Every token must match somewhere on a book (title, id, isbn,
// publisher, note, authors, borrower or reservation account) for the
// book to qualify; a title prefix weighs 3, a title or id substring 2
// and any other field 1. It returns the total match count and the page
// [offset, offset+limit) of the ranked sequence. An empty query lists
// every book passing the category and state filters, ordered by title.
func (b Books) Search(query, category string, state BookState, offset, limit int) (int, []Book) {
	tokens := strings.Fields(strings.ToLower(query))
	queue := NewSorted[bookMatch](lessBookMatch)

	for _, id := range sortedKeys(b) {
		book := b[id]
		if category != "" && book.Category != category {
			continue
		}
		if !state.Matches(book) {
			continue
		}
		title := strings.ToLower(book.Title)
		if len(tokens) == 0 {
			queue.Push(bookMatch{score: 0, title: title, book: book})
			continue
		}
		score, ok := scoreBook(book, title, tokens)
		if !ok || score == 0 {
			continue
		}
		queue.Push(bookMatch{score: score, title: title, book: book})
	}

	total := queue.Len()
	books := make([]Book, 0, limit)
	for i := 0; queue.Len() > 0; i++ {
		match := queue.Pop()
		if i >= offset && i < offset+limit {
			books = append(books, match.book)
		}
	}
	return total, books
}

func scoreBook(book Book, title string, tokens []string) (int, bool) {
	borrower := ""
	if book.Borrower != nil {
		borrower = book.Borrower.User
	}
	score := 0
	for _, token := range tokens {
		switch {
		case strings.HasPrefix(title, token):
			score += 3
		case strings.Contains(title, token) || containsFold(book.ID, token):
			score += 2
		case containsFold(book.ISBN, token) ||
			containsFold(book.Publisher, token) ||
			containsFold(book.Note, token) ||
			containsFold(book.Authors, token) ||
			containsFold(borrower, token) ||
			containsFold(book.Reservation, token):
			score++
		default:
			return 0, false
		}
	}
	return score, true
}

func containsFold(s, lowerToken string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), lowerToken)
}

// GenerateID derives the display id for a book from its first author
// and category, e.g. "FANT ABED 1". Re-saving a book whose id already
// carries the derived prefix keeps the id unchanged; otherwise the
// next free numeric suffix among all books sharing the prefix is used.
func (b Books) GenerateID(book Book) string {
	author, _, _ := strings.Cut(book.Authors, ",")
	prefix := IDPrefix(author, book.Category)

	if rest, ok := strings.CutPrefix(book.ID, prefix+" "); ok && rest != "" {
		return book.ID
	}

	next := 1
	for id := range b {
		rest, ok := strings.CutPrefix(id, prefix+" ")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(rest); err == nil && n >= next {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s %d", prefix, next)
}

// IsUserReferenced reports whether any book references the account as
// borrower or reserver.
func (b Books) IsUserReferenced(account string) bool {
	for _, book := range b {
		if book.Borrower != nil && book.Borrower.User == account {
			return true
		}
		if book.Reservation == account && account != "" {
			return true
		}
	}
	return false
}

// UpdateUser cascades a user rename into the catalog. Borrower entries
// matching from are rewritten to the new account. Every existing
// reservation is rewritten to the new account as well, regardless of
// its previous holder; this mirrors the shipped behavior and is
// flagged for product review rather than silently changed.
func (b Books) UpdateUser(from, to string) {
	for id, book := range b {
		changed := false
		if book.Borrower != nil && book.Borrower.User == from {
			book.Borrower = &Borrower{User: to, Deadline: book.Borrower.Deadline}
			changed = true
		}
		if book.Reservation != "" && book.Reservation != to {
			book.Reservation = to
			changed = true
		}
		if changed {
			b[id] = book
		}
	}
}

// UpdateCategory cascades a category rename into the catalog.
func (b Books) UpdateCategory(from, to string) {
	for id, book := range b {
		if book.Category == from {
			book.Category = to
			b[id] = book
		}
	}
}

// InCategory counts the books referencing the category.
func (b Books) InCategory(id string) int {
	count := 0
	for _, book := range b {
		if book.Category == id {
			count++
		}
	}
	return count
}
