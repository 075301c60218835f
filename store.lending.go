package main

import "time"

const deadlineLayout = "2006-01-02"

// The lending workflow is a small state machine over the borrower and
// reservation fields of a single book:
//
//	Available -> Borrowed -> Borrowed+Reserved -> Available
//
// A reservation always requires a current borrower; an available book
// is lent directly instead. All transitions run under the exclusive
// write guard of the surrounding AtomicStore and touch exactly one
// book plus, for Lend and Reserve, one user.

// Lend hands the book out to the user until deadline (YYYY-MM-DD).
// Lending a book again to its current borrower renews the loan. A
// reservation held by the requesting user is claimed and cleared,
// anyone else's reservation blocks the loan.
func (db *Database) Lend(id, account, deadline string) (Book, error) {
	book, err := db.Books.Fetch(id)
	if err != nil {
		return Book{}, err
	}
	user, err := db.Users.Fetch(account)
	if err != nil {
		return Book{}, err
	}
	if _, err := time.Parse(deadlineLayout, deadline); err != nil {
		return Book{}, ErrArguments
	}

	if !user.MayBorrow {
		return Book{}, ErrLendingUserMayNotBorrow
	}
	if !book.Borrowable {
		return Book{}, ErrLendingBookNotBorrowable
	}
	if book.Borrower != nil && book.Borrower.User != user.Account {
		return Book{}, ErrLendingBookAlreadyBorrowed
	}
	if book.Reservation != "" {
		if book.Reservation != user.Account {
			return Book{}, ErrLendingBookAlreadyReserved
		}
		// The reserver claims the hold.
		book.Reservation = ""
	}

	book.Borrower = &Borrower{User: user.Account, Deadline: deadline}
	db.Books[book.ID] = book
	return book, nil
}

// ReturnBook takes the book back and clears the loan.
func (db *Database) ReturnBook(id string) (Book, error) {
	book, err := db.Books.Fetch(id)
	if err != nil {
		return Book{}, err
	}
	if book.Borrower == nil {
		return Book{}, ErrLogic
	}
	book.Borrower = nil
	db.Books[book.ID] = book
	return book, nil
}

// Reserve places a hold on a currently borrowed book for the user.
func (db *Database) Reserve(id, account string) (Book, error) {
	book, err := db.Books.Fetch(id)
	if err != nil {
		return Book{}, err
	}
	user, err := db.Users.Fetch(account)
	if err != nil {
		return Book{}, err
	}

	if !user.MayBorrow {
		return Book{}, ErrLendingUserMayNotBorrow
	}
	if !book.Borrowable {
		return Book{}, ErrLendingBookNotBorrowable
	}
	if book.Reservation != "" {
		return Book{}, ErrLendingBookAlreadyReserved
	}
	if book.Borrower == nil {
		return Book{}, ErrLendingBookNotBorrowed
	}
	if book.Borrower.User == user.Account {
		return Book{}, ErrLendingBookAlreadyBorrowedByUser
	}

	book.Reservation = user.Account
	db.Books[book.ID] = book
	return book, nil
}

// Release removes the reservation from the book.
func (db *Database) Release(id string) (Book, error) {
	book, err := db.Books.Fetch(id)
	if err != nil {
		return Book{}, err
	}
	if book.Reservation == "" {
		return Book{}, ErrLogic
	}
	book.Reservation = ""
	db.Books[book.ID] = book
	return book, nil
}
