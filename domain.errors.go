package main

import "errors"

// Typed outcomes of the catalog operations. The api layer maps these
// to http status codes, the store itself never panics on them.
var (
	ErrNothingFound       = errors.New("no matching record found")
	ErrArguments          = errors.New("invalid arguments")
	ErrInvalidBook        = errors.New("invalid book record")
	ErrInvalidUser        = errors.New("invalid user record")
	ErrReferencedCategory = errors.New("category is still referenced by books")
	ErrReferencedUser     = errors.New("user is still referenced as borrower or reserver")
	ErrLogic              = errors.New("operation not applicable in current state")
)

// Lending preconditions. Each transition of the lending workflow
// reports the exact guard it tripped over.
var (
	ErrLendingUserMayNotBorrow        = errors.New("lending: user may not borrow")
	ErrLendingBookNotBorrowable       = errors.New("lending: book is not borrowable")
	ErrLendingBookAlreadyBorrowed     = errors.New("lending: book is already borrowed")
	ErrLendingBookAlreadyBorrowedByUser = errors.New("lending: book is already borrowed by this user")
	ErrLendingBookAlreadyReserved     = errors.New("lending: book is already reserved")
	ErrLendingBookNotBorrowed         = errors.New("lending: book is not borrowed")
)
