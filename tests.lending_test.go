package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newLendingDatabase seeds a catalog with one borrowable book and
// three users, one of which is blocked from borrowing.
func newLendingDatabase(t *testing.T) *Database {
	t.Helper()
	db := newTestDatabase()
	db.Users["sam.low"] = User{Account: "sam.low", Forename: "Sam", Surname: "Low", Role: "pupil", MayBorrow: false}
	book := Book{ID: "FANT DOE 1", Title: "Demo Title", Category: "FANT", Borrowable: true}
	_, err := db.Books.Add(book, db.Categories)
	require.NoError(t, err)
	return db
}

// TestLend covers the happy path and every refusal of the loan
// transition.
func TestLend(t *testing.T) {
	db := newLendingDatabase(t)

	book, err := db.Lend("FANT DOE 1", "john.doe", "2026-09-30")
	require.NoError(t, err)
	require.NotNil(t, book.Borrower)
	assert.Equal(t, "john.doe", book.Borrower.User)
	assert.Equal(t, "2026-09-30", book.Borrower.Deadline)

	// Renewal by the same borrower moves the deadline.
	book, err = db.Lend("FANT DOE 1", "john.doe", "2026-10-31")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-31", book.Borrower.Deadline)

	// Anyone else is refused while the loan runs.
	_, err = db.Lend("FANT DOE 1", "jane.roe", "2026-09-30")
	assert.ErrorIs(t, err, ErrLendingBookAlreadyBorrowed)

	_, err = db.Lend("FANT DOE 1", "john.doe", "30.09.2026")
	assert.ErrorIs(t, err, ErrArguments)

	_, err = db.Lend("missing", "john.doe", "2026-09-30")
	assert.ErrorIs(t, err, ErrNothingFound)
	_, err = db.Lend("FANT DOE 1", "missing", "2026-09-30")
	assert.ErrorIs(t, err, ErrNothingFound)
}

// TestLendRefusals covers the static guards on user and book.
func TestLendRefusals(t *testing.T) {
	db := newLendingDatabase(t)

	_, err := db.Lend("FANT DOE 1", "sam.low", "2026-09-30")
	assert.ErrorIs(t, err, ErrLendingUserMayNotBorrow)

	archived := Book{ID: "FANT DOE 2", Title: "Archived", Category: "FANT"}
	_, err = db.Books.Add(archived, db.Categories)
	require.NoError(t, err)
	_, err = db.Lend("FANT DOE 2", "john.doe", "2026-09-30")
	assert.ErrorIs(t, err, ErrLendingBookNotBorrowable)
}

// TestReturnBook ensures only a running loan can be returned.
func TestReturnBook(t *testing.T) {
	db := newLendingDatabase(t)
	_, err := db.ReturnBook("FANT DOE 1")
	assert.ErrorIs(t, err, ErrLogic)

	_, err = db.Lend("FANT DOE 1", "john.doe", "2026-09-30")
	require.NoError(t, err)

	book, err := db.ReturnBook("FANT DOE 1")
	require.NoError(t, err)
	assert.Nil(t, book.Borrower)
}

// TestReserve covers the full reservation workflow including the
// auto-claim when the reserver picks the book up.
func TestReserve(t *testing.T) {
	db := newLendingDatabase(t)

	// A book on the shelf is lent directly, never reserved.
	_, err := db.Reserve("FANT DOE 1", "jane.roe")
	assert.ErrorIs(t, err, ErrLendingBookNotBorrowed)

	_, err = db.Lend("FANT DOE 1", "john.doe", "2026-09-30")
	require.NoError(t, err)

	// The borrower holds the book already.
	_, err = db.Reserve("FANT DOE 1", "john.doe")
	assert.ErrorIs(t, err, ErrLendingBookAlreadyBorrowedByUser)

	book, err := db.Reserve("FANT DOE 1", "jane.roe")
	require.NoError(t, err)
	assert.Equal(t, "jane.roe", book.Reservation)

	// One hold at a time.
	_, err = db.Reserve("FANT DOE 1", "jane.roe")
	assert.ErrorIs(t, err, ErrLendingBookAlreadyReserved)

	// The reservation blocks everyone but its holder.
	_, err = db.ReturnBook("FANT DOE 1")
	require.NoError(t, err)
	_, err = db.Lend("FANT DOE 1", "john.doe", "2026-10-31")
	assert.ErrorIs(t, err, ErrLendingBookAlreadyReserved)

	// The reserver claims the hold, the reservation clears.
	book, err = db.Lend("FANT DOE 1", "jane.roe", "2026-10-31")
	require.NoError(t, err)
	assert.Equal(t, "", book.Reservation)
	assert.Equal(t, "jane.roe", book.Borrower.User)
}

// TestReserveRefusals covers the static guards on user and book.
func TestReserveRefusals(t *testing.T) {
	db := newLendingDatabase(t)
	_, err := db.Lend("FANT DOE 1", "john.doe", "2026-09-30")
	require.NoError(t, err)

	_, err = db.Reserve("FANT DOE 1", "sam.low")
	assert.ErrorIs(t, err, ErrLendingUserMayNotBorrow)
	_, err = db.Reserve("missing", "jane.roe")
	assert.ErrorIs(t, err, ErrNothingFound)
	_, err = db.Reserve("FANT DOE 1", "missing")
	assert.ErrorIs(t, err, ErrNothingFound)
}

// TestRelease ensures a hold can be dropped exactly once.
func TestRelease(t *testing.T) {
	db := newLendingDatabase(t)
	_, err := db.Release("FANT DOE 1")
	assert.ErrorIs(t, err, ErrLogic)

	_, err = db.Lend("FANT DOE 1", "john.doe", "2026-09-30")
	require.NoError(t, err)
	_, err = db.Reserve("FANT DOE 1", "jane.roe")
	require.NoError(t, err)

	book, err := db.Release("FANT DOE 1")
	require.NoError(t, err)
	assert.Equal(t, "", book.Reservation)

	_, err = db.Release("FANT DOE 1")
	assert.ErrorIs(t, err, ErrLogic)
}
