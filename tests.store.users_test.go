package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUsersAdd ensures validation and account uniqueness.
func TestUsersAdd(t *testing.T) {
	db := NewDatabase()
	user := User{Account: "john.doe", Forename: "John", Surname: "Doe", Role: "pupil", MayBorrow: true}

	_, err := db.Users.Add(user)
	assert.NoError(t, err)
	_, err = db.Users.Add(user)
	assert.ErrorIs(t, err, ErrArguments)

	_, err = db.Users.Add(User{Account: "bad account", Forename: "John", Surname: "Doe", Role: "pupil"})
	assert.ErrorIs(t, err, ErrInvalidUser)
}

// TestUsersDeleteGuard ensures an account referenced by a loan or a
// reservation cannot be removed.
func TestUsersDeleteGuard(t *testing.T) {
	db := newTestDatabase()
	book := Book{ID: "FANT DOE 1", Title: "Demo Title", Category: "FANT", Borrower: &Borrower{User: "john.doe", Deadline: "2026-09-01"}}
	_, err := db.Books.Add(book, db.Categories)
	require.NoError(t, err)

	assert.ErrorIs(t, db.Users.Delete("john.doe", db.Books), ErrReferencedUser)

	require.NoError(t, db.Books.Delete("FANT DOE 1"))
	assert.NoError(t, db.Users.Delete("john.doe", db.Books))
	assert.ErrorIs(t, db.Users.Delete("john.doe", db.Books), ErrNothingFound)
}

// TestUsersRenameCascade ensures an account rename rewrites the
// borrower references in the catalog.
func TestUsersRenameCascade(t *testing.T) {
	db := newTestDatabase()
	book := Book{ID: "FANT DOE 1", Title: "Demo Title", Category: "FANT", Borrower: &Borrower{User: "john.doe", Deadline: "2026-09-01"}}
	_, err := db.Books.Add(book, db.Categories)
	require.NoError(t, err)

	renamed := User{Account: "john.new", Forename: "John", Surname: "Doe", Role: "pupil", MayBorrow: true}
	_, err = db.Users.Update("john.doe", renamed, db.Books)
	require.NoError(t, err)

	_, err = db.Users.Fetch("john.doe")
	assert.ErrorIs(t, err, ErrNothingFound)
	got, err := db.Books.Fetch("FANT DOE 1")
	require.NoError(t, err)
	assert.Equal(t, "john.new", got.Borrower.User)
}

// TestUsersSearchTiers ensures prefix matches come before account
// substrings before matches on the remaining fields, with the
// pagination window shared across the tiers.
func TestUsersSearchTiers(t *testing.T) {
	db := NewDatabase()
	for _, user := range []User{
		{Account: "anna.smith", Forename: "Anna", Surname: "Smith", Role: "teacher", MayBorrow: true},
		{Account: "ann.jones", Forename: "Ann", Surname: "Jones", Role: "pupil", MayBorrow: true},
		{Account: "jo.hanna", Forename: "Jo", Surname: "Hanna", Role: "pupil", MayBorrow: true},
		{Account: "mark.twain", Forename: "Hannah", Surname: "Arendt", Role: "pupil", MayBorrow: false},
		{Account: "zoe.lane", Forename: "Zoe", Surname: "Lane", Role: "pupil", MayBorrow: true},
	} {
		_, err := db.Users.Add(user)
		require.NoError(t, err)
	}

	total, page := db.Users.Search("ann", nil, 0, DefaultSearchLimit)
	require.Equal(t, 4, total)
	require.Len(t, page, 4)
	// Tier 1: account prefix, in account order.
	assert.Equal(t, "ann.jones", page[0].Account)
	assert.Equal(t, "anna.smith", page[1].Account)
	// Tier 2: account substring.
	assert.Equal(t, "jo.hanna", page[2].Account)
	// Tier 3: forename match.
	assert.Equal(t, "mark.twain", page[3].Account)

	// may_borrow narrows the scan before tiering.
	total, page = db.Users.Search("ann", boolPtr(true), 0, DefaultSearchLimit)
	assert.Equal(t, 3, total)
	require.Len(t, page, 3)
	assert.Equal(t, "jo.hanna", page[2].Account)
}

// TestUsersSearchPagination pins the shared match counter across the
// tiers: the window slices the scan order, not the tiered page order.
func TestUsersSearchPagination(t *testing.T) {
	db := NewDatabase()
	for _, user := range []User{
		{Account: "ann.jones", Forename: "Ann", Surname: "Jones", Role: "pupil", MayBorrow: true},
		{Account: "jo.hanna", Forename: "Jo", Surname: "Hanna", Role: "pupil", MayBorrow: true},
		{Account: "zz.top", Forename: "Hanns", Surname: "Eisler", Role: "pupil", MayBorrow: true},
	} {
		_, err := db.Users.Add(user)
		require.NoError(t, err)
	}

	// Scan order: ann.jones (tier 1), jo.hanna (tier 2), zz.top
	// (tier 3). The window [1, 3) keeps the last two.
	total, page := db.Users.Search("ann", nil, 1, 2)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "jo.hanna", page[0].Account)
	assert.Equal(t, "zz.top", page[1].Account)
}

// TestUsersUpdateRoles ensures a bulk role update clears every role
// first and ignores unknown accounts.
func TestUsersUpdateRoles(t *testing.T) {
	db := NewDatabase()
	for _, user := range []User{
		{Account: "john.doe", Forename: "John", Surname: "Doe", Role: "pupil", MayBorrow: true},
		{Account: "jane.roe", Forename: "Jane", Surname: "Roe", Role: "teacher", MayBorrow: true},
	} {
		_, err := db.Users.Add(user)
		require.NoError(t, err)
	}

	db.Users.UpdateRoles(map[string]string{
		"john.doe": "teacher",
		"ghost":    "teacher",
	})

	john, _ := db.Users.Fetch("john.doe")
	assert.Equal(t, "teacher", john.Role)
	jane, _ := db.Users.Fetch("jane.roe")
	assert.Equal(t, "", jane.Role)
	_, err := db.Users.Fetch("ghost")
	assert.ErrorIs(t, err, ErrNothingFound)
}

func boolPtr(b bool) *bool { return &b }
