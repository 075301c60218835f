package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestLibrary wires a library service onto a fresh store and a
// recording queue.
func newTestLibrary(t *testing.T) (LibraryProvider, *AtomicStore, *[]AuditEvent) {
	t.Helper()
	store := newTestStore(t)
	events := &[]AuditEvent{}
	queue := &MockQueuer{
		PushFunc: func(_ context.Context, qid string, event AuditEvent) error {
			*events = append(*events, event)
			return nil
		},
	}
	library := NewLibraryService(zap.NewNop(), nil, NewMockClocker(), NewMockUIDHandler("fixed", true), store, queue)
	return library, store, events
}

// seedTestLibrary inserts the category and users every scenario needs.
func seedTestLibrary(t *testing.T, library LibraryProvider) {
	t.Helper()
	ctx := context.TODO()
	_, err := library.AddCategory(ctx, Category{ID: "FANT", Name: "Fantasy", Section: "General"})
	require.NoError(t, err)
	_, err = library.AddUser(ctx, User{Account: "john.doe", Forename: "John", Surname: "Doe", Role: "pupil", MayBorrow: true})
	require.NoError(t, err)
	_, err = library.AddUser(ctx, User{Account: "jane.roe", Forename: "Jane", Surname: "Roe", Role: "teacher", MayBorrow: true})
	require.NoError(t, err)
}

// TestLibraryServiceBookLifecycle walks a book through the service
// layer and checks every mutation lands on disk and in the audit
// queue.
func TestLibraryServiceBookLifecycle(t *testing.T) {
	library, store, events := newTestLibrary(t)
	seedTestLibrary(t, library)
	ctx := context.TODO()

	// An empty id is derived on insert.
	book, err := library.AddBook(ctx, Book{Title: "Demo Title", Category: "FANT", Authors: "Isabel Abedi", Borrowable: true})
	require.NoError(t, err)
	assert.Equal(t, "FANT ABED 1", book.ID)

	id, err := library.GenerateBookID(ctx, book)
	require.NoError(t, err)
	assert.Equal(t, "FANT ABED 1", id)

	book.Note = "first edition"
	book, err = library.UpdateBook(ctx, book.ID, book)
	require.NoError(t, err)

	got, err := library.GetBook(ctx, "FANT ABED 1")
	require.NoError(t, err)
	assert.Equal(t, "first edition", got.Note)

	// The mutation survived the write guard close.
	loaded, err := LoadStore(store.Path())
	require.NoError(t, err)
	read := loaded.Read()
	assert.Equal(t, "first edition", read.DB().Books["FANT ABED 1"].Note)
	read.Close()

	require.NoError(t, library.DeleteBook(ctx, "FANT ABED 1"))
	_, err = library.GetBook(ctx, "FANT ABED 1")
	assert.ErrorIs(t, err, ErrNothingFound)

	kinds := make([]string, 0, len(*events))
	for _, event := range *events {
		kinds = append(kinds, event.Kind)
	}
	assert.Contains(t, kinds, AuditBookCreated)
	assert.Contains(t, kinds, AuditBookUpdated)
	assert.Contains(t, kinds, AuditBookDeleted)
}

// TestLibraryServiceFailedMutationStillAudited ensures a failed
// operation produces no audit event and leaves the catalog untouched.
func TestLibraryServiceFailedMutation(t *testing.T) {
	library, _, events := newTestLibrary(t)
	seedTestLibrary(t, library)
	ctx := context.TODO()
	before := len(*events)

	_, err := library.AddBook(ctx, Book{Title: "No category", Category: "SCIF", ID: "SCIF X 1"})
	assert.ErrorIs(t, err, ErrInvalidBook)
	assert.Len(t, *events, before)
}

// TestLibraryServiceLending exercises the lending transitions through
// the service layer.
func TestLibraryServiceLending(t *testing.T) {
	library, _, events := newTestLibrary(t)
	seedTestLibrary(t, library)
	ctx := context.TODO()

	_, err := library.AddBook(ctx, Book{ID: "FANT DOE 1", Title: "Demo Title", Category: "FANT", Borrowable: true})
	require.NoError(t, err)

	book, err := library.Lend(ctx, "FANT DOE 1", "john.doe", "2026-09-30")
	require.NoError(t, err)
	assert.Equal(t, "john.doe", book.Borrower.User)

	book, err = library.Reserve(ctx, "FANT DOE 1", "jane.roe")
	require.NoError(t, err)
	assert.Equal(t, "jane.roe", book.Reservation)

	book, err = library.Release(ctx, "FANT DOE 1")
	require.NoError(t, err)
	assert.Equal(t, "", book.Reservation)

	book, err = library.ReturnBook(ctx, "FANT DOE 1")
	require.NoError(t, err)
	assert.Nil(t, book.Borrower)

	kinds := make([]string, 0, len(*events))
	for _, event := range *events {
		kinds = append(kinds, event.Kind)
	}
	assert.Contains(t, kinds, AuditBookLent)
	assert.Contains(t, kinds, AuditBookReserved)
	assert.Contains(t, kinds, AuditBookReleased)
	assert.Contains(t, kinds, AuditBookReturned)
}

// TestLibraryServiceCategories covers the category operations and the
// reference count.
func TestLibraryServiceCategories(t *testing.T) {
	library, _, _ := newTestLibrary(t)
	seedTestLibrary(t, library)
	ctx := context.TODO()

	_, err := library.AddBook(ctx, Book{ID: "FANT DOE 1", Title: "Demo Title", Category: "FANT"})
	require.NoError(t, err)

	count, err := library.CountBooksInCategory(ctx, "FANT")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	_, err = library.CountBooksInCategory(ctx, "SCIF")
	assert.ErrorIs(t, err, ErrNothingFound)

	assert.ErrorIs(t, library.DeleteCategory(ctx, "FANT"), ErrReferencedCategory)

	renamed, err := library.UpdateCategory(ctx, "FANT", Category{ID: "FNTS", Name: "Fantasy", Section: "General"})
	require.NoError(t, err)
	assert.Equal(t, "FNTS", renamed.ID)
	book, err := library.GetBook(ctx, "FANT DOE 1")
	require.NoError(t, err)
	assert.Equal(t, "FNTS", book.Category)

	list, err := library.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "FNTS", list[0].ID)
}

// TestLibraryServiceUsers covers user operations including the bulk
// role update.
func TestLibraryServiceUsers(t *testing.T) {
	library, _, _ := newTestLibrary(t)
	seedTestLibrary(t, library)
	ctx := context.TODO()

	total, page, err := library.SearchUsers(ctx, "john", nil, 0, DefaultSearchLimit)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, page, 1)
	assert.Equal(t, "john.doe", page[0].Account)

	require.NoError(t, library.UpdateUserRoles(ctx, map[string]string{"john.doe": "teacher"}))
	john, err := library.GetUser(ctx, "john.doe")
	require.NoError(t, err)
	assert.Equal(t, "teacher", john.Role)
	jane, err := library.GetUser(ctx, "jane.roe")
	require.NoError(t, err)
	assert.Equal(t, "", jane.Role)

	require.NoError(t, library.DeleteUser(ctx, "jane.roe"))
	_, err = library.GetUser(ctx, "jane.roe")
	assert.ErrorIs(t, err, ErrNothingFound)
}
