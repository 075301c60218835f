package main

import (
	"context"
	"time"
)

// This file contains mocks definitions needed to perform unit tests.

type MockLibraryProvider struct {
	SearchBooksFunc    func(ctx context.Context, query, category string, state BookState, offset, limit int) (int, []Book, error)
	GetBookFunc        func(ctx context.Context, id string) (Book, error)
	AddBookFunc        func(ctx context.Context, book Book) (Book, error)
	UpdateBookFunc     func(ctx context.Context, oldID string, book Book) (Book, error)
	DeleteBookFunc     func(ctx context.Context, id string) error
	GenerateBookIDFunc func(ctx context.Context, book Book) (string, error)

	LendFunc       func(ctx context.Context, id, account, deadline string) (Book, error)
	ReturnBookFunc func(ctx context.Context, id string) (Book, error)
	ReserveFunc    func(ctx context.Context, id, account string) (Book, error)
	ReleaseFunc    func(ctx context.Context, id string) (Book, error)

	ListCategoriesFunc       func(ctx context.Context) ([]Category, error)
	AddCategoryFunc          func(ctx context.Context, category Category) (Category, error)
	UpdateCategoryFunc       func(ctx context.Context, oldID string, category Category) (Category, error)
	DeleteCategoryFunc       func(ctx context.Context, id string) error
	CountBooksInCategoryFunc func(ctx context.Context, id string) (int, error)

	SearchUsersFunc     func(ctx context.Context, query string, mayBorrow *bool, offset, limit int) (int, []User, error)
	GetUserFunc         func(ctx context.Context, account string) (User, error)
	AddUserFunc         func(ctx context.Context, user User) (User, error)
	UpdateUserFunc      func(ctx context.Context, oldAccount string, user User) (User, error)
	DeleteUserFunc      func(ctx context.Context, account string) error
	UpdateUserRolesFunc func(ctx context.Context, roles map[string]string) error
}

func (m *MockLibraryProvider) SearchBooks(ctx context.Context, query, category string, state BookState, offset, limit int) (int, []Book, error) {
	return m.SearchBooksFunc(ctx, query, category, state, offset, limit)
}

func (m *MockLibraryProvider) GetBook(ctx context.Context, id string) (Book, error) {
	return m.GetBookFunc(ctx, id)
}

func (m *MockLibraryProvider) AddBook(ctx context.Context, book Book) (Book, error) {
	return m.AddBookFunc(ctx, book)
}

func (m *MockLibraryProvider) UpdateBook(ctx context.Context, oldID string, book Book) (Book, error) {
	return m.UpdateBookFunc(ctx, oldID, book)
}

func (m *MockLibraryProvider) DeleteBook(ctx context.Context, id string) error {
	return m.DeleteBookFunc(ctx, id)
}

func (m *MockLibraryProvider) GenerateBookID(ctx context.Context, book Book) (string, error) {
	return m.GenerateBookIDFunc(ctx, book)
}

func (m *MockLibraryProvider) Lend(ctx context.Context, id, account, deadline string) (Book, error) {
	return m.LendFunc(ctx, id, account, deadline)
}

func (m *MockLibraryProvider) ReturnBook(ctx context.Context, id string) (Book, error) {
	return m.ReturnBookFunc(ctx, id)
}

func (m *MockLibraryProvider) Reserve(ctx context.Context, id, account string) (Book, error) {
	return m.ReserveFunc(ctx, id, account)
}

func (m *MockLibraryProvider) Release(ctx context.Context, id string) (Book, error) {
	return m.ReleaseFunc(ctx, id)
}

func (m *MockLibraryProvider) ListCategories(ctx context.Context) ([]Category, error) {
	return m.ListCategoriesFunc(ctx)
}

func (m *MockLibraryProvider) AddCategory(ctx context.Context, category Category) (Category, error) {
	return m.AddCategoryFunc(ctx, category)
}

func (m *MockLibraryProvider) UpdateCategory(ctx context.Context, oldID string, category Category) (Category, error) {
	return m.UpdateCategoryFunc(ctx, oldID, category)
}

func (m *MockLibraryProvider) DeleteCategory(ctx context.Context, id string) error {
	return m.DeleteCategoryFunc(ctx, id)
}

func (m *MockLibraryProvider) CountBooksInCategory(ctx context.Context, id string) (int, error) {
	return m.CountBooksInCategoryFunc(ctx, id)
}

func (m *MockLibraryProvider) SearchUsers(ctx context.Context, query string, mayBorrow *bool, offset, limit int) (int, []User, error) {
	return m.SearchUsersFunc(ctx, query, mayBorrow, offset, limit)
}

func (m *MockLibraryProvider) GetUser(ctx context.Context, account string) (User, error) {
	return m.GetUserFunc(ctx, account)
}

func (m *MockLibraryProvider) AddUser(ctx context.Context, user User) (User, error) {
	return m.AddUserFunc(ctx, user)
}

func (m *MockLibraryProvider) UpdateUser(ctx context.Context, oldAccount string, user User) (User, error) {
	return m.UpdateUserFunc(ctx, oldAccount, user)
}

func (m *MockLibraryProvider) DeleteUser(ctx context.Context, account string) error {
	return m.DeleteUserFunc(ctx, account)
}

func (m *MockLibraryProvider) UpdateUserRoles(ctx context.Context, roles map[string]string) error {
	return m.UpdateUserRolesFunc(ctx, roles)
}

// MockAuditStorage implements a fake AuditStorage.
type MockAuditStorage struct {
	AppendFunc func(ctx context.Context, event AuditEvent) error
	ListFunc   func(ctx context.Context, limit int) ([]AuditEvent, error)
}

func (m *MockAuditStorage) Append(ctx context.Context, event AuditEvent) error {
	return m.AppendFunc(ctx, event)
}

func (m *MockAuditStorage) List(ctx context.Context, limit int) ([]AuditEvent, error) {
	return m.ListFunc(ctx, limit)
}

// MockQueuer implements a fake Queuer.
type MockQueuer struct {
	PushFunc func(ctx context.Context, qid string, event AuditEvent) error
	PopFunc  func(ctx context.Context, qid string) (AuditEvent, error)
}

func (m *MockQueuer) Push(ctx context.Context, qid string, event AuditEvent) error {
	return m.PushFunc(ctx, qid, event)
}

func (m *MockQueuer) Pop(ctx context.Context, qid string) (AuditEvent, error) {
	return m.PopFunc(ctx, qid)
}

// MockClocker implements a fake Clocker.
type MockClocker struct {
	MockNow time.Time
}

// NewMockClocker returns a mocked instance with fixed time.
func NewMockClocker() *MockClocker {
	return &MockClocker{time.Date(2023, 0o7, 0o2, 0o0, 0o0, 0o0, 0o00000000, time.UTC)}
}

// Now returns an already defined time to be used as mock. This
// equals to `Sun, 02 Jul 2023 00:00:00 UTC` in time.RFC1123 format.
func (mck *MockClocker) Now() time.Time {
	return mck.MockNow
}

// MockUIDHandler implements a fake UIDHandler.
type MockUIDHandler struct {
	MockedUID string
	Valid     bool
}

// NewMockUIDHandler returns a mocked instance with predictable id.
func NewMockUIDHandler(id string, valid bool) *MockUIDHandler {
	return &MockUIDHandler{MockedUID: id, Valid: valid}
}

// Generate constructs a predictable id to be used as mock.
func (muid *MockUIDHandler) Generate(prefix string) string {
	return prefix + ":" + muid.MockedUID
}

// IsValid mocks IsValid behavior by providing configured status.
func (muid *MockUIDHandler) IsValid(_, _ string) bool {
	return muid.Valid
}
