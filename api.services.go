package main

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LibraryProvider exposes every catalog and lending operation to the
// api layer. All calls are safe for concurrent use, the service takes
// the matching store guard internally.
type LibraryProvider interface {
	SearchBooks(ctx context.Context, query, category string, state BookState, offset, limit int) (int, []Book, error)
	GetBook(ctx context.Context, id string) (Book, error)
	AddBook(ctx context.Context, book Book) (Book, error)
	UpdateBook(ctx context.Context, oldID string, book Book) (Book, error)
	DeleteBook(ctx context.Context, id string) error
	GenerateBookID(ctx context.Context, book Book) (string, error)

	Lend(ctx context.Context, id, account, deadline string) (Book, error)
	ReturnBook(ctx context.Context, id string) (Book, error)
	Reserve(ctx context.Context, id, account string) (Book, error)
	Release(ctx context.Context, id string) (Book, error)

	ListCategories(ctx context.Context) ([]Category, error)
	AddCategory(ctx context.Context, category Category) (Category, error)
	UpdateCategory(ctx context.Context, oldID string, category Category) (Category, error)
	DeleteCategory(ctx context.Context, id string) error
	CountBooksInCategory(ctx context.Context, id string) (int, error)

	SearchUsers(ctx context.Context, query string, mayBorrow *bool, offset, limit int) (int, []User, error)
	GetUser(ctx context.Context, account string) (User, error)
	AddUser(ctx context.Context, user User) (User, error)
	UpdateUser(ctx context.Context, oldAccount string, user User) (User, error)
	DeleteUser(ctx context.Context, account string) error
	UpdateUserRoles(ctx context.Context, roles map[string]string) error
}

// LibraryService implements LibraryProvider on top of the atomic
// store. Every mutation also feeds the audit queue; a failed push is
// logged and never fails the mutation itself.
type LibraryService struct {
	logger     *zap.Logger
	config     *Config
	clock      Clocker
	idsHandler UIDHandler
	store      *AtomicStore
	queue      Queuer
}

func NewLibraryService(logger *zap.Logger, config *Config, clock Clocker, idsHandler UIDHandler, store *AtomicStore, queue Queuer) LibraryProvider {
	return &LibraryService{
		logger:     logger,
		config:     config,
		clock:      clock,
		idsHandler: idsHandler,
		store:      store,
		queue:      queue,
	}
}

// closeWrite releases the guard and folds a persistence failure into
// the operation result unless the operation already failed.
func (ls *LibraryService) closeWrite(guard *WriteGuard, opErr error) error {
	if cerr := guard.Close(); cerr != nil {
		ls.logger.Error("service: failed to persist store", zap.Error(cerr))
		if opErr == nil {
			return cerr
		}
	}
	return opErr
}

func (ls *LibraryService) audit(ctx context.Context, kind, entity, account string) {
	event := AuditEvent{
		ID:      ls.idsHandler.Generate(AuditEventIDPrefix),
		Kind:    kind,
		Entity:  entity,
		Account: account,
		At:      ls.clock.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := ls.queue.Push(ctx, AuditQueue, event); err != nil {
		ls.logger.Error("service: failed to push audit event", zap.String("qid", AuditQueue), zap.Error(err))
	}
}

func (ls *LibraryService) SearchBooks(_ context.Context, query, category string, state BookState, offset, limit int) (int, []Book, error) {
	guard := ls.store.Read()
	defer guard.Close()
	total, books := guard.DB().Books.Search(query, category, state, offset, limit)
	return total, books, nil
}

func (ls *LibraryService) GetBook(_ context.Context, id string) (Book, error) {
	guard := ls.store.Read()
	defer guard.Close()
	return guard.DB().Books.Fetch(id)
}

func (ls *LibraryService) AddBook(ctx context.Context, book Book) (Book, error) {
	guard := ls.store.Write()
	db := guard.DB()
	if strings.TrimSpace(book.ID) == "" {
		book.ID = db.Books.GenerateID(book)
	}
	book, err := db.Books.Add(book, db.Categories)
	if err = ls.closeWrite(guard, err); err != nil {
		return book, err
	}
	ls.audit(ctx, AuditBookCreated, book.ID, "")
	return book, nil
}

func (ls *LibraryService) UpdateBook(ctx context.Context, oldID string, book Book) (Book, error) {
	guard := ls.store.Write()
	book, err := guard.DB().Books.Update(oldID, book, guard.DB().Categories)
	if err = ls.closeWrite(guard, err); err != nil {
		return book, err
	}
	ls.audit(ctx, AuditBookUpdated, book.ID, "")
	return book, nil
}

func (ls *LibraryService) DeleteBook(ctx context.Context, id string) error {
	guard := ls.store.Write()
	err := guard.DB().Books.Delete(id)
	if err = ls.closeWrite(guard, err); err != nil {
		return err
	}
	ls.audit(ctx, AuditBookDeleted, id, "")
	return nil
}

func (ls *LibraryService) GenerateBookID(_ context.Context, book Book) (string, error) {
	guard := ls.store.Read()
	defer guard.Close()
	book.Trim()
	return guard.DB().Books.GenerateID(book), nil
}

func (ls *LibraryService) Lend(ctx context.Context, id, account, deadline string) (Book, error) {
	guard := ls.store.Write()
	book, err := guard.DB().Lend(id, account, deadline)
	if err = ls.closeWrite(guard, err); err != nil {
		return book, err
	}
	ls.audit(ctx, AuditBookLent, book.ID, account)
	return book, nil
}

func (ls *LibraryService) ReturnBook(ctx context.Context, id string) (Book, error) {
	guard := ls.store.Write()
	book, err := guard.DB().ReturnBook(id)
	if err = ls.closeWrite(guard, err); err != nil {
		return book, err
	}
	ls.audit(ctx, AuditBookReturned, book.ID, "")
	return book, nil
}

func (ls *LibraryService) Reserve(ctx context.Context, id, account string) (Book, error) {
	guard := ls.store.Write()
	book, err := guard.DB().Reserve(id, account)
	if err = ls.closeWrite(guard, err); err != nil {
		return book, err
	}
	ls.audit(ctx, AuditBookReserved, book.ID, account)
	return book, nil
}

func (ls *LibraryService) Release(ctx context.Context, id string) (Book, error) {
	guard := ls.store.Write()
	book, err := guard.DB().Release(id)
	if err = ls.closeWrite(guard, err); err != nil {
		return book, err
	}
	ls.audit(ctx, AuditBookReleased, book.ID, "")
	return book, nil
}

func (ls *LibraryService) ListCategories(_ context.Context) ([]Category, error) {
	guard := ls.store.Read()
	defer guard.Close()
	return guard.DB().Categories.List(), nil
}

func (ls *LibraryService) AddCategory(ctx context.Context, category Category) (Category, error) {
	guard := ls.store.Write()
	category, err := guard.DB().Categories.Add(category)
	if err = ls.closeWrite(guard, err); err != nil {
		return category, err
	}
	ls.audit(ctx, AuditCategoryCreated, category.ID, "")
	return category, nil
}

func (ls *LibraryService) UpdateCategory(ctx context.Context, oldID string, category Category) (Category, error) {
	guard := ls.store.Write()
	category, err := guard.DB().Categories.Update(oldID, category, guard.DB().Books)
	if err = ls.closeWrite(guard, err); err != nil {
		return category, err
	}
	ls.audit(ctx, AuditCategoryUpdated, category.ID, "")
	return category, nil
}

func (ls *LibraryService) DeleteCategory(ctx context.Context, id string) error {
	guard := ls.store.Write()
	err := guard.DB().Categories.Delete(id, guard.DB().Books)
	if err = ls.closeWrite(guard, err); err != nil {
		return err
	}
	ls.audit(ctx, AuditCategoryDeleted, id, "")
	return nil
}

func (ls *LibraryService) CountBooksInCategory(_ context.Context, id string) (int, error) {
	guard := ls.store.Read()
	defer guard.Close()
	if _, err := guard.DB().Categories.Fetch(id); err != nil {
		return 0, err
	}
	return guard.DB().Books.InCategory(id), nil
}

func (ls *LibraryService) SearchUsers(_ context.Context, query string, mayBorrow *bool, offset, limit int) (int, []User, error) {
	guard := ls.store.Read()
	defer guard.Close()
	total, users := guard.DB().Users.Search(query, mayBorrow, offset, limit)
	return total, users, nil
}

func (ls *LibraryService) GetUser(_ context.Context, account string) (User, error) {
	guard := ls.store.Read()
	defer guard.Close()
	return guard.DB().Users.Fetch(account)
}

func (ls *LibraryService) AddUser(ctx context.Context, user User) (User, error) {
	guard := ls.store.Write()
	user, err := guard.DB().Users.Add(user)
	if err = ls.closeWrite(guard, err); err != nil {
		return user, err
	}
	ls.audit(ctx, AuditUserCreated, user.Account, user.Account)
	return user, nil
}

func (ls *LibraryService) UpdateUser(ctx context.Context, oldAccount string, user User) (User, error) {
	guard := ls.store.Write()
	user, err := guard.DB().Users.Update(oldAccount, user, guard.DB().Books)
	if err = ls.closeWrite(guard, err); err != nil {
		return user, err
	}
	ls.audit(ctx, AuditUserUpdated, user.Account, user.Account)
	return user, nil
}

func (ls *LibraryService) DeleteUser(ctx context.Context, account string) error {
	guard := ls.store.Write()
	err := guard.DB().Users.Delete(account, guard.DB().Books)
	if err = ls.closeWrite(guard, err); err != nil {
		return err
	}
	ls.audit(ctx, AuditUserDeleted, account, account)
	return nil
}

func (ls *LibraryService) UpdateUserRoles(ctx context.Context, roles map[string]string) error {
	guard := ls.store.Write()
	guard.DB().Users.UpdateRoles(roles)
	if err := ls.closeWrite(guard, nil); err != nil {
		return err
	}
	ls.audit(ctx, AuditRolesUpdated, "users", "")
	return nil
}
