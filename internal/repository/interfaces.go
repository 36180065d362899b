package repository

import (
	"context"
	"errors"

	"github.com/mladjabiznis1-source/sales-tracker/internal/domain"
)

// ErrNotFound is returned when a row is absent, or when an entry exists but
// belongs to a different owner. Callers must not be able to tell the two
// apart.
var ErrNotFound = errors.New("record not found")

// UserRepository exposes persistence for accounts.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id int64) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
}

// EntryRepository exposes persistence for activity entries. Update and Delete
// condition on both id and owner in a single statement.
type EntryRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.Entry, error)
	ListAll(ctx context.Context) ([]domain.Entry, error)
	Create(ctx context.Context, entry domain.Entry) (domain.Entry, error)
	Update(ctx context.Context, entry domain.Entry) error
	Delete(ctx context.Context, id, userID int64) error
}

// SubmissionRepository exposes persistence for webhook form submissions.
// Rows are insert-only.
type SubmissionRepository interface {
	Create(ctx context.Context, sub domain.FormSubmission) (domain.FormSubmission, error)
	ListAll(ctx context.Context) ([]domain.FormSubmission, error)
}
