package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mladjabiznis1-source/sales-tracker/internal/domain"
	"github.com/mladjabiznis1-source/sales-tracker/internal/repository"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := repository.OpenSQLite("")
	require.Error(t, err)
}

func TestOpenSQLiteIdempotentSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := repository.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening an existing file must not fail on the schema.
	db, err = repository.OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestSQLiteUserRepo(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := repository.NewSQLiteUserRepo(db)

	user := domain.User{
		ID:           1001,
		Email:        "rep@example.com",
		PasswordHash: "$2a$10$fakehash",
		Name:         "Rep One",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	created, err := repo.Create(ctx, user)
	require.NoError(t, err)
	require.Equal(t, user.ID, created.ID)

	byEmail, err := repo.GetByEmail(ctx, "rep@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID)
	require.Equal(t, user.PasswordHash, byEmail.PasswordHash)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, byID.Email)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)

	// Unique email constraint.
	_, err = repo.Create(ctx, domain.User{
		ID: 1002, Email: "rep@example.com", PasswordHash: "x", Name: "Dup",
		CreatedAt: time.Now().UTC(),
	})
	require.Error(t, err)
}

func TestSQLiteEntryRepoCRUD(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := repository.NewSQLiteUserRepo(db)
	repo := repository.NewSQLiteEntryRepo(db)

	for _, id := range []int64{1, 2} {
		_, err := users.Create(ctx, domain.User{
			ID: id, Email: "u" + string(rune('0'+id)) + "@example.com",
			PasswordHash: "x", Name: "User", CreatedAt: time.Now().UTC(),
		})
		require.NoError(t, err)
	}

	mk := func(id, userID int64, date string) domain.Entry {
		return domain.Entry{
			ID: id, UserID: userID, Date: date, Role: "closer",
			BookedCalls: 3, CashCollected: 1500.50,
			CreatedAt: time.Now().UTC(),
		}
	}
	for _, e := range []domain.Entry{
		mk(10, 1, "2026-08-29"),
		mk(11, 1, "2026-08-30"),
		mk(12, 2, "2026-08-31"),
		mk(13, 1, "2026-08-30"),
	} {
		_, err := repo.Create(ctx, e)
		require.NoError(t, err)
	}

	// Owner scoped, newest date first, ties broken by newest row.
	mine, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 3)
	require.Equal(t, int64(13), mine[0].ID)
	require.Equal(t, int64(11), mine[1].ID)
	require.Equal(t, int64(10), mine[2].ID)
	require.Equal(t, 1500.50, mine[0].CashCollected)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, int64(12), all[0].ID)

	// Full overwrite of mutable columns.
	updated := mk(11, 1, "2026-09-01")
	updated.BookedCalls = 0
	updated.ClosedWon = 2
	require.NoError(t, repo.Update(ctx, updated))

	mine, err = repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(11), mine[0].ID)
	require.Equal(t, "2026-09-01", mine[0].Date)
	require.Equal(t, 2, mine[0].ClosedWon)
	require.Zero(t, mine[0].BookedCalls)

	require.NoError(t, repo.Delete(ctx, 10, 1))
	mine, err = repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
}

func TestSQLiteEntryRepoOwnershipOpacity(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := repository.NewSQLiteUserRepo(db)
	repo := repository.NewSQLiteEntryRepo(db)

	_, err := users.Create(ctx, domain.User{
		ID: 1, Email: "owner@example.com", PasswordHash: "x", Name: "Owner",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, domain.Entry{
		ID: 10, UserID: 1, Date: "2026-08-30", Role: "closer", CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	// Foreign owner and missing row are indistinguishable.
	err = repo.Update(ctx, domain.Entry{ID: 10, UserID: 2, Date: "2026-08-31"})
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, 10, 2), repository.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, 999, 1), repository.ErrNotFound)

	mine, err := repo.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "2026-08-30", mine[0].Date)
}

func TestSQLiteSubmissionRepo(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := repository.NewSQLiteSubmissionRepo(db)

	base := time.Now().UTC().Truncate(time.Second)
	first := domain.FormSubmission{
		ID: 20, Timestamp: "2026-08-30T10:00:00Z", Role: "Closer",
		Dials: 40, PickUps: 12, CashCollected: 4000, RevenueGenerated: 4500,
		CloserName: "Rep One", CreatedAt: base,
	}
	second := first
	second.ID = 21
	second.CreatedAt = base.Add(time.Minute)

	_, err := repo.Create(ctx, first)
	require.NoError(t, err)
	_, err = repo.Create(ctx, second)
	require.NoError(t, err)

	subs, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 2)

	// Newest first.
	require.Equal(t, int64(21), subs[0].ID)
	require.Equal(t, int64(20), subs[1].ID)
	require.Equal(t, "Closer", subs[0].Role)
	require.Equal(t, 40, subs[0].Dials)
	require.Equal(t, 4000.0, subs[0].CashCollected)
	require.Equal(t, "Rep One", subs[0].CloserName)
}
