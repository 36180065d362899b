package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mladjabiznis1-source/sales-tracker/internal/domain"
)

// Compile-time interface assertions.
var (
	_ UserRepository       = (*PostgresUserRepo)(nil)
	_ EntryRepository      = (*PostgresEntryRepo)(nil)
	_ SubmissionRepository = (*PostgresSubmissionRepo)(nil)
)

var postgresSchema = []string{`
CREATE TABLE IF NOT EXISTS users (
	id BIGINT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, `
CREATE TABLE IF NOT EXISTS entries (
	id BIGINT PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id),
	date TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT '',
	booked_calls INTEGER NOT NULL DEFAULT 0,
	no_shows INTEGER NOT NULL DEFAULT 0,
	closed_won INTEGER NOT NULL DEFAULT 0,
	closed_lost INTEGER NOT NULL DEFAULT 0,
	pif INTEGER NOT NULL DEFAULT 0,
	splits INTEGER NOT NULL DEFAULT 0,
	cash_collected DOUBLE PRECISION NOT NULL DEFAULT 0,
	renewals_cash DOUBLE PRECISION NOT NULL DEFAULT 0,
	reschedules INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, `
CREATE TABLE IF NOT EXISTS form_submissions (
	id BIGINT PRIMARY KEY,
	timestamp TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT '',
	dials INTEGER NOT NULL DEFAULT 0,
	pick_ups INTEGER NOT NULL DEFAULT 0,
	dqs INTEGER NOT NULL DEFAULT 0,
	appts_pitched INTEGER NOT NULL DEFAULT 0,
	appts_set INTEGER NOT NULL DEFAULT 0,
	hybrid_closer TEXT NOT NULL DEFAULT '',
	calls_scheduled INTEGER NOT NULL DEFAULT 0,
	live_calls INTEGER NOT NULL DEFAULT 0,
	prospect_email TEXT NOT NULL DEFAULT '',
	call_date TEXT NOT NULL DEFAULT '',
	offer_made TEXT NOT NULL DEFAULT '',
	call_outcome TEXT NOT NULL DEFAULT '',
	cash_collected DOUBLE PRECISION NOT NULL DEFAULT 0,
	revenue_generated DOUBLE PRECISION NOT NULL DEFAULT 0,
	call_notes TEXT NOT NULL DEFAULT '',
	closer_name TEXT NOT NULL DEFAULT '',
	setter_name TEXT NOT NULL DEFAULT '',
	fathom_link TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
}

// MigratePostgres applies the schema. Every statement is idempotent so this
// runs unconditionally at startup.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply postgres schema: %w", err)
		}
	}
	return nil
}

// PostgresUserRepo implements UserRepository over pgx.
type PostgresUserRepo struct {
	db *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{db: pool}
}

const selectUserSQL = `SELECT id, email, password_hash, name, created_at FROM users`

func (r *PostgresUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRow(ctx, selectUserSQL+` WHERE email = $1`, email)
	return scanUser(row)
}

func (r *PostgresUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRow(ctx, selectUserSQL+` WHERE id = $1`, id)
	return scanUser(row)
}

const insertUserSQL = `INSERT INTO users (id, email, password_hash, name, created_at)
VALUES ($1, $2, $3, $4, $5)`

func (r *PostgresUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if _, err := r.db.Exec(ctx, insertUserSQL, user.ID, user.Email, user.PasswordHash, user.Name, user.CreatedAt); err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// PostgresEntryRepo implements EntryRepository over pgx.
type PostgresEntryRepo struct {
	db *pgxpool.Pool
}

func NewPostgresEntryRepo(pool *pgxpool.Pool) *PostgresEntryRepo {
	return &PostgresEntryRepo{db: pool}
}

const selectEntrySQL = `SELECT id, user_id, date, role, booked_calls, no_shows, closed_won, closed_lost,
	pif, splits, cash_collected, renewals_cash, reschedules, created_at
FROM entries`

func (r *PostgresEntryRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Entry, error) {
	rows, err := r.db.Query(ctx, selectEntrySQL+` WHERE user_id = $1 ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (r *PostgresEntryRepo) ListAll(ctx context.Context) ([]domain.Entry, error) {
	rows, err := r.db.Query(ctx, selectEntrySQL+` ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list all entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

const insertEntrySQL = `INSERT INTO entries (id, user_id, date, role, booked_calls, no_shows, closed_won,
	closed_lost, pif, splits, cash_collected, renewals_cash, reschedules, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

func (r *PostgresEntryRepo) Create(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	if _, err := r.db.Exec(ctx, insertEntrySQL,
		entry.ID, entry.UserID, entry.Date, entry.Role,
		entry.BookedCalls, entry.NoShows, entry.ClosedWon, entry.ClosedLost,
		entry.PIF, entry.Splits, entry.CashCollected, entry.RenewalsCash,
		entry.Reschedules, entry.CreatedAt,
	); err != nil {
		return domain.Entry{}, fmt.Errorf("create entry: %w", err)
	}
	return entry, nil
}

const updateEntrySQL = `UPDATE entries SET date = $3, role = $4, booked_calls = $5, no_shows = $6,
	closed_won = $7, closed_lost = $8, pif = $9, splits = $10, cash_collected = $11,
	renewals_cash = $12, reschedules = $13
WHERE id = $1 AND user_id = $2`

func (r *PostgresEntryRepo) Update(ctx context.Context, entry domain.Entry) error {
	tag, err := r.db.Exec(ctx, updateEntrySQL,
		entry.ID, entry.UserID, entry.Date, entry.Role,
		entry.BookedCalls, entry.NoShows, entry.ClosedWon, entry.ClosedLost,
		entry.PIF, entry.Splits, entry.CashCollected, entry.RenewalsCash,
		entry.Reschedules,
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresEntryRepo) Delete(ctx context.Context, id, userID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectEntries(rows pgx.Rows) ([]domain.Entry, error) {
	entries := make([]domain.Entry, 0)
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.Role,
			&e.BookedCalls, &e.NoShows, &e.ClosedWon, &e.ClosedLost,
			&e.PIF, &e.Splits, &e.CashCollected, &e.RenewalsCash,
			&e.Reschedules, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

// PostgresSubmissionRepo implements SubmissionRepository over pgx.
type PostgresSubmissionRepo struct {
	db *pgxpool.Pool
}

func NewPostgresSubmissionRepo(pool *pgxpool.Pool) *PostgresSubmissionRepo {
	return &PostgresSubmissionRepo{db: pool}
}

const insertSubmissionSQL = `INSERT INTO form_submissions (id, timestamp, role, dials, pick_ups, dqs,
	appts_pitched, appts_set, hybrid_closer, calls_scheduled, live_calls, prospect_email,
	call_date, offer_made, call_outcome, cash_collected, revenue_generated, call_notes,
	closer_name, setter_name, fathom_link, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`

func (r *PostgresSubmissionRepo) Create(ctx context.Context, sub domain.FormSubmission) (domain.FormSubmission, error) {
	if _, err := r.db.Exec(ctx, insertSubmissionSQL,
		sub.ID, sub.Timestamp, sub.Role, sub.Dials, sub.PickUps, sub.DQs,
		sub.ApptsPitched, sub.ApptsSet, sub.HybridCloser, sub.CallsScheduled,
		sub.LiveCalls, sub.ProspectEmail, sub.CallDate, sub.OfferMade,
		sub.CallOutcome, sub.CashCollected, sub.RevenueGenerated, sub.CallNotes,
		sub.CloserName, sub.SetterName, sub.FathomLink, sub.CreatedAt,
	); err != nil {
		return domain.FormSubmission{}, fmt.Errorf("create submission: %w", err)
	}
	return sub, nil
}

const selectSubmissionSQL = `SELECT id, timestamp, role, dials, pick_ups, dqs, appts_pitched, appts_set,
	hybrid_closer, calls_scheduled, live_calls, prospect_email, call_date, offer_made,
	call_outcome, cash_collected, revenue_generated, call_notes, closer_name, setter_name,
	fathom_link, created_at
FROM form_submissions`

func (r *PostgresSubmissionRepo) ListAll(ctx context.Context) ([]domain.FormSubmission, error) {
	rows, err := r.db.Query(ctx, selectSubmissionSQL+` ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	subs := make([]domain.FormSubmission, 0)
	for rows.Next() {
		var s domain.FormSubmission
		if err := rows.Scan(&s.ID, &s.Timestamp, &s.Role, &s.Dials, &s.PickUps, &s.DQs,
			&s.ApptsPitched, &s.ApptsSet, &s.HybridCloser, &s.CallsScheduled,
			&s.LiveCalls, &s.ProspectEmail, &s.CallDate, &s.OfferMade,
			&s.CallOutcome, &s.CashCollected, &s.RevenueGenerated, &s.CallNotes,
			&s.CloserName, &s.SetterName, &s.FathomLink, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate submissions: %w", err)
	}
	return subs, nil
}
