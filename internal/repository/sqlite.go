package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mladjabiznis1-source/sales-tracker/internal/domain"
)

// Compile-time interface assertions.
var (
	_ UserRepository       = (*SQLiteUserRepo)(nil)
	_ EntryRepository      = (*SQLiteEntryRepo)(nil)
	_ SubmissionRepository = (*SQLiteSubmissionRepo)(nil)
)

var sqliteSchema = []string{`
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id),
	date TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT '',
	booked_calls INTEGER NOT NULL DEFAULT 0,
	no_shows INTEGER NOT NULL DEFAULT 0,
	closed_won INTEGER NOT NULL DEFAULT 0,
	closed_lost INTEGER NOT NULL DEFAULT 0,
	pif INTEGER NOT NULL DEFAULT 0,
	splits INTEGER NOT NULL DEFAULT 0,
	cash_collected REAL NOT NULL DEFAULT 0,
	renewals_cash REAL NOT NULL DEFAULT 0,
	reschedules INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS form_submissions (
	id INTEGER PRIMARY KEY,
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
	cash_collected REAL NOT NULL DEFAULT 0,
	revenue_generated REAL NOT NULL DEFAULT 0,
	call_notes TEXT NOT NULL DEFAULT '',
	closer_name TEXT NOT NULL DEFAULT '',
	setter_name TEXT NOT NULL DEFAULT '',
	fathom_link TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
)`,
}

// OpenSQLite opens the local database file and applies the schema. WAL mode
// lets concurrent requests interleave reads with the single writer.
func OpenSQLite(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply sqlite schema: %w", err)
		}
	}
	return db, nil
}

// SQLiteUserRepo implements UserRepository over database/sql.
type SQLiteUserRepo struct {
	db *sql.DB
}

func NewSQLiteUserRepo(db *sql.DB) *SQLiteUserRepo {
	return &SQLiteUserRepo{db: db}
}

func (r *SQLiteUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUserLite+` WHERE email = ?`, email)
	return scanUserLite(row)
}

func (r *SQLiteUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, selectUserLite+` WHERE id = ?`, id)
	return scanUserLite(row)
}

func (r *SQLiteUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, name, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.Name, user.CreatedAt)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

const selectUserLite = `SELECT id, email, password_hash, name, created_at FROM users`

func scanUserLite(row *sql.Row) (domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// SQLiteEntryRepo implements EntryRepository over database/sql.
type SQLiteEntryRepo struct {
	db *sql.DB
}

func NewSQLiteEntryRepo(db *sql.DB) *SQLiteEntryRepo {
	return &SQLiteEntryRepo{db: db}
}

const selectEntryLite = `SELECT id, user_id, date, role, booked_calls, no_shows, closed_won, closed_lost,
	pif, splits, cash_collected, renewals_cash, reschedules, created_at
FROM entries`

func (r *SQLiteEntryRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx, selectEntryLite+` WHERE user_id = ? ORDER BY date DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()
	return collectEntriesLite(rows)
}

func (r *SQLiteEntryRepo) ListAll(ctx context.Context) ([]domain.Entry, error) {
	rows, err := r.db.QueryContext(ctx, selectEntryLite+` ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list all entries: %w", err)
	}
	defer rows.Close()
	return collectEntriesLite(rows)
}

func (r *SQLiteEntryRepo) Create(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (id, user_id, date, role, booked_calls, no_shows, closed_won,
			closed_lost, pif, splits, cash_collected, renewals_cash, reschedules, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.Date, entry.Role,
		entry.BookedCalls, entry.NoShows, entry.ClosedWon, entry.ClosedLost,
		entry.PIF, entry.Splits, entry.CashCollected, entry.RenewalsCash,
		entry.Reschedules, entry.CreatedAt)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("create entry: %w", err)
	}
	return entry, nil
}

func (r *SQLiteEntryRepo) Update(ctx context.Context, entry domain.Entry) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE entries SET date = ?, role = ?, booked_calls = ?, no_shows = ?, closed_won = ?,
			closed_lost = ?, pif = ?, splits = ?, cash_collected = ?, renewals_cash = ?, reschedules = ?
		WHERE id = ? AND user_id = ?`,
		entry.Date, entry.Role, entry.BookedCalls, entry.NoShows, entry.ClosedWon,
		entry.ClosedLost, entry.PIF, entry.Splits, entry.CashCollected,
		entry.RenewalsCash, entry.Reschedules, entry.ID, entry.UserID)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return requireRowLite(res)
}

func (r *SQLiteEntryRepo) Delete(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return requireRowLite(res)
}

func requireRowLite(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func collectEntriesLite(rows *sql.Rows) ([]domain.Entry, error) {
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

// SQLiteSubmissionRepo implements SubmissionRepository over database/sql.
type SQLiteSubmissionRepo struct {
	db *sql.DB
}

func NewSQLiteSubmissionRepo(db *sql.DB) *SQLiteSubmissionRepo {
	return &SQLiteSubmissionRepo{db: db}
}

func (r *SQLiteSubmissionRepo) Create(ctx context.Context, sub domain.FormSubmission) (domain.FormSubmission, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO form_submissions (id, timestamp, role, dials, pick_ups, dqs, appts_pitched,
			appts_set, hybrid_closer, calls_scheduled, live_calls, prospect_email, call_date,
			offer_made, call_outcome, cash_collected, revenue_generated, call_notes, closer_name,
			setter_name, fathom_link, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Timestamp, sub.Role, sub.Dials, sub.PickUps, sub.DQs,
		sub.ApptsPitched, sub.ApptsSet, sub.HybridCloser, sub.CallsScheduled,
		sub.LiveCalls, sub.ProspectEmail, sub.CallDate, sub.OfferMade,
		sub.CallOutcome, sub.CashCollected, sub.RevenueGenerated, sub.CallNotes,
		sub.CloserName, sub.SetterName, sub.FathomLink, sub.CreatedAt)
	if err != nil {
		return domain.FormSubmission{}, fmt.Errorf("create submission: %w", err)
	}
	return sub, nil
}

func (r *SQLiteSubmissionRepo) ListAll(ctx context.Context) ([]domain.FormSubmission, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, timestamp, role, dials, pick_ups, dqs, appts_pitched, appts_set,
			hybrid_closer, calls_scheduled, live_calls, prospect_email, call_date, offer_made,
			call_outcome, cash_collected, revenue_generated, call_notes, closer_name, setter_name,
			fathom_link, created_at
		FROM form_submissions ORDER BY created_at DESC, id DESC`)
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
