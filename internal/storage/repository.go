// Package storage persists users and expense entries in SQLite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/core"
	applog "github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/log"

	_ "modernc.org/sqlite"
)

// Timestamps are stored as RFC3339 UTC strings so lexical order matches
// chronological order.
const timeLayout = time.RFC3339

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, u core.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}

	slog.InfoContext(ctx, "User created",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldUserID, u.ID,
		"email", u.Email)
	return nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id string) (core.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	var createdAt string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt = parseStoredTime(createdAt)
	return u, nil
}

func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Entry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, amount_cents, category, description, entry_date, entry_type, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Amount.Cents, e.Category, e.Description,
		e.Date.UTC().Format(timeLayout), string(e.Type),
		e.CreatedAt.UTC().Format(timeLayout), e.UpdatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldOperation, applog.OpCreate,
		applog.FieldEntryID, e.ID,
		applog.FieldUserID, e.UserID,
		applog.FieldAmount, e.Amount.Cents,
		applog.FieldCategory, e.Category,
		applog.FieldEntryType, string(e.Type))
	return nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (core.Entry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, amount_cents, category, description, entry_date, entry_type, created_at, updated_at
		 FROM expenses WHERE id = ?`, id)

	e, err := scanEntry(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Entry{}, core.ErrNotFound
	}
	if err != nil {
		return core.Entry{}, fmt.Errorf("get expense by id: %w", err)
	}
	return e, nil
}

// ListExpenses returns every entry owned by the user, most recent date
// first. Same-date entries come back newest created first.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID string) ([]core.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, amount_cents, category, description, entry_date, entry_type, created_at, updated_at
		 FROM expenses WHERE user_id = ?
		 ORDER BY entry_date DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var entries []core.Entry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return entries, nil
}

func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Entry) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET amount_cents = ?, category = ?, description = ?, entry_date = ?, entry_type = ?, updated_at = ?
		 WHERE id = ?`,
		e.Amount.Cents, e.Category, e.Description,
		e.Date.UTC().Format(timeLayout), string(e.Type),
		e.UpdatedAt.UTC().Format(timeLayout), e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Expense updated",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldOperation, applog.OpUpdate,
		applog.FieldEntryID, e.ID,
		applog.FieldUserID, e.UserID)
	return nil
}

func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}

	slog.InfoContext(ctx, "Expense deleted",
		applog.FieldComponent, applog.ComponentStorage,
		applog.FieldOperation, applog.OpDelete,
		applog.FieldEntryID, id)
	return nil
}

func scanEntry(scan func(dest ...any) error) (core.Entry, error) {
	var e core.Entry
	var entryType, entryDate, createdAt, updatedAt string
	if err := scan(&e.ID, &e.UserID, &e.Amount.Cents, &e.Category, &e.Description,
		&entryDate, &entryType, &createdAt, &updatedAt); err != nil {
		return core.Entry{}, err
	}
	e.Type = core.EntryType(entryType)
	e.Date = parseStoredTime(entryDate)
	e.CreatedAt = parseStoredTime(createdAt)
	e.UpdatedAt = parseStoredTime(updatedAt)
	return e, nil
}

func parseStoredTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
