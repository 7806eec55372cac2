package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/core"
	"github.com/google/uuid"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testUser(t *testing.T, repo *SQLiteRepository) core.User {
	t.Helper()
	u := core.User{
		ID:           uuid.NewString(),
		Name:         "Test User",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	}
	if err := repo.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestUserRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := testUser(t, repo)

	byEmail, err := repo.GetUserByEmail(ctx, u.Email)
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != u.ID || byEmail.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", byEmail)
	}

	byID, err := repo.GetUserByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Email != u.Email {
		t.Fatalf("unexpected user: %+v", byID)
	}

	if _, err := repo.GetUserByID(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := testUser(t, repo)

	dup := core.User{ID: uuid.NewString(), Name: "Other", Email: u.Email, PasswordHash: "h", CreatedAt: time.Now()}
	if err := repo.CreateUser(ctx, dup); !errors.Is(err, core.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestExpenseCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := testUser(t, repo)

	now := time.Now().UTC().Truncate(time.Second)
	e := core.Entry{
		ID:          uuid.NewString(),
		UserID:      u.ID,
		Amount:      core.Money{Cents: 1234},
		Category:    "Groceries",
		Description: "weekly shop",
		Date:        now,
		Type:        core.Expense,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := repo.CreateExpense(ctx, e); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	got, err := repo.GetExpense(ctx, e.ID)
	if err != nil {
		t.Fatalf("get expense: %v", err)
	}
	if got.UserID != u.ID || got.Amount.Cents != 1234 || got.Category != "Groceries" || got.Type != core.Expense {
		t.Fatalf("unexpected entry: %+v", got)
	}
	if !got.Date.Equal(now) {
		t.Fatalf("date mismatch: want %v, got %v", now, got.Date)
	}

	got.Amount = core.Money{Cents: 5600}
	got.UpdatedAt = now.Add(time.Minute)
	if err := repo.UpdateExpense(ctx, got); err != nil {
		t.Fatalf("update expense: %v", err)
	}
	updated, err := repo.GetExpense(ctx, e.ID)
	if err != nil {
		t.Fatalf("get updated: %v", err)
	}
	if updated.Amount.Cents != 5600 || updated.Description != "weekly shop" {
		t.Fatalf("partial state lost: %+v", updated)
	}

	if err := repo.DeleteExpense(ctx, e.ID); err != nil {
		t.Fatalf("delete expense: %v", err)
	}
	if _, err := repo.GetExpense(ctx, e.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestUpdateDeleteMissing(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	err := repo.UpdateExpense(ctx, core.Entry{ID: "missing"})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if err := repo.DeleteExpense(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
}

func TestListExpensesOrder(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	u := testUser(t, repo)
	other := testUser(t, repo)

	dates := []string{"2024-01-01", "2024-03-01", "2024-02-01"}
	for i, d := range dates {
		date, _ := time.Parse("2006-01-02", d)
		e := core.Entry{
			ID:        uuid.NewString(),
			UserID:    u.ID,
			Amount:    core.Money{Cents: int64(100 * (i + 1))},
			Date:      date,
			Type:      core.Expense,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := repo.CreateExpense(ctx, e); err != nil {
			t.Fatalf("create %s: %v", d, err)
		}
	}
	// Another user's entry must not leak into the list
	foreign := core.Entry{
		ID: uuid.NewString(), UserID: other.ID, Amount: core.Money{Cents: 1},
		Date: time.Now(), Type: core.Expense, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := repo.CreateExpense(ctx, foreign); err != nil {
		t.Fatalf("create foreign: %v", err)
	}

	entries, err := repo.ListExpenses(ctx, u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	want := []string{"2024-03-01", "2024-02-01", "2024-01-01"}
	for i, w := range want {
		if got := entries[i].Date.Format("2006-01-02"); got != w {
			t.Fatalf("position %d: expected %s, got %s", i, w, got)
		}
	}
}
