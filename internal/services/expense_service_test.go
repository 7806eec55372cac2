package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/core"
	"github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/events"
)

type fakeRepo struct {
	entries map[string]core.Entry
	fail    error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{entries: make(map[string]core.Entry)}
}

func (f *fakeRepo) CreateExpense(ctx context.Context, e core.Entry) error {
	if f.fail != nil {
		return f.fail
	}
	f.entries[e.ID] = e
	return nil
}

func (f *fakeRepo) GetExpense(ctx context.Context, id string) (core.Entry, error) {
	if f.fail != nil {
		return core.Entry{}, f.fail
	}
	e, ok := f.entries[id]
	if !ok {
		return core.Entry{}, core.ErrNotFound
	}
	return e, nil
}

func (f *fakeRepo) ListExpenses(ctx context.Context, userID string) ([]core.Entry, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	var out []core.Entry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateExpense(ctx context.Context, e core.Entry) error {
	if f.fail != nil {
		return f.fail
	}
	if _, ok := f.entries[e.ID]; !ok {
		return core.ErrNotFound
	}
	f.entries[e.ID] = e
	return nil
}

func (f *fakeRepo) DeleteExpense(ctx context.Context, id string) error {
	if f.fail != nil {
		return f.fail
	}
	if _, ok := f.entries[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.entries, id)
	return nil
}

type recordingPublisher struct {
	published []*events.ExpenseEvent
	fail      error
}

func (p *recordingPublisher) Publish(ctx context.Context, e *events.ExpenseEvent) error {
	if p.fail != nil {
		return p.fail
	}
	p.published = append(p.published, e)
	return nil
}

func TestCreateStampsOwnerAndID(t *testing.T) {
	repo := newFakeRepo()
	pub := &recordingPublisher{}
	svc := NewExpenseService(repo, pub)

	e, err := svc.Create(context.Background(), "user-1", EntryInput{
		Amount:      core.Money{Cents: 1500},
		Category:    "Salary",
		Description: "march",
		Type:        core.Income,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected server-assigned id")
	}
	if e.UserID != "user-1" {
		t.Fatalf("expected owner user-1, got %q", e.UserID)
	}
	if e.Date.IsZero() {
		t.Fatalf("expected defaulted date")
	}
	if len(pub.published) != 1 || pub.published[0].Action != events.ActionCreated {
		t.Fatalf("expected one created event, got %+v", pub.published)
	}
}

func TestCreateSurvivesPublisherFailure(t *testing.T) {
	repo := newFakeRepo()
	svc := NewExpenseService(repo, &recordingPublisher{fail: errors.New("broker down")})

	if _, err := svc.Create(context.Background(), "user-1", EntryInput{Amount: core.Money{Cents: 1}}); err != nil {
		t.Fatalf("create must not fail on publish error: %v", err)
	}
	if len(repo.entries) != 1 {
		t.Fatalf("expected entry persisted")
	}
}

func TestUpdatePartialMerge(t *testing.T) {
	repo := newFakeRepo()
	svc := NewExpenseService(repo, nil)

	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	repo.entries["e1"] = core.Entry{
		ID: "e1", UserID: "user-1",
		Amount: core.Money{Cents: 100}, Category: "Food",
		Description: "lunch", Date: date, Type: core.Expense,
	}

	amount := core.Money{Cents: 2000}
	updated, err := svc.Update(context.Background(), "user-1", "e1", EntryPatch{Amount: &amount})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount.Cents != 2000 {
		t.Fatalf("amount not replaced: %+v", updated)
	}
	if updated.Category != "Food" || updated.Description != "lunch" || !updated.Date.Equal(date) || updated.Type != core.Expense {
		t.Fatalf("unpatched fields must stay unchanged: %+v", updated)
	}
}

func TestUpdateOwnershipAndMissing(t *testing.T) {
	repo := newFakeRepo()
	svc := NewExpenseService(repo, nil)
	repo.entries["e1"] = core.Entry{ID: "e1", UserID: "owner", Amount: core.Money{Cents: 100}}

	if _, err := svc.Update(context.Background(), "intruder", "e1", EntryPatch{}); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if repo.entries["e1"].Amount.Cents != 100 {
		t.Fatalf("entry must not be mutated on ownership failure")
	}

	if _, err := svc.Update(context.Background(), "owner", "missing", EntryPatch{}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteOwnershipAndMissing(t *testing.T) {
	repo := newFakeRepo()
	svc := NewExpenseService(repo, nil)
	repo.entries["e1"] = core.Entry{ID: "e1", UserID: "owner"}

	if err := svc.Delete(context.Background(), "intruder", "e1"); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, ok := repo.entries["e1"]; !ok {
		t.Fatalf("entry must survive a forbidden delete")
	}

	if err := svc.Delete(context.Background(), "owner", "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := svc.Delete(context.Background(), "owner", "e1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := repo.entries["e1"]; ok {
		t.Fatalf("entry must be removed")
	}
}

func TestSummaryUsesWholeHistory(t *testing.T) {
	repo := newFakeRepo()
	svc := NewExpenseService(repo, nil)
	repo.entries["a"] = core.Entry{ID: "a", UserID: "u", Type: core.Income, Amount: core.Money{Cents: 1000}}
	repo.entries["b"] = core.Entry{ID: "b", UserID: "u", Type: core.Expense, Amount: core.Money{Cents: 250}}
	repo.entries["c"] = core.Entry{ID: "c", UserID: "other", Type: core.Income, Amount: core.Money{Cents: 99999}}

	s, err := svc.Summary(context.Background(), "u")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if s.TotalIncome.Cents != 1000 || s.TotalExpense.Cents != 250 || s.Balance.Cents != 750 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}
