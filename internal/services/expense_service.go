// Package services orchestrates expense operations across storage and the
// event bus.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/core"
	applog "github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/log"
	"github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/events"
)

// Repository is the persistence surface the service needs.
type Repository interface {
	CreateExpense(ctx context.Context, e core.Entry) error
	GetExpense(ctx context.Context, id string) (core.Entry, error)
	ListExpenses(ctx context.Context, userID string) ([]core.Entry, error)
	UpdateExpense(ctx context.Context, e core.Entry) error
	DeleteExpense(ctx context.Context, id string) error
}

// Publisher sends expense events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event *events.ExpenseEvent) error
}

// EntryInput carries the fields a caller may set on a new entry.
// The owner always comes from the authenticated identity.
type EntryInput struct {
	Amount      core.Money
	Category    string
	Description string
	Date        time.Time
	Type        core.EntryType
}

// EntryPatch is a partial update: nil fields keep the stored value.
type EntryPatch struct {
	Amount      *core.Money
	Category    *string
	Description *string
	Date        *time.Time
	Type        *core.EntryType
}

type ExpenseService struct {
	repo      Repository
	publisher Publisher
}

// NewExpenseService wires the service. publisher may be nil, in which case
// events are skipped.
func NewExpenseService(repo Repository, publisher Publisher) *ExpenseService {
	return &ExpenseService{repo: repo, publisher: publisher}
}

// Create persists a new entry owned by userID and returns it with its
// server-assigned identifier.
func (s *ExpenseService) Create(ctx context.Context, userID string, in EntryInput) (core.Entry, error) {
	now := time.Now()
	e := core.Entry{
		ID:          uuid.NewString(),
		UserID:      userID,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
		Type:        in.Type,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if e.Date.IsZero() {
		e.Date = now
	}

	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return core.Entry{}, fmt.Errorf("save expense: %w", err)
	}

	s.publish(ctx, events.NewExpenseEvent(e.ID, userID, events.ActionCreated))
	return e, nil
}

// List returns every entry owned by userID, most recent date first.
func (s *ExpenseService) List(ctx context.Context, userID string) ([]core.Entry, error) {
	entries, err := s.repo.ListExpenses(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return entries, nil
}

// Summary folds the user's entire history into totals.
func (s *ExpenseService) Summary(ctx context.Context, userID string) (core.Summary, error) {
	entries, err := s.repo.ListExpenses(ctx, userID)
	if err != nil {
		return core.Summary{}, fmt.Errorf("list expenses for summary: %w", err)
	}
	return core.Summarize(entries), nil
}

// Update applies a partial merge to an entry after checking ownership.
// Returns core.ErrNotFound for an unknown id and core.ErrForbidden when the
// stored owner is not the caller; the ownership check precedes any write.
func (s *ExpenseService) Update(ctx context.Context, userID, id string, patch EntryPatch) (core.Entry, error) {
	e, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return core.Entry{}, err
	}
	if !e.OwnedBy(userID) {
		return core.Entry{}, core.ErrForbidden
	}

	if patch.Amount != nil {
		e.Amount = *patch.Amount
	}
	if patch.Category != nil {
		e.Category = *patch.Category
	}
	if patch.Description != nil {
		e.Description = *patch.Description
	}
	if patch.Date != nil {
		e.Date = *patch.Date
	}
	if patch.Type != nil {
		e.Type = *patch.Type
	}
	e.UpdatedAt = time.Now()

	if err := s.repo.UpdateExpense(ctx, e); err != nil {
		return core.Entry{}, fmt.Errorf("update expense: %w", err)
	}

	s.publish(ctx, events.NewExpenseEvent(e.ID, userID, events.ActionUpdated))
	return e, nil
}

// Delete removes an entry after the same lookup and ownership checks as
// Update.
func (s *ExpenseService) Delete(ctx context.Context, userID, id string) error {
	e, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return err
	}
	if !e.OwnedBy(userID) {
		return core.ErrForbidden
	}

	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}

	s.publish(ctx, events.NewExpenseEvent(id, userID, events.ActionDeleted))
	return nil
}

// publish is best-effort: a nil publisher or a broker failure never fails
// the request.
func (s *ExpenseService) publish(ctx context.Context, event *events.ExpenseEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			applog.FieldEntryID, event.ID,
			applog.FieldAction, event.Action,
			applog.FieldError, err)
	}
}
