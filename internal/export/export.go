// Package export mirrors expense events to external targets.
package export

import (
	"context"
	"errors"
	"time"

	"github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/core"
	"github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/events"
)

// Exporter appends one row per processed event.
type Exporter interface {
	Export(ctx context.Context, row Row) error
}

// EntryFetcher loads the full expense behind an event.
type EntryFetcher interface {
	GetExpense(ctx context.Context, id string) (core.Entry, error)
}

// Row is the flattened shape every target receives.
type Row struct {
	Timestamp   time.Time
	Action      string
	EntryID     string
	UserID      string
	Amount      string
	Category    string
	Description string
	Date        string
	Type        string
}

// BuildRow enriches an event with the stored expense. A record that is
// already gone (a deleted event arriving after the row vanished) still
// exports what the event carries.
func BuildRow(ctx context.Context, fetcher EntryFetcher, event *events.ExpenseEvent) (Row, error) {
	row := Row{
		Timestamp: event.Timestamp,
		Action:    event.Action,
		EntryID:   event.ID,
		UserID:    event.UserID,
	}

	if fetcher == nil {
		return row, nil
	}

	entry, err := fetcher.GetExpense(ctx, event.ID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return row, nil
		}
		return Row{}, err
	}

	row.Amount = entry.Amount.String()
	row.Category = entry.Category
	row.Description = entry.Description
	row.Date = entry.Date.UTC().Format(time.RFC3339)
	row.Type = string(entry.Type)
	return row, nil
}

func (r Row) values() []string {
	return []string{
		r.Timestamp.UTC().Format(time.RFC3339),
		r.Action,
		r.EntryID,
		r.UserID,
		r.Amount,
		r.Category,
		r.Description,
		r.Date,
		r.Type,
	}
}
