package core

import (
	"errors"
	"time"
)

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

type (
	// EntryType classifies an entry as money coming in or going out.
	// Values outside the two known kinds are stored untouched and skipped
	// by Summarize.
	EntryType string

	Money struct {
		Cents int64
	}

	// Entry is a single income or expense record. UserID is stamped by the
	// server from the authenticated identity, never taken from a request.
	Entry struct {
		ID          string
		UserID      string
		Amount      Money
		Category    string
		Description string
		Date        time.Time
		Type        EntryType
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}

	User struct {
		ID           string
		Name         string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrForbidden     = errors.New("record owned by another user")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmailTaken    = errors.New("email already registered")
)

// Known reports whether t is one of the two entry kinds the aggregator
// recognizes.
func (t EntryType) Known() bool {
	return t == Income || t == Expense
}

// OwnedBy reports whether the entry belongs to the given user.
func (e Entry) OwnedBy(userID string) bool {
	return e.UserID == userID
}
