package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/core"
	applog "github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/log"
	"github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/services"
)

type createExpenseRequest struct {
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
	Type        string      `json:"type"`
}

type updateExpenseRequest struct {
	Amount      *json.Number `json:"amount"`
	Category    *string      `json:"category"`
	Description *string      `json:"description"`
	Date        *string      `json:"date"`
	Type        *string      `json:"type"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request, userID string) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.ErrorContext(r.Context(), "Failed to decode expense body",
			applog.FieldOperation, applog.OpCreate,
			applog.FieldError, err)
		writeMessage(w, http.StatusInternalServerError, "Failed to add expense")
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		slog.ErrorContext(r.Context(), "Invalid expense amount",
			applog.FieldOperation, applog.OpCreate,
			applog.FieldError, err)
		writeMessage(w, http.StatusInternalServerError, "Failed to add expense")
		return
	}

	var date time.Time
	if req.Date != "" {
		date, err = parseEntryDate(req.Date)
		if err != nil {
			slog.ErrorContext(r.Context(), "Invalid expense date",
				applog.FieldOperation, applog.OpCreate,
				applog.FieldError, err,
				"date", req.Date)
			writeMessage(w, http.StatusInternalServerError, "Failed to add expense")
			return
		}
	}

	entryType := core.EntryType(req.Type)
	if !entryType.Known() {
		// Stored as sent, but summaries will skip it.
		slog.WarnContext(r.Context(), "Storing entry with unrecognized type",
			applog.FieldOperation, applog.OpCreate,
			applog.FieldEntryType, req.Type,
			applog.FieldUserID, userID)
	}

	entry, err := s.expenses.Create(r.Context(), userID, services.EntryInput{
		Amount:      amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        date,
		Type:        entryType,
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to add expense",
			applog.FieldOperation, applog.OpCreate,
			applog.FieldError, err,
			applog.FieldUserID, userID)
		writeMessage(w, http.StatusInternalServerError, "Failed to add expense")
		return
	}

	writeJSON(w, http.StatusCreated, toEntryResponse(entry))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request, userID string) {
	entries, err := s.expenses.List(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to fetch expenses",
			applog.FieldOperation, applog.OpList,
			applog.FieldError, err,
			applog.FieldUserID, userID)
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch expenses")
		return
	}

	writeJSON(w, http.StatusOK, toEntryResponses(entries))
}

func (s *Server) handleExpenseSummary(w http.ResponseWriter, r *http.Request, userID string) {
	summary, err := s.expenses.Summary(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to fetch expense summary",
			applog.FieldOperation, applog.OpSummary,
			applog.FieldError, err,
			applog.FieldUserID, userID)
		writeMessage(w, http.StatusInternalServerError, "Failed to fetch expense summary")
		return
	}

	writeJSON(w, http.StatusOK, summaryResponse{
		TotalIncome:  summary.TotalIncome.Units(),
		TotalExpense: summary.TotalExpense.Units(),
		Balance:      summary.Balance.Units(),
	})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request, userID string) {
	id := r.PathValue("id")

	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.ErrorContext(r.Context(), "Failed to decode expense body",
			applog.FieldOperation, applog.OpUpdate,
			applog.FieldError, err)
		writeMessage(w, http.StatusInternalServerError, "Failed to update expense")
		return
	}

	var patch services.EntryPatch
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			slog.ErrorContext(r.Context(), "Invalid expense amount",
				applog.FieldOperation, applog.OpUpdate,
				applog.FieldError, err)
			writeMessage(w, http.StatusInternalServerError, "Failed to update expense")
			return
		}
		patch.Amount = &amount
	}
	patch.Category = req.Category
	patch.Description = req.Description
	if req.Date != nil {
		date, err := parseEntryDate(*req.Date)
		if err != nil {
			slog.ErrorContext(r.Context(), "Invalid expense date",
				applog.FieldOperation, applog.OpUpdate,
				applog.FieldError, err,
				"date", *req.Date)
			writeMessage(w, http.StatusInternalServerError, "Failed to update expense")
			return
		}
		patch.Date = &date
	}
	if req.Type != nil {
		t := core.EntryType(*req.Type)
		patch.Type = &t
	}

	entry, err := s.expenses.Update(r.Context(), userID, id, patch)
	if err != nil {
		s.writeExpenseError(w, r, err, "Failed to update expense")
		return
	}

	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request, userID string) {
	id := r.PathValue("id")

	if err := s.expenses.Delete(r.Context(), userID, id); err != nil {
		s.writeExpenseError(w, r, err, "Server error")
		return
	}

	writeMessage(w, http.StatusOK, "Expense deleted successfully")
}

// writeExpenseError maps service failures onto the fixed response
// vocabulary: 404 for an unknown entry, 403 for a foreign owner, 500 with
// the operation's message for everything else.
func (s *Server) writeExpenseError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Expense not found")
	case errors.Is(err, core.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "Not authorized")
	default:
		slog.ErrorContext(r.Context(), fallback, applog.FieldError, err)
		writeMessage(w, http.StatusInternalServerError, fallback)
	}
}
