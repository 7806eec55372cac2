package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Nikhil-Prakash-AT/expense-tracker-backend/internal/core"
)

// entryResponse is the wire shape of an expense record. Amounts go out in
// major units, the way clients sent them in.
type entryResponse struct {
	ID          string  `json:"id"`
	User        string  `json:"user"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Type        string  `json:"type"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func toEntryResponse(e core.Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		User:        e.UserID,
		Amount:      e.Amount.Units(),
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date.UTC().Format(time.RFC3339),
		Type:        string(e.Type),
		CreatedAt:   e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func toEntryResponses(entries []core.Entry) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	return out
}

type summaryResponse struct {
	TotalIncome  float64 `json:"totalIncome"`
	TotalExpense float64 `json:"totalExpense"`
	Balance      float64 `json:"balance"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to encode response body", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// parseAmount accepts the amount as a JSON number or a decimal string.
func parseAmount(raw json.Number) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(raw.String())
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

// parseEntryDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseEntryDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
