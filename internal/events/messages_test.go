package events

import (
	"testing"
	"time"
)

func TestExpenseEventJSONRoundTrip(t *testing.T) {
	event := NewExpenseEvent("entry-1", "user-1", ActionCreated)
	body, err := event.ToJSON()
	if err != nil {
		t.Fatalf("to json: %v", err)
	}

	decoded, err := ExpenseEventFromJSON(body)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if decoded.ID != "entry-1" || decoded.UserID != "user-1" || decoded.Action != ActionCreated {
		t.Fatalf("unexpected event: %+v", decoded)
	}
	if decoded.Timestamp.IsZero() || time.Since(decoded.Timestamp) > time.Minute {
		t.Fatalf("timestamp not preserved: %v", decoded.Timestamp)
	}
}

func TestExpenseEventFromJSONInvalid(t *testing.T) {
	if _, err := ExpenseEventFromJSON([]byte("{not json")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
