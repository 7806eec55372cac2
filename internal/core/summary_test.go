package core

import "testing"

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalIncome.Cents != 0 || s.TotalExpense.Cents != 0 || s.Balance.Cents != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestSummarize(t *testing.T) {
	entries := []Entry{
		{Type: Income, Amount: Money{Cents: 500000}},
		{Type: Income, Amount: Money{Cents: 12050}},
		{Type: Expense, Amount: Money{Cents: 9999}},
		{Type: Expense, Amount: Money{Cents: 30001}},
	}
	s := Summarize(entries)
	if s.TotalIncome.Cents != 512050 {
		t.Fatalf("income: expected 512050, got %d", s.TotalIncome.Cents)
	}
	if s.TotalExpense.Cents != 40000 {
		t.Fatalf("expense: expected 40000, got %d", s.TotalExpense.Cents)
	}
	if s.Balance.Cents != s.TotalIncome.Cents-s.TotalExpense.Cents {
		t.Fatalf("balance mismatch: %+v", s)
	}
}

func TestSummarizeSkipsUnknownTypes(t *testing.T) {
	entries := []Entry{
		{Type: Income, Amount: Money{Cents: 100}},
		{Type: "transfer", Amount: Money{Cents: 700}},
		{Type: "", Amount: Money{Cents: 300}},
		{Type: Expense, Amount: Money{Cents: 40}},
	}
	s := Summarize(entries)
	if s.TotalIncome.Cents != 100 || s.TotalExpense.Cents != 40 || s.Balance.Cents != 60 {
		t.Fatalf("unknown types must be skipped, got %+v", s)
	}
}

func TestEntryTypeKnown(t *testing.T) {
	if !Income.Known() || !Expense.Known() {
		t.Fatalf("income/expense must be known")
	}
	if EntryType("transfer").Known() || EntryType("").Known() {
		t.Fatalf("other values must be unknown")
	}
}
