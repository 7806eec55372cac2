package core

// Summary holds the running totals over a user's entire history.
type Summary struct {
	TotalIncome  Money
	TotalExpense Money
	Balance      Money
}

// Summarize folds a user's entries into income and expense totals and the
// resulting balance. Entries whose type is neither income nor expense are
// skipped: they contribute to no total.
func Summarize(entries []Entry) Summary {
	var income, expense int64
	for _, e := range entries {
		switch e.Type {
		case Income:
			income += e.Amount.Cents
		case Expense:
			expense += e.Amount.Cents
		}
	}
	return Summary{
		TotalIncome:  Money{Cents: income},
		TotalExpense: Money{Cents: expense},
		Balance:      Money{Cents: income - expense},
	}
}
