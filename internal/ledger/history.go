package ledger

import (
	"iter"
	"slices"

	"github.com/mmynk/spliteasy/internal/models"
)

// EntryKind tells which kind of record a history Entry holds.
type EntryKind string

const (
	KindExpense    EntryKind = "expense"
	KindSettlement EntryKind = "settlement"
)

// Entry is one line of the transaction history. Exactly one of Expense and
// Settlement is set, matching Kind.
type Entry struct {
	Kind       EntryKind
	Date       models.Date
	Expense    *models.Expense
	Settlement *models.Settlement
}

// History merges expenses and completed settlements into one sequence sorted
// by date, newest first. Entries on the same day keep their input order, with
// expenses ahead of settlements.
//
// The sequence is computed each time it is ranged over.
func History(expenses []models.Expense, settlements []models.Settlement) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		entries := make([]Entry, 0, len(expenses)+len(settlements))
		for i := range expenses {
			e := &expenses[i]
			entries = append(entries, Entry{Kind: KindExpense, Date: e.Date, Expense: e})
		}
		for i := range settlements {
			s := &settlements[i]
			if !s.Completed {
				continue
			}
			entries = append(entries, Entry{Kind: KindSettlement, Date: s.Date, Settlement: s})
		}

		slices.SortStableFunc(entries, func(a, b Entry) int {
			return b.Date.Compare(a.Date.Time)
		})

		for _, entry := range entries {
			if !yield(entry) {
				return
			}
		}
	}
}

// ID returns the id of the underlying expense or settlement.
func (e Entry) ID() string {
	if e.Expense != nil {
		return e.Expense.ID
	}
	return e.Settlement.ID
}
