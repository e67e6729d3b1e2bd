package models

import "fmt"

// Kind distinguishes the two ledgers that share the entry shape.
type Kind string

const (
	Expense Kind = "expense"
	Income  Kind = "income"
)

// Kinds lists every supported ledger.
var Kinds = []Kind{Expense, Income}

// Valid reports whether k names a known ledger.
func (k Kind) Valid() bool {
	return k == Expense || k == Income
}

// Table is the relational table backing the ledger.
func (k Kind) Table() string {
	return string(k) + "s"
}

// Title is the capitalised singular, e.g. "Expense".
func (k Kind) Title() string {
	switch k {
	case Expense:
		return "Expense"
	case Income:
		return "Income"
	default:
		return fmt.Sprintf("Kind(%s)", string(k))
	}
}

// Entry is a single expense or income row.
type Entry struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Amount   float64 `json:"amount"`
	Date     Date    `json:"date"`
}

// EntryFields carries the writable columns of an entry. Nil fields are
// written as NULL so the store's NOT NULL constraints decide validity.
type EntryFields struct {
	Username *string
	Amount   *float64
	Date     *Date
}

// DailyTotal is the sum of amounts recorded on one date.
type DailyTotal struct {
	Date  Date    `json:"date"`
	Total float64 `json:"total_amount"`
}

// SeriesPoint is a raw (date, amount) pair for line charts.
type SeriesPoint struct {
	Date   Date    `json:"date"`
	Amount float64 `json:"amount"`
}
