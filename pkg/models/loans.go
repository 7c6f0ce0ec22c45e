package models

import (
	"fmt"
	"strings"
)

// NotReturned is shown in place of a missing return date.
const NotReturned = "Not returned"

// Loan links a user to a book. LoanDate is set by the backend on creation and
// a nil ReturnDate means the book is still out.
type Loan struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"user_id"`
	BookID     int64   `json:"book_id"`
	LoanDate   string  `json:"loan_date"`
	ReturnDate *string `json:"return_date"`

	// sent by some loans backends, shown when present
	DueDate *string `json:"due_date,omitempty"`
	Status  string  `json:"status,omitempty"`
}

type LoanRequest struct {
	UserID int64 `json:"user_id"`
	BookID int64 `json:"book_id"`
}

func (l Loan) EntityID() int64 { return l.ID }

// Outstanding reports whether the loan has not been returned yet.
func (l Loan) Outstanding() bool {
	return l.ReturnDate == nil || *l.ReturnDate == ""
}

func (l Loan) Summary() string {
	returned := NotReturned
	if !l.Outstanding() {
		returned = *l.ReturnDate
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "ID: %d, User ID: %d, Book ID: %d, Loan date: %s, Return date: %s",
		l.ID, l.UserID, l.BookID, l.LoanDate, returned)
	if l.DueDate != nil && *l.DueDate != "" {
		fmt.Fprintf(&sb, ", Due date: %s", *l.DueDate)
	}
	if l.Status != "" {
		fmt.Fprintf(&sb, ", Status: %s", l.Status)
	}
	return sb.String()
}
