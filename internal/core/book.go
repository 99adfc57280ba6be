package core

import (
	"time"
)

// Book represents one inventory row of the circulation table.
//
// The three loan fields form a unit: BorrowedBy, BorrowDate and ReturnDate
// are all nil while the book sits on the shelf and all set while it is
// lent out. Nil pointers map directly to SQL NULL in all supported
// database adapters.
type Book struct {
	ID          BookIDInt
	Title       string
	Author      string
	ReleaseDate time.Time
	BorrowedBy  *string
	BorrowDate  *time.Time
	ReturnDate  *time.Time
}

// IsAvailable reports whether the book can currently be borrowed.
func (b Book) IsAvailable() bool {
	return b.BorrowedBy == nil
}

// HasConsistentLoanState reports whether the loan fields are either all
// set or all cleared.
func (b Book) HasConsistentLoanState() bool {
	if b.BorrowedBy == nil {
		return b.BorrowDate == nil && b.ReturnDate == nil
	}

	return b.BorrowDate != nil && b.ReturnDate != nil
}
