package core

// RoleStudent and RoleLibrarian are the role values the roles table is
// expected to hold. Any other value authenticates but unlocks nothing
// beyond listing books.
const (
	RoleStudent   = Role("student")
	RoleLibrarian = Role("librarian")
)

// Role is the access-level tag attached to a user account. It decides
// which circulation actions a session may perform.
type Role string

// CanBorrowBooks reports whether this role may borrow books.
func (r Role) CanBorrowBooks() bool {
	return r == RoleStudent || r == RoleLibrarian
}

// CanReturnBooks reports whether this role may return books to the library.
func (r Role) CanReturnBooks() bool {
	return r == RoleLibrarian
}
