package core

// Instead of implementing full value objects, I'm using some alias types and helper methods here ...

// BookIDInt identifies a book row in the inventory table.
type BookIDInt = int

// UsernameString identifies a user account in the roles table.
type UsernameString = string
