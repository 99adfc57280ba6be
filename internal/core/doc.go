// Package core contains the domain types for book circulation
// in a public library.
//
// A Book is a single inventory row whose loan state is the triple
// borrowed_by/borrow_date/return_date: all three are set while the book
// is lent out and all three are cleared when it is available. A Role
// decides which circulation actions a logged-in user may perform, and a
// Session carries the authenticated identity through one program run.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this
// would be called the 'domain' layer.
package core
