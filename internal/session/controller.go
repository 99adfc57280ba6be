package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/circdesk/circdesk/internal/core"
	"github.com/circdesk/circdesk/internal/storage"
)

const (
	promptUsername     = "Enter username: "
	promptPassword     = "Enter password: "
	promptMenuChoice   = "Choose an action: "
	promptBorrowBookID = "Enter the ID of the book you want to borrow: "
	promptReturnBookID = "Enter the ID of the book you want to return: "
	promptReturnDate   = "Enter the return date (YYYY-MM-DD): "

	menuListBooks  = "1. List books"
	menuBorrowBook = "2. Borrow a book"
	menuReturnBook = "3. Return a book"
	menuExit       = "0. Exit"

	choiceListBooks = "1"
	choiceBorrow    = "2"
	choiceReturn    = "3"
	choiceExit      = "0"

	msgWelcome         = "Welcome, %s! Your role: %s"
	msgLoginFailed     = "Invalid username or password."
	msgBooksHeading    = "Books in the library:"
	msgBookLine        = "ID: %d, Title: %s, Author: %s, Status: %s"
	msgStatusAvailable = "Available"
	msgStatusBorrowed  = "Borrowed by %s until %s"
	msgBorrowSuccess   = "Book borrowed successfully!"
	msgReturnSuccess   = "Book returned successfully!"
	msgNoBorrowAccess  = "You do not have access to borrowing books."
	msgNoReturnAccess  = "You do not have access to returning books."
	msgInvalidChoice   = "Invalid choice. Try again."

	notificationBorrowed = "Book ID %d borrowed by %s."
	notificationReturned = "Book ID %d returned to the library."
)

// Gateway defines the persistence operations the Controller needs.
type Gateway interface {
	FetchBooks(ctx context.Context) ([]core.Book, error)
	BorrowBook(ctx context.Context, bookID core.BookIDInt, username core.UsernameString, returnDate time.Time) error
	ReturnBook(ctx context.Context, bookID core.BookIDInt) error
	AuthenticateUser(ctx context.Context, username core.UsernameString, password string) (core.Role, error)
}

// Notifier publishes a text message about a successful circulation action.
type Notifier interface {
	Publish(message string) error
}

// Controller runs the interactive circulation session: one login attempt,
// then a role-gated menu loop until the user exits or an unrecoverable
// error terminates the process.
type Controller struct {
	gateway      Gateway
	notifier     Notifier
	input        *bufio.Reader
	output       io.Writer
	readPassword func() (string, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithPasswordReader replaces how the controller reads the password. The
// default takes a plain line from the input stream; wire a hidden terminal
// read here when standard input is a TTY.
func WithPasswordReader(readPassword func() (string, error)) Option {
	return func(c *Controller) {
		c.readPassword = readPassword
	}
}

// NewController creates a Controller reading prompts from input and writing
// to output, with optional configuration.
func NewController(gateway Gateway, notifier Notifier, input io.Reader, output io.Writer, options ...Option) Controller {
	controller := Controller{
		gateway:  gateway,
		notifier: notifier,
		input:    bufio.NewReader(input),
		output:   output,
	}
	controller.readPassword = controller.readLine

	for _, option := range options {
		option(&controller)
	}

	return controller
}

// Run executes the session: login first, then the menu loop. It returns nil
// on a clean exit through the menu; any other outcome is an error that
// terminates the process.
func (c Controller) Run(ctx context.Context) error {
	currentSession, loginErr := c.login(ctx)
	if loginErr != nil {
		return loginErr
	}

	return c.menuLoop(ctx, currentSession)
}

// login performs the single authentication attempt. On failure the session
// is over: the error propagates and the process terminates, there is no
// retry prompt.
func (c Controller) login(ctx context.Context) (core.Session, error) {
	c.print(promptUsername)

	username, usernameErr := c.readLine()
	if usernameErr != nil {
		return core.Session{}, usernameErr
	}

	c.print(promptPassword)

	password, passwordErr := c.readPassword()
	if passwordErr != nil {
		return core.Session{}, passwordErr
	}

	role, authErr := c.gateway.AuthenticateUser(ctx, username, password)
	if authErr != nil {
		if errors.Is(authErr, storage.ErrAuthenticationFailed) {
			c.println(msgLoginFailed)
		}

		return core.Session{}, authErr
	}

	c.println(fmt.Sprintf(msgWelcome, username, role))

	return core.BuildSession(username, role), nil
}

// menuLoop dispatches numeric menu choices until the user exits. Choices a
// role may not use fall through to the invalid-choice message, exactly like
// unrecognized input.
func (c Controller) menuLoop(ctx context.Context, currentSession core.Session) error {
	for {
		c.renderMenu(currentSession)

		choice, readErr := c.readLine()
		if readErr != nil {
			return readErr
		}

		switch {
		case choice == choiceListBooks:
			if err := c.listBooks(ctx); err != nil {
				return err
			}

		case choice == choiceBorrow && currentSession.Role.CanBorrowBooks():
			if err := c.borrowBook(ctx, currentSession); err != nil {
				return err
			}

		case choice == choiceReturn && currentSession.Role.CanReturnBooks():
			if err := c.returnBook(ctx, currentSession); err != nil {
				return err
			}

		case choice == choiceExit:
			return nil

		default:
			c.println(msgInvalidChoice)
		}
	}
}

// renderMenu shows only the options the session's role may use.
func (c Controller) renderMenu(currentSession core.Session) {
	c.println("")
	c.println(menuListBooks)

	if currentSession.Role.CanBorrowBooks() {
		c.println(menuBorrowBook)
	}

	if currentSession.Role.CanReturnBooks() {
		c.println(menuReturnBook)
	}

	c.println(menuExit)
	c.print(promptMenuChoice)
}

// listBooks prints the full inventory with each book's loan status.
func (c Controller) listBooks(ctx context.Context) error {
	books, fetchErr := c.gateway.FetchBooks(ctx)
	if fetchErr != nil {
		return fetchErr
	}

	c.println("")
	c.println(msgBooksHeading)

	for _, book := range books {
		c.println(fmt.Sprintf(msgBookLine, book.ID, book.Title, book.Author, bookStatus(book)))
	}

	return nil
}

// borrowBook lists the inventory, prompts for a book id and a return date,
// and delegates to the gateway. An unavailable book is printed and the menu
// continues; everything else is fatal.
func (c Controller) borrowBook(ctx context.Context, currentSession core.Session) error {
	if !currentSession.Role.CanBorrowBooks() {
		c.println(msgNoBorrowAccess)

		return nil
	}

	if err := c.listBooks(ctx); err != nil {
		return err
	}

	c.print(promptBorrowBookID)

	bookID, idErr := c.readBookID()
	if idErr != nil {
		return idErr
	}

	c.print(promptReturnDate)

	returnDate, dateErr := c.readReturnDate()
	if dateErr != nil {
		return dateErr
	}

	borrowErr := c.gateway.BorrowBook(ctx, bookID, currentSession.Username, returnDate)
	if borrowErr != nil {
		if errors.Is(borrowErr, storage.ErrBookUnavailable) {
			c.println(borrowErr.Error())

			return nil
		}

		return borrowErr
	}

	c.println(msgBorrowSuccess)

	return c.notifier.Publish(fmt.Sprintf(notificationBorrowed, bookID, currentSession.Username))
}

// returnBook lists the inventory, prompts for a book id, and delegates to
// the gateway. Returning an available or unknown book succeeds as a no-op.
func (c Controller) returnBook(ctx context.Context, currentSession core.Session) error {
	if !currentSession.Role.CanReturnBooks() {
		c.println(msgNoReturnAccess)

		return nil
	}

	if err := c.listBooks(ctx); err != nil {
		return err
	}

	c.print(promptReturnBookID)

	bookID, idErr := c.readBookID()
	if idErr != nil {
		return idErr
	}

	if returnErr := c.gateway.ReturnBook(ctx, bookID); returnErr != nil {
		return returnErr
	}

	c.println(msgReturnSuccess)

	return c.notifier.Publish(fmt.Sprintf(notificationReturned, bookID))
}

// bookStatus renders the loan status of one book. The loan fields are set
// or cleared as a unit, so a borrowed book always carries a return date.
func bookStatus(book core.Book) string {
	if book.IsAvailable() {
		return msgStatusAvailable
	}

	return fmt.Sprintf(msgStatusBorrowed, *book.BorrowedBy, book.ReturnDate.Format(time.DateOnly))
}

func (c Controller) readBookID() (core.BookIDInt, error) {
	line, readErr := c.readLine()
	if readErr != nil {
		return 0, readErr
	}

	bookID, parseErr := strconv.Atoi(line)
	if parseErr != nil {
		return 0, errors.Join(ErrInvalidBookIDInput, parseErr)
	}

	return bookID, nil
}

func (c Controller) readReturnDate() (time.Time, error) {
	line, readErr := c.readLine()
	if readErr != nil {
		return time.Time{}, readErr
	}

	returnDate, parseErr := time.Parse(time.DateOnly, line)
	if parseErr != nil {
		return time.Time{}, errors.Join(ErrInvalidReturnDateInput, parseErr)
	}

	return returnDate, nil
}

// readLine reads one line from the input, accepting a final line without a
// trailing newline so scripted input works.
func (c Controller) readLine() (string, error) {
	line, readErr := c.input.ReadString('\n')
	if readErr != nil && (line == "" || !errors.Is(readErr, io.EOF)) {
		return "", readErr
	}

	return strings.TrimSpace(line), nil
}

func (c Controller) print(text string) {
	_, _ = fmt.Fprint(c.output, text)
}

func (c Controller) println(text string) {
	_, _ = fmt.Fprintln(c.output, text)
}
