package session

import (
	"errors"
)

var ErrInvalidBookIDInput = errors.New("book id must be a number")
var ErrInvalidReturnDateInput = errors.New("return date must be formatted as YYYY-MM-DD")
