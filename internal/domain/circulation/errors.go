package circulation

import "errors"

var (
	ErrLoanNotFound      = errors.New("loan not found")
	ErrBookAlreadyIssued = errors.New("book is already issued")
	ErrLoanAlreadyClosed = errors.New("this book has already been returned")
	ErrExtensionLimit    = errors.New("maximum extension limit reached for this loan")
)
