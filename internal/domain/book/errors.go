package book

import "errors"

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrBookAlreadyExists = errors.New("book with this accession number already exists")
	ErrBookIssued        = errors.New("book is currently issued")
)
