package digital

import "errors"

var (
	ErrBookNotFound  = errors.New("digital book not found")
	ErrLinkNotFound  = errors.New("book link not found")
	ErrLinkExists    = errors.New("link between these books already exists")
	ErrInvalidFormat = errors.New("invalid file format")
	ErrFileMissing   = errors.New("file not found in vault")
)
