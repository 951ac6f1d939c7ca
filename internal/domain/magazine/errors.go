package magazine

import "errors"

var (
	ErrVendorNotFound      = errors.New("vendor not found")
	ErrVendorAlreadyExists = errors.New("vendor with this name already exists")
	ErrMagazineNotFound    = errors.New("magazine not found")
	ErrIssueNotFound       = errors.New("magazine issue not found")
	ErrCoverNotFound       = errors.New("magazine cover image not found")
)
