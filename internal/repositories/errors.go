package repositories

import "errors"

var (
	ErrNotFound  = errors.New("not found")
	ErrBadCursor = errors.New("malformed pagination cursor")
)
