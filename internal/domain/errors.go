package domain

import "errors"

var (
	ErrInvalidView = errors.New("invalid view")
	ErrEmptySlug   = errors.New("view slug cannot be empty")
)
