package repository

import "errors"

var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate resource")
	ErrInvalidInput = errors.New("invalid input data")
	ErrNotPending   = errors.New("order is not awaiting settlement")
)
