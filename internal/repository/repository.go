// Package repository persists the clinic collections through gorm.
// Every mutation is a single statement; there are no multi-row transactions.
package repository

import (
	"errors"

	"gorm.io/gorm"
)

// MaxListSize caps every list query.
const MaxListSize = 1000

var (
	// ErrNotFound is returned when no row matches the identifier.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique index rejects an insert.
	ErrDuplicate = errors.New("duplicate record")
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}
