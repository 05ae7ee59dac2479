package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound запись не найдена
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate нарушение уникальности
	ErrDuplicate = errors.New("duplicate record")

	// ErrVersionMismatch запись изменена другим писателем после чтения
	ErrVersionMismatch = errors.New("version mismatch")
)

// Уточненные ошибки уникальности: errors.Is(err, ErrDuplicate) верно для обеих
var (
	ErrDuplicateCUIT  = fmt.Errorf("%w: cuit already in use", ErrDuplicate)
	ErrDuplicateEmail = fmt.Errorf("%w: email already in use", ErrDuplicate)
)
