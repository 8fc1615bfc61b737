package repository

import "errors"

var (
	ErrCompanyNotFound     = errors.New("company not found")
	ErrInternshipNotFound  = errors.New("internship not found")
	ErrTransactionNotFound = errors.New("escrow transaction not found")
	ErrWrongState          = errors.New("row not in expected state")
	ErrNegativeBalance     = errors.New("escrow balance would go negative")
	ErrInvalidInput        = errors.New("invalid input parameters")
)
