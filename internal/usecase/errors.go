package usecase

import (
	"fmt"

	"giftcard-fulfillment/internal/pkg/errs"
)

var (
	ErrNoOrder             = errs.New("no recognizable order in payload")
	ErrPoolExhausted       = errs.New("gift code pool exhausted")
	ErrCodeNotFound        = errs.New("gift code not found")
	ErrCodeAlreadyAssigned = errs.New("gift code already assigned")
	ErrInvalidCredentials  = errs.New("invalid credentials")

	// Error markers for categorization
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// PoolExhaustedError reports which denomination drained and how many codes
// were still missing when the batch was aborted.
type PoolExhaustedError struct {
	Denomination int
	Shortfall    int
}

func (e *PoolExhaustedError) Error() string {
	return fmt.Sprintf("pool exhausted for denomination %d (%d codes short)", e.Denomination, e.Shortfall)
}
