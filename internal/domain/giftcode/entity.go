package giftcode

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyCode           = errors.New("voucher code cannot be empty")
	ErrInvalidDenomination = errors.New("denomination must be positive")
	ErrAlreadyAssigned     = errors.New("code is already assigned to an order")
)

// GiftCode is one voucher in the pool. Assignment is write-once: once a code
// carries an order reference, neither the reference nor the denomination may
// change.
type GiftCode struct {
	id               int64
	code             string
	denomination     int
	assignedOrderRef *string
	assignedAt       *time.Time
	createdAt        time.Time
}

func New(id int64, code string, denomination int, assignedOrderRef *string, assignedAt *time.Time, createdAt time.Time) (*GiftCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyCode
	}
	if denomination <= 0 {
		return nil, ErrInvalidDenomination
	}

	return &GiftCode{
		id:               id,
		code:             code,
		denomination:     denomination,
		assignedOrderRef: assignedOrderRef,
		assignedAt:       assignedAt,
		createdAt:        createdAt,
	}, nil
}

func (g *GiftCode) IsAssigned() bool {
	return g.assignedOrderRef != nil
}

// CorrectDenomination is the administrative fix-up path. Assigned codes are
// immutable.
func (g *GiftCode) CorrectDenomination(denomination int) error {
	if g.IsAssigned() {
		return ErrAlreadyAssigned
	}
	if denomination <= 0 {
		return ErrInvalidDenomination
	}
	g.denomination = denomination
	return nil
}

func (g *GiftCode) ID() int64                 { return g.id }
func (g *GiftCode) Code() string              { return g.code }
func (g *GiftCode) Denomination() int         { return g.denomination }
func (g *GiftCode) AssignedOrderRef() *string { return g.assignedOrderRef }
func (g *GiftCode) AssignedAt() *time.Time    { return g.assignedAt }
func (g *GiftCode) CreatedAt() time.Time      { return g.createdAt }
