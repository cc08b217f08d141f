package usecase

import (
	"context"
	"log/slog"

	"giftcard-fulfillment/internal/domain/order"
	"giftcard-fulfillment/internal/infra"
	"giftcard-fulfillment/internal/infra/db"
	"giftcard-fulfillment/internal/pkg/errs"
)

// AssignedCode is one code newly claimed by the current invocation.
type AssignedCode struct {
	Code         string
	Denomination int
}

type ManualIssueResult struct {
	Code         string
	Denomination int
	// Reused is true when the order already had a code and no new one was
	// claimed, making re-issuance safe to repeat.
	Reused bool
}

// CodeAllocator claims pool codes for orders. All claims for one webhook
// delivery run in a single transaction: a retry that finds no shortfall
// allocates nothing, and a drained denomination rolls back every claim of the
// delivery.
type CodeAllocator interface {
	AllocateOrder(ctx context.Context, orderRef string, lines []order.GiftLine) ([]AssignedCode, error)
	IssueManual(ctx context.Context, orderRef string, denomination int) (*ManualIssueResult, error)
}

type allocatorImpl struct {
	uow   UnitOfWork
	codes GiftCodeRepository
}

func NewCodeAllocator(uow UnitOfWork, codes GiftCodeRepository) CodeAllocator {
	return &allocatorImpl{uow: uow, codes: codes}
}

func (a *allocatorImpl) AllocateOrder(ctx context.Context, orderRef string, lines []order.GiftLine) ([]AssignedCode, error) {
	var assigned []AssignedCode

	err := a.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		// The unit of work re-invokes this closure after a serialization
		// rollback; claims from the discarded attempt must not survive.
		assigned = nil

		if err := a.codes.LockOrder(ctx, dbtx, orderRef); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		for _, line := range lines {
			newlyAssigned, err := a.allocateLine(ctx, dbtx, orderRef, line)
			if err != nil {
				return err
			}
			assigned = append(assigned, newlyAssigned...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return assigned, nil
}

// allocateLine claims the shortfall for one (order, denomination) pair. Codes
// assigned by earlier deliveries count toward the requirement, so redelivery
// of an already fulfilled webhook claims nothing.
func (a *allocatorImpl) allocateLine(ctx context.Context, dbtx db.DBTX, orderRef string, line order.GiftLine) ([]AssignedCode, error) {
	already, err := a.codes.CountAssigned(ctx, dbtx, orderRef, line.Denomination)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	shortfall := line.Quantity - already
	if shortfall <= 0 {
		slog.Info("gift line already satisfied",
			"order_ref", orderRef,
			"denomination", line.Denomination,
			"assigned", already)
		return nil, nil
	}

	assigned := make([]AssignedCode, 0, shortfall)
	for i := 0; i < shortfall; i++ {
		view, err := a.codes.ClaimNext(ctx, dbtx, line.Denomination, orderRef)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, errs.Mark(
					&PoolExhaustedError{Denomination: line.Denomination, Shortfall: shortfall - i},
					ErrPoolExhausted)
			}
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}
		assigned = append(assigned, AssignedCode{Code: view.Code, Denomination: view.Denomination})
	}

	return assigned, nil
}

// IssueManual applies a coarser idempotency rule than webhook allocation: any
// code already on the order, regardless of denomination, is returned instead
// of claiming a new one.
func (a *allocatorImpl) IssueManual(ctx context.Context, orderRef string, denomination int) (*ManualIssueResult, error) {
	var result *ManualIssueResult

	err := a.uow.Within(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		if err := a.codes.LockOrder(ctx, dbtx, orderRef); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		existing, err := a.codes.FindAssigned(ctx, dbtx, orderRef)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if len(existing) > 0 {
			result = &ManualIssueResult{
				Code:         existing[0].Code,
				Denomination: existing[0].Denomination,
				Reused:       true,
			}
			return nil
		}

		view, err := a.codes.ClaimNext(ctx, dbtx, denomination, orderRef)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(
					&PoolExhaustedError{Denomination: denomination, Shortfall: 1},
					ErrPoolExhausted)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		result = &ManualIssueResult{Code: view.Code, Denomination: view.Denomination}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
