package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/summitwm/wealth_backoffice_app/internal/core/domain"
	portsrepo "github.com/summitwm/wealth_backoffice_app/internal/core/ports/repositories"
)

// Fixed revenue-share split applied to management fees.
var retrocessionRate = decimal.NewFromFloat(25.0)

const (
	retrocessionRecipientName = "Financial Advisor"
	retrocessionRecipientType = "advisor"
)

// RetrocessionAllocator derives the advisor payout from a persisted fee.
// It is a pure function of the fee plus a single insert; it never reads other
// state and is never retried by its caller.
type RetrocessionAllocator struct {
	BaseService
	retroRepo portsrepo.RetrocessionWriter
	clock     Clock
}

// NewRetrocessionAllocator creates an allocator writing through the given repository.
func NewRetrocessionAllocator(retroRepo portsrepo.RetrocessionWriter, clock Clock) *RetrocessionAllocator {
	if clock == nil {
		clock = SystemClock()
	}
	return &RetrocessionAllocator{retroRepo: retroRepo, clock: clock}
}

// Allocate computes and persists the retrocession for fee.
// Amount = fee.Amount x 25%, in the fee's currency.
func (a *RetrocessionAllocator) Allocate(ctx context.Context, fee domain.Fee, userID string) (*domain.Retrocession, error) {
	now := a.clock.Now()
	retro := domain.Retrocession{
		RetrocessionID: uuid.NewString(),
		FeeID:          fee.FeeID,
		RecipientName:  retrocessionRecipientName,
		RecipientType:  retrocessionRecipientType,
		Rate:           retrocessionRate,
		Amount:         fee.Amount.Mul(retrocessionRate).Div(decimal.NewFromInt(100)),
		CurrencyCode:   fee.CurrencyCode,
		IsPaid:         false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := a.retroRepo.SaveRetrocession(ctx, retro); err != nil {
		return nil, err
	}
	return &retro, nil
}
