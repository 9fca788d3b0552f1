package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/summitwm/wealth_backoffice_app/internal/apperrors"
	"github.com/summitwm/wealth_backoffice_app/internal/core/domain"
	portsrepo "github.com/summitwm/wealth_backoffice_app/internal/core/ports/repositories"
	portssvc "github.com/summitwm/wealth_backoffice_app/internal/core/ports/services"
)

// accountService exposes read access to accounts for the back-office surface.
// Account maintenance itself is owned by the CRUD portal, not this engine.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountReader
}

// NewAccountService creates a new account read service.
func NewAccountService(repo portsrepo.AccountReader) portssvc.AccountReaderSvc {
	return &accountService{accountRepo: repo}
}

var _ portssvc.AccountReaderSvc = (*accountService)(nil)

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err // Propagate error (including NotFound)
	}

	s.LogDebug(ctx, "Account retrieved successfully",
		slog.String("account_id", account.AccountID))
	return account, nil
}
