package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/summitwm/wealth_backoffice_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  newPgxAccountRepository(dbPool),
		ClientRepo:   newPgxClientRepository(dbPool),
		PositionRepo: newPgxPositionRepository(dbPool),
		TradeRepo:    newPgxTradeRepository(dbPool),
		DocumentRepo: newPgxDocumentRepository(dbPool),
		FeeRepo:      newPgxFeeRepository(dbPool),
		TaskRepo:     newPgxTaskRepository(dbPool),
	}
}
