package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/summitwm/wealth_backoffice_app/internal/core/domain"
	portsrepo "github.com/summitwm/wealth_backoffice_app/internal/core/ports/repositories"
	"github.com/summitwm/wealth_backoffice_app/internal/models"
)

type PgxTradeRepository struct {
	BaseRepository
}

// newPgxTradeRepository creates a new repository for trade data.
func newPgxTradeRepository(pool *pgxpool.Pool) portsrepo.TradeReader {
	return &PgxTradeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TradeReader = (*PgxTradeRepository)(nil)

func toDomainTrade(m models.Trade) domain.Trade {
	return domain.Trade{
		TradeID:      m.TradeID,
		AccountID:    m.AccountID,
		SecurityID:   m.SecurityID,
		TradeDate:    m.TradeDate,
		TradeType:    domain.TradeType(m.TradeType),
		Quantity:     m.Quantity,
		Price:        m.Price,
		GrossAmount:  m.GrossAmount,
		Commission:   m.Commission,
		Fees:         m.Fees,
		Tax:          m.Tax,
		NetAmount:    m.NetAmount,
		CurrencyCode: m.CurrencyCode,
		Status:       domain.TradeStatus(m.Status),
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// FindTradesByAccountInPeriod retrieves trades whose trade date falls within
// [start, end] for the given account.
func (r *PgxTradeRepository) FindTradesByAccountInPeriod(ctx context.Context, accountID string, start, end time.Time) ([]domain.Trade, error) {
	query := `
		SELECT trade_id, account_id, security_id, trade_date, trade_type, quantity, price, gross_amount, commission, fees, tax, net_amount, currency_code, status, created_at, created_by, last_updated_at, last_updated_by
		FROM trades
		WHERE account_id = $1 AND trade_date >= $2 AND trade_date <= $3
		ORDER BY trade_date;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		var modelTrade models.Trade
		err := rows.Scan(
			&modelTrade.TradeID,
			&modelTrade.AccountID,
			&modelTrade.SecurityID,
			&modelTrade.TradeDate,
			&modelTrade.TradeType,
			&modelTrade.Quantity,
			&modelTrade.Price,
			&modelTrade.GrossAmount,
			&modelTrade.Commission,
			&modelTrade.Fees,
			&modelTrade.Tax,
			&modelTrade.NetAmount,
			&modelTrade.CurrencyCode,
			&modelTrade.Status,
			&modelTrade.CreatedAt,
			&modelTrade.CreatedBy,
			&modelTrade.LastUpdatedAt,
			&modelTrade.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade row: %w", err)
		}
		trades = append(trades, toDomainTrade(modelTrade))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w", err)
	}

	return trades, nil
}
