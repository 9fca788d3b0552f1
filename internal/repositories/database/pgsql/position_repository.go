package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/summitwm/wealth_backoffice_app/internal/core/domain"
	portsrepo "github.com/summitwm/wealth_backoffice_app/internal/core/ports/repositories"
	"github.com/summitwm/wealth_backoffice_app/internal/models"
)

type PgxPositionRepository struct {
	BaseRepository
}

// newPgxPositionRepository creates a new repository for position data.
func newPgxPositionRepository(pool *pgxpool.Pool) portsrepo.PositionRepositoryFacade {
	return &PgxPositionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PositionRepositoryFacade = (*PgxPositionRepository)(nil)

func toDomainPosition(m models.Position) domain.Position {
	return domain.Position{
		PositionID:  m.PositionID,
		AccountID:   m.AccountID,
		SecurityID:  m.SecurityID,
		Quantity:    m.Quantity,
		AverageCost: m.AverageCost,
		MarketValue: m.MarketValue,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// FindOpenPositionsByAccountID retrieves all positions with a positive
// quantity for the account.
func (r *PgxPositionRepository) FindOpenPositionsByAccountID(ctx context.Context, accountID string) ([]domain.Position, error) {
	query := `
		SELECT position_id, account_id, security_id, quantity, average_cost, market_value, created_at, created_by, last_updated_at, last_updated_by
		FROM positions
		WHERE account_id = $1 AND quantity > 0
		ORDER BY market_value DESC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query positions for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var positions []domain.Position
	for rows.Next() {
		var modelPos models.Position
		err := rows.Scan(
			&modelPos.PositionID,
			&modelPos.AccountID,
			&modelPos.SecurityID,
			&modelPos.Quantity,
			&modelPos.AverageCost,
			&modelPos.MarketValue,
			&modelPos.CreatedAt,
			&modelPos.CreatedBy,
			&modelPos.LastUpdatedAt,
			&modelPos.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position row: %w", err)
		}
		positions = append(positions, toDomainPosition(modelPos))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position rows: %w", err)
	}

	return positions, nil
}

// FindSectorsBySecurityIDs retrieves the sector of each given security.
func (r *PgxPositionRepository) FindSectorsBySecurityIDs(ctx context.Context, securityIDs []string) (map[string]string, error) {
	if len(securityIDs) == 0 {
		return map[string]string{}, nil
	}

	query := `
		SELECT security_id, sector
		FROM securities
		WHERE security_id = ANY($1);
	`
	rows, err := r.Pool.Query(ctx, query, securityIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query sectors: %w", err)
	}
	defer rows.Close()

	sectors := make(map[string]string)
	for rows.Next() {
		var securityID, sector string
		if err := rows.Scan(&securityID, &sector); err != nil {
			return nil, fmt.Errorf("failed to scan sector row: %w", err)
		}
		sectors[securityID] = sector
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sector rows: %w", err)
	}

	return sectors, nil
}

// TimeWeightedAverageValue computes the average total portfolio value of an
// account over [start, end] from the daily valuation snapshots. Day-count
// weighting falls out of averaging one snapshot row per day. An account with
// no snapshots in the period yields zero.
func (r *PgxPositionRepository) TimeWeightedAverageValue(ctx context.Context, accountID string, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(AVG(total_value), 0)
		FROM portfolio_valuations
		WHERE account_id = $1 AND valuation_date >= $2 AND valuation_date <= $3;
	`
	var avg decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, accountID, start, end).Scan(&avg)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute average value for account %s: %w", accountID, err)
	}
	return avg, nil
}
