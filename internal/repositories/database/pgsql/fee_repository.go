package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/summitwm/wealth_backoffice_app/internal/apperrors"
	"github.com/summitwm/wealth_backoffice_app/internal/core/domain"
	portsrepo "github.com/summitwm/wealth_backoffice_app/internal/core/ports/repositories"
	"github.com/summitwm/wealth_backoffice_app/internal/models"
)

type PgxFeeRepository struct {
	BaseRepository
}

// newPgxFeeRepository creates a new repository for fee and retrocession data.
func newPgxFeeRepository(pool *pgxpool.Pool) portsrepo.FeeRepositoryFacade {
	return &PgxFeeRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FeeRepositoryFacade = (*PgxFeeRepository)(nil)

// Helper to convert domain.Fee to models.Fee for DB storage
func toModelFee(d domain.Fee) models.Fee {
	return models.Fee{
		FeeID:        d.FeeID,
		AccountID:    d.AccountID,
		FeeType:      string(d.FeeType),
		Description:  d.Description,
		PeriodStart:  d.PeriodStart,
		PeriodEnd:    d.PeriodEnd,
		Rate:         d.Rate,
		Amount:       d.Amount,
		CurrencyCode: d.CurrencyCode,
		IsPaid:       d.IsPaid,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// Helper to convert models.Fee from DB to domain.Fee
func toDomainFee(m models.Fee) domain.Fee {
	return domain.Fee{
		FeeID:        m.FeeID,
		AccountID:    m.AccountID,
		FeeType:      domain.FeeType(m.FeeType),
		Description:  m.Description,
		PeriodStart:  m.PeriodStart,
		PeriodEnd:    m.PeriodEnd,
		Rate:         m.Rate,
		Amount:       m.Amount,
		CurrencyCode: m.CurrencyCode,
		IsPaid:       m.IsPaid,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

func toDomainRetrocession(m models.Retrocession) domain.Retrocession {
	return domain.Retrocession{
		RetrocessionID: m.RetrocessionID,
		FeeID:          m.FeeID,
		RecipientName:  m.RecipientName,
		RecipientType:  m.RecipientType,
		Rate:           m.Rate,
		Amount:         m.Amount,
		CurrencyCode:   m.CurrencyCode,
		IsPaid:         m.IsPaid,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// SaveFee inserts a newly computed fee. Every calculation produces a new row;
// there is no uniqueness constraint on account and period.
func (r *PgxFeeRepository) SaveFee(ctx context.Context, fee domain.Fee) error {
	modelFee := toModelFee(fee)

	query := `
		INSERT INTO fees (fee_id, account_id, fee_type, description, period_start, period_end, rate, amount, currency_code, is_paid, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelFee.FeeID,
		modelFee.AccountID,
		modelFee.FeeType,
		modelFee.Description,
		modelFee.PeriodStart,
		modelFee.PeriodEnd,
		modelFee.Rate,
		modelFee.Amount,
		modelFee.CurrencyCode,
		modelFee.IsPaid,
		modelFee.CreatedAt,
		modelFee.CreatedBy,
		modelFee.LastUpdatedAt,
		modelFee.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: fee with ID %s already exists", apperrors.ErrDuplicate, modelFee.FeeID)
			}
		}
		return fmt.Errorf("failed to save fee %s: %w", modelFee.FeeID, err)
	}
	return nil
}

// FindFeeByID retrieves a single fee by its unique identifier.
func (r *PgxFeeRepository) FindFeeByID(ctx context.Context, feeID string) (*domain.Fee, error) {
	query := `
		SELECT fee_id, account_id, fee_type, description, period_start, period_end, rate, amount, currency_code, is_paid, created_at, created_by, last_updated_at, last_updated_by
		FROM fees
		WHERE fee_id = $1;
	`
	var modelFee models.Fee
	err := r.Pool.QueryRow(ctx, query, feeID).Scan(
		&modelFee.FeeID,
		&modelFee.AccountID,
		&modelFee.FeeType,
		&modelFee.Description,
		&modelFee.PeriodStart,
		&modelFee.PeriodEnd,
		&modelFee.Rate,
		&modelFee.Amount,
		&modelFee.CurrencyCode,
		&modelFee.IsPaid,
		&modelFee.CreatedAt,
		&modelFee.CreatedBy,
		&modelFee.LastUpdatedAt,
		&modelFee.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: fee with ID %s", apperrors.ErrNotFound, feeID)
		}
		return nil, fmt.Errorf("failed to find fee %s: %w", feeID, err)
	}

	fee := toDomainFee(modelFee)
	return &fee, nil
}

// ListFeesByAccountID retrieves fees for an account, most recent period first.
func (r *PgxFeeRepository) ListFeesByAccountID(ctx context.Context, accountID string, limit int, offset int) ([]domain.Fee, error) {
	query := `
		SELECT fee_id, account_id, fee_type, description, period_start, period_end, rate, amount, currency_code, is_paid, created_at, created_by, last_updated_at, last_updated_by
		FROM fees
		WHERE account_id = $1
		ORDER BY period_end DESC, created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query fees for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var fees []domain.Fee
	for rows.Next() {
		var modelFee models.Fee
		err := rows.Scan(
			&modelFee.FeeID,
			&modelFee.AccountID,
			&modelFee.FeeType,
			&modelFee.Description,
			&modelFee.PeriodStart,
			&modelFee.PeriodEnd,
			&modelFee.Rate,
			&modelFee.Amount,
			&modelFee.CurrencyCode,
			&modelFee.IsPaid,
			&modelFee.CreatedAt,
			&modelFee.CreatedBy,
			&modelFee.LastUpdatedAt,
			&modelFee.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fee row: %w", err)
		}
		fees = append(fees, toDomainFee(modelFee))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fee rows: %w", err)
	}

	return fees, nil
}

// SaveRetrocession inserts a newly derived payout.
func (r *PgxFeeRepository) SaveRetrocession(ctx context.Context, retro domain.Retrocession) error {
	query := `
		INSERT INTO retrocessions (retrocession_id, fee_id, recipient_name, recipient_type, rate, amount, currency_code, is_paid, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		retro.RetrocessionID,
		retro.FeeID,
		retro.RecipientName,
		retro.RecipientType,
		retro.Rate,
		retro.Amount,
		retro.CurrencyCode,
		retro.IsPaid,
		retro.CreatedAt,
		retro.CreatedBy,
		retro.LastUpdatedAt,
		retro.LastUpdatedBy,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique violation
				return fmt.Errorf("%w: retrocession with ID %s already exists", apperrors.ErrDuplicate, retro.RetrocessionID)
			}
		}
		return fmt.Errorf("failed to save retrocession %s: %w", retro.RetrocessionID, err)
	}
	return nil
}

// FindRetrocessionsByFeeID retrieves the payouts derived from a fee.
func (r *PgxFeeRepository) FindRetrocessionsByFeeID(ctx context.Context, feeID string) ([]domain.Retrocession, error) {
	query := `
		SELECT retrocession_id, fee_id, recipient_name, recipient_type, rate, amount, currency_code, is_paid, created_at, created_by, last_updated_at, last_updated_by
		FROM retrocessions
		WHERE fee_id = $1
		ORDER BY created_at;
	`
	rows, err := r.Pool.Query(ctx, query, feeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query retrocessions for fee %s: %w", feeID, err)
	}
	defer rows.Close()

	var retros []domain.Retrocession
	for rows.Next() {
		var modelRetro models.Retrocession
		err := rows.Scan(
			&modelRetro.RetrocessionID,
			&modelRetro.FeeID,
			&modelRetro.RecipientName,
			&modelRetro.RecipientType,
			&modelRetro.Rate,
			&modelRetro.Amount,
			&modelRetro.CurrencyCode,
			&modelRetro.IsPaid,
			&modelRetro.CreatedAt,
			&modelRetro.CreatedBy,
			&modelRetro.LastUpdatedAt,
			&modelRetro.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan retrocession row: %w", err)
		}
		retros = append(retros, toDomainRetrocession(modelRetro))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating retrocession rows: %w", err)
	}

	return retros, nil
}
