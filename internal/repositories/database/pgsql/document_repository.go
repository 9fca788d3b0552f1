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

type PgxDocumentRepository struct {
	BaseRepository
}

// newPgxDocumentRepository creates a new repository for document metadata.
func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentReader {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DocumentReader = (*PgxDocumentRepository)(nil)

func toDomainDocument(m models.Document) domain.Document {
	return domain.Document{
		DocumentID:   m.DocumentID,
		ClientID:     m.ClientID,
		AccountID:    m.AccountID,
		Name:         m.Name,
		DocumentType: m.DocumentType,
		Status:       domain.DocumentStatus(m.Status),
		ExpiryDate:   m.ExpiryDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// FindApprovedDocumentsExpiringBy retrieves approved documents with a
// non-null expiry date on or before the cutoff.
func (r *PgxDocumentRepository) FindApprovedDocumentsExpiringBy(ctx context.Context, cutoff time.Time) ([]domain.Document, error) {
	query := `
		SELECT document_id, client_id, account_id, name, document_type, status, expiry_date, created_at, created_by, last_updated_at, last_updated_by
		FROM documents
		WHERE status = 'approved' AND expiry_date IS NOT NULL AND expiry_date <= $1
		ORDER BY expiry_date;
	`
	rows, err := r.Pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query expiring documents: %w", err)
	}
	defer rows.Close()

	var documents []domain.Document
	for rows.Next() {
		var modelDoc models.Document
		err := rows.Scan(
			&modelDoc.DocumentID,
			&modelDoc.ClientID,
			&modelDoc.AccountID,
			&modelDoc.Name,
			&modelDoc.DocumentType,
			&modelDoc.Status,
			&modelDoc.ExpiryDate,
			&modelDoc.CreatedAt,
			&modelDoc.CreatedBy,
			&modelDoc.LastUpdatedAt,
			&modelDoc.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		documents = append(documents, toDomainDocument(modelDoc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document rows: %w", err)
	}

	return documents, nil
}
