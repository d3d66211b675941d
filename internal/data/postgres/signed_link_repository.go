package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Dev-Mentorship-Programme/transaction-service/internal/domain/receipt"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/platform/persistence"
)

// SignedLinkRepository implements the receipt.SignedLinkRepository interface for PostgreSQL
type SignedLinkRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewSignedLinkRepository creates a new PostgreSQL signed link repository
func NewSignedLinkRepository(logger *slog.Logger, db *persistence.PostgresDB) receipt.SignedLinkRepository {
	return &SignedLinkRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// Create stores a new signed link
func (r *SignedLinkRepository) Create(ctx context.Context, link *receipt.SignedLink) error {
	query := `
		INSERT INTO signed_links (id, resource_id, resource_type, shareable_url, expires_at, created_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		link.ID,
		link.ResourceID,
		link.ResourceType,
		link.ShareableURL,
		link.ExpiresAt,
		link.CreatedAt,
		link.IsActive,
	)
	if err != nil {
		r.logger.Error("Failed to create signed link", "id", link.ID.String(), "error", err)
		return fmt.Errorf("failed to create signed link: %w", err)
	}

	return nil
}

// GetByID retrieves a signed link by its ID
func (r *SignedLinkRepository) GetByID(ctx context.Context, id uuid.UUID) (*receipt.SignedLink, error) {
	query := `
		SELECT id, resource_id, resource_type, shareable_url, expires_at, created_at, is_active
		FROM signed_links
		WHERE id = $1
	`

	var link receipt.SignedLink
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&link.ID,
		&link.ResourceID,
		&link.ResourceType,
		&link.ShareableURL,
		&link.ExpiresAt,
		&link.CreatedAt,
		&link.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, receipt.ErrSignedLinkNotFound{LinkID: id}
		}
		r.logger.Error("Failed to get signed link", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get signed link: %w", err)
	}

	return &link, nil
}

// Deactivate marks a signed link as inactive
func (r *SignedLinkRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE signed_links
		SET is_active = FALSE
		WHERE id = $1
	`

	tag, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to deactivate signed link", "id", id.String(), "error", err)
		return fmt.Errorf("failed to deactivate signed link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return receipt.ErrSignedLinkNotFound{LinkID: id}
	}

	return nil
}
