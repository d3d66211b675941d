package receipt

import (
	"context"

	"github.com/google/uuid"
)

// DocumentRepository persists rendered receipt documents
type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*Document, error)
}

// SignedLinkRepository persists shareable receipt links
type SignedLinkRepository interface {
	Create(ctx context.Context, link *SignedLink) error
	GetByID(ctx context.Context, id uuid.UUID) (*SignedLink, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// ErrDocumentNotFound indicates a missing receipt document, looked up either
// by document id or by owning transaction id.
type ErrDocumentNotFound struct {
	DocumentID    uuid.UUID
	TransactionID uuid.UUID
}

func (e ErrDocumentNotFound) Error() string {
	if e.DocumentID != uuid.Nil {
		return "receipt document not found: " + e.DocumentID.String()
	}
	return "receipt document not found for transaction: " + e.TransactionID.String()
}

// ErrSignedLinkNotFound indicates a missing signed link
type ErrSignedLinkNotFound struct {
	LinkID uuid.UUID
}

func (e ErrSignedLinkNotFound) Error() string {
	return "signed link not found: " + e.LinkID.String()
}
