package receipts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Dev-Mentorship-Programme/transaction-service/internal/config"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/domain/receipt"
	"github.com/Dev-Mentorship-Programme/transaction-service/internal/domain/transaction"
)

// ErrLinkNotValid indicates a share link that exists but is revoked or expired
var ErrLinkNotValid = errors.New("share link is no longer valid")

// Service generates receipt documents and manages shareable links to them.
// Generation is idempotent per transaction: repeated calls return the stored
// document without re-rendering.
type Service struct {
	transactions transaction.Repository
	documents    receipt.DocumentRepository
	links        receipt.SignedLinkRepository
	renderPool   *RenderPool
	signer       *TokenSigner
	baseURL      string
	logger       *slog.Logger
}

func NewService(
	transactions transaction.Repository,
	documents receipt.DocumentRepository,
	links receipt.SignedLinkRepository,
	renderPool *RenderPool,
	signer *TokenSigner,
	cfg *config.ReceiptsConfig,
	logger *slog.Logger,
) *Service {
	return &Service{
		transactions: transactions,
		documents:    documents,
		links:        links,
		renderPool:   renderPool,
		signer:       signer,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		logger:       logger,
	}
}

// Generate renders and stores the receipt for a transaction, returning the
// existing document when one was already generated.
func (s *Service) Generate(ctx context.Context, transactionID uuid.UUID) (*receipt.Document, error) {
	existing, err := s.documents.GetByTransactionID(ctx, transactionID)
	if err == nil {
		return existing, nil
	}
	var notFound receipt.ErrDocumentNotFound
	if !errors.As(err, &notFound) {
		return nil, err
	}

	tx, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	content, err := s.renderPool.Render(tx)
	if err != nil {
		s.logger.Error("Failed to render receipt",
			"transaction_id", transactionID.String(),
			"error", err,
		)
		return nil, err
	}

	storageID := uuid.New().String()
	doc, err := receipt.NewDocument(
		transactionID,
		fmt.Sprintf("receipt-%s.html", tx.Reference),
		fmt.Sprintf("%s/api/v1/transactions/%s/receipt", s.baseURL, transactionID.String()),
		storageID,
		receiptContentType,
		content,
	)
	if err != nil {
		return nil, err
	}

	if err := s.documents.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("Generated receipt",
		"transaction_id", transactionID.String(),
		"file_name", doc.FileName,
	)

	return doc, nil
}

// Get returns the stored receipt document for a transaction
func (s *Service) Get(ctx context.Context, transactionID uuid.UUID) (*receipt.Document, error) {
	return s.documents.GetByTransactionID(ctx, transactionID)
}

// Share mints a signed, time-limited link to a transaction's receipt. The
// receipt is generated first if it does not exist yet.
func (s *Service) Share(ctx context.Context, req *receipt.ShareRequest) (*receipt.SignedLink, error) {
	doc, err := s.Generate(ctx, req.TransactionID)
	if err != nil {
		return nil, err
	}

	expiresAt := req.ExpiresAt()

	// The link id is minted up front so the share token can embed it.
	linkID := uuid.New()
	token := s.signer.Sign(linkID, expiresAt)
	shareURL := fmt.Sprintf("%s/api/v1/receipts/shared/%s", s.baseURL, token)

	link, err := receipt.NewSignedLink(doc.ID, shareURL, expiresAt)
	if err != nil {
		return nil, err
	}
	link.ID = linkID

	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}

	s.logger.Info("Created receipt share link",
		"transaction_id", req.TransactionID.String(),
		"link_id", link.ID.String(),
		"requested_by", req.RequestedBy,
		"expires_at", expiresAt,
	)

	return link, nil
}

// Resolve validates a share token and returns the receipt document it points
// to. Revoked and expired links fail with ErrLinkNotValid.
func (s *Service) Resolve(ctx context.Context, token string) (*receipt.Document, error) {
	linkID, err := s.signer.Verify(token, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if !link.IsValid() {
		return nil, ErrLinkNotValid
	}

	return s.documents.GetByID(ctx, link.ResourceID)
}

// Revoke deactivates a share link so the URL stops resolving
func (s *Service) Revoke(ctx context.Context, linkID uuid.UUID) error {
	return s.links.Deactivate(ctx, linkID)
}
