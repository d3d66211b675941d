// Package mongo provides MongoDB implementations of the document-store
// repositories.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Dev-Mentorship-Programme/transaction-service/internal/domain/receipt"
)

const (
	// ReceiptCollectionName is the name of the receipts collection in MongoDB
	ReceiptCollectionName = "receipts"
)

// ReceiptRepository implements the receipt.DocumentRepository interface for MongoDB
type ReceiptRepository struct {
	db     *mongo.Database
	logger *slog.Logger
}

// NewReceiptRepository creates a new MongoDB receipt repository
func NewReceiptRepository(logger *slog.Logger, db *mongo.Database) receipt.DocumentRepository {
	return &ReceiptRepository{
		db:     db,
		logger: logger,
	}
}

// Create stores a rendered receipt document. At most one document exists per
// transaction; a second Create for the same transaction is a no-op that
// returns the existing state untouched.
func (r *ReceiptRepository) Create(ctx context.Context, doc *receipt.Document) error {
	collection := r.db.Collection(ReceiptCollectionName)

	existing, err := r.GetByTransactionID(ctx, doc.TransactionID)
	var notFound receipt.ErrDocumentNotFound
	if err != nil && !errors.As(err, &notFound) {
		r.logger.Error("Failed to check for existing receipt",
			"transaction_id", doc.TransactionID.String(),
			"error", err)
		return fmt.Errorf("failed to check for existing receipt: %w", err)
	}
	if existing != nil {
		return nil
	}

	_, err = collection.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Error("Failed to create receipt",
			"transaction_id", doc.TransactionID.String(),
			"error", err)
		return fmt.Errorf("failed to create receipt: %w", err)
	}

	return nil
}

// GetByID retrieves a receipt document by its document ID.
// Returns ErrDocumentNotFound if no receipt exists with the given id.
func (r *ReceiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*receipt.Document, error) {
	collection := r.db.Collection(ReceiptCollectionName)

	filter := bson.M{"_id": id}
	var doc receipt.Document
	err := collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, receipt.ErrDocumentNotFound{DocumentID: id}
		}
		r.logger.Error("Failed to get receipt",
			"document_id", id.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	return &doc, nil
}

// GetByTransactionID retrieves a receipt document by its transaction ID.
// Returns ErrDocumentNotFound if no receipt exists for the transaction.
func (r *ReceiptRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*receipt.Document, error) {
	collection := r.db.Collection(ReceiptCollectionName)

	filter := bson.M{"transaction_id": transactionID}
	var doc receipt.Document
	err := collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, receipt.ErrDocumentNotFound{TransactionID: transactionID}
		}
		r.logger.Error("Failed to get receipt",
			"transaction_id", transactionID.String(),
			"error", err)
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}

	return &doc, nil
}
