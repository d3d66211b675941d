// Package receipt holds the receipt document and signed share-link entities
// backing the transaction receipt surface.
package receipt

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyTransactionID = errors.New("transaction id cannot be empty")
	ErrEmptyDocumentURL   = errors.New("document URL cannot be empty")
	ErrEmptyStorageID     = errors.New("storage id cannot be empty")
)

// Document is a rendered receipt stored in the document store, one per
// transaction.
type Document struct {
	ID            uuid.UUID `json:"id" bson:"_id"`
	TransactionID uuid.UUID `json:"transaction_id" bson:"transaction_id"`
	FileName      string    `json:"file_name" bson:"file_name"`
	DocumentURL   string    `json:"document_url" bson:"document_url"`
	StorageID     string    `json:"storage_id" bson:"storage_id"`
	ContentType   string    `json:"content_type" bson:"content_type"`
	Content       []byte    `json:"-" bson:"content"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}

// NewDocument creates a receipt document for a transaction
func NewDocument(transactionID uuid.UUID, fileName, documentURL, storageID, contentType string, content []byte) (*Document, error) {
	if transactionID == uuid.Nil {
		return nil, ErrEmptyTransactionID
	}
	if documentURL == "" {
		return nil, ErrEmptyDocumentURL
	}
	if storageID == "" {
		return nil, ErrEmptyStorageID
	}

	return &Document{
		ID:            uuid.New(),
		TransactionID: transactionID,
		FileName:      fileName,
		DocumentURL:   documentURL,
		StorageID:     storageID,
		ContentType:   contentType,
		Content:       content,
		CreatedAt:     time.Now().UTC(),
	}, nil
}
