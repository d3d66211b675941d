package receipt

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const ResourceTypeReceipt = "Receipt"

var (
	ErrEmptyResourceID   = errors.New("resource id cannot be empty")
	ErrEmptyShareableURL = errors.New("shareable URL cannot be empty")
	ErrExpiryInPast      = errors.New("expiry must be in the future")
)

// SignedLink is a time-limited shareable reference to a receipt resource.
type SignedLink struct {
	ID           uuid.UUID `json:"id"`
	ResourceID   uuid.UUID `json:"resource_id"`
	ResourceType string    `json:"resource_type"`
	ShareableURL string    `json:"shareable_url"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
	IsActive     bool      `json:"is_active"`
}

// NewSignedLink creates an active signed link expiring at the given instant
func NewSignedLink(resourceID uuid.UUID, shareableURL string, expiresAt time.Time) (*SignedLink, error) {
	if resourceID == uuid.Nil {
		return nil, ErrEmptyResourceID
	}
	if shareableURL == "" {
		return nil, ErrEmptyShareableURL
	}
	if !expiresAt.After(time.Now().UTC()) {
		return nil, ErrExpiryInPast
	}

	return &SignedLink{
		ID:           uuid.New(),
		ResourceID:   resourceID,
		ResourceType: ResourceTypeReceipt,
		ShareableURL: shareableURL,
		ExpiresAt:    expiresAt,
		CreatedAt:    time.Now().UTC(),
		IsActive:     true,
	}, nil
}

// IsExpired reports whether the link's expiry has passed
func (l *SignedLink) IsExpired() bool {
	return time.Now().UTC().After(l.ExpiresAt)
}

// IsValid reports whether the link is active and unexpired
func (l *SignedLink) IsValid() bool {
	return l.IsActive && !l.IsExpired()
}

// Deactivate revokes the link
func (l *SignedLink) Deactivate() {
	l.IsActive = false
}
