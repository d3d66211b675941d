package receipts

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenSigner_SignAndVerify(t *testing.T) {
	signer := NewTokenSigner("test-secret")
	linkID := uuid.New()
	expiresAt := time.Now().UTC().Add(time.Hour)

	token := signer.Sign(linkID, expiresAt)
	require.NotEmpty(t, token)

	got, err := signer.Verify(token, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, linkID, got)
}

func TestTokenSigner_Verify_Expired(t *testing.T) {
	signer := NewTokenSigner("test-secret")
	linkID := uuid.New()
	expiresAt := time.Now().UTC().Add(time.Hour)

	token := signer.Sign(linkID, expiresAt)

	_, err := signer.Verify(token, expiresAt.Add(time.Second))
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenSigner_Verify_WrongSecret(t *testing.T) {
	signer := NewTokenSigner("test-secret")
	other := NewTokenSigner("other-secret")
	token := signer.Sign(uuid.New(), time.Now().UTC().Add(time.Hour))

	_, err := other.Verify(token, time.Now().UTC())
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenSigner_Verify_Garbage(t *testing.T) {
	signer := NewTokenSigner("test-secret")

	tests := []struct {
		name  string
		token string
	}{
		{name: "not base64", token: "%%%"},
		{name: "missing parts", token: "YWJj"},
		{name: "bad uuid", token: signerEncode("not-a-uuid:123:deadbeef")},
		{name: "bad expiry", token: signerEncode(uuid.NewString() + ":soon:deadbeef")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := signer.Verify(tt.token, time.Now().UTC())
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func signerEncode(payload string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(payload))
}
