package digilocker

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecosprout/pkg/config"
)

func newSimulator() *Simulator {
	return NewSimulator(config.DigiLockerConfig{
		AuthURL:     "https://digilocker.example/authorize",
		ClientID:    "client-1",
		RedirectURI: "https://app.example/callback",
	})
}

func TestAuthorizationRequest(t *testing.T) {
	req, err := newSimulator().AuthorizationRequest(context.Background(), "pan")
	require.NoError(t, err)

	assert.Len(t, req.State, 32)
	u, err := url.Parse(req.AuthURL)
	require.NoError(t, err)
	assert.Equal(t, "digilocker.example", u.Host)
	assert.Equal(t, req.State, u.Query().Get("state"))
	assert.Equal(t, "pan", u.Query().Get("scope"))
	assert.Equal(t, "client-1", u.Query().Get("client_id"))
}

func TestAuthorizationRequest_UniqueStates(t *testing.T) {
	s := newSimulator()
	a, err := s.AuthorizationRequest(context.Background(), "aadhaar")
	require.NoError(t, err)
	b, err := s.AuthorizationRequest(context.Background(), "aadhaar")
	require.NoError(t, err)

	assert.NotEqual(t, a.State, b.State)
}

func TestFetchDocument(t *testing.T) {
	doc, err := newSimulator().FetchDocument(context.Background(), "auth-code", "passport", "Asha Rao")
	require.NoError(t, err)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "passport", doc.Type)
	assert.Equal(t, "Asha Rao", doc.Data.Name)
	assert.Regexp(t, `^XXXX-XXXX-\d{4}$`, doc.Data.DocumentNumber)
}

func TestFetchDocument_EmptyCode(t *testing.T) {
	_, err := newSimulator().FetchDocument(context.Background(), "  ", "pan", "Asha Rao")
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestMaskDocumentNumber(t *testing.T) {
	assert.Equal(t, "XXXX-XXXX-9012", MaskDocumentNumber("1234 5678 9012"))
	assert.Equal(t, "XXXX-XXXX-12", MaskDocumentNumber("12"))
}
