package digilocker

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"ecosprout/internal/domain/entity"
	"ecosprout/pkg/config"
)

var ErrVerificationFailed = errors.New("document verification failed")

type AuthRequest struct {
	AuthURL string
	State   string
}

type Document struct {
	ID   string
	Type string
	Data entity.DocumentData
}

// Simulator stands in for the DigiLocker OAuth flow. It builds real-looking
// authorization URLs and returns redacted document data for any non-empty code.
type Simulator struct {
	authURL     string
	clientID    string
	redirectURI string
}

func NewSimulator(cfg config.DigiLockerConfig) *Simulator {
	return &Simulator{
		authURL:     cfg.AuthURL,
		clientID:    cfg.ClientID,
		redirectURI: cfg.RedirectURI,
	}
}

func (s *Simulator) AuthorizationRequest(_ context.Context, documentType string) (AuthRequest, error) {
	state, err := randomState()
	if err != nil {
		return AuthRequest{}, fmt.Errorf("generate state: %w", err)
	}

	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", s.clientID)
	q.Set("redirect_uri", s.redirectURI)
	q.Set("state", state)
	q.Set("scope", documentType)

	return AuthRequest{
		AuthURL: s.authURL + "?" + q.Encode(),
		State:   state,
	}, nil
}

func (s *Simulator) FetchDocument(_ context.Context, code, documentType, holderName string) (*Document, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrVerificationFailed
	}

	return &Document{
		ID:   uuid.NewString(),
		Type: documentType,
		Data: entity.DocumentData{
			Name:           holderName,
			DOB:            "1990-01-01",
			Address:        "Address on file",
			DocumentNumber: MaskDocumentNumber(simulatedNumber(code)),
		},
	}, nil
}

// MaskDocumentNumber keeps only the last four characters.
func MaskDocumentNumber(number string) string {
	number = strings.ReplaceAll(number, " ", "")
	if len(number) <= 4 {
		return "XXXX-XXXX-" + number
	}
	return "XXXX-XXXX-" + number[len(number)-4:]
}

func simulatedNumber(code string) string {
	sum := sha256.Sum256([]byte(code))
	var digits strings.Builder
	for _, b := range sum[:12] {
		digits.WriteByte('0' + b%10)
	}
	return digits.String()
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
