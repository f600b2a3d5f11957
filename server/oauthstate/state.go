package oauthstate

import (
	"crypto/sha256"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-crm-sync/internal/errors"
	pkgerrors "github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"
)

const keyInfo = "crm-sync oauth state v1"

// Signer issues the OAuth state parameter: a short-lived HS256 JWT whose
// subject is the browser session that started the install.
type Signer struct {
	key     []byte
	ttl     time.Duration
	nowFunc func() time.Time
}

type Option func(*Signer)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) {
		s.nowFunc = now
	}
}

// NewSigner derives the signing key from the OAuth client secret.
func NewSigner(clientSecret string, ttl time.Duration, opts ...Option) (*Signer, error) {
	if clientSecret == "" {
		return nil, pkgerrors.New("client secret is required to sign state")
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(clientSecret), nil, []byte(keyInfo)), key); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to derive state key")
	}

	s := &Signer{key: key, ttl: ttl, nowFunc: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Signer) Issue(sessionID string) (string, error) {
	now := s.nowFunc()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	state, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to sign state")
	}
	return state, nil
}

// Verify checks the signature, the expiry and that the state was issued to
// sessionID. Failures match errors.ErrInvalidState.
func (s *Signer) Verify(state, sessionID string) error {
	_, err := jwt.ParseWithClaims(state, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, pkgerrors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithSubject(sessionID),
		jwt.WithTimeFunc(s.nowFunc),
	)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidState, "[oauthstate Verify] %v", err)
	}
	return nil
}
