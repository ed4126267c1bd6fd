package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/cinemood/auth-server/internal/model"
)

// tokenIDLength is the number of trailing characters used as a token id.
const tokenIDLength = 16

var (
	errTypeMismatch   = errors.New("token type mismatch")
	errInvalidSubject = errors.New("invalid subject")
)

type claims struct {
	jwt.RegisteredClaims
	Role      string `json:"role,omitempty"`
	TokenType string `json:"type"`
}

// Options configures a Manager.
type Options struct {
	Key        []byte
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// Leeway tolerates clock skew between instances on iat and exp checks.
	Leeway time.Duration
	// Now overrides the clock, used by tests.
	Now func() time.Time
}

// Manager implements model.TokenManager with HS256 signed JWTs.
type Manager struct {
	key        []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

var _ model.TokenManager = (*Manager)(nil)

// NewManager creates a token manager. The key is expected to come from DeriveKey.
func NewManager(opts Options) *Manager {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(opts.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(now),
	}
	if opts.Leeway > 0 {
		options = append(options, jwt.WithLeeway(opts.Leeway))
	}

	return &Manager{
		key:        opts.Key,
		issuer:     opts.Issuer,
		accessTTL:  opts.AccessTTL,
		refreshTTL: opts.RefreshTTL,
		now:        now,
		parser:     jwt.NewParser(options...),
	}
}

// RefreshTTL returns the refresh token lifetime.
func (m *Manager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

// Issue creates a new access/refresh pair for subject.
func (m *Manager) Issue(subject uuid.UUID, role string) (model.TokenPair, error) {
	now := m.now()

	access, accessExp, err := m.sign(subject, role, model.TokenTypeAccess, now, m.accessTTL)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, refreshExp, err := m.sign(subject, role, model.TokenTypeRefresh, now, m.refreshTTL)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return model.TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (m *Manager) sign(subject uuid.UUID, role, tokenType string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject.String(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role:      role,
		TokenType: tokenType,
	})

	signed, err := token.SignedString(m.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks signature, expiry and issuer. Every failure wraps
// model.ErrInvalidToken; the underlying cause is kept for logging.
func (m *Manager) Verify(tokenString string) (model.Claims, error) {
	c := &claims{}
	if _, err := m.parser.ParseWithClaims(tokenString, c, func(*jwt.Token) (interface{}, error) {
		return m.key, nil
	}); err != nil {
		return model.Claims{}, fmt.Errorf("%w: %w", model.ErrInvalidToken, err)
	}

	subject, err := uuid.Parse(c.Subject)
	if err != nil || subject == uuid.Nil {
		return model.Claims{}, fmt.Errorf("%w: %w", model.ErrInvalidToken, errInvalidSubject)
	}

	out := model.Claims{
		ID:        c.ID,
		Subject:   subject,
		Role:      c.Role,
		TokenType: c.TokenType,
	}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out, nil
}

// VerifyAccess verifies an access token.
func (m *Manager) VerifyAccess(tokenString string) (model.Claims, error) {
	return m.verifyType(tokenString, model.TokenTypeAccess)
}

// VerifyRefresh verifies a refresh token.
func (m *Manager) VerifyRefresh(tokenString string) (model.Claims, error) {
	return m.verifyType(tokenString, model.TokenTypeRefresh)
}

func (m *Manager) verifyType(tokenString, tokenType string) (model.Claims, error) {
	c, err := m.Verify(tokenString)
	if err != nil {
		return model.Claims{}, err
	}
	if c.TokenType != tokenType {
		return model.Claims{}, fmt.Errorf("%w: %w: %s", model.ErrInvalidToken, errTypeMismatch, c.TokenType)
	}
	return c, nil
}

// TokenID returns the non-secret suffix identifying a serialized token.
func (m *Manager) TokenID(tokenString string) string {
	return TokenID(tokenString)
}

// TokenID returns the last characters of the token's signature segment.
func TokenID(tokenString string) string {
	if len(tokenString) <= tokenIDLength {
		return tokenString
	}
	return tokenString[len(tokenString)-tokenIDLength:]
}

// FailureReason classifies a verification error for log output.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, jwt.ErrTokenExpired):
		return "expired"
	case errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return "issued_in_future"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return "invalid_signature"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return "wrong_issuer"
	case errors.Is(err, errTypeMismatch):
		return "wrong_type"
	case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, errInvalidSubject):
		return "malformed"
	default:
		return "invalid"
	}
}
