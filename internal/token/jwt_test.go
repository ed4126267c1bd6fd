package token

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinemood/auth-server/internal/model"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestManager(secret string, clock *fakeClock) *Manager {
	opts := Options{
		Key:        DeriveKey(secret),
		Issuer:     "cinemood-auth",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
	}
	if clock != nil {
		opts.Now = clock.Now
	}
	return NewManager(opts)
}

func TestManager_Issue_Roundtrip(t *testing.T) {
	m := newTestManager("secret", nil)
	u := uuid.New()

	pair, err := m.Issue(u, model.RoleUser)
	require.NoError(t, err)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	access, err := m.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u, access.Subject)
	assert.Equal(t, model.RoleUser, access.Role)
	assert.Equal(t, model.TokenTypeAccess, access.TokenType)

	refresh, err := m.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u, refresh.Subject)
	assert.Equal(t, model.TokenTypeRefresh, refresh.TokenType)
	assert.NotEmpty(t, refresh.ID)
}

func TestManager_Issue_PairsAreUniqueWithinSameInstant(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	m := newTestManager("secret", clock)
	u := uuid.New()

	first, err := m.Issue(u, model.RoleUser)
	require.NoError(t, err)
	second, err := m.Issue(u, model.RoleUser)
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEqual(t, m.TokenID(first.RefreshToken), m.TokenID(second.RefreshToken))
}

func TestManager_TokenTypeMismatch(t *testing.T) {
	m := newTestManager("secret", nil)
	pair, err := m.Issue(uuid.New(), model.RoleUser)
	require.NoError(t, err)

	_, err = m.VerifyRefresh(pair.AccessToken)
	require.ErrorIs(t, err, model.ErrInvalidToken)
	assert.Equal(t, "wrong_type", FailureReason(err))

	_, err = m.VerifyAccess(pair.RefreshToken)
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestManager_Expired(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	m := newTestManager("secret", clock)
	pair, err := m.Issue(uuid.New(), model.RoleUser)
	require.NoError(t, err)

	clock.now = clock.now.Add(16 * time.Minute)

	_, err = m.VerifyAccess(pair.AccessToken)
	require.ErrorIs(t, err, model.ErrInvalidToken)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
	assert.Equal(t, "expired", FailureReason(err))

	_, err = m.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
}

func TestManager_WrongKeyFails(t *testing.T) {
	signer := newTestManager("short", nil)
	verifier := newTestManager("a-much-longer-but-still-short", nil)

	pair, err := signer.Issue(uuid.New(), model.RoleUser)
	require.NoError(t, err)

	_, err = verifier.VerifyRefresh(pair.RefreshToken)
	require.ErrorIs(t, err, model.ErrInvalidToken)
	assert.Equal(t, "invalid_signature", FailureReason(err))
}

func TestManager_WrongIssuerFails(t *testing.T) {
	key := DeriveKey("secret")
	a := NewManager(Options{Key: key, Issuer: "a", AccessTTL: time.Minute, RefreshTTL: time.Hour})
	b := NewManager(Options{Key: key, Issuer: "b", AccessTTL: time.Minute, RefreshTTL: time.Hour})

	pair, err := a.Issue(uuid.New(), model.RoleUser)
	require.NoError(t, err)

	_, err = b.VerifyAccess(pair.AccessToken)
	require.ErrorIs(t, err, model.ErrInvalidToken)
	assert.Equal(t, "wrong_issuer", FailureReason(err))
}

func TestManager_RejectsOtherAlgorithms(t *testing.T) {
	m := newTestManager("secret", nil)
	now := time.Now()
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "cinemood-auth",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		TokenType: model.TokenTypeRefresh,
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.VerifyRefresh(raw)
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestManager_Malformed(t *testing.T) {
	m := newTestManager("secret", nil)

	_, err := m.VerifyRefresh("not-a-jwt")
	require.ErrorIs(t, err, model.ErrInvalidToken)
	assert.Equal(t, "malformed", FailureReason(err))
}

func TestTokenID(t *testing.T) {
	assert.Equal(t, "abc", TokenID("abc"))
	assert.Equal(t, "0123456789abcdef", TokenID("xxxxxxxx0123456789abcdef"))
	assert.Len(t, TokenID("header.payload.signature-that-is-long-enough"), tokenIDLength)
}

func TestManager_LeewayToleratesSkewedIssuer(t *testing.T) {
	key := DeriveKey("secret")
	local := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	ahead := &fakeClock{now: local.now.Add(2 * time.Second)}

	issuer := NewManager(Options{Key: key, Issuer: "i", AccessTTL: time.Minute, RefreshTTL: time.Hour, Now: ahead.Now})
	strict := NewManager(Options{Key: key, Issuer: "i", AccessTTL: time.Minute, RefreshTTL: time.Hour, Now: local.Now})
	tolerant := NewManager(Options{Key: key, Issuer: "i", AccessTTL: time.Minute, RefreshTTL: time.Hour, Leeway: 5 * time.Second, Now: local.Now})

	pair, err := issuer.Issue(uuid.New(), model.RoleUser)
	require.NoError(t, err)

	_, err = strict.VerifyRefresh(pair.RefreshToken)
	require.ErrorIs(t, err, model.ErrInvalidToken)
	assert.Equal(t, "issued_in_future", FailureReason(err))

	_, err = tolerant.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)

	local.now = local.now.Add(time.Minute + 10*time.Second)
	_, err = tolerant.VerifyAccess(pair.AccessToken)
	require.ErrorIs(t, err, model.ErrInvalidToken, "leeway does not stretch expiry beyond its own width")
}
