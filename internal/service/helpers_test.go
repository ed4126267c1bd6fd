package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/cinemood/auth-server/internal/model"
	"github.com/cinemood/auth-server/internal/password"
	redisstore "github.com/cinemood/auth-server/internal/storage/redis"
	"github.com/cinemood/auth-server/internal/testutil"
	"github.com/cinemood/auth-server/internal/token"
)

const (
	testAccessTTL  = 15 * time.Minute
	testRefreshTTL = 24 * time.Hour
	testLeeway     = 5 * time.Second
	testSigningKey = "service-test-secret"
	testIssuer     = "cinemood-test"
	testSubject    = "Your code"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memAccounts is an in-memory account repository with a unique email index.
type memAccounts struct {
	mu      sync.Mutex
	byID    map[uuid.UUID]model.Account
	byEmail map[string]uuid.UUID
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byID: map[uuid.UUID]model.Account{}, byEmail: map[string]uuid.UUID{}}
}

func (m *memAccounts) GetByEmail(_ context.Context, email string) (model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byEmail[model.NormalizeEmail(email)]
	if !ok {
		return model.Account{}, model.ErrNotFound
	}
	return m.byID[id], nil
}

func (m *memAccounts) GetByID(_ context.Context, id uuid.UUID) (model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return model.Account{}, model.ErrNotFound
	}
	return a, nil
}

func (m *memAccounts) Save(_ context.Context, a model.Account) (model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email := model.NormalizeEmail(a.Email)
	if owner, ok := m.byEmail[email]; ok && owner != a.ID {
		return model.Account{}, model.ErrEmailTaken
	}
	a.Email = email
	m.byID[a.ID] = a
	m.byEmail[email] = a.ID
	return a, nil
}

func (m *memAccounts) delete(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byEmail, m.byID[id].Email)
	delete(m.byID, id)
}

func (m *memAccounts) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

// inbox records the last code sent to each email.
type inbox struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
}

func (n *inbox) SendVerificationCode(_ context.Context, email, _, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.codes == nil {
		n.codes = map[string]string{}
	}
	n.codes[email] = code
	return n.err
}

func (n *inbox) last(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.codes[model.NormalizeEmail(email)]
}

type testEnv struct {
	mr       *miniredis.Miniredis
	clock    *fakeClock
	accounts *memAccounts
	inbox    *inbox
	codes    *redisstore.CodeStore
	sessions *redisstore.SessionStore
	manager  *token.Manager
	tokens   *TokenService
	auth     *Auth
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr, client := testutil.NewRedis(t)
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	log := testutil.MakeNoopLogger()

	manager := token.NewManager(token.Options{
		Key:        token.DeriveKey(testSigningKey),
		Issuer:     testIssuer,
		AccessTTL:  testAccessTTL,
		RefreshTTL: testRefreshTTL,
		Leeway:     testLeeway,
		Now:        clock.Now,
	})
	sessions := redisstore.NewSessionStore(client, testRefreshTTL)
	codes := redisstore.NewCodeStore(client, model.VerificationCodeTTL, 0)
	accounts := newMemAccounts()
	box := &inbox{}

	tokens := NewTokenService(manager, sessions, accounts, log)

	auth := NewAuth(accounts, codes, box, password.NewBcrypt(bcrypt.MinCost), tokens, log, testSubject)
	auth.now = clock.Now

	return &testEnv{
		mr:       mr,
		clock:    clock,
		accounts: accounts,
		inbox:    box,
		codes:    codes,
		sessions: sessions,
		manager:  manager,
		tokens:   tokens,
		auth:     auth,
	}
}

// signUp registers and verifies an account, returning its first token pair.
func (e *testEnv) signUp(t *testing.T, email string) model.TokenPair {
	t.Helper()
	ctx := context.Background()

	_, err := e.auth.Register(ctx, model.RegisterParams{Email: email, Password: "correct horse", Username: "neo"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	pair, err := e.auth.VerifyCode(ctx, email, e.inbox.last(email))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	return pair
}

// logIn runs the login flow for an existing account.
func (e *testEnv) logIn(t *testing.T, email string) model.TokenPair {
	t.Helper()
	ctx := context.Background()

	_, err := e.auth.Login(ctx, model.LoginParams{Email: email, Password: "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	pair, err := e.auth.VerifyCode(ctx, email, e.inbox.last(email))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	return pair
}

func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}
