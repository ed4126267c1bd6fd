package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cinemood/auth-server/internal/logger"
	"github.com/cinemood/auth-server/internal/model"
)

// dummyPassword is hashed once and compared against when an account is
// missing so that unknown emails cost the same as wrong passwords.
const dummyPassword = "cinemood-dummy-password"

// Auth coordinates registration, login, email verification and session
// lifecycle. Flows are keyed by the normalized email.
type Auth struct {
	accounts     model.AccountStore
	codes        model.CodeStore
	notifier     model.Notifier
	hasher       model.PasswordHasher
	tokenService *TokenService
	logger       *logger.Logger
	subject      string
	now          func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuth(
	accounts model.AccountStore,
	codes model.CodeStore,
	notifier model.Notifier,
	hasher model.PasswordHasher,
	tokenService *TokenService,
	logger *logger.Logger,
	subject string,
) *Auth {
	return &Auth{
		accounts:     accounts,
		codes:        codes,
		notifier:     notifier,
		hasher:       hasher,
		tokenService: tokenService,
		logger:       logger,
		subject:      subject,
		now:          time.Now,
	}
}

// Register stages a pending registration and sends a verification code.
// No account exists until VerifyCode succeeds.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.VerificationTicket, error) {
	if err := params.Validate(); err != nil {
		return model.VerificationTicket{}, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	email := model.NormalizeEmail(params.Email)

	a.logger.Debug("Auth service: starting user registration",
		"email", email)

	_, err := a.accounts.GetByEmail(ctx, email)
	if err == nil {
		a.logger.Info("Auth service: user already exists",
			"email", email)
		return model.VerificationTicket{}, model.ErrEmailTaken
	}
	if !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.VerificationTicket{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		return model.VerificationTicket{}, fmt.Errorf("failed to hash password: %w", err)
	}

	err = a.codes.StorePending(ctx, email, model.PendingRegistration{
		Username:     params.Username,
		PasswordHash: hash,
		CreatedAt:    a.now(),
	})
	if err != nil {
		a.logger.Error("Auth service: failed to store pending registration",
			"email", email,
			"error", err.Error())
		return model.VerificationTicket{}, fmt.Errorf("failed to store pending registration: %w", err)
	}

	return a.sendCode(ctx, email)
}

// Login checks credentials and sends a verification code. Tokens are only
// issued by VerifyCode.
func (a *Auth) Login(ctx context.Context, params model.LoginParams) (model.VerificationTicket, error) {
	if err := params.Validate(); err != nil {
		return model.VerificationTicket{}, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	email := model.NormalizeEmail(params.Email)

	a.logger.Debug("Auth service: starting user login",
		"email", email)

	account, err := a.accounts.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		_, _ = a.hasher.Compare(a.dummy(), params.Password)
		a.logger.Info("Auth service: login failed",
			"email", email)
		return model.VerificationTicket{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.VerificationTicket{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	ok, err := a.hasher.Compare(account.PasswordHash, params.Password)
	if err != nil {
		a.logger.Error("Auth service: failed to compare password",
			"user_id", account.ID,
			"error", err.Error())
		return model.VerificationTicket{}, model.ErrInvalidCredentials
	}
	if !ok {
		a.logger.Info("Auth service: login failed",
			"email", email)
		return model.VerificationTicket{}, model.ErrInvalidCredentials
	}

	return a.sendCode(ctx, email)
}

// StartVerification issues a fresh code for email, replacing any earlier one.
func (a *Auth) StartVerification(ctx context.Context, email string) (model.VerificationTicket, error) {
	if err := model.ValidateEmail(email); err != nil {
		return model.VerificationTicket{}, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	return a.sendCode(ctx, model.NormalizeEmail(email))
}

// ResendCode is an alias of StartVerification.
func (a *Auth) ResendCode(ctx context.Context, email string) (model.VerificationTicket, error) {
	return a.StartVerification(ctx, email)
}

func (a *Auth) sendCode(ctx context.Context, email string) (model.VerificationTicket, error) {
	code, err := a.codes.IssueCode(ctx, email)
	if err != nil {
		a.logger.Error("Auth service: failed to issue verification code",
			"email", email,
			"error", err.Error())
		return model.VerificationTicket{}, fmt.Errorf("failed to issue verification code: %w", err)
	}

	if err := a.notifier.SendVerificationCode(ctx, email, a.subject, code); err != nil {
		a.logger.Warn("Auth service: failed to deliver verification code",
			"email", email,
			"error", err.Error())
	}

	return model.VerificationTicket{
		Email:     email,
		ExpiresAt: a.now().Add(a.codes.TTL()),
	}, nil
}

// VerifyCode completes a login or a pending registration and returns a token pair.
func (a *Auth) VerifyCode(ctx context.Context, email, code string) (model.TokenPair, error) {
	email = model.NormalizeEmail(email)

	matched, err := a.codes.MatchCode(ctx, email, code)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to match verification code: %w", err)
	}
	if !matched {
		a.logger.Info("Auth service: verification code rejected",
			"email", email)
		return model.TokenPair{}, model.ErrInvalidCode
	}

	account, err := a.accounts.GetByEmail(ctx, email)
	switch {
	case err == nil:
		pair, err := a.tokenService.Issue(ctx, account)
		if err != nil {
			return model.TokenPair{}, err
		}
		a.cleanup(ctx, email, false)

		a.logger.Info("Auth service: login completed successfully",
			"user_id", account.ID)
		return pair, nil
	case !errors.Is(err, model.ErrNotFound):
		return model.TokenPair{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	pending, err := a.codes.TakePending(ctx, email)
	if err != nil {
		return model.TokenPair{}, fmt.Errorf("failed to read pending registration: %w", err)
	}
	if pending == nil {
		return model.TokenPair{}, model.ErrNoPendingRegistration
	}

	now := a.now()
	account, err = a.accounts.Save(ctx, model.Account{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: pending.PasswordHash,
		Username:     pending.Username,
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return model.TokenPair{}, err
		}
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.TokenPair{}, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := a.tokenService.Issue(ctx, account)
	if err != nil {
		return model.TokenPair{}, err
	}
	a.cleanup(ctx, email, true)

	a.logger.Info("Auth service: user registration completed successfully",
		"user_id", account.ID)

	return pair, nil
}

// cleanup removes consumed verification state. Failures only leave entries
// to expire on their own.
func (a *Auth) cleanup(ctx context.Context, email string, pending bool) {
	if err := a.codes.DeleteCode(ctx, email); err != nil {
		a.logger.Warn("Auth service: failed to delete verification code",
			"email", email,
			"error", err.Error())
	}
	if !pending {
		return
	}
	if err := a.codes.DeletePending(ctx, email); err != nil {
		a.logger.Warn("Auth service: failed to delete pending registration",
			"email", email,
			"error", err.Error())
	}
}

func (a *Auth) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	return a.tokenService.Refresh(ctx, refreshToken)
}

// LogoutAll revokes every session of the caller. userID comes from an
// authenticated access token and may be uuid.Nil when only a refresh token
// is presented.
func (a *Auth) LogoutAll(ctx context.Context, userID uuid.UUID, refreshToken string) error {
	if refreshToken != "" {
		subject, err := a.tokenService.SubjectFromRefresh(refreshToken)
		switch {
		case err != nil && userID == uuid.Nil:
			return model.ErrUnauthorized
		case err != nil:
			refreshToken = ""
		case userID != uuid.Nil && subject != userID:
			return model.ErrUnauthorized
		default:
			userID = subject
		}
	}
	if userID == uuid.Nil {
		return model.ErrUnauthorized
	}

	if _, err := a.accounts.GetByID(ctx, userID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrUserNotFound
		}
		return fmt.Errorf("failed to get account by id: %w", err)
	}

	if err := a.tokenService.RevokeAll(ctx, userID, refreshToken); err != nil {
		a.logger.Error("Auth service: failed to revoke sessions",
			"user_id", userID,
			"error", err.Error())
		return err
	}

	a.logger.Info("Auth service: all sessions revoked",
		"user_id", userID)

	return nil
}

// GetUserID resolves the subject of an access token.
func (a *Auth) GetUserID(ctx context.Context, accessToken string) (uuid.UUID, error) {
	return a.tokenService.GetUserID(ctx, accessToken)
}

func (a *Auth) dummy() string {
	a.dummyOnce.Do(func() {
		hash, err := a.hasher.Hash(dummyPassword)
		if err != nil {
			a.logger.Error("Auth service: failed to hash dummy password",
				"error", err.Error())
			return
		}
		a.dummyHash = hash
	})
	return a.dummyHash
}
