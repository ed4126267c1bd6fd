package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cinemood/auth-server/internal/api/grpc/authrpc"
	"github.com/cinemood/auth-server/internal/logger"
	"github.com/cinemood/auth-server/internal/model"
)

// AuthService defines registration, login, verification and session operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.VerificationTicket, error)
	Login(ctx context.Context, params model.LoginParams) (model.VerificationTicket, error)
	StartVerification(ctx context.Context, email string) (model.VerificationTicket, error)
	ResendCode(ctx context.Context, email string) (model.VerificationTicket, error)
	VerifyCode(ctx context.Context, email, code string) (model.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error)
	LogoutAll(ctx context.Context, userID uuid.UUID, refreshToken string) error
}

var _ authrpc.AuthServer = (*Auth)(nil)

// Auth handles gRPC endpoints for authentication.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register stages a new account and sends a verification code.
func (h *Auth) Register(ctx context.Context, req *authrpc.RegisterRequest) (*authrpc.VerificationResponse, error) {
	h.logger.Debug("Auth handler: processing registration request",
		"email", req.Email)

	ticket, err := h.authService.Register(ctx, model.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Username: req.Username,
	})
	if err != nil {
		return nil, h.fail("registration", err)
	}

	return verificationResponse(ticket), nil
}

// Login checks credentials and sends a verification code.
func (h *Auth) Login(ctx context.Context, req *authrpc.LoginRequest) (*authrpc.VerificationResponse, error) {
	h.logger.Debug("Auth handler: processing login request",
		"email", req.Email)

	ticket, err := h.authService.Login(ctx, model.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, h.fail("login", err)
	}

	return verificationResponse(ticket), nil
}

func (h *Auth) StartVerification(ctx context.Context, req *authrpc.VerificationRequest) (*authrpc.VerificationResponse, error) {
	ticket, err := h.authService.StartVerification(ctx, req.Email)
	if err != nil {
		return nil, h.fail("start verification", err)
	}

	return verificationResponse(ticket), nil
}

func (h *Auth) ResendCode(ctx context.Context, req *authrpc.VerificationRequest) (*authrpc.VerificationResponse, error) {
	ticket, err := h.authService.ResendCode(ctx, req.Email)
	if err != nil {
		return nil, h.fail("resend code", err)
	}

	return verificationResponse(ticket), nil
}

// VerifyCode completes login or registration and returns a token pair.
func (h *Auth) VerifyCode(ctx context.Context, req *authrpc.VerifyCodeRequest) (*authrpc.TokenResponse, error) {
	h.logger.Debug("Auth handler: processing verification request",
		"email", req.Email)

	pair, err := h.authService.VerifyCode(ctx, req.Email, req.Code)
	if err != nil {
		return nil, h.fail("verification", err)
	}

	return tokenResponse(pair), nil
}

// Refresh rotates a refresh token.
func (h *Auth) Refresh(ctx context.Context, req *authrpc.RefreshRequest) (*authrpc.TokenResponse, error) {
	if req.RefreshToken == "" {
		return nil, status.Error(codes.InvalidArgument, "refresh token is required")
	}

	pair, err := h.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, h.fail("refresh", err)
	}

	return tokenResponse(pair), nil
}

// LogoutAll revokes every session of the caller identified by the bearer
// access token or by the refresh token in the request.
func (h *Auth) LogoutAll(ctx context.Context, req *authrpc.LogoutAllRequest) (*authrpc.Empty, error) {
	userID, _ := h.contextManager.GetUserIDFromContext(ctx)

	if err := h.authService.LogoutAll(ctx, userID, req.RefreshToken); err != nil {
		return nil, h.fail("logout all", err)
	}

	h.logger.Info("Auth handler: logout all completed",
		"user_id", userID)

	return &authrpc.Empty{}, nil
}

func (h *Auth) fail(operation string, err error) error {
	st := handleError(err)
	switch status.Code(st) {
	case codes.Internal, codes.Unavailable:
		h.logger.Error("Auth handler: "+operation+" failed",
			"error", err.Error())
	default:
		h.logger.Info("Auth handler: "+operation+" rejected",
			"reason", Reason(st))
	}
	return st
}

func verificationResponse(ticket model.VerificationTicket) *authrpc.VerificationResponse {
	return &authrpc.VerificationResponse{
		Email:                ticket.Email,
		VerificationRequired: true,
		ExpiresAt:            ticket.ExpiresAt,
	}
}

func tokenResponse(pair model.TokenPair) *authrpc.TokenResponse {
	return &authrpc.TokenResponse{
		AccessToken:      pair.AccessToken,
		RefreshToken:     pair.RefreshToken,
		AccessExpiresAt:  pair.AccessExpiresAt,
		RefreshExpiresAt: pair.RefreshExpiresAt,
	}
}
