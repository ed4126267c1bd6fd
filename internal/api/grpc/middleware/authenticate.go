package middleware

import (
	"context"

	"github.com/google/uuid"

	grpcctx "github.com/cinemood/auth-server/internal/api/grpc/context"
	"github.com/cinemood/auth-server/internal/logger"
	"github.com/cinemood/auth-server/internal/model"
)

// TokenService resolves user ID from bearer tokens.
type TokenService interface {
	GetUserID(ctx context.Context, token string) (uuid.UUID, error)
}

// Authenticate validates bearer access tokens and injects the user ID into context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// AuthFunc resolves the caller from the Authorization header. A missing or
// unusable token leaves the context anonymous; handlers that require an
// identity reject such calls themselves.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	tokenString := grpcctx.BearerToken(ctx)
	if tokenString == "" {
		return ctx, nil
	}

	userID, err := m.tokenService.GetUserID(ctx, tokenString)
	if err != nil || userID == uuid.Nil {
		m.logger.Debug("Auth middleware: bearer token rejected",
			"error", errString(err))
		return ctx, nil
	}

	return m.contextManager.SetUserIDToContext(ctx, userID), nil
}

func errString(err error) string {
	if err == nil {
		return "nil subject"
	}
	return err.Error()
}
