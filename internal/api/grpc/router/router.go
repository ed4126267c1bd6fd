package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cinemood/auth-server/internal/api/grpc/authrpc"
	"github.com/cinemood/auth-server/internal/api/grpc/handler"
	"github.com/cinemood/auth-server/internal/api/grpc/middleware"
	"github.com/cinemood/auth-server/internal/logger"
	"github.com/cinemood/auth-server/internal/metrics"
	"github.com/cinemood/auth-server/internal/model"
)

// Router builds the gRPC server for the auth service.
// It wires handlers and the interceptor chain.
type Router struct {
	authService    handler.AuthService
	tokenService   middleware.TokenService
	contextManager model.ContextManager
	metrics        *metrics.Metrics
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(
	authService handler.AuthService,
	tokenService middleware.TokenService,
	contextManager model.ContextManager,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		tokenService:   tokenService,
		contextManager: contextManager,
		metrics:        metrics,
		logger:         logger,
	}
}

// Only LogoutAll reads the caller identity.
func authRequired(_ context.Context, c interceptors.CallMeta) bool {
	return c.FullMethod() == authrpc.Auth_LogoutAll_FullMethodName
}

// Register builds a gRPC server with recovery, logging, metrics and
// authentication interceptors and registers the auth service on it.
func (r *Router) Register(opts ...grpc.ServerOption) *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	observe := middleware.NewMetrics(r.metrics)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)

	opts = append(opts,
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(r.recover)),
			logging.HandleGRPC,
			observe.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(authRequired),
			),
		),
	)

	s := grpc.NewServer(opts...)
	r.registerAuthRoutes(s)

	return s
}

func (r *Router) recover(p any) error {
	r.logger.Error("gRPC handler panicked",
		"panic", p)
	return status.Error(codes.Internal, "internal server error")
}

func (r *Router) registerAuthRoutes(server *grpc.Server) {
	authHandler := handler.NewAuth(r.authService, r.contextManager, r.logger)
	authrpc.RegisterAuthServer(server, authHandler)
}
