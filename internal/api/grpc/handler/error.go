package handler

import (
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cinemood/auth-server/internal/model"
)

// ErrorDomain is set on every ErrorInfo detail returned by the service.
const ErrorDomain = "auth.cinemood"

// Stable machine-readable failure reasons carried in ErrorInfo.Reason.
const (
	ReasonInvalidInput          = "INVALID_INPUT"
	ReasonEmailTaken            = "EMAIL_TAKEN"
	ReasonInvalidCredentials    = "INVALID_CREDENTIALS"
	ReasonInvalidCode           = "INVALID_CODE"
	ReasonNoPendingRegistration = "NO_PENDING_REGISTRATION"
	ReasonInvalidToken          = "INVALID_TOKEN"
	ReasonTokenBlacklisted      = "TOKEN_BLACKLISTED"
	ReasonTokenNotAllowed       = "TOKEN_NOT_ALLOWED"
	ReasonUserNotFound          = "USER_NOT_FOUND"
	ReasonUnauthorized          = "UNAUTHORIZED"
	ReasonStoreUnavailable      = "STORE_UNAVAILABLE"
)

type errorMapping struct {
	target error
	code   codes.Code
	reason string
}

// Order matters: the first sentinel matched by errors.Is wins.
var errorMappings = []errorMapping{
	{model.ErrInvalidInput, codes.InvalidArgument, ReasonInvalidInput},
	{model.ErrEmailTaken, codes.AlreadyExists, ReasonEmailTaken},
	{model.ErrInvalidCredentials, codes.Unauthenticated, ReasonInvalidCredentials},
	{model.ErrInvalidCode, codes.PermissionDenied, ReasonInvalidCode},
	{model.ErrNoPendingRegistration, codes.FailedPrecondition, ReasonNoPendingRegistration},
	{model.ErrTokenBlacklisted, codes.Unauthenticated, ReasonTokenBlacklisted},
	{model.ErrTokenNotAllowed, codes.PermissionDenied, ReasonTokenNotAllowed},
	{model.ErrInvalidToken, codes.Unauthenticated, ReasonInvalidToken},
	{model.ErrUserNotFound, codes.NotFound, ReasonUserNotFound},
	{model.ErrUnauthorized, codes.Unauthenticated, ReasonUnauthorized},
	{model.ErrStoreUnavailable, codes.Unavailable, ReasonStoreUnavailable},
}

func handleError(err error) error {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}

		message := m.target.Error()
		if m.target == model.ErrInvalidInput {
			message = err.Error()
		}

		st := status.New(m.code, message)
		if detailed, detailErr := st.WithDetails(&errdetails.ErrorInfo{
			Reason: m.reason,
			Domain: ErrorDomain,
		}); detailErr == nil {
			st = detailed
		}
		return st.Err()
	}

	return status.Error(codes.Internal, "internal server error")
}

// Reason extracts the ErrorInfo reason from a status error, if any.
func Reason(err error) string {
	st, ok := status.FromError(err)
	if !ok {
		return ""
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info.GetReason()
		}
	}
	return ""
}
