package authrpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "cinemood.auth.v1.Auth"

const (
	Auth_Register_FullMethodName          = "/" + ServiceName + "/Register"
	Auth_Login_FullMethodName             = "/" + ServiceName + "/Login"
	Auth_StartVerification_FullMethodName = "/" + ServiceName + "/StartVerification"
	Auth_ResendCode_FullMethodName        = "/" + ServiceName + "/ResendCode"
	Auth_VerifyCode_FullMethodName        = "/" + ServiceName + "/VerifyCode"
	Auth_Refresh_FullMethodName           = "/" + ServiceName + "/Refresh"
	Auth_LogoutAll_FullMethodName         = "/" + ServiceName + "/LogoutAll"
)

// AuthServer is the server API for the Auth service.
type AuthServer interface {
	Register(context.Context, *RegisterRequest) (*VerificationResponse, error)
	Login(context.Context, *LoginRequest) (*VerificationResponse, error)
	StartVerification(context.Context, *VerificationRequest) (*VerificationResponse, error)
	ResendCode(context.Context, *VerificationRequest) (*VerificationResponse, error)
	VerifyCode(context.Context, *VerifyCodeRequest) (*TokenResponse, error)
	Refresh(context.Context, *RefreshRequest) (*TokenResponse, error)
	LogoutAll(context.Context, *LogoutAllRequest) (*Empty, error)
}

func RegisterAuthServer(s grpc.ServiceRegistrar, srv AuthServer) {
	s.RegisterService(&Auth_ServiceDesc, srv)
}

// unaryHandler adapts a typed AuthServer method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](fullMethod string, call func(AuthServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AuthServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AuthServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Auth_ServiceDesc is the grpc.ServiceDesc for the Auth service.
var Auth_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AuthServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unaryHandler(Auth_Register_FullMethodName, AuthServer.Register)},
		{MethodName: "Login", Handler: unaryHandler(Auth_Login_FullMethodName, AuthServer.Login)},
		{MethodName: "StartVerification", Handler: unaryHandler(Auth_StartVerification_FullMethodName, AuthServer.StartVerification)},
		{MethodName: "ResendCode", Handler: unaryHandler(Auth_ResendCode_FullMethodName, AuthServer.ResendCode)},
		{MethodName: "VerifyCode", Handler: unaryHandler(Auth_VerifyCode_FullMethodName, AuthServer.VerifyCode)},
		{MethodName: "Refresh", Handler: unaryHandler(Auth_Refresh_FullMethodName, AuthServer.Refresh)},
		{MethodName: "LogoutAll", Handler: unaryHandler(Auth_LogoutAll_FullMethodName, AuthServer.LogoutAll)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cinemood/auth/v1/auth",
}

// AuthClient is the client API for the Auth service.
type AuthClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*VerificationResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*VerificationResponse, error)
	StartVerification(ctx context.Context, in *VerificationRequest, opts ...grpc.CallOption) (*VerificationResponse, error)
	ResendCode(ctx context.Context, in *VerificationRequest, opts ...grpc.CallOption) (*VerificationResponse, error)
	VerifyCode(ctx context.Context, in *VerifyCodeRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	LogoutAll(ctx context.Context, in *LogoutAllRequest, opts ...grpc.CallOption) (*Empty, error)
}

type authClient struct {
	cc grpc.ClientConnInterface
}

// NewAuthClient returns a client that speaks the JSON codec.
func NewAuthClient(cc grpc.ClientConnInterface) AuthClient {
	return &authClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *authClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*VerificationResponse, error) {
	return invoke[RegisterRequest, VerificationResponse](ctx, c.cc, Auth_Register_FullMethodName, in, opts)
}

func (c *authClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*VerificationResponse, error) {
	return invoke[LoginRequest, VerificationResponse](ctx, c.cc, Auth_Login_FullMethodName, in, opts)
}

func (c *authClient) StartVerification(ctx context.Context, in *VerificationRequest, opts ...grpc.CallOption) (*VerificationResponse, error) {
	return invoke[VerificationRequest, VerificationResponse](ctx, c.cc, Auth_StartVerification_FullMethodName, in, opts)
}

func (c *authClient) ResendCode(ctx context.Context, in *VerificationRequest, opts ...grpc.CallOption) (*VerificationResponse, error) {
	return invoke[VerificationRequest, VerificationResponse](ctx, c.cc, Auth_ResendCode_FullMethodName, in, opts)
}

func (c *authClient) VerifyCode(ctx context.Context, in *VerifyCodeRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[VerifyCodeRequest, TokenResponse](ctx, c.cc, Auth_VerifyCode_FullMethodName, in, opts)
}

func (c *authClient) Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[RefreshRequest, TokenResponse](ctx, c.cc, Auth_Refresh_FullMethodName, in, opts)
}

func (c *authClient) LogoutAll(ctx context.Context, in *LogoutAllRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[LogoutAllRequest, Empty](ctx, c.cc, Auth_LogoutAll_FullMethodName, in, opts)
}
