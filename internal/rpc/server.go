package rpc

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/RowanDark/0xcrack/internal/cipher"
	"github.com/RowanDark/0xcrack/internal/crack"
	"github.com/RowanDark/0xcrack/internal/history"
	"github.com/RowanDark/0xcrack/internal/logging"
	"github.com/RowanDark/0xcrack/internal/observability/metrics"
	"github.com/RowanDark/0xcrack/internal/reporter"
	"github.com/RowanDark/0xcrack/internal/service"
)

// defaultRequestTimeout matches the HTTP API's crack deadline.
const defaultRequestTimeout = 5 * time.Minute

// Server implements CrackServiceServer on top of service.Service.
type Server struct {
	svc     *service.Service
	token   string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithToken requires callers to send "authorization: Bearer <token>".
func WithToken(token string) Option {
	return func(s *Server) {
		s.token = strings.TrimSpace(token)
	}
}

// WithRequestTimeout bounds each Crack call on the server side, whatever
// deadline the client sent. Zero keeps the five minute default.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer builds a Server around svc.
func NewServer(svc *service.Service, opts ...Option) (*Server, error) {
	if svc == nil {
		return nil, errors.New("crack service is required")
	}
	s := &Server{svc: svc, timeout: defaultRequestTimeout, logger: logging.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// GRPCServer returns a grpc.Server with CrackService and the standard health
// service registered.
func (s *Server) GRPCServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.metricsInterceptor, s.authInterceptor))
	RegisterCrackServiceServer(srv, s)
	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	return srv
}

// Serve blocks until ctx is cancelled or the listener fails.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.GRPCServer()
	s.logger.Info("grpc api listening", "addr", lis.Addr().String())

	go func() {
		<-ctx.Done()
		done := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			srv.Stop()
		}
	}()

	if err := srv.Serve(lis); err != nil {
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
	return nil
}

func (s *Server) authInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if s.token == "" || strings.HasPrefix(info.FullMethod, "/grpc.health.v1.Health/") {
		return handler(ctx, req)
	}
	md, _ := metadata.FromIncomingContext(ctx)
	for _, value := range md.Get("authorization") {
		value = strings.TrimSpace(value)
		if len(value) > 7 && strings.EqualFold(value[:7], "bearer ") {
			if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(value[7:])), []byte(s.token)) == 1 {
				return handler(ctx, req)
			}
		}
	}
	return nil, status.Error(codes.Unauthenticated, "invalid auth token")
}

func (s *Server) metricsInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	method := info.FullMethod[strings.LastIndex(info.FullMethod, "/")+1:]
	start := time.Now()
	metrics.RecordRequest("grpc", method)
	resp, err := handler(ctx, req)
	code := status.Code(err).String()
	if err != nil {
		metrics.RecordRequestError("grpc", method, code)
	}
	metrics.ObserveRequestLatency("grpc", method, code, time.Since(start))
	return resp, err
}

// Crack runs a brute-force search. The request fields match the HTTP API:
// ciphertext, family, top_k and fold.
func (s *Server) Crack(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req service.CrackRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	result, err := s.svc.Crack(ctx, req)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return toStruct(reporter.NewReport(result))
}

// Decrypt runs a known-key operation or pipeline.
func (s *Server) Decrypt(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req service.TransformRequest
	if err := fromStruct(in, &req); err != nil {
		return nil, err
	}
	out, err := s.svc.Transform(ctx, req)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return structpb.NewStruct(map[string]any{"output": out})
}

// Detect suggests cipher families for the "input" field.
func (s *Server) Detect(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	input := in.GetFields()["input"].GetStringValue()
	detections, err := s.svc.Detect(ctx, input)
	if err != nil {
		return nil, s.toStatus(err)
	}
	return toStruct(map[string]any{"detections": detections})
}

// ListCiphers returns the cipher catalog.
func (s *Server) ListCiphers(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(map[string]any{"ciphers": s.svc.Ciphers()})
}

func (s *Server) toStatus(err error) error {
	code := codes.Internal
	switch {
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, crack.ErrUnknownFamily),
		errors.Is(err, cipher.ErrUnknownOperation), errors.Is(err, cipher.ErrInvalidKey),
		errors.Is(err, cipher.ErrKeyMismatch):
		code = codes.InvalidArgument
	case errors.Is(err, history.ErrNotFound):
		code = codes.NotFound
	case errors.Is(err, service.ErrHistoryDisabled):
		code = codes.FailedPrecondition
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	}
	if code == codes.Internal {
		s.logger.Error("rpc failed", "error", err)
	}
	return status.Error(code, err.Error())
}

// fromStruct decodes a Struct into a JSON-tagged Go value.
func fromStruct(in *structpb.Struct, dst any) error {
	if in == nil {
		return status.Error(codes.InvalidArgument, "request is required")
	}
	raw, err := protojson.Marshal(in)
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "encode request: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	return nil
}

// toStruct encodes a JSON-tagged Go value as a Struct.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}
