package grpc

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/simaogato/fintrack-backend/internal/metrics"
)

// LoggingInterceptor returns a unary server interceptor that logs one line
// per call. Failed calls are logged at warn, or error for server-side codes.
func LoggingInterceptor(logger logrus.FieldLogger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		entry := logger.WithFields(logrus.Fields{
			"method":      info.FullMethod,
			"code":        code.String(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		switch {
		case err == nil:
			entry.Info("grpc request")
		case code == codes.Internal || code == codes.Unknown:
			entry.WithError(err).Error("grpc request failed")
		default:
			entry.WithError(err).Warn("grpc request failed")
		}

		return resp, err
	}
}

// MetricsInterceptor returns a unary server interceptor counting calls per
// method and status code.
func MetricsInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		resp, err := handler(ctx, req)
		metrics.GRPCRequests.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
		return resp, err
	}
}
