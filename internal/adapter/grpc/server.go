package grpc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/fintrack-backend/internal/domain"
	"github.com/simaogato/fintrack-backend/internal/usecase/pricing"
	"github.com/simaogato/fintrack-backend/internal/usecase/product"
)

// ProductService is the product use case surface served over gRPC
type ProductService interface {
	RegisterProduct(ctx context.Context, cmd product.RegisterProductCommand) (*product.RegisterProductResponse, error)
	GetProductByID(ctx context.Context, query product.GetProductByIDQuery) (*product.ProductDetails, error)
}

// PriceHistoryService is the pricing use case surface served over gRPC
type PriceHistoryService interface {
	ListPriceHistory(ctx context.Context, productID uuid.UUID) ([]pricing.PriceEntry, error)
}

// Server implements fintrack.v1.ProductService
type Server struct {
	Products ProductService
	Pricing  PriceHistoryService
	Logger   logrus.FieldLogger
}

// NewServer creates a new gRPC server instance
func NewServer(products ProductService, pricing PriceHistoryService, logger logrus.FieldLogger) *Server {
	return &Server{
		Products: products,
		Pricing:  pricing,
		Logger:   logger,
	}
}

// NewGRPCServer builds a *grpc.Server with the product service, the
// standard health service and the logging/metrics interceptors installed.
func NewGRPCServer(srv *Server, logger logrus.FieldLogger) *grpc.Server {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(logger),
			MetricsInterceptor(),
		),
	)
	RegisterProductServiceServer(server, srv)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, healthServer)

	return server
}

// RegisterProduct handles the RegisterProduct RPC
func (s *Server) RegisterProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var cmd product.RegisterProductCommand
	if err := fromStruct(req, &cmd); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}

	resp, err := s.Products.RegisterProduct(ctx, cmd)
	if err != nil {
		return nil, mapError(s.Logger, err)
	}
	return toStruct(resp)
}

// GetProduct handles the GetProduct RPC
func (s *Server) GetProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := parseID(req)
	if err != nil {
		return nil, err
	}

	details, err := s.Products.GetProductByID(ctx, product.GetProductByIDQuery{ID: id})
	if err != nil {
		return nil, mapError(s.Logger, err)
	}
	return toStruct(details)
}

// ListPriceHistory handles the ListPriceHistory RPC. The entries are returned
// under "entries", newest first.
func (s *Server) ListPriceHistory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := parseID(req)
	if err != nil {
		return nil, err
	}

	entries, err := s.Pricing.ListPriceHistory(ctx, id)
	if err != nil {
		return nil, mapError(s.Logger, err)
	}
	if entries == nil {
		entries = []pricing.PriceEntry{}
	}
	return toStruct(map[string]any{"entries": entries})
}

func parseID(req *structpb.Struct) (uuid.UUID, error) {
	raw := req.GetFields()["id"].GetStringValue()
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Errorf(codes.InvalidArgument, "invalid id format: %v", err)
	}
	return id, nil
}

// fromStruct decodes a Struct into v using the JSON field names
func fromStruct(in *structpb.Struct, v any) error {
	data, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// toStruct encodes v through its JSON representation
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// codeFor maps a failure kind to its gRPC code
func codeFor(kind domain.ErrorKind) codes.Code {
	switch kind {
	case domain.KindValidation, domain.KindInvariant, domain.KindBusinessRule:
		return codes.InvalidArgument
	case domain.KindNotFound:
		return codes.NotFound
	case domain.KindUpstream:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

// mapError converts domain errors to gRPC status errors. Infrastructure
// causes never reach the client, so they are logged here with the full chain.
func mapError(logger logrus.FieldLogger, err error) error {
	if err == nil {
		return nil
	}

	kind := domain.KindOf(err)
	code := codeFor(kind)
	if code == codes.Internal {
		logger.WithError(err).WithField("kind", kind.String()).Error("internal failure")
		return status.Error(code, domain.MsgInternal)
	}

	var de *domain.Error
	if !errors.As(err, &de) {
		return status.Error(codes.Internal, domain.MsgInternal)
	}
	if kind == domain.KindValidation {
		return status.Error(code, de.FieldSummary())
	}
	return status.Error(code, de.Message)
}
