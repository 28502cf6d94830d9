package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/fintrack-backend/internal/adapter/repository/memory"
	"github.com/simaogato/fintrack-backend/internal/domain"
	"github.com/simaogato/fintrack-backend/internal/usecase/pricing"
	"github.com/simaogato/fintrack-backend/internal/usecase/product"
	"github.com/simaogato/fintrack-backend/internal/validation"
)

type fixture struct {
	client  *ProductServiceClient
	conn    *grpc.ClientConn
	pricing *pricing.PricingService
	logs    *logtest.Hook
}

// newFixture serves the real use cases over the in-memory store on a bufconn
func newFixture(t *testing.T, products ProductService) *fixture {
	t.Helper()
	logger, hook := logtest.NewNullLogger()

	store := memory.NewStore()
	productRepo := memory.NewProductRepository(store)
	uow := memory.NewUnitOfWorkFactory(store)
	engine := validation.New()
	pricingService := pricing.NewPricingService(productRepo, memory.NewPriceHistoryRepository(store), uow, nil, nil, engine, logger)
	if products == nil {
		products = product.NewProductService(productRepo, uow, nil, engine, logger)
	}

	listener := bufconn.Listen(1024 * 1024)
	server := NewGRPCServer(NewServer(products, pricingService, logger), logger)
	go func() {
		_ = server.Serve(listener)
	}()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &fixture{client: NewProductServiceClient(conn), conn: conn, pricing: pricingService, logs: hook}
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func petr4(t *testing.T) *structpb.Struct {
	return mustStruct(t, map[string]any{
		"name":         "Petrobras PN",
		"ticker":       "PETR4",
		"type":         1,
		"category":     1,
		"currencyCode": "BRL",
	})
}

func TestRegisterAndGetProduct(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	created, err := f.client.RegisterProduct(ctx, petr4(t))
	require.NoError(t, err)

	id := created.GetFields()["id"].GetStringValue()
	_, err = uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, "PETR4", created.GetFields()["ticker"].GetStringValue())

	got, err := f.client.GetProduct(ctx, mustStruct(t, map[string]any{"id": id}))
	require.NoError(t, err)

	fields := got.GetFields()
	assert.Equal(t, "Petrobras PN", fields["name"].GetStringValue())
	assert.Equal(t, "Stock", fields["type"].GetStringValue())
	assert.Equal(t, "VariableIncome", fields["category"].GetStringValue())
	assert.Equal(t, "BRL", fields["currencyCode"].GetStringValue())
}

func TestRegisterProductErrors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.client.RegisterProduct(ctx, petr4(t))
	require.NoError(t, err)

	t.Run("duplicate ticker", func(t *testing.T) {
		_, err := f.client.RegisterProduct(ctx, petr4(t))

		st := status.Convert(err)
		assert.Equal(t, codes.InvalidArgument, st.Code())
		assert.Contains(t, st.Message(), "PETR4")
	})

	t.Run("validation failure", func(t *testing.T) {
		req := mustStruct(t, map[string]any{
			"name":         "Vale ON",
			"ticker":       "VALE3",
			"type":         99,
			"category":     1,
			"currencyCode": "BRL",
		})

		_, err := f.client.RegisterProduct(ctx, req)

		st := status.Convert(err)
		assert.Equal(t, codes.InvalidArgument, st.Code())
		assert.Contains(t, st.Message(), domain.MsgValidationFailed)
		assert.Contains(t, st.Message(), "type: Tipo de produto inválido.")
	})

	t.Run("undecodable payload", func(t *testing.T) {
		_, err := f.client.RegisterProduct(ctx, mustStruct(t, map[string]any{"type": "stock"}))

		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestGetProductErrors(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.client.GetProduct(ctx, mustStruct(t, map[string]any{"id": uuid.NewString()}))
	st := status.Convert(err)
	assert.Equal(t, codes.NotFound, st.Code())
	assert.Equal(t, domain.MsgProductNotFound, st.Message())

	_, err = f.client.GetProduct(ctx, mustStruct(t, map[string]any{"id": "nope"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestListPriceHistory(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	created, err := f.client.RegisterProduct(ctx, petr4(t))
	require.NoError(t, err)
	id := uuid.MustParse(created.GetFields()["id"].GetStringValue())

	empty, err := f.client.ListPriceHistory(ctx, mustStruct(t, map[string]any{"id": id.String()}))
	require.NoError(t, err)
	assert.Empty(t, empty.GetFields()["entries"].GetListValue().GetValues())

	older := time.Now().UTC().Add(-time.Hour)
	for _, p := range []struct {
		price string
		date  *time.Time
	}{{"37.10", &older}, {"38.45", nil}} {
		_, err := f.pricing.RecordPrice(ctx, pricing.RecordPriceCommand{
			ProductID: id,
			Price:     decimal.RequireFromString(p.price),
			Date:      p.date,
			Source:    "B3",
		})
		require.NoError(t, err)
	}

	resp, err := f.client.ListPriceHistory(ctx, mustStruct(t, map[string]any{"id": id.String()}))
	require.NoError(t, err)

	entries := resp.GetFields()["entries"].GetListValue().GetValues()
	require.Len(t, entries, 2)
	assert.Equal(t, "38.45", entries[0].GetStructValue().GetFields()["price"].GetStringValue())
	assert.Equal(t, "37.1", entries[1].GetStructValue().GetFields()["price"].GetStringValue())

	_, err = f.client.ListPriceHistory(ctx, mustStruct(t, map[string]any{"id": uuid.NewString()}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

// brokenProducts fails every call with a storage error
type brokenProducts struct{}

func (brokenProducts) RegisterProduct(context.Context, product.RegisterProductCommand) (*product.RegisterProductResponse, error) {
	return nil, domain.NewInfrastructureError("failed to begin unit of work", errors.New("connection refused"))
}

func (brokenProducts) GetProductByID(context.Context, product.GetProductByIDQuery) (*product.ProductDetails, error) {
	return nil, errors.New("unclassified")
}

func TestInfrastructureErrorsAreGeneric(t *testing.T) {
	f := newFixture(t, brokenProducts{})
	ctx := context.Background()

	_, err := f.client.RegisterProduct(ctx, petr4(t))
	st := status.Convert(err)
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, domain.MsgInternal, st.Message())
	assert.NotContains(t, st.Message(), "connection refused")

	_, err = f.client.GetProduct(ctx, mustStruct(t, map[string]any{"id": uuid.NewString()}))
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestInfrastructureCauseIsLogged(t *testing.T) {
	f := newFixture(t, brokenProducts{})

	_, err := f.client.RegisterProduct(context.Background(), petr4(t))
	require.Equal(t, codes.Internal, status.Code(err))

	var causes []string
	for _, e := range f.logs.AllEntries() {
		if cause, ok := e.Data[logrus.ErrorKey].(error); ok {
			causes = append(causes, cause.Error())
		}
	}
	require.NotEmpty(t, causes)
	assert.Contains(t, causes[0], "connection refused")
}

func TestHealthServing(t *testing.T) {
	f := newFixture(t, nil)
	client := healthpb.NewHealthClient(f.conn)

	for _, service := range []string{"", ServiceName} {
		resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
		msg  string
	}{
		{"nil", nil, codes.OK, ""},
		{"not found", domain.NewNotFoundError(), codes.NotFound, domain.MsgProductNotFound},
		{"invariant", domain.ErrFutureDate, codes.InvalidArgument, ""},
		{"business rule", domain.NewDuplicateTickerError("PETR4"), codes.InvalidArgument, "Já existe um produto registrado com o ticker 'PETR4'."},
		{"upstream", domain.NewQuoteUnavailableError(errors.New("429")), codes.Unavailable, domain.MsgQuoteUnavailable},
		{"infrastructure", domain.NewInfrastructureError("op", errors.New("secret")), codes.Internal, domain.MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := logtest.NewNullLogger()
			err := mapError(logger, tt.err)
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			st := status.Convert(err)
			assert.Equal(t, tt.code, st.Code())
			assert.Equal(t, tt.msg, st.Message())
		})
	}
}
