//go:build integration

package integration

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	grpcadapter "github.com/simaogato/fintrack-backend/internal/adapter/grpc"
	httpadapter "github.com/simaogato/fintrack-backend/internal/adapter/http"
	"github.com/simaogato/fintrack-backend/internal/usecase/pricing"
	"github.com/simaogato/fintrack-backend/internal/usecase/product"
)

var (
	client     *resty.Client
	grpcClient *grpcadapter.ProductServiceClient
)

// TestMain connects to a running server
func TestMain(m *testing.M) {
	client = resty.New().SetBaseURL(getBaseURL())

	grpcConn, err := grpc.NewClient(getGRPCAddress(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to gRPC server: %v", err))
	}
	grpcClient = grpcadapter.NewProductServiceClient(grpcConn)

	code := m.Run()
	grpcConn.Close()
	os.Exit(code)
}

func getBaseURL() string {
	if url := os.Getenv("FINTRACK_BASE_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

func getGRPCAddress() string {
	if addr := os.Getenv("FINTRACK_GRPC_ADDR"); addr != "" {
		return addr
	}
	return "localhost:9090"
}

// uniqueTicker avoids collisions with data left by earlier runs
func uniqueTicker() string {
	return "T" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
}

func registerBody(ticker string) map[string]any {
	return map[string]any{
		"name":         "Integration " + ticker,
		"ticker":       ticker,
		"type":         1,
		"category":     1,
		"currencyCode": "BRL",
	}
}

func TestHealth(t *testing.T) {
	resp, err := client.R().Get("/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestProductLifecycle(t *testing.T) {
	ticker := uniqueTicker()

	var created product.RegisterProductResponse
	resp, err := client.R().SetBody(registerBody(ticker)).SetResult(&created).Post("/api/products")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())
	assert.Equal(t, "/api/products/"+created.ID.String(), resp.Header().Get("Location"))

	var details product.ProductDetails
	resp, err = client.R().SetResult(&details).Get("/api/products/" + created.ID.String())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, ticker, details.Ticker)
	assert.Equal(t, "Stock", details.Type)
	assert.Equal(t, "VariableIncome", details.Category)
	assert.Equal(t, "BRL", details.CurrencyCode)

	var problem httpadapter.ErrorResponse
	resp, err = client.R().SetBody(registerBody(ticker)).SetError(&problem).Post("/api/products")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Contains(t, problem.Message, ticker)

	var entry pricing.PriceEntry
	resp, err = client.R().
		SetBody(map[string]any{"price": "12.34", "source": "Integration"}).
		SetResult(&entry).
		Post("/api/products/" + created.ID.String() + "/prices")
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode(), resp.String())

	var history []pricing.PriceEntry
	resp, err = client.R().SetResult(&history).Get("/api/products/" + created.ID.String() + "/prices")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode())
	require.Len(t, history, 1)
	assert.Equal(t, entry.ID, history[0].ID)
}

func TestUnknownProduct(t *testing.T) {
	var problem httpadapter.ErrorResponse
	resp, err := client.R().SetError(&problem).Get("/api/products/" + uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())
	assert.Equal(t, "Produto não encontrado.", problem.Message)
}

func TestInvalidTypeIsNotPersisted(t *testing.T) {
	ticker := uniqueTicker()
	body := registerBody(ticker)
	body["type"] = 99

	var problem httpadapter.ErrorResponse
	resp, err := client.R().SetBody(body).SetError(&problem).Post("/api/products")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	assert.Contains(t, problem.Errors["type"], "Tipo de produto inválido.")

	var list []product.ProductDetails
	_, err = client.R().SetResult(&list).Get("/api/products")
	require.NoError(t, err)
	for _, p := range list {
		assert.NotEqual(t, ticker, p.Ticker)
	}
}

func TestGRPCRegisterAndGet(t *testing.T) {
	ctx := context.Background()
	ticker := uniqueTicker()

	req, err := structpb.NewStruct(registerBody(ticker))
	require.NoError(t, err)

	created, err := grpcClient.RegisterProduct(ctx, req)
	require.NoError(t, err)
	id := created.GetFields()["id"].GetStringValue()

	got, err := grpcClient.GetProduct(ctx, &structpb.Struct{Fields: map[string]*structpb.Value{
		"id": structpb.NewStringValue(id),
	}})
	require.NoError(t, err)
	assert.Equal(t, ticker, got.GetFields()["ticker"].GetStringValue())

	_, err = grpcClient.RegisterProduct(ctx, req)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
