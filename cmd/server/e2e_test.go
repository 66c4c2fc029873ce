//go:build integration

package main

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	grpcadapter "github.com/simaogato/stockwise-backend/internal/adapter/grpc"
	"github.com/simaogato/stockwise-backend/internal/adapter/repository/postgres"
)

// These tests run against a server started with STORAGE_DRIVER=postgres and
// the database it writes to.
var (
	db         *postgres.DB
	grpcClient *grpcadapter.CalculatorClient
)

// TestMain sets up the test environment
func TestMain(m *testing.M) {
	ctx := context.Background()

	// 1. Connect to Database
	var err error
	db, err = postgres.NewDB(ctx, getDBConnectionString())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	// 2. Connect to gRPC Server
	grpcConn, err := grpc.NewClient(getGRPCAddress(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to gRPC server: %v", err))
	}

	grpcClient = grpcadapter.NewCalculatorClient(grpcConn)

	// Run tests
	code := m.Run()

	grpcConn.Close()
	db.Close()
	os.Exit(code)
}

// getAuthContext returns a context with authorization metadata
func getAuthContext() context.Context {
	token := os.Getenv("API_TOKEN")
	if token == "" {
		token = "dev-token"
	}
	md := metadata.New(map[string]string{
		"authorization": token,
	})
	return metadata.NewOutgoingContext(context.Background(), md)
}

// getDBConnectionString returns the database connection string from environment or defaults
func getDBConnectionString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}
	return "host=localhost port=5432 user=postgres password=postgres dbname=stockwise sslmode=disable"
}

// getGRPCAddress returns the gRPC server address from environment or defaults
func getGRPCAddress() string {
	addr := os.Getenv("GRPC_ADDRESS")
	if addr == "" {
		addr = "localhost:8080"
	}
	return addr
}

// TestEndToEndFlow calculates over gRPC, checks the stored row, and reads it back
func TestEndToEndFlow(t *testing.T) {
	ctx := getAuthContext()

	// Step A: Calculate scenario B (principal only, growth only)
	req, err := structpb.NewStruct(map[string]interface{}{
		"initialPrincipal": "1000",
		"monthlyDeposit":   "0",
		"dividendYield":    "0",
		"stockGrowth":      "10",
		"duration":         "1",
	})
	require.NoError(t, err)

	resp, err := grpcClient.Calculate(ctx, req)
	require.NoError(t, err, "Calculate should succeed")

	got := resp.AsMap()
	id, err := uuid.Parse(got["id"].(string))
	require.NoError(t, err, "Simulation ID should be returned")

	result := got["result"].(map[string]interface{})
	assert.Equal(t, []interface{}{float64(1000)}, result["principalSeries"])
	assert.Equal(t, []interface{}{float64(100)}, result["growthSeries"])

	// Step B: Verify the simulation landed in the database
	var years int
	var principal float64
	query := `SELECT years, initial_principal FROM simulations WHERE id = $1`
	err = db.QueryRowContext(context.Background(), query, id).Scan(&years, &principal)
	require.NoError(t, err, "Simulation should be stored")
	assert.Equal(t, 1, years)
	assert.True(t, decimal.NewFromFloat(principal).Equal(decimal.NewFromInt(1000)))

	// Step C: Read it back
	getReq, err := structpb.NewStruct(map[string]interface{}{"id": id.String(), "locale": "ko"})
	require.NoError(t, err)

	again, err := grpcClient.GetSimulation(ctx, getReq)
	require.NoError(t, err, "GetSimulation should succeed")
	chart := again.AsMap()["chart"].(map[string]interface{})
	assert.Equal(t, []interface{}{"1년"}, chart["labels"])
}

func TestNegativeScenarios(t *testing.T) {
	ctx := getAuthContext()

	// 1. Missing token
	t.Run("MissingToken", func(t *testing.T) {
		_, err := grpcClient.Calculate(context.Background(), &structpb.Struct{})
		require.Error(t, err)
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	// 2. Non-existent simulation
	t.Run("NonExistentSimulation", func(t *testing.T) {
		req, err := structpb.NewStruct(map[string]interface{}{"id": uuid.NewString()})
		require.NoError(t, err)

		_, err = grpcClient.GetSimulation(ctx, req)
		require.Error(t, err)
		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	// 3. Malformed UUID
	t.Run("MalformedUUID", func(t *testing.T) {
		req, err := structpb.NewStruct(map[string]interface{}{"id": "not-a-uuid"})
		require.NoError(t, err)

		_, err = grpcClient.GetSimulation(ctx, req)
		require.Error(t, err)
		assert.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

// TestReadFlow lists posts without a token and checks it matches the database
func TestReadFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := grpcClient.ListPosts(ctx, &structpb.Struct{})
	require.NoError(t, err, "ListPosts should be public")

	var stored int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_posts`).Scan(&stored)
	require.NoError(t, err)

	got := resp.AsMap()
	posts, _ := got["posts"].([]interface{})
	assert.Len(t, posts, stored)
	assert.Equal(t, stored == 0, got["empty"])
}
