package grpc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/stockwise-backend/internal/domain"
	"github.com/simaogato/stockwise-backend/internal/usecase/blog"
	"github.com/simaogato/stockwise-backend/internal/usecase/calculator"
	"github.com/simaogato/stockwise-backend/internal/usecase/grade"
)

// Server implements CalculatorServiceServer
type Server struct {
	CalculatorService *calculator.CalculatorService
	BlogService       *blog.BlogService
	DefaultLocale     domain.Locale
}

// NewServer creates a new gRPC server instance
func NewServer(
	calculatorService *calculator.CalculatorService,
	blogService *blog.BlogService,
	defaultLocale domain.Locale,
) *Server {
	return &Server{
		CalculatorService: calculatorService,
		BlogService:       blogService,
		DefaultLocale:     defaultLocale,
	}
}

type calculateRequest struct {
	domain.FormInput
	Locale string `json:"locale"`
}

type getSimulationRequest struct {
	ID     string `json:"id"`
	Locale string `json:"locale"`
}

type gradeRequest struct {
	grade.Metrics
	Locale string `json:"locale"`
}

type listPostsRequest struct {
	Locale string `json:"locale"`
}

// Calculate handles the Calculate RPC. The request holds the form fields and an optional locale.
func (s *Server) Calculate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in calculateRequest
	if err := decodeStruct(req, &in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}

	calc, err := s.CalculatorService.Calculate(ctx, in.FormInput, s.locale(in.Locale))
	if err != nil {
		return nil, mapError(err)
	}

	return encodeStruct(calc)
}

// GetSimulation handles the GetSimulation RPC
func (s *Server) GetSimulation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in getSimulationRequest
	if err := decodeStruct(req, &in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}

	id, err := uuid.Parse(in.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id format: %v", err)
	}

	calc, err := s.CalculatorService.Get(ctx, id, s.locale(in.Locale))
	if err != nil {
		return nil, mapError(err)
	}

	return encodeStruct(calc)
}

// Grade handles the Grade RPC. The request holds the dividend metrics and an optional locale.
func (s *Server) Grade(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in gradeRequest
	if err := decodeStruct(req, &in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}

	result, err := grade.Evaluate(in.Metrics, s.locale(in.Locale))
	if err != nil {
		return nil, mapError(err)
	}

	return encodeStruct(result)
}

// ListPosts handles the ListPosts RPC. It never fails on a store error; the
// listing carries the placeholder instead.
func (s *Server) ListPosts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in listPostsRequest
	if err := decodeStruct(req, &in); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}

	listing := s.BlogService.List(ctx, s.locale(in.Locale))
	return encodeStruct(listing)
}

func (s *Server) locale(tag string) domain.Locale {
	return domain.ParseLocale(tag, s.DefaultLocale)
}

// decodeStruct maps a Struct onto v through its JSON form
func decodeStruct(req *structpb.Struct, v interface{}) error {
	if req == nil {
		return nil
	}
	raw, err := json.Marshal(req.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// encodeStruct converts v to a Struct through its JSON form
func encodeStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}

	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Errorf(codes.NotFound, "%s", err.Error())
	case errors.Is(err, domain.ErrInvalidPost), errors.Is(err, domain.ErrInvalidMetrics):
		return status.Errorf(codes.InvalidArgument, "%s", err.Error())
	case errors.Is(err, context.Canceled):
		return status.Errorf(codes.Canceled, "%s", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Errorf(codes.DeadlineExceeded, "%s", err.Error())
	}

	// Default to Internal error for unknown errors
	return status.Errorf(codes.Internal, "%s", err.Error())
}
