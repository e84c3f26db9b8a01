package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/KirkDiggler/rpg-mud/internal/errors"
)

type ErrorsTestSuite struct {
	suite.Suite
}

func TestErrorsSuite(t *testing.T) {
	suite.Run(t, new(ErrorsTestSuite))
}

func (s *ErrorsTestSuite) TestNewError() {
	testCases := []struct {
		name     string
		code     errors.Code
		message  string
		expected string
	}{
		{
			name:     "not found error",
			code:     errors.CodeNotFound,
			message:  "effect not found",
			expected: "NOT_FOUND: effect not found",
		},
		{
			name:     "failed precondition error",
			code:     errors.CodeFailedPrecondition,
			message:  "circular dependency",
			expected: "FAILED_PRECONDITION: circular dependency",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Assert().Equal(tc.expected, err.Error())
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorWithMeta() {
	err := errors.NotFound("room not found").
		WithMeta("bundle", "core").
		WithMeta("area", "limbo")

	s.Assert().Equal("core", err.Meta["bundle"])
	s.Assert().Equal("limbo", err.Meta["area"])

	err2 := errors.Internal("load failed").
		WithMetaMap(map[string]any{
			"file": "rooms.yml",
		})
	s.Assert().Equal("rooms.yml", err2.Meta["file"])
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("connection refused")
	wrapped := errors.Wrap(baseErr, "failed to fetch player")

	s.Assert().Equal(errors.CodeInternal, wrapped.Code)
	s.Assert().Equal("failed to fetch player", wrapped.Message)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapPreservesCodeAndMeta() {
	baseErr := errors.NotFound("manifest missing").WithMeta("bundle", "core")
	wrapped := errors.Wrap(baseErr, "failed to load area")

	s.Assert().Equal(errors.CodeNotFound, wrapped.Code)
	s.Assert().Equal("core", wrapped.Meta["bundle"])

	wrapped.WithMeta("area", "limbo")
	s.Assert().NotContains(baseErr.Meta, "area")
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	baseErr := fmt.Errorf("yaml: line 3")
	wrapped := errors.WrapWithCode(baseErr, errors.CodeFailedPrecondition, "invalid definition")

	s.Assert().Equal(errors.CodeFailedPrecondition, wrapped.Code)
	s.Assert().Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapWithCodeCopiesMeta() {
	notLoaded := fmt.Errorf("settings not loaded")
	baseErr := errors.Wrap(notLoaded, "failed to read round_speed").WithMeta("setting", "round_speed")
	wrapped := errors.WrapWithCode(baseErr, errors.CodeFailedPrecondition, "game settings must be loaded")
	wrapped.WithMeta("area", "limbo")

	s.Assert().True(errors.IsFailedPrecondition(wrapped))
	s.Assert().True(errors.Is(wrapped, notLoaded))
	s.Assert().Equal("round_speed", errors.GetMeta(wrapped)["setting"])
	s.Assert().NotContains(baseErr.Meta, "area")
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Assert().Nil(errors.Wrap(nil, "should be nil"))
	s.Assert().Nil(errors.WrapWithCode(nil, errors.CodeNotFound, "should be nil"))
}

func (s *ErrorsTestSuite) TestConstructorFunctions() {
	testCases := []struct {
		name        string
		constructor func() *errors.Error
		code        errors.Code
	}{
		{"NotFound", func() *errors.Error { return errors.NotFound("test") }, errors.CodeNotFound},
		{"InvalidArgument", func() *errors.Error { return errors.InvalidArgument("test") }, errors.CodeInvalidArgument},
		{"AlreadyExists", func() *errors.Error { return errors.AlreadyExists("test") }, errors.CodeAlreadyExists},
		{"Internal", func() *errors.Error { return errors.Internal("test") }, errors.CodeInternal},
		{"Unavailable", func() *errors.Error { return errors.Unavailable("test") }, errors.CodeUnavailable},
		{"ResourceExhausted", func() *errors.Error { return errors.ResourceExhausted("test") }, errors.CodeResourceExhausted},
		{"FailedPrecondition", func() *errors.Error { return errors.FailedPrecondition("test") }, errors.CodeFailedPrecondition},
		{"Unimplemented", func() *errors.Error { return errors.Unimplemented("test") }, errors.CodeUnimplemented},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := tc.constructor()
			s.Assert().Equal(tc.code, err.Code)
			s.Assert().Equal("test", err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorIs() {
	err1 := errors.NotFound("test")
	err2 := errors.NotFound("other")
	err3 := errors.InvalidArgument("test")

	s.Assert().True(err1.Is(err2))
	s.Assert().False(err1.Is(err3))
	s.Assert().True(errors.Is(errors.Wrap(err1, "wrapped"), err2))
}

func (s *ErrorsTestSuite) TestHelperFunctions() {
	notFoundErr := errors.NotFound("test")
	wrappedErr := errors.Wrap(notFoundErr, "wrapped")

	s.Assert().True(errors.IsNotFound(wrappedErr))
	s.Assert().False(errors.IsNotFound(errors.InvalidArgument("test")))
	s.Assert().True(errors.IsUnimplemented(errors.Unimplementedf("%s must implement create()", "Factory")))
	s.Assert().True(errors.IsFailedPrecondition(errors.FailedPrecondition("test")))
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("standard error")))
	s.Assert().Equal(errors.CodeOK, errors.GetCode(nil))
}

func (s *ErrorsTestSuite) TestGetMessage() {
	err := errors.NotFound("friendly message")
	wrapped := errors.Wrap(err, "wrapped message")

	s.Assert().Equal("friendly message", errors.GetMessage(err))
	s.Assert().Equal("wrapped message", errors.GetMessage(wrapped))
	s.Assert().Equal("standard error", errors.GetMessage(fmt.Errorf("standard error")))
	s.Assert().Equal("", errors.GetMessage(nil))
}

func (s *ErrorsTestSuite) TestGRPCRoundTripKeepsMeta() {
	err := errors.NotFound("player not found").
		WithMeta("name", "alice").
		WithMeta("missing", []string{"a -> b"})

	grpcErr := errors.ToGRPCError(err)
	st, ok := status.FromError(grpcErr)
	s.Require().True(ok)
	s.Assert().Equal(codes.NotFound, st.Code())
	s.Assert().Equal("player not found", st.Message())

	back := errors.FromGRPCError(grpcErr)
	s.Assert().True(errors.IsNotFound(back))
	s.Assert().Equal("player not found", errors.GetMessage(back))
	s.Assert().Equal("alice", errors.GetMeta(back)["name"])
	s.Assert().Equal("[a -> b]", errors.GetMeta(back)["missing"])
}

func (s *ErrorsTestSuite) TestGRPCPlainErrors() {
	grpcErr := errors.ToGRPCError(fmt.Errorf("boom"))
	st, ok := status.FromError(grpcErr)
	s.Require().True(ok)
	s.Assert().Equal(codes.Internal, st.Code())

	back := errors.FromGRPCError(status.Error(codes.InvalidArgument, "bad input"))
	s.Assert().True(errors.IsInvalidArgument(back))
	s.Assert().Nil(errors.GetMeta(back))
	s.Assert().Nil(errors.ToGRPCError(nil))
}

func (s *ErrorsTestSuite) TestGRPCCodeMapping() {
	testCases := []struct {
		code     errors.Code
		expected codes.Code
	}{
		{errors.CodeNotFound, codes.NotFound},
		{errors.CodeInvalidArgument, codes.InvalidArgument},
		{errors.CodeFailedPrecondition, codes.FailedPrecondition},
		{errors.CodeUnimplemented, codes.Unimplemented},
		{errors.CodeInternal, codes.Internal},
		{errors.Code("SOMETHING_ELSE"), codes.Unknown},
	}

	for _, tc := range testCases {
		s.Run(string(tc.code), func() {
			s.Assert().Equal(tc.expected, tc.code.GRPCCode())
		})
	}
}
