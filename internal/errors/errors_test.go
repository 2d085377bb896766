package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/dragon-keeper/internal/errors"
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
			message:  "dragon not found",
			expected: "NOT_FOUND: dragon not found",
		},
		{
			name:     "failed precondition error",
			code:     errors.CodeFailedPrecondition,
			message:  "not enough coins",
			expected: "FAILED_PRECONDITION: not enough coins",
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := errors.New(tc.code, tc.message)
			s.Equal(tc.expected, err.Error())
			s.Equal(tc.code, err.Code)
			s.Equal(tc.message, err.Message)
		})
	}
}

func (s *ErrorsTestSuite) TestErrorWithMeta() {
	err := errors.FailedPrecondition("still resting").
		WithMeta("dragon_id", "dragon-1").
		WithMeta("remaining", int32(30))

	s.Equal("dragon-1", err.Meta["dragon_id"])
	s.Equal(int32(30), err.Meta["remaining"])
}

func (s *ErrorsTestSuite) TestWrap() {
	baseErr := fmt.Errorf("connection refused")
	wrapped := errors.Wrap(baseErr, "failed to save dragon")

	s.Equal(errors.CodeInternal, wrapped.Code)
	s.Equal("failed to save dragon", wrapped.Message)
	s.Equal(baseErr, wrapped.Unwrap())
	s.Equal("INTERNAL: failed to save dragon: connection refused", wrapped.Error())
}

func (s *ErrorsTestSuite) TestWrapPreservesCodeAndMeta() {
	baseErr := errors.NotFound("record not found").WithMeta("dragon_id", "dragon-9")
	wrapped := errors.Wrapf(baseErr, "failed to load %s", "dragon-9")

	s.Equal(errors.CodeNotFound, wrapped.Code)
	s.Equal("failed to load dragon-9", wrapped.Message)
	s.Equal("dragon-9", wrapped.Meta["dragon_id"])
	s.Equal(baseErr, wrapped.Unwrap())
}

func (s *ErrorsTestSuite) TestWrapWithCode() {
	baseErr := errors.NotFound("missing").WithMeta("dragon_id", "dragon-9")
	wrapped := errors.WrapWithCode(baseErr, errors.CodeInvalidArgument, "invalid dragons for battle")

	s.Equal(errors.CodeInvalidArgument, wrapped.Code)
	s.Equal("invalid dragons for battle", wrapped.Message)
	s.Equal("dragon-9", wrapped.Meta["dragon_id"])

	// the copied meta does not alias the wrapped error's meta
	wrapped.WithMeta("extra", true)
	s.NotContains(baseErr.Meta, "extra")
}

func (s *ErrorsTestSuite) TestWrapNil() {
	s.Nil(errors.Wrap(nil, "should be nil"))
	s.Nil(errors.Wrapf(nil, "should be %s", "nil"))
	s.Nil(errors.WrapWithCode(nil, errors.CodeNotFound, "should be nil"))
}

func (s *ErrorsTestSuite) TestConstructorFunctions() {
	testCases := []struct {
		name        string
		constructor func() *errors.Error
		code        errors.Code
		check       func(error) bool
	}{
		{"NotFound", func() *errors.Error { return errors.NotFound("test") }, errors.CodeNotFound, errors.IsNotFound},
		{"InvalidArgument", func() *errors.Error { return errors.InvalidArgument("test") }, errors.CodeInvalidArgument, errors.IsInvalidArgument},
		{"AlreadyExists", func() *errors.Error { return errors.AlreadyExists("test") }, errors.CodeAlreadyExists, errors.IsAlreadyExists},
		{"FailedPrecondition", func() *errors.Error { return errors.FailedPrecondition("test") }, errors.CodeFailedPrecondition, errors.IsFailedPrecondition},
		{"Internal", func() *errors.Error { return errors.Internal("test") }, errors.CodeInternal, errors.IsInternal},
		{"Unavailable", func() *errors.Error { return errors.Unavailable("test") }, errors.CodeUnavailable, errors.IsUnavailable},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			err := tc.constructor()
			s.Equal(tc.code, err.Code)
			s.Equal("test", err.Message)
			s.True(tc.check(err))
			s.True(tc.check(errors.Wrap(err, "wrapped")))
		})
	}
}

func (s *ErrorsTestSuite) TestFormattedConstructors() {
	err := errors.NotFoundf("dragon %s not found", "dragon-1")
	s.Equal(errors.CodeNotFound, err.Code)
	s.Equal("dragon dragon-1 not found", err.Message)

	err2 := errors.InvalidArgumentf("unknown command %q", "dance")
	s.Equal(`unknown command "dance"`, err2.Message)

	err3 := errors.FailedPreconditionf("%s must reach level %d", "Ignis", 10)
	s.Equal("Ignis must reach level 10", err3.Message)

	err4 := errors.AlreadyExistsf("battle %s exists", "battle-1")
	s.Equal(errors.CodeAlreadyExists, err4.Code)

	err5 := errors.Internalf("roll %d out of range", 7)
	s.Equal("roll 7 out of range", err5.Message)
}

func (s *ErrorsTestSuite) TestErrorIs() {
	err1 := errors.NotFound("a")
	err2 := errors.NotFound("b")
	err3 := errors.InvalidArgument("a")

	s.True(err1.Is(err2))
	s.False(err1.Is(err3))
	s.True(errors.Is(errors.Wrap(err1, "wrapped"), err2))
}

func (s *ErrorsTestSuite) TestAs() {
	var target *errors.Error
	s.True(errors.As(fmt.Errorf("outer: %w", errors.NotFound("inner")), &target))
	s.Equal("inner", target.Message)
	s.False(errors.As(fmt.Errorf("plain"), &target))
}

func (s *ErrorsTestSuite) TestGetCode() {
	err := errors.NotFound("test")
	wrapped := errors.Wrap(err, "wrapped")

	s.Equal(errors.CodeNotFound, errors.GetCode(err))
	s.Equal(errors.CodeNotFound, errors.GetCode(wrapped))
	s.Equal(errors.CodeInternal, errors.GetCode(fmt.Errorf("standard error")))
	s.Equal(errors.CodeOK, errors.GetCode(nil))
}

func (s *ErrorsTestSuite) TestGetMeta() {
	err := errors.NotFound("test").WithMeta("key", "value")
	wrapped := errors.Wrap(err, "wrapped")

	s.Equal("value", errors.GetMeta(err)["key"])
	s.Equal("value", errors.GetMeta(wrapped)["key"])
	s.Nil(errors.GetMeta(fmt.Errorf("standard error")))
	s.Nil(errors.GetMeta(nil))
}

func (s *ErrorsTestSuite) TestGetMessage() {
	err := errors.NotFound("That dragon does not exist")
	wrapped := errors.Wrap(err, "failed to feed")
	stdErr := fmt.Errorf("standard error")

	s.Equal("That dragon does not exist", errors.GetMessage(err))
	s.Equal("failed to feed", errors.GetMessage(wrapped))
	s.Equal("standard error", errors.GetMessage(stdErr))
	s.Empty(errors.GetMessage(nil))
}

func (s *ErrorsTestSuite) TestExitCode() {
	testCases := []struct {
		code     errors.Code
		expected int
	}{
		{errors.CodeOK, 0},
		{errors.CodeInvalidArgument, 2},
		{errors.CodeNotFound, 2},
		{errors.CodeAlreadyExists, 2},
		{errors.CodeFailedPrecondition, 3},
		{errors.CodeUnavailable, 4},
		{errors.CodeInternal, 1},
		{errors.Code("SOMETHING_ELSE"), 1},
	}

	for _, tc := range testCases {
		s.Run(tc.code.String(), func() {
			s.Equal(tc.expected, tc.code.ExitCode())
		})
	}
}
