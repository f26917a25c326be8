package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/molmatch/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"invalid query", errors.ErrCodeInvalidQuery, "query graph has no atoms"},
		{"reaction shape", errors.ErrCodeReactionShape, "7 != 8"},
		{"internal", errors.CodeInternal, "unexpected failure"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ae := errors.New(tc.code, tc.message)
			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
		})
	}
}

func TestAppError_ErrorFormat(t *testing.T) {
	t.Parallel()

	ae := errors.New(errors.ErrCodeInvalidTarget, "bond references unknown atom")
	assert.Equal(t, "[MATCH_002] bond references unknown atom", ae.Error())

	withDetail := ae.WithDetail("bond 3")
	assert.Equal(t, "[MATCH_002] bond references unknown atom: bond 3", withDetail.Error())
	assert.Empty(t, ae.Detail, "WithDetail must not mutate the receiver")

	wrapped := errors.Wrap(stderrors.New("boom"), errors.ErrCodeDatabaseError, "load failed")
	assert.Equal(t, "[COMMON_012] load failed: boom", wrapped.Error())
}

func TestWrap_NilReturnsNil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "x"))
}

func TestWrap_PreservesCodeWhenUnknown(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeInvalidOption, "unknown bond mode")
	outer := errors.Wrap(inner, errors.CodeUnknown, "building matcher")
	assert.Equal(t, errors.ErrCodeInvalidOption, outer.Code)
	assert.True(t, stderrors.Is(outer, inner))
}

func TestIsCode_WalksChain(t *testing.T) {
	t.Parallel()

	inner := errors.New(errors.ErrCodeSearchCancelled, "cancelled")
	mid := errors.Wrap(inner, errors.ErrCodeScreeningFailed, "screen")
	outer := fmt.Errorf("worker: %w", mid)

	assert.True(t, errors.IsCode(outer, errors.ErrCodeSearchCancelled))
	assert.True(t, errors.IsCode(outer, errors.ErrCodeScreeningFailed))
	assert.False(t, errors.IsCode(outer, errors.ErrCodeInvalidQuery))
	assert.False(t, errors.IsCode(nil, errors.ErrCodeInvalidQuery))
}

func TestGetCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))
	assert.Equal(t, errors.ErrCodeBondEnergyTable, errors.GetCode(errors.New(errors.ErrCodeBondEnergyTable, "x")))
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsNotFound(errors.NotFound("x")))
	assert.True(t, errors.IsNotFound(errors.New(errors.ErrCodeMoleculeNotFound, "x")))
	assert.False(t, errors.IsNotFound(errors.Internal("x")))
}

func TestIsConfiguration(t *testing.T) {
	t.Parallel()

	assert.True(t, errors.IsConfiguration(errors.New(errors.ErrCodeReactionShape, "x")))
	assert.True(t, errors.IsConfiguration(errors.InvalidParam("x")))
	assert.False(t, errors.IsConfiguration(errors.New(errors.ErrCodeSearchCancelled, "x")))
	assert.False(t, errors.IsConfiguration(nil))
}

func TestHTTPStatusForCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, http.StatusBadRequest, errors.HTTPStatusForCode(errors.ErrCodeInvalidQuery))
	assert.Equal(t, http.StatusUnprocessableEntity, errors.New(errors.ErrCodeReactionShape, "x").HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, errors.HTTPStatusForCode("NOPE_999"))
	assert.True(t, errors.IsClientError(errors.ErrCodeMoleculeNotFound))
	assert.False(t, errors.IsClientError(errors.ErrCodeDatabaseError))
}

func TestModuleForCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "MATCH", errors.ModuleForCode(errors.ErrCodeInvalidQuery))
	assert.Equal(t, "COMMON", errors.ModuleForCode(errors.CodeInternal))
	assert.Equal(t, "UNKNOWN", errors.ModuleForCode("plain"))
}

func TestDefaultMessageForCode_AllCodesHaveMessages(t *testing.T) {
	t.Parallel()

	for code := range errors.ErrorCodeHTTPStatus {
		assert.NotEqual(t, "unknown error", errors.DefaultMessageForCode(code), "code %s", code)
	}
}

//Personal.AI order the ending
