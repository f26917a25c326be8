package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// Codes are namespaced "<MODULE>_<NNN>"; ModuleForCode extracts the prefix.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes shared by every layer.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeRateLimited        ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeMessagingError     ErrorCode = "COMMON_014"
	ErrCodeStorageError       ErrorCode = "COMMON_015"
)

// Molecule registry error codes.
const (
	ErrCodeMoleculeNotFound      ErrorCode = "MOL_004"
	ErrCodeMoleculeAlreadyExists ErrorCode = "MOL_005"
	ErrCodeMoleculeInvalidGraph  ErrorCode = "MOL_016"
)

// Substructure matching error codes.
const (
	ErrCodeInvalidQuery         ErrorCode = "MATCH_001"
	ErrCodeInvalidTarget        ErrorCode = "MATCH_002"
	ErrCodeInvalidOption        ErrorCode = "MATCH_003"
	ErrCodeSearchCancelled      ErrorCode = "MATCH_004"
	ErrCodeReactionShape        ErrorCode = "MATCH_005"
	ErrCodeBondEnergyTable      ErrorCode = "MATCH_006"
	ErrCodeScreeningFailed      ErrorCode = "MATCH_007"
	ErrCodeScreeningJobRejected ErrorCode = "MATCH_008"
)

// Short aliases used at call sites.
const (
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeRateLimited:        http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,
	ErrCodeStorageError:       http.StatusInternalServerError,

	ErrCodeMoleculeNotFound:      http.StatusNotFound,
	ErrCodeMoleculeAlreadyExists: http.StatusConflict,
	ErrCodeMoleculeInvalidGraph:  http.StatusBadRequest,

	ErrCodeInvalidQuery:         http.StatusBadRequest,
	ErrCodeInvalidTarget:        http.StatusBadRequest,
	ErrCodeInvalidOption:        http.StatusBadRequest,
	ErrCodeSearchCancelled:      http.StatusRequestTimeout,
	ErrCodeReactionShape:        http.StatusUnprocessableEntity,
	ErrCodeBondEnergyTable:      http.StatusInternalServerError,
	ErrCodeScreeningFailed:      http.StatusInternalServerError,
	ErrCodeScreeningJobRejected: http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "authentication required",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeRateLimited:        "rate limit exceeded",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeMessagingError:     "messaging error",
	ErrCodeStorageError:       "object storage error",

	ErrCodeMoleculeNotFound:      "molecule not found",
	ErrCodeMoleculeAlreadyExists: "molecule already exists",
	ErrCodeMoleculeInvalidGraph:  "invalid molecule graph",

	ErrCodeInvalidQuery:         "invalid query graph",
	ErrCodeInvalidTarget:        "invalid target graph",
	ErrCodeInvalidOption:        "invalid matching option",
	ErrCodeSearchCancelled:      "substructure search cancelled",
	ErrCodeReactionShape:        "reactant and product atom counts differ",
	ErrCodeBondEnergyTable:      "malformed bond energy table",
	ErrCodeScreeningFailed:      "screening failed",
	ErrCodeScreeningJobRejected: "screening job rejected",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.SplitN(string(code), "_", 2)
	if len(parts) == 2 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
