package dto

import "net/http"

// Transport-level error codes used by handlers and middleware.
const (
	ErrCodeValidation      = "VALIDATION_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeInternal        = "INTERNAL_ERROR"

	ErrCodeTokenExpired     = "TOKEN_EXPIRED"
	ErrCodeInvalidToken     = "INVALID_TOKEN"
	ErrCodeInvalidTokenType = "INVALID_TOKEN_TYPE"
	ErrCodeTokenNotValid    = "TOKEN_NOT_VALID"
	ErrCodeTokenRevoked     = "TOKEN_REVOKED"
	ErrCodeInvalidAPIKey    = "INVALID_API_KEY"
	ErrCodeMissingScope     = "MISSING_SCOPE"
)

// errorCodeHTTPStatus maps every domain error code to its HTTP status.
// Codes not listed here fall back to categorization in GetHTTPStatus.
var errorCodeHTTPStatus = map[string]int{
	// 400 input problems
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeBadRequest: http.StatusBadRequest,
	"INVALID_INPUT":   http.StatusBadRequest,
	"INVALID_RANGE":   http.StatusBadRequest,

	// 401 authentication
	ErrCodeUnauthorized:     http.StatusUnauthorized,
	ErrCodeTokenExpired:     http.StatusUnauthorized,
	ErrCodeInvalidToken:     http.StatusUnauthorized,
	ErrCodeInvalidTokenType: http.StatusUnauthorized,
	ErrCodeTokenNotValid:    http.StatusUnauthorized,
	ErrCodeTokenRevoked:     http.StatusUnauthorized,
	ErrCodeInvalidAPIKey:    http.StatusUnauthorized,
	"INVALID_CREDENTIALS":   http.StatusUnauthorized,
	"ACCOUNT_INACTIVE":      http.StatusUnauthorized,

	// 403 authorization
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeMissingScope: http.StatusForbidden,

	// 404
	ErrCodeNotFound: http.StatusNotFound,

	// 409 uniqueness and optimistic locking
	ErrCodeConflict:        http.StatusConflict,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"SLUG_TAKEN":           http.StatusConflict,
	"EMAIL_TAKEN":          http.StatusConflict,
	"INVITATION_EXISTS":    http.StatusConflict,
	"ALREADY_CONNECTED":    http.StatusConflict,
	"CLIENT_HAS_CAMPAIGNS": http.StatusConflict,

	// 422 business rules
	"INVALID_STATE":            http.StatusUnprocessableEntity,
	"ALREADY_ACTIVE":           http.StatusUnprocessableEntity,
	"ALREADY_ARCHIVED":         http.StatusUnprocessableEntity,
	"ALREADY_CANCELLED":        http.StatusUnprocessableEntity,
	"ALREADY_INACTIVE":         http.StatusUnprocessableEntity,
	"ALREADY_REVOKED":          http.StatusUnprocessableEntity,
	"ALREADY_SUSPENDED":        http.StatusUnprocessableEntity,
	"NOT_ARCHIVED":             http.StatusUnprocessableEntity,
	"NOT_SUSPENDED":            http.StatusUnprocessableEntity,
	"AGENCY_CANCELLED":         http.StatusUnprocessableEntity,
	"SUBSCRIPTION_CANCELLED":   http.StatusUnprocessableEntity,
	"CLIENT_ARCHIVED":          http.StatusUnprocessableEntity,
	"CAMPAIGN_ARCHIVED":        http.StatusUnprocessableEntity,
	"INVITATION_EXPIRED":       http.StatusUnprocessableEntity,
	"INVITATION_NOT_PENDING":   http.StatusUnprocessableEntity,
	"INVALID_INVITATION":       http.StatusUnprocessableEntity,
	"LAST_OWNER":               http.StatusUnprocessableEntity,
	"CANNOT_DELETE_SELF":       http.StatusUnprocessableEntity,
	"ROLE_UNCHANGED":           http.StatusUnprocessableEntity,
	"PLAN_UNCHANGED":           http.StatusUnprocessableEntity,
	"INSUFFICIENT_TOKENS":      http.StatusUnprocessableEntity,
	"PLAN_LIMIT_REACHED":       http.StatusUnprocessableEntity,
	"NO_SUBSCRIPTION":          http.StatusUnprocessableEntity,
	"NO_BILLING_CUSTOMER":      http.StatusUnprocessableEntity,
	"NO_CONNECTED_ACCOUNTS":    http.StatusUnprocessableEntity,
	"NO_REFRESH_TOKEN":         http.StatusUnprocessableEntity,
	"REFRESH_FAILED":           http.StatusUnprocessableEntity,
	"MAX_ATTEMPTS_REACHED":     http.StatusUnprocessableEntity,
	"MEDIA_NOT_UPLOADED":       http.StatusUnprocessableEntity,
	"MEDIA_REQUIRED":           http.StatusUnprocessableEntity,
	"OUTSIDE_CAMPAIGN_WINDOW":  http.StatusUnprocessableEntity,
	"ACCOUNT_UNUSABLE":         http.StatusUnprocessableEntity,
	"ACCOUNT_REVOKED":          http.StatusUnprocessableEntity,
	"CONTENT_TOO_LONG":         http.StatusUnprocessableEntity,
	"TOO_MANY_HASHTAGS":        http.StatusUnprocessableEntity,
	"UNSUPPORTED_MEDIA_TYPE":   http.StatusUnprocessableEntity,
	"UNSUPPORTED_MEDIA_FORMAT": http.StatusUnprocessableEntity,

	// 429
	ErrCodeRateLimited: http.StatusTooManyRequests,

	// 413
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// 500
	ErrCodeInternal:          http.StatusInternalServerError,
	"PASSWORD_HASH_ERROR":    http.StatusInternalServerError,
	"TOKEN_GENERATION_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus resolves an error code to its HTTP status. Unlisted codes
// starting with INVALID_ are treated as input validation failures; anything
// else unknown is a server error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if len(code) > 8 && code[:8] == "INVALID_" {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
