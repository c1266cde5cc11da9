package shared

// DomainError is a business rule violation with a stable machine code.
// The HTTP layer maps codes to status codes; messages are user-facing.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError builds a DomainError with the given code and message
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Sentinel errors shared across aggregates. Services compare against
// these directly; aggregate-specific codes are created inline.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrInsufficientTokens  = NewDomainError("INSUFFICIENT_TOKENS", "Insufficient token balance")
	ErrPlanLimitReached    = NewDomainError("PLAN_LIMIT_REACHED", "Subscription plan limit reached")
	ErrRateLimited         = NewDomainError("RATE_LIMITED", "Too many requests")
)
