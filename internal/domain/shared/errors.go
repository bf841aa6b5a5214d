package shared

// DomainError is a rule violation raised by the domain layer. Code is
// stable and mapped to an API error code; Message is shown to callers.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// ErrNotFound is returned by repositories when no row matches in the tenant
var ErrNotFound = NewDomainError("NOT_FOUND", "Resource not found")
