package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes used across the client layer.
const (
	CodeNetwork      = "NETWORK_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeRole         = "ROLE_NOT_ALLOWED"
	CodeApproval     = "ACCOUNT_NOT_APPROVED"
	CodeDeleted      = "ACCOUNT_DELETED"
	CodeValidation   = "VALIDATION_ERROR"
	CodeServer       = "SERVER_ERROR"
	CodeUnknown      = "UNKNOWN_ERROR"
)

// Error is the single normalized shape every failure takes before it
// reaches a calling service.
type Error struct {
	Message string
	Status  int
	Code    string
	Details map[string]any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs an Error.
func New(code, message string, status int, details map[string]any) *Error {
	return &Error{Code: code, Message: message, Status: status, Details: details}
}

// NewNetwork wraps a transport-level failure where no response arrived.
func NewNetwork(err error) *Error {
	return &Error{
		Code:    CodeNetwork,
		Message: "network error - please check your connection",
		Status:  0,
		Err:     err,
	}
}

// NewRole signals that the account's role is not allowed in this app.
func NewRole() *Error {
	return New(CodeRole, "only delivery personnel are allowed to access this application", http.StatusForbidden, nil)
}

// NewApproval signals that the account is still pending admin approval.
func NewApproval() *Error {
	return New(CodeApproval, "your account is pending approval, please contact support", http.StatusForbidden, nil)
}

// NewDeleted signals that the account has been deleted.
func NewDeleted() *Error {
	return New(CodeDeleted, "your account has been deleted, please contact support", http.StatusForbidden, nil)
}

// FromResponse classifies a server response into the error taxonomy.
// The body message and code, when present, take priority over the generic
// per-status messages.
func FromResponse(status int, body map[string]any) *Error {
	message := bodyMessage(body)

	switch {
	case status == http.StatusUnauthorized:
		if message == "" {
			message = "your session has expired, please log in again"
		}
		return New(CodeUnauthorized, message, status, body)
	case status == http.StatusForbidden || matchesRole(message):
		return New(CodeRole, "only delivery personnel are allowed to access this application", status, body)
	case matchesApproval(message):
		return New(CodeApproval, "your account is pending approval, please contact support", status, body)
	case status == http.StatusUnprocessableEntity:
		if message == "" {
			message = "validation failed"
		}
		return New(CodeValidation, message, status, body)
	case status >= http.StatusInternalServerError:
		return New(CodeServer, "server error occurred, please try again later", status, body)
	default:
		if message == "" {
			message = fmt.Sprintf("request failed with status %d", status)
		}
		return New(CodeUnknown, message, status, body)
	}
}

// Coerce returns err as an *Error, wrapping unclassified errors under the
// unknown code so callers can rely on the shape.
func Coerce(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &Error{Code: CodeUnknown, Message: err.Error(), Status: 0, Err: err}
}

// IsAuth reports whether err is an authentication failure (HTTP 401).
func IsAuth(err error) bool {
	return hasCode(err, CodeUnauthorized)
}

// IsRole reports whether err is a role/forbidden rejection.
func IsRole(err error) bool {
	return hasCode(err, CodeRole)
}

// IsApproval reports whether err is an approval-pending rejection.
func IsApproval(err error) bool {
	return hasCode(err, CodeApproval)
}

// IsNetwork reports whether err never produced a server response.
func IsNetwork(err error) bool {
	return hasCode(err, CodeNetwork)
}

func hasCode(err error, code string) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}

func matchesRole(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "delivery") || strings.Contains(lower, "role")
}

func matchesApproval(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "approval") || strings.Contains(lower, "pending")
}

func bodyMessage(body map[string]any) string {
	if body == nil {
		return ""
	}
	if msg, ok := body["message"].(string); ok && msg != "" {
		return msg
	}
	if msg, ok := body["error"].(string); ok {
		return msg
	}
	return ""
}
