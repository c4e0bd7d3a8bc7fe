// Package errors holds the error vocabulary shared by the storefront client
// and the stub backend: typed client failures plus RFC 7807 problem bodies.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail is the failure body served by the stub backend. Message
// mirrors Detail (or Title) because storefront clients read `message`.
type ProblemDetail struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail,omitempty"`
	Message  string `json:"message"`
	Instance string `json:"instance,omitempty"`
	// Extensions holds additional problem-specific properties.
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Error implements the error interface.
func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	p.Message = detail
	return p
}

// WithExtension returns a copy with an additional extension property.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	ext := make(map[string]any, len(p.Extensions)+1)
	for k, v := range p.Extensions {
		ext[k] = v
	}
	ext[key] = value
	p.Extensions = ext
	return p
}

// Problem type URI references.
const (
	TypeValidation    = "/problems/validation-error"
	TypeNotFound      = "/problems/not-found"
	TypeConflict      = "/problems/conflict"
	TypeInternal      = "/problems/internal-error"
	TypeBadRequest    = "/problems/bad-request"
	TypeOutOfStock    = "/problems/out-of-stock"
	TypeUnprocessable = "/problems/unprocessable-entity"
)

var (
	ProblemNotFound = ProblemDetail{
		Type:    TypeNotFound,
		Title:   "Resource Not Found",
		Status:  http.StatusNotFound,
		Message: "Resource Not Found",
	}

	ProblemValidation = ProblemDetail{
		Type:    TypeValidation,
		Title:   "Validation Error",
		Status:  http.StatusBadRequest,
		Message: "Validation Error",
	}

	ProblemBadRequest = ProblemDetail{
		Type:    TypeBadRequest,
		Title:   "Bad Request",
		Status:  http.StatusBadRequest,
		Message: "Bad Request",
	}

	ProblemConflict = ProblemDetail{
		Type:    TypeConflict,
		Title:   "Conflict",
		Status:  http.StatusConflict,
		Message: "Conflict",
	}

	// ProblemOutOfStock is returned when an order asks for more than is stocked.
	ProblemOutOfStock = ProblemDetail{
		Type:    TypeOutOfStock,
		Title:   "Insufficient Stock",
		Status:  http.StatusUnprocessableEntity,
		Message: "Insufficient Stock",
	}

	ProblemInternal = ProblemDetail{
		Type:    TypeInternal,
		Title:   "Internal Server Error",
		Status:  http.StatusInternalServerError,
		Message: "Internal Server Error",
	}
)

// NewNotFoundProblem creates a not found problem for a specific resource.
func NewNotFoundProblem(resourceType string, identifier any) ProblemDetail {
	return ProblemNotFound.
		WithDetail(fmt.Sprintf("%s with identifier '%v' not found", resourceType, identifier)).
		WithExtension("resourceType", resourceType).
		WithExtension("identifier", identifier)
}
