package common

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/raffleworks/raffleworks/pkg/domain"
)

var validate = validator.New()

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`     // A URI reference that identifies the problem type
	Title    string `json:"title"`              // Short, human-readable summary
	Status   int    `json:"status"`             // HTTP status code
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Instance string `json:"instance,omitempty"` // URI reference that identifies the specific occurrence
	Errors   any    `json:"errors,omitempty"`   // Optional: additional error details
}

// SuccessResponseJSON writes a standard success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseJSON returns a response following RFC 9457 Problem Details.
func ErrorResponseJSON(
	c *fiber.Ctx,
	status int,
	title string,
	detail any,
) error {
	pd := ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
	}
	if detail != nil {
		if s, ok := detail.(string); ok {
			pd.Detail = s
		} else {
			pd.Errors = detail
		}
	}
	pd.Instance = c.OriginalURL()
	c.Set(fiber.HeaderContentType, "application/problem+json")

	return c.Status(status).JSON(pd)
}

// DomainErrorJSON maps a domain error onto a problem response. The error
// taxonomy is designed to be directly displayable, so the error text is the
// detail a reviewer sees.
func DomainErrorJSON(c *fiber.Ctx, err error) error {
	return ErrorResponseJSON(c, ErrorToStatusCode(err), titleFor(err), err.Error())
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrAlreadyReviewed):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrMissingReason),
		errors.Is(err, domain.ErrInvalidMethodKind):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrCapExceeded),
		errors.Is(err, domain.ErrRaffleClosed),
		errors.Is(err, domain.ErrIssuanceFailed),
		errors.Is(err, domain.ErrNotCompleted):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrTransientGateway),
		errors.Is(err, domain.ErrTerminalGateway),
		errors.Is(err, domain.ErrFinalizationFailed):
		return fiber.StatusBadGateway
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

func titleFor(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "Not Found"
	case errors.Is(err, domain.ErrConflict):
		return "Conflict"
	case errors.Is(err, domain.ErrAlreadyReviewed):
		return "Already Reviewed"
	case errors.Is(err, domain.ErrMissingReason):
		return "Missing Rejection Reason"
	case errors.Is(err, domain.ErrInvalidMethodKind):
		return "Invalid Payment Method"
	case errors.Is(err, domain.ErrCapExceeded):
		return "Entry Cap Exceeded"
	case errors.Is(err, domain.ErrRaffleClosed):
		return "Raffle Closed"
	case errors.Is(err, domain.ErrIssuanceFailed):
		return "Entry Issuance Failed"
	case errors.Is(err, domain.ErrNotCompleted):
		return "Payment Not Completed"
	case errors.Is(err, domain.ErrTransientGateway),
		errors.Is(err, domain.ErrTerminalGateway):
		return "Gateway Error"
	case errors.Is(err, domain.ErrFinalizationFailed):
		return "Finalization Failed"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Forbidden"
	default:
		return "Internal Server Error"
	}
}

// BindAndValidate parses the request body and validates it using
// go-playground/validator. On failure it writes the error response and
// returns a nil struct.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error())
	}
	if err := validate.Struct(&input); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			details := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				details = append(details, fe.Error())
			}
			return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", details)
		}
		return nil, ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	}
	return &input, nil
}
