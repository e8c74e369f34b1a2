package http

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"resume-tailor/internal/domain"
)

// requestError tags a pipeline failure with the message shown to callers.
type requestError struct {
	Message string
	Err     error
}

func (e *requestError) Error() string { return e.Message + ": " + e.Err.Error() }
func (e *requestError) Unwrap() error { return e.Err }

func fail(message string, err error) error {
	return &requestError{Message: message, Err: err}
}

// validationError converts validator output into a domain error. A missing
// required field is reported as missing input.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &domain.InvalidRequestError{Detail: "invalid request", Err: err}
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return &domain.MissingInputError{Field: fe.Field()}
	}
	return &domain.InvalidRequestError{Detail: "invalid " + fe.Field()}
}

// ErrorHandler writes {error, details}. Client errors carry their own
// message; server errors carry the handler's summary plus the cause.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	code := domain.StatusCode(err)
	message := err.Error()
	var re *requestError
	if errors.As(err, &re) {
		message = re.Message
		err = re.Err
	}

	if code < fiber.StatusInternalServerError {
		slog.Info("http: rejected request", "path", c.Path(), "status", code, "error", err)
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}

	slog.Error("http: request failed", "path", c.Path(), "status", code, "error", err)
	return c.Status(code).JSON(fiber.Map{"error": message, "details": err.Error()})
}
