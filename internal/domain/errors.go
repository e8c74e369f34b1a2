package domain

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// StatusCoder is implemented by every pipeline error so the HTTP layer can
// pick a response code without knowing concrete types.
type StatusCoder interface {
	StatusCode() int
}

// StatusCode returns the HTTP status for err, 500 when err carries none.
func StatusCode(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether err should be answered with a 4xx.
func IsClientError(err error) bool {
	code := StatusCode(err)
	return code >= 400 && code < 500
}

type UploadMissingError struct {
	Field string
}

func (e *UploadMissingError) Error() string {
	return fmt.Sprintf("no file uploaded in field %q", e.Field)
}

func (e *UploadMissingError) StatusCode() int { return http.StatusBadRequest }

type UnsupportedUploadError struct {
	ContentType string
}

func (e *UnsupportedUploadError) Error() string {
	return fmt.Sprintf("uploaded file is not a PDF (content type %q)", e.ContentType)
}

func (e *UnsupportedUploadError) StatusCode() int { return http.StatusBadRequest }

// ExtractionInsufficientError means the text layer was too short, which
// usually indicates a scanned image-only PDF.
type ExtractionInsufficientError struct {
	Length int
	Min    int
}

func (e *ExtractionInsufficientError) Error() string {
	return fmt.Sprintf("could not extract text from PDF (%d of %d characters); ensure it is a text-based PDF, not a scanned image", e.Length, e.Min)
}

func (e *ExtractionInsufficientError) StatusCode() int { return http.StatusBadRequest }

type MissingInputError struct {
	Field string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *MissingInputError) StatusCode() int { return http.StatusBadRequest }

type InvalidRequestError struct {
	Detail string
	Err    error
}

func (e *InvalidRequestError) Error() string {
	if e.Err != nil {
		return e.Detail + ": " + e.Err.Error()
	}
	return e.Detail
}

func (e *InvalidRequestError) Unwrap() error   { return e.Err }
func (e *InvalidRequestError) StatusCode() int { return http.StatusBadRequest }

type ModelTimeoutError struct {
	Attempts int
	Timeout  time.Duration
	Err      error
}

func (e *ModelTimeoutError) Error() string {
	return fmt.Sprintf("model request timed out after %d attempt(s) of %s: %v", e.Attempts, e.Timeout, e.Err)
}

func (e *ModelTimeoutError) Unwrap() error   { return e.Err }
func (e *ModelTimeoutError) StatusCode() int { return http.StatusInternalServerError }

type ModelRequestError struct {
	Attempts int
	Err      error
}

func (e *ModelRequestError) Error() string {
	return fmt.Sprintf("model request failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *ModelRequestError) Unwrap() error   { return e.Err }
func (e *ModelRequestError) StatusCode() int { return http.StatusInternalServerError }

// MalformedModelOutputError keeps the raw model text for diagnostics.
type MalformedModelOutputError struct {
	Reason string
	Raw    string
	Err    error
}

func (e *MalformedModelOutputError) Error() string {
	msg := "malformed model output: " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *MalformedModelOutputError) Unwrap() error   { return e.Err }
func (e *MalformedModelOutputError) StatusCode() int { return http.StatusInternalServerError }

type InvalidDocumentError struct {
	Prefix string
}

func (e *InvalidDocumentError) Error() string {
	return fmt.Sprintf("model did not return a valid HTML document (starts with %q)", e.Prefix)
}

func (e *InvalidDocumentError) StatusCode() int { return http.StatusInternalServerError }

type RenderError struct {
	Stage string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Stage, e.Err)
}

func (e *RenderError) Unwrap() error   { return e.Err }
func (e *RenderError) StatusCode() int { return http.StatusInternalServerError }
