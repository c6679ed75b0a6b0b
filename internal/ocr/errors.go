package ocr

import (
	"errors"
	"net/http"
)

// Kind classifies extraction failures by who is at fault.
type Kind int

const (
	// KindValidation: bad input, rejected before the model is called.
	KindValidation Kind = iota
	// KindExtraction: the model answered but no usable data came back.
	KindExtraction
	KindRateLimited
	KindAuth
	KindConfig
	KindUpstream
)

// Error is the error type of the bridge. Message is safe to show to users.
// Code, set on upload validation failures, is the translatable message key.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status is the HTTP status reported for the error.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindExtraction:
		return http.StatusUnprocessableEntity
	case KindRateLimited:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// KindOf returns the kind of err, or KindUpstream for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUpstream
}

const (
	msgNoFile        = "No file provided"
	msgMaxFiles      = "Maximum 2 files allowed"
	msgRateLimited   = "Rate limit exceeded. Please try again later."
	msgInvalidKey    = "Invalid API key or no credits available"
	msgNotConfigured = "OpenAI API key not configured"
	msgFailed        = "Failed to process document. Check server logs for details."
	msgEmptyReply    = "No se pudo extraer información del documento. La respuesta del modelo está vacía."
	msgNoJSON        = "No se pudo extraer información del documento. El documento puede estar borroso, incompleto, o no ser una identificación colombiana válida."
	msgBadJSON       = "Error al parsear los datos extraídos. JSON inválido."
)

// Message keys of upload validation failures.
const (
	CodeNoFile       = "ocr_no_file"
	CodeMaxFiles     = "ocr_max_files"
	CodeFileTooLarge = "ocr_file_too_large"
	CodeInvalidType  = "ocr_invalid_type"
)

// NoFileError reports a request without any document image.
func NoFileError() *Error { return validationErr(CodeNoFile, msgNoFile) }

func validationErr(code, msg string) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: msg}
}
