package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse abstracts all API error responses to the user.
//
// This interface does not implement `error`, since its only purpose
// is to be used for API responses and not for logging circumstances.
//
// In general, the whole ErrorResponse can be sent for serialization.
type ErrorResponse interface {
	// Code is the HTTP status code to be returned.
	Code() int
}

type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (a *APIError) Code() int {
	return a.Status
}

type StructuredError struct {
	Errors map[string][]string `json:"errors"`
	Status int                 `json:"-"`
}

func (s *StructuredError) Code() int {
	return s.Status
}

func (s *StructuredError) Add(field, problem string) {
	s.Errors[field] = append(s.Errors[field], problem)
}

var (
	MalformedJSONError  = NewSimple(400, "Malformed JSON body")
	InternalServerError = NewSimple(500, "Internal server error")

	// NotFoundError is also returned when the caller lacks any capability
	// over an existing resource, so that unauthorized parties cannot
	// confirm the resource exists.
	NotFoundError  = NewSimple(404, "Resource not found")
	InvalidIDError = NewSimple(400, "The provided ID is invalid, IDs are usually int64 > 0")

	UnauthorizedError     = NewSimple(401, "Authentication required")
	InvalidAuthTokenError = NewSimple(401, "Invalid or expired authorization token")

	/*
	 * Used for authentications
	 */
	CredentialsMismatchError = NewSimple(401, "Credentials mismatch")
	UsernameTakenError       = NewSimple(400, "Username already exists")
	EmailTakenError          = NewSimple(400, "Email already exists")
	AlreadyAdminError        = NewSimple(400, "User is already an administrator")

	/*
	 * Sharing
	 */
	RecipientNotFoundError = NewSimple(400, "Recipient user not found")
	SelfShareError         = NewSimple(400, "Cannot share a note with its own owner")
	DuplicateShareError    = NewSimple(409, "This note is already shared with this user")

	/*
	 * Tags
	 */
	DuplicateTagNameError = NewSimple(400, "A tag with this name already exists")
	TagAlreadyOnNoteError = NewSimple(400, "This tag is already attached to the note")
	TagNotOnNoteError     = NewSimple(404, "This tag is not attached to the note")

	// StaleWriteError surfaces an optimistic concurrency collision. The
	// caller is expected to re-fetch the note and retry on its own.
	StaleWriteError = NewSimple(409, "The note was modified by someone else, refresh and try again")
)

func FromValidationError(err error) *StructuredError {
	var ve validator.ValidationErrors
	ok := errors.As(err, &ve)
	if !ok {
		return nil
	}

	problems := map[string][]string{}
	for _, fe := range ve {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			problems[field] = append(problems[field], "This field is required")
		case "min":
			problems[field] = append(problems[field], "Value is too short, min: "+fe.Param())
		case "max":
			problems[field] = append(problems[field], "Value is too long, max: "+fe.Param())
		case "hasupper":
			problems[field] = append(problems[field], "Value must have at least one uppercase character")
		case "haslower":
			problems[field] = append(problems[field], "Value must have at least one lowercase character")
		case "hasdigit":
			problems[field] = append(problems[field], "Value must have at least one number")
		case "hasspecial":
			problems[field] = append(problems[field], "Value must have at least one special character")
		case "email":
			problems[field] = append(problems[field], "Value must be a valid email address")

		default:
			problems[field] = append(problems[field], "Invalid value provided")
		}
	}

	return &StructuredError{
		Errors: problems,
		Status: http.StatusBadRequest,
	}
}

func NewSimple(status int, msg string, args ...any) *APIError {
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	return &APIError{Status: status, Message: msg}
}

func NewStructured(code int) *StructuredError {
	return &StructuredError{
		Errors: make(map[string][]string),
		Status: code,
	}
}

func NewForbiddenError(msg string) *APIError {
	return NewSimple(http.StatusForbidden, msg)
}

func NewInvalidParamTypeError(name, dataType string) *APIError {
	return NewSimple(http.StatusBadRequest, "Parameter '%s' has invalid type, expected: %s", name, dataType)
}
