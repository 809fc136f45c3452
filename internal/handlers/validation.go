package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/BradenHooton/tourexpress/internal/models"
	pkghttp "github.com/BradenHooton/tourexpress/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
	maxBodyBytes    = 1 << 20
)

// Global validator instance (reused across all handlers). Field names in
// errors use the json tag so clients see the names they sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// Surrounding whitespace is trimmed before the username is stored.
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return models.ValidUsername(strings.TrimSpace(fl.Field().String()))
	})
	return v
}

// ValidateRequest validates a request struct and returns every field failure.
func ValidateRequest(req interface{}) []pkghttp.FieldDetail {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []pkghttp.FieldDetail{{Field: "body", Message: err.Error()}}
	}
	out := make([]pkghttp.FieldDetail, 0, len(ve))
	for _, fe := range ve {
		out = append(out, pkghttp.FieldDetail{Field: fe.Field(), Message: formatValidationError(fe)})
	}
	return out
}

// formatValidationError converts a validator FieldError to a user-friendly message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "must be a valid email address"
	case "username":
		return models.InvalidUsernameMessage
	case "min":
		return fmt.Sprintf("must have a minimum of %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have a maximum of %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "numeric":
		return "must be a number"
	default:
		return fmt.Sprintf("failed validation: %s", fe.Tag())
	}
}

// decodeAndValidate reads a JSON body into dst and validates it. It writes
// the error response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	return decode(w, r, dst, false)
}

// decodeOptional is decodeAndValidate for bodies that may be omitted.
func decodeOptional(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	return decode(w, r, dst, true)
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}, optional bool) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil && !(optional && errors.Is(err, io.EOF)) {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return false
	}
	if fields := ValidateRequest(dst); len(fields) > 0 {
		pkghttp.WriteValidationError(w, fields)
		return false
	}
	return true
}

// writeServiceError maps service errors onto HTTP responses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		fields := make([]pkghttp.FieldDetail, 0)
		for _, fe := range models.FieldErrors(err) {
			fields = append(fields, pkghttp.FieldDetail{Field: fe.Field, Message: fe.Message})
		}
		pkghttp.WriteValidationError(w, fields)
	case errors.Is(err, models.ErrNotFound):
		pkghttp.WriteNotFound(w, "Not found")
	case errors.Is(err, models.ErrForbidden):
		pkghttp.WriteForbidden(w, "Access denied")
	case errors.Is(err, models.ErrBadRequest):
		pkghttp.WriteBadRequest(w, "Invalid reference or missing field")
	case errors.Is(err, models.ErrUnauthorized), errors.Is(err, models.ErrInvalidCredentials):
		pkghttp.WriteUnauthorized(w, "Authentication failed")
	default:
		pkghttp.WriteInternalError(w, "An unexpected error occurred")
	}
}

// writeFieldError reports a single-field validation failure.
func writeFieldError(w http.ResponseWriter, field, message string) {
	pkghttp.WriteValidationError(w, []pkghttp.FieldDetail{{Field: field, Message: message}})
}

// idParam parses a positive integer URL parameter, writing 404 when it is
// not one.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		pkghttp.WriteNotFound(w, "Not found")
		return 0, false
	}
	return id, true
}

// pageParams reads ?limit and ?offset, clamping to sane bounds.
func pageParams(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = min(v, maxPageSize)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
