package server

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/matzehuels/scrapbook/pkg/errors"
	"github.com/matzehuels/scrapbook/pkg/observability"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 20

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the shared validator instance.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// fieldCodes maps request fields to the error code their violation reports.
var fieldCodes = map[string]errors.Code{
	"Columns": errors.ErrCodeInvalidColumns,
	"MinRows": errors.ErrCodeInvalidMinRows,
	"Policy":  errors.ErrCodeInvalidPolicy,
	"Format":  errors.ErrCodeInvalidFormat,
}

// validateRequest runs struct validation and converts the first failure to a
// coded error.
func validateRequest(v any) error {
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !stderrors.As(err, &ves) || len(ves) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request")
	}
	fe := ves[0]
	code, ok := fieldCodes[fe.StructField()]
	if !ok {
		code = errors.ErrCodeInvalidInput
	}
	return errors.New(code, "%s", describe(fe))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}

// decode reads a JSON body into v and validates it.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "read body")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid JSON body")
	}
	return validateRequest(v)
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":{"code":"INTERNAL_ERROR","message":"encode response"}}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

// writeError maps err to its status code and writes the error body.
// Uncoded errors become INTERNAL_ERROR without leaking their text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code = errors.ErrCodeInternal
		msg = "internal error"
	}
	status := errors.HTTPStatus(code)
	if status >= 500 {
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	}
	if code == errors.ErrCodeRateLimited {
		w.Header().Set("Retry-After", "60")
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      code,
		Message:   msg,
		RequestID: RequestIDFromContext(r.Context()),
	}})
}
