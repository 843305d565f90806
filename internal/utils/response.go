package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"ATRAX_BACK-END/internal/apperrors"
	"ATRAX_BACK-END/internal/dto"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// WriteJSONResponse writes a JSON response to the HTTP response writer
func WriteJSONResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes the {message, code} error body
func WriteErrorResponse(w http.ResponseWriter, status int, code apperrors.Code, message string) {
	WriteJSONResponse(w, status, dto.ErrorResponse{Message: message, Code: string(code)})
}

// WriteAppError renders err with the status of its code. Internal causes are
// logged and replaced by a generic message.
func WriteAppError(w http.ResponseWriter, r *http.Request, logger logrus.FieldLogger, err error) {
	appErr := apperrors.From(err)
	status := appErr.Code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("request failed")
	}
	WriteErrorResponse(w, status, appErr.Code, appErr.Message)
}

// DecodeJSONRequest decodes the request body into dst. On failure it writes a
// VALIDATION_ERROR response and returns the error.
func DecodeJSONRequest(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		msg := "Invalid request body"
		if errors.Is(err, io.EOF) {
			msg = "Request body is empty"
		}
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxErr):
			msg = fmt.Sprintf("Malformed JSON at offset %d", syntaxErr.Offset)
		case errors.As(err, &typeErr):
			msg = fmt.Sprintf("Invalid value for field %q", typeErr.Field)
		}
		WriteErrorResponse(w, http.StatusBadRequest, apperrors.CodeValidation, msg)
		return err
	}
	return nil
}
