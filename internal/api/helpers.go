package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/vytor/ringside/internal/errors"
	"github.com/vytor/ringside/internal/logger"
)

const maxBodyBytes = 1 << 20

// readJSON decodes a single JSON object into dst. Unknown fields and trailing
// values are rejected; every failure is a BAD_REQUEST.
func readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var tooLarge *http.MaxBytesError

		switch {
		case stderrors.As(err, &syntaxErr):
			return errors.NewBadRequestError(fmt.Sprintf("body contains badly-formed JSON (at character %d)", syntaxErr.Offset))
		case stderrors.Is(err, io.ErrUnexpectedEOF):
			return errors.NewBadRequestError("body contains badly-formed JSON")
		case stderrors.As(err, &typeErr):
			if typeErr.Field != "" {
				return errors.NewBadRequestError(fmt.Sprintf("body contains incorrect JSON type for field %q", typeErr.Field))
			}
			return errors.NewBadRequestError(fmt.Sprintf("body contains incorrect JSON type (at character %d)", typeErr.Offset))
		case stderrors.Is(err, io.EOF):
			return errors.NewBadRequestError("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			return errors.NewBadRequestError("body contains unknown key " + strings.TrimPrefix(err.Error(), "json: unknown field "))
		case stderrors.As(err, &tooLarge):
			return errors.NewBadRequestError(fmt.Sprintf("body must not be larger than %d bytes", maxBodyBytes))
		default:
			return errors.NewBadRequestError(err.Error())
		}
	}

	if err := dec.Decode(&struct{}{}); !stderrors.Is(err, io.EOF) {
		return errors.NewBadRequestError("body must only contain a single JSON value")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// queryInt reads an optional integer query parameter; absent means 0.
func queryInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.NewValidationError(key, "must be a non-negative integer")
	}
	return n, nil
}
