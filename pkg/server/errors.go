package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/vango-dev/formguard/internal/errors"
	"github.com/vango-dev/formguard/pkg/form"
)

// errorBody is the JSON envelope for failed requests.
type errorBody struct {
	Error *errors.Error `json:"error"`
}

// statusFor maps a coded error to an HTTP status.
func statusFor(err error) int {
	var mbe *http.MaxBytesError
	switch {
	case stderrors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case stderrors.Is(err, form.ErrRootNotFound),
		stderrors.Is(err, form.ErrInvalidSelector),
		stderrors.Is(err, form.ErrNilValidator):
		return http.StatusUnprocessableEntity
	}
	switch errors.Code(err) {
	case "F060", "F040":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes err as a coded JSON error. Uncoded errors are
// reported as F060.
func writeError(w http.ResponseWriter, err error) {
	fe := errors.FromError(err, "F060")
	writeJSON(w, statusFor(err), errorBody{Error: fe})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
