package httpapi

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/libreshelf/lending-engine/lending"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func readJSON(r *http.Request, dest any) error {
	if decodeErr := json.NewDecoder(r.Body).Decode(dest); decodeErr != nil {
		return errors.Join(lending.ErrInvalidInput, decodeErr)
	}

	return nil
}

// writeError maps engine errors to HTTP status codes by their kind. The
// response body carries the sentinel's message, not wrapped driver details.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFromError(err), errorResponse{Error: publicMessage(err)})
}

func statusFromError(err error) int {
	switch lending.KindOf(err) {
	case lending.KindValidation:
		return http.StatusBadRequest
	case lending.KindNotFound:
		return http.StatusNotFound
	case lending.KindStateConflict:
		return http.StatusConflict
	case lending.KindDenial:
		return http.StatusUnprocessableEntity
	case lending.KindInfrastructure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns the first sentinel matched by the error so internal
// details (SQL, drivers) never leak into responses.
func publicMessage(err error) string {
	sentinels := []error{
		lending.ErrInvalidInput,
		lending.ErrInvalidAmount,
		lending.ErrInvalidState,
		lending.ErrDuplicateRequest,
		lending.ErrDuplicateFine,
		lending.ErrAlreadySettled,
		lending.ErrBookUnavailable,
		lending.ErrBorrowLimitReached,
		lending.ErrAccountInactive,
		lending.ErrUnpaidFinesPresent,
		lending.ErrNotFound,
		lending.ErrCopyCountCorrupted,
		lending.ErrConcurrencyConflict,
		lending.ErrStorageUnavailable,
	}

	for _, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}

	return "internal error"
}
