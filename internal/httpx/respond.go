package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ariefcatur/go-room-booking/internal/apperr"
	"github.com/ariefcatur/go-room-booking/internal/logkey"
	"github.com/ariefcatur/go-room-booking/internal/payment"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxJSONBody = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

type errorBody struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error,omitempty"`
	Raw     json.RawMessage `json:"raw,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status code. Gateway errors expose their raw
// payload; other server-side failures are logged and reported generically.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	code := apperr.StatusCode(err)

	var gwErr *payment.GatewayError
	if errors.As(err, &gwErr) {
		writeJSON(w, code, errorBody{Message: "Payment failed", Error: gwErr.Detail, Raw: gwErr.Raw})
		return
	}

	if code >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "request failed",
			slog.String(logkey.RequestID, middleware.GetReqID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.String(logkey.Error, err.Error()))
		writeJSON(w, code, errorBody{Message: "Something went wrong"})
		return
	}
	writeJSON(w, code, errorBody{Message: message(err)})
}

// message drops the leading kind ("invalid request: ") from wrapped errors.
func message(err error) string {
	msg := err.Error()
	for _, kind := range []error{apperr.ErrInvalidRequest, apperr.ErrUnauthorized, apperr.ErrConflict} {
		msg = strings.TrimPrefix(msg, kind.Error()+": ")
	}
	return msg
}

// decodeJSON reads a JSON body into dst and runs its validate tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid json", apperr.ErrInvalidRequest)
	}
	if err := validate.Struct(dst); err != nil {
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			fields := make([]string, 0, len(vErrs))
			for _, fe := range vErrs {
				fields = append(fields, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", apperr.ErrInvalidRequest, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %w", apperr.ErrInvalidRequest, err)
	}
	return nil
}

func parseID(s, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s", apperr.ErrInvalidRequest, what)
	}
	return id, nil
}
