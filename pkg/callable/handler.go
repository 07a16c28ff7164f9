package callable

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
)

const maxBodyBytes = 1 << 20

type handlerOptions struct {
	log *slog.Logger
}

type HandlerOption func(*handlerOptions)

// WithLogger sets the logger used for envelope-level failures.
func WithLogger(log *slog.Logger) HandlerOption {
	return func(o *handlerOptions) {
		if log != nil {
			o.log = log
		}
	}
}

type requestEnvelope[Req any] struct {
	Data *Req `json:"data"`
}

type resultEnvelope struct {
	Result any `json:"result"`
}

type errorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// Handler serves fn with the callable envelope.
func Handler[Req, Resp any](fn func(ctx context.Context, req Req) (Resp, error), opts ...HandlerOption) http.HandlerFunc {
	o := handlerOptions{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		// Envelope checks run before fn sees the request, so a malformed
		// request is invalid-argument even without a caller.
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			WriteError(w, InvalidArgument("Request must be a POST."))
			return
		}
		if mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mt != "application/json" {
			WriteError(w, InvalidArgument("Request has incorrect Content-Type."))
			return
		}

		var env requestEnvelope[Req]
		if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&env); err != nil {
			o.log.DebugContext(r.Context(), "malformed callable body", "error", err)
			WriteError(w, InvalidArgument("Request body is not valid JSON."))
			return
		}

		var req Req
		if env.Data != nil {
			req = *env.Data
		}

		resp, err := fn(r.Context(), req)
		if err != nil {
			WriteError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, resultEnvelope{Result: resp}, o.log)
	}
}

// WriteError writes err in the callable error envelope. Errors that are not
// an *Error are reported as internal with a generic message.
func WriteError(w http.ResponseWriter, err error) {
	var ce *Error
	if !errors.As(err, &ce) {
		ce = newError(KindInternal, "INTERNAL", err)
	}
	writeJSON(w, ce.Kind.HTTPStatus(), errorEnvelope{
		Error: errorBody{Status: ce.Kind.Status(), Message: ce.Message},
	}, nil)
}

// NotFoundHandler reports unknown routes in the callable envelope.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, NotFound("Function not found."))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && log != nil {
		log.Error("failed to write callable response", "error", err)
	}
}
