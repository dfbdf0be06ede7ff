package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/headpin-io/headpin-app/gpio"
	"github.com/headpin-io/headpin-app/store"
	"github.com/sirupsen/logrus"
)

type errorResponse struct {
	Error string `json:"error"`
}

// respond encodes the data and ResponseError to JSON and responds with it and
// the http code. If the encoding fails, sets an InternalServerError.
func respond(w http.ResponseWriter, data interface{}, httpCode int) {
	var resp interface{}
	if v, ok := data.(error); ok {
		resp = errorResponse{Error: v.Error()}
	} else {
		resp = data
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)

	if resp != nil {
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// respondErr is respond with the status derived from the error itself.
func respondErr(w http.ResponseWriter, err error) {
	respond(w, err, errorCode(err))
}

// errorCode maps device and store errors onto HTTP statuses so a client
// can tell a bad request from a failing board.
func errorCode(err error) int {
	var ioErr *gpio.IOError

	switch {
	case errors.Is(err, gpio.ErrNotInitialized):
		return http.StatusServiceUnavailable
	case errors.Is(err, gpio.ErrUnknownPin), errors.Is(err, store.ErrNoPreset):
		return http.StatusNotFound
	case errors.Is(err, gpio.ErrEmptyQuery), errors.Is(err, gpio.ErrInvalidDirection):
		return http.StatusBadRequest
	case errors.Is(err, gpio.ErrNotGPIO):
		return http.StatusUnprocessableEntity
	case errors.As(err, &ioErr):
		return http.StatusBadGateway
	}

	return http.StatusInternalServerError
}

type statusRecorder struct {
	http.ResponseWriter

	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.ResponseWriter.WriteHeader(code)
	r.code = code
}

// withRequestLog logs one line per request with a correlation id that is
// also handed back to the caller in X-Request-Id.
func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := req.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-Id", id)

		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, req)

		s.Logger.WithFields(logrus.Fields{
			"id":     id,
			"method": req.Method,
			"path":   req.URL.Path,
			"code":   rec.code,
			"took":   time.Since(start).String(),
		}).Debug("http request")
	})
}
