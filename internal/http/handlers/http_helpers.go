package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/frame-storefront/internal/backend"
)

// readJSON tries to read the body of a request and converts it into JSON
func readJSON(w http.ResponseWriter, r *http.Request, data any, maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = 1048576 // one megabyte
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	dec := json.NewDecoder(r.Body)
	err := dec.Decode(data)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return errors.New("body must have only a single json value")
	}

	return nil
}

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

func (s *Server) respond(w http.ResponseWriter, status int, data any) {
	if err := writeJSON(w, status, data); err != nil {
		s.logger().Error("failed to write JSON response", zap.Error(err))
	}
}

// readError answers a body that could not be decoded.
func readError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, "invalid input", http.StatusBadRequest)
}

// upstreamError maps a failed backend call to a response. A request the
// caller abandoned gets no answer and is not treated as a failure.
func (s *Server) upstreamError(w http.ResponseWriter, r *http.Request, err error, what string) {
	if errors.Is(err, context.Canceled) || r.Context().Err() != nil {
		s.logger().Debug("request abandoned", zap.String("operation", what), zap.Error(err))
		return
	}

	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		http.Error(w, "session expired or not authorized", http.StatusUnauthorized)
		return
	case errors.Is(err, backend.ErrNotFound):
		http.Error(w, what+": not found", http.StatusNotFound)
		return
	case errors.Is(err, context.DeadlineExceeded):
		s.logger().Warn("backend timed out", zap.String("operation", what), zap.Error(err))
		http.Error(w, "could not "+what+": backend timed out", http.StatusGatewayTimeout)
		return
	}

	s.logger().Error("backend call failed", zap.String("operation", what), zap.Error(err))
	http.Error(w, "could not "+what, http.StatusBadGateway)
}
