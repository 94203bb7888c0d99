package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/rogerio-castellano/frame-storefront/internal/auth"
)

const heartbeatInterval = 25 * time.Second

// EventsHandler godoc
// @Summary Stream cart and wishlist changes
// @Description Server-sent events carrying the caller's new badge counts whenever another session changes them.
// @Tags cart
// @Produce text/event-stream
// @Security BearerAuth
// @Success 200 {object} events.Event
// @Failure 401 {string} string "Unauthorized"
// @Router /events [get]
func (s *Server) EventsHandler(w http.ResponseWriter, r *http.Request) {
	if s.Events == nil {
		http.Error(w, "events are not enabled", http.StatusServiceUnavailable)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	id, _ := auth.FromContext(r.Context())

	ch, cancel := s.Events.Subscribe(r.Context())
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case e, ok := <-ch:
			if !ok {
				return
			}
			if e.UserID != id.UserID {
				continue
			}
			data, err := json.Marshal(e)
			if err != nil {
				s.logger().Error("failed to encode event", zap.Error(err))
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Kind, data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
