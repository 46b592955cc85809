// Package delivery exposes the capture controls over HTTP and pushes
// session events to UI clients over websocket.
package delivery

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"voicedash/internal/delivery/ws"
	"voicedash/internal/domain"
	"voicedash/internal/usecase"
)

// CaptureController is the slice of the session controller the HTTP surface
// needs.
type CaptureController interface {
	StartCapture(ctx context.Context) error
	StopCapture() error
	Status() domain.Status
}

// RuntimeInfo is non-sensitive configuration shown to UI clients.
type RuntimeInfo map[string]string

type Handler struct {
	controller CaptureController
	sink       *Sink
	hub        *ws.Hub
	runtime    RuntimeInfo
	log        *zap.SugaredLogger
}

func NewHandler(controller CaptureController, sink *Sink, hub *ws.Hub, runtime RuntimeInfo, log *zap.SugaredLogger) *Handler {
	return &Handler{controller: controller, sink: sink, hub: hub, runtime: runtime, log: log}
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/api/v1/capture/start", h.StartCapture)
	r.Post("/api/v1/capture/stop", h.StopCapture)
	r.Get("/api/v1/status", h.GetStatus)
	r.Get("/api/v1/runtime", h.GetRuntime)
	r.Get("/ws", h.ServeWS)
	r.Get("/health", h.Health)
}

// StartCapture is the press half of press-and-hold.
func (h *Handler) StartCapture(w http.ResponseWriter, r *http.Request) {
	err := h.controller.StartCapture(context.WithoutCancel(r.Context()))
	switch {
	case err == nil:
		h.writeStatus(w, http.StatusAccepted)
	case errors.Is(err, usecase.ErrCaptureActive):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, usecase.ErrMicrophoneBlocked):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		h.log.Errorw("capture start failed", "error", err)
		http.Error(w, "failed to start capture", http.StatusBadGateway)
	}
}

// StopCapture is the release half of press-and-hold.
func (h *Handler) StopCapture(w http.ResponseWriter, _ *http.Request) {
	err := h.controller.StopCapture()
	switch {
	case err == nil:
		h.writeStatus(w, http.StatusOK)
	case errors.Is(err, usecase.ErrNoActiveCapture):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		h.log.Errorw("capture stop failed", "error", err)
		http.Error(w, "failed to stop capture", http.StatusBadGateway)
	}
}

func (h *Handler) GetStatus(w http.ResponseWriter, _ *http.Request) {
	h.writeStatus(w, http.StatusOK)
}

func (h *Handler) GetRuntime(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.runtime)
}

// ServeWS upgrades the connection and streams event frames until the client
// goes away. Clients only listen; reads exist to detect disconnects.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error response.
		h.log.Warnw("ws upgrade failed", "error", err)
		return
	}

	h.hub.Register(conn)
	defer h.hub.Unregister(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) writeStatus(w http.ResponseWriter, code int) {
	status := h.controller.Status()
	status.Text = h.sink.StatusText()
	writeJSON(w, code, status)
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
