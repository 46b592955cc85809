package delivery

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"voicedash/internal/delivery/ws"
	"voicedash/internal/domain"
)

// Frame types pushed to UI clients.
const (
	frameSession = "session"
	frameStatus  = "status"
	frameAction  = "action"
	frameNotice  = "notice"
	frameError   = "error"
)

// Sink projects backend events to websocket clients and keeps the latest
// status line for polling clients.
type Sink struct {
	hub *ws.Hub
	log *zap.SugaredLogger

	mu     sync.Mutex
	status string
}

func NewSink(hub *ws.Hub, log *zap.SugaredLogger) *Sink {
	return &Sink{hub: hub, log: log, status: domain.StatusReady}
}

// StatusText returns the most recent status projection.
func (s *Sink) StatusText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Sink) SessionStateChanged(state domain.SessionState, sessionID string) {
	s.push(map[string]any{
		"type":    frameSession,
		"state":   state,
		"session": sessionID,
	})
}

func (s *Sink) StatusChanged(text string) {
	s.mu.Lock()
	s.status = text
	s.mu.Unlock()

	s.push(map[string]any{
		"type": frameStatus,
		"text": text,
	})
}

func (s *Sink) ActionRequested(req domain.ActionRequest, outcome domain.ActionOutcome) {
	s.push(map[string]any{
		"type":    frameAction,
		"request": req,
		"outcome": outcome,
	})
}

func (s *Sink) Notify(message string) {
	s.push(map[string]any{
		"type":    frameNotice,
		"message": message,
	})
}

func (s *Sink) SessionError(code domain.ErrorCode, detail string) {
	s.push(map[string]any{
		"type":   frameError,
		"code":   code,
		"detail": detail,
	})
}

func (s *Sink) push(frame map[string]any) {
	payload, err := json.Marshal(frame)
	if err != nil {
		s.log.Errorw("failed to encode event frame", "error", err)
		return
	}
	s.hub.Broadcast(payload)
}
