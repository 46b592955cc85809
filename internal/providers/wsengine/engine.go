// Package wsengine connects to the speech-engine gateway over websocket and
// adapts its event stream into recognizer sessions.
package wsengine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"voicedash/internal/domain"
	"voicedash/internal/ports"
)

// Config controls the gateway connection.
type Config struct {
	URL         string
	DialTimeout time.Duration
}

// Engine implements ports.SpeechEngine against the gateway protocol.
type Engine struct {
	cfg Config
	log *zap.SugaredLogger
}

func NewEngine(cfg Config, log *zap.SugaredLogger) *Engine {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	return &Engine{cfg: cfg, log: log}
}

type controlMessage struct {
	Type    string `json:"type"`
	Session string `json:"session,omitempty"`
}

type gatewayEvent struct {
	Event   string `json:"event"`
	Text    string `json:"text"`
	Message string `json:"message"`
}

// Start dials the gateway and begins one capture session. The session's event
// channel closes when the gateway finishes or the session is closed.
func (e *Engine) Start(ctx context.Context, sessionID string) (ports.RecognizerSession, error) {
	if strings.TrimSpace(e.cfg.URL) == "" {
		return nil, errors.New("speech engine URL is not configured")
	}

	dialer := websocket.Dialer{HandshakeTimeout: e.cfg.DialTimeout}
	conn, _, err := dialer.DialContext(ctx, e.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to speech engine: %w", err)
	}

	s := &session{
		conn:   conn,
		log:    e.log,
		events: make(chan domain.EngineEvent, 32),
		done:   make(chan struct{}),
	}

	if err := s.writeControl(controlMessage{Type: "start", Session: sessionID}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to start capture: %w", err)
	}

	go s.readLoop()
	go func() {
		// Also watch done: a ctx that is never cancelled must not pin this
		// goroutine past the session's lifetime.
		select {
		case <-ctx.Done():
			_ = s.Close()
		case <-s.done:
		}
	}()

	return s, nil
}

type session struct {
	conn *websocket.Conn
	log  *zap.SugaredLogger

	events chan domain.EngineEvent
	done   chan struct{}

	writeMu   sync.Mutex
	stopOnce  sync.Once
	closeOnce sync.Once
}

func (s *session) Events() <-chan domain.EngineEvent { return s.events }

// Stop asks the engine to finish recognizing; the terminal event still
// arrives through the event channel.
func (s *session) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		err = s.writeControl(controlMessage{Type: "stop"})
	})
	return err
}

func (s *session) Close() error {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
	})
	<-s.done
	return nil
}

func (s *session) writeControl(msg controlMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(msg)
}

func (s *session) readLoop() {
	defer func() {
		close(s.events)
		close(s.done)
	}()

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if !isExpectedClose(err) {
				s.log.Debugw("engine stream ended", "error", err)
			}
			return
		}

		var raw gatewayEvent
		if err := json.Unmarshal(payload, &raw); err != nil {
			continue
		}

		event, terminal, ok := translate(raw)
		if !ok {
			continue
		}
		s.emit(event)
		if terminal {
			return
		}
	}
}

func translate(raw gatewayEvent) (domain.EngineEvent, bool, bool) {
	switch raw.Event {
	case "partial":
		return domain.EngineEvent{Kind: domain.EngineEventPartial, Text: raw.Text}, false, true
	case "end_of_speech":
		return domain.EngineEvent{Kind: domain.EngineEventEndOfSpeech}, false, true
	case "final":
		return domain.EngineEvent{Kind: domain.EngineEventFinal, Text: raw.Text}, true, true
	case "error":
		message := strings.TrimSpace(raw.Message)
		if message == "" {
			message = "speech engine reported an unknown error"
		}
		return domain.EngineEvent{Kind: domain.EngineEventError, Message: message}, true, true
	default:
		return domain.EngineEvent{}, false, false
	}
}

func (s *session) emit(event domain.EngineEvent) {
	select {
	case s.events <- event:
	default:
		s.log.Warnw("engine event dropped, consumer too slow", "kind", event.Kind)
	}
}

func isExpectedClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	)
}
