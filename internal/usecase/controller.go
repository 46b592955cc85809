package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"voicedash/internal/domain"
	"voicedash/internal/ports"
)

var (
	ErrCaptureActive     = errors.New("a capture session is already active")
	ErrNoActiveCapture   = errors.New("no active capture session")
	ErrMicrophoneBlocked = errors.New("record_audio permission is not granted")
	ErrEngineUnavailable = errors.New("speech engine is unavailable")
)

// CommandInterpreter turns final utterance text into a structured command.
type CommandInterpreter interface {
	Interpret(text string) domain.Command
}

// CommandDispatcher forwards an interpreted command to the host platform.
type CommandDispatcher interface {
	Dispatch(ctx context.Context, cmd domain.Command)
}

// SessionController owns the capture lifecycle state machine. All transitions
// happen under one mutex, so handlers never run concurrently and the
// controller is the single writer of session state.
type SessionController struct {
	engine      ports.SpeechEngine
	gate        *PermissionGate
	interpreter CommandInterpreter
	dispatcher  CommandDispatcher
	reporter    ports.Reporter
	events      ports.EventSink

	mu      sync.Mutex
	state   domain.SessionState
	current *captureSession
}

type captureSession struct {
	id      string
	ctx     context.Context
	session ports.RecognizerSession
	done    chan struct{}
}

func NewSessionController(
	engine ports.SpeechEngine,
	gate *PermissionGate,
	interpreter CommandInterpreter,
	dispatcher CommandDispatcher,
	reporter ports.Reporter,
	events ports.EventSink,
) *SessionController {
	return &SessionController{
		engine:      engine,
		gate:        gate,
		interpreter: interpreter,
		dispatcher:  dispatcher,
		reporter:    reporter,
		events:      events,
		state:       domain.SessionStateIdle,
	}
}

// StartCapture begins a capture session: Idle -> Listening. Without the
// record_audio grant it notifies, requests the permission, and stays Idle.
func (c *SessionController) StartCapture(ctx context.Context) error {
	c.mu.Lock()
	if c.state != domain.SessionStateIdle {
		c.mu.Unlock()
		return ErrCaptureActive
	}
	c.mu.Unlock()

	if c.gate.Status(domain.PermissionRecordAudio) != domain.PermissionGranted {
		c.events.Notify("permission required: " + string(domain.PermissionRecordAudio))
		c.gate.Request(ctx, domain.PermissionRecordAudio)
		return ErrMicrophoneBlocked
	}

	id := uuid.NewString()
	session, err := c.engine.Start(ctx, id)
	if err != nil {
		c.events.SessionError(domain.ErrorCodeRecognition, err.Error())
		return errors.Join(ErrEngineUnavailable, err)
	}

	active := &captureSession{
		id:      id,
		ctx:     ctx,
		session: session,
		done:    make(chan struct{}),
	}

	c.mu.Lock()
	if c.state != domain.SessionStateIdle {
		c.mu.Unlock()
		_ = session.Close()
		return ErrCaptureActive
	}
	c.state = domain.SessionStateListening
	c.current = active
	c.mu.Unlock()

	c.events.SessionStateChanged(domain.SessionStateListening, id)
	c.events.StatusChanged(domain.StatusListening)

	go c.consumeEvents(active)
	return nil
}

// StopCapture is the explicit release trigger: Listening -> Processing. The
// engine's terminal event completes the cycle back to Idle.
func (c *SessionController) StopCapture() error {
	c.mu.Lock()
	if c.current == nil || c.state != domain.SessionStateListening {
		c.mu.Unlock()
		return ErrNoActiveCapture
	}
	active := c.current
	c.state = domain.SessionStateProcessing
	c.mu.Unlock()

	c.events.SessionStateChanged(domain.SessionStateProcessing, active.id)
	c.events.StatusChanged(domain.StatusProcessing)
	return active.session.Stop()
}

// Status reports the current machine state.
func (c *SessionController) Status() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Status{State: c.state, Active: c.state != domain.SessionStateIdle}
}

// consumeEvents serializes engine callbacks into state transitions. It is the
// only reader of the session's event channel.
func (c *SessionController) consumeEvents(active *captureSession) {
	defer close(active.done)

	terminal := false
	for event := range active.session.Events() {
		switch event.Kind {
		case domain.EngineEventPartial:
			c.handlePartial(active, event.Text)
		case domain.EngineEventEndOfSpeech:
			c.handleCaptureEnded(active)
		case domain.EngineEventFinal:
			terminal = true
			c.handleFinal(active, event.Text)
		case domain.EngineEventError:
			terminal = true
			c.handleRecognitionError(active, event.Message)
		}
		if terminal {
			break
		}
	}

	if !terminal {
		// The engine went away without a terminal event; treat it as an error
		// so the machine cannot strand in listening/processing.
		c.handleRecognitionError(active, "recognizer stream closed unexpectedly")
	}

	_ = active.session.Close()
}

func (c *SessionController) handlePartial(active *captureSession, text string) {
	c.mu.Lock()
	stale := c.current != active || c.state != domain.SessionStateListening
	c.mu.Unlock()
	if stale || strings.TrimSpace(text) == "" {
		return
	}
	c.events.StatusChanged("… " + text)
}

func (c *SessionController) handleCaptureEnded(active *captureSession) {
	c.mu.Lock()
	if c.current != active || c.state != domain.SessionStateListening {
		c.mu.Unlock()
		return
	}
	c.state = domain.SessionStateProcessing
	c.mu.Unlock()

	c.events.SessionStateChanged(domain.SessionStateProcessing, active.id)
	c.events.StatusChanged(domain.StatusProcessing)
}

// handleFinal completes the cycle to Idle and, for non-empty text, reports the
// utterance and dispatches the interpreted command. This is the only place the
// interpreter runs: at most once per capture session.
func (c *SessionController) handleFinal(active *captureSession, text string) {
	c.mu.Lock()
	if c.current != active {
		c.mu.Unlock()
		return
	}
	c.state = domain.SessionStateIdle
	c.current = nil
	c.mu.Unlock()

	c.events.SessionStateChanged(domain.SessionStateIdle, active.id)
	c.events.StatusChanged(domain.StatusReady)

	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	c.reporter.Submit(text)
	c.dispatcher.Dispatch(active.ctx, c.interpreter.Interpret(text))
}

func (c *SessionController) handleRecognitionError(active *captureSession, detail string) {
	c.mu.Lock()
	if c.current != active {
		c.mu.Unlock()
		return
	}
	c.state = domain.SessionStateIdle
	c.current = nil
	c.mu.Unlock()

	c.events.SessionStateChanged(domain.SessionStateIdle, active.id)
	c.events.StatusChanged(domain.StatusReady)
	c.events.SessionError(domain.ErrorCodeRecognition, detail)
}
