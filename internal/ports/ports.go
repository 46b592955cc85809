package ports

import (
	"context"

	"voicedash/internal/domain"
)

// RecognizerSession is one live capture session of the speech engine. The
// events channel closes when the engine finishes or the session is closed.
type RecognizerSession interface {
	Events() <-chan domain.EngineEvent
	Stop() error
	Close() error
}

// SpeechEngine starts recognizer capture sessions.
type SpeechEngine interface {
	Start(ctx context.Context, sessionID string) (RecognizerSession, error)
}

// ActionLauncher hands an external-action request to the host platform.
type ActionLauncher interface {
	Open(ctx context.Context, req domain.ActionRequest) domain.ActionOutcome
}

// PermissionService exposes the host platform's permission surface.
// Request reports the resulting state of every requested permission.
type PermissionService interface {
	Check(permission domain.Permission) domain.PermissionState
	Request(ctx context.Context, permissions []domain.Permission) map[domain.Permission]domain.PermissionState
}

// Reporter forwards a recognized utterance to the companion service
// best-effort; the outcome is never awaited by callers.
type Reporter interface {
	Submit(text string)
}

// EventSink emits session state and user-visible notices to the UI.
type EventSink interface {
	SessionStateChanged(state domain.SessionState, sessionID string)
	StatusChanged(text string)
	ActionRequested(req domain.ActionRequest, outcome domain.ActionOutcome)
	Notify(message string)
	SessionError(code domain.ErrorCode, detail string)
}
