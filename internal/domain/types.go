package domain

// SessionState models the voice capture lifecycle.
type SessionState string

const (
	SessionStateIdle       SessionState = "idle"
	SessionStateListening  SessionState = "listening"
	SessionStateProcessing SessionState = "processing"
)

// Permission identifies a host-platform capability the app may need.
type Permission string

const (
	PermissionRecordAudio       Permission = "record_audio"
	PermissionCallPhone         Permission = "call_phone"
	PermissionSendSMS           Permission = "send_sms"
	PermissionPostNotifications Permission = "post_notifications"
)

// PermissionState is the grant status of a single permission.
type PermissionState string

const (
	PermissionGranted       PermissionState = "granted"
	PermissionDenied        PermissionState = "denied"
	PermissionNotDetermined PermissionState = "not_determined"
)

// CommandKind tags the structured result of interpreting an utterance.
type CommandKind string

const (
	CommandNavigate  CommandKind = "navigate"
	CommandCall      CommandKind = "call"
	CommandMessage   CommandKind = "message"
	CommandPlayMedia CommandKind = "play_media"
	CommandOpenChat  CommandKind = "open_chat"
	CommandUnknown   CommandKind = "unknown"
)

// Command is the interpreted form of one utterance. Exactly one is produced
// per utterance. Optional fields use the empty string for "absent": every
// present value is non-empty by construction.
type Command struct {
	Kind        CommandKind `json:"kind"`
	Destination string      `json:"destination,omitempty"`
	Number      string      `json:"number,omitempty"`
	Body        string      `json:"body,omitempty"`
	RawText     string      `json:"rawText,omitempty"`
}

// ActionKind identifies an abstract external-action request to the host platform.
type ActionKind string

const (
	ActionOpenNavigation      ActionKind = "open_navigation"
	ActionPlaceCall           ActionKind = "place_call"
	ActionOpenDialer          ActionKind = "open_dialer"
	ActionOpenMessageComposer ActionKind = "open_message_composer"
	ActionLaunchApp           ActionKind = "launch_app"
)

// ActionRequest asks the host platform to open or launch a capability.
type ActionRequest struct {
	Kind        ActionKind `json:"kind"`
	Destination string     `json:"destination,omitempty"`
	Number      string     `json:"number,omitempty"`
	Body        string     `json:"body,omitempty"`
	AppID       string     `json:"appId,omitempty"`
}

// ActionOutcome reports whether the platform resolved a handler for a request.
type ActionOutcome string

const (
	ActionResolved   ActionOutcome = "resolved"
	ActionUnresolved ActionOutcome = "unresolved"
)

// EngineEventKind identifies a recognition lifecycle event from the speech engine.
type EngineEventKind string

const (
	EngineEventPartial     EngineEventKind = "partial"
	EngineEventEndOfSpeech EngineEventKind = "end_of_speech"
	EngineEventFinal       EngineEventKind = "final"
	EngineEventError       EngineEventKind = "error"
)

// EngineEvent is one recognition event delivered by the speech engine. For a
// single capture session any number of partials precede exactly one terminal
// final or error event.
type EngineEvent struct {
	Kind    EngineEventKind `json:"kind"`
	Text    string          `json:"text,omitempty"`
	Message string          `json:"message,omitempty"`
}

// ErrorCode identifies non-fatal backend errors surfaced to the operator.
type ErrorCode string

const (
	ErrorCodeStartup     ErrorCode = "startup"
	ErrorCodeRecognition ErrorCode = "recognition"
)

// ReportOutcome is the best-effort result of posting an utterance to the
// companion service. StatusCode -1 means the transport failed.
type ReportOutcome struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Status summarizes the current session for UI clients.
type Status struct {
	State  SessionState `json:"state"`
	Active bool         `json:"active"`
	Text   string       `json:"text,omitempty"`
}

// Status text values projected by the session controller.
const (
	StatusReady      = "ready"
	StatusListening  = "listening"
	StatusProcessing = "processing"
)
