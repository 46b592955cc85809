package usecase

import (
	"context"
	"errors"
	"sync"

	"voicedash/internal/domain"
	"voicedash/internal/ports"
)

type fakeEngine struct {
	mu       sync.Mutex
	sessions []ports.RecognizerSession
	err      error
	calls    int
}

func (f *fakeEngine) Start(_ context.Context, _ string) (ports.RecognizerSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.calls >= len(f.sessions) {
		return nil, errors.New("no recognizer session configured")
	}
	session := f.sessions[f.calls]
	f.calls++
	return session, nil
}

type fakeRecognizerSession struct {
	events chan domain.EngineEvent

	mu         sync.Mutex
	stopCalls  int
	closeCalls int
	closed     bool
}

func newFakeRecognizerSession() *fakeRecognizerSession {
	return &fakeRecognizerSession{events: make(chan domain.EngineEvent, 16)}
}

func (f *fakeRecognizerSession) Events() <-chan domain.EngineEvent { return f.events }

func (f *fakeRecognizerSession) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	return nil
}

func (f *fakeRecognizerSession) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closeCalls++
	if !f.closed {
		close(f.events)
		f.closed = true
	}
	return nil
}

func (f *fakeRecognizerSession) snapshotStops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopCalls
}

type fakeInterpreter struct {
	mu     sync.Mutex
	result domain.Command
	inputs []string

	// observe is invoked synchronously on every call, letting tests capture
	// the controller state at interpretation time.
	observe func()
}

func (f *fakeInterpreter) Interpret(text string) domain.Command {
	f.mu.Lock()
	f.inputs = append(f.inputs, text)
	observe := f.observe
	f.mu.Unlock()
	if observe != nil {
		observe()
	}
	return f.result
}

func (f *fakeInterpreter) snapshotInputs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.inputs))
	copy(out, f.inputs)
	return out
}

type fakeDispatcher struct {
	mu       sync.Mutex
	commands []domain.Command
	notify   chan struct{}
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{notify: make(chan struct{}, 16)}
}

func (f *fakeDispatcher) Dispatch(_ context.Context, cmd domain.Command) {
	f.mu.Lock()
	f.commands = append(f.commands, cmd)
	f.mu.Unlock()
	f.notify <- struct{}{}
}

func (f *fakeDispatcher) snapshotCommands() []domain.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Command, len(f.commands))
	copy(out, f.commands)
	return out
}

type fakeReporter struct {
	mu    sync.Mutex
	texts []string
}

func (f *fakeReporter) Submit(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
}

func (f *fakeReporter) snapshotTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.texts))
	copy(out, f.texts)
	return out
}

type fakeLauncher struct {
	mu       sync.Mutex
	requests []domain.ActionRequest

	// unresolved lists action kinds or app ids that have no handler.
	unresolvedKinds map[domain.ActionKind]bool
	unresolvedApps  map[string]bool
}

func (f *fakeLauncher) Open(_ context.Context, req domain.ActionRequest) domain.ActionOutcome {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if f.unresolvedKinds[req.Kind] {
		return domain.ActionUnresolved
	}
	if req.AppID != "" && f.unresolvedApps[req.AppID] {
		return domain.ActionUnresolved
	}
	return domain.ActionResolved
}

func (f *fakeLauncher) snapshotRequests() []domain.ActionRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.ActionRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

type fakePermissionService struct {
	mu        sync.Mutex
	states    map[domain.Permission]domain.PermissionState
	grant     map[domain.Permission]domain.PermissionState
	requested chan []domain.Permission
}

func newFakePermissionService() *fakePermissionService {
	return &fakePermissionService{
		states:    make(map[domain.Permission]domain.PermissionState),
		grant:     make(map[domain.Permission]domain.PermissionState),
		requested: make(chan []domain.Permission, 16),
	}
}

func (f *fakePermissionService) set(p domain.Permission, s domain.PermissionState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[p] = s
}

func (f *fakePermissionService) Check(p domain.Permission) domain.PermissionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	if state, ok := f.states[p]; ok {
		return state
	}
	return domain.PermissionNotDetermined
}

func (f *fakePermissionService) Request(_ context.Context, permissions []domain.Permission) map[domain.Permission]domain.PermissionState {
	results := make(map[domain.Permission]domain.PermissionState, len(permissions))
	f.mu.Lock()
	for _, p := range permissions {
		state, ok := f.grant[p]
		if !ok {
			state = domain.PermissionGranted
		}
		f.states[p] = state
		results[p] = state
	}
	f.mu.Unlock()

	f.requested <- permissions
	return results
}

type fakeEventSink struct {
	mu sync.Mutex

	states   []stateEvent
	statuses []string
	actions  []actionEvent
	notices  []string
	errors   []errEvent
}

type stateEvent struct {
	state     domain.SessionState
	sessionID string
}

type actionEvent struct {
	req     domain.ActionRequest
	outcome domain.ActionOutcome
}

type errEvent struct {
	code   domain.ErrorCode
	detail string
}

func (f *fakeEventSink) SessionStateChanged(state domain.SessionState, sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, stateEvent{state: state, sessionID: sessionID})
}

func (f *fakeEventSink) StatusChanged(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, text)
}

func (f *fakeEventSink) ActionRequested(req domain.ActionRequest, outcome domain.ActionOutcome) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, actionEvent{req: req, outcome: outcome})
}

func (f *fakeEventSink) Notify(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, message)
}

func (f *fakeEventSink) SessionError(code domain.ErrorCode, detail string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, errEvent{code: code, detail: detail})
}

func (f *fakeEventSink) snapshotStates() []stateEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]stateEvent, len(f.states))
	copy(out, f.states)
	return out
}

func (f *fakeEventSink) snapshotStatuses() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.statuses))
	copy(out, f.statuses)
	return out
}

func (f *fakeEventSink) snapshotNotices() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.notices))
	copy(out, f.notices)
	return out
}

func (f *fakeEventSink) snapshotErrors() []errEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]errEvent, len(f.errors))
	copy(out, f.errors)
	return out
}
