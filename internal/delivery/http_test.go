package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"voicedash/internal/delivery/ws"
	"voicedash/internal/domain"
	"voicedash/internal/usecase"
)

type fakeController struct {
	startErr error
	stopErr  error
	status   domain.Status

	startCalls int
	stopCalls  int
}

func (f *fakeController) StartCapture(_ context.Context) error {
	f.startCalls++
	return f.startErr
}

func (f *fakeController) StopCapture() error {
	f.stopCalls++
	return f.stopErr
}

func (f *fakeController) Status() domain.Status { return f.status }

func newTestHandler(controller *fakeController) (*Handler, *Sink) {
	log := zap.NewNop().Sugar()
	hub := ws.NewHub(log)
	sink := NewSink(hub, log)
	handler := NewHandler(controller, sink, hub, RuntimeInfo{"phoneRegion": "US"}, log)
	return handler, sink
}

func newTestServer(t *testing.T, handler *Handler) *httptest.Server {
	t.Helper()
	router := chi.NewRouter()
	RegisterRoutes(router, handler)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func decodeStatus(t *testing.T, resp *http.Response) domain.Status {
	t.Helper()
	defer resp.Body.Close()
	var status domain.Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode status: %v", err)
	}
	return status
}

func TestStartCaptureAccepted(t *testing.T) {
	t.Parallel()

	controller := &fakeController{status: domain.Status{State: domain.SessionStateListening, Active: true}}
	handler, sink := newTestHandler(controller)
	sink.StatusChanged("listening")
	server := newTestServer(t, handler)

	resp, err := http.Post(server.URL+"/api/v1/capture/start", "", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	status := decodeStatus(t, resp)
	if status.State != domain.SessionStateListening || !status.Active {
		t.Fatalf("unexpected status payload: %+v", status)
	}
	if status.Text != "listening" {
		t.Fatalf("expected projected status text, got %q", status.Text)
	}
	if controller.startCalls != 1 {
		t.Fatalf("expected one start call, got %d", controller.startCalls)
	}
}

func TestStartCaptureConflictsAndPermission(t *testing.T) {
	t.Parallel()

	controller := &fakeController{startErr: usecase.ErrCaptureActive}
	handler, _ := newTestHandler(controller)
	server := newTestServer(t, handler)

	resp, err := http.Post(server.URL+"/api/v1/capture/start", "", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for active capture, got %d", resp.StatusCode)
	}

	controller.startErr = usecase.ErrMicrophoneBlocked
	resp, err = http.Post(server.URL+"/api/v1/capture/start", "", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for blocked microphone, got %d", resp.StatusCode)
	}
}

func TestStopCapture(t *testing.T) {
	t.Parallel()

	controller := &fakeController{status: domain.Status{State: domain.SessionStateProcessing, Active: true}}
	handler, _ := newTestHandler(controller)
	server := newTestServer(t, handler)

	resp, err := http.Post(server.URL+"/api/v1/capture/stop", "", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	status := decodeStatus(t, resp)
	if resp.StatusCode != http.StatusOK || status.State != domain.SessionStateProcessing {
		t.Fatalf("unexpected stop response: %d %+v", resp.StatusCode, status)
	}

	controller.stopErr = usecase.ErrNoActiveCapture
	resp, err = http.Post(server.URL+"/api/v1/capture/stop", "", nil)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 without active capture, got %d", resp.StatusCode)
	}
}

func TestGetStatusProjectsUnknownUtterance(t *testing.T) {
	t.Parallel()

	controller := &fakeController{status: domain.Status{State: domain.SessionStateIdle}}
	handler, sink := newTestHandler(controller)
	sink.StatusChanged("Turn Off The Lights")
	server := newTestServer(t, handler)

	resp, err := http.Get(server.URL + "/api/v1/status")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	status := decodeStatus(t, resp)
	if status.Text != "Turn Off The Lights" {
		t.Fatalf("expected verbatim utterance projection, got %q", status.Text)
	}
}

func TestGetRuntime(t *testing.T) {
	t.Parallel()

	handler, _ := newTestHandler(&fakeController{})
	server := newTestServer(t, handler)

	resp, err := http.Get(server.URL + "/api/v1/runtime")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var info map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		t.Fatalf("failed to decode runtime info: %v", err)
	}
	if info["phoneRegion"] != "US" {
		t.Fatalf("unexpected runtime info: %v", info)
	}
}

func TestServeWSRejectsPlainHTTPRequests(t *testing.T) {
	t.Parallel()

	handler, _ := newTestHandler(&fakeController{})
	server := newTestServer(t, handler)

	// No upgrade headers: the upgrader writes the error response itself.
	resp, err := http.Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for a non-websocket request, got %d", resp.StatusCode)
	}
}

func TestWebsocketReceivesEventFrames(t *testing.T) {
	t.Parallel()

	handler, sink := newTestHandler(&fakeController{})
	server := newTestServer(t, handler)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// Registration races the broadcast; retry briefly until the frame lands.
	deadline := time.Now().Add(2 * time.Second)
	_ = conn.SetReadDeadline(deadline)

	go func() {
		for time.Now().Before(deadline) {
			sink.Notify("permission denied: send_sms")
			time.Sleep(10 * time.Millisecond)
		}
	}()

	var frame map[string]any
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("failed to read frame: %v", err)
	}
	if frame["type"] != "notice" || frame["message"] != "permission denied: send_sms" {
		t.Fatalf("unexpected frame: %v", frame)
	}
}
