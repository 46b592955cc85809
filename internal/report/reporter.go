// Package report posts recognized utterances to the companion service.
// Reporting is best-effort: outcomes are logged, never returned to the
// session flow, and transport failures are contained here.
package report

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"voicedash/internal/domain"
)

const (
	commandPath    = "/api/v1/command"
	connectTimeout = 3 * time.Second
	readTimeout    = 5 * time.Second
)

// Client reports utterances to {baseURL}/api/v1/command. Submit queues a
// report for a single worker goroutine; Report performs one synchronous call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.SugaredLogger

	queue     chan string
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient starts the report worker. Close must be called to stop it.
func NewClient(baseURL string, queueSize int, log *zap.SugaredLogger) *Client {
	if queueSize <= 0 {
		queueSize = 16
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: readTimeout,
			Transport: &http.Transport{
				DialContext:           (&net.Dialer{Timeout: connectTimeout}).DialContext,
				ResponseHeaderTimeout: readTimeout,
			},
		},
		log:   log,
		queue: make(chan string, queueSize),
		done:  make(chan struct{}),
	}

	go c.worker()
	return c
}

// Submit enqueues a report and returns immediately. When the queue is full
// the report is dropped; the companion service is advisory only.
func (c *Client) Submit(text string) {
	select {
	case c.queue <- text:
	default:
		c.log.Warnw("report queue full, dropping utterance", "length", len(text))
	}
}

// Close stops accepting reports and waits for the worker to drain the queue.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.queue)
	})
	<-c.done
}

func (c *Client) worker() {
	defer close(c.done)

	for text := range c.queue {
		outcome := c.Report(context.Background(), text)
		if outcome.StatusCode < 0 {
			c.log.Warnw("command report failed", "detail", outcome.Body)
			continue
		}
		c.log.Debugw("command reported", "status", outcome.StatusCode)
	}
}

// Report posts one utterance as a form-encoded body. It never returns an
// error: any transport failure becomes Outcome{-1, message}.
func (c *Client) Report(ctx context.Context, text string) domain.ReportOutcome {
	form := url.Values{"text": []string{text}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+commandPath, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.ReportOutcome{StatusCode: -1, Body: err.Error()}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ReportOutcome{StatusCode: -1, Body: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ReportOutcome{StatusCode: -1, Body: err.Error()}
	}

	return domain.ReportOutcome{StatusCode: resp.StatusCode, Body: string(body)}
}
