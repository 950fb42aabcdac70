package invoker

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"volpanel/internal/bridge"
	"volpanel/internal/domain"
	"volpanel/internal/logging"
)

// EventVolumeChanged is the SSE event name carrying state changes.
const EventVolumeChanged = "volume_changed"

// maxBody bounds how much of a response is read.
const maxBody = 1 << 20

// HTTPInvoker implements bridge.Invoker over the backend's HTTP endpoint.
// This is a secondary adapter.
type HTTPInvoker struct {
	baseURL string
	client  *http.Client
}

// NewHTTPInvoker creates an invoker for the backend at baseURL.
// timeout bounds each call; subscriptions are not bounded.
func NewHTTPInvoker(baseURL string, timeout time.Duration) (*HTTPInvoker, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse backend URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend URL must be http or https: %q", baseURL)
	}
	return &HTTPInvoker{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Invoke POSTs args to /invoke/{command} and returns the response body.
func (h *HTTPInvoker) Invoke(ctx context.Context, command string, args map[string]any) (json.RawMessage, error) {
	if args == nil {
		args = map[string]any{}
	}
	body, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("marshal args: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/invoke/"+url.PathEscape(command), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	logging.Tracef("invoke %s %d %s", command, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, remoteError(resp.StatusCode, data)
	}
	return json.RawMessage(data), nil
}

// RemoteError is an error reported by the backend.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

func remoteError(status int, body []byte) error {
	var payload struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(body))
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		msg = payload.Error
	}
	return &RemoteError{Status: status, Message: msg}
}

// Subscribe follows the backend's event stream and calls fn for every
// volume_changed event until ctx is cancelled or the stream ends.
func (h *HTTPInvoker) Subscribe(ctx context.Context, fn func(domain.AudioState)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/events", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	// The per-call timeout would cut the stream; rely on ctx instead.
	stream := &http.Client{Transport: h.client.Transport}
	resp, err := stream.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBody))
		return remoteError(resp.StatusCode, data)
	}

	err = readEvents(resp.Body, func(event, data string) {
		if event != EventVolumeChanged {
			return
		}
		state, err := bridge.CommandDialect.DecodeState([]byte(data))
		if err != nil {
			logging.Warnf("bad %s event: %v", event, err)
			return
		}
		fn(state)
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// readEvents parses a text/event-stream body, calling fn once per event.
func readEvents(r io.Reader, fn func(event, data string)) error {
	scanner := bufio.NewScanner(r)
	var event string
	var data []string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if len(data) > 0 {
				if event == "" {
					event = "message"
				}
				fn(event, strings.Join(data, "\n"))
			}
			event, data = "", nil
		case strings.HasPrefix(line, ":"):
			// comment / keepalive
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
