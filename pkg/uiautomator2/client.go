package uiautomator2

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/devicelab-dev/uiprobe/pkg/logger"
)

// DefaultTimeout bounds every HTTP round trip to the server.
const DefaultTimeout = 30 * time.Second

// Client communicates with a UIAutomator2 server.
type Client struct {
	http      *http.Client
	baseURL   string
	sessionID string
	log       *logrus.Entry
}

// NewClient creates a client over a forwarded Unix socket.
func NewClient(socketPath string) *Client {
	transport := &http.Transport{
		DialContext: func(ctx context.Context, _, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socketPath)
		},
	}

	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   DefaultTimeout,
		},
		baseURL: "http://localhost",
		log:     newLog(socketPath),
	}
}

// NewClientTCP creates a client over a forwarded TCP port.
func NewClientTCP(port int) *Client {
	return NewClientURL(fmt.Sprintf("http://127.0.0.1:%d", port))
}

// NewClientURL creates a client for an explicit base URL.
func NewClientURL(baseURL string) *Client {
	return &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		baseURL: baseURL,
		log:     newLog(baseURL),
	}
}

func newLog(endpoint string) *logrus.Entry {
	return logger.WithFields(logrus.Fields{"component": "uia2", "endpoint": endpoint})
}

// SessionID returns the current session ID.
func (c *Client) SessionID() string {
	return c.sessionID
}

// HasSession returns true if a session is active.
func (c *Client) HasSession() bool {
	return c.sessionID != ""
}

// SetSession attaches the client to an existing server session.
func (c *Client) SetSession(sessionID string) {
	c.sessionID = sessionID
}

// request makes an HTTP request to the server.
func (c *Client) request(method, path string, body interface{}) ([]byte, error) {
	start := time.Now()

	var reqBody io.Reader
	var bodyStr string
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
		bodyStr = string(data)
		if len(bodyStr) > 100 {
			bodyStr = bodyStr[:100] + "..."
		}
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	entry := c.log.WithFields(logrus.Fields{"method": method, "path": path})
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		entry.WithError(err).Debugf("request failed after %v", elapsed)
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	entry.WithField("status", resp.StatusCode).Debugf("[%v] body=%s", elapsed, bodyStr)

	if resp.StatusCode >= 400 {
		var errResp Response
		if json.Unmarshal(respBody, &errResp) == nil {
			if errVal, ok := errResp.Value.(map[string]interface{}); ok {
				errMsg, _ := errVal["message"].(string)
				errType, _ := errVal["error"].(string)
				return nil, fmt.Errorf("%s: %s", errType, errMsg)
			}
		}
		return nil, fmt.Errorf("server error %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// sessionPath returns path with session ID prefix.
func (c *Client) sessionPath(path string) string {
	return fmt.Sprintf("/session/%s%s", c.sessionID, path)
}

// Status checks if the server is ready.
func (c *Client) Status() (bool, error) {
	data, err := c.request("GET", "/status", nil)
	if err != nil {
		return false, err
	}

	var resp struct {
		Value struct {
			Ready   bool   `json:"ready"`
			Message string `json:"message"`
		} `json:"value"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return false, err
	}

	return resp.Value.Ready, nil
}

// CreateSession starts a new automation session.
func (c *Client) CreateSession(caps Capabilities) error {
	req := SessionRequest{Capabilities: caps}
	data, err := c.request("POST", "/session", req)
	if err != nil {
		return err
	}

	var resp struct {
		SessionID string `json:"sessionId"`
		Value     struct {
			SessionID string `json:"sessionId"`
		} `json:"value"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("parse session response: %w", err)
	}

	id := resp.SessionID
	if id == "" {
		id = resp.Value.SessionID
	}
	if id == "" {
		return fmt.Errorf("no session ID in response")
	}

	c.sessionID = id
	return nil
}

// DeleteSession ends the current session.
func (c *Client) DeleteSession() error {
	if c.sessionID == "" {
		return nil
	}

	_, err := c.request("DELETE", c.sessionPath(""), nil)
	c.sessionID = ""
	return err
}

// Close ends the session and cleans up.
func (c *Client) Close() error {
	return c.DeleteSession()
}

// WaitReady polls Status until the server reports ready or timeout elapses.
func (c *Client) WaitReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		ready, err := c.Status()
		if err == nil && ready {
			return nil
		}
		if time.Now().After(deadline) {
			if err != nil {
				return fmt.Errorf("server not ready: %w", err)
			}
			return fmt.Errorf("server not ready after %v", timeout)
		}
		time.Sleep(200 * time.Millisecond)
	}
}
