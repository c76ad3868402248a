package gameapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kilianp07/kitflow/infra/logger"
)

// ErrSessionEnded is returned by PlayRound when the server reports the
// session is over. It signals the normal end of a game, not a fault.
var ErrSessionEnded = errors.New("gameapi: session already ended")

// Config defines the connection parameters for the scoring server.
type Config struct {
	BaseURL   string `json:"base_url"`
	APIKey    string `json:"api_key"`
	TimeoutMS int    `json:"timeout_ms"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = "http://127.0.0.1:8080/api/v1"
	}
	if c.TimeoutMS == 0 {
		c.TimeoutMS = 30000
	}
}

// Validate checks required fields.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("gameapi: api_key is required")
	}
	return nil
}

// Client talks to the scoring server. It is not safe for concurrent use;
// the planning loop is strictly sequential anyway.
type Client struct {
	baseURL   string
	apiKey    string
	sessionID string
	http      *http.Client
	log       logger.Logger
}

// NewClient creates a client from the configuration.
func NewClient(cfg Config) *Client {
	cfg.SetDefaults()
	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond},
		log:     logger.New("gameapi"),
	}
}

// SessionID returns the current session identifier, empty before StartSession.
func (c *Client) SessionID() string { return c.sessionID }

// StartSession opens a new game session and stores its identifier. The
// server may answer with a bare string or a JSON object.
func (c *Client) StartSession(ctx context.Context) error {
	body, status, err := c.post(ctx, "/session/start", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return fmt.Errorf("gameapi: start session failed (%d): %s", status, body)
	}
	raw := strings.TrimSpace(string(body))
	if strings.HasPrefix(raw, "{") {
		var resp struct {
			SessionID string `json:"sessionId"`
			ID        string `json:"id"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return fmt.Errorf("gameapi: decode session: %w", err)
		}
		switch {
		case resp.SessionID != "":
			c.sessionID = resp.SessionID
		case resp.ID != "":
			c.sessionID = resp.ID
		default:
			c.sessionID = raw
		}
	} else {
		c.sessionID = strings.ReplaceAll(raw, `"`, "")
	}
	c.log.Infof("session started: %s", c.sessionID)
	return nil
}

// EndSession closes the current session. Errors are logged, not returned;
// the game is over either way.
func (c *Client) EndSession(ctx context.Context) {
	if c.sessionID == "" {
		return
	}
	if _, _, err := c.post(ctx, "/session/end", nil); err != nil {
		c.log.Errorf("end session: %v", err)
	}
	c.sessionID = ""
}

// PlayRound submits one round and returns the server's updates. A 400
// response naming an ended session translates to ErrSessionEnded.
func (c *Client) PlayRound(ctx context.Context, req RoundRequest) (*RoundResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	body, status, err := c.post(ctx, "/play/round", payload)
	if err != nil {
		return nil, err
	}
	if status == http.StatusBadRequest && strings.Contains(string(body), "Session already ended") {
		return nil, ErrSessionEnded
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("gameapi: server error %d: %s", status, body)
	}
	var resp RoundResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("gameapi: decode round response: %w", err)
	}
	return &resp, nil
}

func (c *Client) post(ctx context.Context, path string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("API-KEY", c.apiKey)
	if c.sessionID != "" {
		req.Header.Set("SESSION-ID", c.sessionID)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
