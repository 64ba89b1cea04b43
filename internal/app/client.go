package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to the Oratio backend. The bearer token is attached by
// authTransport when a request actually goes out, so credential changes
// (login, logout) are observed by every subsequent call without rebuilding
// the client.
type Client struct {
	BaseURL string
	HTTP    *http.Client

	session *SessionStore
	logger  *Logger
}

// authTransport reads the session store per request. It never caches the
// token: a request issued after Logout carries no credential.
type authTransport struct {
	session *SessionStore
	base    http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if tok := t.session.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}

func NewClient(baseURL string, timeout time.Duration, session *SessionStore, logger *Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: &authTransport{session: session},
		},
		session: session,
		logger:  logger,
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Error("request failed", map[string]interface{}{"method": method, "path": path, "error": err.Error()})
		}
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(data, &detail)
		if c.logger != nil {
			c.logger.Error("server error", map[string]interface{}{"method": method, "path": path, "status": resp.StatusCode, "detail": detail.Detail})
		}
		return &APIError{Status: resp.StatusCode, Detail: detail.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges credentials for a token. It does not store the token; the
// session store is the caller's concern.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", credentials{Email: email, Password: password}, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func (c *Client) Signup(ctx context.Context, email, password string) (string, error) {
	var out tokenResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/signup", credentials{Email: email, Password: password}, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Analyze(ctx context.Context, text string) (*AnalysisResult, error) {
	var out AnalysisResult
	body := struct {
		Text string `json:"text"`
	}{Text: text}
	if err := c.doJSON(ctx, http.MethodPost, "/analyze", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History fetches one page of past analyses, newest first.
func (c *Client) History(ctx context.Context, limit, offset int) (*HistoryPage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	var out HistoryPage
	if err := c.doJSON(ctx, http.MethodGet, "/chat/history?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteHistory(ctx context.Context, id int) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/chat/history/%d", id), nil, nil)
}

func (c *Client) ClearHistory(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/chat/history", nil, nil)
}
