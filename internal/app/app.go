package app

import (
	"context"
	"strings"
)

// Application wires the client, session store and history engine together.
// The TUI and the cobra subcommands both sit on top of it.
type Application struct {
	Config  Config
	Logger  *Logger
	Client  *Client
	Session *SessionStore
	History *HistorySync
}

func NewApplication(cfg Config) *Application {
	logger := NewLogger(DefaultLogWriter())
	session := NewSessionStore(cfg.SessionPath)
	client := NewClient(cfg.BaseURL, cfg.Timeout(), session, logger)
	return &Application{
		Config:  cfg,
		Logger:  logger,
		Client:  client,
		Session: session,
		History: NewHistorySync(client, cfg.PageSize),
	}
}

// Analyze submits one text for bias analysis. Validation happens before any
// network traffic; history refresh is the caller's concern (the TUI parent
// wires the analyze panel's completion to the history panel's refresh).
func (a *Application) Analyze(ctx context.Context, text string) (*AnalysisResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if !a.Session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	result, err := a.Client.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}
	a.Logger.Info("analysis completed", map[string]interface{}{
		"score":        result.Summary.Score,
		"biased_count": result.Summary.BiasedCount,
	})
	return result, nil
}

// Login authenticates against the backend, stores the token and then fills in
// the account info. A failing /auth/me does not fail the login; the user
// field just lags until the next fetch.
func (a *Application) Login(ctx context.Context, email, password string) error {
	token, err := a.Client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.Session.Login(token); err != nil {
		return err
	}
	if u, err := a.Client.Me(ctx); err == nil {
		_ = a.Session.SetUser(u)
	}
	a.Logger.Info("logged in", map[string]interface{}{"email": email})
	return nil
}

func (a *Application) Signup(ctx context.Context, email, password string) error {
	token, err := a.Client.Signup(ctx, email, password)
	if err != nil {
		return err
	}
	if err := a.Session.Login(token); err != nil {
		return err
	}
	if u, err := a.Client.Me(ctx); err == nil {
		_ = a.Session.SetUser(u)
	}
	a.Logger.Info("signed up", map[string]interface{}{"email": email})
	return nil
}

func (a *Application) Logout() error {
	a.Logger.Info("logged out", nil)
	return a.Session.Logout()
}
